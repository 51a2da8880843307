// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/hashicorp/go-dbw"
	"github.com/hashicorp/stronghold/internal/errors"
	"github.com/lib/pq"
)

const (
	NoRowsAffected = 0

	// DefaultLimit is the default for search results when no limit is
	// specified via the WithLimit(int) option
	DefaultLimit = 10000

	// StdRetryCnt defines a standard retry count for transactions
	StdRetryCnt = 20
)

// Reader interface defines lookups/searching for resources
type Reader interface {
	// LookupById will lookup a resource by its primary key id, which must be
	// unique.  The resourceWithIder must implement either ResourcePublicIder
	// or ResourcePrivateIder interface.
	LookupById(ctx context.Context, resourceWithIder any, opt ...Option) error

	// LookupByPublicId will lookup resource by its public_id, which must be
	// unique.
	LookupByPublicId(ctx context.Context, resource ResourcePublicIder, opt ...Option) error

	// LookupWhere will lookup and return the first resource using a where
	// clause with parameters
	LookupWhere(ctx context.Context, resource any, where string, args []any, opt ...Option) error

	// SearchWhere will search for all the resources it can find using a where
	// clause with parameters. Supports the WithLimit option.  If
	// WithLimit < 0, then unlimited results are returned.  If WithLimit == 0,
	// then default limits are used for results.
	SearchWhere(ctx context.Context, resources any, where string, args []any, opt ...Option) error

	// Query will run the raw query and return the *sql.Rows results. Query
	// will operate within the context of any ongoing transaction for the
	// db.Reader.  The caller must close the returned *sql.Rows. Query can/should
	// be used in combination with ScanRows.
	Query(ctx context.Context, sql string, values []any, opt ...Option) (*sql.Rows, error)

	// ScanRows will scan sql rows into the interface provided
	ScanRows(ctx context.Context, rows *sql.Rows, result any) error
}

// Writer interface defines create, update and retryable transaction handlers
type Writer interface {
	// DoTx will wrap the TxHandler in a retryable transaction
	DoTx(ctx context.Context, retries uint, backOff Backoff, handler TxHandler) (RetryInfo, error)

	// Update an object in the db, fieldMask is required and provides
	// field_mask.proto paths for fields that should be updated. The i
	// parameter is the type the caller wants to update in the db and its
	// fields are set to the update values. setToNullPaths is optional and
	// provides field_mask.proto paths for the fields that should be set to
	// null.  fieldMaskPaths and setToNullPaths must not intersect.  Update
	// returns the number of rows updated or an error. Supported options:
	// WithVersion, WithWhere.
	Update(ctx context.Context, i any, fieldMaskPaths []string, setToNullPaths []string, opt ...Option) (int, error)

	// Create an object in the db.
	Create(ctx context.Context, i any, opt ...Option) error

	// CreateItems will create multiple items of the same type.  The caller is
	// responsible for the transaction life cycle of the writer and if an
	// error is returned the caller must decide what to do with the
	// transaction, which almost always should be to rollback.
	CreateItems(ctx context.Context, createItems any, opt ...Option) error

	// Delete an object in the db.  Delete returns the number of rows deleted
	// or an error. Supported options: WithWhere.
	Delete(ctx context.Context, i any, opt ...Option) (int, error)

	// DeleteItems will delete multiple items of the same type.  DeleteItems
	// returns the number of rows deleted or an error.
	DeleteItems(ctx context.Context, deleteItems any, opt ...Option) (int, error)

	// Exec will execute the sql with the values as parameters. The int
	// returned is the number of rows affected by the sql.
	Exec(ctx context.Context, sql string, values []any, opt ...Option) (int, error)

	// Query will run the raw query and return the *sql.Rows results. Query
	// will operate within the context of any ongoing transaction for the
	// db.Writer.  The caller must close the returned *sql.Rows.
	Query(ctx context.Context, sql string, values []any, opt ...Option) (*sql.Rows, error)

	// ScanRows will scan sql rows into the interface provided
	ScanRows(ctx context.Context, rows *sql.Rows, result any) error
}

// ResourcePublicIder defines an interface that LookupByPublicId() and
// LookupById() can use to get the resource's public id.
type ResourcePublicIder interface {
	GetPublicId() string
}

// VetForWriter provides an interface that Create and Update can use to vet the
// resource before before writing it to the db.  For things like enforcing
// immutable fields.
type VetForWriter interface {
	VetForWrite(ctx context.Context, r Reader, opType OpType, opt ...Option) error
}

// OpType defines a set of database operation types
type OpType int

const (
	UnknownOp OpType = 0
	CreateOp  OpType = 1
	UpdateOp  OpType = 2
	DeleteOp  OpType = 3
)

// TxHandler defines a handler for a func that writes a transaction for use
// with DoTx
type TxHandler func(Reader, Writer) error

// RetryInfo provides information on the retries of a transaction
type RetryInfo struct {
	Retries int
	Backoff time.Duration
}

// Db uses a gorm DB connection for read/write
type Db struct {
	conn func() *dbw.RW
}

// ensure that Db implements the interfaces of: Reader and Writer
var (
	_ Reader = (*Db)(nil)
	_ Writer = (*Db)(nil)
)

// New creates a Reader/Writer from the connection.  Every operation resolves
// the connection at call time, so the returned Db stays valid across swaps of
// the underlying handle.
func New(underlying *DB) *Db {
	return &Db{
		conn: func() *dbw.RW {
			return dbw.New(underlying.wrapped.Load())
		},
	}
}

func newTxDb(rw *dbw.RW) *Db {
	return &Db{
		conn: func() *dbw.RW {
			return rw
		},
	}
}

// DoTx will wrap the Handler func passed within a transaction with retries.
// You should ensure that any objects written to the db in your TxHandler are
// retryable, which means that the object may be sent to the db several times
// (retried), so things like the primary key must be reset before retry.
func (rw *Db) DoTx(ctx context.Context, retries uint, backOff Backoff, handler TxHandler) (RetryInfo, error) {
	const op = "db.(Db).DoTx"
	if backOff == nil {
		return RetryInfo{}, errors.New(ctx, errors.InvalidParameter, op, "missing backoff")
	}
	if handler == nil {
		return RetryInfo{}, errors.New(ctx, errors.InvalidParameter, op, "missing handler")
	}
	info, err := rw.conn().DoTx(ctx, isRetryableError, retries, backOff,
		func(_ dbw.Reader, w dbw.Writer) error {
			txDb := newTxDb(w.(*dbw.RW))
			return handler(txDb, txDb)
		},
	)
	ret := RetryInfo{Retries: info.Retries, Backoff: info.Backoff}
	if err != nil {
		return ret, wrapError(ctx, err, op)
	}
	return ret, nil
}

// isRetryableError matches errors where re-running the transaction handler
// from scratch can succeed, like concurrent serialization failures.  Domain
// errors are never retried.
func isRetryableError(err error) bool {
	var pqError *pq.Error
	if stderrors.As(err, &pqError) {
		if pqError.Code == "40001" { // serialization_failure
			return true
		}
	}
	return false
}

// Create an object in the db.
func (rw *Db) Create(ctx context.Context, i any, opt ...Option) error {
	const op = "db.(Db).Create"
	if err := rw.vet(ctx, i, CreateOp, opt...); err != nil {
		return errors.Wrap(ctx, err, op)
	}
	if err := rw.conn().Create(ctx, i, GetOpts(opt...).dbwOptions()...); err != nil {
		return wrapError(ctx, err, op)
	}
	return nil
}

// CreateItems will create multiple items of the same type.
func (rw *Db) CreateItems(ctx context.Context, createItems any, opt ...Option) error {
	const op = "db.(Db).CreateItems"
	if err := rw.conn().CreateItems(ctx, createItems, GetOpts(opt...).dbwOptions()...); err != nil {
		return wrapError(ctx, err, op)
	}
	return nil
}

// Update an object in the db.  Update returns the number of rows updated or
// an error.  When the WithVersion option is used and no rows match, a
// VersionMismatch error is returned so callers can distinguish a stale
// version from a successful write.
func (rw *Db) Update(ctx context.Context, i any, fieldMaskPaths []string, setToNullPaths []string, opt ...Option) (int, error) {
	const op = "db.(Db).Update"
	if err := rw.vet(ctx, i, UpdateOp, opt...); err != nil {
		return NoRowsAffected, errors.Wrap(ctx, err, op)
	}
	opts := GetOpts(opt...)
	rowsUpdated, err := rw.conn().Update(ctx, i, fieldMaskPaths, setToNullPaths, opts.dbwOptions()...)
	if err != nil {
		return NoRowsAffected, wrapError(ctx, err, op)
	}
	if rowsUpdated == NoRowsAffected && opts.WithVersion != nil {
		return NoRowsAffected, errors.New(ctx, errors.VersionMismatch, op, "updated resource version mismatch")
	}
	return rowsUpdated, nil
}

// Delete an object in the db.  Delete returns the number of rows deleted or
// an error.
func (rw *Db) Delete(ctx context.Context, i any, opt ...Option) (int, error) {
	const op = "db.(Db).Delete"
	rowsDeleted, err := rw.conn().Delete(ctx, i, GetOpts(opt...).dbwOptions()...)
	if err != nil {
		return NoRowsAffected, wrapError(ctx, err, op)
	}
	return rowsDeleted, nil
}

// DeleteItems will delete multiple items of the same type.
func (rw *Db) DeleteItems(ctx context.Context, deleteItems any, opt ...Option) (int, error) {
	const op = "db.(Db).DeleteItems"
	rowsDeleted, err := rw.conn().DeleteItems(ctx, deleteItems, GetOpts(opt...).dbwOptions()...)
	if err != nil {
		return NoRowsAffected, wrapError(ctx, err, op)
	}
	return rowsDeleted, nil
}

// Exec will execute the sql with the values as parameters. The int returned
// is the number of rows affected by the sql.
func (rw *Db) Exec(ctx context.Context, sql string, values []any, opt ...Option) (int, error) {
	const op = "db.(Db).Exec"
	rowsAffected, err := rw.conn().Exec(ctx, sql, values, GetOpts(opt...).dbwOptions()...)
	if err != nil {
		return NoRowsAffected, wrapError(ctx, err, op)
	}
	return rowsAffected, nil
}

// LookupById will lookup a resource by its primary key id, which must be
// unique.
func (rw *Db) LookupById(ctx context.Context, resourceWithIder any, opt ...Option) error {
	const op = "db.(Db).LookupById"
	if err := rw.conn().LookupBy(ctx, resourceWithIder, GetOpts(opt...).dbwOptions()...); err != nil {
		return wrapError(ctx, err, op)
	}
	return nil
}

// LookupByPublicId will lookup resource by its public_id, which must be
// unique.
func (rw *Db) LookupByPublicId(ctx context.Context, resource ResourcePublicIder, opt ...Option) error {
	const op = "db.(Db).LookupByPublicId"
	if err := rw.conn().LookupByPublicId(ctx, resource, GetOpts(opt...).dbwOptions()...); err != nil {
		return wrapError(ctx, err, op)
	}
	return nil
}

// LookupWhere will lookup and return the first resource using a where clause
// with parameters.
func (rw *Db) LookupWhere(ctx context.Context, resource any, where string, args []any, opt ...Option) error {
	const op = "db.(Db).LookupWhere"
	if err := rw.conn().LookupWhere(ctx, resource, where, args, GetOpts(opt...).dbwOptions()...); err != nil {
		return wrapError(ctx, err, op)
	}
	return nil
}

// SearchWhere will search for all the resources it can find using a where
// clause with parameters.
func (rw *Db) SearchWhere(ctx context.Context, resources any, where string, args []any, opt ...Option) error {
	const op = "db.(Db).SearchWhere"
	if err := rw.conn().SearchWhere(ctx, resources, where, args, GetOpts(opt...).dbwOptions()...); err != nil {
		return wrapError(ctx, err, op)
	}
	return nil
}

// Query will run the raw query and return the *sql.Rows results.
func (rw *Db) Query(ctx context.Context, sql string, values []any, opt ...Option) (*sql.Rows, error) {
	const op = "db.(Db).Query"
	rows, err := rw.conn().Query(ctx, sql, values, GetOpts(opt...).dbwOptions()...)
	if err != nil {
		return nil, wrapError(ctx, err, op)
	}
	return rows, nil
}

// ScanRows will scan sql rows into the interface provided.
func (rw *Db) ScanRows(ctx context.Context, rows *sql.Rows, result any) error {
	const op = "db.(Db).ScanRows"
	if err := rw.conn().ScanRows(rows, result); err != nil {
		return wrapError(ctx, err, op)
	}
	return nil
}

func (rw *Db) vet(ctx context.Context, i any, opType OpType, opt ...Option) error {
	if vetter, ok := i.(VetForWriter); ok {
		return vetter.VetForWrite(ctx, rw, opType, opt...)
	}
	return nil
}

// dbwOptions converts the package's options to their dbw equivalents for
// delegation.
func (opts Options) dbwOptions() []dbw.Option {
	var ret []dbw.Option
	if opts.WithLimit != 0 {
		ret = append(ret, dbw.WithLimit(opts.WithLimit))
	}
	if opts.WithVersion != nil {
		ret = append(ret, dbw.WithVersion(opts.WithVersion))
	}
	if opts.withWhereClause != "" {
		ret = append(ret, dbw.WithWhere(opts.withWhereClause, opts.withWhereClauseArgs...))
	}
	if opts.withOrder != "" {
		ret = append(ret, dbw.WithOrder(opts.withOrder))
	}
	if opts.withLookup {
		ret = append(ret, dbw.WithLookup(true))
	}
	if opts.withDebug {
		ret = append(ret, dbw.WithDebug(true))
	}
	return ret
}

// wrapError converts well known storage errors into this domain's error
// codes before wrapping with the op.
func wrapError(ctx context.Context, err error, op errors.Op) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, dbw.ErrRecordNotFound):
		return errors.New(ctx, errors.RecordNotFound, op, "record not found", errors.WithWrap(err))
	case stderrors.Is(err, dbw.ErrMaxRetries):
		return errors.New(ctx, errors.MaxRetries, op, "too many retries", errors.WithWrap(err))
	case stderrors.Is(err, dbw.ErrInvalidParameter):
		return errors.New(ctx, errors.InvalidParameter, op, "invalid parameter", errors.WithWrap(err))
	case stderrors.Is(err, dbw.ErrInvalidFieldMask):
		return errors.New(ctx, errors.InvalidFieldMask, op, "invalid field mask", errors.WithWrap(err))
	default:
		return errors.Wrap(ctx, err, op)
	}
}
