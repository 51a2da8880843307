// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/hashicorp/go-dbw"
	"github.com/hashicorp/stronghold/internal/errors"
)

type DbType int

const (
	UnknownDB DbType = 0
	Postgres  DbType = 1
	Sqlite    DbType = 2
)

func (db DbType) String() string {
	return [...]string{
		"unknown",
		"postgres",
		"sqlite",
	}[db]
}

// StringToDbType provides an unchanging interface for converting strings to a
// DbType.
func StringToDbType(dialect string) (DbType, error) {
	switch dialect {
	case "postgres":
		return Postgres, nil
	case "sqlite":
		return Sqlite, nil
	default:
		return UnknownDB, fmt.Errorf("%s is an unsupported dialect", dialect)
	}
}

// DB is a wrapper around the underlying db connection and provides methods
// for a consumer to use when interacting with the db.  All uses of the
// connection follow swaps of the underlying handle, so long-lived readers and
// writers stay valid across a reconnect.
type DB struct {
	wrapped *atomic.Pointer[dbw.DB]
}

// Open a database connection which is long-lived. The options of
// WithGormFormatter and WithMaxOpenConnections are supported.
//
// Note: Consider if you need to call Close() on the returned DB.  Typically
// the answer is no, but there are occasions when it's necessary.  See the
// sql.DB docs for more information.
func Open(ctx context.Context, dbType DbType, connectionUrl string, opt ...Option) (*DB, error) {
	const op = "db.Open"
	var dialect dbw.DbType
	switch dbType {
	case Postgres:
		dialect = dbw.Postgres
	case Sqlite:
		dialect = dbw.Sqlite
	default:
		return nil, errors.New(ctx, errors.InvalidParameter, op, fmt.Sprintf("unable to open %s database type", dbType))
	}

	opts := GetOpts(opt...)
	var dbwOpts []dbw.Option
	if opts.withGormFormatter != nil {
		dbwOpts = append(dbwOpts, dbw.WithLogger(opts.withGormFormatter))
	}
	if opts.withMaxOpenConnections > 0 {
		dbwOpts = append(dbwOpts, dbw.WithMaxOpenConnections(opts.withMaxOpenConnections))
	}

	wrapped, err := dbw.Open(dialect, connectionUrl, dbwOpts...)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op, errors.WithMsg("unable to open database"))
	}
	ret := &DB{wrapped: new(atomic.Pointer[dbw.DB])}
	ret.wrapped.Store(wrapped)
	return ret, nil
}

// Swap the underlying connection to the one provided, closing the old one.
// The url is returned so callers can restore the previous connection if
// needed.
func (db *DB) Swap(ctx context.Context, newDB *DB) error {
	const op = "db.(DB).Swap"
	if newDB == nil || newDB.wrapped == nil {
		return errors.New(ctx, errors.InvalidParameter, op, "missing underlying database for swap")
	}
	old := db.wrapped.Swap(newDB.wrapped.Load())
	if old != nil {
		if err := old.Close(ctx); err != nil {
			return errors.Wrap(ctx, err, op)
		}
	}
	return nil
}

// SqlDB returns the underlying sql.DB.
//
// Note: This func is not named DB(), because our choice of ORM (gorm) which is
// used in this package is baked into the implementation and this package
// provides an abstraction above it.
func (db *DB) SqlDB(ctx context.Context) (*sql.DB, error) {
	const op = "db.(DB).SqlDB"
	if db.wrapped == nil {
		return nil, errors.New(ctx, errors.Internal, op, "missing underlying database")
	}
	return db.wrapped.Load().SqlDB(ctx)
}

// Debug will enable/disable debug info for the connection
func (db *DB) Debug(on bool) {
	db.wrapped.Load().Debug(on)
}

// Close the underlying sql.DB
func (db *DB) Close(ctx context.Context) error {
	const op = "db.(DB).Close"
	if db.wrapped == nil {
		return errors.New(ctx, errors.Internal, op, "missing underlying database")
	}
	return db.wrapped.Load().Close(ctx)
}
