// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package errors

import "context"

// Errors returned from this package may be tested against these errors with
// errors.Is.
var (
	// ErrInvalidParameter is returned by create and update methods if an
	// attribute on a struct contains illegal or invalid values.
	ErrInvalidParameter = E(context.Background(), WithCode(InvalidParameter), WithMsg("invalid parameter"))

	// ErrInvalidFieldMask is returned by update methods if the field mask
	// contains unknown fields or fields that cannot be updated.
	ErrInvalidFieldMask = E(context.Background(), WithCode(InvalidFieldMask), WithMsg("invalid field mask"))

	// ErrEmptyFieldMask is returned by update methods if the field mask is
	// empty.
	ErrEmptyFieldMask = E(context.Background(), WithCode(EmptyFieldMask), WithMsg("empty field mask"))

	// ErrNotUnique is returned by create and update methods when a write to the
	// repository resulted in a unique constraint violation.
	ErrNotUnique = E(context.Background(), WithCode(NotUnique), WithMsg("unique constraint violation"))

	// ErrCheckConstraint is returned by methods when a write to the repository
	// resulted in a check constraint violation.
	ErrCheckConstraint = E(context.Background(), WithCode(CheckConstraint), WithMsg("check constraint violated"))

	// ErrNotNull is returned by methods when a write to the repository resulted
	// in a not null constraint violation.
	ErrNotNull = E(context.Background(), WithCode(NotNull), WithMsg("not null constraint violated"))

	// ErrRecordNotFound returns a "record not found" error and it only occurs
	// when attempting to read from the database into struct.  When reading into
	// a slice it won't return this error.
	ErrRecordNotFound = E(context.Background(), WithCode(RecordNotFound), WithMsg("record not found"))

	// ErrMaxRetries is returned when a db transaction has been retried too many
	// times.
	ErrMaxRetries = E(context.Background(), WithCode(MaxRetries), WithMsg("too many retries"))
)
