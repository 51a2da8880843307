// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Op represents an operation (package.function).  For example iam.CreateScope
type Op string

// Err provides the ability to specify a Msg, Op, Code and Wrapped error.
// Errs must have a Code and all other fields are optional.
type Err struct {
	// Code is the error's code, which can be used to get the error's
	// errorCodeInfo, which contains the error's Kind and Message
	Code Code

	// Msg for the error
	Msg string

	// Op represents the operation raising/propagating an error and is optional.
	Op Op

	// Wrapped is the error which this Err wraps and will be nil if there's no
	// error to wrap.
	Wrapped error
}

// E creates a new Err with provided code and supports the options of:
//
// * WithOp() - allows you to specify an optional Op (operation).
//
// * WithMsg() - allows you to specify an optional error msg, if the default
// msg for the error Code is not sufficient.
//
// * WithWrap() - allows you to specify an error to wrap.
func E(ctx context.Context, opt ...Option) error {
	opts := GetOpts(opt...)
	var code Code
	if opts.withErrCode != nil {
		code = *opts.withErrCode
	}
	return &Err{
		Code:    code,
		Op:      opts.withOp,
		Msg:     opts.withErrMsg,
		Wrapped: opts.withErrWrapped,
	}
}

// New creates a new Err with provided code, op and msg.  It supports the
// option of WithWrap() - allowing you to specify an error to wrap.
func New(ctx context.Context, c Code, op Op, msg string, opt ...Option) error {
	opt = append(opt, WithOp(op), WithCode(c), WithMsg(msg))
	return E(ctx, opt...)
}

// Wrap creates a new Err from the provided err and op, preserving the code
// from the originating error if possible.  It supports the options of:
//
// * WithMsg() - allows you to specify an optional error msg.
//
// * WithCode() - allows you to specify an optional Code, this code will be
// prioritized over a code used from err.
func Wrap(ctx context.Context, e error, op Op, opt ...Option) error {
	opts := GetOpts(opt...)
	err := Convert(e)
	if opts.withErrCode == nil {
		var errCode *Err
		if errors.As(err, &errCode) && errCode.Code != Unknown {
			opt = append(opt, WithCode(errCode.Code))
		}
	}
	opt = append(opt, WithOp(op), WithWrap(err))
	return E(ctx, opt...)
}

// Convert will convert the error to an Err (if that's not possible, it just
// returns the error as is) and it will attempt to add a helpful error msg too.
func Convert(e error) error {
	if e == nil {
		return nil
	}

	var alreadyConverted *Err
	if errors.As(e, &alreadyConverted) {
		return alreadyConverted
	}

	var pqError *pq.Error
	if errors.As(e, &pqError) {
		switch pqError.Code.Name() {
		case "unique_violation":
			return E(context.Background(), WithCode(NotUnique), WithMsg(pqError.Detail), WithWrap(ErrNotUnique))
		case "not_null_violation":
			return E(context.Background(), WithCode(NotNull), WithMsg(fmt.Sprintf("%s must not be empty", pqError.Column)), WithWrap(ErrNotNull))
		case "check_violation":
			return E(context.Background(), WithCode(CheckConstraint), WithMsg(fmt.Sprintf("%s constraint failed", pqError.Constraint)), WithWrap(ErrCheckConstraint))
		case "undefined_table":
			return E(context.Background(), WithCode(MissingTable), WithMsg(fmt.Sprintf("%s is an undefined table", pqError.Table)))
		}
		if strings.Contains(pqError.Message, "immutable column") {
			return E(context.Background(), WithCode(ImmutableColumn), WithMsg(pqError.Message))
		}
	}

	// sqlite only reports constraint violations via the error string.
	msg := e.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return E(context.Background(), WithCode(NotUnique), WithMsg(msg), WithWrap(ErrNotUnique))
	case strings.Contains(msg, "CHECK constraint failed"):
		return E(context.Background(), WithCode(CheckConstraint), WithMsg(msg), WithWrap(ErrCheckConstraint))
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return E(context.Background(), WithCode(NotNull), WithMsg(msg), WithWrap(ErrNotNull))
	case strings.Contains(msg, "immutable column"):
		return E(context.Background(), WithCode(ImmutableColumn), WithMsg(msg))
	}
	// unfortunately, we can't help.
	return e
}

// Info about the Err
func (e *Err) Info() Info {
	if e == nil {
		return errorCodeInfo[Unknown]
	}
	return e.Code.Info()
}

// Error satisfies the error interface and returns a string representation of
// the Err
func (e *Err) Error() string {
	if e == nil {
		return ""
	}
	var s strings.Builder
	if e.Op != "" {
		join(&s, ": ", string(e.Op))
	}
	if e.Msg != "" {
		join(&s, ": ", e.Msg)
	}

	if info, ok := errorCodeInfo[e.Code]; ok {
		if e.Msg == "" {
			join(&s, ": ", info.Message) // provide a default.
			join(&s, ", ", info.Kind.String())
		}
		join(&s, ": ", fmt.Sprintf("error #%d", e.Code))
	}

	if e.Wrapped != nil {
		join(&s, ": ", e.Wrapped.Error())
	}
	return s.String()
}

func join(str *strings.Builder, delim string, s string) {
	if str.Len() == 0 {
		_, _ = str.WriteString(s)
		return
	}
	_, _ = str.WriteString(delim + s)
}

// Unwrap implements the errors.Unwrap interface and allows callers to use the
// errors.Is() and errors.As() functions effectively for any wrapped errors.
func (e *Err) Unwrap() error {
	return e.Wrapped
}
