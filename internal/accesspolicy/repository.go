// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package accesspolicy

import (
	"context"

	"github.com/hashicorp/stronghold/internal/db"
	"github.com/hashicorp/stronghold/internal/errors"
)

// Repository is the access policy database repository
type Repository struct {
	reader db.Reader
	writer db.Writer

	// defaultLimit provides a default for limiting the number of results
	// returned from the repo
	defaultLimit int
}

// NewRepository creates a new access policy Repository. Supports the options:
// WithLimit which sets a default limit on results returned by repo
// operations.
func NewRepository(ctx context.Context, r db.Reader, w db.Writer, opt ...Option) (*Repository, error) {
	const op = "accesspolicy.NewRepository"
	if r == nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "nil reader")
	}
	if w == nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "nil writer")
	}
	opts := getOpts(opt...)
	if opts.withLimit == 0 {
		// zero signals the defaults should be used.
		opts.withLimit = db.DefaultLimit
	}
	return &Repository{
		reader:       r,
		writer:       w,
		defaultLimit: opts.withLimit,
	}, nil
}
