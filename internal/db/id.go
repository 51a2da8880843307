// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package db

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-secure-stdlib/base62"
	"github.com/hashicorp/stronghold/internal/errors"
	"golang.org/x/crypto/blake2b"
)

// NewPublicId creates a new public id with the prefix.  The WithPrngValues
// option can be used to make the id deterministic for tests.
func NewPublicId(ctx context.Context, prefix string, opt ...Option) (string, error) {
	const op = "db.NewPublicId"
	if prefix == "" {
		return "", errors.New(ctx, errors.InvalidParameter, op, "missing prefix")
	}
	var publicId string
	var err error
	opts := GetOpts(opt...)
	if len(opts.withPrngValues) > 0 {
		sum := blake2b.Sum256([]byte(strings.Join(opts.withPrngValues, "|")))
		reader := bytes.NewReader(sum[0:])
		publicId, err = base62.RandomWithReader(10, reader)
	} else {
		publicId, err = base62.Random(10)
	}
	if err != nil {
		return "", errors.Wrap(ctx, err, op, errors.WithMsg("unable to generate id"), errors.WithCode(errors.Io))
	}
	return fmt.Sprintf("%s_%s", prefix, publicId), nil
}
