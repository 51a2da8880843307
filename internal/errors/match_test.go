// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package errors_test

import (
	"context"
	"testing"

	"github.com/hashicorp/stronghold/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	testErr := errors.New(ctx, errors.NotUnique, "alice.Bob", "duplicate policy row")
	tests := []struct {
		name     string
		template *errors.Template
		err      error
		want     bool
	}{
		{
			name:     "match-code",
			template: errors.T(errors.NotUnique),
			err:      testErr,
			want:     true,
		},
		{
			name:     "match-kind",
			template: errors.T(errors.Integrity),
			err:      testErr,
			want:     true,
		},
		{
			name:     "match-op",
			template: errors.T(errors.Op("alice.Bob")),
			err:      testErr,
			want:     true,
		},
		{
			name:     "match-msg",
			template: errors.T("duplicate policy row"),
			err:      testErr,
			want:     true,
		},
		{
			name:     "no-match-code",
			template: errors.T(errors.RecordNotFound),
			err:      testErr,
			want:     false,
		},
		{
			name:     "no-match-kind",
			template: errors.T(errors.Search),
			err:      testErr,
			want:     false,
		},
		{
			name:     "no-match-op",
			template: errors.T(errors.Op("carly.Dave")),
			err:      testErr,
			want:     false,
		},
		{
			name:     "nil-template",
			template: nil,
			err:      testErr,
			want:     false,
		},
		{
			name:     "nil-error",
			template: errors.T(errors.NotUnique),
			err:      nil,
			want:     false,
		},
		{
			name:     "match-wrapped",
			template: errors.T(errors.ErrRecordNotFound),
			err:      errors.Wrap(ctx, errors.ErrRecordNotFound, "alice.Bob"),
			want:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tt.want, errors.Match(tt.template, tt.err))
		})
	}
}

func TestT(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	tpl := errors.T(errors.InvalidParameter, "msg", errors.Op("pkg.Func"), errors.Parameter)
	assert.Equal(errors.InvalidParameter, tpl.Code)
	assert.Equal("msg", tpl.Msg)
	assert.Equal(errors.Op("pkg.Func"), tpl.Op)
	assert.Equal(errors.Parameter, tpl.Kind)

	// unsupported args are ignored
	tpl = errors.T(42)
	assert.Equal(errors.Unknown, tpl.Code)
}
