// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package accesspolicy

import (
	"context"
	"testing"

	"github.com/hashicorp/stronghold/internal/db"
	"github.com/stretchr/testify/require"
)

// TestRepo creates a repo that can be used for various purposes. Crucially, it
// ensures that the repo is asserted to be non-nil.
func TestRepo(t *testing.T, conn *db.DB, opt ...Option) *Repository {
	t.Helper()
	require := require.New(t)
	rw := db.New(conn)
	repo, err := NewRepository(context.Background(), rw, rw, opt...)
	require.NoError(err)
	require.NotNil(repo)
	return repo
}

// TestPolicy creates a stored policy of the kind for testing.
func TestPolicy(t *testing.T, repo *Repository, k Kind, principalId, resourceId string, flags Flags) *AccessPolicy {
	t.Helper()
	require := require.New(t)
	ctx := context.Background()
	p, err := NewPolicy(ctx, k, principalId, resourceId, flags)
	require.NoError(err)
	created, err := repo.CreatePolicies(ctx, []*AccessPolicy{p})
	require.NoError(err)
	require.Len(created, 1)
	return created[0]
}
