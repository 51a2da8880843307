// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package accesspolicy

import (
	"context"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/stronghold/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mustPolicy := func(k Kind, principalId, resourceId string, flags Flags) *AccessPolicy {
		p, err := NewPolicy(ctx, k, principalId, resourceId, flags)
		require.NoError(t, err)
		return p
	}

	t.Run("valid", func(t *testing.T) {
		assert := assert.New(t)
		batch := []*AccessPolicy{
			mustPolicy(UserProject, "u_alice", "prj_one", Flags{Read: true}),
			mustPolicy(UserProject, "u_alice", "prj_two", Flags{Read: true, Write: true}),
			mustPolicy(GroupProject, "g_devs", "prj_one", Flags{Read: true}),
			mustPolicy(ServiceAccountProject, "sa_ci", "prj_one", Flags{Read: true}),
		}
		assert.NoError(ValidateBatch(ctx, batch))
	})
	t.Run("same-pair-different-kind-is-valid", func(t *testing.T) {
		assert := assert.New(t)
		// distinctness is keyed on the (kind, principal, resource) triple
		batch := []*AccessPolicy{
			mustPolicy(UserProject, "id_one", "id_two", Flags{Read: true}),
			mustPolicy(GroupProject, "id_one", "id_two", Flags{Read: true}),
		}
		assert.NoError(ValidateBatch(ctx, batch))
	})
	t.Run("duplicate", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		batch := []*AccessPolicy{
			mustPolicy(UserProject, "u_alice", "prj_one", Flags{Read: true}),
			mustPolicy(UserProject, "u_alice", "prj_one", Flags{Read: true, Write: true}),
		}
		err := ValidateBatch(ctx, batch)
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.DuplicatePolicy), err))
	})
	t.Run("write-without-read", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		batch := []*AccessPolicy{
			mustPolicy(UserProject, "u_alice", "prj_one", Flags{Read: true}),
			{Kind: UserProject, PrincipalId: "u_alice", ResourceId: "prj_two", CanWrite: true},
		}
		err := ValidateBatch(ctx, batch)
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.ReadDominance), err))
	})
	t.Run("all-violations-reported", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		batch := []*AccessPolicy{
			mustPolicy(UserProject, "u_alice", "prj_one", Flags{Read: true}),
			mustPolicy(UserProject, "u_alice", "prj_one", Flags{Read: true}),
			{Kind: UserProject, PrincipalId: "u_bob", ResourceId: "prj_two", CanWrite: true},
		}
		err := ValidateBatch(ctx, batch)
		require.Error(err)
		var merr *multierror.Error
		require.ErrorAs(err, &merr)
		assert.Len(merr.Errors, 2)
	})
	t.Run("empty-batch", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		err := ValidateBatch(ctx, nil)
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.InvalidParameter), err))
	})
	t.Run("nil-policy", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		err := ValidateBatch(ctx, []*AccessPolicy{nil})
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.InvalidParameter), err))
	})
}
