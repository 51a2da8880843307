// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package perms_test

import (
	"context"
	"testing"

	"github.com/hashicorp/stronghold/internal/accesspolicy"
	"github.com/hashicorp/stronghold/internal/db"
	"github.com/hashicorp/stronghold/internal/errors"
	"github.com/hashicorp/stronghold/internal/iam"
	"github.com/hashicorp/stronghold/internal/perms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	conn := db.TestSetup(t)
	iamRepo := iam.TestRepo(t, conn)
	policyRepo := accesspolicy.TestRepo(t, conn)
	ctx := context.Background()

	resolver, err := perms.NewResolver(ctx, iamRepo, policyRepo)
	require.NoError(t, err)

	org := iam.TestOrg(t, iamRepo)
	project := iam.TestProject(t, iamRepo, org.PublicId)

	admin := iam.TestUser(t, iamRepo)
	iam.TestOrgMember(t, iamRepo, org.PublicId, admin.PublicId, iam.RoleAdmin)

	granted := iam.TestUser(t, iamRepo)
	iam.TestOrgMember(t, iamRepo, org.PublicId, granted.PublicId, iam.RoleUser)
	accesspolicy.TestPolicy(t, policyRepo, accesspolicy.UserProject, granted.PublicId, project.PublicId, accesspolicy.Flags{Read: true})

	grouped := iam.TestUser(t, iamRepo)
	iam.TestOrgMember(t, iamRepo, org.PublicId, grouped.PublicId, iam.RoleUser)
	group := iam.TestGroup(t, iamRepo, org.PublicId)
	iam.TestGroupMember(t, iamRepo, group.PublicId, grouped.PublicId)
	accesspolicy.TestPolicy(t, policyRepo, accesspolicy.GroupProject, group.PublicId, project.PublicId, accesspolicy.Flags{Read: true, Write: true})

	ungranted := iam.TestUser(t, iamRepo)
	iam.TestOrgMember(t, iamRepo, org.PublicId, ungranted.PublicId, iam.RoleUser)

	sa := iam.TestServiceAccount(t, iamRepo, org.PublicId)
	accesspolicy.TestPolicy(t, policyRepo, accesspolicy.ServiceAccountProject, sa.PublicId, project.PublicId, accesspolicy.Flags{Read: true})

	bareSa := iam.TestServiceAccount(t, iamRepo, org.PublicId)

	tests := []struct {
		name   string
		client perms.Client
		want   perms.Access
	}{
		{
			name:   "admin-bypass",
			client: perms.Client{Id: admin.PublicId, Type: perms.UserClient},
			want:   perms.Access{Read: true, Write: true},
		},
		{
			name:   "direct-user-grant",
			client: perms.Client{Id: granted.PublicId, Type: perms.UserClient},
			want:   perms.Access{Read: true},
		},
		{
			name:   "group-grant-inherited",
			client: perms.Client{Id: grouped.PublicId, Type: perms.UserClient},
			want:   perms.Access{Read: true, Write: true},
		},
		{
			name:   "no-grants-denied",
			client: perms.Client{Id: ungranted.PublicId, Type: perms.UserClient},
			want:   perms.Access{},
		},
		{
			name:   "direct-service-account-grant",
			client: perms.Client{Id: sa.PublicId, Type: perms.ServiceAccountClient},
			want:   perms.Access{Read: true},
		},
		{
			// the project carries a read+write group grant; a service
			// account never inherits it
			name:   "service-account-never-inherits-groups",
			client: perms.Client{Id: bareSa.PublicId, Type: perms.ServiceAccountClient},
			want:   perms.Access{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			got, err := resolver.Resolve(ctx, org.PublicId, tt.client, project.PublicId)
			require.NoError(err)
			assert.Equal(tt.want, got)
		})
	}

	t.Run("flags-aggregate-across-grants", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		// direct read-only plus an inherited read+write group grant
		both := iam.TestUser(t, iamRepo)
		iam.TestOrgMember(t, iamRepo, org.PublicId, both.PublicId, iam.RoleUser)
		iam.TestGroupMember(t, iamRepo, group.PublicId, both.PublicId)
		accesspolicy.TestPolicy(t, policyRepo, accesspolicy.UserProject, both.PublicId, project.PublicId, accesspolicy.Flags{Read: true})

		got, err := resolver.Resolve(ctx, org.PublicId, perms.Client{Id: both.PublicId, Type: perms.UserClient}, project.PublicId)
		require.NoError(err)
		assert.Equal(perms.Access{Read: true, Write: true}, got)
	})
	t.Run("service-account-resource", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		targetSa := iam.TestServiceAccount(t, iamRepo, org.PublicId)
		accesspolicy.TestPolicy(t, policyRepo, accesspolicy.UserServiceAccount, granted.PublicId, targetSa.PublicId, accesspolicy.Flags{Read: true, Write: true})

		got, err := resolver.Resolve(ctx, org.PublicId, perms.Client{Id: granted.PublicId, Type: perms.UserClient}, targetSa.PublicId)
		require.NoError(err)
		assert.Equal(perms.Access{Read: true, Write: true}, got)
	})
	t.Run("missing-resource-id", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		_, err := resolver.Resolve(ctx, org.PublicId, perms.Client{Id: granted.PublicId, Type: perms.UserClient}, "")
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.InvalidParameter), err))
	})
}

func TestResolver_AccessMode(t *testing.T) {
	conn := db.TestSetup(t)
	iamRepo := iam.TestRepo(t, conn)
	policyRepo := accesspolicy.TestRepo(t, conn)
	ctx := context.Background()

	resolver, err := perms.NewResolver(ctx, iamRepo, policyRepo)
	require.NoError(t, err)

	org := iam.TestOrg(t, iamRepo)
	admin := iam.TestUser(t, iamRepo)
	iam.TestOrgMember(t, iamRepo, org.PublicId, admin.PublicId, iam.RoleAdmin)
	regular := iam.TestUser(t, iamRepo)
	iam.TestOrgMember(t, iamRepo, org.PublicId, regular.PublicId, iam.RoleUser)
	outsider := iam.TestUser(t, iamRepo)
	sa := iam.TestServiceAccount(t, iamRepo, org.PublicId)

	tests := []struct {
		name   string
		client perms.Client
		want   perms.AccessMode
	}{
		{
			name:   "admin",
			client: perms.Client{Id: admin.PublicId, Type: perms.UserClient},
			want:   perms.NoAccessCheck,
		},
		{
			name:   "regular-member",
			client: perms.Client{Id: regular.PublicId, Type: perms.UserClient},
			want:   perms.UserAccess,
		},
		{
			// membership is the guard's precondition, not the resolver's
			name:   "non-member-still-user-mode",
			client: perms.Client{Id: outsider.PublicId, Type: perms.UserClient},
			want:   perms.UserAccess,
		},
		{
			name:   "service-account",
			client: perms.Client{Id: sa.PublicId, Type: perms.ServiceAccountClient},
			want:   perms.ServiceAccountAccess,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			got, err := resolver.AccessMode(ctx, org.PublicId, tt.client)
			require.NoError(err)
			assert.Equal(tt.want, got)
		})
	}
}
