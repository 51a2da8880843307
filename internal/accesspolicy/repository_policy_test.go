// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package accesspolicy_test

import (
	"context"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/stronghold/internal/accesspolicy"
	"github.com/hashicorp/stronghold/internal/db"
	"github.com/hashicorp/stronghold/internal/errors"
	"github.com/hashicorp/stronghold/internal/iam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_CreatePolicies(t *testing.T) {
	conn := db.TestSetup(t)
	iamRepo := iam.TestRepo(t, conn)
	repo := accesspolicy.TestRepo(t, conn)
	ctx := context.Background()

	org := iam.TestOrg(t, iamRepo)
	user := iam.TestUser(t, iamRepo)
	project := iam.TestProject(t, iamRepo, org.PublicId)
	sa := iam.TestServiceAccount(t, iamRepo, org.PublicId)

	t.Run("valid", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		p1, err := accesspolicy.NewUserProjectPolicy(ctx, user.PublicId, project.PublicId, accesspolicy.Flags{Read: true})
		require.NoError(err)
		p2, err := accesspolicy.NewServiceAccountProjectPolicy(ctx, sa.PublicId, project.PublicId, accesspolicy.Flags{Read: true, Write: true})
		require.NoError(err)

		created, err := repo.CreatePolicies(ctx, []*accesspolicy.AccessPolicy{p1, p2})
		require.NoError(err)
		require.Len(created, 2)
		for _, p := range created {
			assert.NotEmpty(p.PublicId)
			assert.Equal(uint32(1), p.Version)

			found, err := repo.LookupPolicy(ctx, p.PublicId)
			require.NoError(err)
			assert.Equal(p.Kind, found.Kind)
			assert.Equal(p.Flags(), found.Flags())
		}
	})
	t.Run("touches-service-account-revision", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		revisioned := iam.TestServiceAccount(t, iamRepo, org.PublicId)
		before, err := iamRepo.LookupServiceAccount(ctx, revisioned.PublicId)
		require.NoError(err)

		p, err := accesspolicy.NewUserServiceAccountPolicy(ctx, user.PublicId, revisioned.PublicId, accesspolicy.Flags{Read: true})
		require.NoError(err)
		_, err = repo.CreatePolicies(ctx, []*accesspolicy.AccessPolicy{p})
		require.NoError(err)

		after, err := iamRepo.LookupServiceAccount(ctx, revisioned.PublicId)
		require.NoError(err)
		assert.Equal(before.Version+1, after.Version)
	})
	t.Run("invalid-batch-rejected-in-full", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		scoped := iam.TestProject(t, iamRepo, org.PublicId)
		p1, err := accesspolicy.NewUserProjectPolicy(ctx, user.PublicId, scoped.PublicId, accesspolicy.Flags{Read: true})
		require.NoError(err)
		p2, err := accesspolicy.NewUserProjectPolicy(ctx, user.PublicId, scoped.PublicId, accesspolicy.Flags{Read: true, Write: true})
		require.NoError(err)

		_, err = repo.CreatePolicies(ctx, []*accesspolicy.AccessPolicy{p1, p2})
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.DuplicatePolicy), err))

		found, err := repo.ListPoliciesForResource(ctx, scoped.PublicId)
		require.NoError(err)
		assert.Empty(found)
	})
	t.Run("duplicate-of-stored-policy", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		scoped := iam.TestProject(t, iamRepo, org.PublicId)
		accesspolicy.TestPolicy(t, repo, accesspolicy.UserProject, user.PublicId, scoped.PublicId, accesspolicy.Flags{Read: true})

		p, err := accesspolicy.NewUserProjectPolicy(ctx, user.PublicId, scoped.PublicId, accesspolicy.Flags{Read: true})
		require.NoError(err)
		_, err = repo.CreatePolicies(ctx, []*accesspolicy.AccessPolicy{p})
		require.Error(err)
		assert.True(errors.IsUniqueError(err))
	})
}

func TestRepository_UpdatePolicyFlags(t *testing.T) {
	conn := db.TestSetup(t)
	iamRepo := iam.TestRepo(t, conn)
	repo := accesspolicy.TestRepo(t, conn)
	ctx := context.Background()

	org := iam.TestOrg(t, iamRepo)
	user := iam.TestUser(t, iamRepo)
	project := iam.TestProject(t, iamRepo, org.PublicId)

	t.Run("valid", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		p := accesspolicy.TestPolicy(t, repo, accesspolicy.UserProject, user.PublicId, project.PublicId, accesspolicy.Flags{Read: true, Write: true})

		updated, rowsUpdated, err := repo.UpdatePolicyFlags(ctx, p.PublicId, p.Version, accesspolicy.Flags{Read: true})
		require.NoError(err)
		assert.Equal(1, rowsUpdated)
		assert.Equal(accesspolicy.Flags{Read: true}, updated.Flags())
		assert.Equal(p.Version+1, updated.Version)

		found, err := repo.LookupPolicy(ctx, p.PublicId)
		require.NoError(err)
		assert.Equal(accesspolicy.Flags{Read: true}, found.Flags())
	})
	t.Run("stale-version", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		scoped := iam.TestProject(t, iamRepo, org.PublicId)
		p := accesspolicy.TestPolicy(t, repo, accesspolicy.UserProject, user.PublicId, scoped.PublicId, accesspolicy.Flags{Read: true})

		_, _, err := repo.UpdatePolicyFlags(ctx, p.PublicId, p.Version+10, accesspolicy.Flags{Read: true, Write: true})
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.VersionMismatch), err))
	})
	t.Run("write-without-read", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		scoped := iam.TestProject(t, iamRepo, org.PublicId)
		p := accesspolicy.TestPolicy(t, repo, accesspolicy.UserProject, user.PublicId, scoped.PublicId, accesspolicy.Flags{Read: true})

		_, _, err := repo.UpdatePolicyFlags(ctx, p.PublicId, p.Version, accesspolicy.Flags{Write: true})
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.ReadDominance), err))
	})
	t.Run("touches-service-account-principal", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		sa := iam.TestServiceAccount(t, iamRepo, org.PublicId)
		scoped := iam.TestProject(t, iamRepo, org.PublicId)
		p := accesspolicy.TestPolicy(t, repo, accesspolicy.ServiceAccountProject, sa.PublicId, scoped.PublicId, accesspolicy.Flags{Read: true})

		before, err := iamRepo.LookupServiceAccount(ctx, sa.PublicId)
		require.NoError(err)

		_, _, err = repo.UpdatePolicyFlags(ctx, p.PublicId, p.Version, accesspolicy.Flags{Read: true, Write: true})
		require.NoError(err)

		after, err := iamRepo.LookupServiceAccount(ctx, sa.PublicId)
		require.NoError(err)
		assert.Equal(before.Version+1, after.Version)
	})
	t.Run("not-found", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		_, _, err := repo.UpdatePolicyFlags(ctx, "ap_doesNotExist", 1, accesspolicy.Flags{Read: true})
		require.Error(err)
		assert.True(errors.IsNotFoundError(err))
	})
}

func TestRepository_DeletePolicy(t *testing.T) {
	conn := db.TestSetup(t)
	iamRepo := iam.TestRepo(t, conn)
	repo := accesspolicy.TestRepo(t, conn)
	ctx := context.Background()

	org := iam.TestOrg(t, iamRepo)
	user := iam.TestUser(t, iamRepo)
	project := iam.TestProject(t, iamRepo, org.PublicId)

	t.Run("valid", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		p := accesspolicy.TestPolicy(t, repo, accesspolicy.UserProject, user.PublicId, project.PublicId, accesspolicy.Flags{Read: true})

		rowsDeleted, err := repo.DeletePolicy(ctx, p.PublicId)
		require.NoError(err)
		assert.Equal(1, rowsDeleted)

		_, err = repo.LookupPolicy(ctx, p.PublicId)
		require.Error(err)
		assert.True(errors.IsNotFoundError(err))
	})
	t.Run("not-found", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		_, err := repo.DeletePolicy(ctx, "ap_doesNotExist")
		require.Error(err)
		assert.True(errors.IsNotFoundError(err))
	})
}

func TestRepository_ListPolicies(t *testing.T) {
	conn := db.TestSetup(t)
	iamRepo := iam.TestRepo(t, conn)
	repo := accesspolicy.TestRepo(t, conn)
	ctx := context.Background()

	org := iam.TestOrg(t, iamRepo)
	user := iam.TestUser(t, iamRepo)
	group := iam.TestGroup(t, iamRepo, org.PublicId)
	sa := iam.TestServiceAccount(t, iamRepo, org.PublicId)
	project := iam.TestProject(t, iamRepo, org.PublicId)
	otherProject := iam.TestProject(t, iamRepo, org.PublicId)

	p1 := accesspolicy.TestPolicy(t, repo, accesspolicy.UserProject, user.PublicId, project.PublicId, accesspolicy.Flags{Read: true})
	p2 := accesspolicy.TestPolicy(t, repo, accesspolicy.GroupProject, group.PublicId, project.PublicId, accesspolicy.Flags{Read: true, Write: true})
	p3 := accesspolicy.TestPolicy(t, repo, accesspolicy.ServiceAccountProject, sa.PublicId, project.PublicId, accesspolicy.Flags{Read: true})
	p4 := accesspolicy.TestPolicy(t, repo, accesspolicy.ServiceAccountProject, sa.PublicId, otherProject.PublicId, accesspolicy.Flags{Read: true})

	t.Run("for-resource", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		got, err := repo.ListPoliciesForResource(ctx, project.PublicId)
		require.NoError(err)
		gotIds := policyIds(got)
		wantIds := []string{p1.PublicId, p2.PublicId, p3.PublicId}
		sort.Strings(wantIds)
		assert.Equal(wantIds, gotIds)
	})
	t.Run("for-resource-with-limit", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		got, err := repo.ListPoliciesForResource(ctx, project.PublicId, accesspolicy.WithLimit(1))
		require.NoError(err)
		assert.Len(got, 1)
	})
	t.Run("for-principal", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		got, err := repo.ListPoliciesForPrincipal(ctx, sa.PublicId)
		require.NoError(err)
		gotIds := policyIds(got)
		wantIds := []string{p3.PublicId, p4.PublicId}
		sort.Strings(wantIds)
		assert.Equal(wantIds, gotIds)
	})
	t.Run("none", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		got, err := repo.ListPoliciesForPrincipal(ctx, "u_doesNotExist")
		require.NoError(err)
		assert.Empty(got)
	})
}

func TestRepository_SetPolicies(t *testing.T) {
	conn := db.TestSetup(t)
	iamRepo := iam.TestRepo(t, conn)
	repo := accesspolicy.TestRepo(t, conn)
	ctx := context.Background()

	org := iam.TestOrg(t, iamRepo)
	user := iam.TestUser(t, iamRepo)

	t.Run("reconcile-scenario", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		p1 := iam.TestProject(t, iamRepo, org.PublicId)
		p2 := iam.TestProject(t, iamRepo, org.PublicId)
		p3 := iam.TestProject(t, iamRepo, org.PublicId)
		p4 := iam.TestProject(t, iamRepo, org.PublicId)

		accesspolicy.TestPolicy(t, repo, accesspolicy.UserProject, user.PublicId, p1.PublicId, accesspolicy.Flags{Read: true, Write: true})
		accesspolicy.TestPolicy(t, repo, accesspolicy.UserProject, user.PublicId, p3.PublicId, accesspolicy.Flags{Read: true, Write: true})
		accesspolicy.TestPolicy(t, repo, accesspolicy.UserProject, user.PublicId, p4.PublicId, accesspolicy.Flags{Read: true, Write: true})

		desired := map[string]accesspolicy.Flags{
			p1.PublicId: {Read: true, Write: false},
			p2.PublicId: {Read: false, Write: false},
			p3.PublicId: {Read: true, Write: true},
		}
		changes, err := repo.SetPolicies(ctx, accesspolicy.UserProject, user.PublicId, desired)
		require.NoError(err)

		assert.Empty(cmp.Diff(map[string]accesspolicy.Flags{p2.PublicId: {}}, changes.Create))
		assert.Empty(cmp.Diff(map[string]accesspolicy.Flags{p1.PublicId: {Read: true}}, changes.Update))
		assert.Equal([]string{p4.PublicId}, changes.Delete)

		stored, err := repo.ListPoliciesForPrincipal(ctx, user.PublicId)
		require.NoError(err)
		got := make(map[string]accesspolicy.Flags, len(stored))
		for _, p := range stored {
			got[p.ResourceId] = p.Flags()
		}
		assert.Empty(cmp.Diff(desired, got))
	})
	t.Run("no-op", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		scopedUser := iam.TestUser(t, iamRepo)
		project := iam.TestProject(t, iamRepo, org.PublicId)
		p := accesspolicy.TestPolicy(t, repo, accesspolicy.UserProject, scopedUser.PublicId, project.PublicId, accesspolicy.Flags{Read: true})

		changes, err := repo.SetPolicies(ctx, accesspolicy.UserProject, scopedUser.PublicId, map[string]accesspolicy.Flags{
			project.PublicId: {Read: true},
		})
		require.NoError(err)
		assert.True(changes.IsZero())

		found, err := repo.LookupPolicy(ctx, p.PublicId)
		require.NoError(err)
		assert.Equal(p.Version, found.Version)
	})
	t.Run("empty-desired-deletes-all", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		scopedUser := iam.TestUser(t, iamRepo)
		project := iam.TestProject(t, iamRepo, org.PublicId)
		otherProject := iam.TestProject(t, iamRepo, org.PublicId)
		accesspolicy.TestPolicy(t, repo, accesspolicy.UserProject, scopedUser.PublicId, project.PublicId, accesspolicy.Flags{Read: true})
		accesspolicy.TestPolicy(t, repo, accesspolicy.UserProject, scopedUser.PublicId, otherProject.PublicId, accesspolicy.Flags{Read: true})

		changes, err := repo.SetPolicies(ctx, accesspolicy.UserProject, scopedUser.PublicId, nil)
		require.NoError(err)
		assert.Len(changes.Delete, 2)

		stored, err := repo.ListPoliciesForPrincipal(ctx, scopedUser.PublicId)
		require.NoError(err)
		assert.Empty(stored)
	})
	t.Run("write-without-read-rejected", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		scopedUser := iam.TestUser(t, iamRepo)
		project := iam.TestProject(t, iamRepo, org.PublicId)

		_, err := repo.SetPolicies(ctx, accesspolicy.UserProject, scopedUser.PublicId, map[string]accesspolicy.Flags{
			project.PublicId: {Write: true},
		})
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.ReadDominance), err))

		stored, err := repo.ListPoliciesForPrincipal(ctx, scopedUser.PublicId)
		require.NoError(err)
		assert.Empty(stored)
	})
	t.Run("touches-service-account-resources", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		scopedUser := iam.TestUser(t, iamRepo)
		sa := iam.TestServiceAccount(t, iamRepo, org.PublicId)
		before, err := iamRepo.LookupServiceAccount(ctx, sa.PublicId)
		require.NoError(err)

		_, err = repo.SetPolicies(ctx, accesspolicy.UserServiceAccount, scopedUser.PublicId, map[string]accesspolicy.Flags{
			sa.PublicId: {Read: true},
		})
		require.NoError(err)

		after, err := iamRepo.LookupServiceAccount(ctx, sa.PublicId)
		require.NoError(err)
		assert.Equal(before.Version+1, after.Version)
	})
	t.Run("invalid-kind", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		_, err := repo.SetPolicies(ctx, accesspolicy.UnknownKind, user.PublicId, nil)
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.InvalidParameter), err))
	})
}

func policyIds(policies []*accesspolicy.AccessPolicy) []string {
	ids := make([]string, 0, len(policies))
	for _, p := range policies {
		ids = append(ids, p.PublicId)
	}
	sort.Strings(ids)
	return ids
}
