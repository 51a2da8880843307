// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package iam

import (
	"context"
	"testing"

	"github.com/hashicorp/go-uuid"
	"github.com/hashicorp/stronghold/internal/db"
	"github.com/stretchr/testify/require"
)

// testId generates a unique id suitable for a test entity name.
func testId(t *testing.T) string {
	t.Helper()
	id, err := uuid.GenerateUUID()
	require.NoError(t, err)
	return id
}

// TestRepo creates a repo that can be used for various purposes. Crucially, it
// ensures that the repo is asserted to be non-nil.
func TestRepo(t *testing.T, conn *db.DB) *Repository {
	t.Helper()
	require := require.New(t)
	rw := db.New(conn)
	repo, err := NewRepository(context.Background(), rw, rw)
	require.NoError(err)
	require.NotNil(repo)
	return repo
}

// TestOrg creates an organization for testing.
func TestOrg(t *testing.T, repo *Repository, opt ...Option) *Organization {
	t.Helper()
	require := require.New(t)
	ctx := context.Background()
	opt = append([]Option{WithName("o-" + testId(t))}, opt...)
	org, err := NewOrganization(ctx, opt...)
	require.NoError(err)
	org, err = repo.CreateOrganization(ctx, org)
	require.NoError(err)
	require.NotEmpty(org.PublicId)
	return org
}

// TestUser creates a user for testing.
func TestUser(t *testing.T, repo *Repository, opt ...Option) *User {
	t.Helper()
	require := require.New(t)
	ctx := context.Background()
	opt = append([]Option{WithName("u-" + testId(t))}, opt...)
	u, err := NewUser(ctx, opt...)
	require.NoError(err)
	u, err = repo.CreateUser(ctx, u)
	require.NoError(err)
	require.NotEmpty(u.PublicId)
	return u
}

// TestGroup creates a group in the org for testing.
func TestGroup(t *testing.T, repo *Repository, orgId string, opt ...Option) *Group {
	t.Helper()
	require := require.New(t)
	ctx := context.Background()
	g, err := NewGroup(ctx, orgId, opt...)
	require.NoError(err)
	g, err = repo.CreateGroup(ctx, g)
	require.NoError(err)
	require.NotEmpty(g.PublicId)
	return g
}

// TestGroupMember adds the user to the group for testing.
func TestGroupMember(t *testing.T, repo *Repository, groupId, userId string) *GroupMember {
	t.Helper()
	require := require.New(t)
	members, err := repo.AddGroupMembers(context.Background(), groupId, []string{userId})
	require.NoError(err)
	require.Len(members, 1)
	return members[0]
}

// TestOrgMember adds the user to the org with the role for testing.
func TestOrgMember(t *testing.T, repo *Repository, orgId, userId string, role OrgRole) *OrgMember {
	t.Helper()
	require := require.New(t)
	m, err := repo.AddOrgMember(context.Background(), orgId, userId, role)
	require.NoError(err)
	return m
}

// TestProject creates a project in the org for testing.
func TestProject(t *testing.T, repo *Repository, orgId string, opt ...Option) *Project {
	t.Helper()
	require := require.New(t)
	ctx := context.Background()
	p, err := NewProject(ctx, orgId, opt...)
	require.NoError(err)
	p, err = repo.CreateProject(ctx, p)
	require.NoError(err)
	require.NotEmpty(p.PublicId)
	return p
}

// TestServiceAccount creates a service account in the org for testing.
func TestServiceAccount(t *testing.T, repo *Repository, orgId string, opt ...Option) *ServiceAccount {
	t.Helper()
	require := require.New(t)
	ctx := context.Background()
	sa, err := NewServiceAccount(ctx, orgId, opt...)
	require.NoError(err)
	sa, err = repo.CreateServiceAccount(ctx, sa)
	require.NoError(err)
	require.NotEmpty(sa.PublicId)
	return sa
}
