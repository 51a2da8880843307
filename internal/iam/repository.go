// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package iam

import (
	"context"

	"github.com/hashicorp/stronghold/internal/db"
	"github.com/hashicorp/stronghold/internal/errors"
)

// Repository is the iam database repository
type Repository struct {
	reader db.Reader
	writer db.Writer
}

// NewRepository creates a new iam Repository. Supports the options: WithLimit
// which sets a default limit on results returned by repo operations.
func NewRepository(ctx context.Context, r db.Reader, w db.Writer) (*Repository, error) {
	const op = "iam.NewRepository"
	if r == nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "nil reader")
	}
	if w == nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "nil writer")
	}
	return &Repository{
		reader: r,
		writer: w,
	}, nil
}

// CreateOrganization inserts the organization and returns the stored row.
func (r *Repository) CreateOrganization(ctx context.Context, org *Organization) (*Organization, error) {
	const op = "iam.(Repository).CreateOrganization"
	if org == nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing organization")
	}
	if org.PublicId != "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "public id not empty")
	}
	id, err := newOrganizationId(ctx)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	c := org.Clone()
	c.PublicId = id
	c.Version = 1
	if err := r.create(ctx, c); err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return c, nil
}

// LookupOrganization returns the organization for the public id.
func (r *Repository) LookupOrganization(ctx context.Context, publicId string) (*Organization, error) {
	const op = "iam.(Repository).LookupOrganization"
	if publicId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing public id")
	}
	org := allocOrganization()
	org.PublicId = publicId
	if err := r.reader.LookupByPublicId(ctx, org); err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return org, nil
}

// CreateUser inserts the user and returns the stored row.
func (r *Repository) CreateUser(ctx context.Context, u *User) (*User, error) {
	const op = "iam.(Repository).CreateUser"
	if u == nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing user")
	}
	if u.PublicId != "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "public id not empty")
	}
	id, err := newUserId(ctx)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	c := u.Clone()
	c.PublicId = id
	c.Version = 1
	if err := r.create(ctx, c); err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return c, nil
}

// CreateGroup inserts the group and returns the stored row.
func (r *Repository) CreateGroup(ctx context.Context, g *Group) (*Group, error) {
	const op = "iam.(Repository).CreateGroup"
	if g == nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing group")
	}
	if g.OrgId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing org id")
	}
	if g.PublicId != "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "public id not empty")
	}
	id, err := newGroupId(ctx)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	c := g.Clone()
	c.PublicId = id
	c.Version = 1
	if err := r.create(ctx, c); err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return c, nil
}

// CreateProject inserts the project and returns the stored row.
func (r *Repository) CreateProject(ctx context.Context, p *Project) (*Project, error) {
	const op = "iam.(Repository).CreateProject"
	if p == nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing project")
	}
	if p.OrgId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing org id")
	}
	if p.PublicId != "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "public id not empty")
	}
	id, err := newProjectId(ctx)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	c := p.Clone()
	c.PublicId = id
	c.Version = 1
	if err := r.create(ctx, c); err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return c, nil
}

// CreateServiceAccount inserts the service account and returns the stored
// row.  Callers enforcing plan seat limits should consult the billing
// repository first.
func (r *Repository) CreateServiceAccount(ctx context.Context, sa *ServiceAccount) (*ServiceAccount, error) {
	const op = "iam.(Repository).CreateServiceAccount"
	if sa == nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing service account")
	}
	if sa.OrgId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing org id")
	}
	if sa.PublicId != "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "public id not empty")
	}
	id, err := newServiceAccountId(ctx)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	c := sa.Clone()
	c.PublicId = id
	c.Version = 1
	if err := r.create(ctx, c); err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return c, nil
}

// LookupServiceAccount returns the service account for the public id.
func (r *Repository) LookupServiceAccount(ctx context.Context, publicId string) (*ServiceAccount, error) {
	const op = "iam.(Repository).LookupServiceAccount"
	if publicId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing public id")
	}
	sa := allocServiceAccount()
	sa.PublicId = publicId
	if err := r.reader.LookupByPublicId(ctx, sa); err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return sa, nil
}

// AddOrgMember adds the user to the organization with the role.
func (r *Repository) AddOrgMember(ctx context.Context, orgId, userId string, role OrgRole) (*OrgMember, error) {
	const op = "iam.(Repository).AddOrgMember"
	m, err := NewOrgMember(ctx, orgId, userId, role)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	if err := r.create(ctx, m); err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return m, nil
}

// AddGroupMembers adds the users to the group in a single transaction.
func (r *Repository) AddGroupMembers(ctx context.Context, groupId string, memberIds []string) ([]*GroupMember, error) {
	const op = "iam.(Repository).AddGroupMembers"
	if groupId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing group id")
	}
	if len(memberIds) == 0 {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing member ids")
	}
	members := make([]*GroupMember, 0, len(memberIds))
	for _, id := range memberIds {
		m, err := NewGroupMember(ctx, groupId, id)
		if err != nil {
			return nil, errors.Wrap(ctx, err, op)
		}
		members = append(members, m)
	}
	_, err := r.writer.DoTx(ctx, db.StdRetryCnt, db.ExpBackoff{},
		func(read db.Reader, w db.Writer) error {
			return w.CreateItems(ctx, members)
		},
	)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return members, nil
}

// MemberRole returns the user's role within the organization. The bool
// return reports whether the user is a member at all.
func (r *Repository) MemberRole(ctx context.Context, orgId, userId string) (OrgRole, bool, error) {
	const op = "iam.(Repository).MemberRole"
	if orgId == "" {
		return "", false, errors.New(ctx, errors.InvalidParameter, op, "missing org id")
	}
	if userId == "" {
		return "", false, errors.New(ctx, errors.InvalidParameter, op, "missing user id")
	}
	m := &OrgMember{}
	err := r.reader.LookupWhere(ctx, m, "org_id = ? and user_id = ?", []any{orgId, userId})
	switch {
	case errors.IsNotFoundError(err):
		return "", false, nil
	case err != nil:
		return "", false, errors.Wrap(ctx, err, op)
	}
	return OrgRole(m.Role), true, nil
}

// UserGroupIds returns the ids of the org's groups the user is currently a
// member of.  Resolution is always live against the membership tables.
func (r *Repository) UserGroupIds(ctx context.Context, orgId, userId string) ([]string, error) {
	const op = "iam.(Repository).UserGroupIds"
	if orgId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing org id")
	}
	if userId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing user id")
	}
	rows, err := r.reader.Query(ctx, userGroupIdsQuery, []any{userId, orgId})
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	defer rows.Close()
	var groupIds []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(ctx, err, op)
		}
		groupIds = append(groupIds, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return groupIds, nil
}

// ServiceAccountInOrg reports whether the service account belongs to the
// organization.
func (r *Repository) ServiceAccountInOrg(ctx context.Context, orgId, serviceAccountId string) (bool, error) {
	const op = "iam.(Repository).ServiceAccountInOrg"
	if orgId == "" {
		return false, errors.New(ctx, errors.InvalidParameter, op, "missing org id")
	}
	if serviceAccountId == "" {
		return false, errors.New(ctx, errors.InvalidParameter, op, "missing service account id")
	}
	sa := allocServiceAccount()
	err := r.reader.LookupWhere(ctx, sa, "public_id = ? and org_id = ?", []any{serviceAccountId, orgId})
	switch {
	case errors.IsNotFoundError(err):
		return false, nil
	case err != nil:
		return false, errors.Wrap(ctx, err, op)
	}
	return true, nil
}

func (r *Repository) create(ctx context.Context, resource any) error {
	const op = "iam.(Repository).create"
	_, err := r.writer.DoTx(ctx, db.StdRetryCnt, db.ExpBackoff{},
		func(read db.Reader, w db.Writer) error {
			return w.Create(ctx, resource)
		},
	)
	if err != nil {
		return errors.Wrap(ctx, err, op)
	}
	return nil
}
