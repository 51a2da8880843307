// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package iam

import (
	"context"
	"time"

	"github.com/hashicorp/stronghold/internal/errors"
)

const defaultOrgMemberTableName = "iam_org_member"

// OrgRole is a user's role within an organization.
type OrgRole string

const (
	// RoleAdmin elevates a member above per-resource access checks.
	RoleAdmin OrgRole = "admin"

	// RoleUser is a regular member whose access is governed by policies.
	RoleUser OrgRole = "user"
)

func (r OrgRole) isValid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	}
	return false
}

// OrgMember is a user's membership in an organization, carrying the member's
// role.
type OrgMember struct {
	OrgId      string `gorm:"primary_key"`
	UserId     string `gorm:"primary_key"`
	Role       string
	CreateTime *time.Time `gorm:"->"`
}

// NewOrgMember creates a new in memory org member with the role.
func NewOrgMember(ctx context.Context, orgId, userId string, role OrgRole) (*OrgMember, error) {
	const op = "iam.NewOrgMember"
	if orgId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing org id")
	}
	if userId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing user id")
	}
	if !role.isValid() {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "invalid role")
	}
	return &OrgMember{
		OrgId:  orgId,
		UserId: userId,
		Role:   string(role),
	}, nil
}

// Clone creates a clone of the OrgMember
func (m *OrgMember) Clone() *OrgMember {
	cp := *m
	return &cp
}

// TableName returns the tablename
func (m *OrgMember) TableName() string {
	return defaultOrgMemberTableName
}
