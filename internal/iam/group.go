// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package iam

import (
	"context"
	"time"

	"github.com/hashicorp/stronghold/internal/errors"
)

const defaultGroupTableName = "iam_group"

// Group is a collection of users within one organization.  User members
// inherit the group's access policies at resolution time; membership is never
// cached on policy rows.
type Group struct {
	PublicId   string `gorm:"primary_key"`
	OrgId      string
	Name       string
	Version    uint32
	CreateTime *time.Time `gorm:"->"`
	UpdateTime *time.Time `gorm:"->"`
}

// NewGroup creates a new in memory group for the organization.  WithName is a
// supported option.
func NewGroup(ctx context.Context, orgId string, opt ...Option) (*Group, error) {
	const op = "iam.NewGroup"
	if orgId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing org id")
	}
	opts := getOpts(opt...)
	return &Group{
		OrgId: orgId,
		Name:  opts.withName,
	}, nil
}

func allocGroup() *Group {
	return &Group{}
}

// Clone creates a clone of the Group
func (g *Group) Clone() *Group {
	cp := *g
	return &cp
}

// GetPublicId returns the group's public id
func (g *Group) GetPublicId() string {
	return g.PublicId
}

// TableName returns the tablename
func (g *Group) TableName() string {
	return defaultGroupTableName
}
