// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package iam

import (
	"context"
	"time"

	"github.com/hashicorp/stronghold/internal/errors"
)

const defaultProjectTableName = "project"

// Project is a protected resource that scopes secrets within an
// organization.
type Project struct {
	PublicId   string `gorm:"primary_key"`
	OrgId      string
	Name       string
	Version    uint32
	CreateTime *time.Time `gorm:"->"`
	UpdateTime *time.Time `gorm:"->"`
}

// NewProject creates a new in memory project for the organization.  WithName
// is a supported option.
func NewProject(ctx context.Context, orgId string, opt ...Option) (*Project, error) {
	const op = "iam.NewProject"
	if orgId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing org id")
	}
	opts := getOpts(opt...)
	return &Project{
		OrgId: orgId,
		Name:  opts.withName,
	}, nil
}

func allocProject() *Project {
	return &Project{}
}

// Clone creates a clone of the Project
func (p *Project) Clone() *Project {
	cp := *p
	return &cp
}

// GetPublicId returns the project's public id
func (p *Project) GetPublicId() string {
	return p.PublicId
}

// TableName returns the tablename
func (p *Project) TableName() string {
	return defaultProjectTableName
}
