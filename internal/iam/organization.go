// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package iam

import (
	"context"
	"time"
)

const defaultOrganizationTableName = "organization"

// Organization is the root of ownership for users, groups, projects and
// service accounts.  Organizations are created/managed by the wider platform;
// this package carries them as collaborators for access decisions and seat
// accounting.
type Organization struct {
	PublicId string `gorm:"primary_key"`
	Name     string

	// ServiceAccountLimit is the plan's service account seat limit.  A nil
	// limit means the plan does not meter seats.
	ServiceAccountLimit *uint32

	Version    uint32
	CreateTime *time.Time `gorm:"->"`
	UpdateTime *time.Time `gorm:"->"`
}

// NewOrganization creates a new in memory organization.  WithName and
// WithServiceAccountLimit are supported options.
func NewOrganization(ctx context.Context, opt ...Option) (*Organization, error) {
	opts := getOpts(opt...)
	return &Organization{
		Name:                opts.withName,
		ServiceAccountLimit: opts.withServiceAccountLimit,
	}, nil
}

func allocOrganization() *Organization {
	return &Organization{}
}

// Clone creates a clone of the Organization
func (o *Organization) Clone() *Organization {
	cp := *o
	if o.ServiceAccountLimit != nil {
		limit := *o.ServiceAccountLimit
		cp.ServiceAccountLimit = &limit
	}
	return &cp
}

// GetPublicId returns the organization's public id
func (o *Organization) GetPublicId() string {
	return o.PublicId
}

// TableName returns the tablename
func (o *Organization) TableName() string {
	return defaultOrganizationTableName
}
