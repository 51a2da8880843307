// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package iam

import (
	"context"
	"time"

	"github.com/hashicorp/stronghold/internal/errors"
)

const defaultServiceAccountTableName = "service_account"

// ServiceAccount is a machine principal.  It is also a protected resource:
// users and groups can be granted access to manage it.  Its update_time
// doubles as a revision marker that is touched whenever policies granting it
// access change, so token holders can detect permission drift.
type ServiceAccount struct {
	PublicId   string `gorm:"primary_key"`
	OrgId      string
	Name       string
	Version    uint32
	CreateTime *time.Time `gorm:"->"`
	UpdateTime *time.Time `gorm:"->"`
}

// NewServiceAccount creates a new in memory service account for the
// organization.  WithName is a supported option.
func NewServiceAccount(ctx context.Context, orgId string, opt ...Option) (*ServiceAccount, error) {
	const op = "iam.NewServiceAccount"
	if orgId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing org id")
	}
	opts := getOpts(opt...)
	return &ServiceAccount{
		OrgId: orgId,
		Name:  opts.withName,
	}, nil
}

func allocServiceAccount() *ServiceAccount {
	return &ServiceAccount{}
}

// Clone creates a clone of the ServiceAccount
func (s *ServiceAccount) Clone() *ServiceAccount {
	cp := *s
	return &cp
}

// GetPublicId returns the service account's public id
func (s *ServiceAccount) GetPublicId() string {
	return s.PublicId
}

// TableName returns the tablename
func (s *ServiceAccount) TableName() string {
	return defaultServiceAccountTableName
}
