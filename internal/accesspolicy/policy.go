// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package accesspolicy implements the access policy model: grants of read
// and/or write access from a principal (user, group or service account) to a
// resource (project or service account), the batch validator enforcing the
// model's invariants, the reconciler computing minimal change sets, and the
// repository persisting policies.
package accesspolicy

import (
	"context"
	"time"

	"github.com/hashicorp/stronghold/internal/errors"
	"github.com/hashicorp/stronghold/internal/types/resource"
)

const defaultAccessPolicyTableName = "access_policy"

// Kind is the closed set of policy variants.  Every place a policy is
// interpreted must switch exhaustively over Kind and fail on an unknown
// value, so adding a variant cannot silently fall through to an allow or
// deny.
type Kind string

const (
	UnknownKind           Kind = "unknown"
	UserProject           Kind = "user_project"
	UserServiceAccount    Kind = "user_service_account"
	GroupProject          Kind = "group_project"
	GroupServiceAccount   Kind = "group_service_account"
	ServiceAccountProject Kind = "service_account_project"
)

func (k Kind) isValid() bool {
	switch k {
	case UserProject, UserServiceAccount, GroupProject, GroupServiceAccount, ServiceAccountProject:
		return true
	}
	return false
}

// ResourceType returns the type of resource the policy kind grants access
// to.
func (k Kind) ResourceType() resource.Type {
	switch k {
	case UserProject, GroupProject, ServiceAccountProject:
		return resource.Project
	case UserServiceAccount, GroupServiceAccount:
		return resource.ServiceAccount
	default:
		return resource.Unknown
	}
}

func (k Kind) String() string {
	return string(k)
}

// Flags is the pair of access flags carried by every policy.
type Flags struct {
	Read  bool
	Write bool
}

// AccessPolicy is a single grant: one principal, one resource, and the
// access flags.  The kind, principal and resource are immutable once the
// policy is created; only the flags may change.
type AccessPolicy struct {
	PublicId    string `gorm:"primary_key"`
	Kind        Kind
	PrincipalId string
	ResourceId  string
	CanRead     bool
	CanWrite    bool
	Version     uint32
	CreateTime  *time.Time `gorm:"->"`
	UpdateTime  *time.Time `gorm:"->"`
}

// NewUserProjectPolicy grants a user access to a project.
func NewUserProjectPolicy(ctx context.Context, userId, projectId string, flags Flags) (*AccessPolicy, error) {
	return newPolicy(ctx, UserProject, userId, projectId, flags)
}

// NewUserServiceAccountPolicy grants a user access to a service account.
func NewUserServiceAccountPolicy(ctx context.Context, userId, serviceAccountId string, flags Flags) (*AccessPolicy, error) {
	return newPolicy(ctx, UserServiceAccount, userId, serviceAccountId, flags)
}

// NewGroupProjectPolicy grants a group's members access to a project.
func NewGroupProjectPolicy(ctx context.Context, groupId, projectId string, flags Flags) (*AccessPolicy, error) {
	return newPolicy(ctx, GroupProject, groupId, projectId, flags)
}

// NewGroupServiceAccountPolicy grants a group's members access to a service
// account.
func NewGroupServiceAccountPolicy(ctx context.Context, groupId, serviceAccountId string, flags Flags) (*AccessPolicy, error) {
	return newPolicy(ctx, GroupServiceAccount, groupId, serviceAccountId, flags)
}

// NewServiceAccountProjectPolicy grants a service account access to a
// project.
func NewServiceAccountProjectPolicy(ctx context.Context, serviceAccountId, projectId string, flags Flags) (*AccessPolicy, error) {
	return newPolicy(ctx, ServiceAccountProject, serviceAccountId, projectId, flags)
}

// NewPolicy creates a new in memory policy of the kind.  Most callers should
// prefer the kind-specific constructors.
func NewPolicy(ctx context.Context, k Kind, principalId, resourceId string, flags Flags) (*AccessPolicy, error) {
	return newPolicy(ctx, k, principalId, resourceId, flags)
}

func newPolicy(ctx context.Context, k Kind, principalId, resourceId string, flags Flags) (*AccessPolicy, error) {
	const op = "accesspolicy.newPolicy"
	p := &AccessPolicy{
		Kind:        k,
		PrincipalId: principalId,
		ResourceId:  resourceId,
		CanRead:     flags.Read,
		CanWrite:    flags.Write,
	}
	if err := p.validate(ctx, op); err != nil {
		return nil, err
	}
	return p, nil
}

// validate checks the policy's singular reference and read-dominance
// invariants.
func (p *AccessPolicy) validate(ctx context.Context, caller errors.Op) error {
	if !p.Kind.isValid() {
		return errors.New(ctx, errors.InvalidParameter, caller, "invalid policy kind")
	}
	if p.PrincipalId == "" {
		return errors.New(ctx, errors.InvalidParameter, caller, "missing principal id")
	}
	if p.ResourceId == "" {
		return errors.New(ctx, errors.InvalidParameter, caller, "missing resource id")
	}
	if p.CanWrite && !p.CanRead {
		return errors.New(ctx, errors.ReadDominance, caller, "policy grants write without read")
	}
	return nil
}

// Flags returns the policy's access flags.
func (p *AccessPolicy) Flags() Flags {
	return Flags{Read: p.CanRead, Write: p.CanWrite}
}

func allocPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

// Clone creates a clone of the AccessPolicy
func (p *AccessPolicy) Clone() *AccessPolicy {
	cp := *p
	return &cp
}

// GetPublicId returns the policy's public id
func (p *AccessPolicy) GetPublicId() string {
	return p.PublicId
}

// TableName returns the tablename
func (p *AccessPolicy) TableName() string {
	return defaultAccessPolicyTableName
}
