// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package perms

import (
	"context"

	"github.com/hashicorp/stronghold/internal/accesspolicy"
	"github.com/hashicorp/stronghold/internal/errors"
	"github.com/hashicorp/stronghold/internal/iam"
)

// MembershipProvider supplies the organization membership state needed to
// derive a caller's access mode. iam.Repository satisfies this interface.
type MembershipProvider interface {
	// MemberRole returns the caller's role in the org and whether the
	// caller is a member at all.
	MemberRole(ctx context.Context, orgId, userId string) (iam.OrgRole, bool, error)

	// UserGroupIds returns the ids of the org's groups the user currently
	// belongs to. Membership is always read live; a grant evaluated
	// against stale group membership is a correctness hazard.
	UserGroupIds(ctx context.Context, orgId, userId string) ([]string, error)

	// ServiceAccountInOrg reports whether the service account belongs to
	// the org.
	ServiceAccountInOrg(ctx context.Context, orgId, serviceAccountId string) (bool, error)
}

// PolicyLister supplies the stored policies for a resource.
// accesspolicy.Repository satisfies this interface.
type PolicyLister interface {
	ListPoliciesForResource(ctx context.Context, resourceId string, opt ...accesspolicy.Option) ([]*accesspolicy.AccessPolicy, error)
}

// Access is the effective permission pair computed for a (client, resource)
// pair. The zero value denies everything.
type Access struct {
	Read  bool
	Write bool
}

// Resolver computes effective access from org roles and stored policies. It
// holds no mutable state and is safe for concurrent use.
type Resolver struct {
	memberships MembershipProvider
	policies    PolicyLister
}

// NewResolver creates a resolver backed by the given providers.
func NewResolver(ctx context.Context, m MembershipProvider, p PolicyLister) (*Resolver, error) {
	const op = "perms.NewResolver"
	switch {
	case m == nil:
		return nil, errors.New(ctx, errors.InvalidParameter, op, "nil membership provider")
	case p == nil:
		return nil, errors.New(ctx, errors.InvalidParameter, op, "nil policy lister")
	}
	return &Resolver{
		memberships: m,
		policies:    p,
	}, nil
}

// AccessMode derives the client's evaluation mode within the org. Org admins
// get NoAccessCheck; everyone else is evaluated against stored grants in the
// mode matching their client type. A user with no membership in the org still
// gets UserAccess here; the membership precondition belongs to the Guard.
func (r *Resolver) AccessMode(ctx context.Context, orgId string, client Client) (AccessMode, error) {
	const op = "perms.(Resolver).AccessMode"
	if orgId == "" {
		return UnknownMode, errors.New(ctx, errors.InvalidParameter, op, "missing org id")
	}
	if err := client.validate(ctx, op); err != nil {
		return UnknownMode, errors.Wrap(ctx, err, op)
	}
	switch client.Type {
	case UserClient:
		role, member, err := r.memberships.MemberRole(ctx, orgId, client.Id)
		if err != nil {
			return UnknownMode, errors.Wrap(ctx, err, op)
		}
		if member && role == iam.RoleAdmin {
			return NoAccessCheck, nil
		}
		return UserAccess, nil
	case ServiceAccountClient:
		return ServiceAccountAccess, nil
	default:
		return UnknownMode, errors.New(ctx, errors.InvalidParameter, op, "unknown client type")
	}
}

// Resolve computes the effective (read, write) access of the client for the
// resource. NoAccessCheck mode short-circuits to full access without any
// grant lookup. Otherwise every stored policy for the resource is matched
// against the caller: users match their direct grants plus the grants of any
// group they currently belong to; service accounts match only their direct
// grants and never inherit through groups. Matching flags are OR'd together,
// so absence of any matching grant is an ordinary deny, not an error.
func (r *Resolver) Resolve(ctx context.Context, orgId string, client Client, resourceId string) (Access, error) {
	const op = "perms.(Resolver).Resolve"
	if resourceId == "" {
		return Access{}, errors.New(ctx, errors.InvalidParameter, op, "missing resource id")
	}
	mode, err := r.AccessMode(ctx, orgId, client)
	if err != nil {
		return Access{}, errors.Wrap(ctx, err, op)
	}
	if mode == NoAccessCheck {
		return Access{Read: true, Write: true}, nil
	}

	policies, err := r.policies.ListPoliciesForResource(ctx, resourceId, accesspolicy.WithLimit(-1))
	if err != nil {
		return Access{}, errors.Wrap(ctx, err, op)
	}

	memberOf := map[string]bool{}
	if mode == UserAccess {
		groupIds, err := r.memberships.UserGroupIds(ctx, orgId, client.Id)
		if err != nil {
			return Access{}, errors.Wrap(ctx, err, op)
		}
		for _, id := range groupIds {
			memberOf[id] = true
		}
	}

	var acc Access
	for _, p := range policies {
		var matches bool
		switch p.Kind {
		case accesspolicy.UserProject, accesspolicy.UserServiceAccount:
			matches = mode == UserAccess && p.PrincipalId == client.Id
		case accesspolicy.GroupProject, accesspolicy.GroupServiceAccount:
			matches = mode == UserAccess && memberOf[p.PrincipalId]
		case accesspolicy.ServiceAccountProject:
			matches = mode == ServiceAccountAccess && p.PrincipalId == client.Id
		default:
			return Access{}, errors.New(ctx, errors.Internal, op, "unhandled policy kind")
		}
		if matches {
			acc.Read = acc.Read || p.CanRead
			acc.Write = acc.Write || p.CanWrite
		}
	}
	return acc, nil
}
