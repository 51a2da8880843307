// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package accesspolicy

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/stronghold/internal/errors"
)

type policyKey struct {
	kind        Kind
	principalId string
	resourceId  string
}

// ValidateBatch checks a candidate batch of policies against the model's
// invariants: every policy must be singular and read-dominant, and no two
// policies in the batch may share the same (kind, principal, resource)
// triple.  All violations are reported, not just the first, and a violating
// batch must be rejected in full before any storage mutation.  ValidateBatch
// is pure.
func ValidateBatch(ctx context.Context, policies []*AccessPolicy) error {
	const op = "accesspolicy.ValidateBatch"
	if len(policies) == 0 {
		return errors.New(ctx, errors.InvalidParameter, op, "missing policies")
	}
	var merr *multierror.Error
	seen := make(map[policyKey]struct{}, len(policies))
	for i, p := range policies {
		if p == nil {
			merr = multierror.Append(merr, errors.New(ctx, errors.InvalidParameter, op, fmt.Sprintf("policy %d is nil", i)))
			continue
		}
		if err := p.validate(ctx, op); err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		key := policyKey{kind: p.Kind, principalId: p.PrincipalId, resourceId: p.ResourceId}
		if _, dup := seen[key]; dup {
			merr = multierror.Append(merr, errors.New(ctx, errors.DuplicatePolicy, op,
				fmt.Sprintf("duplicate %s policy for principal %s and resource %s", p.Kind, p.PrincipalId, p.ResourceId)))
			continue
		}
		seen[key] = struct{}{}
	}
	return merr.ErrorOrNil()
}
