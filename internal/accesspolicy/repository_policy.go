// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package accesspolicy

import (
	"context"
	"fmt"

	"github.com/hashicorp/stronghold/internal/db"
	"github.com/hashicorp/stronghold/internal/errors"
)

// CreatePolicies validates the batch and stores all policies in a single
// transaction.  Service accounts referenced by the new policies get their
// revision touched in the same transaction.
func (r *Repository) CreatePolicies(ctx context.Context, policies []*AccessPolicy) ([]*AccessPolicy, error) {
	const op = "accesspolicy.(Repository).CreatePolicies"
	if err := ValidateBatch(ctx, policies); err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	clones := make([]*AccessPolicy, 0, len(policies))
	for _, p := range policies {
		if p.PublicId != "" {
			return nil, errors.New(ctx, errors.InvalidParameter, op, "public id not empty")
		}
		id, err := newAccessPolicyId(ctx)
		if err != nil {
			return nil, errors.Wrap(ctx, err, op)
		}
		c := p.Clone()
		c.PublicId = id
		c.Version = 1
		clones = append(clones, c)
	}
	saIds, err := serviceAccountsToTouch(ctx, clones)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	_, err = r.writer.DoTx(ctx, db.StdRetryCnt, db.ExpBackoff{},
		func(read db.Reader, w db.Writer) error {
			if err := w.CreateItems(ctx, clones); err != nil {
				return err
			}
			return touchServiceAccounts(ctx, w, saIds)
		},
	)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return clones, nil
}

// LookupPolicy returns the policy for the public id.
func (r *Repository) LookupPolicy(ctx context.Context, publicId string) (*AccessPolicy, error) {
	const op = "accesspolicy.(Repository).LookupPolicy"
	if publicId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing public id")
	}
	p := allocPolicy()
	p.PublicId = publicId
	if err := r.reader.LookupByPublicId(ctx, p); err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return p, nil
}

// UpdatePolicyFlags updates the policy's access flags using the version for
// optimistic locking.  The policy's kind, principal and resource are
// immutable; only the flags can change, and the new flags must keep the
// read-dominance invariant.  Returns the updated policy and the number of
// rows updated.
func (r *Repository) UpdatePolicyFlags(ctx context.Context, publicId string, version uint32, flags Flags) (*AccessPolicy, int, error) {
	const op = "accesspolicy.(Repository).UpdatePolicyFlags"
	if publicId == "" {
		return nil, db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op, "missing public id")
	}
	if version == 0 {
		return nil, db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op, "missing version")
	}
	if flags.Write && !flags.Read {
		return nil, db.NoRowsAffected, errors.New(ctx, errors.ReadDominance, op, "policy grants write without read")
	}
	var updated *AccessPolicy
	var rowsUpdated int
	_, err := r.writer.DoTx(ctx, db.StdRetryCnt, db.ExpBackoff{},
		func(read db.Reader, w db.Writer) error {
			found := allocPolicy()
			found.PublicId = publicId
			if err := read.LookupByPublicId(ctx, found); err != nil {
				return err
			}
			c := found.Clone()
			c.CanRead = flags.Read
			c.CanWrite = flags.Write
			c.Version = version + 1
			var err error
			rowsUpdated, err = w.Update(ctx, c, []string{"CanRead", "CanWrite", "Version"}, nil, db.WithVersion(&version))
			if err != nil {
				return err
			}
			if rowsUpdated != 1 {
				return errors.New(ctx, errors.MultipleRecords, op, "more than 1 policy would have been updated")
			}
			updated = c
			saIds, err := serviceAccountsToTouch(ctx, []*AccessPolicy{c})
			if err != nil {
				return err
			}
			return touchServiceAccounts(ctx, w, saIds)
		},
	)
	if err != nil {
		return nil, db.NoRowsAffected, errors.Wrap(ctx, err, op)
	}
	return updated, rowsUpdated, nil
}

// DeletePolicy deletes the policy for the public id.  Returns the number of
// rows deleted.
func (r *Repository) DeletePolicy(ctx context.Context, publicId string) (int, error) {
	const op = "accesspolicy.(Repository).DeletePolicy"
	if publicId == "" {
		return db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op, "missing public id")
	}
	var rowsDeleted int
	_, err := r.writer.DoTx(ctx, db.StdRetryCnt, db.ExpBackoff{},
		func(read db.Reader, w db.Writer) error {
			found := allocPolicy()
			found.PublicId = publicId
			if err := read.LookupByPublicId(ctx, found); err != nil {
				return err
			}
			var err error
			rowsDeleted, err = w.Delete(ctx, found)
			if err != nil {
				return err
			}
			if rowsDeleted != 1 {
				return errors.New(ctx, errors.MultipleRecords, op, "more than 1 policy would have been deleted")
			}
			saIds, err := serviceAccountsToTouch(ctx, []*AccessPolicy{found})
			if err != nil {
				return err
			}
			return touchServiceAccounts(ctx, w, saIds)
		},
	)
	if err != nil {
		return db.NoRowsAffected, errors.Wrap(ctx, err, op)
	}
	return rowsDeleted, nil
}

// ListPoliciesForResource returns all policies granting access to the
// resource, regardless of principal.  Supports WithLimit.
func (r *Repository) ListPoliciesForResource(ctx context.Context, resourceId string, opt ...Option) ([]*AccessPolicy, error) {
	const op = "accesspolicy.(Repository).ListPoliciesForResource"
	if resourceId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing resource id")
	}
	policies, err := r.list(ctx, "resource_id = ?", []any{resourceId}, opt...)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return policies, nil
}

// ListPoliciesForPrincipal returns all policies granted to the principal,
// regardless of resource.  Supports WithLimit.
func (r *Repository) ListPoliciesForPrincipal(ctx context.Context, principalId string, opt ...Option) ([]*AccessPolicy, error) {
	const op = "accesspolicy.(Repository).ListPoliciesForPrincipal"
	if principalId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing principal id")
	}
	policies, err := r.list(ctx, "principal_id = ?", []any{principalId}, opt...)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return policies, nil
}

// SetPolicies reconciles the stored policies of one kind for one principal
// against the desired set, keyed by resource id.  The snapshot read, diff,
// validation and application all happen inside a single transaction, with
// version-checked updates, so a concurrent writer cannot invalidate the
// snapshot without failing the transaction.  Returns the applied changes.
func (r *Repository) SetPolicies(ctx context.Context, kind Kind, principalId string, desired map[string]Flags) (Changes, error) {
	const op = "accesspolicy.(Repository).SetPolicies"
	if !kind.isValid() {
		return Changes{}, errors.New(ctx, errors.InvalidParameter, op, "invalid policy kind")
	}
	if principalId == "" {
		return Changes{}, errors.New(ctx, errors.InvalidParameter, op, "missing principal id")
	}
	// an empty desired set is a valid request to delete all of the
	// principal's policies of this kind.
	if len(desired) > 0 {
		candidate := make([]*AccessPolicy, 0, len(desired))
		for resourceId, flags := range desired {
			p, err := newPolicy(ctx, kind, principalId, resourceId, flags)
			if err != nil {
				return Changes{}, errors.Wrap(ctx, err, op)
			}
			candidate = append(candidate, p)
		}
		if err := ValidateBatch(ctx, candidate); err != nil {
			return Changes{}, errors.Wrap(ctx, err, op)
		}
	}

	var changes Changes
	_, err := r.writer.DoTx(ctx, db.StdRetryCnt, db.ExpBackoff{},
		func(read db.Reader, w db.Writer) error {
			var existing []*AccessPolicy
			if err := read.SearchWhere(ctx, &existing, "kind = ? and principal_id = ?", []any{kind, principalId}, db.WithLimit(-1)); err != nil {
				return err
			}
			existingFlags := make(map[string]Flags, len(existing))
			byResource := make(map[string]*AccessPolicy, len(existing))
			for _, p := range existing {
				existingFlags[p.ResourceId] = p.Flags()
				byResource[p.ResourceId] = p
			}
			changes = Diff(existingFlags, desired)
			if changes.IsZero() {
				return nil
			}

			touched := make([]*AccessPolicy, 0, len(changes.Create)+len(changes.Update)+len(changes.Delete))

			if len(changes.Create) > 0 {
				creates := make([]*AccessPolicy, 0, len(changes.Create))
				for resourceId, flags := range changes.Create {
					p, err := newPolicy(ctx, kind, principalId, resourceId, flags)
					if err != nil {
						return err
					}
					id, err := newAccessPolicyId(ctx)
					if err != nil {
						return err
					}
					p.PublicId = id
					p.Version = 1
					creates = append(creates, p)
				}
				if err := w.CreateItems(ctx, creates); err != nil {
					return err
				}
				touched = append(touched, creates...)
			}

			for resourceId, flags := range changes.Update {
				c := byResource[resourceId].Clone()
				version := c.Version
				c.CanRead = flags.Read
				c.CanWrite = flags.Write
				c.Version = version + 1
				rowsUpdated, err := w.Update(ctx, c, []string{"CanRead", "CanWrite", "Version"}, nil, db.WithVersion(&version))
				if err != nil {
					return err
				}
				if rowsUpdated != 1 {
					return errors.New(ctx, errors.UnexpectedRowsAffected, op,
						fmt.Sprintf("expected 1 policy updated for resource %s and got %d", resourceId, rowsUpdated))
				}
				touched = append(touched, c)
			}

			if len(changes.Delete) > 0 {
				deletes := make([]*AccessPolicy, 0, len(changes.Delete))
				for _, resourceId := range changes.Delete {
					deletes = append(deletes, byResource[resourceId].Clone())
				}
				rowsDeleted, err := w.DeleteItems(ctx, deletes)
				if err != nil {
					return err
				}
				if rowsDeleted != len(deletes) {
					return errors.New(ctx, errors.UnexpectedRowsAffected, op,
						fmt.Sprintf("expected %d policies deleted and got %d", len(deletes), rowsDeleted))
				}
				touched = append(touched, deletes...)
			}

			saIds, err := serviceAccountsToTouch(ctx, touched)
			if err != nil {
				return err
			}
			return touchServiceAccounts(ctx, w, saIds)
		},
	)
	if err != nil {
		return Changes{}, errors.Wrap(ctx, err, op)
	}
	return changes, nil
}

func (r *Repository) list(ctx context.Context, where string, args []any, opt ...Option) ([]*AccessPolicy, error) {
	opts := getOpts(opt...)
	limit := r.defaultLimit
	if opts.withLimit != 0 {
		limit = opts.withLimit
	}
	var policies []*AccessPolicy
	if err := r.reader.SearchWhere(ctx, &policies, where, args, db.WithLimit(limit)); err != nil {
		return nil, err
	}
	return policies, nil
}

// serviceAccountsToTouch returns the ids of the service accounts whose
// revision must be bumped because the policies affect their access, either
// as the resource of a grant or as the granted principal.  The switch is
// exhaustive over Kind.
func serviceAccountsToTouch(ctx context.Context, policies []*AccessPolicy) ([]string, error) {
	const op = "accesspolicy.serviceAccountsToTouch"
	seen := make(map[string]struct{})
	var saIds []string
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		saIds = append(saIds, id)
	}
	for _, p := range policies {
		switch p.Kind {
		case UserProject, GroupProject:
		case UserServiceAccount, GroupServiceAccount:
			add(p.ResourceId)
		case ServiceAccountProject:
			add(p.PrincipalId)
		default:
			return nil, errors.New(ctx, errors.Internal, op, fmt.Sprintf("unhandled policy kind %q", p.Kind))
		}
	}
	return saIds, nil
}

// touchServiceAccounts bumps the version of the service accounts so their
// update_time reflects the policy change (token holders use it to detect
// permission drift).
func touchServiceAccounts(ctx context.Context, w db.Writer, saIds []string) error {
	const op = "accesspolicy.touchServiceAccounts"
	if len(saIds) == 0 {
		return nil
	}
	_, err := w.Exec(ctx, "update service_account set version = version + 1 where public_id in ?", []any{saIds})
	if err != nil {
		return errors.Wrap(ctx, err, op)
	}
	return nil
}
