// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package billing computes service account seat capacity against an
// organization's plan limit.
package billing

import (
	"context"

	"github.com/hashicorp/stronghold/internal/db"
	"github.com/hashicorp/stronghold/internal/errors"
	"github.com/hashicorp/stronghold/internal/iam"
)

// Repository answers seat capacity queries. It only ever reads.
type Repository struct {
	reader db.Reader
}

// NewRepository creates a billing repository backed by r.
func NewRepository(ctx context.Context, r db.Reader) (*Repository, error) {
	const op = "billing.NewRepository"
	if r == nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "nil reader")
	}
	return &Repository{reader: r}, nil
}

// AvailableServiceAccountSlots returns how many more service accounts the
// org may provision under its current seat limit. An org with no configured
// limit reports 0: no headroom is assumed, which is intentionally NOT the
// unlimited convention RequiredNewSlots uses for the same null. Both
// conventions are load-bearing for callers; keep them as they are.
func (r *Repository) AvailableServiceAccountSlots(ctx context.Context, orgId string) (uint32, error) {
	const op = "billing.(Repository).AvailableServiceAccountSlots"
	if orgId == "" {
		return 0, errors.New(ctx, errors.InvalidParameter, op, "missing org id")
	}
	available, _, err := r.headroom(ctx, orgId)
	if err != nil {
		return 0, errors.Wrap(ctx, err, op)
	}
	return available, nil
}

// RequiredNewSlots returns how many additional seats the org would need to
// purchase before provisioning countToAdd service accounts. An org with no
// configured seat limit always requires 0 (no limit means unlimited here).
func (r *Repository) RequiredNewSlots(ctx context.Context, orgId string, countToAdd uint32) (uint32, error) {
	const op = "billing.(Repository).RequiredNewSlots"
	if orgId == "" {
		return 0, errors.New(ctx, errors.InvalidParameter, op, "missing org id")
	}
	available, limited, err := r.headroom(ctx, orgId)
	if err != nil {
		return 0, errors.Wrap(ctx, err, op)
	}
	if !limited {
		return 0, nil
	}
	if countToAdd <= available {
		return 0, nil
	}
	return countToAdd - available, nil
}

// CheckServiceAccountCapacity returns a SeatLimitExceeded error when
// provisioning countToAdd service accounts would require purchasing seats.
// Provisioning flows call this before creating service accounts.
func (r *Repository) CheckServiceAccountCapacity(ctx context.Context, orgId string, countToAdd uint32) error {
	const op = "billing.(Repository).CheckServiceAccountCapacity"
	required, err := r.RequiredNewSlots(ctx, orgId, countToAdd)
	if err != nil {
		return errors.Wrap(ctx, err, op)
	}
	if required > 0 {
		return errors.New(ctx, errors.SeatLimitExceeded, op, "org has insufficient service account seats")
	}
	return nil
}

// headroom returns the org's remaining seat count and whether a limit is
// configured at all. With no limit configured the headroom is 0.
func (r *Repository) headroom(ctx context.Context, orgId string) (uint32, bool, error) {
	const op = "billing.(Repository).headroom"
	org := iam.Organization{PublicId: orgId}
	if err := r.reader.LookupByPublicId(ctx, &org); err != nil {
		if errors.IsNotFoundError(err) {
			return 0, false, errors.New(ctx, errors.NotFound, op, "org not found", errors.WithWrap(err))
		}
		return 0, false, errors.Wrap(ctx, err, op)
	}
	if org.ServiceAccountLimit == nil {
		return 0, false, nil
	}
	count, err := r.serviceAccountCount(ctx, orgId)
	if err != nil {
		return 0, false, errors.Wrap(ctx, err, op)
	}
	limit := *org.ServiceAccountLimit
	if count >= limit {
		return 0, true, nil
	}
	return limit - count, true, nil
}

func (r *Repository) serviceAccountCount(ctx context.Context, orgId string) (uint32, error) {
	const op = "billing.(Repository).serviceAccountCount"
	rows, err := r.reader.Query(ctx, serviceAccountCountQuery, []any{orgId})
	if err != nil {
		return 0, errors.Wrap(ctx, err, op)
	}
	defer rows.Close()
	var count uint32
	for rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, errors.Wrap(ctx, err, op)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, errors.Wrap(ctx, err, op)
	}
	return count, nil
}
