// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package accesspolicy

import (
	"context"

	"github.com/hashicorp/stronghold/internal/db"
	"github.com/hashicorp/stronghold/internal/errors"
)

// AccessPolicyPrefix is the prefix for access policy public ids
const AccessPolicyPrefix = "ap"

func newAccessPolicyId(ctx context.Context) (string, error) {
	id, err := db.NewPublicId(ctx, AccessPolicyPrefix)
	if err != nil {
		return "", errors.Wrap(ctx, err, "accesspolicy.newAccessPolicyId")
	}
	return id, nil
}
