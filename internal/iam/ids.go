// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package iam

import (
	"context"

	"github.com/hashicorp/stronghold/internal/db"
	"github.com/hashicorp/stronghold/internal/errors"
)

const (
	// OrganizationPrefix is the prefix for organization public ids
	OrganizationPrefix = "o"

	// UserPrefix is the prefix for user public ids
	UserPrefix = "u"

	// GroupPrefix is the prefix for group public ids
	GroupPrefix = "g"

	// ProjectPrefix is the prefix for project public ids
	ProjectPrefix = "prj"

	// ServiceAccountPrefix is the prefix for service account public ids
	ServiceAccountPrefix = "sa"
)

func newOrganizationId(ctx context.Context) (string, error) {
	id, err := db.NewPublicId(ctx, OrganizationPrefix)
	if err != nil {
		return "", errors.Wrap(ctx, err, "iam.newOrganizationId")
	}
	return id, nil
}

func newUserId(ctx context.Context) (string, error) {
	id, err := db.NewPublicId(ctx, UserPrefix)
	if err != nil {
		return "", errors.Wrap(ctx, err, "iam.newUserId")
	}
	return id, nil
}

func newGroupId(ctx context.Context) (string, error) {
	id, err := db.NewPublicId(ctx, GroupPrefix)
	if err != nil {
		return "", errors.Wrap(ctx, err, "iam.newGroupId")
	}
	return id, nil
}

func newProjectId(ctx context.Context) (string, error) {
	id, err := db.NewPublicId(ctx, ProjectPrefix)
	if err != nil {
		return "", errors.Wrap(ctx, err, "iam.newProjectId")
	}
	return id, nil
}

func newServiceAccountId(ctx context.Context) (string, error) {
	id, err := db.NewPublicId(ctx, ServiceAccountPrefix)
	if err != nil {
		return "", errors.Wrap(ctx, err, "iam.newServiceAccountId")
	}
	return id, nil
}
