// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package perms provides the access resolution and authorization decision
// logic for organization-scoped resources. A caller is represented as a
// Client (a user session or a service account token), which is evaluated in
// one of three access modes: NoAccessCheck for org admins, which bypasses
// grant lookups entirely, or User / ServiceAccount, which aggregate the
// stored access policies matching the caller.
package perms

import (
	"context"

	"github.com/hashicorp/stronghold/internal/errors"
)

// ClientType declares the kind of caller being evaluated.
type ClientType int

const (
	UnknownClient        ClientType = 0
	UserClient           ClientType = 1
	ServiceAccountClient ClientType = 2
)

// String provides a string representation of the client type.
func (c ClientType) String() string {
	return [...]string{
		"unknown",
		"user",
		"service-account",
	}[c]
}

// AccessMode is the caller's effective evaluation category. It is derived
// from the client type and the caller's organization role, never supplied
// directly by a caller.
type AccessMode int

const (
	UnknownMode AccessMode = iota

	// NoAccessCheck bypasses all grant lookups; it is reserved for
	// organization admins.
	NoAccessCheck

	UserAccess
	ServiceAccountAccess
)

// String provides a string representation of the access mode.
func (m AccessMode) String() string {
	return [...]string{
		"unknown",
		"no-access-check",
		"user",
		"service-account",
	}[m]
}

// Client is the principal on whose behalf an operation is evaluated.
type Client struct {
	// Id is the public id of the user or service account.
	Id string

	// Type declares how Id should be interpreted.
	Type ClientType
}

func (c Client) validate(ctx context.Context, op errors.Op) error {
	if c.Id == "" {
		return errors.New(ctx, errors.InvalidParameter, op, "missing client id")
	}
	switch c.Type {
	case UserClient, ServiceAccountClient:
	default:
		return errors.New(ctx, errors.InvalidParameter, op, "unknown client type")
	}
	return nil
}
