// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package resource

// Type defines the types of resources access can be granted on
type Type int

const (
	Unknown        Type = 0
	Organization   Type = 1
	Project        Type = 2
	ServiceAccount Type = 3
)

func (r Type) String() string {
	return [...]string{
		"unknown",
		"organization",
		"project",
		"service-account",
	}[r]
}

var Map = map[string]Type{
	Unknown.String():        Unknown,
	Organization.String():   Organization,
	Project.String():        Project,
	ServiceAccount.String(): ServiceAccount,
}
