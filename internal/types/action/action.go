// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package action

// Type defines a type for the Actions of Resources
type Type int

// not using iota intentionally, since the values may be stored as well.
const (
	Unknown Type = 0
	Create  Type = 1
	Read    Type = 2
	Update  Type = 3
	Delete  Type = 4
)

var Map = map[string]Type{
	"unknown": Unknown,
	"create":  Create,
	"read":    Read,
	"update":  Update,
	"delete":  Delete,
}

func (a Type) String() string {
	return [...]string{
		"unknown",
		"create",
		"read",
		"update",
		"delete",
	}[a]
}
