// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package errors

// Kind specifies the kind of error (unknown, parameter, integrity, etc).
type Kind uint32

const (
	Other Kind = iota
	Parameter
	Integrity
	Search
	State
	Transaction
	External
	Configuration
)

// String will return the Kind in string format.
func (e Kind) String() string {
	return [...]string{
		"unknown",
		"parameter violation",
		"integrity violation",
		"search issue",
		"state violation",
		"db transaction issue",
		"external system issue",
		"configuration issue",
	}[e]
}
