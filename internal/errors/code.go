// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package errors

// Code specifies a code for the error.
type Code uint32

// String will return the Code's Info.Message
func (c Code) String() string {
	return c.Info().Message
}

// Info will look up the Code's Info.  If the Info is not found, it will return
// Info for an Unknown Code.
func (c Code) Info() Info {
	if info, ok := errorCodeInfo[c]; ok {
		return info
	}
	return errorCodeInfo[Unknown]
}

const (
	Unknown Code = 0 // Unknown will be equal to a zero value for Codes

	// General function errors are reserved Codes 100-999
	InvalidParameter Code = 100 // InvalidParameter represents an invalid parameter for an operation.
	InvalidPublicId  Code = 102 // InvalidPublicId represents an invalid public id for an operation.
	InvalidFieldMask Code = 103 // InvalidFieldMask represents an invalid field mask for an operation.
	EmptyFieldMask   Code = 104 // EmptyFieldMask represents an empty field mask for an operation.
	Io               Code = 106 // Io represents an error that occurred during an io operation (e.g. reading random bytes for an id).
	Internal         Code = 110 // Internal represents an internal error.
	Forbidden        Code = 111 // Forbidden represents a forbidden operation.

	// Access policy and seat capacity errors are reserved Codes 600-699
	ReadDominance     Code = 600 // ReadDominance represents a policy that grants write without read.
	DuplicatePolicy   Code = 601 // DuplicatePolicy represents a batch with more than one policy for the same principal and resource.
	SeatLimitExceeded Code = 602 // SeatLimitExceeded represents a request for more service account seats than the org's plan allows.

	// DB errors are reserved Codes from 1000-1999
	CheckConstraint        Code = 1000 // CheckConstraint represents a check constraint error
	NotNull                Code = 1001 // NotNull represents a value must not be null error
	NotUnique              Code = 1002 // NotUnique represents a value must be unique error
	MissingTable           Code = 1004 // MissingTable represents an undefined table error
	RecordNotFound         Code = 1100 // RecordNotFound represents that a record/row was not found matching the criteria
	MultipleRecords        Code = 1101 // MultipleRecords represents that multiple records/rows were found matching the criteria
	Exception              Code = 1102 // Exception represents an underlying db exception
	VersionMismatch        Code = 1103 // VersionMismatch represents the row's version does not match the expected version
	MaxRetries             Code = 1104 // MaxRetries represents a transaction that exceeded its max retries
	ImmutableColumn        Code = 1105 // ImmutableColumn represents an update to a column that cannot change once written
	UnexpectedRowsAffected Code = 1106 // UnexpectedRowsAffected represents an unexpected number of rows affected by a write

	// State errors are reserved Codes from 2000-2999
	NotFound Code = 2000 // NotFound represents that a referenced entity (org, principal or resource) does not exist
)
