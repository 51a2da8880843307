// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package iam

import (
	"context"
	"time"
)

const defaultUserTableName = "iam_user"

// User is a human principal.  A user gains access to an organization's
// resources through direct policies, group policies, or an elevating org
// role.
type User struct {
	PublicId   string `gorm:"primary_key"`
	Name       string
	Version    uint32
	CreateTime *time.Time `gorm:"->"`
	UpdateTime *time.Time `gorm:"->"`
}

// NewUser creates a new in memory user.  WithName is a supported option.
func NewUser(ctx context.Context, opt ...Option) (*User, error) {
	opts := getOpts(opt...)
	return &User{
		Name: opts.withName,
	}, nil
}

func allocUser() *User {
	return &User{}
}

// Clone creates a clone of the User
func (u *User) Clone() *User {
	cp := *u
	return &cp
}

// GetPublicId returns the user's public id
func (u *User) GetPublicId() string {
	return u.PublicId
}

// TableName returns the tablename
func (u *User) TableName() string {
	return defaultUserTableName
}
