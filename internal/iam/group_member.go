// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package iam

import (
	"context"
	"time"

	"github.com/hashicorp/stronghold/internal/errors"
)

const defaultGroupMemberTableName = "iam_group_member"

// GroupMember is a user's membership in a group.
type GroupMember struct {
	GroupId    string `gorm:"primary_key"`
	MemberId   string `gorm:"primary_key"`
	CreateTime *time.Time `gorm:"->"`
}

// NewGroupMember creates a new in memory group member.
func NewGroupMember(ctx context.Context, groupId, memberId string) (*GroupMember, error) {
	const op = "iam.NewGroupMember"
	if groupId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing group id")
	}
	if memberId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing member id")
	}
	return &GroupMember{
		GroupId:  groupId,
		MemberId: memberId,
	}, nil
}

// Clone creates a clone of the GroupMember
func (m *GroupMember) Clone() *GroupMember {
	cp := *m
	return &cp
}

// TableName returns the tablename
func (m *GroupMember) TableName() string {
	return defaultGroupMemberTableName
}
