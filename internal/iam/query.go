// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package iam

const (
	// userGroupIdsQuery finds the groups within one org that a user is
	// currently a member of.  Membership is always resolved live.
	userGroupIdsQuery = `
select g.public_id
  from iam_group g
  join iam_group_member gm
    on gm.group_id = g.public_id
 where gm.member_id = ?
   and g.org_id = ?
`
)
