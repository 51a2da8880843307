// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package billing

const serviceAccountCountQuery = `
select count(*)
  from service_account
 where org_id = ?
`
