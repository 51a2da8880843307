// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package accesspolicy

import (
	"context"
	"testing"

	"github.com/hashicorp/stronghold/internal/errors"
	"github.com/hashicorp/stronghold/internal/types/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPolicy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tests := []struct {
		name        string
		kind        Kind
		principalId string
		resourceId  string
		flags       Flags
		wantErrCode errors.Code
	}{
		{
			name:        "user-project",
			kind:        UserProject,
			principalId: "u_1234567890",
			resourceId:  "prj_1234567890",
			flags:       Flags{Read: true, Write: true},
		},
		{
			name:        "user-service-account",
			kind:        UserServiceAccount,
			principalId: "u_1234567890",
			resourceId:  "sa_1234567890",
			flags:       Flags{Read: true},
		},
		{
			name:        "group-project",
			kind:        GroupProject,
			principalId: "g_1234567890",
			resourceId:  "prj_1234567890",
			flags:       Flags{Read: true},
		},
		{
			name:        "group-service-account",
			kind:        GroupServiceAccount,
			principalId: "g_1234567890",
			resourceId:  "sa_1234567890",
			flags:       Flags{},
		},
		{
			name:        "service-account-project",
			kind:        ServiceAccountProject,
			principalId: "sa_1234567890",
			resourceId:  "prj_1234567890",
			flags:       Flags{Read: true, Write: true},
		},
		{
			name:        "unknown-kind",
			kind:        UnknownKind,
			principalId: "u_1234567890",
			resourceId:  "prj_1234567890",
			flags:       Flags{Read: true},
			wantErrCode: errors.InvalidParameter,
		},
		{
			name:        "missing-principal",
			kind:        UserProject,
			principalId: "",
			resourceId:  "prj_1234567890",
			flags:       Flags{Read: true},
			wantErrCode: errors.InvalidParameter,
		},
		{
			name:        "missing-resource",
			kind:        UserProject,
			principalId: "u_1234567890",
			resourceId:  "",
			flags:       Flags{Read: true},
			wantErrCode: errors.InvalidParameter,
		},
		{
			name:        "write-without-read",
			kind:        UserProject,
			principalId: "u_1234567890",
			resourceId:  "prj_1234567890",
			flags:       Flags{Write: true},
			wantErrCode: errors.ReadDominance,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			got, err := NewPolicy(ctx, tt.kind, tt.principalId, tt.resourceId, tt.flags)
			if tt.wantErrCode != errors.Unknown {
				require.Error(err)
				assert.True(errors.Match(errors.T(tt.wantErrCode), err))
				return
			}
			require.NoError(err)
			assert.Equal(tt.kind, got.Kind)
			assert.Equal(tt.principalId, got.PrincipalId)
			assert.Equal(tt.resourceId, got.ResourceId)
			assert.Equal(tt.flags, got.Flags())
		})
	}
}

func TestKind_ResourceType(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	assert.Equal(resource.Project, UserProject.ResourceType())
	assert.Equal(resource.Project, GroupProject.ResourceType())
	assert.Equal(resource.Project, ServiceAccountProject.ResourceType())
	assert.Equal(resource.ServiceAccount, UserServiceAccount.ResourceType())
	assert.Equal(resource.ServiceAccount, GroupServiceAccount.ResourceType())
	assert.Equal(resource.Unknown, UnknownKind.ResourceType())
}
