package user

import (
	"context"
	"testing"

	"github.com/ougirez/elections/internal/domain"
	"github.com/ougirez/elections/internal/pkg/constants"
	"github.com/ougirez/elections/internal/pkg/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadIdentity(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(memstore.New(memstore.Seed{
		Users: []memstore.SeedUser{
			{Code: 5, Username: "scrut", Role: domain.RoleLabelDepartmentScrutineer, DepartmentCodes: []int64{12, 10}, RegionCodes: []int64{3}},
		},
	}))

	identity, err := svc.LoadIdentity(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "scrut", identity.Username)
	assert.Equal(t, domain.RoleDepartmentScrutineer, identity.Role)
	assert.Equal(t, []int64{10, 12}, identity.DepartmentCodes)
	assert.Equal(t, []int64{3}, identity.RegionCodes)

	byName, err := svc.LoadIdentityByUsername(ctx, "scrut")
	require.NoError(t, err)
	assert.Equal(t, identity, byName)

	_, err = svc.LoadIdentity(ctx, 6)
	assert.ErrorIs(t, err, constants.ErrInvalidAuthToken)
}
