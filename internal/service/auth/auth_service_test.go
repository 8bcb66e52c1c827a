package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ougirez/elections/internal/domain"
	"github.com/ougirez/elections/internal/pkg/constants"
	"github.com/ougirez/elections/internal/pkg/store/memstore"
	"github.com/ougirez/elections/internal/pkg/utils"
	"github.com/ougirez/elections/internal/service/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newService() *Service {
	s := memstore.New(memstore.Seed{
		Regions: []*domain.Region{
			{Code: 1, Label: "Centre", Departments: []*domain.Department{
				{Code: 10, Label: "Mfoundi"},
				{Code: 11, Label: "Lekie"},
			}},
			{Code: 2, Label: "Littoral", Departments: []*domain.Department{
				{Code: 20, Label: "Wouri"},
			}},
		},
		Users: []memstore.SeedUser{
			{Code: 1, Username: "admin", Role: domain.RoleLabelAdministrator},
			{Code: 2, Username: "regional", Role: domain.RoleLabelDepartmentScrutineer, DepartmentCodes: []int64{10}, RegionCodes: []int64{1}},
			{Code: 3, Username: "observer", Role: "Observateur"},
			{Code: 4, Username: "idle", Role: domain.RoleLabelDepartmentScrutineer},
		},
	})
	return NewService(s, user.NewUserService(s), secret)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	tests := []struct {
		name     string
		identity *domain.Identity
		want     domain.Scope
		err      error
	}{
		{
			name:     "administrator",
			identity: &domain.Identity{Role: domain.RoleAdministrator},
			want:     domain.UnrestrictedScope(),
		},
		{
			name:     "region assignment expands to its departments",
			identity: &domain.Identity{Role: domain.RoleDepartmentScrutineer, DepartmentCodes: []int64{10}, RegionCodes: []int64{1}},
			want:     domain.Scope{DepartmentCodes: []int64{10, 11}},
		},
		{
			name:     "direct assignment outside of any region",
			identity: &domain.Identity{Role: domain.RoleDepartmentScrutineer, DepartmentCodes: []int64{99}, RegionCodes: []int64{1}},
			want:     domain.Scope{DepartmentCodes: []int64{10, 11, 99}},
		},
		{
			name:     "no assignment",
			identity: &domain.Identity{Role: domain.RoleDepartmentScrutineer},
			want:     domain.Scope{DepartmentCodes: []int64{}},
		},
		{
			name:     "other role",
			identity: &domain.Identity{Role: domain.RoleOther},
			err:      constants.ErrForbidden,
		},
		{
			name: "anonymous",
			err:  constants.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := svc.Resolve(ctx, tt.identity)
			if tt.err != nil {
				require.Error(t, err)
				assert.Equal(t, tt.err.(*constants.CodedError).Code(), codeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, scope)
		})
	}
}

func TestAuthorize(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	scrutineer := &domain.Identity{Role: domain.RoleDepartmentScrutineer, RegionCodes: []int64{1}}

	assert.NoError(t, svc.Authorize(ctx, scrutineer, 11))
	assert.ErrorIs(t, svc.Authorize(ctx, scrutineer, 20), constants.ErrDepartmentOutOfScope)
	assert.ErrorIs(t, svc.Authorize(ctx, nil, 11), constants.ErrUnauthorized)
	assert.ErrorIs(t, svc.Authorize(ctx, &domain.Identity{Role: domain.RoleOther}, 11), constants.ErrRoleNotAllowed)
	assert.NoError(t, svc.Authorize(ctx, &domain.Identity{Role: domain.RoleAdministrator}, 12345))
}

func TestListingScope(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	scope, err := svc.ListingScope(ctx, nil)
	require.NoError(t, err)
	assert.True(t, scope.Unrestricted)

	scope, err = svc.ListingScope(ctx, &domain.Identity{Role: domain.RoleDepartmentScrutineer})
	require.NoError(t, err)
	assert.True(t, scope.IsEmpty())
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	token, err := utils.GenerateAuthToken(secret, time.Hour, 2, "regional")
	require.NoError(t, err)

	identity, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDepartmentScrutineer, identity.Role)
	assert.Equal(t, []int64{10}, identity.DepartmentCodes)
	assert.Equal(t, []int64{1}, identity.RegionCodes)

	byName, err := utils.GenerateAuthToken(secret, time.Hour, 0, "observer")
	require.NoError(t, err)
	identity, err = svc.Authenticate(ctx, byName)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOther, identity.Role)

	unknown, err := utils.GenerateAuthToken(secret, time.Hour, 42, "ghost")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, unknown)
	assert.ErrorIs(t, err, constants.ErrInvalidAuthToken)

	forged, err := utils.GenerateAuthToken("other-secret", time.Hour, 1, "admin")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, forged)
	assert.ErrorIs(t, err, constants.ErrInvalidAuthToken)

	_, err = svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, constants.ErrMissingAuthToken)
}

func codeOf(err error) int {
	var coded *constants.CodedError
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return 0
}
