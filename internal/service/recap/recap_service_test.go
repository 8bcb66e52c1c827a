package recap

import (
	"context"
	"testing"

	"github.com/ougirez/elections/internal/domain"
	"github.com/ougirez/elections/internal/pkg/constants"
	"github.com/ougirez/elections/internal/pkg/store/memstore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore() *memstore.Store {
	return memstore.New(memstore.Seed{
		Regions: []*domain.Region{{Code: 1, Label: "Centre", Departments: []*domain.Department{
			{Code: 10, Label: "Mfoundi"},
			{Code: 11, Label: "Lekie"},
		}}},
		Communes: []*domain.Commune{
			{Code: 101, DepartmentCode: 10, Label: "Yaounde I"},
			{Code: 102, DepartmentCode: 10, Label: "Yaounde II"},
			{Code: 103, DepartmentCode: 10, Label: "Yaounde III"},
		},
		Parties: []*domain.Party{{Code: 1, Label: "Independant"}},
	})
}

func TestBuildRecap(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	svc := NewRecapService(st)

	require.NoError(t, st.CreateParticipation(ctx, &domain.Participation{Level: domain.LevelDepartment, UnitCode: 10, Registered: 100, Voters: 50}))
	require.NoError(t, st.CreateParticipation(ctx, &domain.Participation{Level: domain.LevelCommune, UnitCode: 102, Registered: 40}))
	require.NoError(t, st.CreateResults(ctx, []*domain.Result{
		{DepartmentCode: 10, CandidateCode: 3, PartyCode: 1, Votes: 10},
		{DepartmentCode: 10, CandidateCode: 2, PartyCode: 1, Votes: 20},
		{DepartmentCode: 10, CandidateCode: 1, PartyCode: 1, Votes: 10},
	}))

	recap, err := svc.BuildRecap(ctx, 10)
	require.NoError(t, err)

	assert.True(t, recap.IsLocked)
	require.NotNil(t, recap.Participation)
	assert.Equal(t, int64(100), recap.Participation.Registered)

	require.NotNil(t, recap.Department.Region)
	assert.Equal(t, "Centre", recap.Department.Region.Label)
	assert.Len(t, recap.Department.Communes, 3)

	require.Len(t, recap.Results, 3)
	assert.Equal(t, []int64{2, 1, 3}, []int64{
		recap.Results[0].CandidateCode, recap.Results[1].CandidateCode, recap.Results[2].CandidateCode,
	})
	require.NotNil(t, recap.Results[0].Party)

	require.Len(t, recap.CommuneData, 1)
	assert.Equal(t, "Yaounde II", recap.CommuneData[102].Label)

	assert.Equal(t, 3, recap.Stats.TotalCommunes)
	assert.Equal(t, 1, recap.Stats.CommunesWithData)
	assert.Equal(t, "33.3", recap.Stats.CompletionPercentage.String())
}

func TestBuildRecapEmptyDepartment(t *testing.T) {
	recap, err := NewRecapService(newStore()).BuildRecap(context.Background(), 11)
	require.NoError(t, err)

	assert.False(t, recap.IsLocked)
	assert.Nil(t, recap.Participation)
	assert.Empty(t, recap.Results)
	assert.Empty(t, recap.CommuneData)
	assert.Equal(t, 0, recap.Stats.TotalCommunes)
	assert.True(t, recap.Stats.CompletionPercentage.IsZero())
}

func TestBuildRecapUnknownDepartment(t *testing.T) {
	_, err := NewRecapService(newStore()).BuildRecap(context.Background(), 99)
	assert.ErrorIs(t, err, constants.ErrDepartmentNotFound)
}

func TestStats(t *testing.T) {
	tests := []struct {
		total, withData int
		want            string
	}{
		{0, 0, "0"},
		{3, 3, "100"},
		{3, 2, "66.7"},
		{8, 1, "12.5"},
		{7, 1, "14.3"},
	}
	for _, tt := range tests {
		got := stats(tt.total, tt.withData)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got.CompletionPercentage), "%d/%d gave %s", tt.withData, tt.total, got.CompletionPercentage)
	}
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	svc := NewRecapService(st)

	status, err := svc.Status(ctx, 10)
	require.NoError(t, err)
	assert.False(t, status.IsLocked)
	assert.Nil(t, status.Participation)

	require.NoError(t, st.CreateParticipation(ctx, &domain.Participation{Level: domain.LevelDepartment, UnitCode: 10}))
	require.NoError(t, st.CreateResults(ctx, []*domain.Result{{DepartmentCode: 10, CandidateCode: 1, PartyCode: 1}}))

	status, err = svc.Status(ctx, 10)
	require.NoError(t, err)
	assert.True(t, status.IsLocked)
	assert.Len(t, status.Results, 1)

	_, err = svc.Status(ctx, 99)
	assert.ErrorIs(t, err, constants.ErrDepartmentNotFound)

	communeStatus, err := svc.CommuneStatus(ctx, 101)
	require.NoError(t, err)
	assert.False(t, communeStatus.IsLocked)

	_, err = svc.CommuneStatus(ctx, 999)
	assert.ErrorIs(t, err, constants.ErrCommuneNotFound)
}
