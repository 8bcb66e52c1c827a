package dto

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountDecoding(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantSet bool
	}{
		{"number", `12`, 12, true},
		{"numeric string", `"1500"`, 1500, true},
		{"padded string", `" 42 "`, 42, true},
		{"thousands with spaces", `"1 200"`, 1200, true},
		{"decimal truncated", `"12,7"`, 12, true},
		{"negative", `-3`, -3, true},
		{"null", `null`, 0, false},
		{"empty string", `""`, 0, false},
		{"malformed", `"abc"`, 0, false},
		{"boolean", `true`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Count
			require.NoError(t, c.UnmarshalJSON([]byte(tt.input)))
			assert.Equal(t, tt.want, c.Int64())
			assert.Equal(t, tt.wantSet, c.IsSet())
		})
	}
}

func TestRateDecoding(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantSet bool
	}{
		{"number", `75.5`, "75.5", true},
		{"comma decimal", `"24,5"`, "24.5", true},
		{"integer string", `"100"`, "100", true},
		{"null", `null`, "0", false},
		{"malformed", `"n/a"`, "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Rate
			require.NoError(t, r.UnmarshalJSON([]byte(tt.input)))
			assert.Equal(t, tt.want, r.Decimal().String())
			assert.Equal(t, tt.wantSet, r.IsSet())
			assert.Equal(t, tt.wantSet, r.Null().Valid)
		})
	}
}

func TestFlagDecoding(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{`true`, true},
		{`false`, false},
		{`"true"`, true},
		{`"1"`, true},
		{`1`, true},
		{`"yes"`, true},
		{`"nope"`, false},
		{`null`, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var f Flag
			require.NoError(t, f.UnmarshalJSON([]byte(tt.input)))
			assert.Equal(t, tt.want, bool(f))
		})
	}
}

func TestCommuneRequestDecoding(t *testing.T) {
	body := `{
		"codeCommune": "1201",
		"nombreBureaux": 12,
		"nombreInscrits": "1000",
		"nombreVotants": 750,
		"bulletinsNuls": "10",
		"suffragesValables": 740,
		"tauxParticipation": "75",
		"tauxAbstention": 25.0,
		"forceValidation": "false",
		"enveloppesVides": 2
	}`

	var req CommuneParticipationRequest
	require.NoError(t, sonic.Unmarshal([]byte(body), &req))

	sub := req.ToSubmission()
	assert.Equal(t, int64(1201), sub.CommuneCode)
	assert.False(t, sub.ForceValidation)
	assert.Equal(t, int64(1000), sub.Participation.Registered)
	assert.Equal(t, int64(750), sub.Participation.Voters)
	assert.Equal(t, int64(10), sub.Participation.NullBallots)
	assert.Equal(t, int64(740), sub.Participation.Expressed)
	assert.Equal(t, "75", sub.Participation.ClaimedParticipationRate.Decimal.String())
	require.NotNil(t, sub.Participation.EmptyEnvelopes)
	assert.Equal(t, int64(2), *sub.Participation.EmptyEnvelopes)
	assert.Nil(t, sub.Participation.NonOfficialBallots)
}

func TestDepartmentRequestDecoding(t *testing.T) {
	body := `{
		"participation": {"codeDepartement": 10, "nombreInscrit": 500, "nombreVotant": 400, "bulletinNul": 5},
		"resultats": [
			{"codeCandidat": 7, "nombreVote": "300"},
			{"codeCandidat": 8, "codeParti": 3, "nombreVote": 95, "pourcentage": "24,05"}
		],
		"forceValidation": true
	}`

	var req DepartmentSubmissionRequest
	require.NoError(t, sonic.Unmarshal([]byte(body), &req))

	sub := req.ToSubmission()
	assert.Equal(t, int64(10), sub.DepartmentCode)
	assert.True(t, sub.ForceValidation)
	require.Len(t, sub.Results, 2)
	assert.Nil(t, sub.Results[0].PartyCode)
	assert.False(t, sub.Results[0].Percentage.Valid)
	require.NotNil(t, sub.Results[1].PartyCode)
	assert.Equal(t, int64(3), *sub.Results[1].PartyCode)
	assert.Equal(t, "24.05", sub.Results[1].Percentage.Decimal.String())
}
