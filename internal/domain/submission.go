package domain

import "github.com/shopspring/decimal"

// ParticipationInput is a parsed participation payload. Absent figures are 0,
// absent claimed rates are invalid NullDecimals.
type ParticipationInput struct {
	UnitCode        int64
	PollingStations int64
	Registered      int64
	Voters          int64
	NullBallots     int64
	Expressed       int64

	ClaimedParticipationRate decimal.NullDecimal
	ClaimedAbstentionRate    decimal.NullDecimal

	Anomalies
}

// HasFigures reports whether any of the main participation figures was entered.
func (in ParticipationInput) HasFigures() bool {
	return in.Registered > 0 || in.Voters > 0 || in.PollingStations > 0
}

type ResultInput struct {
	// DepartmentCode is 0 when the payload did not repeat it.
	DepartmentCode int64
	CandidateCode  int64
	PartyCode      *int64
	Votes          int64
	Percentage     decimal.NullDecimal
}

type DepartmentSubmission struct {
	DepartmentCode  int64
	Participation   ParticipationInput
	Results         []ResultInput
	ForceValidation bool
}

type CommuneSubmission struct {
	CommuneCode     int64
	Participation   ParticipationInput
	ForceValidation bool
}
