package dto

import "github.com/ougirez/elections/internal/domain"

// AnomalyPayload holds the optional envelope and ballot counters.
type AnomalyPayload struct {
	BallotBoxEnvelopes        Count `json:"nombreEnveloppeUrnes" validate:"gte=0"`
	EnvelopesDifferentBallots Count `json:"enveloppesContBulletinsDifferents" validate:"gte=0"`
	BallotsIdentifyingVoter   Count `json:"bulletinsAvecSignes" validate:"gte=0"`
	BallotsInSignedEnvelopes  Count `json:"bulletinsDansEnveloppesAvecSignes" validate:"gte=0"`
	NonOfficialEnvelopes      Count `json:"enveloppesAutresQueElecam" validate:"gte=0"`
	NonOfficialBallots        Count `json:"bulletinsAutresQueElecam" validate:"gte=0"`
	BallotsWithoutEnvelope    Count `json:"bulletinsSansEnveloppes" validate:"gte=0"`
	EmptyEnvelopes            Count `json:"enveloppesVides" validate:"gte=0"`
}

func (p AnomalyPayload) toDomain() domain.Anomalies {
	return domain.Anomalies{
		BallotBoxEnvelopes:        p.BallotBoxEnvelopes.Ptr(),
		EnvelopesDifferentBallots: p.EnvelopesDifferentBallots.Ptr(),
		BallotsIdentifyingVoter:   p.BallotsIdentifyingVoter.Ptr(),
		BallotsInSignedEnvelopes:  p.BallotsInSignedEnvelopes.Ptr(),
		NonOfficialEnvelopes:      p.NonOfficialEnvelopes.Ptr(),
		NonOfficialBallots:        p.NonOfficialBallots.Ptr(),
		BallotsWithoutEnvelope:    p.BallotsWithoutEnvelope.Ptr(),
		EmptyEnvelopes:            p.EmptyEnvelopes.Ptr(),
	}
}

// TallyPayload is the commune form: the figures checked by the consistency rules.
type TallyPayload struct {
	PollingStations   Count `json:"nombreBureaux" validate:"gte=0"`
	Registered        Count `json:"nombreInscrits" validate:"gte=0"`
	Voters            Count `json:"nombreVotants" validate:"gte=0"`
	NullBallots       Count `json:"bulletinsNuls" validate:"gte=0"`
	ValidSuffrages    Count `json:"suffragesValables" validate:"gte=0"`
	ParticipationRate Rate  `json:"tauxParticipation"`
	AbstentionRate    Rate  `json:"tauxAbstention"`
	ForceValidation   Flag  `json:"forceValidation"`
}

func (p TallyPayload) ToInput(unitCode int64) domain.ParticipationInput {
	return domain.ParticipationInput{
		UnitCode:                 unitCode,
		PollingStations:          p.PollingStations.Int64(),
		Registered:               p.Registered.Int64(),
		Voters:                   p.Voters.Int64(),
		NullBallots:              p.NullBallots.Int64(),
		Expressed:                p.ValidSuffrages.Int64(),
		ClaimedParticipationRate: p.ParticipationRate.Null(),
		ClaimedAbstentionRate:    p.AbstentionRate.Null(),
	}
}

type CommuneParticipationRequest struct {
	CommuneCode Count `json:"codeCommune" validate:"required,gt=0"`
	TallyPayload
	AnomalyPayload
}

func (r *CommuneParticipationRequest) ToSubmission() domain.CommuneSubmission {
	in := r.TallyPayload.ToInput(r.CommuneCode.Int64())
	in.Anomalies = r.AnomalyPayload.toDomain()

	return domain.CommuneSubmission{
		CommuneCode:     r.CommuneCode.Int64(),
		Participation:   in,
		ForceValidation: bool(r.ForceValidation),
	}
}

type DepartmentParticipationPayload struct {
	DepartmentCode    Count `json:"codeDepartement" validate:"required,gt=0"`
	PollingStations   Count `json:"nombreBureauVote" validate:"gte=0"`
	Registered        Count `json:"nombreInscrit" validate:"gte=0"`
	Voters            Count `json:"nombreVotant" validate:"gte=0"`
	NullBallots       Count `json:"bulletinNul" validate:"gte=0"`
	Expressed         Count `json:"suffrageExprime" validate:"gte=0"`
	ParticipationRate Rate  `json:"tauxParticipation"`
	AbstentionRate    Rate  `json:"tauxAbstention"`
	AnomalyPayload
}

func (p *DepartmentParticipationPayload) ToInput() domain.ParticipationInput {
	return domain.ParticipationInput{
		UnitCode:                 p.DepartmentCode.Int64(),
		PollingStations:          p.PollingStations.Int64(),
		Registered:               p.Registered.Int64(),
		Voters:                   p.Voters.Int64(),
		NullBallots:              p.NullBallots.Int64(),
		Expressed:                p.Expressed.Int64(),
		ClaimedParticipationRate: p.ParticipationRate.Null(),
		ClaimedAbstentionRate:    p.AbstentionRate.Null(),
		Anomalies:                p.AnomalyPayload.toDomain(),
	}
}

type ResultPayload struct {
	DepartmentCode Count `json:"codeDepartement" validate:"gte=0"`
	CandidateCode  Count `json:"codeCandidat" validate:"required,gt=0"`
	PartyCode      Count `json:"codeParti" validate:"gte=0"`
	Votes          Count `json:"nombreVote" validate:"gte=0"`
	Percentage     Rate  `json:"pourcentage" validate:"gte=0,lte=100"`
}

func (p ResultPayload) ToInput() domain.ResultInput {
	in := domain.ResultInput{
		DepartmentCode: p.DepartmentCode.Int64(),
		CandidateCode:  p.CandidateCode.Int64(),
		Votes:          p.Votes.Int64(),
		Percentage:     p.Percentage.Null(),
	}
	// 0 is never a real party code, treat it like an absent one.
	if p.PartyCode.Int64() > 0 {
		in.PartyCode = p.PartyCode.Ptr()
	}
	return in
}

type DepartmentSubmissionRequest struct {
	Participation   *DepartmentParticipationPayload `json:"participation" validate:"required"`
	Results         []ResultPayload                 `json:"resultats" validate:"required,dive"`
	ForceValidation Flag                            `json:"forceValidation"`
}

func (r *DepartmentSubmissionRequest) ToSubmission() domain.DepartmentSubmission {
	results := make([]domain.ResultInput, 0, len(r.Results))
	for _, res := range r.Results {
		results = append(results, res.ToInput())
	}

	return domain.DepartmentSubmission{
		DepartmentCode:  r.Participation.DepartmentCode.Int64(),
		Participation:   r.Participation.ToInput(),
		Results:         results,
		ForceValidation: bool(r.ForceValidation),
	}
}

// DepartmentParticipationRequest records a department tally without candidate results.
type DepartmentParticipationRequest struct {
	DepartmentParticipationPayload
	ForceValidation Flag `json:"forceValidation"`
}

func (r *DepartmentParticipationRequest) ToSubmission() domain.DepartmentSubmission {
	return domain.DepartmentSubmission{
		DepartmentCode:  r.DepartmentCode.Int64(),
		Participation:   r.DepartmentParticipationPayload.ToInput(),
		Results:         []domain.ResultInput{},
		ForceValidation: bool(r.ForceValidation),
	}
}

// ValidateParticipationRequest runs the consistency rules without persisting.
type ValidateParticipationRequest struct {
	TallyPayload
}

type ValidateParticipationResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}
