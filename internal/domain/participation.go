package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// rates and percentages are rendered as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Participation is the certified tally of one unit. Its existence is the unit lock.
type Participation struct {
	ID             int64     `db:"id" json:"id"`
	Level          UnitLevel `db:"-" json:"level"`
	UnitCode       int64     `db:"unit_code" json:"unit_code"`
	PollingStation int64     `db:"nombre_bureau_vote" json:"nombre_bureau_vote"`
	Registered     int64     `db:"nombre_inscrit" json:"nombre_inscrit"`
	Voters         int64     `db:"nombre_votant" json:"nombre_votant"`
	NullBallots    int64     `db:"bulletin_nul" json:"bulletin_nul"`
	Expressed      int64     `db:"suffrage_exprime" json:"suffrage_exprime"`

	Anomalies

	ParticipationRate decimal.NullDecimal `db:"taux_participation" json:"taux_participation"`
	AbstentionRate    decimal.NullDecimal `db:"taux_abstention" json:"taux_abstention"`
	ForcedValidation  bool                `db:"force_validation" json:"force_validation"`
	SubmittedBy       *int64              `db:"soumis_par" json:"soumis_par,omitempty"`
	CreatedAt         time.Time           `db:"date_creation" json:"date_creation"`
}

// Anomalies are the optional envelope and ballot counters of a tally.
type Anomalies struct {
	BallotBoxEnvelopes        *int64 `db:"nombre_enveloppe_urnes" json:"nombre_enveloppe_urnes,omitempty"`
	EnvelopesDifferentBallots *int64 `db:"nombre_enveloppe_bulletins_differents" json:"nombre_enveloppe_bulletins_differents,omitempty"`
	BallotsIdentifyingVoter   *int64 `db:"nombre_bulletin_electeur_identifiable" json:"nombre_bulletin_electeur_identifiable,omitempty"`
	BallotsInSignedEnvelopes  *int64 `db:"nombre_bulletin_enveloppes_signes" json:"nombre_bulletin_enveloppes_signes,omitempty"`
	NonOfficialEnvelopes      *int64 `db:"nombre_enveloppe_non_elecam" json:"nombre_enveloppe_non_elecam,omitempty"`
	NonOfficialBallots        *int64 `db:"nombre_bulletin_non_elecam" json:"nombre_bulletin_non_elecam,omitempty"`
	BallotsWithoutEnvelope    *int64 `db:"nombre_bulletin_sans_enveloppe" json:"nombre_bulletin_sans_enveloppe,omitempty"`
	EmptyEnvelopes            *int64 `db:"nombre_enveloppe_vide" json:"nombre_enveloppe_vide,omitempty"`
}

// DefaultPartyCode is recorded when a result's party cannot be resolved.
// A missing affiliation never blocks a submission.
const DefaultPartyCode int64 = 1

type Result struct {
	ID             int64           `db:"id" json:"id"`
	DepartmentCode int64           `db:"code_departement" json:"code_departement"`
	CandidateCode  int64           `db:"code_candidat" json:"code_candidat"`
	PartyCode      int64           `db:"code_parti" json:"code_parti"`
	Votes          int64           `db:"nombre_vote" json:"nombre_vote"`
	Percentage     decimal.Decimal `db:"pourcentage" json:"pourcentage"`
	Party          *Party          `db:"-" json:"parti,omitempty"`
}

// DepartmentSubmissionResult is what a successful department submission persisted.
type DepartmentSubmissionResult struct {
	Participation *Participation `json:"participation"`
	Results       []*Result      `json:"resultats"`
}

// DepartmentParticipation is a participation row joined with its department for listings.
type DepartmentParticipation struct {
	Participation
	Department *Department `db:"-" json:"departement,omitempty"`
}
