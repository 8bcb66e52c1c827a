package domain

import "github.com/shopspring/decimal"

type Recap struct {
	Department    *Department             `json:"departement"`
	Participation *Participation          `json:"participation"`
	Results       []*Result               `json:"resultats"`
	CommuneData   map[int64]*CommuneRecap `json:"communes_data"`
	Stats         RecapStats              `json:"stats"`
	IsLocked      bool                    `json:"is_locked"`
}

type CommuneRecap struct {
	Code          int64          `json:"code"`
	Label         string         `json:"libelle"`
	Participation *Participation `json:"participation"`
}

type RecapStats struct {
	TotalCommunes        int             `json:"total_communes"`
	CommunesWithData     int             `json:"communes_avec_donnees"`
	CompletionPercentage decimal.Decimal `json:"pourcentage_completude"`
}

// UnitStatus is the lock state of a unit together with what was submitted.
type UnitStatus struct {
	IsLocked      bool           `json:"is_locked"`
	Participation *Participation `json:"participation"`
	Results       []*Result      `json:"resultats,omitempty"`
}
