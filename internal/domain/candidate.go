package domain

type Party struct {
	Code         int64   `db:"code" json:"code"`
	Label        string  `db:"libelle" json:"libelle"`
	Abbreviation *string `db:"abbreviation" json:"abbreviation,omitempty"`
}

type Candidate struct {
	Code      int64    `db:"code" json:"code"`
	FirstName string   `db:"prenom" json:"prenom"`
	LastName  string   `db:"nom" json:"nom"`
	Parties   []*Party `db:"-" json:"partis_politiques"`
}

// PrimaryPartyCode returns the code of the first linked party. Parties are kept
// ordered by code ascending, which makes "first" deterministic.
func (c *Candidate) PrimaryPartyCode() (int64, bool) {
	if c == nil || len(c.Parties) == 0 {
		return 0, false
	}
	return c.Parties[0].Code, true
}
