package domain

// UnitLevel names a level of the administrative tree.
type UnitLevel string

const (
	LevelRegion     UnitLevel = "region"
	LevelDepartment UnitLevel = "department"
	LevelCommune    UnitLevel = "commune"
)

type Region struct {
	Code         int64         `db:"code" json:"code"`
	Label        string        `db:"libelle" json:"libelle"`
	Abbreviation *string       `db:"abbreviation" json:"abbreviation,omitempty"`
	ChiefTown    *string       `db:"chef_lieu" json:"chef_lieu,omitempty"`
	Departments  []*Department `db:"-" json:"departements,omitempty"`
}

type Department struct {
	Code         int64      `db:"code" json:"code"`
	RegionCode   int64      `db:"code_region" json:"code_region"`
	Label        string     `db:"libelle" json:"libelle"`
	Abbreviation *string    `db:"abbreviation" json:"abbreviation,omitempty"`
	ChiefTown    *string    `db:"chef_lieu" json:"chef_lieu,omitempty"`
	Region       *Region    `db:"-" json:"region,omitempty"`
	Communes     []*Commune `db:"-" json:"arrondissements,omitempty"`
}

type Commune struct {
	Code           int64   `db:"code" json:"code"`
	DepartmentCode int64   `db:"code_departement" json:"code_departement"`
	Label          string  `db:"libelle" json:"libelle"`
	Description    *string `db:"description" json:"description,omitempty"`
}

// DepartmentListItem is a department as shown in the scoped listing.
type DepartmentListItem struct {
	Department
	IsLocked bool `json:"is_locked"`
}
