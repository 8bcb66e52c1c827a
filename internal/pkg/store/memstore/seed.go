package memstore

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/ougirez/elections/internal/domain"
)

// Seed is the reference data a memory store starts with. Departments may be
// listed flat or nested under their region.
type Seed struct {
	Regions     []*domain.Region     `json:"regions"`
	Departments []*domain.Department `json:"departements"`
	Communes    []*domain.Commune    `json:"communes"`
	Parties     []*domain.Party      `json:"partis"`
	Candidates  []SeedCandidate      `json:"candidats"`
	Users       []SeedUser           `json:"utilisateurs"`
}

type SeedCandidate struct {
	Code       int64   `json:"code"`
	FirstName  string  `json:"prenom"`
	LastName   string  `json:"nom"`
	PartyCodes []int64 `json:"partis"`
}

type SeedUser struct {
	Code            int64   `json:"code"`
	Username        string  `json:"username"`
	Role            string  `json:"role"`
	DepartmentCodes []int64 `json:"departements"`
	RegionCodes     []int64 `json:"regions"`
}

// LoadSeed reads a JSON seed file.
func LoadSeed(path string) (Seed, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}

	var seed Seed
	if err = sonic.Unmarshal(body, &seed); err != nil {
		return Seed{}, fmt.Errorf("decode seed file %s: %w", path, err)
	}

	return seed, nil
}
