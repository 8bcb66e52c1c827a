package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/elections/internal/domain"
	"github.com/ougirez/elections/internal/pkg/constants"
)

var resultColumns = []string{"code_departement", "code_candidat", "code_parti", "nombre_vote", "pourcentage"}

func (s *store) CreateResults(ctx context.Context, results []*domain.Result) error {
	if len(results) == 0 {
		return nil
	}

	query := builder().Insert(tableDepartmentResults).
		Columns(resultColumns...)
	for _, r := range results {
		query = query.Values(r.DepartmentCode, r.CandidateCode, r.PartyCode, r.Votes, r.Percentage)
	}
	query = query.Suffix("returning id")

	var ids []int64
	if err := s.pool.Selectx(ctx, &ids, query); err != nil {
		if isUniqueViolation(err) {
			return constants.NewPayloadError("a result was already recorded for one of the candidates")
		}
		return err
	}
	for i := range ids {
		if i < len(results) {
			results[i].ID = ids[i]
		}
	}

	return nil
}

// ListResultsByDepartment orders by votes descending, ties broken by candidate code.
func (s *store) ListResultsByDepartment(ctx context.Context, departmentCode int64) ([]*domain.Result, error) {
	query := builder().Select(
		"r.id", "r.code_departement", "r.code_candidat", "r.code_parti", "r.nombre_vote", "r.pourcentage",
		"pp.libelle as parti_libelle", "pp.abbreviation as parti_abbreviation",
	).
		From(tableDepartmentResults+" r").
		LeftJoin(tableParties+" pp on pp.code = r.code_parti").
		Where(sq.Eq{"r.code_departement": departmentCode}).
		OrderBy("r.nombre_vote desc", "r.code_candidat asc")

	var rows []*struct {
		domain.Result
		PartyLabel        *string `db:"parti_libelle"`
		PartyAbbreviation *string `db:"parti_abbreviation"`
	}
	if err := s.pool.Selectx(ctx, &rows, query); err != nil {
		return nil, wrapErr(err)
	}

	results := make([]*domain.Result, 0, len(rows))
	for _, row := range rows {
		result := row.Result
		if row.PartyLabel != nil {
			result.Party = &domain.Party{
				Code:         result.PartyCode,
				Label:        *row.PartyLabel,
				Abbreviation: row.PartyAbbreviation,
			}
		}
		results = append(results, &result)
	}

	return results, nil
}
