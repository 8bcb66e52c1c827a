package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/elections/internal/domain"
)

var (
	partyColumns     = []string{"code", "libelle", "abbreviation"}
	candidateColumns = []string{"code", "prenom", "nom"}
)

// GetCandidate loads the candidate with its parties ordered by party code.
func (s *store) GetCandidate(ctx context.Context, code int64) (*domain.Candidate, error) {
	query := builder().Select(candidateColumns...).
		From(tableCandidates).
		Where(sq.Eq{"code": code})

	var selected domain.Candidate
	if err := s.pool.Getx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	if err := s.attachParties(ctx, []*domain.Candidate{&selected}); err != nil {
		return nil, err
	}

	return &selected, nil
}

func (s *store) ListCandidates(ctx context.Context) ([]*domain.Candidate, error) {
	query := builder().Select(candidateColumns...).
		From(tableCandidates).
		OrderBy("code")

	selected := make([]*domain.Candidate, 0)
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	if err := s.attachParties(ctx, selected); err != nil {
		return nil, err
	}

	return selected, nil
}

func (s *store) ListParties(ctx context.Context) ([]*domain.Party, error) {
	query := builder().Select(partyColumns...).
		From(tableParties).
		OrderBy("code")

	selected := make([]*domain.Party, 0)
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) attachParties(ctx context.Context, candidates []*domain.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	byCode := make(map[int64]*domain.Candidate, len(candidates))
	codes := make([]int64, 0, len(candidates))
	for _, candidate := range candidates {
		candidate.Parties = make([]*domain.Party, 0)
		byCode[candidate.Code] = candidate
		codes = append(codes, candidate.Code)
	}

	query := builder().Select("cp.code_candidat", "pp.code", "pp.libelle", "pp.abbreviation").
		From(tableCandidateParties+" cp").
		Join(tableParties+" pp on pp.code = cp.code_parti").
		Where(sq.Eq{"cp.code_candidat": codes}).
		OrderBy("cp.code_candidat", "pp.code asc")

	var rows []*struct {
		CandidateCode int64 `db:"code_candidat"`
		domain.Party
	}
	if err := s.pool.Selectx(ctx, &rows, query); err != nil {
		return wrapErr(err)
	}

	for _, row := range rows {
		party := row.Party
		byCode[row.CandidateCode].Parties = append(byCode[row.CandidateCode].Parties, &party)
	}

	return nil
}
