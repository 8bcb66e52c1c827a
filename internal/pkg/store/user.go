package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/elections/internal/domain"
)

var userColumns = []string{"u.code", "u.username", "r.libelle as role_libelle"}

func (s *store) selectUser() sq.SelectBuilder {
	return builder().Select(userColumns...).
		From(tableUsers + " u").
		Join(tableRoles + " r on r.code = u.code_role")
}

func (s *store) GetUserByCode(ctx context.Context, code int64) (*domain.User, error) {
	query := s.selectUser().Where(sq.Eq{"u.code": code})

	var selected domain.User
	if err := s.pool.Getx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return &selected, nil
}

func (s *store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := s.selectUser().Where(sq.Eq{"u.username": username})

	var selected domain.User
	if err := s.pool.Getx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return &selected, nil
}

func (s *store) ListUserDepartmentCodes(ctx context.Context, userCode int64) ([]int64, error) {
	query := builder().Select("code_departement").
		From(tableUserDepartments).
		Where(sq.Eq{"code_utilisateur": userCode}).
		OrderBy("code_departement")

	codes := make([]int64, 0)
	if err := s.pool.Selectx(ctx, &codes, query); err != nil {
		return nil, wrapErr(err)
	}

	return codes, nil
}

func (s *store) ListUserRegionCodes(ctx context.Context, userCode int64) ([]int64, error) {
	query := builder().Select("code_region").
		From(tableUserRegions).
		Where(sq.Eq{"code_utilisateur": userCode}).
		OrderBy("code_region")

	codes := make([]int64, 0)
	if err := s.pool.Selectx(ctx, &codes, query); err != nil {
		return nil, wrapErr(err)
	}

	return codes, nil
}
