package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/elections/internal/domain"
)

var (
	regionColumns     = []string{"code", "libelle", "abbreviation", "chef_lieu"}
	departmentColumns = []string{"code", "code_region", "libelle", "abbreviation", "chef_lieu"}
	communeColumns    = []string{"code", "code_departement", "libelle", "description"}
)

func (s *store) GetRegion(ctx context.Context, code int64) (*domain.Region, error) {
	query := builder().Select(regionColumns...).
		From(tableRegions).
		Where(sq.Eq{"code": code})

	var selected domain.Region
	if err := s.pool.Getx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return &selected, nil
}

// ListRegions returns every region with its departments attached.
func (s *store) ListRegions(ctx context.Context) ([]*domain.Region, error) {
	query := builder().Select(regionColumns...).
		From(tableRegions).
		OrderBy("code")

	var regions []*domain.Region
	if err := s.pool.Selectx(ctx, &regions, query); err != nil {
		return nil, wrapErr(err)
	}

	departments, err := s.ListDepartments(ctx, ListDepartmentsOpts{})
	if err != nil {
		return nil, err
	}

	byRegion := make(map[int64]*domain.Region, len(regions))
	for _, region := range regions {
		region.Departments = make([]*domain.Department, 0)
		byRegion[region.Code] = region
	}
	for _, department := range departments {
		if region, ok := byRegion[department.RegionCode]; ok {
			region.Departments = append(region.Departments, department)
		}
	}

	return regions, nil
}

func (s *store) GetDepartment(ctx context.Context, code int64) (*domain.Department, error) {
	return s.getDepartment(ctx, code, "")
}

func (s *store) LockDepartment(ctx context.Context, code int64) (*domain.Department, error) {
	return s.getDepartment(ctx, code, "for update")
}

func (s *store) getDepartment(ctx context.Context, code int64, suffix string) (*domain.Department, error) {
	query := builder().Select(departmentColumns...).
		From(tableDepartments).
		Where(sq.Eq{"code": code})
	if suffix != "" {
		query = query.Suffix(suffix)
	}

	var selected domain.Department
	if err := s.pool.Getx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return &selected, nil
}

// ListDepartments is ordered by region code, then label. Empty filters match everything.
func (s *store) ListDepartments(ctx context.Context, opts ListDepartmentsOpts) ([]*domain.Department, error) {
	query := builder().Select(departmentColumns...).
		From(tableDepartments).
		OrderBy("code_region", "libelle")

	if opts.Codes != nil {
		query = query.Where(sq.Eq{"code": opts.Codes})
	}
	if opts.RegionCodes != nil {
		query = query.Where(sq.Eq{"code_region": opts.RegionCodes})
	}

	selected := make([]*domain.Department, 0)
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) GetCommune(ctx context.Context, code int64) (*domain.Commune, error) {
	return s.getCommune(ctx, code, "")
}

func (s *store) LockCommune(ctx context.Context, code int64) (*domain.Commune, error) {
	return s.getCommune(ctx, code, "for update")
}

func (s *store) getCommune(ctx context.Context, code int64, suffix string) (*domain.Commune, error) {
	query := builder().Select(communeColumns...).
		From(tableCommunes).
		Where(sq.Eq{"code": code})
	if suffix != "" {
		query = query.Suffix(suffix)
	}

	var selected domain.Commune
	if err := s.pool.Getx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return &selected, nil
}

func (s *store) ListCommunesByDepartment(ctx context.Context, departmentCode int64) ([]*domain.Commune, error) {
	query := builder().Select(communeColumns...).
		From(tableCommunes).
		Where(sq.Eq{"code_departement": departmentCode}).
		OrderBy("libelle", "code")

	selected := make([]*domain.Commune, 0)
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}
