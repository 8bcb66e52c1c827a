package region

import (
	"context"
	"fmt"

	"github.com/ougirez/elections/internal/domain"
	"github.com/ougirez/elections/internal/pkg/store"
	"golang.org/x/sync/errgroup"
)

// NoDepartmentMessage accompanies an empty scoped listing.
const NoDepartmentMessage = "no department assigned to this user"

type ScopeResolver interface {
	ListingScope(ctx context.Context, identity *domain.Identity) (domain.Scope, error)
}

type LockReader interface {
	LockedUnits(ctx context.Context, level domain.UnitLevel, codes []int64) (map[int64]bool, error)
}

type Service struct {
	store  store.Store
	scopes ScopeResolver
	locks  LockReader
}

func NewRegionService(store store.Store, scopes ScopeResolver, locks LockReader) *Service {
	return &Service{store: store, scopes: scopes, locks: locks}
}

func (s *Service) ListRegions(ctx context.Context) ([]*domain.Region, error) {
	regions, err := s.store.ListRegions(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListRegions: %w", err)
	}
	return regions, nil
}

func (s *Service) ListParties(ctx context.Context) ([]*domain.Party, error) {
	parties, err := s.store.ListParties(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListParties: %w", err)
	}
	return parties, nil
}

func (s *Service) ListCandidates(ctx context.Context) ([]*domain.Candidate, error) {
	candidates, err := s.store.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListCandidates: %w", err)
	}
	return candidates, nil
}

type DepartmentListing struct {
	Departments []*domain.DepartmentListItem `json:"departements"`
	Message     string                       `json:"message,omitempty"`
}

// ListDepartments lists the departments visible to the identity, each with its lock state.
// Anonymous readers see every department.
func (s *Service) ListDepartments(ctx context.Context, identity *domain.Identity, regionCode *int64) (*DepartmentListing, error) {
	scope, err := s.scopes.ListingScope(ctx, identity)
	if err != nil {
		return nil, err
	}
	if scope.IsEmpty() {
		return &DepartmentListing{Departments: make([]*domain.DepartmentListItem, 0), Message: NoDepartmentMessage}, nil
	}

	opts := store.ListDepartmentsOpts{}
	if !scope.Unrestricted {
		opts.Codes = scope.DepartmentCodes
	}
	if regionCode != nil {
		opts.RegionCodes = []int64{*regionCode}
	}

	departments, err := s.store.ListDepartments(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store.ListDepartments: %w", err)
	}

	codes := make([]int64, 0, len(departments))
	for _, department := range departments {
		codes = append(codes, department.Code)
	}

	var (
		locked  map[int64]bool
		regions map[int64]*domain.Region
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		locked, err = s.locks.LockedUnits(egCtx, domain.LevelDepartment, codes)
		return err
	})
	eg.Go(func() error {
		var err error
		regions, err = s.regionsByCode(egCtx)
		return err
	})
	if err = eg.Wait(); err != nil {
		return nil, err
	}

	items := make([]*domain.DepartmentListItem, 0, len(departments))
	for _, department := range departments {
		department.Region = regions[department.RegionCode]
		items = append(items, &domain.DepartmentListItem{Department: *department, IsLocked: locked[department.Code]})
	}

	return &DepartmentListing{Departments: items}, nil
}

// ListDepartmentParticipations lists certified department participations, optionally filtered.
func (s *Service) ListDepartmentParticipations(
	ctx context.Context,
	departmentCode *int64,
	regionCode *int64,
) ([]*domain.DepartmentParticipation, error) {
	var (
		participations []*domain.Participation
		departments    []*domain.Department
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		participations, err = s.store.ListParticipations(egCtx, store.ListParticipationsOpts{
			Level:          domain.LevelDepartment,
			DepartmentCode: departmentCode,
			RegionCode:     regionCode,
		})
		if err != nil {
			return fmt.Errorf("store.ListParticipations: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		departments, err = s.store.ListDepartments(egCtx, store.ListDepartmentsOpts{})
		if err != nil {
			return fmt.Errorf("store.ListDepartments: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	byCode := make(map[int64]*domain.Department, len(departments))
	for _, department := range departments {
		byCode[department.Code] = department
	}

	res := make([]*domain.DepartmentParticipation, 0, len(participations))
	for _, participation := range participations {
		res = append(res, &domain.DepartmentParticipation{
			Participation: *participation,
			Department:    byCode[participation.UnitCode],
		})
	}

	return res, nil
}

func (s *Service) regionsByCode(ctx context.Context) (map[int64]*domain.Region, error) {
	regions, err := s.store.ListRegions(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListRegions: %w", err)
	}

	res := make(map[int64]*domain.Region, len(regions))
	for _, region := range regions {
		region.Departments = nil
		res[region.Code] = region
	}
	return res, nil
}
