// Package recap composes the hierarchical read view of a department.
package recap

import (
	"context"
	"errors"
	"fmt"

	"github.com/ougirez/elections/internal/domain"
	"github.com/ougirez/elections/internal/pkg/constants"
	"github.com/ougirez/elections/internal/pkg/store"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	store store.Store
}

func NewRecapService(store store.Store) *Service {
	return &Service{store: store}
}

// BuildRecap loads a department with its region, communes, submitted figures and completion stats.
// Only communes that submitted appear in CommuneData.
func (s *Service) BuildRecap(ctx context.Context, departmentCode int64) (*domain.Recap, error) {
	department, err := s.getDepartment(ctx, departmentCode)
	if err != nil {
		return nil, err
	}

	var (
		region         *domain.Region
		communes       []*domain.Commune
		participation  *domain.Participation
		results        []*domain.Result
		communeRecords []*domain.Participation
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		region, err = s.store.GetRegion(egCtx, department.RegionCode)
		if err != nil && !errors.Is(err, constants.ErrDBNotFound) {
			return fmt.Errorf("store.GetRegion: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		communes, err = s.store.ListCommunesByDepartment(egCtx, departmentCode)
		if err != nil {
			return fmt.Errorf("store.ListCommunesByDepartment: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		participation, err = s.findParticipation(egCtx, domain.LevelDepartment, departmentCode)
		return err
	})
	eg.Go(func() error {
		var err error
		results, err = s.store.ListResultsByDepartment(egCtx, departmentCode)
		if err != nil {
			return fmt.Errorf("store.ListResultsByDepartment: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		communeRecords, err = s.store.ListParticipations(egCtx, store.ListParticipationsOpts{
			Level:          domain.LevelCommune,
			DepartmentCode: &departmentCode,
		})
		if err != nil {
			return fmt.Errorf("store.ListParticipations: %w", err)
		}
		return nil
	})
	if err = eg.Wait(); err != nil {
		return nil, err
	}

	department.Region = region
	department.Communes = communes

	labels := make(map[int64]string, len(communes))
	for _, commune := range communes {
		labels[commune.Code] = commune.Label
	}
	communeData := make(map[int64]*domain.CommuneRecap, len(communeRecords))
	for _, record := range communeRecords {
		communeData[record.UnitCode] = &domain.CommuneRecap{
			Code:          record.UnitCode,
			Label:         labels[record.UnitCode],
			Participation: record,
		}
	}

	return &domain.Recap{
		Department:    department,
		Participation: participation,
		Results:       results,
		CommuneData:   communeData,
		Stats:         stats(len(communes), len(communeData)),
		IsLocked:      participation != nil,
	}, nil
}

// Status is the lock state of a department and what was certified for it.
func (s *Service) Status(ctx context.Context, departmentCode int64) (*domain.UnitStatus, error) {
	if _, err := s.getDepartment(ctx, departmentCode); err != nil {
		return nil, err
	}

	participation, err := s.findParticipation(ctx, domain.LevelDepartment, departmentCode)
	if err != nil {
		return nil, err
	}
	status := &domain.UnitStatus{IsLocked: participation != nil, Participation: participation}
	if participation == nil {
		return status, nil
	}

	status.Results, err = s.store.ListResultsByDepartment(ctx, departmentCode)
	if err != nil {
		return nil, fmt.Errorf("store.ListResultsByDepartment: %w", err)
	}

	return status, nil
}

func (s *Service) CommuneStatus(ctx context.Context, communeCode int64) (*domain.UnitStatus, error) {
	if _, err := s.store.GetCommune(ctx, communeCode); err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return nil, fmt.Errorf("%w: %d", constants.ErrCommuneNotFound, communeCode)
		}
		return nil, fmt.Errorf("store.GetCommune: %w", err)
	}

	participation, err := s.findParticipation(ctx, domain.LevelCommune, communeCode)
	if err != nil {
		return nil, err
	}

	return &domain.UnitStatus{IsLocked: participation != nil, Participation: participation}, nil
}

func (s *Service) getDepartment(ctx context.Context, code int64) (*domain.Department, error) {
	department, err := s.store.GetDepartment(ctx, code)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return nil, fmt.Errorf("%w: %d", constants.ErrDepartmentNotFound, code)
		}
		return nil, fmt.Errorf("store.GetDepartment: %w", err)
	}
	return department, nil
}

// findParticipation returns nil without error when the unit has not submitted.
func (s *Service) findParticipation(ctx context.Context, level domain.UnitLevel, code int64) (*domain.Participation, error) {
	participation, err := s.store.GetParticipation(ctx, level, code)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("store.GetParticipation: %w", err)
	}
	return participation, nil
}

func stats(total, withData int) domain.RecapStats {
	res := domain.RecapStats{
		TotalCommunes:        total,
		CommunesWithData:     withData,
		CompletionPercentage: decimal.Zero,
	}
	if total > 0 {
		res.CompletionPercentage = decimal.NewFromInt(int64(withData)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(total))).
			Round(1)
	}
	return res
}
