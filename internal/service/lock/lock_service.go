// Package lock implements write-once semantics for administrative units.
// A unit is locked as soon as a participation record exists for it.
package lock

import (
	"context"
	"errors"
	"fmt"

	"github.com/ougirez/elections/internal/domain"
	"github.com/ougirez/elections/internal/pkg/constants"
	"github.com/ougirez/elections/internal/pkg/store"
)

type Service struct {
	store store.Store
}

func NewLockService(store store.Store) *Service {
	return &Service{store: store}
}

func (s *Service) IsLocked(ctx context.Context, level domain.UnitLevel, code int64) (bool, error) {
	return IsLocked(ctx, s.store, level, code)
}

// AssertUnlocked is the fast-path check done before any write.
// The storage uniqueness rule stays the real guard.
func (s *Service) AssertUnlocked(ctx context.Context, level domain.UnitLevel, code int64) error {
	return AssertUnlocked(ctx, s.store, level, code)
}

// IsLocked runs against any store, including a transactional one.
func IsLocked(ctx context.Context, st store.Store, level domain.UnitLevel, code int64) (bool, error) {
	_, err := st.GetParticipation(ctx, level, code)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, constants.ErrDBNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("store.GetParticipation: %w", err)
	}
}

func AssertUnlocked(ctx context.Context, st store.Store, level domain.UnitLevel, code int64) error {
	locked, err := IsLocked(ctx, st, level, code)
	if err != nil {
		return err
	}
	if locked {
		return &constants.LockedError{Level: string(level), Code: code}
	}
	return nil
}

// LockedUnits reports which of the given units are locked, in one query.
func (s *Service) LockedUnits(ctx context.Context, level domain.UnitLevel, codes []int64) (map[int64]bool, error) {
	res := make(map[int64]bool, len(codes))
	if len(codes) == 0 {
		return res, nil
	}

	participations, err := s.store.ListParticipations(ctx, store.ListParticipationsOpts{Level: level, UnitCodes: codes})
	if err != nil {
		return nil, fmt.Errorf("store.ListParticipations: %w", err)
	}
	for _, participation := range participations {
		res[participation.UnitCode] = true
	}

	return res, nil
}
