package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/ougirez/elections/internal/domain"
	"github.com/ougirez/elections/internal/pkg/constants"
	"github.com/ougirez/elections/internal/pkg/store"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	store store.Store
}

func NewUserService(store store.Store) *Service {
	return &Service{store}
}

// LoadIdentity builds the identity of a user from the store: role and both kinds of assignments.
func (s *Service) LoadIdentity(ctx context.Context, userCode int64) (*domain.Identity, error) {
	user, err := s.store.GetUserByCode(ctx, userCode)
	if err != nil {
		return nil, wrapNotFound(err, "store.GetUserByCode")
	}

	return s.withAssignments(ctx, user)
}

func (s *Service) LoadIdentityByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, wrapNotFound(err, "store.GetUserByUsername")
	}

	return s.withAssignments(ctx, user)
}

func (s *Service) withAssignments(ctx context.Context, user *domain.User) (*domain.Identity, error) {
	identity := &domain.Identity{
		UserCode:  user.Code,
		Username:  user.Username,
		Role:      domain.ParseRole(user.RoleLabel),
		RoleLabel: user.RoleLabel,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		codes, err := s.store.ListUserDepartmentCodes(egCtx, user.Code)
		if err != nil {
			return fmt.Errorf("store.ListUserDepartmentCodes: %w", err)
		}
		identity.DepartmentCodes = codes
		return nil
	})
	eg.Go(func() error {
		codes, err := s.store.ListUserRegionCodes(egCtx, user.Code)
		if err != nil {
			return fmt.Errorf("store.ListUserRegionCodes: %w", err)
		}
		identity.RegionCodes = codes
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return identity, nil
}

// an unknown subject is an unusable token, not a missing resource
func wrapNotFound(err error, op string) error {
	if errors.Is(err, constants.ErrDBNotFound) {
		return fmt.Errorf("%w: unknown user", constants.ErrInvalidAuthToken)
	}
	return fmt.Errorf("%s: %w", op, err)
}
