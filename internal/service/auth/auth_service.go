// Package auth turns bearer tokens into identities and identities into department scopes.
package auth

import (
	"context"
	"fmt"

	"github.com/ougirez/elections/internal/domain"
	"github.com/ougirez/elections/internal/pkg/constants"
	"github.com/ougirez/elections/internal/pkg/store"
	"github.com/ougirez/elections/internal/pkg/utils"
	"github.com/ougirez/elections/internal/service/user"
)

type Service struct {
	store  store.Store
	users  *user.Service
	secret string
}

func NewService(store store.Store, users *user.Service, secret string) *Service {
	return &Service{store: store, users: users, secret: secret}
}

// Authenticate decodes the token and reloads its subject from the store.
// Only the subject is trusted: role and assignments always come from the store.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (*domain.Identity, error) {
	token, err := utils.ParseAuthToken(rawToken, s.secret)
	if err != nil {
		return nil, err
	}

	if token.UserCode > 0 {
		return s.users.LoadIdentity(ctx, token.UserCode)
	}
	return s.users.LoadIdentityByUsername(ctx, token.Username)
}

// Resolve returns the departments the identity may act on.
func (s *Service) Resolve(ctx context.Context, identity *domain.Identity) (domain.Scope, error) {
	if identity == nil {
		return domain.Scope{}, constants.ErrUnauthorized
	}

	switch identity.Role {
	case domain.RoleAdministrator:
		return domain.UnrestrictedScope(), nil
	case domain.RoleDepartmentScrutineer:
		codes := append(make([]int64, 0, len(identity.DepartmentCodes)), identity.DepartmentCodes...)
		if len(identity.RegionCodes) > 0 {
			departments, err := s.store.ListDepartments(ctx, store.ListDepartmentsOpts{RegionCodes: identity.RegionCodes})
			if err != nil {
				return domain.Scope{}, fmt.Errorf("store.ListDepartments: %w", err)
			}
			for _, department := range departments {
				codes = append(codes, department.Code)
			}
		}
		return domain.NewScope(codes...), nil
	default:
		return domain.Scope{}, constants.ErrRoleNotAllowed
	}
}

// ListingScope is the scope applied to read listings. Anonymous readers see everything.
func (s *Service) ListingScope(ctx context.Context, identity *domain.Identity) (domain.Scope, error) {
	if identity == nil {
		return domain.UnrestrictedScope(), nil
	}
	return s.Resolve(ctx, identity)
}

// Authorize is the write-path check for one department.
func (s *Service) Authorize(ctx context.Context, identity *domain.Identity, departmentCode int64) error {
	scope, err := s.Resolve(ctx, identity)
	if err != nil {
		return err
	}
	if !scope.Contains(departmentCode) {
		return fmt.Errorf("%w: department %d", constants.ErrDepartmentOutOfScope, departmentCode)
	}
	return nil
}
