package store

import (
	"context"
	"embed"
	"fmt"
	"sort"

	"github.com/ougirez/elections/internal/domain"
	"github.com/ougirez/elections/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

type Store interface {
	// WithTx runs fn against a transactional store. Any error rolls back every write made through it.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	GetRegion(ctx context.Context, code int64) (*domain.Region, error)
	ListRegions(ctx context.Context) ([]*domain.Region, error)
	GetDepartment(ctx context.Context, code int64) (*domain.Department, error)
	// LockDepartment reads the department row and holds a row lock until the transaction ends.
	LockDepartment(ctx context.Context, code int64) (*domain.Department, error)
	ListDepartments(ctx context.Context, opts ListDepartmentsOpts) ([]*domain.Department, error)
	GetCommune(ctx context.Context, code int64) (*domain.Commune, error)
	LockCommune(ctx context.Context, code int64) (*domain.Commune, error)
	ListCommunesByDepartment(ctx context.Context, departmentCode int64) ([]*domain.Commune, error)

	GetParticipation(ctx context.Context, level domain.UnitLevel, unitCode int64) (*domain.Participation, error)
	ListParticipations(ctx context.Context, opts ListParticipationsOpts) ([]*domain.Participation, error)
	// CreateParticipation inserts the record and fills its ID and creation date.
	// A second record for the same unit fails with *constants.LockedError.
	CreateParticipation(ctx context.Context, participation *domain.Participation) error

	CreateResults(ctx context.Context, results []*domain.Result) error
	ListResultsByDepartment(ctx context.Context, departmentCode int64) ([]*domain.Result, error)

	GetCandidate(ctx context.Context, code int64) (*domain.Candidate, error)
	ListCandidates(ctx context.Context) ([]*domain.Candidate, error)
	ListParties(ctx context.Context) ([]*domain.Party, error)

	GetUserByCode(ctx context.Context, code int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUserDepartmentCodes(ctx context.Context, userCode int64) ([]int64, error)
	ListUserRegionCodes(ctx context.Context, userCode int64) ([]int64, error)
}

type ListDepartmentsOpts struct {
	Codes       []int64
	RegionCodes []int64
}

type ListParticipationsOpts struct {
	Level     domain.UnitLevel
	UnitCodes []int64
	// DepartmentCode restricts department records to one department and commune records to its communes.
	DepartmentCode *int64
	RegionCode     *int64
}

type store struct {
	pool Pool
}

func NewStore(pool Pool) Store {
	return &store{pool}
}

func (s *store) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.pool.InTx(ctx, func(tx Pool) error {
		return fn(&store{pool: tx})
	})
}

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies the embedded schema files in name order. Every statement is idempotent.
func Migrate(ctx context.Context, pool Pool) error {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		body, err := migrations.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return err
		}
		if _, err = pool.Exec(ctx, string(body)); err != nil {
			return fmt.Errorf("apply %s: %w", entry.Name(), err)
		}
	}

	return nil
}
