// Package memstore is an in-memory store.Store. It backs tests and the
// "memory" store driver used for local runs.
//
// Transactions are serialized and work on a private snapshot that replaces
// the committed state only when the transaction function succeeds.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/ougirez/elections/internal/domain"
	"github.com/ougirez/elections/internal/pkg/store"
)

type Store struct {
	*view

	txMu sync.Mutex
	mu   sync.RWMutex
	st   *state

	failMu   sync.Mutex
	failures map[int64]error
}

var _ store.Store = (*Store)(nil)

func New(seed Seed) *Store {
	s := &Store{
		st:       newState(seed),
		failures: make(map[int64]error),
	}
	s.view = &view{root: s}
	return s
}

// FailResultsFor makes every later attempt to persist a result for the candidate fail with err.
func (s *Store) FailResultsFor(candidateCode int64, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.failures[candidateCode] = err
}

// SetClock replaces the source of creation dates.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.now = now
}

func (s *Store) injectedFailure(candidateCode int64) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	return s.failures[candidateCode]
}

// view reads the committed state, or a transaction snapshot when tx is set.
type view struct {
	root *Store
	tx   *state
}

func (v *view) read(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if v.tx != nil {
		return fn(v.tx)
	}

	v.root.mu.RLock()
	defer v.root.mu.RUnlock()
	return fn(v.root.st)
}

func (v *view) write(ctx context.Context, fn func(st *state) error) error {
	if v.tx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(v.tx)
	}

	return v.WithTx(ctx, func(tx store.Store) error {
		return fn(tx.(*view).tx)
	})
}

func (v *view) WithTx(ctx context.Context, fn func(tx store.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if v.tx != nil {
		draft := v.tx.clone()
		if err := fn(&view{root: v.root, tx: draft}); err != nil {
			return err
		}
		*v.tx = *draft
		return nil
	}

	v.root.txMu.Lock()
	defer v.root.txMu.Unlock()

	v.root.mu.RLock()
	draft := v.root.st.clone()
	v.root.mu.RUnlock()

	if err := fn(&view{root: v.root, tx: draft}); err != nil {
		return err
	}

	v.root.mu.Lock()
	v.root.st = draft
	v.root.mu.Unlock()

	return nil
}

func (v *view) GetRegion(ctx context.Context, code int64) (region *domain.Region, err error) {
	err = v.read(ctx, func(st *state) error {
		region, err = st.getRegion(code)
		return err
	})
	return region, err
}

func (v *view) ListRegions(ctx context.Context) (regions []*domain.Region, err error) {
	err = v.read(ctx, func(st *state) error {
		regions = st.listRegions()
		return nil
	})
	return regions, err
}

func (v *view) GetDepartment(ctx context.Context, code int64) (department *domain.Department, err error) {
	err = v.read(ctx, func(st *state) error {
		department, err = st.getDepartment(code)
		return err
	})
	return department, err
}

// LockDepartment is a plain read: transactions already run one at a time.
func (v *view) LockDepartment(ctx context.Context, code int64) (*domain.Department, error) {
	return v.GetDepartment(ctx, code)
}

func (v *view) ListDepartments(ctx context.Context, opts store.ListDepartmentsOpts) (departments []*domain.Department, err error) {
	err = v.read(ctx, func(st *state) error {
		departments = st.listDepartments(opts)
		return nil
	})
	return departments, err
}

func (v *view) GetCommune(ctx context.Context, code int64) (commune *domain.Commune, err error) {
	err = v.read(ctx, func(st *state) error {
		commune, err = st.getCommune(code)
		return err
	})
	return commune, err
}

func (v *view) LockCommune(ctx context.Context, code int64) (*domain.Commune, error) {
	return v.GetCommune(ctx, code)
}

func (v *view) ListCommunesByDepartment(ctx context.Context, departmentCode int64) (communes []*domain.Commune, err error) {
	err = v.read(ctx, func(st *state) error {
		communes = st.listCommunesByDepartment(departmentCode)
		return nil
	})
	return communes, err
}

func (v *view) GetParticipation(ctx context.Context, level domain.UnitLevel, unitCode int64) (p *domain.Participation, err error) {
	err = v.read(ctx, func(st *state) error {
		p, err = st.getParticipation(level, unitCode)
		return err
	})
	return p, err
}

func (v *view) ListParticipations(ctx context.Context, opts store.ListParticipationsOpts) (res []*domain.Participation, err error) {
	err = v.read(ctx, func(st *state) error {
		res, err = st.listParticipations(opts)
		return err
	})
	return res, err
}

func (v *view) CreateParticipation(ctx context.Context, participation *domain.Participation) error {
	return v.write(ctx, func(st *state) error {
		return st.createParticipation(participation)
	})
}

// CreateResults writes results one by one, so an injected failure leaves earlier rows
// in the snapshot for the rollback to discard.
func (v *view) CreateResults(ctx context.Context, results []*domain.Result) error {
	return v.write(ctx, func(st *state) error {
		for _, r := range results {
			if err := v.root.injectedFailure(r.CandidateCode); err != nil {
				return err
			}
			if err := st.createResult(r); err != nil {
				return err
			}
		}
		return nil
	})
}

func (v *view) ListResultsByDepartment(ctx context.Context, departmentCode int64) (res []*domain.Result, err error) {
	err = v.read(ctx, func(st *state) error {
		res = st.listResultsByDepartment(departmentCode)
		return nil
	})
	return res, err
}

func (v *view) GetCandidate(ctx context.Context, code int64) (candidate *domain.Candidate, err error) {
	err = v.read(ctx, func(st *state) error {
		candidate, err = st.getCandidate(code)
		return err
	})
	return candidate, err
}

func (v *view) ListCandidates(ctx context.Context) (candidates []*domain.Candidate, err error) {
	err = v.read(ctx, func(st *state) error {
		candidates = st.listCandidates()
		return nil
	})
	return candidates, err
}

func (v *view) ListParties(ctx context.Context) (parties []*domain.Party, err error) {
	err = v.read(ctx, func(st *state) error {
		parties = st.listParties()
		return nil
	})
	return parties, err
}

func (v *view) GetUserByCode(ctx context.Context, code int64) (user *domain.User, err error) {
	err = v.read(ctx, func(st *state) error {
		user, err = st.getUserByCode(code)
		return err
	})
	return user, err
}

func (v *view) GetUserByUsername(ctx context.Context, username string) (user *domain.User, err error) {
	err = v.read(ctx, func(st *state) error {
		user, err = st.getUserByUsername(username)
		return err
	})
	return user, err
}

func (v *view) ListUserDepartmentCodes(ctx context.Context, userCode int64) (codes []int64, err error) {
	err = v.read(ctx, func(st *state) error {
		codes = append(make([]int64, 0), st.userDepartments[userCode]...)
		return nil
	})
	return codes, err
}

func (v *view) ListUserRegionCodes(ctx context.Context, userCode int64) (codes []int64, err error) {
	err = v.read(ctx, func(st *state) error {
		codes = append(make([]int64, 0), st.userRegions[userCode]...)
		return nil
	})
	return codes, err
}
