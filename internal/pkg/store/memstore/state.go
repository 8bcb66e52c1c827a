package memstore

import (
	"sort"
	"time"

	"github.com/ougirez/elections/internal/domain"
	"github.com/ougirez/elections/internal/pkg/constants"
	"github.com/ougirez/elections/internal/pkg/store"
)

// state is one consistent snapshot of the store. Reference data is shared
// between snapshots and never mutated; submitted records are copied on clone.
type state struct {
	regions         map[int64]*domain.Region
	departments     map[int64]*domain.Department
	communes        map[int64]*domain.Commune
	parties         map[int64]*domain.Party
	candidates      map[int64]*domain.Candidate
	users           map[int64]*domain.User
	userDepartments map[int64][]int64
	userRegions     map[int64][]int64
	participations  map[domain.UnitLevel]map[int64]*domain.Participation
	results         map[int64][]*domain.Result
	nextID          int64
	now             func() time.Time
}

func newState(seed Seed) *state {
	st := &state{
		regions:         make(map[int64]*domain.Region),
		departments:     make(map[int64]*domain.Department),
		communes:        make(map[int64]*domain.Commune),
		parties:         make(map[int64]*domain.Party),
		candidates:      make(map[int64]*domain.Candidate),
		users:           make(map[int64]*domain.User),
		userDepartments: make(map[int64][]int64),
		userRegions:     make(map[int64][]int64),
		participations: map[domain.UnitLevel]map[int64]*domain.Participation{
			domain.LevelDepartment: make(map[int64]*domain.Participation),
			domain.LevelCommune:    make(map[int64]*domain.Participation),
		},
		results: make(map[int64][]*domain.Result),
		now:     time.Now,
	}

	for _, r := range seed.Regions {
		region := *r
		region.Departments = nil
		st.regions[region.Code] = &region
		for _, d := range r.Departments {
			department := *d
			department.RegionCode = region.Code
			st.addDepartment(&department)
		}
	}
	for _, d := range seed.Departments {
		department := *d
		st.addDepartment(&department)
	}
	for _, c := range seed.Communes {
		commune := *c
		st.communes[commune.Code] = &commune
	}
	for _, p := range seed.Parties {
		party := *p
		st.parties[party.Code] = &party
	}
	for _, c := range seed.Candidates {
		codes := append([]int64(nil), c.PartyCodes...)
		sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
		candidate := &domain.Candidate{Code: c.Code, FirstName: c.FirstName, LastName: c.LastName}
		for _, code := range codes {
			if party, ok := st.parties[code]; ok {
				candidate.Parties = append(candidate.Parties, party)
			}
		}
		st.candidates[candidate.Code] = candidate
	}
	for _, u := range seed.Users {
		st.users[u.Code] = &domain.User{Code: u.Code, Username: u.Username, RoleLabel: u.Role}
		st.userDepartments[u.Code] = sortedCopy(u.DepartmentCodes)
		st.userRegions[u.Code] = sortedCopy(u.RegionCodes)
	}

	return st
}

func (st *state) addDepartment(d *domain.Department) {
	d.Region = nil
	d.Communes = nil
	st.departments[d.Code] = d
}

func (st *state) clone() *state {
	cp := *st
	cp.participations = make(map[domain.UnitLevel]map[int64]*domain.Participation, len(st.participations))
	for level, byCode := range st.participations {
		m := make(map[int64]*domain.Participation, len(byCode))
		for code, p := range byCode {
			m[code] = p
		}
		cp.participations[level] = m
	}
	cp.results = make(map[int64][]*domain.Result, len(st.results))
	for code, results := range st.results {
		cp.results[code] = append([]*domain.Result(nil), results...)
	}

	return &cp
}

func (st *state) getRegion(code int64) (*domain.Region, error) {
	region, ok := st.regions[code]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	cp := *region
	return &cp, nil
}

func (st *state) listRegions() []*domain.Region {
	departments := st.listDepartments(store.ListDepartmentsOpts{})

	regions := make([]*domain.Region, 0, len(st.regions))
	for _, r := range st.regions {
		region := *r
		region.Departments = make([]*domain.Department, 0)
		for _, d := range departments {
			if d.RegionCode == region.Code {
				region.Departments = append(region.Departments, d)
			}
		}
		regions = append(regions, &region)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].Code < regions[j].Code })

	return regions
}

func (st *state) getDepartment(code int64) (*domain.Department, error) {
	department, ok := st.departments[code]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	cp := *department
	return &cp, nil
}

func (st *state) listDepartments(opts store.ListDepartmentsOpts) []*domain.Department {
	res := make([]*domain.Department, 0)
	for _, d := range st.departments {
		if opts.Codes != nil && !containsCode(opts.Codes, d.Code) {
			continue
		}
		if opts.RegionCodes != nil && !containsCode(opts.RegionCodes, d.RegionCode) {
			continue
		}
		cp := *d
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].RegionCode != res[j].RegionCode {
			return res[i].RegionCode < res[j].RegionCode
		}
		return res[i].Label < res[j].Label
	})

	return res
}

func (st *state) getCommune(code int64) (*domain.Commune, error) {
	commune, ok := st.communes[code]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	cp := *commune
	return &cp, nil
}

func (st *state) listCommunesByDepartment(departmentCode int64) []*domain.Commune {
	res := make([]*domain.Commune, 0)
	for _, c := range st.communes {
		if c.DepartmentCode == departmentCode {
			cp := *c
			res = append(res, &cp)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Label != res[j].Label {
			return res[i].Label < res[j].Label
		}
		return res[i].Code < res[j].Code
	})

	return res
}

func (st *state) getParticipation(level domain.UnitLevel, code int64) (*domain.Participation, error) {
	byCode, ok := st.participations[level]
	if !ok {
		return nil, constants.NewPayloadError("no participation records at %s level", level)
	}
	p, ok := byCode[code]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	cp := *p
	return &cp, nil
}

func (st *state) listParticipations(opts store.ListParticipationsOpts) ([]*domain.Participation, error) {
	byCode, ok := st.participations[opts.Level]
	if !ok {
		return nil, constants.NewPayloadError("no participation records at %s level", opts.Level)
	}

	res := make([]*domain.Participation, 0)
	for code, p := range byCode {
		if opts.UnitCodes != nil && !containsCode(opts.UnitCodes, code) {
			continue
		}

		departmentCode := code
		if opts.Level == domain.LevelCommune {
			commune, ok := st.communes[code]
			if !ok {
				continue
			}
			departmentCode = commune.DepartmentCode
		}
		if opts.DepartmentCode != nil && *opts.DepartmentCode != departmentCode {
			continue
		}
		if opts.RegionCode != nil {
			department, ok := st.departments[departmentCode]
			if !ok || department.RegionCode != *opts.RegionCode {
				continue
			}
		}

		cp := *p
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].UnitCode < res[j].UnitCode })

	return res, nil
}

func (st *state) createParticipation(p *domain.Participation) error {
	byCode, ok := st.participations[p.Level]
	if !ok {
		return constants.NewPayloadError("no participation records at %s level", p.Level)
	}
	if _, exists := byCode[p.UnitCode]; exists {
		return &constants.LockedError{Level: string(p.Level), Code: p.UnitCode}
	}

	st.nextID++
	p.ID = st.nextID
	p.CreatedAt = st.now()
	cp := *p
	byCode[p.UnitCode] = &cp

	return nil
}

func (st *state) createResult(r *domain.Result) error {
	for _, existing := range st.results[r.DepartmentCode] {
		if existing.CandidateCode == r.CandidateCode {
			return constants.NewPayloadError("a result was already recorded for candidate %d", r.CandidateCode)
		}
	}

	st.nextID++
	r.ID = st.nextID
	cp := *r
	cp.Party = nil
	st.results[r.DepartmentCode] = append(st.results[r.DepartmentCode], &cp)

	return nil
}

func (st *state) listResultsByDepartment(departmentCode int64) []*domain.Result {
	res := make([]*domain.Result, 0, len(st.results[departmentCode]))
	for _, r := range st.results[departmentCode] {
		cp := *r
		if party, ok := st.parties[cp.PartyCode]; ok {
			partyCopy := *party
			cp.Party = &partyCopy
		}
		res = append(res, &cp)
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Votes != res[j].Votes {
			return res[i].Votes > res[j].Votes
		}
		return res[i].CandidateCode < res[j].CandidateCode
	})

	return res
}

func (st *state) getCandidate(code int64) (*domain.Candidate, error) {
	candidate, ok := st.candidates[code]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	return copyCandidate(candidate), nil
}

func (st *state) listCandidates() []*domain.Candidate {
	res := make([]*domain.Candidate, 0, len(st.candidates))
	for _, c := range st.candidates {
		res = append(res, copyCandidate(c))
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Code < res[j].Code })

	return res
}

func (st *state) listParties() []*domain.Party {
	res := make([]*domain.Party, 0, len(st.parties))
	for _, p := range st.parties {
		cp := *p
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Code < res[j].Code })

	return res
}

func (st *state) getUserByCode(code int64) (*domain.User, error) {
	user, ok := st.users[code]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	cp := *user
	return &cp, nil
}

func (st *state) getUserByUsername(username string) (*domain.User, error) {
	for _, user := range st.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, constants.ErrDBNotFound
}

func copyCandidate(c *domain.Candidate) *domain.Candidate {
	cp := *c
	cp.Parties = make([]*domain.Party, 0, len(c.Parties))
	for _, p := range c.Parties {
		party := *p
		cp.Parties = append(cp.Parties, &party)
	}
	return &cp
}

func containsCode(codes []int64, code int64) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

func sortedCopy(codes []int64) []int64 {
	res := append(make([]int64, 0, len(codes)), codes...)
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}
