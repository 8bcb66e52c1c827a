package domain

import "sort"

// Role is the closed set of roles the core knows about.
type Role int

const (
	RoleOther Role = iota
	RoleAdministrator
	RoleDepartmentScrutineer
)

const (
	RoleLabelAdministrator        = "Administrateur"
	RoleLabelDepartmentScrutineer = "Scrutateur"
)

// ParseRole maps the stored role label onto the enum. Unknown labels are RoleOther.
func ParseRole(label string) Role {
	switch label {
	case RoleLabelAdministrator:
		return RoleAdministrator
	case RoleLabelDepartmentScrutineer:
		return RoleDepartmentScrutineer
	default:
		return RoleOther
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdministrator:
		return "administrator"
	case RoleDepartmentScrutineer:
		return "department_scrutineer"
	default:
		return "other"
	}
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// User is an operator account as stored.
type User struct {
	Code      int64  `db:"code" json:"code"`
	Username  string `db:"username" json:"username"`
	RoleLabel string `db:"role_libelle" json:"role"`
}

// Identity is an authenticated actor with its assignments, always loaded from the store.
type Identity struct {
	UserCode        int64   `json:"user_code"`
	Username        string  `json:"username"`
	Role            Role    `json:"role"`
	RoleLabel       string  `json:"role_label"`
	DepartmentCodes []int64 `json:"department_codes"`
	RegionCodes     []int64 `json:"region_codes"`
}

// Scope is the set of departments an identity may act on.
type Scope struct {
	Unrestricted    bool    `json:"unrestricted"`
	DepartmentCodes []int64 `json:"department_codes"`
}

func UnrestrictedScope() Scope {
	return Scope{Unrestricted: true}
}

// NewScope deduplicates and sorts codes.
func NewScope(codes ...int64) Scope {
	seen := make(map[int64]struct{}, len(codes))
	res := make([]int64, 0, len(codes))
	for _, code := range codes {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		res = append(res, code)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return Scope{DepartmentCodes: res}
}

func (s Scope) Contains(departmentCode int64) bool {
	if s.Unrestricted {
		return true
	}
	for _, code := range s.DepartmentCodes {
		if code == departmentCode {
			return true
		}
	}
	return false
}

func (s Scope) IsEmpty() bool {
	return !s.Unrestricted && len(s.DepartmentCodes) == 0
}
