// Package policy decides whether an authenticated identity may perform an
// operation and which scope applies when the request leaves it open.
// Every function is pure; decisions are recomputed on each request.
package policy

import (
	"errors"
	"fmt"
	"time"

	"intranet/internal/models"
)

var ErrForbidden = errors.New("forbidden")

// VisibilityWindow is how far back news listings reach.
const VisibilityWindow = 7 * 24 * time.Hour

// VisibleFrom returns the oldest event date a news listing returns.
func VisibleFrom(now time.Time) time.Time {
	return now.Add(-VisibilityWindow)
}

type ScopeKind int

const (
	ScopeDepartment ScopeKind = iota
	ScopeAuthor
)

// Scope is the effective filter applied to a news listing.
type Scope struct {
	Kind         ScopeKind
	DepartmentID int64
	EmployeeID   int64
}

type Policy struct {
	chartRoles map[models.Role]struct{}
}

// New builds a Policy. chartRoles lists who may see aggregate charts; when
// empty only jefe may.
func New(chartRoles ...models.Role) *Policy {
	if len(chartRoles) == 0 {
		chartRoles = []models.Role{models.RoleJefe}
	}
	allowed := make(map[models.Role]struct{}, len(chartRoles))
	for _, r := range chartRoles {
		allowed[r] = struct{}{}
	}
	return &Policy{chartRoles: allowed}
}

func privileged(r models.Role) bool {
	return r == models.RoleJefe || r == models.RoleGerente
}

func deny(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

// CanManageEmployees covers listing, updating and deleting employees.
func (p *Policy) CanManageEmployees(id models.Identity) error {
	if id.Role != models.RoleJefe {
		return deny("only jefe can manage employees")
	}
	return nil
}

func (p *Policy) CanCreateNews(id models.Identity) error {
	if !privileged(id.Role) {
		return deny("only jefe or gerente can create news")
	}
	return nil
}

func (p *Policy) CanViewCharts(id models.Identity) error {
	if _, ok := p.chartRoles[id.Role]; !ok {
		return deny("role %s cannot view charts", id.Role)
	}
	return nil
}

// NewsScope resolves the scope of a news listing. An explicit employee takes
// precedence over an explicit department; with neither, the caller's own
// department is used.
func (p *Policy) NewsScope(id models.Identity, employeeID, departmentID *int64) (Scope, error) {
	switch {
	case employeeID != nil:
		if *employeeID != id.EmployeeID && !privileged(id.Role) {
			return Scope{}, deny("cannot view news of employee %d", *employeeID)
		}
		return Scope{Kind: ScopeAuthor, EmployeeID: *employeeID}, nil
	case departmentID != nil:
		if *departmentID != id.DepartmentID && !privileged(id.Role) {
			return Scope{}, deny("cannot view news of department %d", *departmentID)
		}
		return Scope{Kind: ScopeDepartment, DepartmentID: *departmentID}, nil
	default:
		return Scope{Kind: ScopeDepartment, DepartmentID: id.DepartmentID}, nil
	}
}
