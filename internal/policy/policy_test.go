package policy

import (
	"testing"
	"time"

	"intranet/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allRoles = []models.Role{models.RoleEmpleado, models.RoleGerente, models.RoleJefe}

func identity(role models.Role) models.Identity {
	return models.Identity{EmployeeID: 10, DepartmentID: 3, Role: role}
}

func ptr(v int64) *int64 { return &v }

func TestPolicy_CanManageEmployees(t *testing.T) {
	p := New()
	for _, role := range allRoles {
		err := p.CanManageEmployees(identity(role))
		if role == models.RoleJefe {
			assert.NoError(t, err)
		} else {
			assert.ErrorIs(t, err, ErrForbidden, role)
		}
	}
}

func TestPolicy_CanCreateNews(t *testing.T) {
	p := New()
	assert.ErrorIs(t, p.CanCreateNews(identity(models.RoleEmpleado)), ErrForbidden)
	assert.NoError(t, p.CanCreateNews(identity(models.RoleGerente)))
	assert.NoError(t, p.CanCreateNews(identity(models.RoleJefe)))
}

func TestPolicy_CanViewCharts(t *testing.T) {
	t.Run("Should default to jefe only", func(t *testing.T) {
		p := New()
		assert.NoError(t, p.CanViewCharts(identity(models.RoleJefe)))
		assert.ErrorIs(t, p.CanViewCharts(identity(models.RoleGerente)), ErrForbidden)
		assert.ErrorIs(t, p.CanViewCharts(identity(models.RoleEmpleado)), ErrForbidden)
	})
	t.Run("Should honour configured roles", func(t *testing.T) {
		p := New(models.RoleJefe, models.RoleGerente)
		assert.NoError(t, p.CanViewCharts(identity(models.RoleGerente)))
		assert.ErrorIs(t, p.CanViewCharts(identity(models.RoleEmpleado)), ErrForbidden)
	})
}

func TestPolicy_NewsScope(t *testing.T) {
	p := New()

	t.Run("Should default to the caller's department", func(t *testing.T) {
		for _, role := range allRoles {
			scope, err := p.NewsScope(identity(role), nil, nil)
			require.NoError(t, err)
			assert.Equal(t, Scope{Kind: ScopeDepartment, DepartmentID: 3}, scope)
		}
	})

	t.Run("Should always allow the caller's own department", func(t *testing.T) {
		for _, role := range allRoles {
			scope, err := p.NewsScope(identity(role), nil, ptr(3))
			require.NoError(t, err)
			assert.Equal(t, int64(3), scope.DepartmentID)
		}
	})

	t.Run("Should allow other departments only to jefe and gerente", func(t *testing.T) {
		for _, role := range allRoles {
			scope, err := p.NewsScope(identity(role), nil, ptr(4))
			if role == models.RoleEmpleado {
				assert.ErrorIs(t, err, ErrForbidden)
				continue
			}
			require.NoError(t, err)
			assert.Equal(t, Scope{Kind: ScopeDepartment, DepartmentID: 4}, scope)
		}
	})

	t.Run("Should allow own employee news to everyone", func(t *testing.T) {
		for _, role := range allRoles {
			scope, err := p.NewsScope(identity(role), ptr(10), nil)
			require.NoError(t, err)
			assert.Equal(t, Scope{Kind: ScopeAuthor, EmployeeID: 10}, scope)
		}
	})

	t.Run("Should allow other employees' news only to jefe and gerente", func(t *testing.T) {
		_, err := p.NewsScope(identity(models.RoleEmpleado), ptr(11), nil)
		assert.ErrorIs(t, err, ErrForbidden)

		scope, err := p.NewsScope(identity(models.RoleGerente), ptr(11), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(11), scope.EmployeeID)
	})

	t.Run("Should prefer the employee scope over the department scope", func(t *testing.T) {
		scope, err := p.NewsScope(identity(models.RoleEmpleado), ptr(10), ptr(99))
		require.NoError(t, err)
		assert.Equal(t, ScopeAuthor, scope.Kind)
	})
}

func TestVisibleFrom(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 13, 12, 0, 0, 0, time.UTC), VisibleFrom(now))
}
