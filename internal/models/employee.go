package models

import (
	"errors"
	"strings"
	"time"
)

// Role is the access level of an employee. Stored and compared in lower case.
type Role string

const (
	RoleEmpleado Role = "empleado"
	RoleGerente  Role = "gerente"
	RoleJefe     Role = "jefe"
)

var ErrInvalidRole = errors.New("invalid role")

// ParseRole normalises s and rejects anything outside the known roles.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleEmpleado, RoleGerente, RoleJefe:
		return true
	}
	return false
}

// Employee represents a row of the 'employees' table.
type Employee struct {
	ID             int64     `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Surname        string    `db:"surname" json:"surname"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	BirthDate      time.Time `db:"birth_date" json:"birth_date"`
	DepartmentID   int64     `db:"department_id" json:"department_id"`
	DepartmentName *string   `db:"department_name" json:"department_name,omitempty"` // only set by joined reads
	Role           Role      `db:"role" json:"role"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

func (e *Employee) FullName() string {
	return strings.TrimSpace(e.Name + " " + e.Surname)
}

// Identity is the verified caller of a request, decoded from the session token.
type Identity struct {
	EmployeeID   int64 `json:"employee_id"`
	DepartmentID int64 `json:"department_id"`
	Role         Role  `json:"role"`
}

// Profile is the view of an employee returned to the employee themselves.
type Profile struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
}

// RegisterInput represents input for creating an employee account
type RegisterInput struct {
	Name         string `json:"name" binding:"required"`
	Surname      string `json:"surname" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	BirthDate    string `json:"birth_date" binding:"required"`
	DepartmentID int64  `json:"department_id" binding:"required,gt=0"`
	Role         string `json:"role" binding:"required,role"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateEmployeeInput represents the editable fields of an employee
type UpdateEmployeeInput struct {
	EmployeeID int64  `json:"employee_id" binding:"required,gt=0"`
	Name       string `json:"name" binding:"required"`
	Surname    string `json:"surname" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Role       string `json:"role" binding:"required,role"`
}

type DeleteEmployeeInput struct {
	EmployeeID int64 `json:"employee_id" binding:"required,gt=0"`
}
