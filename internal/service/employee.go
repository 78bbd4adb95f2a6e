package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"intranet/internal/models"
	"intranet/internal/policy"
	"intranet/internal/repository"

	"go.uber.org/zap"
)

type EmployeeService interface {
	List(ctx context.Context, caller models.Identity) ([]*models.Employee, error)
	Update(ctx context.Context, caller models.Identity, input models.UpdateEmployeeInput) (*models.Employee, error)
	Delete(ctx context.Context, caller models.Identity, employeeID int64) error
	Profile(ctx context.Context, caller models.Identity) (*models.Profile, error)
}

type employeeService struct {
	employees repository.EmployeeRepository
	policy    *policy.Policy
	logger    *zap.Logger
}

func NewEmployeeService(employees repository.EmployeeRepository, p *policy.Policy, logger *zap.Logger) EmployeeService {
	return &employeeService{
		employees: employees,
		policy:    p,
		logger:    logger,
	}
}

func (s *employeeService) List(ctx context.Context, caller models.Identity) ([]*models.Employee, error) {
	if err := s.policy.CanManageEmployees(caller); err != nil {
		return nil, err
	}
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

func (s *employeeService) Update(ctx context.Context, caller models.Identity, input models.UpdateEmployeeInput) (*models.Employee, error) {
	if err := s.policy.CanManageEmployees(caller); err != nil {
		return nil, err
	}
	role, err := models.ParseRole(input.Role)
	if err != nil {
		return nil, invalid("unknown role %q", input.Role)
	}
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, invalid("email is required")
	}

	employee := &models.Employee{
		ID:      input.EmployeeID,
		Name:    strings.TrimSpace(input.Name),
		Surname: strings.TrimSpace(input.Surname),
		Email:   email,
		Role:    role,
	}
	if err := s.employees.Update(ctx, employee); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("%w: %d", ErrEmployeeNotFound, input.EmployeeID)
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmployeeExists
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}

	updated, err := s.employees.GetByID(ctx, input.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload employee: %w", err)
	}

	s.logger.Info("Employee updated",
		zap.Int64("employee_id", updated.ID),
		zap.Int64("by", caller.EmployeeID),
		zap.String("role", string(updated.Role)))
	return updated, nil
}

// Delete removes an employee together with the news they authored.
func (s *employeeService) Delete(ctx context.Context, caller models.Identity, employeeID int64) error {
	if err := s.policy.CanManageEmployees(caller); err != nil {
		return err
	}
	newsDeleted, err := s.employees.DeleteWithNews(ctx, employeeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %d", ErrEmployeeNotFound, employeeID)
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	s.logger.Info("Employee deleted",
		zap.Int64("employee_id", employeeID),
		zap.Int64("by", caller.EmployeeID),
		zap.Int64("news_deleted", newsDeleted))
	return nil
}

// Profile returns the caller's own profile. There is no way to read someone else's.
func (s *employeeService) Profile(ctx context.Context, caller models.Identity) (*models.Profile, error) {
	employee, err := s.employees.GetByID(ctx, caller.EmployeeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrEmployeeNotFound, caller.EmployeeID)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	department := "Desconocido"
	if employee.DepartmentName != nil && *employee.DepartmentName != "" {
		department = *employee.DepartmentName
	}
	return &models.Profile{
		Name:       employee.FullName(),
		Email:      employee.Email,
		Role:       employee.Role,
		Department: department,
	}, nil
}
