package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"intranet/internal/crypto"
	"intranet/internal/models"
	"intranet/internal/repository"

	"go.uber.org/zap"
)

// TokenIssuer signs session tokens for an identity.
type TokenIssuer interface {
	Issue(id models.Identity) (string, time.Time, error)
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  models.Identity
}

type AuthService interface {
	Register(ctx context.Context, input models.RegisterInput) (*models.Employee, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error) // Returns the session token and who it belongs to
}

type authService struct {
	employees   repository.EmployeeRepository
	departments repository.DepartmentRepository
	hasher      *crypto.PasswordHasher
	tokens      TokenIssuer
	logger      *zap.Logger
}

func NewAuthService(
	employees repository.EmployeeRepository,
	departments repository.DepartmentRepository,
	hasher *crypto.PasswordHasher,
	tokens TokenIssuer,
	logger *zap.Logger,
) AuthService {
	return &authService{
		employees:   employees,
		departments: departments,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger,
	}
}

func (s *authService) Register(ctx context.Context, input models.RegisterInput) (*models.Employee, error) {
	role, err := models.ParseRole(input.Role)
	if err != nil {
		return nil, invalid("unknown role %q", input.Role)
	}
	birthDate, _, err := ParseDate(input.BirthDate)
	if err != nil {
		return nil, invalid("invalid birth date")
	}
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, invalid("email and password are required")
	}

	if _, err := s.departments.GetByID(ctx, input.DepartmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalid("unknown department %d", input.DepartmentID)
		}
		return nil, fmt.Errorf("failed to check department: %w", err)
	}

	// Check if the email is already registered
	if _, err := s.employees.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmployeeExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing employees: %w", err)
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	employee := &models.Employee{
		Name:         strings.TrimSpace(input.Name),
		Surname:      strings.TrimSpace(input.Surname),
		Email:        email,
		PasswordHash: passwordHash,
		BirthDate:    birthDate,
		DepartmentID: input.DepartmentID,
		Role:         role,
	}

	if err := s.employees.Create(ctx, employee); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmployeeExists
		}
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	s.logger.Info("Employee registered",
		zap.Int64("employee_id", employee.ID),
		zap.Int64("department_id", employee.DepartmentID),
		zap.String("role", string(employee.Role)))
	return employee, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	employee, err := s.employees.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to retrieve employee: %w", err)
	}

	if err := s.hasher.Compare(employee.PasswordHash, password); err != nil {
		if !errors.Is(err, crypto.ErrPasswordMismatch) {
			s.logger.Warn("Stored password hash is unusable", zap.Int64("employee_id", employee.ID), zap.Error(err))
		}
		return nil, ErrInvalidCredentials
	}

	role, err := models.ParseRole(string(employee.Role))
	if err != nil {
		return nil, fmt.Errorf("employee %d has an unknown role %q: %w", employee.ID, employee.Role, err)
	}

	id := models.Identity{
		EmployeeID:   employee.ID,
		DepartmentID: employee.DepartmentID,
		Role:         role,
	}
	tokenString, expiresAt, err := s.tokens.Issue(id)
	if err != nil {
		s.logger.Error("Failed to generate session token", zap.Error(err))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("Employee logged in", zap.Int64("employee_id", employee.ID))
	return &LoginResult{Token: tokenString, ExpiresAt: expiresAt, Identity: id}, nil
}
