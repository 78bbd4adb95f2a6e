package service

import (
	"context"
	"fmt"

	"intranet/internal/models"
	"intranet/internal/repository"
)

type DepartmentService interface {
	List(ctx context.Context) ([]*models.Department, error)
}

type departmentService struct {
	departments repository.DepartmentRepository
}

func NewDepartmentService(departments repository.DepartmentRepository) DepartmentService {
	return &departmentService{departments: departments}
}

func (s *departmentService) List(ctx context.Context) ([]*models.Department, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}
