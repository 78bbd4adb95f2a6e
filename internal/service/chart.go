package service

import (
	"context"
	"fmt"
	"time"

	"intranet/internal/models"
	"intranet/internal/policy"
	"intranet/internal/repository"

	"go.uber.org/zap"
)

type ChartService interface {
	NewsPerDepartment(ctx context.Context, caller models.Identity, start, end time.Time) ([]models.ChartEntry, error)
}

type chartService struct {
	news   repository.NewsRepository
	policy *policy.Policy
	logger *zap.Logger
}

func NewChartService(news repository.NewsRepository, p *policy.Policy, logger *zap.Logger) ChartService {
	return &chartService{news: news, policy: p, logger: logger}
}

// NewsPerDepartment counts news with an event date in [start, end] per department.
func (s *chartService) NewsPerDepartment(ctx context.Context, caller models.Identity, start, end time.Time) ([]models.ChartEntry, error) {
	if err := s.policy.CanViewCharts(caller); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, invalid("endDate must not be before startDate")
	}

	counts, err := s.news.CountByDepartment(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate news: %w", err)
	}

	entries := make([]models.ChartEntry, 0, len(counts))
	for _, c := range counts {
		name := fmt.Sprintf("Departamento %d", c.DepartmentID)
		if c.DepartmentName != nil && *c.DepartmentName != "" {
			name = *c.DepartmentName
		}
		entries = append(entries, models.ChartEntry{Name: name, Value: c.Count})
	}

	s.logger.Debug("News per department computed",
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Int("departments", len(entries)))
	return entries, nil
}
