package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"intranet/internal/models"
	"intranet/internal/policy"
	"intranet/internal/repository"

	"go.uber.org/zap"
)

type NewsService interface {
	List(ctx context.Context, caller models.Identity, query models.NewsQuery) ([]*models.News, error)
	Create(ctx context.Context, caller models.Identity, input models.CreateNewsInput) (*models.News, error)
}

type newsService struct {
	news   repository.NewsRepository
	policy *policy.Policy
	now    func() time.Time
	logger *zap.Logger
}

func NewNewsService(news repository.NewsRepository, p *policy.Policy, now func() time.Time, logger *zap.Logger) NewsService {
	if now == nil {
		now = time.Now
	}
	return &newsService{
		news:   news,
		policy: p,
		now:    now,
		logger: logger,
	}
}

// List returns the news visible to caller within the trailing-week window,
// soonest event first.
func (s *newsService) List(ctx context.Context, caller models.Identity, query models.NewsQuery) ([]*models.News, error) {
	scope, err := s.policy.NewsScope(caller, query.EmployeeID, query.DepartmentID)
	if err != nil {
		s.logger.Info("News listing denied",
			zap.Int64("employee_id", caller.EmployeeID),
			zap.String("role", string(caller.Role)),
			zap.Error(err))
		return nil, err
	}

	// A zero id in NewsFilter means "no filter", so it must never come from a scope.
	filter := repository.NewsFilter{From: policy.VisibleFrom(s.now())}
	switch scope.Kind {
	case policy.ScopeAuthor:
		if scope.EmployeeID <= 0 {
			return nil, invalid("employee id must be positive")
		}
		filter.AuthorID = scope.EmployeeID
	default:
		if scope.DepartmentID <= 0 {
			return nil, invalid("department id must be positive")
		}
		filter.DepartmentID = scope.DepartmentID
	}

	items, err := s.news.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	return items, nil
}

// Create publishes a news item. Author and department always come from caller.
func (s *newsService) Create(ctx context.Context, caller models.Identity, input models.CreateNewsInput) (*models.News, error) {
	if err := s.policy.CanCreateNews(caller); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	color := strings.TrimSpace(input.Color)
	if color == "" {
		return nil, invalid("color is required")
	}

	eventDate := s.now()
	if strings.TrimSpace(input.EventDate) != "" {
		parsed, _, err := ParseDate(input.EventDate)
		if err != nil {
			return nil, err
		}
		eventDate = parsed
	}

	news := &models.News{
		Title:        title,
		Body:         input.Body,
		Summary:      input.Summary,
		Color:        color,
		EventDate:    eventDate,
		DepartmentID: caller.DepartmentID,
		AuthorID:     caller.EmployeeID,
	}
	if err := s.news.Create(ctx, news); err != nil {
		if errors.Is(err, repository.ErrUnknownAuthor) {
			return nil, fmt.Errorf("%w: %d", ErrEmployeeNotFound, caller.EmployeeID)
		}
		return nil, fmt.Errorf("failed to create news: %w", err)
	}

	s.logger.Info("News created",
		zap.Int64("news_id", news.ID),
		zap.Int64("author_id", news.AuthorID),
		zap.Int64("department_id", news.DepartmentID))
	return news, nil
}
