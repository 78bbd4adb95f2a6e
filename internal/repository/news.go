package repository

import (
	"context"
	"fmt"
	"time"

	"intranet/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// NewsFilter narrows a news listing. Zero values are ignored.
type NewsFilter struct {
	AuthorID     int64
	DepartmentID int64
	From         time.Time
}

type NewsRepository interface {
	Create(ctx context.Context, news *models.News) error
	List(ctx context.Context, filter NewsFilter) ([]*models.News, error)
	CountByDepartment(ctx context.Context, start, end time.Time) ([]*models.DepartmentNewsCount, error)
}

type newsRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewNewsRepository(db *sqlx.DB, logger *zap.Logger) NewsRepository {
	return &newsRepository{db: db, logger: logger}
}

func (r *newsRepository) Create(ctx context.Context, news *models.News) error {
	query := `
		INSERT INTO news (title, body, summary, color, event_date, department_id, author_employee_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		news.Title,
		news.Body,
		news.Summary,
		news.Color,
		news.EventDate,
		news.DepartmentID,
		news.AuthorID,
	).Scan(&news.ID, &news.CreatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrUnknownAuthor
		}
		r.logger.Error("Failed to create news", zap.Int64("author_id", news.AuthorID), zap.Error(err))
		return err
	}
	return nil
}

// List returns news matching filter, soonest event first, with the author's full name.
func (r *newsRepository) List(ctx context.Context, filter NewsFilter) ([]*models.News, error) {
	q := sq.Select(
		"n.id", "n.title", "n.body", "n.summary", "n.color", "n.event_date",
		"n.department_id", "n.author_employee_id", "n.created_at",
		"e.name || ' ' || e.surname AS author_name",
	).
		From("news n").
		Join("employees e ON e.id = n.author_employee_id").
		OrderBy("n.event_date ASC", "n.id ASC").
		PlaceholderFormat(sq.Dollar)

	if filter.AuthorID != 0 {
		q = q.Where(sq.Eq{"n.author_employee_id": filter.AuthorID})
	}
	if filter.DepartmentID != 0 {
		q = q.Where(sq.Eq{"n.department_id": filter.DepartmentID})
	}
	if !filter.From.IsZero() {
		q = q.Where(sq.GtOrEq{"n.event_date": filter.From})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building news query: %w", err)
	}

	items := []*models.News{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		r.logger.Error("Failed to list news",
			zap.Int64("author_id", filter.AuthorID),
			zap.Int64("department_id", filter.DepartmentID),
			zap.Error(err))
		return nil, err
	}
	return items, nil
}

// CountByDepartment counts news with an event date in [start, end] per department.
func (r *newsRepository) CountByDepartment(ctx context.Context, start, end time.Time) ([]*models.DepartmentNewsCount, error) {
	query := `
		SELECT n.department_id, d.name AS department_name, COUNT(n.id) AS news_count
		FROM news n
		LEFT JOIN departments d ON d.id = n.department_id
		WHERE n.event_date >= $1 AND n.event_date <= $2
		GROUP BY n.department_id, d.name
		ORDER BY n.department_id
	`

	counts := []*models.DepartmentNewsCount{}
	if err := r.db.SelectContext(ctx, &counts, query, start, end); err != nil {
		r.logger.Error("Failed to count news by department", zap.Time("start", start), zap.Time("end", end), zap.Error(err))
		return nil, err
	}
	return counts, nil
}
