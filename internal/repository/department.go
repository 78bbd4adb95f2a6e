package repository

import (
	"context"
	"database/sql"
	"errors"

	"intranet/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type DepartmentRepository interface {
	List(ctx context.Context) ([]*models.Department, error)
	GetByID(ctx context.Context, id int64) (*models.Department, error)
}

type departmentRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewDepartmentRepository(db *sqlx.DB, logger *zap.Logger) DepartmentRepository {
	return &departmentRepository{db: db, logger: logger}
}

func (r *departmentRepository) List(ctx context.Context) ([]*models.Department, error) {
	departments := []*models.Department{}
	query := `SELECT id, name FROM departments ORDER BY id`
	if err := r.db.SelectContext(ctx, &departments, query); err != nil {
		r.logger.Error("Failed to list departments", zap.Error(err))
		return nil, err
	}
	return departments, nil
}

func (r *departmentRepository) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	var department models.Department
	query := `SELECT id, name FROM departments WHERE id = $1`
	err := r.db.GetContext(ctx, &department, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get department by ID", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return &department, nil
}
