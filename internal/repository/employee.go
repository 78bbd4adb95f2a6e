package repository

import (
	"context"
	"database/sql"
	"errors"

	"intranet/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// EmployeeRepository defines the interface for employee operations
type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, id int64) (*models.Employee, error)
	GetByEmail(ctx context.Context, email string) (*models.Employee, error)
	List(ctx context.Context) ([]*models.Employee, error)
	Update(ctx context.Context, employee *models.Employee) error
	// DeleteWithNews removes the employee and every news item they authored
	// in one transaction, returning how many news items went with them.
	DeleteWithNews(ctx context.Context, id int64) (int64, error)
}

type employeeRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *sqlx.DB, logger *zap.Logger) EmployeeRepository {
	return &employeeRepository{
		db:     db,
		logger: logger,
	}
}

const selectEmployee = `
		SELECT e.id, e.name, e.surname, e.email, e.password_hash, e.birth_date,
		       e.department_id, e.role, e.created_at, d.name AS department_name
		FROM employees e
		LEFT JOIN departments d ON d.id = e.department_id
`

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

func (r *employeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	query := `
		INSERT INTO employees (name, surname, email, password_hash, birth_date, department_id, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		employee.Name,
		employee.Surname,
		employee.Email,
		employee.PasswordHash,
		employee.BirthDate,
		employee.DepartmentID,
		employee.Role,
	).Scan(&employee.ID, &employee.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		r.logger.Error("Failed to create employee", zap.String("email", employee.Email), zap.Error(err))
		return err
	}

	return nil
}

func (r *employeeRepository) get(ctx context.Context, where string, arg any) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.GetContext(ctx, &employee, selectEmployee+where, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	employee, err := r.get(ctx, `WHERE e.id = $1`, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		r.logger.Error("Failed to get employee by ID", zap.Int64("id", id), zap.Error(err))
	}
	return employee, err
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	employee, err := r.get(ctx, `WHERE e.email = $1`, email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		r.logger.Error("Failed to get employee by email", zap.Error(err))
	}
	return employee, err
}

func (r *employeeRepository) List(ctx context.Context) ([]*models.Employee, error) {
	employees := []*models.Employee{}
	if err := r.db.SelectContext(ctx, &employees, selectEmployee+`ORDER BY e.id`); err != nil {
		r.logger.Error("Failed to list employees", zap.Error(err))
		return nil, err
	}
	return employees, nil
}

func (r *employeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	query := `
		UPDATE employees
		SET name = $1, surname = $2, email = $3, role = $4
		WHERE id = $5
	`

	result, err := r.db.ExecContext(ctx, query, employee.Name, employee.Surname, employee.Email, employee.Role, employee.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		r.logger.Error("Failed to update employee", zap.Int64("id", employee.ID), zap.Error(err))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *employeeRepository) DeleteWithNews(ctx context.Context, id int64) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback() // no-op after a successful commit
	}()

	result, err := tx.ExecContext(ctx, `DELETE FROM news WHERE author_employee_id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete news of employee", zap.Int64("id", id), zap.Error(err))
		return 0, err
	}
	newsDeleted, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	result, err = tx.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete employee", zap.Int64("id", id), zap.Error(err))
		return 0, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if rowsAffected == 0 {
		return 0, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit employee deletion", zap.Int64("id", id), zap.Error(err))
		return 0, err
	}
	return newsDeleted, nil
}
