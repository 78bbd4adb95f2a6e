package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"intranet/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

var employeeColumns = []string{
	"id", "name", "surname", "email", "password_hash", "birth_date",
	"department_id", "role", "created_at", "department_name",
}

func TestEmployeeRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	newEmployee := func() *models.Employee {
		return &models.Employee{
			Name:         "Ana",
			Surname:      "Ruiz",
			Email:        "ana@example.com",
			PasswordHash: "hash",
			BirthDate:    time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
			DepartmentID: 3,
			Role:         models.RoleGerente,
		}
	}

	t.Run("Should fill id and created_at", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewEmployeeRepository(db, zap.NewNop())
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO employees")).
			WithArgs("Ana", "Ruiz", "ana@example.com", "hash", sqlmock.AnyArg(), 3, "gerente").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(42, now))

		e := newEmployee()
		require.NoError(t, repo.Create(ctx, e))
		assert.Equal(t, int64(42), e.ID)
		assert.Equal(t, now, e.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should map unique violations to ErrDuplicateEmail", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewEmployeeRepository(db, zap.NewNop())
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO employees")).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(ctx, newEmployee())
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})
}

func TestEmployeeRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return the employee with its department name", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewEmployeeRepository(db, zap.NewNop())
		mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN departments d ON d.id = e.department_id WHERE e.id = $1")).
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows(employeeColumns).
				AddRow(7, "Ana", "Ruiz", "ana@example.com", "hash", time.Now(), 3, "jefe", time.Now(), "Ventas"))

		e, err := repo.GetByID(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, models.RoleJefe, e.Role)
		require.NotNil(t, e.DepartmentName)
		assert.Equal(t, "Ventas", *e.DepartmentName)
	})

	t.Run("Should return ErrNotFound when no row matches", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewEmployeeRepository(db, zap.NewNop())
		mock.ExpectQuery("FROM employees e").WithArgs(8).WillReturnRows(sqlmock.NewRows(employeeColumns))

		_, err := repo.GetByID(ctx, 8)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestEmployeeRepository_Update(t *testing.T) {
	ctx := context.Background()
	e := &models.Employee{ID: 5, Name: "Ana", Surname: "Ruiz", Email: "ana@example.com", Role: models.RoleJefe}

	t.Run("Should update the editable fields", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewEmployeeRepository(db, zap.NewNop())
		mock.ExpectExec(regexp.QuoteMeta("UPDATE employees")).
			WithArgs("Ana", "Ruiz", "ana@example.com", "jefe", 5).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Update(ctx, e))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should return ErrNotFound when nothing was updated", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewEmployeeRepository(db, zap.NewNop())
		mock.ExpectExec(regexp.QuoteMeta("UPDATE employees")).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Update(ctx, e), ErrNotFound)
	})
}

func TestEmployeeRepository_DeleteWithNews(t *testing.T) {
	ctx := context.Background()

	t.Run("Should delete news and employee in one transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewEmployeeRepository(db, zap.NewNop())
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM news WHERE author_employee_id = $1")).
			WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM employees WHERE id = $1")).
			WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		n, err := repo.DeleteWithNews(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should roll back when the employee does not exist", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewEmployeeRepository(db, zap.NewNop())
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM news").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM employees").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := repo.DeleteWithNews(ctx, 5)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should roll back when the employee delete fails", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewEmployeeRepository(db, zap.NewNop())
		boom := errors.New("boom")
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM news").WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec("DELETE FROM employees").WillReturnError(boom)
		mock.ExpectRollback()

		_, err := repo.DeleteWithNews(ctx, 5)
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

var newsColumns = []string{
	"id", "title", "body", "summary", "color", "event_date",
	"department_id", "author_employee_id", "created_at", "author_name",
}

func TestNewsRepository_Create(t *testing.T) {
	ctx := context.Background()
	newNews := func() *models.News {
		return &models.News{
			Title: "Cierre", Color: "#fff", EventDate: time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC),
			DepartmentID: 3, AuthorID: 7,
		}
	}

	t.Run("Should fill id and created_at", func(t *testing.T) {
		db, mock := newMockDB(t)
		now := time.Date(2024, 5, 19, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO news")).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, now))

		n := newNews()
		require.NoError(t, NewNewsRepository(db, zap.NewNop()).Create(ctx, n))
		assert.Equal(t, int64(11), n.ID)
		assert.Equal(t, now, n.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should map a missing author to ErrUnknownAuthor", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO news")).
			WillReturnError(&pq.Error{Code: "23503"})

		err := NewNewsRepository(db, zap.NewNop()).Create(ctx, newNews())
		assert.ErrorIs(t, err, ErrUnknownAuthor)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNewsRepository_List(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2024, 5, 13, 12, 0, 0, 0, time.UTC)

	t.Run("Should filter by department and window, soonest first", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewNewsRepository(db, zap.NewNop())
		mock.ExpectQuery(`FROM news n JOIN employees e ON e.id = n.author_employee_id WHERE n.department_id = \$1 AND n.event_date >= \$2 ORDER BY n.event_date ASC`).
			WithArgs(3, from).
			WillReturnRows(sqlmock.NewRows(newsColumns).
				AddRow(1, "Kickoff", "body", "sum", "#fff", from.Add(time.Hour), 3, 7, from, "Ana Ruiz"))

		items, err := repo.List(ctx, NewsFilter{DepartmentID: 3, From: from})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Ana Ruiz", items[0].AuthorName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should filter by author", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewNewsRepository(db, zap.NewNop())
		mock.ExpectQuery(`WHERE n.author_employee_id = \$1 AND n.event_date >= \$2`).
			WithArgs(7, from).
			WillReturnRows(sqlmock.NewRows(newsColumns))

		items, err := repo.List(ctx, NewsFilter{AuthorID: 7, From: from})
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNewsRepository_CountByDepartment(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNewsRepository(db, zap.NewNop())
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY n.department_id, d.name")).
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows([]string{"department_id", "department_name", "news_count"}).
			AddRow(1, "Ventas", 4).
			AddRow(2, nil, 1))

	counts, err := repo.CountByDepartment(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, 4, counts[0].Count)
	assert.Nil(t, counts[1].DepartmentName)
}

func TestDepartmentRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Should list departments", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDepartmentRepository(db, zap.NewNop())
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM departments ORDER BY id")).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Ventas").AddRow(2, "RRHH"))

		departments, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, departments, 2)
	})

	t.Run("Should return ErrNotFound for unknown ids", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDepartmentRepository(db, zap.NewNop())
		mock.ExpectQuery("FROM departments WHERE id").WithArgs(9).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

		_, err := repo.GetByID(ctx, 9)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
