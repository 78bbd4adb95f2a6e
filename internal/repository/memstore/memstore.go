// Package memstore keeps employees, departments and news in process memory.
// It backs `serve --memory` and the service and server tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"intranet/internal/models"
	"intranet/internal/repository"
)

type Store struct {
	mu          sync.RWMutex
	departments map[int64]models.Department
	employees   map[int64]models.Employee
	news        map[int64]models.News
	nextID      int64
	now         func() time.Time
}

func New(departments ...models.Department) *Store {
	s := &Store{
		departments: make(map[int64]models.Department),
		employees:   make(map[int64]models.Employee),
		news:        make(map[int64]models.News),
		now:         time.Now,
	}
	for _, d := range departments {
		s.departments[d.ID] = d
	}
	return s
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) Departments() repository.DepartmentRepository { return departmentRepo{s} }
func (s *Store) Employees() repository.EmployeeRepository     { return employeeRepo{s} }
func (s *Store) News() repository.NewsRepository               { return newsRepo{s} }

type departmentRepo struct{ s *Store }

func (r departmentRepo) List(_ context.Context) ([]*models.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.Department, 0, len(r.s.departments))
	for _, d := range r.s.departments {
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r departmentRepo) GetByID(_ context.Context, id int64) (*models.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.departments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

type employeeRepo struct{ s *Store }

// withDepartment mimics the LEFT JOIN on departments. Caller holds the lock.
func (r employeeRepo) withDepartment(e models.Employee) *models.Employee {
	e.DepartmentName = nil
	if d, ok := r.s.departments[e.DepartmentID]; ok {
		name := d.Name
		e.DepartmentName = &name
	}
	return &e
}

func (r employeeRepo) emailTaken(email string, except int64) bool {
	for _, e := range r.s.employees {
		if e.ID != except && strings.EqualFold(e.Email, email) {
			return true
		}
	}
	return false
}

func (r employeeRepo) Create(_ context.Context, employee *models.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.emailTaken(employee.Email, 0) {
		return repository.ErrDuplicateEmail
	}
	employee.ID = r.s.id()
	employee.CreatedAt = r.s.now()
	stored := *employee
	stored.DepartmentName = nil
	r.s.employees[employee.ID] = stored
	return nil
}

func (r employeeRepo) GetByID(_ context.Context, id int64) (*models.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.employees[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.withDepartment(e), nil
}

func (r employeeRepo) GetByEmail(_ context.Context, email string) (*models.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.employees {
		if e.Email == email {
			return r.withDepartment(e), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r employeeRepo) List(_ context.Context) ([]*models.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.Employee, 0, len(r.s.employees))
	for _, e := range r.s.employees {
		out = append(out, r.withDepartment(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r employeeRepo) Update(_ context.Context, employee *models.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.employees[employee.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.emailTaken(employee.Email, employee.ID) {
		return repository.ErrDuplicateEmail
	}
	current.Name = employee.Name
	current.Surname = employee.Surname
	current.Email = employee.Email
	current.Role = employee.Role
	r.s.employees[employee.ID] = current
	return nil
}

func (r employeeRepo) DeleteWithNews(_ context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.employees[id]; !ok {
		return 0, repository.ErrNotFound
	}
	var deleted int64
	for newsID, n := range r.s.news {
		if n.AuthorID == id {
			delete(r.s.news, newsID)
			deleted++
		}
	}
	delete(r.s.employees, id)
	return deleted, nil
}

type newsRepo struct{ s *Store }

func (r newsRepo) Create(_ context.Context, news *models.News) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.employees[news.AuthorID]; !ok {
		return repository.ErrUnknownAuthor
	}
	news.ID = r.s.id()
	news.CreatedAt = r.s.now()
	stored := *news
	stored.AuthorName = ""
	r.s.news[news.ID] = stored
	return nil
}

func (r newsRepo) List(_ context.Context, filter repository.NewsFilter) ([]*models.News, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*models.News{}
	for _, n := range r.s.news {
		if filter.AuthorID != 0 && n.AuthorID != filter.AuthorID {
			continue
		}
		if filter.DepartmentID != 0 && n.DepartmentID != filter.DepartmentID {
			continue
		}
		if !filter.From.IsZero() && n.EventDate.Before(filter.From) {
			continue
		}
		author, ok := r.s.employees[n.AuthorID]
		if !ok {
			continue // inner join on employees
		}
		n.AuthorName = author.Name + " " + author.Surname
		out = append(out, &n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EventDate.Equal(out[j].EventDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].EventDate.Before(out[j].EventDate)
	})
	return out, nil
}

func (r newsRepo) CountByDepartment(_ context.Context, start, end time.Time) ([]*models.DepartmentNewsCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byDepartment := make(map[int64]*models.DepartmentNewsCount)
	for _, n := range r.s.news {
		if n.EventDate.Before(start) || n.EventDate.After(end) {
			continue
		}
		c, ok := byDepartment[n.DepartmentID]
		if !ok {
			c = &models.DepartmentNewsCount{DepartmentID: n.DepartmentID}
			if d, ok := r.s.departments[n.DepartmentID]; ok {
				name := d.Name
				c.DepartmentName = &name
			}
			byDepartment[n.DepartmentID] = c
		}
		c.Count++
	}
	out := make([]*models.DepartmentNewsCount, 0, len(byDepartment))
	for _, c := range byDepartment {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepartmentID < out[j].DepartmentID })
	return out, nil
}
