package models

import "time"

// News represents a news item ("noticia") stored in the 'news' table.
type News struct {
	ID           int64     `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Body         string    `db:"body" json:"body"`
	Summary      string    `db:"summary" json:"summary"`
	Color        string    `db:"color" json:"color"`
	EventDate    time.Time `db:"event_date" json:"event_date"`
	DepartmentID int64     `db:"department_id" json:"department_id"`
	AuthorID     int64     `db:"author_employee_id" json:"author_employee_id"`
	AuthorName   string    `db:"author_name" json:"author_name,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// NewsQuery is the optional scope requested by the caller when listing news.
type NewsQuery struct {
	EmployeeID   *int64
	DepartmentID *int64
}

// CreateNewsInput represents input for publishing a news item. Author and
// department are never read from the body.
type CreateNewsInput struct {
	Title     string `json:"title" binding:"required"`
	Body      string `json:"body"`
	Summary   string `json:"summary"`
	Color     string `json:"color"`
	EventDate string `json:"event_date"`
}

// DepartmentNewsCount is one row of the per-department aggregate.
type DepartmentNewsCount struct {
	DepartmentID   int64   `db:"department_id"`
	DepartmentName *string `db:"department_name"`
	Count          int     `db:"news_count"`
}

// ChartEntry is a single bar of the news-per-department chart.
type ChartEntry struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}
