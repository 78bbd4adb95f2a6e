package models

// Department represents a row of the 'departments' table.
type Department struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
