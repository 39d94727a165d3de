package models

import "time"

// Term models an academic term and its lock state.
type Term struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	TermCode  string    `db:"term_code" json:"termCode"`
	StartDate time.Time `db:"start_date" json:"startDate"`
	EndDate   time.Time `db:"end_date" json:"endDate"`
	Locked    bool      `db:"locked" json:"locked"`
	Archived  bool      `db:"archived" json:"archived"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Frozen reports whether mutations against the term are blocked.
func (t *Term) Frozen() bool {
	return t.Locked || t.Archived
}
