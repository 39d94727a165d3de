package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/realronaldrump/faculty-schedules-sub011/internal/models"
)

// TermRepository provides read access to term configuration.
type TermRepository struct {
	db *sqlx.DB
}

// NewTermRepository creates a new term repository.
func NewTermRepository(db *sqlx.DB) *TermRepository {
	return &TermRepository{db: db}
}

// List returns all configured terms, newest first.
func (r *TermRepository) List(ctx context.Context) ([]models.Term, error) {
	const query = `SELECT id, name, term_code, start_date, end_date, locked, archived, created_at, updated_at FROM terms ORDER BY start_date DESC`
	var terms []models.Term
	if err := r.db.SelectContext(ctx, &terms, query); err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	return terms, nil
}

// FindByName loads a term by its canonical label or term code.
func (r *TermRepository) FindByName(ctx context.Context, name string) (*models.Term, error) {
	const query = `SELECT id, name, term_code, start_date, end_date, locked, archived, created_at, updated_at FROM terms WHERE name = $1 OR term_code = $1`
	var term models.Term
	if err := r.db.GetContext(ctx, &term, query, name); err != nil {
		return nil, err
	}
	return &term, nil
}

// IsTermLocked reports whether mutations against the named term are
// blocked. Unknown terms are treated as unlocked.
func (r *TermRepository) IsTermLocked(ctx context.Context, term string) (bool, error) {
	const query = `SELECT locked OR archived FROM terms WHERE name = $1 OR term_code = $1`
	var locked bool
	if err := r.db.GetContext(ctx, &locked, query, term); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("look up term lock: %w", err)
	}
	return locked, nil
}
