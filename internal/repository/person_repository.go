package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/realronaldrump/faculty-schedules-sub011/internal/models"
)

// PersonRepository provides read access to the personnel directory.
type PersonRepository struct {
	db *sqlx.DB
}

// NewPersonRepository creates a new person repository.
func NewPersonRepository(db *sqlx.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// FindByID loads a directory entry by id.
func (r *PersonRepository) FindByID(ctx context.Context, id string) (*models.Person, error) {
	const query = `SELECT id, full_name, email, active, created_at, updated_at FROM people WHERE id = $1`
	var person models.Person
	if err := r.db.GetContext(ctx, &person, query, id); err != nil {
		return nil, err
	}
	return &person, nil
}

// FindByExactName resolves a person by case-insensitive exact name match.
func (r *PersonRepository) FindByExactName(ctx context.Context, name string) (*models.Person, error) {
	const query = `SELECT id, full_name, email, active, created_at, updated_at FROM people WHERE LOWER(full_name) = LOWER($1)`
	var person models.Person
	if err := r.db.GetContext(ctx, &person, query, name); err != nil {
		return nil, err
	}
	return &person, nil
}
