package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/realronaldrump/faculty-schedules-sub011/internal/models"
)

// SpaceRepository provides read access to the canonical space catalog.
type SpaceRepository struct {
	db *sqlx.DB
}

// NewSpaceRepository creates a new space repository.
func NewSpaceRepository(db *sqlx.DB) *SpaceRepository {
	return &SpaceRepository{db: db}
}

// List returns catalog spaces with optional filtering and pagination.
func (r *SpaceRepository) List(ctx context.Context, filter models.SpaceFilter) ([]models.Space, int, error) {
	base := "FROM spaces WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.BuildingCode != "" {
		conditions = append(conditions, fmt.Sprintf("building_code = $%d", len(args)+1))
		args = append(args, strings.ToUpper(filter.BuildingCode))
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("display_name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, building_code, building_name, space_number, display_name, capacity, created_at, updated_at %s ORDER BY building_code ASC, space_number ASC LIMIT %d OFFSET %d", base, size, offset)
	var spaces []models.Space
	if err := r.db.SelectContext(ctx, &spaces, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list spaces: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count spaces: %w", err)
	}

	return spaces, total, nil
}

// FindByBuildingAndNumber resolves a parsed room token to its canonical
// catalog entry.
func (r *SpaceRepository) FindByBuildingAndNumber(ctx context.Context, buildingCode, spaceNumber string) (*models.Space, error) {
	const query = `SELECT id, building_code, building_name, space_number, display_name, capacity, created_at, updated_at FROM spaces WHERE building_code = $1 AND space_number = $2`
	var space models.Space
	if err := r.db.GetContext(ctx, &space, query, strings.ToUpper(buildingCode), spaceNumber); err != nil {
		return nil, err
	}
	return &space, nil
}
