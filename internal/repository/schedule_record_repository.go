package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/realronaldrump/faculty-schedules-sub011/internal/models"
)

const scheduleColumns = `id, course_code, course_title, section, term, term_code, credits, schedule_type, is_online, meeting_patterns, space_ids, space_names, instructor_ids, instructor_assignments, identity_key, identity_keys, identity_source, registrar_ref, import_ref, status, created_at, updated_at`

// ScheduleRecordRepository provides persistence for schedule records.
type ScheduleRecordRepository struct {
	db *sqlx.DB
}

// NewScheduleRecordRepository creates a new schedule record repository.
func NewScheduleRecordRepository(db *sqlx.DB) *ScheduleRecordRepository {
	return &ScheduleRecordRepository{db: db}
}

// List returns schedule records with optional filtering and pagination.
func (r *ScheduleRecordRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleRecord, int, error) {
	base := "FROM schedule_records WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Term != "" {
		conditions = append(conditions, fmt.Sprintf("term = $%d", len(args)+1))
		args = append(args, filter.Term)
	}
	if filter.CourseCode != "" {
		conditions = append(conditions, fmt.Sprintf("course_code = $%d", len(args)+1))
		args = append(args, filter.CourseCode)
	}
	if filter.Section != "" {
		conditions = append(conditions, fmt.Sprintf("section = $%d", len(args)+1))
		args = append(args, filter.Section)
	}
	if filter.InstructorID != "" {
		conditions = append(conditions, fmt.Sprintf("instructor_ids @> $%d", len(args)+1))
		args = append(args, fmt.Sprintf(`["%s"]`, filter.InstructorID))
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"course_code": true,
		"section":     true,
		"term":        true,
		"created_at":  true,
		"updated_at":  true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "course_code"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, section ASC LIMIT %d OFFSET %d", scheduleColumns, base, sortBy, order, size, offset)
	var records []models.ScheduleRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schedule records: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count schedule records: %w", err)
	}

	return records, total, nil
}

// ListByTerm returns every record in a term ordered for display/export.
func (r *ScheduleRecordRepository) ListByTerm(ctx context.Context, term string) ([]models.ScheduleRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_records WHERE term = $1 ORDER BY course_code ASC, section ASC", scheduleColumns)
	var records []models.ScheduleRecord
	if err := r.db.SelectContext(ctx, &records, query, term); err != nil {
		return nil, fmt.Errorf("list schedule records by term: %w", err)
	}
	return records, nil
}

// FindByID loads a schedule record by id.
func (r *ScheduleRecordRepository) FindByID(ctx context.Context, id string) (*models.ScheduleRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_records WHERE id = $1", scheduleColumns)
	var record models.ScheduleRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByIDs loads the given records in no particular order. Callers that
// care about ordering re-order by id; callers that care about missing ids
// compare lengths.
func (r *ScheduleRecordRepository) FindByIDs(ctx context.Context, ids []string) ([]models.ScheduleRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM schedule_records WHERE id = ANY($1)", scheduleColumns)
	var records []models.ScheduleRecord
	if err := r.db.SelectContext(ctx, &records, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find schedule records by ids: %w", err)
	}
	return records, nil
}

// Create stores a new schedule record.
func (r *ScheduleRecordRepository) Create(ctx context.Context, record *models.ScheduleRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	const query = `INSERT INTO schedule_records (id, course_code, course_title, section, term, term_code, credits, schedule_type, is_online, meeting_patterns, space_ids, space_names, instructor_ids, instructor_assignments, identity_key, identity_keys, identity_source, registrar_ref, import_ref, status, created_at, updated_at) VALUES (:id, :course_code, :course_title, :section, :term, :term_code, :credits, :schedule_type, :is_online, :meeting_patterns, :space_ids, :space_names, :instructor_ids, :instructor_assignments, :identity_key, :identity_keys, :identity_source, :registrar_ref, :import_ref, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create schedule record: %w", err)
	}
	return nil
}

// Update modifies a schedule record in place.
func (r *ScheduleRecordRepository) Update(ctx context.Context, record *models.ScheduleRecord) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedule_records SET course_code = :course_code, course_title = :course_title, section = :section, term = :term, term_code = :term_code, credits = :credits, schedule_type = :schedule_type, is_online = :is_online, meeting_patterns = :meeting_patterns, space_ids = :space_ids, space_names = :space_names, instructor_ids = :instructor_ids, instructor_assignments = :instructor_assignments, status = :status, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		return fmt.Errorf("update schedule record: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a schedule record.
func (r *ScheduleRecordRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schedule_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete schedule record: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
