package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realronaldrump/faculty-schedules-sub011/internal/models"
	appErrors "github.com/realronaldrump/faculty-schedules-sub011/pkg/errors"
)

type scheduleStoreStub struct {
	records     map[string]models.ScheduleRecord
	created     []models.ScheduleRecord
	updated     []models.ScheduleRecord
	deleted     []string
	failOnWrite int // 1-based index of the write that fails; 0 never fails
	writes      int
}

func (s *scheduleStoreStub) nextWrite() error {
	s.writes++
	if s.failOnWrite > 0 && s.writes >= s.failOnWrite {
		return errors.New("db down")
	}
	return nil
}

func (s *scheduleStoreStub) FindByID(ctx context.Context, id string) (*models.ScheduleRecord, error) {
	if record, ok := s.records[id]; ok {
		return &record, nil
	}
	return nil, sql.ErrNoRows
}

func (s *scheduleStoreStub) FindByIDs(ctx context.Context, ids []string) ([]models.ScheduleRecord, error) {
	var result []models.ScheduleRecord
	for _, id := range ids {
		if record, ok := s.records[id]; ok {
			result = append(result, record)
		}
	}
	return result, nil
}

func (s *scheduleStoreStub) Create(ctx context.Context, record *models.ScheduleRecord) error {
	if err := s.nextWrite(); err != nil {
		return err
	}
	if record.ID == "" {
		record.ID = fmt.Sprintf("created-%d", len(s.created)+1)
	}
	s.created = append(s.created, *record)
	return nil
}

func (s *scheduleStoreStub) Update(ctx context.Context, record *models.ScheduleRecord) error {
	if err := s.nextWrite(); err != nil {
		return err
	}
	s.updated = append(s.updated, *record)
	return nil
}

func (s *scheduleStoreStub) Delete(ctx context.Context, id string) error {
	if err := s.nextWrite(); err != nil {
		return err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type auditSinkStub struct {
	entries []*models.AuditLog
}

func (a *auditSinkStub) Record(ctx context.Context, log *models.AuditLog) error {
	a.entries = append(a.entries, log)
	return nil
}

type catalogStub struct{}

func (catalogStub) FindByBuildingAndNumber(ctx context.Context, buildingCode, spaceNumber string) (*models.Space, error) {
	return &models.Space{
		ID:           fmt.Sprintf("%s-%s", buildingCode, spaceNumber),
		BuildingCode: buildingCode,
		SpaceNumber:  spaceNumber,
		DisplayName:  fmt.Sprintf("%s %s", buildingCode, spaceNumber),
	}, nil
}

type directoryStub struct {
	byName map[string]string
}

func (d directoryStub) FindByID(ctx context.Context, id string) (*models.Person, error) {
	return &models.Person{ID: id}, nil
}

func (d directoryStub) FindByExactName(ctx context.Context, name string) (*models.Person, error) {
	if id, ok := d.byName[name]; ok {
		return &models.Person{ID: id, FullName: name}, nil
	}
	return nil, sql.ErrNoRows
}

type lockLookupStub struct {
	locked bool
	err    error
}

func (l lockLookupStub) IsTermLocked(ctx context.Context, term string) (bool, error) {
	return l.locked, l.err
}

func newTestReconciler(store *scheduleStoreStub, audit *auditSinkStub, locked bool) *ReconcilerService {
	resolver := NewLocationResolver(catalogStub{}, nil)
	merger := NewInstructorAssignmentMerger(directoryStub{}, nil)
	guard := NewTermLockGuard(lockLookupStub{locked: locked}, nil)
	return NewReconcilerService(store, resolver, merger, guard, audit, nil, nil, validator.New(), nil, "test")
}

func schedulerClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "user-1", Role: models.RoleScheduler}
}

func baseRequest() ReconcileScheduleRequest {
	return ReconcileScheduleRequest{
		CourseCode: "CS 101",
		Section:    "01",
		Term:       "Fall 2026",
		TermCode:   "202610",
		Day:        "MWF",
		StartTime:  "09:05",
		EndTime:    "09:55",
		Room:       "GOEBEL 101",
	}
}

func backingRecord(id, day string) models.ScheduleRecord {
	return models.ScheduleRecord{
		ID:              id,
		CourseCode:      "CS 101",
		Section:         "01",
		Term:            "Fall 2026",
		TermCode:        "202610",
		MeetingPatterns: models.MeetingPatternList{{Day: day, StartTime: "09:05", EndTime: "09:55"}},
		Status:          models.ScheduleStatusActive,
	}
}

func TestReconcileGroupedAddsWeekday(t *testing.T) {
	store := &scheduleStoreStub{records: map[string]models.ScheduleRecord{
		"rec-a": backingRecord("rec-a", "M"),
		"rec-b": backingRecord("rec-b", "W"),
	}}
	audit := &auditSinkStub{}
	svc := newTestReconciler(store, audit, false)

	viewID := models.GroupedViewID("cs101-01", []string{"rec-a", "rec-b"})
	result, err := svc.Reconcile(context.Background(), viewID, baseRequest(), schedulerClaims())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Deleted)

	require.Len(t, store.updated, 2)
	assert.Equal(t, "rec-a", store.updated[0].ID)
	assert.Equal(t, models.MeetingPatternList{{Day: "M", StartTime: "09:05", EndTime: "09:55"}}, store.updated[0].MeetingPatterns)
	assert.Equal(t, "rec-b", store.updated[1].ID)
	assert.Equal(t, "W", store.updated[1].MeetingPatterns[0].Day)

	require.Len(t, store.created, 1)
	assert.Equal(t, "F", store.created[0].MeetingPatterns[0].Day)
	assert.NotEmpty(t, store.created[0].IdentityKey)
	assert.Equal(t, models.ScheduleStatusActive, store.created[0].Status)

	assert.Len(t, audit.entries, 3)
}

func TestReconcileGroupedDropsWeekdays(t *testing.T) {
	store := &scheduleStoreStub{records: map[string]models.ScheduleRecord{
		"rec-a": backingRecord("rec-a", "M"),
		"rec-b": backingRecord("rec-b", "W"),
		"rec-c": backingRecord("rec-c", "F"),
	}}
	svc := newTestReconciler(store, &auditSinkStub{}, false)

	req := baseRequest()
	req.Day = "T"
	viewID := models.GroupedViewID("cs101-01", []string{"rec-a", "rec-b", "rec-c"})
	result, err := svc.Reconcile(context.Background(), viewID, req, schedulerClaims())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 2, result.Deleted)
	require.Len(t, store.updated, 1)
	assert.Equal(t, "T", store.updated[0].MeetingPatterns[0].Day)
	assert.Equal(t, []string{"rec-b", "rec-c"}, store.deleted)
}

func TestReconcileNewRowCreatesPerWeekday(t *testing.T) {
	store := &scheduleStoreStub{}
	svc := newTestReconciler(store, &auditSinkStub{}, false)

	req := baseRequest()
	req.Day = "TR"
	result, err := svc.Reconcile(context.Background(), models.NewRowViewID("draft-1"), req, schedulerClaims())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	require.Len(t, store.created, 2)
	assert.Equal(t, "T", store.created[0].MeetingPatterns[0].Day)
	assert.Equal(t, "R", store.created[1].MeetingPatterns[0].Day)
	assert.NotEqual(t, store.created[0].IdentityKey, store.created[1].IdentityKey)
}

func TestReconcileNewOnlineRowWithoutDays(t *testing.T) {
	store := &scheduleStoreStub{}
	svc := newTestReconciler(store, &auditSinkStub{}, false)

	req := baseRequest()
	req.Day = ""
	req.StartTime = ""
	req.EndTime = ""
	req.Room = ""
	req.IsOnline = true
	result, err := svc.Reconcile(context.Background(), models.NewRowViewID("draft-2"), req, schedulerClaims())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	require.Len(t, store.created, 1)
	assert.Empty(t, store.created[0].MeetingPatterns)
	assert.Empty(t, store.created[0].SpaceIDs)
}

func TestReconcileSingleAbsorbsAllWeekdays(t *testing.T) {
	store := &scheduleStoreStub{records: map[string]models.ScheduleRecord{
		"rec-a": backingRecord("rec-a", "M"),
	}}
	svc := newTestReconciler(store, &auditSinkStub{}, false)

	result, err := svc.Reconcile(context.Background(), "rec-a", baseRequest(), schedulerClaims())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.Created)
	require.Len(t, store.updated, 1)
	require.Len(t, store.updated[0].MeetingPatterns, 3)
	assert.Equal(t, "M", store.updated[0].MeetingPatterns[0].Day)
	assert.Equal(t, "F", store.updated[0].MeetingPatterns[2].Day)
}

func TestReconcileDropsOnlineRoomToken(t *testing.T) {
	store := &scheduleStoreStub{records: map[string]models.ScheduleRecord{
		"rec-a": backingRecord("rec-a", "M"),
	}}
	svc := newTestReconciler(store, &auditSinkStub{}, false)

	req := baseRequest()
	req.Day = "M"
	req.Room = "GOEBEL 101; ONLINE"
	_, err := svc.Reconcile(context.Background(), "rec-a", req, schedulerClaims())
	require.NoError(t, err)

	require.Len(t, store.updated, 1)
	assert.Equal(t, models.StringList{"GOEBEL-101"}, store.updated[0].SpaceIDs)
	assert.Equal(t, models.StringList{"GOEBEL 101"}, store.updated[0].SpaceNames)
}

func TestReconcileTermLockBlocksUnprivileged(t *testing.T) {
	store := &scheduleStoreStub{records: map[string]models.ScheduleRecord{
		"rec-a": backingRecord("rec-a", "M"),
	}}
	svc := newTestReconciler(store, &auditSinkStub{}, true)

	_, err := svc.Reconcile(context.Background(), "rec-a", baseRequest(), schedulerClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrTermLocked.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.updated)
}

func TestReconcileTermLockAllowsAdmin(t *testing.T) {
	store := &scheduleStoreStub{records: map[string]models.ScheduleRecord{
		"rec-a": backingRecord("rec-a", "M"),
	}}
	svc := newTestReconciler(store, &auditSinkStub{}, true)

	claims := &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}
	_, err := svc.Reconcile(context.Background(), "rec-a", baseRequest(), claims)
	require.NoError(t, err)
	assert.Len(t, store.updated, 1)
}

func TestReconcileViewerForbidden(t *testing.T) {
	store := &scheduleStoreStub{records: map[string]models.ScheduleRecord{
		"rec-a": backingRecord("rec-a", "M"),
	}}
	svc := newTestReconciler(store, &auditSinkStub{}, false)

	claims := &models.JWTClaims{UserID: "viewer-1", Role: models.RoleViewer}
	_, err := svc.Reconcile(context.Background(), "rec-a", baseRequest(), claims)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.updated)
	assert.Empty(t, store.created)
}

func TestReconcileMissingBackingRecord(t *testing.T) {
	store := &scheduleStoreStub{records: map[string]models.ScheduleRecord{
		"rec-a": backingRecord("rec-a", "M"),
	}}
	svc := newTestReconciler(store, &auditSinkStub{}, false)

	viewID := models.GroupedViewID("cs101-01", []string{"rec-a", "rec-gone"})
	_, err := svc.Reconcile(context.Background(), viewID, baseRequest(), schedulerClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.updated)
}

func TestReconcileCollectsAllViolations(t *testing.T) {
	store := &scheduleStoreStub{}
	svc := newTestReconciler(store, &auditSinkStub{}, false)

	req := ReconcileScheduleRequest{Day: "M", StartTime: "09:05", EndTime: "09:55", Room: "GOEBEL 101"}
	_, err := svc.Reconcile(context.Background(), models.NewRowViewID("draft-3"), req, schedulerClaims())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "course code")
	assert.Contains(t, appErr.Message, "term")
	assert.Contains(t, appErr.Message, "section")
}

func TestReconcileRoomRequiresMeetingDays(t *testing.T) {
	store := &scheduleStoreStub{}
	svc := newTestReconciler(store, &auditSinkStub{}, false)

	req := baseRequest()
	req.Day = ""
	_, err := svc.Reconcile(context.Background(), models.NewRowViewID("draft-4"), req, schedulerClaims())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "meeting days")
}

func TestReconcilePartialWrite(t *testing.T) {
	store := &scheduleStoreStub{
		records: map[string]models.ScheduleRecord{
			"rec-a": backingRecord("rec-a", "M"),
			"rec-b": backingRecord("rec-b", "W"),
		},
		failOnWrite: 2,
	}
	svc := newTestReconciler(store, &auditSinkStub{}, false)

	viewID := models.GroupedViewID("cs101-01", []string{"rec-a", "rec-b"})
	result, err := svc.Reconcile(context.Background(), viewID, baseRequest(), schedulerClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPartialWrite.Code, appErrors.FromError(err).Code)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Updated)
	assert.Len(t, store.updated, 1)
}

func TestReconcileGroupedWithoutDaysCollapses(t *testing.T) {
	store := &scheduleStoreStub{records: map[string]models.ScheduleRecord{
		"rec-a": backingRecord("rec-a", "M"),
		"rec-b": backingRecord("rec-b", "W"),
	}}
	svc := newTestReconciler(store, &auditSinkStub{}, false)

	req := baseRequest()
	req.Day = ""
	req.StartTime = ""
	req.EndTime = ""
	req.Room = ""
	req.IsOnline = true
	viewID := models.GroupedViewID("cs101-01", []string{"rec-a", "rec-b"})
	result, err := svc.Reconcile(context.Background(), viewID, req, schedulerClaims())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Deleted)
	require.Len(t, store.updated, 1)
	assert.Empty(t, store.updated[0].MeetingPatterns)
	assert.Equal(t, []string{"rec-b"}, store.deleted)
}
