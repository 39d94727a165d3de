package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/realronaldrump/faculty-schedules-sub011/internal/models"
	appErrors "github.com/realronaldrump/faculty-schedules-sub011/pkg/errors"
)

type recordStore interface {
	FindByID(ctx context.Context, id string) (*models.ScheduleRecord, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.ScheduleRecord, error)
	Create(ctx context.Context, record *models.ScheduleRecord) error
	Update(ctx context.Context, record *models.ScheduleRecord) error
	Delete(ctx context.Context, id string) error
}

type auditSink interface {
	Record(ctx context.Context, log *models.AuditLog) error
}

// ReconcileScheduleRequest is an edited view row submitted from the grid.
// The day string carries the weekday codes ("MWF") shared by every record
// the row represents.
type ReconcileScheduleRequest struct {
	CourseCode     string `json:"courseCode"`
	CourseTitle    string `json:"courseTitle"`
	Section        string `json:"section"`
	Term           string `json:"term"`
	TermCode       string `json:"termCode"`
	Credits        string `json:"credits"`
	ScheduleType   string `json:"scheduleType"`
	Day            string `json:"day" validate:"omitempty,max=16"`
	StartTime      string `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime        string `json:"endTime" validate:"omitempty,datetime=15:04"`
	Room           string `json:"room"`
	IsOnline       bool   `json:"isOnline"`
	InstructorID   string `json:"instructorId"`
	InstructorName string `json:"instructorName"`
	RegistrarRef   string `json:"registrarRef"`
	ImportRef      string `json:"importRef"`
	Status         string `json:"status"`
}

// ReconcileResult summarises one reconciliation pass.
type ReconcileResult struct {
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	Deleted   int      `json:"deleted"`
	RecordIDs []string `json:"recordIds"`
	Warnings  []string `json:"warnings,omitempty"`
}

func (r *ReconcileResult) summary() string {
	return fmt.Sprintf("%d created, %d updated, %d deleted", r.Created, r.Updated, r.Deleted)
}

type writePlan struct {
	creates int
	updates int
	deletes int
}

// ReconcilerService reconciles a single edited view row back into the
// correct set of persisted per-weekday schedule records.
type ReconcilerService struct {
	records     recordStore
	locations   *LocationResolver
	instructors *InstructorAssignmentMerger
	guard       *TermLockGuard
	auditLogs   auditSink
	notifier    Notifier
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	auditSource string
}

// NewReconcilerService instantiates ReconcilerService.
func NewReconcilerService(
	records recordStore,
	locations *LocationResolver,
	instructors *InstructorAssignmentMerger,
	guard *TermLockGuard,
	auditLogs auditSink,
	notifier Notifier,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	auditSource string,
) *ReconcilerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	return &ReconcilerService{
		records:     records,
		locations:   locations,
		instructors: instructors,
		guard:       guard,
		auditLogs:   auditLogs,
		notifier:    notifier,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		auditSource: auditSource,
	}
}

// Reconcile maps one edited view row onto the backing records it
// represents and performs the resulting create/update/delete sequence.
// Writes are sequential and not transactional: a failure mid-sequence
// leaves earlier writes committed and is reported as a partial write.
func (s *ReconcilerService) Reconcile(ctx context.Context, viewID string, req ReconcileScheduleRequest, claims *models.JWTClaims) (*ReconcileResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	target := models.ParseViewID(viewID)
	backing, err := s.loadBacking(ctx, target)
	if err != nil {
		s.notifier.Notify(NotifyError, "Schedule Not Found", appErrors.FromError(err).Message)
		return nil, err
	}

	dayCodes := models.ParseMeetingDays(req.Day)
	plan := planWrites(target.Kind, len(backing), len(dayCodes))
	if err := checkCapabilities(plan, claims); err != nil {
		s.notifier.Notify(NotifyError, "Permission Denied", appErrors.FromError(err).Message)
		return nil, err
	}

	var ref *models.ScheduleRecord
	if len(backing) > 0 {
		ref = &backing[0]
	}

	merge, err := s.instructors.Merge(ctx, req.InstructorID, req.InstructorName, ref)
	if err != nil {
		return nil, err
	}
	loc, err := s.locations.Resolve(ctx, req.Room, req.IsOnline, req.ScheduleType, ref)
	if err != nil {
		return nil, err
	}

	if err := validateEdit(req, dayCodes, loc); err != nil {
		s.notifier.Notify(NotifyError, "Missing Required Fields", appErrors.FromError(err).Message)
		return nil, err
	}

	if err := s.guard.Allow(ctx, req.Term, claims.Privileged()); err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrTermLocked.Code {
			s.notifier.Notify(NotifyError, "Semester Locked", appErrors.FromError(err).Message)
		}
		return nil, err
	}

	result, err := s.apply(ctx, target, backing, dayCodes, req, merge, loc, claims)
	if err != nil {
		s.notifier.Notify(NotifyError, "Schedule Save Failed", appErrors.FromError(err).Message)
		return result, err
	}

	result.Warnings = merge.Warnings
	s.metrics.ObserveReconcile(result.Created, result.Updated, result.Deleted)
	s.notifier.Notify(NotifySuccess, "Schedules Saved", result.summary())
	return result, nil
}

// loadBacking resolves the edit target to its ordered backing records.
// Order follows the view identifier, so positional pairing with the edited
// weekday codes is preserved.
func (s *ReconcilerService) loadBacking(ctx context.Context, target models.EditTarget) ([]models.ScheduleRecord, error) {
	switch target.Kind {
	case models.EditKindNew:
		return nil, nil
	case models.EditKindSingle:
		record, err := s.records.FindByID(ctx, target.ID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule record no longer exists")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule record")
		}
		return []models.ScheduleRecord{*record}, nil
	default:
		if len(target.BackingIDs) == 0 {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grouped row references no schedule records")
		}
		records, err := s.records.FindByIDs(ctx, target.BackingIDs)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule records")
		}
		byID := make(map[string]models.ScheduleRecord, len(records))
		for _, r := range records {
			byID[r.ID] = r
		}
		ordered := make([]models.ScheduleRecord, 0, len(target.BackingIDs))
		for _, id := range target.BackingIDs {
			record, ok := byID[id]
			if !ok {
				return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("schedule record %s no longer exists", id))
			}
			ordered = append(ordered, record)
		}
		return ordered, nil
	}
}

func planWrites(kind models.EditKind, existing, edited int) writePlan {
	switch kind {
	case models.EditKindNew:
		if edited == 0 {
			return writePlan{creates: 1}
		}
		return writePlan{creates: edited}
	case models.EditKindSingle:
		return writePlan{updates: 1}
	default:
		// A grouped edit with no weekday codes collapses to one
		// no-meeting record rather than deleting the whole group.
		if edited == 0 {
			edited = 1
		}
		k := min(existing, edited)
		return writePlan{
			updates: k,
			creates: max(0, edited-existing),
			deletes: max(0, existing-edited),
		}
	}
}

func checkCapabilities(plan writePlan, claims *models.JWTClaims) error {
	if plan.creates > 0 && !claims.CanCreate(models.ResourceSchedules) {
		return appErrors.Clone(appErrors.ErrForbidden, "you do not have permission to create schedules")
	}
	if plan.updates > 0 && !claims.CanEdit(models.ResourceSchedules) {
		return appErrors.Clone(appErrors.ErrForbidden, "you do not have permission to edit schedules")
	}
	if plan.deletes > 0 && !claims.CanDelete(models.ResourceSchedules) {
		return appErrors.Clone(appErrors.ErrForbidden, "you do not have permission to delete schedules")
	}
	return nil
}

// validateEdit collects every missing requirement instead of failing on
// the first.
func validateEdit(req ReconcileScheduleRequest, dayCodes []string, loc LocationResolution) error {
	var missing []string
	if strings.TrimSpace(req.CourseCode) == "" {
		missing = append(missing, "course code")
	}
	if strings.TrimSpace(req.Term) == "" {
		missing = append(missing, "term")
	}
	if strings.TrimSpace(req.Section) == "" {
		missing = append(missing, "section")
	}
	if loc.Type == models.LocationTypeRoom {
		if len(dayCodes) == 0 {
			missing = append(missing, "meeting days")
		} else if req.StartTime == "" || req.EndTime == "" {
			missing = append(missing, "meeting start and end times")
		}
	}
	if len(missing) > 0 {
		return appErrors.Clone(appErrors.ErrValidation, "missing required fields: "+strings.Join(missing, ", "))
	}
	return nil
}

func (s *ReconcilerService) apply(ctx context.Context, target models.EditTarget, backing []models.ScheduleRecord, dayCodes []string, req ReconcileScheduleRequest, merge InstructorMergeResult, loc LocationResolution, claims *models.JWTClaims) (*ReconcileResult, error) {
	result := &ReconcileResult{}

	codes := dayCodes
	if len(codes) == 0 {
		// "" denotes a no-meeting slot for async sections.
		codes = []string{""}
	}

	partial := func(err error, op string) error {
		committed := result.Created + result.Updated + result.Deleted
		return appErrors.Wrap(err, appErrors.ErrPartialWrite.Code, appErrors.ErrPartialWrite.Status,
			fmt.Sprintf("%s failed after %d committed write(s); earlier writes are not rolled back", op, committed))
	}

	switch target.Kind {
	case models.EditKindNew:
		for _, code := range codes {
			record := s.buildRecord(req, merge, loc, code)
			if err := s.records.Create(ctx, &record); err != nil {
				return result, partial(err, "create")
			}
			result.Created++
			result.RecordIDs = append(result.RecordIDs, record.ID)
			s.recordAudit(ctx, claims, models.AuditActionScheduleCreate, "created schedule record", []string{record.ID}, record, nil)
		}

	case models.EditKindSingle:
		// A single record never expands into a group; every edited
		// weekday lands on the one record's pattern list.
		record := backing[0]
		before := record
		applyShared(&record, req, merge, loc)
		record.MeetingPatterns = patternsForAll(dayCodes, req)
		if err := s.records.Update(ctx, &record); err != nil {
			return result, partial(err, "update")
		}
		result.Updated++
		result.RecordIDs = append(result.RecordIDs, record.ID)
		s.recordAudit(ctx, claims, models.AuditActionScheduleUpdate, "updated schedule record", []string{record.ID}, record, before)

	default:
		existing := len(backing)
		edited := len(codes)
		k := min(existing, edited)

		// Pairing between backing record i and weekday code i is
		// positional; reordering the day string reassigns weekdays.
		for i := 0; i < k; i++ {
			record := backing[i]
			before := record
			applyShared(&record, req, merge, loc)
			record.MeetingPatterns = patternsFor(codes[i], req)
			if err := s.records.Update(ctx, &record); err != nil {
				return result, partial(err, "update")
			}
			result.Updated++
			result.RecordIDs = append(result.RecordIDs, record.ID)
			s.recordAudit(ctx, claims, models.AuditActionScheduleUpdate, "updated schedule record", []string{record.ID}, record, before)
		}
		for i := existing; i < edited; i++ {
			record := s.buildRecord(req, merge, loc, codes[i])
			if err := s.records.Create(ctx, &record); err != nil {
				return result, partial(err, "create")
			}
			result.Created++
			result.RecordIDs = append(result.RecordIDs, record.ID)
			s.recordAudit(ctx, claims, models.AuditActionScheduleCreate, "created schedule record", []string{record.ID}, record, nil)
		}
		for i := edited; i < existing; i++ {
			record := backing[i]
			if err := s.records.Delete(ctx, record.ID); err != nil {
				return result, partial(err, "delete")
			}
			result.Deleted++
			s.recordAudit(ctx, claims, models.AuditActionScheduleDelete, "deleted schedule record", []string{record.ID}, nil, record)
		}
	}

	return result, nil
}

// buildRecord assembles a brand-new backing record for one weekday code,
// deriving a fresh identity from its semantic fields.
func (s *ReconcilerService) buildRecord(req ReconcileScheduleRequest, merge InstructorMergeResult, loc LocationResolution, code string) models.ScheduleRecord {
	var record models.ScheduleRecord
	applyShared(&record, req, merge, loc)
	record.MeetingPatterns = patternsFor(code, req)
	record.RegistrarRef = strings.TrimSpace(req.RegistrarRef)
	record.ImportRef = strings.TrimSpace(req.ImportRef)

	identity := DeriveIdentity(IdentityInput{
		CourseCode:      record.CourseCode,
		Section:         record.Section,
		Term:            record.Term,
		TermCode:        record.TermCode,
		RegistrarRef:    record.RegistrarRef,
		ImportRef:       record.ImportRef,
		MeetingPatterns: record.MeetingPatterns,
		SpaceIDs:        record.SpaceIDs,
	})
	record.IdentityKey = identity.PrimaryKey
	record.IdentityKeys = identity.Keys
	record.IdentitySource = identity.Source
	return record
}

func applyShared(record *models.ScheduleRecord, req ReconcileScheduleRequest, merge InstructorMergeResult, loc LocationResolution) {
	record.CourseCode = strings.TrimSpace(req.CourseCode)
	record.CourseTitle = strings.TrimSpace(req.CourseTitle)
	record.Section = strings.TrimSpace(req.Section)
	record.Term = NormalizeTermLabel(req.Term)
	record.TermCode = strings.TrimSpace(req.TermCode)
	record.Credits = strings.TrimSpace(req.Credits)
	record.ScheduleType = strings.TrimSpace(req.ScheduleType)
	record.IsOnline = req.IsOnline
	record.SpaceIDs = loc.SpaceIDs
	record.SpaceNames = loc.SpaceNames
	record.InstructorAssignments = merge.Assignments
	record.InstructorIDs = merge.ParticipantIDs
	record.Status = strings.TrimSpace(req.Status)
	if record.Status == "" {
		record.Status = models.ScheduleStatusActive
	}
}

func patternsFor(code string, req ReconcileScheduleRequest) models.MeetingPatternList {
	if code == "" {
		return nil
	}
	return models.MeetingPatternList{{Day: code, StartTime: req.StartTime, EndTime: req.EndTime}}
}

func patternsForAll(codes []string, req ReconcileScheduleRequest) models.MeetingPatternList {
	var patterns models.MeetingPatternList
	for _, code := range codes {
		patterns = append(patterns, models.MeetingPattern{Day: code, StartTime: req.StartTime, EndTime: req.EndTime})
	}
	return patterns
}

// recordAudit writes one audit entry per store mutation; failures degrade
// to a log warning rather than aborting the pass.
func (s *ReconcilerService) recordAudit(ctx context.Context, claims *models.JWTClaims, action, summary string, ids []string, newData, oldData interface{}) {
	entry := &models.AuditLog{
		Action:      action,
		Resource:    models.ResourceSchedules,
		ResourceIDs: ids,
		Summary:     summary,
		Source:      s.auditSource,
	}
	if claims != nil {
		actor := claims.UserID
		entry.ActorID = &actor
	}
	if newData != nil {
		if payload, err := json.Marshal(newData); err == nil {
			entry.NewValues = payload
		} else {
			s.logger.Warn("failed to marshal audit payload", zap.Error(err))
		}
	}
	if oldData != nil {
		if payload, err := json.Marshal(oldData); err == nil {
			entry.OldValues = payload
		} else {
			s.logger.Warn("failed to marshal audit payload", zap.Error(err))
		}
	}
	if err := s.auditLogs.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
	}
}
