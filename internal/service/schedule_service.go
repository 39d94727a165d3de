package service

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/realronaldrump/faculty-schedules-sub011/internal/models"
	appErrors "github.com/realronaldrump/faculty-schedules-sub011/pkg/errors"
)

type scheduleReadStore interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleRecord, int, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleRecord, error)
	Delete(ctx context.Context, id string) error
}

// ScheduleService exposes read and delete operations on schedule records.
// Row edits go through ReconcilerService instead.
type ScheduleService struct {
	records     scheduleReadStore
	guard       *TermLockGuard
	auditLogs   auditSink
	notifier    Notifier
	logger      *zap.Logger
	auditSource string
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(records scheduleReadStore, guard *TermLockGuard, auditLogs auditSink, notifier Notifier, logger *zap.Logger, auditSource string) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	return &ScheduleService{
		records:     records,
		guard:       guard,
		auditLogs:   auditLogs,
		notifier:    notifier,
		logger:      logger,
		auditSource: auditSource,
	}
}

// List returns schedule records matching the filter with pagination info.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleRecord, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 200 {
		filter.PageSize = 50
	}
	records, total, err := s.records.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule records")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return records, pagination, nil
}

// Find returns one schedule record by id.
func (s *ScheduleService) Find(ctx context.Context, id string) (*models.ScheduleRecord, error) {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule record")
	}
	return record, nil
}

// Delete removes one schedule record, subject to capability and term-lock
// checks, and writes an audit entry.
func (s *ScheduleService) Delete(ctx context.Context, id string, claims *models.JWTClaims) error {
	if !claims.CanDelete(models.ResourceSchedules) {
		err := appErrors.Clone(appErrors.ErrForbidden, "you do not have permission to delete schedules")
		s.notifier.Notify(NotifyError, "Permission Denied", err.Message)
		return err
	}

	record, err := s.Find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.guard.Allow(ctx, record.Term, claims.Privileged()); err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrTermLocked.Code {
			s.notifier.Notify(NotifyError, "Semester Locked", appErrors.FromError(err).Message)
		}
		return err
	}

	if err := s.records.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule record not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule record")
	}

	s.writeAudit(ctx, claims, record)
	s.notifier.Notify(NotifySuccess, "Schedule Deleted", fmt.Sprintf("%s %s removed", record.CourseCode, record.Section))
	return nil
}

func (s *ScheduleService) writeAudit(ctx context.Context, claims *models.JWTClaims, record *models.ScheduleRecord) {
	entry := &models.AuditLog{
		Action:      models.AuditActionScheduleDelete,
		Resource:    models.ResourceSchedules,
		ResourceIDs: models.StringList{record.ID},
		Summary:     "deleted schedule record",
		Source:      s.auditSource,
	}
	if claims != nil {
		actor := claims.UserID
		entry.ActorID = &actor
	}
	if err := s.auditLogs.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to write audit log", zap.Error(err))
	}
}
