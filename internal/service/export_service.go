package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/realronaldrump/faculty-schedules-sub011/internal/models"
	appErrors "github.com/realronaldrump/faculty-schedules-sub011/pkg/errors"
	"github.com/realronaldrump/faculty-schedules-sub011/pkg/export"
)

type termScheduleStore interface {
	ListByTerm(ctx context.Context, term string) ([]models.ScheduleRecord, error)
}

// ExportService renders a term's schedule records as CSV or PDF.
type ExportService struct {
	records termScheduleStore
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	metrics *MetricsService
	logger  *zap.Logger
}

// NewExportService instantiates ExportService.
func NewExportService(records termScheduleStore, metrics *MetricsService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		records: records,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		metrics: metrics,
		logger:  logger,
	}
}

var scheduleExportHeaders = []string{"Course", "Title", "Section", "Term", "Days", "Start", "End", "Rooms", "Instructors", "Status"}

// ExportTermCSV renders every schedule record in a term as CSV bytes.
func (s *ExportService) ExportTermCSV(ctx context.Context, term string) ([]byte, string, error) {
	dataset, normalized, err := s.dataset(ctx, term)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
	}
	s.metrics.ObserveExport("csv")
	return payload, exportFilename(normalized, "csv"), nil
}

// ExportTermPDF renders every schedule record in a term as a tabular PDF.
func (s *ExportService) ExportTermPDF(ctx context.Context, term string) ([]byte, string, error) {
	dataset, normalized, err := s.dataset(ctx, term)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.pdf.Render(dataset, normalized+" Schedules")
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
	}
	s.metrics.ObserveExport("pdf")
	return payload, exportFilename(normalized, "pdf"), nil
}

func (s *ExportService) dataset(ctx context.Context, term string) (export.Dataset, string, error) {
	normalized := NormalizeTermLabel(term)
	if normalized == "" {
		return export.Dataset{}, "", appErrors.Clone(appErrors.ErrValidation, "term is required")
	}

	records, err := s.records.ListByTerm(ctx, normalized)
	if err != nil {
		return export.Dataset{}, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule records")
	}

	rows := make([]map[string]string, 0, len(records))
	for _, record := range records {
		days, start, end := flattenPatterns(record.MeetingPatterns)
		rows = append(rows, map[string]string{
			"Course":      record.CourseCode,
			"Title":       record.CourseTitle,
			"Section":     record.Section,
			"Term":        record.Term,
			"Days":        days,
			"Start":       start,
			"End":         end,
			"Rooms":       strings.Join(record.SpaceNames, "; "),
			"Instructors": strings.Join(record.InstructorIDs, "; "),
			"Status":      record.Status,
		})
	}
	return export.Dataset{Headers: scheduleExportHeaders, Rows: rows}, normalized, nil
}

// flattenPatterns joins a record's patterns into one day string plus the
// first start/end pair. Persisted records normally carry one pattern each.
func flattenPatterns(patterns models.MeetingPatternList) (days, start, end string) {
	var codes []string
	for _, p := range patterns {
		codes = append(codes, p.Day)
		if start == "" {
			start = p.StartTime
			end = p.EndTime
		}
	}
	return strings.Join(codes, ""), start, end
}

func exportFilename(term, ext string) string {
	slug := strings.ToLower(strings.ReplaceAll(term, " ", "-"))
	return fmt.Sprintf("schedules-%s.%s", slug, ext)
}
