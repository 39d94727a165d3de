package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realronaldrump/faculty-schedules-sub011/internal/models"
	appErrors "github.com/realronaldrump/faculty-schedules-sub011/pkg/errors"
)

type termScheduleStoreStub struct {
	records []models.ScheduleRecord
}

func (s termScheduleStoreStub) ListByTerm(ctx context.Context, term string) ([]models.ScheduleRecord, error) {
	return s.records, nil
}

func TestExportTermCSV(t *testing.T) {
	store := termScheduleStoreStub{records: []models.ScheduleRecord{
		{
			CourseCode:      "CS 101",
			CourseTitle:     "Intro to Computing",
			Section:         "01",
			Term:            "Fall 2026",
			MeetingPatterns: models.MeetingPatternList{{Day: "M", StartTime: "09:05", EndTime: "09:55"}},
			SpaceNames:      models.StringList{"GOEBEL 101"},
			Status:          models.ScheduleStatusActive,
		},
	}}
	svc := NewExportService(store, nil, nil)

	payload, filename, err := svc.ExportTermCSV(context.Background(), "fall 2026")
	require.NoError(t, err)
	assert.Equal(t, "schedules-fall-2026.csv", filename)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Course")
	assert.Contains(t, lines[1], "CS 101")
	assert.Contains(t, lines[1], "GOEBEL 101")
	assert.Contains(t, lines[1], "M")
}

func TestExportTermPDF(t *testing.T) {
	store := termScheduleStoreStub{records: []models.ScheduleRecord{
		{CourseCode: "CS 101", Section: "01", Term: "Fall 2026"},
	}}
	svc := NewExportService(store, nil, nil)

	payload, filename, err := svc.ExportTermPDF(context.Background(), "Fall 2026")
	require.NoError(t, err)
	assert.Equal(t, "schedules-fall-2026.pdf", filename)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestExportRequiresTerm(t *testing.T) {
	svc := NewExportService(termScheduleStoreStub{}, nil, nil)
	_, _, err := svc.ExportTermCSV(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
