package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMeetingDays(t *testing.T) {
	assert.Equal(t, []string{"M", "W", "F"}, ParseMeetingDays("MWF"))
	assert.Equal(t, []string{"T", "R"}, ParseMeetingDays("TR"))
	assert.Equal(t, []string{"M", "W"}, ParseMeetingDays("mw"))
	assert.Nil(t, ParseMeetingDays(""))
}

func TestParseMeetingDaysIgnoresUnknownLetters(t *testing.T) {
	assert.Equal(t, []string{"M", "W"}, ParseMeetingDays("M/W"))
	assert.Nil(t, ParseMeetingDays("XYZ"))
}

func TestParseMeetingDaysDeduplicates(t *testing.T) {
	assert.Equal(t, []string{"M", "W"}, ParseMeetingDays("MMWW"))
}

func TestPrimaryInstructorID(t *testing.T) {
	record := ScheduleRecord{
		InstructorAssignments: AssignmentList{
			{PersonID: "p-1", IsPrimary: false},
			{PersonID: "p-2", IsPrimary: true},
		},
	}
	assert.Equal(t, "p-2", record.PrimaryInstructorID())

	empty := ScheduleRecord{}
	assert.Equal(t, "", empty.PrimaryInstructorID())
}

func TestMeetingPatternListScanRoundTrip(t *testing.T) {
	patterns := MeetingPatternList{{Day: "M", StartTime: "09:05", EndTime: "09:55"}}
	value, err := patterns.Value()
	require.NoError(t, err)

	var scanned MeetingPatternList
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, patterns, scanned)
}

func TestNilListsEncodeAsEmptyArrays(t *testing.T) {
	var patterns MeetingPatternList
	value, err := patterns.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), value)

	var ids StringList
	value, err = ids.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), value)
}
