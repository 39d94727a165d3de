package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Weekday codes used in meeting patterns and day strings.
const (
	DayMonday    = "M"
	DayTuesday   = "T"
	DayWednesday = "W"
	DayThursday  = "R"
	DayFriday    = "F"
	DaySaturday  = "S"
	DaySunday    = "U"
)

// LocationType distinguishes room-based sections from no-room sections.
type LocationType string

const (
	LocationTypeRoom   LocationType = "ROOM"
	LocationTypeNoRoom LocationType = "NO_ROOM"
)

// ScheduleStatus values for a schedule record.
const (
	ScheduleStatusActive   = "Active"
	ScheduleStatusInactive = "Inactive"
)

// MeetingPattern is a single weekday meeting of a course section.
type MeetingPattern struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// MeetingPatternList stores meeting patterns as a JSONB column.
type MeetingPatternList []MeetingPattern

// Value implements driver.Valuer.
func (l MeetingPatternList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *MeetingPatternList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// InstructorAssignment links a person to a section with a teaching share.
type InstructorAssignment struct {
	PersonID   string `json:"personId"`
	IsPrimary  bool   `json:"isPrimary"`
	Percentage int    `json:"percentage"`
}

// AssignmentList stores instructor assignments as a JSONB column.
type AssignmentList []InstructorAssignment

// Value implements driver.Valuer.
func (l AssignmentList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *AssignmentList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// StringList stores an ordered set of strings as a JSONB column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

func scanJSON(src, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}

// ScheduleRecord is one persisted weekday meeting of a course section.
// Grouped rows in the UI aggregate several of these that share
// course/section/term and differ only by weekday.
type ScheduleRecord struct {
	ID                    string             `db:"id" json:"id"`
	CourseCode            string             `db:"course_code" json:"courseCode"`
	CourseTitle           string             `db:"course_title" json:"courseTitle"`
	Section               string             `db:"section" json:"section"`
	Term                  string             `db:"term" json:"term"`
	TermCode              string             `db:"term_code" json:"termCode"`
	Credits               string             `db:"credits" json:"credits"`
	ScheduleType          string             `db:"schedule_type" json:"scheduleType"`
	IsOnline              bool               `db:"is_online" json:"isOnline"`
	MeetingPatterns       MeetingPatternList `db:"meeting_patterns" json:"meetingPatterns"`
	SpaceIDs              StringList         `db:"space_ids" json:"spaceIds"`
	SpaceNames            StringList         `db:"space_names" json:"spaceDisplayNames"`
	InstructorIDs         StringList         `db:"instructor_ids" json:"instructorIds"`
	InstructorAssignments AssignmentList     `db:"instructor_assignments" json:"instructorAssignments"`
	IdentityKey           string             `db:"identity_key" json:"identityKey"`
	IdentityKeys          StringList         `db:"identity_keys" json:"identityKeys"`
	IdentitySource        string             `db:"identity_source" json:"identitySource"`
	RegistrarRef          string             `db:"registrar_ref" json:"registrarRef,omitempty"`
	ImportRef             string             `db:"import_ref" json:"importRef,omitempty"`
	Status                string             `db:"status" json:"status"`
	CreatedAt             time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time          `db:"updated_at" json:"updated_at"`
}

// PrimaryInstructorID returns the person id flagged primary, or "".
func (r *ScheduleRecord) PrimaryInstructorID() string {
	for _, a := range r.InstructorAssignments {
		if a.IsPrimary {
			return a.PersonID
		}
	}
	return ""
}

// ScheduleFilter describes query params for listing schedule records.
type ScheduleFilter struct {
	Term         string
	CourseCode   string
	Section      string
	InstructorID string
	Status       string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

var weekdayCodes = map[rune]struct{}{
	'M': {}, 'T': {}, 'W': {}, 'R': {}, 'F': {}, 'S': {}, 'U': {},
}

// ParseMeetingDays extracts the ordered distinct weekday codes from a
// multi-letter day string such as "MWF" or "TR". Unknown letters and
// separators are ignored.
func ParseMeetingDays(days string) []string {
	var codes []string
	seen := make(map[rune]struct{})
	for _, r := range strings.ToUpper(days) {
		if _, ok := weekdayCodes[r]; !ok {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		codes = append(codes, string(r))
	}
	return codes
}
