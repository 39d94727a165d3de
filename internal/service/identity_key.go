package service

import (
	"sort"
	"strings"

	"github.com/realronaldrump/faculty-schedules-sub011/internal/models"
)

// Identity key sources, most authoritative first.
const (
	IdentitySourceRegistrar = "registrar"
	IdentitySourceImport    = "import"
	IdentitySourceDerived   = "derived"
)

// IdentityInput carries the semantic fields an identity key is derived from.
type IdentityInput struct {
	CourseCode      string
	Section         string
	Term            string
	TermCode        string
	RegistrarRef    string
	ImportRef       string
	MeetingPatterns []models.MeetingPattern
	SpaceIDs        []string
}

// IdentityResult is the derived identity for a new schedule record.
type IdentityResult struct {
	PrimaryKey string
	Keys       []string
	Source     string
}

// DeriveIdentity computes a stable deduplication key from a record's
/// semantic fields. The function is pure: identical input always yields an
// identical result, independent of store state. Identity is derived only
// when creating new records; existing records keep theirs.
func DeriveIdentity(in IdentityInput) IdentityResult {
	course := strings.ToUpper(strings.TrimSpace(in.CourseCode))
	section := strings.ToUpper(strings.TrimSpace(in.Section))
	term := strings.TrimSpace(in.TermCode)
	if term == "" {
		term = strings.TrimSpace(in.Term)
	}

	meetingSig := meetingSignature(in.MeetingPatterns)
	spaceSig := spaceSignature(in.SpaceIDs)

	full := strings.Join([]string{course, section, term, meetingSig, spaceSig}, "|")
	noSpace := strings.Join([]string{course, section, term, meetingSig}, "|")
	noMeeting := strings.Join([]string{course, section, term}, "|")

	result := IdentityResult{PrimaryKey: full, Source: IdentitySourceDerived}
	keys := []string{full, noSpace, noMeeting}

	switch {
	case strings.TrimSpace(in.RegistrarRef) != "":
		result.PrimaryKey = "reg|" + term + "|" + strings.TrimSpace(in.RegistrarRef)
		result.Source = IdentitySourceRegistrar
		keys = append([]string{result.PrimaryKey}, keys...)
	case strings.TrimSpace(in.ImportRef) != "":
		result.PrimaryKey = "imp|" + strings.TrimSpace(in.ImportRef)
		result.Source = IdentitySourceImport
		keys = append([]string{result.PrimaryKey}, keys...)
	}

	result.Keys = dedupeStrings(keys)
	return result
}

func meetingSignature(patterns []models.MeetingPattern) string {
	if len(patterns) == 0 {
		return ""
	}
	parts := make([]string, 0, len(patterns))
	for _, p := range patterns {
		parts = append(parts, p.Day+p.StartTime+"-"+p.EndTime)
	}
	return strings.Join(parts, ",")
}

// spaceSignature is order-independent: the same rooms in any order yield
// the same signature.
func spaceSignature(spaceIDs []string) string {
	if len(spaceIDs) == 0 {
		return ""
	}
	sorted := make([]string, len(spaceIDs))
	copy(sorted, spaceIDs)
	sort.Strings(sorted)
	return strings.Join(sorted, "+")
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
