package service

import (
	"context"
	"database/sql"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/realronaldrump/faculty-schedules-sub011/internal/models"
	appErrors "github.com/realronaldrump/faculty-schedules-sub011/pkg/errors"
)

type spaceCatalog interface {
	FindByBuildingAndNumber(ctx context.Context, buildingCode, spaceNumber string) (*models.Space, error)
}

// LocationResolution is the canonical form of a free-text room edit.
type LocationResolution struct {
	SpaceIDs   models.StringList
	SpaceNames models.StringList
	Type       models.LocationType
}

var independentStudyPattern = regexp.MustCompile(`(?i)independent\s+stud|practicum|thesis|dissertation|internship`)

// LocationResolver turns free-text room input into canonical space ids and
// display names, backed by the space catalog.
type LocationResolver struct {
	catalog spaceCatalog
	logger  *zap.Logger
}

// NewLocationResolver constructs a LocationResolver.
func NewLocationResolver(catalog spaceCatalog, logger *zap.Logger) *LocationResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocationResolver{catalog: catalog, logger: logger}
}

// Resolve maps a room edit to canonical spaces. Online sections,
// independent-study schedule types, and inputs consisting solely of
// "online"/"no room needed" tokens resolve to NoRoom with empty sets.
// When nothing parses and the tokens match the previous record's display
// names, the previous resolution is carried through unchanged so a no-op
// edit stays a no-op.
func (r *LocationResolver) Resolve(ctx context.Context, raw string, isOnline bool, scheduleType string, prev *models.ScheduleRecord) (LocationResolution, error) {
	if isOnline || independentStudyPattern.MatchString(scheduleType) {
		return LocationResolution{Type: models.LocationTypeNoRoom}, nil
	}

	tokens := splitRoomTokens(raw)
	kept := tokens[:0:0]
	for _, token := range tokens {
		if isNoRoomToken(token) {
			continue
		}
		kept = append(kept, token)
	}
	if len(tokens) > 0 && len(kept) == 0 {
		return LocationResolution{Type: models.LocationTypeNoRoom}, nil
	}

	var ids, names []string
	seen := make(map[string]struct{})
	for _, token := range kept {
		building, number, ok := parseRoomToken(token)
		if !ok {
			r.logger.Warn("unparseable room token", zap.String("token", token))
			continue
		}
		id, name, err := r.canonicalSpace(ctx, building, number)
		if err != nil {
			return LocationResolution{}, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
		names = append(names, name)
	}

	if len(ids) == 0 && prev != nil && sameTokenSet(kept, prev.SpaceNames) {
		return LocationResolution{
			SpaceIDs:   prev.SpaceIDs,
			SpaceNames: prev.SpaceNames,
			Type:       models.LocationTypeRoom,
		}, nil
	}

	return LocationResolution{SpaceIDs: ids, SpaceNames: names, Type: models.LocationTypeRoom}, nil
}

func (r *LocationResolver) canonicalSpace(ctx context.Context, building, number string) (string, string, error) {
	if r.catalog != nil {
		space, err := r.catalog.FindByBuildingAndNumber(ctx, building, number)
		if err == nil {
			return space.ID, space.DisplayName, nil
		}
		if err != sql.ErrNoRows {
			return "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve space")
		}
		r.logger.Warn("room not in space catalog", zap.String("building", building), zap.String("number", number))
	}
	return building + "-" + number, building + " " + number, nil
}

func splitRoomTokens(raw string) []string {
	var tokens []string
	for _, part := range strings.Split(raw, ";") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			tokens = append(tokens, trimmed)
		}
	}
	return tokens
}

func isNoRoomToken(token string) bool {
	norm := normalizeRoomToken(token)
	return norm == "noroom" || norm == "noroomneeded" || strings.Contains(norm, "online")
}

// normalizeRoomToken lowers the token and strips everything that is not a
// letter or digit so "No Room Needed", "no-room-needed" and similar forms
// compare equal.
func normalizeRoomToken(token string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(token) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseRoomToken splits "GOEBEL 101" into building code and space number.
// The last whitespace-separated field must contain a digit to count as a
// space number.
func parseRoomToken(token string) (building, number string, ok bool) {
	fields := strings.Fields(token)
	if len(fields) < 2 {
		return "", "", false
	}
	last := fields[len(fields)-1]
	if !strings.ContainsAny(last, "0123456789") {
		return "", "", false
	}
	return strings.ToUpper(strings.Join(fields[:len(fields)-1], " ")), last, true
}

func sameTokenSet(tokens []string, names []string) bool {
	if len(tokens) != len(names) {
		return false
	}
	want := make(map[string]int, len(names))
	for _, n := range names {
		want[strings.ToLower(strings.TrimSpace(n))]++
	}
	for _, t := range tokens {
		key := strings.ToLower(strings.TrimSpace(t))
		if want[key] == 0 {
			return false
		}
		want[key]--
	}
	return true
}
