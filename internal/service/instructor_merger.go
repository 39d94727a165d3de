package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/realronaldrump/faculty-schedules-sub011/internal/models"
	appErrors "github.com/realronaldrump/faculty-schedules-sub011/pkg/errors"
)

type personDirectory interface {
	FindByID(ctx context.Context, id string) (*models.Person, error)
	FindByExactName(ctx context.Context, name string) (*models.Person, error)
}

const defaultTeachingPercentage = 100

// InstructorMergeResult is the normalized assignment set for an edit.
type InstructorMergeResult struct {
	Assignments    models.AssignmentList
	PrimaryID      string
	ParticipantIDs models.StringList
	Warnings       []string
}

// InstructorAssignmentMerger resolves the edited instructor and merges
// co-teaching assignments from the reference record.
type InstructorAssignmentMerger struct {
	people personDirectory
	logger *zap.Logger
}

// NewInstructorAssignmentMerger constructs an InstructorAssignmentMerger.
func NewInstructorAssignmentMerger(people personDirectory, logger *zap.Logger) *InstructorAssignmentMerger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstructorAssignmentMerger{people: people, logger: logger}
}

// Merge resolves the candidate instructor (id first, then exact name) and
// produces the assignment set for the edited section. Team-taught sections
// (more than one existing assignment) merge the new primary into the
// existing set; single-instructor edits replace it. The output holds the
// single-primary invariant: whenever the set is non-empty exactly one
// assignment is primary.
func (m *InstructorAssignmentMerger) Merge(ctx context.Context, candidateID, candidateName string, ref *models.ScheduleRecord) (InstructorMergeResult, error) {
	var result InstructorMergeResult

	resolved, warnings, err := m.resolveCandidate(ctx, candidateID, candidateName)
	if err != nil {
		return result, err
	}
	result.Warnings = warnings

	existing := seedAssignments(ref)
	teamTeaching := len(existing) > 1

	var merged []models.InstructorAssignment
	if teamTeaching {
		merged = existing
	}

	if resolved != "" {
		percentage := defaultTeachingPercentage
		found := false
		for i := range merged {
			if merged[i].PersonID == resolved {
				if merged[i].Percentage > 0 {
					percentage = merged[i].Percentage
				}
				found = true
			}
			merged[i].IsPrimary = false
		}
		if found {
			for i := range merged {
				if merged[i].PersonID == resolved {
					merged[i].IsPrimary = true
					merged[i].Percentage = percentage
				}
			}
		} else {
			merged = append(merged, models.InstructorAssignment{
				PersonID:   resolved,
				IsPrimary:  true,
				Percentage: percentage,
			})
		}
	}

	if len(merged) > 0 && primaryOf(merged) == "" {
		merged[0].IsPrimary = true
	}

	result.Assignments = merged
	result.PrimaryID = primaryOf(merged)
	result.ParticipantIDs = participantUnion(existing, resolved)
	return result, nil
}

func (m *InstructorAssignmentMerger) resolveCandidate(ctx context.Context, candidateID, candidateName string) (string, []string, error) {
	if candidateID != "" {
		person, err := m.people.FindByID(ctx, candidateID)
		if err == nil {
			return person.ID, nil, nil
		}
		if err != sql.ErrNoRows {
			return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve instructor")
		}
	}
	if candidateName != "" {
		person, err := m.people.FindByExactName(ctx, candidateName)
		if err == nil {
			return person.ID, nil, nil
		}
		if err != sql.ErrNoRows {
			return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve instructor")
		}
		m.logger.Warn("instructor name did not resolve", zap.String("name", candidateName))
		return "", []string{"instructor \"" + candidateName + "\" was not found in the directory"}, nil
	}
	return "", nil, nil
}

// seedAssignments returns the reference record's assignment objects, falling
// back to its plain instructor id list with default percentages when no
// assignment objects exist yet.
func seedAssignments(ref *models.ScheduleRecord) []models.InstructorAssignment {
	if ref == nil {
		return nil
	}
	if len(ref.InstructorAssignments) > 0 {
		seeded := make([]models.InstructorAssignment, len(ref.InstructorAssignments))
		copy(seeded, ref.InstructorAssignments)
		return seeded
	}
	seeded := make([]models.InstructorAssignment, 0, len(ref.InstructorIDs))
	for i, id := range ref.InstructorIDs {
		seeded = append(seeded, models.InstructorAssignment{
			PersonID:   id,
			IsPrimary:  i == 0,
			Percentage: defaultTeachingPercentage,
		})
	}
	return seeded
}

func primaryOf(assignments []models.InstructorAssignment) string {
	for _, a := range assignments {
		if a.IsPrimary {
			return a.PersonID
		}
	}
	return ""
}

func participantUnion(existing []models.InstructorAssignment, resolved string) models.StringList {
	var ids []string
	for _, a := range existing {
		ids = append(ids, a.PersonID)
	}
	if resolved != "" {
		ids = append(ids, resolved)
	}
	return dedupeStrings(ids)
}
