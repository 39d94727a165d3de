package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionScheduleCreate = "SCHEDULE_CREATE"
	AuditActionScheduleUpdate = "SCHEDULE_UPDATE"
	AuditActionScheduleDelete = "SCHEDULE_DELETE"
)

// AuditLog records one logical store mutation with before/after payloads.
type AuditLog struct {
	ID          string     `db:"id" json:"id"`
	ActorID     *string    `db:"actor_id" json:"actor_id,omitempty"`
	Action      string     `db:"action" json:"action"`
	Resource    string     `db:"resource" json:"resource"`
	ResourceIDs StringList `db:"resource_ids" json:"resource_ids"`
	Summary     string     `db:"summary" json:"summary"`
	OldValues   []byte     `db:"old_values" json:"old_values,omitempty"`
	NewValues   []byte     `db:"new_values" json:"new_values,omitempty"`
	Source      string     `db:"source" json:"source"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}
