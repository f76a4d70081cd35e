package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditLog records a user-visible portal action (login, booking, transition,
// invoicing). This is gateway-side observability; the appointment data of
// record stays with the remote service.
type AuditLog struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	ActorID    int64           `db:"actor_id" json:"actor_id"`
	Username   string          `db:"username" json:"username"`
	Role       Role            `db:"role" json:"role"`
	Action     string          `db:"action" json:"action"`
	EntityType string          `db:"entity_type" json:"entity_type"`
	EntityID   string          `db:"entity_id" json:"entity_id"`
	Metadata   json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	IPAddress  string          `db:"ip_address" json:"ip_address"`
	UserAgent  string          `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}
