package repository

import (
	"context"
	"time"

	"github.com/mediflow/hms-gateway/internal/model"
)

// AuditFilter narrows audit listings.
type AuditFilter struct {
	Username   string
	Action     string
	EntityType string
	Since      time.Time
	Limit      int
}

// AuditRepository persists the gateway's local trail of user-visible actions.
type AuditRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, filter AuditFilter) ([]*model.AuditLog, error)
	Cleanup(ctx context.Context, before time.Time) (int64, error)
}
