package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mediflow/hms-gateway/internal/model"
	"github.com/mediflow/hms-gateway/internal/repository"
	"github.com/mediflow/hms-gateway/pkg/logger"
)

// Service records user-visible portal actions. Failures to write the trail
// never fail the user's operation; they are logged and dropped.
type Service struct {
	repo   repository.AuditRepository
	logger *logger.Logger
}

func NewService(repo repository.AuditRepository, log *logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

type LogOptions struct {
	Metadata  interface{}
	IPAddress string
	UserAgent string
}

// Log writes one audit entry. actor may be nil for unauthenticated actions
// such as public bookings.
func (s *Service) Log(ctx context.Context, actor *model.Principal, action, entityType, entityID string, opts *LogOptions) {
	entry := &model.AuditLog{
		ID:         uuid.New(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		CreatedAt:  time.Now(),
	}

	if actor != nil {
		entry.ActorID = actor.UserID
		entry.Username = actor.Username
		entry.Role = actor.Role
	}

	if opts != nil {
		entry.IPAddress = opts.IPAddress
		entry.UserAgent = opts.UserAgent
		if opts.Metadata != nil {
			metadata, err := json.Marshal(opts.Metadata)
			if err != nil {
				s.logger.Error(err, "failed to marshal audit metadata", "action", action)
			} else {
				entry.Metadata = metadata
			}
		}
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error(err, "failed to write audit log", "action", action, "entity", entityType)
	}
}

// List returns recent audit entries for the admin settings view.
func (s *Service) List(ctx context.Context, filter repository.AuditFilter) ([]*model.AuditLog, error) {
	return s.repo.List(ctx, filter)
}
