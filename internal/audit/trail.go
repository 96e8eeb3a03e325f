package audit

import (
	"context"

	"github.com/kestrelworks/aquamon-core/internal/infrastructure/logging"
)

// Trail is a nil-safe recording front over a Repository. A nil *Trail
// records nothing, so services can carry one without caring whether the
// trail is enabled.
type Trail struct {
	repo   Repository
	logger *logging.Logger
}

// NewTrail creates a trail writer.
func NewTrail(repo Repository, logger *logging.Logger) *Trail {
	return &Trail{repo: repo, logger: logger}
}

// Record stores one entry. Failures are logged, never returned: the trail
// must not break the action it describes.
func (t *Trail) Record(ctx context.Context, action, entityType, entityID, userID string, details map[string]any) {
	if t == nil {
		return
	}

	entry := &Entry{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     userID,
		Details:    details,
	}
	if err := t.repo.Create(ctx, entry); err != nil {
		t.logger.Error("recording trail entry",
			"action", action,
			"entity_type", entityType,
			"error", err,
		)
	}
}
