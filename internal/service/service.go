package service

import (
	"context"
	"strings"
	"time"

	"medfinder/internal/domain"
	"medfinder/internal/events"

	"go.uber.org/zap"
)

var (
	// ErrPharmacyExists is returned when an owner registers a second pharmacy
	ErrPharmacyExists = domain.NewBadRequestError("You already have a pharmacy registered")

	// ErrPharmacyRequired is returned when an owner manages stock without a pharmacy
	ErrPharmacyRequired = domain.NewBadRequestError("Please create a pharmacy first")
)

func utcNow() time.Time {
	return time.Now().UTC()
}

// publish delivers event on a best-effort basis
func publish(ctx context.Context, publisher events.Publisher, logger *zap.Logger, event events.Event) {
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish inventory event",
			zap.String("type", string(event.Type)),
			zap.String("entity_id", event.EntityID.String()),
			zap.Error(err),
		)
	}
}

func orNop(publisher events.Publisher, logger *zap.Logger) (events.Publisher, *zap.Logger) {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return publisher, logger
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
