package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/playzo/playzo-backend/internal/domain/offer"
	"github.com/playzo/playzo-backend/internal/domain/shared"
	"github.com/playzo/playzo-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXPIRE OFFERS JOB
// ══════════════════════════════════════════════════════════════════════════════

// ExpireOffersJob sweeps offers whose end date has passed and moves them to
// EXPIRED. Reads already treat an ended offer as inactive; the sweep keeps the
// stored status honest so admin listings and filters agree with the clock.
type ExpireOffersJob struct {
	offerRepo offer.Repository
	eventBus  shared.EventBus
	logger    *slog.Logger
}

// NewExpireOffersJob creates a new offer expiry job.
func NewExpireOffersJob(
	offerRepo offer.Repository,
	eventBus shared.EventBus,
	logger *slog.Logger,
) *ExpireOffersJob {
	if logger == nil {
		logger = slog.Default()
	}

	return &ExpireOffersJob{
		offerRepo: offerRepo,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// Name returns the job name.
func (j *ExpireOffersJob) Name() string {
	return "expire_offers"
}

// Description returns a human-readable description.
func (j *ExpireOffersJob) Description() string {
	return "Marks offers past their end date as expired"
}

// Run executes the expiry sweep. Offer windows are anchored to Cairo
// wall-clock time, so the sweep uses the same reference.
func (j *ExpireOffersJob) Run(ctx context.Context) error {
	now := timeutil.Now()

	expired, err := j.offerRepo.ExpireEnded(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to expire offers: %w", err)
	}

	if expired == 0 {
		j.logger.Debug("no offers to expire")
		return nil
	}

	j.logger.Info("offers expired", "count", expired)

	if j.eventBus != nil {
		event := offersExpiredEvent{
			BaseEvent: shared.NewBaseEvent(shared.EventOfferExpired, "offers"),
			count:     expired,
		}
		if err := j.eventBus.Publish(event); err != nil {
			j.logger.Warn("failed to publish expiry event", "error", err)
		}
	}

	return nil
}

type offersExpiredEvent struct {
	shared.BaseEvent
	count int
}

func (e offersExpiredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"expired_count": e.count,
	}
}
