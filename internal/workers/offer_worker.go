package workers

import (
	"context"
	"time"

	"smartfreelance_backend/internal/logger"
	"smartfreelance_backend/internal/repositories"
)

// OfferWorker runs the background sweeps that keep offer state honest:
// past-deadline offers are moved to expired so they stop accepting
// applications, and stale notifications are cleaned out.
type OfferWorker struct {
	offerRepo        repositories.OfferRepository
	notificationRepo repositories.NotificationRepository
}

func NewOfferWorker(offerRepo repositories.OfferRepository, notificationRepo repositories.NotificationRepository) *OfferWorker {
	return &OfferWorker{
		offerRepo:        offerRepo,
		notificationRepo: notificationRepo,
	}
}

func (w *OfferWorker) Start(ctx context.Context) {
	go w.expireOffers(ctx)
	go w.cleanNotifications(ctx)
}

func (w *OfferWorker) expireOffers(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("offer expiry worker stopped")
			return
		case <-ticker.C:
			expired, err := w.offerRepo.ExpirePastDeadline(ctx, time.Now())
			if err != nil {
				logger.WorkerLog("offer_worker", "expire_past_deadline", err)
				continue
			}
			if expired > 0 {
				logger.Info("expired offers past deadline", "count", expired)
			}
		}
	}
}

func (w *OfferWorker) cleanNotifications(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	const retention = 90 * 24 * time.Hour

	for {
		select {
		case <-ctx.Done():
			logger.Info("notification cleanup worker stopped")
			return
		case <-ticker.C:
			removed, err := w.notificationRepo.DeleteOlderThan(ctx, time.Now().Add(-retention))
			if err != nil {
				logger.WorkerLog("offer_worker", "clean_notifications", err)
				continue
			}
			if removed > 0 {
				logger.Info("removed old notifications", "count", removed)
			}
		}
	}
}
