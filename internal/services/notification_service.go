package services

import (
	"context"
	"fmt"

	"smartfreelance_backend/internal/logger"
	"smartfreelance_backend/internal/models"
	"smartfreelance_backend/internal/repositories"
	"smartfreelance_backend/internal/services/dto"
	"smartfreelance_backend/pkg/apperrors"
)

type NotificationService interface {
	GetUserNotifications(ctx context.Context, userID string, limit int) (*dto.NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, userID string) (int64, error)
	MarkAsRead(ctx context.Context, userID, notificationID string) error
	MarkAllAsRead(ctx context.Context, userID string) error

	// Emit creates a notification record. It must be called with a
	// context NOT tied to any open transaction: the emitter's unit of
	// work is its own, so a failure here can never unwind the caller.
	Emit(ctx context.Context, userID, notificationType, title, message string, offerID, applicationID *string) error

	// Fire-and-forget factories used by the workflows. Errors are
	// swallowed after logging.
	NotifyNewApplication(freelancerID string, offer *models.Offer, app *models.Application)
	NotifyApplicationAccepted(clientID string, offer *models.Offer, app *models.Application)
	NotifyApplicationRejected(clientID string, offer *models.Offer, app *models.Application)
	NotifyApplicationShortlisted(clientID string, offer *models.Offer, app *models.Application)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	defaultPageSize  int
}

func NewNotificationService(notificationRepo repositories.NotificationRepository, defaultPageSize int) NotificationService {
	if defaultPageSize <= 0 {
		defaultPageSize = 50
	}
	return &notificationService{
		notificationRepo: notificationRepo,
		defaultPageSize:  defaultPageSize,
	}
}

func (s *notificationService) GetUserNotifications(ctx context.Context, userID string, limit int) (*dto.NotificationListResponse, error) {
	if limit <= 0 {
		limit = s.defaultPageSize
	}

	notifications, err := s.notificationRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, buildNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		UnreadCount:   unread,
		Total:         len(responses),
	}, nil
}

func (s *notificationService) GetUnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

// MarkAsRead is scoped to the recipient. Marking someone else's
// notification is a silent no-op, not an error.
func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if notification.UserID != userID {
		return nil
	}

	if err := s.notificationRepo.MarkAsRead(ctx, notificationID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	if err := s.notificationRepo.MarkAllAsRead(ctx, userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) Emit(ctx context.Context, userID, notificationType, title, message string, offerID, applicationID *string) error {
	notification := &models.Notification{
		UserID:        userID,
		Type:          notificationType,
		Title:         title,
		Message:       message,
		OfferID:       offerID,
		ApplicationID: applicationID,
		IsRead:        false,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return err
	}

	logger.CtxInfo(ctx, "notification created", "user_id", userID, "type", notificationType)
	return nil
}

// --- Fire-and-forget factories ---

func (s *notificationService) NotifyNewApplication(freelancerID string, offer *models.Offer, app *models.Application) {
	s.emitAsync(freelancerID, models.NotificationTypeNewApplication,
		"New application received",
		fmt.Sprintf("A client applied to your offer \"%s\"", offer.Title),
		offer, app,
	)
}

func (s *notificationService) NotifyApplicationAccepted(clientID string, offer *models.Offer, app *models.Application) {
	s.emitAsync(clientID, models.NotificationTypeApplicationAccepted,
		"Your application was accepted",
		fmt.Sprintf("The freelancer accepted your application for \"%s\"", offer.Title),
		offer, app,
	)
}

func (s *notificationService) NotifyApplicationRejected(clientID string, offer *models.Offer, app *models.Application) {
	s.emitAsync(clientID, models.NotificationTypeApplicationRejected,
		"Your application was rejected",
		fmt.Sprintf("The freelancer rejected your application for \"%s\"", offer.Title),
		offer, app,
	)
}

func (s *notificationService) NotifyApplicationShortlisted(clientID string, offer *models.Offer, app *models.Application) {
	s.emitAsync(clientID, models.NotificationTypeApplicationShortlisted,
		"Your application was shortlisted",
		fmt.Sprintf("The freelancer shortlisted your application for \"%s\"", offer.Title),
		offer, app,
	)
}

// emitAsync writes the record on a fresh goroutine with its own
// context. The insert runs against the root connection pool, never the
// caller's transaction, and any failure is logged and dropped.
func (s *notificationService) emitAsync(userID, notificationType, title, message string, offer *models.Offer, app *models.Application) {
	var offerID, applicationID *string
	if offer != nil {
		id := offer.ID
		offerID = &id
	}
	if app != nil {
		id := app.ID
		applicationID = &id
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("notification emitter panic", "recover", r, "user_id", userID)
			}
		}()

		if err := s.Emit(context.Background(), userID, notificationType, title, message, offerID, applicationID); err != nil {
			logger.WithError(err).Warn("notification emit failed", "user_id", userID, "type", notificationType)
		}
	}()
}

func buildNotificationResponse(n *models.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:            n.ID,
		Type:          n.Type,
		Title:         n.Title,
		Message:       n.Message,
		OfferID:       n.OfferID,
		ApplicationID: n.ApplicationID,
		IsRead:        n.IsRead,
		ReadAt:        n.ReadAt,
		CreatedAt:     n.CreatedAt,
	}
}
