package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartfreelance_backend/internal/models"
	"smartfreelance_backend/pkg/apperrors"
)

func TestNotificationService_Emit(t *testing.T) {
	t.Parallel()

	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, 50)

	offerID := "offer-1"
	appID := "app-1"
	err := svc.Emit(context.Background(), "user-1", models.NotificationTypeNewApplication,
		"New application received", "A client applied", &offerID, &appID)
	require.NoError(t, err)

	stored := repo.byUser("user-1")
	require.Len(t, stored, 1)
	assert.Equal(t, models.NotificationTypeNewApplication, stored[0].Type)
	assert.False(t, stored[0].IsRead)
	require.NotNil(t, stored[0].OfferID)
	assert.Equal(t, "offer-1", *stored[0].OfferID)
	require.NotNil(t, stored[0].ApplicationID)
	assert.Equal(t, "app-1", *stored[0].ApplicationID)
}

func TestNotificationService_NotifyIsAsyncAndSwallowed(t *testing.T) {
	t.Parallel()

	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, 50)

	offer := &models.Offer{Title: "Logo design"}
	offer.ID = "offer-1"
	app := &models.Application{OfferID: "offer-1", ClientID: "client-1"}
	app.ID = "app-1"

	svc.NotifyApplicationAccepted("client-1", offer, app)

	assert.Eventually(t, func() bool {
		return len(repo.byUser("client-1")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	notif := repo.byUser("client-1")[0]
	assert.Equal(t, models.NotificationTypeApplicationAccepted, notif.Type)
}

func TestNotificationService_MarkAsRead_ScopedToRecipient(t *testing.T) {
	t.Parallel()

	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, 50)

	require.NoError(t, svc.Emit(context.Background(), "user-1",
		models.NotificationTypeApplicationAccepted, "Accepted", "ok", nil, nil))
	notifID := repo.byUser("user-1")[0].ID

	// A different user marking it is a silent no-op.
	require.NoError(t, svc.MarkAsRead(context.Background(), "intruder", notifID))
	assert.False(t, repo.byUser("user-1")[0].IsRead)

	// The recipient succeeds.
	require.NoError(t, svc.MarkAsRead(context.Background(), "user-1", notifID))
	assert.True(t, repo.byUser("user-1")[0].IsRead)
}

func TestNotificationService_MarkAsRead_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewNotificationService(&fakeNotificationRepo{}, 50)

	err := svc.MarkAsRead(context.Background(), "user-1", "missing")

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestNotificationService_GetUserNotifications(t *testing.T) {
	t.Parallel()

	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, 50)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Emit(context.Background(), "user-1",
			models.NotificationTypeNewApplication, "New application received", "msg", nil, nil))
	}
	require.NoError(t, svc.Emit(context.Background(), "user-2",
		models.NotificationTypeNewApplication, "New application received", "msg", nil, nil))

	list, err := svc.GetUserNotifications(context.Background(), "user-1", 0)
	require.NoError(t, err)

	assert.Equal(t, 3, list.Total)
	assert.Equal(t, int64(3), list.UnreadCount)
}

func TestNotificationService_MarkAllAsRead(t *testing.T) {
	t.Parallel()

	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, 50)

	for i := 0; i < 2; i++ {
		require.NoError(t, svc.Emit(context.Background(), "user-1",
			models.NotificationTypeNewApplication, "New application received", "msg", nil, nil))
	}

	require.NoError(t, svc.MarkAllAsRead(context.Background(), "user-1"))

	count, err := svc.GetUnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
