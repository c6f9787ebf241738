package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"smartfreelance_backend/internal/clients"
	"smartfreelance_backend/internal/models"
	"smartfreelance_backend/internal/repositories"
	"smartfreelance_backend/internal/services/dto"
)

// In-memory fakes. WithTx returns the receiver so the same store backs
// transactional and non-transactional calls, and the fake tx runner
// passes a nil handle straight through.

type fakeTxRunner struct {
	mu    sync.Mutex
	calls int
	fail  error
}

func (r *fakeTxRunner) RunInTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	r.mu.Lock()
	r.calls++
	fail := r.fail
	r.mu.Unlock()
	if fail != nil {
		return fail
	}
	return fn(nil)
}

// --- offer repository ---

type fakeOfferRepo struct {
	mu     sync.Mutex
	offers map[string]*models.Offer
}

func newFakeOfferRepo(offers ...*models.Offer) *fakeOfferRepo {
	r := &fakeOfferRepo{offers: make(map[string]*models.Offer)}
	for _, o := range offers {
		cp := *o
		r.offers[o.ID] = &cp
	}
	return r
}

func (r *fakeOfferRepo) WithTx(*gorm.DB) repositories.OfferRepository { return r }

func (r *fakeOfferRepo) Create(_ context.Context, offer *models.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *offer
	r.offers[offer.ID] = &cp
	return nil
}

func (r *fakeOfferRepo) GetByID(_ context.Context, id string) (*models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[id]
	if !ok {
		return nil, repositories.ErrOfferNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOfferRepo) Update(_ context.Context, offer *models.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *offer
	r.offers[offer.ID] = &cp
	return nil
}

func (r *fakeOfferRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.offers, id)
	return nil
}

func (r *fakeOfferRepo) ListByFreelancer(_ context.Context, freelancerID string) ([]models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Offer
	for _, o := range r.offers {
		if o.FreelancerID == freelancerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) ListAvailable(_ context.Context, limit int) ([]models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Offer
	for _, o := range r.offers {
		if o.Status == models.OfferStatusAvailable && o.IsActive {
			out = append(out, *o)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) IncrementViews(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.offers[id]; ok {
		o.ViewsCount++
	}
	return nil
}

func (r *fakeOfferRepo) BeginExecution(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[id]
	if !ok || o.Status != models.OfferStatusAvailable {
		return false, nil
	}
	o.Status = models.OfferStatusInProgress
	o.Version++
	return true, nil
}

func (r *fakeOfferRepo) ExpirePastDeadline(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, o := range r.offers {
		if o.Status == models.OfferStatusAvailable && o.Deadline != nil && o.Deadline.Before(now) {
			o.Status = models.OfferStatusExpired
			o.IsActive = false
			o.Version++
			n++
		}
	}
	return n, nil
}

// --- application repository ---

type fakeApplicationRepo struct {
	mu   sync.Mutex
	apps map[string]*models.Application
}

func newFakeApplicationRepo(apps ...*models.Application) *fakeApplicationRepo {
	r := &fakeApplicationRepo{apps: make(map[string]*models.Application)}
	for _, a := range apps {
		cp := *a
		r.apps[a.ID] = &cp
	}
	return r
}

func (r *fakeApplicationRepo) WithTx(*gorm.DB) repositories.ApplicationRepository { return r }

func (r *fakeApplicationRepo) Create(_ context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.apps {
		if existing.OfferID == app.OfferID && existing.ClientID == app.ClientID {
			return repositories.ErrApplicationAlreadyExists
		}
	}
	if app.ID == "" {
		app.ID = "app-" + app.OfferID + "-" + app.ClientID
	}
	cp := *app
	r.apps[app.ID] = &cp
	return nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id string) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return nil, repositories.ErrApplicationNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeApplicationRepo) Update(_ context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *app
	r.apps[app.ID] = &cp
	return nil
}

func (r *fakeApplicationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.apps, id)
	return nil
}

func (r *fakeApplicationRepo) ExistsByOfferAndClient(_ context.Context, offerID, clientID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.OfferID == offerID && a.ClientID == clientID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeApplicationRepo) ListByOffer(_ context.Context, offerID string) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Application
	for _, a := range r.apps {
		if a.OfferID == offerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) ListByClient(_ context.Context, clientID string) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Application
	for _, a := range r.apps {
		if a.ClientID == clientID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) ListUnreadByFreelancer(context.Context, string) ([]models.Application, error) {
	return nil, nil
}

func (r *fakeApplicationRepo) CountByOffer(_ context.Context, offerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.apps {
		if a.OfferID == offerID {
			n++
		}
	}
	return n, nil
}

func (r *fakeApplicationRepo) CountPendingByOffer(_ context.Context, offerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.apps {
		if a.OfferID == offerID && a.Status == models.ApplicationStatusPending {
			n++
		}
	}
	return n, nil
}

func (r *fakeApplicationRepo) UpdateStatusFromPending(_ context.Context, app *models.Application) error {
	return r.updateGuarded(app, models.ApplicationStatusPending)
}

func (r *fakeApplicationRepo) UpdateStatusFromWithdrawable(_ context.Context, app *models.Application) error {
	return r.updateGuarded(app, models.ApplicationStatusPending, models.ApplicationStatusShortlisted)
}

func (r *fakeApplicationRepo) updateGuarded(app *models.Application, from ...models.ApplicationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.apps[app.ID]
	if !ok {
		return repositories.ErrStaleApplication
	}
	guarded := false
	for _, s := range from {
		if stored.Status == s {
			guarded = true
			break
		}
	}
	if !guarded {
		return repositories.ErrStaleApplication
	}
	stored.Status = app.Status
	stored.RespondedAt = app.RespondedAt
	stored.AcceptedAt = app.AcceptedAt
	stored.RejectionReason = app.RejectionReason
	return nil
}

// --- notification repository ---

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*models.Notification
	createErr     error
	nextID        int
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if n.ID == "" {
		r.nextID++
		n.ID = fmt.Sprintf("notif-%d", r.nextID)
	}
	cp := *n
	r.notifications = append(r.notifications, &cp)
	return nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id {
			cp := *n
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID string, limit int) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, notif := range r.notifications {
		if notif.UserID == userID && !notif.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) MarkAsRead(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteOlderThan(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeNotificationRepo) byUser(userID string) []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out
}

// --- contract client ---

type fakeContractClient struct {
	mu         sync.Mutex
	contractID string
	err        error
	requests   []*clients.ContractCreateRequest
}

func (c *fakeContractClient) CreateContractFromAcceptedApplication(_ context.Context, req *clients.ContractCreateRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	if c.err != nil {
		return "", c.err
	}
	return c.contractID, nil
}

func (c *fakeContractClient) lastRequest() *clients.ContractCreateRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.requests) == 0 {
		return nil
	}
	return c.requests[len(c.requests)-1]
}

// --- notification service recorder ---

type notifyCall struct {
	kind          string
	userID        string
	offerID       string
	applicationID string
}

// recordingNotifier replaces the async notification service so tests
// can assert on emissions synchronously.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

func (n *recordingNotifier) GetUserNotifications(context.Context, string, int) (*dto.NotificationListResponse, error) {
	return nil, errors.New("not implemented")
}

func (n *recordingNotifier) GetUnreadCount(context.Context, string) (int64, error) {
	return 0, errors.New("not implemented")
}

func (n *recordingNotifier) MarkAsRead(context.Context, string, string) error {
	return errors.New("not implemented")
}

func (n *recordingNotifier) MarkAllAsRead(context.Context, string) error {
	return errors.New("not implemented")
}

func (n *recordingNotifier) Emit(_ context.Context, userID, notificationType, _, _ string, _, _ *string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{kind: notificationType, userID: userID})
	return nil
}

func (n *recordingNotifier) record(kind, userID string, offer *models.Offer, app *models.Application) {
	n.mu.Lock()
	defer n.mu.Unlock()
	call := notifyCall{kind: kind, userID: userID}
	if offer != nil {
		call.offerID = offer.ID
	}
	if app != nil {
		call.applicationID = app.ID
	}
	n.calls = append(n.calls, call)
}

func (n *recordingNotifier) NotifyNewApplication(freelancerID string, offer *models.Offer, app *models.Application) {
	n.record(models.NotificationTypeNewApplication, freelancerID, offer, app)
}

func (n *recordingNotifier) NotifyApplicationAccepted(clientID string, offer *models.Offer, app *models.Application) {
	n.record(models.NotificationTypeApplicationAccepted, clientID, offer, app)
}

func (n *recordingNotifier) NotifyApplicationRejected(clientID string, offer *models.Offer, app *models.Application) {
	n.record(models.NotificationTypeApplicationRejected, clientID, offer, app)
}

func (n *recordingNotifier) NotifyApplicationShortlisted(clientID string, offer *models.Offer, app *models.Application) {
	n.record(models.NotificationTypeApplicationShortlisted, clientID, offer, app)
}

func (n *recordingNotifier) callsOfKind(kind string) []notifyCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notifyCall
	for _, c := range n.calls {
		if c.kind == kind {
			out = append(out, c)
		}
	}
	return out
}
