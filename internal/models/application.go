package models

import (
	"time"
)

// Application is one client's proposal against one offer. The
// (offer_id, client_id) unique index is the authoritative duplicate
// guard; the service-level existence check is only the fast path.
type Application struct {
	BaseModel
	OfferID           string `gorm:"not null;index;uniqueIndex:idx_app_offer_client"`
	ClientID          string `gorm:"not null;index;uniqueIndex:idx_app_offer_client"`
	Message           string
	ProposedBudget    *float64
	PortfolioURL      *string
	AttachmentURL     *string
	EstimatedDuration *int              // days
	Status            ApplicationStatus `gorm:"not null;index;default:'pending'"`
	RejectionReason   *string
	IsRead            bool `gorm:"default:false"`
	AppliedAt         time.Time
	RespondedAt       *time.Time
	AcceptedAt        *time.Time

	Offer *Offer `gorm:"foreignKey:OfferID"`
}

func (a *Application) Accept() {
	now := time.Now()
	a.Status = ApplicationStatusAccepted
	a.RespondedAt = &now
	a.AcceptedAt = &now
}

func (a *Application) Reject(reason string) {
	now := time.Now()
	a.Status = ApplicationStatusRejected
	a.RespondedAt = &now
	a.RejectionReason = &reason
}

func (a *Application) MarkAsRead() {
	a.IsRead = true
}

// CanBeModified: only pending applications may be updated.
func (a *Application) CanBeModified() bool {
	return a.Status == ApplicationStatusPending
}

// CanBeWithdrawn: withdrawal is allowed before the freelancer decides.
func (a *Application) CanBeWithdrawn() bool {
	return a.Status == ApplicationStatusPending || a.Status == ApplicationStatusShortlisted
}
