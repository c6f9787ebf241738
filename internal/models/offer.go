package models

import (
	"time"

	"gorm.io/datatypes"
)

// Offer is a freelancer-published listing of billable work. Status is
// mutated only through the transition methods below.
type Offer struct {
	BaseModel
	FreelancerID string      `gorm:"not null;index"`
	Title        string      `gorm:"not null"`
	Domain       string      `gorm:"not null;index"`
	Description  string
	Price        float64     `gorm:"not null"`
	DurationType string      `gorm:"not null"` // "hourly" | "fixed" | "monthly"
	Status       OfferStatus `gorm:"not null;index;default:'draft'"`
	Category     *string
	Tags         datatypes.JSON `gorm:"type:jsonb"`
	Deadline     *time.Time
	Rating       float64
	ViewsCount   int  `gorm:"default:0"`
	IsFeatured   bool `gorm:"default:false"`
	IsActive     bool `gorm:"default:true"`
	PublishedAt  *time.Time
	ExpiredAt    *time.Time

	// Bumped by every guarded status transition; the CAS in the
	// repository is the actual concurrency control.
	Version int `gorm:"default:0"`
}

// Publish moves a draft into the catalog. No-op outside draft.
func (o *Offer) Publish() {
	if o.Status == OfferStatusDraft {
		now := time.Now()
		o.Status = OfferStatusAvailable
		o.PublishedAt = &now
		o.IsActive = true
	}
}

// BeginExecution marks the offer as taken by an accepted application.
// Idempotent: only fires from available, so a second concurrent accept
// on the same offer cannot double-transition it. The repository applies
// the same guard at the storage level.
func (o *Offer) BeginExecution() bool {
	if o.Status != OfferStatusAvailable {
		return false
	}
	o.Status = OfferStatusInProgress
	return true
}

func (o *Offer) Deactivate() {
	o.IsActive = false
	o.Status = OfferStatusClosed
}

func (o *Offer) Expire() {
	now := time.Now()
	o.Status = OfferStatusExpired
	o.ExpiredAt = &now
	o.IsActive = false
}

// Accept is the admin-style direct transition (contract signed).
func (o *Offer) Accept() {
	o.Status = OfferStatusAccepted
	o.IsActive = false
}

// IsValid reports whether the deadline, if any, has not passed.
func (o *Offer) IsValid() bool {
	if o.Deadline == nil {
		return true
	}
	today := time.Now().Truncate(24 * time.Hour)
	deadline := o.Deadline.Truncate(24 * time.Hour)
	return !today.After(deadline)
}

// CanReceiveApplications gates application creation, not acceptance.
func (o *Offer) CanReceiveApplications() bool {
	return o.IsActive &&
		o.Status == OfferStatusAvailable &&
		o.IsValid()
}
