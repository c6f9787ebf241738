package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is an append-only record directed at a user, shown on
// the dashboard. Created as a side effect of workflow steps; the only
// mutation is marking it read, scoped to its recipient.
type Notification struct {
	BaseModel
	UserID        string `gorm:"not null;index"`
	Type          string `gorm:"not null"`
	Title         string `gorm:"not null"`
	Message       string
	OfferID       *string
	ApplicationID *string
	Data          datatypes.JSON `gorm:"type:jsonb"`
	IsRead        bool           `gorm:"default:false"`
	ReadAt        *time.Time
}
