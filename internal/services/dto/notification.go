package dto

import "time"

type NotificationResponse struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	OfferID       *string    `json:"offer_id,omitempty"`
	ApplicationID *string    `json:"application_id,omitempty"`
	IsRead        bool       `json:"read"`
	ReadAt        *time.Time `json:"read_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
	Total         int                    `json:"total"`
}
