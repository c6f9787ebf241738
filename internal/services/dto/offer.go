package dto

import "time"

type CreateOfferRequest struct {
	Title        string     `json:"title" validate:"required,min=5,max=255"`
	Domain       string     `json:"domain" validate:"required,max=100"`
	Description  string     `json:"description" validate:"required,min=20,max=5000"`
	Price        float64    `json:"price" validate:"required,gt=0"`
	DurationType string     `json:"duration_type" validate:"required,oneof=hourly fixed monthly"`
	Category     *string    `json:"category,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

type UpdateOfferRequest struct {
	Title        *string    `json:"title,omitempty" validate:"omitempty,min=5,max=255"`
	Domain       *string    `json:"domain,omitempty" validate:"omitempty,max=100"`
	Description  *string    `json:"description,omitempty" validate:"omitempty,min=20,max=5000"`
	Price        *float64   `json:"price,omitempty" validate:"omitempty,gt=0"`
	DurationType *string    `json:"duration_type,omitempty" validate:"omitempty,oneof=hourly fixed monthly"`
	Category     *string    `json:"category,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

type OfferResponse struct {
	ID                string     `json:"id"`
	FreelancerID      string     `json:"freelancer_id"`
	Title             string     `json:"title"`
	Domain            string     `json:"domain"`
	Description       string     `json:"description"`
	Price             float64    `json:"price"`
	DurationType      string     `json:"duration_type"`
	Status            string     `json:"status"`
	Category          *string    `json:"category,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
	Deadline          *time.Time `json:"deadline,omitempty"`
	Rating            float64    `json:"rating"`
	ViewsCount        int        `json:"views_count"`
	IsActive          bool       `json:"is_active"`
	ApplicationsCount int64      `json:"applications_count"`
	PublishedAt       *time.Time `json:"published_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type OfferListResponse struct {
	Offers []OfferResponse `json:"offers"`
	Total  int             `json:"total"`
}
