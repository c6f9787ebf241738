package dto

import "time"

type CreateApplicationRequest struct {
	Message           string   `json:"message" validate:"required,min=20,max=2000"`
	ProposedBudget    *float64 `json:"proposed_budget,omitempty" validate:"omitempty,gt=0"`
	PortfolioURL      *string  `json:"portfolio_url,omitempty" validate:"omitempty,url,max=255"`
	AttachmentURL     *string  `json:"attachment_url,omitempty" validate:"omitempty,url,max=500"`
	EstimatedDuration *int     `json:"estimated_duration,omitempty" validate:"omitempty,gt=0"`
}

type UpdateApplicationRequest struct {
	Message           *string  `json:"message,omitempty" validate:"omitempty,min=20,max=2000"`
	ProposedBudget    *float64 `json:"proposed_budget,omitempty" validate:"omitempty,gt=0"`
	PortfolioURL      *string  `json:"portfolio_url,omitempty" validate:"omitempty,url,max=255"`
	AttachmentURL     *string  `json:"attachment_url,omitempty" validate:"omitempty,url,max=500"`
	EstimatedDuration *int     `json:"estimated_duration,omitempty" validate:"omitempty,gt=0"`
}

type RejectApplicationRequest struct {
	Reason string `json:"reason" validate:"required,max=2000"`
}

type ApplicationResponse struct {
	ID                string     `json:"id"`
	OfferID           string     `json:"offer_id"`
	OfferTitle        string     `json:"offer_title,omitempty"`
	ClientID          string     `json:"client_id"`
	Message           string     `json:"message"`
	ProposedBudget    *float64   `json:"proposed_budget,omitempty"`
	PortfolioURL      *string    `json:"portfolio_url,omitempty"`
	AttachmentURL     *string    `json:"attachment_url,omitempty"`
	EstimatedDuration *int       `json:"estimated_duration,omitempty"`
	Status            string     `json:"status"`
	RejectionReason   *string    `json:"rejection_reason,omitempty"`
	IsRead            bool       `json:"is_read"`
	CanBeModified     bool       `json:"can_be_modified"`
	AppliedAt         time.Time  `json:"applied_at"`
	RespondedAt       *time.Time `json:"responded_at,omitempty"`
	AcceptedAt        *time.Time `json:"accepted_at,omitempty"`
}

/// AcceptApplicationResponse is the acceptance workflow's result: the
// accepted application plus either the provisioned contract id or a
// degradation warning, never both.
type AcceptApplicationResponse struct {
	Application ApplicationResponse `json:"application"`
	ContractID  *string             `json:"contract_id,omitempty"`
	Warning     string              `json:"warning,omitempty"`
}

type ApplicationListResponse struct {
	Applications []ApplicationResponse `json:"applications"`
	Total        int                   `json:"total"`
}
