package models

type UserRole string
type OfferStatus string
type ApplicationStatus string

const (
	UserRoleFreelancer UserRole = "freelancer"
	UserRoleClient     UserRole = "client"
	UserRoleAdmin      UserRole = "admin"

	// Offer lifecycle: draft -> available -> in_progress -> completed.
	// Execution (delivery, payment) belongs to the Contract service.
	OfferStatusDraft      OfferStatus = "draft"
	OfferStatusAvailable  OfferStatus = "available"
	OfferStatusInProgress OfferStatus = "in_progress"
	OfferStatusAccepted   OfferStatus = "accepted"
	OfferStatusCompleted  OfferStatus = "completed"
	OfferStatusCancelled  OfferStatus = "cancelled"
	OfferStatusExpired    OfferStatus = "expired"
	OfferStatusClosed     OfferStatus = "closed"

	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusAccepted    ApplicationStatus = "accepted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn   ApplicationStatus = "withdrawn"
)

// Notification types emitted by this service.
const (
	NotificationTypeNewApplication         = "new_application"
	NotificationTypeApplicationAccepted    = "application_accepted"
	NotificationTypeApplicationRejected    = "application_rejected"
	NotificationTypeApplicationShortlisted = "application_shortlisted"
	NotificationTypeOfferExpired           = "offer_expired"
)
