package services

// ServiceContainer bundles the application's services for wiring.
type ServiceContainer struct {
	OfferService        OfferService
	ApplicationService  ApplicationService
	NotificationService NotificationService
}
