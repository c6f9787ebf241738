package handlers

// AppHandlers holds every handler the application registers.
type AppHandlers struct {
	OfferHandler        *OfferHandler
	ApplicationHandler  *ApplicationHandler
	NotificationHandler *NotificationHandler
}
