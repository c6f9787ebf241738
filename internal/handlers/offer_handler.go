package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartfreelance_backend/internal/middleware"
	"smartfreelance_backend/internal/models"
	"smartfreelance_backend/internal/services"
	"smartfreelance_backend/internal/services/dto"
)

type OfferHandler struct {
	*BaseHandler
	offerService       services.OfferService
	applicationService services.ApplicationService
}

func NewOfferHandler(base *BaseHandler, offerService services.OfferService, applicationService services.ApplicationService) *OfferHandler {
	return &OfferHandler{
		BaseHandler:        base,
		offerService:       offerService,
		applicationService: applicationService,
	}
}

func (h *OfferHandler) RegisterRoutes(r *gin.RouterGroup) {
	offers := r.Group("/offers")
	{
		// Public browsing
		offers.GET("", h.GetAvailableOffers)

		authed := offers.Group("")
		authed.Use(middleware.AuthMiddleware())
		{
			authed.GET("/:offerId", h.GetOffer)

			// Freelancer lifecycle
			freelancer := authed.Group("")
			freelancer.Use(middleware.RoleMiddleware(models.UserRoleFreelancer))
			{
				freelancer.POST("", h.CreateOffer)
				freelancer.PUT("/:offerId", h.UpdateOffer)
				freelancer.DELETE("/:offerId", h.DeleteOffer)
				freelancer.POST("/:offerId/publish", h.PublishOffer)
				freelancer.POST("/:offerId/close", h.CloseOffer)
				freelancer.GET("/my", h.GetMyOffers)
				freelancer.GET("/:offerId/applications", h.GetOfferApplications)
			}

			// Client applies against an offer
			client := authed.Group("")
			client.Use(middleware.RoleMiddleware(models.UserRoleClient))
			{
				client.POST("/:offerId/applications", h.ApplyToOffer)
			}
		}
	}
}

func (h *OfferHandler) CreateOffer(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateOfferRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	offer, err := h.offerService.CreateOffer(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, offer)
}

func (h *OfferHandler) GetOffer(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	offerID := c.Param("offerId")

	offer, err := h.offerService.GetOffer(c.Request.Context(), offerID, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}

func (h *OfferHandler) UpdateOffer(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	offerID := c.Param("offerId")

	var req dto.UpdateOfferRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	offer, err := h.offerService.UpdateOffer(c.Request.Context(), offerID, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}

func (h *OfferHandler) DeleteOffer(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	offerID := c.Param("offerId")

	if err := h.offerService.DeleteOffer(c.Request.Context(), offerID, userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Offer deleted successfully"})
}

func (h *OfferHandler) PublishOffer(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	offerID := c.Param("offerId")

	offer, err := h.offerService.PublishOffer(c.Request.Context(), offerID, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}

func (h *OfferHandler) CloseOffer(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	offerID := c.Param("offerId")

	offer, err := h.offerService.CloseOffer(c.Request.Context(), offerID, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}

func (h *OfferHandler) GetMyOffers(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	offers, err := h.offerService.GetFreelancerOffers(c.Request.Context(), userID, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, offers)
}

func (h *OfferHandler) GetAvailableOffers(c *gin.Context) {
	limit := ParseQueryInt(c, "limit", 20)

	offers, err := h.offerService.GetAvailableOffers(c.Request.Context(), limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, offers)
}

func (h *OfferHandler) GetOfferApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	offerID := c.Param("offerId")

	apps, err := h.applicationService.GetOfferApplications(c.Request.Context(), offerID, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, apps)
}

func (h *OfferHandler) ApplyToOffer(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	offerID := c.Param("offerId")

	var req dto.CreateApplicationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	app, err := h.applicationService.ApplyToOffer(c.Request.Context(), userID, offerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}
