package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartfreelance_backend/internal/middleware"
	"smartfreelance_backend/internal/models"
	"smartfreelance_backend/internal/services"
	"smartfreelance_backend/internal/services/dto"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

func (h *ApplicationHandler) RegisterRoutes(r *gin.RouterGroup) {
	applications := r.Group("/applications")
	applications.Use(middleware.AuthMiddleware())
	{
		// Both parties can read an application they are part of.
		applications.GET("/:applicationId",
			middleware.RequireRoles(models.UserRoleClient, models.UserRoleFreelancer),
			h.GetApplication)

		// Client side of the lifecycle
		client := applications.Group("")
		client.Use(middleware.RoleMiddleware(models.UserRoleClient))
		{
			client.GET("/my", h.GetMyApplications)
			client.PUT("/:applicationId", h.UpdateApplication)
			client.POST("/:applicationId/withdraw", h.WithdrawApplication)
			client.DELETE("/:applicationId", h.DeleteApplication)
		}

		// Freelancer decisions
		freelancer := applications.Group("")
		freelancer.Use(middleware.RoleMiddleware(models.UserRoleFreelancer))
		{
			freelancer.GET("/unread", h.GetUnreadApplications)
			freelancer.POST("/:applicationId/accept", h.AcceptApplication)
			freelancer.POST("/:applicationId/reject", h.RejectApplication)
			freelancer.POST("/:applicationId/shortlist", h.ShortlistApplication)
			freelancer.PUT("/:applicationId/read", h.MarkAsRead)
		}
	}
}

func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	applicationID := c.Param("applicationId")

	app, err := h.applicationService.GetApplication(c.Request.Context(), applicationID, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) GetMyApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	apps, err := h.applicationService.GetClientApplications(c.Request.Context(), userID, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, apps)
}

func (h *ApplicationHandler) GetUnreadApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	apps, err := h.applicationService.GetUnreadApplications(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, apps)
}

// AcceptApplication drives the acceptance workflow. A degraded outcome
// still returns 200 with a warning; only state-machine violations and
// authorization failures produce errors.
func (h *ApplicationHandler) AcceptApplication(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	applicationID := c.Param("applicationId")

	result, err := h.applicationService.AcceptApplication(c.Request.Context(), applicationID, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ApplicationHandler) RejectApplication(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	applicationID := c.Param("applicationId")

	var req dto.RejectApplicationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	app, err := h.applicationService.RejectApplication(c.Request.Context(), applicationID, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) ShortlistApplication(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	applicationID := c.Param("applicationId")

	app, err := h.applicationService.ShortlistApplication(c.Request.Context(), applicationID, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) WithdrawApplication(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	applicationID := c.Param("applicationId")

	app, err := h.applicationService.WithdrawApplication(c.Request.Context(), applicationID, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) MarkAsRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	applicationID := c.Param("applicationId")

	app, err := h.applicationService.MarkApplicationAsRead(c.Request.Context(), applicationID, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) UpdateApplication(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	applicationID := c.Param("applicationId")

	var req dto.UpdateApplicationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	app, err := h.applicationService.UpdateApplication(c.Request.Context(), applicationID, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	applicationID := c.Param("applicationId")

	if err := h.applicationService.DeleteApplication(c.Request.Context(), applicationID, userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Application deleted successfully"})
}
