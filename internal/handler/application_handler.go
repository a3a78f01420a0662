package handler

import (
	"net/http"
	"strconv"
	"time"

	"petadoption/internal/middleware"
	"petadoption/internal/model"
	"petadoption/internal/service"
	"petadoption/pkg/apperr"
	"petadoption/pkg/pagination"
	"petadoption/pkg/response"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	adoptionService service.AdoptionService
}

func NewApplicationHandler(adoptionService service.AdoptionService) *ApplicationHandler {
	return &ApplicationHandler{adoptionService: adoptionService}
}

func (h *ApplicationHandler) RegisterRoutes(router *gin.RouterGroup) {
	apps := router.Group("/applications")
	{
		apps.POST("", middleware.RequireRole(model.RoleAdopter), h.SubmitApplication)
		apps.GET("/my", middleware.RequireRole(model.RoleAdopter), h.ListMyApplications)
		apps.DELETE("/:id", middleware.RequireRole(model.RoleAdopter), h.WithdrawApplication)
		apps.GET("/shelter", middleware.RequireRole(model.RoleShelter), h.ListPendingForShelter)
		apps.GET("/pet/:id", middleware.RequireRole(model.RoleShelter), h.ListApplicationsForPet)
		apps.PUT("/:id/approve", middleware.RequireRole(model.RoleShelter), h.ApproveApplication)
		apps.PUT("/:id/reject", middleware.RequireRole(model.RoleShelter), h.RejectApplication)
	}
}

// SubmitApplication handles POST /applications for adopters
// @Summary      Submit adoption application
// @Description  Submits a new application for an available pet. One application per pet per adopter.
// @Tags         applications
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SubmitApplicationRequest  true  "Application Payload"
// @Success      201      {object}  response.Response{data=service.ApplicationResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /applications [post]
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	var req service.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	adopterID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	app, err := h.adoptionService.SubmitApplication(c.Request.Context(), adopterID, req)
	if err != nil {
		status := apperr.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, app))
}

// ListMyApplications handles GET /applications/my
// @Summary      List my applications
// @Description  Retrieves every application the authenticated adopter has submitted
// @Tags         applications
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Failure      401  {object}  response.Response
// @Router       /applications/my [get]
func (h *ApplicationHandler) ListMyApplications(c *gin.Context) {
	adopterID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	apps, err := h.adoptionService.ListMyApplications(c.Request.Context(), adopterID)
	if err != nil {
		status := apperr.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"applications": apps,
		"total":        len(apps),
	}))
}

// WithdrawApplication handles DELETE /applications/:id for the owning adopter
// @Summary      Withdraw application
// @Description  Withdraws one of the caller's own pending applications
// @Tags         applications
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Application ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /applications/{id} [delete]
func (h *ApplicationHandler) WithdrawApplication(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid application id"))
		return
	}

	adopterID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	if err := h.adoptionService.WithdrawApplication(c.Request.Context(), id, adopterID); err != nil {
		status := apperr.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Application withdrawn"))
}

// ListPendingForShelter handles GET /applications/shelter
// @Summary      List pending applications
// @Description  Retrieves pending applications for all of the calling shelter's pets, oldest first
// @Tags         applications
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      401    {object}  response.Response
// @Router       /applications/shelter [get]
func (h *ApplicationHandler) ListPendingForShelter(c *gin.Context) {
	shelterID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	p := pagination.Parse(c)

	apps, total, err := h.adoptionService.ListPendingForShelter(c.Request.Context(), shelterID, p.Page, p.Limit)
	if err != nil {
		status := apperr.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"applications": apps,
		"total":        total,
		"page":         p.Page,
		"limit":        p.Limit,
	}))
}

// ListApplicationsForPet handles GET /applications/pet/:id for the custodian
// @Summary      List applications for a pet
// @Description  Retrieves every application submitted for one of the calling shelter's pets
// @Tags         applications
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Pet ID"
// @Success      200  {object}  response.Response{data=object}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications/pet/{id} [get]
func (h *ApplicationHandler) ListApplicationsForPet(c *gin.Context) {
	petID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid pet id"))
		return
	}

	reviewerID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	apps, err := h.adoptionService.ListApplicationsForPet(c.Request.Context(), petID, reviewerID)
	if err != nil {
		status := apperr.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"applications": apps,
		"total":        len(apps),
	}))
}

// ApproveApplication handles PUT /applications/:id/approve and finalizes the
// adoption. The pet id comes from the request body so the application row is
// never fetched before the caller's custody of the pet has been verified.
// @Summary      Approve application
// @Description  Approves a pending application and finalizes the adoption in one transaction
// @Tags         applications
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                              true  "Application ID"
// @Param        payload  body      service.FinalizeAdoptionRequest  true  "Finalize Payload"
// @Success      200      {object}  response.Response{data=service.AdoptionResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /applications/{id}/approve [put]
func (h *ApplicationHandler) ApproveApplication(c *gin.Context) {
	applicationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid application id"))
		return
	}

	var req service.FinalizeAdoptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	decisionDate := time.Now()
	if req.DecisionDate != "" {
		parsed, parseErr := time.Parse("2006-01-02", req.DecisionDate)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid decision_date, expected YYYY-MM-DD"))
			return
		}
		decisionDate = parsed
	}

	reviewerID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	adoption, err := h.adoptionService.FinalizeAdoption(c.Request.Context(), req.PetID, applicationID, decisionDate, req.Notes, reviewerID)
	if err != nil {
		status := apperr.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, adoption))
}

// RejectApplication handles PUT /applications/:id/reject for the custodian
// @Summary      Reject application
// @Description  Rejects a pending application with review notes
// @Tags         applications
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                               true  "Application ID"
// @Param        payload  body      service.RejectApplicationRequest  true  "Reject Payload"
// @Success      200      {object}  response.Response{data=service.ApplicationResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /applications/{id}/reject [put]
func (h *ApplicationHandler) RejectApplication(c *gin.Context) {
	applicationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid application id"))
		return
	}

	var req service.RejectApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	reviewerID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	app, err := h.adoptionService.RejectApplication(c.Request.Context(), applicationID, reviewerID, req.Notes)
	if err != nil {
		status := apperr.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, app))
}
