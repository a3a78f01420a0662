package handler

import (
	"net/http"

	"petadoption/internal/middleware"
	"petadoption/internal/model"
	"petadoption/internal/service"
	"petadoption/pkg/apperr"
	"petadoption/pkg/pagination"
	"petadoption/pkg/response"

	"github.com/gin-gonic/gin"
)

type AdoptionHandler struct {
	adoptionService service.AdoptionService
}

func NewAdoptionHandler(adoptionService service.AdoptionService) *AdoptionHandler {
	return &AdoptionHandler{adoptionService: adoptionService}
}

func (h *AdoptionHandler) RegisterRoutes(router *gin.RouterGroup) {
	adoptions := router.Group("/adoptions")
	{
		adoptions.GET("/my-pets", middleware.RequireRole(model.RoleAdopter), h.ListMyAdoptedPets)
		adoptions.GET("/happy-families", h.ListHappyFamilies)
	}
}

// ListMyAdoptedPets handles GET /adoptions/my-pets
// @Summary      List my adopted pets
// @Description  Retrieves every finalized adoption belonging to the authenticated adopter
// @Tags         adoptions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Failure      401  {object}  response.Response
// @Router       /adoptions/my-pets [get]
func (h *AdoptionHandler) ListMyAdoptedPets(c *gin.Context) {
	adopterID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	adoptions, err := h.adoptionService.ListMyAdoptedPets(c.Request.Context(), adopterID)
	if err != nil {
		status := apperr.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"adoptions": adoptions,
		"total":     len(adoptions),
	}))
}

// ListHappyFamilies handles the public GET /adoptions/happy-families
// @Summary      List happy families
// @Description  Retrieves a paginated public listing of completed adoptions
// @Tags         adoptions
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /adoptions/happy-families [get]
func (h *AdoptionHandler) ListHappyFamilies(c *gin.Context) {
	p := pagination.Parse(c)

	families, total, err := h.adoptionService.ListHappyFamilies(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		status := apperr.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"families": families,
		"total":    total,
		"page":     p.Page,
		"limit":    p.Limit,
	}))
}
