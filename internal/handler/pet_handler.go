package handler

import (
	"net/http"
	"strconv"

	"petadoption/internal/middleware"
	"petadoption/internal/model"
	"petadoption/internal/service"
	"petadoption/pkg/apperr"
	"petadoption/pkg/pagination"
	"petadoption/pkg/response"

	"github.com/gin-gonic/gin"
)

type PetHandler struct {
	petService service.PetService
}

func NewPetHandler(petService service.PetService) *PetHandler {
	return &PetHandler{petService: petService}
}

func (h *PetHandler) RegisterRoutes(router *gin.RouterGroup) {
	pets := router.Group("/pets")
	{
		pets.GET("", h.ListAvailablePets)
		pets.GET("/shelter", middleware.RequireRole(model.RoleShelter), h.ListShelterPets)
		pets.GET("/:id", h.GetPet)
		pets.POST("", middleware.RequireRole(model.RoleShelter), h.CreatePet)
		pets.PATCH("/:id/archive", middleware.RequireRole(model.RoleShelter), h.ArchivePet)
	}
}

// ListAvailablePets handles retrieving the public adoptable listing
// @Summary      List available pets
// @Description  Retrieves a paginated list of pets currently available for adoption
// @Tags         pets
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /pets [get]
func (h *PetHandler) ListAvailablePets(c *gin.Context) {
	p := pagination.Parse(c)

	pets, total, err := h.petService.ListAvailablePets(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		status := apperr.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"pets":  pets,
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
	}))
}

// GetPet handles target fetch resolution via GET /pets/:id
// @Summary      Get pet by ID
// @Description  Fetch a single pet's detail
// @Tags         pets
// @Produce      json
// @Param        id   path      int  true  "Pet ID"
// @Success      200  {object}  response.Response{data=service.PetResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /pets/{id} [get]
func (h *PetHandler) GetPet(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid pet id"))
		return
	}

	pet, err := h.petService.GetPet(c.Request.Context(), id)
	if err != nil {
		status := apperr.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, pet))
}

// ListShelterPets handles retrieving the caller's own pets
// @Summary      List shelter pets
// @Description  Retrieves a paginated list of the authenticated shelter's pets in every status
// @Tags         pets
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      401    {object}  response.Response
// @Router       /pets/shelter [get]
func (h *PetHandler) ListShelterPets(c *gin.Context) {
	shelterID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	p := pagination.Parse(c)

	pets, total, err := h.petService.ListShelterPets(c.Request.Context(), shelterID, p.Page, p.Limit)
	if err != nil {
		status := apperr.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"pets":  pets,
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
	}))
}

// CreatePet registers a new pet under the authenticated shelter
// @Summary      Register pet
// @Description  Creates a new pet available for adoption, owned by the calling shelter
// @Tags         pets
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreatePetRequest  true  "Create Pet Payload"
// @Success      201      {object}  response.Response{data=service.PetResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /pets [post]
func (h *PetHandler) CreatePet(c *gin.Context) {
	var req service.CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	shelterID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	pet, err := h.petService.CreatePet(c.Request.Context(), shelterID, req)
	if err != nil {
		status := apperr.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, pet))
}

// ArchivePet takes a pet off the adoptable listing
// @Summary      Archive pet
// @Description  Archives one of the calling shelter's pets so it no longer appears in listings
// @Tags         pets
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Pet ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /pets/{id}/archive [patch]
func (h *PetHandler) ArchivePet(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid pet id"))
		return
	}

	shelterID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	if err := h.petService.ArchivePet(c.Request.Context(), id, shelterID); err != nil {
		status := apperr.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Pet archived"))
}
