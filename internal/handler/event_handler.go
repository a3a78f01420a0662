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

type EventHandler struct {
	eventService service.EventService
}

func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (h *EventHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/events")
	group.Use(middleware.RequireRole(model.RoleAdmin)) // Protect the event trail
	{
		group.GET("", h.GetEvents)
	}
}

// GetEvents retrieves strictly paginated records with actors pre-loaded.
// When entity_type and entity_id are given the trail is narrowed to that
// single pet, application or adoption.
// @Summary      Get adoption events
// @Description  Retrieves the adoption event trail, newest first, optionally narrowed to one entity
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Number of items per page (default 20)"
// @Param        entity_type  query     string  false  "Entity type (PET, APPLICATION, ADOPTION)"
// @Param        entity_id    query     int     false  "Entity id, required with entity_type"
// @Success      200    {object}  response.Response{data=object}
// @Failure      400    {object}  response.Response
// @Router       /events [get]
func (h *EventHandler) GetEvents(c *gin.Context) {
	if entityType := c.Query("entity_type"); entityType != "" {
		entityID, err := strconv.ParseInt(c.Query("entity_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid entity_id"))
			return
		}

		events, err := h.eventService.GetEventsForEntity(c.Request.Context(), entityType, entityID)
		if err != nil {
			status := apperr.HTTPStatus(err)
			c.JSON(status, response.Error(status, err.Error()))
			return
		}

		c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
			"events": events,
			"total":  len(events),
		}))
		return
	}

	p := pagination.Parse(c)

	events, total, err := h.eventService.GetEvents(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		status := apperr.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"events": events,
		"total":  total,
		"page":   p.Page,
		"limit":  p.Limit,
	}))
}
