package handler

import (
	"net/http"

	"petadoption/internal/middleware"
	"petadoption/internal/model"
	"petadoption/internal/service"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	statsGroup := router.Group("/statistics")
	{
		statsGroup.GET("/shelter", middleware.RequireRole(model.RoleShelter), h.GetShelterStatistics)
	}
}

// @Summary      Get Shelter Dashboard Statistics
// @Description  Get pet counts by status, pending applications and completed adoptions for the calling shelter
// @Tags         Statistics
// @Accept       json
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Failure      401 {object} map[string]interface{} "Unauthorized"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Security     BearerAuth
// @Router       /statistics/shelter [get]
func (h *StatisticsHandler) GetShelterStatistics(c *gin.Context) {
	shelterID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user id not found in context"})
		return
	}

	stats, err := h.statisticsService.GetShelterStatistics(c.Request.Context(), shelterID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"data":    stats,
	})
}
