package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"appforge-backend/internal/models"
)

var startedAt = time.Now()

// HealthHandler godoc
// @Summary     Health check
// @Description Returns the health status and uptime of the API
// @Tags        health
// @Produce     json
// @Success     200 {object} models.HealthResponse
// @Router      /health [get]
func HealthHandler(c *gin.Context) {
	now := time.Now()
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: now.UTC(),
		Uptime:    now.Sub(startedAt).Seconds(),
	})
}
