package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"appforge-backend/internal/logger"
	"appforge-backend/internal/middleware"
	"appforge-backend/internal/models"
	"appforge-backend/internal/services"
)

// currentUser reads the authenticated subject, writing a 401 when absent.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return uuid.Nil, false
	}
	return userID, true
}

// parseID parses raw as a UUID, writing a 400 naming field when it is
// missing or malformed.
func parseID(c *gin.Context, raw, field string) (uuid.UUID, bool) {
	if raw == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: field + " is required"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid " + field})
		return uuid.Nil, false
	}
	return id, true
}

// respondError writes err using the status carried by a services.Error.
// Only the message is exposed.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	status := services.StatusOf(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "path", c.FullPath(), "status", status, "error", err)
	}
	c.JSON(status, models.ErrorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msg})
}
