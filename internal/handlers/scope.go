package handlers

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"appforge-backend/internal/logger"
	"appforge-backend/internal/models"
	"appforge-backend/internal/scope"
)

// ScopeGenerator is implemented by *scope.Generator.
type ScopeGenerator interface {
	Generate(ctx context.Context, description string) (*models.ProjectScope, error)
	Refine(ctx context.Context, original *models.ProjectScope, feedback string) (*models.ProjectScope, error)
}

var _ ScopeGenerator = (*scope.Generator)(nil)

type ScopeHandler struct {
	generator ScopeGenerator
	log       *logger.Logger
}

func NewScopeHandler(generator ScopeGenerator, log *logger.Logger) *ScopeHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ScopeHandler{generator: generator, log: log.With("handler", "scope")}
}

// GenerateScope godoc
// @Summary     Generate a project scope
// @Description Expands a free-text app idea into a structured scope
// @Tags        scope
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.GenerateScopeRequest true "App idea"
// @Success     200 {object} models.ProjectScope
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/projects/generate-scope [post]
func (h *ScopeHandler) GenerateScope(c *gin.Context) {
	var req models.GenerateScopeRequest
	_ = c.ShouldBindJSON(&req)

	description := strings.TrimSpace(req.Description)
	if utf8.RuneCountInString(description) < scope.MinDescriptionLength {
		badRequest(c, "Description must be at least 50 characters")
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), description)
	if err != nil {
		h.log.Error("scope generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to generate project scope",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// RefineScope godoc
// @Summary     Refine a project scope
// @Description Applies feedback to a previously generated scope
// @Tags        scope
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.RefineScopeRequest true "Scope and feedback"
// @Success     200 {object} models.ProjectScope
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/projects/refine-scope [post]
func (h *ScopeHandler) RefineScope(c *gin.Context) {
	var req models.RefineScopeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Feedback) == "" {
		badRequest(c, "Scope and feedback are required")
		return
	}

	result, err := h.generator.Refine(c.Request.Context(), &req.Scope, strings.TrimSpace(req.Feedback))
	if err != nil {
		h.log.Error("scope refinement failed", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to refine project scope",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
