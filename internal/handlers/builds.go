package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"appforge-backend/internal/logger"
	"appforge-backend/internal/models"
	"appforge-backend/internal/services"
)

// BuildRunner is implemented by *services.Ledger.
type BuildRunner interface {
	Generate(ctx context.Context, userID, projectID uuid.UUID) (*services.GenerateOutcome, error)
	Refine(ctx context.Context, userID, projectID uuid.UUID, message string) (*services.RefineOutcome, error)
}

var _ BuildRunner = (*services.Ledger)(nil)

type BuildsHandler struct {
	builds BuildRunner
	log    *logger.Logger
}

func NewBuildsHandler(builds BuildRunner, log *logger.Logger) *BuildsHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &BuildsHandler{builds: builds, log: log.With("handler", "builds")}
}

// GenerateCode godoc
// @Summary     Generate code
// @Description Generates the full file set for a project and charges the build
// @Tags        builds
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.GenerateCodeRequest true "Project"
// @Success     200 {object} models.GenerateCodeResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     402 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/projects/generate-code [post]
func (h *BuildsHandler) GenerateCode(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.GenerateCodeRequest
	_ = c.ShouldBindJSON(&req)
	projectID, ok := parseID(c, strings.TrimSpace(req.ProjectID), "Project ID")
	if !ok {
		return
	}

	out, err := h.builds.Generate(c.Request.Context(), userID, projectID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.GenerateCodeResponse{
		Success:          true,
		BuildID:          out.Build.ID.String(),
		FilesCount:       len(out.Result.Files),
		Structure:        out.Result.Structure,
		BuildTimeSeconds: out.BuildTimeSeconds,
	})
}

// Chat godoc
// @Summary     Refine code through chat
// @Description Applies a chat message to the current file set as a new build
// @Tags        chat
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.ChatRequest true "Message"
// @Success     200 {object} models.ChatResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     402 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/projects/chat [post]
func (h *BuildsHandler) Chat(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.ChatRequest
	_ = c.ShouldBindJSON(&req)
	message := strings.TrimSpace(req.Message)
	if strings.TrimSpace(req.ProjectID) == "" || message == "" {
		badRequest(c, "Project ID and message are required")
		return
	}
	projectID, ok := parseID(c, strings.TrimSpace(req.ProjectID), "Project ID")
	if !ok {
		return
	}

	out, err := h.builds.Refine(c.Request.Context(), userID, projectID, message)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{
		Success:         true,
		Response:        out.Response,
		FilesUpdated:    len(out.Result.Files),
		TokensUsed:      out.TokensUsed,
		TokensRemaining: out.TokensRemaining,
	})
}
