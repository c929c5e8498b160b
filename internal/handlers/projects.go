package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"appforge-backend/internal/logger"
	"appforge-backend/internal/middleware"
	"appforge-backend/internal/models"
	"appforge-backend/internal/services"
)

// ProjectManager is implemented by *services.ProjectService.
type ProjectManager interface {
	Create(ctx context.Context, userID uuid.UUID, email string, req models.CreateProjectRequest) (*models.Project, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Project, error)
	Get(ctx context.Context, userID, projectID uuid.UUID) (*models.Project, *models.Build, error)
	Delete(ctx context.Context, userID, projectID uuid.UUID) error
	Files(ctx context.Context, userID, projectID uuid.UUID) ([]models.ProjectFile, error)
	Builds(ctx context.Context, userID, projectID uuid.UUID) ([]models.Build, error)
	BuildFiles(ctx context.Context, userID, projectID uuid.UUID, buildNumber int) (*models.CodeGenerationResult, error)
	ChatHistory(ctx context.Context, userID, projectID uuid.UUID) ([]models.ChatMessage, error)
	PreviewBundle(ctx context.Context, userID, projectID uuid.UUID) (*models.PreviewBundleResponse, error)
}

var _ ProjectManager = (*services.ProjectService)(nil)

type ProjectsHandler struct {
	projects ProjectManager
	log      *logger.Logger
}

func NewProjectsHandler(projects ProjectManager, log *logger.Logger) *ProjectsHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ProjectsHandler{projects: projects, log: log.With("handler", "projects")}
}

// CreateProject godoc
// @Summary     Create a project
// @Description Persists a reviewed scope as a draft project
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreateProjectRequest true "Project"
// @Success     201 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /api/v1/projects [post]
func (h *ProjectsHandler) CreateProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Project name is required")
		return
	}

	project, err := h.projects.Create(c.Request.Context(), userID, middleware.UserEmail(c), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, models.NewProjectResponse(project, nil))
}

// ListProjects godoc
// @Summary     List projects
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.ProjectListResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /api/v1/projects [get]
func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	projects, err := h.projects.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := models.ProjectListResponse{Projects: make([]models.ProjectResponse, len(projects))}
	for i := range projects {
		resp.Projects[i] = models.NewProjectResponse(&projects[i], nil)
	}
	c.JSON(http.StatusOK, resp)
}

// GetProject godoc
// @Summary     Get a project
// @Description Returns one project with its latest build
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID"
// @Success     200 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/projects/{project_id} [get]
func (h *ProjectsHandler) GetProject(c *gin.Context) {
	userID, projectID, ok := h.projectParams(c)
	if !ok {
		return
	}

	project, latest, err := h.projects.Get(c.Request.Context(), userID, projectID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.NewProjectResponse(project, latest))
}

// DeleteProject godoc
// @Summary     Delete a project
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID"
// @Success     200 {object} models.SuccessResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/projects/{project_id} [delete]
func (h *ProjectsHandler) DeleteProject(c *gin.Context) {
	userID, projectID, ok := h.projectParams(c)
	if !ok {
		return
	}

	if err := h.projects.Delete(c.Request.Context(), userID, projectID); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

// GetChatHistory godoc
// @Summary     Chat history
// @Description Returns the refinement conversation, oldest first
// @Tags        chat
// @Produce     json
// @Security    Bearer
// @Param       projectId query string true "Project ID"
// @Success     200 {object} models.ChatHistoryResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/projects/chat [get]
func (h *ProjectsHandler) GetChatHistory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := parseID(c, c.Query("projectId"), "Project ID")
	if !ok {
		return
	}

	messages, err := h.projects.ChatHistory(c.Request.Context(), userID, projectID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := models.ChatHistoryResponse{Success: true, Messages: make([]models.ChatMessageResponse, len(messages))}
	for i := range messages {
		resp.Messages[i] = models.NewChatMessageResponse(&messages[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProjectsHandler) projectParams(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	projectID, ok := parseID(c, c.Param("project_id"), "Project ID")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return userID, projectID, true
}
