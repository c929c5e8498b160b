package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"appforge-backend/internal/models"
)

// GetFiles godoc
// @Summary     Get project files
// @Description Returns the project's current generated file set
// @Tags        files
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID"
// @Success     200 {object} models.FilesResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/projects/{project_id}/files [get]
func (h *ProjectsHandler) GetFiles(c *gin.Context) {
	userID, projectID, ok := h.projectParams(c)
	if !ok {
		return
	}

	files, err := h.projects.Files(c.Request.Context(), userID, projectID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := models.FilesResponse{Files: make([]models.FileResponse, len(files))}
	for i, f := range files {
		resp.Files[i] = models.FileResponse{
			ID:        f.ID.String(),
			Path:      f.FilePath,
			Content:   f.FileContent,
			Type:      f.FileType,
			CreatedAt: f.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// ListBuilds godoc
// @Summary     List builds
// @Description Returns the build history, newest first
// @Tags        files
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID"
// @Success     200 {array}  models.BuildResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/projects/{project_id}/builds [get]
func (h *ProjectsHandler) ListBuilds(c *gin.Context) {
	userID, projectID, ok := h.projectParams(c)
	if !ok {
		return
	}

	builds, err := h.projects.Builds(c.Request.Context(), userID, projectID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := make([]models.BuildResponse, len(builds))
	for i := range builds {
		resp[i] = models.NewBuildResponse(&builds[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetBuildFiles godoc
// @Summary     Get archived build files
// @Description Returns the file set committed by one build
// @Tags        files
// @Produce     json
// @Security    Bearer
// @Param       project_id   path string true "Project ID"
// @Param       build_number path int    true "Build number"
// @Success     200 {object} models.CodeGenerationResult
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/projects/{project_id}/builds/{build_number}/files [get]
func (h *ProjectsHandler) GetBuildFiles(c *gin.Context) {
	userID, projectID, ok := h.projectParams(c)
	if !ok {
		return
	}
	buildNumber, err := strconv.Atoi(c.Param("build_number"))
	if err != nil || buildNumber < 1 {
		badRequest(c, "Invalid build number")
		return
	}

	result, err := h.projects.BuildFiles(c.Request.Context(), userID, projectID, buildNumber)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPreviewBundle godoc
// @Summary     Get preview bundle
// @Description Returns the file set packaged for an in-browser sandbox
// @Tags        files
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID"
// @Success     200 {object} models.PreviewBundleResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/projects/{project_id}/preview [get]
func (h *ProjectsHandler) GetPreviewBundle(c *gin.Context) {
	userID, projectID, ok := h.projectParams(c)
	if !ok {
		return
	}

	bundle, err := h.projects.PreviewBundle(c.Request.Context(), userID, projectID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, bundle)
}
