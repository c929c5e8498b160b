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
	"appforge-backend/internal/vercel"
)

// ProjectDeployer is implemented by *services.DeployService.
type ProjectDeployer interface {
	Deploy(ctx context.Context, userID, projectID uuid.UUID) (*vercel.DeploymentResult, error)
}

var _ ProjectDeployer = (*services.DeployService)(nil)

type DeployHandler struct {
	deployer ProjectDeployer
	log      *logger.Logger
}

func NewDeployHandler(deployer ProjectDeployer, log *logger.Logger) *DeployHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &DeployHandler{deployer: deployer, log: log.With("handler", "deploy")}
}

// Deploy godoc
// @Summary     Deploy a project
// @Description Ships the current file set to Vercel and waits for the deployment to finish
// @Tags        deploy
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.DeployRequest true "Project"
// @Success     200 {object} models.DeployResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/projects/deploy [post]
func (h *DeployHandler) Deploy(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.DeployRequest
	_ = c.ShouldBindJSON(&req)
	projectID, ok := parseID(c, strings.TrimSpace(req.ProjectID), "Project ID")
	if !ok {
		return
	}

	result, err := h.deployer.Deploy(c.Request.Context(), userID, projectID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.DeployResponse{
		Success:       true,
		PreviewURL:    result.PreviewURL,
		ProductionURL: result.ProductionURL,
	})
}
