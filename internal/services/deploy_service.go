package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"appforge-backend/internal/logger"
	"appforge-backend/internal/models"
	"appforge-backend/internal/supabase"
	"appforge-backend/internal/vercel"
)

// Hosting is implemented by *vercel.Deployer.
type Hosting interface {
	Deploy(ctx context.Context, projectName string, files []models.GeneratedFile, envVars map[string]string) vercel.DeploymentResult
	AddCustomDomain(ctx context.Context, projectID, domain string) vercel.DomainResult
	VerifyCustomDomain(ctx context.Context, projectID, domain string) vercel.VerifyResult
	GetDomainConfig(ctx context.Context, projectID, domain string) (map[string]interface{}, error)
	RemoveCustomDomain(ctx context.Context, projectID, domain string) vercel.DomainResult
}

var _ Hosting = (*vercel.Deployer)(nil)

type DeployService struct {
	store   Store
	hosting Hosting
	events  EventPublisher
	log     *logger.Logger
}

func NewDeployService(store Store, hosting Hosting, events EventPublisher, log *logger.Logger) *DeployService {
	if log == nil {
		log = logger.Nop()
	}
	return &DeployService{
		store:   store,
		hosting: hosting,
		events:  events,
		log:     log.With("service", "DeployService"),
	}
}

// Deploy ships the project's current file set as a preview deployment. A
// failed deployment leaves the project untouched.
func (s *DeployService) Deploy(ctx context.Context, userID, projectID uuid.UUID) (*vercel.DeploymentResult, error) {
	project, err := loadProject(ctx, s.store, userID, projectID)
	if err != nil {
		return nil, err
	}
	if !project.Status.Deployable() {
		return nil, ValidationError("Project must be built before deployment")
	}

	files, err := s.store.ListFiles(ctx, projectID)
	if err != nil {
		return nil, InternalError(err)
	}
	if len(files) == 0 {
		return nil, NotFoundError("No generated files found for this project")
	}

	result := s.hosting.Deploy(ctx, project.Name, models.ToGenerated(files), PlaceholderEnv(project.EnvVariables))
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "Deployment failed"
		}
		s.publish(ctx, project, supabase.EventDeployFailed, supabase.DeployFailedPayload(msg))
		return nil, DeploymentError(msg)
	}

	rec := models.DeploymentRecord{
		ProjectID:       projectID,
		VercelProjectID: result.ProjectID,
		PreviewURL:      result.PreviewURL,
		ProductionURL:   result.ProductionURL,
		Environment:     "preview",
	}
	latest, err := s.store.GetLatestBuild(ctx, projectID)
	switch {
	case err == nil:
		rec.BuildID = uuid.NullUUID{UUID: latest.ID, Valid: true}
	case !errors.Is(err, supabase.ErrNotFound):
		s.log.Warn("failed to load latest build", "project_id", projectID, "error", err)
	}

	// The deployment is live at this point; a failed write is logged and the
	// URLs are still returned.
	if err := s.store.MarkDeployed(ctx, rec); err != nil {
		s.log.Error("failed to record deployment", "project_id", projectID, "error", err)
	}
	s.publish(ctx, project, supabase.EventDeployCompleted, supabase.DeployCompletedPayload(result.PreviewURL, result.ProductionURL))

	return &result, nil
}

// PlaceholderEnv maps every declared variable name to <NAME_VALUE> for the
// user to replace in the hosting dashboard.
func PlaceholderEnv(names []string) map[string]string {
	env := make(map[string]string, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		env[name] = "<" + name + "_VALUE>"
	}
	return env
}

func (s *DeployService) publish(ctx context.Context, project *models.Project, event string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, models.ProjectEvent{
		ProjectID: project.ID,
		UserID:    project.UserID,
		Event:     event,
		Payload:   payload,
	}); err != nil {
		s.log.Warn("failed to publish project event", "project_id", project.ID, "event", event, "error", err)
	}
}
