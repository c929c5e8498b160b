package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"appforge-backend/internal/models"
	"appforge-backend/internal/supabase"
)

// Store is the persistence the services need. *supabase.DatabaseClient
// implements it.
type Store interface {
	EnsureUser(ctx context.Context, userID uuid.UUID, email string) error
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)

	CreateProject(ctx context.Context, p *models.Project) error
	GetProject(ctx context.Context, projectID, userID uuid.UUID) (*models.Project, error)
	ListProjects(ctx context.Context, userID uuid.UUID) ([]models.Project, error)
	DeleteProject(ctx context.Context, projectID, userID uuid.UUID) error

	StartBuild(ctx context.Context, projectID uuid.UUID, aiModel string) (*models.Build, error)
	CompleteBuild(ctx context.Context, c models.BuildCompletion) (int, error)
	FailBuild(ctx context.Context, projectID, buildID uuid.UUID, errorMessage string, buildTimeSeconds int) error
	GetLatestBuild(ctx context.Context, projectID uuid.UUID) (*models.Build, error)
	ListBuilds(ctx context.Context, projectID uuid.UUID) ([]models.Build, error)

	ListFiles(ctx context.Context, projectID uuid.UUID) ([]models.ProjectFile, error)

	AddChatMessage(ctx context.Context, m *models.ChatMessage) error
	ListRecentChatMessages(ctx context.Context, projectID uuid.UUID, limit int) ([]models.ChatMessage, error)
	ListChatMessages(ctx context.Context, projectID uuid.UUID) ([]models.ChatMessage, error)

	MarkDeployed(ctx context.Context, rec models.DeploymentRecord) error

	ListDomains(ctx context.Context, projectID uuid.UUID) ([]models.CustomDomain, error)
	GetDomain(ctx context.Context, domainID uuid.UUID) (*models.CustomDomain, error)
	DomainExists(ctx context.Context, domain string) (bool, error)
	CreateDomain(ctx context.Context, d *models.CustomDomain) error
	UpdateDomainStatus(ctx context.Context, domainID uuid.UUID, status models.DomainStatus) error
	MarkDomainVerified(ctx context.Context, d *models.CustomDomain) error
	DeleteDomain(ctx context.Context, d *models.CustomDomain) error
}

var _ Store = (*supabase.DatabaseClient)(nil)

// EventPublisher pushes project events to subscribed clients.
type EventPublisher interface {
	Publish(ctx context.Context, event models.ProjectEvent) error
}

// loadProject resolves an owned project or returns a 404 service error.
func loadProject(ctx context.Context, store Store, userID, projectID uuid.UUID) (*models.Project, error) {
	project, err := store.GetProject(ctx, projectID, userID)
	if errors.Is(err, supabase.ErrNotFound) {
		return nil, NotFoundError("Project not found")
	}
	if err != nil {
		return nil, InternalError(err)
	}
	return project, nil
}

func loadUser(ctx context.Context, store Store, userID uuid.UUID) (*models.User, error) {
	user, err := store.GetUser(ctx, userID)
	if errors.Is(err, supabase.ErrNotFound) {
		return nil, NotFoundError("User not found")
	}
	if err != nil {
		return nil, InternalError(err)
	}
	return user, nil
}
