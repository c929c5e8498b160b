package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"appforge-backend/internal/logger"
	"appforge-backend/internal/models"
	"appforge-backend/internal/supabase"
)

// ProjectService covers project records and their read models.
type ProjectService struct {
	store   Store
	archive *ArchiveService
	log     *logger.Logger
}

func NewProjectService(store Store, archive *ArchiveService, log *logger.Logger) *ProjectService {
	if log == nil {
		log = logger.Nop()
	}
	return &ProjectService{
		store:   store,
		archive: archive,
		log:     log.With("service", "ProjectService"),
	}
}

// Create persists a reviewed scope as a draft project. The user's ledger
// row is created on first use.
func (s *ProjectService) Create(ctx context.Context, userID uuid.UUID, email string, req models.CreateProjectRequest) (*models.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ValidationError("Project name is required")
	}

	if err := s.store.EnsureUser(ctx, userID, email); err != nil {
		return nil, InternalError(err)
	}

	scope := req.Scope
	scope.Normalize()

	project := &models.Project{
		UserID:              userID,
		Name:                name,
		Description:         scope.ExpandedDescription,
		OriginalPrompt:      req.OriginalPrompt,
		ExpandedDescription: scope.ExpandedDescription,
		TodoList:            scope.TodoCategories,
		AppType:             string(scope.AppType),
		Complexity:          string(scope.Complexity),
		TechStack:           scope.TechStack,
	}
	if err := s.store.CreateProject(ctx, project); err != nil {
		return nil, InternalError(err)
	}
	s.log.Info("project created", "project_id", project.ID, "user_id", userID)
	return project, nil
}

func (s *ProjectService) List(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	projects, err := s.store.ListProjects(ctx, userID)
	if err != nil {
		return nil, InternalError(err)
	}
	return projects, nil
}

// Get returns the project with its latest build, which may be nil.
func (s *ProjectService) Get(ctx context.Context, userID, projectID uuid.UUID) (*models.Project, *models.Build, error) {
	project, err := loadProject(ctx, s.store, userID, projectID)
	if err != nil {
		return nil, nil, err
	}
	latest, err := s.store.GetLatestBuild(ctx, projectID)
	if err != nil && !errors.Is(err, supabase.ErrNotFound) {
		return nil, nil, InternalError(err)
	}
	return project, latest, nil
}

func (s *ProjectService) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	if _, err := loadProject(ctx, s.store, userID, projectID); err != nil {
		return err
	}
	if err := s.store.DeleteProject(ctx, projectID, userID); err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return NotFoundError("Project not found")
		}
		return InternalError(err)
	}
	if s.archive != nil {
		_ = s.archive.DeleteProject(ctx, userID, projectID)
	}
	return nil
}

func (s *ProjectService) Files(ctx context.Context, userID, projectID uuid.UUID) ([]models.ProjectFile, error) {
	if _, err := loadProject(ctx, s.store, userID, projectID); err != nil {
		return nil, err
	}
	files, err := s.store.ListFiles(ctx, projectID)
	if err != nil {
		return nil, InternalError(err)
	}
	return files, nil
}

func (s *ProjectService) Builds(ctx context.Context, userID, projectID uuid.UUID) ([]models.Build, error) {
	if _, err := loadProject(ctx, s.store, userID, projectID); err != nil {
		return nil, err
	}
	builds, err := s.store.ListBuilds(ctx, projectID)
	if err != nil {
		return nil, InternalError(err)
	}
	return builds, nil
}

// BuildFiles returns the archived file set of a past build.
func (s *ProjectService) BuildFiles(ctx context.Context, userID, projectID uuid.UUID, buildNumber int) (*models.CodeGenerationResult, error) {
	if _, err := loadProject(ctx, s.store, userID, projectID); err != nil {
		return nil, err
	}
	archive, err := s.archive.LoadBuild(ctx, userID, projectID, buildNumber)
	if err != nil {
		return nil, err
	}
	if archive.Result == nil {
		return nil, NotFoundError("Build archive not found")
	}
	return archive.Result, nil
}

func (s *ProjectService) ChatHistory(ctx context.Context, userID, projectID uuid.UUID) ([]models.ChatMessage, error) {
	if _, err := loadProject(ctx, s.store, userID, projectID); err != nil {
		return nil, err
	}
	messages, err := s.store.ListChatMessages(ctx, projectID)
	if err != nil {
		return nil, InternalError(err)
	}
	return messages, nil
}

func (s *ProjectService) PreviewBundle(ctx context.Context, userID, projectID uuid.UUID) (*models.PreviewBundleResponse, error) {
	project, err := loadProject(ctx, s.store, userID, projectID)
	if err != nil {
		return nil, err
	}
	files, err := s.store.ListFiles(ctx, projectID)
	if err != nil {
		return nil, InternalError(err)
	}
	if len(files) == 0 {
		return nil, NotFoundError("No files found. Please generate code first.")
	}
	bundle := NewPreviewBundle(project, models.ToGenerated(files))
	return &bundle, nil
}
