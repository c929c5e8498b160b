package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"appforge-backend/internal/logger"
	"appforge-backend/internal/models"
	"appforge-backend/internal/supabase"
)

// ArchiveStorage is implemented by *supabase.StorageClient.
type ArchiveStorage interface {
	UploadBuildArchive(userID, projectID uuid.UUID, buildNumber int, result *models.CodeGenerationResult) (string, error)
	DownloadBuildArchive(userID, projectID uuid.UUID, buildNumber int) (*supabase.BuildArchive, error)
	DeleteProjectFiles(userID, projectID uuid.UUID) error
}

var _ ArchiveStorage = (*supabase.StorageClient)(nil)

var defaultBackoffs = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

// ArchiveService stores a copy of every successful build outside the
// database. Failures are logged and never undo a committed build.
type ArchiveService struct {
	storage  ArchiveStorage
	backoffs []time.Duration
	log      *logger.Logger
}

// NewArchiveService returns a service retrying with backoffs between attempts
// (1s, 2s, 4s when none are given). A nil storage disables archiving.
func NewArchiveService(storage ArchiveStorage, log *logger.Logger, backoffs ...time.Duration) *ArchiveService {
	if log == nil {
		log = logger.Nop()
	}
	if len(backoffs) == 0 {
		backoffs = defaultBackoffs
	}
	return &ArchiveService{
		storage:  storage,
		backoffs: backoffs,
		log:      log.With("service", "ArchiveService"),
	}
}

func (s *ArchiveService) ArchiveBuild(ctx context.Context, userID, projectID uuid.UUID, buildNumber int, result *models.CodeGenerationResult) error {
	if s == nil || s.storage == nil {
		return nil
	}
	var path string
	err := RetryWithBackoff(ctx, func() error {
		var err error
		path, err = s.storage.UploadBuildArchive(userID, projectID, buildNumber, result)
		return err
	}, s.backoffs, len(s.backoffs))
	if err != nil {
		s.log.Warn("failed to archive build", "project_id", projectID, "build_number", buildNumber, "error", err)
		return err
	}
	s.log.Debug("build archived", "project_id", projectID, "build_number", buildNumber, "path", path)
	return nil
}

// LoadBuild returns the archived file set of one build.
func (s *ArchiveService) LoadBuild(ctx context.Context, userID, projectID uuid.UUID, buildNumber int) (*supabase.BuildArchive, error) {
	if s == nil || s.storage == nil {
		return nil, NotFoundError("Build archive not available")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	archive, err := s.storage.DownloadBuildArchive(userID, projectID, buildNumber)
	if err != nil {
		s.log.Warn("failed to load build archive", "project_id", projectID, "build_number", buildNumber, "error", err)
		return nil, NotFoundError("Build archive not found")
	}
	return archive, nil
}

func (s *ArchiveService) DeleteProject(ctx context.Context, userID, projectID uuid.UUID) error {
	if s == nil || s.storage == nil {
		return nil
	}
	err := RetryWithBackoff(ctx, func() error {
		return s.storage.DeleteProjectFiles(userID, projectID)
	}, s.backoffs, len(s.backoffs))
	if err != nil {
		s.log.Warn("failed to delete build archives", "project_id", projectID, "error", err)
	}
	return err
}

// RetryWithBackoff calls fn up to maxRetries times, sleeping backoffs[i]
// after the i-th failure. It stops early when ctx is done.
func RetryWithBackoff(ctx context.Context, fn func() error, backoffs []time.Duration, maxRetries int) error {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if i == maxRetries-1 || i >= len(backoffs) {
			continue
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		case <-time.After(backoffs[i]):
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
