package supabase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"appforge-backend/internal/models"
	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

// StorageClient keeps an immutable JSON archive of every successful build in
// Supabase Storage. The project_files table only holds the latest file set.
type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

// BuildArchive is the object stored for one build.
type BuildArchive struct {
	ProjectID   uuid.UUID                    `json:"projectId"`
	BuildNumber int                          `json:"buildNumber"`
	Result      *models.CodeGenerationResult `json:"result"`
}

func NewStorageClient(supabaseURL, serviceRoleKey, bucket string) (*StorageClient, error) {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

func projectPrefix(userID, projectID uuid.UUID) string {
	return fmt.Sprintf("users/%s/projects/%s/builds/", userID.String(), projectID.String())
}

// ArchivePath is users/{user_id}/projects/{project_id}/builds/{n}.json.
func ArchivePath(userID, projectID uuid.UUID, buildNumber int) string {
	return fmt.Sprintf("%s%d.json", projectPrefix(userID, projectID), buildNumber)
}

func (s *StorageClient) UploadBuildArchive(userID, projectID uuid.UUID, buildNumber int, result *models.CodeGenerationResult) (string, error) {
	data, err := json.Marshal(BuildArchive{
		ProjectID:   projectID,
		BuildNumber: buildNumber,
		Result:      result,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode build archive: %w", err)
	}

	storagePath := ArchivePath(userID, projectID, buildNumber)
	contentType := "application/json"
	upsert := true
	_, err = s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload build archive: %w", err)
	}
	return storagePath, nil
}

func (s *StorageClient) DownloadBuildArchive(userID, projectID uuid.UUID, buildNumber int) (*BuildArchive, error) {
	data, err := s.client.DownloadFile(s.bucket, ArchivePath(userID, projectID, buildNumber))
	if err != nil {
		return nil, fmt.Errorf("failed to download build archive: %w", err)
	}

	var archive BuildArchive
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("failed to decode build archive: %w", err)
	}
	if archive.Result != nil {
		archive.Result.Normalize()
	}
	return &archive, nil
}

// DeleteProjectFiles removes every archived build of a project.
func (s *StorageClient) DeleteProjectFiles(userID, projectID uuid.UUID) error {
	prefix := projectPrefix(userID, projectID)

	files, err := s.client.ListFiles(s.bucket, prefix, storage.FileSearchOptions{
		Limit: 1000,
	})
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	if len(files) > 0 {
		filePaths := make([]string, len(files))
		for i, file := range files {
			filePaths[i] = prefix + file.Name
		}
		if _, err := s.client.RemoveFile(s.bucket, filePaths); err != nil {
			return fmt.Errorf("failed to delete files: %w", err)
		}
	}

	return nil
}
