package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"appforge-backend/internal/models"
)

func TestCodeGenerationResult_NormalizeCollapsesDuplicatePaths(t *testing.T) {
	result := models.CodeGenerationResult{
		Files: []models.GeneratedFile{
			{Path: "app/page.tsx", Content: "v1", Type: models.FileTypePage},
			{Path: "package.json", Content: "{}", Type: models.FileTypeConfig},
			{Path: "app/page.tsx", Content: "v2", Type: models.FileTypePage},
		},
	}

	result.Normalize()

	assert.Len(t, result.Files, 2)
	assert.Equal(t, "app/page.tsx", result.Files[0].Path)
	assert.Equal(t, "v2", result.Files[0].Content)
	assert.Equal(t, "package.json", result.Files[1].Path)
	assert.NotNil(t, result.Dependencies)
	assert.NotNil(t, result.EnvVariables)
}

func TestProjectScope_Normalize(t *testing.T) {
	scope := models.ProjectScope{TodoCategories: []models.TodoCategory{{Name: "Setup"}}}

	scope.Normalize()

	assert.Equal(t, []string{}, scope.TechStack)
	assert.Equal(t, []models.TodoItem{}, scope.TodoCategories[0].Items)
}

func TestProjectStatus_Deployable(t *testing.T) {
	assert.True(t, models.ProjectStatusReady.Deployable())
	assert.True(t, models.ProjectStatusDeployed.Deployable())
	assert.False(t, models.ProjectStatusBuilding.Deployable())
	assert.False(t, models.ProjectStatusDraft.Deployable())
	assert.False(t, models.ProjectStatusFailed.Deployable())
}
