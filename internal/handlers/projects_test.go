package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"appforge-backend/internal/models"
	"appforge-backend/internal/services"
)

func TestCreateProject(t *testing.T) {
	api := newAPI(t, true)
	projectID := uuid.New()

	api.projects.On("Create", mock.Anything, api.userID, "dev@example.com",
		mock.MatchedBy(func(req models.CreateProjectRequest) bool {
			return req.Name == "Studio Booking" && req.Scope.AppType == models.AppTypeSaaS
		}),
	).Return(&models.Project{
		ID:      projectID,
		UserID:  api.userID,
		Name:    "Studio Booking",
		AppType: string(models.AppTypeSaaS),
		Status:  models.ProjectStatusDraft,
	}, nil).Once()

	w := api.do(t, http.MethodPost, "/api/v1/projects", map[string]interface{}{
		"name":           "Studio Booking",
		"originalPrompt": bookingIdea,
		"scope":          models.ProjectScope{AppType: models.AppTypeSaaS},
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decode[models.ProjectResponse](t, w)
	assert.Equal(t, projectID.String(), resp.ID)
	assert.Equal(t, models.ProjectStatusDraft, resp.Status)
	assert.Nil(t, resp.LatestBuild)
	api.projects.AssertExpectations(t)
}

func TestCreateProject_RequiresName(t *testing.T) {
	api := newAPI(t, true)

	w := api.do(t, http.MethodPost, "/api/v1/projects", map[string]string{"originalPrompt": bookingIdea})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	api.projects.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetProject_IncludesLatestBuild(t *testing.T) {
	api := newAPI(t, true)
	projectID := uuid.New()
	api.projects.On("Get", mock.Anything, api.userID, projectID).Return(
		&models.Project{ID: projectID, Name: "Studio Booking", Status: models.ProjectStatusReady},
		&models.Build{ID: uuid.New(), BuildNumber: 3, Status: models.BuildStatusSuccess, StartedAt: time.Now()},
		nil,
	).Once()

	w := api.do(t, http.MethodGet, "/api/v1/projects/"+projectID.String(), nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.ProjectResponse](t, w)
	require.NotNil(t, resp.LatestBuild)
	assert.Equal(t, 3, resp.LatestBuild.BuildNumber)
}

func TestGetProject_Errors(t *testing.T) {
	api := newAPI(t, true)

	w := api.do(t, http.MethodGet, "/api/v1/projects/nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	api.projects.On("Get", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil, services.NotFoundError("Project not found")).Once()
	w = api.do(t, http.MethodGet, "/api/v1/projects/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Project not found", errorBody(t, w))
}

func TestDeleteProject(t *testing.T) {
	api := newAPI(t, true)
	projectID := uuid.New()
	api.projects.On("Delete", mock.Anything, api.userID, projectID).Return(nil).Once()

	w := api.do(t, http.MethodDelete, "/api/v1/projects/"+projectID.String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[models.SuccessResponse](t, w).Success)
	api.projects.AssertExpectations(t)
}

func TestListProjects(t *testing.T) {
	api := newAPI(t, true)
	api.projects.On("List", mock.Anything, api.userID).Return([]models.Project{
		{ID: uuid.New(), Name: "One"},
		{ID: uuid.New(), Name: "Two"},
	}, nil).Once()

	w := api.do(t, http.MethodGet, "/api/v1/projects", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.ProjectListResponse](t, w)
	require.Len(t, resp.Projects, 2)
	assert.Equal(t, "Two", resp.Projects[1].Name)
}

func TestGetFiles(t *testing.T) {
	api := newAPI(t, true)
	projectID := uuid.New()
	api.projects.On("Files", mock.Anything, api.userID, projectID).Return([]models.ProjectFile{
		{ID: uuid.New(), FilePath: "app/page.tsx", FileContent: "export default function Page() {}", FileType: models.FileTypePage},
	}, nil).Once()

	w := api.do(t, http.MethodGet, "/api/v1/projects/"+projectID.String()+"/files", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.FilesResponse](t, w)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "app/page.tsx", resp.Files[0].Path)
	assert.Equal(t, models.FileTypePage, resp.Files[0].Type)
}

func TestListBuilds(t *testing.T) {
	api := newAPI(t, true)
	projectID := uuid.New()
	api.projects.On("Builds", mock.Anything, api.userID, projectID).Return([]models.Build{
		{ID: uuid.New(), BuildNumber: 2, Status: models.BuildStatusFailed},
		{ID: uuid.New(), BuildNumber: 1, Status: models.BuildStatusSuccess},
	}, nil).Once()

	w := api.do(t, http.MethodGet, "/api/v1/projects/"+projectID.String()+"/builds", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[[]models.BuildResponse](t, w)
	require.Len(t, resp, 2)
	assert.Equal(t, models.BuildStatusFailed, resp[0].Status)
}

func TestGetBuildFiles(t *testing.T) {
	api := newAPI(t, true)
	projectID := uuid.New()

	for _, n := range []string{"zero", "0", "-1"} {
		w := api.do(t, http.MethodGet, "/api/v1/projects/"+projectID.String()+"/builds/"+n+"/files", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, n)
	}

	api.projects.On("BuildFiles", mock.Anything, api.userID, projectID, 2).Return(&models.CodeGenerationResult{
		Files:     []models.GeneratedFile{{Path: "index.html"}},
		Structure: "static",
	}, nil).Once()

	w := api.do(t, http.MethodGet, "/api/v1/projects/"+projectID.String()+"/builds/2/files", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "static", decode[models.CodeGenerationResult](t, w).Structure)
	api.projects.AssertExpectations(t)
}

func TestGetPreviewBundle(t *testing.T) {
	api := newAPI(t, true)
	projectID := uuid.New()
	api.projects.On("PreviewBundle", mock.Anything, api.userID, projectID).Return(&models.PreviewBundleResponse{
		Title:    "Studio Booking",
		Template: "node",
		Files:    map[string]string{"package.json": "{}"},
	}, nil).Once()

	w := api.do(t, http.MethodGet, "/api/v1/projects/"+projectID.String()+"/preview", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "node", decode[models.PreviewBundleResponse](t, w).Template)
}

func TestGetChatHistory(t *testing.T) {
	api := newAPI(t, true)
	projectID := uuid.New()

	w := api.do(t, http.MethodGet, "/api/v1/projects/chat", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Project ID is required", errorBody(t, w))

	api.projects.On("ChatHistory", mock.Anything, api.userID, projectID).Return([]models.ChatMessage{
		{ID: uuid.New(), Role: models.ChatRoleUser, Content: "make it blue"},
		{ID: uuid.New(), Role: models.ChatRoleAssistant, Content: "done", TokensUsed: 3000},
	}, nil).Once()

	w = api.do(t, http.MethodGet, "/api/v1/projects/chat?projectId="+projectID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.ChatHistoryResponse](t, w)
	assert.True(t, resp.Success)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, models.ChatRoleAssistant, resp.Messages[1].Role)
	assert.Equal(t, 3000, resp.Messages[1].TokensUsed)
}
