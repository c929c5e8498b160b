package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"appforge-backend/internal/handlers"
	"appforge-backend/internal/middleware"
	"appforge-backend/internal/models"
	"appforge-backend/internal/services"
	"appforge-backend/internal/vercel"
)

type mockScope struct{ mock.Mock }

func (m *mockScope) Generate(ctx context.Context, description string) (*models.ProjectScope, error) {
	args := m.Called(ctx, description)
	s, _ := args.Get(0).(*models.ProjectScope)
	return s, args.Error(1)
}

func (m *mockScope) Refine(ctx context.Context, original *models.ProjectScope, feedback string) (*models.ProjectScope, error) {
	args := m.Called(ctx, original, feedback)
	s, _ := args.Get(0).(*models.ProjectScope)
	return s, args.Error(1)
}

type mockProjects struct{ mock.Mock }

func (m *mockProjects) Create(ctx context.Context, userID uuid.UUID, email string, req models.CreateProjectRequest) (*models.Project, error) {
	args := m.Called(ctx, userID, email, req)
	p, _ := args.Get(0).(*models.Project)
	return p, args.Error(1)
}

func (m *mockProjects) List(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).([]models.Project)
	return p, args.Error(1)
}

func (m *mockProjects) Get(ctx context.Context, userID, projectID uuid.UUID) (*models.Project, *models.Build, error) {
	args := m.Called(ctx, userID, projectID)
	p, _ := args.Get(0).(*models.Project)
	b, _ := args.Get(1).(*models.Build)
	return p, b, args.Error(2)
}

func (m *mockProjects) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	return m.Called(ctx, userID, projectID).Error(0)
}

func (m *mockProjects) Files(ctx context.Context, userID, projectID uuid.UUID) ([]models.ProjectFile, error) {
	args := m.Called(ctx, userID, projectID)
	f, _ := args.Get(0).([]models.ProjectFile)
	return f, args.Error(1)
}

func (m *mockProjects) Builds(ctx context.Context, userID, projectID uuid.UUID) ([]models.Build, error) {
	args := m.Called(ctx, userID, projectID)
	b, _ := args.Get(0).([]models.Build)
	return b, args.Error(1)
}

func (m *mockProjects) BuildFiles(ctx context.Context, userID, projectID uuid.UUID, buildNumber int) (*models.CodeGenerationResult, error) {
	args := m.Called(ctx, userID, projectID, buildNumber)
	r, _ := args.Get(0).(*models.CodeGenerationResult)
	return r, args.Error(1)
}

func (m *mockProjects) ChatHistory(ctx context.Context, userID, projectID uuid.UUID) ([]models.ChatMessage, error) {
	args := m.Called(ctx, userID, projectID)
	msgs, _ := args.Get(0).([]models.ChatMessage)
	return msgs, args.Error(1)
}

func (m *mockProjects) PreviewBundle(ctx context.Context, userID, projectID uuid.UUID) (*models.PreviewBundleResponse, error) {
	args := m.Called(ctx, userID, projectID)
	b, _ := args.Get(0).(*models.PreviewBundleResponse)
	return b, args.Error(1)
}

type mockBuilds struct{ mock.Mock }

func (m *mockBuilds) Generate(ctx context.Context, userID, projectID uuid.UUID) (*services.GenerateOutcome, error) {
	args := m.Called(ctx, userID, projectID)
	o, _ := args.Get(0).(*services.GenerateOutcome)
	return o, args.Error(1)
}

func (m *mockBuilds) Refine(ctx context.Context, userID, projectID uuid.UUID, message string) (*services.RefineOutcome, error) {
	args := m.Called(ctx, userID, projectID, message)
	o, _ := args.Get(0).(*services.RefineOutcome)
	return o, args.Error(1)
}

type mockDeployer struct{ mock.Mock }

func (m *mockDeployer) Deploy(ctx context.Context, userID, projectID uuid.UUID) (*vercel.DeploymentResult, error) {
	args := m.Called(ctx, userID, projectID)
	r, _ := args.Get(0).(*vercel.DeploymentResult)
	return r, args.Error(1)
}

type mockDomains struct{ mock.Mock }

func (m *mockDomains) List(ctx context.Context, userID, projectID uuid.UUID) ([]models.CustomDomain, error) {
	args := m.Called(ctx, userID, projectID)
	d, _ := args.Get(0).([]models.CustomDomain)
	return d, args.Error(1)
}

func (m *mockDomains) Add(ctx context.Context, userID, projectID uuid.UUID, domain string) (*services.AddDomainOutcome, error) {
	args := m.Called(ctx, userID, projectID, domain)
	o, _ := args.Get(0).(*services.AddDomainOutcome)
	return o, args.Error(1)
}

func (m *mockDomains) Verify(ctx context.Context, userID, domainID uuid.UUID) (*services.VerifyDomainOutcome, error) {
	args := m.Called(ctx, userID, domainID)
	o, _ := args.Get(0).(*services.VerifyDomainOutcome)
	return o, args.Error(1)
}

func (m *mockDomains) Remove(ctx context.Context, userID, domainID uuid.UUID) error {
	return m.Called(ctx, userID, domainID).Error(0)
}

type apiFixture struct {
	userID   uuid.UUID
	scope    *mockScope
	projects *mockProjects
	builds   *mockBuilds
	deployer *mockDeployer
	domains  *mockDomains
	router   *gin.Engine
}

// newAPI mounts the API behind a stub that authenticates every request as
// f.userID, or leaves it anonymous when authenticated is false.
func newAPI(t *testing.T, authenticated bool) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &apiFixture{
		userID:   uuid.New(),
		scope:    &mockScope{},
		projects: &mockProjects{},
		builds:   &mockBuilds{},
		deployer: &mockDeployer{},
		domains:  &mockDomains{},
		router:   gin.New(),
	}

	api := f.router.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		if authenticated {
			c.Set(middleware.UserIDKey, f.userID.String())
			c.Set(middleware.UserEmailKey, "dev@example.com")
		}
		c.Next()
	})
	handlers.RegisterRoutes(api, handlers.Handlers{
		Scope:    handlers.NewScopeHandler(f.scope, nil),
		Projects: handlers.NewProjectsHandler(f.projects, nil),
		Builds:   handlers.NewBuildsHandler(f.builds, nil),
		Deploy:   handlers.NewDeployHandler(f.deployer, nil),
		Domains:  handlers.NewDomainsHandler(f.domains, nil),
	})
	return f
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	return decode[models.ErrorResponse](t, w).Error
}
