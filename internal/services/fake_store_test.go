package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"appforge-backend/internal/models"
	"appforge-backend/internal/supabase"
)

// fakeStore is an in-memory Store with the same transactional semantics as
// the Postgres implementation: CompleteBuild either applies fully or not at all.
type fakeStore struct {
	mu sync.Mutex

	users    map[uuid.UUID]*models.User
	projects map[uuid.UUID]*models.Project
	builds   map[uuid.UUID]*models.Build
	files    map[uuid.UUID][]models.ProjectFile
	chat     map[uuid.UUID][]models.ChatMessage
	usage    []models.UsageLog
	iters    []models.Iteration
	deploys  []models.DeploymentRecord
	domains  map[uuid.UUID]*models.CustomDomain

	// beforeComplete runs inside CompleteBuild before the debit, to simulate
	// a concurrent request spending credits.
	beforeComplete func(s *fakeStore)
	failComplete   error
	clock          time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[uuid.UUID]*models.User{},
		projects: map[uuid.UUID]*models.Project{},
		builds:   map[uuid.UUID]*models.Build{},
		files:    map[uuid.UUID][]models.ProjectFile{},
		chat:     map[uuid.UUID][]models.ChatMessage{},
		domains:  map[uuid.UUID]*models.CustomDomain{},
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *fakeStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *fakeStore) addUser(tokens int) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{ID: uuid.New(), Email: "dev@example.com", PlanType: "free", TokensRemaining: tokens}
	s.users[u.ID] = u
	return u
}

func (s *fakeStore) addProject(userID uuid.UUID, status models.ProjectStatus) *models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &models.Project{
		ID:                  uuid.New(),
		UserID:              userID,
		Name:                "Studio Booking",
		ExpandedDescription: "Booking app for yoga studios",
		AppType:             "saas",
		TechStack:           []string{"Next.js"},
		Status:              status,
		Dependencies:        map[string]string{},
		CreatedAt:           s.tick(),
	}
	s.projects[p.ID] = p
	return p
}

func (s *fakeStore) setFiles(projectID uuid.UUID, paths ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	files := make([]models.ProjectFile, len(paths))
	for i, p := range paths {
		files[i] = models.ProjectFile{ID: uuid.New(), ProjectID: projectID, FilePath: p, FileContent: "// " + p, FileType: models.FileTypeComponent}
	}
	s.files[projectID] = files
}

func (s *fakeStore) project(id uuid.UUID) models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.projects[id]
}

func (s *fakeStore) user(id uuid.UUID) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.users[id]
}

func (s *fakeStore) buildsFor(projectID uuid.UUID) []models.Build {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Build
	for _, b := range s.builds {
		if b.ProjectID == projectID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BuildNumber < out[j].BuildNumber })
	return out
}

func (s *fakeStore) EnsureUser(_ context.Context, userID uuid.UUID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		s.users[userID] = &models.User{ID: userID, Email: email, PlanType: "free", TokensRemaining: 50000}
	}
	return nil
}

func (s *fakeStore) GetUser(_ context.Context, userID uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, supabase.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeStore) CreateProject(_ context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.New()
	p.Status = models.ProjectStatusDraft
	p.CreatedAt = s.tick()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	s.projects[p.ID] = &cp
	return nil
}

func (s *fakeStore) GetProject(_ context.Context, projectID, userID uuid.UUID) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok || p.UserID != userID {
		return nil, supabase.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) ListProjects(_ context.Context, userID uuid.UUID) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Project{}
	for _, p := range s.projects {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeStore) DeleteProject(_ context.Context, projectID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok || p.UserID != userID {
		return supabase.ErrNotFound
	}
	delete(s.projects, projectID)
	delete(s.files, projectID)
	delete(s.chat, projectID)
	return nil
}

func (s *fakeStore) StartBuild(_ context.Context, projectID uuid.UUID, aiModel string) (*models.Build, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := 1
	for _, b := range s.builds {
		if b.ProjectID == projectID && b.BuildNumber >= next {
			next = b.BuildNumber + 1
		}
	}
	b := &models.Build{
		ID:          uuid.New(),
		ProjectID:   projectID,
		BuildNumber: next,
		Status:      models.BuildStatusRunning,
		AIModelUsed: aiModel,
		StartedAt:   s.tick(),
	}
	s.builds[b.ID] = b
	s.projects[projectID].Status = models.ProjectStatusBuilding
	cp := *b
	return &cp, nil
}

func (s *fakeStore) CompleteBuild(_ context.Context, c models.BuildCompletion) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failComplete != nil {
		return 0, s.failComplete
	}
	if s.beforeComplete != nil {
		s.beforeComplete(s)
	}

	user := s.users[c.UserID]
	if user.TokensRemaining < c.Credits {
		return 0, supabase.ErrInsufficientCredits
	}
	build := s.builds[c.BuildID]
	if build.Status != models.BuildStatusRunning {
		return 0, supabase.ErrBuildNotRunning
	}

	files := make([]models.ProjectFile, len(c.Result.Files))
	for i, f := range c.Result.Files {
		files[i] = models.ProjectFile{ID: uuid.New(), ProjectID: c.ProjectID, FilePath: f.Path, FileContent: f.Content, FileType: f.Type}
	}
	s.files[c.ProjectID] = files

	user.TokensRemaining -= c.Credits
	user.TokensUsed += c.Credits
	s.usage = append(s.usage, models.UsageLog{UserID: c.UserID, ProjectID: c.ProjectID, ActionType: c.Action, TokensUsed: c.Credits, AIModel: c.AIModel})

	if m := c.AssistantMessage; m != nil {
		m.ID = uuid.New()
		m.CreatedAt = s.tick()
		s.chat[c.ProjectID] = append(s.chat[c.ProjectID], *m)
	}
	if c.Iteration != nil {
		s.iters = append(s.iters, *c.Iteration)
	}

	build.Status = models.BuildStatusSuccess
	build.TokensConsumed = c.Credits
	build.BuildTimeSeconds = c.BuildTimeSeconds

	p := s.projects[c.ProjectID]
	p.Status = models.ProjectStatusReady
	p.Dependencies = c.Result.Dependencies
	p.EnvVariables = c.Result.EnvVariables
	p.TokensUsed += c.Credits
	return user.TokensRemaining, nil
}

func (s *fakeStore) FailBuild(_ context.Context, projectID, buildID uuid.UUID, errorMessage string, buildTimeSeconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.builds[buildID]; ok && b.Status == models.BuildStatusRunning {
		b.Status = models.BuildStatusFailed
		b.ErrorMessage.String, b.ErrorMessage.Valid = errorMessage, true
		b.BuildTimeSeconds = buildTimeSeconds
	}
	s.projects[projectID].Status = models.ProjectStatusFailed
	return nil
}

func (s *fakeStore) GetLatestBuild(_ context.Context, projectID uuid.UUID) (*models.Build, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *models.Build
	for _, b := range s.builds {
		if b.ProjectID == projectID && (latest == nil || b.BuildNumber > latest.BuildNumber) {
			latest = b
		}
	}
	if latest == nil {
		return nil, supabase.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (s *fakeStore) ListBuilds(_ context.Context, projectID uuid.UUID) ([]models.Build, error) {
	builds := s.buildsFor(projectID)
	sort.Slice(builds, func(i, j int) bool { return builds[i].BuildNumber > builds[j].BuildNumber })
	return builds, nil
}

func (s *fakeStore) ListFiles(_ context.Context, projectID uuid.UUID) ([]models.ProjectFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ProjectFile{}, s.files[projectID]...), nil
}

func (s *fakeStore) AddChatMessage(_ context.Context, m *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = uuid.New()
	m.CreatedAt = s.tick()
	s.chat[m.ProjectID] = append(s.chat[m.ProjectID], *m)
	return nil
}

func (s *fakeStore) ListRecentChatMessages(_ context.Context, projectID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.chat[projectID]
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return append([]models.ChatMessage{}, all...), nil
}

func (s *fakeStore) ListChatMessages(_ context.Context, projectID uuid.UUID) ([]models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChatMessage{}, s.chat[projectID]...), nil
}

func (s *fakeStore) MarkDeployed(_ context.Context, rec models.DeploymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.projects[rec.ProjectID]
	p.Status = models.ProjectStatusDeployed
	p.PreviewURL.String, p.PreviewURL.Valid = rec.PreviewURL, true
	p.ProductionURL.String, p.ProductionURL.Valid = rec.ProductionURL, true
	p.VercelProjectID.String, p.VercelProjectID.Valid = rec.VercelProjectID, true
	s.deploys = append(s.deploys, rec)
	return nil
}

func (s *fakeStore) ListDomains(_ context.Context, projectID uuid.UUID) ([]models.CustomDomain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.CustomDomain{}
	for _, d := range s.domains {
		if d.ProjectID == projectID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (s *fakeStore) GetDomain(_ context.Context, domainID uuid.UUID) (*models.CustomDomain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.domains[domainID]
	if !ok {
		return nil, supabase.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *fakeStore) DomainExists(_ context.Context, domain string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.domains {
		if d.Domain == domain {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) CreateDomain(_ context.Context, d *models.CustomDomain) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.domains {
		if existing.Domain == d.Domain {
			return supabase.ErrDomainTaken
		}
	}
	d.ID = uuid.New()
	d.CreatedAt = s.tick()
	cp := *d
	s.domains[d.ID] = &cp
	return nil
}

func (s *fakeStore) UpdateDomainStatus(_ context.Context, domainID uuid.UUID, status models.DomainStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.domains[domainID].Status = status
	return nil
}

func (s *fakeStore) MarkDomainVerified(_ context.Context, d *models.CustomDomain) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.domains[d.ID]
	rec.Verified = true
	rec.Status = models.DomainStatusActive
	p := s.projects[d.ProjectID]
	p.CustomDomain.String, p.CustomDomain.Valid = d.Domain, true
	p.CustomDomainVerified = true
	return nil
}

func (s *fakeStore) DeleteDomain(_ context.Context, d *models.CustomDomain) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.domains, d.ID)
	if p, ok := s.projects[d.ProjectID]; ok && p.CustomDomain.String == d.Domain {
		p.CustomDomain.String, p.CustomDomain.Valid = "", false
		p.CustomDomainVerified = false
	}
	return nil
}
