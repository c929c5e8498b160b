package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectStatusDraft    ProjectStatus = "draft"
	ProjectStatusBuilding ProjectStatus = "building"
	ProjectStatusReady    ProjectStatus = "ready"
	ProjectStatusDeployed ProjectStatus = "deployed"
	ProjectStatusFailed   ProjectStatus = "failed"
)

// Deployable reports whether a project has a built file set to ship.
func (s ProjectStatus) Deployable() bool {
	return s == ProjectStatusReady || s == ProjectStatusDeployed
}

type Project struct {
	ID                   uuid.UUID
	UserID               uuid.UUID
	Name                 string
	Description          string
	OriginalPrompt       string
	ExpandedDescription  string
	TodoList             []TodoCategory
	AppType              string
	Complexity           string
	TechStack            []string
	Status               ProjectStatus
	TokensUsed           int
	Dependencies         map[string]string
	EnvVariables         []string
	PreviewURL           sql.NullString
	ProductionURL        sql.NullString
	VercelProjectID      sql.NullString
	CustomDomain         sql.NullString
	CustomDomainVerified bool
	LastBuildAt          sql.NullTime
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type User struct {
	ID              uuid.UUID
	Email           string
	PlanType        string
	TokensRemaining int
	TokensUsed      int
}

type ProjectFile struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	FilePath    string
	FileContent string
	FileType    FileType
	CreatedAt   time.Time
}

// ToGenerated converts persisted rows back to the generator's file shape.
func ToGenerated(files []ProjectFile) []GeneratedFile {
	out := make([]GeneratedFile, len(files))
	for i, f := range files {
		out[i] = GeneratedFile{Path: f.FilePath, Content: f.FileContent, Type: f.FileType}
	}
	return out
}

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	ID         uuid.UUID
	ProjectID  uuid.UUID
	UserID     uuid.UUID
	Role       ChatRole
	Content    string
	TokensUsed int
	CreatedAt  time.Time
}

type ProjectEvent struct {
	ProjectID uuid.UUID
	UserID    uuid.UUID
	Event     string
	Payload   map[string]interface{}
}
