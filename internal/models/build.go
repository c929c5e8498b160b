package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type BuildStatus string

const (
	BuildStatusPending BuildStatus = "pending"
	BuildStatusRunning BuildStatus = "running"
	BuildStatusSuccess BuildStatus = "success"
	BuildStatusFailed  BuildStatus = "failed"
)

type Build struct {
	ID               uuid.UUID
	ProjectID        uuid.UUID
	BuildNumber      int
	Status           BuildStatus
	AIModelUsed      string
	TokensConsumed   int
	BuildTimeSeconds int
	ErrorMessage     sql.NullString
	StartedAt        time.Time
	CompletedAt      sql.NullTime
	CreatedAt        time.Time
}

type UsageAction string

const (
	UsageActionCodeGeneration UsageAction = "code_generation"
	UsageActionChatIteration  UsageAction = "chat_iteration"
)

type UsageLog struct {
	UserID     uuid.UUID
	ProjectID  uuid.UUID
	ActionType UsageAction
	TokensUsed int
	AIModel    string
}

type Iteration struct {
	ProjectID  uuid.UUID
	UserPrompt string
	AIResponse string
	// ChangesMade lists the paths in the replacement file set.
	ChangesMade []string
	TokensUsed  int
	Status      string
}

type Deployment struct {
	ID           uuid.UUID
	ProjectID    uuid.UUID
	BuildID      uuid.NullUUID
	Environment  string
	URL          string
	DeployStatus string
	DeployedAt   time.Time
}

// BuildCompletion is everything written when a build succeeds. The store
// applies it in one transaction; the credit debit is conditional on the
// user still having Credits available.
type BuildCompletion struct {
	UserID           uuid.UUID
	ProjectID        uuid.UUID
	BuildID          uuid.UUID
	Result           *CodeGenerationResult
	Credits          int
	BuildTimeSeconds int
	Action           UsageAction
	AIModel          string
	// Refinement only.
	AssistantMessage *ChatMessage
	Iteration        *Iteration
}

// DeploymentRecord is written after a successful deployment.
type DeploymentRecord struct {
	ProjectID       uuid.UUID
	BuildID         uuid.NullUUID
	VercelProjectID string
	PreviewURL      string
	ProductionURL   string
	Environment     string
}
