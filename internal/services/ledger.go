package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"appforge-backend/internal/ai"
	"appforge-backend/internal/codegen"
	"appforge-backend/internal/lock"
	"appforge-backend/internal/logger"
	"appforge-backend/internal/models"
	"appforge-backend/internal/supabase"
)

const (
	chatHistoryLimit = 20
	buildLockTTL     = 15 * time.Minute
	cleanupTimeout   = 10 * time.Second
	archiveTimeout   = 30 * time.Second

	assistantMessagePrefix = "I've updated your project based on your feedback. Here's what I changed:\n\n"
)

// CodeGenerator is implemented by *codegen.Generator.
type CodeGenerator interface {
	Generate(ctx context.Context, in codegen.Input) (*models.CodeGenerationResult, error)
	Refine(ctx context.Context, existing []models.GeneratedFile, feedback string, history []ai.Message) (*models.CodeGenerationResult, error)
	PrimaryModel() string
}

var _ CodeGenerator = (*codegen.Generator)(nil)

type LedgerConfig struct {
	GenerateCredits int
	RefineCredits   int
}

// Ledger runs code generation and chat refinement as metered builds. Every
// attempt is recorded as a Build; credits are only debited when the build
// commits.
type Ledger struct {
	store     Store
	generator CodeGenerator
	locker    lock.Locker
	events    EventPublisher
	archive   *ArchiveService
	cfg       LedgerConfig
	now       func() time.Time
	log       *logger.Logger
}

func NewLedger(store Store, generator CodeGenerator, locker lock.Locker, events EventPublisher, archive *ArchiveService, cfg LedgerConfig, log *logger.Logger) *Ledger {
	if log == nil {
		log = logger.Nop()
	}
	if locker == nil {
		locker = lock.NewMemoryLocker()
	}
	return &Ledger{
		store:     store,
		generator: generator,
		locker:    locker,
		events:    events,
		archive:   archive,
		cfg:       cfg,
		now:       time.Now,
		log:       log.With("service", "Ledger"),
	}
}

type GenerateOutcome struct {
	Build            *models.Build
	Result           *models.CodeGenerationResult
	BuildTimeSeconds int
	TokensRemaining  int
}

type RefineOutcome struct {
	Build            *models.Build
	Result           *models.CodeGenerationResult
	Response         string
	TokensUsed       int
	TokensRemaining  int
	BuildTimeSeconds int
}

// buildRun is the state shared by one metered build.
type buildRun struct {
	user    *models.User
	project *models.Project
	build   *models.Build
	credits int
	started time.Time
}

// Generate produces the project's first (or a fresh) file set.
func (l *Ledger) Generate(ctx context.Context, userID, projectID uuid.UUID) (*GenerateOutcome, error) {
	run, unlock, err := l.begin(ctx, userID, projectID, l.cfg.GenerateCredits, nil)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result, err := l.generator.Generate(ctx, codegen.Input{
		ProjectName:         run.project.Name,
		ExpandedDescription: run.project.ExpandedDescription,
		TodoList:            run.project.TodoList,
		TechStack:           run.project.TechStack,
		AppType:             run.project.AppType,
	})
	elapsed := l.elapsed(run)
	if err != nil {
		return nil, l.fail(ctx, run, elapsed, err)
	}

	remaining, err := l.store.CompleteBuild(ctx, models.BuildCompletion{
		UserID:           userID,
		ProjectID:        projectID,
		BuildID:          run.build.ID,
		Result:           result,
		Credits:          run.credits,
		BuildTimeSeconds: elapsed,
		Action:           models.UsageActionCodeGeneration,
		AIModel:          run.build.AIModelUsed,
	})
	if err != nil {
		return nil, l.fail(ctx, run, elapsed, err)
	}

	l.afterCommit(ctx, run, result)
	l.log.Info("code generation completed",
		"project_id", projectID,
		"build_number", run.build.BuildNumber,
		"files", len(result.Files),
		"tokens_remaining", remaining,
	)

	return &GenerateOutcome{
		Build:            run.build,
		Result:           result,
		BuildTimeSeconds: elapsed,
		TokensRemaining:  remaining,
	}, nil
}

// Refine rewrites the current file set from a chat message.
func (l *Ledger) Refine(ctx context.Context, userID, projectID uuid.UUID, message string) (*RefineOutcome, error) {
	var (
		existing []models.GeneratedFile
		history  []ai.Message
	)

	prepare := func(ctx context.Context, project *models.Project) error {
		files, err := l.store.ListFiles(ctx, projectID)
		if err != nil {
			return InternalError(err)
		}
		if len(files) == 0 {
			return NotFoundError("No files found. Please generate code first.")
		}
		existing = models.ToGenerated(files)

		recent, err := l.store.ListRecentChatMessages(ctx, projectID, chatHistoryLimit)
		if err != nil {
			return InternalError(err)
		}
		history = make([]ai.Message, len(recent))
		for i, m := range recent {
			history[i] = ai.Message{Role: ai.Role(m.Role), Content: m.Content}
		}
		return nil
	}

	run, unlock, err := l.begin(ctx, userID, projectID, l.cfg.RefineCredits, prepare)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := l.store.AddChatMessage(ctx, &models.ChatMessage{
		ProjectID: projectID,
		UserID:    userID,
		Role:      models.ChatRoleUser,
		Content:   message,
	}); err != nil {
		return nil, l.fail(ctx, run, l.elapsed(run), err)
	}

	result, err := l.generator.Refine(ctx, existing, message, history)
	elapsed := l.elapsed(run)
	if err != nil {
		return nil, l.fail(ctx, run, elapsed, err)
	}

	response := assistantMessagePrefix + result.Structure
	changed := make([]string, len(result.Files))
	for i, f := range result.Files {
		changed[i] = f.Path
	}

	remaining, err := l.store.CompleteBuild(ctx, models.BuildCompletion{
		UserID:           userID,
		ProjectID:        projectID,
		BuildID:          run.build.ID,
		Result:           result,
		Credits:          run.credits,
		BuildTimeSeconds: elapsed,
		Action:           models.UsageActionChatIteration,
		AIModel:          run.build.AIModelUsed,
		AssistantMessage: &models.ChatMessage{
			ProjectID:  projectID,
			UserID:     userID,
			Role:       models.ChatRoleAssistant,
			Content:    response,
			TokensUsed: run.credits,
		},
		Iteration: &models.Iteration{
			ProjectID:   projectID,
			UserPrompt:  message,
			AIResponse:  response,
			ChangesMade: changed,
			TokensUsed:  run.credits,
			Status:      "completed",
		},
	})
	if err != nil {
		return nil, l.fail(ctx, run, elapsed, err)
	}

	l.afterCommit(ctx, run, result)
	l.log.Info("chat refinement completed",
		"project_id", projectID,
		"build_number", run.build.BuildNumber,
		"files", len(result.Files),
		"tokens_remaining", remaining,
	)

	return &RefineOutcome{
		Build:            run.build,
		Result:           result,
		Response:         response,
		TokensUsed:       run.credits,
		TokensRemaining:  remaining,
		BuildTimeSeconds: elapsed,
	}, nil
}

// begin validates ownership and credits, takes the project lock and opens a
// running Build. prepare runs after the credit check and before the lock.
func (l *Ledger) begin(ctx context.Context, userID, projectID uuid.UUID, credits int, prepare func(context.Context, *models.Project) error) (*buildRun, func(), error) {
	project, err := loadProject(ctx, l.store, userID, projectID)
	if err != nil {
		return nil, nil, err
	}
	user, err := loadUser(ctx, l.store, userID)
	if err != nil {
		return nil, nil, err
	}
	if user.TokensRemaining < credits {
		return nil, nil, InsufficientCreditsError()
	}

	if prepare != nil {
		if err := prepare(ctx, project); err != nil {
			return nil, nil, err
		}
	}

	unlock, err := l.locker.TryLock(ctx, "project-build:"+projectID.String(), buildLockTTL)
	if errors.Is(err, lock.ErrLocked) {
		return nil, nil, ConflictError(ErrBuildInProgress)
	}
	if err != nil {
		return nil, nil, InternalError(fmt.Errorf("failed to acquire build lock: %w", err))
	}
	release := func() {
		rctx, cancel := detached(ctx)
		defer cancel()
		if err := unlock(rctx); err != nil {
			l.log.Warn("failed to release build lock", "project_id", projectID, "error", err)
		}
	}

	build, err := l.store.StartBuild(ctx, projectID, l.generator.PrimaryModel())
	if err != nil {
		release()
		return nil, nil, InternalError(err)
	}

	run := &buildRun{
		user:    user,
		project: project,
		build:   build,
		credits: credits,
		started: l.now(),
	}
	l.publish(ctx, run, supabase.EventBuildStarted, supabase.BuildStartedPayload(build.BuildNumber))
	return run, release, nil
}

// fail records the build as failed and maps cause to a service error. The
// writes use a context detached from the request so a cancelled client does
// not leave the project in building.
func (l *Ledger) fail(ctx context.Context, run *buildRun, elapsed int, cause error) error {
	message := cause.Error()
	if errors.Is(cause, supabase.ErrInsufficientCredits) {
		message = "insufficient credits"
	}

	wctx, cancel := detached(ctx)
	defer cancel()
	if err := l.store.FailBuild(wctx, run.project.ID, run.build.ID, message, elapsed); err != nil {
		l.log.Error("failed to record build failure", "project_id", run.project.ID, "build_id", run.build.ID, "error", err)
	}
	l.publish(wctx, run, supabase.EventBuildFailed, supabase.BuildFailedPayload(run.build.BuildNumber, message))

	l.log.Warn("build failed", "project_id", run.project.ID, "build_number", run.build.BuildNumber, "error", cause)

	var svcErr *Error
	switch {
	case errors.Is(cause, supabase.ErrInsufficientCredits):
		return InsufficientCreditsError()
	case errors.As(cause, &svcErr):
		return svcErr
	default:
		return GenerationError(cause)
	}
}

func (l *Ledger) afterCommit(ctx context.Context, run *buildRun, result *models.CodeGenerationResult) {
	l.publish(ctx, run, supabase.EventBuildCompleted, supabase.BuildCompletedPayload(run.build.BuildNumber, len(result.Files)))
	if l.archive == nil {
		return
	}
	// The archive is best-effort; uploads and their retries run after the
	// response is written.
	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	go func() {
		defer cancel()
		_ = l.archive.ArchiveBuild(actx, run.user.ID, run.project.ID, run.build.BuildNumber, result)
	}()
}

func (l *Ledger) publish(ctx context.Context, run *buildRun, event string, payload map[string]interface{}) {
	if l.events == nil {
		return
	}
	err := l.events.Publish(ctx, models.ProjectEvent{
		ProjectID: run.project.ID,
		UserID:    run.user.ID,
		Event:     event,
		Payload:   payload,
	})
	if err != nil {
		l.log.Warn("failed to publish project event", "project_id", run.project.ID, "event", event, "error", err)
	}
}

func (l *Ledger) elapsed(run *buildRun) int {
	return int(l.now().Sub(run.started).Seconds())
}

func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
}
