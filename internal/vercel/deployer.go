package vercel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"appforge-backend/internal/logger"
	"appforge-backend/internal/models"
)

const (
	DefaultPollInterval    = 5 * time.Second
	DefaultPollMaxAttempts = 60
)

// Clock is the timer source for the poll loop.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// DeploymentResult is the outcome of one Deploy call. Failures are reported
// here with Success=false; Deploy never returns an error value.
type DeploymentResult struct {
	Success       bool
	DeploymentID  string
	ProjectID     string
	PreviewURL    string
	ProductionURL string
	State         State
	Error         string
}

type Deployer struct {
	client      *Client
	clock       Clock
	interval    time.Duration
	maxAttempts int
	log         *logger.Logger
	tracer      trace.Tracer
}

type Option func(*Deployer)

func WithClock(clock Clock) Option {
	return func(d *Deployer) {
		d.clock = clock
	}
}

func WithPolling(interval time.Duration, maxAttempts int) Option {
	return func(d *Deployer) {
		if interval > 0 {
			d.interval = interval
		}
		if maxAttempts > 0 {
			d.maxAttempts = maxAttempts
		}
	}
}

func NewDeployer(client *Client, log *logger.Logger, opts ...Option) *Deployer {
	if log == nil {
		log = logger.Nop()
	}
	d := &Deployer{
		client:      client,
		clock:       realClock{},
		interval:    DefaultPollInterval,
		maxAttempts: DefaultPollMaxAttempts,
		log:         log.With("service", "vercel.Deployer"),
		tracer:      otel.Tracer("appforge-backend/vercel"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Configured reports whether deployments can be attempted at all.
func (d *Deployer) Configured() bool {
	return d.client.Configured()
}

type deployRun struct {
	slug       string
	files      []DeploymentFile
	envVars    map[string]string
	projectID  string
	deployment *Deployment
	attempts   int
}

// Deploy creates or reuses the Vercel project for projectName, submits the
// files as a preview deployment and waits until it reaches a terminal state.
func (d *Deployer) Deploy(ctx context.Context, projectName string, files []models.GeneratedFile, envVars map[string]string) DeploymentResult {
	ctx, span := d.tracer.Start(ctx, "vercel.deploy")
	defer span.End()

	if !d.client.Configured() {
		return d.finish(span, &deployRun{}, StateFailed, ErrTokenMissing)
	}

	run := &deployRun{
		slug:    SanitizeName(projectName),
		envVars: envVars,
		files:   make([]DeploymentFile, len(files)),
	}
	for i, f := range files {
		run.files[i] = DeploymentFile{File: f.Path, Data: f.Content}
	}
	span.SetAttributes(attribute.String("vercel.project", run.slug), attribute.Int("vercel.files", len(files)))

	if run.slug == "" {
		return d.finish(span, run, StateFailed, fmt.Errorf("project name %q has no usable characters", projectName))
	}

	state := StateCreatingProject
	for !state.Terminal() {
		var next State
		var err error

		switch state {
		case StateCreatingProject:
			next, err = d.resolveProject(ctx, run)
		case StateSubmittingDeployment:
			next, err = d.submit(ctx, run)
		case StatePolling:
			next, err = d.poll(ctx, run)
		}

		if !IsValidTransition(state, next) {
			return d.finish(span, run, StateFailed, fmt.Errorf("invalid deployment transition %s -> %s", state, next))
		}
		d.log.Debug("deployment transition", "project", run.slug, "from", state, "to", next)

		if next.Terminal() {
			return d.finish(span, run, next, err)
		}
		state = next
	}

	return d.finish(span, run, state, nil)
}

func (d *Deployer) resolveProject(ctx context.Context, run *deployRun) (State, error) {
	project, err := d.client.GetProject(ctx, run.slug)
	switch {
	case err == nil:
		run.projectID = project.ID
		d.log.Info("reusing vercel project", "project", run.slug, "vercel_project_id", project.ID)
		return StateSubmittingDeployment, nil
	case errors.Is(err, ErrProjectNotFound):
		created, err := d.client.CreateProject(ctx, run.slug, run.envVars)
		if err != nil {
			return StateFailed, err
		}
		run.projectID = created.ID
		d.log.Info("created vercel project", "project", run.slug, "vercel_project_id", created.ID)
		return StateSubmittingDeployment, nil
	default:
		return StateFailed, err
	}
}

func (d *Deployer) submit(ctx context.Context, run *deployRun) (State, error) {
	deployment, err := d.client.CreateDeployment(ctx, run.slug, run.projectID, run.files)
	if err != nil {
		return StateFailed, fmt.Errorf("vercel deployment failed: %w", err)
	}
	run.deployment = deployment
	d.log.Info("deployment submitted", "project", run.slug, "deployment_id", deployment.ID)
	return StatePolling, nil
}

// poll performs one status check. Every check after the first waits one
// interval on the clock first.
func (d *Deployer) poll(ctx context.Context, run *deployRun) (State, error) {
	if run.attempts > 0 {
		select {
		case <-ctx.Done():
			return StateFailed, ctx.Err()
		case <-d.clock.After(d.interval):
		}
	}
	run.attempts++

	deployment, err := d.client.GetDeployment(ctx, run.deployment.ID)
	if err != nil {
		return StateFailed, err
	}

	switch deployment.ReadyState {
	case ReadyStateReady:
		run.deployment = deployment
		return StateReady, nil
	case ReadyStateError:
		return StateError, fmt.Errorf("deployment failed with state: %s", deployment.ReadyState)
	case ReadyStateCanceled:
		return StateCanceled, fmt.Errorf("deployment failed with state: %s", deployment.ReadyState)
	}

	if run.attempts >= d.maxAttempts {
		return StateTimeout, fmt.Errorf("deployment timeout - took too long to complete (%d checks)", run.attempts)
	}
	return StatePolling, nil
}

func (d *Deployer) finish(span trace.Span, run *deployRun, state State, err error) DeploymentResult {
	result := DeploymentResult{
		State:     state,
		ProjectID: run.projectID,
	}
	if run.deployment != nil {
		result.DeploymentID = run.deployment.ID
	}
	span.SetAttributes(attribute.String("vercel.state", string(state)), attribute.Int("vercel.poll_attempts", run.attempts))

	if state == StateReady && err == nil {
		result.Success = true
		result.PreviewURL = "https://" + run.deployment.URL
		result.ProductionURL = "https://" + run.slug + ".vercel.app"
		d.log.Info("deployment ready",
			"project", run.slug,
			"deployment_id", result.DeploymentID,
			"preview_url", result.PreviewURL,
			"poll_attempts", run.attempts,
		)
		return result
	}

	if err == nil {
		err = fmt.Errorf("deployment ended in state %s", state)
	}
	result.Error = err.Error()
	span.RecordError(err)
	span.SetStatus(codes.Error, result.Error)
	d.log.Warn("deployment failed", "project", run.slug, "state", state, "error", err)
	return result
}
