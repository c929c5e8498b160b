package supabase

import (
	"context"
	"fmt"

	"appforge-backend/internal/models"
	"github.com/supabase-community/supabase-go"
)

const projectEventsTable = "project_events"

// Event names published on project_events.
const (
	EventBuildStarted    = "build_started"
	EventBuildCompleted  = "build_completed"
	EventBuildFailed     = "build_failed"
	EventDeployCompleted = "deploy_completed"
	EventDeployFailed    = "deploy_failed"
	EventDomainVerified  = "domain_verified"
)

// RealtimeClient publishes project events by inserting into a table that is
// part of the supabase_realtime publication; subscribers receive the rows.
type RealtimeClient struct {
	client *supabase.Client
}

func NewRealtimeClient(client *supabase.Client) *RealtimeClient {
	return &RealtimeClient{
		client: client,
	}
}

func (r *RealtimeClient) Publish(ctx context.Context, event models.ProjectEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload := event.Payload
	if payload == nil {
		payload = map[string]interface{}{}
	}
	row := map[string]interface{}{
		"project_id": event.ProjectID.String(),
		"user_id":    event.UserID.String(),
		"event":      event.Event,
		"payload":    payload,
	}
	if _, _, err := r.client.From(projectEventsTable).Insert(row, false, "", "minimal", "").Execute(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Event, err)
	}
	return nil
}

// Event payloads

func BuildStartedPayload(buildNumber int) map[string]interface{} {
	return map[string]interface{}{
		"status":       "building",
		"build_number": buildNumber,
	}
}

func BuildCompletedPayload(buildNumber, filesCount int) map[string]interface{} {
	return map[string]interface{}{
		"status":       "ready",
		"build_number": buildNumber,
		"files_count":  filesCount,
	}
}

func BuildFailedPayload(buildNumber int, errorMsg string) map[string]interface{} {
	return map[string]interface{}{
		"status":       "failed",
		"build_number": buildNumber,
		"error":        errorMsg,
	}
}

func DeployCompletedPayload(previewURL, productionURL string) map[string]interface{} {
	return map[string]interface{}{
		"status":         "deployed",
		"preview_url":    previewURL,
		"production_url": productionURL,
	}
}

func DeployFailedPayload(errorMsg string) map[string]interface{} {
	return map[string]interface{}{
		"status": "failed",
		"error":  errorMsg,
	}
}

func DomainVerifiedPayload(domain string) map[string]interface{} {
	return map[string]interface{}{
		"status": "active",
		"domain": domain,
	}
}
