package scope

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"appforge-backend/internal/ai"
	"appforge-backend/internal/logger"
	"appforge-backend/internal/models"
)

const (
	scopeMaxTokens       = 2000
	fallbackTemperature  = 0.7
	MinDescriptionLength = 50
)

// Error is returned when neither provider produced a usable scope.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return "scope generation failed: " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Generator struct {
	primary   ai.Provider
	secondary ai.Provider
	prompts   *ai.Prompts
	runner    *ai.Runner
	log       *logger.Logger
}

func NewGenerator(primary, secondary ai.Provider, prompts *ai.Prompts, runner *ai.Runner, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{
		primary:   primary,
		secondary: secondary,
		prompts:   prompts,
		runner:    runner,
		log:       log.With("service", "scope.Generator"),
	}
}

// Generate expands a free-text description into a ProjectScope.
func (g *Generator) Generate(ctx context.Context, description string) (*models.ProjectScope, error) {
	primaryPrompt, err := g.prompts.Render(ai.PromptScopeGenerate, map[string]string{"Description": description})
	if err != nil {
		return nil, &Error{Err: err}
	}
	system, err := g.prompts.Render(ai.PromptScopeSystem, nil)
	if err != nil {
		return nil, &Error{Err: err}
	}

	return g.run(ctx, "scope.generate", primaryPrompt, system)
}

// Refine applies user feedback to an existing scope and returns the updated scope.
func (g *Generator) Refine(ctx context.Context, original *models.ProjectScope, feedback string) (*models.ProjectScope, error) {
	scopeJSON, err := json.MarshalIndent(original, "", "  ")
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("failed to encode scope: %w", err)}
	}
	prompt, err := g.prompts.Render(ai.PromptScopeRefine, map[string]string{
		"Scope":    string(scopeJSON),
		"Feedback": feedback,
	})
	if err != nil {
		return nil, &Error{Err: err}
	}
	system, err := g.prompts.Render(ai.PromptScopeSystem, nil)
	if err != nil {
		return nil, &Error{Err: err}
	}

	return g.run(ctx, "scope.refine", prompt, system)
}

func (g *Generator) run(ctx context.Context, operation, prompt, system string) (*models.ProjectScope, error) {
	primary := ai.Attempt[*models.ProjectScope]{
		Provider: g.primary,
		Request: ai.Request{
			Messages:  []ai.Message{{Role: ai.RoleUser, Content: prompt}},
			MaxTokens: scopeMaxTokens,
		},
		Decode: decodeExtracted,
	}
	secondary := ai.Attempt[*models.ProjectScope]{
		Provider: g.secondary,
		Request: ai.Request{
			System:      system,
			Messages:    []ai.Message{{Role: ai.RoleUser, Content: prompt}},
			MaxTokens:   scopeMaxTokens,
			Temperature: ai.Temperature(fallbackTemperature),
		},
		Decode: decodeDirect,
	}

	result, err := ai.RunWithFallback(ctx, g.runner, operation, primary, secondary)
	if err != nil {
		return nil, &Error{Err: err}
	}

	result.Normalize()
	g.log.Info("scope generated",
		"operation", operation,
		"app_type", result.AppType,
		"complexity", result.Complexity,
		"categories", len(result.TodoCategories),
	)
	return result, nil
}

func decodeExtracted(text string) (*models.ProjectScope, error) {
	var out models.ProjectScope
	if err := ai.DecodeJSONObject(text, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// The chat-completion provider is asked for bare JSON; an empty answer is
// treated as an empty object.
func decodeDirect(text string) (*models.ProjectScope, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		text = "{}"
	}
	var out models.ProjectScope
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("failed to decode scope: %w", err)
	}
	return &out, nil
}
