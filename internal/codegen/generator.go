package codegen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"appforge-backend/internal/ai"
	"appforge-backend/internal/logger"
	"appforge-backend/internal/models"
)

const (
	codeMaxTokens       = 16000
	fallbackTemperature = 0.3
)

var ErrParseResponse = errors.New("failed to parse response")

// Input carries everything the code prompt embeds.
type Input struct {
	ProjectName         string
	ExpandedDescription string
	TodoList            []models.TodoCategory
	TechStack           []string
	AppType             string
}

// ModelNamer is implemented by providers that can report their model id.
type ModelNamer interface {
	Model() string
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
		log:       log.With("service", "codegen.Generator"),
	}
}

// PrimaryModel is the model id recorded on Build rows.
func (g *Generator) PrimaryModel() string {
	if m, ok := g.primary.(ModelNamer); ok {
		return m.Model()
	}
	return g.primary.Name()
}

// Generate produces a complete file set for a project.
func (g *Generator) Generate(ctx context.Context, in Input) (*models.CodeGenerationResult, error) {
	todoJSON, err := json.MarshalIndent(in.TodoList, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode todo list: %w", err)
	}

	prompt, err := g.prompts.Render(ai.PromptCodeGenerate, map[string]string{
		"ProjectName": in.ProjectName,
		"Description": in.ExpandedDescription,
		"AppType":     in.AppType,
		"TechStack":   strings.Join(in.TechStack, ", "),
		"TodoList":    string(todoJSON),
	})
	if err != nil {
		return nil, err
	}

	return g.run(ctx, "codegen.generate", []ai.Message{{Role: ai.RoleUser, Content: prompt}})
}

// Refine returns a replacement file set for existing files given the user's
// feedback. history is prior conversation in chronological order.
func (g *Generator) Refine(ctx context.Context, existing []models.GeneratedFile, feedback string, history []ai.Message) (*models.CodeGenerationResult, error) {
	filesJSON, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode current files: %w", err)
	}

	prompt, err := g.prompts.Render(ai.PromptCodeRefine, map[string]string{
		"Files":    string(filesJSON),
		"Feedback": feedback,
	})
	if err != nil {
		return nil, err
	}

	messages := make([]ai.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, ai.Message{Role: ai.RoleUser, Content: prompt})

	return g.run(ctx, "codegen.refine", messages)
}

func (g *Generator) run(ctx context.Context, operation string, messages []ai.Message) (*models.CodeGenerationResult, error) {
	system, err := g.prompts.Render(ai.PromptCodeSystem, nil)
	if err != nil {
		return nil, err
	}

	primary := ai.Attempt[*models.CodeGenerationResult]{
		Provider: g.primary,
		Request:  ai.Request{System: system, Messages: messages, MaxTokens: codeMaxTokens},
		Decode:   decodeResult,
	}
	secondary := ai.Attempt[*models.CodeGenerationResult]{
		Provider: g.secondary,
		Request: ai.Request{
			System:      system,
			Messages:    messages,
			MaxTokens:   codeMaxTokens,
			Temperature: ai.Temperature(fallbackTemperature),
		},
		Decode: decodeResult,
	}

	result, err := ai.RunWithFallback(ctx, g.runner, operation, primary, secondary)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrParseResponse, err)
	}

	g.log.Info("code generated",
		"operation", operation,
		"files", len(result.Files),
		"dependencies", len(result.Dependencies),
	)
	return result, nil
}

func decodeResult(text string) (*models.CodeGenerationResult, error) {
	var out models.CodeGenerationResult
	if err := ai.DecodeJSONObject(text, &out); err != nil {
		return nil, err
	}
	out.Normalize()
	if len(out.Files) == 0 {
		return nil, fmt.Errorf("response contains no files")
	}
	for _, f := range out.Files {
		if strings.TrimSpace(f.Path) == "" {
			return nil, fmt.Errorf("response contains a file without a path")
		}
	}
	return &out, nil
}
