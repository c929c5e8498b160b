package codegen_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"appforge-backend/internal/ai"
	"appforge-backend/internal/ai/aitest"
	"appforge-backend/internal/codegen"
	"appforge-backend/internal/logger"
	"appforge-backend/internal/models"
)

const validResponse = `{"files":[{"path":"app/page.tsx","content":"export default function Page() { return <main>{'hi'}</main> }","type":"page"},
{"path":"package.json","content":"{\"name\":\"app\"}","type":"config"}],
"structure":"App router with a single page","dependencies":{"next":"16.0.0"},"envVariables":["NEXT_PUBLIC_SUPABASE_URL"]}`

func newGenerator(t *testing.T) (*codegen.Generator, *aitest.MockProvider, *aitest.MockProvider) {
	t.Helper()
	prompts, err := ai.LoadPrompts()
	require.NoError(t, err)
	primary := aitest.NewMockProvider("anthropic")
	secondary := aitest.NewMockProvider("openai")
	gen := codegen.NewGenerator(primary, secondary, prompts, ai.NewRunner(logger.Nop(), time.Second), logger.Nop())
	return gen, primary, secondary
}

func sampleInput() codegen.Input {
	return codegen.Input{
		ProjectName:         "Studio Booker",
		ExpandedDescription: "Class booking for yoga studios",
		TodoList:            []models.TodoCategory{{Name: "Booking", Items: []models.TodoItem{{Title: "Calendar view"}}}},
		TechStack:           []string{"Next.js 16", "Supabase"},
		AppType:             "saas",
	}
}

func TestGenerate_PrimaryEmbedsAllInputs(t *testing.T) {
	gen, primary, secondary := newGenerator(t)
	primary.On("Complete", mock.Anything, mock.MatchedBy(func(req ai.Request) bool {
		prompt := req.Messages[0].Content
		return req.MaxTokens == 16000 && req.Temperature == nil &&
			strings.Contains(req.System, "Return a JSON object") &&
			strings.Contains(prompt, "PROJECT NAME: Studio Booker") &&
			strings.Contains(prompt, "Class booking for yoga studios") &&
			strings.Contains(prompt, "APP TYPE: saas") &&
			strings.Contains(prompt, "Next.js 16, Supabase") &&
			strings.Contains(prompt, "Calendar view")
	})).Return("```json\n"+validResponse+"\n```", nil)

	result, err := gen.Generate(context.Background(), sampleInput())

	require.NoError(t, err)
	require.Len(t, result.Files, 2)
	assert.Equal(t, models.FileTypePage, result.Files[0].Type)
	assert.Equal(t, "16.0.0", result.Dependencies["next"])
	assert.Equal(t, []string{"NEXT_PUBLIC_SUPABASE_URL"}, result.EnvVariables)
	secondary.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestGenerate_FallbackOnUnparseablePrimary(t *testing.T) {
	gen, primary, secondary := newGenerator(t)
	primary.On("Complete", mock.Anything, mock.Anything).Return("Sorry, that is too large.", nil)
	secondary.On("Complete", mock.Anything, mock.MatchedBy(func(req ai.Request) bool {
		return req.Temperature != nil && *req.Temperature == 0.3 && req.MaxTokens == 16000
	})).Return(validResponse, nil)

	result, err := gen.Generate(context.Background(), sampleInput())

	require.NoError(t, err)
	assert.Len(t, result.Files, 2)
	secondary.AssertNumberOfCalls(t, "Complete", 1)
}

func TestGenerate_BothFailReturnsParseError(t *testing.T) {
	gen, primary, secondary := newGenerator(t)
	primary.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("timeout"))
	secondary.On("Complete", mock.Anything, mock.Anything).Return("no braces at all", nil)

	result, err := gen.Generate(context.Background(), sampleInput())

	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, codegen.ErrParseResponse)
	assert.Contains(t, err.Error(), "failed to parse response")
}

func TestGenerate_EmptyFileSetIsRejected(t *testing.T) {
	gen, primary, secondary := newGenerator(t)
	primary.On("Complete", mock.Anything, mock.Anything).Return(`{"files":[],"structure":""}`, nil)
	secondary.On("Complete", mock.Anything, mock.Anything).Return(`{"files":[]}`, nil)

	_, err := gen.Generate(context.Background(), sampleInput())

	assert.ErrorIs(t, err, codegen.ErrParseResponse)
}

func TestRefine_AppendsFeedbackTurnToHistory(t *testing.T) {
	gen, primary, _ := newGenerator(t)
	existing := []models.GeneratedFile{{Path: "app/page.tsx", Content: "old", Type: models.FileTypePage}}
	history := []ai.Message{
		{Role: ai.RoleUser, Content: "make it blue"},
		{Role: ai.RoleAssistant, Content: "done"},
	}
	primary.On("Complete", mock.Anything, mock.MatchedBy(func(req ai.Request) bool {
		if len(req.Messages) != 3 {
			return false
		}
		last := req.Messages[2]
		return req.Messages[0].Content == "make it blue" &&
			last.Role == ai.RoleUser &&
			strings.Contains(last.Content, "CURRENT FILES:") &&
			strings.Contains(last.Content, `"path": "app/page.tsx"`) &&
			strings.Contains(last.Content, "USER FEEDBACK:\nadd a footer")
	})).Return(validResponse, nil)

	result, err := gen.Refine(context.Background(), existing, "add a footer", history)

	require.NoError(t, err)
	assert.Len(t, result.Files, 2)
}

func TestPrimaryModel(t *testing.T) {
	prompts, err := ai.LoadPrompts()
	require.NoError(t, err)
	primary := ai.NewAnthropicProvider("http://localhost", "k", "claude-sonnet-4-20250514")
	gen := codegen.NewGenerator(primary, aitest.NewMockProvider("openai"), prompts, ai.NewRunner(logger.Nop(), 0), logger.Nop())

	assert.Equal(t, "claude-sonnet-4-20250514", gen.PrimaryModel())
}
