package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"appforge-backend/internal/ai"
)

func TestLoadPrompts_RendersEmbeddedCatalog(t *testing.T) {
	prompts, err := ai.LoadPrompts()
	require.NoError(t, err)

	out, err := prompts.Render(ai.PromptScopeGenerate, map[string]string{"Description": "A marketplace for vintage synthesizers"})
	require.NoError(t, err)
	assert.Contains(t, out, "A marketplace for vintage synthesizers")
	assert.Contains(t, out, `"todoCategories"`)

	system, err := prompts.Render(ai.PromptCodeSystem, nil)
	require.NoError(t, err)
	assert.Contains(t, system, "File types: 'component' | 'page' | 'api' | 'config' | 'style' | 'type'")
}

func TestParsePrompts_MissingEntry(t *testing.T) {
	_, err := ai.ParsePrompts([]byte("scope_system: hi\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestPrompts_RenderUnknown(t *testing.T) {
	prompts, err := ai.LoadPrompts()
	require.NoError(t, err)

	_, err = prompts.Render("nope", nil)
	assert.Error(t, err)
}
