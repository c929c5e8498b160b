package ai

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptsYAML []byte

const (
	PromptScopeSystem   = "scope_system"
	PromptScopeGenerate = "scope_generate"
	PromptScopeRefine   = "scope_refine"
	PromptCodeSystem    = "code_system"
	PromptCodeGenerate  = "code_generate"
	PromptCodeRefine    = "code_refine"
)

var requiredPrompts = []string{
	PromptScopeSystem,
	PromptScopeGenerate,
	PromptScopeRefine,
	PromptCodeSystem,
	PromptCodeGenerate,
	PromptCodeRefine,
}

type Prompts struct {
	templates map[string]*template.Template
}

// LoadPrompts parses the embedded prompt catalog.
func LoadPrompts() (*Prompts, error) {
	return ParsePrompts(promptsYAML)
}

func ParsePrompts(data []byte) (*Prompts, error) {
	raw := map[string]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse prompt catalog: %w", err)
	}

	p := &Prompts{templates: make(map[string]*template.Template, len(raw))}
	for name, text := range raw {
		tmpl, err := template.New(name).Option("missingkey=error").Parse(strings.TrimRight(text, "\n"))
		if err != nil {
			return nil, fmt.Errorf("failed to parse prompt %s: %w", name, err)
		}
		p.templates[name] = tmpl
	}

	for _, name := range requiredPrompts {
		if _, ok := p.templates[name]; !ok {
			return nil, fmt.Errorf("prompt catalog is missing %q", name)
		}
	}
	return p, nil
}

func (p *Prompts) Render(name string, data interface{}) (string, error) {
	tmpl, ok := p.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s: %w", name, err)
	}
	return b.String(), nil
}
