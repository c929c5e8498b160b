package ai

import "context"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Request is a provider-neutral completion request. System is sent the way
// each vendor expects it (a top-level field or a leading system message).
type Request struct {
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature *float64
}

// Provider is one LLM backend able to turn a Request into raw text.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// Temperature is a convenience for building Requests.
func Temperature(t float64) *float64 {
	return &t
}
