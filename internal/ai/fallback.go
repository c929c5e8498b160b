package ai

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"appforge-backend/internal/logger"
)

// Attempt pairs a provider call with the decoder for its raw text.
type Attempt[T any] struct {
	Provider Provider
	Request  Request
	Decode   func(text string) (T, error)
}

// Runner executes a primary attempt and, on any failure, exactly one
// secondary attempt. Each call is bounded by timeout when it is positive.
type Runner struct {
	log     *logger.Logger
	timeout time.Duration
	tracer  trace.Tracer
}

func NewRunner(log *logger.Logger, timeout time.Duration) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{
		log:     log.With("service", "ai.Runner"),
		timeout: timeout,
		tracer:  otel.Tracer("appforge-backend/ai"),
	}
}

// ProviderError reports that both providers failed for one operation.
type ProviderError struct {
	Operation string
	Primary   error
	Secondary error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s failed on both providers: primary: %v; secondary: %v", e.Operation, e.Primary, e.Secondary)
}

func (e *ProviderError) Unwrap() []error {
	return []error{e.Primary, e.Secondary}
}

func RunWithFallback[T any](ctx context.Context, r *Runner, operation string, primary, secondary Attempt[T]) (T, error) {
	out, primaryErr := runAttempt(ctx, r, operation, primary)
	if primaryErr == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		var zero T
		return zero, ctx.Err()
	}

	r.log.Warn("primary provider failed, falling back",
		"operation", operation,
		"provider", primary.Provider.Name(),
		"fallback", secondary.Provider.Name(),
		"error", primaryErr,
	)

	out, secondaryErr := runAttempt(ctx, r, operation, secondary)
	if secondaryErr == nil {
		return out, nil
	}

	r.log.Error("fallback provider failed",
		"operation", operation,
		"provider", secondary.Provider.Name(),
		"error", secondaryErr,
	)

	var zero T
	return zero, &ProviderError{Operation: operation, Primary: primaryErr, Secondary: secondaryErr}
}

func runAttempt[T any](ctx context.Context, r *Runner, operation string, a Attempt[T]) (T, error) {
	var zero T

	ctx, span := r.tracer.Start(ctx, "ai."+operation,
		trace.WithAttributes(
			attribute.String("ai.provider", a.Provider.Name()),
			attribute.Int("ai.max_tokens", a.Request.MaxTokens),
		),
	)
	defer span.End()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := a.Provider.Complete(ctx, a.Request)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return zero, err
	}

	out, err := a.Decode(text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return zero, err
	}

	span.SetAttributes(attribute.Int("ai.response_chars", len(text)))
	r.log.Debug("provider call succeeded",
		"operation", operation,
		"provider", a.Provider.Name(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
