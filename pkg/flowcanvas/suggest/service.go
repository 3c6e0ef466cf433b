package suggest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/graph"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/llm"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/retry"
)

// Service produces suggestions from a natural-language prompt. current
// may be nil.
type Service interface {
	Suggest(ctx context.Context, prompt string, current *graph.Document) (Payload, error)
}

// DefaultSystemPrompt asks for the step list shape ParsePayload reads.
const DefaultSystemPrompt = `You design business workflows. Reply with JSON only: ` +
	`{"steps":[{"kind":"start|agent|system|guardrail|decision|escalation|return|end|note","label":"...","content":"..."}],` +
	`"fields":{"title":"...","description":"..."}}`

// LLMService implements Service over an llm.Client.
type LLMService struct {
	client llm.Client
	system string
	model  string
	retry  retry.Config
	logger *slog.Logger
}

// ServiceOption configures an LLMService.
type ServiceOption func(*LLMService)

// WithSystemPrompt replaces DefaultSystemPrompt.
func WithSystemPrompt(s string) ServiceOption {
	return func(l *LLMService) { l.system = s }
}

// WithModel selects the model per request.
func WithModel(m string) ServiceOption {
	return func(l *LLMService) { l.model = m }
}

// WithRetry sets the retry policy for retryable client errors.
func WithRetry(cfg retry.Config) ServiceOption {
	return func(l *LLMService) { l.retry = cfg }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(l *LLMService) { l.logger = logger }
}

// NewLLMService creates a suggestion service backed by client.
func NewLLMService(client llm.Client, opts ...ServiceOption) *LLMService {
	l := &LLMService{
		client: client,
		system: DefaultSystemPrompt,
		retry:  retry.Default,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Suggest implements Service.
func (l *LLMService) Suggest(ctx context.Context, prompt string, current *graph.Document) (Payload, error) {
	if strings.TrimSpace(prompt) == "" {
		return Payload{}, fmt.Errorf("%w: empty prompt", ErrMergeRejected)
	}
	req := llm.UserPrompt(l.system, l.buildPrompt(prompt, current))
	req.Model = l.model

	var content string
	attempts, err := retry.Do(ctx, l.retry, func(ctx context.Context) error {
		resp, err := l.client.Complete(ctx, req)
		if err != nil {
			var lerr *llm.Error
			if errors.As(err, &lerr) && lerr.Retryable {
				return retry.Transient(err, "suggest")
			}
			return err
		}
		content = resp.Content
		return nil
	})
	if err != nil {
		if l.logger != nil {
			l.logger.Warn("suggestion request failed",
				slog.Int("attempts", attempts),
				slog.String("error", err.Error()))
		}
		return Payload{}, fmt.Errorf("suggest: %w", err)
	}

	p, err := ParsePayload([]byte(content))
	if err != nil {
		return Payload{}, err
	}
	if l.logger != nil {
		l.logger.Debug("suggestion received",
			slog.Int("entries", len(p.Entries)),
			slog.Int("fields", len(p.Fields)))
	}
	return p, nil
}

// buildPrompt appends a summary of the current flow so the model can
// extend it rather than start over.
func (l *LLMService) buildPrompt(prompt string, current *graph.Document) string {
	if current == nil || (current.Len() == 0 && len(current.Fields) == 0) {
		return prompt
	}
	var b strings.Builder
	b.WriteString(prompt)
	b.WriteString("\n\nCurrent flow:\n")
	for _, n := range current.Nodes() {
		fmt.Fprintf(&b, "- %s: %s", n.Kind, n.Label)
		if n.Content != "" {
			fmt.Fprintf(&b, " (%s)", n.Content)
		}
		b.WriteString("\n")
	}
	for _, k := range slices.Sorted(maps.Keys(current.Fields)) {
		fmt.Fprintf(&b, "%s: %s\n", k, current.Fields[k])
	}
	return b.String()
}

// StaticService returns a fixed payload. Useful for demos and tests.
type StaticService struct {
	Payload Payload
	Err     error
}

// Suggest implements Service.
func (s StaticService) Suggest(ctx context.Context, _ string, _ *graph.Document) (Payload, error) {
	if err := ctx.Err(); err != nil {
		return Payload{}, err
	}
	return s.Payload, s.Err
}
