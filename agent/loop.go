// Package agent orchestrates a query between a Provider and a ToolSession.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/breeze"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Agent answers queries with at most one tool round-trip. It holds no
// per-query state and is safe for concurrent use.
type Agent struct {
	provider          breeze.Provider
	tools             breeze.ToolSession
	model             string
	systemPrompt      string
	completionTimeout time.Duration
	log               zerolog.Logger
}

// Option configures an [Agent].
type Option func(*Agent)

// WithModel sets the model ID for provider requests.
// Empty string means the provider uses its default model.
func WithModel(model string) Option {
	return func(a *Agent) { a.model = model }
}

// WithSystemPrompt sets a system prompt sent with every completion.
func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) { a.systemPrompt = prompt }
}

// WithCompletionTimeout bounds each completion call. Zero disables the bound.
func WithCompletionTimeout(d time.Duration) Option {
	return func(a *Agent) { a.completionTimeout = d }
}

// WithLogger sets the agent logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Agent) { a.log = l }
}

// New creates a new Agent with the given provider and tool session.
func New(provider breeze.Provider, tools breeze.ToolSession, opts ...Option) *Agent {
	a := &Agent{
		provider:          provider,
		tools:             tools,
		completionTimeout: 60 * time.Second,
		log:               zerolog.Nop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// QueryOption configures a single ProcessQuery invocation.
type QueryOption func(*queryConfig)

type queryConfig struct {
	onEvent func(breeze.Event)
}

// WithEventHandler sets a callback that receives each step of the query.
// If nil or not set, events are silently discarded.
func WithEventHandler(h func(breeze.Event)) QueryOption {
	return func(c *queryConfig) { c.onEvent = h }
}

func (c *queryConfig) emit(evt breeze.Event) {
	if c.onEvent != nil {
		c.onEvent(evt)
	}
}

// ProcessQuery answers text. The first completion is offered the tool
// catalog. When it requests a tool, the first call is dispatched and a second
// completion without tools produces the answer. Every query starts a fresh
// conversation.
func (a *Agent) ProcessQuery(ctx context.Context, text string, opts ...QueryOption) (string, error) {
	var cfg queryConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	tools, err := a.tools.ListTools(ctx)
	if err != nil {
		return "", fmt.Errorf("agent: list tools: %w", err)
	}

	msgs := []breeze.Message{breeze.UserMessage{Text: text, Timestamp: time.Now()}}
	first, err := a.complete(ctx, msgs, tools)
	if err != nil {
		return "", err
	}

	if !first.RequestsTool() {
		if first.StopReason == breeze.StopToolCalls {
			a.log.Warn().Msg("tool call stop reason without tool calls, using text")
		}
		cfg.emit(breeze.EventAnswer{Text: first.Text, Usage: first.Usage})
		return first.Text, nil
	}

	call := first.ToolCalls[0]
	if n := len(first.ToolCalls); n > 1 {
		a.log.Debug().Int("tool_calls", n).Msg("ignoring extra tool calls")
	}

	result, err := a.dispatch(ctx, call, &cfg)
	if err != nil {
		return "", err
	}

	now := time.Now()
	msgs = append(msgs,
		breeze.AssistantMessage{
			Text:          first.Text,
			ToolCall:      &call,
			StopReason:    first.StopReason,
			RawStopReason: first.RawStopReason,
			Timestamp:     now,
		},
		breeze.ToolResultMessage{
			ToolCallID: call.ID,
			ToolName:   call.Name,
			Content:    result.Content,
			Timestamp:  now,
		},
	)

	final, err := a.complete(ctx, msgs, nil)
	if err != nil {
		return "", err
	}
	cfg.emit(breeze.EventAnswer{Text: final.Text, Usage: first.Usage.Add(final.Usage)})
	return final.Text, nil
}

// dispatch decodes and normalizes the call's arguments, then runs the tool.
// Nothing is sent when the call could not be answered in the conversation.
func (a *Agent) dispatch(ctx context.Context, call breeze.ToolCall, cfg *queryConfig) (*breeze.ToolResult, error) {
	if call.ID == "" || call.Name == "" {
		return nil, fmt.Errorf("agent: tool call requires id and name: %w", breeze.ErrValidation)
	}
	var args map[string]any
	if err := json.Unmarshal(call.Arguments, &args); err != nil {
		return nil, fmt.Errorf("agent: %s: %w: %v", call.Name, breeze.ErrMalformedToolArguments, err)
	}
	args, err := breeze.NormalizeArguments(args)
	if err != nil {
		return nil, fmt.Errorf("agent: %s: %w", call.Name, err)
	}

	cfg.emit(breeze.EventToolCall{Call: call, Arguments: args})
	a.log.Debug().Str("tool", call.Name).Str("call_id", call.ID).Interface("args", args).Msg("dispatching tool call")

	result, err := a.tools.CallTool(ctx, call.Name, args)
	if err != nil {
		return nil, fmt.Errorf("agent: %s: %w", call.Name, err)
	}
	cfg.emit(breeze.EventToolResult{
		ID:       call.ID,
		ToolName: call.Name,
		Content:  result.Content,
		IsError:  result.IsError,
	})
	return result, nil
}

func (a *Agent) complete(ctx context.Context, msgs []breeze.Message, tools []breeze.Tool) (*breeze.Completion, error) {
	req := breeze.Request{
		Model:        a.model,
		SystemPrompt: a.systemPrompt,
		Messages:     msgs,
		Tools:        tools,
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("agent: %w", err)
	}

	if a.completionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.completionTimeout)
		defer cancel()
	}

	start := time.Now()
	comp, err := a.provider.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	a.log.Debug().
		Str("stop_reason", string(comp.StopReason)).
		Int("tool_calls", len(comp.ToolCalls)).
		Dur("latency", time.Since(start)).
		Msg("completion")
	return comp, nil
}
