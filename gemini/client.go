package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/breeze"
	"github.com/goccy/go-json"
	"github.com/oklog/ulid/v2"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ breeze.Provider = (*Client)(nil)

// Generator is the part of the genai SDK used by [Client].
// *genai.Models satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements [breeze.Provider] for the Google Gemini API.
type Client struct {
	models Generator
	model  string
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gemini-2.5-flash.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return NewWithGenerator(gc.Models, opts...), nil
}

// NewWithGenerator creates a [Client] on top of an existing generator.
func NewWithGenerator(g Generator, opts ...Option) *Client {
	c := &Client{
		models: g,
		model:  defaultModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Complete sends a request to the Gemini API and returns the first candidate.
func (c *Client) Complete(ctx context.Context, req breeze.Request) (*breeze.Completion, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	resp, err := c.models.GenerateContent(ctx, model, ConvertMessages(req.Messages), buildConfig(req))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("gemini: %w", breeze.ErrUpstreamTimeout)
		}
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return ConvertResponse(resp)
}

func buildConfig(req breeze.Request) *genai.GenerateContentConfig {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
		Tools:           ConvertTools(req.Tools),
	}

	if req.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}

	if req.Temperature != nil {
		temp := float32(*req.Temperature)
		config.Temperature = &temp
	}

	return config
}

// ConvertMessages converts breeze Messages to genai Contents.
// Exported for testing.
func ConvertMessages(msgs []breeze.Message) []*genai.Content {
	var result []*genai.Content
	for _, msg := range msgs {
		switch m := msg.(type) {
		case breeze.UserMessage:
			result = append(result, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: m.Text}},
			})
		case breeze.AssistantMessage:
			var parts []*genai.Part
			if m.Text != "" {
				parts = append(parts, &genai.Part{Text: m.Text})
			}
			if m.ToolCall != nil {
				// Arguments were validated as JSON before the call was recorded.
				var args map[string]any
				_ = json.Unmarshal(m.ToolCall.Arguments, &args)
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						ID:   m.ToolCall.ID,
						Name: m.ToolCall.Name,
						Args: args,
					},
				})
			}
			result = append(result, &genai.Content{Role: "model", Parts: parts})
		case breeze.ToolResultMessage:
			result = append(result, &genai.Content{
				Role: "user",
				Parts: []*genai.Part{{
					FunctionResponse: &genai.FunctionResponse{
						ID:       m.ToolCallID,
						Name:     m.ToolName,
						Response: map[string]any{"output": m.Content},
					},
				}},
			})
		}
	}
	return result
}

// ConvertTools converts breeze Tools to genai Tools.
// Exported for testing.
func ConvertTools(tools []breeze.Tool) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, len(tools))
	for i, t := range tools {
		var schema map[string]any
		_ = json.Unmarshal(t.Parameters, &schema)
		decls[i] = &genai.FunctionDeclaration{
			Name:                 t.Name,
			Description:          t.Description,
			ParametersJsonSchema: schema,
		}
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// ConvertResponse converts the first candidate of a genai response. Thought
// parts are dropped. Function calls without an ID get a generated one.
// Exported for testing.
func ConvertResponse(resp *genai.GenerateContentResponse) (*breeze.Completion, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, errors.New("gemini: response has no candidates")
	}
	cand := resp.Candidates[0]

	comp := &breeze.Completion{RawStopReason: string(cand.FinishReason)}
	if resp.UsageMetadata != nil {
		comp.Usage = breeze.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}

	var text strings.Builder
	if cand.Content != nil {
		for _, p := range cand.Content.Parts {
			switch {
			case p.FunctionCall != nil:
				args, err := json.Marshal(p.FunctionCall.Args)
				if err != nil {
					return nil, fmt.Errorf("gemini: encode function args: %w", err)
				}
				if p.FunctionCall.Args == nil {
					args = []byte("{}")
				}
				id := p.FunctionCall.ID
				if id == "" {
					id = callIDPrefix + strings.ToLower(ulid.Make().String())
				}
				comp.ToolCalls = append(comp.ToolCalls, breeze.ToolCall{
					ID:        id,
					Name:      p.FunctionCall.Name,
					Arguments: args,
				})
			case p.Thought:
			default:
				text.WriteString(p.Text)
			}
		}
	}
	comp.Text = text.String()
	comp.StopReason = mapFinishReason(cand.FinishReason, len(comp.ToolCalls) > 0)
	return comp, nil
}

func mapFinishReason(reason genai.FinishReason, hasCalls bool) breeze.StopReason {
	if hasCalls {
		return breeze.StopToolCalls
	}
	switch reason {
	case genai.FinishReasonStop:
		return breeze.StopEndTurn
	case genai.FinishReasonMaxTokens:
		return breeze.StopLength
	default:
		return breeze.StopUnknown
	}
}
