package anthropic

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/breeze"
	"github.com/goccy/go-json"
)

// Interface compliance check.
var _ breeze.Provider = (*Client)(nil)

// Client implements [breeze.Provider] for the Anthropic Messages API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithModel sets the model used when a request does not name one.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new Anthropic [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Complete sends a request to the Anthropic Messages API and returns the
// whole response as a [breeze.Completion].
func (c *Client) Complete(ctx context.Context, req breeze.Request) (*breeze.Completion, error) {
	body, err := c.buildRequestBody(req)
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("anthropic: %w", breeze.ErrUpstreamTimeout)
		}
		return nil, fmt.Errorf("anthropic: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseHTTPError(resp)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("anthropic: %w", breeze.ErrUpstreamTimeout)
		}
		return nil, fmt.Errorf("anthropic: decode response: %w", err)
	}
	return convertResponse(apiResp), nil
}

func (c *Client) buildRequestBody(req breeze.Request) ([]byte, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	apiReq := apiRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		System:      convertSystem(req.SystemPrompt),
		Messages:    convertMessages(req.Messages),
		Tools:       convertTools(req.Tools),
		Temperature: req.Temperature,
	}
	injectCacheMarkers(&apiReq)

	return json.Marshal(apiReq)
}

// convertSystem converts a system prompt string to an array of content blocks.
// Returns nil when the prompt is empty.
func convertSystem(prompt string) []apiContentBlock {
	if prompt == "" {
		return nil
	}
	return []apiContentBlock{{Type: "text", Text: prompt}}
}

// injectCacheMarkers marks the system prompt and the last tool as cache
// breakpoints. Both are identical across the two completions of a query.
func injectCacheMarkers(req *apiRequest) {
	cc := &apiCacheControl{Type: "ephemeral"}
	if len(req.System) > 0 {
		req.System[len(req.System)-1].CacheControl = cc
	}
	if len(req.Tools) > 0 {
		req.Tools[len(req.Tools)-1].CacheControl = cc
	}
}

func convertMessages(msgs []breeze.Message) []apiMessage {
	var result []apiMessage
	for _, msg := range msgs {
		switch m := msg.(type) {
		case breeze.UserMessage:
			result = append(result, apiMessage{
				Role:    "user",
				Content: []apiContentBlock{{Type: "text", Text: m.Text}},
			})
		case breeze.AssistantMessage:
			var blocks []apiContentBlock
			if m.Text != "" {
				blocks = append(blocks, apiContentBlock{Type: "text", Text: m.Text})
			}
			if m.ToolCall != nil {
				blocks = append(blocks, apiContentBlock{
					Type:  "tool_use",
					ID:    m.ToolCall.ID,
					Name:  m.ToolCall.Name,
					Input: json.RawMessage(m.ToolCall.Arguments),
				})
			}
			result = append(result, apiMessage{Role: "assistant", Content: blocks})
		case breeze.ToolResultMessage:
			result = append(result, apiMessage{
				Role: "user",
				Content: []apiContentBlock{{
					Type:      "tool_result",
					ToolUseID: m.ToolCallID,
					Content:   m.Content,
				}},
			})
		}
	}
	return result
}

func convertTools(tools []breeze.Tool) []apiTool {
	if len(tools) == 0 {
		return nil
	}
	result := make([]apiTool, len(tools))
	for i, t := range tools {
		result[i] = apiTool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: json.RawMessage(t.Parameters),
		}
	}
	return result
}

// convertResponse joins text blocks and collects tool_use blocks in order.
func convertResponse(resp apiResponse) *breeze.Completion {
	comp := &breeze.Completion{
		StopReason:    mapStopReason(resp.StopReason),
		RawStopReason: resp.StopReason,
		Usage: breeze.Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
	}
	var text strings.Builder
	for _, b := range resp.Content {
		switch b.Type {
		case "text":
			text.WriteString(b.Text)
		case "tool_use":
			args := []byte(b.Input)
			if len(args) == 0 {
				args = []byte("{}")
			}
			comp.ToolCalls = append(comp.ToolCalls, breeze.ToolCall{
				ID:        b.ID,
				Name:      b.Name,
				Arguments: args,
			})
		}
	}
	comp.Text = text.String()
	return comp
}

func mapStopReason(reason string) breeze.StopReason {
	switch reason {
	case "end_turn", "stop_sequence":
		return breeze.StopEndTurn
	case "tool_use":
		return breeze.StopToolCalls
	case "max_tokens":
		return breeze.StopLength
	default:
		return breeze.StopUnknown
	}
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("anthropic: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Type == "" {
		return fmt.Errorf("anthropic: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return fmt.Errorf("anthropic: %s: %s", apiErr.Error.Type, apiErr.Error.Message)
}
