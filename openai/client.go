package openai

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
	"github.com/oklog/ulid/v2"
)

// Interface compliance check.
var _ breeze.Provider = (*Client)(nil)

// Client implements [breeze.Provider] for an OpenAI-compatible
// chat-completions endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL, for example https://api.deepseek.com/v1.
// A trailing slash is ignored.
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

// New creates a new OpenAI [Client] with the given API key and options.
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

// Complete sends one chat-completions request and returns the first choice.
func (c *Client) Complete(ctx context.Context, req breeze.Request) (*breeze.Completion, error) {
	body, err := c.buildRequestBody(req)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("openai: %w", breeze.ErrUpstreamTimeout)
		}
		return nil, fmt.Errorf("openai: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseHTTPError(resp)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("openai: %w", breeze.ErrUpstreamTimeout)
		}
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return nil, errors.New("openai: response has no choices")
	}
	return convertChoice(apiResp.Choices[0], apiResp.Usage), nil
}

func (c *Client) buildRequestBody(req breeze.Request) ([]byte, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	apiReq := apiRequest{
		Model:       model,
		Messages:    convertMessages(req.SystemPrompt, req.Messages),
		Tools:       convertTools(req.Tools),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	return json.Marshal(apiReq)
}

func convertMessages(system string, msgs []breeze.Message) []apiMessage {
	result := make([]apiMessage, 0, len(msgs)+1)
	if system != "" {
		result = append(result, apiMessage{Role: "system", Content: &system})
	}
	for _, msg := range msgs {
		switch m := msg.(type) {
		case breeze.UserMessage:
			result = append(result, apiMessage{Role: "user", Content: &m.Text})
		case breeze.AssistantMessage:
			am := apiMessage{Role: "assistant"}
			if m.Text != "" {
				am.Content = &m.Text
			}
			if m.ToolCall != nil {
				am.ToolCalls = []apiToolCall{{
					ID:   m.ToolCall.ID,
					Type: "function",
					Function: apiFunctionCall{
						Name:      m.ToolCall.Name,
						Arguments: string(m.ToolCall.Arguments),
					},
				}}
			}
			result = append(result, am)
		case breeze.ToolResultMessage:
			result = append(result, apiMessage{
				Role:       "tool",
				Content:    &m.Content,
				ToolCallID: m.ToolCallID,
			})
		}
	}
	return result
}

// convertTools returns nil for an empty set so the field is omitted and the
// model has to answer directly.
func convertTools(tools []breeze.Tool) []apiTool {
	if len(tools) == 0 {
		return nil
	}
	result := make([]apiTool, len(tools))
	for i, t := range tools {
		result[i] = apiTool{
			Type: "function",
			Function: apiFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  json.RawMessage(t.Parameters),
			},
		}
	}
	return result
}

func convertChoice(choice apiChoice, usage apiUsage) *breeze.Completion {
	comp := &breeze.Completion{
		StopReason:    mapFinishReason(choice.FinishReason),
		RawStopReason: choice.FinishReason,
		Usage: breeze.Usage{
			InputTokens:  usage.PromptTokens,
			OutputTokens: usage.CompletionTokens,
		},
	}
	if choice.Message.Content != nil {
		comp.Text = *choice.Message.Content
	}
	for _, tc := range choice.Message.ToolCalls {
		// Some compatible backends omit the id; the tool message must echo one.
		id := tc.ID
		if id == "" {
			id = callIDPrefix + strings.ToLower(ulid.Make().String())
		}
		comp.ToolCalls = append(comp.ToolCalls, breeze.ToolCall{
			ID:        id,
			Name:      tc.Function.Name,
			Arguments: []byte(tc.Function.Arguments),
		})
	}
	return comp
}

func mapFinishReason(reason string) breeze.StopReason {
	switch reason {
	case "stop":
		return breeze.StopEndTurn
	case "tool_calls":
		return breeze.StopToolCalls
	case "length":
		return breeze.StopLength
	default:
		return breeze.StopUnknown
	}
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("openai: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Message == "" {
		return fmt.Errorf("openai: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if apiErr.Error.Type == "" {
		return fmt.Errorf("openai: HTTP %d: %s", resp.StatusCode, apiErr.Error.Message)
	}
	return fmt.Errorf("openai: %s: %s", apiErr.Error.Type, apiErr.Error.Message)
}
