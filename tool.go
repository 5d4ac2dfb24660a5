package breeze

import (
	"context"
	"encoding/json"
)

// Tool is the descriptor sent to the model describing a callable tool.
type Tool struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// ToolCall is a structured request from the model to invoke a tool.
// Arguments holds the raw JSON text exactly as the model produced it.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// ToolResult is the outcome of a tool call, coerced to text for the model.
// IsError is set when the payload is an in-band error object; the content
// is still handed to the model unchanged.
type ToolResult struct {
	Content string
	IsError bool
}

// ToolSession exposes a tool protocol to the orchestration loop. ListTools
// describes what can be called; CallTool invokes one tool with arguments that
// have already been decoded from the model's JSON.
type ToolSession interface {
	ListTools(ctx context.Context) ([]Tool, error)
	CallTool(ctx context.Context, name string, args map[string]any) (*ToolResult, error)
}
