package breeze

import "context"

// Completion is a single response from a language model.
type Completion struct {
	Text          string
	ToolCalls     []ToolCall
	StopReason    StopReason
	RawStopReason string
	Usage         Usage
}

// RequestsTool reports whether the model stopped in order to call a tool.
func (c Completion) RequestsTool() bool {
	return c.StopReason == StopToolCalls && len(c.ToolCalls) > 0
}

// Provider is a strategy pattern interface for chat-completion endpoints.
type Provider interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}
