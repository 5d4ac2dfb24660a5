package breeze

// Event is a sealed interface representing a step of the orchestration loop
// surfaced to a user interface.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventToolCall signals that the model requested a tool and the call is
// about to be dispatched with the normalized arguments.
type EventToolCall struct {
	Call      ToolCall
	Arguments map[string]any
}

func (EventToolCall) event() {}

// EventToolResult carries the text returned by a tool.
type EventToolResult struct {
	ID       string
	ToolName string
	Content  string
	IsError  bool
}

func (EventToolResult) event() {}

// EventAnswer carries the final answer text for a query.
type EventAnswer struct {
	Text  string
	Usage Usage
}

func (EventAnswer) event() {}

// Interface compliance checks.
var (
	_ Event = EventToolCall{}
	_ Event = EventToolResult{}
	_ Event = EventAnswer{}
)
