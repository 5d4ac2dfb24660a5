package breeze

import "time"

// Message is a sealed interface representing a conversation message.
// The unexported marker method prevents external implementations.
type Message interface {
	isMessage()
	Role() Role
}

// UserMessage represents a message from the user.
type UserMessage struct {
	Text      string
	Timestamp time.Time
}

func (UserMessage) isMessage() {}

// Role returns RoleUser.
func (UserMessage) Role() Role { return RoleUser }

// AssistantMessage represents a message from the model. It carries either
// text or at most one tool call request.
type AssistantMessage struct {
	Text          string
	ToolCall      *ToolCall
	StopReason    StopReason
	RawStopReason string
	Timestamp     time.Time
}

func (AssistantMessage) isMessage() {}

// Role returns RoleAssistant.
func (AssistantMessage) Role() Role { return RoleAssistant }

// ToolResultMessage answers the tool call identified by ToolCallID.
type ToolResultMessage struct {
	ToolCallID string
	ToolName   string
	Content    string
	Timestamp  time.Time
}

func (ToolResultMessage) isMessage() {}

// Role returns RoleTool.
func (ToolResultMessage) Role() Role { return RoleTool }

// Interface compliance checks.
var (
	_ Message = UserMessage{}
	_ Message = AssistantMessage{}
	_ Message = ToolResultMessage{}
)
