package breeze

import (
	"encoding/json"
	"fmt"
)

// Validate checks universal constraints on Request.
// Provider implementations may apply additional provider-specific validation.
func (r Request) Validate() error {
	if r.Temperature != nil {
		if *r.Temperature < 0 || *r.Temperature > 2 {
			return fmt.Errorf("temperature must be in [0, 2], got %g: %w", *r.Temperature, ErrValidation)
		}
	}
	if r.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative, got %d: %w", r.MaxTokens, ErrValidation)
	}
	if len(r.Messages) == 0 {
		return fmt.Errorf("request has no messages: %w", ErrValidation)
	}
	return ValidateConversation(r.Messages)
}

// ValidateMessage checks the fields of a single message.
func ValidateMessage(msg Message) error {
	switch m := msg.(type) {
	case UserMessage:
		if m.Text == "" {
			return fmt.Errorf("empty %s message: %w", m.Role(), ErrValidation)
		}
	case AssistantMessage:
		if m.ToolCall == nil {
			return nil
		}
		if m.ToolCall.ID == "" || m.ToolCall.Name == "" {
			return fmt.Errorf("tool call requires id and name: %w", ErrValidation)
		}
		if !json.Valid(m.ToolCall.Arguments) {
			return fmt.Errorf("tool call %s has invalid JSON arguments: %w", m.ToolCall.ID, ErrValidation)
		}
	case ToolResultMessage:
		if m.ToolCallID == "" {
			return fmt.Errorf("%s message without call id: %w", m.Role(), ErrValidation)
		}
	default:
		return fmt.Errorf("unknown message type %T: %w", msg, ErrValidation)
	}
	return nil
}

// ValidateConversation checks every message and that each tool message
// answers a tool call issued earlier in the same conversation.
func ValidateConversation(msgs []Message) error {
	issued := make(map[string]bool)
	for i, msg := range msgs {
		if err := ValidateMessage(msg); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
		switch m := msg.(type) {
		case AssistantMessage:
			if m.ToolCall != nil {
				issued[m.ToolCall.ID] = true
			}
		case ToolResultMessage:
			if !issued[m.ToolCallID] {
				return fmt.Errorf("message %d: tool result for unknown call %q: %w", i, m.ToolCallID, ErrValidation)
			}
		}
	}
	return nil
}
