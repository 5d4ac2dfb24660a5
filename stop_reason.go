package breeze

// StopReason indicates why the model stopped generating.
type StopReason string

const (
	StopEndTurn   StopReason = "end_turn"
	StopToolCalls StopReason = "tool_calls"
	StopLength    StopReason = "length"
	StopUnknown   StopReason = "unknown"
)
