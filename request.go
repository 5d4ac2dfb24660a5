package breeze

// Request carries the conversation and generation parameters for a single
// completion. The provider uses its own defaults when fields are zero/nil.
// A nil Tools slice forces the model to answer directly.
type Request struct {
	Model        string // model ID, provider-specific; empty = provider default
	SystemPrompt string
	Messages     []Message
	Tools        []Tool
	MaxTokens    int      // 0 = provider default
	Temperature  *float64 // nil = provider default
}
