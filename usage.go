package breeze

// Usage tracks token consumption reported by a provider.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Add returns the sum of two usage records.
func (u Usage) Add(o Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + o.InputTokens,
		OutputTokens: u.OutputTokens + o.OutputTokens,
	}
}
