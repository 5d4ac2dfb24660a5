// Package gemini implements [breeze.Provider] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating between breeze's
// domain types and the Gemini API types. Gemini reports STOP for function
// calls and may omit call IDs, so both are filled in on the way back.
package gemini

const (
	defaultModel     = "gemini-2.5-flash"
	defaultMaxTokens = 8192
	callIDPrefix     = "call_"
)
