// Package breeze holds the domain types shared by the two halves of the
// system: the Tool Gateway, which relays weather lookups as an event stream,
// and the Orchestrator, which lets a language model decide when to call it.
//
// Subpackages are named after the dependency they wrap (gin gateway, openai,
// gemini, anthropic, redis, ...) and implement the interfaces declared here.
package breeze
