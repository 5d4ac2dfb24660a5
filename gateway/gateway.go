// Package gateway implements both sides of the Tool Gateway.
//
// [Server] is a gin HTTP server exposing GET /weather as an event stream: a
// status notice is sent immediately, followed by exactly one JSON payload
// holding the upstream weather document or an {"error": ...} object. The
// response status is always 200 for well-formed requests.
//
// [Client] is the dispatcher used by the orchestrator. It implements
// [breeze.ToolSession] by normalizing and validating tool arguments locally,
// then reading the first decodable payload from the stream.
package gateway

import "time"

const (
	weatherPath = "/weather"

	// DefaultStatusText is the notice sent before the upstream call. It must
	// not be valid JSON so payload parsers skip it.
	DefaultStatusText = "fetching weather data..."

	requestIDHeader = "X-Request-ID"
	defaultTimeout  = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)
