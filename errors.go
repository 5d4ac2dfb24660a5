package breeze

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request or message failed validation.
	ErrValidation = errors.New("validation error")

	// ErrConfiguration indicates missing or invalid process configuration,
	// such as an absent API key. Fatal at startup.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidToolArguments indicates tool arguments that lack a required
	// key or do not match the tool's input schema.
	ErrInvalidToolArguments = errors.New("invalid tool arguments")

	// ErrMalformedToolArguments indicates tool arguments that are not valid JSON.
	ErrMalformedToolArguments = errors.New("malformed tool arguments")

	// ErrUpstreamTimeout indicates a bounded outbound call ran out of time.
	ErrUpstreamTimeout = errors.New("upstream timeout")

	// ErrNoWeatherData indicates an event stream ended without a decodable payload.
	ErrNoWeatherData = errors.New("no weather data")

	// ErrToolNotFound indicates the requested tool does not exist.
	ErrToolNotFound = errors.New("tool not found")
)

// GatewayHTTPError reports a non-2xx status returned by the Tool Gateway.
type GatewayHTTPError struct {
	StatusCode int
}

func (e *GatewayHTTPError) Error() string {
	return fmt.Sprintf("gateway returned HTTP %d", e.StatusCode)
}
