package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/breeze"
	"github.com/fwojciec/breeze/catalog"
	"github.com/fwojciec/breeze/sse"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Interface compliance check.
var _ breeze.ToolSession = (*Client)(nil)

// Client dispatches tool calls to a Tool Gateway over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	catalog    *catalog.Catalog
	log        zerolog.Logger
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each gateway call. Default is 30s.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// WithCatalog replaces the default tool catalog.
func WithCatalog(cat *catalog.Catalog) ClientOption {
	return func(c *Client) { c.catalog = cat }
}

// WithClientLogger sets the dispatcher logger. Default discards output.
func WithClientLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// NewClient creates a Client for the gateway at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		timeout:    defaultTimeout,
		log:        zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.catalog == nil {
		c.catalog = catalog.MustNew()
	}
	return c
}

// ListTools returns the static tool catalog.
func (c *Client) ListTools(ctx context.Context) ([]breeze.Tool, error) {
	return c.catalog.Tools(), nil
}

// CallTool normalizes and validates args, then fetches the weather for the
// requested city. Argument failures are reported before any request is made.
// The result content is the JSON payload received from the gateway.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (*breeze.ToolResult, error) {
	if _, ok := c.catalog.Lookup(name); !ok {
		return nil, fmt.Errorf("gateway: %q: %w", name, breeze.ErrToolNotFound)
	}
	norm, err := breeze.NormalizeArguments(args)
	if err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}
	if err := c.catalog.Validate(name, norm); err != nil {
		return nil, err
	}
	city, _ := norm[breeze.CityKey].(string)

	c.log.Debug().Str("tool", name).Str("city", city).Msg("dispatching tool call")
	result, err := c.FetchWeather(ctx, city)
	if err != nil {
		c.log.Warn().Err(err).Str("city", city).Msg("tool call failed")
		return nil, err
	}
	content, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("gateway: encode result: %w", err)
	}
	return &breeze.ToolResult{Content: string(content), IsError: result.Failed()}, nil
}

// FetchWeather opens the weather stream for city and returns the first
// payload that decodes as JSON. The stream is not read past that payload.
func (c *Client) FetchWeather(ctx context.Context, city string) (breeze.WeatherResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + weatherPath + "?" + url.Values{"city": {city}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return breeze.WeatherResult{}, fmt.Errorf("gateway: %w", err)
	}
	req.Header.Set("Accept", sse.ContentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return breeze.WeatherResult{}, transportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return breeze.WeatherResult{}, fmt.Errorf("gateway: %w", &breeze.GatewayHTTPError{StatusCode: resp.StatusCode})
	}

	var result breeze.WeatherResult
	if err := sse.DecodeFirst(resp.Body, &result); err != nil {
		if errors.Is(err, sse.ErrNoPayload) {
			return breeze.WeatherResult{}, fmt.Errorf("gateway: %w", breeze.ErrNoWeatherData)
		}
		return breeze.WeatherResult{}, transportError(ctx, err)
	}
	return result, nil
}

func transportError(ctx context.Context, err error) error {
	var nerr net.Error
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return fmt.Errorf("gateway: %w", breeze.ErrUpstreamTimeout)
	}
	return fmt.Errorf("gateway: %w", err)
}
