package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/breeze"
)

// Interface compliance check.
var _ breeze.WeatherService = (*Client)(nil)

// StatusError reports a non-2xx response from the provider.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d", e.StatusCode)
}

// Client fetches current weather from OpenWeather.
type Client struct {
	apiKey     string
	baseURL    string
	lang       string
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLang sets the response language. Default is zh_cn.
func WithLang(lang string) Option {
	return func(c *Client) { c.lang = lang }
}

// WithTimeout bounds each upstream call. Default is 30s.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New creates a new OpenWeather [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		lang:       DefaultLang,
		timeout:    defaultTimeout,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Lang returns the response language the client requests.
func (c *Client) Lang() string { return c.lang }

// Weather performs a single bounded lookup for city in metric units.
func (c *Client) Weather(ctx context.Context, city string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	q.Set("lang", c.lang)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+weatherPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("openweather: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, transportError(ctx, err)
	}
	if !json.Valid(body) {
		return nil, errors.New("openweather: response is not valid JSON")
	}
	return body, nil
}

// transportError strips the request URL, which carries the API key, and
// maps deadline expiry to breeze.ErrUpstreamTimeout.
func transportError(ctx context.Context, err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		err = uerr.Err
	}
	var nerr net.Error
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return fmt.Errorf("openweather: %w", breeze.ErrUpstreamTimeout)
	}
	return fmt.Errorf("openweather: %w", err)
}
