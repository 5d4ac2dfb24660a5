package mock_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fwojciec/breeze"
	"github.com/fwojciec/breeze/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Complete(t *testing.T) {
	t.Parallel()

	t.Run("delegates to CompleteFn", func(t *testing.T) {
		t.Parallel()
		want := &breeze.Completion{Text: "hello", StopReason: breeze.StopEndTurn}
		p := mock.Provider{
			CompleteFn: func(ctx context.Context, req breeze.Request) (*breeze.Completion, error) {
				return want, nil
			},
		}
		got, err := p.Complete(context.Background(), breeze.Request{})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("returns error", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("api error")
		p := mock.Provider{
			CompleteFn: func(ctx context.Context, req breeze.Request) (*breeze.Completion, error) {
				return nil, wantErr
			},
		}
		_, err := p.Complete(context.Background(), breeze.Request{})
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("panics when CompleteFn not set", func(t *testing.T) {
		t.Parallel()
		p := mock.Provider{}
		assert.Panics(t, func() {
			_, _ = p.Complete(context.Background(), breeze.Request{})
		})
	})
}

func TestToolSession(t *testing.T) {
	t.Parallel()

	t.Run("ListTools is nil-safe", func(t *testing.T) {
		t.Parallel()
		s := mock.ToolSession{}
		tools, err := s.ListTools(context.Background())
		require.NoError(t, err)
		assert.Nil(t, tools)
	})

	t.Run("CallTool delegates", func(t *testing.T) {
		t.Parallel()
		s := mock.ToolSession{
			CallToolFn: func(ctx context.Context, name string, args map[string]any) (*breeze.ToolResult, error) {
				assert.Equal(t, "query_weather", name)
				assert.Equal(t, "Beijing", args["city"])
				return &breeze.ToolResult{Content: `{"temp":20}`}, nil
			},
		}
		res, err := s.CallTool(context.Background(), "query_weather", map[string]any{"city": "Beijing"})
		require.NoError(t, err)
		assert.Equal(t, `{"temp":20}`, res.Content)
	})

	t.Run("panics when CallToolFn not set", func(t *testing.T) {
		t.Parallel()
		s := mock.ToolSession{}
		assert.Panics(t, func() {
			_, _ = s.CallTool(context.Background(), "query_weather", nil)
		})
	})
}

func TestWeatherService_Weather(t *testing.T) {
	t.Parallel()
	s := mock.WeatherService{
		WeatherFn: func(ctx context.Context, city string) (json.RawMessage, error) {
			return json.RawMessage(`{"name":"` + city + `"}`), nil
		},
	}
	doc, err := s.Weather(context.Background(), "Oslo")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Oslo"}`, string(doc))
}
