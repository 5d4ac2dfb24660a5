package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/breeze/gateway"
	"github.com/fwojciec/breeze/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const beijing = `{"name":"Beijing","main":{"temp":20.4,"humidity":40},"weather":[{"description":"clear sky"}],"wind":{"speed":3.1}}`

// stubModel answers the first completion with a query_weather call and the
// second with a fixed sentence.
func stubModel(t *testing.T) *httptest.Server {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		_, _ = io.Copy(io.Discard, r.Body)

		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1)%2 == 1 {
			_, _ = io.WriteString(w, `{"choices":[{"finish_reason":"tool_calls","message":{"role":"assistant","tool_calls":[{"id":"call_1","type":"function","function":{"name":"query_weather","arguments":"{\"city\":\"Beijing\"}"}}]}}],"usage":{"prompt_tokens":10,"completion_tokens":5}}`)
			return
		}
		_, _ = io.WriteString(w, `{"choices":[{"finish_reason":"stop","message":{"role":"assistant","content":"It is 20°C in Beijing."}}],"usage":{"prompt_tokens":30,"completion_tokens":8}}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func stubGateway(t *testing.T) *httptest.Server {
	t.Helper()
	weather := &mock.WeatherService{
		WeatherFn: func(_ context.Context, city string) (json.RawMessage, error) {
			assert.Equal(t, "Beijing", city)
			return json.RawMessage(beijing), nil
		},
	}
	srv := httptest.NewServer(gateway.NewServer(weather).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func setOrchestratorEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("BASE_URL", stubModel(t).URL)
	t.Setenv("GATEWAY_URL", stubGateway(t).URL)
	t.Setenv("MODEL", "")
	t.Setenv("LOG_LEVEL", "error")
}

func TestAskCommand(t *testing.T) {
	setOrchestratorEnv(t)

	var out, errOut bytes.Buffer
	root := newRootCmd(strings.NewReader(""), &out, &errOut)
	root.SetArgs([]string{"ask", "--raw", "What's the weather in Beijing?"})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, "It is 20°C in Beijing.\n", out.String())
}

func TestChatCommand_Console(t *testing.T) {
	setOrchestratorEnv(t)

	var out, errOut bytes.Buffer
	root := newRootCmd(strings.NewReader("Weather in Beijing?\nquit\n"), &out, &errOut)
	root.SetArgs([]string{"chat"})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "query_weather(city=Beijing)")
	assert.Contains(t, out.String(), "It is 20°C in Beijing.")
}

func TestAskCommand_RequiresQuery(t *testing.T) {
	setOrchestratorEnv(t)

	var out, errOut bytes.Buffer
	root := newRootCmd(strings.NewReader(""), &out, &errOut)
	root.SetArgs([]string{"ask"})

	require.Error(t, root.ExecuteContext(context.Background()))
}

func TestAskCommand_MissingKey(t *testing.T) {
	setOrchestratorEnv(t)
	t.Setenv("OPENAI_API_KEY", "")

	var out, errOut bytes.Buffer
	root := newRootCmd(strings.NewReader(""), &out, &errOut)
	root.SetArgs([]string{"ask", "hi"})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no API key")
}
