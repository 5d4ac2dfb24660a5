package bubbletea_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/fwojciec/breeze"
	bt "github.com/fwojciec/breeze/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initModel(t *testing.T, run bt.AgentFunc) bt.Model {
	t.Helper()
	return updateModel(t, bt.New(run, breeze.DefaultTheme()), tea.WindowSizeMsg{Width: 80, Height: 24})
}

func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

func typeText(t *testing.T, m bt.Model, text string) bt.Model {
	t.Helper()
	return updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func nopAgent(context.Context, string, func(breeze.Event)) (string, error) {
	return "", nil
}

// weatherAgent emits the events of a full tool round trip.
func weatherAgent(_ context.Context, query string, onEvent func(breeze.Event)) (string, error) {
	call := breeze.ToolCall{ID: "call_1", Name: "query_weather", Arguments: json.RawMessage(`{"city":"Beijing"}`)}
	onEvent(breeze.EventToolCall{Call: call, Arguments: map[string]any{"city": "Beijing"}})
	onEvent(breeze.EventToolResult{ID: "call_1", ToolName: "query_weather", Content: beijing})
	onEvent(breeze.EventAnswer{Text: "It is 20°C in Beijing", Usage: breeze.Usage{InputTokens: 50, OutputTokens: 12}})
	return "It is 20°C in Beijing", nil
}

func TestNew(t *testing.T) {
	t.Parallel()

	m := bt.New(nopAgent, breeze.DefaultTheme())
	assert.False(t, m.Running())
	assert.NoError(t, m.Err())
	assert.Equal(t, "Initializing...", m.View())
}

func TestModel_WindowSize(t *testing.T) {
	t.Parallel()

	m := initModel(t, nopAgent)
	assert.Equal(t, 80, m.Viewport.Width)
	assert.Equal(t, 20, m.Viewport.Height)

	m = updateModel(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.Viewport.Width)
	assert.Equal(t, 36, m.Viewport.Height)
	assert.Contains(t, m.View(), "Enter to send")
}

func TestModel_Submit(t *testing.T) {
	t.Parallel()

	t.Run("enter starts a query", func(t *testing.T) {
		t.Parallel()
		m := typeText(t, initModel(t, nopAgent), "Weather in Beijing?")
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = updated.(bt.Model)

		assert.True(t, m.Running())
		assert.NotNil(t, cmd)
		assert.Empty(t, m.Input.Value())
		require.Len(t, m.Blocks(), 1)
		assert.IsType(t, &bt.UserMessageBlock{}, m.Blocks()[0])
	})

	t.Run("empty input is ignored", func(t *testing.T) {
		t.Parallel()
		m := typeText(t, initModel(t, nopAgent), "   ")
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.False(t, updated.(bt.Model).Running())
		assert.Nil(t, cmd)
	})

	t.Run("quit exits", func(t *testing.T) {
		t.Parallel()
		m := typeText(t, initModel(t, nopAgent), "quit")
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	})

	t.Run("ctrl+c exits when idle", func(t *testing.T) {
		t.Parallel()
		_, cmd := initModel(t, nopAgent).Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	})
}

func TestModel_ParentContextCancelsQuery(t *testing.T) {
	t.Parallel()

	started := make(chan context.Context, 1)
	run := func(ctx context.Context, _ string, _ func(breeze.Event)) (string, error) {
		started <- ctx
		<-ctx.Done()
		return "", ctx.Err()
	}

	parent, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := typeText(t, initModel(t, run).WithContext(parent), "Weather in Beijing?")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if c != nil {
			go c()
		}
	}

	var queryCtx context.Context
	select {
	case queryCtx = <-started:
	case <-time.After(time.Second):
		t.Fatal("query did not start")
	}
	cancel()

	select {
	case <-queryCtx.Done():
		assert.ErrorIs(t, queryCtx.Err(), context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("query context was not cancelled")
	}
}

func TestModel_QueryEvents(t *testing.T) {
	t.Parallel()

	m := initModel(t, nopAgent)
	m = updateModel(t, m, bt.QueryEventMsg{Event: breeze.EventToolCall{
		Call:      breeze.ToolCall{ID: "call_1", Name: "query_weather", Arguments: json.RawMessage(`{"city":"Oslo"}`)},
		Arguments: map[string]any{"city": "Oslo"},
	}})
	m = updateModel(t, m, bt.QueryEventMsg{Event: breeze.EventToolResult{ID: "call_1", ToolName: "query_weather", Content: `{"error":"HTTP error: 404"}`}})
	m = updateModel(t, m, bt.QueryEventMsg{Event: breeze.EventAnswer{Text: "No data for Oslo."}})
	m = updateModel(t, m, bt.QueryDoneMsg{Answer: "No data for Oslo."})

	require.Len(t, m.Blocks(), 3)
	assert.IsType(t, &bt.ToolCallBlock{}, m.Blocks()[0])
	assert.IsType(t, &bt.WeatherBlock{}, m.Blocks()[1])
	assert.IsType(t, &bt.AnswerBlock{}, m.Blocks()[2])

	view := m.View()
	assert.Contains(t, view, "city=Oslo")
	assert.Contains(t, view, "HTTP error: 404")
	assert.Contains(t, view, "No data for Oslo.")
}

func TestModel_AnswerWithoutEvent(t *testing.T) {
	t.Parallel()

	m := updateModel(t, initModel(t, nopAgent), bt.QueryDoneMsg{Answer: "Direct answer."})
	require.Len(t, m.Blocks(), 1)
	assert.IsType(t, &bt.AnswerBlock{}, m.Blocks()[0])
}

func TestModel_QueryError(t *testing.T) {
	t.Parallel()

	t.Run("error is shown and input stays usable", func(t *testing.T) {
		t.Parallel()
		m := updateModel(t, initModel(t, nopAgent), bt.QueryDoneMsg{Err: breeze.ErrNoWeatherData})
		assert.ErrorIs(t, m.Err(), breeze.ErrNoWeatherData)
		assert.False(t, m.Running())
		require.Len(t, m.Blocks(), 1)
		assert.IsType(t, &bt.ErrorBlock{}, m.Blocks()[0])
		assert.Contains(t, m.View(), "Last query failed")
	})

	t.Run("cancellation is not recorded as failure", func(t *testing.T) {
		t.Parallel()
		m := updateModel(t, initModel(t, nopAgent), bt.QueryDoneMsg{Err: context.Canceled})
		assert.NoError(t, m.Err())
	})
}

func TestModel_ToggleFocusedBlock(t *testing.T) {
	t.Parallel()

	m := initModel(t, nopAgent)
	m = updateModel(t, m, bt.QueryEventMsg{Event: breeze.EventToolResult{ID: "c", ToolName: "query_weather", Content: beijing}})
	assert.NotContains(t, m.View(), `"name": "Beijing"`)

	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Contains(t, m.View(), `"name": "Beijing"`)
}

func TestModel_Teatest(t *testing.T) {
	t.Parallel()

	t.Run("full query round trip", func(t *testing.T) {
		t.Parallel()

		tm := teatest.NewTestModel(t, bt.New(weatherAgent, breeze.DefaultTheme()),
			teatest.WithInitialTermSize(100, 30),
		)

		tm.Type("Weather for Beijing?")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("in Beijing")) &&
				bytes.Contains(out, []byte("1 answered"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

		fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
		final, ok := fm.(bt.Model)
		require.True(t, ok)
		assert.False(t, final.Running())
		assert.NoError(t, final.Err())
		assert.Len(t, final.Blocks(), 4)
	})

	t.Run("failed query keeps the session alive", func(t *testing.T) {
		t.Parallel()

		var calls int
		run := func(_ context.Context, query string, _ func(breeze.Event)) (string, error) {
			calls++
			if calls == 1 {
				return "", errors.New("gateway returned HTTP 502")
			}
			return "Recovered for " + query, nil
		}
		tm := teatest.NewTestModel(t, bt.New(run, breeze.DefaultTheme()),
			teatest.WithInitialTermSize(100, 30),
		)

		tm.Type("Paris")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("HTTP 502"))
		}, teatest.WithDuration(5*time.Second))

		tm.Type("Lima")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("Recovered for Lima"))
		}, teatest.WithDuration(5*time.Second))

		tm.Type("quit")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
		tm.WaitFinished(t, teatest.WithFinalTimeout(5*time.Second))
	})

	t.Run("ctrl+c cancels a running query", func(t *testing.T) {
		t.Parallel()

		started := make(chan struct{})
		run := func(ctx context.Context, _ string, _ func(breeze.Event)) (string, error) {
			close(started)
			<-ctx.Done()
			return "", ctx.Err()
		}
		tm := teatest.NewTestModel(t, bt.New(run, breeze.DefaultTheme()),
			teatest.WithInitialTermSize(80, 24),
		)

		tm.Type("slow")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
		<-started
		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("context canceled"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
		fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
		assert.NoError(t, fm.(bt.Model).Err())
	})
}
