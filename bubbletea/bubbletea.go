// Package bubbletea provides an interactive chat TUI for weather queries.
//
// Each submitted line runs one query through an [AgentFunc]. Tool calls,
// weather results and answers are appended to a scrolling transcript as they
// arrive. Typing "quit" or pressing Ctrl+C while idle exits.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/breeze"
)

// QuitCommand is the input line that ends the session.
const QuitCommand = "quit"

// AgentFunc answers one query. The onEvent callback is called for each step
// of the query. The function blocks until the answer is ready or the context
// is cancelled.
type AgentFunc func(ctx context.Context, query string, onEvent func(breeze.Event)) (string, error)

// Run creates and runs the Bubble Tea program. It blocks until the program
// exits. When ctx is cancelled the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m.WithContext(ctx), tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// QueryEventMsg delivers one query event to the model.
type QueryEventMsg struct {
	Event breeze.Event
}

// QueryDoneMsg signals that a query has finished.
type QueryDoneMsg struct {
	Answer string
	Err    error
}
