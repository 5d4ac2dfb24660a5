package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/breeze"
	"github.com/fwojciec/breeze/goldmark"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the chat TUI.
type Model struct {
	// Input is the query input. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable transcript. Exported for test access.
	Viewport viewport.Model
	// Spinner animates the status line while a query runs.
	Spinner spinner.Model

	ctx      context.Context // parent of every query context
	run      AgentFunc
	styles   Styles
	renderer *goldmark.Renderer

	blocks     []MessageBlock
	blockFocus int // index of the focused collapsible block, -1 for none

	running  bool
	answered bool // an EventAnswer arrived for the running query
	done     int  // queries answered successfully
	cancel   context.CancelFunc
	eventCh  chan breeze.Event
	doneCh   chan QueryDoneMsg
	err      error
	ready    bool
}

// New creates a new TUI Model with the given agent function and theme.
func New(run AgentFunc, theme breeze.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about the weather..."
	ti.Prompt = "> "
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	styles := NewStyles(theme)
	sp.Style = styles.Accent

	return Model{
		Input:      ti,
		Spinner:    sp,
		ctx:        context.Background(),
		run:        run,
		styles:     styles,
		renderer:   goldmark.New(theme),
		blockFocus: -1,
	}
}

// WithContext returns a copy of m whose queries are cancelled with ctx.
func (m Model) WithContext(ctx context.Context) Model {
	m.ctx = ctx
	return m
}

// Running returns whether a query is in flight.
func (m Model) Running() bool { return m.running }

// Err returns the error of the last query, if any.
func (m Model) Err() error { return m.err }

// Blocks returns the transcript blocks.
func (m Model) Blocks() []MessageBlock { return m.blocks }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case QueryEventMsg:
		m = m.processEvent(msg.Event)
		m = m.refresh()
		if m.eventCh != nil {
			return m, listenForEvent(m.eventCh, m.doneCh)
		}
		return m, nil

	case QueryDoneMsg:
		m.running = false
		m.cancel = nil
		m.eventCh = nil
		m.doneCh = nil
		switch {
		case msg.Err != nil:
			if !errors.Is(msg.Err, context.Canceled) {
				m.err = msg.Err
			}
			m.blocks = append(m.blocks, NewErrorBlock(msg.Err, m.styles))
		case !m.answered:
			m.blocks = append(m.blocks, NewAnswerBlock(msg.Answer, breeze.Usage{}, m.renderer, m.styles))
			m.done++
		default:
			m.done++
		}
		m = m.updateBlockFocus().refresh()
		return m, m.Input.Focus()
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)
	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	const chrome = 4 // input, status and two separators
	vpHeight := max(msg.Height-chrome, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Input.Width = msg.Width
	return m.refresh()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		switch {
		case text == "":
			return m, nil
		case strings.EqualFold(text, QuitCommand):
			return m, tea.Quit
		}
		return m.submit(text)

	case tea.KeyTab:
		if !m.running && m.blockFocus >= 0 {
			block, cmd := m.blocks[m.blockFocus].Update(ToggleMsg{})
			m.blocks[m.blockFocus] = block
			return m.refresh(), cmd
		}
		return m, nil

	case tea.KeyShiftTab:
		if !m.running {
			m = m.cycleFocusPrev()
		}
		return m, nil
	}

	if m.running {
		return m, nil
	}
	var cmds []tea.Cmd
	var cmd tea.Cmd
	// Character keys go to the input only so letters never scroll.
	if msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.Input.Blur()
	m.err = nil
	m.answered = false
	m.blocks = append(m.blocks, NewUserMessageBlock(text, m.styles))
	m = m.refresh()

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.eventCh = make(chan breeze.Event, 16)
	m.doneCh = make(chan QueryDoneMsg, 1)
	m.running = true

	return m, tea.Batch(
		startQuery(ctx, m.run, text, m.eventCh, m.doneCh),
		listenForEvent(m.eventCh, m.doneCh),
		m.Spinner.Tick,
	)
}

// processEvent appends the block for a query event.
func (m Model) processEvent(evt breeze.Event) Model {
	switch e := evt.(type) {
	case breeze.EventToolCall:
		m.blocks = append(m.blocks, NewToolCallBlock(e.Call, e.Arguments, m.styles))
	case breeze.EventToolResult:
		m.blocks = append(m.blocks, NewWeatherBlock(e.ToolName, e.Content, m.styles))
	case breeze.EventAnswer:
		m.answered = true
		m.blocks = append(m.blocks, NewAnswerBlock(e.Text, e.Usage, m.renderer, m.styles))
	}
	return m.updateBlockFocus()
}

func (m Model) refresh() Model {
	if !m.ready {
		return m
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m
}

func (m Model) renderContent() string {
	views := make([]string, len(m.blocks))
	for i, block := range m.blocks {
		views[i] = block.View(m.Viewport.Width)
	}
	return strings.Join(views, "\n")
}

func collapsible(b MessageBlock) bool {
	switch b := b.(type) {
	case *ToolCallBlock:
		return true
	case *WeatherBlock:
		return !b.IsError()
	}
	return false
}

// updateBlockFocus focuses the last collapsible block.
func (m Model) updateBlockFocus() Model {
	m.blockFocus = -1
	for i := len(m.blocks) - 1; i >= 0; i-- {
		if collapsible(m.blocks[i]) {
			m.blockFocus = i
			break
		}
	}
	return m
}

// cycleFocusPrev moves focus to the previous collapsible block, wrapping around.
func (m Model) cycleFocusPrev() Model {
	n := len(m.blocks)
	start := m.blockFocus - 1
	if start < 0 {
		start = n - 1
	}
	for i := range n {
		idx := (start - i + n) % n
		if collapsible(m.blocks[idx]) {
			m.blockFocus = idx
			return m
		}
	}
	m.blockFocus = -1
	return m
}

func (m Model) statusLine() string {
	switch {
	case m.running:
		return m.Spinner.View() + " " + m.styles.Muted.Render("Checking the weather... (Ctrl+C to cancel)")
	case m.err != nil:
		return m.styles.Error.Render("Last query failed. Type another or \"quit\" to exit")
	case m.done > 0:
		return m.styles.Muted.Render(fmt.Sprintf("%d answered · Enter to send, Tab to expand, \"quit\" or Ctrl+C to exit", m.done))
	default:
		return m.styles.Muted.Render("Enter to send, Tab to expand, \"quit\" or Ctrl+C to exit")
	}
}

// startQuery runs the agent in a goroutine and reports the outcome on doneCh.
func startQuery(ctx context.Context, run AgentFunc, text string, eventCh chan<- breeze.Event, doneCh chan<- QueryDoneMsg) tea.Cmd {
	return func() tea.Msg {
		answer, err := run(ctx, text, func(e breeze.Event) {
			select {
			case eventCh <- e:
			case <-ctx.Done():
			}
		})
		close(eventCh)
		doneCh <- QueryDoneMsg{Answer: answer, Err: err}
		return nil
	}
}

// listenForEvent waits for the next event. When the channel closes it
// returns the query outcome from doneCh.
func listenForEvent(ch <-chan breeze.Event, doneCh <-chan QueryDoneMsg) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return <-doneCh
		}
		return QueryEventMsg{Event: evt}
	}
}
