// Package console runs weather queries from a plain line-oriented prompt.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/breeze"
	"github.com/fwojciec/breeze/goldmark"
)

// QuitCommand is the input line that ends the session.
const QuitCommand = "quit"

const defaultWidth = 80

// AgentFunc answers one query, reporting intermediate steps through onEvent.
type AgentFunc func(ctx context.Context, query string, onEvent func(breeze.Event)) (string, error)

// REPL reads one query per line and prints the answer.
type REPL struct {
	run      AgentFunc
	in       io.Reader
	out      io.Writer
	width    int
	prompt   string
	renderer *goldmark.Renderer
	styles   styles
}

// Option configures a [REPL].
type Option func(*REPL)

// WithWidth sets the column width answers are wrapped to.
func WithWidth(n int) Option {
	return func(r *REPL) {
		if n > 0 {
			r.width = n
		}
	}
}

// WithPrompt replaces the input prompt.
func WithPrompt(p string) Option {
	return func(r *REPL) { r.prompt = p }
}

// New creates a REPL reading from in and writing to out.
func New(run AgentFunc, in io.Reader, out io.Writer, theme breeze.Theme, opts ...Option) *REPL {
	r := &REPL{
		run:      run,
		in:       in,
		out:      out,
		width:    defaultWidth,
		prompt:   "you> ",
		renderer: goldmark.New(theme),
		styles:   newStyles(theme),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

type styles struct {
	prompt lipgloss.Style
	tool   lipgloss.Style
	err    lipgloss.Style
	muted  lipgloss.Style
}

func newStyles(t breeze.Theme) styles {
	color := func(i int) lipgloss.TerminalColor { return lipgloss.Color(strconv.Itoa(i)) }
	return styles{
		prompt: lipgloss.NewStyle().Foreground(color(t.UserMsg)).Bold(true),
		tool:   lipgloss.NewStyle().Foreground(color(t.ToolCall)),
		err:    lipgloss.NewStyle().Foreground(color(t.Error)),
		muted:  lipgloss.NewStyle().Foreground(color(t.Muted)).Faint(true),
	}
}

// Run reads queries until "quit", end of input or cancellation of ctx.
// A failed query is reported and the loop continues.
func (r *REPL) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(r.out, r.styles.muted.Render(fmt.Sprintf("Weather assistant ready. Type %q to exit.", QuitCommand)))

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		fmt.Fprint(r.out, r.styles.prompt.Render(r.prompt))

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out)
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(r.out)
			select {
			case err := <-scanErr:
				if err != nil {
					return fmt.Errorf("console: read input: %w", err)
				}
			default:
			}
			return nil
		}

		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}
		if strings.EqualFold(query, QuitCommand) {
			return nil
		}
		r.ask(ctx, query)
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (r *REPL) ask(ctx context.Context, query string) {
	answer, err := r.run(ctx, query, r.printEvent)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintln(r.out, r.styles.err.Render("✗ Error: "+err.Error()))
		fmt.Fprintln(r.out)
		return
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.renderer.Render(answer, r.width))
	fmt.Fprintln(r.out)
}

func (r *REPL) printEvent(evt breeze.Event) {
	switch e := evt.(type) {
	case breeze.EventToolCall:
		fmt.Fprintln(r.out, r.styles.tool.Render(fmt.Sprintf("→ %s(%s)", e.Call.Name, formatArgs(e.Arguments))))
	case breeze.EventToolResult:
		if e.IsError {
			fmt.Fprintln(r.out, r.styles.err.Render("  tool error: "+goldmark.Sanitize(e.Content)))
		}
	}
}

func formatArgs(args map[string]any) string {
	parts := make([]string, 0, len(args))
	for _, k := range slices.Sorted(maps.Keys(args)) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, args[k]))
	}
	return strings.Join(parts, ", ")
}
