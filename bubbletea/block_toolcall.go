package bubbletea

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/breeze"
	"github.com/goccy/go-json"
)

var _ MessageBlock = (*ToolCallBlock)(nil)

// ToolCallBlock renders a dispatched tool call. Collapsed it shows the tool
// name and arguments on one line; expanded it adds the call ID and the raw
// arguments the model produced.
type ToolCallBlock struct {
	call      breeze.ToolCall
	args      map[string]any
	collapsed bool
	styles    Styles
}

// NewToolCallBlock creates a collapsed ToolCallBlock.
func NewToolCallBlock(call breeze.ToolCall, args map[string]any, styles Styles) *ToolCallBlock {
	return &ToolCallBlock{call: call, args: args, collapsed: true, styles: styles}
}

// ID returns the tool call ID.
func (b *ToolCallBlock) ID() string { return b.call.ID }

func (b *ToolCallBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	if _, ok := msg.(ToggleMsg); ok {
		b.collapsed = !b.collapsed
	}
	return b, nil
}

func (b *ToolCallBlock) View(width int) string {
	indicator := "▶"
	if !b.collapsed {
		indicator = "▼"
	}
	line := b.styles.ToolCall.Render(indicator+" "+b.call.Name) + " " + formatArgs(b.args)
	if b.collapsed {
		return truncate(line, width)
	}
	raw := string(b.call.Arguments)
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, b.call.Arguments, "  ", "  "); err == nil {
		raw = pretty.String()
	}
	return line + "\n" + b.styles.Muted.Render("  id: "+b.call.ID+"\n  "+raw)
}

// formatArgs renders arguments as sorted key=value pairs.
func formatArgs(args map[string]any) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, args[k])
	}
	return strings.Join(parts, " ")
}

// truncate cuts s to a single line of at most width cells.
func truncate(s string, width int) string {
	return lipgloss.NewStyle().MaxWidth(width).Render(firstLine(s))
}
