package goldmark

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/breeze"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// temperature matches readings like "20°C" or "-3.5 °F".
var temperature = regexp.MustCompile(`-?\d+(?:\.\d+)?\s?(?:°\s?[CF]|℃|℉)`)

type styles struct {
	bold   lipgloss.Style
	italic lipgloss.Style
	strike lipgloss.Style
	link   lipgloss.Style
	accent lipgloss.Style
	muted  lipgloss.Style
	temp   lipgloss.Style
}

func newStyles(theme breeze.Theme) styles {
	return styles{
		bold:   lipgloss.NewStyle().Bold(true),
		italic: lipgloss.NewStyle().Italic(true),
		strike: lipgloss.NewStyle().Strikethrough(true),
		link:   lipgloss.NewStyle().Underline(true),
		accent: lipgloss.NewStyle().Foreground(color(theme.Accent)).Bold(true),
		muted:  lipgloss.NewStyle().Foreground(color(theme.Muted)).Faint(true),
		temp:   lipgloss.NewStyle().Foreground(color(theme.Weather)).Bold(true),
	}
}

func color(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

// writer accumulates rendered blocks separated by single blank lines.
type writer struct {
	styles styles
	source []byte
	width  int
	out    []string
}

func (w *writer) String() string {
	return strings.Join(w.out, "\n\n")
}

func (w *writer) emit(block string) {
	block = strings.TrimRight(block, "\n")
	if block != "" {
		w.out = append(w.out, block)
	}
}

func (w *writer) blocks(parent ast.Node) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		w.block(n)
	}
}

func (w *writer) block(node ast.Node) {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		w.emit(wrap(w.inline(n), w.width))
	case *ast.Heading:
		w.emit(wrap(w.styles.accent.Render(w.inline(n)), w.width))
	case *ast.FencedCodeBlock:
		var b strings.Builder
		if lang := string(n.Language(w.source)); lang != "" {
			b.WriteString(w.styles.muted.Render(lang) + "\n")
		}
		b.WriteString(w.code(n))
		w.emit(b.String())
	case *ast.CodeBlock:
		w.emit(w.code(n))
	case *ast.Blockquote:
		inner := &writer{styles: w.styles, source: w.source, width: max(w.width-2, 10)}
		inner.blocks(n)
		w.emit(prefixLines(inner.String(), w.styles.muted.Render("▎")+" "))
	case *ast.List:
		var buf bytes.Buffer
		w.list(n, &buf, 0)
		w.emit(buf.String())
	case *ast.ThematicBreak:
		w.emit(w.styles.muted.Render(strings.Repeat("─", min(w.width, 40))))
	case *extast.Table:
		w.emit(w.table(n))
	case *ast.HTMLBlock:
		var b strings.Builder
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(w.source))
		}
		w.emit(b.String())
	default:
		w.blocks(node)
	}
}

// code renders the literal lines of a code block behind a gutter.
func (w *writer) code(n ast.Node) string {
	gutter := w.styles.muted.Render("│") + " "
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.WriteString(gutter)
		b.WriteString(strings.TrimRight(string(seg.Value(w.source)), "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

func (w *writer) list(n *ast.List, buf *bytes.Buffer, depth int) {
	num := n.Start
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "• "
		if n.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}
		prefix := strings.Repeat("  ", depth) + marker

		var pending strings.Builder
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			if sub, ok := ic.(*ast.List); ok {
				if pending.Len() > 0 {
					writeHanging(buf, prefix, pending.String(), w.width)
					pending.Reset()
					prefix = strings.Repeat(" ", lipgloss.Width(prefix))
				}
				w.list(sub, buf, depth+1)
				continue
			}
			if pending.Len() > 0 {
				pending.WriteString(" ")
			}
			pending.WriteString(w.inline(ic))
		}
		if pending.Len() > 0 {
			writeHanging(buf, prefix, pending.String(), w.width)
		}
	}
}

// writeHanging wraps content after prefix and indents continuation lines
// to line up with the first.
func writeHanging(buf *bytes.Buffer, prefix, content string, width int) {
	indent := lipgloss.Width(prefix)
	lines := strings.Split(wrap(content, max(width-indent, 10)), "\n")
	for i, line := range lines {
		if i == 0 {
			buf.WriteString(prefix)
		} else {
			buf.WriteString(strings.Repeat(" ", indent))
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}
}

// table renders a GFM table with columns padded to their widest cell.
func (w *writer) table(t *extast.Table) string {
	var rows [][]string
	for r := t.FirstChild(); r != nil; r = r.NextSibling() {
		var cells []string
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			cells = append(cells, w.inline(c))
		}
		rows = append(rows, cells)
	}

	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	sep := w.styles.muted.Render(" │ ")
	var b strings.Builder
	for ri, row := range rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteString(sep)
			}
			pad := widths[i] - lipgloss.Width(cell)
			if ri == 0 {
				cell = w.styles.bold.Render(cell)
			}
			b.WriteString(cell + strings.Repeat(" ", pad))
		}
		b.WriteString("\n")
		if ri == 0 {
			var rule []string
			for _, cw := range widths {
				rule = append(rule, strings.Repeat("─", cw))
			}
			b.WriteString(w.styles.muted.Render(strings.Join(rule, "─┼─")) + "\n")
		}
	}
	return b.String()
}

// inline renders the inline children of n.
func (w *writer) inline(n ast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		w.span(c, &b)
	}
	return b.String()
}

func (w *writer) span(node ast.Node, b *strings.Builder) {
	switch n := node.(type) {
	case *ast.Text:
		b.WriteString(w.highlight(string(n.Segment.Value(w.source))))
		switch {
		case n.HardLineBreak():
			b.WriteString("\n")
		case n.SoftLineBreak():
			b.WriteString(" ")
		}
	case *ast.String:
		b.WriteString(w.highlight(string(n.Value)))
	case *ast.Emphasis:
		if n.Level == 1 {
			b.WriteString(w.styles.italic.Render(w.inline(n)))
		} else {
			b.WriteString(w.styles.bold.Render(w.inline(n)))
		}
	case *extast.Strikethrough:
		b.WriteString(w.styles.strike.Render(w.inline(n)))
	case *ast.CodeSpan:
		b.WriteString(w.styles.bold.Render(w.inline(n)))
	case *ast.Link:
		b.WriteString(w.styles.link.Render(w.inline(n)))
		b.WriteString(" " + w.styles.muted.Render("("+string(n.Destination)+")"))
	case *ast.AutoLink:
		b.WriteString(w.styles.link.Render(string(n.URL(w.source))))
	case *ast.Image:
		b.WriteString(w.styles.link.Render(w.inline(n)))
		b.WriteString(" " + w.styles.muted.Render("("+string(n.Destination)+")"))
	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(w.source))
		}
	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			w.span(c, b)
		}
	}
}

// highlight styles temperature readings in s.
func (w *writer) highlight(s string) string {
	return temperature.ReplaceAllStringFunc(s, func(m string) string {
		return w.styles.temp.Render(m)
	})
}

func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}

func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
