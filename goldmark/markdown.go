// Package goldmark renders model answers, which are usually light markdown,
// as ANSI-styled terminal text. goldmark parses the source with the GFM
// extension and lipgloss does the styling. Temperatures such as "20°C" are
// highlighted with the theme's weather color.
package goldmark

import (
	"github.com/fwojciec/breeze"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

const defaultWidth = 80

// Renderer converts markdown to styled terminal output.
type Renderer struct {
	md     goldmark.Markdown
	styles styles
}

// New creates a Renderer for theme.
func New(theme breeze.Theme) *Renderer {
	return &Renderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		styles: newStyles(theme),
	}
}

// Render parses source and returns styled output wrapped to width.
// Code blocks and tables are not reflowed.
func (r *Renderer) Render(source string, width int) string {
	source = Sanitize(source)
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	src := []byte(source)
	doc := r.md.Parser().Parse(text.NewReader(src))
	w := &writer{styles: r.styles, source: src, width: width}
	w.blocks(doc)
	return w.String()
}

// Render is a shorthand for New(theme).Render(source, width).
func Render(source string, width int, theme breeze.Theme) string {
	return New(theme).Render(source, width)
}
