package bubbletea

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/breeze"
	"github.com/fwojciec/breeze/goldmark"
)

var _ MessageBlock = (*AnswerBlock)(nil)

// AnswerBlock renders the final answer as markdown with a token usage
// footer. Rendered output is cached per width.
type AnswerBlock struct {
	text     string
	usage    breeze.Usage
	renderer *goldmark.Renderer
	styles   Styles
	cache    map[int]string
}

// NewAnswerBlock creates an AnswerBlock.
func NewAnswerBlock(text string, usage breeze.Usage, renderer *goldmark.Renderer, styles Styles) *AnswerBlock {
	return &AnswerBlock{
		text:     text,
		usage:    usage,
		renderer: renderer,
		styles:   styles,
		cache:    make(map[int]string),
	}
}

func (b *AnswerBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *AnswerBlock) View(width int) string {
	if out, ok := b.cache[width]; ok {
		return out
	}
	out := b.renderer.Render(b.text, width)
	if b.usage != (breeze.Usage{}) {
		out += "\n" + b.styles.Muted.Render(fmt.Sprintf("%d in · %d out tokens", b.usage.InputTokens, b.usage.OutputTokens))
	}
	b.cache[width] = out
	return out
}
