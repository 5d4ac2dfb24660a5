package bubbletea

import (
	"bytes"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/breeze"
	"github.com/fwojciec/breeze/goldmark"
	"github.com/goccy/go-json"
	"github.com/mattn/go-runewidth"
)

var _ MessageBlock = (*WeatherBlock)(nil)

// WeatherBlock renders the payload returned by the weather tool. A document
// is summarized on one line and starts collapsed; an in-band error is shown
// in full and cannot be collapsed.
type WeatherBlock struct {
	toolName  string
	content   string
	result    breeze.WeatherResult
	parsed    bool
	collapsed bool
	styles    Styles
}

// NewWeatherBlock creates a WeatherBlock from the tool's text content.
func NewWeatherBlock(toolName, content string, styles Styles) *WeatherBlock {
	b := &WeatherBlock{toolName: toolName, content: content, styles: styles}
	b.parsed = json.Unmarshal([]byte(content), &b.result) == nil
	b.collapsed = !b.IsError()
	return b
}

// IsError reports whether the payload is an in-band error.
func (b *WeatherBlock) IsError() bool {
	return b.parsed && b.result.Failed()
}

func (b *WeatherBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	if _, ok := msg.(ToggleMsg); ok && !b.IsError() {
		b.collapsed = !b.collapsed
	}
	return b, nil
}

func (b *WeatherBlock) View(width int) string {
	if b.IsError() {
		header := b.styles.ToolCall.Render("▼ "+b.toolName) + " " + b.styles.Error.Render("✗")
		body := b.styles.Error.Render(goldmark.Sanitize(b.result.Error))
		return lipgloss.NewStyle().Width(width).Render(header + "\n" + body)
	}

	if b.collapsed {
		header := b.styles.ToolCall.Render("▶ "+b.toolName) + " " + b.styles.Success.Render("✓")
		avail := max(width-lipgloss.Width(header)-2, 0)
		summary := runewidth.Truncate(goldmark.Sanitize(b.summary()), avail, "…")
		return truncate(header+"  "+b.styles.Weather.Render(summary), width)
	}

	header := b.styles.ToolCall.Render("▼ "+b.toolName) + " " + b.styles.Success.Render("✓")
	body := b.content
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(b.content), "", "  "); err == nil {
		body = pretty.String()
	}
	return header + "\n" + b.styles.Weather.Render(goldmark.Sanitize(body))
}

// weatherSummary holds the fields of an OpenWeather current-weather document
// shown in the collapsed view.
type weatherSummary struct {
	Name string `json:"name"`
	Main struct {
		Temp     *float64 `json:"temp"`
		Humidity *int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
}

// summary extracts a one-line description. Documents of another shape fall
// back to the first line of the raw content.
func (b *WeatherBlock) summary() string {
	var s weatherSummary
	if err := json.Unmarshal([]byte(b.content), &s); err != nil {
		return firstLine(b.content)
	}
	var parts []string
	if s.Name != "" {
		parts = append(parts, s.Name)
	}
	if s.Main.Temp != nil {
		parts = append(parts, fmt.Sprintf("%.1f°C", *s.Main.Temp))
	}
	if len(s.Weather) > 0 && s.Weather[0].Description != "" {
		parts = append(parts, s.Weather[0].Description)
	}
	if s.Main.Humidity != nil {
		parts = append(parts, fmt.Sprintf("humidity %d%%", *s.Main.Humidity))
	}
	if s.Wind.Speed != nil {
		parts = append(parts, fmt.Sprintf("wind %.1f m/s", *s.Wind.Speed))
	}
	if len(parts) == 0 {
		return firstLine(b.content)
	}
	return strings.Join(parts, " · ")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
