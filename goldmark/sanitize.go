package goldmark

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Sanitize removes escape sequences and control characters from text that
// came from the network before it is written to a terminal. Tabs and
// newlines survive; CRLF becomes LF.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' {
			return r
		}
		if r <= 0x1F || r == 0x7F {
			return -1
		}
		return r
	}, s)
}
