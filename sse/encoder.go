package sse

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
)

type flusher interface {
	Flush()
}

// Encoder writes events to w, flushing after each one when w supports it.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Status writes a free-text event. Newlines are folded into spaces so the
// notice stays on a single data line.
func (e *Encoder) Status(text string) error {
	text = strings.Join(strings.Fields(text), " ")
	return e.write([]byte(text))
}

// Data writes v as a compact JSON event.
func (e *Encoder) Data(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("sse: encode: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return fmt.Errorf("sse: compact: %w", err)
	}
	return e.write(buf.Bytes())
}

func (e *Encoder) write(payload []byte) error {
	var buf bytes.Buffer
	buf.Grow(len(DataPrefix) + len(payload) + 3)
	buf.WriteString(DataPrefix)
	buf.WriteByte(' ')
	buf.Write(payload)
	buf.WriteString("\n\n")
	if _, err := e.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("sse: write: %w", err)
	}
	if f, ok := e.w.(flusher); ok {
		f.Flush()
	}
	return nil
}
