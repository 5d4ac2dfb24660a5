package sse

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
)

// Decoder yields the payloads of data lines in an event stream.
type Decoder struct {
	scanner *bufio.Scanner
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &Decoder{scanner: s}
}

// Next returns the trimmed payload of the next non-empty data line. Lines
// without the data prefix are skipped. It returns io.EOF when the stream ends.
func (d *Decoder) Next() (string, error) {
	for d.scanner.Scan() {
		line := d.scanner.Text()
		payload, ok := strings.CutPrefix(line, DataPrefix)
		if !ok {
			continue
		}
		payload = strings.TrimSpace(payload)
		if payload == "" {
			continue
		}
		return payload, nil
	}
	if err := d.scanner.Err(); err != nil {
		return "", fmt.Errorf("sse: read: %w", err)
	}
	return "", io.EOF
}

// DecodeFirst reads payloads from r until one is valid JSON that decodes
// into v, then stops reading. Payloads that are not JSON, or that do not fit
// v, are skipped. ErrNoPayload is returned if the stream ends first.
func DecodeFirst(r io.Reader, v any) error {
	d := NewDecoder(r)
	for {
		payload, err := d.Next()
		if err == io.EOF {
			return ErrNoPayload
		}
		if err != nil {
			return err
		}
		data := []byte(payload)
		if !json.Valid(data) {
			continue
		}
		if err := json.Unmarshal(data, v); err != nil {
			continue
		}
		return nil
	}
}
