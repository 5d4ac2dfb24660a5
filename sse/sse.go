// Package sse reads and writes the line-delimited event stream spoken between
// the Tool Gateway and its clients.
//
// Every event is a single line of the form "data: <payload>" followed by a
// blank line. Payloads are either free text (status notices) or a JSON
// document. The decoder is independent of HTTP so it can be driven by any
// reader.
package sse

import "errors"

// DataPrefix marks a line as carrying an event payload.
const DataPrefix = "data:"

// ContentType is the media type of an event stream response.
const ContentType = "text/event-stream"

// maxLineSize bounds a single event line. Weather documents are small, but
// forecasts from some providers reach a few hundred kilobytes.
const maxLineSize = 1 << 20

// ErrNoPayload is returned by DecodeFirst when the stream ends without a
// data line that decodes into the target value.
var ErrNoPayload = errors.New("sse: no decodable payload")
