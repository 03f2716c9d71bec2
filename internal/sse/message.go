// Package sse implements the Server-Sent Events wire format: one Message
// per event (id/event/data/retry fields), encoded and decoded according
// to the W3C EventSource specification. The CLI uses it as a durable,
// replayable transcript format for a recorded streaming run — see
// cmd/codewiki's record/replay commands — rather than over an actual
// HTTP connection, since this module's external interface is the CLI,
// not a server.
package sse

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"
)

// ErrEmptyMessage is returned when encoding a Message with no fields set.
var ErrEmptyMessage = errors.New("sse: message has no content")

var lineBreakReplacer = strings.NewReplacer("\n", "\\n", "\r", "\\r")

const (
	fieldID    = "id"
	fieldEvent = "event"
	fieldData  = "data"
	fieldRetry = "retry"
)

// Message is one Server-Sent Event.
type Message struct {
	ID    string
	Event string
	Data  []byte
	Retry int
}

func (m Message) isEmpty() bool {
	return m.ID == "" && m.Event == "" && len(m.Data) == 0
}

// Encode renders m into SSE wire format, terminated by a blank line.
func Encode(m Message) ([]byte, error) {
	if m.isEmpty() {
		return nil, ErrEmptyMessage
	}
	var buf bytes.Buffer
	if m.ID != "" {
		buf.WriteString(fieldID + ": " + lineBreakReplacer.Replace(m.ID) + "\n")
	}
	if m.Event != "" {
		buf.WriteString(fieldEvent + ": " + lineBreakReplacer.Replace(m.Event) + "\n")
	}
	for _, line := range bytes.Split(bytes.ReplaceAll(m.Data, []byte("\r"), []byte("\\r")), []byte("\n")) {
		buf.WriteString(fieldData + ": ")
		buf.Write(line)
		buf.WriteByte('\n')
	}
	if m.Retry != 0 {
		buf.WriteString(fieldRetry + ": " + strconv.Itoa(m.Retry) + "\n")
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Decoder reads a sequence of Messages out of an SSE byte stream.
type Decoder struct {
	scanner *bufio.Scanner
	current Message
	lastID  string
	err     error
}

// NewDecoder wraps r in a Decoder.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{scanner: bufio.NewScanner(r)}
}

// Next advances to the next message, returning false at end of stream or
// on a scan error (check Err after a false return).
func (d *Decoder) Next() bool {
	if d.err != nil {
		return false
	}
	var event strings.Builder
	var data bytes.Buffer
	var retry int
	started := false

	for d.scanner.Scan() {
		line := d.scanner.Text()
		if line == "" {
			if !started || (event.Len() == 0 && data.Len() == 0) {
				continue
			}
			d.current = Message{ID: d.lastID, Event: event.String(), Data: bytes.TrimSuffix(data.Bytes(), []byte("\n")), Retry: retry}
			return true
		}
		started = true
		key, value, _ := strings.Cut(line, ": ")
		switch key {
		case fieldID:
			d.lastID = value
		case fieldEvent:
			event.WriteString(value)
		case fieldData:
			data.WriteString(value)
			data.WriteByte('\n')
		case fieldRetry:
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				retry = n
			}
		}
	}
	if event.Len() > 0 || data.Len() > 0 {
		d.current = Message{ID: d.lastID, Event: event.String(), Data: bytes.TrimSuffix(data.Bytes(), []byte("\n")), Retry: retry}
		return true
	}
	d.err = d.scanner.Err()
	return false
}

// Current returns the message Next just decoded.
func (d *Decoder) Current() Message { return d.current }

// Err reports the error, if any, that stopped Next.
func (d *Decoder) Err() error { return d.err }
