package sse

import (
	"io"
)

// Writer appends encoded Messages to an underlying io.Writer (typically
// a recording file opened by the CLI's record command).
type Writer struct {
	w io.Writer
}

// NewWriter wraps w in a Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write encodes m and appends it to the underlying writer.
func (sw *Writer) Write(m Message) error {
	encoded, err := Encode(m)
	if err != nil {
		return err
	}
	_, err = sw.w.Write(encoded)
	return err
}
