// Package dispatch delivers composed dispatch messages to outbound channels.
package dispatch

import (
	"context"
	"fmt"
	"io"
)

// Sink accepts a pre-formatted dispatch message and hands it to a channel.
type Sink interface {
	Dispatch(ctx context.Context, message string) error
}

// WriterSink prints the message verbatim, e.g. to a terminal.
type WriterSink struct {
	out io.Writer
}

// NewWriterSink creates a sink writing to out.
func NewWriterSink(out io.Writer) *WriterSink {
	return &WriterSink{out: out}
}

func (w *WriterSink) Dispatch(_ context.Context, message string) error {
	_, err := fmt.Fprintln(w.out, message)
	return err
}
