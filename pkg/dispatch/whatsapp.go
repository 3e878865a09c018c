package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

const whatsAppBaseURL = "https://wa.me/"

// WhatsAppSink turns the message into a click-to-chat link for the dispatch number.
// The link is written to out; opening it is left to the operator.
type WhatsAppSink struct {
	number string
	out    io.Writer
}

// NewWhatsAppSink creates a sink addressed to number.
func NewWhatsAppSink(number string, out io.Writer) *WhatsAppSink {
	return &WhatsAppSink{number: number, out: out}
}

// Link builds the wa.me URL carrying the URL-escaped message.
func (w *WhatsAppSink) Link(message string) (string, error) {
	number := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, w.number)
	if number == "" {
		return "", errors.New("dispatch number is empty")
	}

	// wa.me decodes %20 but not "+" as a space, so escape like a path segment.
	return whatsAppBaseURL + number + "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20"), nil
}

func (w *WhatsAppSink) Dispatch(_ context.Context, message string) error {
	link, err := w.Link(message)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, link)
	return err
}
