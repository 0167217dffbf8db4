// Package ndjson carries chat stream events as newline-delimited JSON: one
// event per line, blank lines as keep-alives.
package ndjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"folio/internal/domain/models/events"
)

// Encode serializes one event as a single line terminated by "\n".
func Encode(ev events.Event) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", ev.Type, err)
	}
	return append(data, '\n'), nil
}

// Writer writes frames to an HTTP response and flushes after each one.
// It is not safe for concurrent use; the handler loop is its only caller.
type Writer struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

// NewWriter wraps w.
func NewWriter(w http.ResponseWriter) *Writer {
	return &Writer{w: w, rc: http.NewResponseController(w)}
}

// WriteEvent writes one event frame and flushes it to the client.
func (s *Writer) WriteEvent(ev events.Event) error {
	frame, err := Encode(ev)
	if err != nil {
		return err
	}
	if _, err := s.w.Write(frame); err != nil {
		return fmt.Errorf("write event failed: %w", err)
	}
	return s.flush()
}

// WriteKeepAlive writes a blank line, which decoders skip.
func (s *Writer) WriteKeepAlive() error {
	if _, err := s.w.Write([]byte{'\n'}); err != nil {
		return fmt.Errorf("write keepalive failed: %w", err)
	}
	return s.flush()
}

func (s *Writer) flush() error {
	if err := s.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return fmt.Errorf("flush failed: %w", err)
	}
	return nil
}
