package ndjson

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"folio/internal/domain/models/events"
)

// Decoder reads events from a stream of NDJSON frames that may arrive split
// at arbitrary byte boundaries.
type Decoder struct {
	r      *bufio.Reader
	logger *slog.Logger
}

// NewDecoder creates a decoder over r. Skipped lines are reported to logger.
func NewDecoder(r io.Reader, logger *slog.Logger) *Decoder {
	return &Decoder{r: bufio.NewReader(r), logger: logger}
}

// Next returns the next well-formed event. Blank lines are skipped silently;
// malformed lines, unknown event types and finals that fail validation are
// skipped with a diagnostic. An unterminated trailing fragment is discarded.
// Next returns io.EOF when the stream ends.
func (d *Decoder) Next() (events.Event, error) {
	for {
		line, err := d.r.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				if len(bytes.TrimSpace(line)) > 0 {
					d.logger.Debug("discarding unterminated trailing fragment", "bytes", len(line))
				}
				return events.Event{}, io.EOF
			}
			return events.Event{}, err
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var ev events.Event
		if err := json.Unmarshal(line, &ev); err != nil {
			d.logger.Warn("skipping malformed stream line", "error", err, "line", truncateForLog(line))
			continue
		}
		return ev, nil
	}
}

func truncateForLog(line []byte) string {
	const max = 200
	if len(line) > max {
		return string(line[:max]) + "..."
	}
	return string(line)
}
