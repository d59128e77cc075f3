package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTimestamp is returned when submitted_at is not an ISO 8601 date or datetime.
var ErrInvalidTimestamp = errors.New("invalid datetime")

// Inputs without an offset are read as UTC. Fractional seconds are accepted by every layout.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Timestamp is a client supplied point in time. The offset is optional on input.
type Timestamp struct {
	time.Time
}

// ParseTimestamp reads value using the accepted ISO 8601 layouts.
func ParseTimestamp(value string) (Timestamp, error) {
	trimmed := strings.TrimSpace(value)
	if strings.HasSuffix(trimmed, "z") {
		trimmed = strings.TrimSuffix(trimmed, "z") + "Z"
	}
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, trimmed)
		if err == nil {
			return Timestamp{Time: parsed}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, value)
}

// UnmarshalJSON accepts a JSON string in any layout ParseTimestamp understands.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTimestamp, string(data))
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON renders the instant as RFC 3339 in UTC.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}
