package ticket

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the wall-clock format used by ServiceNow exports ("glide" datetime).
const TimeLayout = "2006-01-02 15:04:05"

// Record represents a single service-desk incident as delivered by ingestion.
// Records are read-only inputs; the engine never mutates them.
type Record struct {
	Number               string
	Priority             string
	FirstAssignmentGroup string
	AssignmentGroup      string
	AssignedTo           string
	OpenedBy             string
	Caller               string
	ContactType          string
	ResolutionCode       string
	Created              time.Time
	Resolved             *time.Time
	Closed               *time.Time
}

// ParseError signals a malformed required timestamp on a single record.
// It is fatal to that record only; batch loaders skip-and-log.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ticket: cannot parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseTimestamp parses a required timestamp field, wrapping failures in a ParseError.
func ParseTimestamp(field, value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	t, err := time.Parse(TimeLayout, v)
	if err != nil {
		// Exports that went through a spreadsheet roundtrip sometimes carry RFC3339.
		if t2, err2 := time.Parse(time.RFC3339, v); err2 == nil {
			return t2, nil
		}
		return time.Time{}, &ParseError{Field: field, Value: value, Err: err}
	}
	return t, nil
}

// ParseOptionalTimestamp parses a nullable timestamp field. An empty value is nil,
// a malformed value is a ParseError.
func ParseOptionalTimestamp(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
