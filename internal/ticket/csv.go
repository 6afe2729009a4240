package ticket

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// LoadCSV reads a cleaned incident export. Rows with a malformed Created or Resolved
// timestamp are skipped and logged rather than aborting the batch; the skip count is
// returned so callers can surface data completeness.
func LoadCSV(path string) ([]Record, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open ticket export: %w", err)
	}
	defer file.Close()

	records, skipped, err := ReadCSV(file)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, skipped, nil
}

// ReadCSV parses incident rows from r. The first row must be a header; columns are
// addressed by name so exports may reorder or add columns freely.
func ReadCSV(r io.Reader) ([]Record, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("missing header row: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols["Created"]; !ok {
		return nil, 0, fmt.Errorf("header has no Created column")
	}

	field := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var records []Record
	skipped := 0
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, 0, fmt.Errorf("line %d: %w", line, err)
		}

		created, err := ParseTimestamp("Created", field(row, "Created"))
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("Skipping row with malformed Created")
			skipped++
			continue
		}
		resolved, err := ParseOptionalTimestamp("Resolved", field(row, "Resolved"))
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("Skipping row with malformed Resolved")
			skipped++
			continue
		}
		closed, err := ParseOptionalTimestamp("Closed", field(row, "Closed"))
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("Skipping row with malformed Closed")
			skipped++
			continue
		}

		records = append(records, Record{
			Number:               field(row, "Number"),
			Priority:             field(row, "Priority"),
			FirstAssignmentGroup: field(row, "First_Assignment_group"),
			AssignmentGroup:      field(row, "Assignment_group"),
			AssignedTo:           field(row, "Assigned_to"),
			OpenedBy:             field(row, "Opened_by"),
			Caller:               field(row, "Caller"),
			ContactType:          field(row, "Contact_type"),
			ResolutionCode:       field(row, "Resolution_code"),
			Created:              created,
			Resolved:             resolved,
			Closed:               closed,
		})
	}

	return records, skipped, nil
}
