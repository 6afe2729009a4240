package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"servicegov/internal/ticket"
)

var csvHeader = []string{
	"Number",
	"Priority",
	"First_Assignment_group",
	"Assignment_group",
	"Assigned_to",
	"Opened_by",
	"Caller",
	"Contact_type",
	"Resolution_code",
	"Created",
	"Resolved",
	"Closed",
}

// WriteCSV writes records in the canonical export column order understood by
// ticket.ReadCSV.
func WriteCSV(w io.Writer, records []ticket.Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.Number,
			rec.Priority,
			rec.FirstAssignmentGroup,
			rec.AssignmentGroup,
			rec.AssignedTo,
			rec.OpenedBy,
			rec.Caller,
			rec.ContactType,
			rec.ResolutionCode,
			rec.Created.Format(ticket.TimeLayout),
			formatOptional(rec.Resolved),
			formatOptional(rec.Closed),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %s: %w", rec.Number, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteCSVFile writes records to path, truncating any existing file.
func WriteCSVFile(path string, records []ticket.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()
	return WriteCSV(file, records)
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(ticket.TimeLayout)
}
