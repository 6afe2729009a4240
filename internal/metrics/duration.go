package metrics

import (
	"fmt"
	"time"
)

// FormatDuration renders d in the fixed DD:HH:MM:SS shape. Days are unbounded
// but still zero-padded to two digits; negative durations render as zero.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", days, hours, minutes, seconds)
}

// FormatMinutes renders a business-minute count as DD:HH:MM:SS.
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return FormatDuration(time.Duration(minutes) * time.Minute)
}

// FormatHours renders a fractional hour quantity (e.g. an MTTR value) as
// DD:HH:MM:SS for chart labels.
func FormatHours(hours float64) string {
	if hours < 0 || hours != hours { // negative or NaN
		return FormatDuration(0)
	}
	return FormatDuration(time.Duration(hours * float64(time.Hour)))
}
