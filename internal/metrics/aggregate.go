package metrics

import (
	"sort"
	"strings"

	"servicegov/internal/ticket"
)

// MonthKeyLayout is the calendar-month bucket key (e.g. "2024-03").
const MonthKeyLayout = "2006-01"

// fcrWindowMonths caps the FCR series to the trailing distinct months present
// in the data.
const fcrWindowMonths = 6

// MonthlyFCR computes the First Contact Resolution rate per calendar month,
// windowed to the last 6 distinct months found in the data. For each month the
// denominator is the tickets first assigned to an L1 group; the numerator is
// the subset still assigned to an L1 group and closed with an accepted
// resolution code. A month with no L1-started tickets yields 0, not a gap.
func MonthlyFCR(records []ticket.Record, l1Groups, resolutionCodes []string) Series {
	l1 := toSet(l1Groups)
	codes := toSet(resolutionCodes)

	byMonth := make(map[string][]ticket.Record)
	for _, rec := range records {
		if rec.Created.IsZero() {
			continue
		}
		key := rec.Created.Format(MonthKeyLayout)
		byMonth[key] = append(byMonth[key], rec)
	}

	months := sortedKeys(byMonth)
	if len(months) > fcrWindowMonths {
		months = months[len(months)-fcrWindowMonths:]
	}

	series := make(Series, 0, len(months))
	for _, month := range months {
		denominator := 0
		numerator := 0
		for _, rec := range byMonth[month] {
			if !l1[strings.TrimSpace(rec.FirstAssignmentGroup)] {
				continue
			}
			denominator++
			if l1[strings.TrimSpace(rec.AssignmentGroup)] && codes[strings.TrimSpace(rec.ResolutionCode)] {
				numerator++
			}
		}

		value := 0.0
		if denominator > 0 {
			value = float64(numerator) / float64(denominator) * 100
		}
		series = append(series, Point{Period: month, Value: value})
	}
	return series
}

// SLAComplianceByMonth computes the percentage of compliant verdicts per
// calendar month for tickets of the given raw priority value.
func SLAComplianceByMonth(resolved []Resolved, priority string) Series {
	type tally struct {
		total     int
		compliant int
	}

	byMonth := make(map[string]*tally)
	for _, r := range resolved {
		if r.Ticket.Priority != priority || r.Ticket.Created.IsZero() {
			continue
		}
		key := r.Ticket.Created.Format(MonthKeyLayout)
		t, ok := byMonth[key]
		if !ok {
			t = &tally{}
			byMonth[key] = t
		}
		t.total++
		if r.SLA == SLACompliant {
			t.compliant++
		}
	}

	series := make(Series, 0, len(byMonth))
	for _, month := range sortedKeys(byMonth) {
		t := byMonth[month]
		series = append(series, Point{
			Period: month,
			Value:  float64(t.compliant) / float64(t.total) * 100,
		})
	}
	return series
}

// DayStat is one row of the MTTR trend table: resolution statistics for all
// tickets created on a given day of the month.
type DayStat struct {
	Day         int     `json:"day"`
	MeanHours   float64 `json:"mean_hours"`
	MedianHours float64 `json:"median_hours"`
	Count       int     `json:"count"`
	MeanLabel   string  `json:"mean_label"`
	MedianLabel string  `json:"median_label"`
}

// MTTRTrendByDay aggregates MTTR by day of month for tickets created in the
// selected month (key form "2006-01"). A month with no matching tickets
// returns an empty table; callers treat that as "no data", not an error.
func MTTRTrendByDay(resolved []Resolved, selectedMonth string) []DayStat {
	byDay := make(map[int][]float64)
	for _, r := range resolved {
		if r.Ticket.Created.IsZero() || r.Ticket.Created.Format(MonthKeyLayout) != selectedMonth {
			continue
		}
		day := r.Ticket.Created.Day()
		byDay[day] = append(byDay[day], r.MTTRHours)
	}

	days := make([]int, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Ints(days)

	table := make([]DayStat, 0, len(days))
	for _, day := range days {
		values := byDay[day]
		mean := Mean(values)
		median := Median(values)
		table = append(table, DayStat{
			Day:         day,
			MeanHours:   mean,
			MedianHours: median,
			Count:       len(values),
			MeanLabel:   FormatHours(mean),
			MedianLabel: FormatHours(median),
		})
	}
	return table
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.TrimSpace(v)] = true
	}
	return set
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
