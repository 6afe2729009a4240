package metrics

import (
	"servicegov/internal/ticket"
)

// SLAVerdict is the compliance outcome for a single ticket.
type SLAVerdict string

const (
	SLACompliant SLAVerdict = "Compliant"
	SLABreach    SLAVerdict = "Breach"
)

// Resolution target in hours, indexed by the ticket's priority digit.
var slaTargetHours = map[byte]float64{
	'1': 4,
	'2': 8,
	'3': 120,
	'4': 240,
}

const defaultSLATargetHours = 120

// Resolved couples a ticket with its computed resolution metrics. Created once
// per Record and immutable thereafter.
type Resolved struct {
	Ticket          ticket.Record `json:"ticket"`
	BusinessMinutes int           `json:"business_minutes"`
	ResolutionLabel string        `json:"resolution_label"`
	MTTRHours       float64       `json:"mttr_hours"`
	SLA             SLAVerdict    `json:"sla_verdict"`
}

// Calculator derives per-ticket resolution metrics from raw records.
type Calculator struct {
	calendar *BusinessCalendar
}

// NewCalculator creates a calculator on top of the given business calendar.
func NewCalculator(calendar *BusinessCalendar) *Calculator {
	return &Calculator{calendar: calendar}
}

// ComputeAll derives metrics for every record. The input slice is never
// mutated; unresolved tickets degrade to a zero duration.
func (c *Calculator) ComputeAll(records []ticket.Record) []Resolved {
	out := make([]Resolved, 0, len(records))
	for _, rec := range records {
		out = append(out, c.Compute(rec))
	}
	return out
}

// Compute derives metrics for a single record.
func (c *Calculator) Compute(rec ticket.Record) Resolved {
	minutes := 0
	if rec.Resolved != nil {
		minutes = c.calendar.BusinessMinutes(rec.Created, *rec.Resolved)
	}
	mttr := float64(minutes) / 60.0

	verdict := SLACompliant
	if mttr > SLATargetHours(rec.Priority) {
		verdict = SLABreach
	}

	return Resolved{
		Ticket:          rec,
		BusinessMinutes: minutes,
		ResolutionLabel: FormatMinutes(minutes),
		MTTRHours:       mttr,
		SLA:             verdict,
	}
}

// SLATargetHours resolves the compliance threshold for a raw priority value.
// The first decimal digit found anywhere in the string selects the target;
// a missing or unmapped digit falls back to the 120h default.
func SLATargetHours(priority string) float64 {
	for i := 0; i < len(priority); i++ {
		ch := priority[i]
		if ch >= '0' && ch <= '9' {
			if target, ok := slaTargetHours[ch]; ok {
				return target
			}
			return defaultSLATargetHours
		}
	}
	return slaTargetHours['3']
}
