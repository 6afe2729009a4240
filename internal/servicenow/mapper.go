package servicenow

import (
	"strings"

	"servicegov/internal/ticket"
)

// mapRecord converts a raw table row into a ticket record. A malformed
// sys_created_on (or resolved/closed, when present) yields a ticket.ParseError.
func mapRecord(dto incidentDTO) (ticket.Record, error) {
	created, err := ticket.ParseTimestamp("sys_created_on", dto.CreatedOn)
	if err != nil {
		return ticket.Record{}, err
	}
	resolved, err := ticket.ParseOptionalTimestamp("resolved_at", dto.ResolvedAt)
	if err != nil {
		return ticket.Record{}, err
	}
	closed, err := ticket.ParseOptionalTimestamp("closed_at", dto.ClosedAt)
	if err != nil {
		return ticket.Record{}, err
	}

	return ticket.Record{
		Number:               strings.TrimSpace(dto.Number),
		Priority:             strings.TrimSpace(dto.Priority),
		FirstAssignmentGroup: strings.TrimSpace(dto.FirstAssignmentGroup),
		AssignmentGroup:      strings.TrimSpace(dto.AssignmentGroup),
		AssignedTo:           strings.TrimSpace(dto.AssignedTo),
		OpenedBy:             strings.TrimSpace(dto.OpenedBy),
		Caller:               strings.TrimSpace(dto.Caller),
		ContactType:          strings.TrimSpace(dto.ContactType),
		ResolutionCode:       strings.TrimSpace(dto.CloseCode),
		Created:              created,
		Resolved:             resolved,
		Closed:               closed,
	}, nil
}
