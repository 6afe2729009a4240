package servicenow

// incidentDTO mirrors one raw table-API row. Every field arrives as a string,
// including the glide datetimes.
type incidentDTO struct {
	Number               string `json:"number"`
	Priority             string `json:"priority"`
	FirstAssignmentGroup string `json:"u_first_assignment_group"`
	AssignmentGroup      string `json:"assignment_group"`
	AssignedTo           string `json:"assigned_to"`
	OpenedBy             string `json:"opened_by"`
	Caller               string `json:"caller_id"`
	ContactType          string `json:"contact_type"`
	CloseCode            string `json:"close_code"`
	CreatedOn            string `json:"sys_created_on"`
	ResolvedAt           string `json:"resolved_at"`
	ClosedAt             string `json:"closed_at"`
}

type tableResponse struct {
	Result []incidentDTO `json:"result"`
}
