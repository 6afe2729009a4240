package mcp

func (s *Server) listTools() interface{} {
	return map[string]interface{}{
		"tools": []interface{}{
			map[string]interface{}{
				"name":        "load_tickets",
				"description": "Load a cleaned incident CSV export into the engine. Rows with malformed timestamps are skipped and counted.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"path": map[string]interface{}{"type": "string", "description": "Path to the CSV export"},
					},
					"required": []string{"path"},
				},
			},
			map[string]interface{}{
				"name":        "fetch_tickets",
				"description": "Fetch incidents from the configured ServiceNow instance and load them into the engine.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"query": map[string]interface{}{"type": "string", "description": "Optional encoded sysparm_query filter"},
					},
				},
			},
			map[string]interface{}{
				"name":        "mttr_trend",
				"description": "Day-by-day MTTR statistics (mean, median, volume) for tickets created in a month. Empty rows mean no data, not an error.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"month": map[string]interface{}{"type": "string", "description": "Calendar month, e.g. 2024-03"},
					},
					"required": []string{"month"},
				},
			},
			map[string]interface{}{
				"name":        "sla_compliance",
				"description": "Monthly SLA compliance percentages for one priority value.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"priority": map[string]interface{}{"type": "string", "description": "Raw priority value, e.g. '1 - Critical'"},
					},
					"required": []string{"priority"},
				},
			},
			map[string]interface{}{
				"name":        "fcr_monthly",
				"description": "First Contact Resolution rate per month over the trailing six months in the data.",
				"inputSchema": map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{},
				},
			},
			map[string]interface{}{
				"name":        "check_anomalies",
				"description": "Classify the latest month of a metric series against its trailing baseline and dispatch alerts for critical drops.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"metric":   map[string]interface{}{"type": "string", "enum": []string{"fcr", "sla_compliance"}},
						"priority": map[string]interface{}{"type": "string", "description": "Priority value, required for sla_compliance"},
						"sigma":    map[string]interface{}{"type": "number", "description": "Override for the sigma threshold"},
					},
					"required": []string{"metric"},
				},
			},
			map[string]interface{}{
				"name":        "recent_alerts",
				"description": "Tail of the append-only alert log.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"limit": map[string]interface{}{"type": "integer", "description": "Maximum entries to return (default 20)"},
					},
				},
			},
		},
	}
}
