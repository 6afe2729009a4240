package mcp

import (
	"context"
	"fmt"

	"servicegov/internal/anomaly"
	"servicegov/internal/metrics"
	"servicegov/internal/ticket"
)

// loadSummary reports the outcome of an ingestion call.
type loadSummary struct {
	Loaded  int `json:"loaded"`
	Skipped int `json:"skipped"`
}

func (s *Server) handleLoadTickets(path string) (interface{}, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	records, skipped, err := ticket.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	s.setDataset(records)
	return loadSummary{Loaded: len(records), Skipped: skipped}, nil
}

func (s *Server) handleFetchTickets(query string) (interface{}, error) {
	if s.snow == nil || !s.snow.Configured() {
		return nil, fmt.Errorf("no ServiceNow instance configured; set SNOW_URL")
	}
	records, skipped, err := s.snow.FetchIncidents(context.Background(), query)
	if err != nil {
		return nil, err
	}
	s.setDataset(records)
	return loadSummary{Loaded: len(records), Skipped: skipped}, nil
}

type trendResult struct {
	Month string            `json:"month"`
	Rows  []metrics.DayStat `json:"rows"`
	Note  string            `json:"note,omitempty"`
}

func (s *Server) handleMTTRTrend(month string) (interface{}, error) {
	if month == "" {
		return nil, fmt.Errorf("month is required (format 2006-01)")
	}
	_, resolved, err := s.dataset()
	if err != nil {
		return nil, err
	}
	rows := metrics.MTTRTrendByDay(resolved, month)
	result := trendResult{Month: month, Rows: rows}
	if len(rows) == 0 {
		result.Note = "No data found for this month."
	}
	return result, nil
}

func (s *Server) handleSLACompliance(priority string) (interface{}, error) {
	if priority == "" {
		return nil, fmt.Errorf("priority is required")
	}
	_, resolved, err := s.dataset()
	if err != nil {
		return nil, err
	}
	return metrics.SLAComplianceByMonth(resolved, priority), nil
}

func (s *Server) handleFCRMonthly() (interface{}, error) {
	records, _, err := s.dataset()
	if err != nil {
		return nil, err
	}
	return metrics.MonthlyFCR(records, s.cfg.L1Groups, s.cfg.ResolutionCodes), nil
}

type anomalyResult struct {
	Metric  string          `json:"metric"`
	Series  metrics.Series  `json:"series"`
	Verdict anomaly.Verdict `json:"verdict"`
}

// handleCheckAnomalies classifies the tail of the requested aggregate series
// and routes the verdict through the alert dispatcher.
func (s *Server) handleCheckAnomalies(metric, priority string, sigma float64) (interface{}, error) {
	records, resolved, err := s.dataset()
	if err != nil {
		return nil, err
	}
	if sigma <= 0 {
		sigma = s.cfg.SigmaThreshold
	}

	var name string
	var series metrics.Series
	switch metric {
	case "fcr":
		name = "fcr_monthly"
		series = metrics.MonthlyFCR(records, s.cfg.L1Groups, s.cfg.ResolutionCodes)
	case "sla_compliance":
		if priority == "" {
			return nil, fmt.Errorf("priority is required for the sla_compliance metric")
		}
		name = "sla_compliance_p" + priority
		series = metrics.SLAComplianceByMonth(resolved, priority)
	default:
		return nil, fmt.Errorf("unknown metric %q (want fcr or sla_compliance)", metric)
	}

	verdict := anomaly.Classify(series.Values(), sigma)
	s.dispatcher.Consider(name, verdict, now())

	return anomalyResult{Metric: name, Series: series, Verdict: verdict}, nil
}

func (s *Server) handleRecentAlerts(limit int) (interface{}, error) {
	if s.alertLog == nil {
		return []anomaly.Entry{}, nil
	}
	entries, err := s.alertLog.Load()
	if err != nil {
		return nil, err
	}
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	if entries == nil {
		entries = []anomaly.Entry{}
	}
	return entries, nil
}
