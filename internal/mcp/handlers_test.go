package mcp

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"servicegov/internal/anomaly"
	"servicegov/internal/config"
	"servicegov/internal/notify"
	"servicegov/internal/ticket"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	return &config.AppConfig{
		L1Groups:         []string{"Service Desk L1 Sweden"},
		ResolutionCodes:  []string{"Solved (Permanently)"},
		BusinessLocation: time.UTC,
		SigmaThreshold:   2,
		AlertCooldown:    4 * time.Hour,
		AlertLogPath:     filepath.Join(t.TempDir(), "alerts.jsonl"),
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := testConfig(t)
	alertLog := anomaly.NewLog(cfg.AlertLogPath)
	dispatcher := anomaly.NewDispatcher(notify.Noop{}, alertLog, cfg.AlertCooldown)
	return NewServer(cfg, nil, dispatcher, alertLog)
}

// fcrDataset builds months of fully-resolved L1 tickets with the given FCR
// percentages (tickets per month = 10).
func fcrDataset(values []float64, startYear int) []ticket.Record {
	var records []ticket.Record
	for m, pct := range values {
		created := time.Date(startYear, time.Month(1+m), 10, 9, 0, 0, 0, time.UTC)
		kept := int(pct / 10)
		for i := 0; i < 10; i++ {
			group := "Service Desk L1 Sweden"
			code := "Solved (Permanently)"
			if i >= kept {
				group = "Network L2"
				code = "Solved (Workaround)"
			}
			resolved := created.Add(time.Hour)
			records = append(records, ticket.Record{
				Priority:             "3 - Moderate",
				FirstAssignmentGroup: "Service Desk L1 Sweden",
				AssignmentGroup:      group,
				ResolutionCode:       code,
				Created:              created.Add(time.Duration(i) * time.Minute),
				Resolved:             &resolved,
			})
		}
	}
	return records
}

func TestHandleMTTRTrend(t *testing.T) {
	s := newTestServer(t)
	s.setDataset(fcrDataset([]float64{100}, 2024))

	data, err := s.handleMTTRTrend("2024-01")
	if err != nil {
		t.Fatalf("handleMTTRTrend() error: %v", err)
	}
	result := data.(trendResult)
	if len(result.Rows) != 1 || result.Rows[0].Day != 10 {
		t.Fatalf("unexpected trend rows: %+v", result.Rows)
	}
	if result.Note != "" {
		t.Errorf("unexpected note on populated month: %q", result.Note)
	}

	data, err = s.handleMTTRTrend("2030-01")
	if err != nil {
		t.Fatalf("empty month must not error: %v", err)
	}
	result = data.(trendResult)
	if len(result.Rows) != 0 || result.Note == "" {
		t.Errorf("empty month should carry a no-data note: %+v", result)
	}
}

func TestHandleCheckAnomalies_DispatchesCritical(t *testing.T) {
	s := newTestServer(t)
	// Five stable months then a collapse.
	s.setDataset(fcrDataset([]float64{90, 90, 90, 90, 90, 10}, 2024))

	data, err := s.handleCheckAnomalies("fcr", "", 2)
	if err != nil {
		t.Fatalf("handleCheckAnomalies() error: %v", err)
	}
	result := data.(anomalyResult)
	if result.Verdict.Classification != anomaly.Critical {
		t.Fatalf("verdict = %s, want CRITICAL", result.Verdict.Classification)
	}
	if len(result.Series) != 6 {
		t.Errorf("series length = %d, want 6", len(result.Series))
	}

	entries, err := s.alertLog.Load()
	if err != nil {
		t.Fatalf("alert log Load() error: %v", err)
	}
	if len(entries) != 1 || entries[0].Metric != "fcr_monthly" {
		t.Errorf("alert log = %+v, want one fcr_monthly entry", entries)
	}
}

func TestHandleCheckAnomalies_Validation(t *testing.T) {
	s := newTestServer(t)
	s.setDataset(fcrDataset([]float64{90, 90, 90}, 2024))

	if _, err := s.handleCheckAnomalies("sla_compliance", "", 2); err == nil {
		t.Error("expected error for sla_compliance without priority")
	}
	if _, err := s.handleCheckAnomalies("throughput", "", 2); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestDatasetRequired(t *testing.T) {
	s := newTestServer(t)
	if _, err := s.handleFCRMonthly(); err == nil {
		t.Error("expected error before any tickets are loaded")
	}
}

func TestCallTool_UnknownTool(t *testing.T) {
	s := newTestServer(t)
	params, _ := json.Marshal(map[string]interface{}{"name": "no_such_tool"})
	_, errRes := s.callTool(params)
	if errRes == nil {
		t.Error("expected JSON-RPC error for unknown tool")
	}
}
