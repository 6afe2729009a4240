package servicenow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
)

func incidentRow(i int, created string) incidentDTO {
	return incidentDTO{
		Number:               fmt.Sprintf("INC%07d", i),
		Priority:             "3 - Moderate",
		FirstAssignmentGroup: "Service Desk L1 Sweden",
		AssignmentGroup:      "Service Desk L1 Sweden",
		CloseCode:            "Solved (Permanently)",
		CreatedOn:            created,
	}
}

func newTableServer(t *testing.T, rows []incidentDTO, pageSize int, requests *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			requests.Add(1)
		}
		if user, _, ok := r.BasicAuth(); !ok || user != "svc_metrics" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		offset, _ := strconv.Atoi(r.URL.Query().Get("sysparm_offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("sysparm_limit"))
		if limit <= 0 || limit > pageSize {
			limit = pageSize
		}

		end := offset + limit
		if end > len(rows) {
			end = len(rows)
		}
		page := []incidentDTO{}
		if offset < len(rows) {
			page = rows[offset:end]
		}

		w.Header().Set("X-Total-Count", strconv.Itoa(len(rows)))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tableResponse{Result: page})
	}))
}

func TestFetchIncidents_Paginates(t *testing.T) {
	var rows []incidentDTO
	for i := 0; i < 25; i++ {
		rows = append(rows, incidentRow(i, "2024-03-05 09:00:00"))
	}

	var requests atomic.Int32
	srv := newTableServer(t, rows, 10, &requests)
	defer srv.Close()

	client := NewClient(Config{
		InstanceURL: srv.URL,
		Username:    "svc_metrics",
		Password:    "secret",
		PageSize:    10,
	})

	records, skipped, err := client.FetchIncidents(context.Background(), "")
	if err != nil {
		t.Fatalf("FetchIncidents() error: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(records) != 25 {
		t.Fatalf("got %d records, want 25", len(records))
	}
	if got := requests.Load(); got != 3 {
		t.Errorf("made %d requests, want 3 pages", got)
	}

	// Pages must be reassembled in offset order.
	if records[0].Number != "INC0000000" || records[24].Number != "INC0000024" {
		t.Errorf("records out of order: first %s last %s", records[0].Number, records[24].Number)
	}
}

func TestFetchIncidents_SkipsMalformedRows(t *testing.T) {
	rows := []incidentDTO{
		incidentRow(1, "2024-03-05 09:00:00"),
		incidentRow(2, "garbage"),
		incidentRow(3, "2024-03-06 09:00:00"),
	}

	srv := newTableServer(t, rows, 100, nil)
	defer srv.Close()

	client := NewClient(Config{InstanceURL: srv.URL, Username: "svc_metrics", Password: "x"})
	records, skipped, err := client.FetchIncidents(context.Background(), "")
	if err != nil {
		t.Fatalf("FetchIncidents() error: %v", err)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
}

func TestFetchIncidents_SurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"User Not Authenticated"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(Config{InstanceURL: srv.URL})
	if _, _, err := client.FetchIncidents(context.Background(), ""); err == nil {
		t.Error("expected error for unauthenticated fetch")
	}
}

func TestMapRecord(t *testing.T) {
	dto := incidentRow(7, "2024-03-05 09:00:00")
	dto.ResolvedAt = "2024-03-05 15:00:00"

	rec, err := mapRecord(dto)
	if err != nil {
		t.Fatalf("mapRecord() error: %v", err)
	}
	if rec.Number != "INC0000007" || rec.ResolutionCode != "Solved (Permanently)" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Resolved == nil || rec.Resolved.Hour() != 15 {
		t.Errorf("Resolved = %v, want 15:00", rec.Resolved)
	}

	dto.ResolvedAt = "not a timestamp"
	if _, err := mapRecord(dto); err == nil {
		t.Error("expected ParseError for malformed resolved_at")
	}
}
