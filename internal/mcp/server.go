package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"servicegov/internal/anomaly"
	"servicegov/internal/config"
	"servicegov/internal/metrics"
	"servicegov/internal/servicenow"
	"servicegov/internal/ticket"
)

// JSONRPCRequest represents a standard MCP/JSON-RPC request.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a standard MCP/JSON-RPC response.
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// Server exposes the metrics engine as MCP tools over a Stdio JSON-RPC loop.
// Tool outputs are the engine's plain data structures rendered as JSON; all
// presentation stays with the caller.
type Server struct {
	cfg        *config.AppConfig
	snow       *servicenow.Client
	calculator *metrics.Calculator
	dispatcher *anomaly.Dispatcher
	alertLog   *anomaly.Log

	mu       sync.Mutex
	records  []ticket.Record
	resolved []metrics.Resolved
}

// NewServer wires the engine components behind the tool surface.
func NewServer(cfg *config.AppConfig, snow *servicenow.Client, dispatcher *anomaly.Dispatcher, alertLog *anomaly.Log) *Server {
	calendar := metrics.NewBusinessCalendar(cfg.BusinessLocation)
	return &Server{
		cfg:        cfg,
		snow:       snow,
		calculator: metrics.NewCalculator(calendar),
		dispatcher: dispatcher,
		alertLog:   alertLog,
	}
}

// Serve starts the JSON-RPC loop over Stdio.
func (s *Server) Serve() error {
	reader := bufio.NewReader(os.Stdin)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var req JSONRPCRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal request")
			continue
		}

		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req JSONRPCRequest) {
	var result interface{}
	var errRes interface{}

	switch req.Method {
	case "initialize":
		result = map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities":    map[string]interface{}{},
			"serverInfo": map[string]interface{}{
				"name":    "servicegov",
				"version": "0.1.0",
			},
		}
	case "tools/list":
		result = s.listTools()
	case "tools/call":
		result, errRes = s.callTool(req.Params)
	default:
		errRes = map[string]interface{}{
			"code":    -32601,
			"message": fmt.Sprintf("Method %s not found", req.Method),
		}
	}

	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
		Error:   errRes,
	}

	out, _ := json.Marshal(resp)
	fmt.Fprintf(os.Stdout, "%s\n", out)
}

func (s *Server) callTool(params json.RawMessage) (interface{}, interface{}) {
	var call struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if err := json.Unmarshal(params, &call); err != nil {
		return nil, map[string]interface{}{"code": -32602, "message": "Invalid params"}
	}

	var data interface{}
	var err error

	switch call.Name {
	case "load_tickets":
		path, _ := call.Arguments["path"].(string)
		data, err = s.handleLoadTickets(path)
	case "fetch_tickets":
		query, _ := call.Arguments["query"].(string)
		data, err = s.handleFetchTickets(query)
	case "mttr_trend":
		month, _ := call.Arguments["month"].(string)
		data, err = s.handleMTTRTrend(month)
	case "sla_compliance":
		priority, _ := call.Arguments["priority"].(string)
		data, err = s.handleSLACompliance(priority)
	case "fcr_monthly":
		data, err = s.handleFCRMonthly()
	case "check_anomalies":
		metric, _ := call.Arguments["metric"].(string)
		priority, _ := call.Arguments["priority"].(string)
		sigma, _ := call.Arguments["sigma"].(float64)
		data, err = s.handleCheckAnomalies(metric, priority, sigma)
	case "recent_alerts":
		limit := 20
		if raw, ok := call.Arguments["limit"].(float64); ok && raw > 0 {
			limit = int(raw)
		}
		data, err = s.handleRecentAlerts(limit)
	default:
		return nil, map[string]interface{}{"code": -32601, "message": "Tool not found"}
	}

	if err != nil {
		return nil, map[string]interface{}{"code": -32000, "message": err.Error()}
	}

	return map[string]interface{}{
		"content": []interface{}{
			map[string]interface{}{
				"type": "text",
				"text": s.formatResult(data),
			},
		},
	}, nil
}

func (s *Server) formatResult(data interface{}) string {
	out, _ := json.MarshalIndent(data, "", "  ")
	return string(out)
}

func (s *Server) setDataset(records []ticket.Record) {
	resolved := s.calculator.ComputeAll(records)
	s.mu.Lock()
	s.records = records
	s.resolved = resolved
	s.mu.Unlock()
}

func (s *Server) dataset() ([]ticket.Record, []metrics.Resolved, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) == 0 {
		return nil, nil, fmt.Errorf("no tickets loaded; call load_tickets or fetch_tickets first")
	}
	return s.records, s.resolved, nil
}

// now is swapped out by tests to pin the dispatcher clock.
var now = time.Now
