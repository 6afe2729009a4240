package servicenow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"servicegov/internal/ticket"
)

// Config holds the connection settings for a ServiceNow instance.
type Config struct {
	InstanceURL string
	Username    string
	Password    string
	Table       string

	// Performance settings
	PageSize     int
	Concurrency  int
	RequestDelay time.Duration
}

// Fields requested from the incident table. The names follow the standard
// schema plus the customer's u_first_assignment_group custom field.
var incidentFields = []string{
	"number",
	"priority",
	"u_first_assignment_group",
	"assignment_group",
	"assigned_to",
	"opened_by",
	"caller_id",
	"contact_type",
	"close_code",
	"sys_created_on",
	"resolved_at",
	"closed_at",
}

// Client fetches incident rows from the ServiceNow table API.
type Client struct {
	cfg        Config
	httpClient *http.Client

	throttleMu  sync.Mutex
	lastRequest time.Time
}

// NewClient creates a client with sensible paging defaults.
func NewClient(cfg Config) *Client {
	if cfg.Table == "" {
		cfg.Table = "incident"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 1000
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

// Configured reports whether the client has a target instance.
func (c *Client) Configured() bool {
	return c.cfg.InstanceURL != ""
}

// FetchIncidents retrieves every incident matching the encoded query (empty
// for all records). The first page reveals the total row count; remaining
// pages are fetched concurrently and reassembled in offset order. Rows with
// malformed timestamps are skipped and logged; the skip count is returned.
func (c *Client) FetchIncidents(ctx context.Context, query string) ([]ticket.Record, int, error) {
	first, total, err := c.fetchPage(ctx, query, 0)
	if err != nil {
		return nil, 0, err
	}

	pages := [][]incidentDTO{first}
	if total > len(first) && len(first) > 0 {
		var offsets []int
		for off := c.cfg.PageSize; off < total; off += c.cfg.PageSize {
			offsets = append(offsets, off)
		}

		rest := make([][]incidentDTO, len(offsets))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.cfg.Concurrency)
		for i, off := range offsets {
			g.Go(func() error {
				rows, _, err := c.fetchPage(gctx, query, off)
				if err != nil {
					return err
				}
				rest[i] = rows
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, 0, err
		}
		pages = append(pages, rest...)
	}

	var records []ticket.Record
	skipped := 0
	for _, page := range pages {
		for _, dto := range page {
			rec, err := mapRecord(dto)
			if err != nil {
				log.Warn().Err(err).Str("number", dto.Number).Msg("Skipping incident with malformed timestamp")
				skipped++
				continue
			}
			records = append(records, rec)
		}
	}

	log.Info().Int("records", len(records)).Int("skipped", skipped).Str("table", c.cfg.Table).Msg("Incident fetch complete")
	return records, skipped, nil
}

func (c *Client) fetchPage(ctx context.Context, query string, offset int) ([]incidentDTO, int, error) {
	c.throttle()

	params := url.Values{}
	params.Set("sysparm_fields", strings.Join(incidentFields, ","))
	params.Set("sysparm_limit", strconv.Itoa(c.cfg.PageSize))
	params.Set("sysparm_offset", strconv.Itoa(offset))
	params.Set("sysparm_display_value", "true")
	if query != "" {
		params.Set("sysparm_query", query)
	}

	endpoint := fmt.Sprintf("%s/api/now/table/%s?%s",
		strings.TrimRight(c.cfg.InstanceURL, "/"), url.PathEscape(c.cfg.Table), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Username != "" {
		req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	}

	log.Debug().Int("offset", offset).Str("table", c.cfg.Table).Msg("Fetching incident page")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("table API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, 0, fmt.Errorf("table API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload tableResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, 0, fmt.Errorf("failed to decode table response: %w", err)
	}

	total := len(payload.Result)
	if v := resp.Header.Get("X-Total-Count"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			total = parsed
		}
	}

	return payload.Result, total, nil
}

// throttle spaces requests out by the configured delay to stay under instance
// rate limits.
func (c *Client) throttle() {
	if c.cfg.RequestDelay <= 0 {
		return
	}
	c.throttleMu.Lock()
	defer c.throttleMu.Unlock()

	elapsed := time.Since(c.lastRequest)
	if elapsed < c.cfg.RequestDelay {
		wait := c.cfg.RequestDelay - elapsed
		log.Debug().Dur("wait", wait).Msg("Throttling ServiceNow request")
		time.Sleep(wait)
	}
	c.lastRequest = time.Now()
}
