// Package jobsearch talks to the external job scraping service.
package jobsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jobscout/jobscout/backend/go-services/pkg/logger"
	"github.com/jobscout/jobscout/backend/go-services/pkg/metrics"
)

var log = logger.For("jobsearch")

// Job is one posting as returned by the scraper.
type Job struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Contract    string `json:"contract"`
	Salary      string `json:"salary"`
	Description string `json:"description"`
	Link        string `json:"link"`
	PostedAt    string `json:"posted_at"`
}

type Results struct {
	Results []Job `json:"results"`
}

type Notifications struct {
	NewJobsCount int   `json:"new_jobs_count"`
	Jobs         []Job `json:"jobs"`
}

// UpstreamError is a non-2xx answer from the scraper.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("scraper returned %d: %s", e.Status, e.Body)
}

// Searcher is what the HTTP layer needs.
type Searcher interface {
	Search(ctx context.Context, q Query) (*Results, error)
	Notifications(ctx context.Context) (*Notifications, error)
}

// Client calls the scraper over HTTP. Outbound calls are paced by a token
// bucket shared by all callers.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient returns a client for baseURL. rps <= 0 disables pacing.
func NewClient(baseURL string, timeout time.Duration, rps float64, burst int) *Client {
	lim := rate.NewLimiter(rate.Inf, 0)
	if rps > 0 {
		if burst < 1 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		limiter: lim,
	}
}

func (c *Client) Search(ctx context.Context, q Query) (*Results, error) {
	var out Results
	if err := c.do(ctx, http.MethodPost, "/search", q, &out); err != nil {
		metrics.SearchRequests.WithLabelValues("upstream", "error").Inc()
		return nil, err
	}
	metrics.SearchRequests.WithLabelValues("upstream", "ok").Inc()
	if out.Results == nil {
		out.Results = []Job{}
	}
	log.Debugf("%q in %s -> %d results", q.Title, q.Location, len(out.Results))
	return &out, nil
}

func (c *Client) Notifications(ctx context.Context) (*Notifications, error) {
	var out Notifications
	if err := c.do(ctx, http.MethodGet, "/notifications", nil, &out); err != nil {
		return nil, err
	}
	if out.Jobs == nil {
		out.Jobs = []Job{}
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("scraper %s: %w", path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("scraper %s: read body: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("scraper %s: decode: %w", path, err)
	}
	return nil
}
