package jobsearch

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultLocation      = "Paris"
	DefaultJobsPerSearch = 5
	MaxJobsPerSearch     = 25
)

// Query is the canonical search filter set.
type Query struct {
	Title         string `json:"title"`
	Location      string `json:"location"`
	JobsPerSearch int    `json:"jobs_per_search"`
	UserID        string `json:"user_id,omitempty"`
}

// Request is the inbound body as sent by the dashboard. Older clients
// used other names for the same filters; they are accepted as aliases.
type Request struct {
	Title          string          `json:"title"`
	Titles         json.RawMessage `json:"titles"`
	Query          string          `json:"query"`
	Location       string          `json:"location"`
	Locations      json.RawMessage `json:"locations"`
	JobsPerSearch  json.RawMessage `json:"jobsPerSearch"`
	JobsPerSearch2 json.RawMessage `json:"jobs_per_search"`
	UserID         string          `json:"user_id"`
	UserIDCamel    string          `json:"userId"`
}

// Normalize resolves aliases and defaults. Titles and locations may be
// sent as a string or a list; only the first non-blank value is used.
func (r Request) Normalize() (Query, error) {
	q := Query{
		Title:    firstNonBlank(firstOf(r.Titles), r.Title, r.Query),
		Location: firstNonBlank(firstOf(r.Locations), r.Location, DefaultLocation),
		UserID:   firstNonBlank(r.UserID, r.UserIDCamel),
	}
	if q.Title == "" {
		return Query{}, fmt.Errorf("a job title is required")
	}
	n, err := intOf(r.JobsPerSearch)
	if err != nil {
		return Query{}, err
	}
	if n == 0 {
		if n, err = intOf(r.JobsPerSearch2); err != nil {
			return Query{}, err
		}
	}
	switch {
	case n <= 0:
		n = DefaultJobsPerSearch
	case n > MaxJobsPerSearch:
		n = MaxJobsPerSearch
	}
	q.JobsPerSearch = n
	return q, nil
}

// CacheKey identifies equivalent queries.
func (q Query) CacheKey() string {
	return strings.ToLower(q.Title) + "|" + strings.ToLower(q.Location) + "|" + strconv.Itoa(q.JobsPerSearch)
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func firstOf(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return firstNonBlank(list...)
	}
	return ""
}

func intOf(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s = strings.TrimSpace(s); s == "" {
			return 0, nil
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n, nil
		}
	}
	return 0, fmt.Errorf("jobs per search must be a number")
}
