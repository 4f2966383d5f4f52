package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"treegrid/tree"
	"treegrid/window"
)

// Paths served by the tree server.
const (
	RowsPath  = "/api/getRows"
	StatsPath = "/api/stats"
)

// HTTPSource requests rows from remote tree server.
type HTTPSource struct {
	client *http.Client
	rows   string
	stats  string
}

// NewHTTPSource prepares source for server at base URL. When client is nil
// http.DefaultClient is used.
func NewHTTPSource(base string, client *http.Client) (*HTTPSource, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("unable to parse server address %q: %w", base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported server address scheme %q", u.Scheme)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{
		client: client,
		rows:   u.JoinPath(RowsPath).String(),
		stats:  u.JoinPath(StatsPath).String(),
	}, nil
}

func (s *HTTPSource) Rows(ctx context.Context, req window.Request) (*window.Response, error) {
	if req.GroupPath == nil {
		req.GroupPath = []string{}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("unable to encode request: %w", err)
	}

	hr, err := http.NewRequestWithContext(ctx, http.MethodPost, s.rows, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	hr.Header.Set("Content-Type", "application/json")

	var resp window.Response
	if err := s.do(hr, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stats returns shape of the remote index.
func (s *HTTPSource) Stats(ctx context.Context) (tree.Stats, error) {
	var st tree.Stats

	hr, err := http.NewRequestWithContext(ctx, http.MethodGet, s.stats, nil)
	if err != nil {
		return st, err
	}
	err = s.do(hr, &st)
	return st, err
}

func (s *HTTPSource) do(hr *http.Request, out any) error {
	resp, err := s.client.Do(hr)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", hr.URL, err)
	}
	defer func() {
		// drain so connection could be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	dec := json.NewDecoder(resp.Body)
	if resp.StatusCode != http.StatusOK {
		var eb window.ErrorBody
		if err := dec.Decode(&eb); err != nil {
			return fmt.Errorf("request to %s failed with status %d", hr.URL, resp.StatusCode)
		}
		return fmt.Errorf("request to %s failed with status %d: %w", hr.URL, resp.StatusCode, eb.Err())
	}
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("unable to decode response from %s: %w", hr.URL, err)
	}
	return nil
}
