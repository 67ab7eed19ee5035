package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Timer is a snapshot of a server-side timer
type Timer struct {
	Name          string `json:"name"`
	Running       bool   `json:"running"`
	ElapsedNanos  int64  `json:"elapsed_ns"`
	ElapsedMillis int64  `json:"elapsed_ms"`
	ElapsedHuman  string `json:"elapsed_human"`
}

// Client manages communication with a lapse daemon
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the daemon at baseURL. The token may
// be empty when the daemon runs unauthenticated.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) do(method, path string, body interface{}, wantStatus int) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		rd = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode != wantStatus {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s %s failed with status %d: %s",
			method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return resp, nil
}

func (c *Client) timerRequest(method, path string, body interface{}, wantStatus int) (*Timer, error) {
	resp, err := c.do(method, path, body, wantStatus)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var timer Timer
	if err := json.NewDecoder(resp.Body).Decode(&timer); err != nil {
		return nil, fmt.Errorf("failed to decode timer: %w", err)
	}
	return &timer, nil
}

func timerPath(name string) string {
	return "/api/v1/timers/" + url.PathEscape(name)
}

// Create registers a new timer on the daemon. An empty name lets the
// daemon pick one.
func (c *Client) Create(name string, start bool, seedNanos int64) (*Timer, error) {
	body := map[string]interface{}{
		"name":    name,
		"start":   start,
		"seed_ns": seedNanos,
	}
	return c.timerRequest(http.MethodPost, "/api/v1/timers", body, http.StatusCreated)
}

// List fetches snapshots of all timers
func (c *Client) List() ([]Timer, error) {
	resp, err := c.do(http.MethodGet, "/api/v1/timers", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result struct {
		Timers []Timer `json:"timers"`
		Count  int     `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode timer list: %w", err)
	}
	return result.Timers, nil
}

// Get fetches one timer snapshot
func (c *Client) Get(name string) (*Timer, error) {
	return c.timerRequest(http.MethodGet, timerPath(name), nil, http.StatusOK)
}

// Start resumes a stopped timer
func (c *Client) Start(name string) (*Timer, error) {
	return c.timerRequest(http.MethodPost, timerPath(name)+"/start", nil, http.StatusOK)
}

// Stop pauses a running timer, banking its elapsed time
func (c *Client) Stop(name string) (*Timer, error) {
	return c.timerRequest(http.MethodPost, timerPath(name)+"/stop", nil, http.StatusOK)
}

// Reset stops a timer and clears its accumulated time
func (c *Client) Reset(name string) (*Timer, error) {
	return c.timerRequest(http.MethodPost, timerPath(name)+"/reset", nil, http.StatusOK)
}

// Remove deletes a timer from the daemon
func (c *Client) Remove(name string) error {
	resp, err := c.do(http.MethodDelete, timerPath(name), nil, http.StatusNoContent)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Health checks daemon liveness
func (c *Client) Health() error {
	resp, err := c.do(http.MethodGet, "/health", nil, http.StatusOK)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
