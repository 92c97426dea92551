// Package remote is the managed-service storage backend. It forwards raw SQL
// and positional parameters to the service's query/execute endpoints and
// returns the JSON results untouched. One attempt per call: no retries, no
// backoff, and no client-side timeout, so a hung service blocks the caller.
package remote

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rverdone/quadro/internal/storage"
)

// Client talks to one remote database identified by databaseID.
type Client struct {
	baseURL    string
	token      string
	databaseID string
	httpClient *http.Client
}

type requestBody struct {
	DatabaseID string `json:"database_id,omitempty"`
	Query      string `json:"query"`
	Params     []any  `json:"params"`
}

type responseBody struct {
	Success bool             `json:"success"`
	Results []storage.Record `json:"results"`
	Error   string           `json:"error"`
}

func NewClient(baseURL, token, databaseID string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		databaseID: databaseID,
		httpClient: &http.Client{},
	}
}

// Configured reports whether the client has enough credentials to be used at
// all. The router treats an unconfigured client as absent and forces the
// embedded backend.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.token != ""
}

// Init has no remote handshake; the service owns its own schema.
func (c *Client) Init() bool {
	return c.Configured()
}

func (c *Client) Query(query string, params []any) ([]storage.Record, error) {
	body, err := c.post("/api/query", query, params)
	if err != nil {
		return nil, err
	}
	return body.Results, nil
}

func (c *Client) Execute(query string, params []any) (bool, error) {
	if _, err := c.post("/api/execute", query, params); err != nil {
		return false, err
	}
	return true, nil
}

// Persist is a no-op: the remote service is durable on its own.
func (c *Client) Persist() error {
	return nil
}

func (c *Client) Type() string {
	return "Remote SQL"
}

func (c *Client) post(path, query string, params []any) (*responseBody, error) {
	if !c.Configured() {
		return nil, errors.New("remote storage credentials not configured")
	}
	if params == nil {
		params = []any{}
	}

	payload, err := json.Marshal(requestBody{
		DatabaseID: c.databaseID,
		Query:      query,
		Params:     params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body responseBody
		if json.Unmarshal(raw, &body) == nil && body.Error != "" {
			return nil, fmt.Errorf("remote storage error: %s", body.Error)
		}
		return nil, fmt.Errorf("remote storage error: status %d %s", resp.StatusCode, bytes.TrimSpace(raw))
	}

	var body responseBody
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return &body, nil
}
