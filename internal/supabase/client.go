// Package supabase talks to the hosted data service through its PostgREST
// endpoint. Rows come back as JSON objects and are decoded into domain types
// with mapstructure, so embedded relations map onto nested structs.
package supabase

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/careerkitsune/careerkitsune-ai/internal/store"

	"go.uber.org/zap"
)

const (
	restPath        = "/rest/v1/"
	userAgent       = "careerkitsune-ai"
	contentType     = "application/json"
	contentEncoding = "gzip"
)

// APIError is the error body PostgREST returns on a failed request.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("supabase: bad status %d", e.StatusCode)
	}
	return fmt.Sprintf("supabase: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

type Client struct {
	baseURL     string
	apiKey      string
	accessToken string
	logger      *zap.Logger
	HTTPClient  *http.Client
	UserAgent   string
}

var _ store.Repository = (*Client)(nil)

// New returns a client for the project at projectURL. The anon or service key
// goes in apiKey; it also serves as bearer token until WithAccessToken is used.
func New(logger *zap.Logger, projectURL, apiKey string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(projectURL, "/") + restPath,
		apiKey:  apiKey,
		logger:  logger,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		UserAgent: userAgent,
	}
}

// WithAccessToken returns a copy that authenticates as a signed-in user so
// row level security applies.
func (c *Client) WithAccessToken(token string) *Client {
	cp := *c
	cp.accessToken = token
	return &cp
}

func (c *Client) Close() error {
	c.HTTPClient.CloseIdleConnections()
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	token := c.accessToken
	if token == "" {
		token = c.apiKey
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
}

// selectRows runs a GET against table and returns the decoded JSON rows.
func (c *Client) selectRows(ctx context.Context, table string, q url.Values) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+table, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	req.URL.RawQuery = q.Encode()

	var rows []map[string]any
	if err := c.do(req, http.StatusOK, &rows); err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	return rows, nil
}

// insertRow POSTs one row and returns the stored representation.
func (c *Client) insertRow(ctx context.Context, table string, row any) (map[string]any, error) {
	payload, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", table, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+table, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Prefer", "return=representation")

	var rows []map[string]any
	if err := c.do(req, http.StatusCreated, &rows); err != nil {
		return nil, fmt.Errorf("insert %s: %w", table, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert %s: empty representation", table)
	}
	return rows[0], nil
}

func (c *Client) do(req *http.Request, want int, target any) error {
	c.logger.Debug("make request", zap.String("method", req.Method), zap.String("url", req.URL.Path), zap.String("query", req.URL.RawQuery))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gz.Close()
		reader = gz
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	if resp.StatusCode != want {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(data, apiErr)
		return apiErr
	}
	if target == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, target)
}
