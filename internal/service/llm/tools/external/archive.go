package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultArchiveURL is where the archive search service listens by default
	DefaultArchiveURL = "http://localhost:8002"
	// DefaultArchiveTimeout is the default HTTP timeout for archive requests
	DefaultArchiveTimeout = 30 * time.Second
)

// ArchiveSearcher defines the interface for the offline document archive.
type ArchiveSearcher interface {
	Search(ctx context.Context, query ArchiveQuery) (*ArchiveResponse, error)
}

// ArchiveQuery is the body of POST /search.
type ArchiveQuery struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// ArchiveResponse contains the matched documents. Result objects are kept
// opaque and forwarded to the model as-is.
type ArchiveResponse struct {
	Results []json.RawMessage `json:"results"`
}

// ArchiveClient implements ArchiveSearcher over HTTP.
type ArchiveClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewArchiveClient creates an archive client. An empty baseURL falls back to
// DefaultArchiveURL.
func NewArchiveClient(baseURL string) *ArchiveClient {
	return NewArchiveClientWithConfig(baseURL, DefaultArchiveTimeout)
}

// NewArchiveClientWithConfig creates an archive client with a custom timeout.
func NewArchiveClientWithConfig(baseURL string, timeout time.Duration) *ArchiveClient {
	if baseURL == "" {
		baseURL = DefaultArchiveURL
	}
	return &ArchiveClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Search implements ArchiveSearcher.
func (c *ArchiveClient) Search(ctx context.Context, query ArchiveQuery) (*ArchiveResponse, error) {
	payloadBytes, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() // Error ignored: response consumed

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("archive error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var archiveResp ArchiveResponse
	if err := json.Unmarshal(body, &archiveResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if archiveResp.Results == nil {
		archiveResp.Results = []json.RawMessage{}
	}
	return &archiveResp, nil
}
