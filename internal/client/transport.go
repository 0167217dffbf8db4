package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// WireMessage is one transcript entry as sent to POST /chat.
type WireMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Messages      []WireMessage `json:"messages"`
	InterviewMode bool          `json:"interviewMode"`
}

// Transport opens one streamed chat request. The caller reads NDJSON frames
// from the returned body and closes it.
type Transport interface {
	Open(ctx context.Context, req *ChatRequest) (io.ReadCloser, error)
}

// StatusError is returned for a non-2xx chat response.
type StatusError struct {
	Status string
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP %s: %s", e.Status, e.Detail)
	}
	return "HTTP " + e.Status
}

// HTTPTransport talks to a folio server.
type HTTPTransport struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPTransport creates a transport for the server at baseURL. The client
// has no overall timeout since responses stream; cancel through ctx instead.
func NewHTTPTransport(baseURL string) *HTTPTransport {
	return &HTTPTransport{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Open implements Transport.
func (t *HTTPTransport) Open(ctx context.Context, chatReq *ChatRequest) (io.ReadCloser, error) {
	payloadBytes, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/chat", bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()
		return nil, &StatusError{Status: resp.Status, Code: resp.StatusCode, Detail: problemDetail(resp.Body)}
	}
	return resp.Body, nil
}

// problemDetail pulls "detail" out of an RFC 7807 body, if there is one.
func problemDetail(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var problem struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &problem) == nil {
		return problem.Detail
	}
	return ""
}
