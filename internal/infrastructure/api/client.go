package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"userhub-client/internal/logger"
	appErrors "userhub-client/pkg/errors"
)

const RequestIDHeader = "X-Request-ID"

// TokenSource returns the bearer token of the current session.
type TokenSource func() string

// Client performs single JSON requests against the backend. It never retries
// and sets no timeout of its own; a failure is reported once to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
}

func NewClient(baseURL string, httpClient *http.Client, token TokenSource) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		token:      token,
	}
}

// endpoint describes one backend route and the message reported when a
// failed response carries no usable detail.
type endpoint struct {
	name     string
	method   string
	path     string
	auth     bool
	fallback string
}

func (e endpoint) withID(id string) endpoint {
	e.path = strings.Replace(e.path, "{id}", id, 1)
	return e
}

func (c *Client) do(ctx context.Context, ep endpoint, body, out any) error {
	log := logger.WithEndpoint(ep.name)
	start := time.Now()
	status := "transport_error"
	defer func() {
		observeRequest(ep.name, status, time.Since(start))
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", ep.name, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, ep.method, c.baseURL+ep.path, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", ep.name, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	if ep.auth {
		req.Header.Set("Authorization", "Bearer "+c.token())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("Backend unreachable",
			zap.String("request_id", requestID),
			zap.String("method", ep.method),
			zap.Error(err),
			zap.String("event", "api_transport_error"),
		)
		return fmt.Errorf("%w: %v", appErrors.ErrTransport, err)
	}
	defer resp.Body.Close()
	status = strconv.Itoa(resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s response: %v", appErrors.ErrTransport, ep.name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := failure(ep, resp.StatusCode, data)
		log.Warn("Backend rejected request",
			zap.String("request_id", requestID),
			zap.String("method", ep.method),
			zap.Int("status_code", resp.StatusCode),
			zap.String("message", apiErr.Message),
			zap.String("event", "api_request_failed"),
		)
		return apiErr
	}

	log.Debug("Backend request completed",
		zap.String("request_id", requestID),
		zap.String("method", ep.method),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", ep.name, err)
	}
	return nil
}

// failure turns a non-2xx body into an APIError. A string detail is used
// verbatim, any other detail as compact JSON, and a missing or unparsable
// body falls back to the endpoint message.
func failure(ep endpoint, status int, body []byte) *appErrors.APIError {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return appErrors.NewAPIError(status, nil, ep.fallback)
	}

	raw := bytes.TrimSpace(payload.Detail)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return appErrors.NewAPIError(status, nil, ep.fallback)
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if text == "" {
			return appErrors.NewAPIError(status, text, ep.fallback)
		}
		return appErrors.NewAPIError(status, text, text)
	}

	var detail any
	_ = json.Unmarshal(raw, &detail)

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return appErrors.NewAPIError(status, detail, ep.fallback)
	}
	return appErrors.NewAPIError(status, detail, compact.String())
}

// ack performs a call whose success body is only an acknowledgement. Object
// bodies are returned as-is; anything else is kept under "result".
func (c *Client) ack(ctx context.Context, ep endpoint, body any) (map[string]any, error) {
	var raw json.RawMessage
	if err := c.do(ctx, ep, body, &raw); err != nil {
		return nil, err
	}

	ack := map[string]any{}
	if len(raw) == 0 {
		return ack, nil
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", ep.name, err)
	}
	if m, ok := value.(map[string]any); ok {
		return m, nil
	}
	ack["result"] = value
	return ack, nil
}
