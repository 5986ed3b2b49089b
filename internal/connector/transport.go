package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
)

const (
	contentTypeJSON   = "application/json"
	contentTypeNDJSON = "application/x-ndjson"
)

// JSONResponse is the decoded outcome of one engine call. On a non-200
// status Body is nil and Message carries the raw engine reply.
type JSONResponse struct {
	Status  int
	Message string
	Body    map[string]any
}

// Transport issues JSON requests against the engine. Paths are relative to
// the engine base address; the implementation owns host selection. Errors
// returned here are I/O-level failures; a non-200 engine reply is reported
// through JSONResponse.Status so callers can attach the engine message.
type Transport interface {
	PostJSON(ctx context.Context, path, body string) (*JSONResponse, error)
	PostNDJSON(ctx context.Context, path, body string) (*JSONResponse, error)
	DeleteJSON(ctx context.Context, path, body string) (*JSONResponse, error)
	// GetJSON returns the decoded response payload, whatever its shape.
	GetJSON(ctx context.Context, path string) (any, error)
}

// esTransport implements Transport over the go-elasticsearch base client,
// which contributes the node pool, retries and connection reuse.
type esTransport struct {
	client *elasticsearch.Client
}

func newESTransport(cfg Config) (*esTransport, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.Base},
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &esTransport{client: client}, nil
}

func (t *esTransport) PostJSON(ctx context.Context, path, body string) (*JSONResponse, error) {
	return t.do(ctx, http.MethodPost, path, body, contentTypeJSON)
}

func (t *esTransport) PostNDJSON(ctx context.Context, path, body string) (*JSONResponse, error) {
	return t.do(ctx, http.MethodPost, path, body, contentTypeNDJSON)
}

func (t *esTransport) DeleteJSON(ctx context.Context, path, body string) (*JSONResponse, error) {
	return t.do(ctx, http.MethodDelete, path, body, contentTypeJSON)
}

func (t *esTransport) GetJSON(ctx context.Context, path string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("build GET %s: %w", path, err)
	}

	res, err := t.client.Perform(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read GET %s response: %w", path, err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, &TransportError{StatusCode: res.StatusCode, Message: strings.TrimSpace(string(raw))}
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode GET %s response: %w", path, err)
	}
	return payload, nil
}

func (t *esTransport) do(ctx context.Context, method, path, body, contentType string) (*JSONResponse, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", contentType)

	res, err := t.client.Perform(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	resp := &JSONResponse{Status: res.StatusCode}
	if res.StatusCode != http.StatusOK {
		resp.Message = strings.TrimSpace(string(raw))
		return resp, nil
	}

	if len(raw) > 0 {
		var decoded map[string]any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
		resp.Body = decoded
	}
	return resp, nil
}
