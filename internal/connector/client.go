// Package connector talks to an Elasticsearch collection on behalf of the
// benchmarking toolkit: it translates abstract queries into the engine's
// wire protocol, scrapes replies back into the toolkit's result model, and
// streams the collection's full id space for bulk export.
package connector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Client is a connector bound to one collection. Single-call operations are
// synchronous and safe for concurrent use; the scroll exporter runs on its
// own goroutine (see StartLoadingIDs).
type Client struct {
	cfg       Config
	transport Transport
}

// NewClient builds a connector from a connection string of the form
// scheme://host[:port]/collection.
func NewClient(connString string) (*Client, error) {
	cfg, err := ParseConnectionString(connString)
	if err != nil {
		return nil, err
	}

	transport, err := newESTransport(cfg)
	if err != nil {
		return nil, fmt.Errorf("create transport for %q: %w", cfg.Base, err)
	}

	return &Client{cfg: cfg, transport: transport}, nil
}

// Collection returns the collection this client is bound to.
func (c *Client) Collection() string {
	return c.cfg.Collection
}

// IDField returns the engine's document identifier field.
func (c *Client) IDField() string {
	return docIDField
}

// Search runs a best_fields multi_match query and returns the ranked ids.
// Elapsed covers the full request/parse round trip.
func (c *Client) Search(ctx context.Context, req QueryRequest) (*ResultSet, error) {
	start := time.Now()

	body, err := buildSearchBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.transport.PostJSON(ctx, c.cfg.searchPath(), body)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("search: %w", &TransportError{StatusCode: resp.Status, Message: resp.Message})
	}

	result, err := parseSearchResponse(resp.Body, start)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	slog.Info("search executed",
		"collection", c.cfg.Collection,
		"query", req.Query,
		"total_hits", result.TotalHits,
		"returned", result.Size(),
		"took_ms", result.TookMillis,
		"elapsed", result.Elapsed)

	return result, nil
}

// Facet runs a zero-size term aggregation over the request's facet field.
func (c *Client) Facet(ctx context.Context, req QueryRequest) (*FacetResult, error) {
	if req.FacetField == "" {
		return nil, errors.New("facet: request has no facet field")
	}

	body, err := buildFacetBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.transport.PostJSON(ctx, c.cfg.searchPath(), body)
	if err != nil {
		return nil, fmt.Errorf("facet %q: %w", req.FacetField, err)
	}
	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("facet %q: %w", req.FacetField, &TransportError{StatusCode: resp.Status, Message: resp.Message})
	}

	result, err := parseFacetResponse(resp.Body, req.FacetField)
	if err != nil {
		return nil, fmt.Errorf("facet %q: %w", req.FacetField, err)
	}

	slog.Info("facet executed",
		"collection", c.cfg.Collection,
		"field", req.FacetField,
		"total_docs", result.TotalDocs,
		"buckets", len(result.Counts))

	return result, nil
}

// GetDocs fetches documents by id. A non-empty allow list restricts the
// response payload server-side; deny-listed fields are dropped while
// scraping.
func (c *Client) GetDocs(ctx context.Context, ids []string, allowFields, denyFields []string) ([]*StoredDocument, error) {
	body, err := buildMultiGetBody(ids)
	if err != nil {
		return nil, err
	}

	resp, err := c.transport.PostJSON(ctx, c.cfg.mgetPath()+multiGetSourceParam(allowFields), body)
	if err != nil {
		return nil, fmt.Errorf("multi-get: %w", err)
	}
	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("multi-get: %w", &TransportError{StatusCode: resp.Status, Message: resp.Message})
	}

	documents, err := parseMultiGetResponse(resp.Body, denyFields)
	if err != nil {
		return nil, fmt.Errorf("multi-get: %w", err)
	}

	slog.Debug("documents fetched",
		"collection", c.cfg.Collection,
		"requested", len(ids),
		"returned", len(documents))

	return documents, nil
}

// AddDocuments bulk-indexes the documents in input order.
func (c *Client) AddDocuments(ctx context.Context, documents []*StoredDocument) error {
	if len(documents) == 0 {
		return nil
	}

	body, err := buildBulkIndexBody(documents)
	if err != nil {
		return err
	}

	resp, err := c.transport.PostNDJSON(ctx, c.cfg.bulkPath(), body)
	if err != nil {
		return fmt.Errorf("bulk index: %w", err)
	}
	if resp.Status != http.StatusOK {
		return fmt.Errorf("bulk index: %w", &TransportError{StatusCode: resp.Status, Message: resp.Message})
	}

	slog.Info("documents indexed", "collection", c.cfg.Collection, "count", len(documents))
	return nil
}

// DeleteAll removes every document in the collection.
func (c *Client) DeleteAll(ctx context.Context) error {
	body, err := buildMatchAllBody()
	if err != nil {
		return err
	}

	resp, err := c.transport.PostJSON(ctx, c.cfg.deleteByQueryPath(), body)
	if err != nil {
		return fmt.Errorf("delete all: %w", err)
	}
	if resp.Status != http.StatusOK {
		return fmt.Errorf("delete all: %w", &TransportError{StatusCode: resp.Status, Message: resp.Message})
	}

	slog.Info("collection emptied", "collection", c.cfg.Collection)
	return nil
}

// CopyFields fetches the collection's mapping template and collects every
// copy_to target anywhere in it. An absent template or an unexpected shape
// is a normal outcome and yields an empty list.
func (c *Client) CopyFields(ctx context.Context) ([]string, error) {
	payload, err := c.transport.GetJSON(ctx, c.cfg.templatePath())
	if err != nil {
		var te *TransportError
		if errors.As(err, &te) && te.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch mapping template: %w", err)
	}

	root, ok := payload.(map[string]any)
	if !ok {
		return nil, nil
	}
	collectionRoot, ok := root[c.cfg.Collection].(map[string]any)
	if !ok {
		return nil, nil
	}
	mappings, ok := collectionRoot["mappings"].(map[string]any)
	if !ok {
		return nil, nil
	}

	targets := make(map[string]struct{})
	collectCopyTargets(mappings, targets)
	return sortedKeys(targets), nil
}
