package connector

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MatchAllQuery is the universal wildcard sentinel. A facet request carrying
// it (or a blank query) aggregates over the whole collection.
const MatchAllQuery = "*:*"

// QueryRequest is one abstract query against the collection. Callers build
// it once and pass it by value; the connector never mutates it.
type QueryRequest struct {
	// Query is the free-text query string.
	Query string
	// QueryFields lists the fields the multi_match query runs against
	// (the "qf" tuning parameter).
	QueryFields []string
	// TieBreaker blends scores from non-best matching fields when set
	// (the "tie" tuning parameter).
	TieBreaker *float64
	// FieldsToRetrieve restricts the response payload when non-empty.
	FieldsToRetrieve []string
	// FacetField names the field to aggregate on for facet requests.
	FacetField string
	// FacetLimit caps the number of buckets a facet request returns.
	FacetLimit int
}

// buildSearchBody renders the engine search request: a best_fields
// multi_match over the request's query fields, with the tie breaker passed
// through when present.
func buildSearchBody(req QueryRequest) (string, error) {
	body := map[string]any{
		"query": buildQueryClause(req),
	}
	if len(req.FieldsToRetrieve) > 0 {
		body["_source"] = req.FieldsToRetrieve
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode search body: %w", err)
	}
	return string(encoded), nil
}

func buildQueryClause(req QueryRequest) map[string]any {
	multiMatch := map[string]any{
		"query":  req.Query,
		"type":   "best_fields",
		"fields": req.QueryFields,
	}
	if req.TieBreaker != nil {
		multiMatch["tie_breaker"] = *req.TieBreaker
	}
	return map[string]any{"multi_match": multiMatch}
}

// buildFacetBody renders a zero-size search carrying a term aggregation over
// the facet field. Documents missing the field surface under a literal
// "null" bucket. A blank or match-all query omits the query clause so the
// aggregation runs over the whole collection.
func buildFacetBody(req QueryRequest) (string, error) {
	body := map[string]any{
		"size": "0",
		"aggregations": map[string]any{
			req.FacetField: map[string]any{
				"terms": map[string]any{
					"field":         req.FacetField,
					"missing":       "null",
					"min_doc_count": "0",
					"size":          strconv.Itoa(req.FacetLimit),
				},
			},
		},
	}

	if !isMatchAll(req.Query) {
		body["query"] = buildQueryClause(req)
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode facet body: %w", err)
	}
	return string(encoded), nil
}

func isMatchAll(query string) bool {
	return strings.TrimSpace(query) == "" || query == MatchAllQuery
}

// buildScrollOpenBody renders the scroll-opening search: match everything,
// a fixed page size, no stored fields since only ids are wanted.
func buildScrollOpenBody(pageSize int) (string, error) {
	body := map[string]any{
		"query":         map[string]any{"match_all": map[string]any{}},
		"size":          strconv.Itoa(pageSize),
		"stored_fields": []string{},
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode scroll open body: %w", err)
	}
	return string(encoded), nil
}

// buildScrollNextBody renders a scroll continuation request. token must be
// the cursor returned by the engine's previous response.
func buildScrollNextBody(token string) (string, error) {
	body := map[string]string{
		"scroll":    scrollKeepAlive,
		"scroll_id": token,
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode scroll continuation body: %w", err)
	}
	return string(encoded), nil
}

// buildMatchAllBody renders a bare match-all query, used by delete-by-query.
func buildMatchAllBody() (string, error) {
	body := map[string]any{
		"query": map[string]any{"match_all": map[string]any{}},
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode match-all body: %w", err)
	}
	return string(encoded), nil
}
