package connector

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, body string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	return m
}

func floatPtr(f float64) *float64 { return &f }

func TestBuildSearchBody(t *testing.T) {
	t.Run("multi_match with tie breaker", func(t *testing.T) {
		body, err := buildSearchBody(QueryRequest{
			Query:       "moby dick",
			QueryFields: []string{"title", "author"},
			TieBreaker:  floatPtr(0.3),
		})
		require.NoError(t, err)

		m := decodeBody(t, body)
		mm := m["query"].(map[string]any)["multi_match"].(map[string]any)
		assert.Equal(t, "moby dick", mm["query"])
		assert.Equal(t, "best_fields", mm["type"])
		assert.Equal(t, []any{"title", "author"}, mm["fields"])
		assert.Equal(t, 0.3, mm["tie_breaker"])
		assert.NotContains(t, m, "_source")
	})

	t.Run("tie breaker omitted when unset", func(t *testing.T) {
		body, err := buildSearchBody(QueryRequest{
			Query:       "moby dick",
			QueryFields: []string{"title"},
		})
		require.NoError(t, err)

		mm := decodeBody(t, body)["query"].(map[string]any)["multi_match"].(map[string]any)
		assert.NotContains(t, mm, "tie_breaker")
	})

	t.Run("fields to retrieve restrict source", func(t *testing.T) {
		body, err := buildSearchBody(QueryRequest{
			Query:            "moby dick",
			QueryFields:      []string{"title"},
			FieldsToRetrieve: []string{"title", "year"},
		})
		require.NoError(t, err)

		m := decodeBody(t, body)
		assert.Equal(t, []any{"title", "year"}, m["_source"])
	})
}

func TestBuildFacetBody(t *testing.T) {
	base := QueryRequest{
		QueryFields: []string{"title"},
		FacetField:  "genre",
		FacetLimit:  25,
	}

	t.Run("aggregation shape", func(t *testing.T) {
		req := base
		req.Query = "whale"
		body, err := buildFacetBody(req)
		require.NoError(t, err)

		m := decodeBody(t, body)
		assert.Equal(t, "0", m["size"])

		terms := m["aggregations"].(map[string]any)["genre"].(map[string]any)["terms"].(map[string]any)
		assert.Equal(t, "genre", terms["field"])
		assert.Equal(t, "null", terms["missing"])
		assert.Equal(t, "0", terms["min_doc_count"])
		assert.Equal(t, "25", terms["size"])
	})

	t.Run("query clause embedded for real queries", func(t *testing.T) {
		req := base
		req.Query = "whale"
		body, err := buildFacetBody(req)
		require.NoError(t, err)

		m := decodeBody(t, body)
		require.Contains(t, m, "query")
		mm := m["query"].(map[string]any)["multi_match"].(map[string]any)
		assert.Equal(t, "whale", mm["query"])
	})

	t.Run("wildcard sentinel omits query clause", func(t *testing.T) {
		req := base
		req.Query = MatchAllQuery
		body, err := buildFacetBody(req)
		require.NoError(t, err)
		assert.NotContains(t, decodeBody(t, body), "query")
	})

	t.Run("blank query omits query clause", func(t *testing.T) {
		for _, q := range []string{"", "   "} {
			req := base
			req.Query = q
			body, err := buildFacetBody(req)
			require.NoError(t, err)
			assert.NotContains(t, decodeBody(t, body), "query")
		}
	})
}

func TestBuildScrollBodies(t *testing.T) {
	t.Run("open", func(t *testing.T) {
		body, err := buildScrollOpenBody(500)
		require.NoError(t, err)

		m := decodeBody(t, body)
		assert.Equal(t, map[string]any{}, m["query"].(map[string]any)["match_all"])
		assert.Equal(t, "500", m["size"])
		assert.Equal(t, []any{}, m["stored_fields"])
	})

	t.Run("continuation", func(t *testing.T) {
		body, err := buildScrollNextBody("cursor-token")
		require.NoError(t, err)

		m := decodeBody(t, body)
		assert.Equal(t, "1m", m["scroll"])
		assert.Equal(t, "cursor-token", m["scroll_id"])
	})
}
