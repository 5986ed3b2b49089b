package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSuite(t *testing.T) {
	t.Run("valid suite with defaults", func(t *testing.T) {
		yaml := `
name: melville
defaults:
  query_fields: [title, content]
  tie_breaker: 0.3
queries:
  - id: q1
    query: white whale
  - id: q2
    query: typee
    query_fields: [title]
    facet_field: genre
    facet_limit: 20
`
		s, err := ParseSuite([]byte(yaml))
		require.NoError(t, err)
		assert.Equal(t, "melville", s.Name)
		require.Len(t, s.Queries, 2)

		req := s.Queries[0].Request(s.Defaults)
		assert.Equal(t, "white whale", req.Query)
		assert.Equal(t, []string{"title", "content"}, req.QueryFields)
		require.NotNil(t, req.TieBreaker)
		assert.Equal(t, 0.3, *req.TieBreaker)

		req = s.Queries[1].Request(s.Defaults)
		assert.Equal(t, []string{"title"}, req.QueryFields, "query overrides default fields")
		assert.Equal(t, "genre", req.FacetField)
		assert.Equal(t, 20, req.FacetLimit)
	})

	t.Run("no queries", func(t *testing.T) {
		_, err := ParseSuite([]byte("name: empty\nqueries: []\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no queries")
	})

	t.Run("query missing id", func(t *testing.T) {
		yaml := `
name: bad
defaults:
  query_fields: [title]
queries:
  - query: nameless
`
		_, err := ParseSuite([]byte(yaml))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no id")
	})

	t.Run("query without fields anywhere", func(t *testing.T) {
		yaml := `
name: bad
queries:
  - id: q1
    query: floating
`
		_, err := ParseSuite([]byte(yaml))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no query fields")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := ParseSuite([]byte("queries: [\n"))
		assert.Error(t, err)
	})
}
