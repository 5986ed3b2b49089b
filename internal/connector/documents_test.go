package connector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoredDocument_AddNonBlank(t *testing.T) {
	doc := NewStoredDocument("d1")

	doc.AddNonBlank("title", "Moby Dick")
	doc.AddNonBlank("title", "")
	doc.AddNonBlank("title", "   ")
	doc.AddNonBlank("title", "The Whale")

	assert.Equal(t, []string{"Moby Dick", "The Whale"}, doc.Fields["title"])
	assert.NotContains(t, doc.Fields, "author")
}

func TestBuildMultiGetBody(t *testing.T) {
	body, err := buildMultiGetBody([]string{"a", "b"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ids":["a","b"]}`, body)
}

func TestMultiGetSourceParam(t *testing.T) {
	assert.Equal(t, "", multiGetSourceParam(nil))
	assert.Equal(t, "?_source=title%2Cauthor", multiGetSourceParam([]string{"title", "author"}))
}

func TestParseMultiGetResponse(t *testing.T) {
	t.Run("scalar and array fields", func(t *testing.T) {
		root := decodeResponse(t, `{
			"docs": [
				{
					"_id": "d1",
					"_source": {
						"title": "Moby Dick",
						"tags": ["whale", "sea", "obsession"],
						"year": 1851,
						"secret": "hidden"
					}
				}
			]
		}`)

		docs, err := parseMultiGetResponse(root, []string{"secret"})
		require.NoError(t, err)
		require.Len(t, docs, 1)

		doc := docs[0]
		assert.Equal(t, "d1", doc.ID)
		assert.Equal(t, []string{"Moby Dick"}, doc.Fields["title"])
		assert.Len(t, doc.Fields["tags"], 3, "array of length k produces k entries")
		assert.Equal(t, []string{"1851"}, doc.Fields["year"])
		assert.NotContains(t, doc.Fields, "secret", "deny-listed field dropped")
	})

	t.Run("blank values dropped by the record", func(t *testing.T) {
		root := decodeResponse(t, `{
			"docs": [{"_id": "d1", "_source": {"note": "", "tags": ["", "kept"]}}]
		}`)

		docs, err := parseMultiGetResponse(root, nil)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.NotContains(t, docs[0].Fields, "note")
		assert.Equal(t, []string{"kept"}, docs[0].Fields["tags"])
	})

	t.Run("missing docs container is a parse error", func(t *testing.T) {
		root := decodeResponse(t, `{"found": true}`)
		_, err := parseMultiGetResponse(root, nil)
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "docs", pe.Path)
	})
}

func TestBuildBulkIndexBody(t *testing.T) {
	doc1 := NewStoredDocument("d1")
	doc1.AddNonBlank("title", "Moby Dick")
	doc1.AddNonBlank("tags", "whale")
	doc1.AddNonBlank("tags", "sea")

	doc2 := NewStoredDocument("d2")
	doc2.AddNonBlank("title", "Typee")

	t.Run("action and body line pairs in input order", func(t *testing.T) {
		body, err := buildBulkIndexBody([]*StoredDocument{doc1, doc2})
		require.NoError(t, err)

		require.True(t, strings.HasSuffix(body, "\n"), "bulk body must end with a newline")
		lines := strings.Split(strings.TrimSuffix(body, "\n"), "\n")
		require.Len(t, lines, 4)

		assert.JSONEq(t, `{"index":{"_type":"_doc","_id":"d1"}}`, lines[0])
		assert.JSONEq(t, `{"title":"Moby Dick","tags":["whale","sea"]}`, lines[1])
		assert.JSONEq(t, `{"index":{"_type":"_doc","_id":"d2"}}`, lines[2])
		assert.JSONEq(t, `{"title":"Typee"}`, lines[3])
	})

	t.Run("identifier field never appears in body lines", func(t *testing.T) {
		doc := NewStoredDocument("d3")
		doc.Fields["_id"] = []string{"d3"}
		doc.AddNonBlank("title", "Omoo")

		body, err := buildBulkIndexBody([]*StoredDocument{doc})
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSuffix(body, "\n"), "\n")
		assert.JSONEq(t, `{"title":"Omoo"}`, lines[1])
	})

	t.Run("idempotent", func(t *testing.T) {
		docs := []*StoredDocument{doc1, doc2}
		first, err := buildBulkIndexBody(docs)
		require.NoError(t, err)
		second, err := buildBulkIndexBody(docs)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestCollectCopyTargets(t *testing.T) {
	t.Run("nested directives at any depth", func(t *testing.T) {
		mappings := decodeResponse(t, `{
			"properties": {
				"title": {"type": "text", "copy_to": "all_text"},
				"author": {
					"properties": {
						"name": {"type": "text", "copy_to": ["all_text", "people"]}
					}
				}
			}
		}`)

		targets := make(map[string]struct{})
		collectCopyTargets(mappings, targets)

		assert.Equal(t, []string{"all_text", "people"}, sortedKeys(targets))
	})

	t.Run("no directives yields empty set", func(t *testing.T) {
		mappings := decodeResponse(t, `{"properties":{"title":{"type":"text"}}}`)
		targets := make(map[string]struct{})
		collectCopyTargets(mappings, targets)
		assert.Empty(t, targets)
	})
}
