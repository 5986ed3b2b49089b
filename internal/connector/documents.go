package connector

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/rankforge/esbridge/pkg/jsonutil"
)

// StoredDocument is a fetched or to-be-indexed document: an identifier plus
// a multi-valued field map. Repeated values accumulate under the same field
// name, never overwriting earlier ones.
type StoredDocument struct {
	ID     string
	Fields map[string][]string
}

func NewStoredDocument(id string) *StoredDocument {
	return &StoredDocument{
		ID:     id,
		Fields: make(map[string][]string),
	}
}

// AddNonBlank appends value under field unless it is blank or whitespace.
// The blank-drop policy lives here so every scraping path shares it.
func (d *StoredDocument) AddNonBlank(field, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	d.Fields[field] = append(d.Fields[field], value)
}

// buildMultiGetBody renders the multi-get request body.
func buildMultiGetBody(ids []string) (string, error) {
	encoded, err := json.Marshal(map[string]any{"ids": ids})
	if err != nil {
		return "", fmt.Errorf("encode multi-get body: %w", err)
	}
	return string(encoded), nil
}

// multiGetSourceParam renders the _source query parameter restricting a
// multi-get response to the allow-listed fields. Empty allow list means no
// restriction.
func multiGetSourceParam(allowFields []string) string {
	if len(allowFields) == 0 {
		return ""
	}
	return "?_source=" + url.QueryEscape(strings.Join(allowFields, ","))
}

// parseMultiGetResponse scrapes a multi-get reply into documents. Fields on
// the deny list are dropped; scalar values become one field value and array
// values one entry per element.
func parseMultiGetResponse(root map[string]any, denyFields []string) ([]*StoredDocument, error) {
	docArray, ok := jsonutil.Array(root, "docs")
	if !ok {
		return nil, &ParseError{Path: "docs"}
	}

	denied := make(map[string]struct{}, len(denyFields))
	for _, f := range denyFields {
		denied[f] = struct{}{}
	}

	documents := make([]*StoredDocument, 0, len(docArray))
	for _, el := range docArray {
		entry, ok := el.(map[string]any)
		if !ok {
			continue
		}

		doc := NewStoredDocument(jsonutil.StringOr(entry, docIDField, ""))

		if source, ok := jsonutil.Object(entry, "_source"); ok {
			for field, value := range source {
				if _, skip := denied[field]; skip {
					continue
				}
				switch v := value.(type) {
				case []any:
					for _, item := range v {
						if s, ok := jsonutil.PrimitiveString(item); ok {
							doc.AddNonBlank(field, s)
						}
					}
				default:
					if s, ok := jsonutil.PrimitiveString(v); ok {
						doc.AddNonBlank(field, s)
					}
				}
			}
		}

		documents = append(documents, doc)
	}
	return documents, nil
}

// bulkAction is one NDJSON action line. Struct fields keep the key order
// stable across runs.
type bulkAction struct {
	Index bulkIndexMeta `json:"index"`
}

type bulkIndexMeta struct {
	Type string `json:"_type"`
	ID   string `json:"_id"`
}

// buildBulkIndexBody renders the newline-delimited bulk-index body: one
// action line per document followed by its field map. The identifier field
// is reserved for the action line and never appears in the body line. Pure
// function of its input; identical input yields identical text.
func buildBulkIndexBody(documents []*StoredDocument) (string, error) {
	var sb strings.Builder
	for _, doc := range documents {
		action, err := json.Marshal(bulkAction{Index: bulkIndexMeta{Type: "_doc", ID: doc.ID}})
		if err != nil {
			return "", fmt.Errorf("encode bulk action for %q: %w", doc.ID, err)
		}

		fields := make(map[string]any, len(doc.Fields))
		for field, values := range doc.Fields {
			if field == docIDField {
				continue
			}
			if len(values) == 1 {
				fields[field] = values[0]
			} else {
				fields[field] = values
			}
		}
		body, err := json.Marshal(fields)
		if err != nil {
			return "", fmt.Errorf("encode bulk body for %q: %w", doc.ID, err)
		}

		sb.Write(action)
		sb.WriteByte('\n')
		sb.Write(body)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// collectCopyTargets walks a mapping tree to unbounded depth, gathering
// every value found under a copy_to directive. Directive values are a single
// field name or an array of them.
func collectCopyTargets(node map[string]any, targets map[string]struct{}) {
	for key, value := range node {
		if key == "copy_to" {
			switch v := value.(type) {
			case string:
				targets[v] = struct{}{}
			case []any:
				for _, item := range v {
					if s, ok := item.(string); ok {
						targets[s] = struct{}{}
					}
				}
			}
			continue
		}
		if child, ok := value.(map[string]any); ok {
			collectCopyTargets(child, targets)
		}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
