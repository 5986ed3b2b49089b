// Package bench runs a query suite against a collection through the
// connector and reports per-query hit counts and latency.
package bench

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rankforge/esbridge/internal/connector"
)

type Suite struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Defaults    Defaults `yaml:"defaults"`
	Queries     []Query  `yaml:"queries"`
}

// Defaults apply to every query that does not override them.
type Defaults struct {
	QueryFields []string `yaml:"query_fields"`
	TieBreaker  *float64 `yaml:"tie_breaker"`
}

type Query struct {
	ID          string   `yaml:"id"`
	Description string   `yaml:"description"`
	Query       string   `yaml:"query"`
	QueryFields []string `yaml:"query_fields,omitempty"`
	TieBreaker  *float64 `yaml:"tie_breaker,omitempty"`
	FacetField  string   `yaml:"facet_field,omitempty"`
	FacetLimit  int      `yaml:"facet_limit,omitempty"`
}

// Request resolves the query against the suite defaults into a connector
// request.
func (q Query) Request(d Defaults) connector.QueryRequest {
	fields := q.QueryFields
	if len(fields) == 0 {
		fields = d.QueryFields
	}
	tie := q.TieBreaker
	if tie == nil {
		tie = d.TieBreaker
	}
	return connector.QueryRequest{
		Query:       q.Query,
		QueryFields: fields,
		TieBreaker:  tie,
		FacetField:  q.FacetField,
		FacetLimit:  q.FacetLimit,
	}
}

func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite file: %w", err)
	}
	return ParseSuite(data)
}

func ParseSuite(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse suite YAML: %w", err)
	}
	if len(s.Queries) == 0 {
		return nil, fmt.Errorf("suite has no queries")
	}

	for i, q := range s.Queries {
		if q.ID == "" {
			return nil, fmt.Errorf("query at index %d has no id", i)
		}
		if len(q.QueryFields) == 0 && len(s.Defaults.QueryFields) == 0 {
			return nil, fmt.Errorf("query %q has no query fields and the suite has no defaults", q.ID)
		}
	}

	return &s, nil
}
