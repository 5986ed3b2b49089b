package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

type cliConfig struct {
	ConnString string
	Mode       string
	Query      string
	Fields     string
	Tie        float64
	TieSet     bool
	FacetField string
	FacetLimit int
	SuitePath  string
	BatchSize  int
	Output     string
	IDs        string
	SourceList string
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.ConnString, "url", os.Getenv("ESBRIDGE_URL"), "Connection string, e.g. http://localhost:9200/my_collection")
	flag.StringVar(&cfg.Mode, "mode", "search", "Run mode: search, facet, export, get, copy-fields, delete-all, or bench")
	flag.StringVar(&cfg.Query, "query", "", "Free-text query")
	flag.StringVar(&cfg.Fields, "fields", "", "Query fields, comma-separated")
	flag.Float64Var(&cfg.Tie, "tie", 0, "Tie breaker for multi-field matches")
	flag.StringVar(&cfg.FacetField, "facet-field", "", "Field to facet on (facet mode)")
	flag.IntVar(&cfg.FacetLimit, "facet-limit", 10, "Maximum facet buckets")
	flag.StringVar(&cfg.SuitePath, "suite", "", "Path to query suite YAML (bench mode)")
	flag.IntVar(&cfg.BatchSize, "batch-size", 1000, "Scroll page size (export mode)")
	flag.StringVar(&cfg.Output, "output", "", "Output path for exported ids (defaults to stdout)")
	flag.StringVar(&cfg.IDs, "ids", "", "Document ids, comma-separated (get mode)")
	flag.StringVar(&cfg.SourceList, "source", "", "Fields to retrieve, comma-separated (get mode)")

	flag.Parse()
	cfg.TieSet = flagWasSet("tie")
	return cfg
}

func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func (c cliConfig) parseFields() []string {
	return splitList(c.Fields)
}

func (c cliConfig) parseIDs() []string {
	return splitList(c.IDs)
}

func (c cliConfig) parseSourceList() []string {
	return splitList(c.SourceList)
}

func (c cliConfig) tieBreaker() *float64 {
	if !c.TieSet {
		return nil
	}
	tie := c.Tie
	return &tie
}

func (c cliConfig) validate() error {
	if c.ConnString == "" {
		return fmt.Errorf("missing --url (or ESBRIDGE_URL)")
	}
	return nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
