package connector

import (
	"strings"
	"time"

	"github.com/rankforge/esbridge/pkg/jsonutil"
)

// docIDField is the engine's document identifier discriminator.
const docIDField = "_id"

// ResultSet is the scraped outcome of one search: ids in engine rank order
// plus the counts and timings the engine reported. A count of -1 means the
// engine did not report it.
type ResultSet struct {
	TotalHits int64
	// TookMillis is the engine-reported query time in milliseconds.
	TookMillis int64
	// Elapsed is the wall-clock time around the full request/parse round
	// trip, measured by the caller.
	Elapsed time.Duration
	IDs     []string
}

// Size returns the number of ids in the result page.
func (r *ResultSet) Size() int {
	return len(r.IDs)
}

// FacetResult maps each facet value to its document count. A count of -1
// means the engine did not report one for that bucket.
type FacetResult struct {
	TotalDocs int64
	Counts    map[string]int64
}

// parseSearchResponse scrapes a search reply into a ResultSet. Timings and
// totals degrade to -1 when absent; a missing hits container fails the parse.
// Hits with a blank identifier are skipped.
func parseSearchResponse(root map[string]any, start time.Time) (*ResultSet, error) {
	took := jsonutil.NumberOr(root, "took", -1)

	hits, ok := jsonutil.Object(root, "hits")
	if !ok {
		return nil, &ParseError{Path: "hits"}
	}

	hitArray, ok := jsonutil.Array(hits, "hits")
	if !ok {
		return nil, &ParseError{Path: "hits.hits"}
	}

	ids := make([]string, 0, len(hitArray))
	for _, el := range hitArray {
		hit, ok := el.(map[string]any)
		if !ok {
			continue
		}
		id := jsonutil.StringOr(hit, docIDField, "")
		if strings.TrimSpace(id) != "" {
			ids = append(ids, id)
		}
	}

	return &ResultSet{
		TotalHits:  parseTotalHits(hits),
		TookMillis: took,
		Elapsed:    time.Since(start),
		IDs:        ids,
	}, nil
}

// parseTotalHits reads the total-hit count, which the engine reports either
// as a bare number or as an object carrying a value field.
func parseTotalHits(hits map[string]any) int64 {
	if n, ok := jsonutil.Number(hits, "total"); ok {
		return n
	}
	if total, ok := jsonutil.Object(hits, "total"); ok {
		return jsonutil.NumberOr(total, "value", -1)
	}
	return -1
}

// parseFacetResponse scrapes a facet reply. The requested field's
// aggregation being absent is a contract violation and fails the parse;
// the total-docs count is informational and degrades to -1.
func parseFacetResponse(root map[string]any, facetField string) (*FacetResult, error) {
	totalDocs := int64(-1)
	if hits, ok := jsonutil.Object(root, "hits"); ok {
		totalDocs = parseTotalHits(hits)
	}

	aggs, ok := jsonutil.Object(root, "aggregations")
	if !ok {
		return nil, &ParseError{Path: "aggregations"}
	}

	fieldAggs, ok := jsonutil.Object(aggs, facetField)
	if !ok {
		return nil, &ParseError{Path: "aggregations." + facetField}
	}

	buckets, ok := jsonutil.Array(fieldAggs, "buckets")
	if !ok {
		return nil, &ParseError{Path: "aggregations." + facetField + ".buckets"}
	}

	counts := make(map[string]int64, len(buckets))
	for _, el := range buckets {
		bucket, ok := el.(map[string]any)
		if !ok {
			continue
		}
		key, ok := jsonutil.PrimitiveString(bucket["key"])
		if !ok {
			continue
		}
		counts[key] = jsonutil.NumberOr(bucket, "doc_count", -1)
	}

	return &FacetResult{TotalDocs: totalDocs, Counts: counts}, nil
}
