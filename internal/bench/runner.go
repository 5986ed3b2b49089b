package bench

import (
	"context"
	"log/slog"
	"time"

	"github.com/rankforge/esbridge/internal/connector"
)

// Searcher is the slice of the connector the runner needs.
type Searcher interface {
	Search(ctx context.Context, req connector.QueryRequest) (*connector.ResultSet, error)
	Facet(ctx context.Context, req connector.QueryRequest) (*connector.FacetResult, error)
}

// Outcome records how one suite query fared.
type Outcome struct {
	QueryID    string
	Query      string
	TotalHits  int64
	Returned   int
	TookMillis int64
	Elapsed    time.Duration
	// FacetBuckets is set when the query also requested a facet.
	FacetBuckets int
	Error        string
}

type Runner struct {
	client Searcher
}

func NewRunner(client Searcher) *Runner {
	return &Runner{client: client}
}

// Run executes every suite query in order. A failed query is recorded and
// the run continues; the caller inspects per-query errors in the outcomes.
func (r *Runner) Run(ctx context.Context, suite *Suite) []Outcome {
	outcomes := make([]Outcome, 0, len(suite.Queries))

	for _, q := range suite.Queries {
		req := q.Request(suite.Defaults)
		outcome := Outcome{QueryID: q.ID, Query: q.Query}

		result, err := r.client.Search(ctx, req)
		if err != nil {
			slog.Error("suite query failed", "suite", suite.Name, "query_id", q.ID, "error", err)
			outcome.Error = err.Error()
			outcomes = append(outcomes, outcome)
			continue
		}

		outcome.TotalHits = result.TotalHits
		outcome.Returned = result.Size()
		outcome.TookMillis = result.TookMillis
		outcome.Elapsed = result.Elapsed

		if req.FacetField != "" {
			facets, err := r.client.Facet(ctx, req)
			if err != nil {
				slog.Error("suite facet failed", "suite", suite.Name, "query_id", q.ID, "field", req.FacetField, "error", err)
				outcome.Error = err.Error()
			} else {
				outcome.FacetBuckets = len(facets.Counts)
			}
		}

		outcomes = append(outcomes, outcome)
	}

	return outcomes
}
