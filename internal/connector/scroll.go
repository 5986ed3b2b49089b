package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rankforge/esbridge/pkg/jsonutil"
)

const (
	// scrollOpenKeepAlive is how long the engine keeps the cursor alive
	// after the opening search. Continuation requests refresh it with
	// scrollKeepAlive; letting either lapse between pages invalidates the
	// cursor and the export run fails.
	scrollOpenKeepAlive = "10m"
	scrollKeepAlive     = "1m"

	// enqueueRetryInterval is the bounded wait per enqueue attempt. A full
	// queue is retried at this cadence until the consumer drains, which
	// throttles the exporter to the consumer's pace without dropping
	// batches.
	enqueueRetryInterval = time.Second
)

// ExportRun is the handle for one in-flight id export. The batch channel
// passed to StartLoadingIDs is closed when the run reaches a terminal state;
// after that Err reports whether it finished or failed.
type ExportRun struct {
	// ID correlates this run's log records.
	ID   uuid.UUID
	done chan struct{}
	err  error
}

// Done is closed once the run has terminated and the batch channel is
// closed.
func (r *ExportRun) Done() <-chan struct{} {
	return r.done
}

// Err returns the terminal error of the run, or nil if the collection was
// exhausted normally. Only valid after Done is closed.
func (r *ExportRun) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}

// StartLoadingIDs streams every document id in the collection into batches
// and returns immediately. Each batch is one scroll page, deduplicated, in
// page order. The exporter owns the channel and closes it on termination;
// run only one exporter per channel. Cancelling ctx aborts both page fetches
// and a blocked enqueue.
func (c *Client) StartLoadingIDs(ctx context.Context, batches chan<- []string, pageSize int) *ExportRun {
	run := &ExportRun{ID: uuid.New(), done: make(chan struct{})}

	go func() {
		defer close(run.done)
		defer close(batches)

		run.err = c.exportIDs(ctx, run.ID, batches, pageSize)
		if run.err != nil {
			slog.Error("id export failed", "run_id", run.ID, "collection", c.cfg.Collection, "error", run.err)
		}
	}()

	return run
}

func (c *Client) exportIDs(ctx context.Context, runID uuid.UUID, batches chan<- []string, pageSize int) error {
	openBody, err := buildScrollOpenBody(pageSize)
	if err != nil {
		return err
	}

	resp, err := c.transport.PostJSON(ctx, c.cfg.searchPath()+"?scroll="+scrollOpenKeepAlive, openBody)
	if err != nil {
		return fmt.Errorf("open scroll: %w", err)
	}
	if resp.Status != http.StatusOK {
		return fmt.Errorf("open scroll: %w", &TransportError{StatusCode: resp.Status, Message: resp.Message})
	}

	token := jsonutil.StringOr(resp.Body, "_scroll_id", "")
	page, err := parseSearchResponse(resp.Body, time.Now())
	if err != nil {
		return fmt.Errorf("parse scroll page: %w", err)
	}

	slog.Info("id export started",
		"run_id", runID,
		"collection", c.cfg.Collection,
		"page_size", pageSize,
		"total_hits", page.TotalHits)

	exported := 0
	for page.Size() > 0 {
		batch := dedupe(page.IDs)
		if err := c.publishBatch(ctx, runID, batches, batch); err != nil {
			return err
		}
		exported += len(batch)

		nextBody, err := buildScrollNextBody(token)
		if err != nil {
			return err
		}

		resp, err = c.transport.PostJSON(ctx, c.cfg.scrollPath(), nextBody)
		if err != nil {
			return fmt.Errorf("continue scroll: %w", err)
		}
		if resp.Status != http.StatusOK {
			return fmt.Errorf("continue scroll: %w", &TransportError{StatusCode: resp.Status, Message: resp.Message})
		}

		// The cursor for request N+1 is always the one returned by
		// response N.
		if next := jsonutil.StringOr(resp.Body, "_scroll_id", ""); next != "" {
			token = next
		}
		page, err = parseSearchResponse(resp.Body, time.Now())
		if err != nil {
			return fmt.Errorf("parse scroll page: %w", err)
		}
	}

	c.clearScroll(ctx, token)

	slog.Info("id export finished", "run_id", runID, "collection", c.cfg.Collection, "exported", exported)
	return nil
}

// publishBatch hands a batch to the queue, retrying a full queue at the
// bounded-wait cadence so no batch is ever dropped.
func (c *Client) publishBatch(ctx context.Context, runID uuid.UUID, batches chan<- []string, batch []string) error {
	for {
		select {
		case batches <- batch:
			slog.Debug("id batch enqueued", "run_id", runID, "batch_size", len(batch))
			return nil
		case <-ctx.Done():
			return fmt.Errorf("enqueue id batch: %w", ctx.Err())
		case <-time.After(enqueueRetryInterval):
			slog.Debug("waiting to enqueue id batch", "run_id", runID, "batch_size", len(batch))
		}
	}
}

// clearScroll releases the cursor once the collection is exhausted. Best
// effort: the cursor times out engine-side regardless.
func (c *Client) clearScroll(ctx context.Context, token string) {
	if token == "" {
		return
	}

	body, err := json.Marshal(map[string]string{"scroll_id": token})
	if err != nil {
		return
	}

	resp, err := c.transport.DeleteJSON(ctx, c.cfg.scrollPath(), string(body))
	if err != nil {
		slog.Warn("failed to clear scroll cursor", "collection", c.cfg.Collection, "error", err)
		return
	}
	if resp.Status != http.StatusOK {
		slog.Warn("failed to clear scroll cursor", "collection", c.cfg.Collection, "status", resp.Status)
	}
}

// dedupe drops repeated ids within one page, preserving engine order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
