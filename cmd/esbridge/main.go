package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rankforge/esbridge/internal/bench"
	"github.com/rankforge/esbridge/internal/connector"
	"github.com/rankforge/esbridge/pkg/config/env"
)

func main() {
	cfg := parseFlags()

	_ = env.LoadDotEnv(os.Getenv("APP_ENV"), ".env")

	if err := cfg.validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	client, err := connector.NewClient(cfg.ConnString)
	if err != nil {
		slog.Error("Failed to create connector", "url", cfg.ConnString, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	switch cfg.Mode {
	case "search":
		runSearch(ctx, client, cfg)
	case "facet":
		runFacet(ctx, client, cfg)
	case "export":
		runExport(ctx, client, cfg)
	case "get":
		runGet(ctx, client, cfg)
	case "copy-fields":
		runCopyFields(ctx, client)
	case "delete-all":
		runDeleteAll(ctx, client)
	case "bench":
		runBench(ctx, client, cfg)
	default:
		slog.Error("Unknown mode", "mode", cfg.Mode)
		os.Exit(1)
	}
}

func runSearch(ctx context.Context, client *connector.Client, cfg cliConfig) {
	result, err := client.Search(ctx, connector.QueryRequest{
		Query:       cfg.Query,
		QueryFields: cfg.parseFields(),
		TieBreaker:  cfg.tieBreaker(),
	})
	if err != nil {
		slog.Error("Search failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("total=%d took=%dms elapsed=%s\n", result.TotalHits, result.TookMillis, result.Elapsed)
	for rank, id := range result.IDs {
		fmt.Printf("%d\t%s\n", rank+1, id)
	}
}

func runFacet(ctx context.Context, client *connector.Client, cfg cliConfig) {
	result, err := client.Facet(ctx, connector.QueryRequest{
		Query:       cfg.Query,
		QueryFields: cfg.parseFields(),
		TieBreaker:  cfg.tieBreaker(),
		FacetField:  cfg.FacetField,
		FacetLimit:  cfg.FacetLimit,
	})
	if err != nil {
		slog.Error("Facet failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("total_docs=%d\n", result.TotalDocs)
	for value, count := range result.Counts {
		fmt.Printf("%s\t%d\n", value, count)
	}
}

func runExport(ctx context.Context, client *connector.Client, cfg cliConfig) {
	out := os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			slog.Error("Failed to create output file", "path", cfg.Output, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	batches := make(chan []string, 4)
	run := client.StartLoadingIDs(ctx, batches, cfg.BatchSize)

	w := bufio.NewWriter(out)
	total := 0
	for batch := range batches {
		for _, id := range batch {
			fmt.Fprintln(w, id)
		}
		total += len(batch)
	}
	if err := w.Flush(); err != nil {
		slog.Error("Failed to flush output", "error", err)
		os.Exit(1)
	}

	<-run.Done()
	if err := run.Err(); err != nil {
		slog.Error("Export failed", "run_id", run.ID, "exported", total, "error", err)
		os.Exit(1)
	}
	slog.Info("Export complete", "run_id", run.ID, "exported", total)
}

func runGet(ctx context.Context, client *connector.Client, cfg cliConfig) {
	ids := cfg.parseIDs()
	if len(ids) == 0 {
		slog.Error("Get mode requires --ids")
		os.Exit(1)
	}

	docs, err := client.GetDocs(ctx, ids, cfg.parseSourceList(), nil)
	if err != nil {
		slog.Error("Multi-get failed", "error", err)
		os.Exit(1)
	}

	for _, doc := range docs {
		fmt.Printf("%s\n", doc.ID)
		for field, values := range doc.Fields {
			for _, v := range values {
				fmt.Printf("\t%s=%s\n", field, v)
			}
		}
	}
}

func runCopyFields(ctx context.Context, client *connector.Client) {
	fields, err := client.CopyFields(ctx)
	if err != nil {
		slog.Error("Copy-field discovery failed", "error", err)
		os.Exit(1)
	}
	for _, f := range fields {
		fmt.Println(f)
	}
}

func runDeleteAll(ctx context.Context, client *connector.Client) {
	if err := client.DeleteAll(ctx); err != nil {
		slog.Error("Delete-all failed", "error", err)
		os.Exit(1)
	}
}

func runBench(ctx context.Context, client *connector.Client, cfg cliConfig) {
	if cfg.SuitePath == "" {
		slog.Error("Bench mode requires --suite")
		os.Exit(1)
	}

	suite, err := bench.LoadSuite(cfg.SuitePath)
	if err != nil {
		slog.Error("Failed to load suite", "path", cfg.SuitePath, "error", err)
		os.Exit(1)
	}

	outcomes := bench.NewRunner(client).Run(ctx, suite)
	bench.WriteTable(suite.Name, outcomes, os.Stdout)

	for _, o := range outcomes {
		if o.Error != "" {
			os.Exit(1)
		}
	}
}
