package bench

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

// WriteTable renders suite outcomes as an aligned text table.
func WriteTable(suiteName string, outcomes []Outcome, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== Suite: %s ===\n\n", suiteName)

	header := []string{"Query", "Hits", "Returned", "Took", "Elapsed", "Facets", "Status"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))

	for _, o := range outcomes {
		status := "OK"
		if o.Error != "" {
			status = "ERR"
		}
		row := []string{
			o.QueryID,
			fmtCount(o.TotalHits),
			fmt.Sprintf("%d", o.Returned),
			fmtTook(o.TookMillis),
			fmtDuration(o.Elapsed),
			fmt.Sprintf("%d", o.FacetBuckets),
			status,
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
	tw.Flush()
}

func fmtCount(n int64) string {
	if n < 0 {
		return "?"
	}
	return fmt.Sprintf("%d", n)
}

func fmtTook(millis int64) string {
	if millis < 0 {
		return "-"
	}
	return fmt.Sprintf("%dms", millis)
}

func fmtDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%.1fµs", float64(d.Microseconds()))
	}
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
