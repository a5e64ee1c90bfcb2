package telemetry

import (
	"fmt"
	"io"

	"github.com/sarchlab/tomasim/timing/pipeline"
)

// PrintTimings writes a per-instruction timeline table. Cycles that an
// instruction never reached are shown as "-".
func PrintTimings(w io.Writer, timings []pipeline.Timing) {
	_, _ = fmt.Fprintf(w, "%6s  %-6s %9s %6s %8s %10s %7s\n",
		"#", "class", "dispatch", "issue", "execute", "broadcast", "retire")

	for _, t := range timings {
		_, _ = fmt.Fprintf(w, "%6d  %-6s %9s %6s %8s %10s %7s\n",
			t.Index, t.Class,
			cycleString(t.DispatchCycle),
			cycleString(t.IssueCycle),
			cycleString(t.ExecuteCycle),
			cycleString(t.BroadcastCycle),
			cycleString(t.RetireCycle))
	}
}

// PrintTimingsCSV writes the timeline in CSV format. Unreached stages are 0.
func PrintTimingsCSV(w io.Writer, timings []pipeline.Timing) {
	_, _ = fmt.Fprintln(w, "index,class,dispatch,issue,execute,broadcast,retire")

	for _, t := range timings {
		_, _ = fmt.Fprintf(w, "%d,%s,%d,%d,%d,%d,%d\n",
			t.Index, t.Class,
			t.DispatchCycle, t.IssueCycle, t.ExecuteCycle,
			t.BroadcastCycle, t.RetireCycle)
	}
}

// PrintStats writes a run summary.
func PrintStats(w io.Writer, cycles uint64, stats pipeline.Statistics) {
	_, _ = fmt.Fprintf(w, "Total cycles:          %d\n", cycles)
	_, _ = fmt.Fprintf(w, "Instructions retired:  %d\n", stats.Instructions)
	_, _ = fmt.Fprintf(w, "CPI:                   %.3f\n", stats.CPI())
	_, _ = fmt.Fprintln(w, "  --- Retired by path ---")
	_, _ = fmt.Fprintf(w, "  Broadcast:           %d\n", stats.Broadcasts)
	_, _ = fmt.Fprintf(w, "  Stores:              %d\n", stats.Stores)
	_, _ = fmt.Fprintf(w, "  Loads broadcast:     %d\n", stats.Loads)
	_, _ = fmt.Fprintf(w, "  Controls:            %d\n", stats.Controls)
	_, _ = fmt.Fprintf(w, "  Traps:               %d\n", stats.Traps)
	_, _ = fmt.Fprintln(w, "  --- Stalls ---")
	_, _ = fmt.Fprintf(w, "  Queue full:          %d\n", stats.QueueFullStalls)
	_, _ = fmt.Fprintf(w, "  Stations full:       %d\n", stats.StationFullStalls)
	_, _ = fmt.Fprintf(w, "  Bus conflicts:       %d\n", stats.BroadcastConflicts)
}

func cycleString(c uint64) string {
	if c == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", c)
}
