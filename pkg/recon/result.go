package recon

import (
	"fmt"
	"time"

	"github.com/ivyrecon/ivyrecon/pkg/table"
)

// Result is the outcome of one reconciliation run: the sole interface the
// engine exposes outward, consumed by the report assembler.
type Result struct {
	// Mode describes the comparison, e.g. "Two-way (Payroll vs Carrier)".
	Mode string

	// Sources lists the compared source tables in order.
	Sources []table.Source

	// Discrepancies is the output table, one row per detected inconsistency.
	Discrepancies []Discrepancy

	// Summary maps error type to count, with a trailing Total.
	Summary Summary

	// Filters reports each suppression pass that ran and what it removed.
	Filters []FilterReport

	// FrequencyResolutions lists amounts accepted under a pay-frequency
	// multiplier, for reporting only.
	FrequencyResolutions []FrequencyResolution

	// Metadata about the run.
	Metadata ResultMetadata
}

// ResultMetadata carries run bookkeeping.
type ResultMetadata struct {
	RunID     string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Rows counts the reduced (post-policy) rows per source.
	Rows map[table.Source]int
}

// HasDiscrepancies reports whether any discrepancies survived filtering.
func (r *Result) HasDiscrepancies() bool {
	return len(r.Discrepancies) > 0
}

// Suppressed returns the total rows removed across all suppression passes.
func (r *Result) Suppressed() int {
	total := 0
	for _, f := range r.Filters {
		total += f.Suppressed
	}
	return total
}

// String returns a one-line human-readable summary of the run.
func (r *Result) String() string {
	if !r.HasDiscrepancies() {
		return fmt.Sprintf("%s: no discrepancies", r.Mode)
	}
	return fmt.Sprintf("%s: %d discrepancies across %d types", r.Mode, r.Summary.Total(), r.Summary.Len()-1)
}
