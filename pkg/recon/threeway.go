package recon

import (
	"time"

	"github.com/google/uuid"

	"github.com/ivyrecon/ivyrecon/pkg/errors"
	"github.com/ivyrecon/ivyrecon/pkg/logging"
	"github.com/ivyrecon/ivyrecon/pkg/table"
)

// CompareAvailable selects the comparison mode from whichever extracts
// are present. All three runs three-way; any two runs two-way, trying
// payroll/carrier first, then payroll/benadmin, then carrier/benadmin.
// Fewer than two returns ErrNotEnoughSources.
func (e *Engine) CompareAvailable(payroll, carrier, benadmin *table.NormalizedTable) (*Result, error) {
	switch {
	case payroll != nil && carrier != nil && benadmin != nil:
		return e.CompareThreeWay(payroll, carrier, benadmin)
	case payroll != nil && carrier != nil:
		return e.Compare(payroll, carrier)
	case payroll != nil && benadmin != nil:
		return e.Compare(payroll, benadmin)
	case carrier != nil && benadmin != nil:
		return e.Compare(carrier, benadmin)
	default:
		return nil, errors.ErrNotEnoughSources
	}
}

// CompareThreeWay reconciles all three unordered source pairs and merges
// the results, de-duplicating rows that represent the same
// (error type, identity, plan) triple so a discrepancy flagged by two
// pairwise comparisons is reported exactly once.
func (e *Engine) CompareThreeWay(payroll, carrier, benadmin *table.NormalizedTable) (*Result, error) {
	if payroll == nil || carrier == nil || benadmin == nil {
		return nil, errors.ErrNotEnoughSources
	}
	start := time.Now()

	pairs := [][2]*table.NormalizedTable{
		{payroll, carrier},
		{payroll, benadmin},
		{carrier, benadmin},
	}

	merged := &Result{
		Mode:    "Three-way (Payroll vs Carrier vs BenAdmin)",
		Sources: []table.Source{payroll.Source, carrier.Source, benadmin.Source},
		Metadata: ResultMetadata{
			RunID:     uuid.NewString(),
			StartTime: start,
			Rows:      make(map[table.Source]int),
		},
	}

	filterTotals := make(map[string]int)
	var filterOrder []string
	seen := make(map[string]bool)

	for _, pair := range pairs {
		result, err := e.Compare(pair[0], pair[1])
		if err != nil {
			return nil, err
		}

		for _, d := range result.Discrepancies {
			k := d.dedupKey()
			if seen[k] {
				continue
			}
			seen[k] = true
			merged.Discrepancies = append(merged.Discrepancies, d)
		}

		merged.FrequencyResolutions = append(merged.FrequencyResolutions, result.FrequencyResolutions...)
		for _, f := range result.Filters {
			if _, ok := filterTotals[f.Name]; !ok {
				filterOrder = append(filterOrder, f.Name)
			}
			filterTotals[f.Name] += f.Suppressed
		}
		for source, rows := range result.Metadata.Rows {
			merged.Metadata.Rows[source] = rows
		}
	}

	for _, name := range filterOrder {
		merged.Filters = append(merged.Filters, FilterReport{Name: name, Suppressed: filterTotals[name]})
	}

	merged.Summary = Summarize(merged.Discrepancies)
	merged.Metadata.EndTime = time.Now()
	merged.Metadata.Duration = merged.Metadata.EndTime.Sub(start)

	logging.Debug().
		Str("run_id", merged.Metadata.RunID).
		Int("discrepancies", len(merged.Discrepancies)).
		Msg("Three-way comparison complete")

	return merged, nil
}
