// Package recon implements the reconciliation engine: record keying, fuzzy
// plan-name matching, tolerant amount comparison, duplicate handling, and
// discrepancy aggregation across two or three source extracts.
package recon

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ivyrecon/ivyrecon/pkg/aliases"
	"github.com/ivyrecon/ivyrecon/pkg/errors"
	"github.com/ivyrecon/ivyrecon/pkg/logging"
	"github.com/ivyrecon/ivyrecon/pkg/table"
)

// Engine runs reconciliation requests. It is stateless across runs: every
// Compare call operates on its own copies and the engine holds only
// configuration.
type Engine struct {
	opts Options
}

// Options returns the engine configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// Compare reconciles two normalized tables and reports per-key
// discrepancies plus a count-by-type summary.
func (e *Engine) Compare(a, b *table.NormalizedTable) (*Result, error) {
	if a == nil || b == nil {
		return nil, errors.ErrNotEnoughSources
	}
	start := time.Now()

	resolver := aliases.NewResolver(e.opts.Aliases,
		aliases.WithScorer(e.opts.Scorer),
		aliases.WithThreshold(e.opts.PlanMatchThreshold))

	pa := e.prepare(a, resolver)
	pb := e.prepare(b, resolver)

	discrepancies, freqResolutions := e.compare(pa, pb)
	discrepancies = append(discrepancies, e.duplicateIdentities(pa, pb)...)

	result := &Result{
		Mode:                 fmt.Sprintf("Two-way (%s vs %s)", a.Source, b.Source),
		Sources:              []table.Source{a.Source, b.Source},
		Discrepancies:        discrepancies,
		FrequencyResolutions: freqResolutions,
		Metadata: ResultMetadata{
			RunID:     uuid.NewString(),
			StartTime: start,
			Rows: map[table.Source]int{
				a.Source: len(pa.records),
				b.Source: len(pb.records),
			},
		},
	}

	e.applyFilters(result, pa, pb)
	result.Summary = Summarize(result.Discrepancies)
	result.Metadata.EndTime = time.Now()
	result.Metadata.Duration = result.Metadata.EndTime.Sub(start)

	logging.Debug().
		Str("run_id", result.Metadata.RunID).
		Str("mode", result.Mode).
		Int("discrepancies", len(result.Discrepancies)).
		Msg("Comparison complete")

	return result, nil
}

// compare classifies every joined key across the two prepared tables.
func (e *Engine) compare(pa, pb *prepared) ([]Discrepancy, []FrequencyResolution) {
	groupsA, orderA := pa.byKey()
	groupsB, orderB := pb.byKey()

	// Full outer join: keys of A in order, then keys only in B.
	keys := make([]key, 0, len(orderA)+len(orderB))
	keys = append(keys, orderA...)
	for _, k := range orderB {
		if _, ok := groupsA[k]; !ok {
			keys = append(keys, k)
		}
	}

	var discrepancies []Discrepancy
	var freqResolutions []FrequencyResolution

	for _, k := range keys {
		rowsA, inA := groupsA[k]
		rowsB, inB := groupsB[k]

		switch {
		case inA && !inB:
			discrepancies = append(discrepancies, e.missingRow(rowsA[0], MissingIn(pb.source), pa.source, pb.source))
			continue
		case inB && !inA:
			discrepancies = append(discrepancies, e.missingRow(rowsB[0], MissingIn(pa.source), pa.source, pb.source))
			continue
		}

		// Finer secondary check on the raw plan strings; the key itself was
		// already alias-normalized.
		first := pair(rowsA[0], rowsB[0])
		sim := e.opts.Scorer.Score(aliases.NormalizePlan(rowsA[0].RawPlan), aliases.NormalizePlan(rowsB[0].RawPlan))
		if sim < e.opts.PlanMatchThreshold {
			d := first
			d.Type = ErrorPlanNameMismatch
			d.SourceA, d.SourceB = pa.source, pb.source
			d.Similarity, d.HasSimilarity = sim, true
			discrepancies = append(discrepancies, d)
		}

		// Row-pair amount comparison. Under keep-all a key may hold several
		// rows per source; unpaired rows compare against a blank amount.
		n := len(rowsA)
		if len(rowsB) > n {
			n = len(rowsB)
		}
		for i := 0; i < n; i++ {
			var ra, rb table.Record
			if i < len(rowsA) {
				ra = rowsA[i]
			}
			if i < len(rowsB) {
				rb = rowsB[i]
			}

			if equal, factor := e.amountsEqual(ra.EmployeeCost, rb.EmployeeCost); !equal {
				d := first
				d.Type = ErrorEmployeeAmountMismatch
				d.SourceA, d.SourceB = pa.source, pb.source
				d.EmployeeCostA, d.EmployeeCostB = ra.EmployeeCost, rb.EmployeeCost
				d.EmployerCostA, d.EmployerCostB = ra.EmployerCost, rb.EmployerCost
				discrepancies = append(discrepancies, d)
			} else if factor > 0 {
				freqResolutions = append(freqResolutions, FrequencyResolution{
					Identity: k.identity, PlanName: k.plan, Field: "employee_cost", Factor: factor,
				})
			}

			if equal, factor := e.amountsEqual(ra.EmployerCost, rb.EmployerCost); !equal {
				d := first
				d.Type = ErrorEmployerAmountMismatch
				d.SourceA, d.SourceB = pa.source, pb.source
				d.EmployeeCostA, d.EmployeeCostB = ra.EmployeeCost, rb.EmployeeCost
				d.EmployerCostA, d.EmployerCostB = ra.EmployerCost, rb.EmployerCost
				discrepancies = append(discrepancies, d)
			} else if factor > 0 {
				freqResolutions = append(freqResolutions, FrequencyResolution{
					Identity: k.identity, PlanName: k.plan, Field: "employer_cost", Factor: factor,
				})
			}
		}
	}

	return discrepancies, freqResolutions
}

// missingRow builds the MissingIn discrepancy for a key present in only one
// source.
func (e *Engine) missingRow(r table.Record, t ErrorType, sourceA, sourceB table.Source) Discrepancy {
	d := Discrepancy{
		Type:      t,
		Identity:  r.Identity,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		PlanName:  r.PlanName,
		SourceA:   sourceA,
		SourceB:   sourceB,
	}
	if r.Source == sourceA {
		d.EmployeeCostA, d.EmployerCostA = r.EmployeeCost, r.EmployerCost
	} else {
		d.EmployeeCostB, d.EmployerCostB = r.EmployeeCost, r.EmployerCost
	}
	return d
}

// pair seeds a discrepancy with the identifying fields of a joined key,
// preferring source A for display fields.
func pair(ra, rb table.Record) Discrepancy {
	d := Discrepancy{
		Identity:      ra.Identity,
		FirstName:     ra.FirstName,
		LastName:      ra.LastName,
		PlanName:      ra.PlanName,
		EmployeeCostA: ra.EmployeeCost,
		EmployeeCostB: rb.EmployeeCost,
		EmployerCostA: ra.EmployerCost,
		EmployerCostB: rb.EmployerCost,
	}
	if d.FirstName == "" {
		d.FirstName = rb.FirstName
	}
	if d.LastName == "" {
		d.LastName = rb.LastName
	}
	return d
}

// amountsEqual compares two amounts under the tolerance, blank, and
// frequency policies. The returned factor is non-zero only when equality
// came from a pay-frequency multiplier.
func (e *Engine) amountsEqual(a, b table.Money) (bool, int64) {
	if e.opts.BlankIsZero {
		a = a.Or(table.MoneyFromCents(0))
		b = b.Or(table.MoneyFromCents(0))
	} else {
		if !a.Valid && !b.Valid {
			return true, 0
		}
		if !a.Valid || !b.Valid {
			return false, 0
		}
	}

	if a.EqualWithin(b, e.opts.AmountToleranceCents) {
		return true, 0
	}

	if e.opts.FrequencyAware {
		slack := e.opts.AmountToleranceCents + e.opts.FrequencySlackCents
		for _, f := range frequencyFactors {
			if absCents(a.Cents*f-b.Cents) <= slack || absCents(b.Cents*f-a.Cents) <= slack {
				return true, f
			}
		}
	}

	return false, 0
}

// duplicateIdentities emits one discrepancy per identity appearing with more
// than one distinct normalized plan name across the merged set.
func (e *Engine) duplicateIdentities(pa, pb *prepared) []Discrepancy {
	plans := make(map[string][]string)
	var order []string
	note := func(r table.Record) {
		p := aliases.NormalizePlan(r.PlanName)
		if r.Identity == "" || p == "" {
			return
		}
		if _, seen := plans[r.Identity]; !seen {
			order = append(order, r.Identity)
		}
		if !containsString(plans[r.Identity], p) {
			plans[r.Identity] = append(plans[r.Identity], p)
		}
	}
	for _, r := range pa.records {
		note(r)
	}
	for _, r := range pb.records {
		note(r)
	}

	var out []Discrepancy
	for _, identity := range order {
		if len(plans[identity]) < 2 {
			continue
		}
		sorted := append([]string(nil), plans[identity]...)
		sort.Strings(sorted)
		out = append(out, Discrepancy{
			Type:     ErrorDuplicateIdentity,
			Identity: identity,
			PlanName: strings.Join(sorted, ", "),
			SourceA:  pa.source,
			SourceB:  pb.source,
		})
	}
	return out
}

func absCents(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
