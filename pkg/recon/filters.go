package recon

import (
	"strings"

	"github.com/ivyrecon/ivyrecon/pkg/logging"
	"github.com/ivyrecon/ivyrecon/pkg/table"
)

// Suppression filter names, in their fixed application order.
const (
	FilterSumRecheck       = "sum-recheck"
	FilterFrequencyRecheck = "frequency-recheck"
)

// FilterReport records how many discrepancies a suppression pass removed.
// Every enabled pass reports, even when it suppressed nothing.
type FilterReport struct {
	Name       string
	Suppressed int
}

// applyFilters runs the enabled suppression passes in fixed order:
// sum re-check first, then the frequency-aware re-check. The summary is
// recomputed by the caller after the passes run.
func (e *Engine) applyFilters(result *Result, pa, pb *prepared) {
	if e.opts.SumRecheck {
		var report FilterReport
		result.Discrepancies, report = e.sumRecheck(result.Discrepancies, pa, pb)
		result.Filters = append(result.Filters, report)
		logging.Debug().Str("filter", report.Name).Int("suppressed", report.Suppressed).Msg("Suppression pass complete")
	}
	if e.opts.FrequencyRecheck {
		var report FilterReport
		result.Discrepancies, report = e.frequencyRecheck(result.Discrepancies, pa, pb)
		result.Filters = append(result.Filters, report)
		logging.Debug().Str("filter", report.Name).Int("suppressed", report.Suppressed).Msg("Suppression pass complete")
	}
}

// sumRecheck drops fine-grained amount mismatches for keys whose per-source
// sums match within tolerance: when row-level drilldown flagged a key but
// the totals agree, the apparent mismatch was an artifact of line-splitting.
func (e *Engine) sumRecheck(discrepancies []Discrepancy, pa, pb *prepared) ([]Discrepancy, FilterReport) {
	sumsA := sumByKey(pa.detail, exactPlanKey)
	sumsB := sumByKey(pb.detail, exactPlanKey)

	resolved := make(map[key]bool)
	for k, a := range sumsA {
		b, ok := sumsB[k]
		if !ok {
			continue
		}
		empEqual, _ := e.sumsEqual(a.employee, b.employee, false)
		erEqual, _ := e.sumsEqual(a.employer, b.employer, false)
		if empEqual && erEqual {
			resolved[k] = true
		}
	}

	return suppressAmountMismatches(discrepancies, FilterSumRecheck, func(d Discrepancy) bool {
		return resolved[key{identity: d.Identity, plan: exactPlanKey(d.PlanName)}]
	})
}

// frequencyRecheck is the second pass: per-key sums are additionally
// accepted when they match under a pay-frequency multiplier, and the plan
// key is collapsed to alphanumerics so minor formatting differences between
// sources still line up.
func (e *Engine) frequencyRecheck(discrepancies []Discrepancy, pa, pb *prepared) ([]Discrepancy, FilterReport) {
	sumsA := sumByKey(pa.detail, collapsedPlanKey)
	sumsB := sumByKey(pb.detail, collapsedPlanKey)

	resolved := make(map[key]bool)
	for k, a := range sumsA {
		b, ok := sumsB[k]
		if !ok {
			continue
		}
		empEqual, _ := e.sumsEqual(a.employee, b.employee, true)
		erEqual, _ := e.sumsEqual(a.employer, b.employer, true)
		if empEqual && erEqual {
			resolved[k] = true
		}
	}

	return suppressAmountMismatches(discrepancies, FilterFrequencyRecheck, func(d Discrepancy) bool {
		return resolved[key{identity: d.Identity, plan: collapsedPlanKey(d.PlanName)}]
	})
}

// sumsEqual compares two per-key sums within tolerance, optionally also
// under the pay-frequency multipliers regardless of the engine's
// FrequencyAware setting (the second pass is frequency-aware by definition).
func (e *Engine) sumsEqual(a, b table.Money, withFrequency bool) (bool, int64) {
	if !a.Valid && !b.Valid {
		return true, 0
	}
	a = a.Or(table.MoneyFromCents(0))
	b = b.Or(table.MoneyFromCents(0))
	if a.EqualWithin(b, e.opts.AmountToleranceCents) {
		return true, 0
	}
	if withFrequency {
		slack := e.opts.AmountToleranceCents + e.opts.FrequencySlackCents
		for _, f := range frequencyFactors {
			if absCents(a.Cents*f-b.Cents) <= slack || absCents(b.Cents*f-a.Cents) <= slack {
				return true, f
			}
		}
	}
	return false, 0
}

// keySums accumulates per-key cost totals.
type keySums struct {
	employee table.Money
	employer table.Money
}

// sumByKey totals cost fields per (identity, plan-key) over unreduced rows.
func sumByKey(records []table.Record, planKey func(string) string) map[key]keySums {
	out := make(map[key]keySums)
	for _, r := range records {
		k := key{identity: r.Identity, plan: planKey(r.PlanName)}
		s := out[k]
		s.employee = sumMoney(s.employee, r.EmployeeCost)
		s.employer = sumMoney(s.employer, r.EmployerCost)
		out[k] = s
	}
	return out
}

// suppressAmountMismatches removes amount-mismatch rows matching the
// predicate, reporting how many were dropped.
func suppressAmountMismatches(discrepancies []Discrepancy, name string, match func(Discrepancy) bool) ([]Discrepancy, FilterReport) {
	out := make([]Discrepancy, 0, len(discrepancies))
	suppressed := 0
	for _, d := range discrepancies {
		amount := d.Type == ErrorEmployeeAmountMismatch || d.Type == ErrorEmployerAmountMismatch
		if amount && match(d) {
			suppressed++
			continue
		}
		out = append(out, d)
	}
	return out, FilterReport{Name: name, Suppressed: suppressed}
}

// exactPlanKey keys by the alias-resolved plan name as-is.
func exactPlanKey(plan string) string {
	return plan
}

// collapsedPlanKey strips non-alphanumerics and collapses whitespace,
// tolerating formatting differences between sources.
func collapsedPlanKey(plan string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(plan) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
