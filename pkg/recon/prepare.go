package recon

import (
	"strings"

	"github.com/ivyrecon/ivyrecon/pkg/aliases"
	"github.com/ivyrecon/ivyrecon/pkg/table"
)

// key is the join key across sources.
type key struct {
	identity string
	plan     string
}

// prepared is one source table after alias resolution and row reduction.
// detail retains the unreduced rows for the suppression re-check passes.
type prepared struct {
	source  table.Source
	records []table.Record
	detail  []table.Record
}

// prepare alias-resolves the plan column then reduces rows per the
// configured duplicate-handling policy. The input table is not mutated.
func (e *Engine) prepare(nt *table.NormalizedTable, resolver *aliases.Resolver) *prepared {
	resolved := make([]table.Record, len(nt.Records))
	for i, r := range nt.Records {
		r.PlanName = strings.ToLower(strings.TrimSpace(resolver.Resolve(r.PlanName)))
		resolved[i] = r
	}

	return &prepared{
		source:  nt.Source,
		records: reduceRows(resolved, e.opts.DuplicateHandling),
		detail:  resolved,
	}
}

// byKey groups records by join key, preserving first-appearance order of keys.
func (p *prepared) byKey() (map[key][]table.Record, []key) {
	groups := make(map[key][]table.Record, len(p.records))
	var order []key
	for _, r := range p.records {
		k := key{identity: r.Identity, plan: r.PlanName}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}
	return groups, order
}

// reduceRows applies the duplicate/split-line policy.
func reduceRows(records []table.Record, policy DuplicateHandling) []table.Record {
	switch policy {
	case DuplicateIgnoreExact:
		return dropExactDuplicates(records)
	case DuplicateAggregateSum:
		return aggregateByKey(records)
	default:
		return append([]table.Record(nil), records...)
	}
}

// dropExactDuplicates removes rows identical across
// (identity, plan, employee cost, employer cost), keeping the first.
func dropExactDuplicates(records []table.Record) []table.Record {
	type rowKey struct {
		k        key
		emp, er  int64
		ev, rv   bool
	}
	seen := make(map[rowKey]bool, len(records))
	out := make([]table.Record, 0, len(records))
	for _, r := range records {
		rk := rowKey{
			k:   key{identity: r.Identity, plan: r.PlanName},
			emp: r.EmployeeCost.Cents, ev: r.EmployeeCost.Valid,
			er: r.EmployerCost.Cents, rv: r.EmployerCost.Valid,
		}
		if seen[rk] {
			continue
		}
		seen[rk] = true
		out = append(out, r)
	}
	return out
}

// aggregateByKey reduces each (identity, plan) group to one record with
// summed cost fields. Name fields take the first occurrence's value.
func aggregateByKey(records []table.Record) []table.Record {
	idx := make(map[key]int, len(records))
	out := make([]table.Record, 0, len(records))
	for _, r := range records {
		k := key{identity: r.Identity, plan: r.PlanName}
		if i, seen := idx[k]; seen {
			out[i].EmployeeCost = sumMoney(out[i].EmployeeCost, r.EmployeeCost)
			out[i].EmployerCost = sumMoney(out[i].EmployerCost, r.EmployerCost)
			continue
		}
		idx[k] = len(out)
		out = append(out, r)
	}
	return out
}

// sumMoney adds two amounts. An invalid side contributes nothing; the sum
// is invalid only when both sides are.
func sumMoney(a, b table.Money) table.Money {
	if !a.Valid {
		return b
	}
	if !b.Valid {
		return a
	}
	return table.MoneyFromCents(a.Cents + b.Cents)
}
