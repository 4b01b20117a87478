// Package report turns a reconciliation result into exportable structures:
// an all-discrepancies view, a summary view, and one grouping per error
// type, with writers for multi-sheet XLSX workbooks and console tables.
package report

import (
	"fmt"
	"strings"

	"github.com/ivyrecon/ivyrecon/pkg/recon"
	"github.com/ivyrecon/ivyrecon/pkg/table"
)

// Export is the assembled report structure.
type Export struct {
	// GroupName and Period are free-text header fields supplied by the
	// caller (e.g. client group and reporting period).
	GroupName string
	Period    string

	Result *recon.Result

	// Groups holds discrepancies bucketed per error type, in
	// first-appearance order.
	Groups []Group
}

// Group is the per-error-type view.
type Group struct {
	Type recon.ErrorType
	Rows []recon.Discrepancy
}

// Assemble builds an Export from a reconciliation result.
func Assemble(result *recon.Result, groupName, period string) *Export {
	e := &Export{
		GroupName: groupName,
		Period:    period,
		Result:    result,
	}

	idx := make(map[recon.ErrorType]int)
	for _, d := range result.Discrepancies {
		i, seen := idx[d.Type]
		if !seen {
			i = len(e.Groups)
			idx[d.Type] = i
			e.Groups = append(e.Groups, Group{Type: d.Type})
		}
		e.Groups[i].Rows = append(e.Groups[i].Rows, d)
	}
	return e
}

// Title renders a sheet or section title with the optional group/period
// header fields appended.
func (e *Export) Title(view string) string {
	suffix := strings.TrimSpace(strings.TrimSpace(e.GroupName) + " " + strings.TrimSpace(e.Period))
	if suffix == "" {
		return view
	}
	return view + " — " + suffix
}

// Columns returns the discrepancy table header: fixed identity columns,
// one employee- and employer-cost column per compared source, and a
// trailing Similarity column.
func (e *Export) Columns() []string {
	cols := []string{"Error Type", "Identity", "First Name", "Last Name", "Plan Name"}
	for _, s := range e.Result.Sources {
		cols = append(cols, fmt.Sprintf("Employee Cost (%s)", s))
	}
	for _, s := range e.Result.Sources {
		cols = append(cols, fmt.Sprintf("Employer Cost (%s)", s))
	}
	return append(cols, "Similarity")
}

// Row renders one discrepancy against the column layout of Columns.
func (e *Export) Row(d recon.Discrepancy) []string {
	cells := []string{string(d.Type), d.Identity, d.FirstName, d.LastName, d.PlanName}
	for _, s := range e.Result.Sources {
		cells = append(cells, costCell(d, s, false))
	}
	for _, s := range e.Result.Sources {
		cells = append(cells, costCell(d, s, true))
	}
	if d.HasSimilarity {
		cells = append(cells, fmt.Sprintf("%.3f", d.Similarity))
	} else {
		cells = append(cells, "")
	}
	return cells
}

// SummaryColumns returns the summary table header.
func (e *Export) SummaryColumns() []string {
	return []string{"Error Type", "Count"}
}

// SummaryRows renders the summary, Total last.
func (e *Export) SummaryRows() [][]string {
	entries := e.Result.Summary.Entries()
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{string(entry.Type), fmt.Sprintf("%d", entry.Count)})
	}
	return rows
}

// costCell pulls the right cost value for a source column; rows only carry
// values for their own compared pair.
func costCell(d recon.Discrepancy, s table.Source, employer bool) string {
	var m table.Money
	switch s {
	case d.SourceA:
		if employer {
			m = d.EmployerCostA
		} else {
			m = d.EmployeeCostA
		}
	case d.SourceB:
		if employer {
			m = d.EmployerCostB
		} else {
			m = d.EmployeeCostB
		}
	default:
		return ""
	}
	return m.String()
}
