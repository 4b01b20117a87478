// Package table defines the tabular data model shared by every stage of the
// reconciliation pipeline: raw tables as produced by the file-loading
// collaborator, normalized records keyed by employee identity and plan, and
// the money representation used for tolerant amount comparison.
package table

import (
	"strings"
)

// Source identifies which extract a table came from.
type Source string

// The three supported extract sources.
const (
	SourcePayroll  Source = "Payroll"
	SourceCarrier  Source = "Carrier"
	SourceBenAdmin Source = "BenAdmin"
)

// String returns the string representation of a source.
func (s Source) String() string {
	return string(s)
}

// Table is a raw tabular extract: ordered column headers plus string cells.
// The file-loading collaborator produces these; the Normalizer consumes them.
type Table struct {
	Columns []string
	Rows    [][]string
}

// New creates an empty table with the given columns.
func New(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Append adds a row. Short rows are padded, long rows truncated, so every
// stored row has exactly len(Columns) cells.
func (t *Table) Append(cells ...string) {
	row := make([]string, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column returns the index of the named column, or -1.
// Lookup is case- and surrounding-space-insensitive.
func (t *Table) Column(name string) int {
	want := strings.TrimSpace(strings.ToLower(name))
	for i, c := range t.Columns {
		if strings.TrimSpace(strings.ToLower(c)) == want {
			return i
		}
	}
	return -1
}

// Cell returns the cell at (row, column index), or "" when out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Copy returns a deep copy. Every transform in the pipeline operates on a
// copy; the caller's table is never mutated in place.
func (t *Table) Copy() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}

// Record is one normalized row from a source extract.
type Record struct {
	// Identity is the person-level join key: digits only, left-zero-padded
	// to nine characters.
	Identity string

	// FirstName and LastName are display only, never used for matching.
	FirstName string
	LastName  string

	// PlanName is the lowercased, trimmed plan label. RawPlan retains the
	// pre-normalization text for the finer plan-name similarity check.
	PlanName string
	RawPlan  string

	EmployeeCost Money
	EmployerCost Money

	Source Source
}

// NormalizedTable is the Normalizer's output: one Record per input row plus
// the remapped raw table. Unrecognized columns survive on Raw but are
// ignored by the engine.
type NormalizedTable struct {
	Source  Source
	Records []Record
	Raw     *Table
}

// Len returns the number of records.
func (n *NormalizedTable) Len() int {
	return len(n.Records)
}

// Identities returns the distinct identities in record order.
func (n *NormalizedTable) Identities() []string {
	seen := make(map[string]bool, len(n.Records))
	out := make([]string, 0, len(n.Records))
	for _, r := range n.Records {
		if !seen[r.Identity] {
			seen[r.Identity] = true
			out = append(out, r.Identity)
		}
	}
	return out
}

// Plans returns the distinct plan names in record order.
func (n *NormalizedTable) Plans() []string {
	seen := make(map[string]bool, len(n.Records))
	out := make([]string, 0, len(n.Records))
	for _, r := range n.Records {
		if !seen[r.PlanName] {
			seen[r.PlanName] = true
			out = append(out, r.PlanName)
		}
	}
	return out
}

// Copy returns a deep copy of the normalized table.
func (n *NormalizedTable) Copy() *NormalizedTable {
	out := &NormalizedTable{
		Source:  n.Source,
		Records: append([]Record(nil), n.Records...),
	}
	if n.Raw != nil {
		out.Raw = n.Raw.Copy()
	}
	return out
}
