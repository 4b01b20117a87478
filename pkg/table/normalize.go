package table

import (
	"strings"

	"github.com/ivyrecon/ivyrecon/pkg/errors"
)

// Canonical field names produced by header normalization.
const (
	FieldIdentity     = "identity"
	FieldFirstName    = "first_name"
	FieldLastName     = "last_name"
	FieldPlanName     = "plan_name"
	FieldEmployeeCost = "employee_cost"
	FieldEmployerCost = "employer_cost"
)

// RequiredFields lists the canonical columns every source table must carry
// after header normalization.
var RequiredFields = []string{
	FieldIdentity,
	FieldFirstName,
	FieldLastName,
	FieldPlanName,
	FieldEmployeeCost,
	FieldEmployerCost,
}

// headerMapping is one canonical field with its accepted header spellings.
// Mappings are an explicit ordered list: the first canonical whose synonym
// matches wins, so resolution is deterministic.
type headerMapping struct {
	canonical string
	headers   []string
}

var headerMappings = []headerMapping{
	{FieldIdentity, []string{"identity", "ssn", "social security number", "ssn/identity", "employee id", "id number"}},
	{FieldFirstName, []string{"first name", "firstname", "first", "given name"}},
	{FieldLastName, []string{"last name", "lastname", "last", "surname"}},
	{FieldPlanName, []string{"plan name", "plan", "benefit plan", "benefit", "coverage"}},
	{FieldEmployeeCost, []string{"employee cost", "employee amount", "ee cost", "ee amount", "employee premium"}},
	{FieldEmployerCost, []string{"employer cost", "employer amount", "er cost", "er amount", "employer premium"}},
}

// identityWidth is the fixed width identities are zero-padded to.
const identityWidth = 9

// NormalizeHeader maps a raw column header to its canonical field name.
// Matching is case-insensitive with internal whitespace collapsed. Returns
// ok=false for unrecognized headers, which pass through unchanged.
func NormalizeHeader(header string) (string, bool) {
	key := collapseSpaces(strings.ToLower(strings.TrimSpace(header)))
	for _, m := range headerMappings {
		if key == m.canonical {
			return m.canonical, true
		}
		for _, h := range m.headers {
			if key == h {
				return m.canonical, true
			}
		}
	}
	return header, false
}

// Normalize standardizes a raw table into records: canonical headers,
// digits-only zero-padded identities, trimmed names, lowercased plan names,
// and money cells parsed to cents. The input table is never mutated.
//
// Returns a *errors.MissingColumnsError naming the source and the absent
// canonical fields when the table cannot be reconciled at all. Bad
// individual cells are coerced, never fatal.
func Normalize(t *Table, source Source) (*NormalizedTable, error) {
	if t == nil {
		return nil, errors.NewValidationError("table", nil, "nil table")
	}

	raw := t.Copy()
	for i, c := range raw.Columns {
		if canonical, ok := NormalizeHeader(c); ok {
			raw.Columns[i] = canonical
		}
	}

	var missing []string
	idx := make(map[string]int, len(RequiredFields))
	for _, f := range RequiredFields {
		col := raw.Column(f)
		if col < 0 {
			missing = append(missing, f)
			continue
		}
		idx[f] = col
	}
	if len(missing) > 0 {
		return nil, errors.NewMissingColumnsError(source.String(), missing)
	}

	out := &NormalizedTable{
		Source:  source,
		Records: make([]Record, 0, raw.Len()),
		Raw:     raw,
	}
	for i := range raw.Rows {
		plan := strings.TrimSpace(raw.Cell(i, idx[FieldPlanName]))
		out.Records = append(out.Records, Record{
			Identity:     NormalizeIdentity(raw.Cell(i, idx[FieldIdentity])),
			FirstName:    strings.TrimSpace(raw.Cell(i, idx[FieldFirstName])),
			LastName:     strings.TrimSpace(raw.Cell(i, idx[FieldLastName])),
			PlanName:     strings.ToLower(plan),
			RawPlan:      plan,
			EmployeeCost: ParseMoney(raw.Cell(i, idx[FieldEmployeeCost])),
			EmployerCost: ParseMoney(raw.Cell(i, idx[FieldEmployerCost])),
			Source:       source,
		})
	}
	return out, nil
}

// NormalizeIdentity strips everything but digits and left-zero-pads to the
// fixed nine-character width. Identities longer than nine digits are kept
// as-is rather than truncated.
func NormalizeIdentity(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	for len(digits) < identityWidth {
		digits = "0" + digits
	}
	return digits
}

// collapseSpaces reduces internal whitespace runs to single spaces.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
