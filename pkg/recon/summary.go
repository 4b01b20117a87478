package recon

// SummaryTotal is the synthetic entry equal to the sum of all other counts.
// Downstream consumers always expect it, even for an empty result.
const SummaryTotal ErrorType = "Total"

// SummaryEntry is one (error type, count) row of the summary table.
type SummaryEntry struct {
	Type  ErrorType
	Count int
}

// Summary maps discrepancy classifications to counts, ordered by first
// appearance, with a trailing Total. Derived entirely from the discrepancy
// collection and recomputed whenever that collection changes.
type Summary struct {
	entries []SummaryEntry
}

// Summarize groups discrepancies by error type. Empty input yields a
// summary holding only {Total: 0}. Idempotent and cheap: it is recomputed
// after every suppression pass.
func Summarize(discrepancies []Discrepancy) Summary {
	counts := make(map[ErrorType]int)
	var order []ErrorType
	for _, d := range discrepancies {
		if _, seen := counts[d.Type]; !seen {
			order = append(order, d.Type)
		}
		counts[d.Type]++
	}

	s := Summary{entries: make([]SummaryEntry, 0, len(order)+1)}
	total := 0
	for _, t := range order {
		s.entries = append(s.entries, SummaryEntry{Type: t, Count: counts[t]})
		total += counts[t]
	}
	s.entries = append(s.entries, SummaryEntry{Type: SummaryTotal, Count: total})
	return s
}

// Entries returns the summary rows, Total last.
func (s Summary) Entries() []SummaryEntry {
	return append([]SummaryEntry(nil), s.entries...)
}

// Count returns the count for an error type, 0 when absent.
func (s Summary) Count(t ErrorType) int {
	for _, e := range s.entries {
		if e.Type == t {
			return e.Count
		}
	}
	return 0
}

// Total returns the Total entry.
func (s Summary) Total() int {
	return s.Count(SummaryTotal)
}

// Len returns the number of entries including Total.
func (s Summary) Len() int {
	return len(s.entries)
}
