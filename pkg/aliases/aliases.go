// Package aliases maintains canonical-plan-name to synonym mappings and
// resolves arbitrary plan text to its canonical form via exact lookup, alias
// lookup, then fuzzy similarity with a configurable acceptance threshold.
package aliases

import (
	"strings"
)

// Table maps canonical plan names to their synonym sets. Canonical keys are
// unique, lowercase, and trimmed; synonym sets are deduplicated and never
// contain their own canonical. Iteration follows insertion order, which
// keeps resolution deterministic.
type Table struct {
	canonicals []string
	synonyms   map[string][]string
}

// NewTable creates an empty alias table.
func NewTable() *Table {
	return &Table{synonyms: make(map[string][]string)}
}

// Defaults returns the built-in alias table. User tables are merged on top.
func Defaults() *Table {
	t := NewTable()
	t.Add("medical", "health", "med", "medical plan", "health plan")
	t.Add("dental", "dent", "dntl")
	t.Add("vision", "vis", "vba")
	t.Add("short term disability", "std", "short-term disability", "short term dis", "short term")
	t.Add("long term disability", "ltd", "long-term disability", "long term dis", "long term")
	t.Add("life", "basic life", "group life", "life insurance")
	t.Add("hsa", "health savings account", "hsa plan")
	t.Add("fsa", "flexible spending account", "medical fsa", "fsa medical")
	return t
}

// Add registers a canonical name with synonyms. Everything is case-folded
// and trimmed; a synonym equal to its canonical is dropped. Adding an
// existing canonical unions the synonym sets.
func (t *Table) Add(canonical string, synonyms ...string) {
	key := strings.TrimSpace(strings.ToLower(canonical))
	if key == "" {
		return
	}
	existing, known := t.synonyms[key]
	if !known {
		t.canonicals = append(t.canonicals, key)
		existing = nil
	}
	for _, s := range synonyms {
		s = strings.TrimSpace(strings.ToLower(s))
		if s == "" || s == key || contains(existing, s) {
			continue
		}
		existing = append(existing, s)
	}
	t.synonyms[key] = existing
}

// Canonicals returns canonical keys in insertion order.
func (t *Table) Canonicals() []string {
	return append([]string(nil), t.canonicals...)
}

// Synonyms returns the synonym set for a canonical key, in insertion order.
func (t *Table) Synonyms(canonical string) []string {
	return append([]string(nil), t.synonyms[strings.TrimSpace(strings.ToLower(canonical))]...)
}

// Len returns the number of canonical keys.
func (t *Table) Len() int {
	return len(t.canonicals)
}

// Lookup finds the canonical for a trimmed, lowercased name via exact
// canonical match then synonym match. A synonym assigned to multiple
// canonicals resolves to the first canonical in insertion order.
func (t *Table) Lookup(name string) (string, bool) {
	s := strings.TrimSpace(strings.ToLower(name))
	if s == "" {
		return "", false
	}
	if _, ok := t.synonyms[s]; ok {
		return s, true
	}
	for _, canonical := range t.canonicals {
		if contains(t.synonyms[canonical], s) {
			return canonical, true
		}
	}
	return "", false
}

// Merge unions another table into a copy of this one: synonym sets are
// unioned per canonical key and new canonicals are appended. A synonym may
// legally end up under multiple canonicals; no de-confliction is attempted,
// and insertion order decides which canonical wins at resolution time.
func (t *Table) Merge(other *Table) *Table {
	out := t.Copy()
	if other == nil {
		return out
	}
	for _, canonical := range other.canonicals {
		out.Add(canonical, other.synonyms[canonical]...)
	}
	return out
}

// Copy returns a deep copy of the table.
func (t *Table) Copy() *Table {
	out := NewTable()
	for _, canonical := range t.canonicals {
		out.Add(canonical, t.synonyms[canonical]...)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
