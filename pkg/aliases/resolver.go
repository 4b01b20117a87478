package aliases

import (
	"strings"

	"github.com/ivyrecon/ivyrecon/pkg/similarity"
)

// DefaultThreshold is the minimum fuzzy similarity accepted as an alias match.
const DefaultThreshold = 0.90

// tokenAliases substitutes individually known short tokens during plan-name
// normalization. Applied per token, independently of the alias table.
var tokenAliases = map[string]string{
	"medical": "health",
	"med":     "health",
	"std":     "short term disability",
	"ltd":     "long term disability",
	"dent":    "dental",
	"vis":     "vision",
}

// Resolver maps arbitrary plan text to a canonical plan name. It holds no
// global state; callers supply the alias table explicitly per run.
type Resolver struct {
	table     *Table
	scorer    similarity.Scorer
	threshold float64
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithScorer sets the similarity scorer used for fuzzy matching.
func WithScorer(s similarity.Scorer) ResolverOption {
	return func(r *Resolver) {
		if s != nil {
			r.scorer = s
		}
	}
}

// WithThreshold sets the minimum accepted fuzzy similarity.
func WithThreshold(threshold float64) ResolverOption {
	return func(r *Resolver) {
		r.threshold = threshold
	}
}

// NewResolver creates a resolver over the given alias table. The default
// scorer is a memoized token-sort ratio; scores are cached for this
// resolver's lifetime only.
func NewResolver(table *Table, opts ...ResolverOption) *Resolver {
	if table == nil {
		table = NewTable()
	}
	r := &Resolver{
		table:     table,
		scorer:    similarity.Memoized(similarity.NewTokenSort()),
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps plan text to its canonical plan name. Exact canonical match
// wins, then alias match, then the best fuzzy candidate at or above the
// threshold. Below threshold the input is returned unchanged so discrepancy
// analysis treats it as its own distinct plan.
func (r *Resolver) Resolve(planText string) string {
	s := strings.TrimSpace(strings.ToLower(planText))
	if s == "" {
		return planText
	}

	if canonical, ok := r.table.Lookup(s); ok {
		return canonical
	}

	best := ""
	bestScore := 0.0
	// Candidate pool is every canonical and synonym in insertion order;
	// the first candidate reaching the maximum score wins.
	for _, canonical := range r.table.canonicals {
		if score := r.scorer.Score(s, canonical); score > bestScore {
			best, bestScore = canonical, score
		}
		for _, synonym := range r.table.synonyms[canonical] {
			if score := r.scorer.Score(s, synonym); score > bestScore {
				best, bestScore = canonical, score
			}
		}
	}
	if best != "" && bestScore >= r.threshold {
		return best
	}
	return planText
}

// Table returns the alias table backing this resolver.
func (r *Resolver) Table() *Table {
	return r.table
}

// NormalizePlan normalizes plan text for comparison purposes: non-alphanumeric
// runs become single spaces, whitespace collapses, and individually known
// short tokens are substituted. Used by the matcher independently of alias
// resolution.
func NormalizePlan(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	tokens := strings.Fields(b.String())
	for i, tok := range tokens {
		if sub, ok := tokenAliases[tok]; ok {
			tokens[i] = sub
		}
	}
	return strings.Join(tokens, " ")
}
