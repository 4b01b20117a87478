// Package similarity provides pluggable string similarity scoring for plan
// name matching. Any scorer that is symmetric, returns values in [0, 1], and
// scores identical strings as 1 can be plugged into the resolver and matcher.
package similarity

import (
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Scorer computes a normalized similarity between two strings.
type Scorer interface {
	// Score returns a similarity in [0, 1]. Must be symmetric and return 1
	// for identical inputs.
	Score(a, b string) float64
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(a, b string) float64

// Score implements Scorer.
func (f ScorerFunc) Score(a, b string) float64 {
	return f(a, b)
}

// tokenSort scores strings after sorting their tokens, making the score
// insensitive to token order ("dental ppo" vs "ppo dental").
type tokenSort struct {
	metric strutil.StringMetric
}

// NewTokenSort returns the default scorer: tokens lowercased and sorted,
// then compared with normalized Levenshtein similarity.
func NewTokenSort() Scorer {
	return &tokenSort{metric: metrics.NewLevenshtein()}
}

// Score implements Scorer.
func (t *tokenSort) Score(a, b string) float64 {
	sa, sb := sortTokens(a), sortTokens(b)
	if sa == sb {
		return 1
	}
	if sa == "" || sb == "" {
		return 0
	}
	return strutil.Similarity(sa, sb, t.metric)
}

// sortTokens lowercases, splits on whitespace, sorts, and rejoins.
func sortTokens(s string) string {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
