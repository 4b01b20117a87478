package recon

import (
	"fmt"

	"github.com/ivyrecon/ivyrecon/pkg/aliases"
	"github.com/ivyrecon/ivyrecon/pkg/similarity"
)

// DuplicateHandling selects the row-reduction policy applied to each source
// table before keying.
type DuplicateHandling string

const (
	// DuplicateIgnoreExact drops rows byte-identical across
	// (identity, plan, employee cost, employer cost), keeping the first.
	DuplicateIgnoreExact DuplicateHandling = "ignore-exact"

	// DuplicateAggregateSum groups rows sharing (identity, plan) and sums
	// both cost fields. Required when one source splits coverage amounts
	// across lines while another reports a single combined line.
	DuplicateAggregateSum DuplicateHandling = "aggregate-sum"

	// DuplicateKeepAll performs no reduction. A blunt mode for auditing raw
	// data; differing split-line structures will produce spurious mismatches.
	DuplicateKeepAll DuplicateHandling = "keep-all"
)

// Valid reports whether the policy is one of the supported values.
func (d DuplicateHandling) Valid() bool {
	switch d {
	case DuplicateIgnoreExact, DuplicateAggregateSum, DuplicateKeepAll:
		return true
	}
	return false
}

// Default engine settings.
const (
	DefaultPlanMatchThreshold   = 0.90
	DefaultAmountToleranceCents = 1
	DefaultFrequencySlackCents  = 25
)

// frequencyFactors are the pay-frequency multipliers tested when
// frequency-aware equivalence is enabled.
var frequencyFactors = []int64{2, 4, 12, 24, 26, 52}

// Options is the engine configuration surface. Zero value is not usable;
// construct via New, which applies defaults before the option functions.
type Options struct {
	// PlanMatchThreshold is the minimum plan-name similarity, in [0.5, 1.0],
	// below which a PlanNameMismatch is emitted.
	PlanMatchThreshold float64

	// AmountToleranceCents is the maximum cent difference treated as equal.
	AmountToleranceCents int64

	// BlankIsZero treats blank or unparseable amount cells as 0.00. When
	// false, a blank on one side and a value on the other is a mismatch.
	BlankIsZero bool

	// DuplicateHandling is the pre-keying row-reduction policy.
	DuplicateHandling DuplicateHandling

	// FrequencyAware additionally accepts amounts equal under a
	// pay-frequency multiplier within tolerance plus FrequencySlackCents.
	FrequencyAware bool

	// FrequencySlackCents is the extra slack allowed on top of the amount
	// tolerance for frequency-scaled comparisons.
	FrequencySlackCents int64

	// Aliases is the user alias table, merged over the built-in defaults.
	Aliases *aliases.Table

	// Scorer computes plan-name similarity. Defaults to a memoized
	// token-sort ratio created per engine.
	Scorer similarity.Scorer

	// SumRecheck enables the post-comparison pass that suppresses
	// fine-grained amount mismatches for keys whose per-source sums match
	// within tolerance.
	SumRecheck bool

	// FrequencyRecheck enables the post-comparison pass that additionally
	// accepts per-key sums matching under a pay-frequency multiplier.
	FrequencyRecheck bool
}

// Option configures an Engine.
type Option func(*Options) error

// New creates an Engine with defaults overridden by options.
func New(opts ...Option) (*Engine, error) {
	o := Options{
		PlanMatchThreshold:   DefaultPlanMatchThreshold,
		AmountToleranceCents: DefaultAmountToleranceCents,
		DuplicateHandling:    DuplicateIgnoreExact,
		FrequencySlackCents:  DefaultFrequencySlackCents,
	}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	if o.Scorer == nil {
		o.Scorer = similarity.Memoized(similarity.NewTokenSort())
	}
	merged := aliases.Defaults().Merge(o.Aliases)
	o.Aliases = merged
	return &Engine{opts: o}, nil
}

// WithPlanMatchThreshold sets the minimum accepted plan-name similarity.
func WithPlanMatchThreshold(threshold float64) Option {
	return func(o *Options) error {
		if threshold < 0.5 || threshold > 1.0 {
			return fmt.Errorf("plan match threshold %v outside [0.5, 1.0]", threshold)
		}
		o.PlanMatchThreshold = threshold
		return nil
	}
}

// WithAmountTolerance sets the cent tolerance for amount comparison.
func WithAmountTolerance(cents int64) Option {
	return func(o *Options) error {
		if cents < 0 {
			return fmt.Errorf("amount tolerance must be non-negative, got %d", cents)
		}
		o.AmountToleranceCents = cents
		return nil
	}
}

// WithBlankIsZero sets the blank-as-zero policy.
func WithBlankIsZero(enabled bool) Option {
	return func(o *Options) error {
		o.BlankIsZero = enabled
		return nil
	}
}

// WithDuplicateHandling sets the row-reduction policy.
func WithDuplicateHandling(policy DuplicateHandling) Option {
	return func(o *Options) error {
		if !policy.Valid() {
			return fmt.Errorf("unknown duplicate handling policy %q", policy)
		}
		o.DuplicateHandling = policy
		return nil
	}
}

// WithFrequencyAware enables pay-frequency multiplier equivalence.
func WithFrequencyAware(enabled bool) Option {
	return func(o *Options) error {
		o.FrequencyAware = enabled
		return nil
	}
}

// WithFrequencySlack sets the extra slack for frequency-scaled comparison.
func WithFrequencySlack(cents int64) Option {
	return func(o *Options) error {
		if cents < 0 {
			return fmt.Errorf("frequency slack must be non-negative, got %d", cents)
		}
		o.FrequencySlackCents = cents
		return nil
	}
}

// WithAliases sets the user alias table, merged over built-in defaults.
func WithAliases(t *aliases.Table) Option {
	return func(o *Options) error {
		o.Aliases = t
		return nil
	}
}

// WithScorer sets the similarity scorer.
func WithScorer(s similarity.Scorer) Option {
	return func(o *Options) error {
		if s == nil {
			return fmt.Errorf("scorer cannot be nil")
		}
		o.Scorer = s
		return nil
	}
}

// WithSumRecheck toggles the exact-sum suppression pass.
func WithSumRecheck(enabled bool) Option {
	return func(o *Options) error {
		o.SumRecheck = enabled
		return nil
	}
}

// WithFrequencyRecheck toggles the frequency-aware sum suppression pass.
func WithFrequencyRecheck(enabled bool) Option {
	return func(o *Options) error {
		o.FrequencyRecheck = enabled
		return nil
	}
}
