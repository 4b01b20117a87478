package recon_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivyrecon/ivyrecon/pkg/aliases"
	"github.com/ivyrecon/ivyrecon/pkg/errors"
	"github.com/ivyrecon/ivyrecon/pkg/recon"
	"github.com/ivyrecon/ivyrecon/pkg/table"
)

// rec builds a record the way the normalizer would emit it.
func rec(id, first, last, plan, employeeCost, employerCost string) table.Record {
	return table.Record{
		Identity:     table.NormalizeIdentity(id),
		FirstName:    first,
		LastName:     last,
		PlanName:     strings.ToLower(strings.TrimSpace(plan)),
		RawPlan:      strings.TrimSpace(plan),
		EmployeeCost: table.ParseMoney(employeeCost),
		EmployerCost: table.ParseMoney(employerCost),
	}
}

func src(source table.Source, records ...table.Record) *table.NormalizedTable {
	for i := range records {
		records[i].Source = source
	}
	return &table.NormalizedTable{Source: source, Records: records}
}

func mustEngine(t *testing.T, opts ...recon.Option) *recon.Engine {
	t.Helper()
	e, err := recon.New(opts...)
	require.NoError(t, err)
	return e
}

func types(ds []recon.Discrepancy) []recon.ErrorType {
	out := make([]recon.ErrorType, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Type)
	}
	return out
}

func TestCompareClean(t *testing.T) {
	e := mustEngine(t)
	payroll := src(table.SourcePayroll, rec("111223333", "Ada", "Lovelace", "Medical", "125.50", "310.00"))
	carrier := src(table.SourceCarrier, rec("111-22-3333", "Ada", "Lovelace", "Medical", "125.50", "310.00"))

	result, err := e.Compare(payroll, carrier)
	require.NoError(t, err)

	assert.False(t, result.HasDiscrepancies())
	assert.Empty(t, result.Discrepancies)
	assert.Equal(t, 0, result.Summary.Total())
	assert.Equal(t, 1, result.Summary.Len())
	assert.Equal(t, "Two-way (Payroll vs Carrier)", result.Mode)
	assert.NotEmpty(t, result.Metadata.RunID)
}

func TestCompareAliasedPlanNames(t *testing.T) {
	// "Health" and "Medical" resolve to the same canonical plan; equal
	// amounts mean a fully clean result.
	e := mustEngine(t)
	payroll := src(table.SourcePayroll, rec("111223333", "Ada", "Lovelace", "Medical", "100.00", "200.00"))
	carrier := src(table.SourceCarrier, rec("111223333", "Ada", "Lovelace", "Health", "100.00", "200.00"))

	result, err := e.Compare(payroll, carrier)
	require.NoError(t, err)
	assert.Empty(t, result.Discrepancies)
}

func TestCompareMissing(t *testing.T) {
	e := mustEngine(t)
	payroll := src(table.SourcePayroll,
		rec("111223333", "Ada", "Lovelace", "Medical", "100.00", "200.00"),
		rec("444556666", "Grace", "Hopper", "Dental", "20.00", "40.00"),
	)
	carrier := src(table.SourceCarrier,
		rec("111223333", "Ada", "Lovelace", "Medical", "100.00", "200.00"),
		rec("777889999", "Alan", "Turing", "Vision", "5.00", "10.00"),
	)

	result, err := e.Compare(payroll, carrier)
	require.NoError(t, err)

	require.Len(t, result.Discrepancies, 2)
	assert.Equal(t, recon.MissingIn(table.SourceCarrier), result.Discrepancies[0].Type)
	assert.Equal(t, "444556666", result.Discrepancies[0].Identity)
	assert.Equal(t, recon.MissingIn(table.SourcePayroll), result.Discrepancies[1].Type)
	assert.Equal(t, "777889999", result.Discrepancies[1].Identity)

	// A key is missing or mismatched, never both.
	assert.Equal(t, 2, result.Summary.Total())
	assert.Equal(t, 1, result.Summary.Count(recon.MissingIn(table.SourceCarrier)))
	assert.Equal(t, 1, result.Summary.Count(recon.MissingIn(table.SourcePayroll)))
}

func TestComparePlanNameMismatch(t *testing.T) {
	// Both raw names alias-resolve to the same canonical plan, but the raw
	// strings themselves are dissimilar, so the secondary check flags them.
	user := aliases.NewTable()
	user.Add("medical", "option a gold", "zzz corporate wellness choice")

	e := mustEngine(t, recon.WithAliases(user))
	payroll := src(table.SourcePayroll, rec("111223333", "Ada", "Lovelace", "Option A Gold", "50.00", "75.00"))
	carrier := src(table.SourceCarrier, rec("111223333", "Ada", "Lovelace", "Zzz Corporate Wellness Choice", "50.00", "75.00"))

	result, err := e.Compare(payroll, carrier)
	require.NoError(t, err)

	require.Len(t, result.Discrepancies, 1)
	d := result.Discrepancies[0]
	assert.Equal(t, recon.ErrorPlanNameMismatch, d.Type)
	assert.True(t, d.HasSimilarity)
	assert.Less(t, d.Similarity, 0.9)
}

func TestCompareAmountMismatch(t *testing.T) {
	payroll := src(table.SourcePayroll, rec("111223333", "Ada", "Lovelace", "Medical", "12.00", "30.00"))
	carrier := src(table.SourceCarrier, rec("111223333", "Ada", "Lovelace", "Medical", "12.02", "30.00"))

	t.Run("outside tolerance", func(t *testing.T) {
		e := mustEngine(t) // default tolerance is one cent
		result, err := e.Compare(payroll, carrier)
		require.NoError(t, err)

		require.Len(t, result.Discrepancies, 1)
		d := result.Discrepancies[0]
		assert.Equal(t, recon.ErrorEmployeeAmountMismatch, d.Type)
		assert.Equal(t, int64(1200), d.EmployeeCostA.Cents)
		assert.Equal(t, int64(1202), d.EmployeeCostB.Cents)
	})

	t.Run("within widened tolerance", func(t *testing.T) {
		e := mustEngine(t, recon.WithAmountTolerance(2))
		result, err := e.Compare(payroll, carrier)
		require.NoError(t, err)
		assert.Empty(t, result.Discrepancies)
	})

	t.Run("employer side is classified separately", func(t *testing.T) {
		e := mustEngine(t)
		carrier := src(table.SourceCarrier, rec("111223333", "Ada", "Lovelace", "Medical", "12.00", "31.00"))
		result, err := e.Compare(payroll, carrier)
		require.NoError(t, err)

		require.Len(t, result.Discrepancies, 1)
		assert.Equal(t, recon.ErrorEmployerAmountMismatch, result.Discrepancies[0].Type)
	})
}

func TestCompareBlankAmounts(t *testing.T) {
	payroll := src(table.SourcePayroll, rec("111223333", "Ada", "Lovelace", "Medical", "", "50.00"))

	t.Run("blank vs zero mismatch by default", func(t *testing.T) {
		e := mustEngine(t)
		carrier := src(table.SourceCarrier, rec("111223333", "Ada", "Lovelace", "Medical", "0.00", "50.00"))
		result, err := e.Compare(payroll, carrier)
		require.NoError(t, err)
		assert.Equal(t, []recon.ErrorType{recon.ErrorEmployeeAmountMismatch}, types(result.Discrepancies))
	})

	t.Run("blank vs zero equal under blank-is-zero", func(t *testing.T) {
		e := mustEngine(t, recon.WithBlankIsZero(true))
		carrier := src(table.SourceCarrier, rec("111223333", "Ada", "Lovelace", "Medical", "0.00", "50.00"))
		result, err := e.Compare(payroll, carrier)
		require.NoError(t, err)
		assert.Empty(t, result.Discrepancies)
	})

	t.Run("blank vs blank always equal", func(t *testing.T) {
		e := mustEngine(t)
		both := src(table.SourceCarrier, rec("111223333", "Ada", "Lovelace", "Medical", "", "50.00"))
		result, err := e.Compare(payroll, both)
		require.NoError(t, err)
		assert.Empty(t, result.Discrepancies)
	})
}

func TestCompareFrequencyAware(t *testing.T) {
	// Monthly payroll deduction vs annual carrier premium.
	payroll := src(table.SourcePayroll, rec("111223333", "Ada", "Lovelace", "Medical", "100.00", "0.00"))
	carrier := src(table.SourceCarrier, rec("111223333", "Ada", "Lovelace", "Medical", "1200.00", "0.00"))

	t.Run("off flags a mismatch", func(t *testing.T) {
		e := mustEngine(t)
		result, err := e.Compare(payroll, carrier)
		require.NoError(t, err)
		assert.Equal(t, []recon.ErrorType{recon.ErrorEmployeeAmountMismatch}, types(result.Discrepancies))
		assert.Empty(t, result.FrequencyResolutions)
	})

	t.Run("on accepts under a multiplier and records it", func(t *testing.T) {
		e := mustEngine(t, recon.WithFrequencyAware(true))
		result, err := e.Compare(payroll, carrier)
		require.NoError(t, err)
		assert.Empty(t, result.Discrepancies)

		require.Len(t, result.FrequencyResolutions, 1)
		fr := result.FrequencyResolutions[0]
		assert.Equal(t, "111223333", fr.Identity)
		assert.Equal(t, "employee_cost", fr.Field)
		assert.Equal(t, int64(12), fr.Factor)
	})

	t.Run("slack covers rounding drift", func(t *testing.T) {
		// 26 payments of 46.16 against an annual 1200.00: off by 16 cents.
		e := mustEngine(t, recon.WithFrequencyAware(true))
		payroll := src(table.SourcePayroll, rec("111223333", "Ada", "Lovelace", "Medical", "46.16", "0.00"))
		result, err := e.Compare(payroll, carrier)
		require.NoError(t, err)
		assert.Empty(t, result.Discrepancies)
	})
}

func TestCompareDuplicateHandling(t *testing.T) {
	// Carrier reports one combined dental line; payroll splits it.
	payroll := src(table.SourcePayroll,
		rec("111223333", "Ada", "Lovelace", "Dental", "60.00", "0.00"),
		rec("111223333", "Ada", "Lovelace", "Dental", "40.00", "0.00"),
	)
	carrier := src(table.SourceCarrier, rec("111223333", "Ada", "Lovelace", "Dental", "100.00", "0.00"))

	t.Run("aggregate-sum reconciles split lines", func(t *testing.T) {
		e := mustEngine(t, recon.WithDuplicateHandling(recon.DuplicateAggregateSum))
		result, err := e.Compare(payroll, carrier)
		require.NoError(t, err)
		assert.Empty(t, result.Discrepancies)
	})

	t.Run("ignore-exact keeps distinct split lines and flags them", func(t *testing.T) {
		e := mustEngine(t)
		result, err := e.Compare(payroll, carrier)
		require.NoError(t, err)
		// 60 vs 100 and 40 vs blank on the employee side; the unpaired
		// row's 0.00 employer cost also mismatches against blank.
		assert.Equal(t, 2, result.Summary.Count(recon.ErrorEmployeeAmountMismatch))
		assert.Equal(t, 1, result.Summary.Count(recon.ErrorEmployerAmountMismatch))
	})

	t.Run("ignore-exact drops byte-identical rows", func(t *testing.T) {
		e := mustEngine(t)
		doubled := src(table.SourcePayroll,
			rec("111223333", "Ada", "Lovelace", "Dental", "100.00", "0.00"),
			rec("111223333", "Ada", "Lovelace", "Dental", "100.00", "0.00"),
		)
		result, err := e.Compare(doubled, carrier)
		require.NoError(t, err)
		assert.Empty(t, result.Discrepancies)
	})

	t.Run("keep-all pairs rows and compares leftovers against blank", func(t *testing.T) {
		e := mustEngine(t, recon.WithDuplicateHandling(recon.DuplicateKeepAll))
		result, err := e.Compare(payroll, carrier)
		require.NoError(t, err)
		// 60 vs 100 mismatches, 40 vs blank mismatches.
		assert.Equal(t, 2, result.Summary.Count(recon.ErrorEmployeeAmountMismatch))
	})
}

func TestCompareDuplicateIdentity(t *testing.T) {
	e := mustEngine(t)
	payroll := src(table.SourcePayroll,
		rec("111223333", "Ada", "Lovelace", "Medical", "100.00", "0.00"),
		rec("111223333", "Ada", "Lovelace", "Dental", "20.00", "0.00"),
	)
	carrier := src(table.SourceCarrier,
		rec("111223333", "Ada", "Lovelace", "Medical", "100.00", "0.00"),
		rec("111223333", "Ada", "Lovelace", "Dental", "20.00", "0.00"),
	)

	result, err := e.Compare(payroll, carrier)
	require.NoError(t, err)

	require.Len(t, result.Discrepancies, 1)
	d := result.Discrepancies[0]
	assert.Equal(t, recon.ErrorDuplicateIdentity, d.Type)
	assert.Equal(t, "111223333", d.Identity)
	// Plans are listed sorted for a deterministic report.
	assert.Equal(t, "dental, health", d.PlanName)
}

func TestCompareDeterministic(t *testing.T) {
	e := mustEngine(t)
	payroll := src(table.SourcePayroll,
		rec("111223333", "Ada", "Lovelace", "Medical", "100.00", "200.00"),
		rec("444556666", "Grace", "Hopper", "Dental", "20.00", "40.00"),
		rec("777889999", "Alan", "Turing", "Vision", "5.00", "10.00"),
	)
	carrier := src(table.SourceCarrier,
		rec("444556666", "Grace", "Hopper", "Dental", "21.00", "40.00"),
		rec("777889999", "Alan", "Turing", "Vision", "5.00", "10.00"),
	)

	first, err := e.Compare(payroll, carrier)
	require.NoError(t, err)
	second, err := e.Compare(payroll, carrier)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(first.Discrepancies, second.Discrepancies))
	assert.Equal(t, first.Summary.Entries(), second.Summary.Entries())
	assert.NotEqual(t, first.Metadata.RunID, second.Metadata.RunID)
}

func TestCompareNilSources(t *testing.T) {
	e := mustEngine(t)
	payroll := src(table.SourcePayroll)

	_, err := e.Compare(nil, payroll)
	assert.ErrorIs(t, err, errors.ErrNotEnoughSources)
	_, err = e.Compare(payroll, nil)
	assert.ErrorIs(t, err, errors.ErrNotEnoughSources)
}

func TestCompareInputNotMutated(t *testing.T) {
	e := mustEngine(t, recon.WithDuplicateHandling(recon.DuplicateAggregateSum))
	payroll := src(table.SourcePayroll,
		rec("111223333", "Ada", "Lovelace", "Dental", "60.00", "0.00"),
		rec("111223333", "Ada", "Lovelace", "Dental", "40.00", "0.00"),
	)
	carrier := src(table.SourceCarrier, rec("111223333", "Ada", "Lovelace", "Dental", "100.00", "0.00"))

	_, err := e.Compare(payroll, carrier)
	require.NoError(t, err)

	require.Len(t, payroll.Records, 2)
	assert.Equal(t, int64(6000), payroll.Records[0].EmployeeCost.Cents)
	assert.Equal(t, "dental", payroll.Records[0].PlanName)
}
