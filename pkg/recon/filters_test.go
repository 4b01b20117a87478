package recon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivyrecon/ivyrecon/pkg/recon"
	"github.com/ivyrecon/ivyrecon/pkg/table"
)

func TestSumRecheck(t *testing.T) {
	// Payroll splits Ada's dental premium across two lines; the carrier
	// bills one combined line. Row-level drilldown flags mismatches, but
	// the per-key sums agree exactly.
	payroll := src(table.SourcePayroll,
		rec("111223333", "Ada", "Lovelace", "Dental", "60.00", "0.00"),
		rec("111223333", "Ada", "Lovelace", "Dental", "40.00", "0.00"),
	)
	carrier := src(table.SourceCarrier, rec("111223333", "Ada", "Lovelace", "Dental", "100.00", "0.00"))

	t.Run("suppresses artifact mismatches", func(t *testing.T) {
		e := mustEngine(t, recon.WithSumRecheck(true))
		result, err := e.Compare(payroll, carrier)
		require.NoError(t, err)

		assert.Empty(t, result.Discrepancies)
		assert.Equal(t, 0, result.Summary.Total())

		require.Len(t, result.Filters, 1)
		assert.Equal(t, recon.FilterSumRecheck, result.Filters[0].Name)
		assert.Equal(t, 3, result.Filters[0].Suppressed)
	})

	t.Run("leaves genuine mismatches alone", func(t *testing.T) {
		e := mustEngine(t, recon.WithSumRecheck(true))
		short := src(table.SourceCarrier, rec("111223333", "Ada", "Lovelace", "Dental", "90.00", "0.00"))
		result, err := e.Compare(payroll, short)
		require.NoError(t, err)

		assert.NotEmpty(t, result.Discrepancies)
		require.Len(t, result.Filters, 1)
		assert.Equal(t, 0, result.Filters[0].Suppressed)
	})

	t.Run("never touches missing rows", func(t *testing.T) {
		e := mustEngine(t, recon.WithSumRecheck(true))
		empty := src(table.SourceCarrier)
		result, err := e.Compare(payroll, empty)
		require.NoError(t, err)

		require.Len(t, result.Discrepancies, 1)
		assert.Equal(t, recon.MissingIn(table.SourceCarrier), result.Discrepancies[0].Type)
	})

	t.Run("reports even when disabled pass would be idle", func(t *testing.T) {
		e := mustEngine(t)
		result, err := e.Compare(payroll, carrier)
		require.NoError(t, err)
		assert.Empty(t, result.Filters)
	})
}

func TestFrequencyRecheck(t *testing.T) {
	// Monthly payroll deductions against an annual carrier premium, with
	// frequency-aware comparison off: the row-level mismatch is genuine
	// until the sum re-check tries the pay-frequency multipliers.
	payroll := src(table.SourcePayroll, rec("111223333", "Ada", "Lovelace", "Medical", "100.00", "0.00"))
	carrier := src(table.SourceCarrier, rec("111223333", "Ada", "Lovelace", "Medical", "1200.00", "0.00"))

	t.Run("suppresses frequency-equivalent sums", func(t *testing.T) {
		e := mustEngine(t, recon.WithFrequencyRecheck(true))
		result, err := e.Compare(payroll, carrier)
		require.NoError(t, err)

		assert.Empty(t, result.Discrepancies)
		require.Len(t, result.Filters, 1)
		assert.Equal(t, recon.FilterFrequencyRecheck, result.Filters[0].Name)
		assert.Equal(t, 1, result.Filters[0].Suppressed)
	})

	t.Run("passes run in fixed order", func(t *testing.T) {
		e := mustEngine(t, recon.WithSumRecheck(true), recon.WithFrequencyRecheck(true))
		result, err := e.Compare(payroll, carrier)
		require.NoError(t, err)

		require.Len(t, result.Filters, 2)
		assert.Equal(t, recon.FilterSumRecheck, result.Filters[0].Name)
		assert.Equal(t, recon.FilterFrequencyRecheck, result.Filters[1].Name)
	})

	t.Run("summary reflects post-suppression counts", func(t *testing.T) {
		e := mustEngine(t, recon.WithFrequencyRecheck(true))
		result, err := e.Compare(payroll, carrier)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Summary.Total())
		assert.Equal(t, 1, result.Summary.Len())
	})
}
