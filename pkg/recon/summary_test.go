package recon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivyrecon/ivyrecon/pkg/recon"
	"github.com/ivyrecon/ivyrecon/pkg/table"
)

func TestSummarize(t *testing.T) {
	t.Run("empty input still carries Total", func(t *testing.T) {
		s := recon.Summarize(nil)
		require.Equal(t, 1, s.Len())
		assert.Equal(t, 0, s.Total())
		entries := s.Entries()
		assert.Equal(t, recon.SummaryTotal, entries[0].Type)
	})

	t.Run("groups by first appearance with trailing Total", func(t *testing.T) {
		ds := []recon.Discrepancy{
			{Type: recon.ErrorEmployeeAmountMismatch},
			{Type: recon.MissingIn(table.SourceCarrier)},
			{Type: recon.ErrorEmployeeAmountMismatch},
			{Type: recon.ErrorPlanNameMismatch},
		}
		s := recon.Summarize(ds)

		entries := s.Entries()
		require.Len(t, entries, 4)
		assert.Equal(t, recon.ErrorEmployeeAmountMismatch, entries[0].Type)
		assert.Equal(t, 2, entries[0].Count)
		assert.Equal(t, recon.MissingIn(table.SourceCarrier), entries[1].Type)
		assert.Equal(t, recon.ErrorPlanNameMismatch, entries[2].Type)
		assert.Equal(t, recon.SummaryTotal, entries[3].Type)
		assert.Equal(t, 4, entries[3].Count)
	})

	t.Run("total always equals the sum of the other counts", func(t *testing.T) {
		ds := []recon.Discrepancy{
			{Type: recon.ErrorPlanNameMismatch},
			{Type: recon.ErrorPlanNameMismatch},
			{Type: recon.ErrorDuplicateIdentity},
		}
		s := recon.Summarize(ds)

		sum := 0
		for _, e := range s.Entries() {
			if e.Type != recon.SummaryTotal {
				sum += e.Count
			}
		}
		assert.Equal(t, sum, s.Total())
	})

	t.Run("count of absent type is zero", func(t *testing.T) {
		s := recon.Summarize(nil)
		assert.Equal(t, 0, s.Count(recon.ErrorPlanNameMismatch))
	})
}
