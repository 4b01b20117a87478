package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ivyrecon/ivyrecon/pkg/logging"
	"github.com/ivyrecon/ivyrecon/pkg/recon"
	"github.com/ivyrecon/ivyrecon/pkg/table"
)

// TableRequest is a tabular extract submitted inline.
type TableRequest struct {
	Columns []string   `json:"columns" binding:"required"`
	Rows    [][]string `json:"rows"`
}

// OptionsRequest mirrors the engine's tunable settings. Pointer fields
// distinguish "absent, use default" from explicit zero values.
type OptionsRequest struct {
	Threshold        *float64 `json:"threshold"`
	ToleranceCents   *int64   `json:"tolerance_cents"`
	BlankIsZero      *bool    `json:"blank_is_zero"`
	Duplicates       *string  `json:"duplicates"`
	FrequencyAware   *bool    `json:"frequency_aware"`
	FrequencySlack   *int64   `json:"frequency_slack_cents"`
	SumRecheck       *bool    `json:"sum_recheck"`
	FrequencyRecheck *bool    `json:"frequency_recheck"`
}

// ReconcileRequest is the POST /reconcile body. Any two of the three
// extracts run a two-way comparison of that pair; all three run
// three-way.
type ReconcileRequest struct {
	Payroll  *TableRequest   `json:"payroll"`
	Carrier  *TableRequest   `json:"carrier"`
	BenAdmin *TableRequest   `json:"benadmin"`
	Options  *OptionsRequest `json:"options"`
}

// DiscrepancyResponse is one discrepancy row.
type DiscrepancyResponse struct {
	Type          string  `json:"type"`
	Identity      string  `json:"identity"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	PlanName      string  `json:"plan_name"`
	SourceA       string  `json:"source_a"`
	SourceB       string  `json:"source_b"`
	EmployeeCostA string  `json:"employee_cost_a"`
	EmployeeCostB string  `json:"employee_cost_b"`
	EmployerCostA string  `json:"employer_cost_a"`
	EmployerCostB string  `json:"employer_cost_b"`
	Similarity    float64 `json:"similarity,omitempty"`
}

// ReconcileResponse is the POST /reconcile reply.
type ReconcileResponse struct {
	RunID         string                 `json:"run_id"`
	Mode          string                 `json:"mode"`
	Sources       []string               `json:"sources"`
	Discrepancies []DiscrepancyResponse  `json:"discrepancies"`
	Summary       []SummaryEntryResponse `json:"summary"`
	Filters       []FilterResponse       `json:"filters,omitempty"`
	DurationMS    int64                  `json:"duration_ms"`
}

// SummaryEntryResponse is one summary row.
type SummaryEntryResponse struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// FilterResponse reports one suppression pass.
type FilterResponse struct {
	Name       string `json:"name"`
	Suppressed int    `json:"suppressed"`
}

func (s *Server) handleReconcile(c *gin.Context) {
	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	supplied := 0
	for _, tbl := range []*TableRequest{req.Payroll, req.Carrier, req.BenAdmin} {
		if tbl != nil {
			supplied++
		}
	}
	if supplied < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least two of payroll, carrier, benadmin are required"})
		return
	}

	engine, err := recon.New(req.Options.engineOptions()...)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payroll, err := normalize(req.Payroll, table.SourcePayroll)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	carrier, err := normalize(req.Carrier, table.SourceCarrier)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	benadmin, err := normalize(req.BenAdmin, table.SourceBenAdmin)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	result, err := engine.CompareAvailable(payroll, carrier, benadmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logging.Ctx(c.Request.Context()).Info().
		Str("mode", result.Mode).
		Int("discrepancies", result.Summary.Total()).
		Int("suppressed", result.Suppressed()).
		Msg("reconciliation complete")

	c.JSON(http.StatusOK, toResponse(result))
}

func normalize(req *TableRequest, source table.Source) (*table.NormalizedTable, error) {
	if req == nil {
		return nil, nil
	}
	t := table.New(req.Columns...)
	for _, row := range req.Rows {
		t.Append(row...)
	}
	nt, err := table.Normalize(t, source)
	if err != nil {
		return nil, err
	}
	return nt, nil
}

func (o *OptionsRequest) engineOptions() []recon.Option {
	if o == nil {
		return nil
	}
	var opts []recon.Option
	if o.Threshold != nil {
		opts = append(opts, recon.WithPlanMatchThreshold(*o.Threshold))
	}
	if o.ToleranceCents != nil {
		opts = append(opts, recon.WithAmountTolerance(*o.ToleranceCents))
	}
	if o.BlankIsZero != nil {
		opts = append(opts, recon.WithBlankIsZero(*o.BlankIsZero))
	}
	if o.Duplicates != nil {
		opts = append(opts, recon.WithDuplicateHandling(recon.DuplicateHandling(*o.Duplicates)))
	}
	if o.FrequencyAware != nil {
		opts = append(opts, recon.WithFrequencyAware(*o.FrequencyAware))
	}
	if o.FrequencySlack != nil {
		opts = append(opts, recon.WithFrequencySlack(*o.FrequencySlack))
	}
	if o.SumRecheck != nil {
		opts = append(opts, recon.WithSumRecheck(*o.SumRecheck))
	}
	if o.FrequencyRecheck != nil {
		opts = append(opts, recon.WithFrequencyRecheck(*o.FrequencyRecheck))
	}
	return opts
}

func toResponse(r *recon.Result) ReconcileResponse {
	resp := ReconcileResponse{
		RunID:      r.Metadata.RunID,
		Mode:       r.Mode,
		DurationMS: r.Metadata.Duration.Milliseconds(),
	}
	for _, s := range r.Sources {
		resp.Sources = append(resp.Sources, string(s))
	}
	for _, d := range r.Discrepancies {
		resp.Discrepancies = append(resp.Discrepancies, DiscrepancyResponse{
			Type:          string(d.Type),
			Identity:      d.Identity,
			FirstName:     d.FirstName,
			LastName:      d.LastName,
			PlanName:      d.PlanName,
			SourceA:       string(d.SourceA),
			SourceB:       string(d.SourceB),
			EmployeeCostA: d.EmployeeCostA.String(),
			EmployeeCostB: d.EmployeeCostB.String(),
			EmployerCostA: d.EmployerCostA.String(),
			EmployerCostB: d.EmployerCostB.String(),
			Similarity:    d.Similarity,
		})
	}
	for _, e := range r.Summary.Entries() {
		resp.Summary = append(resp.Summary, SummaryEntryResponse{Type: string(e.Type), Count: e.Count})
	}
	for _, f := range r.Filters {
		resp.Filters = append(resp.Filters, FilterResponse{Name: f.Name, Suppressed: f.Suppressed})
	}
	return resp
}
