package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ivyrecon/ivyrecon/internal/config"
	"github.com/ivyrecon/ivyrecon/internal/load"
	"github.com/ivyrecon/ivyrecon/pkg/logging"
	"github.com/ivyrecon/ivyrecon/pkg/recon"
	"github.com/ivyrecon/ivyrecon/pkg/report"
	"github.com/ivyrecon/ivyrecon/pkg/table"
)

var (
	payrollPath  string
	carrierPath  string
	benadminPath string
	outPath      string
	showRows     bool
)

// reconcileCmd runs a reconciliation across two or three extracts.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile benefits extracts",
	Long: `Reconcile payroll, carrier, and ben-admin extracts.

Supply any two of --payroll, --carrier, and --benadmin for a two-way
comparison of that pair, or all three for three-way mode, which compares
every pair and de-duplicates the findings. Inputs are CSV or XLSX;
headers are matched flexibly (e.g. "SSN", "Social Security Number", and
"Employee ID" all map to the identity column).`,
	Example: `  ivyrecon reconcile --payroll payroll.csv --carrier carrier.xlsx
  ivyrecon reconcile --carrier c.csv --benadmin b.csv
  ivyrecon reconcile --payroll p.csv --carrier c.csv --benadmin b.csv --out report.xlsx
  ivyrecon reconcile --payroll p.csv --carrier c.csv --frequency-aware --sum-recheck`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVar(&payrollPath, "payroll", "", "payroll extract (csv or xlsx)")
	reconcileCmd.Flags().StringVar(&carrierPath, "carrier", "", "carrier extract (csv or xlsx)")
	reconcileCmd.Flags().StringVar(&benadminPath, "benadmin", "", "ben-admin extract (csv or xlsx)")
	reconcileCmd.Flags().StringVarP(&outPath, "out", "o", "", "write a multi-sheet XLSX report to this path")
	reconcileCmd.Flags().BoolVar(&showRows, "show", false, "print the full discrepancy table")

	reconcileCmd.Flags().Float64(config.KeyThreshold, recon.DefaultPlanMatchThreshold, "plan-name similarity threshold [0.5, 1.0]")
	reconcileCmd.Flags().Int64(config.KeyToleranceCents, recon.DefaultAmountToleranceCents, "amount tolerance in cents")
	reconcileCmd.Flags().Bool(config.KeyBlankIsZero, false, "treat blank amount cells as 0.00")
	reconcileCmd.Flags().String(config.KeyDuplicates, string(recon.DuplicateIgnoreExact), "duplicate handling: ignore-exact, aggregate-sum, keep-all")
	reconcileCmd.Flags().Bool(config.KeyFrequencyAware, false, "accept amounts equal under a pay-frequency multiplier")
	reconcileCmd.Flags().Int64(config.KeyFrequencySlack, recon.DefaultFrequencySlackCents, "extra slack in cents for frequency-scaled comparison")
	reconcileCmd.Flags().Bool(config.KeySumRecheck, false, "suppress amount mismatches when per-key sums match")
	reconcileCmd.Flags().Bool(config.KeyFrequencyRecheck, false, "sum recheck additionally under frequency multipliers")
	reconcileCmd.Flags().String(config.KeyAliases, "", "YAML alias file merged over built-in plan aliases")
	reconcileCmd.Flags().String(config.KeyGroup, "", "client group name for report headers")
	reconcileCmd.Flags().String(config.KeyPeriod, "", "reporting period for report headers")

	cobra.CheckErr(viper.BindPFlags(reconcileCmd.Flags()))
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	logger := logging.Default()

	opts, err := config.EngineOptions(viper.GetViper())
	if err != nil {
		return err
	}
	engine, err := recon.New(opts...)
	if err != nil {
		return err
	}

	supplied := 0
	for _, path := range []string{payrollPath, carrierPath, benadminPath} {
		if path != "" {
			supplied++
		}
	}
	if supplied < 2 {
		return fmt.Errorf("at least two of --payroll, --carrier, --benadmin are required")
	}

	var payroll, carrier, benadmin *table.NormalizedTable
	if payrollPath != "" {
		if payroll, err = loadSource(payrollPath, table.SourcePayroll); err != nil {
			return err
		}
	}
	if carrierPath != "" {
		if carrier, err = loadSource(carrierPath, table.SourceCarrier); err != nil {
			return err
		}
	}
	if benadminPath != "" {
		if benadmin, err = loadSource(benadminPath, table.SourceBenAdmin); err != nil {
			return err
		}
	}

	result, err := engine.CompareAvailable(payroll, carrier, benadmin)
	if err != nil {
		return err
	}

	logger.Info().
		Str("run_id", result.Metadata.RunID).
		Str("mode", result.Mode).
		Int("discrepancies", result.Summary.Total()).
		Int("suppressed", result.Suppressed()).
		Msg("reconciliation complete")

	export := report.Assemble(result, viper.GetString(config.KeyGroup), viper.GetString(config.KeyPeriod))

	if err := report.WriteSummary(cmd.OutOrStdout(), export); err != nil {
		return err
	}
	if showRows {
		if err := report.WriteDiscrepancies(cmd.OutOrStdout(), export); err != nil {
			return err
		}
	}

	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := report.WriteXLSX(f, export); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outPath)
	}
	return nil
}

func loadSource(path string, source table.Source) (*table.NormalizedTable, error) {
	t, err := load.File(path)
	if err != nil {
		return nil, err
	}
	return table.Normalize(t, source)
}
