package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ivyrecon/ivyrecon/internal/config"
	"github.com/ivyrecon/ivyrecon/internal/server"
	"github.com/ivyrecon/ivyrecon/pkg/logging"
)

// serveCmd starts the HTTP reconciliation service.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reconciliation over HTTP",
	Long: `Start a stateless HTTP service. POST /reconcile accepts payroll,
carrier, and optionally ben-admin tables as JSON and returns the
discrepancy report. GET /healthz reports liveness.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		srv := server.New(*logging.Default())
		return srv.Run(cmd.Context(), viper.GetString(config.KeyListenAddr))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String(config.KeyListenAddr, ":8080", "listen address")
	cobra.CheckErr(viper.BindPFlags(serveCmd.Flags()))
}
