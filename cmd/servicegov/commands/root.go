package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"servicegov/internal/anomaly"
	"servicegov/internal/config"
	"servicegov/internal/logging"
	"servicegov/internal/mcp"
	"servicegov/internal/notify"
	"servicegov/internal/servicenow"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "servicegov",
	Short: "Servicegov computes service-desk governance metrics from incident data",
	Long: `A service-desk metrics engine: business-hours MTTR, SLA compliance and
First-Contact-Resolution rates per month, plus statistical anomaly detection
with alert dispatch. Runs as an MCP server over Stdio.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("servicegov starting")
	},
	Run: func(cmd *cobra.Command, args []string) {
		snow := servicenow.NewClient(cfg.ServiceNow)

		var notifier notify.Notifier = notify.Noop{}
		if cfg.SMTP.Configured() {
			notifier = notify.NewSMTPNotifier(cfg.SMTP)
		} else {
			log.Warn().Msg("No SMTP transport configured, alert notifications disabled")
		}

		alertLog := anomaly.NewLog(cfg.AlertLogPath)
		dispatcher := anomaly.NewDispatcher(notifier, alertLog, cfg.AlertCooldown)

		log.Info().Msg("MCP Server starting Stdio loop")
		server := mcp.NewServer(cfg, snow, dispatcher, alertLog)
		if err := server.Serve(); err != nil {
			log.Fatal().Err(err).Msg("Server loop failed")
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
