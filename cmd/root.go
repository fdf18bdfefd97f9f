package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"invoicer/internal/config"
	"invoicer/internal/logger"
)

var version = "1.0.0"

// appConfig is set by main before Execute. Commands fall back to built-in
// defaults when it is nil.
var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "invoicer",
	Short: "Invoicer - create, upgrade and render invoice documents",
	Long: `Invoicer works on invoice and quote documents saved as JSON files.

Documents written by older releases are detected and upgraded to the current
schema step by step. Every upgrade is summarised before it is applied, so a
saved file is never changed without confirmation.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
			logger.Silence()
		}
	},
}

// SetConfig hands the loaded configuration to the commands.
func SetConfig(cfg *config.Config) {
	appConfig = cfg
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress log output")
}
