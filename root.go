package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/navarrastar/contact-ingest/pkg/config"
	"github.com/navarrastar/contact-ingest/pkg/logger"
)

var (
	exit     = os.Exit
	stdout   io.Writer = os.Stdout
	logLevel string
	cfg      *config.Config
)

// NewRootCmd creates the root command. Running it without a subcommand
// starts the server.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "contact-ingest",
		Short:             "Forward signup form submissions to systeme.io",
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if logLevel != "" {
				loaded.LogLevel = logLevel
			}
			logger.Setup(loaded.LogLevel)
			cfg = loaded
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	serveCmd := newServeCmd()
	rootCmd.RunE = serveCmd.RunE
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	rootCmd.AddCommand(serveCmd, newSubmitCmd(), newSlotsCmd())
	return rootCmd
}
