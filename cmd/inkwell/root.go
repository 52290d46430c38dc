package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"inkwell/internal/config"
	"inkwell/internal/server"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		jsonOutput bool
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           "inkwell",
		Short:         "Inkwell is a folder-based note store with content-addressed image assets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			return nil
		},
	}

	cmd.Version = server.Version
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newFolderCmd(cfg, &jsonOutput),
		newMemoCmd(cfg, &jsonOutput),
		newAssetCmd(cfg, &jsonOutput),
		newExportCmd(cfg),
		newConfigCmd(cfg),
		newPasscodeCmd(cfg),
	)

	return cmd
}
