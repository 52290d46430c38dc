package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"inkwell/internal/config"
)

func newAssetCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asset",
		Short: "Manage content-addressed image assets",
	}

	cmd.AddCommand(
		newAssetAddCmd(cfg, jsonOutput),
		newAssetGetCmd(cfg),
		newAssetRemoveCmd(cfg, jsonOutput),
	)
	return cmd
}

func newAssetAddCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>",
		Short: "Store a file and print its identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if len(data) == 0 {
				return fmt.Errorf("file is empty: %s", args[0])
			}
			ext := strings.TrimPrefix(filepath.Ext(args[0]), ".")
			return withEnv(cfg, func(env *cliEnv) error {
				identity, err := env.assets.Save(cmd.Context(), data, ext)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(map[string]any{"identity": identity, "size": len(data)})
				}
				return writePlain("%s\n", identity)
			})
		},
	}
}

func newAssetGetCmd(cfg *config.Config) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "get <identity>",
		Short: "Fetch a stored blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cfg, func(env *cliEnv) error {
				data, err := env.assets.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if outputPath != "" {
					return os.WriteFile(outputPath, data, 0o644)
				}
				_, err = os.Stdout.Write(data)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func newAssetRemoveCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <identity>",
		Short: "Delete a stored blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cfg, func(env *cliEnv) error {
				removed, err := env.assets.Delete(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(map[string]any{"identity": args[0], "removed": removed})
				}
				if !removed {
					return writePlain("%s (already absent)\n", args[0])
				}
				return writePlain("%s\n", args[0])
			})
		},
	}
}
