package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

func newFolderCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Manage folders",
	}

	cmd.AddCommand(
		newFolderAddCmd(cfg, jsonOutput),
		newFolderListCmd(cfg, jsonOutput),
		newFolderRenameCmd(cfg, jsonOutput),
		newFolderRemoveCmd(cfg),
		newFolderReorderCmd(cfg),
	)
	return cmd
}

func newFolderAddCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a folder",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := models.NormalizeFolderName(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return withEnv(cfg, func(env *cliEnv) error {
				folder := models.Folder{ID: store.NewID(), Name: name}
				if err := env.store.CreateFolder(cmd.Context(), &folder); err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(folder)
				}
				return writePlain("%s\n", folder.ID)
			})
		},
	}
}

func newFolderListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List folders in sidebar order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cfg, func(env *cliEnv) error {
				folders, err := env.store.ListFolders(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					if folders == nil {
						folders = []models.Folder{}
					}
					return writeJSON(folders)
				}
				return writeFolderList(folders)
			})
		},
	}
}

func newFolderRenameCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a folder",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			name, err := models.NormalizeFolderName(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return withEnv(cfg, func(env *cliEnv) error {
				renamed, err := env.store.RenameFolder(cmd.Context(), id, name)
				if err != nil {
					return err
				}
				if !renamed {
					return fmt.Errorf("folder not found: %s", id)
				}
				if *jsonOutput {
					folder, err := env.store.GetFolder(cmd.Context(), id)
					if err != nil {
						return err
					}
					return writeJSON(folder)
				}
				return writePlain("%s\n", id)
			})
		},
	}
}

func newFolderRemoveCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a folder and its memos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cfg, func(env *cliEnv) error {
				removed, err := env.store.DeleteFolder(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("folder not found: %s", args[0])
				}
				return writePlain("%s\n", args[0])
			})
		},
	}
}

func newFolderReorderCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <id>...",
		Short: "Reorder folders; every folder id must be listed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cfg, func(env *cliEnv) error {
				return env.store.ReorderFolders(cmd.Context(), args)
			})
		},
	}
}
