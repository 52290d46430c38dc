package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"inkwell/internal/config"
	"inkwell/internal/store"
)

func newMemoCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memo",
		Short: "Manage memos",
	}

	cmd.AddCommand(
		newMemoAddCmd(cfg, jsonOutput),
		newMemoListCmd(cfg, jsonOutput),
		newMemoShowCmd(cfg, jsonOutput),
		newMemoUpdateCmd(cfg, jsonOutput),
		newMemoMoveCmd(cfg, jsonOutput),
		newMemoRemoveCmd(cfg),
	)
	return cmd
}

// readMemoContent takes content from --file, "-" meaning stdin, or the
// positional argument. Inline image payloads in it are committed to
// the asset store before the memo is saved.
func readMemoContent(filePath string, args []string) (string, error) {
	if filePath == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		return string(data), err
	}
	if len(args) > 0 {
		return args[0], nil
	}
	return "", nil
}

func newMemoAddCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		folderID string
		title    string
		filePath string
	)

	cmd := &cobra.Command{
		Use:   "add [content]",
		Short: "Create a memo",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readMemoContent(filePath, args)
			if err != nil {
				return err
			}
			return withEnv(cfg, func(env *cliEnv) error {
				memo, err := env.memos.CreateMemo(cmd.Context(), folderID, title, content)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(memo)
				}
				return writePlain("%s\n", memo.ID)
			})
		},
	}

	cmd.Flags().StringVarP(&folderID, "folder", "F", "", "folder id (required)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "memo title")
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "read content from file (- for stdin)")
	_ = cmd.MarkFlagRequired("folder")
	return cmd
}

func newMemoListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		folderID string
		query    string
		limit    int
		offset   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List memos, most recently updated first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cfg, func(env *cliEnv) error {
				memos, err := env.memos.ListMemos(cmd.Context(), store.MemoFilter{
					FolderID: folderID,
					Query:    query,
					Limit:    limit,
					Offset:   offset,
				})
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(memos)
				}
				return writeMemoList(memos)
			})
		},
	}

	cmd.Flags().StringVarP(&folderID, "folder", "F", "", "filter by folder id")
	cmd.Flags().StringVarP(&query, "query", "q", "", "substring match on title and content")
	cmd.Flags().IntVar(&limit, "limit", 0, "limit results")
	cmd.Flags().IntVar(&offset, "offset", 0, "offset results")
	return cmd
}

func newMemoShowCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var resolve bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one memo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cfg, func(env *cliEnv) error {
				get := env.memos.GetMemo
				if resolve {
					get = env.memos.RenderedMemo
				}
				memo, err := get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(memo)
				}
				return writeMemoDetail(memo)
			})
		},
	}

	cmd.Flags().BoolVar(&resolve, "resolve", false, "inline asset references as data URIs")
	return cmd
}

func newMemoUpdateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		title    string
		filePath string
	)

	cmd := &cobra.Command{
		Use:   "update <id> [content]",
		Short: "Update a memo's title and content",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readMemoContent(filePath, args[1:])
			if err != nil {
				return err
			}
			return withEnv(cfg, func(env *cliEnv) error {
				existing, err := env.memos.GetMemo(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("title") {
					title = existing.Title
				}
				if filePath == "" && len(args) < 2 {
					content = existing.Content
				}
				memo, err := env.memos.UpdateMemo(cmd.Context(), args[0], title, content)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(memo)
				}
				return writePlain("%s\n", memo.ID)
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "memo title")
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "read content from file (- for stdin)")
	return cmd
}

func newMemoMoveCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <folder-id>",
		Short: "Move a memo to another folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cfg, func(env *cliEnv) error {
				memo, err := env.memos.MoveMemo(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(memo)
				}
				return writePlain("%s\n", memo.ID)
			})
		},
	}
}

func newMemoRemoveCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a memo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cfg, func(env *cliEnv) error {
				if err := env.memos.DeleteMemo(cmd.Context(), args[0]); err != nil {
					return err
				}
				return writePlain("%s\n", args[0])
			})
		},
	}
}
