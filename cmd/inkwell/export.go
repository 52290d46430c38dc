package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"inkwell/internal/config"
	"inkwell/internal/store"
)

type exportMemo struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title,omitempty"`
	Content   string `yaml:"content"`
	CreatedAt string `yaml:"created_at"`
	UpdatedAt string `yaml:"updated_at"`
}

type exportFolder struct {
	ID    string       `yaml:"id"`
	Name  string       `yaml:"name"`
	Memos []exportMemo `yaml:"memos"`
}

type exportDocument struct {
	Folders []exportFolder `yaml:"folders"`
}

func newExportCmd(cfg *config.Config) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all folders and memos as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cfg, func(env *cliEnv) error {
				doc, err := buildExportDocument(cmd.Context(), env.store)
				if err != nil {
					return err
				}

				w := os.Stdout
				if outputPath != "" {
					f, err := os.Create(outputPath)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}

				enc := yaml.NewEncoder(w)
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(doc)
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
	return cmd
}

// buildExportDocument snapshots the whole store. Memos keep their
// committed reference form; the asset directory travels separately.
func buildExportDocument(ctx context.Context, st *store.Store) (exportDocument, error) {
	var doc exportDocument

	folders, err := st.ListFolders(ctx)
	if err != nil {
		return doc, err
	}

	for _, folder := range folders {
		memos, err := st.ListMemos(ctx, store.MemoFilter{FolderID: folder.ID, Limit: -1})
		if err != nil {
			return doc, err
		}
		out := exportFolder{ID: folder.ID, Name: folder.Name, Memos: make([]exportMemo, 0, len(memos))}
		for _, memo := range memos {
			out.Memos = append(out.Memos, exportMemo{
				ID:        memo.ID,
				Title:     memo.Title,
				Content:   memo.Content,
				CreatedAt: formatTime(memo.CreatedAt),
				UpdatedAt: formatTime(memo.UpdatedAt),
			})
		}
		doc.Folders = append(doc.Folders, out)
	}
	return doc, nil
}
