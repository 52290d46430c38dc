package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"inkwell/internal/assetstore"
	"inkwell/internal/config"
	"inkwell/internal/server"
	"inkwell/internal/store"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the inkwell API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}
			if cfg.DBPath == "" {
				return fmt.Errorf("db path is required")
			}

			logger := slog.Default().With("component", "server")

			addr, err := server.ListenAddr(cfg.APIURL)
			if err != nil {
				return err
			}

			logger.Info("opening database", "path", cfg.DBPath)
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			assets, err := assetstore.NewLocal(cfg.AssetDir)
			if err != nil {
				return err
			}

			srv := server.New(addr, st, assets, logger)
			srv.Configure(server.Options{MaxImageBytes: cfg.Assets.MaxImageBytes})
			return srv.ListenAndServe()
		},
	}
}
