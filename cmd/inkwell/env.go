package main

import (
	"fmt"

	"inkwell/internal/assetref"
	"inkwell/internal/assetstore"
	"inkwell/internal/config"
	"inkwell/internal/server"
	"inkwell/internal/store"
)

// cliEnv bundles the opened local state a command works against. The
// CLI talks to the database and asset directory directly rather than
// through the HTTP API, so commands work without a running server.
type cliEnv struct {
	store  *store.Store
	assets assetstore.Store
	memos  *server.MemoService
}

func withEnv(cfg *config.Config, fn func(env *cliEnv) error) error {
	if cfg == nil {
		return fmt.Errorf("config not initialized")
	}
	if cfg.DBPath == "" {
		return fmt.Errorf("db path is required")
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	assets, err := assetstore.NewLocal(cfg.AssetDir)
	if err != nil {
		return err
	}

	return fn(&cliEnv{
		store:  st,
		assets: assets,
		memos:  server.NewMemoService(st, assetref.NewCodec(assets)),
	})
}
