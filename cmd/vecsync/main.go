package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/vecsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vecsync/internal/adapters/driven/index/astra"
	"github.com/custodia-labs/vecsync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/vecsync/internal/adapters/driven/vault"
	"github.com/custodia-labs/vecsync/internal/adapters/driving/cli"
	"github.com/custodia-labs/vecsync/internal/adapters/driving/watcher"
	"github.com/custodia-labs/vecsync/internal/chunker"
	"github.com/custodia-labs/vecsync/internal/core/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env file is fine
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// bootstrap wires the adapters into the core services.
func bootstrap(opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	dataDir := ""
	if opts.ConfigDir != "" {
		dataDir = filepath.Join(opts.ConfigDir, "data")
	}
	ledger, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	root := opts.VaultDir
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			_ = ledger.Close()
			return nil, fmt.Errorf("working directory: %w", err)
		}
	}
	notes, err := vault.New(root, settings.Sync.Extensions)
	if err != nil {
		_ = ledger.Close()
		return nil, fmt.Errorf("opening vault: %w", err)
	}

	conn := services.NewConnectionManager(astra.NewDialer(), settingsService)
	syncEngine := services.NewSyncEngine(conn, chunker.New(), ledger)
	queryEngine := services.NewQueryEngine(conn, settings.Search.TopK)
	router := services.NewChangeRouter(syncEngine, notes, services.NewCoalescer(settings.Sync.Debounce()))

	watch := func(ctx context.Context) error {
		w, err := watcher.New(notes, router)
		if err != nil {
			return err
		}
		defer w.Close()
		return w.Run(ctx)
	}

	closeAll := func() error {
		router.Close()
		return errors.Join(conn.Close(), ledger.Close())
	}

	return &cli.Services{
		Settings:   settingsService,
		Sync:       syncEngine,
		Search:     queryEngine,
		Source:     notes,
		ConfigPath: configStore.Path(),
		TopK:       settings.Search.TopK,
		Watch:      watch,
		Close:      closeAll,
	}, nil
}
