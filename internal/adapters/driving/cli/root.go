// Package cli implements the vecsync command line.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
	"github.com/custodia-labs/vecsync/internal/core/ports/driving"
	"github.com/custodia-labs/vecsync/internal/logger"
)

// annotationSkipServices marks commands that run without wiring services.
const annotationSkipServices = "vecsync/skip-services"

// Options carries the persistent flags into the bootstrap.
type Options struct {
	VaultDir  string
	ConfigDir string
	Verbose   bool
}

// Services are the wired components the commands drive. Any field may be
// nil; commands that need a missing one fail with a "not configured" error.
type Services struct {
	Settings driving.SettingsService
	Sync     driving.SyncService
	Search   driving.SearchService
	Source   driven.DocumentSource

	// ConfigPath is shown by settings show.
	ConfigPath string

	// TopK is the default result limit, used by the TUI.
	TopK int

	// Watch runs the vault watcher until ctx is done.
	Watch func(ctx context.Context) error

	// Close releases everything the bootstrap opened.
	Close func() error
}

// Bootstrap builds services from the command line options.
type Bootstrap func(Options) (*Services, error)

var (
	version = "dev"

	bootstrap Bootstrap
	loaded    bool

	settingsService driving.SettingsService
	syncService     driving.SyncService
	searchService   driving.SearchService
	documentSource  driven.DocumentSource
	configPath      string
	defaultTopK     int
	watchFunc       func(ctx context.Context) error
	closeFunc       func() error

	flagVerbose   bool
	flagVault     string
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "vecsync",
	Short: "Keep a vector index in step with a folder of notes",
	Long: `vecsync mirrors a local vault of text notes into a remote vector
database. Notes are split into overlapping chunks, embedded by the database
and kept in step as files are created, edited, renamed and deleted.

Search the index with natural language from the command line, the terminal
UI or an MCP-compatible assistant.`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagVault, "vault", "", "vault directory (default current directory)")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.vecsync)")
}

// SetBootstrap installs the function that wires services before a command
// runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
	loaded = false
}

// SetServices installs already wired services.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	settingsService = s.Settings
	syncService = s.Sync
	searchService = s.Search
	documentSource = s.Source
	configPath = s.ConfigPath
	defaultTopK = s.TopK
	watchFunc = s.Watch
	closeFunc = s.Close
	loaded = true
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}

func prepare(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	if cmd.Annotations[annotationSkipServices] == "true" || loaded || bootstrap == nil {
		return nil
	}

	services, err := bootstrap(Options{
		VaultDir:  flagVault,
		ConfigDir: flagConfigDir,
		Verbose:   flagVerbose,
	})
	if err != nil {
		return fmt.Errorf("starting vecsync: %w", err)
	}
	SetServices(services)
	logger.Debug("services ready for %s", cmd.CommandPath())
	return nil
}

func closeServices() {
	if closeFunc == nil {
		return
	}
	if err := closeFunc(); err != nil {
		logger.Warn("closing services: %v", err)
	}
	closeFunc = nil
}

// errNotConfigured reports a service the bootstrap did not provide.
func errNotConfigured(what string) error {
	return errors.New(what + " not configured")
}
