// ABOUTME: Root Cobra command for hydrate CLI.
// ABOUTME: Handles config, logger, and preference store lifecycle via PersistentPre/PostRunE.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/harperreed/hydrate/internal/config"
	"github.com/harperreed/hydrate/internal/prefs"
	"github.com/harperreed/hydrate/internal/tracker"
	"github.com/spf13/cobra"
)

// skipStoreAnnotation marks commands that manage storage themselves.
const skipStoreAnnotation = "hydrate/skip-store"

var (
	flagBackend string
	flagDataDir string
	flagVerbose bool

	logger *log.Logger
	store  *prefs.Store
	tr     *tracker.Tracker
)

var rootCmd = &cobra.Command{
	Use:   "hydrate",
	Short: "Personal water intake tracker",
	Long: `Hydrate is a CLI tool for tracking how much water you drink each day.

HOW IT WORKS:

  Set a daily goal once, then log water as you drink it. Today's total
  starts over automatically at midnight, and the last 7 days are kept
  for a weekly chart.

QUICK START:

  $ hydrate onboard --goal 2000   # Set your daily goal (ml)
  $ hydrate add                   # Log a 250 ml glass
  $ hydrate add 500               # Log a custom amount
  $ hydrate status                # Today's progress
  $ hydrate week                  # Last 7 days
  $ hydrate ui                    # Interactive terminal UI

STORAGE BACKENDS:

  sqlite   Local SQLite database (default) at ~/.local/share/hydrate/hydrate.db
  badger   Embedded Badger store at ~/.local/share/hydrate/badger
  charm    Charm KV, synced across devices and E2E encrypted

  Pick one with --backend, HYDRATE_BACKEND, or "backend" in
  ~/.config/hydrate/config.json.

SYNC:

  With the charm backend every write syncs to Charm Cloud.

  $ hydrate sync link      # Link device to your Charm account
  $ hydrate sync status    # Check sync status

MCP INTEGRATION:

  Run 'hydrate mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants. Add to your Claude
  config:

  {
    "mcpServers": {
      "hydrate": { "command": "hydrate", "args": ["mcp"] }
    }
  }`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(flagVerbose)

		// Skip store init for commands that don't need it
		if !needsStore(cmd) {
			return nil
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		repo, err := cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
		}
		store, err = prefs.Open(repo, prefs.WithLogger(logger))
		if err != nil {
			_ = repo.Close()
			return fmt.Errorf("failed to load preferences: %w", err)
		}
		tr = tracker.New(store, tracker.WithLogger(logger))

		logger.Debug("storage opened", "backend", cfg.GetBackend(), "path", cfg.StoragePath())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite, badger, or charm")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.local/share/hydrate)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command with a context canceled on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() { _ = closeStore() }()

	return rootCmd.ExecuteContext(ctx)
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flagBackend != "" {
		cfg.Backend = flagBackend
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if err := config.ValidateBackend(cfg.GetBackend()); err != nil {
		return nil, err
	}
	return cfg, nil
}

func needsStore(cmd *cobra.Command) bool {
	if cmd.Annotations[skipStoreAnnotation] == "true" {
		return false
	}
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

func newLogger(verbose bool) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{Prefix: "hydrate"})
	l.SetLevel(log.WarnLevel)
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

func closeStore() error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	tr = nil
	return err
}
