// ABOUTME: CLI command for moving data between storage backends.
// ABOUTME: Copies every preference from one backend to another, with a dry-run preview.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/hydrate/internal/config"
	"github.com/harperreed/hydrate/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data between storage backends",
	Long: `Copy hydrate data from one storage backend to another.

Every stored value (goal, onboarding flag, today's intake, and history)
is copied in one write. Values already in the destination with the same
key are replaced; other destination keys are left alone.

USAGE:

  hydrate migrate --to badger --dry-run   # Preview what would be copied
  hydrate migrate --to badger             # Copy sqlite -> badger
  hydrate migrate --from badger --to charm

AFTER MIGRATION:

  Point hydrate at the new backend with --backend, HYDRATE_BACKEND,
  or "backend" in ~/.config/hydrate/config.json.`,
	Annotations: map[string]string{skipStoreAnnotation: "true"},
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if migrateTo == "" {
			return fmt.Errorf("--to is required (use %s)", strings.Join(config.Backends, ", "))
		}

		srcCfg, dstCfg := *cfg, *cfg
		srcCfg.Backend, dstCfg.Backend = migrateFrom, migrateTo
		for _, c := range []config.Config{srcCfg, dstCfg} {
			if err := config.ValidateBackend(c.GetBackend()); err != nil {
				return err
			}
		}
		if srcCfg.GetBackend() == dstCfg.GetBackend() {
			return fmt.Errorf("source and destination are both %s", srcCfg.GetBackend())
		}

		src, err := srcCfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open source %s: %w", srcCfg.GetBackend(), err)
		}
		defer func() { _ = src.Close() }()

		dst, err := dstCfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open destination %s: %w", dstCfg.GetBackend(), err)
		}
		defer func() { _ = dst.Close() }()

		fmt.Printf("From: %s (%s)\n", srcCfg.GetBackend(), srcCfg.StoragePath())
		fmt.Printf("To:   %s (%s)\n", dstCfg.GetBackend(), dstCfg.StoragePath())
		fmt.Println()

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			summary, err := storage.PlanMigration(src, dst)
			if err != nil {
				return fmt.Errorf("failed to plan migration: %w", err)
			}
			printMigrateSummary(summary, "Would copy")
			return nil
		}

		summary, err := storage.MigrateData(src, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		printMigrateSummary(summary, "Copied")
		color.Green("✓ Migration complete")
		return nil
	},
}

func printMigrateSummary(s *storage.MigrateSummary, verb string) {
	fmt.Printf("%s %d keys", verb, s.Count())
	if s.Replaced > 0 {
		fmt.Printf(" (%d replace existing values)", s.Replaced)
	}
	fmt.Println()
	faint := color.New(color.Faint)
	for _, k := range s.Keys {
		faint.Printf("  %s\n", k)
	}
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", config.BackendSQLite, "source backend")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
