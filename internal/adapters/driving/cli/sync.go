package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/logger"
)

var (
	syncSkipUnchanged bool
	syncPrune         bool
)

var syncCmd = &cobra.Command{
	Use:   "sync [path...]",
	Short: "Synchronise notes into the index",
	Long: `Replaces the indexed chunks of notes with the chunks of their current
content. Without arguments every note in the vault is synchronised and, with
--prune, notes that no longer exist are removed from the index.

Paths are relative to the vault root. A path that no longer exists in the
vault is removed from the index.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncSkipUnchanged, "skip-unchanged", false,
		"skip notes whose content is already indexed")
	syncCmd.Flags().BoolVar(&syncPrune, "prune", true,
		"remove indexed notes missing from the vault (full sync only)")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncService == nil {
		return errNotConfigured("sync service")
	}
	if documentSource == nil {
		return errNotConfigured("vault")
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	var (
		paths []string
		err   error
	)
	full := len(args) == 0
	if full {
		paths, err = documentSource.List(ctx)
		if err != nil {
			return fmt.Errorf("listing vault: %w", err)
		}
		fmt.Fprintf(out, "Synchronising %d notes...\n", len(paths))
	} else {
		for _, a := range args {
			paths = append(paths, domain.NormalisePath(a))
		}
	}

	var errs []error
	docs := make([]domain.Document, 0, len(paths))
	removed, failed := 0, 0
	for _, p := range paths {
		doc, err := documentSource.Read(ctx, p)
		switch {
		case err == nil:
			docs = append(docs, doc)
		case errors.Is(err, domain.ErrNotFound) && !full:
			if err := syncService.Delete(ctx, p); err != nil {
				errs = append(errs, err)
				failed++
				continue
			}
			removed++
		default:
			errs = append(errs, fmt.Errorf("reading %s: %w", p, err))
			failed++
		}
	}

	report, err := syncService.SyncAll(ctx, docs, domain.SyncOptions{SkipUnchanged: syncSkipUnchanged})
	errs = append(errs, err)
	report.Failed += failed

	if full && syncPrune {
		n, err := prune(ctx, paths)
		removed += n
		errs = append(errs, err)
	}

	fmt.Fprintf(out, "Synced %d, skipped %d, failed %d.\n", report.Synced, report.Skipped, report.Failed)
	if removed > 0 {
		fmt.Fprintf(out, "Removed %d.\n", removed)
	}

	if err := errors.Join(errs...); err != nil {
		return withHint(fmt.Errorf("sync failed: %w", err))
	}
	return nil
}

// prune deletes every ledger path not in present.
func prune(ctx context.Context, present []string) (int, error) {
	states, err := syncService.Status(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading ledger: %w", err)
	}

	keep := make(map[string]bool, len(present))
	for _, p := range present {
		keep[p] = true
	}

	var errs []error
	removed := 0
	for _, s := range states {
		if keep[s.Path] {
			continue
		}
		logger.Debug("pruning %s", s.Path)
		if err := syncService.Delete(ctx, s.Path); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
