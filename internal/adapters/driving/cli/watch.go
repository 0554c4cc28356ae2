package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vecsync/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the index in step with the vault",
	Long: `Watches the vault and syncs changes as they happen until interrupted.

New notes are synced at once. Edits are synced when a note has been quiet
for the sync.debounce_ms period. Renames and deletions remove the old
note's chunks, including every note in a renamed or removed folder. Pending
edits are discarded on exit; run "vecsync sync
--skip-unchanged" to catch up.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if watchFunc == nil {
		return errNotConfigured("vault watcher")
	}

	prev := logger.Timestamps()
	logger.SetTimestamps(true)
	defer logger.SetTimestamps(prev)

	fmt.Fprintln(cmd.OutOrStdout(), "Watching for changes. Press Ctrl+C to stop.")
	err := watchFunc(cmd.Context())
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(cmd.OutOrStdout(), "Stopped.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
