package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <path>...",
	Short: "Remove notes from the index",
	Long: `Removes every indexed chunk of the given notes and their ledger entries.
The files in the vault are not touched. Removing a note that is not indexed
is not an error.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if syncService == nil {
		return errNotConfigured("sync service")
	}

	var errs []error
	for _, arg := range args {
		path := domain.NormalisePath(arg)
		if err := syncService.Delete(cmd.Context(), path); err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", path)
	}

	if err := errors.Join(errs...); err != nil {
		return withHint(fmt.Errorf("delete failed: %w", err))
	}
	return nil
}
