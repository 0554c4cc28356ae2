package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

const statusTimeLayout = "2006-01-02 15:04:05"

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the index state of synced notes",
	Long: `Lists the local ledger: every note that was synced, whether its last
sync succeeded, how many chunks it has and when it was synced.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output the ledger as JSON")
	rootCmd.AddCommand(statusCmd)
}

type statusEntry struct {
	Path      string `json:"path"`
	Status    string `json:"status"`
	Chunks    int    `json:"chunks"`
	Hash      string `json:"content_hash,omitempty"`
	LastError string `json:"last_error,omitempty"`
	UpdatedAt string `json:"updated_at"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if syncService == nil {
		return errNotConfigured("sync service")
	}

	states, err := syncService.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading ledger: %w", err)
	}

	out := cmd.OutOrStdout()
	if statusJSON {
		entries := make([]statusEntry, 0, len(states))
		for _, s := range states {
			entries = append(entries, statusEntry{
				Path:      s.Path,
				Status:    string(s.Status),
				Chunks:    s.Chunks,
				Hash:      s.ContentHash,
				LastError: s.LastError,
				UpdatedAt: s.UpdatedAt.UTC().Format(time.RFC3339),
			})
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal ledger: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(states) == 0 {
		fmt.Fprintln(out, "Nothing synced yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tSTATUS\tCHUNKS\tUPDATED\tERROR")
	failed := 0
	for _, s := range states {
		if s.Status == domain.IndexStatusFailed {
			failed++
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			s.Path, s.Status, s.Chunks, s.UpdatedAt.Local().Format(statusTimeLayout), s.LastError)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d notes, %d failed.\n", len(states), failed)
	return nil
}
