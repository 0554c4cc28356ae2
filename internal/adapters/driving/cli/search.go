package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// previewWidth bounds the one-line preview printed for each result.
const previewWidth = 120

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed notes",
	Long: `Finds the note chunks most similar in meaning to the query.
The query is embedded by the database and compared against every chunk.
Results are printed in the order the index ranks them; one note may
contribute several chunks.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = search.top_k setting)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errNotConfigured("search service")
	}
	if searchLimit < 0 {
		return fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidInput)
	}

	out := cmd.OutOrStdout()
	results, err := searchService.Search(cmd.Context(), args[0], searchLimit)
	if err != nil {
		if !searchJSON {
			fmt.Fprintln(out, "No results found.")
		}
		return withHint(fmt.Errorf("search failed: %w", err))
	}

	if searchJSON {
		return outputSearchJSON(out, results)
	}
	outputSearchText(out, results)
	return nil
}

func outputSearchJSON(w io.Writer, results []domain.SearchResult) error {
	if results == nil {
		results = []domain.SearchResult{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func outputSearchText(w io.Writer, results []domain.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintln(w, "Results:")
	fmt.Fprintln(w)
	for i, r := range results {
		fmt.Fprintf(w, "  [%d] %s#%d\n", i+1, r.Path, r.ChunkIndex)
		if preview := r.Preview(previewWidth); preview != "" {
			fmt.Fprintf(w, "      %s\n", preview)
		}
		fmt.Fprintln(w)
	}
}
