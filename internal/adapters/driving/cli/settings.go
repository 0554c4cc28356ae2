package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/vecsync/internal/core/services"
)

// readSecret reads a secret from the terminal without echo.
var readSecret = readPassword

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change how vecsync reaches the index and syncs the vault.

Settings are stored in config.toml in the config directory. The environment
variables VECSYNC_ENDPOINT, VECSYNC_TOKEN, VECSYNC_KEYSPACE and VECSYNC_TABLE
override stored values, and may be placed in a .env file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting. Keys:

  index.endpoint             database URL, e.g. https://<id>-<region>.apps.astra.datastax.com
  index.token                application token (prefer "settings token")
  index.keyspace             keyspace holding the table
  index.table                table holding note chunks
  index.timeout_secs         per-request timeout
  index.requests_per_second  client-side rate limit
  sync.debounce_ms           quiet period after an edit before it is synced
  sync.extensions            comma separated file extensions, e.g. md,txt
  search.top_k               default number of search results`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Restore the default of a setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsUnset,
}

var settingsTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Store the index token",
	Long:  `Prompts for the application token without echoing it and stores it.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsToken,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsUnsetCmd)
	settingsCmd.AddCommand(settingsTokenCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings service")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Current Settings")
	fmt.Fprintln(out, "================")
	fmt.Fprintln(out)

	c := settings.Connection
	fmt.Fprintln(out, "[Index]")
	fmt.Fprintf(out, "  Endpoint: %s\n", orNotSet(c.Endpoint))
	if c.Token != "" {
		fmt.Fprintf(out, "  Token: %s\n", maskAPIKey(c.Token))
	} else {
		fmt.Fprintln(out, "  Token: (not set)")
	}
	fmt.Fprintf(out, "  Keyspace: %s\n", c.Keyspace)
	fmt.Fprintf(out, "  Table: %s\n", c.Table)
	fmt.Fprintf(out, "  Timeout: %s\n", c.Timeout())
	fmt.Fprintf(out, "  Rate limit: %d requests/s\n", c.RequestsPerSecond)
	status := "configured"
	if err := c.Validate(); err != nil {
		status = "not configured (" + err.Error() + ")"
	}
	fmt.Fprintf(out, "  Status: %s\n", status)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[Sync]")
	fmt.Fprintf(out, "  Debounce: %s\n", settings.Sync.Debounce())
	fmt.Fprintf(out, "  Extensions: %s\n", strings.Join(settings.Sync.Extensions, ", "))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[Search]")
	fmt.Fprintf(out, "  Top K: %d\n", settings.Search.TopK)

	if configPath != "" {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Config file: %s\n", configPath)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings service")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	shown := value
	if key == services.KeyToken {
		shown = maskAPIKey(value)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, shown)
	return nil
}

func runSettingsUnset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings service")
	}

	if err := settingsService.Unset(args[0]); err != nil {
		return fmt.Errorf("failed to unset %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])
	return nil
}

func runSettingsToken(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings service")
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, "Token: ")
	token := readSecret(cmd.InOrStdin())
	fmt.Fprintln(out)
	if token == "" {
		return errors.New("token is required")
	}

	if err := settingsService.Set(services.KeyToken, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	fmt.Fprintln(out, "Token stored.")
	return nil
}

// readPassword reads without echo when in is a terminal and falls back to
// a plain line read otherwise.
func readPassword(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	reader := bufio.NewReader(in)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
