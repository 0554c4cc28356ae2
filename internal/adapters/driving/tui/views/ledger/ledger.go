// Package ledger provides the index status view for the TUI.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/vecsync/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vecsync/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
	"github.com/custodia-labs/vecsync/internal/core/ports/driving"
)

var (
	// ErrNoSyncService indicates that no sync service was provided.
	ErrNoSyncService = errors.New("sync service not available")

	// ErrNoSource indicates that no vault was provided to sync from.
	ErrNoSource = errors.New("vault not available")
)

const timeLayout = "2006-01-02 15:04"

// View lists the ledger entry of every synced note and can resync the vault.
type View struct {
	styles      *styles.Styles
	syncService driving.SyncService
	source      driven.DocumentSource
	ctx         context.Context

	states   []domain.IndexState
	selected int
	width    int
	height   int
	loading  bool
	syncing  bool
	err      error
	report   *domain.SyncReport
}

// NewView creates a new ledger view. Either dependency may be nil; the
// view then reports it as unavailable.
func NewView(s *styles.Styles, syncService driving.SyncService, source driven.DocumentSource) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:      s,
		syncService: syncService,
		source:      source,
		ctx:         context.Background(),
		width:       80,
		height:      24,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the ledger.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadLedger()
}

func (v *View) loadLedger() tea.Cmd {
	return func() tea.Msg {
		if v.syncService == nil {
			return messages.LedgerLoaded{Err: ErrNoSyncService}
		}
		states, err := v.syncService.Status(v.ctx)
		return messages.LedgerLoaded{States: states, Err: err}
	}
}

// syncVault reads every document in the vault and syncs the changed ones.
// Documents that cannot be read are counted as failed.
func (v *View) syncVault() tea.Cmd {
	return func() tea.Msg {
		if v.syncService == nil {
			return messages.SyncCompleted{Err: ErrNoSyncService}
		}
		if v.source == nil {
			return messages.SyncCompleted{Err: ErrNoSource}
		}

		paths, err := v.source.List(v.ctx)
		if err != nil {
			return messages.SyncCompleted{Err: fmt.Errorf("listing vault: %w", err)}
		}

		var readErrs []error
		docs := make([]domain.Document, 0, len(paths))
		for _, p := range paths {
			doc, err := v.source.Read(v.ctx, p)
			if err != nil {
				readErrs = append(readErrs, fmt.Errorf("reading %s: %w", p, err))
				continue
			}
			docs = append(docs, doc)
		}

		report, err := v.syncService.SyncAll(v.ctx, docs, domain.SyncOptions{SkipUnchanged: true})
		report.Failed += len(readErrs)
		return messages.SyncCompleted{Report: report, Err: errors.Join(append(readErrs, err)...)}
	}
}

// Update handles messages for the ledger view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.LedgerLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.states = msg.States
			if v.selected >= len(v.states) {
				v.selected = max(len(v.states)-1, 0)
			}
		}
		return v, nil

	case messages.SyncCompleted:
		v.syncing = false
		v.err = msg.Err
		report := msg.Report
		v.report = &report
		v.loading = true
		return v, v.loadLedger()
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.states)-1 {
			v.selected++
		}
	case "r":
		if v.syncing {
			return v, nil
		}
		v.loading = true
		v.err = nil
		return v, v.loadLedger()
	case "s":
		if v.syncing {
			return v, nil
		}
		v.syncing = true
		v.report = nil
		v.err = nil
		return v, v.syncVault()
	}

	return v, nil
}

// View renders the ledger.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Index status"))
	b.WriteString("\n\n")

	switch {
	case v.syncing:
		b.WriteString(v.styles.Warning.Render("Syncing vault..."))
		b.WriteString("\n\n")
	case v.report != nil:
		b.WriteString(v.styles.Success.Render(FormatReport(*v.report)))
		b.WriteString("\n\n")
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading index status..."))
		b.WriteString("\n")
	case len(v.states) == 0:
		b.WriteString(v.styles.Muted.Render("Nothing synced yet. Press s to sync the vault."))
		b.WriteString("\n")
	default:
		b.WriteString(v.renderStates())
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("[s] sync vault  [r] refresh  [j/k] navigate  [esc] back"))

	return b.String()
}

func (v *View) renderStates() string {
	var b strings.Builder

	visible := max(v.height-12, 1)
	start := 0
	if v.selected >= visible {
		start = v.selected - visible + 1
	}
	end := min(start+visible, len(v.states))

	pathWidth := max(v.width-40, 20)
	for i := start; i < end; i++ {
		state := v.states[i]
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		path := state.Path
		if len([]rune(path)) > pathWidth {
			path = "..." + string([]rune(path)[len([]rune(path))-pathWidth+3:])
		}

		pathCol := fmt.Sprintf("%s%-*s", indicator, pathWidth, path)
		if i == v.selected {
			pathCol = v.styles.Selected.Render(pathCol)
		} else {
			pathCol = v.styles.Path.Render(pathCol)
		}

		status := v.styles.IndexStatus(state.Status).Render(fmt.Sprintf("%-8s", state.Status))
		detail := v.styles.Muted.Render(fmt.Sprintf("%3d chunks  %s", state.Chunks, state.UpdatedAt.Local().Format(timeLayout)))

		b.WriteString(pathCol + "  " + status + "  " + detail + "\n")
	}

	if sel := v.SelectedState(); sel != nil && sel.LastError != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render("Last error: " + sel.LastError))
		b.WriteString("\n")
	}

	return b.String()
}

// FormatReport renders a sync report as one sentence.
func FormatReport(r domain.SyncReport) string {
	return fmt.Sprintf("Synced %d, skipped %d, failed %d.", r.Synced, r.Skipped, r.Failed)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// States returns the loaded ledger entries.
func (v *View) States() []domain.IndexState {
	return v.states
}

// SelectedIndex returns the currently selected entry index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedState returns the selected entry, or nil if the ledger is empty.
func (v *View) SelectedState() *domain.IndexState {
	if v.selected < 0 || v.selected >= len(v.states) {
		return nil
	}
	return &v.states[v.selected]
}

// Report returns the result of the last vault sync, if any.
func (v *View) Report() *domain.SyncReport {
	return v.report
}

// Syncing reports whether a vault sync is running.
func (v *View) Syncing() bool {
	return v.syncing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
