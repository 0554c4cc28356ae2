package cli

import (
	"bytes"
	"context"
	"sort"
	"testing"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// mockSearchService records the last query.
type mockSearchService struct {
	results []domain.SearchResult
	err     error

	query string
	topK  int
}

func (m *mockSearchService) Search(_ context.Context, query string, topK int) ([]domain.SearchResult, error) {
	m.query = query
	m.topK = topK
	return m.results, m.err
}

// mockSyncService records every call.
type mockSyncService struct {
	states    []domain.IndexState
	statusErr error
	report    domain.SyncReport
	syncErr   error
	deleteErr map[string]error

	synced  []domain.Document
	opts    domain.SyncOptions
	deleted []string
}

func (m *mockSyncService) Sync(context.Context, string, string) error { return nil }

func (m *mockSyncService) Delete(_ context.Context, path string) error {
	if err := m.deleteErr[path]; err != nil {
		return err
	}
	m.deleted = append(m.deleted, path)
	return nil
}

func (m *mockSyncService) SyncAll(
	_ context.Context,
	docs []domain.Document,
	opts domain.SyncOptions,
) (domain.SyncReport, error) {
	m.synced = docs
	m.opts = opts
	return m.report, m.syncErr
}

func (m *mockSyncService) Status(context.Context) ([]domain.IndexState, error) {
	return m.states, m.statusErr
}

// mockSource is a vault held in memory.
type mockSource struct {
	docs    map[string]string
	listErr error
	readErr map[string]error
}

func (m *mockSource) List(context.Context) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	paths := make([]string, 0, len(m.docs))
	for p := range m.docs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

func (m *mockSource) Read(_ context.Context, path string) (domain.Document, error) {
	if err := m.readErr[path]; err != nil {
		return domain.Document{}, err
	}
	content, ok := m.docs[path]
	if !ok {
		return domain.Document{}, domain.ErrNotFound
	}
	return domain.Document{Path: path, Content: content}, nil
}

func (m *mockSource) Exists(path string) bool {
	_, ok := m.docs[path]
	return ok
}

// mockSettingsService stores raw values.
type mockSettingsService struct {
	settings domain.AppSettings
	values   map[string]string
	setErr   error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) ConnectionSettings() (domain.ConnectionSettings, error) {
	return m.settings.Connection, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) Unset(key string) error {
	delete(m.values, key)
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"index.endpoint", "index.token"}
}

// testServices bundles the mocks installed by setupTestServices.
type testServices struct {
	search   *mockSearchService
	sync     *mockSyncService
	source   *mockSource
	settings *mockSettingsService
}

// setupTestServices installs fresh mocks and resets flag values.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()
	ts := &testServices{
		search:   &mockSearchService{},
		sync:     &mockSyncService{},
		source:   &mockSource{docs: map[string]string{}},
		settings: &mockSettingsService{settings: domain.DefaultAppSettings()},
	}
	SetServices(&Services{
		Settings: ts.settings,
		Sync:     ts.sync,
		Search:   ts.search,
		Source:   ts.source,
	})
	resetFlags()
	t.Cleanup(func() {
		SetServices(nil)
		resetFlags()
	})
	return ts
}

func resetFlags() {
	searchLimit = 0
	searchJSON = false
	syncSkipUnchanged = false
	syncPrune = true
	statusJSON = false
	flagVerbose = false
	flagVault = ""
	flagConfigDir = ""
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}
