package mcp

import (
	"context"
	"sort"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
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

// mockSyncService is a mock implementation of driving.SyncService.
type mockSyncService struct {
	states    []domain.IndexState
	syncErr   error
	deleteErr error
	statusErr error

	synced  map[string]string
	deleted []string
}

func (m *mockSyncService) Sync(_ context.Context, path, content string) error {
	if m.synced == nil {
		m.synced = make(map[string]string)
	}
	m.synced[path] = content
	return m.syncErr
}

func (m *mockSyncService) Delete(_ context.Context, path string) error {
	m.deleted = append(m.deleted, path)
	return m.deleteErr
}

func (m *mockSyncService) SyncAll(
	_ context.Context, docs []domain.Document, _ domain.SyncOptions,
) (domain.SyncReport, error) {
	return domain.SyncReport{Synced: len(docs)}, m.syncErr
}

func (m *mockSyncService) Status(_ context.Context) ([]domain.IndexState, error) {
	return m.states, m.statusErr
}

// mockSource is a mock implementation of driven.DocumentSource.
type mockSource struct {
	docs    map[string]string
	listErr error
	readErr error
}

func (m *mockSource) List(_ context.Context) ([]string, error) {
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
	if m.readErr != nil {
		return domain.Document{}, m.readErr
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
