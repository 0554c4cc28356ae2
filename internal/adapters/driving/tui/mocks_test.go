package tui

import (
	"context"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// MockSearchService implements driving.SearchService for testing.
type MockSearchService struct {
	SearchFunc func(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)
}

func (m *MockSearchService) Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, topK)
	}
	return nil, nil
}

// MockSyncService implements driving.SyncService for testing.
type MockSyncService struct {
	States []domain.IndexState
	Report domain.SyncReport
}

func (m *MockSyncService) Sync(context.Context, string, string) error { return nil }

func (m *MockSyncService) Delete(context.Context, string) error { return nil }

func (m *MockSyncService) SyncAll(context.Context, []domain.Document, domain.SyncOptions) (domain.SyncReport, error) {
	return m.Report, nil
}

func (m *MockSyncService) Status(context.Context) ([]domain.IndexState, error) {
	return m.States, nil
}

// MockSource implements driven.DocumentSource for testing.
type MockSource struct {
	Docs map[string]string
}

func (m *MockSource) List(context.Context) ([]string, error) {
	paths := make([]string, 0, len(m.Docs))
	for p := range m.Docs {
		paths = append(paths, p)
	}
	return paths, nil
}

func (m *MockSource) Read(_ context.Context, path string) (domain.Document, error) {
	content, ok := m.Docs[path]
	if !ok {
		return domain.Document{}, domain.ErrNotFound
	}
	return domain.Document{Path: path, Content: content}, nil
}

func (m *MockSource) Exists(path string) bool {
	_, ok := m.Docs[path]
	return ok
}
