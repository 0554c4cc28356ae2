package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for vecsync resources.
	uriScheme = "vecsync://"

	documentsURI = uriScheme + "documents"
)

// documentInfo is one entry of the documents resource.
type documentInfo struct {
	Path   string `json:"path"`
	URI    string `json:"uri"`
	Status string `json:"status,omitempty"`
	Chunks int    `json:"chunks,omitempty"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         documentsURI,
		Name:        "documents",
		Description: "Notes in the vault with their index status",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	// {+path} keeps the slashes of nested notes
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: documentsURI + "/{+path}",
		Name:        "document-content",
		Description: "Content of a note in the vault",
		MIMEType:    "text/markdown",
	}, s.handleDocumentContentResource)
}

// handleDocumentsResource lists vault documents, joined with the ledger.
// Ledger entries for notes no longer in the vault are listed too, so stale
// index content is visible.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	byPath := make(map[string]*documentInfo)
	var order []string
	add := func(path string) *documentInfo {
		if info, ok := byPath[path]; ok {
			return info
		}
		info := &documentInfo{Path: path, URI: documentURI(path)}
		byPath[path] = info
		order = append(order, path)
		return info
	}

	if s.ports.Source != nil {
		paths, err := s.ports.Source.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing documents: %w", err)
		}
		for _, p := range paths {
			add(p)
		}
	}

	if s.ports.Sync != nil {
		states, err := s.ports.Sync.Status(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing index status: %w", err)
		}
		for _, st := range states {
			info := add(st.Path)
			info.Status = string(st.Status)
			info.Chunks = st.Chunks
		}
	}

	infos := make([]documentInfo, 0, len(order))
	for _, p := range order {
		infos = append(infos, *byPath[p])
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentContentResource returns the content of one note.
func (s *Server) handleDocumentContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Source == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	path := extractDocumentPath(req.Params.URI)
	if path == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Source.Read(ctx, path)
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     doc.Content,
		}},
	}, nil
}

// documentURI returns the resource URI of a vault path.
func documentURI(path string) string {
	return documentsURI + "/" + path
}

// extractDocumentPath extracts the path from a URI like
// vecsync://documents/journal/today.md.
func extractDocumentPath(uri string) string {
	const prefix = documentsURI + "/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return domain.NormalisePath(strings.TrimPrefix(uri, prefix))
}
