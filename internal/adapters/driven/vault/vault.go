package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
)

// Ensure Vault implements the interface.
var _ driven.DocumentSource = (*Vault)(nil)

// Vault reads documents below a root directory.
type Vault struct {
	root       string
	extensions []string
}

// New opens the vault at root. extensions such as ".md" select which files
// are documents; an empty list uses domain.DefaultExtensions.
func New(root string, extensions []string) (*Vault, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("%w: vault path is empty", domain.ErrInvalidInput)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve vault path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: vault %s is not a directory", domain.ErrInvalidInput, abs)
	}

	if len(extensions) == 0 {
		extensions = domain.DefaultExtensions
	}
	exts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}

	return &Vault{root: abs, extensions: exts}, nil
}

// Root returns the absolute vault directory.
func (v *Vault) Root() string {
	return v.root
}

// Matches reports whether a vault-relative path names a document by its
// name alone: not hidden and with a configured extension.
func (v *Vault) Matches(path string) bool {
	path = domain.NormalisePath(path)
	if path == "" || isHidden(path) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range v.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// List returns the paths of all documents, sorted.
func (v *Vault) List(ctx context.Context) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(v.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if p == v.root {
			return nil
		}

		// Skip hidden files and directories
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := v.Rel(p)
		if err != nil {
			return err
		}
		if v.Matches(rel) {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list vault: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Read returns the document at path.
func (v *Vault) Read(ctx context.Context, path string) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}

	rel := domain.NormalisePath(path)
	abs, err := v.Abs(rel)
	if err != nil {
		return domain.Document{}, err
	}
	if !v.Matches(rel) {
		return domain.Document{}, fmt.Errorf("%w: %s is not a document", domain.ErrInvalidInput, rel)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Document{}, fmt.Errorf("%s: %w", rel, domain.ErrNotFound)
		}
		return domain.Document{}, fmt.Errorf("read %s: %w", rel, err)
	}

	return domain.Document{Path: rel, Content: string(data)}, nil
}

// Exists reports whether a document exists at path.
func (v *Vault) Exists(path string) bool {
	rel := domain.NormalisePath(path)
	if !v.Matches(rel) {
		return false
	}
	abs, err := v.Abs(rel)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && info.Mode().IsRegular()
}

// Rel converts a filesystem path inside the vault to a document path.
func (v *Vault) Rel(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(v.root, abs)
	if err != nil {
		return "", err
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is outside the vault", domain.ErrInvalidInput, path)
	}
	return filepath.ToSlash(rel), nil
}

// Abs converts a document path to a filesystem path, rejecting paths that
// would leave the vault.
func (v *Vault) Abs(path string) (string, error) {
	rel := domain.NormalisePath(path)
	if rel == "" {
		return "", fmt.Errorf("%w: empty document path", domain.ErrInvalidInput)
	}
	abs := filepath.Join(v.root, filepath.FromSlash(rel))
	if _, err := v.Rel(abs); err != nil {
		return "", err
	}
	return abs, nil
}

// isHidden reports whether any segment of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part != "." && part != ".." && strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
