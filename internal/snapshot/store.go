// Package snapshot keeps fetched pages on disk so they can be extracted again offline.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/at-ishikawa/kanjidex/internal/fetch"
)

var ErrNotFound = errors.New("snapshot not found")

type Store struct {
	rootDir string
}

func NewStore(directory string) *Store {
	return &Store{
		rootDir: directory,
	}
}

func (s *Store) filePath(kind fetch.PageKind, query string) (string, error) {
	if query == "" || query == "." || query == ".." || strings.ContainsAny(query, `/\`) {
		return "", fmt.Errorf("invalid snapshot name %q", query)
	}
	return filepath.Join(s.rootDir, string(kind), query+".html"), nil
}

// Exists reports whether a page was saved for the query.
func (s *Store) Exists(kind fetch.PageKind, query string) bool {
	path, err := s.filePath(kind, query)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Save writes the page, replacing an older snapshot of the same query.
func (s *Store) Save(kind fetch.PageKind, query string, contents []byte) (string, error) {
	path, err := s.filePath(kind, query)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("os.MkdirAll > %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("os.Create > %w", err)
	}
	if err := writeAndClose(file, contents); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return path, nil
}

// writeAndClose closes w even when the write fails. A close error means the page may be truncated.
func writeAndClose(w io.WriteCloser, contents []byte) error {
	if _, err := w.Write(contents); err != nil {
		_ = w.Close()
		return fmt.Errorf("file.Write > %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("file.Close > %w", err)
	}
	return nil
}

// Load reads a saved page. It returns ErrNotFound when nothing was saved for the query.
func (s *Store) Load(kind fetch.PageKind, query string) ([]byte, error) {
	path, err := s.filePath(kind, query)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s %s: %w", kind, query, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("os.Open > %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	contents, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll > %w", err)
	}
	return contents, nil
}

// Fetch serves a saved page, so a Store can stand in for a fetch.Fetcher when working offline.
func (s *Store) Fetch(ctx context.Context, kind fetch.PageKind, query string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Load(kind, query)
}
