package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"minutes-backend/internal/shared/storage/object"
)

// ErrInvalidKey is returned for keys that are empty, absolute or escape the root.
var ErrInvalidKey = errors.New("invalid storage key")

// Store archives exported documents under a directory on local disk. A file
// only appears at its final path once fully written.
type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root: root}
}

// Save writes r to root/storageKey. The content type is kept next to the file
// in "<name>.type" so an operator can tell PDFs from DOCX without sniffing.
func (s *Store) Save(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	target, err := s.resolve(storageKey)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, fmt.Errorf("create archive dir: %w", err)
	}

	n, err := writeAtomic(target, &ctxReader{ctx: ctx, r: r})
	if err != nil {
		return 0, err
	}
	if contentType != "" {
		if err := os.WriteFile(target+".type", []byte(contentType+"\n"), 0o644); err != nil {
			return n, fmt.Errorf("write content type: %w", err)
		}
	}
	return n, nil
}

func (s *Store) resolve(storageKey string) (string, error) {
	key := strings.TrimSpace(storageKey)
	if key == "" || strings.HasPrefix(key, "/") || filepath.IsAbs(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, storageKey)
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, storageKey)
	}
	return filepath.Join(s.root, clean), nil
}

func writeAtomic(target string, r io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write archive body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close archive body: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return 0, fmt.Errorf("publish archive file: %w", err)
	}
	return n, nil
}

// ctxReader stops a copy once the request is cancelled.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

var _ object.ObjectStore = (*Store)(nil)
