package object

import (
	"context"
	"io"
)

// ObjectStore receives exported files for archival. Keys use forward slashes.
type ObjectStore interface {
	Save(ctx context.Context, storageKey string, contentType string, r io.Reader) (sizeBytes int64, err error)
}
