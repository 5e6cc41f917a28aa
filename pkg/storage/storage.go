package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/noah-isme/campus-records-api/pkg/config"
)

// ErrNotFound is returned when a blob key has no stored object.
var ErrNotFound = errors.New("blob not found")

// Blob is an open handle on stored bytes. Callers must close Body.
type Blob struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// BlobStore is a flat key/value store for uploaded file bytes.
type BlobStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, name string) (*Blob, error)
	Delete(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
}

// New builds the blob store selected by configuration.
func New(ctx context.Context, cfg config.StorageConfig) (BlobStore, error) {
	switch cfg.Driver {
	case "", config.StorageDriverLocal:
		return NewLocalStorage(cfg.LocalDir)
	case config.StorageDriverMinio:
		return NewMinioStorage(ctx, cfg.Minio)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// ValidateName rejects keys that could escape the store namespace.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid blob name %q", name)
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("invalid blob name %q", name)
	}
	return nil
}
