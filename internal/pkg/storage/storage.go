package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrFileNotFound = errors.New("file not found")

type FileStorage interface {
	// Upload uploads a file and returns the file path/key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download retrieves a file. A missing key returns ErrFileNotFound.
	Download(ctx context.Context, path string) (io.ReadCloser, error)
}

// NewKey builds a collision-free key under prefix that keeps the extension of
// the original filename.
func NewKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(prefix, fmt.Sprintf("%s%s", uuid.NewString(), ext))
}
