// Package storage keeps uploaded files on the local filesystem.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrUnsupportedType = errors.New("unsupported file type")

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates dir if needed. baseURL is the public prefix the
// files are served under, e.g. http://localhost:8080/uploads.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", dir, err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

// SaveImage copies r into a new file named after a fresh UUID with the
// original extension and returns its public URL.
func (s *LocalStore) SaveImage(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := imageExtensions[ext]; !ok {
		return "", ErrUnsupportedType
	}

	name := uuid.NewString() + ext
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}

	return s.baseURL + "/" + name, nil
}
