// Package uploads stores user-supplied images on local disk under random names.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the public path under which stored files are served
const URLPrefix = "/uploads/"

var (
	// ErrNotImage is returned for uploads whose content type is not image/*
	ErrNotImage = errors.New("only image uploads are accepted")
	// ErrTooLarge is returned when an upload exceeds the configured size
	ErrTooLarge = errors.New("upload too large")
)

// Store writes uploads into a directory
type Store struct {
	dir     string
	maxSize int64
}

// NewStore creates the directory if needed. maxSize <= 0 means unlimited.
func NewStore(dir string, maxSize int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Store{dir: dir, maxSize: maxSize}, nil
}

// Dir returns the storage directory
func (s *Store) Dir() string {
	return s.dir
}

// SaveImage stores the uploaded file and returns its public URL
func (s *Store) SaveImage(fh *multipart.FileHeader) (string, error) {
	if !strings.HasPrefix(strings.ToLower(fh.Header.Get("Content-Type")), "image/") {
		return "", ErrNotImage
	}
	if s.maxSize > 0 && fh.Size > s.maxSize {
		return "", ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + safeExt(fh.Filename)
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return URLPrefix + name, nil
}

// safeExt keeps a short alphanumeric extension from the client filename
func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
