package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidName = errors.New("invalid file name")
)

// ImageStore persists uploaded product images under generated names.
type ImageStore interface {
	// Save stores the content and returns the generated name.
	Save(ctx context.Context, originalName string, r io.Reader, size int64, contentType string) (string, error)
	// Open returns the stored content; ErrNotFound when it does not exist.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Remove deletes the stored content; removing a missing name is not an error.
	Remove(ctx context.Context, name string) error
	// Ping reports whether the backend is reachable; used by readiness.
	Ping(ctx context.Context) error
}

var safeExt = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)

// GenerateName builds "<unix nanos><ext>" from the original file name. An
// extension that could not be served back by name is dropped.
func GenerateName(originalName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !safeExt.MatchString(ext) {
		ext = ""
	}
	return fmt.Sprintf("%d%s", now.UnixNano(), ext)
}

// ValidateName rejects names that could escape the store's namespace.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return ErrInvalidName
	}
	return nil
}
