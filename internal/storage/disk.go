package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

const maxNameAttempts = 5

// DiskStorage keeps images in a local directory that is created when missing.
type DiskStorage struct {
	dir string
	now func() time.Time
}

func NewDiskStorage(dir string) (*DiskStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("disk storage: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("disk storage: create %s: %w", dir, err)
	}
	return &DiskStorage{dir: dir, now: time.Now}, nil
}

// Dir returns the upload directory.
func (s *DiskStorage) Dir() string { return s.dir }

func (s *DiskStorage) Save(ctx context.Context, originalName string, r io.Reader, size int64, contentType string) (string, error) {
	var (
		f    *os.File
		name string
		err  error
	)
	for i := 0; i < maxNameAttempts; i++ {
		name = GenerateName(originalName, s.now())
		f, err = os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("disk storage: create %s: %w", name, err)
		}
	}
	if err != nil {
		return "", fmt.Errorf("disk storage: no free name after %d attempts: %w", maxNameAttempts, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("disk storage: write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("disk storage: close %s: %w", name, err)
	}
	return name, nil
}

func (s *DiskStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ValidateName(name); err != nil {
		return nil, ErrNotFound
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("disk storage: open %s: %w", name, err)
	}
	if st, err := f.Stat(); err != nil || st.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}
	return f, nil
}

func (s *DiskStorage) Remove(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("disk storage: remove %s: %w", name, err)
	}
	return nil
}

// Ping checks that the upload directory still exists.
func (s *DiskStorage) Ping(ctx context.Context) error {
	fi, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}
