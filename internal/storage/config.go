package storage

import (
	"context"
	"fmt"
)

// MinIOConfig holds MinIO connection configuration
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// Options selects and configures an ImageStore backend.
type Options struct {
	Backend string // "disk" (default) or "minio"
	Dir     string
	MinIO   *MinIOConfig
}

// New builds the ImageStore named by opts.Backend.
func New(ctx context.Context, opts Options) (ImageStore, error) {
	switch opts.Backend {
	case "", "disk":
		s, err := NewDiskStorage(opts.Dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "minio":
		s, err := NewMinIOStorage(ctx, opts.MinIO)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
}
