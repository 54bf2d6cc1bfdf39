// Package storage persists uploaded product images and hands back the
// retrieval references stored on product records. Two providers are
// supported: local disk (served as static files) and S3.
package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage stores uploaded image files and returns opaque retrieval
// references (a URL or path) for them.
type Storage interface {
	// Save stores the uploaded file and returns its retrieval reference.
	Save(ctx context.Context, file *multipart.FileHeader) (string, error)
	// Remove deletes a previously stored file by its retrieval reference.
	Remove(ctx context.Context, ref string) error
}

// Config holds storage provider settings.
type Config struct {
	Provider   string // "local" or "s3"
	Dir        string // local: directory files are written to
	PublicPath string // local: URL prefix the directory is served under

	Bucket    string // s3
	Region    string // s3
	AccessKey string // s3
	SecretKey string // s3
}

// New creates a Storage for the configured provider.
func New(cfg Config) (Storage, error) {
	switch cfg.Provider {
	case "local":
		return NewLocalStorage(cfg.Dir, cfg.PublicPath)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Provider)
	}
}

// Image formats accepted for upload.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// objectName validates the upload's extension and returns a fresh unique
// filename preserving it.
func objectName(originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported image format %q (allowed: jpg, jpeg, png, webp)", ext)
	}
	return uuid.New().String() + ext, nil
}
