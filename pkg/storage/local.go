package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
)

// LocalStorage writes uploads to a directory on disk. The directory is
// expected to be served statically under publicPath.
type LocalStorage struct {
	dir        string
	publicPath string
}

// NewLocalStorage creates the upload directory if needed.
func NewLocalStorage(dir, publicPath string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &LocalStorage{
		dir:        dir,
		publicPath: publicPath,
	}, nil
}

// Save copies the uploaded file into the upload directory under a unique
// name and returns its public path.
func (s *LocalStorage) Save(ctx context.Context, file *multipart.FileHeader) (string, error) {
	name, err := objectName(file.Filename)
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file %s: %w", file.Filename, err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file for %s: %w", file.Filename, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write uploaded file %s: %w", file.Filename, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to close file for %s: %w", file.Filename, err)
	}

	return path.Join(s.publicPath, name), nil
}

// Remove deletes a stored file by its public path. Only the base name is
// used, so references cannot escape the upload directory.
func (s *LocalStorage) Remove(ctx context.Context, ref string) error {
	name := path.Base(ref)
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("failed to remove stored file %s: %w", name, err)
	}
	return nil
}
