// Package storage persists uploaded product images under the public static
// directory. Stored paths are relative to that directory so they can be
// served as-is.
package storage

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const productImageDir = "products"

// ImageStore writes product images below a public directory.
type ImageStore struct {
	publicDir string
}

// NewImageStore creates an image store rooted at publicDir, creating the
// product image folder if needed.
func NewImageStore(publicDir string) (*ImageStore, error) {
	dir := filepath.Join(publicDir, productImageDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload folder %s: %w", dir, err)
	}
	return &ImageStore{publicDir: publicDir}, nil
}

// Save writes one uploaded file under products/ with a unique name and
// returns its public-relative path.
func (s *ImageStore) Save(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file %s: %w", file.Filename, err)
	}
	defer src.Close()

	name := uuid.New().String() + sanitizeExt(file.Filename)
	relPath := filepath.ToSlash(filepath.Join(productImageDir, name))
	dst, err := os.Create(filepath.Join(s.publicDir, productImageDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return relPath, nil
}

// SaveAll writes every uploaded file, removing any already-written file when
// a later one fails.
func (s *ImageStore) SaveAll(files []*multipart.FileHeader) ([]string, error) {
	var paths []string
	for _, file := range files {
		path, err := s.Save(file)
		if err != nil {
			s.Remove(paths...)
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Remove deletes stored images by their public-relative paths. Missing files
// are logged and skipped.
func (s *ImageStore) Remove(relPaths ...string) {
	for _, rel := range relPaths {
		full := filepath.Join(s.publicDir, filepath.FromSlash(rel))
		if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
			log.Printf("failed to remove image %s: %v", full, err)
		}
	}
}

// ProductImagePath returns the public-relative path for a stored image file
// name.
func ProductImagePath(imageName string) string {
	return productImageDir + "/" + imageName
}

func sanitizeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	default:
		return ".jpg"
	}
}
