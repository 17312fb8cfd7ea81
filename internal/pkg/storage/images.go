package storage

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedImage = errors.New("only image files are allowed")
	ErrImageTooLarge    = errors.New("image is too large")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ImageStore places uploaded event images under Dir/events and serves them from
// /uploads/events.
type ImageStore struct {
	dir     string
	maxSize int64
}

func NewImageStore(dir string, maxSize int64) *ImageStore {
	return &ImageStore{
		dir:     dir,
		maxSize: maxSize,
	}
}

// Prepare validates the upload and returns where to write it on disk together with
// the public path to store on the event.
func (s *ImageStore) Prepare(file *multipart.FileHeader) (dst, publicPath string, err error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", "", ErrUnsupportedImage
	}
	if s.maxSize > 0 && file.Size > s.maxSize {
		return "", "", ErrImageTooLarge
	}

	dir := filepath.Join(s.dir, "events")
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("os.MkdirAll -> %w", err)
	}

	name := uuid.NewString() + ext

	return filepath.Join(dir, name), path.Join("/uploads", "events", name), nil
}

// Remove deletes an image previously returned by Prepare. Paths outside /uploads/events,
// such as the default image, are left alone.
func (s *ImageStore) Remove(publicPath string) error {
	const prefix = "/uploads/events/"
	if !strings.HasPrefix(publicPath, prefix) {
		return nil
	}
	name := path.Base(publicPath)
	if name != strings.TrimPrefix(publicPath, prefix) {
		return nil
	}

	if err := os.Remove(filepath.Join(s.dir, "events", name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("os.Remove -> %w", err)
	}

	return nil
}
