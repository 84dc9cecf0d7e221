// Package storage keeps uploaded post images on local disk or in S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrNotImage = errors.New("uploaded file is not an image")
	ErrTooLarge = errors.New("uploaded file is too large")
)

// MediaStorage stores objects under slash-separated keys such as
// "posts/3f1c....png" and tells where they can be fetched from.
type MediaStorage interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	URL(key string) string
}

// SaveImage checks that file really is an image and stores it under
// dir/<uuid><ext>. It returns the stored key.
func SaveImage(ctx context.Context, s MediaStorage, file *multipart.FileHeader, dir string, maxSize int64) (string, error) {
	if maxSize > 0 && file.Size > maxSize {
		return "", ErrTooLarge
	}
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("detect type: %w", err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", ErrNotImage
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	key := path.Join(dir, uuid.New().String()+mtype.Extension())
	if err := s.Save(ctx, key, src, file.Size, mtype.String()); err != nil {
		return "", err
	}
	return key, nil
}
