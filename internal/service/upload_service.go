package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"toiletadvisor/internal/errors"
)

// MaxFilesPerUpload bounds how many files one upload request may carry.
const MaxFilesPerUpload = 10

// ObjectStore persists uploaded objects and knows their public address.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PublicURL(key string) string
}

// UploadService validates images and hands them to object storage.
type UploadService interface {
	Upload(ctx context.Context, userID uuid.UUID, files []*multipart.FileHeader) ([]string, error)
}

type uploadService struct {
	store    ObjectStore
	maxBytes int64
}

// NewUploadService creates an upload service accepting files of at most maxBytes.
func NewUploadService(store ObjectStore, maxBytes int64) UploadService {
	return &uploadService{store: store, maxBytes: maxBytes}
}

type image struct {
	data []byte
	mime *mimetype.MIME
}

// Upload checks every file before storing any of them and returns the public
// URLs in request order.
func (s *uploadService) Upload(ctx context.Context, userID uuid.UUID, files []*multipart.FileHeader) ([]string, error) {
	switch {
	case len(files) == 0:
		return nil, errors.ErrNoFiles
	case len(files) > MaxFilesPerUpload:
		return nil, errors.ErrTooManyFiles
	}

	images := make([]image, 0, len(files))
	for _, fh := range files {
		img, err := s.read(fh)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		key := fmt.Sprintf("uploads/%s/%s%s", userID, uuid.New(), img.mime.Extension())
		if err := s.store.Put(ctx, key, bytes.NewReader(img.data), int64(len(img.data)), img.mime.String()); err != nil {
			return nil, fmt.Errorf("store %s: %w", key, err)
		}
		urls = append(urls, s.store.PublicURL(key))
	}
	return urls, nil
}

func (s *uploadService) read(fh *multipart.FileHeader) (image, error) {
	if fh.Size > s.maxBytes {
		return image{}, errors.ErrFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return image{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.maxBytes+1))
	if err != nil {
		return image{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	if int64(len(data)) > s.maxBytes {
		return image{}, errors.ErrFileTooLarge
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return image{}, errors.ErrUnsupportedMedia
	}
	return image{data: data, mime: mime}, nil
}
