package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/storage"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type mediaService struct {
	store        storage.Store
	baseURL      string
	maxSize      int64
	allowedTypes map[string]bool
}

// NewMediaService serves uploads back under baseURL + "/api/media/{key}".
func NewMediaService(store storage.Store, baseURL string, maxSize int64, allowedTypes []string) MediaService {
	allowed := make(map[string]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[strings.ToLower(t)] = true
	}
	return &mediaService{
		store:        store,
		baseURL:      strings.TrimRight(baseURL, "/"),
		maxSize:      maxSize,
		allowedTypes: allowed,
	}
}

func (s *mediaService) Upload(ctx context.Context, filename, contentType string, size int64, r io.Reader) (string, error) {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	ext, known := imageExtensions[contentType]
	if !known || !s.allowedTypes[contentType] {
		return "", domain.ErrUnsupportedMedia
	}
	if s.maxSize > 0 && size > s.maxSize {
		return "", domain.ErrUnsupportedMedia.WithMessage(fmt.Sprintf("File must be at most %d MB", s.maxSize>>20))
	}

	// guard against a lying size header
	if s.maxSize > 0 {
		r = io.LimitReader(r, s.maxSize)
	}
	key, err := s.store.Save(ctx, ext, r)
	if err != nil {
		return "", internalError(ctx, "save media", err)
	}
	logger.InfoContext(ctx, "Media uploaded", "key", key, "filename", filename, "size", size)
	return s.baseURL + "/api/media/" + key, nil
}

func (s *mediaService) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	rc, err := s.store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			return nil, "", domain.ErrMediaNotFound
		}
		return nil, "", internalError(ctx, "open media", err)
	}
	return rc, contentTypeFor(key), nil
}

func contentTypeFor(key string) string {
	ext := strings.ToLower(filepath.Ext(key))
	for ct, e := range imageExtensions {
		if e == ext {
			return ct
		}
	}
	if ext == ".jpeg" {
		return "image/jpeg"
	}
	return "application/octet-stream"
}
