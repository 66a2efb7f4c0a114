// Package storage persists uploaded recipe images and returns their public URLs.
package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"foodgram-backend/apperr"
	"foodgram-backend/config"

	"github.com/google/uuid"
)

const MaxImageBytes = 10 << 20

type ImageStore interface {
	Save(ctx context.Context, data []byte) (string, error)
}

func New(ctx context.Context, cfg config.StorageConfig) (ImageStore, error) {
	switch cfg.Backend {
	case "s3":
		store, err := NewS3Store(cfg.S3)
		if err != nil {
			return nil, err
		}
		if err := store.ensureBucket(ctx); err != nil {
			return nil, fmt.Errorf("ensure bucket %s: %w", cfg.S3.Bucket, err)
		}
		return store, nil
	case "local", "":
		return NewLocalStore(cfg.UploadDir, cfg.PublicURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// Sniff detects the image type from content, ignoring whatever the client
// claimed.
func Sniff(data []byte) (contentType, ext string, err error) {
	if len(data) == 0 {
		return "", "", apperr.Validation("image is empty")
	}
	if len(data) > MaxImageBytes {
		return "", "", apperr.Validation("image is too large")
	}
	contentType = http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", "", apperr.Validation("only JPEG, PNG and GIF images are allowed")
	}
	return contentType, ext, nil
}

// DecodeDataURI accepts "data:image/png;base64,<payload>" or bare base64.
func DecodeDataURI(s string) ([]byte, error) {
	payload := strings.TrimSpace(s)
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx < 0 || !strings.HasSuffix(payload[:idx], ";base64") {
			return nil, apperr.Validation("image must be a base64 data URI")
		}
		payload = payload[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperr.Validation("image is not valid base64")
	}
	return data, nil
}

func objectName(ext string) string {
	return uuid.NewString() + ext
}
