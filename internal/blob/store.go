// Package blob stores the site's images: job photos and gallery uploads.
package blob

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"
)

var ErrObjectNotFound = errors.New("blob object not found")

type Store interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Image formats the photo gallery accepts. SVG is deliberately absent
// since it can carry scripts.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// AllowedImageType reports whether contentType is an image format accepted
// for upload.
func AllowedImageType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return allowedImageTypes[mediaType]
}

type Config struct {
	Backend           string
	FSRoot            string
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3ForcePathStyle  bool
}

func NewFromConfig(ctx context.Context, cfg Config) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = "filesystem"
	}

	switch backend {
	case "filesystem", "fs", "local":
		return NewFilesystemStore(cfg.FSRoot)
	case "s3", "r2":
		return NewS3Store(ctx, S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			ForcePathStyle:  cfg.S3ForcePathStyle,
		})
	default:
		return nil, fmt.Errorf("unsupported blob backend: %s", backend)
	}
}
