package minio

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	MaxImageSize  = 5 << 20
	MaxImageFiles = 5
)

var ErrUnsupportedImage = apperr.ErrUnsupportedImage

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageExtension sniffs data and returns the file extension for supported
// image types.
func ImageExtension(data []byte) (string, error) {
	if len(data) == 0 || len(data) > MaxImageSize {
		return "", ErrUnsupportedImage
	}
	contentType := http.DetectContentType(data)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", ErrUnsupportedImage
	}
	return ext, nil
}

type S3Storage struct {
	client   *minio.Client
	bucket   string
	endpoint string
	log      logger.Logger
}

func NewS3Storage(ctx context.Context, cfg config.MinIOConfig, log logger.Logger) (*S3Storage, error) {
	log = log.Named("S3Storage")
	log.Infow("Initializing MinIO storage", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket, "use_ssl", cfg.UseSSL)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		exists, errBucketExists := client.BucketExists(ctx, cfg.Bucket)
		if errBucketExists != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", cfg.Bucket, err, errBucketExists)
		}
		log.Infof("Bucket %s already exists", cfg.Bucket)
	}

	return &S3Storage{
		client:   client,
		bucket:   cfg.Bucket,
		endpoint: client.EndpointURL().String(),
		log:      log,
	}, nil
}

// Upload stores data under prefix/<uuid><ext> and returns its public URL.
func (s *S3Storage) Upload(ctx context.Context, prefix string, data []byte) (string, error) {
	ext, err := ImageExtension(data)
	if err != nil {
		return "", err
	}
	objectKey := fmt.Sprintf("%s/%s%s", strings.Trim(prefix, "/"), uuid.New().String(), ext)

	info, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: http.DetectContentType(data),
	})
	if err != nil {
		s.log.Errorw("PutObject failed", "bucket", s.bucket, "key", objectKey, "error", err)
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", objectKey, s.bucket, err)
	}

	s.log.Infow("File uploaded", "key", info.Key, "size", info.Size)
	return s.objectURL(objectKey), nil
}

// Delete removes the object behind a URL previously returned by Upload.
// URLs that do not point into the bucket are ignored.
func (s *S3Storage) Delete(ctx context.Context, url string) error {
	key, ok := s.objectKey(url)
	if !ok {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}
	return nil
}

func (s *S3Storage) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
}

func (s *S3Storage) objectKey(url string) (string, bool) {
	prefix := fmt.Sprintf("%s/%s/", s.endpoint, s.bucket)
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}
