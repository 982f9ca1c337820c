package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"quickscan/internal/model"
)

func (s *Service) storeMinIO(ctx context.Context, filename, contentType string, data []byte) (*model.StoredFile, error) {
	if s.client == nil {
		return nil, ErrNotConfigured
	}

	id := uuid.NewString()
	key := id + "/" + SanitizeFilename(filename)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"original-filename": filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: upload object: %v", ErrExternal, err)
	}

	return &model.StoredFile{
		ID:          id,
		Filename:    filename,
		Size:        int64(len(data)),
		ContentType: contentType,
		StoragePath: key,
		Backend:     model.BackendMinIO,
		CreatedAt:   time.Now().UTC(),
		// Public URL by convention; not guaranteed reachable for private buckets.
		DownloadURL: s.publicObjectURL(key),
	}, nil
}

func (s *Service) retrieveMinIO(ctx context.Context, f model.StoredFile) ([]byte, error) {
	if s.client == nil {
		return nil, ErrNotConfigured
	}

	obj, err := s.client.GetObject(ctx, s.bucket, f.StoragePath, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: get object: %v", ErrStorage, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: read object: %v", ErrStorage, err)
	}
	return data, nil
}

func (s *Service) deleteMinIO(ctx context.Context, f model.StoredFile) error {
	if s.client == nil {
		return ErrNotConfigured
	}
	if err := s.client.RemoveObject(ctx, s.bucket, f.StoragePath, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: remove object: %v", ErrExternal, err)
	}
	return nil
}

// downloadURLMinIO asks the object store for a presigned GET URL. On
// failure it falls back to the long-lived public URL instead of failing
// the request; the degraded expiry guarantee is logged.
func (s *Service) downloadURLMinIO(ctx context.Context, f model.StoredFile, expiry time.Duration) (string, error) {
	if s.client == nil {
		return "", ErrNotConfigured
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, f.StoragePath, expiry, url.Values{})
	if err != nil {
		logEvent("warn", "presign_fallback", map[string]any{
			"file_id": f.ID,
			"error":   err.Error(),
		})
		if f.DownloadURL != "" {
			return f.DownloadURL, nil
		}
		return s.publicObjectURL(f.StoragePath), nil
	}
	return u.String(), nil
}

func (s *Service) publicObjectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key)
}
