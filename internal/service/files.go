package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickscan/internal/model"
	"quickscan/internal/registry"
	"quickscan/internal/storage"
)

var (
	ErrNotFound     = errors.New("file not found")
	ErrFileTooLarge = errors.New("file size exceeds 10MB limit")
	ErrEmptyUpload  = errors.New("no file found in upload")
)

// MaxUploadSize is enforced before any backend write happens.
const MaxUploadSize = 10 * 1024 * 1024

// FileService defines the use cases for uploaded files: persistence via
// the storage backend plus bookkeeping in the in-memory registry.
type FileService interface {
	// Upload validates and stores the bytes, then registers the file.
	Upload(ctx context.Context, filename, contentType string, data []byte) (*model.StoredFile, error)

	// List returns a snapshot of all registered files.
	List(ctx context.Context) []model.StoredFile

	// Download returns the file's metadata and its full content.
	Download(ctx context.Context, id string) (model.StoredFile, []byte, error)

	// DownloadURL returns the file's metadata and a download link with the
	// given expiry (ignored for local files, which never expire).
	DownloadURL(ctx context.Context, id string, expiry time.Duration) (model.StoredFile, string, error)

	// Delete removes the bytes from the backend and, only if that
	// succeeds, drops the registry entry.
	Delete(ctx context.Context, id string) error

	// Cleanup sweeps expired local files and returns the count deleted.
	Cleanup(maxAgeHours int) (int, error)
}

type fileService struct {
	store storage.Storage
	reg   *registry.Registry
}

// NewFileService constructs a FileService over the given backend and registry.
func NewFileService(store storage.Storage, reg *registry.Registry) FileService {
	return &fileService{store: store, reg: reg}
}

func (s *fileService) Upload(ctx context.Context, filename, contentType string, data []byte) (*model.StoredFile, error) {
	if filename == "" || len(data) == 0 {
		return nil, ErrEmptyUpload
	}
	if len(data) > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	f, err := s.store.Store(ctx, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	s.reg.Put(*f)
	return f, nil
}

func (s *fileService) List(ctx context.Context) []model.StoredFile {
	return s.reg.List()
}

func (s *fileService) Download(ctx context.Context, id string) (model.StoredFile, []byte, error) {
	f, ok := s.reg.Get(id)
	if !ok {
		return model.StoredFile{}, nil, ErrNotFound
	}

	data, err := s.store.Retrieve(ctx, f)
	if err != nil {
		return model.StoredFile{}, nil, fmt.Errorf("retrieve file: %w", err)
	}
	return f, data, nil
}

func (s *fileService) DownloadURL(ctx context.Context, id string, expiry time.Duration) (model.StoredFile, string, error) {
	f, ok := s.reg.Get(id)
	if !ok {
		return model.StoredFile{}, "", ErrNotFound
	}

	url, err := s.store.DownloadURL(ctx, f, expiry)
	if err != nil {
		return model.StoredFile{}, "", fmt.Errorf("download url: %w", err)
	}
	return f, url, nil
}

func (s *fileService) Delete(ctx context.Context, id string) error {
	f, ok := s.reg.Get(id)
	if !ok {
		return ErrNotFound
	}

	// Backend delete comes first; on failure the registry entry stays so
	// the file is not orphaned from the application's point of view.
	if err := s.store.Delete(ctx, f); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	s.reg.Remove(id)
	return nil
}

func (s *fileService) Cleanup(maxAgeHours int) (int, error) {
	// The sweep runs against the filesystem only; registry entries whose
	// bytes get swept are a known, accepted gap.
	return s.store.SweepExpired(maxAgeHours)
}
