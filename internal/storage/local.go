package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"quickscan/internal/model"
)

func (s *Service) storeLocal(filename, contentType string, data []byte) (*model.StoredFile, error) {
	if err := os.MkdirAll(s.tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create temp dir: %v", ErrStorage, err)
	}

	id := uuid.NewString()
	safeName := id + "_" + SanitizeFilename(filename)
	path := filepath.Join(s.tempDir, safeName)

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: write file: %v", ErrStorage, err)
	}

	return &model.StoredFile{
		ID:          id,
		Filename:    filename,
		Size:        int64(len(data)),
		ContentType: contentType,
		StoragePath: abs,
		Backend:     model.BackendLocal,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (s *Service) retrieveLocal(f model.StoredFile) ([]byte, error) {
	data, err := os.ReadFile(f.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("%w: read file: %v", ErrStorage, err)
	}
	return data, nil
}

func (s *Service) deleteLocal(f model.StoredFile) error {
	if err := os.Remove(f.StoragePath); err != nil {
		return fmt.Errorf("%w: remove file: %v", ErrStorage, err)
	}
	return nil
}

// SweepExpired scans the local temp directory and removes files whose
// modification time is strictly older than now minus maxAgeHours. The sweep
// works directly on the filesystem and does not consult the file registry.
func (s *Service) SweepExpired(maxAgeHours int) (int, error) {
	if s.active != model.BackendLocal {
		return 0, nil
	}

	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: read temp dir: %v", ErrStorage, err)
	}

	cutoff := time.Now().Add(-time.Duration(maxAgeHours) * time.Hour)
	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if os.Remove(filepath.Join(s.tempDir, entry.Name())) == nil {
				deleted++
			}
		}
	}
	return deleted, nil
}
