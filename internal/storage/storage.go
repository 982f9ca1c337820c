package storage

// Package storage implements file persistence over two backend variants:
// the local filesystem and an S3-compatible remote object store. Every
// operation dispatches on the StoredFile's backend tag, never on the
// process's active backend configuration, so files written under one
// configuration remain reachable after the configuration changes.

import (
	"context"
	"errors"
	"time"

	"quickscan/internal/model"
)

var (
	// ErrExternal marks failures of the remote object store service.
	ErrExternal = errors.New("external storage service error")
	// ErrStorage marks local I/O failures and unreadable stored bytes.
	ErrStorage = errors.New("storage error")
	// ErrNotConfigured is returned when a remote-tagged file is touched
	// but no object store client was configured.
	ErrNotConfigured = errors.New("object storage not configured")
)

// Storage is the capability set shared by both backend variants.
type Storage interface {
	// Store persists the bytes under a fresh id on the active backend and
	// returns the resulting metadata record.
	Store(ctx context.Context, filename, contentType string, data []byte) (*model.StoredFile, error)
	// Retrieve reads back the full content of a stored file.
	Retrieve(ctx context.Context, f model.StoredFile) ([]byte, error)
	// Delete removes the file's bytes from its backend.
	Delete(ctx context.Context, f model.StoredFile) error
	// DownloadURL returns a link for the file. Local files get a stable
	// internal API path; remote files get a presigned URL with the given
	// expiry, degrading to the long-lived public URL if presigning fails.
	DownloadURL(ctx context.Context, f model.StoredFile, expiry time.Duration) (string, error)
	// SweepExpired deletes local files whose modification time is strictly
	// older than maxAgeHours and returns the count deleted. It is a no-op
	// returning 0 when the active backend is not the local filesystem.
	SweepExpired(maxAgeHours int) (int, error)
}

// SanitizeFilename replaces every character outside [A-Za-z0-9._-] with an
// underscore, defusing path traversal in user-supplied names.
func SanitizeFilename(name string) string {
	out := []rune(name)
	for i, r := range out {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '_' || r == '-':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}
