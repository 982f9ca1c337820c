package model

import "time"

// Backend tags a stored file with the storage variant that owns its bytes.
// The tag is fixed at upload time; every later operation dispatches on it,
// never on the process's currently configured backend.
type Backend string

const (
	BackendLocal Backend = "local"
	BackendMinIO Backend = "minio"
)

// StoredFile is the registry's metadata record for one uploaded file.
// StoragePath is backend-specific: an absolute filesystem path for local
// files, an object key for remote ones.
type StoredFile struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"file_size"`
	ContentType string    `json:"content_type,omitempty"`
	StoragePath string    `json:"storage_path"`
	Backend     Backend   `json:"storage_type"`
	CreatedAt   time.Time `json:"timestamp"`
	DownloadURL string    `json:"download_url,omitempty"`
}
