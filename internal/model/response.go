package model

import "time"

// Response is the envelope shared by all JSON API responses.
type Response struct {
	Success          bool     `json:"success"`
	Data             any      `json:"data,omitempty"`
	Message          string   `json:"message"`
	ValidationErrors []string `json:"validation_errors,omitempty"`
}

// OK wraps data in a successful envelope.
func OK(data any, message string) Response {
	return Response{Success: true, Data: data, Message: message}
}

// Fail builds a failed envelope with no data.
func Fail(message string) Response {
	return Response{Success: false, Message: message}
}

// ValidationFail builds a failed envelope carrying per-field error strings.
func ValidationFail(message string, errs []string) Response {
	return Response{Success: false, Message: message, ValidationErrors: errs}
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ScanResponse describes a scan record. Scans are mock, non-persistent data.
type ScanResponse struct {
	ID        string    `json:"id"`
	Data      string    `json:"data"`
	Format    string    `json:"format"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

// UploadResponse describes an uploaded file to API clients.
type UploadResponse struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"file_size"`
	ContentType string    `json:"content_type,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Status      string    `json:"status"`
	Backend     Backend   `json:"storage_type"`
	DownloadURL string    `json:"download_url,omitempty"`
}

// NewUploadResponse projects a StoredFile into its API form.
func NewUploadResponse(f StoredFile) UploadResponse {
	return UploadResponse{
		ID:          f.ID,
		Filename:    f.Filename,
		Size:        f.Size,
		ContentType: f.ContentType,
		Timestamp:   f.CreatedAt,
		Status:      "uploaded",
		Backend:     f.Backend,
		DownloadURL: f.DownloadURL,
	}
}

// FileListResponse is returned by GET /files.
type FileListResponse struct {
	Files      []UploadResponse `json:"files"`
	TotalCount int              `json:"total_count"`
}

// FileURLResponse is returned by GET /files/:id/url.
// ExpiresAt is omitted for local files, whose download links do not expire.
type FileURLResponse struct {
	ID          string     `json:"id"`
	Filename    string     `json:"filename"`
	DownloadURL string     `json:"download_url"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// SummarizeResponse is returned by POST /summarize.
type SummarizeResponse struct {
	ID              string    `json:"id"`
	OriginalContent string    `json:"original_content"`
	Summary         string    `json:"summary"`
	OriginalLength  int       `json:"original_length"`
	SummaryLength   int       `json:"summary_length"`
	Timestamp       time.Time `json:"timestamp"`
}

// TokenUsage reports token accounting from the chat-completion API.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletionResponse is returned by POST /chat/completion.
type ChatCompletionResponse struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	Model     string     `json:"model"`
	Usage     TokenUsage `json:"usage"`
	Timestamp time.Time  `json:"timestamp"`
}

// AuthResponse bundles a user with a freshly issued bearer token.
type AuthResponse struct {
	User      UserInfo  `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CleanupResponse is returned by POST /files/cleanup.
type CleanupResponse struct {
	DeletedCount int `json:"deleted_count"`
}
