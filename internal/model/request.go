package model

import (
	"fmt"
	"net/mail"
)

// Request DTOs carry explicit field constraints. Each type exposes a
// Validate method returning one "field: message" string per violation;
// an empty slice means the request is well formed.

var scanFormats = []string{"text", "qr", "barcode", "ocr"}

var chatModels = []string{"gpt-3.5-turbo", "gpt-4", "gpt-4-turbo", "gpt-4o", "gpt-4o-mini"}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r RegisterRequest) Validate() []string {
	var errs []string
	if !validEmail(r.Email) {
		errs = append(errs, "email: must be a valid email address")
	}
	if len(r.Password) < 8 || len(r.Password) > 128 {
		errs = append(errs, "password: must be between 8 and 128 characters")
	}
	if r.ConfirmPassword != r.Password {
		errs = append(errs, "confirm_password: passwords do not match")
	}
	return errs
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() []string {
	var errs []string
	if !validEmail(r.Email) {
		errs = append(errs, "email: must be a valid email address")
	}
	if r.Password == "" {
		errs = append(errs, "password: is required")
	}
	return errs
}

// TokenLoginRequest is the body of POST /auth/token.
type TokenLoginRequest struct {
	Token string `json:"token"`
}

func (r TokenLoginRequest) Validate() []string {
	if r.Token == "" {
		return []string{"token: is required"}
	}
	return nil
}

// VerifyTokenRequest is the body of POST /auth/verify.
type VerifyTokenRequest struct {
	Token string `json:"token"`
}

func (r VerifyTokenRequest) Validate() []string {
	if r.Token == "" {
		return []string{"token: is required"}
	}
	return nil
}

// CreateScanRequest is the body of POST /scans.
type CreateScanRequest struct {
	Data   string `json:"data"`
	Format string `json:"format,omitempty"`
}

func (r CreateScanRequest) Validate() []string {
	var errs []string
	if len(r.Data) < 1 || len(r.Data) > 10000 {
		errs = append(errs, "data: must be between 1 and 10000 characters")
	}
	if r.Format != "" && !contains(scanFormats, r.Format) {
		errs = append(errs, fmt.Sprintf("format: must be one of: %v", scanFormats))
	}
	return errs
}

// SummarizeRequest is the body of POST /summarize.
type SummarizeRequest struct {
	Content   string `json:"content"`
	MaxLength int    `json:"max_length,omitempty"`
}

func (r SummarizeRequest) Validate() []string {
	var errs []string
	if len(r.Content) < 10 || len(r.Content) > 50000 {
		errs = append(errs, "content: must be between 10 and 50000 characters")
	}
	if r.MaxLength != 0 && (r.MaxLength < 50 || r.MaxLength > 2000) {
		errs = append(errs, "max_length: must be between 50 and 2000")
	}
	return errs
}

// ChatCompletionRequest is the body of POST /chat/completion.
type ChatCompletionRequest struct {
	Content      string   `json:"content"`
	Model        string   `json:"model,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	MaxTokens    int      `json:"max_tokens,omitempty"`
	SystemPrompt string   `json:"system_prompt,omitempty"`
}

func (r ChatCompletionRequest) Validate() []string {
	var errs []string
	if len(r.Content) < 1 || len(r.Content) > 50000 {
		errs = append(errs, "content: must be between 1 and 50000 characters")
	}
	if r.Model != "" && !contains(chatModels, r.Model) {
		errs = append(errs, "model: invalid model specified")
	}
	if r.Temperature != nil && (*r.Temperature < 0.0 || *r.Temperature > 2.0) {
		errs = append(errs, "temperature: must be between 0.0 and 2.0")
	}
	if r.MaxTokens != 0 && (r.MaxTokens < 1 || r.MaxTokens > 4096) {
		errs = append(errs, "max_tokens: must be between 1 and 4096")
	}
	return errs
}

func validEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
