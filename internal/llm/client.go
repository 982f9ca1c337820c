package llm

// Package llm talks to an OpenAI-compatible chat-completion API. The API
// is consumed as a black box: requests time out, failures surface to the
// caller, and nothing is retried here.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"quickscan/internal/config"
	"quickscan/internal/model"
)

var (
	// ErrUpstream marks failures reported by the chat-completion API.
	ErrUpstream = errors.New("chat completion API error")
	// ErrTimeout marks requests that exceeded the configured timeout.
	ErrTimeout = errors.New("chat completion request timed out")
)

// Completer is the capability the HTTP layer depends on.
type Completer interface {
	ChatCompletion(ctx context.Context, req model.ChatCompletionRequest) (*Result, error)
	Summarize(ctx context.Context, content string, maxLength int) (string, error)
	AnalyzeScan(ctx context.Context, data, format string) (string, error)
}

// Result is the distilled outcome of one chat completion.
type Result struct {
	Content string
	Model   string
	Usage   model.TokenUsage
}

// Client is an HTTP client for the chat-completion API.
type Client struct {
	httpClient   *http.Client
	apiKey       string
	baseURL      string
	defaultModel string
}

// NewClient builds a client with the configured timeout. Outbound calls
// are traced via otelhttp.
func NewClient(cfg config.OpenAIConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		defaultModel: cfg.DefaultModel,
	}
}

// Wire types for the upstream API.

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// ChatCompletion sends one completion request and returns the first choice.
func (c *Client) ChatCompletion(ctx context.Context, req model.ChatCompletionRequest) (*Result, error) {
	mdl := req.Model
	if mdl == "" {
		mdl = c.defaultModel
	}

	var messages []chatMessage
	if req.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Content})

	body, err := json.Marshal(chatRequest{
		Model:       mdl,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, msg)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}

	content := "No response generated"
	if len(out.Choices) > 0 {
		content = out.Choices[0].Message.Content
	}

	return &Result{
		Content: content,
		Model:   out.Model,
		Usage: model.TokenUsage{
			PromptTokens:     out.Usage.PromptTokens,
			CompletionTokens: out.Usage.CompletionTokens,
			TotalTokens:      out.Usage.TotalTokens,
		},
	}, nil
}

// Summarize asks the model for a summary of roughly maxLength characters.
func (c *Client) Summarize(ctx context.Context, content string, maxLength int) (string, error) {
	if maxLength <= 0 {
		maxLength = 200
	}
	temp := 0.3
	res, err := c.ChatCompletion(ctx, model.ChatCompletionRequest{
		Content:     content,
		Model:       c.defaultModel,
		Temperature: &temp,
		// Rough estimate: one token per three characters
		MaxTokens: maxLength / 3,
		SystemPrompt: fmt.Sprintf(
			"You are a helpful assistant that summarizes text. Please provide a concise summary of the given text in approximately %d characters or less. Focus on the main points and key information.",
			maxLength),
	})
	if err != nil {
		return "", err
	}
	return res.Content, nil
}

// AnalyzeScan asks the model to interpret scan payloads of the given format.
func (c *Client) AnalyzeScan(ctx context.Context, data, format string) (string, error) {
	temp := 0.5
	res, err := c.ChatCompletion(ctx, model.ChatCompletionRequest{
		Content:     fmt.Sprintf("Please analyze this %s data: %s", format, data),
		Model:       c.defaultModel,
		Temperature: &temp,
		MaxTokens:   1000,
		SystemPrompt: fmt.Sprintf(
			"You are an expert at analyzing %s data. Please analyze the provided data and provide insights, extract key information, and identify any patterns or important details.",
			format),
	})
	if err != nil {
		return "", err
	}
	return res.Content, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
