package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quickscan/internal/auth"
	"quickscan/internal/llm"
	llmMocks "quickscan/internal/llm/mocks"
	"quickscan/internal/model"
	"quickscan/internal/service"
	serviceMocks "quickscan/internal/service/mocks"
)

func newTestApp(t *testing.T) (*fiber.App, *auth.UserStore, *auth.TokenService, *serviceMocks.MockFileService, *llmMocks.MockCompleter) {
	t.Helper()

	users := auth.NewUserStore()
	tokens := auth.NewTokenService("test-secret", 24)
	files := new(serviceMocks.MockFileService)
	completer := new(llmMocks.MockCompleter)

	app := fiber.New(fiber.Config{
		BodyLimit:    service.MaxUploadSize + 1024*1024,
		ErrorHandler: ErrorHandler(),
	})
	RegisterRoutes(app, users, tokens, files, completer)

	return app, users, tokens, files, completer
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) model.Response {
	t.Helper()
	var env model.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	app, _, _, _, _ := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body model.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body.Status)
	assert.False(t, body.Timestamp.IsZero())
}

func TestLivenessProbe(t *testing.T) {
	app, _, _, _, _ := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegister(t *testing.T) {
	app, _, _, _, _ := newTestApp(t)

	t.Run("success", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/register", model.RegisterRequest{
			Email: "a@example.com", Password: "password123", ConfirmPassword: "password123",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.True(t, env.Success)

		data := env.Data.(map[string]any)
		assert.NotEmpty(t, data["token"])
		user := data["user"].(map[string]any)
		assert.Equal(t, "a@example.com", user["email"])
	})

	t.Run("duplicate email", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/register", model.RegisterRequest{
			Email: "a@example.com", Password: "password123", ConfirmPassword: "password123",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "validation_error", decodeError(t, resp).Error.Type)
	})

	t.Run("validation failure returns 200 with failure flag", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/register", model.RegisterRequest{
			Email: "bad", Password: "short", ConfirmPassword: "short",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.False(t, env.Success)
		assert.NotEmpty(t, env.ValidationErrors)
	})
}

func TestLogin(t *testing.T) {
	app, users, _, _, _ := newTestApp(t)
	_, err := users.Register("a@example.com", "password123")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/login", model.LoginRequest{
			Email: "a@example.com", Password: "password123",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, decodeEnvelope(t, resp).Success)
	})

	t.Run("unknown email and wrong password fail identically", func(t *testing.T) {
		respUnknown := doJSON(t, app, http.MethodPost, "/api/auth/login", model.LoginRequest{
			Email: "nobody@example.com", Password: "password123",
		})
		respWrongPw := doJSON(t, app, http.MethodPost, "/api/auth/login", model.LoginRequest{
			Email: "a@example.com", Password: "wrongpassword",
		})

		assert.Equal(t, http.StatusUnauthorized, respUnknown.StatusCode)
		assert.Equal(t, http.StatusUnauthorized, respWrongPw.StatusCode)

		errUnknown := decodeError(t, respUnknown)
		errWrongPw := decodeError(t, respWrongPw)
		assert.Equal(t, errUnknown.Error.Type, errWrongPw.Error.Type)
		assert.Equal(t, errUnknown.Error.Message, errWrongPw.Error.Message)
	})
}

func TestTokenLogin(t *testing.T) {
	app, _, _, _, _ := newTestApp(t)

	t.Run("known static token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/token", model.TokenLoginRequest{
			Token: "demo-token-12345",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		require.True(t, env.Success)
		user := env.Data.(map[string]any)["user"].(map[string]any)
		assert.Equal(t, "token-user@quickscan.app", user["email"])
	})

	t.Run("unknown static token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/token", model.TokenLoginRequest{
			Token: "bogus",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "authentication_error", decodeError(t, resp).Error.Type)
	})
}

func TestVerifyToken(t *testing.T) {
	app, users, tokens, _, _ := newTestApp(t)
	user, err := users.Register("a@example.com", "password123")
	require.NoError(t, err)
	token, _, err := tokens.Issue(user)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/verify", model.VerifyTokenRequest{Token: token})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		require.True(t, env.Success)
		assert.Equal(t, user.ID, env.Data.(map[string]any)["id"])
	})

	t.Run("invalid", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/verify", model.VerifyTokenRequest{Token: "not.a.jwt"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestCurrentUser(t *testing.T) {
	app, users, tokens, _, _ := newTestApp(t)
	user, err := users.Register("a@example.com", "password123")
	require.NoError(t, err)
	token, _, err := tokens.Issue(user)
	require.NoError(t, err)

	t.Run("with bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		require.True(t, env.Success)
		assert.Equal(t, "a@example.com", env.Data.(map[string]any)["email"])
	})

	t.Run("without token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/auth/me", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "authentication_error", decodeError(t, resp).Error.Type)
	})
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func TestUploadFile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app, _, _, files, _ := newTestApp(t)
		stored := &model.StoredFile{
			ID:       uuid.NewString(),
			Filename: "test.txt",
			Size:     5,
			Backend:  model.BackendLocal,
		}
		files.On("Upload", mock.Anything, "test.txt", mock.Anything, []byte("hello")).
			Return(stored, nil).Once()

		body, contentType := multipartUpload(t, "test.txt", []byte("hello"))
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set(fiber.HeaderContentType, contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		require.True(t, env.Success)
		data := env.Data.(map[string]any)
		assert.Equal(t, stored.ID, data["id"])
		assert.Equal(t, "uploaded", data["status"])
		files.AssertExpectations(t)
	})

	t.Run("missing file field", func(t *testing.T) {
		app, _, _, files, _ := newTestApp(t)

		resp := doJSON(t, app, http.MethodPost, "/api/upload", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.False(t, env.Success)
		assert.NotEmpty(t, env.ValidationErrors)
		files.AssertNotCalled(t, "Upload")
	})

	t.Run("oversized upload never reaches the service", func(t *testing.T) {
		app, _, _, files, _ := newTestApp(t)

		big := bytes.Repeat([]byte("x"), service.MaxUploadSize+1)
		body, contentType := multipartUpload(t, "big.bin", big)
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set(fiber.HeaderContentType, contentType)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.False(t, env.Success)
		assert.Contains(t, strings.Join(env.ValidationErrors, " "), "10MB")
		files.AssertNotCalled(t, "Upload")
	})
}

func TestListFiles(t *testing.T) {
	app, _, _, files, _ := newTestApp(t)
	files.On("List", mock.Anything).Return([]model.StoredFile{
		{ID: "f1", Filename: "a.txt", Backend: model.BackendLocal},
		{ID: "f2", Filename: "b.txt", Backend: model.BackendMinIO},
	}).Once()

	resp := doJSON(t, app, http.MethodGet, "/api/files", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	require.True(t, env.Success)
	data := env.Data.(map[string]any)
	assert.Equal(t, float64(2), data["total_count"])
}

func TestDownloadFile(t *testing.T) {
	id := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		app, _, _, files, _ := newTestApp(t)
		stored := model.StoredFile{ID: id, Filename: "a.txt", ContentType: "text/plain", Backend: model.BackendLocal}
		files.On("Download", mock.Anything, id).Return(stored, []byte("content"), nil).Once()

		resp := doJSON(t, app, http.MethodGet, "/api/files/"+id+"/download", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), `"a.txt"`)
		assert.Equal(t, "text/plain", resp.Header.Get(fiber.HeaderContentType))

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, []byte("content"), body)
	})

	t.Run("not found", func(t *testing.T) {
		app, _, _, files, _ := newTestApp(t)
		files.On("Download", mock.Anything, id).
			Return(model.StoredFile{}, nil, service.ErrNotFound).Once()

		resp := doJSON(t, app, http.MethodGet, "/api/files/"+id+"/download", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "not_found", decodeError(t, resp).Error.Type)
	})

	t.Run("invalid id", func(t *testing.T) {
		app, _, _, _, _ := newTestApp(t)
		resp := doJSON(t, app, http.MethodGet, "/api/files/not-a-uuid/download", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestFileURL(t *testing.T) {
	id := uuid.NewString()

	t.Run("remote file carries expiry", func(t *testing.T) {
		app, _, _, files, _ := newTestApp(t)
		stored := model.StoredFile{ID: id, Filename: "a.txt", Backend: model.BackendMinIO}
		files.On("DownloadURL", mock.Anything, id, time.Hour).
			Return(stored, "https://signed.example/a.txt", nil).Once()

		resp := doJSON(t, app, http.MethodGet, "/api/files/"+id+"/url", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		require.True(t, env.Success)
		data := env.Data.(map[string]any)
		assert.Equal(t, "https://signed.example/a.txt", data["download_url"])
		assert.NotEmpty(t, data["expires_at"])
	})

	t.Run("local file has no expiry", func(t *testing.T) {
		app, _, _, files, _ := newTestApp(t)
		stored := model.StoredFile{ID: id, Filename: "a.txt", Backend: model.BackendLocal}
		files.On("DownloadURL", mock.Anything, id, time.Hour).
			Return(stored, "/api/files/"+id+"/download", nil).Once()

		resp := doJSON(t, app, http.MethodGet, "/api/files/"+id+"/url", nil)
		env := decodeEnvelope(t, resp)
		require.True(t, env.Success)
		data := env.Data.(map[string]any)
		_, hasExpiry := data["expires_at"]
		assert.False(t, hasExpiry)
	})
}

func TestDeleteFile(t *testing.T) {
	id := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		app, _, _, files, _ := newTestApp(t)
		files.On("Delete", mock.Anything, id).Return(nil).Once()

		resp := doJSON(t, app, http.MethodDelete, "/api/files/"+id, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, decodeEnvelope(t, resp).Success)
	})

	t.Run("backend failure surfaces as storage error", func(t *testing.T) {
		app, _, _, files, _ := newTestApp(t)
		files.On("Delete", mock.Anything, id).
			Return(errors.New("disk error")).Once()

		resp := doJSON(t, app, http.MethodDelete, "/api/files/"+id, nil)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestCleanupFiles(t *testing.T) {
	app, _, _, files, _ := newTestApp(t)
	files.On("Cleanup", 24).Return(2, nil).Once()

	resp := doJSON(t, app, http.MethodPost, "/api/files/cleanup", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	require.True(t, env.Success)
	assert.Equal(t, float64(2), env.Data.(map[string]any)["deleted_count"])
	files.AssertExpectations(t)
}

func TestCreateScan(t *testing.T) {
	t.Run("analyzed", func(t *testing.T) {
		app, _, _, _, completer := newTestApp(t)
		completer.On("AnalyzeScan", mock.Anything, "payload", "qr").
			Return("insightful analysis", nil).Once()

		resp := doJSON(t, app, http.MethodPost, "/api/scans", model.CreateScanRequest{Data: "payload", Format: "qr"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		require.True(t, env.Success)
		assert.Equal(t, "analyzed", env.Data.(map[string]any)["status"])
	})

	t.Run("analysis failure downgrades status", func(t *testing.T) {
		app, _, _, _, completer := newTestApp(t)
		completer.On("AnalyzeScan", mock.Anything, "payload", "text").
			Return("", errors.New("api down")).Once()

		resp := doJSON(t, app, http.MethodPost, "/api/scans", model.CreateScanRequest{Data: "payload"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		require.True(t, env.Success)
		assert.Equal(t, "processed", env.Data.(map[string]any)["status"])
	})

	t.Run("validation failure", func(t *testing.T) {
		app, _, _, _, completer := newTestApp(t)

		resp := doJSON(t, app, http.MethodPost, "/api/scans", model.CreateScanRequest{Data: "x", Format: "png"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.False(t, decodeEnvelope(t, resp).Success)
		completer.AssertNotCalled(t, "AnalyzeScan")
	})
}

func TestScanReads(t *testing.T) {
	app, _, _, _, _ := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/scans", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	id := uuid.NewString()
	resp = doJSON(t, app, http.MethodGet, "/api/scans/"+id, nil)
	env := decodeEnvelope(t, resp)
	require.True(t, env.Success)
	assert.Equal(t, id, env.Data.(map[string]any)["id"])

	resp = doJSON(t, app, http.MethodDelete, "/api/scans/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSummarize(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app, _, _, _, completer := newTestApp(t)
		completer.On("Summarize", mock.Anything, "a long document body", 200).
			Return("a summary", nil).Once()

		resp := doJSON(t, app, http.MethodPost, "/api/summarize", model.SummarizeRequest{
			Content: "a long document body",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		require.True(t, env.Success)
		data := env.Data.(map[string]any)
		assert.Equal(t, "a summary", data["summary"])
		assert.Equal(t, float64(len("a long document body")), data["original_length"])
	})

	t.Run("upstream failure", func(t *testing.T) {
		app, _, _, _, completer := newTestApp(t)
		completer.On("Summarize", mock.Anything, mock.Anything, mock.Anything).
			Return("", fmt.Errorf("%w: status 500", llm.ErrUpstream)).Once()

		resp := doJSON(t, app, http.MethodPost, "/api/summarize", model.SummarizeRequest{
			Content: "a long document body",
		})
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, "external_service_error", decodeError(t, resp).Error.Type)
	})
}

func TestChatCompletion(t *testing.T) {
	app, _, _, _, completer := newTestApp(t)
	completer.On("ChatCompletion", mock.Anything, mock.MatchedBy(func(req model.ChatCompletionRequest) bool {
		return req.Content == "hello"
	})).Return(&llm.Result{
		Content: "hi",
		Model:   "gpt-4o-mini",
		Usage:   model.TokenUsage{PromptTokens: 1, CompletionTokens: 1, TotalTokens: 2},
	}, nil).Once()

	resp := doJSON(t, app, http.MethodPost, "/api/chat/completion", model.ChatCompletionRequest{Content: "hello"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	require.True(t, env.Success)
	data := env.Data.(map[string]any)
	assert.Equal(t, "hi", data["content"])
	assert.Equal(t, float64(2), data["usage"].(map[string]any)["total_tokens"])
}
