package handler

import (
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"quickscan/internal/model"
	"quickscan/internal/service"
)

// downloadURLExpiry is the requested lifetime of remote signed URLs.
const downloadURLExpiry = time.Hour

// UploadFile accepts a multipart upload (field name "file") of at most 10MB.
func UploadFile(files service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return c.JSON(model.ValidationFail("Validation failed", []string{"file: no file found in upload"}))
		}

		// Size is checked against the multipart header before reading so
		// that oversized bodies never reach a storage backend.
		if fh.Size > service.MaxUploadSize {
			return c.JSON(model.ValidationFail("Validation failed", []string{"file: file size exceeds 10MB limit"}))
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "bad_request", "cannot open uploaded file")
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "bad_request", "cannot read uploaded file")
		}

		stored, err := files.Upload(c.UserContext(), fh.Filename, fh.Header.Get("Content-Type"), data)
		if err != nil {
			return writeMappedError(c, err)
		}

		return c.JSON(model.OK(model.NewUploadResponse(*stored), "File uploaded successfully"))
	}
}

// ListFiles returns all registered files.
func ListFiles(files service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		all := files.List(c.UserContext())

		out := make([]model.UploadResponse, 0, len(all))
		for _, f := range all {
			out = append(out, model.NewUploadResponse(f))
		}

		return c.JSON(model.OK(model.FileListResponse{
			Files:      out,
			TotalCount: len(out),
		}, "Files retrieved successfully"))
	}
}

// DownloadFile streams a stored file's content back as an attachment.
func DownloadFile(files service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "bad_request", "invalid file id")
		}

		f, data, err := files.Download(c.UserContext(), id)
		if err != nil {
			return writeMappedError(c, err)
		}

		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", f.Filename))
		if f.ContentType != "" {
			c.Set(fiber.HeaderContentType, f.ContentType)
		}
		return c.Send(data)
	}
}

// FileURL returns a download link for the file: a presigned URL for remote
// files, a stable API path for local ones.
func FileURL(files service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "bad_request", "invalid file id")
		}

		f, url, err := files.DownloadURL(c.UserContext(), id, downloadURLExpiry)
		if err != nil {
			return writeMappedError(c, err)
		}

		res := model.FileURLResponse{
			ID:          f.ID,
			Filename:    f.Filename,
			DownloadURL: url,
		}
		// Local links never expire; only remote ones carry an expiry.
		if f.Backend == model.BackendMinIO {
			expiresAt := time.Now().UTC().Add(downloadURLExpiry)
			res.ExpiresAt = &expiresAt
		}

		return c.JSON(model.OK(res, "Download URL generated successfully"))
	}
}

// DeleteFile removes a file's bytes and registry entry.
func DeleteFile(files service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "bad_request", "invalid file id")
		}

		if err := files.Delete(c.UserContext(), id); err != nil {
			return writeMappedError(c, err)
		}

		return c.JSON(model.OK(fmt.Sprintf("File %s deleted", id), "File deleted successfully"))
	}
}

// CleanupFiles sweeps expired local files older than 24 hours.
func CleanupFiles(files service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deleted, err := files.Cleanup(24)
		if err != nil {
			return writeMappedError(c, err)
		}

		return c.JSON(model.OK(model.CleanupResponse{DeletedCount: deleted}, "Cleanup completed successfully"))
	}
}
