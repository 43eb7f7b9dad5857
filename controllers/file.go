package controllers

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meinhoongagan/therapy-booking/apperr"
)

const maxImageSize = 8 << 20

type Uploader interface {
	Upload(ctx context.Context, file interface{}, publicID string) (string, error)
}

type FileController struct {
	uploader Uploader
	log      *zap.Logger
}

func NewFileController(uploader Uploader, log *zap.Logger) *FileController {
	return &FileController{uploader: uploader, log: log}
}

type uploadResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// UploadImage stores the multipart field "image" and returns its public URL.
func (h *FileController) UploadImage(c *fiber.Ctx) error {
	header, err := c.FormFile("image")
	if err != nil {
		return apperr.BadRequest("no file uploaded")
	}
	if header.Size > maxImageSize {
		return apperr.BadRequest("file exceeds %d MiB", maxImageSize>>20)
	}
	if ct := header.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return apperr.BadRequest("only image uploads are accepted")
	}

	file, err := header.Open()
	if err != nil {
		return apperr.BadRequest("could not read uploaded file")
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))
	publicID := name + "-" + uuid.NewString()[:8]

	url, err := h.uploader.Upload(c.UserContext(), file, publicID)
	if err != nil {
		h.log.Error("upload failed", zap.String("file", header.Filename), zap.Error(err))
		return apperr.Storage(err, "error uploading file")
	}
	return c.Status(fiber.StatusCreated).JSON(uploadResponse{Message: "File uploaded successfully", URL: url})
}
