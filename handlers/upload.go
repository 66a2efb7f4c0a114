package handlers

import (
	"io"
	"net/http"

	"foodgram-backend/apperr"
	"foodgram-backend/storage"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	Images storage.ImageStore
}

func NewUploadHandler(images storage.ImageStore) *UploadHandler {
	return &UploadHandler{Images: images}
}

// UploadImage stores a multipart "image" file and returns its public URL.
// The type is taken from the content, not from the client's filename.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		respondError(c, apperr.Validation("no image file provided"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxImageBytes+1))
	if err != nil {
		respondError(c, apperr.Validation("failed to read file"))
		return
	}
	contentType, _, err := storage.Sniff(data)
	if err != nil {
		respondError(c, err)
		return
	}

	url, err := h.Images.Save(c.Request.Context(), data)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"url":       url,
		"file_size": header.Size,
		"mime_type": contentType,
	})
}
