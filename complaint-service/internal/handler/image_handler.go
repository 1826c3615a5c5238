package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ImageReader interface {
	Open(ctx context.Context, name string) (io.ReadCloser, int64, string, error)
}

type ImageHandler struct {
	images ImageReader
	log    *logrus.Entry
}

func NewImageHandler(images ImageReader, log *logrus.Entry) *ImageHandler {
	return &ImageHandler{images: images, log: log}
}

// ServeImage streams a stored complaint photo.
func (h *ImageHandler) ServeImage(c *gin.Context) {
	body, size, contentType, err := h.images.Open(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, size, contentType, body, nil)
}
