package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swapcloset/swapcloset-golang/internal/media"
)

// UploadImages is the handler for POST /v1/upload. It accepts one or
// more files under the "files" field and returns the public URLs of
// the ones that stored successfully. A failed image does not abort the
// rest of the batch; the response reports how many failed.
func (h *Handlers) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
		return
	}

	var uploads []media.Upload
	for _, file := range files {
		f, err := file.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			continue
		}
		uploads = append(uploads, media.Upload{
			Path:        file.Filename,
			Data:        data,
			ContentType: file.Header.Get("Content-Type"),
		})
	}

	urls, failures := media.UploadAll(c.Request.Context(), h.Media, uploads)
	if len(urls) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "All uploads failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"urls":   urls,
		"failed": len(failures),
	})
}
