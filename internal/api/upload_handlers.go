package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ehsas/internal/cloudinary"
)

const maxUploadBytes = 10 << 20

// upload stores an event or spotlight image. ?kind= selects the folder and
// defaults to events.
func (s *server) upload(c *gin.Context) {
	if s.Uploader == nil {
		s.fail(c, cloudinary.ErrNotConfigured, "")
		return
	}
	kind := cloudinary.KindEvent
	if v := c.Query("kind"); v != "" {
		k, ok := cloudinary.ParseKind(v)
		if !ok {
			badRequest(c, "kind must be events or spotlight")
			return
		}
		kind = k
	}
	ctx := c.Request.Context()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	var (
		result *cloudinary.UploadResult
		err    error
	)
	if strings.Contains(c.ContentType(), "multipart/form-data") {
		file, header, ferr := c.Request.FormFile("file")
		if ferr != nil {
			badRequest(c, "file field required")
			return
		}
		defer file.Close()
		data, ferr := io.ReadAll(file)
		if ferr != nil {
			badRequest(c, "could not read file")
			return
		}
		result, err = s.Uploader.UploadFile(ctx, kind, data, header.Filename)
	} else {
		var body struct {
			Data string `json:"data" binding:"required"`
		}
		if berr := c.ShouldBindJSON(&body); berr != nil {
			badRequest(c, `provide {"data": "<base64 data URL>"}`)
			return
		}
		result, err = s.Uploader.UploadDataURL(ctx, kind, body.Data)
	}
	if errors.Is(err, cloudinary.ErrNotImage) {
		s.fail(c, err, "")
		return
	}
	if err != nil {
		s.Log.Error().Err(err).Str("kind", string(kind)).Msg("image upload failed")
		writeError(c, http.StatusBadGateway, "UPLOAD_FAILED", "Image upload failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"url":       result.SecureURL,
		"public_id": result.PublicID,
		"width":     result.Width,
		"height":    result.Height,
		"bytes":     result.Bytes,
	})
}
