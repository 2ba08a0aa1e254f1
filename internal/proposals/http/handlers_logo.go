package http

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
)

const maxLogoBytes = 2 << 20

// UploadLogo reads a multipart "logo" file and stores it as a data URL.
// The document is left unchanged when the file is unreadable or not an image.
func (h *Handler) UploadLogo(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "logo file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read logo file"})
		return
	}
	defer f.Close()

	dataURL, err := readLogo(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess.Store.UpdateBranding(domain.BrandingPatch{Logo: &dataURL})
	h.respondSession(c, sess)
}

func (h *Handler) ClearLogo(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.Store.UpdateBranding(domain.BrandingPatch{ClearLogo: true})
	h.respondSession(c, sess)
}

// readLogo sniffs the content type and encodes the file as a data URL.
func readLogo(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxLogoBytes+1))
	if err != nil {
		return "", fmt.Errorf("could not read logo file: %w", err)
	}
	if len(data) == 0 {
		return "", domain.ErrInvalidLogo
	}
	if len(data) > maxLogoBytes {
		return "", errors.New("logo file is too large")
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", domain.ErrInvalidLogo
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func isImageDataURL(s string) bool {
	meta, _, ok := strings.Cut(s, ",")
	return ok && strings.HasPrefix(meta, "data:image/")
}
