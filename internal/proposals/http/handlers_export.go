package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/export"
)

func (h *Handler) ExportPDF(c *gin.Context) {
	h.export(c, export.FormatPDF, "pdf")
}

func (h *Handler) ExportPNG(c *gin.Context) {
	h.export(c, export.FormatPNG, "png")
}

func (h *Handler) Preview(c *gin.Context) {
	h.export(c, export.FormatPreview, "")
}

// export renders into memory first so a failed export never sends a
// partial body. A non-empty ext serves the result as a download.
func (h *Handler) export(c *gin.Context, format export.Format, ext string) {
	sid := c.Param("sid")
	var buf bytes.Buffer
	err := h.exporter.Export(c.Request.Context(), sid, format, &buf)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	case errors.Is(err, domain.ErrExportInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "an export of this kind is already running, try again shortly"})
		return
	default:
		internalError(c, "export failed, please try again", err)
		return
	}

	contentType, _ := h.exporter.ContentType(format)
	if ext != "" {
		name := "proposal"
		if sess, err := h.sessions.Get(sid); err == nil {
			name = fileName(sess.Store.Snapshot())
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, ext))
	}
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// fileName derives a safe download name from the document number and title.
func fileName(doc *domain.Document) string {
	raw := strings.TrimSpace(doc.DocumentNumber)
	if raw == "" {
		raw = strings.TrimSpace(doc.DocumentTitle)
	}
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('-')
		}
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		return "proposal"
	}
	return name
}
