package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/calc"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
)

func (h *Handler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": h.templates.List()})
}

// StageTemplate builds a document from a catalog template and stages it for
// the next CreateSession call.
func (h *Handler) StageTemplate(c *gin.Context) {
	doc, err := h.templates.Document(c.Param("slug"), h.now())
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
			return
		}
		internalError(c, "failed to build template", err)
		return
	}
	h.stage(c, doc)
}

// StageDocument stages a caller-supplied document.
func (h *Handler) StageDocument(c *gin.Context) {
	var doc domain.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document"})
		return
	}
	doc.Normalize()
	if err := calc.CheckFinite(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrNonFiniteAmount.Error()})
		return
	}
	h.stage(c, &doc)
}

func (h *Handler) stage(c *gin.Context, doc *domain.Document) {
	key, err := h.handoff.Put(c.Request.Context(), doc)
	if err != nil {
		internalError(c, "failed to stage template", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"template_key": key})
}
