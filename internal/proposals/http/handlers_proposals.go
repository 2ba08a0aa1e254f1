package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/calc"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
)

// SaveSession persists the session document. The first save creates a
// saved proposal and binds the session to it; later saves update that
// proposal. With as_copy the document is always saved as a new proposal and
// the binding is left alone.
func (h *Handler) SaveSession(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var body struct {
		Name   string `json:"name,omitempty"`
		AsCopy bool   `json:"as_copy,omitempty"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	ctx := c.Request.Context()
	doc := sess.Store.Snapshot()
	name := saveName(body.Name, doc, body.AsCopy)

	if id := sess.ProposalID(); id != "" && !body.AsCopy {
		updated, err := h.repo.Update(ctx, id, domain.SavedProposalUpdate{Name: &name, Data: doc})
		if err != nil {
			internalError(c, "failed to save proposal", err)
			return
		}
		if updated != nil {
			h.metrics.ProposalSaved("update")
			c.JSON(http.StatusOK, gin.H{"proposal": updated})
			return
		}
		// the bound proposal was deleted elsewhere; fall through and recreate it
	}

	saved, err := h.repo.Save(ctx, name, doc)
	if err != nil {
		internalError(c, "failed to save proposal", err)
		return
	}
	if !body.AsCopy {
		sess.BindProposal(saved.ID)
	}
	h.metrics.ProposalSaved("create")
	c.JSON(http.StatusCreated, gin.H{"proposal": saved})
}

func saveName(name string, doc *domain.Document, asCopy bool) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	if asCopy {
		return doc.DocumentTitle + " - " + doc.DocumentNumber
	}
	if doc.DocumentTitle != "" {
		return doc.DocumentTitle
	}
	return "Untitled Proposal"
}

func (h *Handler) ListProposals(c *gin.Context) {
	all, err := h.repo.GetAll(c.Request.Context())
	if err != nil {
		internalError(c, "failed to list proposals", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposals": all})
}

func (h *Handler) GetProposal(c *gin.Context) {
	p, err := h.repo.GetOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		internalError(c, "failed to get proposal", err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "proposal not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposal": p})
}

func (h *Handler) UpdateProposal(c *gin.Context) {
	var upd domain.SavedProposalUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if upd.Data != nil {
		upd.Data.Normalize()
		if err := calc.CheckFinite(upd.Data); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrNonFiniteAmount.Error()})
			return
		}
	}

	p, err := h.repo.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		internalError(c, "failed to update proposal", err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "proposal not found"})
		return
	}
	h.metrics.ProposalSaved("update")
	c.JSON(http.StatusOK, gin.H{"proposal": p})
}

func (h *Handler) DeleteProposal(c *gin.Context) {
	deleted, err := h.repo.DeleteOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		internalError(c, "failed to delete proposal", err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "proposal not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) ClearProposals(c *gin.Context) {
	if err := h.repo.ClearAll(c.Request.Context()); err != nil {
		internalError(c, "failed to clear proposals", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
