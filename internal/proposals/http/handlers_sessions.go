package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/calc"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/sections"
)

// CreateSession opens an editing session. The body may name a saved
// proposal to load or a staged template key to consume; otherwise the
// session starts from the default proposal.
func (h *Handler) CreateSession(c *gin.Context) {
	var body struct {
		ProposalID  string `json:"proposal_id,omitempty"`
		TemplateKey string `json:"template_key,omitempty"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	if body.ProposalID != "" && body.TemplateKey != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "proposal_id and template_key are mutually exclusive"})
		return
	}

	ctx := c.Request.Context()
	var (
		doc        *domain.Document
		proposalID string
	)
	switch {
	case body.ProposalID != "":
		saved, err := h.repo.GetOne(ctx, body.ProposalID)
		if err != nil {
			internalError(c, "failed to load proposal", err)
			return
		}
		if saved == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "proposal not found"})
			return
		}
		doc, proposalID = &saved.Data, saved.ID

	case body.TemplateKey != "":
		staged, err := h.handoff.Consume(ctx, body.TemplateKey)
		if err != nil {
			if isNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "template not found or already used"})
				return
			}
			internalError(c, "failed to load template", err)
			return
		}
		doc = staged
	}

	if err := calc.CheckFinite(doc); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": domain.ErrNonFiniteAmount.Error()})
		return
	}
	sess := h.sessions.Open(doc, proposalID)
	c.JSON(http.StatusCreated, gin.H{"session": viewOf(sess)})
}

func (h *Handler) GetSession(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	h.respondSession(c, sess)
}

func (h *Handler) CloseSession(c *gin.Context) {
	if !h.sessions.Close(c.Param("sid")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) GetTotals(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"totals": calc.ForDocument(sess.Store.Snapshot())})
}

func (h *Handler) GetSections(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections.Describe(sess.Store.Snapshot())})
}

// UpdateSection toggles a section and/or relabels it. Unknown keys are
// accepted and change nothing.
func (h *Handler) UpdateSection(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var body struct {
		Enabled *bool   `json:"enabled"`
		Label   *string `json:"label"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	key := domain.SectionKey(strings.TrimSpace(c.Param("key")))
	if body.Enabled != nil {
		sess.Store.ToggleSection(key, *body.Enabled)
	}
	if body.Label != nil {
		sess.Store.UpdateSectionLabel(key, *body.Label)
	}
	h.respondSession(c, sess)
}
