package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/store"
)

// patchRecord binds a partial update of type P and applies it to the session.
func patchRecord[P any](h *Handler, apply func(*store.Store, P)) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := h.session(c)
		if !ok {
			return
		}
		var p P
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		apply(sess.Store, p)
		h.respondSession(c, sess)
	}
}

func (h *Handler) UpdateSender(c *gin.Context) {
	patchRecord(h, (*store.Store).UpdateSender)(c)
}

func (h *Handler) UpdateRecipient(c *gin.Context) {
	patchRecord(h, (*store.Store).UpdateRecipient)(c)
}

func (h *Handler) UpdateDocumentInfo(c *gin.Context) {
	patchRecord(h, (*store.Store).UpdateDocumentInfo)(c)
}

// UpdateBranding sets the theme colour and, optionally, a logo given as an
// image data URL. Anything else in logo is rejected and nothing changes.
func (h *Handler) UpdateBranding(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var p domain.BrandingPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if p.Logo != nil && !isImageDataURL(*p.Logo) {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidLogo.Error()})
		return
	}
	sess.Store.UpdateBranding(p)
	h.respondSession(c, sess)
}

func (h *Handler) UpdateExecutiveSummary(c *gin.Context) {
	patchRecord(h, (*store.Store).UpdateExecutiveSummary)(c)
}

func (h *Handler) UpdateTimeline(c *gin.Context) {
	patchRecord(h, (*store.Store).UpdateTimeline)(c)
}

func (h *Handler) UpdateTermsConditions(c *gin.Context) {
	patchRecord(h, (*store.Store).UpdateTermsConditions)(c)
}

func (h *Handler) UpdateAcceptance(c *gin.Context) {
	patchRecord(h, (*store.Store).UpdateAcceptance)(c)
}

func (h *Handler) UpdateTaxRate(c *gin.Context) {
	var body struct {
		TaxRate *float64 `json:"taxRate" binding:"required"`
	}
	h.setNumber(c, &body, func() *float64 { return body.TaxRate }, (*store.Store).UpdateTaxRate)
}

func (h *Handler) UpdateDiscount(c *gin.Context) {
	var body struct {
		DiscountAmount *float64 `json:"discountAmount" binding:"required"`
	}
	h.setNumber(c, &body, func() *float64 { return body.DiscountAmount }, (*store.Store).UpdateDiscountAmount)
}

// setNumber handles the single-number endpoints. Negative values are
// accepted as given.
func (h *Handler) setNumber(c *gin.Context, body any, value func() *float64, apply func(*store.Store, float64)) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	if err := c.ShouldBindJSON(body); err != nil || value() == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a numeric value is required"})
		return
	}
	v := *value()
	if !h.transact(c, sess, func(tx *store.Store) { apply(tx, v) }) {
		return
	}
	h.respondSession(c, sess)
}
