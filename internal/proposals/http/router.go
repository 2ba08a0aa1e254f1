package http

import "github.com/gin-gonic/gin"

// Register registers the proposal editing, persistence and template routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/sessions", h.CreateSession)
	rg.GET("/sessions/:sid", h.GetSession)
	rg.DELETE("/sessions/:sid", h.CloseSession)
	rg.GET("/sessions/:sid/totals", h.GetTotals)
	rg.GET("/sessions/:sid/sections", h.GetSections)
	rg.PATCH("/sessions/:sid/sections/:key", h.UpdateSection)

	rg.PATCH("/sessions/:sid/sender", h.UpdateSender)
	rg.PATCH("/sessions/:sid/recipient", h.UpdateRecipient)
	rg.PATCH("/sessions/:sid/info", h.UpdateDocumentInfo)
	rg.PATCH("/sessions/:sid/branding", h.UpdateBranding)
	rg.POST("/sessions/:sid/branding/logo", h.UploadLogo)
	rg.DELETE("/sessions/:sid/branding/logo", h.ClearLogo)
	rg.PATCH("/sessions/:sid/tax-rate", h.UpdateTaxRate)
	rg.PATCH("/sessions/:sid/discount", h.UpdateDiscount)
	rg.PATCH("/sessions/:sid/executive-summary", h.UpdateExecutiveSummary)
	rg.PATCH("/sessions/:sid/timeline", h.UpdateTimeline)
	rg.PATCH("/sessions/:sid/terms-conditions", h.UpdateTermsConditions)
	rg.PATCH("/sessions/:sid/acceptance", h.UpdateAcceptance)

	for _, col := range h.collections() {
		rg.POST("/sessions/:sid/"+col.path, col.add)
		rg.PATCH("/sessions/:sid/"+col.path+"/:id", col.update)
		rg.DELETE("/sessions/:sid/"+col.path+"/:id", col.remove)
	}

	rg.GET("/sessions/:sid/export/pdf", h.exportChain(h.ExportPDF)...)
	rg.GET("/sessions/:sid/export/png", h.exportChain(h.ExportPNG)...)
	rg.GET("/sessions/:sid/preview", h.exportChain(h.Preview)...)
	rg.POST("/sessions/:sid/save", h.SaveSession)

	rg.GET("/proposals", h.ListProposals)
	rg.DELETE("/proposals", h.ClearProposals)
	rg.GET("/proposals/:id", h.GetProposal)
	rg.PUT("/proposals/:id", h.UpdateProposal)
	rg.DELETE("/proposals/:id", h.DeleteProposal)

	rg.GET("/templates", h.ListTemplates)
	rg.POST("/templates/stage", h.StageDocument)
	rg.POST("/templates/:slug/stage", h.StageTemplate)
}

func (h *Handler) exportChain(final gin.HandlerFunc) []gin.HandlerFunc {
	if h.exportLimit == nil {
		return []gin.HandlerFunc{final}
	}
	return []gin.HandlerFunc{h.exportLimit, final}
}
