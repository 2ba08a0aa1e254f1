package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/proposalcraft/proposalcraft-backend/internal/logger"
	"github.com/proposalcraft/proposalcraft-backend/internal/metrics"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/calc"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/export"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/handoff"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/repository"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/sections"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/store"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/templates"
)

// Deps are the collaborators of the proposal routes.
type Deps struct {
	Sessions  *store.Manager
	Repo      repository.ProposalRepository
	Handoff   handoff.Handoff
	Templates *templates.Catalog
	Exporter  *export.Service
	Metrics   *metrics.Metrics
	Now       func() time.Time

	// ExportLimit, when set, runs in front of the export routes.
	ExportLimit gin.HandlerFunc
}

type Handler struct {
	sessions  *store.Manager
	repo      repository.ProposalRepository
	handoff   handoff.Handoff
	templates *templates.Catalog
	exporter  *export.Service
	metrics   *metrics.Metrics
	now       func() time.Time

	exportLimit gin.HandlerFunc
}

func New(d Deps) *Handler {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	exporter := d.Exporter
	if exporter == nil {
		exporter = export.NewService(d.Sessions, d.Metrics)
	}
	return &Handler{
		sessions:  d.Sessions,
		repo:      d.Repo,
		handoff:   d.Handoff,
		templates: d.Templates,
		exporter:  exporter,
		metrics:   d.Metrics,
		now:       now,

		exportLimit: d.ExportLimit,
	}
}

// sessionView is the response body of every session read and mutation.
type sessionView struct {
	ID         string            `json:"id"`
	ProposalID string            `json:"proposal_id,omitempty"`
	Version    uint64            `json:"version"`
	Document   *domain.Document  `json:"document"`
	Totals     calc.Totals       `json:"totals"`
	Sections   []sections.Status `json:"sections"`
}

func viewOf(sess *store.Session) sessionView {
	doc := sess.Store.Snapshot()
	return sessionView{
		ID:         sess.ID,
		ProposalID: sess.ProposalID(),
		Version:    sess.Store.Version(),
		Document:   doc,
		Totals:     calc.ForDocument(doc),
		Sections:   sections.Describe(doc),
	}
}

// session resolves :sid and writes a 404 when the session is gone.
func (h *Handler) session(c *gin.Context) (*store.Session, bool) {
	sess, err := h.sessions.Get(c.Param("sid"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return sess, true
}

func (h *Handler) respondSession(c *gin.Context, sess *store.Session) {
	c.JSON(http.StatusOK, gin.H{"session": viewOf(sess)})
}

// transact applies op to the session as one mutation. Results with
// amounts that are not finite are rejected with a 400 and leave the session
// as it was.
func (h *Handler) transact(c *gin.Context, sess *store.Session, op func(tx *store.Store)) bool {
	if err := sess.Store.Transact(op, calc.CheckFinite); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrNonFiniteAmount.Error()})
		return false
	}
	return true
}

// internalError logs err and writes a generic 500.
func internalError(c *gin.Context, msg string, err error) {
	logger.FromContext(c.Request.Context()).Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrSessionNotFound) ||
		errors.Is(err, domain.ErrProposalNotFound) ||
		errors.Is(err, domain.ErrTemplateNotFound)
}
