// Package export renders editing sessions into downloadable formats.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/proposalcraft/proposalcraft-backend/internal/logger"
	"github.com/proposalcraft/proposalcraft-backend/internal/metrics"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/render"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/store"
)

type Format string

const (
	FormatPDF     Format = "pdf"
	FormatPNG     Format = "png"
	FormatPreview Format = "preview"
)

var ErrUnknownFormat = errors.New("unknown export format")

// SessionSource resolves editing sessions by id.
type SessionSource interface {
	Get(id string) (*store.Session, error)
}

type guardKey struct {
	session string
	format  Format
}

type Service struct {
	sessions  SessionSource
	renderers map[Format]render.Renderer
	metrics   *metrics.Metrics
	tempDir   string

	mu       sync.Mutex
	inflight map[guardKey]struct{}
}

type Option func(*Service)

// WithTempDir sets where intermediate files are written. Defaults to os.TempDir.
func WithTempDir(dir string) Option {
	return func(s *Service) { s.tempDir = dir }
}

// WithRenderer replaces the renderer used for format.
func WithRenderer(format Format, r render.Renderer) Option {
	return func(s *Service) { s.renderers[format] = r }
}

func NewService(sessions SessionSource, m *metrics.Metrics, opts ...Option) *Service {
	s := &Service{
		sessions: sessions,
		renderers: map[Format]render.Renderer{
			FormatPDF:     render.NewPDFRenderer(),
			FormatPNG:     render.NewPNGRenderer(),
			FormatPreview: render.NewHTMLRenderer(),
		},
		metrics:  m,
		inflight: make(map[guardKey]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ContentType returns the media type produced for format.
func (s *Service) ContentType(format Format) (string, error) {
	r, ok := s.renderers[format]
	if !ok {
		return "", ErrUnknownFormat
	}
	return r.ContentType(), nil
}

// Export renders the current state of a session and copies it to w. Only
// one export per session and format runs at a time; a concurrent request for
// the same pair gets ErrExportInProgress. Nothing is written to w unless
// rendering succeeded.
func (s *Service) Export(ctx context.Context, sessionID string, format Format, w io.Writer) error {
	if _, ok := s.renderers[format]; !ok {
		return ErrUnknownFormat
	}
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}

	key := guardKey{session: sessionID, format: format}
	if !s.acquire(key) {
		s.metrics.ExportFinished(string(format), "busy")
		return domain.ErrExportInProgress
	}
	defer s.release(key)

	return s.render(ctx, sess.Store.Snapshot(), format, w)
}

// ExportDocument renders doc directly, without a session.
func (s *Service) ExportDocument(ctx context.Context, doc *domain.Document, format Format, w io.Writer) error {
	if _, ok := s.renderers[format]; !ok {
		return ErrUnknownFormat
	}
	return s.render(ctx, doc, format, w)
}

func (s *Service) render(ctx context.Context, doc *domain.Document, format Format, w io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render %s panicked: %v", format, r)
		}
		result := "success"
		if err != nil {
			result = "failed"
			logger.FromContext(ctx).Warn("export failed",
				zap.String("format", string(format)), zap.Error(err))
		}
		s.metrics.ExportFinished(string(format), result)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.tempDir, "proposal-export-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := s.renderers[format].Render(render.Plan(doc), tmp); err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind temp file: %w", err)
	}
	if _, err := io.Copy(w, tmp); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

func (s *Service) acquire(key guardKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[key]; busy {
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

func (s *Service) release(key guardKey) {
	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()
}

// Busy reports whether an export of format is running for the session.
func (s *Service) Busy(sessionID string, format Format) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inflight[guardKey{session: sessionID, format: format}]
	return busy
}
