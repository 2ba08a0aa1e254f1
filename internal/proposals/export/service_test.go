package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proposalcraft/proposalcraft-backend/internal/metrics"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/render"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/store"
)

type blockingRenderer struct {
	started chan struct{}
	release chan struct{}
}

func (r *blockingRenderer) ContentType() string { return "text/plain" }

func (r *blockingRenderer) Render(l render.Layout, w io.Writer) error {
	close(r.started)
	<-r.release
	_, err := io.WriteString(w, "done")
	return err
}

type failingRenderer struct{}

func (failingRenderer) ContentType() string { return "text/plain" }

func (failingRenderer) Render(l render.Layout, w io.Writer) error {
	_, _ = io.WriteString(w, "partial")
	return errors.New("engine exploded")
}

func setup(t *testing.T, opts ...Option) (*Service, *store.Session, string) {
	dir := t.TempDir()
	mgr := store.NewManager(time.Hour)
	sess := mgr.Open(nil, "")
	return NewService(mgr, nil, append([]Option{WithTempDir(dir)}, opts...)...), sess, dir
}

func assertNoTempFiles(t *testing.T, dir string) {
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExport_PDF(t *testing.T) {
	svc, sess, dir := setup(t)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), sess.ID, FormatPDF, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assertNoTempFiles(t, dir)

	ct, err := svc.ContentType(FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", ct)
}

func TestExport_PNG(t *testing.T) {
	svc, sess, dir := setup(t)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), sess.ID, FormatPNG, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
	assertNoTempFiles(t, dir)

	ct, err := svc.ContentType(FormatPNG)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
}

func TestExport_PreviewReflectsCurrentState(t *testing.T) {
	svc, sess, _ := setup(t)
	sess.Store.UpdateTaxRate(0)
	title := "Mobile App Proposal"
	sess.Store.UpdateDocumentInfo(domain.DocumentInfoPatch{DocumentTitle: &title})

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), sess.ID, FormatPreview, &buf))
	assert.Contains(t, buf.String(), "Mobile App Proposal")
	assert.NotContains(t, buf.String(), "Tax (")
}

func TestExport_GuardIsPerSessionAndAction(t *testing.T) {
	blocker := &blockingRenderer{started: make(chan struct{}), release: make(chan struct{})}
	svc, sess, _ := setup(t, WithRenderer(FormatPDF, blocker))
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		firstErr error
		firstOut bytes.Buffer
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = svc.Export(ctx, sess.ID, FormatPDF, &firstOut)
	}()
	<-blocker.started
	assert.True(t, svc.Busy(sess.ID, FormatPDF))

	err := svc.Export(ctx, sess.ID, FormatPDF, io.Discard)
	assert.ErrorIs(t, err, domain.ErrExportInProgress)

	// a different action on the same session is not blocked
	require.NoError(t, svc.Export(ctx, sess.ID, FormatPreview, io.Discard))

	close(blocker.release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Equal(t, "done", firstOut.String())
	assert.False(t, svc.Busy(sess.ID, FormatPDF))
}

func TestExport_FailureReleasesEverything(t *testing.T) {
	svc, sess, dir := setup(t, WithRenderer(FormatPDF, failingRenderer{}))

	var buf bytes.Buffer
	err := svc.Export(context.Background(), sess.ID, FormatPDF, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine exploded")
	assert.Zero(t, buf.Len(), "no partial output")
	assert.False(t, svc.Busy(sess.ID, FormatPDF))
	assertNoTempFiles(t, dir)
}

func TestExport_Cancelled(t *testing.T) {
	svc, sess, dir := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := svc.Export(ctx, sess.ID, FormatPDF, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
	assert.False(t, svc.Busy(sess.ID, FormatPDF))
	assertNoTempFiles(t, dir)
}

func TestExport_Errors(t *testing.T) {
	svc, sess, _ := setup(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Export(ctx, "missing", FormatPDF, io.Discard), domain.ErrSessionNotFound)
	assert.ErrorIs(t, svc.Export(ctx, sess.ID, Format("docx"), io.Discard), ErrUnknownFormat)
	_, err := svc.ContentType(Format("docx"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestExportDocument(t *testing.T) {
	svc, _, _ := setup(t)
	doc := domain.NewDefaultDocument(time.Now())

	var buf bytes.Buffer
	require.NoError(t, svc.ExportDocument(context.Background(), doc, FormatPreview, &buf))
	assert.Contains(t, buf.String(), "PRO-001")
}

type panickingRenderer struct{}

func (panickingRenderer) ContentType() string { return "text/plain" }

func (panickingRenderer) Render(l render.Layout, w io.Writer) error {
	_, _ = io.WriteString(w, "partial")
	panic("cannot format amount")
}

func TestExport_PanicIsRecordedAsFailure(t *testing.T) {
	dir := t.TempDir()
	mgr := store.NewManager(time.Hour)
	sess := mgr.Open(nil, "")
	m := metrics.New(metrics.Config{ServiceName: "test", Environment: "test"})
	svc := NewService(mgr, m, WithTempDir(dir), WithRenderer(FormatPDF, panickingRenderer{}))

	var buf bytes.Buffer
	err := svc.Export(context.Background(), sess.ID, FormatPDF, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
	assert.Zero(t, buf.Len())
	assert.False(t, svc.Busy(sess.ID, FormatPDF))
	assertNoTempFiles(t, dir)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.Contains(t, body, `proposalcraft_exports_total{env="test",format="pdf",result="failed",service="test"} 1`)
	assert.NotContains(t, body, `result="success"`)
}
