package templates

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/calc"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
)

var now = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

func TestLoad_BuiltInCatalog(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	list := c.List()
	require.NotEmpty(t, list)
	assert.Equal(t, "blank", list[0].Slug)

	_, err = c.Get("nope")
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)

	_, err = c.Document("nope", now)
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestDocument_BlankMatchesDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	doc, err := c.Document("blank", now)
	require.NoError(t, err)
	def := domain.NewDefaultDocument(now)

	assert.Equal(t, def.DocumentTitle, doc.DocumentTitle)
	assert.Equal(t, def.Sections, doc.Sections)
	assert.Equal(t, calc.ForDocument(def), calc.ForDocument(doc))
}

func TestDocument_OverlayReplacesCollectionsAndKeepsDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	doc, err := c.Document("web-design", now)
	require.NoError(t, err)
	def := domain.NewDefaultDocument(now)

	assert.Equal(t, "WEBSITE PROPOSAL", doc.DocumentTitle)
	require.Len(t, doc.Items, 4)
	assert.Equal(t, "Discovery & UX Research", doc.Items[0].Description)
	assert.Equal(t, float64(6), doc.Items[1].Quantity)
	require.Len(t, doc.ScopeOfWork.Phases, 4)
	assert.Equal(t, "Discovery", doc.ScopeOfWork.Phases[0].Title)
	require.Len(t, doc.ScopeOfWork.Exclusions, 3)

	// untouched parts come from the default proposal
	assert.Equal(t, def.Sender, doc.Sender)
	assert.Equal(t, def.TaxRate, doc.TaxRate)
	assert.Equal(t, def.Timeline.Milestones[0].Title, doc.Timeline.Milestones[0].Title)
	assert.Equal(t, "10 weeks", doc.Timeline.EstimatedDuration)
	assert.Equal(t, def.Timeline.StartDate, doc.Timeline.StartDate)
	assert.Equal(t, def.ExecutiveSummary.ObjectiveLabel, doc.ExecutiveSummary.ObjectiveLabel)

	seen := map[string]bool{}
	for _, it := range doc.Items {
		require.NotEmpty(t, it.ID)
		assert.False(t, seen[it.ID])
		seen[it.ID] = true
	}
}

func TestDocument_FreshIDsPerBuild(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	a, err := c.Document("consulting-retainer", now)
	require.NoError(t, err)
	b, err := c.Document("consulting-retainer", now)
	require.NoError(t, err)

	assert.NotEqual(t, a.Items[0].ID, b.Items[0].ID)
	assert.Equal(t, float64(0), a.TaxRate)
	assert.False(t, a.Sections[1].Enabled)
	assert.Equal(t, domain.SectionScopeOfWork, a.Sections[1].ID)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":         "templates: []",
		"no slug":       "templates:\n  - name: x\n",
		"duplicate":     "templates:\n  - slug: a\n  - slug: a\n",
		"bad section":   "templates:\n  - slug: a\n    document:\n      sections:\n        - id: pricing\n          enabled: true\n",
		"bad yaml":      "templates: [",
		"type mismatch": "templates:\n  - slug: a\n    document:\n      taxRate: lots\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
templates:
  - slug: audit
    name: Security Audit
    document:
      documentTitle: AUDIT PROPOSAL
      notes:
        - text: Findings are shared only with the named contact.
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	doc, err := c.Document("audit", now)
	require.NoError(t, err)
	assert.Equal(t, "AUDIT PROPOSAL", doc.DocumentTitle)
	require.Len(t, doc.Notes, 1)
	assert.NotEmpty(t, doc.Notes[0].ID)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
