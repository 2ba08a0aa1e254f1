// Package templates holds the catalog of named starting documents.
//
// A template is a partial document written in YAML. Building a template
// overlays it on top of the default proposal: scalar fields and records
// present in the overlay replace the default ones, collections present in
// the overlay replace the default collection wholesale, everything else
// keeps its default value.
package templates

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Template describes one catalog entry.
type Template struct {
	Slug        string         `yaml:"slug" json:"slug"`
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description" json:"description"`
	Overlay     map[string]any `yaml:"document" json:"-"`
}

type catalogFile struct {
	Templates []Template `yaml:"templates"`
}

// Catalog is immutable after loading and safe for concurrent use.
type Catalog struct {
	templates []Template
	bySlug    map[string]int
}

// Load reads the catalog from path, or the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates file: %w", err)
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog. Every overlay is applied once
// so that a broken template fails at startup rather than on first use.
func Parse(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if len(f.Templates) == 0 {
		return nil, errors.New("template catalog is empty")
	}

	c := &Catalog{
		templates: make([]Template, 0, len(f.Templates)),
		bySlug:    make(map[string]int, len(f.Templates)),
	}
	for _, t := range f.Templates {
		if t.Slug == "" {
			return nil, fmt.Errorf("template %q has no slug", t.Name)
		}
		if _, dup := c.bySlug[t.Slug]; dup {
			return nil, fmt.Errorf("duplicate template slug %q", t.Slug)
		}
		if _, err := build(t, time.Now()); err != nil {
			return nil, fmt.Errorf("template %q: %w", t.Slug, err)
		}
		c.bySlug[t.Slug] = len(c.templates)
		c.templates = append(c.templates, t)
	}
	return c, nil
}

// List returns the templates in catalog order.
func (c *Catalog) List() []Template {
	out := make([]Template, len(c.templates))
	copy(out, c.templates)
	return out
}

func (c *Catalog) Get(slug string) (Template, error) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Template{}, domain.ErrTemplateNotFound
	}
	return c.templates[i], nil
}

// Document builds a fresh document from the template named slug. Dates in
// the default proposal are computed relative to now.
func (c *Catalog) Document(slug string, now time.Time) (*domain.Document, error) {
	t, err := c.Get(slug)
	if err != nil {
		return nil, err
	}
	return build(t, now)
}

func build(t Template, now time.Time) (*domain.Document, error) {
	doc := domain.NewDefaultDocument(now)
	if len(t.Overlay) == 0 {
		return doc, nil
	}

	raw, err := json.Marshal(t.Overlay)
	if err != nil {
		return nil, fmt.Errorf("encode overlay: %w", err)
	}
	dropOverridden(doc, t.Overlay)
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("apply overlay: %w", err)
	}

	doc.Normalize()
	for _, s := range doc.Sections {
		if !s.ID.Valid() {
			return nil, fmt.Errorf("unknown section %q", s.ID)
		}
	}
	assignIDs(doc)
	return doc, nil
}

// dropOverridden clears every default collection the overlay replaces, so
// decoding does not merge overlay entries into default ones.
func dropOverridden(doc *domain.Document, overlay map[string]any) {
	has := func(m map[string]any, key string) bool {
		_, ok := m[key]
		return ok
	}
	nested := func(key string) map[string]any {
		m, _ := overlay[key].(map[string]any)
		return m
	}

	if has(overlay, "items") {
		doc.Items = nil
	}
	if has(overlay, "notes") {
		doc.Notes = nil
	}
	if has(overlay, "sections") {
		doc.Sections = nil
	}
	if m := nested("scopeOfWork"); m != nil {
		if has(m, "phases") {
			doc.ScopeOfWork.Phases = nil
		}
		if has(m, "exclusions") {
			doc.ScopeOfWork.Exclusions = nil
		}
	}
	if m := nested("timeline"); m != nil && has(m, "milestones") {
		doc.Timeline.Milestones = nil
	}
	if m := nested("termsConditions"); m != nil && has(m, "terms") {
		doc.TermsConditions.Terms = nil
	}
}

// assignIDs gives every collection entry a fresh id, so two documents built
// from the same template never share entry ids.
func assignIDs(doc *domain.Document) {
	for i := range doc.Items {
		doc.Items[i].ID = domain.NewID()
	}
	for i := range doc.Notes {
		doc.Notes[i].ID = domain.NewID()
	}
	for i := range doc.ScopeOfWork.Phases {
		doc.ScopeOfWork.Phases[i].ID = domain.NewID()
	}
	for i := range doc.ScopeOfWork.Exclusions {
		doc.ScopeOfWork.Exclusions[i].ID = domain.NewID()
	}
	for i := range doc.Timeline.Milestones {
		doc.Timeline.Milestones[i].ID = domain.NewID()
	}
	for i := range doc.TermsConditions.Terms {
		doc.TermsConditions.Terms[i].ID = domain.NewID()
	}
}
