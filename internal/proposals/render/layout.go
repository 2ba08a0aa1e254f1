// Package render turns a document snapshot into the preview and export
// formats. Plan is the single place that decides what gets rendered; every
// renderer consumes its Layout and never re-applies section rules itself.
package render

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/calc"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/sections"
)

const defaultThemeColor = "#2563eb"

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Section is one visible content block, in rendering order.
type Section struct {
	Key   domain.SectionKey
	Label string
}

// NumberedPhase is a scope phase with its position-derived heading.
type NumberedPhase struct {
	Number      int
	Heading     string
	Description string
}

// Layout is everything a renderer needs. Header, parties and footer are
// always rendered; Sections lists the rest.
type Layout struct {
	Doc        *domain.Document
	Totals     calc.Totals
	Sections   []Section
	Phases     []NumberedPhase
	ThemeColor string
}

// Plan builds the layout of doc. The document is copied, so the layout stays
// valid while the session keeps changing.
func Plan(doc *domain.Document) Layout {
	if doc == nil {
		doc = &domain.Document{}
	}
	doc = doc.Clone()
	doc.Normalize()

	l := Layout{
		Doc:        doc,
		Totals:     calc.ForDocument(doc),
		ThemeColor: sanitizeColor(doc.Branding.ThemeColor),
	}
	for _, key := range sections.Ordered(doc) {
		l.Sections = append(l.Sections, Section{Key: key, Label: sections.Label(doc, key)})
	}
	for i, p := range doc.ScopeOfWork.Phases {
		heading := fmt.Sprintf("Phase %d", i+1)
		if t := strings.TrimSpace(p.Title); t != "" {
			heading += ": " + t
		}
		l.Phases = append(l.Phases, NumberedPhase{Number: i + 1, Heading: heading, Description: p.Description})
	}
	return l
}

// Has reports whether key is among the rendered sections.
func (l Layout) Has(key domain.SectionKey) bool {
	for _, s := range l.Sections {
		if s.Key == key {
			return true
		}
	}
	return false
}

// FooterLine is the sender contact line shown at the bottom of every page.
func (l Layout) FooterLine() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.Doc.Sender.Name, l.Doc.Sender.Email, l.Doc.Sender.Phone} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " • ")
}

// Renderer writes a layout in one output format.
type Renderer interface {
	ContentType() string
	Render(l Layout, w io.Writer) error
}

func sanitizeColor(value string) string {
	trimmed := strings.TrimSpace(value)
	if hexColorPattern.MatchString(trimmed) {
		return trimmed
	}
	return defaultThemeColor
}
