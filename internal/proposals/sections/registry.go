// Package sections implements the per-section visibility rules of a proposal.
//
// A section renders only when it is enabled and not empty. Visible is the one
// implementation of that rule; the session API, the preview and the PDF
// export all go through it.
package sections

import "github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"

func find(doc *domain.Document, key domain.SectionKey) (domain.SectionConfig, bool) {
	if doc == nil {
		return domain.SectionConfig{}, false
	}
	for _, s := range doc.Sections {
		if s.ID == key {
			return s, true
		}
	}
	return domain.SectionConfig{}, false
}

// IsEnabled reports the enabled flag of key. A missing config counts as disabled.
func IsEnabled(doc *domain.Document, key domain.SectionKey) bool {
	cfg, ok := find(doc, key)
	return ok && cfg.Enabled
}

// Label returns the current label of key, or "" if no config exists.
func Label(doc *domain.Document, key domain.SectionKey) string {
	cfg, _ := find(doc, key)
	return cfg.Label
}

// IsEmpty reports whether the section has no content, regardless of its
// enabled flag.
func IsEmpty(doc *domain.Document, key domain.SectionKey) bool {
	if doc == nil {
		return true
	}
	switch key {
	case domain.SectionExecutiveSummary:
		return doc.ExecutiveSummary.Objective == "" && doc.ExecutiveSummary.Solution == ""
	case domain.SectionScopeOfWork:
		return len(doc.ScopeOfWork.Phases) == 0 && len(doc.ScopeOfWork.Exclusions) == 0
	case domain.SectionTimeline:
		return doc.Timeline.StartDate == "" && len(doc.Timeline.Milestones) == 0
	case domain.SectionFinancialBreakdown:
		return len(doc.Items) == 0
	case domain.SectionTermsConditions:
		return len(doc.TermsConditions.Terms) == 0 && doc.TermsConditions.AdditionalTerms == ""
	case domain.SectionNotes:
		return len(doc.Notes) == 0
	case domain.SectionAcceptance:
		return !doc.Acceptance.ShowSignatureLine
	default:
		return false
	}
}

// Visible is the canonical "should this section render" rule.
func Visible(doc *domain.Document, key domain.SectionKey) bool {
	return IsEnabled(doc, key) && !IsEmpty(doc, key)
}

// Ordered returns the visible sections of doc in fixed rendering order.
func Ordered(doc *domain.Document) []domain.SectionKey {
	out := make([]domain.SectionKey, 0, len(domain.AllSectionKeys()))
	for _, key := range domain.AllSectionKeys() {
		if Visible(doc, key) {
			out = append(out, key)
		}
	}
	return out
}

// SetEnabled returns a copy of in with the enabled flag of key replaced.
// The copy is unchanged if key is absent.
func SetEnabled(in []domain.SectionConfig, key domain.SectionKey, enabled bool) []domain.SectionConfig {
	return replace(in, key, func(cfg *domain.SectionConfig) { cfg.Enabled = enabled })
}

// SetLabel returns a copy of in with the label of key replaced.
func SetLabel(in []domain.SectionConfig, key domain.SectionKey, label string) []domain.SectionConfig {
	return replace(in, key, func(cfg *domain.SectionConfig) { cfg.Label = label })
}

func replace(in []domain.SectionConfig, key domain.SectionKey, fn func(*domain.SectionConfig)) []domain.SectionConfig {
	out := make([]domain.SectionConfig, len(in))
	copy(out, in)
	for i := range out {
		if out[i].ID == key {
			fn(&out[i])
			break
		}
	}
	return out
}

// Status is the read-only view of one section for API consumers.
type Status struct {
	ID      domain.SectionKey `json:"id"`
	Label   string            `json:"label"`
	Enabled bool              `json:"enabled"`
	Empty   bool              `json:"empty"`
	Visible bool              `json:"visible"`
}

// Describe returns the status of every known section in order.
func Describe(doc *domain.Document) []Status {
	keys := domain.AllSectionKeys()
	out := make([]Status, 0, len(keys))
	for _, key := range keys {
		out = append(out, Status{
			ID:      key,
			Label:   Label(doc, key),
			Enabled: IsEnabled(doc, key),
			Empty:   IsEmpty(doc, key),
			Visible: Visible(doc, key),
		})
	}
	return out
}
