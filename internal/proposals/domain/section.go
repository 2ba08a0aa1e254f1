package domain

// SectionKey names one of the seven toggleable content blocks.
type SectionKey string

const (
	SectionExecutiveSummary   SectionKey = "executiveSummary"
	SectionScopeOfWork        SectionKey = "scopeOfWork"
	SectionTimeline           SectionKey = "timeline"
	SectionFinancialBreakdown SectionKey = "financialBreakdown"
	SectionTermsConditions    SectionKey = "termsConditions"
	SectionNotes              SectionKey = "notes"
	SectionAcceptance         SectionKey = "acceptance"
)

// AllSectionKeys returns every key in the fixed rendering order.
func AllSectionKeys() []SectionKey {
	return []SectionKey{
		SectionExecutiveSummary,
		SectionScopeOfWork,
		SectionTimeline,
		SectionFinancialBreakdown,
		SectionTermsConditions,
		SectionNotes,
		SectionAcceptance,
	}
}

// Valid reports whether k is one of the known keys.
func (k SectionKey) Valid() bool {
	switch k {
	case SectionExecutiveSummary, SectionScopeOfWork, SectionTimeline,
		SectionFinancialBreakdown, SectionTermsConditions, SectionNotes, SectionAcceptance:
		return true
	}
	return false
}

// ParseSectionKey converts a raw string into a SectionKey.
func ParseSectionKey(s string) (SectionKey, bool) {
	k := SectionKey(s)
	return k, k.Valid()
}

// DefaultLabel is the label a section gets when a document is created.
func (k SectionKey) DefaultLabel() string {
	switch k {
	case SectionExecutiveSummary:
		return "Executive Summary"
	case SectionScopeOfWork:
		return "Scope of Work"
	case SectionTimeline:
		return "Timeline"
	case SectionFinancialBreakdown:
		return "Financial Breakdown"
	case SectionTermsConditions:
		return "Terms & Conditions"
	case SectionNotes:
		return "Notes"
	case SectionAcceptance:
		return "Acceptance"
	}
	return ""
}

// DefaultSections returns one enabled config per key, in order.
func DefaultSections() []SectionConfig {
	keys := AllSectionKeys()
	out := make([]SectionConfig, 0, len(keys))
	for _, k := range keys {
		out = append(out, SectionConfig{ID: k, Label: k.DefaultLabel(), Enabled: true})
	}
	return out
}
