package domain

// Document is the root aggregate of one proposal being edited.
// All nested records and collections are owned exclusively by it.
type Document struct {
	DocumentTitle    string           `json:"documentTitle"`
	DocumentNumber   string           `json:"documentNumber"`
	IssueDate        string           `json:"issueDate"`
	DueDate          string           `json:"dueDate"`
	Sender           Sender           `json:"sender"`
	Recipient        Recipient        `json:"recipient"`
	Items            []LineItem       `json:"items"`
	TaxRate          float64          `json:"taxRate"`        // percentage
	DiscountAmount   float64          `json:"discountAmount"` // absolute currency value
	Notes            []Note           `json:"notes"`
	Terms            string           `json:"terms"`
	Branding         Branding         `json:"branding"`
	ExecutiveSummary ExecutiveSummary `json:"executiveSummary"`
	ScopeOfWork      ScopeOfWork      `json:"scopeOfWork"`
	Timeline         Timeline         `json:"timeline"`
	TermsConditions  TermsConditions  `json:"termsConditions"`
	Acceptance       Acceptance       `json:"acceptance"`
	Sections         []SectionConfig  `json:"sections"`
}

type Sender struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Website string `json:"website"`
	TaxID   string `json:"taxId"`
}

type Recipient struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// LineItem is one billable row. Its total is always derived, never stored.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
}

// Total returns quantity × rate.
func (i LineItem) Total() float64 {
	return i.Quantity * i.Rate
}

// Branding holds the optional logo (a data URL) and the theme colour.
type Branding struct {
	Logo       *string `json:"logo"`
	ThemeColor string  `json:"themeColor"`
}

type ExecutiveSummary struct {
	Objective      string `json:"objective"`
	Solution       string `json:"solution"`
	ObjectiveLabel string `json:"objectiveLabel"`
	SolutionLabel  string `json:"solutionLabel"`
}

type ScopePhase struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ExclusionItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type ScopeOfWork struct {
	Phases     []ScopePhase    `json:"phases"`
	Exclusions []ExclusionItem `json:"exclusions"`
}

type Milestone struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

type Timeline struct {
	StartDate         string      `json:"startDate"`
	EstimatedDuration string      `json:"estimatedDuration"`
	Milestones        []Milestone `json:"milestones"`
}

type TermItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

type TermsConditions struct {
	Terms           []TermItem `json:"terms"`
	AdditionalTerms string     `json:"additionalTerms"`
}

type Acceptance struct {
	ClientName        string `json:"clientName"`
	SignatureDate     string `json:"signatureDate"`
	ShowSignatureLine bool   `json:"showSignatureLine"`
}

type Note struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SectionConfig controls visibility and the display label of one section.
type SectionConfig struct {
	ID      SectionKey `json:"id"`
	Label   string     `json:"label"`
	Enabled bool       `json:"enabled"`
}

// Clone returns a deep copy that shares no slices or pointers with d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Items = cloneSlice(d.Items)
	out.Notes = cloneSlice(d.Notes)
	out.ScopeOfWork.Phases = cloneSlice(d.ScopeOfWork.Phases)
	out.ScopeOfWork.Exclusions = cloneSlice(d.ScopeOfWork.Exclusions)
	out.Timeline.Milestones = cloneSlice(d.Timeline.Milestones)
	out.TermsConditions.Terms = cloneSlice(d.TermsConditions.Terms)
	out.Sections = cloneSlice(d.Sections)
	if d.Branding.Logo != nil {
		logo := *d.Branding.Logo
		out.Branding.Logo = &logo
	}
	return &out
}

// Normalize replaces nil collections with empty ones so that the JSON form
// always carries arrays, as the editor expects, and rebuilds Sections to
// exactly one config per key in rendering order.
func (d *Document) Normalize() {
	if d.Items == nil {
		d.Items = []LineItem{}
	}
	if d.Notes == nil {
		d.Notes = []Note{}
	}
	if d.ScopeOfWork.Phases == nil {
		d.ScopeOfWork.Phases = []ScopePhase{}
	}
	if d.ScopeOfWork.Exclusions == nil {
		d.ScopeOfWork.Exclusions = []ExclusionItem{}
	}
	if d.Timeline.Milestones == nil {
		d.Timeline.Milestones = []Milestone{}
	}
	if d.TermsConditions.Terms == nil {
		d.TermsConditions.Terms = []TermItem{}
	}
	d.Sections = normalizeSections(d.Sections)
}

// normalizeSections keeps the first config seen for each known key, fills
// missing keys with defaults and drops unknown keys.
func normalizeSections(in []SectionConfig) []SectionConfig {
	seen := make(map[SectionKey]SectionConfig, len(in))
	for _, s := range in {
		if !s.ID.Valid() {
			continue
		}
		if _, dup := seen[s.ID]; !dup {
			seen[s.ID] = s
		}
	}

	keys := AllSectionKeys()
	out := make([]SectionConfig, 0, len(keys))
	for _, k := range keys {
		s, ok := seen[k]
		if !ok {
			s = SectionConfig{ID: k, Label: k.DefaultLabel(), Enabled: true}
		}
		out = append(out, s)
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
