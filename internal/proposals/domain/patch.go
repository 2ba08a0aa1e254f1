package domain

// Patches carry a partial update: nil fields are left untouched.
// JSON tags match the Document wire form so HTTP bodies bind directly.

type SenderPatch struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Website *string `json:"website,omitempty"`
	TaxID   *string `json:"taxId,omitempty"`
}

func (p SenderPatch) Apply(s Sender) Sender {
	set(&s.Name, p.Name)
	set(&s.Email, p.Email)
	set(&s.Phone, p.Phone)
	set(&s.Address, p.Address)
	set(&s.Website, p.Website)
	set(&s.TaxID, p.TaxID)
	return s
}

type RecipientPatch struct {
	Name    *string `json:"name,omitempty"`
	Company *string `json:"company,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (p RecipientPatch) Apply(r Recipient) Recipient {
	set(&r.Name, p.Name)
	set(&r.Company, p.Company)
	set(&r.Email, p.Email)
	set(&r.Phone, p.Phone)
	set(&r.Address, p.Address)
	return r
}

// DocumentInfoPatch covers the top-level scalar fields of a Document.
type DocumentInfoPatch struct {
	DocumentTitle  *string `json:"documentTitle,omitempty"`
	DocumentNumber *string `json:"documentNumber,omitempty"`
	IssueDate      *string `json:"issueDate,omitempty"`
	DueDate        *string `json:"dueDate,omitempty"`
	Terms          *string `json:"terms,omitempty"`
}

func (p DocumentInfoPatch) Apply(d *Document) {
	set(&d.DocumentTitle, p.DocumentTitle)
	set(&d.DocumentNumber, p.DocumentNumber)
	set(&d.IssueDate, p.IssueDate)
	set(&d.DueDate, p.DueDate)
	set(&d.Terms, p.Terms)
}

// BrandingPatch sets the logo when Logo is non-nil and removes it when ClearLogo is true.
type BrandingPatch struct {
	Logo       *string `json:"logo,omitempty"`
	ClearLogo  bool    `json:"clearLogo,omitempty"`
	ThemeColor *string `json:"themeColor,omitempty"`
}

func (p BrandingPatch) Apply(b Branding) Branding {
	if p.ClearLogo {
		b.Logo = nil
	}
	if p.Logo != nil {
		logo := *p.Logo
		b.Logo = &logo
	}
	set(&b.ThemeColor, p.ThemeColor)
	return b
}

type ExecutiveSummaryPatch struct {
	Objective      *string `json:"objective,omitempty"`
	Solution       *string `json:"solution,omitempty"`
	ObjectiveLabel *string `json:"objectiveLabel,omitempty"`
	SolutionLabel  *string `json:"solutionLabel,omitempty"`
}

func (p ExecutiveSummaryPatch) Apply(e ExecutiveSummary) ExecutiveSummary {
	set(&e.Objective, p.Objective)
	set(&e.Solution, p.Solution)
	set(&e.ObjectiveLabel, p.ObjectiveLabel)
	set(&e.SolutionLabel, p.SolutionLabel)
	return e
}

// TimelinePatch covers the base fields; milestones have their own operations.
type TimelinePatch struct {
	StartDate         *string `json:"startDate,omitempty"`
	EstimatedDuration *string `json:"estimatedDuration,omitempty"`
}

func (p TimelinePatch) Apply(t Timeline) Timeline {
	set(&t.StartDate, p.StartDate)
	set(&t.EstimatedDuration, p.EstimatedDuration)
	return t
}

type TermsConditionsPatch struct {
	AdditionalTerms *string `json:"additionalTerms,omitempty"`
}

func (p TermsConditionsPatch) Apply(t TermsConditions) TermsConditions {
	set(&t.AdditionalTerms, p.AdditionalTerms)
	return t
}

type AcceptancePatch struct {
	ClientName        *string `json:"clientName,omitempty"`
	SignatureDate     *string `json:"signatureDate,omitempty"`
	ShowSignatureLine *bool   `json:"showSignatureLine,omitempty"`
}

func (p AcceptancePatch) Apply(a Acceptance) Acceptance {
	set(&a.ClientName, p.ClientName)
	set(&a.SignatureDate, p.SignatureDate)
	set(&a.ShowSignatureLine, p.ShowSignatureLine)
	return a
}

type LineItemPatch struct {
	Description *string  `json:"description,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Rate        *float64 `json:"rate,omitempty"`
}

func (p LineItemPatch) Apply(i LineItem) LineItem {
	set(&i.Description, p.Description)
	set(&i.Quantity, p.Quantity)
	set(&i.Rate, p.Rate)
	return i
}

type ScopePhasePatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (p ScopePhasePatch) Apply(s ScopePhase) ScopePhase {
	set(&s.Title, p.Title)
	set(&s.Description, p.Description)
	return s
}

type MilestonePatch struct {
	Title *string `json:"title,omitempty"`
	Date  *string `json:"date,omitempty"`
}

func (p MilestonePatch) Apply(m Milestone) Milestone {
	set(&m.Title, p.Title)
	set(&m.Date, p.Date)
	return m
}

type TermItemPatch struct {
	Label *string `json:"label,omitempty"`
	Value *string `json:"value,omitempty"`
}

func (p TermItemPatch) Apply(t TermItem) TermItem {
	set(&t.Label, p.Label)
	set(&t.Value, p.Value)
	return t
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
