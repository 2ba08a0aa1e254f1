package domain

import "time"

// DateLayout is the wire format of every date field in a Document.
const DateLayout = "2006-01-02"

const day = 24 * time.Hour

// NewDefaultDocument returns the starter proposal a fresh editing session opens with.
// Dates are computed relative to now.
func NewDefaultDocument(now time.Time) *Document {
	date := func(offset time.Duration) string {
		return now.Add(offset).UTC().Format(DateLayout)
	}

	return &Document{
		DocumentTitle:  "PROPOSAL",
		DocumentNumber: "PRO-001",
		IssueDate:      date(0),
		DueDate:        date(30 * day),
		Sender: Sender{
			Name:    "Your Company Name",
			Email:   "hello@company.com",
			Phone:   "+1 (555) 123-4567",
			Address: "123 Business Street, Suite 100\nNew York, NY 10001",
			Website: "www.company.com",
		},
		Recipient: Recipient{
			Name:    "Client Name",
			Company: "Client Company",
			Email:   "client@example.com",
			Phone:   "+1 (555) 987-6543",
			Address: "456 Client Avenue\nLos Angeles, CA 90001",
		},
		Items: []LineItem{
			{ID: NewID(), Description: "Web Design & Development", Quantity: 1, Rate: 5000},
			{ID: NewID(), Description: "Brand Identity Package", Quantity: 1, Rate: 2500},
		},
		TaxRate:        10,
		DiscountAmount: 0,
		Notes: []Note{
			{ID: NewID(), Text: "Thank you for considering our services. We look forward to working with you!"},
		},
		Terms: "Payment is due within 30 days of invoice date. Late payments may incur a 2% monthly fee.",
		Branding: Branding{
			ThemeColor: "#2563eb",
		},
		ExecutiveSummary: ExecutiveSummary{
			Objective:      "To enhance your digital presence and streamline your business operations through a modern, user-friendly web solution.",
			Solution:       "We propose developing a custom web application that addresses your specific needs, incorporating modern design principles and robust functionality.",
			ObjectiveLabel: "Objective",
			SolutionLabel:  "Proposed Solution",
		},
		ScopeOfWork: ScopeOfWork{
			Phases: []ScopePhase{
				{ID: NewID(), Title: "Discovery & Planning", Description: "Requirements gathering, research, and project planning."},
				{ID: NewID(), Title: "Design", Description: "UI/UX design, wireframes, and visual mockups."},
				{ID: NewID(), Title: "Development", Description: "Frontend and backend development, integrations."},
				{ID: NewID(), Title: "Launch", Description: "Testing, deployment, and handover."},
			},
			Exclusions: []ExclusionItem{
				{ID: NewID(), Text: "Content creation and copywriting"},
				{ID: NewID(), Text: "Stock photography and media assets"},
				{ID: NewID(), Text: "Third-party service subscriptions"},
				{ID: NewID(), Text: "Ongoing maintenance beyond initial launch"},
			},
		},
		Timeline: Timeline{
			StartDate:         date(7 * day),
			EstimatedDuration: "4 Weeks",
			Milestones: []Milestone{
				{ID: NewID(), Title: "Design Approval", Date: date(14 * day)},
				{ID: NewID(), Title: "Development Complete", Date: date(28 * day)},
				{ID: NewID(), Title: "Project Launch", Date: date(35 * day)},
			},
		},
		TermsConditions: TermsConditions{
			Terms: []TermItem{
				{ID: NewID(), Label: "Payment", Value: "50% Upfront, 50% on Delivery"},
				{ID: NewID(), Label: "Revisions", Value: "Includes 2 rounds of revisions per phase"},
				{ID: NewID(), Label: "Validity", Value: "This quote is valid for 14 days from the issue date"},
			},
			AdditionalTerms: "All work remains the property of the provider until full payment is received.",
		},
		Acceptance: Acceptance{
			ShowSignatureLine: true,
		},
		Sections: DefaultSections(),
	}
}
