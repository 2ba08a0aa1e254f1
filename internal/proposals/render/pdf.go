package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
)

const (
	pageMargin = 15.0
	lineHeight = 5.0
)

type rgb struct{ r, g, b int }

// PDFRenderer lays the proposal out on A4 pages.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) ContentType() string {
	return "application/pdf"
}

func (r *PDFRenderer) Render(l Layout, w io.Writer) error {
	p := newPDFPage(l)

	p.header()
	p.parties()
	for _, s := range l.Sections {
		p.sectionTitle(s.Label)
		switch s.Key {
		case domain.SectionExecutiveSummary:
			p.executiveSummary()
		case domain.SectionScopeOfWork:
			p.scopeOfWork()
		case domain.SectionTimeline:
			p.timeline()
		case domain.SectionFinancialBreakdown:
			p.financialBreakdown()
		case domain.SectionTermsConditions:
			p.termsConditions()
		case domain.SectionNotes:
			p.notes()
		case domain.SectionAcceptance:
			p.acceptance()
		}
	}

	if err := p.pdf.Error(); err != nil {
		return fmt.Errorf("layout pdf: %w", err)
	}
	return p.pdf.Output(w)
}

type pdfPage struct {
	pdf   *gofpdf.Fpdf
	l     Layout
	tr    func(string) string
	theme rgb
	width float64
}

func newPDFPage(l Layout) *pdfPage {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle(l.Doc.DocumentTitle+" "+l.Doc.DocumentNumber, true)
	pdf.SetCreator("proposalcraft", true)

	pageW, _ := pdf.GetPageSize()
	p := &pdfPage{
		pdf:   pdf,
		l:     l,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		theme: parseHex(l.ThemeColor),
		width: pageW - 2*pageMargin,
	}
	pdf.SetFooterFunc(p.footer)
	pdf.AddPage()
	return p
}

func (p *pdfPage) text(style string, size float64) {
	p.pdf.SetFont("Helvetica", style, size)
	p.pdf.SetTextColor(17, 24, 39)
}

func (p *pdfPage) muted(style string, size float64) {
	p.pdf.SetFont("Helvetica", style, size)
	p.pdf.SetTextColor(107, 114, 128)
}

func (p *pdfPage) line(s string) {
	if s == "" {
		return
	}
	p.pdf.MultiCell(p.width, lineHeight, p.tr(s), "", "L", false)
}

func (p *pdfPage) header() {
	doc := p.l.Doc
	top := p.pdf.GetY()

	if name, ok := p.registerLogo(doc.Branding.Logo); ok {
		p.pdf.ImageOptions(name, pageMargin, top, 0, 18, false, gofpdf.ImageOptions{}, 0, "")
	}

	p.pdf.SetFont("Helvetica", "B", 20)
	p.pdf.SetTextColor(p.theme.r, p.theme.g, p.theme.b)
	p.pdf.CellFormat(p.width, 9, p.tr(doc.DocumentTitle), "", 1, "R", false, 0, "")
	p.text("", 10)
	for _, s := range []string{
		doc.DocumentNumber,
		"Issued: " + FormatDate(doc.IssueDate),
		"Valid Until: " + FormatDate(doc.DueDate),
	} {
		p.pdf.CellFormat(p.width, lineHeight, p.tr(s), "", 1, "R", false, 0, "")
	}

	y := p.pdf.GetY() + 3
	if y < top+22 {
		y = top + 22
	}
	p.pdf.SetDrawColor(p.theme.r, p.theme.g, p.theme.b)
	p.pdf.SetLineWidth(0.6)
	p.pdf.Line(pageMargin, y, pageMargin+p.width, y)
	p.pdf.SetY(y + 6)
}

// registerLogo decodes a data-URL logo. A logo gofpdf cannot embed is
// skipped rather than failing the whole export.
func (p *pdfPage) registerLogo(logo *string) (string, bool) {
	if logo == nil {
		return "", false
	}
	data, ok := decodeDataURL(*logo)
	if !ok {
		return "", false
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", false
	}
	var imgType string
	switch format {
	case "png":
		imgType = "PNG"
	case "jpeg":
		imgType = "JPG"
	case "gif":
		imgType = "GIF"
	default:
		return "", false
	}

	const name = "logo"
	p.pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: imgType}, bytes.NewReader(data))
	if p.pdf.Err() {
		p.pdf.ClearError()
		return "", false
	}
	return name, true
}

func (p *pdfPage) parties() {
	doc := p.l.Doc
	half := p.width / 2
	top := p.pdf.GetY()

	column := func(x float64, label string, lines []string) float64 {
		p.pdf.SetXY(x, top)
		p.muted("B", 8)
		p.pdf.CellFormat(half, lineHeight, strings.ToUpper(label), "", 2, "L", false, 0, "")
		for i, s := range lines {
			if s == "" {
				continue
			}
			if i == 0 {
				p.text("B", 11)
			} else {
				p.text("", 9)
			}
			p.pdf.SetX(x)
			p.pdf.MultiCell(half-4, lineHeight, p.tr(s), "", "L", false)
		}
		return p.pdf.GetY()
	}

	taxID := ""
	if doc.Sender.TaxID != "" {
		taxID = "Tax ID: " + doc.Sender.TaxID
	}
	leftEnd := column(pageMargin, "From", []string{
		doc.Sender.Name, taxID, doc.Sender.Address, doc.Sender.Email, doc.Sender.Phone, doc.Sender.Website,
	})
	rightEnd := column(pageMargin+half, "To", []string{
		doc.Recipient.Name, doc.Recipient.Company, doc.Recipient.Address, doc.Recipient.Email, doc.Recipient.Phone,
	})

	p.pdf.SetXY(pageMargin, max(leftEnd, rightEnd)+6)
}

func (p *pdfPage) sectionTitle(label string) {
	p.pdf.Ln(2)
	p.pdf.SetFont("Helvetica", "B", 13)
	p.pdf.SetTextColor(p.theme.r, p.theme.g, p.theme.b)
	p.pdf.CellFormat(p.width, 8, p.tr(label), "B", 1, "L", false, 0, "")
	p.pdf.Ln(2)
}

func (p *pdfPage) labelled(label, body string) {
	if body == "" {
		return
	}
	p.muted("B", 8)
	p.pdf.CellFormat(p.width, lineHeight, p.tr(strings.ToUpper(label)), "", 1, "L", false, 0, "")
	p.text("", 10)
	p.line(body)
	p.pdf.Ln(2)
}

func (p *pdfPage) executiveSummary() {
	es := p.l.Doc.ExecutiveSummary
	p.labelled(es.ObjectiveLabel, es.Objective)
	p.labelled(es.SolutionLabel, es.Solution)
}

func (p *pdfPage) scopeOfWork() {
	for _, ph := range p.l.Phases {
		p.text("B", 10)
		p.line(ph.Heading)
		p.text("", 10)
		p.line(ph.Description)
		p.pdf.Ln(1)
	}
	if ex := p.l.Doc.ScopeOfWork.Exclusions; len(ex) > 0 {
		p.muted("B", 8)
		p.pdf.CellFormat(p.width, lineHeight, "EXCLUSIONS", "", 1, "L", false, 0, "")
		p.text("", 10)
		for _, e := range ex {
			p.line("• " + e.Text)
		}
	}
}

func (p *pdfPage) timeline() {
	tl := p.l.Doc.Timeline
	p.text("", 10)
	p.line("Start Date: " + FormatDate(tl.StartDate))
	if tl.EstimatedDuration != "" {
		p.line("Duration: " + tl.EstimatedDuration)
	}
	if len(tl.Milestones) > 0 {
		p.pdf.Ln(1)
		p.muted("B", 8)
		p.pdf.CellFormat(p.width, lineHeight, "MILESTONES", "", 1, "L", false, 0, "")
		for _, m := range tl.Milestones {
			p.text("", 10)
			p.pdf.CellFormat(p.width*0.7, lineHeight+1, p.tr("• "+m.Title), "", 0, "L", false, 0, "")
			p.pdf.CellFormat(p.width*0.3, lineHeight+1, p.tr(FormatDate(m.Date)), "", 1, "R", false, 0, "")
		}
	}
}

func (p *pdfPage) financialBreakdown() {
	doc := p.l.Doc
	cols := []float64{p.width * 0.5, p.width * 0.12, p.width * 0.19, p.width * 0.19}

	p.pdf.SetFillColor(p.theme.r, p.theme.g, p.theme.b)
	p.pdf.SetTextColor(255, 255, 255)
	p.pdf.SetFont("Helvetica", "B", 9)
	for i, h := range []string{"Description", "Qty", "Rate", "Amount"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		p.pdf.CellFormat(cols[i], 7, h, "", 0, align, true, 0, "")
	}
	p.pdf.Ln(-1)

	p.text("", 9)
	p.pdf.SetFillColor(243, 244, 246)
	for i, it := range doc.Items {
		fill := i%2 == 1
		p.pdf.CellFormat(cols[0], 7, p.tr(it.Description), "", 0, "L", fill, 0, "")
		p.pdf.CellFormat(cols[1], 7, FormatNumber(it.Quantity), "", 0, "R", fill, 0, "")
		p.pdf.CellFormat(cols[2], 7, FormatCurrency(it.Rate), "", 0, "R", fill, 0, "")
		p.pdf.CellFormat(cols[3], 7, FormatCurrency(it.Total()), "", 1, "R", fill, 0, "")
	}
	p.pdf.Ln(2)

	row := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		p.text(style, 10)
		p.pdf.CellFormat(p.width*0.75, 6, p.tr(label), "", 0, "R", false, 0, "")
		p.pdf.CellFormat(p.width*0.25, 6, value, "", 1, "R", false, 0, "")
	}
	row("Subtotal", FormatCurrency(p.l.Totals.Subtotal), false)
	if doc.DiscountAmount > 0 {
		row("Discount", "-"+FormatCurrency(doc.DiscountAmount), false)
	}
	if doc.TaxRate > 0 {
		row("Tax ("+FormatNumber(doc.TaxRate)+"%)", FormatCurrency(p.l.Totals.TaxAmount), false)
	}
	row("Grand Total", FormatCurrency(p.l.Totals.GrandTotal), true)
}

func (p *pdfPage) termsConditions() {
	tc := p.l.Doc.TermsConditions
	for _, t := range tc.Terms {
		p.text("", 10)
		p.line(t.Label + ": " + t.Value)
	}
	if tc.AdditionalTerms != "" {
		p.pdf.Ln(2)
		p.line(tc.AdditionalTerms)
	}
}

func (p *pdfPage) notes() {
	p.text("", 10)
	for i, n := range p.l.Doc.Notes {
		p.line(strconv.Itoa(i+1) + ". " + n.Text)
	}
}

func (p *pdfPage) acceptance() {
	a := p.l.Doc.Acceptance
	p.text("", 10)
	p.line("By signing below, Client agrees to the terms and conditions outlined in this proposal.")
	p.pdf.Ln(14)
	y := p.pdf.GetY()
	p.pdf.SetDrawColor(17, 24, 39)
	p.pdf.SetLineWidth(0.3)
	p.pdf.Line(pageMargin, y, pageMargin+80, y)
	p.pdf.Ln(2)

	sig := "Client Signature"
	if a.ClientName != "" {
		sig += " (" + a.ClientName + ")"
	}
	p.muted("", 9)
	p.line(sig)
	if a.SignatureDate != "" {
		p.line("Date: " + FormatDate(a.SignatureDate))
	}
}

func (p *pdfPage) footer() {
	p.pdf.SetY(-15)
	p.muted("", 8)
	p.pdf.CellFormat(0, 5, p.tr(p.l.FooterLine()), "T", 0, "C", false, 0, "")
}

// decodeDataURL extracts the payload of a base64 "data:image/...;base64," URL.
func decodeDataURL(s string) ([]byte, bool) {
	meta, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(meta, "data:image/") || !strings.HasSuffix(meta, ";base64") {
		return nil, false
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, false
	}
	return data, true
}

func parseHex(color string) rgb {
	v, err := strconv.ParseUint(strings.TrimPrefix(color, "#"), 16, 32)
	if err != nil {
		return parseHex(defaultThemeColor)
	}
	return rgb{r: int(v >> 16 & 0xff), g: int(v >> 8 & 0xff), b: int(v & 0xff)}
}
