package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
)

const (
	pngWidth     = 800
	pngMargin    = 40
	pngLine      = 18
	pngMaxHeight = 16000

	logoMaxWidth  = 200
	logoMaxHeight = 56
)

var (
	pngFace = basicfont.Face7x13

	inkColor    = color.RGBA{R: 17, G: 24, B: 39, A: 255}
	mutedColor  = color.RGBA{R: 107, G: 114, B: 128, A: 255}
	stripeColor = color.RGBA{R: 243, G: 244, B: 246, A: 255}

	pngText = strings.NewReplacer("•", "-", "\r", "")
)

// PNGRenderer draws the proposal as a single tall image in a fixed-width
// bitmap face.
type PNGRenderer struct{}

func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{}
}

func (r *PNGRenderer) ContentType() string {
	return "image/png"
}

func (r *PNGRenderer) Render(l Layout, w io.Writer) error {
	s := newPNGSheet(l)

	s.header()
	s.parties()
	for _, sec := range l.Sections {
		s.sectionTitle(sec.Label)
		switch sec.Key {
		case domain.SectionExecutiveSummary:
			s.executiveSummary()
		case domain.SectionScopeOfWork:
			s.scopeOfWork()
		case domain.SectionTimeline:
			s.timeline()
		case domain.SectionFinancialBreakdown:
			s.financialBreakdown()
		case domain.SectionTermsConditions:
			s.termsConditions()
		case domain.SectionNotes:
			s.notes()
		case domain.SectionAcceptance:
			s.acceptance()
		}
	}
	s.footer()

	img, err := s.paint()
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

type cellAlign int

const (
	alignLeft cellAlign = iota
	alignRight
	alignCenter
)

type pngCell struct {
	text  string
	x, w  int
	align cellAlign
	ink   color.Color
}

// pngRow is one horizontal band of the sheet. Rows are laid out top to
// bottom and painted in a second pass once the total height is known.
type pngRow struct {
	height int
	cells  []pngCell
	fill   color.Color
	logo   image.Image

	// fillWidth narrows the fill band; zero spans the content width.
	fillWidth int
}

type pngSheet struct {
	l     Layout
	theme color.RGBA
	width int
	rows  []pngRow
}

func newPNGSheet(l Layout) *pngSheet {
	c := parseHex(l.ThemeColor)
	return &pngSheet{
		l:     l,
		theme: color.RGBA{R: uint8(c.r), G: uint8(c.g), B: uint8(c.b), A: 255},
		width: pngWidth - 2*pngMargin,
	}
}

func (s *pngSheet) add(r pngRow) {
	if r.height == 0 {
		r.height = pngLine
	}
	s.rows = append(s.rows, r)
}

func (s *pngSheet) gap(h int) {
	s.rows = append(s.rows, pngRow{height: h})
}

func (s *pngSheet) rule(h int, c color.Color) {
	s.rows = append(s.rows, pngRow{height: h, fill: c})
}

func (s *pngSheet) para(text string, ink color.Color) {
	for _, line := range wrapText(text, s.width) {
		s.add(pngRow{cells: []pngCell{{text: line, w: s.width, ink: ink}}})
	}
}

func (s *pngSheet) right(text string, ink color.Color) {
	s.add(pngRow{cells: []pngCell{{text: text, w: s.width, align: alignRight, ink: ink}}})
}

func (s *pngSheet) header() {
	doc := s.l.Doc
	title := pngRow{
		height: pngLine + 6,
		cells:  []pngCell{{text: doc.DocumentTitle, w: s.width, align: alignRight, ink: s.theme}},
	}
	if logo := pngLogo(doc.Branding.Logo); logo != nil {
		title.logo = logo
		title.height = max(title.height, logo.Bounds().Dy())
	}
	s.add(title)
	for _, t := range []string{
		doc.DocumentNumber,
		"Issued: " + FormatDate(doc.IssueDate),
		"Valid Until: " + FormatDate(doc.DueDate),
	} {
		s.right(t, inkColor)
	}
	s.gap(6)
	s.rule(3, s.theme)
	s.gap(14)
}

func (s *pngSheet) parties() {
	doc := s.l.Doc
	half := s.width / 2

	column := func(x int, label string, lines []string) []pngCell {
		cells := []pngCell{{text: strings.ToUpper(label), x: x, w: half - 8, ink: mutedColor}}
		for _, line := range lines {
			for _, wrapped := range wrapText(line, half-8) {
				cells = append(cells, pngCell{text: wrapped, x: x, w: half - 8, ink: inkColor})
			}
		}
		return cells
	}

	taxID := ""
	if doc.Sender.TaxID != "" {
		taxID = "Tax ID: " + doc.Sender.TaxID
	}
	left := column(0, "From", []string{
		doc.Sender.Name, taxID, doc.Sender.Address, doc.Sender.Email, doc.Sender.Phone, doc.Sender.Website,
	})
	right := column(half, "To", []string{
		doc.Recipient.Name, doc.Recipient.Company, doc.Recipient.Address, doc.Recipient.Email, doc.Recipient.Phone,
	})

	for i := 0; i < max(len(left), len(right)); i++ {
		var row pngRow
		if i < len(left) {
			row.cells = append(row.cells, left[i])
		}
		if i < len(right) {
			row.cells = append(row.cells, right[i])
		}
		s.add(row)
	}
	s.gap(12)
}

func (s *pngSheet) sectionTitle(label string) {
	s.gap(8)
	s.add(pngRow{height: pngLine + 4, cells: []pngCell{{text: label, w: s.width, ink: s.theme}}})
	s.rule(1, s.theme)
	s.gap(6)
}

func (s *pngSheet) labelled(label, body string) {
	if body == "" {
		return
	}
	s.para(strings.ToUpper(label), mutedColor)
	s.para(body, inkColor)
	s.gap(4)
}

func (s *pngSheet) executiveSummary() {
	es := s.l.Doc.ExecutiveSummary
	s.labelled(es.ObjectiveLabel, es.Objective)
	s.labelled(es.SolutionLabel, es.Solution)
}

func (s *pngSheet) scopeOfWork() {
	for _, ph := range s.l.Phases {
		s.para(ph.Heading, inkColor)
		s.para(ph.Description, mutedColor)
		s.gap(2)
	}
	if ex := s.l.Doc.ScopeOfWork.Exclusions; len(ex) > 0 {
		s.para("EXCLUSIONS", mutedColor)
		for _, e := range ex {
			s.para("- "+e.Text, inkColor)
		}
	}
}

func (s *pngSheet) timeline() {
	tl := s.l.Doc.Timeline
	s.para("Start Date: "+FormatDate(tl.StartDate), inkColor)
	if tl.EstimatedDuration != "" {
		s.para("Duration: "+tl.EstimatedDuration, inkColor)
	}
	if len(tl.Milestones) == 0 {
		return
	}
	s.gap(2)
	s.para("MILESTONES", mutedColor)
	split := s.width * 7 / 10
	for _, m := range tl.Milestones {
		s.add(pngRow{cells: []pngCell{
			{text: "- " + m.Title, w: split, ink: inkColor},
			{text: FormatDate(m.Date), x: split, w: s.width - split, align: alignRight, ink: inkColor},
		}})
	}
}

func (s *pngSheet) financialBreakdown() {
	doc := s.l.Doc
	xs := []int{0, s.width * 50 / 100, s.width * 62 / 100, s.width * 81 / 100, s.width}

	row := func(values []string, ink color.Color) []pngCell {
		cells := make([]pngCell, len(values))
		for i, v := range values {
			align := alignRight
			if i == 0 {
				align = alignLeft
			}
			cells[i] = pngCell{text: v, x: xs[i] + 4, w: xs[i+1] - xs[i] - 8, align: align, ink: ink}
		}
		return cells
	}

	s.add(pngRow{height: pngLine + 4, fill: s.theme, cells: row([]string{"Description", "Qty", "Rate", "Amount"}, color.White)})
	for i, it := range doc.Items {
		r := pngRow{cells: row([]string{
			it.Description, FormatNumber(it.Quantity), FormatCurrency(it.Rate), FormatCurrency(it.Total()),
		}, inkColor)}
		if i%2 == 1 {
			r.fill = stripeColor
		}
		s.add(r)
	}
	s.gap(6)

	split := s.width * 3 / 4
	total := func(label, value string) {
		s.add(pngRow{cells: []pngCell{
			{text: label, w: split, align: alignRight, ink: inkColor},
			{text: value, x: split, w: s.width - split, align: alignRight, ink: inkColor},
		}})
	}
	total("Subtotal", FormatCurrency(s.l.Totals.Subtotal))
	if doc.DiscountAmount > 0 {
		total("Discount", "-"+FormatCurrency(doc.DiscountAmount))
	}
	if doc.TaxRate > 0 {
		total("Tax ("+FormatNumber(doc.TaxRate)+"%)", FormatCurrency(s.l.Totals.TaxAmount))
	}
	total("Grand Total", FormatCurrency(s.l.Totals.GrandTotal))
}

func (s *pngSheet) termsConditions() {
	tc := s.l.Doc.TermsConditions
	for _, t := range tc.Terms {
		s.para(t.Label+": "+t.Value, inkColor)
	}
	if tc.AdditionalTerms != "" {
		s.gap(4)
		s.para(tc.AdditionalTerms, inkColor)
	}
}

func (s *pngSheet) notes() {
	for i, n := range s.l.Doc.Notes {
		s.para(strconv.Itoa(i+1)+". "+n.Text, inkColor)
	}
}

func (s *pngSheet) acceptance() {
	a := s.l.Doc.Acceptance
	s.para("By signing below, Client agrees to the terms and conditions outlined in this proposal.", inkColor)
	s.gap(36)
	s.rows = append(s.rows, pngRow{height: 1, fill: inkColor, fillWidth: s.width * 45 / 100})
	s.gap(4)

	sig := "Client Signature"
	if a.ClientName != "" {
		sig += " (" + a.ClientName + ")"
	}
	s.para(sig, mutedColor)
	if a.SignatureDate != "" {
		s.para("Date: "+FormatDate(a.SignatureDate), mutedColor)
	}
}

func (s *pngSheet) footer() {
	s.gap(20)
	s.rule(1, mutedColor)
	s.add(pngRow{cells: []pngCell{{text: s.l.FooterLine(), w: s.width, align: alignCenter, ink: mutedColor}}})
}

func (s *pngSheet) paint() (*image.RGBA, error) {
	height := 2 * pngMargin
	for _, r := range s.rows {
		height += r.height
	}
	if height > pngMaxHeight {
		return nil, fmt.Errorf("png layout is %dpx tall, limit is %dpx", height, pngMaxHeight)
	}

	img := image.NewRGBA(image.Rect(0, 0, pngWidth, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	y := pngMargin
	for _, r := range s.rows {
		if r.fill != nil {
			w := s.width
			if r.fillWidth > 0 {
				w = r.fillWidth
			}
			band := image.Rect(pngMargin, y, pngMargin+w, y+r.height)
			draw.Draw(img, band, image.NewUniform(r.fill), image.Point{}, draw.Src)
		}
		if r.logo != nil {
			b := r.logo.Bounds()
			draw.Draw(img, image.Rect(pngMargin, y, pngMargin+b.Dx(), y+b.Dy()), r.logo, b.Min, draw.Over)
		}
		baseline := y + (r.height-pngFace.Height)/2 + pngFace.Ascent
		for _, c := range r.cells {
			drawCell(img, c, baseline)
		}
		y += r.height
	}
	return img, nil
}

func drawCell(img *image.RGBA, c pngCell, baseline int) {
	text := fitText(pngText.Replace(c.text), c.w)
	if text == "" {
		return
	}
	x := pngMargin + c.x
	switch c.align {
	case alignRight:
		x += c.w - textWidth(text)
	case alignCenter:
		x += (c.w - textWidth(text)) / 2
	}
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c.ink),
		Face: pngFace,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(text)
}

func textWidth(s string) int {
	return font.MeasureString(pngFace, s).Ceil()
}

// wrapText breaks text into lines no wider than width. Words longer than a
// line are left for fitText to cut.
func wrapText(text string, width int) []string {
	var out []string
	for _, para := range strings.Split(pngText.Replace(text), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if textWidth(line+" "+w) <= width {
				line += " " + w
				continue
			}
			out = append(out, line)
			line = w
		}
		out = append(out, line)
	}
	return out
}

// fitText cuts text to width, marking the cut with an ellipsis.
func fitText(text string, width int) string {
	if textWidth(text) <= width {
		return text
	}
	keep := (width - textWidth("...")) / pngFace.Advance
	r := []rune(text)
	if keep <= 0 {
		return ""
	}
	if keep < len(r) {
		r = r[:keep]
	}
	return string(r) + "..."
}

// pngLogo decodes and scales a data-URL logo. Anything that cannot be
// decoded is skipped.
func pngLogo(logo *string) image.Image {
	if logo == nil {
		return nil
	}
	data, ok := decodeDataURL(*logo)
	if !ok {
		return nil
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil
	}
	h := min(b.Dy(), logoMaxHeight)
	w := max(1, b.Dx()*h/b.Dy())
	if w > logoMaxWidth {
		w = logoMaxWidth
		h = max(1, b.Dy()*w/b.Dx())
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
