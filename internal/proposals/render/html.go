package render

import (
	"html/template"
	"io"
	"strings"
)

const previewTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{.Doc.DocumentTitle}} {{.Doc.DocumentNumber}}</title>
  <style>
    :root { --primary: {{.ThemeColor}}; }
    * { box-sizing: border-box; }
    body { margin: 0; padding: 32px; font-family: "Helvetica Neue", Arial, sans-serif; color: #111827; background: #ffffff; }
    .proposal { max-width: 820px; margin: 0 auto; }
    .header { display: flex; justify-content: space-between; align-items: flex-start; border-bottom: 2px solid var(--primary); padding-bottom: 16px; margin-bottom: 24px; }
    .header img { max-height: 56px; }
    .meta { text-align: right; font-size: 14px; }
    .meta h1 { margin: 0; color: var(--primary); letter-spacing: 0.04em; }
    .parties { display: flex; gap: 32px; margin-bottom: 24px; font-size: 14px; }
    .parties > div { flex: 1; }
    .label { color: #6b7280; text-transform: uppercase; letter-spacing: 0.04em; font-size: 11px; }
    .multiline { white-space: pre-line; }
    .section { margin-bottom: 24px; }
    .section h2 { color: var(--primary); font-size: 16px; border-bottom: 1px solid #e5e7eb; padding-bottom: 6px; }
    table { width: 100%; border-collapse: collapse; font-size: 14px; }
    th, td { padding: 10px; border-bottom: 1px solid #e5e7eb; text-align: left; }
    th { text-transform: uppercase; font-size: 11px; letter-spacing: 0.04em; color: #6b7280; }
    td.num, th.num { text-align: right; }
    .totals { margin-left: auto; width: 280px; font-size: 14px; }
    .totals div { display: flex; justify-content: space-between; padding: 4px 0; }
    .totals .grand { border-top: 2px solid var(--primary); font-weight: bold; font-size: 16px; }
    .signature-line { border-bottom: 1px solid #111827; width: 260px; height: 40px; }
    .footer { border-top: 1px solid #e5e7eb; padding-top: 16px; font-size: 12px; color: #6b7280; text-align: center; }
  </style>
</head>
<body>
  <div class="proposal">
    <div class="header">
      <div>{{with logoURL .Doc.Branding.Logo}}<img src="{{.}}" alt="Logo" />{{end}}</div>
      <div class="meta">
        <h1>{{.Doc.DocumentTitle}}</h1>
        <div>{{.Doc.DocumentNumber}}</div>
        <div>Issued: {{formatDate .Doc.IssueDate}}</div>
        <div>Valid Until: {{formatDate .Doc.DueDate}}</div>
      </div>
    </div>

    <div class="parties">
      <div>
        <div class="label">From</div>
        <strong>{{.Doc.Sender.Name}}</strong>
        {{with .Doc.Sender.TaxID}}<div>Tax ID: {{.}}</div>{{end}}
        <div class="multiline">{{.Doc.Sender.Address}}</div>
        <div>{{.Doc.Sender.Email}}</div>
        <div>{{.Doc.Sender.Phone}}</div>
        {{with .Doc.Sender.Website}}<div>{{.}}</div>{{end}}
      </div>
      <div>
        <div class="label">To</div>
        <strong>{{.Doc.Recipient.Name}}</strong>
        {{with .Doc.Recipient.Company}}<div>{{.}}</div>{{end}}
        <div class="multiline">{{.Doc.Recipient.Address}}</div>
        <div>{{.Doc.Recipient.Email}}</div>
        <div>{{.Doc.Recipient.Phone}}</div>
      </div>
    </div>

    {{range .Sections}}
    <div class="section" id="{{.Key}}">
      <h2>{{.Label}}</h2>
      {{if eq .Key "executiveSummary"}}{{template "executiveSummary" $}}
      {{else if eq .Key "scopeOfWork"}}{{template "scopeOfWork" $}}
      {{else if eq .Key "timeline"}}{{template "timeline" $}}
      {{else if eq .Key "financialBreakdown"}}{{template "financialBreakdown" $}}
      {{else if eq .Key "termsConditions"}}{{template "termsConditions" $}}
      {{else if eq .Key "notes"}}{{template "notes" $}}
      {{else if eq .Key "acceptance"}}{{template "acceptance" $}}
      {{end}}
    </div>
    {{end}}

    <div class="footer">{{.FooterLine}}</div>
  </div>
</body>
</html>

{{define "executiveSummary"}}{{with .Doc.ExecutiveSummary}}
  {{if .Objective}}<div class="label">{{.ObjectiveLabel}}</div><p class="multiline">{{.Objective}}</p>{{end}}
  {{if .Solution}}<div class="label">{{.SolutionLabel}}</div><p class="multiline">{{.Solution}}</p>{{end}}
{{end}}{{end}}

{{define "scopeOfWork"}}
  {{range .Phases}}<div class="phase"><strong>{{.Heading}}</strong><p class="multiline">{{.Description}}</p></div>{{end}}
  {{with .Doc.ScopeOfWork.Exclusions}}<div class="label">Exclusions</div><ul>{{range .}}<li>{{.Text}}</li>{{end}}</ul>{{end}}
{{end}}

{{define "timeline"}}{{with .Doc.Timeline}}
  <p><span class="label">Start Date</span> {{formatDate .StartDate}} &nbsp; <span class="label">Duration</span> {{.EstimatedDuration}}</p>
  {{with .Milestones}}<div class="label">Milestones</div><ul>{{range .}}<li>{{.Title}} ({{formatDate .Date}})</li>{{end}}</ul>{{end}}
{{end}}{{end}}

{{define "financialBreakdown"}}
  <table>
    <thead><tr><th>Description</th><th class="num">Qty</th><th class="num">Rate</th><th class="num">Amount</th></tr></thead>
    <tbody>
      {{range .Doc.Items}}<tr><td>{{.Description}}</td><td class="num">{{formatNumber .Quantity}}</td><td class="num">{{formatCurrency .Rate}}</td><td class="num">{{formatCurrency .Total}}</td></tr>{{end}}
    </tbody>
  </table>
  <div class="totals">
    <div><span>Subtotal</span><span>{{formatCurrency .Totals.Subtotal}}</span></div>
    {{if gt .Doc.DiscountAmount 0.0}}<div><span>Discount</span><span>-{{formatCurrency .Doc.DiscountAmount}}</span></div>{{end}}
    {{if gt .Doc.TaxRate 0.0}}<div><span>Tax ({{formatNumber .Doc.TaxRate}}%)</span><span>{{formatCurrency .Totals.TaxAmount}}</span></div>{{end}}
    <div class="grand"><span>Grand Total</span><span>{{formatCurrency .Totals.GrandTotal}}</span></div>
  </div>
{{end}}

{{define "termsConditions"}}{{with .Doc.TermsConditions}}
  {{range .Terms}}<p><strong>{{.Label}}:</strong> {{.Value}}</p>{{end}}
  {{with .AdditionalTerms}}<p class="multiline">{{.}}</p>{{end}}
{{end}}{{end}}

{{define "notes"}}
  <ol>{{range .Doc.Notes}}<li class="multiline">{{.Text}}</li>{{end}}</ol>
{{end}}

{{define "acceptance"}}{{with .Doc.Acceptance}}
  <p>By signing below, Client agrees to the terms and conditions outlined in this proposal.</p>
  <div class="signature-line"></div>
  <div>Client Signature{{with .ClientName}} ({{.}}){{end}}</div>
  {{with .SignatureDate}}<div>Date: {{formatDate .}}</div>{{end}}
{{end}}{{end}}
`

// HTMLRenderer produces the live preview page.
type HTMLRenderer struct {
	tpl *template.Template
}

func NewHTMLRenderer() *HTMLRenderer {
	funcs := template.FuncMap{
		"formatCurrency": FormatCurrency,
		"formatDate":     FormatDate,
		"formatNumber":   FormatNumber,
		"logoURL":        logoURL,
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("preview").Funcs(funcs).Parse(previewTemplate)),
	}
}

func (r *HTMLRenderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *HTMLRenderer) Render(l Layout, w io.Writer) error {
	return r.tpl.Execute(w, l)
}

// logoURL lets image data URLs through the template's URL sanitizer and
// drops anything else.
func logoURL(logo *string) template.URL {
	if logo == nil || !strings.HasPrefix(*logo, "data:image/") {
		return ""
	}
	return template.URL(*logo)
}
