package printing

import (
	"bytes"
	"context"
	"html/template"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dansever/estait-app-sub000/internal/application/document"
	"github.com/dansever/estait-app-sub000/internal/domain/leasing"
	"github.com/dansever/estait-app-sub000/internal/domain/shared/valueobject"
)

var supportedLanguages = language.NewMatcher([]language.Tag{language.English, language.Hebrew})

// Hebrew labels; English text doubles as the message key.
func init() {
	for key, msg := range map[string]string{
		"Lease statement":      "דוח חוזה שכירות",
		"Generated on %s":      "הופק בתאריך %s",
		"Property":             "נכס",
		"Tenant":               "שוכר",
		"No tenant assigned":   "לא הוגדר שוכר",
		"Lease period":         "תקופת החוזה",
		"Terminated on %s":     "הסתיים בתאריך %s",
		"Status":               "סטטוס",
		"Rent":                 "שכר דירה",
		"Security deposit":     "פיקדון",
		"Payment frequency":    "תדירות תשלום",
		"Next payment":         "התשלום הבא",
		"%d days remaining":    "נותרו %d ימים",
		"Date":                 "תאריך",
		"Description":          "תיאור",
		"Category":             "קטגוריה",
		"Amount":               "סכום",
		"Received":             "התקבל",
		"Outstanding":          "יתרה לתשלום",
		"No transactions":      "אין תנועות",
		"Page":                 "עמוד",

		"%d of %d days (%.1f%%)": "%d מתוך %d ימים (%.1f%%)",
	} {
		_ = message.SetString(language.Hebrew, key, msg)
	}
}

// StatementPrinter renders lease statements through a PDFRenderer
type StatementPrinter struct {
	renderer  PDFRenderer
	paperSize PaperSize
	logger    *zap.Logger
	tmpl      *template.Template
}

// StatementOption configures a StatementPrinter
type StatementOption func(*StatementPrinter)

// WithPaperSize sets the sheet format, A4 by default
func WithPaperSize(size PaperSize) StatementOption {
	return func(p *StatementPrinter) {
		if size.IsValid() {
			p.paperSize = size
		}
	}
}

// NewStatementPrinter creates a StatementPrinter
func NewStatementPrinter(renderer PDFRenderer, logger *zap.Logger, opts ...StatementOption) *StatementPrinter {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &StatementPrinter{
		renderer:  renderer,
		paperSize: PaperSizeA4,
		logger:    logger,
		tmpl:      template.Must(template.New("statement").Parse(statementTemplate)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RenderLeaseStatement implements document.StatementRenderer
func (p *StatementPrinter) RenderLeaseStatement(ctx context.Context, st document.LeaseStatement) ([]byte, error) {
	body, err := p.RenderHTML(st)
	if err != nil {
		return nil, err
	}
	view := newStatementView(st)
	res, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:        body,
		PaperSize:   p.paperSize,
		Orientation: OrientationPortrait,
		Margins:     DefaultMargins(),
		Title:       view.T("Lease statement"),
		FooterHTML: `<div style="font-size:8px;width:100%;text-align:center">` +
			template.HTMLEscapeString(view.T("Page")) +
			` <span class="pageNumber"></span> / <span class="totalPages"></span></div>`,
	})
	if err != nil {
		return nil, err
	}
	p.logger.Info("Lease statement rendered",
		zap.String("property", st.PropertyName),
		zap.Int("lines", len(st.Lines)),
		zap.Int("pages", res.PageCount),
	)
	return res.PDFData, nil
}

// RenderHTML lays the statement out as a standalone HTML document
func (p *StatementPrinter) RenderHTML(st document.LeaseStatement) (string, error) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, newStatementView(st)); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to execute statement template", err)
	}
	return buf.String(), nil
}

// statementView binds a statement to a language for the template
type statementView struct {
	document.LeaseStatement
	Lang    language.Tag
	Dir     string
	printer *message.Printer
	caser   cases.Caser
}

func newStatementView(st document.LeaseStatement) statementView {
	tag := language.English
	if st.Language != "" {
		if parsed, err := language.Parse(st.Language); err == nil {
			_, idx, _ := supportedLanguages.Match(parsed)
			tag = []language.Tag{language.English, language.Hebrew}[idx]
		}
	}
	dir := "ltr"
	if tag == language.Hebrew {
		dir = "rtl"
	}
	return statementView{
		LeaseStatement: st,
		Lang:           tag,
		Dir:            dir,
		printer:        message.NewPrinter(tag),
		caser:          cases.Title(tag),
	}
}

// T translates a label
func (v statementView) T(key string, args ...any) string {
	return v.printer.Sprintf(key, args...)
}

// Money formats an amount in the statement currency
func (v statementView) Money(amount decimal.Decimal) string {
	m, err := valueobject.NewMoney(amount, valueobject.Currency(v.Currency))
	if err != nil {
		return amount.StringFixed(2) + " " + v.Currency
	}
	return m.Format(v.Lang)
}

// Humanize turns a snake_case code into a title
func (v statementView) Humanize(code string) string {
	return v.caser.String(strings.ReplaceAll(code, "_", " "))
}

func (v statementView) Date(d civil.Date) string {
	if !d.IsValid() {
		return "-"
	}
	return d.String()
}

func (v statementView) StatusClass() string {
	switch v.Status {
	case leasing.StatusActive:
		return "ok"
	case leasing.StatusEndingSoon:
		return "warn"
	default:
		return "muted"
	}
}

func (v statementView) ProgressLine() string {
	return v.T("%d of %d days (%.1f%%)", v.Progress.ElapsedDays, v.Progress.TotalDays, v.Progress.Percent)
}

func (v statementView) RemainingLine() string {
	return v.T("%d days remaining", v.Progress.DisplayDaysRemaining())
}

var _ document.StatementRenderer = (*StatementPrinter)(nil)

const statementTemplate = `<!DOCTYPE html>
<html lang="{{.Lang}}" dir="{{.Dir}}">
<head>
<meta charset="UTF-8">
<title>{{.T "Lease statement"}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 11px; color: #222; }
h1 { font-size: 20px; margin: 0 0 4px; }
.sub { color: #777; margin-bottom: 16px; }
table { width: 100%; border-collapse: collapse; margin-bottom: 14px; }
th, td { padding: 5px 6px; border-bottom: 1px solid #e4e4e4; text-align: start; }
th { background: #f5f5f5; }
.num { text-align: end; white-space: nowrap; }
.ok { color: #217a3c; } .warn { color: #b26b00; } .muted { color: #777; }
.bar { height: 6px; background: #eee; border-radius: 3px; }
.bar span { display: block; height: 6px; background: #3c6fd1; border-radius: 3px; }
.totals td { font-weight: bold; }
</style>
</head>
<body>
<h1>{{.T "Lease statement"}}</h1>
<div class="sub">{{.T "Generated on %s" (.Date .GeneratedOn)}}</div>

<table>
<tr><th>{{.T "Property"}}</th><td>{{.PropertyName}}{{if .PropertyAddress}}<br>{{.PropertyAddress}}{{end}}</td></tr>
<tr><th>{{.T "Tenant"}}</th><td>{{if .TenantName}}{{.TenantName}}{{else}}{{.T "No tenant assigned"}}{{end}}</td></tr>
<tr><th>{{.T "Lease period"}}</th><td>{{.Date .LeaseStart}} - {{.Date .LeaseEnd}}{{with .TerminatedAt}}<br>{{$.T "Terminated on %s" ($.Date .)}}{{end}}</td></tr>
<tr><th>{{.T "Status"}}</th><td><span class="{{.StatusClass}}">{{.Humanize (print .Status)}}</span><br>
{{.ProgressLine}}, {{.RemainingLine}}
<div class="bar"><span style="width: {{printf "%.1f" .Progress.Percent}}%"></span></div></td></tr>
<tr><th>{{.T "Rent"}}</th><td>{{.Money .RentAmount}}</td></tr>
<tr><th>{{.T "Security deposit"}}</th><td>{{.Money .SecurityDeposit}}</td></tr>
<tr><th>{{.T "Payment frequency"}}</th><td>{{.Humanize .PaymentFrequency}}</td></tr>
{{with .NextPaymentDate}}<tr><th>{{$.T "Next payment"}}</th><td>{{$.Date .}}</td></tr>{{end}}
</table>

<table>
<thead><tr><th>{{.T "Date"}}</th><th>{{.T "Description"}}</th><th>{{.T "Category"}}</th><th>{{.T "Status"}}</th><th class="num">{{.T "Amount"}}</th></tr></thead>
<tbody>
{{range .Lines}}<tr>
<td>{{$.Date .Date}}</td><td>{{.Description}}</td><td>{{$.Humanize .Category}}</td><td>{{$.Humanize .Status}}</td>
<td class="num">{{if not .Income}}-{{end}}{{$.Money .Amount}}</td>
</tr>
{{else}}<tr><td colspan="5" class="muted">{{.T "No transactions"}}</td></tr>
{{end}}</tbody>
<tfoot>
<tr class="totals"><td colspan="4">{{.T "Received"}}</td><td class="num">{{.Money .Received}}</td></tr>
<tr class="totals"><td colspan="4">{{.T "Outstanding"}}</td><td class="num">{{.Money .Outstanding}}</td></tr>
</tfoot>
</table>
</body>
</html>
`
