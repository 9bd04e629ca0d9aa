package printing

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dansever/estait-app-sub000/internal/application/document"
	"github.com/dansever/estait-app-sub000/internal/domain/leasing"
)

type fakeRenderer struct {
	req *RenderRequest
	err error
}

func (f *fakeRenderer) Render(_ context.Context, req *RenderRequest) (*RenderResult, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &RenderResult{PDFData: []byte("%PDF-1.7"), PageCount: 1}, nil
}

func (f *fakeRenderer) Close() error { return nil }

func sampleStatement() document.LeaseStatement {
	next := civil.Date{Year: 2024, Month: 8, Day: 10}
	return document.LeaseStatement{
		GeneratedOn:      civil.Date{Year: 2024, Month: 7, Day: 20},
		PropertyName:     "Herzl 12 <Apt 3>",
		PropertyAddress:  "12 Herzl St, Tel Aviv",
		TenantName:       "Noa Katz",
		LeaseStart:       civil.Date{Year: 2024, Month: 1, Day: 1},
		LeaseEnd:         civil.Date{Year: 2024, Month: 12, Day: 31},
		Status:           leasing.StatusActive,
		Progress:         leasing.Progress{TotalDays: 365, ElapsedDays: 201, Percent: 55.1, DaysRemaining: 164},
		RentAmount:       decimal.NewFromInt(5000),
		SecurityDeposit:  decimal.NewFromInt(10000),
		Currency:         "USD",
		PaymentFrequency: "monthly",
		NextPaymentDate:  &next,
		Lines: []document.StatementLine{
			{Date: civil.Date{Year: 2024, Month: 6, Day: 10}, Description: "June rent", Category: "rent", Income: true, Amount: decimal.NewFromInt(5000), Status: "completed"},
			{Date: civil.Date{Year: 2024, Month: 6, Day: 15}, Description: "Boiler repair", Category: "repairs", Amount: decimal.NewFromInt(350), Status: "completed"},
		},
		Received:    decimal.NewFromInt(5000),
		Outstanding: decimal.Zero,
	}
}

func TestStatementPrinter_RenderHTML(t *testing.T) {
	p := NewStatementPrinter(&fakeRenderer{}, zaptest.NewLogger(t))

	out, err := p.RenderHTML(sampleStatement())
	require.NoError(t, err)

	assert.Contains(t, out, `<html lang="en" dir="ltr">`)
	assert.Contains(t, out, "Herzl 12 &lt;Apt 3&gt;")
	assert.Contains(t, out, "Noa Katz")
	assert.Contains(t, out, "2024-01-01 - 2024-12-31")
	assert.Contains(t, out, "Active")
	assert.Contains(t, out, "201 of 365 days (55.1%)")
	assert.Contains(t, out, "164 days remaining")
	assert.Contains(t, out, "5,000.00")
	assert.Contains(t, out, "June rent")
	assert.Contains(t, out, "-$")
	assert.Contains(t, out, "2024-08-10")
	assert.NotContains(t, out, "Terminated on")
}

func TestStatementPrinter_RenderHTML_Hebrew(t *testing.T) {
	st := sampleStatement()
	st.Language = "he-IL"
	st.TenantName = ""
	terminated := civil.Date{Year: 2024, Month: 9, Day: 30}
	st.TerminatedAt = &terminated
	st.Lines = nil

	out, err := NewStatementPrinter(&fakeRenderer{}, nil).RenderHTML(st)
	require.NoError(t, err)

	assert.Contains(t, out, `dir="rtl"`)
	assert.Contains(t, out, "דוח חוזה שכירות")
	assert.Contains(t, out, "לא הוגדר שוכר")
	assert.Contains(t, out, "הסתיים בתאריך 2024-09-30")
	assert.Contains(t, out, "אין תנועות")
}

func TestStatementPrinter_UnknownLanguageFallsBackToEnglish(t *testing.T) {
	st := sampleStatement()
	st.Language = "xx-invalid-tag!"

	out, err := NewStatementPrinter(&fakeRenderer{}, nil).RenderHTML(st)
	require.NoError(t, err)
	assert.Contains(t, out, "Lease statement")
}

func TestStatementPrinter_RenderLeaseStatement(t *testing.T) {
	fake := &fakeRenderer{}
	p := NewStatementPrinter(fake, nil, WithPaperSize(PaperSizeLetter))

	pdf, err := p.RenderLeaseStatement(context.Background(), sampleStatement())
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), pdf)

	require.NotNil(t, fake.req)
	assert.Equal(t, PaperSizeLetter, fake.req.PaperSize)
	assert.Equal(t, "Lease statement", fake.req.Title)
	assert.Contains(t, fake.req.FooterHTML, "pageNumber")
	assert.Contains(t, fake.req.HTML, "Noa Katz")
}

func TestStatementPrinter_RenderFailure(t *testing.T) {
	boom := NewRenderError(ErrCodeRenderTimeout, "timed out", nil)
	p := NewStatementPrinter(&fakeRenderer{err: boom}, nil)

	_, err := p.RenderLeaseStatement(context.Background(), sampleStatement())
	assert.True(t, errors.Is(err, boom))
}
