package document

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/dansever/estait-app-sub000/internal/domain/leasing"
	"github.com/shopspring/decimal"
)

// StatementLine is one ledger entry on a lease statement
type StatementLine struct {
	Date        civil.Date
	Description string
	Category    string
	Income      bool
	Amount      decimal.Decimal
	Status      string
}

// LeaseStatement is everything printed on a lease statement
type LeaseStatement struct {
	GeneratedOn      civil.Date
	Language         string
	PropertyName     string
	PropertyAddress  string
	TenantName       string
	LeaseStart       civil.Date
	LeaseEnd         civil.Date
	TerminatedAt     *civil.Date
	Status           leasing.Status
	Progress         leasing.Progress
	RentAmount       decimal.Decimal
	SecurityDeposit  decimal.Decimal
	Currency         string
	PaymentFrequency string
	NextPaymentDate  *civil.Date
	Lines            []StatementLine
	Received         decimal.Decimal
	Outstanding      decimal.Decimal
}

// StatementRenderer turns a lease statement into a PDF document
type StatementRenderer interface {
	RenderLeaseStatement(ctx context.Context, statement LeaseStatement) ([]byte, error)
}
