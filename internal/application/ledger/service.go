package ledger

import (
	"context"
	"sort"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/dansever/estait-app-sub000/internal/domain/leasing"
	"github.com/dansever/estait-app-sub000/internal/domain/ledger"
	"github.com/dansever/estait-app-sub000/internal/domain/property"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrReferenceExists = shared.NewDomainError("TRANSACTION_REFERENCE_EXISTS", "A transaction with this reference already exists")
	ErrLeaseMismatch   = shared.NewDomainError("LEASE_PROPERTY_MISMATCH", "Lease does not belong to the property")
	ErrInvalidPeriod   = shared.NewDomainError("INVALID_RANGE", "Summary period must end on or after its start")
)

// TransactionService handles the income and expense ledger of properties
type TransactionService struct {
	txRepo       ledger.TransactionRepository
	propertyRepo property.PropertyRepository
	leaseRepo    leasing.LeaseRepository
	publisher    shared.EventPublisher
	clock        shared.Clock
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	txRepo ledger.TransactionRepository,
	propertyRepo property.PropertyRepository,
	leaseRepo leasing.LeaseRepository,
	publisher shared.EventPublisher,
	clock shared.Clock,
) *TransactionService {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &TransactionService{
		txRepo:       txRepo,
		propertyRepo: propertyRepo,
		leaseRepo:    leaseRepo,
		publisher:    publisher,
		clock:        clock,
	}
}

// Create records a transaction
func (s *TransactionService) Create(ctx context.Context, ownerID uuid.UUID, req CreateTransactionRequest) (*TransactionResponse, error) {
	if err := s.checkOwnership(ctx, ownerID, req.PropertyID, req.LeaseID); err != nil {
		return nil, err
	}
	entry, err := toEntry(req.Type, req.Category, req.Amount, req.Currency, req.Date, req.Description)
	if err != nil {
		return nil, err
	}

	reference := strings.TrimSpace(req.Reference)
	if reference != "" {
		exists, err := s.txRepo.ExistsByReference(ctx, ownerID, reference)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrReferenceExists
		}
	}

	opts := []ledger.TransactionOption{ledger.WithReference(reference)}
	if req.Completed {
		opts = append(opts, ledger.Settled())
	}
	tx, err := ledger.NewTransaction(ownerID, req.PropertyID, req.LeaseID, entry, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, err
	}
	_ = shared.PublishAndClear(ctx, s.publisher, tx)

	resp := ToTransactionResponse(tx)
	return &resp, nil
}

// GetByID retrieves a transaction
func (s *TransactionService) GetByID(ctx context.Context, ownerID, transactionID uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.txRepo.FindByIDForOwner(ctx, ownerID, transactionID)
	if err != nil {
		return nil, err
	}
	resp := ToTransactionResponse(tx)
	return &resp, nil
}

// List retrieves transactions with filtering and pagination
func (s *TransactionService) List(ctx context.Context, ownerID uuid.UUID, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   strings.TrimSpace(filter.Search),
	}.Normalize()

	if filter.PropertyID != nil {
		domainFilter.Filters["property_id"] = *filter.PropertyID
	}
	if filter.LeaseID != nil {
		domainFilter.Filters["lease_id"] = *filter.LeaseID
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.DateFrom != "" {
		from, err := parseDate(filter.DateFrom)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["date_from"] = from
	}
	if filter.DateTo != "" {
		to, err := parseDate(filter.DateTo)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["date_to"] = to
	}

	txs, err := s.txRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.txRepo.CountForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToTransactionResponses(txs), total, nil
}

// Update replaces the entry of a pending transaction
func (s *TransactionService) Update(ctx context.Context, ownerID, transactionID uuid.UUID, req UpdateTransactionRequest) (*TransactionResponse, error) {
	tx, err := s.txRepo.FindByIDForOwner(ctx, ownerID, transactionID)
	if err != nil {
		return nil, err
	}
	if req.Version != tx.Version {
		return nil, shared.ErrConcurrencyConflict
	}
	entry, err := toEntry(req.Type, req.Category, req.Amount, req.Currency, req.Date, req.Description)
	if err != nil {
		return nil, err
	}
	if err := tx.Update(entry); err != nil {
		return nil, err
	}
	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, err
	}
	resp := ToTransactionResponse(tx)
	return &resp, nil
}

// MarkCompleted settles a pending transaction
func (s *TransactionService) MarkCompleted(ctx context.Context, ownerID, transactionID uuid.UUID) (*TransactionResponse, error) {
	return s.transition(ctx, ownerID, transactionID, (*ledger.Transaction).MarkCompleted)
}

// Cancel voids a transaction
func (s *TransactionService) Cancel(ctx context.Context, ownerID, transactionID uuid.UUID) (*TransactionResponse, error) {
	return s.transition(ctx, ownerID, transactionID, (*ledger.Transaction).Cancel)
}

func (s *TransactionService) transition(ctx context.Context, ownerID, transactionID uuid.UUID, apply func(*ledger.Transaction) error) (*TransactionResponse, error) {
	tx, err := s.txRepo.FindByIDForOwner(ctx, ownerID, transactionID)
	if err != nil {
		return nil, err
	}
	if err := apply(tx); err != nil {
		return nil, err
	}
	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, err
	}
	_ = shared.PublishAndClear(ctx, s.publisher, tx)

	resp := ToTransactionResponse(tx)
	return &resp, nil
}

// Delete removes a transaction
func (s *TransactionService) Delete(ctx context.Context, ownerID, transactionID uuid.UUID) error {
	if _, err := s.txRepo.FindByIDForOwner(ctx, ownerID, transactionID); err != nil {
		return err
	}
	return s.txRepo.DeleteForOwner(ctx, ownerID, transactionID)
}

// Summary totals income and expense per currency over a period
func (s *TransactionService) Summary(ctx context.Context, ownerID uuid.UUID, req SummaryRequest) (*SummaryResponse, error) {
	today := shared.Today(s.clock)
	from := civil.Date{Year: today.Year, Month: today.Month, Day: 1}
	to := today
	var err error
	if req.From != "" {
		if from, err = parseDate(req.From); err != nil {
			return nil, err
		}
	}
	if req.To != "" {
		if to, err = parseDate(req.To); err != nil {
			return nil, err
		}
	}
	if to.Before(from) {
		return nil, ErrInvalidPeriod
	}

	if req.PropertyID != nil {
		exists, err := s.propertyRepo.ExistsForOwner(ctx, ownerID, *req.PropertyID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, shared.ErrNotFound
		}
	}

	txs, err := s.txRepo.FindInPeriod(ctx, ownerID, req.PropertyID, from, to)
	if err != nil {
		return nil, err
	}
	return &SummaryResponse{
		From:       from,
		To:         to,
		PropertyID: req.PropertyID,
		Totals:     totalsByCurrency(txs),
	}, nil
}

// totalsByCurrency summarizes transactions per currency, ordered by currency code
func totalsByCurrency(txs []ledger.Transaction) []CurrencyTotals {
	byCurrency := make(map[string][]ledger.Transaction)
	for i := range txs {
		byCurrency[txs[i].Currency] = append(byCurrency[txs[i].Currency], txs[i])
	}

	totals := make([]CurrencyTotals, 0, len(byCurrency))
	for currency, group := range byCurrency {
		sum := ledger.Summarize(group)
		pending := decimal.Zero
		for i := range group {
			if group[i].Type == ledger.TypeIncome && group[i].Status == ledger.StatusPending {
				pending = pending.Add(group[i].Amount)
			}
		}
		totals = append(totals, CurrencyTotals{
			Currency: currency,
			Income:   sum.Income,
			Expense:  sum.Expense,
			Net:      sum.Net,
			Count:    sum.Count,
			Pending:  pending,
		})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Currency < totals[j].Currency })
	return totals
}

var errInvalidDate = shared.NewDomainError("INVALID_DATE", "Dates must be YYYY-MM-DD")

func parseDate(s string) (civil.Date, error) {
	d, err := leasing.ParseDay(s)
	if err != nil {
		return civil.Date{}, errInvalidDate
	}
	return d, nil
}

func toEntry(typ, category string, amount *decimal.Decimal, currency, date, description string) (ledger.Entry, error) {
	d, err := parseDate(date)
	if err != nil {
		return ledger.Entry{}, err
	}
	entry := ledger.Entry{
		Type:        ledger.TransactionType(typ),
		Category:    ledger.Category(category),
		Currency:    currency,
		Date:        d,
		Description: description,
	}
	if amount != nil {
		entry.Amount = *amount
	}
	return entry, nil
}

func (s *TransactionService) checkOwnership(ctx context.Context, ownerID, propertyID uuid.UUID, leaseID *uuid.UUID) error {
	exists, err := s.propertyRepo.ExistsForOwner(ctx, ownerID, propertyID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.ErrNotFound
	}
	if leaseID == nil {
		return nil
	}
	lease, err := s.leaseRepo.FindByIDForOwner(ctx, ownerID, *leaseID)
	if err != nil {
		return err
	}
	if lease.PropertyID != propertyID {
		return ErrLeaseMismatch
	}
	return nil
}
