package property

import (
	"context"
	"sort"
	"strings"

	"cloud.google.com/go/civil"
	leasingapp "github.com/dansever/estait-app-sub000/internal/application/leasing"
	"github.com/dansever/estait-app-sub000/internal/domain/leasing"
	"github.com/dansever/estait-app-sub000/internal/domain/ledger"
	"github.com/dansever/estait-app-sub000/internal/domain/maintenance"
	"github.com/dansever/estait-app-sub000/internal/domain/property"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrPropertyHasLeases    = shared.NewDomainError("PROPERTY_HAS_LEASES", "Property has lease history; archive it instead")
	ErrPropertyHasLiveLease = shared.NewDomainError("PROPERTY_HAS_LIVE_LEASE", "Property has a current or upcoming lease")
)

// PropertyService handles property-related business operations
type PropertyService struct {
	propertyRepo property.PropertyRepository
	leaseRepo    leasing.LeaseRepository
	taskRepo     maintenance.TaskRepository
	ledgerRepo   ledger.TransactionRepository
	publisher    shared.EventPublisher
	clock        shared.Clock
}

// NewPropertyService creates a new PropertyService
func NewPropertyService(
	propertyRepo property.PropertyRepository,
	leaseRepo leasing.LeaseRepository,
	taskRepo maintenance.TaskRepository,
	ledgerRepo ledger.TransactionRepository,
	publisher shared.EventPublisher,
	clock shared.Clock,
) *PropertyService {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &PropertyService{
		propertyRepo: propertyRepo,
		leaseRepo:    leaseRepo,
		taskRepo:     taskRepo,
		ledgerRepo:   ledgerRepo,
		publisher:    publisher,
		clock:        clock,
	}
}

// Create adds a property to the owner's portfolio
func (s *PropertyService) Create(ctx context.Context, ownerID uuid.UUID, req CreatePropertyRequest) (*PropertyResponse, error) {
	addr, err := req.Address.ToAddress()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}
	details, err := req.DetailsInput.toDomain()
	if err != nil {
		return nil, err
	}

	p, err := property.NewProperty(ownerID, req.Name, property.PropertyType(req.Type), addr,
		property.WithDetails(details),
		property.WithPropertyNotes(req.Notes),
	)
	if err != nil {
		return nil, err
	}
	if err := s.propertyRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	_ = shared.PublishAndClear(ctx, s.publisher, p)

	resp := ToPropertyResponse(p)
	return &resp, nil
}

// GetByID retrieves a property by its ID
func (s *PropertyService) GetByID(ctx context.Context, ownerID, propertyID uuid.UUID) (*PropertyResponse, error) {
	p, err := s.propertyRepo.FindByIDForOwner(ctx, ownerID, propertyID)
	if err != nil {
		return nil, err
	}
	resp := ToPropertyResponse(p)
	return &resp, nil
}

// List retrieves properties with search, filtering and pagination
func (s *PropertyService) List(ctx context.Context, ownerID uuid.UUID, filter PropertyListFilter) ([]PropertyResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   strings.TrimSpace(filter.Search),
	}.Normalize()

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.City != "" {
		domainFilter.Filters["city"] = filter.City
	}
	if filter.MinBedrooms != nil {
		domainFilter.Filters["min_bedrooms"] = *filter.MinBedrooms
	}

	props, err := s.propertyRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.propertyRepo.CountForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPropertyResponses(props), total, nil
}

// Update applies a full edit of a property
func (s *PropertyService) Update(ctx context.Context, ownerID, propertyID uuid.UUID, req UpdatePropertyRequest) (*PropertyResponse, error) {
	p, err := s.propertyRepo.FindByIDForOwner(ctx, ownerID, propertyID)
	if err != nil {
		return nil, err
	}
	if req.Version != p.Version {
		return nil, shared.ErrConcurrencyConflict
	}

	addr, err := req.Address.ToAddress()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}
	details, err := req.DetailsInput.toDomain()
	if err != nil {
		return nil, err
	}
	if err := p.Revise(req.Name, property.PropertyType(req.Type), addr, details, req.Notes); err != nil {
		return nil, err
	}
	if err := s.propertyRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	_ = shared.PublishAndClear(ctx, s.publisher, p)

	resp := ToPropertyResponse(p)
	return &resp, nil
}

// Archive removes a property from the active portfolio. A property with a
// current or upcoming lease stays active until that lease ends or is terminated.
func (s *PropertyService) Archive(ctx context.Context, ownerID, propertyID uuid.UUID) (*PropertyResponse, error) {
	return s.transition(ctx, ownerID, propertyID, func(p *property.Property) error {
		live, err := s.leaseRepo.CountLiveByProperty(ctx, ownerID, propertyID, shared.Today(s.clock))
		if err != nil {
			return err
		}
		if live > 0 {
			return ErrPropertyHasLiveLease
		}
		return p.Archive()
	})
}

// Restore brings an archived property back
func (s *PropertyService) Restore(ctx context.Context, ownerID, propertyID uuid.UUID) (*PropertyResponse, error) {
	return s.transition(ctx, ownerID, propertyID, (*property.Property).Restore)
}

func (s *PropertyService) transition(ctx context.Context, ownerID, propertyID uuid.UUID, apply func(*property.Property) error) (*PropertyResponse, error) {
	p, err := s.propertyRepo.FindByIDForOwner(ctx, ownerID, propertyID)
	if err != nil {
		return nil, err
	}
	if err := apply(p); err != nil {
		return nil, err
	}
	if err := s.propertyRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	_ = shared.PublishAndClear(ctx, s.publisher, p)

	resp := ToPropertyResponse(p)
	return &resp, nil
}

// Delete removes a property that never had a lease. Properties with lease
// history are archived instead.
func (s *PropertyService) Delete(ctx context.Context, ownerID, propertyID uuid.UUID) error {
	exists, err := s.propertyRepo.ExistsForOwner(ctx, ownerID, propertyID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.ErrNotFound
	}
	leases, err := s.leaseRepo.CountByProperty(ctx, ownerID, propertyID)
	if err != nil {
		return err
	}
	if leases > 0 {
		return ErrPropertyHasLeases
	}
	return s.propertyRepo.DeleteForOwner(ctx, ownerID, propertyID)
}

// Overview builds the property detail view: the current lease with its
// progress, upcoming and past leases, open maintenance work and the
// month-to-date ledger total
func (s *PropertyService) Overview(ctx context.Context, ownerID, propertyID uuid.UUID) (*OverviewResponse, error) {
	p, err := s.propertyRepo.FindByIDForOwner(ctx, ownerID, propertyID)
	if err != nil {
		return nil, err
	}
	today := shared.Today(s.clock)

	leases, err := s.leaseRepo.FindByProperty(ctx, ownerID, propertyID)
	if err != nil {
		return nil, err
	}
	openTasks, err := s.taskRepo.CountOpenByProperty(ctx, ownerID, propertyID)
	if err != nil {
		return nil, err
	}
	monthStart := civil.Date{Year: today.Year, Month: today.Month, Day: 1}
	txs, err := s.ledgerRepo.FindInPeriod(ctx, ownerID, &propertyID, monthStart, today)
	if err != nil {
		return nil, err
	}
	totals := ledger.Summarize(filterCurrency(txs, p.Currency))

	overview := &OverviewResponse{
		Property:             ToPropertyResponse(p),
		AsOf:                 today,
		LeaseStatus:          string(leasing.StatusNoLease),
		UpcomingLeases:       []leasingapp.LeaseResponse{},
		PastLeases:           []leasingapp.LeaseResponse{},
		OpenMaintenanceTasks: openTasks,
		MonthToDate: IncomeSummary{
			From:    monthStart,
			To:      today,
			Income:  totals.Income,
			Expense: totals.Expense,
			Net:     totals.Net,
		},
	}
	for i := range leases {
		resp := leasingapp.ToLeaseResponse(&leases[i], today)
		switch {
		case resp.IsActive && overview.CurrentLease == nil:
			current := resp
			overview.CurrentLease = &current
			overview.LeaseStatus = string(resp.Status)
		case resp.Status == leasing.StatusUpcoming:
			overview.UpcomingLeases = append(overview.UpcomingLeases, resp)
		case resp.Status == leasing.StatusExpired:
			overview.PastLeases = append(overview.PastLeases, resp)
		}
	}
	if overview.CurrentLease == nil && len(overview.UpcomingLeases) > 0 {
		overview.LeaseStatus = string(leasing.StatusUpcoming)
	}
	sort.SliceStable(overview.UpcomingLeases, func(i, j int) bool {
		return overview.UpcomingLeases[i].LeaseStart.Before(overview.UpcomingLeases[j].LeaseStart)
	})
	sort.SliceStable(overview.PastLeases, func(i, j int) bool {
		return overview.PastLeases[i].LeaseEnd.After(overview.PastLeases[j].LeaseEnd)
	})
	return overview, nil
}

// filterCurrency keeps the transactions booked in the property's currency
func filterCurrency(txs []ledger.Transaction, currency string) []ledger.Transaction {
	out := txs[:0:0]
	for i := range txs {
		if txs[i].Currency == currency {
			out = append(out, txs[i])
		}
	}
	return out
}

func (d DetailsInput) toDomain() (property.Details, error) {
	details := property.Details{
		Bedrooms:      d.Bedrooms,
		Bathrooms:     decimalOrZero(d.Bathrooms),
		SquareMeters:  decimalOrZero(d.SquareMeters),
		PurchasePrice: decimalOrZero(d.PurchasePrice),
		MarketValue:   decimalOrZero(d.MarketValue),
		Currency:      d.Currency,
	}
	if d.PurchaseDate != "" {
		date, err := leasing.ParseDay(d.PurchaseDate)
		if err != nil {
			return property.Details{}, shared.NewDomainError("INVALID_DATE", "Purchase date is not a valid calendar date")
		}
		details.PurchaseDate = &date
	}
	return details, nil
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
