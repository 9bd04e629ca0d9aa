package leasing

import (
	"context"
	"errors"
	"sort"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/dansever/estait-app-sub000/internal/domain/leasing"
	"github.com/dansever/estait-app-sub000/internal/domain/property"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrPropertyArchived = shared.NewDomainError("PROPERTY_ARCHIVED", "Leases cannot be added to an archived property")
	ErrTenantNotFound   = shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
	ErrRentRequired     = shared.NewDomainError("RENT_REQUIRED", "Rent amount is required")
)

// LeaseService handles lease-related business operations
type LeaseService struct {
	leaseRepo    leasing.LeaseRepository
	propertyRepo property.PropertyRepository
	tenantRepo   property.TenantRepository
	publisher    shared.EventPublisher
	clock        shared.Clock
}

// NewLeaseService creates a new LeaseService
func NewLeaseService(
	leaseRepo leasing.LeaseRepository,
	propertyRepo property.PropertyRepository,
	tenantRepo property.TenantRepository,
	publisher shared.EventPublisher,
	clock shared.Clock,
) *LeaseService {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &LeaseService{
		leaseRepo:    leaseRepo,
		propertyRepo: propertyRepo,
		tenantRepo:   tenantRepo,
		publisher:    publisher,
		clock:        clock,
	}
}

// Today returns the service's current calendar date
func (s *LeaseService) Today() civil.Date {
	return shared.Today(s.clock)
}

// Create records a new lease. The period is validated before anything is
// loaded and the write is rejected when another lease of the property covers
// any of its days.
func (s *LeaseService) Create(ctx context.Context, ownerID uuid.UUID, req CreateLeaseRequest) (*LeaseResponse, error) {
	if err := leasing.ValidateDateRange(req.LeaseStart, req.LeaseEnd); err != nil {
		return nil, err
	}
	if req.RentAmount == nil {
		return nil, ErrRentRequired
	}
	start, _ := leasing.ParseDay(req.LeaseStart)
	end, _ := leasing.ParseDay(req.LeaseEnd)

	prop, err := s.propertyRepo.FindByIDForOwner(ctx, ownerID, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if prop.IsArchived() {
		return nil, ErrPropertyArchived
	}

	opts := []leasing.LeaseOption{leasing.WithNotes(req.Notes)}
	if req.TenantID != nil {
		if err := s.ensureTenant(ctx, ownerID, *req.TenantID); err != nil {
			return nil, err
		}
		opts = append(opts, leasing.WithTenant(*req.TenantID))
	}

	terms := leasing.Terms{
		RentAmount:       *req.RentAmount,
		Currency:         req.Currency,
		SecurityDeposit:  decimal.Zero,
		PaymentFrequency: leasing.PaymentFrequency(req.PaymentFrequency),
		PaymentDueDay:    req.PaymentDueDay,
	}
	if req.SecurityDeposit != nil {
		terms.SecurityDeposit = *req.SecurityDeposit
	}
	if strings.TrimSpace(req.Currency) == "" {
		terms.Currency = prop.Currency
	}

	lease, err := leasing.NewLease(ownerID, req.PropertyID, start, end, terms, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.leaseRepo.SaveExclusive(ctx, lease); err != nil {
		return nil, err
	}
	_ = shared.PublishAndClear(ctx, s.publisher, lease)

	return s.respond(ctx, lease), nil
}

// GetByID retrieves a lease with its status, progress and next payment date
func (s *LeaseService) GetByID(ctx context.Context, ownerID, leaseID uuid.UUID) (*LeaseResponse, error) {
	lease, err := s.leaseRepo.FindByIDForOwner(ctx, ownerID, leaseID)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, lease), nil
}

// ListByProperty returns the leases of a property split into the current
// lease, upcoming leases (soonest first) and past leases (latest first)
func (s *LeaseService) ListByProperty(ctx context.Context, ownerID, propertyID uuid.UUID) (*PropertyLeasesResponse, error) {
	exists, err := s.propertyRepo.ExistsForOwner(ctx, ownerID, propertyID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.ErrNotFound
	}

	leases, err := s.leaseRepo.FindByProperty(ctx, ownerID, propertyID)
	if err != nil {
		return nil, err
	}

	today := s.Today()
	names := s.tenantNames(ctx, ownerID, leases)
	result := &PropertyLeasesResponse{
		PropertyID: propertyID,
		AsOf:       today,
		Upcoming:   []LeaseResponse{},
		Past:       []LeaseResponse{},
	}
	for i := range leases {
		resp := withTenantName(ToLeaseResponse(&leases[i], today), names)
		switch resp.Status {
		case leasing.StatusActive, leasing.StatusEndingSoon:
			if result.Current == nil {
				current := resp
				result.Current = &current
			}
		case leasing.StatusUpcoming:
			result.Upcoming = append(result.Upcoming, resp)
		default:
			result.Past = append(result.Past, resp)
		}
	}

	sort.SliceStable(result.Upcoming, func(i, j int) bool {
		return result.Upcoming[i].LeaseStart.Before(result.Upcoming[j].LeaseStart)
	})
	sort.SliceStable(result.Past, func(i, j int) bool {
		return result.Past[i].LeaseEnd.After(result.Past[j].LeaseEnd)
	})
	return result, nil
}

// List retrieves leases with filtering and pagination. The status filter is
// evaluated on today's date.
func (s *LeaseService) List(ctx context.Context, ownerID uuid.UUID, filter LeaseListFilter) ([]LeaseResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}.Normalize()

	today := s.Today()
	if filter.PropertyID != nil {
		domainFilter.Filters[leasing.FilterPropertyID] = *filter.PropertyID
	}
	if filter.TenantID != nil {
		domainFilter.Filters[leasing.FilterTenantID] = *filter.TenantID
	}
	if filter.Status != "" {
		domainFilter.Filters[leasing.FilterStatus] = leasing.Status(filter.Status)
		domainFilter.Filters[leasing.FilterAsOf] = today
	}

	leases, err := s.leaseRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.leaseRepo.CountForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	names := s.tenantNames(ctx, ownerID, leases)
	responses := ToLeaseResponses(leases, today)
	for i := range responses {
		responses[i] = withTenantName(responses[i], names)
	}
	return responses, total, nil
}

// Update applies a full edit. Changes to the period go through the overlap
// check; edits that leave the period untouched are saved directly.
func (s *LeaseService) Update(ctx context.Context, ownerID, leaseID uuid.UUID, req UpdateLeaseRequest) (*LeaseResponse, error) {
	lease, err := s.leaseRepo.FindByIDForOwner(ctx, ownerID, leaseID)
	if err != nil {
		return nil, err
	}
	if req.Version != lease.Version {
		return nil, shared.ErrConcurrencyConflict
	}

	rev := leasing.Revision{
		Start: lease.LeaseStart,
		End:   lease.LeaseEnd,
		Terms: lease.Terms(),
		Notes: lease.Notes,
	}
	if req.LeaseStart != nil || req.LeaseEnd != nil {
		startStr := lease.LeaseStart.String()
		endStr := lease.LeaseEnd.String()
		if req.LeaseStart != nil {
			startStr = *req.LeaseStart
		}
		if req.LeaseEnd != nil {
			endStr = *req.LeaseEnd
		}
		if err := leasing.ValidateDateRange(startStr, endStr); err != nil {
			return nil, err
		}
		rev.Start, _ = leasing.ParseDay(startStr)
		rev.End, _ = leasing.ParseDay(endStr)
	}
	if req.RentAmount != nil {
		rev.Terms.RentAmount = *req.RentAmount
	}
	if req.Currency != nil {
		rev.Terms.Currency = *req.Currency
	}
	if req.SecurityDeposit != nil {
		rev.Terms.SecurityDeposit = *req.SecurityDeposit
	}
	if req.PaymentFrequency != nil {
		rev.Terms.PaymentFrequency = leasing.PaymentFrequency(*req.PaymentFrequency)
	}
	if req.PaymentDueDay != nil {
		rev.Terms.PaymentDueDay = req.PaymentDueDay
	}
	if req.ClearDueDay {
		rev.Terms.PaymentDueDay = nil
	}
	if req.Notes != nil {
		rev.Notes = *req.Notes
	}

	periodChanged := rev.Start != lease.LeaseStart || rev.End != lease.LeaseEnd
	if err := lease.Revise(rev); err != nil {
		return nil, err
	}

	if periodChanged {
		err = s.leaseRepo.SaveExclusive(ctx, lease)
	} else {
		err = s.leaseRepo.Save(ctx, lease)
	}
	if err != nil {
		return nil, err
	}
	_ = shared.PublishAndClear(ctx, s.publisher, lease)

	return s.respond(ctx, lease), nil
}

// AssignTenant links a renter to the lease, or unassigns it when the request
// carries no tenant
func (s *LeaseService) AssignTenant(ctx context.Context, ownerID, leaseID uuid.UUID, req AssignTenantRequest) (*LeaseResponse, error) {
	lease, err := s.leaseRepo.FindByIDForOwner(ctx, ownerID, leaseID)
	if err != nil {
		return nil, err
	}

	if req.TenantID == nil {
		lease.UnassignTenant()
	} else {
		if err := s.ensureTenant(ctx, ownerID, *req.TenantID); err != nil {
			return nil, err
		}
		if err := lease.AssignTenant(*req.TenantID); err != nil {
			return nil, err
		}
	}

	if err := s.leaseRepo.Save(ctx, lease); err != nil {
		return nil, err
	}
	_ = shared.PublishAndClear(ctx, s.publisher, lease)

	return s.respond(ctx, lease), nil
}

// Terminate ends a lease early. Termination only shortens the covered period,
// so it skips the overlap check.
func (s *LeaseService) Terminate(ctx context.Context, ownerID, leaseID uuid.UUID, req TerminateLeaseRequest) (*LeaseResponse, error) {
	on, err := leasing.ParseDay(req.TerminatedAt)
	if err != nil {
		return nil, leasing.ErrInvalidTermination
	}

	lease, err := s.leaseRepo.FindByIDForOwner(ctx, ownerID, leaseID)
	if err != nil {
		return nil, err
	}
	if err := lease.Terminate(on, req.Reason); err != nil {
		return nil, err
	}
	if err := s.leaseRepo.Save(ctx, lease); err != nil {
		return nil, err
	}
	_ = shared.PublishAndClear(ctx, s.publisher, lease)

	return s.respond(ctx, lease), nil
}

// Reinstate clears a termination. The lease regains its full period, which
// may collide with a lease signed after the termination.
func (s *LeaseService) Reinstate(ctx context.Context, ownerID, leaseID uuid.UUID) (*LeaseResponse, error) {
	lease, err := s.leaseRepo.FindByIDForOwner(ctx, ownerID, leaseID)
	if err != nil {
		return nil, err
	}
	if err := lease.Reinstate(); err != nil {
		return nil, err
	}
	if err := s.leaseRepo.SaveExclusive(ctx, lease); err != nil {
		return nil, err
	}
	_ = shared.PublishAndClear(ctx, s.publisher, lease)

	return s.respond(ctx, lease), nil
}

// Delete removes a lease record
func (s *LeaseService) Delete(ctx context.Context, ownerID, leaseID uuid.UUID) error {
	return s.leaseRepo.DeleteForOwner(ctx, ownerID, leaseID)
}

// Preview classifies a proposed period. Malformed dates are reported in the
// response rather than returned as errors so forms can show them inline.
func (s *LeaseService) Preview(req PreviewRequest) PreviewResponse {
	asOf := s.Today()
	if req.AsOf != "" {
		if d, err := leasing.ParseDay(req.AsOf); err == nil {
			asOf = d
		}
	}

	period := leasing.ParseDateRange(req.LeaseStart, req.LeaseEnd)
	resp := PreviewResponse{
		Valid:    true,
		AsOf:     asOf,
		Status:   leasing.ClassifyStatus(period, asOf),
		Progress: leasing.ComputeProgress(period, asOf),
	}
	if err := leasing.ValidateDateRange(req.LeaseStart, req.LeaseEnd); err != nil {
		resp.Valid = false
		resp.ErrorCode = shared.CodeOf(err)
		resp.ErrorMessage = err.Error()
	}

	frequency := leasing.PaymentFrequency(req.PaymentFrequency)
	if frequency == "" {
		frequency = leasing.FrequencyMonthly
	}
	if resp.Status != leasing.StatusExpired && resp.Status != leasing.StatusNoLease {
		from := asOf
		if period.Start != nil && from.Before(*period.Start) {
			from = *period.Start
		}
		resp.NextPaymentDate = leasing.NextPaymentDate(leasing.PaymentTerms{Frequency: frequency, DueDay: req.PaymentDueDay}, from)
	}
	return resp
}

// Summary builds the lease dashboard of an owner on today's date
func (s *LeaseService) Summary(ctx context.Context, ownerID uuid.UUID) (*SummaryResponse, error) {
	today := s.Today()

	live, err := s.leaseRepo.FindUnexpired(ctx, ownerID, today)
	if err != nil {
		return nil, err
	}
	expiredFilter := shared.Filter{}.Normalize().
		With(leasing.FilterStatus, leasing.StatusExpired).
		With(leasing.FilterAsOf, today)
	expired, err := s.leaseRepo.CountForOwner(ctx, ownerID, expiredFilter)
	if err != nil {
		return nil, err
	}
	activeProperties, err := s.propertyRepo.CountForOwner(ctx, ownerID,
		shared.Filter{}.Normalize().With("status", string(property.StatusActive)))
	if err != nil {
		return nil, err
	}

	summary := &SummaryResponse{
		AsOf:             today,
		Counts:           make(map[leasing.Status]int, len(leasing.AllStatuses)),
		EndingSoon:       []LeaseResponse{},
		ActiveProperties: activeProperties,
	}
	for _, status := range leasing.AllStatuses {
		summary.Counts[status] = 0
	}
	summary.Counts[leasing.StatusExpired] = int(expired)

	occupied := make(map[uuid.UUID]struct{})
	for i := range live {
		lease := &live[i]
		status := lease.Status(today)
		summary.Counts[status]++
		if status.IsCurrent() {
			occupied[lease.PropertyID] = struct{}{}
		}
		if status == leasing.StatusEndingSoon {
			summary.EndingSoon = append(summary.EndingSoon, ToLeaseResponse(lease, today))
		}
	}

	if len(occupied) > 0 {
		ids := make([]uuid.UUID, 0, len(occupied))
		for id := range occupied {
			ids = append(ids, id)
		}
		// archived properties do not count towards occupancy
		occupiedActive, err := s.propertyRepo.CountForOwner(ctx, ownerID, shared.Filter{}.Normalize().
			With("status", string(property.StatusActive)).
			With("ids", ids))
		if err != nil {
			return nil, err
		}
		summary.Occupied = int(occupiedActive)
	}
	if activeProperties > 0 {
		summary.Counts[leasing.StatusNoLease] = max(0, int(activeProperties)-summary.Occupied)
		summary.OccupancyRate = float64(summary.Occupied) / float64(activeProperties) * 100
	}
	sort.SliceStable(summary.EndingSoon, func(i, j int) bool {
		return summary.EndingSoon[i].Progress.DaysRemaining < summary.EndingSoon[j].Progress.DaysRemaining
	})
	return summary, nil
}

func (s *LeaseService) ensureTenant(ctx context.Context, ownerID, tenantID uuid.UUID) error {
	if _, err := s.tenantRepo.FindByIDForOwner(ctx, ownerID, tenantID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrTenantNotFound
		}
		return err
	}
	return nil
}

func (s *LeaseService) respond(ctx context.Context, lease *leasing.Lease) *LeaseResponse {
	resp := withTenantName(ToLeaseResponse(lease, s.Today()), s.tenantNames(ctx, lease.OwnerID, []leasing.Lease{*lease}))
	return &resp
}

// tenantNames resolves renter names for display. Lookup failures leave names empty.
func (s *LeaseService) tenantNames(ctx context.Context, ownerID uuid.UUID, leases []leasing.Lease) map[uuid.UUID]string {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for i := range leases {
		if id := leases[i].TenantID; id != nil {
			if _, ok := seen[*id]; !ok {
				seen[*id] = struct{}{}
				ids = append(ids, *id)
			}
		}
	}
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names
	}
	tenants, err := s.tenantRepo.FindByIDs(ctx, ownerID, ids)
	if err != nil {
		return names
	}
	for i := range tenants {
		names[tenants[i].ID] = tenants[i].FullName()
	}
	return names
}

func withTenantName(resp LeaseResponse, names map[uuid.UUID]string) LeaseResponse {
	if resp.TenantID != nil {
		resp.TenantName = names[*resp.TenantID]
	}
	return resp
}
