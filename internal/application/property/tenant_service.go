package property

import (
	"context"
	"strings"

	"github.com/dansever/estait-app-sub000/internal/domain/leasing"
	"github.com/dansever/estait-app-sub000/internal/domain/property"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

var (
	ErrTenantEmailExists = shared.NewDomainError("TENANT_EMAIL_EXISTS", "Another tenant already uses this email")
	ErrTenantHasLeases   = shared.NewDomainError("TENANT_HAS_LEASES", "Tenant is named on one or more leases")
)

// TenantService handles renter-related business operations
type TenantService struct {
	tenantRepo property.TenantRepository
	leaseRepo  leasing.LeaseRepository
	publisher  shared.EventPublisher
}

// NewTenantService creates a new TenantService
func NewTenantService(tenantRepo property.TenantRepository, leaseRepo leasing.LeaseRepository, publisher shared.EventPublisher) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		leaseRepo:  leaseRepo,
		publisher:  publisher,
	}
}

// Create adds a renter
func (s *TenantService) Create(ctx context.Context, ownerID uuid.UUID, req CreateTenantRequest) (*TenantResponse, error) {
	if err := s.ensureUniqueEmail(ctx, ownerID, req.Email, nil); err != nil {
		return nil, err
	}

	t, err := property.NewTenant(ownerID, req.FirstName, req.LastName, req.ContactInput.toDomain(), req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	_ = shared.PublishAndClear(ctx, s.publisher, t)

	resp := ToTenantResponse(t)
	return &resp, nil
}

// GetByID retrieves a renter by ID
func (s *TenantService) GetByID(ctx context.Context, ownerID, tenantID uuid.UUID) (*TenantResponse, error) {
	t, err := s.tenantRepo.FindByIDForOwner(ctx, ownerID, tenantID)
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(t)
	return &resp, nil
}

// List retrieves renters with search and pagination
func (s *TenantService) List(ctx context.Context, ownerID uuid.UUID, filter TenantListFilter) ([]TenantResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   strings.TrimSpace(filter.Search),
	}.Normalize()

	tenants, err := s.tenantRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.tenantRepo.CountForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToTenantResponses(tenants), total, nil
}

// Update applies a full edit of a renter
func (s *TenantService) Update(ctx context.Context, ownerID, tenantID uuid.UUID, req UpdateTenantRequest) (*TenantResponse, error) {
	t, err := s.tenantRepo.FindByIDForOwner(ctx, ownerID, tenantID)
	if err != nil {
		return nil, err
	}
	if req.Version != t.Version {
		return nil, shared.ErrConcurrencyConflict
	}
	if err := s.ensureUniqueEmail(ctx, ownerID, req.Email, &tenantID); err != nil {
		return nil, err
	}
	if err := t.Revise(req.FirstName, req.LastName, req.ContactInput.toDomain(), req.Notes); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	_ = shared.PublishAndClear(ctx, s.publisher, t)

	resp := ToTenantResponse(t)
	return &resp, nil
}

// Delete removes a renter that is not named on any lease. Past leases keep
// their renter, so they block the delete too.
func (s *TenantService) Delete(ctx context.Context, ownerID, tenantID uuid.UUID) error {
	if _, err := s.tenantRepo.FindByIDForOwner(ctx, ownerID, tenantID); err != nil {
		return err
	}
	leases, err := s.leaseRepo.CountByTenant(ctx, ownerID, tenantID)
	if err != nil {
		return err
	}
	if leases > 0 {
		return ErrTenantHasLeases
	}
	return s.tenantRepo.DeleteForOwner(ctx, ownerID, tenantID)
}

func (s *TenantService) ensureUniqueEmail(ctx context.Context, ownerID uuid.UUID, email string, excludeID *uuid.UUID) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	exists, err := s.tenantRepo.ExistsByEmail(ctx, ownerID, email, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrTenantEmailExists
	}
	return nil
}
