package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dansever/estait-app-sub000/internal/domain/document"
	"github.com/dansever/estait-app-sub000/internal/domain/leasing"
	"github.com/dansever/estait-app-sub000/internal/domain/ledger"
	"github.com/dansever/estait-app-sub000/internal/domain/property"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultURLExpiry = 15 * time.Minute

var (
	ErrObjectMissing       = shared.NewDomainError("UPLOAD_NOT_FOUND", "The file has not been uploaded to storage")
	ErrLeaseMismatch       = shared.NewDomainError("LEASE_PROPERTY_MISMATCH", "Lease does not belong to the property")
	ErrStatementsDisabled  = shared.NewDomainError("STATEMENTS_DISABLED", "Lease statement printing is not configured")
	ErrStatementRenderFail = shared.NewDomainError("STATEMENT_RENDER_FAILED", "Lease statement could not be rendered")
)

// DocumentService handles document metadata and the object storage handshake
type DocumentService struct {
	docRepo      document.DocumentRepository
	propertyRepo property.PropertyRepository
	leaseRepo    leasing.LeaseRepository
	tenantRepo   property.TenantRepository
	ledgerRepo   ledger.TransactionRepository
	storage      ObjectStorage
	renderer     StatementRenderer
	publisher    shared.EventPublisher
	clock        shared.Clock
	urlExpiry    time.Duration
	logger       *zap.Logger
}

// ServiceOption configures a DocumentService
type ServiceOption func(*DocumentService)

// WithStatementRenderer enables lease statements. Renter names and ledger
// lines are read from the given repositories.
func WithStatementRenderer(renderer StatementRenderer, tenantRepo property.TenantRepository, ledgerRepo ledger.TransactionRepository) ServiceOption {
	return func(s *DocumentService) {
		s.renderer = renderer
		s.tenantRepo = tenantRepo
		s.ledgerRepo = ledgerRepo
	}
}

// WithURLExpiry sets how long presigned URLs stay valid
func WithURLExpiry(d time.Duration) ServiceOption {
	return func(s *DocumentService) {
		if d > 0 {
			s.urlExpiry = d
		}
	}
}

// WithClock sets the clock used for statement dates
func WithClock(clock shared.Clock) ServiceOption {
	return func(s *DocumentService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *DocumentService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	docRepo document.DocumentRepository,
	propertyRepo property.PropertyRepository,
	leaseRepo leasing.LeaseRepository,
	storage ObjectStorage,
	publisher shared.EventPublisher,
	opts ...ServiceOption,
) *DocumentService {
	s := &DocumentService{
		docRepo:      docRepo,
		propertyRepo: propertyRepo,
		leaseRepo:    leaseRepo,
		storage:      storage,
		publisher:    publisher,
		clock:        shared.SystemClock{},
		urlExpiry:    defaultURLExpiry,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InitiateUpload records pending metadata and returns a presigned PUT URL.
// The client uploads the bytes directly to storage and then confirms.
func (s *DocumentService) InitiateUpload(ctx context.Context, ownerID uuid.UUID, req InitiateUploadRequest) (*UploadResponse, error) {
	if err := s.checkOwnership(ctx, ownerID, req.PropertyID, req.LeaseID); err != nil {
		return nil, err
	}

	doc, err := document.NewDocument(ownerID, req.PropertyID, req.LeaseID, req.Name,
		document.Category(req.Category), req.ContentType, req.Size)
	if err != nil {
		return nil, err
	}

	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, doc.StorageKey, doc.ContentType, s.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}

	return &UploadResponse{
		Document:  ToDocumentResponse(doc),
		UploadURL: url,
		ExpiresAt: expiresAt,
	}, nil
}

// ConfirmUpload checks that the object reached storage and marks the
// document uploaded. Oversized objects are removed.
func (s *DocumentService) ConfirmUpload(ctx context.Context, ownerID, documentID uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.docRepo.FindByIDForOwner(ctx, ownerID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.IsUploaded() {
		return nil, document.ErrAlreadyUploaded
	}

	size, exists, err := s.storage.HeadObject(ctx, doc.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect object: %w", err)
	}
	if !exists {
		return nil, ErrObjectMissing
	}

	if err := doc.ConfirmUpload(size); err != nil {
		if errors.Is(err, document.ErrFileTooLarge) {
			if delErr := s.storage.DeleteObject(ctx, doc.StorageKey); delErr != nil {
				s.logger.Warn("Failed to remove oversized upload",
					zap.String("storage_key", doc.StorageKey),
					zap.Error(delErr),
				)
			}
		}
		return nil, err
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}
	_ = shared.PublishAndClear(ctx, s.publisher, doc)

	resp := ToDocumentResponse(doc)
	return &resp, nil
}

// GetByID retrieves document metadata
func (s *DocumentService) GetByID(ctx context.Context, ownerID, documentID uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.docRepo.FindByIDForOwner(ctx, ownerID, documentID)
	if err != nil {
		return nil, err
	}
	resp := ToDocumentResponse(doc)
	return &resp, nil
}

// Download returns a presigned GET URL for an uploaded document
func (s *DocumentService) Download(ctx context.Context, ownerID, documentID uuid.UUID) (*DownloadResponse, error) {
	doc, err := s.docRepo.FindByIDForOwner(ctx, ownerID, documentID)
	if err != nil {
		return nil, err
	}
	if !doc.IsUploaded() {
		return nil, document.ErrNotUploaded
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, doc.StorageKey, s.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign download: %w", err)
	}
	return &DownloadResponse{URL: url, ExpiresAt: expiresAt}, nil
}

// List retrieves documents by property, lease, category or status
func (s *DocumentService) List(ctx context.Context, ownerID uuid.UUID, filter DocumentListFilter) ([]DocumentResponse, int64, error) {
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
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	docs, err := s.docRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.docRepo.CountForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToDocumentResponses(docs), total, nil
}

// Rename changes the display name and category of a document
func (s *DocumentService) Rename(ctx context.Context, ownerID, documentID uuid.UUID, req RenameDocumentRequest) (*DocumentResponse, error) {
	doc, err := s.docRepo.FindByIDForOwner(ctx, ownerID, documentID)
	if err != nil {
		return nil, err
	}
	if req.Version != doc.Version {
		return nil, shared.ErrConcurrencyConflict
	}
	if err := doc.Rename(req.Name, document.Category(req.Category)); err != nil {
		return nil, err
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}
	resp := ToDocumentResponse(doc)
	return &resp, nil
}

// Delete removes the stored object and then its metadata
func (s *DocumentService) Delete(ctx context.Context, ownerID, documentID uuid.UUID) error {
	doc, err := s.docRepo.FindByIDForOwner(ctx, ownerID, documentID)
	if err != nil {
		return err
	}
	if err := s.storage.DeleteObject(ctx, doc.StorageKey); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return s.docRepo.DeleteForOwner(ctx, ownerID, documentID)
}

// GenerateLeaseStatement prints the lease with its ledger history to PDF
// and files it under the lease's documents
func (s *DocumentService) GenerateLeaseStatement(ctx context.Context, ownerID, leaseID uuid.UUID, req StatementRequest) (*DocumentResponse, error) {
	if s.renderer == nil {
		return nil, ErrStatementsDisabled
	}

	lease, err := s.leaseRepo.FindByIDForOwner(ctx, ownerID, leaseID)
	if err != nil {
		return nil, err
	}
	prop, err := s.propertyRepo.FindByIDForOwner(ctx, ownerID, lease.PropertyID)
	if err != nil {
		return nil, err
	}
	statement, err := s.buildStatement(ctx, lease, prop, req.Language)
	if err != nil {
		return nil, err
	}

	pdf, err := s.renderer.RenderLeaseStatement(ctx, statement)
	if err != nil {
		s.logger.Error("Lease statement rendering failed",
			zap.String("lease_id", leaseID.String()),
			zap.Error(err),
		)
		return nil, ErrStatementRenderFail
	}

	name := fmt.Sprintf("Lease statement %s.pdf", statement.GeneratedOn)
	doc, err := document.NewStoredDocument(ownerID, lease.PropertyID, &lease.ID, name,
		document.CategoryLease, "application/pdf", int64(len(pdf)))
	if err != nil {
		return nil, err
	}
	if err := s.storage.Upload(ctx, doc.StorageKey, pdf, doc.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store statement: %w", err)
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}
	_ = shared.PublishAndClear(ctx, s.publisher, doc)

	resp := ToDocumentResponse(doc)
	return &resp, nil
}

func (s *DocumentService) buildStatement(ctx context.Context, lease *leasing.Lease, prop *property.Property, language string) (LeaseStatement, error) {
	today := shared.Today(s.clock)
	statement := LeaseStatement{
		GeneratedOn:      today,
		Language:         language,
		PropertyName:     prop.Name,
		PropertyAddress:  prop.Address.String(),
		LeaseStart:       lease.LeaseStart,
		LeaseEnd:         lease.LeaseEnd,
		TerminatedAt:     lease.TerminatedAt,
		Status:           lease.Status(today),
		Progress:         lease.Progress(today),
		RentAmount:       lease.RentAmount,
		SecurityDeposit:  lease.SecurityDeposit,
		Currency:         lease.Currency,
		PaymentFrequency: string(lease.PaymentFrequency),
		NextPaymentDate:  lease.NextPaymentDate(today),
		Received:         decimal.Zero,
		Outstanding:      decimal.Zero,
	}

	if lease.TenantID != nil && s.tenantRepo != nil {
		tenant, err := s.tenantRepo.FindByIDForOwner(ctx, lease.OwnerID, *lease.TenantID)
		if err == nil {
			statement.TenantName = tenant.FullName()
		} else if !errors.Is(err, shared.ErrNotFound) {
			return LeaseStatement{}, err
		}
	}

	if s.ledgerRepo == nil {
		return statement, nil
	}
	to := today
	if end := lease.EffectivePeriod().End; end != nil && end.Before(to) {
		to = *end
	}
	if to.Before(lease.LeaseStart) {
		return statement, nil
	}
	txs, err := s.ledgerRepo.FindInPeriod(ctx, lease.OwnerID, &lease.PropertyID, lease.LeaseStart, to)
	if err != nil {
		return LeaseStatement{}, err
	}
	for i := range txs {
		tx := &txs[i]
		if tx.LeaseID == nil || *tx.LeaseID != lease.ID || tx.Status == ledger.StatusCancelled {
			continue
		}
		income := tx.Type == ledger.TypeIncome
		statement.Lines = append(statement.Lines, StatementLine{
			Date:        tx.Date,
			Description: tx.Description,
			Category:    string(tx.Category),
			Income:      income,
			Amount:      tx.Amount,
			Status:      string(tx.Status),
		})
		if income && tx.Currency == lease.Currency {
			if tx.Status == ledger.StatusCompleted {
				statement.Received = statement.Received.Add(tx.Amount)
			} else {
				statement.Outstanding = statement.Outstanding.Add(tx.Amount)
			}
		}
	}
	return statement, nil
}

// checkOwnership verifies the property and optional lease belong to the owner
// and to each other
func (s *DocumentService) checkOwnership(ctx context.Context, ownerID, propertyID uuid.UUID, leaseID *uuid.UUID) error {
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
