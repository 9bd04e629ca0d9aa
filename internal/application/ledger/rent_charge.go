package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dansever/estait-app-sub000/internal/domain/leasing"
	"github.com/dansever/estait-app-sub000/internal/domain/ledger"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RentChargeReport summarizes one run of the rent charge job
type RentChargeReport struct {
	AsOf    civil.Date
	Owners  int
	Due     int
	Created int
	Skipped int
}

func (r *RentChargeReport) merge(other RentChargeReport) {
	r.Owners += other.Owners
	r.Due += other.Due
	r.Created += other.Created
	r.Skipped += other.Skipped
}

// RentCharger books a pending rent income for every monthly lease whose
// payment is due today. Each (lease, due date) is charged once, keyed by the
// transaction reference; the idempotency store short-circuits repeated runs.
type RentCharger struct {
	leaseRepo   leasing.LeaseRepository
	txRepo      ledger.TransactionRepository
	publisher   shared.EventPublisher
	clock       shared.Clock
	logger      *zap.Logger
	store       shared.IdempotencyStore
	ttl         time.Duration
	concurrency int
}

// RentChargerOption configures a RentCharger
type RentChargerOption func(*RentCharger)

// WithChargeIdempotencyStore remembers charged references between runs
func WithChargeIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) RentChargerOption {
	return func(c *RentCharger) {
		c.store = store
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithChargeConcurrency sets how many owners are processed in parallel
func WithChargeConcurrency(n int) RentChargerOption {
	return func(c *RentCharger) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// NewRentCharger creates a new RentCharger
func NewRentCharger(leaseRepo leasing.LeaseRepository, txRepo ledger.TransactionRepository, publisher shared.EventPublisher, clock shared.Clock, logger *zap.Logger, opts ...RentChargerOption) *RentCharger {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	c := &RentCharger{
		leaseRepo:   leaseRepo,
		txRepo:      txRepo,
		publisher:   publisher,
		clock:       clock,
		logger:      logger,
		ttl:         48 * time.Hour,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run charges today's rent of every owner
func (c *RentCharger) Run(ctx context.Context) (RentChargeReport, error) {
	today := shared.Today(c.clock)
	report := RentChargeReport{AsOf: today}

	owners, err := c.leaseRepo.FindOwnersWithLeases(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list lease owners: %w", err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, ownerID := range owners {
		g.Go(func() error {
			partial, err := c.chargeOwner(gctx, ownerID, today)
			if err != nil {
				return fmt.Errorf("failed to charge rent for owner %s: %w", ownerID, err)
			}
			mu.Lock()
			report.merge(partial)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	c.logger.Info("Rent charges booked",
		zap.String("as_of", today.String()),
		zap.Int("owners", report.Owners),
		zap.Int("due", report.Due),
		zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}

func (c *RentCharger) chargeOwner(ctx context.Context, ownerID uuid.UUID, today civil.Date) (RentChargeReport, error) {
	report := RentChargeReport{AsOf: today, Owners: 1}

	leases, err := c.leaseRepo.FindUnexpired(ctx, ownerID, today)
	if err != nil {
		return report, err
	}

	for i := range leases {
		lease := &leases[i]
		next := lease.NextPaymentDate(today)
		if next == nil || *next != today || !lease.RentAmount.IsPositive() {
			continue
		}
		report.Due++

		reference := ledger.RentChargeReference(lease.ID, today)
		if c.store != nil {
			done, err := c.store.IsProcessed(ctx, reference)
			if err != nil {
				c.logger.Warn("Idempotency check failed, relying on reference lookup",
					zap.String("lease_id", lease.ID.String()),
					zap.Error(err),
				)
			} else if done {
				report.Skipped++
				continue
			}
		}
		exists, err := c.txRepo.ExistsByReference(ctx, ownerID, reference)
		if err != nil {
			return report, err
		}
		if exists {
			report.Skipped++
			continue
		}

		tx, err := ledger.NewRentCharge(ownerID, lease.PropertyID, lease.ID, lease.RentAmount, lease.Currency, today)
		if err != nil {
			return report, err
		}
		if err := c.txRepo.Save(ctx, tx); err != nil {
			return report, err
		}
		_ = shared.PublishAndClear(ctx, c.publisher, tx)
		if c.store != nil {
			if _, err := c.store.MarkProcessed(ctx, reference, c.ttl); err != nil {
				c.logger.Warn("Failed to record rent charge",
					zap.String("reference", reference),
					zap.Error(err),
				)
			}
		}
		report.Created++
	}
	return report, nil
}
