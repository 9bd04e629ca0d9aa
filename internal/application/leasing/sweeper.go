package leasing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dansever/estait-app-sub000/internal/domain/leasing"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SweepReport summarizes one run of the status sweep
type SweepReport struct {
	AsOf      civil.Date
	Owners    int
	Leases    int
	Changes   int
	Published int
	// Counts holds today's status of every lease that was live yesterday
	Counts map[leasing.Status]int
}

func newSweepReport(asOf civil.Date) SweepReport {
	return SweepReport{AsOf: asOf, Counts: make(map[leasing.Status]int)}
}

func (r *SweepReport) merge(other SweepReport) {
	r.Owners += other.Owners
	r.Leases += other.Leases
	r.Changes += other.Changes
	r.Published += other.Published
	for status, n := range other.Counts {
		r.Counts[status] += n
	}
}

// SweepObserver receives the report of every completed sweep
type SweepObserver interface {
	ObserveSweep(ctx context.Context, report SweepReport)
}

// StatusSweeper compares the derived status of every live lease between
// yesterday and today and publishes LeaseStatusChanged for each difference.
// With an idempotency store a transition is published once per lease, status
// and day even when the sweep runs several times a day.
type StatusSweeper struct {
	leaseRepo   leasing.LeaseRepository
	publisher   shared.EventPublisher
	clock       shared.Clock
	logger      *zap.Logger
	store       shared.IdempotencyStore
	ttl         time.Duration
	concurrency int
	observer    SweepObserver
}

// SweeperOption configures a StatusSweeper
type SweeperOption func(*StatusSweeper)

// WithIdempotencyStore deduplicates published transitions
func WithIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) SweeperOption {
	return func(s *StatusSweeper) {
		s.store = store
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSweepConcurrency sets how many owners are swept in parallel
func WithSweepConcurrency(n int) SweeperOption {
	return func(s *StatusSweeper) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithSweepObserver installs a report observer
func WithSweepObserver(observer SweepObserver) SweeperOption {
	return func(s *StatusSweeper) {
		s.observer = observer
	}
}

// NewStatusSweeper creates a new StatusSweeper
func NewStatusSweeper(leaseRepo leasing.LeaseRepository, publisher shared.EventPublisher, clock shared.Clock, logger *zap.Logger, opts ...SweeperOption) *StatusSweeper {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	s := &StatusSweeper{
		leaseRepo:   leaseRepo,
		publisher:   publisher,
		clock:       clock,
		logger:      logger,
		ttl:         48 * time.Hour,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run sweeps every owner that holds leases
func (s *StatusSweeper) Run(ctx context.Context) (SweepReport, error) {
	today := shared.Today(s.clock)
	report := newSweepReport(today)

	owners, err := s.leaseRepo.FindOwnersWithLeases(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list lease owners: %w", err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, ownerID := range owners {
		g.Go(func() error {
			partial, err := s.sweepOwner(gctx, ownerID, today)
			if err != nil {
				return fmt.Errorf("failed to sweep owner %s: %w", ownerID, err)
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

	s.logger.Info("Lease status sweep completed",
		zap.String("as_of", today.String()),
		zap.Int("owners", report.Owners),
		zap.Int("leases", report.Leases),
		zap.Int("changes", report.Changes),
		zap.Int("published", report.Published),
	)
	if s.observer != nil {
		s.observer.ObserveSweep(ctx, report)
	}
	return report, nil
}

func (s *StatusSweeper) sweepOwner(ctx context.Context, ownerID uuid.UUID, today civil.Date) (SweepReport, error) {
	report := newSweepReport(today)
	report.Owners = 1

	yesterday := today.AddDays(-1)
	leases, err := s.leaseRepo.FindUnexpired(ctx, ownerID, yesterday)
	if err != nil {
		return report, err
	}

	for i := range leases {
		lease := &leases[i]
		from := lease.Status(yesterday)
		to := lease.Status(today)
		report.Leases++
		report.Counts[to]++
		if from == to {
			continue
		}
		report.Changes++

		event := leasing.NewLeaseStatusChangedEvent(lease, from, to, today)
		if s.store != nil {
			fresh, err := s.store.MarkProcessed(ctx, "sweep:"+event.IdempotencyKey(), s.ttl)
			if err != nil {
				s.logger.Warn("Idempotency check failed, publishing anyway",
					zap.String("lease_id", lease.ID.String()),
					zap.Error(err),
				)
			} else if !fresh {
				continue
			}
		}
		if s.publisher != nil {
			if err := s.publisher.Publish(ctx, event); err != nil {
				return report, err
			}
		}
		report.Published++
	}
	return report, nil
}
