package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	appleasing "github.com/dansever/estait-app-sub000/internal/application/leasing"
	"github.com/dansever/estait-app-sub000/internal/application/ledger"
	"github.com/dansever/estait-app-sub000/internal/domain/leasing"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/scheduler"
)

// LeaseMetrics records the lease portfolio as seen by the background jobs
type LeaseMetrics struct {
	leasesByStatus *Gauge
	transitions    *Counter
	rentCharges    *Counter
	jobRuns        *Counter
	jobDuration    *Histogram
}

// NewLeaseMetrics creates the lease instruments on meter
func NewLeaseMetrics(meter metric.Meter) (*LeaseMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	var (
		m   LeaseMetrics
		err error
	)
	if m.leasesByStatus, err = NewGauge(meter, "estait_leases",
		"Leases live since yesterday by derived status", "{leases}"); err != nil {
		return nil, err
	}
	if m.transitions, err = NewCounter(meter, "estait_lease_transitions_total",
		"Lease status transitions", "{transitions}"); err != nil {
		return nil, err
	}
	if m.rentCharges, err = NewCounter(meter, "estait_rent_charges_total",
		"Rent charges considered by the rent job", "{charges}"); err != nil {
		return nil, err
	}
	if m.jobRuns, err = NewCounter(meter, "estait_job_runs_total",
		"Background job attempts", "{runs}"); err != nil {
		return nil, err
	}
	if m.jobDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "estait_job_duration_seconds",
		Description: "Background job duration",
		Unit:        "s",
		Boundaries:  JobDurationBuckets,
	}); err != nil {
		return nil, err
	}
	return &m, nil
}

// ObserveSweep implements leasing.SweepObserver
func (m *LeaseMetrics) ObserveSweep(ctx context.Context, report appleasing.SweepReport) {
	for _, status := range leasing.AllStatuses {
		m.leasesByStatus.Record(ctx, int64(report.Counts[status]), AttrLeaseStatus.String(string(status)))
	}
}

// RecordTransition implements leasing.TransitionRecorder
func (m *LeaseMetrics) RecordTransition(ctx context.Context, from, to leasing.Status) {
	m.transitions.Inc(ctx, AttrFromStatus.String(string(from)), AttrToStatus.String(string(to)))
}

// ObserveRentCharges records the outcome of a rent charge run
func (m *LeaseMetrics) ObserveRentCharges(ctx context.Context, report ledger.RentChargeReport) {
	m.rentCharges.Add(ctx, int64(report.Created), AttrOutcome.String("created"))
	m.rentCharges.Add(ctx, int64(report.Skipped), AttrOutcome.String("skipped"))
}

// ObserveJob is a scheduler.JobObserver
func (m *LeaseMetrics) ObserveJob(ctx context.Context, job *scheduler.Job, d time.Duration) {
	attrs := []attribute.KeyValue{AttrJob.String(job.Name), AttrJobStatus.String(string(job.Status))}
	m.jobRuns.Inc(ctx, attrs...)
	m.jobDuration.RecordDuration(ctx, d, attrs[0])
}

var (
	_ appleasing.SweepObserver      = (*LeaseMetrics)(nil)
	_ appleasing.TransitionRecorder = (*LeaseMetrics)(nil)
	_ scheduler.JobObserver         = (*LeaseMetrics)(nil).ObserveJob
)

// MetricsError is returned for invalid instrument setup
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// ErrMeterNil is returned when no meter is given
var ErrMeterNil = &MetricsError{Op: "NewLeaseMetrics", Err: "meter cannot be nil"}
