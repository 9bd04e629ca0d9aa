// Package scheduler runs the periodic background jobs of the service on a
// small worker pool with retries.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dansever/estait-app-sub000/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobStatus represents the status of a scheduled job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job is one run of a named background job
type Job struct {
	ID          uuid.UUID
	Name        string
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
}

// NewJob creates a pending job
func NewJob(name string, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Name:       name,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

func (j *Job) start(now time.Time) {
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

func (j *Job) complete(now time.Time) {
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

func (j *Job) fail(now time.Time, err error) {
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err.Error()
}

// ShouldRetry returns true if a failed job has retries left
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// JobExecutor runs one job
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// ExecutorFunc adapts a function to JobExecutor
type ExecutorFunc func(ctx context.Context, job *Job) error

// Execute calls f
func (f ExecutorFunc) Execute(ctx context.Context, job *Job) error {
	return f(ctx, job)
}

// JobObserver is told about every finished attempt. Telemetry uses it for
// job duration and failure metrics.
type JobObserver func(ctx context.Context, job *Job, duration time.Duration)

// Config holds scheduler configuration
type Config struct {
	Workers       int
	QueueSize     int
	JobTimeout    time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// ConfigFrom maps the application scheduler settings
func ConfigFrom(cfg config.SchedulerConfig) Config {
	return Config{
		Workers:       cfg.Workers,
		QueueSize:     cfg.QueueSize,
		JobTimeout:    cfg.JobTimeout,
		RetryAttempts: cfg.RetryAttempts,
		RetryDelay:    cfg.RetryDelay,
	}
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 16
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = 10 * time.Minute
	}
	if c.RetryAttempts < 0 {
		c.RetryAttempts = 0
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Minute
	}
	return c
}

// Scheduler runs named jobs on a worker pool. At most one job per name is
// queued or running at a time; retries wait RetryDelay before re-entering the queue.
type Scheduler struct {
	config    Config
	executors map[string]JobExecutor
	logger    *zap.Logger
	observer  JobObserver
	now       func() time.Time

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	inFlight  map[string]uuid.UUID
	isRunning bool
}

// Option configures the scheduler
type Option func(*Scheduler)

// WithJobObserver installs a job observer
func WithJobObserver(observer JobObserver) Option {
	return func(s *Scheduler) {
		s.observer = observer
	}
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg Config, logger *zap.Logger, opts ...Option) *Scheduler {
	cfg = cfg.withDefaults()
	s := &Scheduler{
		config:    cfg,
		executors: make(map[string]JobExecutor),
		logger:    logger,
		now:       time.Now,
		jobs:      make(chan *Job, cfg.QueueSize),
		inFlight:  make(map[string]uuid.UUID),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register binds an executor to a job name. Call before Start.
func (s *Scheduler) Register(name string, executor JobExecutor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executors[name] = executor
}

// Start starts the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, s.cancel = context.WithCancel(ctx)
	for i := 0; i < s.config.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Job scheduler started",
		zap.Int("workers", s.config.Workers),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels running jobs and waits for the workers until ctx expires
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Job scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Job scheduler stop timed out")
		return ctx.Err()
	}
}

// Submit queues a new run of the named job
func (s *Scheduler) Submit(name string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil, ErrSchedulerNotRunning
	}
	if _, ok := s.executors[name]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	if _, busy := s.inFlight[name]; busy {
		return nil, ErrJobAlreadyQueued
	}

	job := NewJob(name, s.config.RetryAttempts)
	select {
	case s.jobs <- job:
		s.inFlight[name] = job.ID
		s.logger.Debug("Job submitted", zap.String("job", name), zap.String("job_id", job.ID.String()))
		return job, nil
	default:
		return nil, ErrJobQueueFull
	}
}

// InFlight reports whether a run of the named job is queued or running
func (s *Scheduler) InFlight(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[name]
	return ok
}

func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.jobs:
			s.process(ctx, job, workerID)
		}
	}
}

func (s *Scheduler) process(ctx context.Context, job *Job, workerID int) {
	s.mu.Lock()
	executor := s.executors[job.Name]
	s.mu.Unlock()

	fields := []zap.Field{
		zap.Int("worker_id", workerID),
		zap.String("job", job.Name),
		zap.String("job_id", job.ID.String()),
		zap.Int("attempt", job.RetryCount+1),
	}

	started := s.now()
	job.start(started)

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	err := s.run(jobCtx, executor, job)
	cancel()

	if err != nil {
		job.fail(s.now(), err)
	} else {
		job.complete(s.now())
	}
	if s.observer != nil {
		s.observer(ctx, job, s.now().Sub(started))
	}

	if err == nil {
		s.logger.Info("Job completed", append(fields, zap.Duration("duration", s.now().Sub(started)))...)
		s.release(job)
		return
	}

	s.logger.Error("Job failed", append(fields, zap.Error(err))...)
	if !job.ShouldRetry() || ctx.Err() != nil {
		s.release(job)
		return
	}
	job.RetryCount++
	job.Status = JobStatusPending
	s.retryLater(ctx, job)
}

// run shields the worker from executor panics
func (s *Scheduler) run(ctx context.Context, executor JobExecutor, job *Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return executor.Execute(ctx, job)
}

func (s *Scheduler) retryLater(ctx context.Context, job *Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		timer := time.NewTimer(s.config.RetryDelay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			s.release(job)
		case <-timer.C:
			select {
			case s.jobs <- job:
				s.logger.Info("Job re-queued for retry",
					zap.String("job", job.Name),
					zap.Int("retry_count", job.RetryCount),
				)
			case <-ctx.Done():
				s.release(job)
			}
		}
	}()
}

func (s *Scheduler) release(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[job.Name] == job.ID {
		delete(s.inFlight, job.Name)
	}
}
