package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when submitting to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobQueueFull is returned when the job queue is full
	ErrJobQueueFull = errors.New("job queue is full")

	// ErrUnknownJob is returned for job names without a registered executor
	ErrUnknownJob = errors.New("no executor registered for job")

	// ErrJobAlreadyQueued is returned when a job of the same name is queued or running
	ErrJobAlreadyQueued = errors.New("job already queued or running")
)
