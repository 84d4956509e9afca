package scheduler

import "errors"

// Scheduler failure modes. Callers match these with errors.Is.
var (
	ErrSchedulerNotRunning = errors.New("scheduler is not running")
	ErrJobQueueFull        = errors.New("job queue is full")
	ErrJobNotFound         = errors.New("job not found")
	ErrInvalidConfig       = errors.New("invalid scheduler configuration")
)
