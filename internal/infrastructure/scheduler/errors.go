package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrNoJobs is returned when a trigger is built without any job
	ErrNoJobs = errors.New("no jobs to schedule")
)
