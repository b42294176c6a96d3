// Package scheduler runs background jobs once a day at a fixed local time.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is a unit of work run by the trigger
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// DailyTriggerConfig holds configuration for the daily trigger
type DailyTriggerConfig struct {
	Hour   int
	Minute int

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration

	// Location decides when a day starts. Defaults to UTC.
	Location *time.Location

	// JobTimeout bounds a single job run
	JobTimeout time.Duration
}

// DefaultDailyTriggerConfig returns a midnight UTC schedule checked every minute
func DefaultDailyTriggerConfig() DailyTriggerConfig {
	return DailyTriggerConfig{
		CheckInterval: time.Minute,
		Location:      time.UTC,
		JobTimeout:    2 * time.Minute,
	}
}

// DailyTrigger runs its jobs once per local day at Hour:Minute
type DailyTrigger struct {
	config DailyTriggerConfig
	jobs   []Job
	logger *zap.Logger
	now    func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewDailyTrigger creates a new daily trigger
func NewDailyTrigger(config DailyTriggerConfig, logger *zap.Logger, jobs ...Job) (*DailyTrigger, error) {
	if len(jobs) == 0 {
		return nil, ErrNoJobs
	}
	if config.Hour < 0 || config.Hour > 23 || config.Minute < 0 || config.Minute > 59 {
		return nil, ErrInvalidConfig
	}
	defaults := DefaultDailyTriggerConfig()
	if config.CheckInterval <= 0 {
		config.CheckInterval = defaults.CheckInterval
	}
	if config.Location == nil {
		config.Location = defaults.Location
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = defaults.JobTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DailyTrigger{
		config: config,
		jobs:   jobs,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Start starts the trigger loop
func (d *DailyTrigger) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.isRunning {
		d.mu.Unlock()
		return nil
	}
	d.isRunning = true
	d.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.wg.Add(1)
	go d.runLoop(ctx)

	d.logger.Info("Daily trigger started",
		zap.Int("hour", d.config.Hour),
		zap.Int("minute", d.config.Minute),
		zap.String("location", d.config.Location.String()),
		zap.Duration("check_interval", d.config.CheckInterval),
	)
	return nil
}

// Stop stops the trigger and waits for a running job to finish
func (d *DailyTrigger) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.isRunning {
		d.mu.Unlock()
		return nil
	}
	d.isRunning = false
	d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("Daily trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the loop is active
func (d *DailyTrigger) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.isRunning
}

func (d *DailyTrigger) runLoop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.checkAndTrigger(ctx)
		}
	}
}

// checkAndTrigger runs the jobs when the local clock reads Hour:Minute and
// they have not run yet today. Returns true when the jobs ran.
func (d *DailyTrigger) checkAndTrigger(ctx context.Context) bool {
	now := d.now().In(d.config.Location)
	currentDate := now.Format(time.DateOnly)

	d.mu.Lock()
	if d.lastRunDate == currentDate {
		d.mu.Unlock()
		return false
	}
	if now.Hour() != d.config.Hour || now.Minute() != d.config.Minute {
		d.mu.Unlock()
		return false
	}
	d.lastRunDate = currentDate
	d.mu.Unlock()

	d.logger.Info("Running daily jobs", zap.String("date", currentDate))
	d.RunNow(ctx)
	return true
}

// RunNow runs every job immediately. A failing job is logged and does not
// stop the others.
func (d *DailyTrigger) RunNow(ctx context.Context) {
	for _, job := range d.jobs {
		jobCtx, cancel := context.WithTimeout(ctx, d.config.JobTimeout)
		start := time.Now()
		err := job.Run(jobCtx)
		cancel()

		if err != nil {
			d.logger.Error("Scheduled job failed",
				zap.String("job", job.Name()),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err),
			)
			continue
		}
		d.logger.Info("Scheduled job completed",
			zap.String("job", job.Name()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
