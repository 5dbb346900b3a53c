package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Submitter queues jobs. *Scheduler implements it.
type Submitter interface {
	Submit(kind JobKind, tenantID *uuid.UUID, today time.Time) (*Job, error)
}

// CronTriggerConfig holds configuration for the cron trigger
type CronTriggerConfig struct {
	// SweepInterval is the gap between posting sweeps; zero disables them
	SweepInterval time.Duration
	// CreditScanHour is the local hour (0-23) of the daily credit scan;
	// negative disables it
	CreditScanHour int
	// Location is the business timezone the scan hour is read in
	Location *time.Location
	// CheckInterval is how often the trigger wakes up
	CheckInterval time.Duration
}

// DefaultCronTriggerConfig returns default cron trigger configuration
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		SweepInterval:  15 * time.Minute,
		CreditScanHour: 1,
		Location:       time.UTC,
		CheckInterval:  time.Minute,
	}
}

// CronTriggerConfigFrom maps the application config sections
func CronTriggerConfigFrom(cfg config.SchedulerConfig, loc *time.Location) CronTriggerConfig {
	out := DefaultCronTriggerConfig()
	out.SweepInterval = cfg.SweepInterval
	out.CreditScanHour = cfg.CreditScanHour
	if loc != nil {
		out.Location = loc
	}
	return out
}

// CronTrigger submits a posting sweep every SweepInterval and a credit
// scan for all tenants once per local day at CreditScanHour
type CronTrigger struct {
	config    CronTriggerConfig
	submitter Submitter
	logger    *zap.Logger
	now       func() time.Time

	cancel       context.CancelFunc
	wg           sync.WaitGroup
	mu           sync.Mutex
	isRunning    bool
	lastSweep    time.Time
	lastScanDate string
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(cfg CronTriggerConfig, submitter Submitter, logger *zap.Logger) *CronTrigger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Minute
	}
	return &CronTrigger{
		config:    cfg,
		submitter: submitter,
		logger:    logger.Named("cron"),
		now:       time.Now,
	}
}

// Start runs a first check immediately and then one per CheckInterval
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Cron trigger started",
		zap.Duration("sweep_interval", c.config.SweepInterval),
		zap.Int("credit_scan_hour", c.config.CreditScanHour),
		zap.String("location", c.config.Location.String()),
		zap.Duration("check_interval", c.config.CheckInterval),
	)
	return nil
}

// Stop stops the cron trigger
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	c.cancel()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	c.Tick()
	ticker := time.NewTicker(c.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick()
		}
	}
}

// Tick submits whatever is due at the current time
func (c *CronTrigger) Tick() {
	now := c.now().In(c.config.Location)

	c.mu.Lock()
	sweepDue := c.config.SweepInterval > 0 &&
		(c.lastSweep.IsZero() || now.Sub(c.lastSweep) >= c.config.SweepInterval)
	date := now.Format(time.DateOnly)
	scanDue := c.config.CreditScanHour >= 0 &&
		now.Hour() == c.config.CreditScanHour && c.lastScanDate != date
	c.mu.Unlock()

	if sweepDue {
		if _, err := c.submitter.Submit(JobKindPostingSweep, nil, now); err != nil {
			c.logger.Warn("Failed to submit posting sweep", zap.Error(err))
		} else {
			c.mu.Lock()
			c.lastSweep = now
			c.mu.Unlock()
		}
	}

	if scanDue {
		c.logger.Info("Triggering daily credit scan", zap.String("date", date))
		if _, err := c.submitter.Submit(JobKindCreditScan, nil, now); err != nil {
			c.logger.Warn("Failed to submit credit scan", zap.Error(err))
			return
		}
		c.mu.Lock()
		c.lastScanDate = date
		c.mu.Unlock()
	}
}
