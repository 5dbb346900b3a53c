package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/infrastructure/config"
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

// JobKind selects the executor that runs a job
type JobKind string

const (
	JobKindPostingSweep JobKind = "POSTING_SWEEP"
	JobKindCreditScan   JobKind = "CREDIT_SCAN"
)

// Job is one unit of background work
type Job struct {
	ID          uuid.UUID
	Kind        JobKind
	TenantID    *uuid.UUID // nil means all tenants
	Today       time.Time  // business instant the job runs for
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
}

// NewJob creates a pending job
func NewJob(kind JobKind, tenantID *uuid.UUID, today time.Time, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Kind:       kind,
		TenantID:   tenantID,
		Today:      today,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

func (j *Job) start(now time.Time) {
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.CompletedAt = nil
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

// ShouldRetry reports whether a failed job has retries left
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

func (j *Job) fields() []zap.Field {
	fields := []zap.Field{
		zap.String("job_id", j.ID.String()),
		zap.String("kind", string(j.Kind)),
		zap.Int("retry_count", j.RetryCount),
	}
	if j.TenantID != nil {
		fields = append(fields, zap.String("tenant_id", j.TenantID.String()))
	}
	return fields
}

// JobExecutor runs jobs of one kind
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// SchedulerConfig holds scheduler configuration
type SchedulerConfig struct {
	MaxConcurrentJobs int
	QueueSize         int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration

	// OnFinish, when set, is called after every terminal job state
	OnFinish func(*Job)
}

// DefaultSchedulerConfig returns default scheduler configuration
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		MaxConcurrentJobs: 2,
		QueueSize:         32,
		JobTimeout:        10 * time.Minute,
		RetryAttempts:     3,
		RetryDelay:        time.Minute,
	}
}

// SchedulerConfigFrom maps the application config section
func SchedulerConfigFrom(cfg config.SchedulerConfig) SchedulerConfig {
	out := DefaultSchedulerConfig()
	if cfg.MaxConcurrentJobs > 0 {
		out.MaxConcurrentJobs = cfg.MaxConcurrentJobs
	}
	if cfg.QueueSize > 0 {
		out.QueueSize = cfg.QueueSize
	}
	if cfg.JobTimeout > 0 {
		out.JobTimeout = cfg.JobTimeout
	}
	if cfg.RetryAttempts >= 0 {
		out.RetryAttempts = cfg.RetryAttempts
	}
	if cfg.RetryDelay > 0 {
		out.RetryDelay = cfg.RetryDelay
	}
	return out
}

// Scheduler runs submitted jobs on a fixed worker pool. Failed jobs are
// re-queued after RetryDelay until MaxRetries is reached.
type Scheduler struct {
	config    SchedulerConfig
	executors map[JobKind]JobExecutor
	logger    *zap.Logger
	now       func() time.Time

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	retries   map[uuid.UUID]*time.Timer
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg SchedulerConfig, logger *zap.Logger) (*Scheduler, error) {
	if cfg.MaxConcurrentJobs <= 0 || cfg.QueueSize <= 0 || cfg.JobTimeout <= 0 {
		return nil, fmt.Errorf("%w: workers, queue size and job timeout must be positive", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		config:    cfg,
		executors: make(map[JobKind]JobExecutor),
		logger:    logger.Named("scheduler"),
		now:       time.Now,
		retries:   make(map[uuid.UUID]*time.Timer),
	}, nil
}

// Register binds an executor to a job kind. Call before Start.
func (s *Scheduler) Register(kind JobKind, executor JobExecutor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executors[kind] = executor
}

// Start launches the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true
	s.jobs = make(chan *Job, s.config.QueueSize)

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i, s.jobs)
	}

	s.logger.Info("Scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Int("queue_size", s.config.QueueSize),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels running jobs, drops pending retries and waits for the
// workers to exit or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	for id, t := range s.retries {
		t.Stop()
		delete(s.retries, id)
	}
	close(s.jobs)
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// Running reports whether the worker pool is up
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// SubmitJob queues a job without blocking
func (s *Scheduler) SubmitJob(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enqueueLocked(job)
}

// Submit creates and queues a job with the configured retry budget
func (s *Scheduler) Submit(kind JobKind, tenantID *uuid.UUID, today time.Time) (*Job, error) {
	job := NewJob(kind, tenantID, today, s.config.RetryAttempts)
	if err := s.SubmitJob(job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *Scheduler) enqueueLocked(job *Job) error {
	if !s.isRunning {
		return ErrSchedulerNotRunning
	}
	if _, ok := s.executors[job.Kind]; !ok {
		return fmt.Errorf("%w: %s", ErrNoExecutor, job.Kind)
	}
	select {
	case s.jobs <- job:
		s.logger.Debug("Job submitted", job.fields()...)
		return nil
	default:
		return ErrJobQueueFull
	}
}

func (s *Scheduler) worker(ctx context.Context, workerID int, jobs <-chan *Job) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			s.processJob(ctx, job, workerID)
		}
	}
}

func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	s.mu.Lock()
	executor := s.executors[job.Kind]
	s.mu.Unlock()

	job.start(s.now())
	s.logger.Info("Processing job", append(job.fields(), zap.Int("worker_id", workerID))...)

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	err := s.execute(jobCtx, executor, job)
	cancel()

	if err == nil {
		job.complete(s.now())
		s.logger.Info("Job completed", job.fields()...)
		s.finish(job)
		return
	}

	job.fail(s.now(), err)
	s.logger.Error("Job failed", append(job.fields(), zap.Error(err))...)
	if job.ShouldRetry() && ctx.Err() == nil {
		s.scheduleRetry(job)
		return
	}
	s.finish(job)
}

func (s *Scheduler) execute(ctx context.Context, executor JobExecutor, job *Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return executor.Execute(ctx, job)
}

func (s *Scheduler) scheduleRetry(job *Job) {
	job.RetryCount++
	job.Status = JobStatusPending

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	s.logger.Info("Job scheduled for retry",
		append(job.fields(), zap.Duration("delay", s.config.RetryDelay), zap.Int("max_retries", job.MaxRetries))...)
	s.retries[job.ID] = time.AfterFunc(s.config.RetryDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.retries, job.ID)
		if err := s.enqueueLocked(job); err != nil {
			s.logger.Warn("Failed to re-queue job for retry", append(job.fields(), zap.Error(err))...)
		}
	})
}

func (s *Scheduler) finish(job *Job) {
	if s.config.OnFinish != nil {
		s.config.OnFinish(job)
	}
}
