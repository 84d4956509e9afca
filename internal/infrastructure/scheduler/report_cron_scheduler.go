package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// The cron loop wakes once a minute and compares against the target
// hour and minute, so one-minute resolution is the floor.
const cronTickerInterval = 1 * time.Minute

// ReportCronSchedulerConfig configures the daily report trigger and
// the worker pool it feeds.
type ReportCronSchedulerConfig struct {
	Enabled    bool
	CronHour   int
	CronMinute int
	// DailyCronSchedule is the source expression; CronHour/CronMinute
	// are derived from it at startup.
	DailyCronSchedule string
	JobTimeout        time.Duration
	MaxConcurrentJobs int
	RetryAttempts     int
	RetryDelay        time.Duration
}

// DefaultReportCronSchedulerConfig runs the report at 02:00 daily.
func DefaultReportCronSchedulerConfig() ReportCronSchedulerConfig {
	return ReportCronSchedulerConfig{
		Enabled:           true,
		CronHour:          2,
		CronMinute:        0,
		DailyCronSchedule: "0 2 * * *",
		JobTimeout:        30 * time.Minute,
		MaxConcurrentJobs: 3,
		RetryAttempts:     3,
		RetryDelay:        5 * time.Minute,
	}
}

// ParseCronSchedule extracts hour and minute from a "minute hour * * *"
// expression. Empty, short, or non-numeric fields fall back to the
// 02:00 default; out-of-range values are an error.
func ParseCronSchedule(cronExpr string) (hour, minute int, err error) {
	hour, minute = 2, 0

	parts := strings.Fields(cronExpr)
	if len(parts) < 2 {
		return hour, minute, nil
	}

	minute = cronField(parts[0], minute)
	hour = cronField(parts[1], hour)

	if minute < 0 || minute > 59 {
		return 2, 0, fmt.Errorf("%w: minute must be 0-59, got %d", ErrInvalidConfig, minute)
	}
	if hour < 0 || hour > 23 {
		return 2, 0, fmt.Errorf("%w: hour must be 0-23, got %d", ErrInvalidConfig, hour)
	}
	return hour, minute, nil
}

// cronField reads one numeric cron field, keeping the fallback for "*"
// or anything that is not a plain number.
func cronField(s string, fallback int) int {
	if s == "" || s == "*" || strings.HasPrefix(s, "-") {
		return fallback
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return val
}

// SchedulerJobRecord is the persisted trace of one report job run.
type SchedulerJobRecord struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	JobKind     string     `gorm:"column:job_kind;size:50;not null"`
	TriggeredBy string     `gorm:"column:triggered_by;size:100"`
	Status      string     `gorm:"column:last_run_status;size:20"`
	Error       string     `gorm:"column:last_error;type:text"`
	StartedAt   *time.Time `gorm:"column:last_run_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	NextRunAt   *time.Time `gorm:"column:next_run_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (SchedulerJobRecord) TableName() string {
	return "report_scheduler_jobs"
}

// SchedulerJobRepository persists job run records.
type SchedulerJobRepository struct {
	db *gorm.DB
}

func NewSchedulerJobRepository(db *gorm.DB) *SchedulerJobRepository {
	return &SchedulerJobRepository{db: db}
}

// RecordJobStart inserts a running record and returns its ID so the
// completion update can find it.
func (r *SchedulerJobRepository) RecordJobStart(ctx context.Context, kind JobKind, triggeredBy string) (uuid.UUID, error) {
	now := time.Now()
	record := &SchedulerJobRecord{
		ID:          uuid.New(),
		JobKind:     string(kind),
		TriggeredBy: triggeredBy,
		Status:      string(JobStatusRunning),
		StartedAt:   &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}

// RecordJobComplete stamps the outcome onto an existing record.
func (r *SchedulerJobRepository) RecordJobComplete(ctx context.Context, jobID uuid.UUID, success bool, errMsg string) error {
	now := time.Now()
	status := string(JobStatusSuccess)
	if !success {
		status = string(JobStatusFailed)
	}
	return r.db.WithContext(ctx).
		Model(&SchedulerJobRecord{}).
		Where("id = ?", jobID).
		Updates(map[string]any{
			"last_run_status": status,
			"last_error":      errMsg,
			"completed_at":    now,
			"updated_at":      now,
		}).Error
}

// GetLastJobStatus returns the most recent run record for a kind.
func (r *SchedulerJobRepository) GetLastJobStatus(ctx context.Context, kind JobKind) (*SchedulerJobRecord, error) {
	var record SchedulerJobRecord
	err := r.db.WithContext(ctx).
		Where("job_kind = ?", string(kind)).
		Order("last_run_at DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ReportCronScheduler fires the daily report at a fixed time of day
// and hands the job to an embedded worker-pool scheduler.
type ReportCronScheduler struct {
	config    ReportCronSchedulerConfig
	executor  JobExecutor
	jobRepo   *SchedulerJobRepository
	logger    *zap.Logger
	scheduler *Scheduler

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt *time.Time
	nextRunAt *time.Time
}

// NewReportCronScheduler builds the cron trigger. A nil jobRepo means
// job runs are not persisted.
func NewReportCronScheduler(
	config ReportCronSchedulerConfig,
	executor JobExecutor,
	jobRepo *SchedulerJobRepository,
	logger *zap.Logger,
) *ReportCronScheduler {
	pool := NewScheduler(SchedulerConfig{
		Enabled:           config.Enabled,
		MaxConcurrentJobs: config.MaxConcurrentJobs,
		JobTimeout:        config.JobTimeout,
		RetryAttempts:     config.RetryAttempts,
		RetryDelay:        config.RetryDelay,
	}, executor, logger)

	return &ReportCronScheduler{
		config:    config,
		executor:  executor,
		jobRepo:   jobRepo,
		logger:    logger,
		scheduler: pool,
	}
}

func (s *ReportCronScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	if err := s.scheduler.Start(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.calculateNextRunTime()

	s.wg.Add(1)
	go s.cronLoop(ctx)

	s.logger.Info("Report cron scheduler started",
		zap.Int("cron_hour", s.config.CronHour),
		zap.Int("cron_minute", s.config.CronMinute),
		zap.Timep("next_run_at", s.nextRunAt),
	)
	return nil
}

// Stop halts the trigger loop, then drains the worker pool.
func (s *ReportCronScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if err := s.scheduler.Stop(ctx); err != nil {
			s.logger.Warn("Error stopping underlying scheduler", zap.Error(err))
		}
		s.logger.Info("Report cron scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Report cron scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *ReportCronScheduler) cronLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(cronTickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if s.shouldRun(now) {
				s.scheduleDailyReport(ctx, "scheduler")
				s.calculateNextRunTime()
			}
		}
	}
}

func (s *ReportCronScheduler) shouldRun(now time.Time) bool {
	return now.Hour() == s.config.CronHour && now.Minute() == s.config.CronMinute
}

func (s *ReportCronScheduler) calculateNextRunTime() {
	now := time.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.config.CronHour, s.config.CronMinute, 0, 0, now.Location())
	if now.After(next) {
		next = next.AddDate(0, 0, 1)
	}

	s.mu.Lock()
	s.nextRunAt = &next
	s.mu.Unlock()
}

// scheduleDailyReport records the run and submits the job. A submit
// failure is written back to the run record.
func (s *ReportCronScheduler) scheduleDailyReport(ctx context.Context, triggeredBy string) {
	s.logger.Info("Scheduling daily report job", zap.String("triggered_by", triggeredBy))

	now := time.Now()
	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	var jobID uuid.UUID
	if s.jobRepo != nil {
		var recordErr error
		jobID, recordErr = s.jobRepo.RecordJobStart(ctx, JobKindDailyReport, triggeredBy)
		if recordErr != nil {
			s.logger.Warn("Failed to record job start", zap.Error(recordErr))
		}
	}

	job := NewJob(JobKindDailyReport, triggeredBy, s.config.RetryAttempts)
	if err := s.scheduler.SubmitJob(job); err != nil {
		s.logger.Error("Failed to submit daily report job", zap.Error(err))
		if s.jobRepo != nil && jobID != uuid.Nil {
			_ = s.jobRepo.RecordJobComplete(ctx, jobID, false, err.Error())
		}
	}
}

// TriggerManualRun queues an out-of-schedule run. It detaches from the
// caller's context so the job survives the HTTP request that asked
// for it.
func (s *ReportCronScheduler) TriggerManualRun(ctx context.Context, triggeredBy string) error {
	s.mu.Lock()
	running := s.isRunning
	s.mu.Unlock()
	if !running {
		return ErrSchedulerNotRunning
	}

	go s.scheduleDailyReport(context.Background(), triggeredBy)
	return nil
}

// GetStatus reports the trigger state for the dashboard endpoint.
func (s *ReportCronScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":     s.config.Enabled,
		"is_running":  s.isRunning,
		"cron_hour":   s.config.CronHour,
		"cron_minute": s.config.CronMinute,
		"last_run_at": s.lastRunAt,
		"next_run_at": s.nextRunAt,
		"job_kind":    JobKindDailyReport,
	}
}

func (s *ReportCronScheduler) GetNextRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRunAt
}

func (s *ReportCronScheduler) GetLastRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunAt
}
