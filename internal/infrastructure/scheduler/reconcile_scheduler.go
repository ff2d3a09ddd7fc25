// Package scheduler runs the ledger reconciliation once a day and keeps a
// history of the results.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/application/reconcile"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/config"
	"go.uber.org/zap"
)

// cronTickerInterval is the interval at which the cron scheduler checks for execution
const cronTickerInterval = 1 * time.Minute

// Reconciler produces a drift report
type Reconciler interface {
	Run(ctx context.Context) (*reconcile.Report, error)
}

// ReportArchiver stores a finished report and returns where it was put
type ReportArchiver interface {
	Archive(ctx context.Context, runID uuid.UUID, startedAt time.Time, report *reconcile.Report) (string, error)
}

// ReconcileSchedulerConfig holds the daily run time
type ReconcileSchedulerConfig struct {
	Enabled bool
	// CronHour is the hour (0-23) to run
	CronHour int
	// CronMinute is the minute (0-59) to run
	CronMinute int
	// Timeout bounds a single pass
	Timeout time.Duration
}

// DefaultReconcileSchedulerConfig runs at 2:00 AM with a five minute budget
func DefaultReconcileSchedulerConfig() ReconcileSchedulerConfig {
	return ReconcileSchedulerConfig{
		Enabled:    true,
		CronHour:   2,
		CronMinute: 0,
		Timeout:    5 * time.Minute,
	}
}

// ConfigFromSettings builds the scheduler config from application settings
func ConfigFromSettings(cfg config.ReconcileConfig) (ReconcileSchedulerConfig, error) {
	hour, minute, err := ParseCronSchedule(cfg.Schedule)
	if err != nil {
		return ReconcileSchedulerConfig{}, err
	}
	out := DefaultReconcileSchedulerConfig()
	out.Enabled = cfg.Enabled
	out.CronHour = hour
	out.CronMinute = minute
	if cfg.Timeout > 0 {
		out.Timeout = cfg.Timeout
	}
	return out, nil
}

// ParseCronSchedule parses a daily cron expression "minute hour * * *".
// An empty expression means 2:00. Only fixed minutes and hours are supported.
func ParseCronSchedule(cronExpr string) (hour, minute int, err error) {
	parts := strings.Fields(cronExpr)
	if len(parts) == 0 {
		return 2, 0, nil
	}
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("%w: schedule %q needs minute and hour", ErrInvalidConfig, cronExpr)
	}

	minute, err = strconv.Atoi(parts[0])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: minute must be 0-59, got %q", ErrInvalidConfig, parts[0])
	}
	hour, err = strconv.Atoi(parts[1])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: hour must be 0-23, got %q", ErrInvalidConfig, parts[1])
	}
	return hour, minute, nil
}

// Status is a point-in-time view of the scheduler
type Status struct {
	Enabled    bool       `json:"enabled"`
	IsRunning  bool       `json:"is_running"`
	CronHour   int        `json:"cron_hour"`
	CronMinute int        `json:"cron_minute"`
	LastRunAt  *time.Time `json:"last_run_at,omitempty"`
	LastStatus RunStatus  `json:"last_status,omitempty"`
	NextRunAt  *time.Time `json:"next_run_at,omitempty"`
}

// ReconcileScheduler runs reconciliation at a fixed time every day
type ReconcileScheduler struct {
	config     ReconcileSchedulerConfig
	reconciler Reconciler
	runs       *RunRepository
	archive    ReportArchiver
	logger     *zap.Logger
	now        func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	inFlight  atomic.Bool

	lastRunAt  *time.Time
	lastStatus RunStatus
	nextRunAt  *time.Time
}

// NewReconcileScheduler creates a scheduler. runs may be nil, in which case
// results are only logged.
func NewReconcileScheduler(cfg ReconcileSchedulerConfig, reconciler Reconciler, runs *RunRepository, logger *zap.Logger) *ReconcileScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconcileScheduler{
		config:     cfg,
		reconciler: reconciler,
		runs:       runs,
		logger:     logger.Named("reconcile-scheduler"),
		now:        time.Now,
	}
}

// WithArchive makes every finished report go to archive as well
func (s *ReconcileScheduler) WithArchive(archive ReportArchiver) *ReconcileScheduler {
	s.archive = archive
	return s
}

// Start starts the cron loop. It is a no-op when disabled or already running.
func (s *ReconcileScheduler) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("Reconcile scheduler disabled")
		return nil
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.calculateNextRunTime()

	s.wg.Add(1)
	go s.cronLoop(ctx)

	s.logger.Info("Reconcile scheduler started",
		zap.Int("cron_hour", s.config.CronHour),
		zap.Int("cron_minute", s.config.CronMinute),
		zap.Timep("next_run_at", s.NextRunAt()),
	)
	return nil
}

// Stop cancels the loop and waits for an in-flight pass to finish
func (s *ReconcileScheduler) Stop(ctx context.Context) error {
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
		s.logger.Info("Reconcile scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Reconcile scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *ReconcileScheduler) cronLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(cronTickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if s.shouldRun(now) {
				_, _ = s.RunOnce(ctx, TriggerSchedule)
				s.calculateNextRunTime()
			}
		}
	}
}

func (s *ReconcileScheduler) shouldRun(now time.Time) bool {
	return now.Hour() == s.config.CronHour && now.Minute() == s.config.CronMinute
}

func (s *ReconcileScheduler) calculateNextRunTime() {
	now := s.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.config.CronHour, s.config.CronMinute, 0, 0, now.Location())
	if now.After(next) {
		next = next.AddDate(0, 0, 1)
	}

	s.mu.Lock()
	s.nextRunAt = &next
	s.mu.Unlock()
}

// RunOnce performs one reconciliation pass and records it. Overlapping
// passes are refused with ErrRunInProgress.
func (s *ReconcileScheduler) RunOnce(ctx context.Context, trigger Trigger) (*reconcile.Report, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer s.inFlight.Store(false)

	started := s.now()
	s.mu.Lock()
	s.lastRunAt = &started
	s.mu.Unlock()

	log := s.logger.With(zap.String("trigger", string(trigger)))
	var runID uuid.UUID
	if s.runs != nil {
		id, err := s.runs.RecordStart(ctx, trigger, started)
		if err != nil {
			log.Warn("Failed to record reconciliation start", zap.Error(err))
		}
		runID = id
	}

	runCtx := ctx
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	report, err := s.reconciler.Run(runCtx)
	if err != nil {
		s.setLastStatus(RunStatusFailed)
		log.Error("Scheduled reconciliation failed", zap.Error(err))
		if s.runs != nil && runID != uuid.Nil {
			if recErr := s.runs.RecordFailure(context.WithoutCancel(ctx), runID, err); recErr != nil {
				log.Warn("Failed to record reconciliation failure", zap.Error(recErr))
			}
		}
		return nil, err
	}

	status := RunStatusClean
	if !report.Clean() {
		status = RunStatusDrift
	}
	s.setLastStatus(status)
	log.Info("Scheduled reconciliation finished",
		zap.String("status", string(status)),
		zap.Int("items_checked", report.ItemsChecked),
		zap.Int("parties_checked", report.PartiesChecked),
		zap.Int("stock_drift", len(report.StockDrift)),
		zap.Int("balance_drift", len(report.BalanceDrift)),
		zap.Duration("elapsed", s.now().Sub(started)),
	)
	var reportKey string
	if s.archive != nil {
		archiveID := runID
		if archiveID == uuid.Nil {
			archiveID = uuid.New()
		}
		key, archErr := s.archive.Archive(context.WithoutCancel(ctx), archiveID, started, report)
		if archErr != nil {
			log.Warn("Failed to archive reconciliation report", zap.Error(archErr))
		} else {
			reportKey = key
		}
	}
	if s.runs != nil && runID != uuid.Nil {
		if recErr := s.runs.RecordReport(context.WithoutCancel(ctx), runID, report, reportKey); recErr != nil {
			log.Warn("Failed to record reconciliation result", zap.Error(recErr))
		}
	}
	return report, nil
}

func (s *ReconcileScheduler) setLastStatus(status RunStatus) {
	s.mu.Lock()
	s.lastStatus = status
	s.mu.Unlock()
}

// TriggerManualRun starts a pass in the background.
// The pass is detached from ctx so it outlives the HTTP request that asked for it.
func (s *ReconcileScheduler) TriggerManualRun(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()
	if s.inFlight.Load() {
		return ErrRunInProgress
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_, _ = s.RunOnce(context.WithoutCancel(ctx), TriggerManual)
	}()
	return nil
}

// Status returns the current state of the scheduler
func (s *ReconcileScheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Enabled:    s.config.Enabled,
		IsRunning:  s.isRunning,
		CronHour:   s.config.CronHour,
		CronMinute: s.config.CronMinute,
		LastRunAt:  s.lastRunAt,
		LastStatus: s.lastStatus,
		NextRunAt:  s.nextRunAt,
	}
}

// NextRunAt returns when the next scheduled run will occur
func (s *ReconcileScheduler) NextRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRunAt
}
