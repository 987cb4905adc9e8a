package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/fintrack/internal/logging"
)

// ReportCleanupEnqueuer puts a report cleanup task on the queue.
type ReportCleanupEnqueuer interface {
	EnqueueReportCleanup(ctx context.Context, retentionDays int) (string, error)
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// ReportCleanupScheduler periodically enqueues deletion of old AI reports.
type ReportCleanupScheduler struct {
	enqueuer      ReportCleanupEnqueuer
	schedule      string
	retentionDays int
	logger        *slog.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewReportCleanupScheduler creates a scheduler instance. An empty schedule
// disables it.
func NewReportCleanupScheduler(enqueuer ReportCleanupEnqueuer, schedule string, retentionDays int, logger *slog.Logger) *ReportCleanupScheduler {
	return &ReportCleanupScheduler{
		enqueuer:      enqueuer,
		schedule:      schedule,
		retentionDays: retentionDays,
		logger:        logging.Component(logger, logging.ComponentScheduler),
		cron:          cron.New(cron.WithParser(parser)),
	}
}

// Start begins the scheduler. It stops on its own when ctx is cancelled.
func (s *ReportCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.schedule == "" {
		s.logger.Info("report cleanup scheduler disabled")
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.run(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule report cleanup: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	s.logger.Info("report cleanup scheduler started",
		"schedule", s.schedule,
		"retention_days", s.retentionDays,
		"next_run", s.nextRunLocked())

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops accepting new runs and waits for a running one to finish.
func (s *ReportCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	s.isRunning = false

	s.logger.Info("report cleanup scheduler stopped")
}

// RunNow enqueues a cleanup immediately.
func (s *ReportCleanupScheduler) RunNow(ctx context.Context) {
	s.run(ctx)
}

// IsRunning returns whether the scheduler is active.
func (s *ReportCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next cleanup will be enqueued.
func (s *ReportCleanupScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextRunLocked()
}

func (s *ReportCleanupScheduler) nextRunLocked() *time.Time {
	if s.entryID == 0 {
		return nil
	}
	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() || entry.Next.IsZero() {
		return nil
	}
	next := entry.Next
	return &next
}

func (s *ReportCleanupScheduler) run(ctx context.Context) {
	taskID, err := s.enqueuer.EnqueueReportCleanup(ctx, s.retentionDays)
	if err != nil {
		s.logger.Error("failed to enqueue report cleanup", "error", err)
		return
	}
	s.logger.Debug("report cleanup enqueued", "task_id", taskID)
}
