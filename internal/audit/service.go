package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mrlokans/fintrack/internal/entities"
	"github.com/mrlokans/fintrack/internal/logging"
)

const writeTimeout = 5 * time.Second

// EventStore persists and lists audit events.
type EventStore interface {
	LogEvent(ctx context.Context, event *entities.AuditEvent) error
	ListForUser(ctx context.Context, userID uint, limit int) ([]entities.AuditEvent, error)
}

// Service provides high-level audit logging functionality.
type Service struct {
	store  EventStore
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(store EventStore, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logging.Component(logger, logging.ComponentAudit),
	}
}

// Log records an audit event synchronously.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.store.LogEvent(ctx, normalize(event))
}

// LogAsync records an audit event in the background (non-blocking).
// The write outlives the request, so it gets its own deadline.
func (s *Service) LogAsync(event *entities.AuditEvent) {
	normalize(event)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := s.store.LogEvent(ctx, event); err != nil {
			s.logger.Error("failed to log audit event", "action", event.Action, "error", err)
		}
	}()
}

// Events returns a user's most recent events.
func (s *Service) Events(ctx context.Context, userID uint, limit int) ([]entities.AuditEvent, error) {
	return s.store.ListForUser(ctx, userID, limit)
}

// Wait blocks until pending background writes have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// normalize fits free-form request values to their column sizes.
func normalize(event *entities.AuditEvent) *entities.AuditEvent {
	event.UserAgent = truncate(event.UserAgent, 500)
	event.Path = truncate(event.Path, 255)
	if event.Status == "" {
		event.Status = entities.AuditStatusSuccess
	}
	return event
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
