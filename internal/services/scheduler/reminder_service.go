package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tempo/internal/common"
	"github.com/ternarybob/tempo/internal/interfaces"
)

// Service runs the daily worklog reminder. A cron entry fires once a
// minute; each tick compares local wall-clock time against the configured
// reminder time and publishes EventReminderDue on a match. The check
// window is one minute wide and the tick period matches it, so the
// reminder fires once per day under normal clock behavior. Ticks missed
// while the process is suspended are not compensated.
type Service struct {
	config       common.ReminderConfig
	eventService interfaces.EventService
	cron         *cron.Cron
	logger       arbor.ILogger
	mu           sync.Mutex
	running      bool
	now          func() time.Time
}

// NewService creates a new reminder service.
func NewService(config common.ReminderConfig, eventService interfaces.EventService, logger arbor.ILogger) *Service {
	return &Service{
		config:       config,
		eventService: eventService,
		cron:         cron.New(),
		logger:       logger,
		now:          time.Now,
	}
}

// Start begins the minute tick.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("reminder scheduler already running")
	}

	if !s.config.Enabled {
		s.logger.Info().Msg("Daily reminder disabled by configuration")
		return nil
	}

	// Standard cron fires at second zero of every minute, which keeps the
	// minute-equality check below from double-firing.
	if _, err := s.cron.AddFunc("* * * * *", s.tick); err != nil {
		return fmt.Errorf("failed to add reminder cron entry: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Int("hour", s.config.Hour).
		Int("minute", s.config.Minute).
		Msg("Daily reminder scheduler started")

	return nil
}

// Stop halts the tick. Safe to call when not running.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.cron.Stop()
	s.running = false

	s.logger.Info().Msg("Daily reminder scheduler stopped")
	return nil
}

// IsRunning reports whether the loop is active.
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Service) tick() {
	s.check(s.now())
}

// check evaluates one tick of the reminder loop. Split out from tick so
// tests can drive it with a simulated clock. Returns true when the
// reminder fired.
func (s *Service) check(now time.Time) bool {
	local := now.Local()
	if local.Hour() != s.config.Hour || local.Minute() != s.config.Minute {
		return false
	}

	s.logger.Info().
		Str("time", local.Format("15:04")).
		Msg("Daily worklog reminder due")

	// A publish failure (no presentation surface listening) is logged by
	// the event service; the loop continues unaffected either way.
	if err := s.eventService.Publish(context.Background(), interfaces.Event{
		Type: interfaces.EventReminderDue,
		Payload: map[string]interface{}{
			"message": "Time to log your work in Jira",
			"at":      local.Format(time.RFC3339),
		},
	}); err != nil {
		s.logger.Error().Err(err).Msg("Failed to publish reminder event")
	}

	return true
}
