package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tempo/internal/common"
	"github.com/ternarybob/tempo/internal/interfaces"
	"github.com/ternarybob/tempo/internal/services/events"
)

func reminderConfig(hour, minute int) common.ReminderConfig {
	return common.ReminderConfig{Enabled: true, Hour: hour, Minute: minute}
}

// Sweep a simulated 24-hour day minute by minute: the reminder must fire
// exactly once, at 17:00, and at no other minute.
func TestReminderFiresOncePerDay(t *testing.T) {
	eventService := events.NewService(arbor.NewLogger())

	var fired int32
	require.NoError(t, eventService.Subscribe(interfaces.EventReminderDue, func(ctx context.Context, event interfaces.Event) error {
		atomic.AddInt32(&fired, 1)
		return nil
	}))

	svc := NewService(reminderConfig(17, 0), eventService, arbor.NewLogger())

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	var firedAt time.Time
	for minute := 0; minute < 24*60; minute++ {
		now := start.Add(time.Duration(minute) * time.Minute)
		if svc.check(now) {
			firedAt = now
		}
	}

	// check publishes asynchronously; PublishSync on a sentinel would be
	// overkill, a short wait settles the single goroutine.
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(1), atomic.LoadInt32(&fired), "reminder must fire exactly once in 24h")
	assert.Equal(t, 17, firedAt.Hour())
	assert.Equal(t, 0, firedAt.Minute())
}

func TestReminderRespectsConfiguredTime(t *testing.T) {
	eventService := events.NewService(arbor.NewLogger())
	svc := NewService(reminderConfig(9, 30), eventService, arbor.NewLogger())

	assert.False(t, svc.check(time.Date(2024, 1, 1, 17, 0, 0, 0, time.Local)))
	assert.False(t, svc.check(time.Date(2024, 1, 1, 9, 29, 0, 0, time.Local)))
	assert.True(t, svc.check(time.Date(2024, 1, 1, 9, 30, 0, 0, time.Local)))
	assert.False(t, svc.check(time.Date(2024, 1, 1, 9, 31, 0, 0, time.Local)))
}

func TestReminderChecksIgnoreSeconds(t *testing.T) {
	eventService := events.NewService(arbor.NewLogger())
	svc := NewService(reminderConfig(17, 0), eventService, arbor.NewLogger())

	// Cron can drift a few seconds into the minute; the match is on
	// hour/minute only.
	assert.True(t, svc.check(time.Date(2024, 1, 1, 17, 0, 42, 0, time.Local)))
}

func TestStartStopLifecycle(t *testing.T) {
	eventService := events.NewService(arbor.NewLogger())
	svc := NewService(reminderConfig(17, 0), eventService, arbor.NewLogger())

	require.NoError(t, svc.Start())
	assert.True(t, svc.IsRunning())

	// Double start is rejected.
	assert.Error(t, svc.Start())

	require.NoError(t, svc.Stop())
	assert.False(t, svc.IsRunning())

	// Stop when already stopped is a no-op.
	require.NoError(t, svc.Stop())
}

func TestStartWhenDisabled(t *testing.T) {
	eventService := events.NewService(arbor.NewLogger())
	svc := NewService(common.ReminderConfig{Enabled: false, Hour: 17, Minute: 0}, eventService, arbor.NewLogger())

	require.NoError(t, svc.Start())
	assert.False(t, svc.IsRunning())
}
