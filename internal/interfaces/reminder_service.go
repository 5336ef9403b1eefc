package interfaces

// ReminderService runs the daily worklog reminder loop. It wakes once a
// minute and publishes EventReminderDue when local time matches the
// configured reminder time.
type ReminderService interface {
	// Start begins the minute tick. Returns an error if already running.
	Start() error

	// Stop halts the tick. Safe to call when not running.
	Stop() error

	// IsRunning reports whether the loop is active.
	IsRunning() bool
}
