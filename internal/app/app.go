package app

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tempo/internal/common"
	"github.com/ternarybob/tempo/internal/handlers"
	"github.com/ternarybob/tempo/internal/interfaces"
	"github.com/ternarybob/tempo/internal/models"
	"github.com/ternarybob/tempo/internal/services/events"
	"github.com/ternarybob/tempo/internal/services/jira"
	"github.com/ternarybob/tempo/internal/services/scheduler"
	"github.com/ternarybob/tempo/internal/services/session"
)

// App is the composition root. It owns the session cell and every service,
// so nothing in the program reaches for process-global state.
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	EventService    interfaces.EventService
	SessionService  interfaces.SessionService
	ReminderService interfaces.ReminderService

	SessionHandler *handlers.SessionHandler
	IssueHandler   *handlers.IssueHandler
	WorklogHandler *handlers.WorklogHandler
	APIHandler     *handlers.APIHandler
	WSHandler      *handlers.WebSocketHandler
}

// New wires all services and handlers from configuration.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	eventService := events.NewService(logger)

	// Every session client is built with the same transport policy; the
	// credentials vary per connect.
	clientFactory := func(creds models.Credentials) interfaces.JiraService {
		opts := []jira.ClientOption{
			jira.WithLogger(logger),
			jira.WithTimeout(config.RequestTimeoutDuration()),
			jira.WithRateLimit(config.Jira.RateLimit),
		}
		if config.Jira.InsecureTLS {
			logger.Warn().Msg("TLS certificate verification disabled for Jira requests (insecure_tls = true)")
			opts = append(opts, jira.WithInsecureTLS())
		}
		return jira.NewClient(creds, opts...)
	}

	sessionService := session.NewService(clientFactory, eventService, logger)
	reminderService := scheduler.NewService(config.Reminder, eventService, logger)

	app := &App{
		Config:          config,
		Logger:          logger,
		EventService:    eventService,
		SessionService:  sessionService,
		ReminderService: reminderService,
		SessionHandler:  handlers.NewSessionHandler(sessionService, logger),
		IssueHandler:    handlers.NewIssueHandler(sessionService, logger),
		WorklogHandler:  handlers.NewWorklogHandler(sessionService, eventService, logger),
		APIHandler:      handlers.NewAPIHandler(sessionService, reminderService, logger),
		WSHandler:       handlers.NewWebSocketHandler(eventService, logger),
	}

	if err := reminderService.Start(); err != nil {
		return nil, err
	}

	return app, nil
}

// Close releases application resources.
func (a *App) Close() {
	if err := a.ReminderService.Stop(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to stop reminder scheduler")
	}
	a.SessionService.Disconnect()
	a.EventService.Close()
}
