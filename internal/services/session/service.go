package session

import (
	"context"
	"errors"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tempo/internal/interfaces"
	"github.com/ternarybob/tempo/internal/models"
)

// ErrNotConnected is returned by callers that need an active session when
// none exists.
var ErrNotConnected = errors.New("not connected to Jira")

// ErrConnectionFailed is returned when the connection probe reaches Jira
// but the credentials are rejected.
var ErrConnectionFailed = errors.New("failed to connect to Jira")

// ClientFactory builds a Jira client from credentials. Injected so tests
// can substitute a fake client.
type ClientFactory func(creds models.Credentials) interfaces.JiraService

// Service holds at most one authenticated Jira client. The mutex guards
// only the cell itself - it is never held across network I/O, so
// concurrent borrowers run their requests in parallel.
type Service struct {
	mu           sync.Mutex
	client       interfaces.JiraService
	newClient    ClientFactory
	eventService interfaces.EventService
	logger       arbor.ILogger
}

// NewService creates a new session service.
func NewService(newClient ClientFactory, eventService interfaces.EventService, logger arbor.ILogger) *Service {
	return &Service{
		newClient:    newClient,
		eventService: eventService,
		logger:       logger,
	}
}

// Connect builds a client from the credentials and probes the connection.
// The client is installed only when the probe succeeds; on a rejected
// probe or a transport error any prior session is left untouched.
func (s *Service) Connect(ctx context.Context, creds models.Credentials) error {
	client := s.newClient(creds)

	connected, err := client.TestConnection(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Str("base_url", creds.BaseURL).Msg("Jira connection probe failed")
		return err
	}
	if !connected {
		s.logger.Warn().Str("base_url", creds.BaseURL).Msg("Jira rejected credentials")
		return ErrConnectionFailed
	}

	s.mu.Lock()
	s.client = client
	s.mu.Unlock()

	s.logger.Info().
		Str("base_url", creds.BaseURL).
		Str("email", creds.Email).
		Msg("Jira session connected")

	if s.eventService != nil {
		s.eventService.Publish(ctx, interfaces.Event{
			Type:    interfaces.EventSessionConnected,
			Payload: map[string]string{"base_url": creds.BaseURL},
		})
	}

	return nil
}

// Current returns the active client. The lock covers only the cell read;
// callers perform network I/O on the returned client without holding it.
func (s *Service) Current() (interfaces.JiraService, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil, false
	}
	return s.client, true
}

// Disconnect clears the session unconditionally. Idempotent; no remote
// logout is performed.
func (s *Service) Disconnect() {
	s.mu.Lock()
	hadSession := s.client != nil
	s.client = nil
	s.mu.Unlock()

	if hadSession {
		s.logger.Info().Msg("Jira session disconnected")
		if s.eventService != nil {
			s.eventService.Publish(context.Background(), interfaces.Event{
				Type: interfaces.EventSessionDisconnected,
			})
		}
	}
}

// IsAuthenticated reports whether a session is currently connected.
func (s *Service) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client != nil
}
