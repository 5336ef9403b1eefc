package interfaces

import (
	"context"

	"github.com/ternarybob/tempo/internal/models"
)

// SessionService holds at most one authenticated Jira client for the
// lifetime of the process. Replacing or clearing the session performs no
// remote logout.
type SessionService interface {
	// Connect builds a client from the credentials, probes the connection,
	// and installs the client on success. A failed probe leaves any prior
	// session untouched.
	Connect(ctx context.Context, creds models.Credentials) error

	// Current returns the active client. The second return is false when
	// no session is connected.
	Current() (JiraService, bool)

	// Disconnect clears the session unconditionally. Idempotent.
	Disconnect()

	// IsAuthenticated reports whether a session is currently connected.
	IsAuthenticated() bool
}
