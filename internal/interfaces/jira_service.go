package interfaces

import (
	"context"

	"github.com/ternarybob/tempo/internal/models"
)

// JiraService is the contract for an authenticated Jira REST client.
// Implementations are safe for concurrent use; callers may run requests
// in parallel against the same client.
type JiraService interface {
	// TestConnection probes the "current user" endpoint. Returns true iff
	// the response status is 2xx. Transport-level failures are returned as
	// errors, not folded into false.
	TestConnection(ctx context.Context) (bool, error)

	// GetAssignedIssues returns the first page of issues assigned to the
	// authenticated user.
	GetAssignedIssues(ctx context.Context) ([]models.Issue, error)

	// CreateWorklog files a worklog entry against an issue. The description
	// is wrapped in an ADF comment document.
	CreateWorklog(ctx context.Context, issueKey, description, started string, timeSpentSeconds int, visibility *models.WorklogVisibility) (*models.WorklogResponse, error)

	// Credentials returns the credentials the client was constructed with.
	Credentials() models.Credentials
}
