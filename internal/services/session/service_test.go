package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tempo/internal/interfaces"
	"github.com/ternarybob/tempo/internal/models"
)

// fakeClient implements interfaces.JiraService for session tests.
type fakeClient struct {
	creds     models.Credentials
	connected bool
	probeErr  error
}

func (f *fakeClient) TestConnection(ctx context.Context) (bool, error) {
	return f.connected, f.probeErr
}

func (f *fakeClient) GetAssignedIssues(ctx context.Context) ([]models.Issue, error) {
	return nil, nil
}

func (f *fakeClient) CreateWorklog(ctx context.Context, issueKey, description, started string, timeSpentSeconds int, visibility *models.WorklogVisibility) (*models.WorklogResponse, error) {
	return &models.WorklogResponse{}, nil
}

func (f *fakeClient) Credentials() models.Credentials {
	return f.creds
}

func newTestService(connected bool, probeErr error) *Service {
	factory := func(creds models.Credentials) interfaces.JiraService {
		return &fakeClient{creds: creds, connected: connected, probeErr: probeErr}
	}
	return NewService(factory, nil, arbor.NewLogger())
}

func testCreds() models.Credentials {
	return models.Credentials{
		BaseURL:  "https://example.atlassian.net",
		Email:    "dev@example.com",
		APIToken: "token",
	}
}

func TestConnectInstallsSession(t *testing.T) {
	svc := newTestService(true, nil)

	require.NoError(t, svc.Connect(context.Background(), testCreds()))

	client, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, "https://example.atlassian.net", client.Credentials().BaseURL)
	assert.True(t, svc.IsAuthenticated())
}

func TestConnectRejectedProbe(t *testing.T) {
	svc := newTestService(false, nil)

	err := svc.Connect(context.Background(), testCreds())
	require.ErrorIs(t, err, ErrConnectionFailed)

	_, ok := svc.Current()
	assert.False(t, ok)
	assert.False(t, svc.IsAuthenticated())
}

func TestConnectProbeErrorSurfaces(t *testing.T) {
	probeErr := errors.New("dial tcp: connection refused")
	svc := newTestService(false, probeErr)

	err := svc.Connect(context.Background(), testCreds())
	require.ErrorIs(t, err, probeErr)

	_, ok := svc.Current()
	assert.False(t, ok)
}

func TestFailedConnectKeepsPriorSession(t *testing.T) {
	calls := 0
	factory := func(creds models.Credentials) interfaces.JiraService {
		calls++
		// First connect succeeds, second probe is rejected.
		return &fakeClient{creds: creds, connected: calls == 1}
	}
	svc := NewService(factory, nil, arbor.NewLogger())

	first := testCreds()
	require.NoError(t, svc.Connect(context.Background(), first))

	second := testCreds()
	second.BaseURL = "https://other.atlassian.net"
	require.ErrorIs(t, svc.Connect(context.Background(), second), ErrConnectionFailed)

	client, ok := svc.Current()
	require.True(t, ok, "prior session must survive a failed connect")
	assert.Equal(t, first.BaseURL, client.Credentials().BaseURL)
}

func TestReconnectReplacesSession(t *testing.T) {
	svc := newTestService(true, nil)

	require.NoError(t, svc.Connect(context.Background(), testCreds()))

	second := testCreds()
	second.BaseURL = "https://other.atlassian.net"
	require.NoError(t, svc.Connect(context.Background(), second))

	client, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, "https://other.atlassian.net", client.Credentials().BaseURL)
}

func TestDisconnectIsIdempotent(t *testing.T) {
	svc := newTestService(true, nil)

	require.NoError(t, svc.Connect(context.Background(), testCreds()))

	svc.Disconnect()
	_, ok := svc.Current()
	assert.False(t, ok)

	// Second disconnect must also succeed and leave the session empty.
	svc.Disconnect()
	_, ok = svc.Current()
	assert.False(t, ok)
	assert.False(t, svc.IsAuthenticated())
}

func TestCurrentOnEmptySession(t *testing.T) {
	svc := newTestService(true, nil)

	client, ok := svc.Current()
	assert.False(t, ok)
	assert.Nil(t, client)
}
