package jira

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/tempo/internal/models"
)

func testCredentials(baseURL string) models.Credentials {
	return models.Credentials{
		BaseURL:  baseURL,
		Email:    "dev@example.com",
		APIToken: "token-123",
	}
}

func TestTestConnection(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		want       bool
	}{
		{"2xx is connected", http.StatusOK, true},
		{"204 is connected", http.StatusNoContent, true},
		{"401 is not connected", http.StatusUnauthorized, false},
		{"500 is not connected", http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/rest/api/3/myself", r.URL.Path)

				email, token, ok := r.BasicAuth()
				require.True(t, ok, "request must carry basic auth")
				assert.Equal(t, "dev@example.com", email)
				assert.Equal(t, "token-123", token)
				assert.Equal(t, "application/json", r.Header.Get("Accept"))

				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			client := NewClient(testCredentials(server.URL))

			connected, err := client.TestConnection(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, connected)
		})
	}
}

func TestTestConnectionTransportError(t *testing.T) {
	// Closed server: connection refused must surface as an error, not false.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(testCredentials(server.URL))

	_, err := client.TestConnection(context.Background())
	require.Error(t, err)
}

func TestGetAssignedIssues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/search", r.URL.Path)
		assert.Equal(t, "assignee=currentUser()", r.URL.Query().Get("jql"))
		assert.Equal(t, "summary,status,assignee", r.URL.Query().Get("fields"))

		json.NewEncoder(w).Encode(models.SearchResult{
			Issues: []models.Issue{
				{
					Key: "PROJ-1",
					Fields: models.IssueFields{
						Summary: "Fix the flaky test",
						Status:  models.IssueStatus{Name: "In Progress"},
						Assignee: &models.IssueAssignee{
							DisplayName:  "Dev One",
							EmailAddress: "dev@example.com",
						},
					},
				},
				{
					Key: "PROJ-2",
					Fields: models.IssueFields{
						Summary: "Unassigned status only",
						Status:  models.IssueStatus{Name: "To Do"},
					},
				},
			},
			Total:      2,
			StartAt:    0,
			MaxResults: 50,
		})
	}))
	defer server.Close()

	client := NewClient(testCredentials(server.URL))

	issues, err := client.GetAssignedIssues(context.Background())
	require.NoError(t, err)
	require.Len(t, issues, 2)

	assert.Equal(t, "PROJ-1", issues[0].Key)
	assert.Equal(t, "Fix the flaky test", issues[0].Fields.Summary)
	assert.Equal(t, "In Progress", issues[0].Fields.Status.Name)
	require.NotNil(t, issues[0].Fields.Assignee)
	assert.Equal(t, "Dev One", issues[0].Fields.Assignee.DisplayName)
	assert.Nil(t, issues[1].Fields.Assignee)
}

func TestGetAssignedIssuesRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"errorMessages":["Forbidden"]}`))
	}))
	defer server.Close()

	client := NewClient(testCredentials(server.URL))

	_, err := client.GetAssignedIssues(context.Background())
	require.Error(t, err)

	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusForbidden, remoteErr.StatusCode)
	assert.Equal(t, "/rest/api/3/search", remoteErr.Endpoint)
}

func TestGetAssignedIssuesDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"issues": not-json`))
	}))
	defer server.Close()

	client := NewClient(testCredentials(server.URL))

	_, err := client.GetAssignedIssues(context.Background())
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
}

func TestCreateWorklog(t *testing.T) {
	var captured models.WorklogRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/api/3/issue/PROJ-1/worklog", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.WorklogResponse{
			ID:               "10042",
			IssueID:          "10001",
			Started:          captured.Started,
			TimeSpentSeconds: captured.TimeSpentSeconds,
		})
	}))
	defer server.Close()

	client := NewClient(testCredentials(server.URL))

	worklog, err := client.CreateWorklog(context.Background(), "PROJ-1", "Fixed bug", "2024-01-01T09:00:00.000+0000", 7200, nil)
	require.NoError(t, err)

	assert.Equal(t, "10042", worklog.ID)
	assert.Equal(t, "10001", worklog.IssueID)
	assert.Equal(t, 7200, worklog.TimeSpentSeconds)

	// The comment must be the fixed doc -> paragraph -> text ADF shape.
	assert.Equal(t, "doc", captured.Comment.Type)
	assert.Equal(t, 1, captured.Comment.Version)
	require.Len(t, captured.Comment.Content, 1)
	assert.Equal(t, "paragraph", captured.Comment.Content[0].Type)
	require.Len(t, captured.Comment.Content[0].Content, 1)
	assert.Equal(t, "text", captured.Comment.Content[0].Content[0].Type)
	assert.Equal(t, "Fixed bug", captured.Comment.Content[0].Content[0].Text)
	assert.Equal(t, 7200, captured.TimeSpentSeconds)
	assert.Nil(t, captured.Visibility)
}

func TestCreateWorklogWithVisibility(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.WorklogRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		require.NotNil(t, req.Visibility)
		assert.Equal(t, "group", req.Visibility.Type)
		assert.Equal(t, "jira-developers", req.Visibility.Identifier)

		json.NewEncoder(w).Encode(models.WorklogResponse{ID: "1"})
	}))
	defer server.Close()

	client := NewClient(testCredentials(server.URL))

	_, err := client.CreateWorklog(context.Background(), "PROJ-1", "restricted", "2024-01-01T09:00:00.000+0000", 600,
		&models.WorklogVisibility{Type: "group", Identifier: "jira-developers"})
	require.NoError(t, err)
}

func TestCreateWorklogRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errorMessages":["Worklog must not be null"]}`))
	}))
	defer server.Close()

	client := NewClient(testCredentials(server.URL))

	_, err := client.CreateWorklog(context.Background(), "PROJ-1", "desc", "2024-01-01T09:00:00.000+0000", 600, nil)

	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusBadRequest, remoteErr.StatusCode)
}

// Two simultaneous issue fetches must run their HTTP requests in parallel:
// the handler blocks until both requests have arrived, so serialized calls
// would deadlock (bounded here by the test timeout).
func TestConcurrentGetAssignedIssues(t *testing.T) {
	arrivals := make(chan struct{}, 2)
	release := make(chan struct{})
	var once sync.Once

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		arrivals <- struct{}{}
		once.Do(func() {
			go func() {
				<-arrivals
				<-arrivals
				close(release)
			}()
		})

		select {
		case <-release:
		case <-time.After(5 * time.Second):
			t.Error("second concurrent request never arrived")
		}

		json.NewEncoder(w).Encode(models.SearchResult{Issues: []models.Issue{}})
	}))
	defer server.Close()

	client := NewClient(testCredentials(server.URL))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.GetAssignedIssues(context.Background())
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
}
