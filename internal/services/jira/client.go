package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/tempo/internal/httpclient"
	"github.com/ternarybob/tempo/internal/models"
)

const (
	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 10

	// assignedIssuesJQL selects issues assigned to the authenticated user.
	assignedIssuesJQL = "assignee=currentUser()"

	// assignedIssuesFields limits the search payload to what the UI shows.
	assignedIssuesFields = "summary,status,assignee"
)

// Client is a Jira Cloud REST API client bound to one set of credentials.
// Credentials and transport are set at construction and never mutated, so
// a single client can serve concurrent callers without locking.
type Client struct {
	creds      models.Credentials
	baseURL    string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout on the default client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithInsecureTLS replaces the transport with one that skips certificate
// verification. Opt-in only, for corporate endpoints with broken chains.
func WithInsecureTLS() ClientOption {
	return func(c *Client) {
		timeout := c.httpClient.Timeout
		c.httpClient = httpclient.NewInsecureHTTPClient(timeout)
	}
}

// NewClient creates a new Jira API client.
func NewClient(creds models.Credentials, opts ...ClientOption) *Client {
	c := &Client{
		creds:      creds,
		baseURL:    strings.TrimRight(creds.BaseURL, "/"),
		httpClient: httpclient.NewDefaultHTTPClient(DefaultTimeout),
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Credentials returns the credentials the client was constructed with.
func (c *Client) Credentials() models.Credentials {
	return c.creds
}

// TestConnection probes GET /rest/api/3/myself. Returns true iff the
// response status is in the 2xx range. Transport failures propagate as
// errors so callers can tell "wrong credentials" from "no network".
func (c *Client) TestConnection(ctx context.Context) (bool, error) {
	resp, err := c.do(ctx, http.MethodGet, "/rest/api/3/myself", nil, nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	success := resp.StatusCode >= 200 && resp.StatusCode < 300

	if c.logger != nil {
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Bool("connected", success).
			Msg("Jira connection probe")
	}

	return success, nil
}

// GetAssignedIssues returns the first page of issues assigned to the
// current user. Pagination fields from the search response are not
// followed - the companion UI only shows the first page.
func (c *Client) GetAssignedIssues(ctx context.Context) ([]models.Issue, error) {
	params := url.Values{}
	params.Set("jql", assignedIssuesJQL)
	params.Set("fields", assignedIssuesFields)

	var result models.SearchResult
	if err := c.getJSON(ctx, "/rest/api/3/search", params, &result); err != nil {
		return nil, err
	}

	if c.logger != nil {
		c.logger.Debug().
			Int("issues", len(result.Issues)).
			Int("total", result.Total).
			Msg("Fetched assigned issues")
	}

	return result.Issues, nil
}

// CreateWorklog files a worklog entry against an issue. The description is
// wrapped as a single-paragraph ADF document.
func (c *Client) CreateWorklog(ctx context.Context, issueKey, description, started string, timeSpentSeconds int, visibility *models.WorklogVisibility) (*models.WorklogResponse, error) {
	path := fmt.Sprintf("/rest/api/3/issue/%s/worklog", url.PathEscape(issueKey))

	request := models.WorklogRequest{
		Comment:          models.NewWorklogComment(description),
		Started:          started,
		TimeSpentSeconds: timeSpentSeconds,
		Visibility:       visibility,
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal worklog request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.remoteError(resp, path)
	}

	var worklog models.WorklogResponse
	if err := json.NewDecoder(resp.Body).Decode(&worklog); err != nil {
		return nil, &DecodeError{Endpoint: path, Err: err}
	}

	if c.logger != nil {
		c.logger.Info().
			Str("issue", issueKey).
			Str("worklog_id", worklog.ID).
			Int("seconds", timeSpentSeconds).
			Msg("Worklog created")
	}

	return &worklog, nil
}

// getJSON performs a GET request and decodes a JSON response.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, result interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.remoteError(resp, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &DecodeError{Endpoint: path, Err: err}
	}

	return nil
}

// do builds and executes an authenticated request against the Jira API.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body io.Reader) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(c.creds.Email, c.creds.APIToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("method", method).
			Str("path", path).
			Msg("Jira API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	return resp, nil
}

// remoteError drains the response body into a RemoteError.
func (c *Client) remoteError(resp *http.Response, path string) error {
	body, _ := io.ReadAll(resp.Body)

	if c.logger != nil {
		c.logger.Error().
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msg("Jira API request failed")
	}

	return &RemoteError{
		StatusCode: resp.StatusCode,
		Endpoint:   path,
		Message:    strings.TrimSpace(string(body)),
	}
}
