package models

// Credentials identifies a Jira Cloud instance and the API token used to
// authenticate against it. Credentials are held in process memory for the
// lifetime of a session and are never persisted.
type Credentials struct {
	BaseURL  string `json:"base_url"`
	Email    string `json:"email"`
	APIToken string `json:"api_token"`
}

// Issue is a read-only projection of a Jira issue as returned by the
// search endpoint.
type Issue struct {
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

type IssueFields struct {
	Summary  string         `json:"summary"`
	Status   IssueStatus    `json:"status"`
	Assignee *IssueAssignee `json:"assignee,omitempty"`
}

type IssueStatus struct {
	Name string `json:"name"`
}

type IssueAssignee struct {
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// SearchResult is the first page of a Jira issue search. Pagination fields
// are surfaced but not auto-paged.
type SearchResult struct {
	Issues     []Issue `json:"issues"`
	Total      int     `json:"total"`
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
}

// WorklogComment is an Atlassian Document Format (ADF) document. Worklog
// comments use a fixed three-level shape: doc -> paragraph -> text,
// version 1.
type WorklogComment struct {
	Type    string             `json:"type"`
	Version int                `json:"version"`
	Content []WorklogParagraph `json:"content"`
}

type WorklogParagraph struct {
	Type    string        `json:"type"`
	Content []WorklogText `json:"content"`
}

type WorklogText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewWorklogComment wraps plain text in the ADF document shape Jira
// expects for worklog comments.
func NewWorklogComment(text string) WorklogComment {
	return WorklogComment{
		Type:    "doc",
		Version: 1,
		Content: []WorklogParagraph{
			{
				Type: "paragraph",
				Content: []WorklogText{
					{
						Type: "text",
						Text: text,
					},
				},
			},
		},
	}
}

// WorklogVisibility restricts who can see a worklog entry.
type WorklogVisibility struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// WorklogRequest is the outbound body for worklog creation.
type WorklogRequest struct {
	Comment          WorklogComment     `json:"comment"`
	Started          string             `json:"started"`
	TimeSpentSeconds int                `json:"timeSpentSeconds"`
	Visibility       *WorklogVisibility `json:"visibility,omitempty"`
}

// WorklogResponse is the inbound body returned after worklog creation.
type WorklogResponse struct {
	ID               string `json:"id"`
	IssueID          string `json:"issueId"`
	Started          string `json:"started"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
}
