// Package issue defines the issue entity, the unit of work tracked by
// TeamFlow.
package issue

import "time"

// Defaults applied when the corresponding field is absent on create.
const (
	DefaultStatus     = "To Do"
	DefaultPriority   = "Medium"
	DefaultLinkType   = "blocks"
	AutomaticAssignee = "Automatic"
)

// Issue is one trackable unit of work belonging to a project.
//
// Assignee holds a user id rendered as text, or the sentinel "Automatic" when
// no one has been picked. LinkedIssue references another issue when the issue
// participates in a link relation.
type Issue struct {
	ID              int64     `json:"id"`
	Project         int64     `json:"project"`
	IssueType       string    `json:"issueType"`
	Status          string    `json:"status"`
	Summary         string    `json:"summary"`
	Description     string    `json:"description"`
	Priority        string    `json:"priority"`
	Team            string    `json:"team"`
	Labels          string    `json:"labels"`
	Sprint          string    `json:"sprint"`
	LinkedIssueType string    `json:"linkedIssueType"`
	LinkedIssue     *int64    `json:"linkedIssue,omitempty"`
	Assignee        string    `json:"assignee"`
	Attachment      string    `json:"attachment,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Patch carries a partial update. Nil fields are left untouched; Attachment
// is only set when a new file accompanied the request.
type Patch struct {
	Project         *int64
	IssueType       *string
	Status          *string
	Summary         *string
	Description     *string
	Priority        *string
	Team            *string
	Labels          *string
	Sprint          *string
	LinkedIssueType *string
	LinkedIssue     *int64
	Assignee        *string
	Attachment      *string
}

// ProjectIssue is an issue joined with display context from its project.
type ProjectIssue struct {
	Issue
	ProjectName        string `json:"projectName"`
	ProjectDescription string `json:"projectDescription"`
}
