// Package storage declares the persistence interfaces consumed by the
// TeamFlow services. Implementations live in the memory and postgres
// subpackages.
package storage

import (
	"context"
	"errors"

	"github.com/beedatatech/teamflow/internal/app/domain/chat"
	"github.com/beedatatech/teamflow/internal/app/domain/issue"
	"github.com/beedatatech/teamflow/internal/app/domain/project"
	"github.com/beedatatech/teamflow/internal/app/domain/report"
	"github.com/beedatatech/teamflow/internal/app/domain/team"
	"github.com/beedatatech/teamflow/internal/app/domain/user"
)

// ErrNotFound is returned when an id does not resolve to a stored row, or a
// write affected zero rows.
var ErrNotFound = errors.New("not found")

// IssueStore persists issues.
type IssueStore interface {
	CreateIssue(ctx context.Context, is issue.Issue) (issue.Issue, error)
	// UpdateIssue rewrites the row from is; the attachment column is only
	// included when replaceAttachment is set.
	UpdateIssue(ctx context.Context, is issue.Issue, replaceAttachment bool) (issue.Issue, error)
	GetIssue(ctx context.Context, id int64) (issue.Issue, error)
	ListIssues(ctx context.Context) ([]issue.Issue, error)
	ListProjectIssues(ctx context.Context, projectID int64) ([]issue.Issue, error)
	ListProjectIssuesDetailed(ctx context.Context, projectID int64) ([]issue.ProjectIssue, error)
	DeleteIssue(ctx context.Context, id int64) error
	// LatestIssueSummary returns the summary of the most recently created
	// issue assigned to the given assignee.
	LatestIssueSummary(ctx context.Context, assignee string) (string, error)
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, id int64) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	ListUsers(ctx context.Context) ([]user.User, error)
	UpdateUserProfile(ctx context.Context, id int64, fullName, passwordHash string) error
	UpdateUserRole(ctx context.Context, id int64, role string) error
}

// ProjectStore persists projects.
type ProjectStore interface {
	CreateProject(ctx context.Context, p project.Project) (project.Project, error)
	GetProject(ctx context.Context, id int64) (project.Project, error)
	ListProjects(ctx context.Context) ([]project.Project, error)
	// ListUserProjects returns the projects in which the user appears as an
	// issue assignee.
	ListUserProjects(ctx context.Context, userID int64) ([]project.Project, error)
	// ListProjectMembers returns the distinct users assigned to issues of
	// the project.
	ListProjectMembers(ctx context.Context, projectID int64) ([]user.Member, error)
}

// TeamStore persists teams.
type TeamStore interface {
	CreateTeam(ctx context.Context, t team.Team) (team.Team, error)
	ListTeams(ctx context.Context) ([]team.Team, error)
}

// ChatStore persists project chat messages.
type ChatStore interface {
	CreateMessage(ctx context.Context, m chat.Message) (chat.Message, error)
	ListProjectMessages(ctx context.Context, projectID int64) ([]chat.Message, error)
	DeleteMessage(ctx context.Context, id int64) error
}

// ReportStore persists work reports.
type ReportStore interface {
	CreateReport(ctx context.Context, r report.Report) (report.Report, error)
	ListReports(ctx context.Context) ([]report.Report, error)
	ListUserReports(ctx context.Context, userID int64) ([]report.Report, error)
}
