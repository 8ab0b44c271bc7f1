// Package issues implements the issue lifecycle: create with defaults,
// partial update, listing, deletion and the derived latest-status query.
package issues

import (
	"context"
	"strconv"
	"strings"

	"github.com/beedatatech/teamflow/internal/app/domain/issue"
	"github.com/beedatatech/teamflow/internal/app/services"
	"github.com/beedatatech/teamflow/internal/app/storage"
	"github.com/beedatatech/teamflow/pkg/logger"
)

// Service manages issues.
type Service struct {
	store storage.IssueStore
	log   *logger.Logger
}

// New constructs an issue service.
func New(store storage.IssueStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("issues")
	}
	return &Service{store: store, log: log}
}

// Create inserts a new issue. Empty status, priority, linked issue type and
// assignee receive their defaults. Project and assignee references are taken
// as given; their existence is not verified here.
func (s *Service) Create(ctx context.Context, is issue.Issue) (issue.Issue, error) {
	if is.Project == 0 {
		return issue.Issue{}, services.Invalidf("project is required")
	}
	if strings.TrimSpace(is.Summary) == "" {
		return issue.Issue{}, services.Invalidf("summary is required")
	}

	if strings.TrimSpace(is.Status) == "" {
		is.Status = issue.DefaultStatus
	}
	if strings.TrimSpace(is.Priority) == "" {
		is.Priority = issue.DefaultPriority
	}
	if strings.TrimSpace(is.LinkedIssueType) == "" {
		is.LinkedIssueType = issue.DefaultLinkType
	}
	if strings.TrimSpace(is.Assignee) == "" {
		is.Assignee = issue.AutomaticAssignee
	}

	created, err := s.store.CreateIssue(ctx, is)
	if err != nil {
		return issue.Issue{}, err
	}
	s.log.WithField("issue_id", created.ID).
		WithField("project", created.Project).
		WithField("assignee", created.Assignee).
		Info("issue created")
	return created, nil
}

// Update applies a partial update: only fields present in the patch replace
// the stored values, and the attachment is only rewritten when the patch
// carries a new one.
func (s *Service) Update(ctx context.Context, id int64, patch issue.Patch) (issue.Issue, error) {
	existing, err := s.store.GetIssue(ctx, id)
	if err != nil {
		return issue.Issue{}, err
	}

	if patch.Project != nil {
		existing.Project = *patch.Project
	}
	if patch.IssueType != nil {
		existing.IssueType = *patch.IssueType
	}
	if patch.Status != nil {
		existing.Status = *patch.Status
	}
	if patch.Summary != nil {
		existing.Summary = *patch.Summary
	}
	if patch.Description != nil {
		existing.Description = *patch.Description
	}
	if patch.Priority != nil {
		existing.Priority = *patch.Priority
	}
	if patch.Team != nil {
		existing.Team = *patch.Team
	}
	if patch.Labels != nil {
		existing.Labels = *patch.Labels
	}
	if patch.Sprint != nil {
		existing.Sprint = *patch.Sprint
	}
	if patch.LinkedIssueType != nil {
		existing.LinkedIssueType = *patch.LinkedIssueType
	}
	if patch.LinkedIssue != nil {
		existing.LinkedIssue = patch.LinkedIssue
	}
	if patch.Assignee != nil {
		existing.Assignee = *patch.Assignee
	}

	replaceAttachment := patch.Attachment != nil
	if replaceAttachment {
		existing.Attachment = *patch.Attachment
	}

	updated, err := s.store.UpdateIssue(ctx, existing, replaceAttachment)
	if err != nil {
		return issue.Issue{}, err
	}
	s.log.WithField("issue_id", updated.ID).Info("issue updated")
	return updated, nil
}

// Get returns one issue by id.
func (s *Service) Get(ctx context.Context, id int64) (issue.Issue, error) {
	return s.store.GetIssue(ctx, id)
}

// List returns all issues, newest first.
func (s *Service) List(ctx context.Context) ([]issue.Issue, error) {
	return s.store.ListIssues(ctx)
}

// ListByProject returns the issues of one project, newest first.
func (s *Service) ListByProject(ctx context.Context, projectID int64) ([]issue.Issue, error) {
	return s.store.ListProjectIssues(ctx, projectID)
}

// ListByProjectDetailed returns the issues of one project together with the
// project name and description for display contexts.
func (s *Service) ListByProjectDetailed(ctx context.Context, projectID int64) ([]issue.ProjectIssue, error) {
	return s.store.ListProjectIssuesDetailed(ctx, projectID)
}

// Delete removes an issue by id. There is no cascade: links from other
// issues are left dangling.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteIssue(ctx, id); err != nil {
		return err
	}
	s.log.WithField("issue_id", id).Info("issue deleted")
	return nil
}

// LatestStatus returns the summary of the most recently created issue
// assigned to the given user. The result is recomputed on every call.
func (s *Service) LatestStatus(ctx context.Context, userID int64) (string, error) {
	return s.store.LatestIssueSummary(ctx, strconv.FormatInt(userID, 10))
}
