// Package memory provides an in-memory implementation of the storage
// interfaces. It is safe for concurrent use and is primarily intended for
// tests and local development.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/beedatatech/teamflow/internal/app/domain/chat"
	"github.com/beedatatech/teamflow/internal/app/domain/issue"
	"github.com/beedatatech/teamflow/internal/app/domain/project"
	"github.com/beedatatech/teamflow/internal/app/domain/report"
	"github.com/beedatatech/teamflow/internal/app/domain/team"
	"github.com/beedatatech/teamflow/internal/app/domain/user"
	"github.com/beedatatech/teamflow/internal/app/storage"
)

// Store is an in-memory implementation of the storage interfaces.
type Store struct {
	mu       sync.RWMutex
	nextID   int64
	issues   map[int64]issue.Issue
	users    map[int64]user.User
	projects map[int64]project.Project
	teams    map[int64]team.Team
	messages map[int64]chat.Message
	reports  map[int64]report.Report
}

var _ storage.IssueStore = (*Store)(nil)
var _ storage.UserStore = (*Store)(nil)
var _ storage.ProjectStore = (*Store)(nil)
var _ storage.TeamStore = (*Store)(nil)
var _ storage.ChatStore = (*Store)(nil)
var _ storage.ReportStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID:   1,
		issues:   make(map[int64]issue.Issue),
		users:    make(map[int64]user.User),
		projects: make(map[int64]project.Project),
		teams:    make(map[int64]team.Team),
		messages: make(map[int64]chat.Message),
		reports:  make(map[int64]report.Report),
	}
}

func (s *Store) allocate() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// --- IssueStore -------------------------------------------------------------

func (s *Store) CreateIssue(_ context.Context, is issue.Issue) (issue.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	is.ID = s.allocate()
	is.CreatedAt = now
	is.UpdatedAt = now
	s.issues[is.ID] = is
	return is, nil
}

func (s *Store) UpdateIssue(_ context.Context, is issue.Issue, replaceAttachment bool) (issue.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.issues[is.ID]
	if !ok {
		return issue.Issue{}, storage.ErrNotFound
	}
	if !replaceAttachment {
		is.Attachment = existing.Attachment
	}
	is.CreatedAt = existing.CreatedAt
	is.UpdatedAt = time.Now().UTC()
	s.issues[is.ID] = is
	return is, nil
}

func (s *Store) GetIssue(_ context.Context, id int64) (issue.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	is, ok := s.issues[id]
	if !ok {
		return issue.Issue{}, storage.ErrNotFound
	}
	return is, nil
}

func (s *Store) ListIssues(_ context.Context) ([]issue.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []issue.Issue
	for _, is := range s.issues {
		result = append(result, is)
	}
	sortIssuesNewestFirst(result)
	return result, nil
}

func (s *Store) ListProjectIssues(_ context.Context, projectID int64) ([]issue.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []issue.Issue
	for _, is := range s.issues {
		if is.Project == projectID {
			result = append(result, is)
		}
	}
	sortIssuesNewestFirst(result)
	return result, nil
}

func (s *Store) ListProjectIssuesDetailed(ctx context.Context, projectID int64) ([]issue.ProjectIssue, error) {
	issues, err := s.ListProjectIssues(ctx, projectID)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	p, ok := s.projects[projectID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	result := make([]issue.ProjectIssue, 0, len(issues))
	for _, is := range issues {
		result = append(result, issue.ProjectIssue{
			Issue:              is,
			ProjectName:        p.Name,
			ProjectDescription: p.Description,
		})
	}
	return result, nil
}

func (s *Store) DeleteIssue(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.issues[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.issues, id)
	return nil
}

func (s *Store) LatestIssueSummary(_ context.Context, assignee string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		found  bool
		latest issue.Issue
	)
	for _, is := range s.issues {
		if is.Assignee != assignee {
			continue
		}
		if !found || is.CreatedAt.After(latest.CreatedAt) ||
			(is.CreatedAt.Equal(latest.CreatedAt) && is.ID > latest.ID) {
			latest = is
			found = true
		}
	}
	if !found {
		return "", storage.ErrNotFound
	}
	return latest.Summary, nil
}

func sortIssuesNewestFirst(issues []issue.Issue) {
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].CreatedAt.Equal(issues[j].CreatedAt) {
			return issues[i].ID > issues[j].ID
		}
		return issues[i].CreatedAt.After(issues[j].CreatedAt)
	})
}

// --- UserStore --------------------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return user.User{}, &duplicateEmailError{email: u.Email}
		}
	}

	u.ID = s.allocate()
	u.CreatedAt = time.Now().UTC()
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, storage.ErrNotFound
}

func (s *Store) ListUsers(_ context.Context) ([]user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []user.User
	for _, u := range s.users {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) UpdateUserProfile(_ context.Context, id int64, fullName, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.FullName = fullName
	if passwordHash != "" {
		u.Password = passwordHash
	}
	s.users[id] = u
	return nil
}

func (s *Store) UpdateUserRole(_ context.Context, id int64, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.Role = role
	s.users[id] = u
	return nil
}

type duplicateEmailError struct {
	email string
}

func (e *duplicateEmailError) Error() string {
	return "duplicate email: " + e.email
}

// --- ProjectStore -----------------------------------------------------------

func (s *Store) CreateProject(_ context.Context, p project.Project) (project.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.allocate()
	p.CreatedAt = time.Now().UTC()
	s.projects[p.ID] = p
	return p, nil
}

func (s *Store) GetProject(_ context.Context, id int64) (project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return project.Project{}, storage.ErrNotFound
	}
	if lead, ok := s.users[p.Lead]; ok {
		p.LeadName = lead.FullName
	}
	return p, nil
}

func (s *Store) ListProjects(_ context.Context) ([]project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []project.Project
	for _, p := range s.projects {
		if lead, ok := s.users[p.Lead]; ok {
			p.LeadName = lead.FullName
		}
		result = append(result, p)
	}
	sortProjectsNewestFirst(result)
	return result, nil
}

func (s *Store) ListUserProjects(_ context.Context, userID int64) ([]project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assignee := strconv.FormatInt(userID, 10)
	seen := make(map[int64]bool)
	var result []project.Project
	for _, is := range s.issues {
		if is.Assignee != assignee || seen[is.Project] {
			continue
		}
		p, ok := s.projects[is.Project]
		if !ok {
			continue
		}
		if lead, ok := s.users[p.Lead]; ok {
			p.LeadName = lead.FullName
		}
		seen[is.Project] = true
		result = append(result, p)
	}
	sortProjectsNewestFirst(result)
	return result, nil
}

func (s *Store) ListProjectMembers(_ context.Context, projectID int64) ([]user.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int64]bool)
	var result []user.Member
	for _, is := range s.issues {
		if is.Project != projectID {
			continue
		}
		id, err := strconv.ParseInt(is.Assignee, 10, 64)
		if err != nil || seen[id] {
			continue
		}
		u, ok := s.users[id]
		if !ok {
			continue
		}
		seen[id] = true
		result = append(result, user.Member{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func sortProjectsNewestFirst(projects []project.Project) {
	sort.Slice(projects, func(i, j int) bool {
		if projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].ID > projects[j].ID
		}
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
}

// --- TeamStore --------------------------------------------------------------

func (s *Store) CreateTeam(_ context.Context, t team.Team) (team.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.allocate()
	t.CreatedAt = time.Now().UTC()
	s.teams[t.ID] = t
	return t, nil
}

func (s *Store) ListTeams(_ context.Context) ([]team.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []team.Team
	for _, t := range s.teams {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// --- ChatStore --------------------------------------------------------------

func (s *Store) CreateMessage(_ context.Context, m chat.Message) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = s.allocate()
	m.CreatedAt = time.Now().UTC()
	s.messages[m.ID] = m
	return m, nil
}

func (s *Store) ListProjectMessages(_ context.Context, projectID int64) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []chat.Message
	for _, m := range s.messages {
		if m.ProjectID != projectID {
			continue
		}
		if sender, ok := s.users[m.SenderID]; ok {
			m.SenderName = sender.FullName
		}
		result = append(result, m)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Store) DeleteMessage(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.messages[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.messages, id)
	return nil
}

// --- ReportStore ------------------------------------------------------------

func (s *Store) CreateReport(_ context.Context, r report.Report) (report.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = s.allocate()
	r.CreatedAt = time.Now().UTC()
	s.reports[r.ID] = r
	return r, nil
}

func (s *Store) ListReports(_ context.Context) ([]report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []report.Report
	for _, r := range s.reports {
		if author, ok := s.users[r.UserID]; ok {
			r.AuthorName = author.FullName
		}
		result = append(result, r)
	}
	sortReportsNewestFirst(result)
	return result, nil
}

func (s *Store) ListUserReports(_ context.Context, userID int64) ([]report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []report.Report
	for _, r := range s.reports {
		if r.UserID == userID {
			result = append(result, r)
		}
	}
	sortReportsNewestFirst(result)
	return result, nil
}

func sortReportsNewestFirst(reports []report.Report) {
	sort.Slice(reports, func(i, j int) bool {
		if reports[i].CreatedAt.Equal(reports[j].CreatedAt) {
			return reports[i].ID > reports[j].ID
		}
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
}
