// Package postgres implements the storage interfaces backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/beedatatech/teamflow/internal/app/domain/chat"
	"github.com/beedatatech/teamflow/internal/app/domain/issue"
	"github.com/beedatatech/teamflow/internal/app/domain/project"
	"github.com/beedatatech/teamflow/internal/app/domain/report"
	"github.com/beedatatech/teamflow/internal/app/domain/team"
	"github.com/beedatatech/teamflow/internal/app/domain/user"
	"github.com/beedatatech/teamflow/internal/app/storage"
)

// Store implements the storage interfaces backed by PostgreSQL. Every
// operation is a single auto-committed statement; there are no
// cross-operation transactions.
type Store struct {
	db *sql.DB
}

var _ storage.IssueStore = (*Store)(nil)
var _ storage.UserStore = (*Store)(nil)
var _ storage.ProjectStore = (*Store)(nil)
var _ storage.TeamStore = (*Store)(nil)
var _ storage.ChatStore = (*Store)(nil)
var _ storage.ReportStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// --- IssueStore -------------------------------------------------------------

const issueColumns = `id, project, issue_type, status, summary, description, priority, team, labels, sprint, linked_issue_type, linked_issue, assignee, attachment, created_at, updated_at`

func (s *Store) CreateIssue(ctx context.Context, is issue.Issue) (issue.Issue, error) {
	now := time.Now().UTC()
	is.CreatedAt = now
	is.UpdatedAt = now

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO issues (project, issue_type, status, summary, description, priority, team, labels, sprint, linked_issue_type, linked_issue, assignee, attachment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`, is.Project, is.IssueType, is.Status, is.Summary, is.Description, is.Priority, is.Team, is.Labels, is.Sprint,
		is.LinkedIssueType, toNullInt(is.LinkedIssue), is.Assignee, toNullString(is.Attachment), is.CreatedAt, is.UpdatedAt).Scan(&is.ID)
	if err != nil {
		return issue.Issue{}, err
	}
	return is, nil
}

func (s *Store) UpdateIssue(ctx context.Context, is issue.Issue, replaceAttachment bool) (issue.Issue, error) {
	is.UpdatedAt = time.Now().UTC()

	var (
		result sql.Result
		err    error
	)
	if replaceAttachment {
		result, err = s.db.ExecContext(ctx, `
			UPDATE issues
			SET project = $2, issue_type = $3, status = $4, summary = $5, description = $6, priority = $7,
			    team = $8, labels = $9, sprint = $10, linked_issue_type = $11, linked_issue = $12,
			    assignee = $13, attachment = $14, updated_at = $15
			WHERE id = $1
		`, is.ID, is.Project, is.IssueType, is.Status, is.Summary, is.Description, is.Priority,
			is.Team, is.Labels, is.Sprint, is.LinkedIssueType, toNullInt(is.LinkedIssue),
			is.Assignee, toNullString(is.Attachment), is.UpdatedAt)
	} else {
		result, err = s.db.ExecContext(ctx, `
			UPDATE issues
			SET project = $2, issue_type = $3, status = $4, summary = $5, description = $6, priority = $7,
			    team = $8, labels = $9, sprint = $10, linked_issue_type = $11, linked_issue = $12,
			    assignee = $13, updated_at = $14
			WHERE id = $1
		`, is.ID, is.Project, is.IssueType, is.Status, is.Summary, is.Description, is.Priority,
			is.Team, is.Labels, is.Sprint, is.LinkedIssueType, toNullInt(is.LinkedIssue),
			is.Assignee, is.UpdatedAt)
	}
	if err != nil {
		return issue.Issue{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return issue.Issue{}, storage.ErrNotFound
	}
	return is, nil
}

func (s *Store) GetIssue(ctx context.Context, id int64) (issue.Issue, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+issueColumns+`
		FROM issues
		WHERE id = $1
	`, id)

	is, err := scanIssue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return issue.Issue{}, storage.ErrNotFound
	}
	return is, err
}

func (s *Store) ListIssues(ctx context.Context) ([]issue.Issue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+issueColumns+`
		FROM issues
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIssues(rows)
}

func (s *Store) ListProjectIssues(ctx context.Context, projectID int64) ([]issue.Issue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+issueColumns+`
		FROM issues
		WHERE project = $1
		ORDER BY created_at DESC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIssues(rows)
}

func (s *Store) ListProjectIssuesDetailed(ctx context.Context, projectID int64) ([]issue.ProjectIssue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.project, i.issue_type, i.status, i.summary, i.description, i.priority, i.team, i.labels, i.sprint,
		       i.linked_issue_type, i.linked_issue, i.assignee, i.attachment, i.created_at, i.updated_at,
		       p.name, p.description
		FROM issues i
		JOIN projects p ON p.id = i.project
		WHERE i.project = $1
		ORDER BY i.created_at DESC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []issue.ProjectIssue
	for rows.Next() {
		var (
			pi         issue.ProjectIssue
			linked     sql.NullInt64
			attachment sql.NullString
		)
		if err := rows.Scan(&pi.ID, &pi.Project, &pi.IssueType, &pi.Status, &pi.Summary, &pi.Description,
			&pi.Priority, &pi.Team, &pi.Labels, &pi.Sprint, &pi.LinkedIssueType, &linked, &pi.Assignee,
			&attachment, &pi.CreatedAt, &pi.UpdatedAt, &pi.ProjectName, &pi.ProjectDescription); err != nil {
			return nil, err
		}
		if linked.Valid {
			v := linked.Int64
			pi.LinkedIssue = &v
		}
		pi.Attachment = attachment.String
		result = append(result, pi)
	}
	return result, rows.Err()
}

func (s *Store) DeleteIssue(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM issues WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) LatestIssueSummary(ctx context.Context, assignee string) (string, error) {
	var summary string
	err := s.db.QueryRowContext(ctx, `
		SELECT summary
		FROM issues
		WHERE assignee = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, assignee).Scan(&summary)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return summary, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIssue(row rowScanner) (issue.Issue, error) {
	var (
		is         issue.Issue
		linked     sql.NullInt64
		attachment sql.NullString
	)
	if err := row.Scan(&is.ID, &is.Project, &is.IssueType, &is.Status, &is.Summary, &is.Description,
		&is.Priority, &is.Team, &is.Labels, &is.Sprint, &is.LinkedIssueType, &linked, &is.Assignee,
		&attachment, &is.CreatedAt, &is.UpdatedAt); err != nil {
		return issue.Issue{}, err
	}
	if linked.Valid {
		v := linked.Int64
		is.LinkedIssue = &v
	}
	is.Attachment = attachment.String
	return is, nil
}

func collectIssues(rows *sql.Rows) ([]issue.Issue, error) {
	var result []issue.Issue
	for rows.Next() {
		is, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, is)
	}
	return result, rows.Err()
}

// --- UserStore --------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	u.CreatedAt = time.Now().UTC()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password, full_name, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, u.Email, u.Password, u.FullName, u.Role, u.CreatedAt).Scan(&u.ID)
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (user.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password, full_name, role, created_at
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password, full_name, role, created_at
		FROM users
		WHERE email = $1
	`, email)
	return scanUser(row)
}

func scanUser(row rowScanner) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FullName, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, storage.ErrNotFound
	}
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]user.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, password, full_name, role, created_at
		FROM users
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Password, &u.FullName, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (s *Store) UpdateUserProfile(ctx context.Context, id int64, fullName, passwordHash string) error {
	var (
		result sql.Result
		err    error
	)
	if passwordHash != "" {
		result, err = s.db.ExecContext(ctx, `
			UPDATE users SET full_name = $2, password = $3 WHERE id = $1
		`, id, fullName, passwordHash)
	} else {
		result, err = s.db.ExecContext(ctx, `
			UPDATE users SET full_name = $2 WHERE id = $1
		`, id, fullName)
	}
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateUserRole(ctx context.Context, id int64, role string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET role = $2 WHERE id = $1
	`, id, role)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// --- ProjectStore -----------------------------------------------------------

func (s *Store) CreateProject(ctx context.Context, p project.Project) (project.Project, error) {
	p.CreatedAt = time.Now().UTC()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO projects (name, project_key, type, lead, project_url, description, project_logo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, p.Name, p.Key, p.Type, p.Lead, p.URL, p.Description, toNullString(p.Logo), p.CreatedAt).Scan(&p.ID)
	if err != nil {
		return project.Project{}, err
	}
	return p, nil
}

func (s *Store) GetProject(ctx context.Context, id int64) (project.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, p.project_key, p.type, p.lead, COALESCE(u.full_name, ''), p.project_url, p.description, p.project_logo, p.created_at
		FROM projects p
		LEFT JOIN users u ON u.id = p.lead
		WHERE p.id = $1
	`, id)

	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return project.Project{}, storage.ErrNotFound
	}
	return p, err
}

func (s *Store) ListProjects(ctx context.Context) ([]project.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.project_key, p.type, p.lead, COALESCE(u.full_name, ''), p.project_url, p.description, p.project_logo, p.created_at
		FROM projects p
		LEFT JOIN users u ON u.id = p.lead
		ORDER BY p.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

func (s *Store) ListUserProjects(ctx context.Context, userID int64) ([]project.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT p.id, p.name, p.project_key, p.type, p.lead, COALESCE(u.full_name, ''), p.project_url, p.description, p.project_logo, p.created_at
		FROM projects p
		LEFT JOIN users u ON u.id = p.lead
		JOIN issues i ON i.project = p.id
		WHERE i.assignee = $1
		ORDER BY p.created_at DESC
	`, formatID(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

func (s *Store) ListProjectMembers(ctx context.Context, projectID int64) ([]user.Member, error) {
	// assignee is stored as text so it can hold the "Automatic" sentinel;
	// the join casts the user id to match.
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT u.id, u.full_name, u.email, u.role
		FROM issues i
		JOIN users u ON i.assignee = u.id::text
		WHERE i.project = $1
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []user.Member
	for rows.Next() {
		var m user.Member
		if err := rows.Scan(&m.ID, &m.FullName, &m.Email, &m.Role); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func scanProject(row rowScanner) (project.Project, error) {
	var (
		p    project.Project
		logo sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Key, &p.Type, &p.Lead, &p.LeadName, &p.URL, &p.Description, &logo, &p.CreatedAt); err != nil {
		return project.Project{}, err
	}
	p.Logo = logo.String
	return p, nil
}

func collectProjects(rows *sql.Rows) ([]project.Project, error) {
	var result []project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// --- TeamStore --------------------------------------------------------------

func (s *Store) CreateTeam(ctx context.Context, t team.Team) (team.Team, error) {
	t.CreatedAt = time.Now().UTC()

	membersJSON, err := json.Marshal(t.Members)
	if err != nil {
		return team.Team{}, err
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO teams (team_name, description, project_id, team_members, created_by, updated_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, t.Name, t.Description, t.ProjectID, membersJSON, t.CreatedBy, t.UpdatedBy, t.CreatedAt).Scan(&t.ID)
	if err != nil {
		return team.Team{}, err
	}
	return t, nil
}

func (s *Store) ListTeams(ctx context.Context) ([]team.Team, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, team_name, description, project_id, team_members, created_by, updated_by, created_at
		FROM teams
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []team.Team
	for rows.Next() {
		var (
			t          team.Team
			membersRaw []byte
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.ProjectID, &membersRaw, &t.CreatedBy, &t.UpdatedBy, &t.CreatedAt); err != nil {
			return nil, err
		}
		if len(membersRaw) > 0 {
			_ = json.Unmarshal(membersRaw, &t.Members)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// --- ChatStore --------------------------------------------------------------

func (s *Store) CreateMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	m.CreatedAt = time.Now().UTC()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO chat_messages (project_id, sender_id, message, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, m.ProjectID, m.SenderID, m.Message, m.CreatedAt).Scan(&m.ID)
	if err != nil {
		return chat.Message{}, err
	}
	return m, nil
}

func (s *Store) ListProjectMessages(ctx context.Context, projectID int64) ([]chat.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.project_id, m.sender_id, u.full_name, m.message, m.created_at
		FROM chat_messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.project_id = $1
		ORDER BY m.created_at ASC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.SenderID, &m.SenderName, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (s *Store) DeleteMessage(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// --- ReportStore ------------------------------------------------------------

func (s *Store) CreateReport(ctx context.Context, r report.Report) (report.Report, error) {
	r.CreatedAt = time.Now().UTC()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO reports (user_id, report_text, report_image, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, r.UserID, r.Text, r.Image, r.CreatedAt).Scan(&r.ID)
	if err != nil {
		return report.Report{}, err
	}
	return r, nil
}

func (s *Store) ListReports(ctx context.Context) ([]report.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.user_id, r.report_text, r.report_image, u.full_name, r.created_at
		FROM reports r
		JOIN users u ON u.id = r.user_id
		ORDER BY r.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []report.Report
	for rows.Next() {
		var r report.Report
		if err := rows.Scan(&r.ID, &r.UserID, &r.Text, &r.Image, &r.AuthorName, &r.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (s *Store) ListUserReports(ctx context.Context, userID int64) ([]report.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, report_text, report_image, created_at
		FROM reports
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []report.Report
	for rows.Next() {
		var r report.Report
		if err := rows.Scan(&r.ID, &r.UserID, &r.Text, &r.Image, &r.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// --- helpers ----------------------------------------------------------------

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func toNullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
