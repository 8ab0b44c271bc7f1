package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/beedatatech/teamflow/internal/app/domain/issue"
	"github.com/beedatatech/teamflow/internal/app/domain/user"
	"github.com/beedatatech/teamflow/internal/app/storage"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func expectMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateIssueReturnsID(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO issues").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(17))

	created, err := store.CreateIssue(context.Background(), issue.Issue{
		Project:  3,
		Summary:  "Broken pagination",
		Status:   issue.DefaultStatus,
		Priority: issue.DefaultPriority,
		Assignee: issue.AutomaticAssignee,
	})
	if err != nil {
		t.Fatalf("create issue: %v", err)
	}
	if created.ID != 17 {
		t.Errorf("id = %d, want 17", created.ID)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
	expectMet(t, mock)
}

func TestGetIssueNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM issues").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.GetIssue(context.Background(), 99)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectMet(t, mock)
}

func TestGetIssueScansNullableColumns(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "project", "issue_type", "status", "summary", "description", "priority",
		"team", "labels", "sprint", "linked_issue_type", "linked_issue", "assignee",
		"attachment", "created_at", "updated_at",
	}).AddRow(5, 2, "bug", "To Do", "s", "d", "Medium", "", "", "", "blocks", nil, "Automatic", nil, now, now)
	mock.ExpectQuery("SELECT (.+) FROM issues").WithArgs(int64(5)).WillReturnRows(rows)

	got, err := store.GetIssue(context.Background(), 5)
	if err != nil {
		t.Fatalf("get issue: %v", err)
	}
	if got.LinkedIssue != nil {
		t.Errorf("expected nil linked issue, got %v", *got.LinkedIssue)
	}
	if got.Attachment != "" {
		t.Errorf("expected empty attachment, got %q", got.Attachment)
	}
	expectMet(t, mock)
}

func TestUpdateIssueWithoutAttachmentColumn(t *testing.T) {
	store, mock := newMockStore(t)

	// Attachment column must be absent from the statement when no new file
	// accompanied the update.
	mock.ExpectExec(`UPDATE issues\s+SET project = \$2, issue_type = \$3, status = \$4, summary = \$5, description = \$6, priority = \$7,\s+team = \$8, labels = \$9, sprint = \$10, linked_issue_type = \$11, linked_issue = \$12,\s+assignee = \$13, updated_at = \$14`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := store.UpdateIssue(context.Background(), issue.Issue{ID: 4, Project: 1, Summary: "s"}, false)
	if err != nil {
		t.Fatalf("update issue: %v", err)
	}
	expectMet(t, mock)
}

func TestUpdateIssueMissingRow(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE issues").WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := store.UpdateIssue(context.Background(), issue.Issue{ID: 77}, true)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectMet(t, mock)
}

func TestDeleteIssue(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM issues").
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := store.DeleteIssue(context.Background(), 8); err != nil {
		t.Fatalf("delete: %v", err)
	}

	mock.ExpectExec("DELETE FROM issues").
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := store.DeleteIssue(context.Background(), 8); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectMet(t, mock)
}

func TestLatestIssueSummary(t *testing.T) {
	store, mock := newMockStore(t)

	// Equal timestamps fall back to the highest id, like the memory store.
	mock.ExpectQuery("SELECT summary[\\s\\S]*ORDER BY created_at DESC, id DESC").
		WithArgs("42").
		WillReturnRows(sqlmock.NewRows([]string{"summary"}).AddRow("ship it"))

	got, err := store.LatestIssueSummary(context.Background(), "42")
	if err != nil {
		t.Fatalf("latest summary: %v", err)
	}
	if got != "ship it" {
		t.Errorf("summary = %q, want ship it", got)
	}

	mock.ExpectQuery("SELECT summary").
		WithArgs("43").
		WillReturnRows(sqlmock.NewRows([]string{"summary"}))
	if _, err := store.LatestIssueSummary(context.Background(), "43"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectMet(t, mock)
}

func TestCreateUserReturnsID(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("a@b.c", "hash", "Ada", "user", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	created, err := store.CreateUser(context.Background(), user.User{
		Email:    "a@b.c",
		Password: "hash",
		FullName: "Ada",
		Role:     "user",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.ID != 3 {
		t.Errorf("id = %d, want 3", created.ID)
	}
	expectMet(t, mock)
}

func TestUpdateUserProfileSkipsPasswordWhenEmpty(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE users SET full_name = \$2 WHERE id = \$1`).
		WithArgs(int64(1), "New Name").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.UpdateUserProfile(context.Background(), 1, "New Name", ""); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	mock.ExpectExec(`UPDATE users SET full_name = \$2, password = \$3 WHERE id = \$1`).
		WithArgs(int64(1), "New Name", "newhash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.UpdateUserProfile(context.Background(), 1, "New Name", "newhash"); err != nil {
		t.Fatalf("update profile with password: %v", err)
	}
	expectMet(t, mock)
}

func TestListProjectMembersJoinsOnAssignee(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "full_name", "email", "role"}).
		AddRow(1, "Ada", "ada@example.com", "user").
		AddRow(2, "Lin", "lin@example.com", "admin")
	mock.ExpectQuery("SELECT DISTINCT u.id, u.full_name, u.email, u.role").
		WithArgs(int64(6)).
		WillReturnRows(rows)

	members, err := store.ListProjectMembers(context.Background(), 6)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if members[0].FullName != "Ada" {
		t.Errorf("first member = %+v", members[0])
	}
	expectMet(t, mock)
}
