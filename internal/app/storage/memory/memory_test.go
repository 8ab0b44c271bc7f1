package memory

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/beedatatech/teamflow/internal/app/domain/chat"
	"github.com/beedatatech/teamflow/internal/app/domain/issue"
	"github.com/beedatatech/teamflow/internal/app/domain/project"
	"github.com/beedatatech/teamflow/internal/app/domain/user"
	"github.com/beedatatech/teamflow/internal/app/storage"
)

func TestIssueOrderingNewestFirst(t *testing.T) {
	store := New()
	ctx := context.Background()

	for _, summary := range []string{"a", "b", "c"} {
		if _, err := store.CreateIssue(ctx, issue.Issue{Project: 1, Summary: summary}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, err := store.ListIssues(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(list))
	}
	// Identical timestamps fall back to id ordering, so creation order is
	// always reversed.
	if list[0].Summary != "c" || list[2].Summary != "a" {
		t.Fatalf("unexpected order: %v %v %v", list[0].Summary, list[1].Summary, list[2].Summary)
	}
}

func TestUpdateIssuePreservesAttachment(t *testing.T) {
	store := New()
	ctx := context.Background()

	created, err := store.CreateIssue(ctx, issue.Issue{Project: 1, Summary: "s", Attachment: "file.png"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	created.Attachment = ""
	updated, err := store.UpdateIssue(ctx, created, false)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Attachment != "file.png" {
		t.Fatalf("attachment = %q, want file.png", updated.Attachment)
	}

	created.Attachment = "replacement.png"
	updated, err = store.UpdateIssue(ctx, created, true)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Attachment != "replacement.png" {
		t.Fatalf("attachment = %q, want replacement.png", updated.Attachment)
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	store := New()
	ctx := context.Background()

	if _, err := store.CreateUser(ctx, user.User{Email: "x@y.z", FullName: "X"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.CreateUser(ctx, user.User{Email: "x@y.z", FullName: "Y"}); err == nil {
		t.Fatal("expected duplicate email error")
	}
}

func TestListUserProjectsMatchesAssignee(t *testing.T) {
	store := New()
	ctx := context.Background()

	p1, _ := store.CreateProject(ctx, project.Project{Name: "One", Key: "ONE"})
	p2, _ := store.CreateProject(ctx, project.Project{Name: "Two", Key: "TWO"})

	store.CreateIssue(ctx, issue.Issue{Project: p1.ID, Summary: "s", Assignee: "9"})
	store.CreateIssue(ctx, issue.Issue{Project: p1.ID, Summary: "s2", Assignee: "9"})
	store.CreateIssue(ctx, issue.Issue{Project: p2.ID, Summary: "s3", Assignee: "10"})

	list, err := store.ListUserProjects(ctx, 9)
	if err != nil {
		t.Fatalf("list user projects: %v", err)
	}
	if len(list) != 1 || list[0].ID != p1.ID {
		t.Fatalf("expected only project One, got %+v", list)
	}
}

func TestProjectMembersDistinct(t *testing.T) {
	store := New()
	ctx := context.Background()

	u, _ := store.CreateUser(ctx, user.User{Email: "m@x.y", FullName: "Member", Role: "user"})
	p, _ := store.CreateProject(ctx, project.Project{Name: "P", Key: "P"})

	assignee := strconv.FormatInt(u.ID, 10)
	store.CreateIssue(ctx, issue.Issue{Project: p.ID, Summary: "a", Assignee: assignee})
	store.CreateIssue(ctx, issue.Issue{Project: p.ID, Summary: "b", Assignee: assignee})

	members, err := store.ListProjectMembers(ctx, p.ID)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("expected 1 distinct member, got %d", len(members))
	}
	if members[0].FullName != "Member" {
		t.Fatalf("unexpected member: %+v", members[0])
	}
}

func TestChatMessagesOldestFirst(t *testing.T) {
	store := New()
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three"} {
		if _, err := store.CreateMessage(ctx, chat.Message{ProjectID: 4, SenderID: 1, Message: text}); err != nil {
			t.Fatalf("create message: %v", err)
		}
	}

	list, err := store.ListProjectMessages(ctx, 4)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(list))
	}
	if list[0].Message != "one" || list[2].Message != "three" {
		t.Fatalf("chat should read oldest first: %+v", list)
	}
}

func TestDeleteMessage(t *testing.T) {
	store := New()
	ctx := context.Background()

	msg, _ := store.CreateMessage(ctx, chat.Message{ProjectID: 1, SenderID: 1, Message: "bye"})
	if err := store.DeleteMessage(ctx, msg.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteMessage(ctx, msg.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
