package projects

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beedatatech/teamflow/internal/app/domain/issue"
	"github.com/beedatatech/teamflow/internal/app/domain/project"
	"github.com/beedatatech/teamflow/internal/app/services"
	"github.com/beedatatech/teamflow/internal/app/storage"
	"github.com/beedatatech/teamflow/internal/app/storage/memory"
)

func TestCreateRequiresNameAndKey(t *testing.T) {
	svc := New(memory.New(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, project.Project{Key: "KEY"})
	require.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.Create(ctx, project.Project{Name: "Name"})
	require.ErrorIs(t, err, services.ErrValidation)

	created, err := svc.Create(ctx, project.Project{Name: "Name", Key: "KEY"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestGetAndList(t *testing.T) {
	svc := New(memory.New(), nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, 999)
	require.ErrorIs(t, err, storage.ErrNotFound)

	first, err := svc.Create(ctx, project.Project{Name: "First", Key: "F"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, project.Project{Name: "Second", Key: "S"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", got.Name)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Newest first.
	assert.Equal(t, second.ID, list[0].ID)
}

func TestListForUserFollowsAssignments(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)
	ctx := context.Background()

	mine, err := svc.Create(ctx, project.Project{Name: "Mine", Key: "M"})
	require.NoError(t, err)
	other, err := svc.Create(ctx, project.Project{Name: "Other", Key: "O"})
	require.NoError(t, err)

	_, err = store.CreateIssue(ctx, issue.Issue{Project: mine.ID, Summary: "task", Assignee: "21"})
	require.NoError(t, err)
	_, err = store.CreateIssue(ctx, issue.Issue{Project: other.ID, Summary: "task", Assignee: "22"})
	require.NoError(t, err)

	list, err := svc.ListForUser(ctx, 21)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	empty, err := svc.ListForUser(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMembers(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, project.Project{Name: "P", Key: "P"})
	require.NoError(t, err)

	members, err := svc.Members(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
}
