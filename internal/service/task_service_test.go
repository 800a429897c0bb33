package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synergysphere/backend/internal/domain"
	"github.com/synergysphere/backend/internal/realtime"
	"github.com/synergysphere/backend/internal/service"
)

type taskFixture struct {
	svc           service.TaskService
	tasks         *fakeTaskRepo
	projects      *fakeProjectRepo
	members       *fakeMemberRepo
	notifications *fakeNotificationRepo
	registry      *realtime.Registry
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	members := newFakeMemberRepo()
	projects := newFakeProjectRepo(members)
	tasks := newFakeTaskRepo()
	notifications := newFakeNotificationRepo()
	registry := realtime.NewRegistry()
	notifier := realtime.NewNotifier(registry, members)

	return &taskFixture{
		svc:           service.NewTaskService(tasks, projects, members, notifications, notifier),
		tasks:         tasks,
		projects:      projects,
		members:       members,
		notifications: notifications,
		registry:      registry,
	}
}

func (f *taskFixture) seedProject(t *testing.T, ownerID string) string {
	t.Helper()
	ctx := context.Background()
	p := &domain.Project{Name: "Apollo"}
	require.NoError(t, f.projects.Create(ctx, p))
	require.NoError(t, f.members.Add(ctx, &domain.ProjectMember{
		ProjectID: p.ID, UserID: ownerID, Role: domain.RoleOwner,
	}))
	return p.ID
}

func TestTaskCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("requires project membership", func(t *testing.T) {
		f := newTaskFixture(t)
		projectID := f.seedProject(t, "owner")

		_, err := f.svc.Create(ctx, "stranger", service.CreateTaskInput{
			Title: "Design review", ProjectID: projectID,
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("rejects empty title and unknown status", func(t *testing.T) {
		f := newTaskFixture(t)
		projectID := f.seedProject(t, "owner")

		_, err := f.svc.Create(ctx, "owner", service.CreateTaskInput{ProjectID: projectID})
		assert.ErrorIs(t, err, domain.ErrInvalid)

		_, err = f.svc.Create(ctx, "owner", service.CreateTaskInput{
			Title: "x", ProjectID: projectID, Status: "someday",
		})
		assert.ErrorIs(t, err, domain.ErrInvalid)
	})

	t.Run("self-assignment persists no notification", func(t *testing.T) {
		f := newTaskFixture(t)
		projectID := f.seedProject(t, "owner")
		ownerID := "owner"

		task, err := f.svc.Create(ctx, ownerID, service.CreateTaskInput{
			Title: "Write docs", ProjectID: projectID, AssigneeID: &ownerID,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusTodo, task.Status)
		assert.Empty(t, f.notifications.rows)
	})

	t.Run("assigning someone else persists exactly one notification", func(t *testing.T) {
		f := newTaskFixture(t)
		projectID := f.seedProject(t, "owner")
		require.NoError(t, f.members.Add(ctx, &domain.ProjectMember{
			ProjectID: projectID, UserID: "bob", Role: domain.RoleMember,
		}))

		bob := "bob"
		_, err := f.svc.Create(ctx, "owner", service.CreateTaskInput{
			Title: "Fix login", ProjectID: projectID, AssigneeID: &bob,
		})
		require.NoError(t, err)

		rows := f.notifications.forUser("bob")
		require.Len(t, rows, 1)
		assert.Equal(t, domain.NotificationTaskAssigned, rows[0].Type)
		assert.False(t, rows[0].Read)
		assert.Contains(t, rows[0].Message, "Fix login")
	})

	t.Run("assignee outside the project is auto-added as member", func(t *testing.T) {
		f := newTaskFixture(t)
		projectID := f.seedProject(t, "owner")

		carol := "carol"
		_, err := f.svc.Create(ctx, "owner", service.CreateTaskInput{
			Title: "Ship it", ProjectID: projectID, AssigneeID: &carol,
		})
		require.NoError(t, err)

		m, err := f.members.Get(ctx, projectID, "carol")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleMember, m.Role)
	})

	t.Run("offline assignee still gets the durable row", func(t *testing.T) {
		f := newTaskFixture(t)
		projectID := f.seedProject(t, "owner")

		// Nobody is connected to the registry at all.
		dave := "dave"
		_, err := f.svc.Create(ctx, "owner", service.CreateTaskInput{
			Title: "Audit deps", ProjectID: projectID, AssigneeID: &dave,
		})
		require.NoError(t, err)
		assert.Len(t, f.notifications.forUser("dave"), 1)
	})
}

func TestTaskUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("reassignment notifies the new assignee", func(t *testing.T) {
		f := newTaskFixture(t)
		projectID := f.seedProject(t, "owner")
		bob, carol := "bob", "carol"

		task, err := f.svc.Create(ctx, "owner", service.CreateTaskInput{
			Title: "Triage", ProjectID: projectID, AssigneeID: &bob,
		})
		require.NoError(t, err)
		require.Len(t, f.notifications.forUser("bob"), 1)

		_, err = f.svc.Update(ctx, "owner", task.ID, domain.TaskUpdate{AssigneeID: &carol})
		require.NoError(t, err)

		rows := f.notifications.forUser("carol")
		require.Len(t, rows, 1)
		assert.Contains(t, rows[0].Title, "Reassigned")
	})

	t.Run("same assignee again does not duplicate the notification", func(t *testing.T) {
		f := newTaskFixture(t)
		projectID := f.seedProject(t, "owner")
		bob := "bob"

		task, err := f.svc.Create(ctx, "owner", service.CreateTaskInput{
			Title: "Triage", ProjectID: projectID, AssigneeID: &bob,
		})
		require.NoError(t, err)

		_, err = f.svc.Update(ctx, "owner", task.ID, domain.TaskUpdate{AssigneeID: &bob})
		require.NoError(t, err)
		assert.Len(t, f.notifications.forUser("bob"), 1)
	})

	t.Run("completion notifies the creator once", func(t *testing.T) {
		f := newTaskFixture(t)
		projectID := f.seedProject(t, "owner")
		require.NoError(t, f.members.Add(ctx, &domain.ProjectMember{
			ProjectID: projectID, UserID: "bob", Role: domain.RoleMember,
		}))
		bob := "bob"

		task, err := f.svc.Create(ctx, "owner", service.CreateTaskInput{
			Title: "Release", ProjectID: projectID, AssigneeID: &bob,
		})
		require.NoError(t, err)

		completed := domain.TaskStatusCompleted
		_, err = f.svc.Update(ctx, "bob", task.ID, domain.TaskUpdate{Status: &completed})
		require.NoError(t, err)

		var completions []domain.Notification
		for _, n := range f.notifications.forUser("owner") {
			if n.Type == domain.NotificationTaskCompleted {
				completions = append(completions, n)
			}
		}
		require.Len(t, completions, 1)

		// Completing an already-completed task stays quiet.
		_, err = f.svc.Update(ctx, "bob", task.ID, domain.TaskUpdate{Status: &completed})
		require.NoError(t, err)
		completions = completions[:0]
		for _, n := range f.notifications.forUser("owner") {
			if n.Type == domain.NotificationTaskCompleted {
				completions = append(completions, n)
			}
		}
		assert.Len(t, completions, 1)
	})

	t.Run("failed notification persistence never fails the mutation", func(t *testing.T) {
		f := newTaskFixture(t)
		projectID := f.seedProject(t, "owner")
		f.notifications.createErr = assert.AnError

		bob := "bob"
		task, err := f.svc.Create(ctx, "owner", service.CreateTaskInput{
			Title: "Resilient", ProjectID: projectID, AssigneeID: &bob,
		})
		require.NoError(t, err)
		require.NotNil(t, task)
		assert.Empty(t, f.notifications.rows)
	})
}

func TestTaskGetHidesOtherProjects(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)
	projectID := f.seedProject(t, "owner")

	task, err := f.svc.Create(ctx, "owner", service.CreateTaskInput{
		Title: "Secret", ProjectID: projectID,
	})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, "stranger", task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskDelete(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)
	projectID := f.seedProject(t, "owner")

	task, err := f.svc.Create(ctx, "owner", service.CreateTaskInput{
		Title: "Ephemeral", ProjectID: projectID,
	})
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.Delete(ctx, "stranger", task.ID), domain.ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, "owner", task.ID))

	_, err = f.tasks.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
