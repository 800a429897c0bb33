package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synergysphere/backend/internal/domain"
)

// fakeResolver serves a fixed membership table.
type fakeResolver struct {
	members map[string][]string
	err     error
}

func (f *fakeResolver) MemberIDs(_ context.Context, projectID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.members[projectID], nil
}

func TestNotifyUser(t *testing.T) {
	t.Run("no connections yields an empty report", func(t *testing.T) {
		n := NewNotifier(NewRegistry(), &fakeResolver{})

		report := n.NotifyUser("offline", &Message{Type: TypeTaskCreated})

		assert.Empty(t, report)
		assert.False(t, report.Delivered())
	})

	t.Run("every open tab receives the identical payload", func(t *testing.T) {
		r := NewRegistry()
		tab1, tab2 := newFakeConn(), newFakeConn()
		r.Register("u1", tab1)
		r.Register("u1", tab2)
		n := NewNotifier(r, &fakeResolver{})

		report := n.NotifyUser("u1", &Message{
			Type:      TypeTaskUpdated,
			Data:      map[string]string{"id": "t1"},
			ProjectID: "p1",
			TaskID:    "t1",
		})

		require.Len(t, report, 2)
		assert.True(t, report.Delivered())
		require.Len(t, tab1.received(), 1)
		require.Len(t, tab2.received(), 1)
		assert.Equal(t, tab1.received()[0], tab2.received()[0])

		var got Message
		require.NoError(t, json.Unmarshal(tab1.received()[0], &got))
		assert.Equal(t, TypeTaskUpdated, got.Type)
		assert.Equal(t, "p1", got.ProjectID)
		assert.Equal(t, "t1", got.TaskID)
	})

	t.Run("closed connections are skipped without error", func(t *testing.T) {
		r := NewRegistry()
		open, closed := newFakeConn(), newFakeConn()
		closed.close()
		r.Register("u1", open)
		r.Register("u1", closed)
		n := NewNotifier(r, &fakeResolver{})

		report := n.NotifyUser("u1", &Message{Type: TypeNotification})

		require.Len(t, report, 2)
		assert.True(t, report.Delivered())
		statuses := map[DeliveryStatus]int{}
		for _, d := range report {
			statuses[d.Status]++
		}
		assert.Equal(t, 1, statuses[Delivered])
		assert.Equal(t, 1, statuses[Skipped])
		assert.Empty(t, closed.received())
	})

	t.Run("a failing write is reported, not fatal", func(t *testing.T) {
		r := NewRegistry()
		broken := newFakeConn()
		broken.sendErr = errors.New("write: broken pipe")
		r.Register("u1", broken)
		n := NewNotifier(r, &fakeResolver{})

		report := n.NotifyUser("u1", &Message{Type: TypeNotification})

		require.Len(t, report, 1)
		assert.Equal(t, Failed, report[0].Status)
		assert.False(t, report.Delivered())
	})
}

func TestNotifyProject(t *testing.T) {
	ctx := context.Background()

	t.Run("reaches every member connected at call time", func(t *testing.T) {
		r := NewRegistry()
		alice, bob := newFakeConn(), newFakeConn()
		r.Register("alice", alice)
		r.Register("bob", bob)
		r.Register("mallory", newFakeConn())
		resolver := &fakeResolver{members: map[string][]string{"p1": {"alice", "bob", "offline"}}}
		n := NewNotifier(r, resolver)

		report := n.NotifyProject(ctx, "p1", &Message{Type: TypeProjectUpdated, ProjectID: "p1"})

		assert.True(t, report.Delivered())
		assert.Len(t, alice.received(), 1)
		assert.Len(t, bob.received(), 1)
		// Offline members simply contribute nothing to the report.
		assert.Len(t, report, 2)
	})

	t.Run("non-members receive nothing", func(t *testing.T) {
		r := NewRegistry()
		outsider := newFakeConn()
		r.Register("outsider", outsider)
		resolver := &fakeResolver{members: map[string][]string{"p1": {"alice"}}}
		n := NewNotifier(r, resolver)

		n.NotifyProject(ctx, "p1", &Message{Type: TypeProjectUpdated})

		assert.Empty(t, outsider.received())
	})

	t.Run("resolver failure yields an empty broadcast", func(t *testing.T) {
		r := NewRegistry()
		member := newFakeConn()
		r.Register("alice", member)
		n := NewNotifier(r, &fakeResolver{err: errors.New("db down")})

		report := n.NotifyProject(ctx, "p1", &Message{Type: TypeProjectUpdated})

		assert.Empty(t, report)
		assert.Empty(t, member.received())
	})
}

func TestTypedPushes(t *testing.T) {
	ctx := context.Background()

	t.Run("member added reaches the new member before they resolve as one", func(t *testing.T) {
		r := NewRegistry()
		newcomer := newFakeConn()
		r.Register("carol", newcomer)
		// carol is not in the resolver's view yet.
		resolver := &fakeResolver{members: map[string][]string{"p1": {"alice"}}}
		n := NewNotifier(r, resolver)

		n.MemberAdded(ctx, &domain.ProjectMember{ProjectID: "p1", UserID: "carol", Role: domain.RoleMember})

		require.Len(t, newcomer.received(), 1)
		var got Message
		require.NoError(t, json.Unmarshal(newcomer.received()[0], &got))
		assert.Equal(t, TypeProjectMemberAdded, got.Type)
		assert.Equal(t, "p1", got.ProjectID)
	})

	t.Run("event without project goes to the creator only", func(t *testing.T) {
		r := NewRegistry()
		creator, other := newFakeConn(), newFakeConn()
		r.Register("alice", creator)
		r.Register("bob", other)
		n := NewNotifier(r, &fakeResolver{})

		n.EventCreated(ctx, &domain.Event{ID: "e1", Title: "standup"}, "alice")

		assert.Len(t, creator.received(), 1)
		assert.Empty(t, other.received())
	})

	t.Run("notification created carries record and toast", func(t *testing.T) {
		r := NewRegistry()
		tab := newFakeConn()
		r.Register("alice", tab)
		n := NewNotifier(r, &fakeResolver{})

		record := &domain.Notification{ID: "n1", UserID: "alice", Type: domain.NotificationTaskAssigned}
		toast := NewToast(ToastInfo, "New Task Assigned", "You have been assigned a task", 8000)

		report := n.NotificationCreated(record, toast)

		assert.True(t, report.Delivered())
		var got Message
		require.NoError(t, json.Unmarshal(tab.received()[0], &got))
		assert.Equal(t, TypeNotification, got.Type)
		require.NotNil(t, got.Notification)
		assert.Equal(t, toast.ID, got.Notification.ID)
		assert.True(t, got.Notification.AutoClose)
		assert.Equal(t, 8000, got.Notification.Duration)
	})
}
