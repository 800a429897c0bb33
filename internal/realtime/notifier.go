package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/synergysphere/backend/internal/domain"
	"github.com/synergysphere/backend/internal/logger"
)

// MembershipResolver answers "who belongs to this project". The member
// repository satisfies it.
type MembershipResolver interface {
	MemberIDs(ctx context.Context, projectID string) ([]string, error)
}

// DeliveryStatus classifies one send attempt.
type DeliveryStatus int

const (
	// Delivered: the write to the transport succeeded.
	Delivered DeliveryStatus = iota
	// Skipped: the connection was no longer open at send time.
	Skipped
	// Failed: the write errored.
	Failed
)

// Delivery is the outcome for one connection. Callers are free to ignore
// it; live delivery is best-effort on top of the persisted store.
type Delivery struct {
	UserID string
	Status DeliveryStatus
	Err    error
}

// Report collects the deliveries of one broadcast.
type Report []Delivery

// Delivered reports whether at least one send succeeded.
func (r Report) Delivered() bool {
	for _, d := range r {
		if d.Status == Delivered {
			return true
		}
	}
	return false
}

// Notifier fans envelopes out to live connections. It never retries,
// queues, or orders deliveries; the notifications table is the durable
// record.
type Notifier struct {
	registry *Registry
	members  MembershipResolver
}

func NewNotifier(registry *Registry, members MembershipResolver) *Notifier {
	return &Notifier{registry: registry, members: members}
}

// NotifyUser serializes msg once and sends it to every open connection of
// the user. Closed connections are skipped silently.
func (n *Notifier) NotifyUser(userID string, msg *Message) Report {
	conns := n.registry.Connections(userID)
	if len(conns) == 0 {
		return nil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		logger.ErrorLog(context.Background(), "realtime: marshaling %s envelope: %v", msg.Type, err)
		return Report{{UserID: userID, Status: Failed, Err: err}}
	}

	report := make(Report, 0, len(conns))
	for _, c := range conns {
		if !c.Open() {
			report = append(report, Delivery{UserID: userID, Status: Skipped})
			continue
		}
		if err := c.Send(payload); err != nil {
			report = append(report, Delivery{UserID: userID, Status: Failed, Err: err})
			continue
		}
		report = append(report, Delivery{UserID: userID, Status: Delivered})
	}
	return report
}

// NotifyProject broadcasts to every member of the project as of call time.
// A failed membership lookup is logged and yields a partial (possibly
// empty) broadcast; clients re-sync from the store on next load.
func (n *Notifier) NotifyProject(ctx context.Context, projectID string, msg *Message) Report {
	memberIDs, err := n.members.MemberIDs(ctx, projectID)
	if err != nil {
		logger.ErrorLog(ctx, "realtime: resolving members of project %s: %v", projectID, err)
		return nil
	}

	var report Report
	for _, userID := range memberIDs {
		report = append(report, n.NotifyUser(userID, msg)...)
	}
	return report
}

// --- typed event pushes -------------------------------------------------

func (n *Notifier) ProjectCreated(p *domain.Project, creatorID string) {
	n.NotifyUser(creatorID, &Message{Type: TypeProjectCreated, Data: p, ProjectID: p.ID})
}

func (n *Notifier) ProjectUpdated(ctx context.Context, p *domain.Project) {
	n.NotifyProject(ctx, p.ID, &Message{Type: TypeProjectUpdated, Data: p, ProjectID: p.ID})
}

func (n *Notifier) ProjectDeleted(ctx context.Context, projectID string) {
	n.NotifyProject(ctx, projectID, &Message{
		Type:      TypeProjectDeleted,
		Data:      map[string]string{"id": projectID},
		ProjectID: projectID,
	})
}

func (n *Notifier) TaskCreated(ctx context.Context, t *domain.Task) {
	n.NotifyProject(ctx, t.ProjectID, &Message{
		Type: TypeTaskCreated, Data: t, ProjectID: t.ProjectID, TaskID: t.ID,
	})
}

func (n *Notifier) TaskUpdated(ctx context.Context, t *domain.Task) {
	n.NotifyProject(ctx, t.ProjectID, &Message{
		Type: TypeTaskUpdated, Data: t, ProjectID: t.ProjectID, TaskID: t.ID,
	})
}

func (n *Notifier) TaskDeleted(ctx context.Context, taskID, projectID string) {
	n.NotifyProject(ctx, projectID, &Message{
		Type:      TypeTaskDeleted,
		Data:      map[string]string{"id": taskID},
		ProjectID: projectID,
		TaskID:    taskID,
	})
}

// MemberAdded pushes to the new member directly (they may not resolve as a
// member yet on their own tabs) and to the project.
func (n *Notifier) MemberAdded(ctx context.Context, m *domain.ProjectMember) {
	msg := &Message{Type: TypeProjectMemberAdded, Data: m, ProjectID: m.ProjectID}
	n.NotifyUser(m.UserID, msg)
	n.NotifyProject(ctx, m.ProjectID, msg)
}

func (n *Notifier) MemberRemoved(ctx context.Context, projectID, userID string) {
	msg := &Message{
		Type:      TypeProjectMemberRemoved,
		Data:      map[string]string{"id": userID},
		ProjectID: projectID,
	}
	n.NotifyUser(userID, msg)
	n.NotifyProject(ctx, projectID, msg)
}

// EventCreated pushes to the creator and, when the event belongs to a
// project, to its members.
func (n *Notifier) EventCreated(ctx context.Context, e *domain.Event, creatorID string) {
	msg := &Message{Type: TypeEventCreated, Data: e, EventID: e.ID}
	if e.ProjectID != nil {
		msg.ProjectID = *e.ProjectID
	}
	n.NotifyUser(creatorID, msg)
	if e.ProjectID != nil {
		n.NotifyProject(ctx, *e.ProjectID, msg)
	}
}

func (n *Notifier) EventUpdated(ctx context.Context, e *domain.Event, creatorID string) {
	msg := &Message{Type: TypeEventUpdated, Data: e, EventID: e.ID}
	if e.ProjectID != nil {
		msg.ProjectID = *e.ProjectID
	}
	n.NotifyUser(creatorID, msg)
	if e.ProjectID != nil {
		n.NotifyProject(ctx, *e.ProjectID, msg)
	}
}

// EventDeleted pushes to the creator only; the project association is gone
// with the row.
func (n *Notifier) EventDeleted(eventID, creatorID string) {
	n.NotifyUser(creatorID, &Message{
		Type:    TypeEventDeleted,
		Data:    map[string]string{"id": eventID},
		EventID: eventID,
	})
}

// NotificationCreated pushes a persisted notification together with its
// toast to the recipient's tabs.
func (n *Notifier) NotificationCreated(record *domain.Notification, toast *Toast) Report {
	return n.NotifyUser(record.UserID, &Message{
		Type:         TypeNotification,
		Data:         record,
		Notification: toast,
	})
}

// SendToast pushes a toast with no persisted record behind it.
func (n *Notifier) SendToast(userID string, toast *Toast) Report {
	return n.NotifyUser(userID, &Message{
		Type:         TypeNotification,
		Data:         map[string]string{"id": toast.ID},
		Notification: toast,
	})
}

var _ fmt.Stringer = DeliveryStatus(0)

func (s DeliveryStatus) String() string {
	switch s {
	case Delivered:
		return "delivered"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return "unknown"
}
