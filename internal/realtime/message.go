package realtime

import "github.com/google/uuid"

// Envelope types pushed to clients.
const (
	TypeProjectCreated       = "project_created"
	TypeProjectUpdated       = "project_updated"
	TypeProjectDeleted       = "project_deleted"
	TypeTaskCreated          = "task_created"
	TypeTaskUpdated          = "task_updated"
	TypeTaskDeleted          = "task_deleted"
	TypeProjectMemberAdded   = "project_member_added"
	TypeProjectMemberRemoved = "project_member_removed"
	TypeEventCreated         = "event_created"
	TypeEventUpdated         = "event_updated"
	TypeEventDeleted         = "event_deleted"
	TypeNotification         = "notification"
)

// Toast display kinds.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastWarning = "warning"
	ToastInfo    = "info"
)

// Message is the JSON envelope sent over the real-time channel.
type Message struct {
	Type         string      `json:"type"`
	Data         interface{} `json:"data"`
	ProjectID    string      `json:"projectId,omitempty"`
	TaskID       string      `json:"taskId,omitempty"`
	EventID      string      `json:"eventId,omitempty"`
	Notification *Toast      `json:"notification,omitempty"`
}

// Toast is a transient on-screen notification rendered by the dashboard.
type Toast struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	AutoClose bool   `json:"autoClose"`
	Duration  int    `json:"duration"`
}

// NewToast builds an info-style toast with the client's default dismissal.
func NewToast(kind, title, message string, durationMillis int) *Toast {
	return &Toast{
		ID:        uuid.New().String(),
		Type:      kind,
		Title:     title,
		Message:   message,
		AutoClose: true,
		Duration:  durationMillis,
	}
}
