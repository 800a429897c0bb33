package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/synergysphere/backend/internal/domain"
	"github.com/synergysphere/backend/internal/logger"
	"github.com/synergysphere/backend/internal/realtime"
)

type CreateTaskInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Status      string      `json:"status"`
	Priority    string      `json:"priority"`
	Deadline    *time.Time  `json:"deadline"`
	ProjectID   string      `json:"projectId"`
	AssigneeID  *string     `json:"assigneeId"`
	Tags        domain.Tags `json:"tags"`
}

type TaskService interface {
	List(ctx context.Context, userID string) ([]domain.Task, error)
	ListByProject(ctx context.Context, userID, projectID string) ([]domain.Task, error)
	Mine(ctx context.Context, userID string) ([]domain.Task, error)
	Get(ctx context.Context, userID, taskID string) (*domain.Task, error)
	Create(ctx context.Context, userID string, in CreateTaskInput) (*domain.Task, error)
	Update(ctx context.Context, userID, taskID string, in domain.TaskUpdate) (*domain.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
	Deadlines(ctx context.Context, userID string) ([]domain.Task, error)
}

type taskService struct {
	tasks         domain.TaskRepository
	projects      domain.ProjectRepository
	members       domain.MemberRepository
	notifications domain.NotificationRepository
	notifier      *realtime.Notifier
}

func NewTaskService(
	tasks domain.TaskRepository,
	projects domain.ProjectRepository,
	members domain.MemberRepository,
	notifications domain.NotificationRepository,
	notifier *realtime.Notifier,
) TaskService {
	return &taskService{
		tasks:         tasks,
		projects:      projects,
		members:       members,
		notifications: notifications,
		notifier:      notifier,
	}
}

func (s *taskService) requireMember(ctx context.Context, projectID, userID string) error {
	_, err := s.members.Get(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrForbidden
		}
		return err
	}
	return nil
}

func (s *taskService) List(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.tasks.ListForUser(ctx, userID)
}

func (s *taskService) ListByProject(ctx context.Context, userID, projectID string) ([]domain.Task, error) {
	if err := s.requireMember(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *taskService) Mine(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.tasks.ListByAssignee(ctx, userID)
}

func (s *taskService) Get(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, t.ProjectID, userID); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *taskService) Create(ctx context.Context, userID string, in CreateTaskInput) (*domain.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: task title is required", domain.ErrInvalid)
	}
	if in.ProjectID == "" {
		return nil, fmt.Errorf("%w: projectId is required", domain.ErrInvalid)
	}
	if in.Status != "" && !domain.ValidTaskStatus(in.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalid, in.Status)
	}
	if in.Priority != "" && !domain.ValidPriority(in.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrInvalid, in.Priority)
	}
	if err := s.requireMember(ctx, in.ProjectID, userID); err != nil {
		return nil, err
	}

	t := &domain.Task{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Image:       in.Image,
		Status:      in.Status,
		Priority:    in.Priority,
		Deadline:    in.Deadline,
		ProjectID:   in.ProjectID,
		AssigneeID:  in.AssigneeID,
		Tags:        in.Tags,
		CreatedBy:   userID,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}

	if t.AssigneeID != nil && *t.AssigneeID != userID {
		s.ensureMembership(ctx, t.ProjectID, *t.AssigneeID)
		s.notifyAssignment(ctx, t, *t.AssigneeID, false)
	}

	s.notifier.TaskCreated(ctx, t)
	return t, nil
}

func (s *taskService) Update(ctx context.Context, userID, taskID string, in domain.TaskUpdate) (*domain.Task, error) {
	existing, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, existing.ProjectID, userID); err != nil {
		return nil, err
	}

	oldAssignee := existing.AssigneeID
	oldStatus := existing.Status

	t := *existing
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, fmt.Errorf("%w: task title is required", domain.ErrInvalid)
		}
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Image != nil {
		t.Image = *in.Image
	}
	if in.Status != nil {
		if !domain.ValidTaskStatus(*in.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalid, *in.Status)
		}
		t.Status = *in.Status
	}
	if in.Priority != nil {
		if !domain.ValidPriority(*in.Priority) {
			return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrInvalid, *in.Priority)
		}
		t.Priority = *in.Priority
	}
	if in.Deadline != nil {
		t.Deadline = in.Deadline
	}
	if in.AssigneeID != nil {
		t.AssigneeID = in.AssigneeID
	}
	if in.Tags != nil {
		t.Tags = *in.Tags
	}

	if err := s.tasks.Update(ctx, &t); err != nil {
		return nil, err
	}

	assigneeChanged := in.AssigneeID != nil &&
		(oldAssignee == nil || *oldAssignee != *in.AssigneeID)
	if assigneeChanged && *in.AssigneeID != userID {
		s.ensureMembership(ctx, t.ProjectID, *in.AssigneeID)
		s.notifyAssignment(ctx, &t, *in.AssigneeID, oldAssignee != nil)
	}

	completed := t.Status == domain.TaskStatusCompleted && oldStatus != domain.TaskStatusCompleted
	if completed && (t.AssigneeID == nil || t.CreatedBy != *t.AssigneeID) {
		s.notifyCompletion(ctx, &t)
	}

	s.notifier.TaskUpdated(ctx, &t)
	return &t, nil
}

func (s *taskService) Delete(ctx context.Context, userID, taskID string) error {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.requireMember(ctx, t.ProjectID, userID); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return err
	}
	s.notifier.TaskDeleted(ctx, taskID, t.ProjectID)
	return nil
}

func (s *taskService) Deadlines(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.tasks.DeadlinesForUser(ctx, userID)
}

// ensureMembership auto-adds the assignee as a project member. Best-effort:
// a failure is logged and never fails the surrounding mutation.
func (s *taskService) ensureMembership(ctx context.Context, projectID, assigneeID string) {
	_, err := s.members.Get(ctx, projectID, assigneeID)
	if err == nil {
		return
	}
	if !errors.Is(err, domain.ErrNotFound) {
		logger.ErrorLog(ctx, "checking membership of assignee %s: %v", assigneeID, err)
		return
	}
	err = s.members.Add(ctx, &domain.ProjectMember{
		ProjectID: projectID,
		UserID:    assigneeID,
		Role:      domain.RoleMember,
	})
	if err != nil && !errors.Is(err, domain.ErrDuplicate) {
		logger.ErrorLog(ctx, "adding assignee %s to project %s: %v", assigneeID, projectID, err)
	}
}

// notifyAssignment persists the notification row, then attempts the live
// push. The two paths are independent: a missed push still leaves the row.
func (s *taskService) notifyAssignment(ctx context.Context, t *domain.Task, assigneeID string, reassigned bool) {
	projectName := "a project"
	if p, err := s.projects.GetByID(ctx, t.ProjectID); err == nil {
		projectName = p.Name
	}

	title := "New Task Assigned"
	message := fmt.Sprintf("You have been assigned to %q in %s", t.Title, projectName)
	if reassigned {
		title = "Task Reassigned"
		message = fmt.Sprintf("%q has been reassigned to you in %s", t.Title, projectName)
	}

	record := &domain.Notification{
		UserID:  assigneeID,
		Type:    domain.NotificationTaskAssigned,
		Title:   title,
		Message: message,
		Data:    notificationData(t),
	}
	if err := s.notifications.Create(ctx, record); err != nil {
		logger.ErrorLog(ctx, "persisting assignment notification for task %s: %v", t.ID, err)
		return
	}

	s.notifier.NotificationCreated(record, realtime.NewToast(
		realtime.ToastInfo, title, message, 8000))
}

func (s *taskService) notifyCompletion(ctx context.Context, t *domain.Task) {
	message := fmt.Sprintf("%q has been completed", t.Title)
	record := &domain.Notification{
		UserID:  t.CreatedBy,
		Type:    domain.NotificationTaskCompleted,
		Title:   "Task Completed",
		Message: message,
		Data:    notificationData(t),
	}
	if err := s.notifications.Create(ctx, record); err != nil {
		logger.ErrorLog(ctx, "persisting completion notification for task %s: %v", t.ID, err)
		return
	}

	s.notifier.NotificationCreated(record, realtime.NewToast(
		realtime.ToastSuccess, "Task Completed", message, 6000))
}

func notificationData(t *domain.Task) string {
	b, _ := json.Marshal(map[string]string{"taskId": t.ID, "projectId": t.ProjectID})
	return string(b)
}
