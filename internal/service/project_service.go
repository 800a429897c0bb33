package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/synergysphere/backend/internal/domain"
	"github.com/synergysphere/backend/internal/realtime"
)

type CreateProjectInput struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Priority    string      `json:"priority"`
	Deadline    *time.Time  `json:"deadline"`
	Tags        domain.Tags `json:"tags"`
}

type UpdateProjectInput struct {
	Name             *string     `json:"name"`
	Description      *string     `json:"description"`
	Image            *string     `json:"image"`
	Priority         *string     `json:"priority"`
	Status           *string     `json:"status"`
	Deadline         *time.Time  `json:"deadline"`
	ProjectManagerID *string     `json:"projectManagerId"`
	Tags             *domain.Tags `json:"tags"`
}

type AddMemberInput struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type ProjectService interface {
	List(ctx context.Context, userID string) ([]domain.Project, error)
	Get(ctx context.Context, userID, projectID string) (*domain.Project, error)
	Create(ctx context.Context, userID string, in CreateProjectInput) (*domain.Project, error)
	Update(ctx context.Context, userID, projectID string, in UpdateProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, userID, projectID string) error

	Members(ctx context.Context, userID, projectID string) ([]domain.ProjectMember, error)
	AddMember(ctx context.Context, userID, projectID string, in AddMemberInput) (*domain.ProjectMember, error)
	RemoveMember(ctx context.Context, userID, projectID, memberUserID string) error

	Deadlines(ctx context.Context, userID string) ([]domain.Project, error)
}

type projectService struct {
	projects domain.ProjectRepository
	members  domain.MemberRepository
	notifier *realtime.Notifier
}

func NewProjectService(projects domain.ProjectRepository, members domain.MemberRepository, notifier *realtime.Notifier) ProjectService {
	return &projectService{projects: projects, members: members, notifier: notifier}
}

// requireMember returns the caller's membership row or ErrForbidden.
func (s *projectService) requireMember(ctx context.Context, projectID, userID string) (*domain.ProjectMember, error) {
	m, err := s.members.Get(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	return m, nil
}

func (s *projectService) List(ctx context.Context, userID string) ([]domain.Project, error) {
	return s.projects.ListForUser(ctx, userID)
}

func (s *projectService) Get(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	if _, err := s.requireMember(ctx, projectID, userID); err != nil {
		// Hide existence from non-members.
		if errors.Is(err, domain.ErrForbidden) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s.projects.GetByID(ctx, projectID)
}

func (s *projectService) Create(ctx context.Context, userID string, in CreateProjectInput) (*domain.Project, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: project name is required", domain.ErrInvalid)
	}
	if in.Priority != "" && !domain.ValidPriority(in.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrInvalid, in.Priority)
	}

	p := &domain.Project{
		Name:             strings.TrimSpace(in.Name),
		Description:      in.Description,
		Image:            in.Image,
		Priority:         in.Priority,
		Deadline:         in.Deadline,
		ProjectManagerID: &userID,
		Tags:             in.Tags,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}

	// The creator joins as owner.
	if err := s.members.Add(ctx, &domain.ProjectMember{
		ProjectID: p.ID,
		UserID:    userID,
		Role:      domain.RoleOwner,
	}); err != nil {
		return nil, err
	}

	s.notifier.ProjectCreated(p, userID)
	return p, nil
}

func (s *projectService) Update(ctx context.Context, userID, projectID string, in UpdateProjectInput) (*domain.Project, error) {
	if _, err := s.requireMember(ctx, projectID, userID); err != nil {
		return nil, err
	}

	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	managerChanged := false
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("%w: project name is required", domain.ErrInvalid)
		}
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.Priority != nil {
		if !domain.ValidPriority(*in.Priority) {
			return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrInvalid, *in.Priority)
		}
		p.Priority = *in.Priority
	}
	if in.Status != nil {
		switch *in.Status {
		case domain.ProjectStatusActive, domain.ProjectStatusCompleted,
			domain.ProjectStatusOnHold, domain.ProjectStatusCancelled:
		default:
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalid, *in.Status)
		}
		p.Status = *in.Status
	}
	if in.Deadline != nil {
		p.Deadline = in.Deadline
	}
	if in.ProjectManagerID != nil {
		managerChanged = p.ProjectManagerID == nil || *p.ProjectManagerID != *in.ProjectManagerID
		p.ProjectManagerID = in.ProjectManagerID
	}
	if in.Tags != nil {
		p.Tags = *in.Tags
	}

	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}

	s.notifier.ProjectUpdated(ctx, p)
	if managerChanged && p.ProjectManagerID != nil && *p.ProjectManagerID != userID {
		s.notifier.SendToast(*p.ProjectManagerID, realtime.NewToast(
			realtime.ToastInfo,
			"Project Manager Assigned",
			fmt.Sprintf("You have been assigned as manager of %q", p.Name),
			6000,
		))
	}
	return p, nil
}

func (s *projectService) Delete(ctx context.Context, userID, projectID string) error {
	m, err := s.requireMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if m.Role != domain.RoleOwner {
		return fmt.Errorf("only project owners can delete projects: %w", domain.ErrForbidden)
	}

	// Resolve the member set before the cascade removes it, so the deletion
	// broadcast still reaches everyone.
	memberIDs, resolveErr := s.members.MemberIDs(ctx, projectID)

	if err := s.projects.Delete(ctx, projectID); err != nil {
		return err
	}

	msg := &realtime.Message{
		Type:      realtime.TypeProjectDeleted,
		Data:      map[string]string{"id": projectID},
		ProjectID: projectID,
	}
	if resolveErr == nil {
		for _, id := range memberIDs {
			s.notifier.NotifyUser(id, msg)
		}
	} else {
		s.notifier.NotifyUser(userID, msg)
	}
	return nil
}

func (s *projectService) Members(ctx context.Context, userID, projectID string) ([]domain.ProjectMember, error) {
	if _, err := s.requireMember(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.members.ListByProject(ctx, projectID)
}

// requireManager allows owners and managers through.
func (s *projectService) requireManager(ctx context.Context, projectID, userID string) error {
	m, err := s.requireMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if m.Role != domain.RoleOwner && m.Role != domain.RoleManager {
		return domain.ErrForbidden
	}
	return nil
}

func (s *projectService) AddMember(ctx context.Context, userID, projectID string, in AddMemberInput) (*domain.ProjectMember, error) {
	if err := s.requireManager(ctx, projectID, userID); err != nil {
		return nil, err
	}
	if in.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", domain.ErrInvalid)
	}
	if in.Role == "" {
		in.Role = domain.RoleMember
	}
	if in.Role == domain.RoleOwner || !domain.ValidRole(in.Role) {
		return nil, fmt.Errorf("%w: role must be manager or member", domain.ErrInvalid)
	}

	m := &domain.ProjectMember{ProjectID: projectID, UserID: in.UserID, Role: in.Role}
	if err := s.members.Add(ctx, m); err != nil {
		return nil, err
	}

	s.notifier.MemberAdded(ctx, m)
	return m, nil
}

func (s *projectService) RemoveMember(ctx context.Context, userID, projectID, memberUserID string) error {
	if err := s.requireManager(ctx, projectID, userID); err != nil {
		return err
	}
	if err := s.members.Remove(ctx, projectID, memberUserID); err != nil {
		return err
	}
	s.notifier.MemberRemoved(ctx, projectID, memberUserID)
	return nil
}

func (s *projectService) Deadlines(ctx context.Context, userID string) ([]domain.Project, error) {
	return s.projects.DeadlinesForUser(ctx, userID)
}
