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

type CreateEventInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	AllDay      bool       `json:"allDay"`
	Color       string     `json:"color"`
	Location    string     `json:"location"`
	ProjectID   *string    `json:"projectId"`
	TaskID      *string    `json:"taskId"`
}

type UpdateEventInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Start       *time.Time `json:"start"`
	End         *time.Time `json:"end"`
	AllDay      *bool      `json:"allDay"`
	Color       *string    `json:"color"`
	Location    *string    `json:"location"`
	ProjectID   *string    `json:"projectId"`
	TaskID      *string    `json:"taskId"`
}

type EventService interface {
	List(ctx context.Context, userID string) ([]domain.Event, error)
	ListRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Event, error)
	Get(ctx context.Context, userID, eventID string) (*domain.Event, error)
	Create(ctx context.Context, userID string, in CreateEventInput) (*domain.Event, error)
	Update(ctx context.Context, userID, eventID string, in UpdateEventInput) (*domain.Event, error)
	Delete(ctx context.Context, userID, eventID string) error
}

type eventService struct {
	events   domain.EventRepository
	members  domain.MemberRepository
	notifier *realtime.Notifier
}

func NewEventService(events domain.EventRepository, members domain.MemberRepository, notifier *realtime.Notifier) EventService {
	return &eventService{events: events, members: members, notifier: notifier}
}

func (s *eventService) isMember(ctx context.Context, projectID, userID string) (bool, error) {
	_, err := s.members.Get(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// canTouch reports whether the user created the event or belongs to its
// project.
func (s *eventService) canTouch(ctx context.Context, e *domain.Event, userID string) (bool, error) {
	if e.CreatedBy == userID {
		return true, nil
	}
	if e.ProjectID == nil {
		return false, nil
	}
	return s.isMember(ctx, *e.ProjectID, userID)
}

func (s *eventService) List(ctx context.Context, userID string) ([]domain.Event, error) {
	return s.events.ListForUser(ctx, userID)
}

func (s *eventService) ListRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Event, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("%w: range end must be after start", domain.ErrInvalid)
	}
	return s.events.ListRange(ctx, userID, start, end)
}

func (s *eventService) Get(ctx context.Context, userID, eventID string) (*domain.Event, error) {
	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	ok, err := s.canTouch(ctx, e, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (s *eventService) Create(ctx context.Context, userID string, in CreateEventInput) (*domain.Event, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: event title is required", domain.ErrInvalid)
	}
	if in.Start.IsZero() || in.End.IsZero() {
		return nil, fmt.Errorf("%w: start and end are required", domain.ErrInvalid)
	}
	if !in.End.After(in.Start) {
		return nil, fmt.Errorf("%w: event end must be after start", domain.ErrInvalid)
	}
	if in.Color != "" && !domain.EventColors[in.Color] {
		return nil, fmt.Errorf("%w: unknown color %q", domain.ErrInvalid, in.Color)
	}
	if in.ProjectID != nil {
		ok, err := s.isMember(ctx, *in.ProjectID, userID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrForbidden
		}
	}

	e := &domain.Event{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Start:       in.Start,
		End:         in.End,
		AllDay:      in.AllDay,
		Color:       in.Color,
		Location:    in.Location,
		ProjectID:   in.ProjectID,
		TaskID:      in.TaskID,
		CreatedBy:   userID,
	}
	if err := s.events.Create(ctx, e); err != nil {
		return nil, err
	}

	s.notifier.EventCreated(ctx, e, userID)
	return e, nil
}

func (s *eventService) Update(ctx context.Context, userID, eventID string, in UpdateEventInput) (*domain.Event, error) {
	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	ok, err := s.canTouch(ctx, e, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrForbidden
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, fmt.Errorf("%w: event title is required", domain.ErrInvalid)
		}
		e.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.Start != nil {
		e.Start = *in.Start
	}
	if in.End != nil {
		e.End = *in.End
	}
	if in.AllDay != nil {
		e.AllDay = *in.AllDay
	}
	if in.Color != nil {
		if *in.Color != "" && !domain.EventColors[*in.Color] {
			return nil, fmt.Errorf("%w: unknown color %q", domain.ErrInvalid, *in.Color)
		}
		e.Color = *in.Color
	}
	if in.Location != nil {
		e.Location = *in.Location
	}
	if in.ProjectID != nil {
		e.ProjectID = in.ProjectID
	}
	if in.TaskID != nil {
		e.TaskID = in.TaskID
	}
	if !e.End.After(e.Start) {
		return nil, fmt.Errorf("%w: event end must be after start", domain.ErrInvalid)
	}

	if err := s.events.Update(ctx, e); err != nil {
		return nil, err
	}

	s.notifier.EventUpdated(ctx, e, userID)
	return e, nil
}

func (s *eventService) Delete(ctx context.Context, userID, eventID string) error {
	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	ok, err := s.canTouch(ctx, e, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrForbidden
	}

	if err := s.events.Delete(ctx, eventID); err != nil {
		return err
	}

	s.notifier.EventDeleted(eventID, e.CreatedBy)
	return nil
}
