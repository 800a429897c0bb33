package service

import (
	"context"

	"github.com/synergysphere/backend/internal/domain"
)

// UnreadList is the payload of the unread endpoint.
type UnreadList struct {
	Count         int                   `json:"count"`
	Notifications []domain.Notification `json:"notifications"`
}

type NotificationService interface {
	List(ctx context.Context, userID string) ([]domain.Notification, error)
	Unread(ctx context.Context, userID string) (*UnreadList, error)
	MarkRead(ctx context.Context, userID, notificationID string) (*domain.Notification, error)
}

type notificationService struct {
	notifications domain.NotificationRepository
}

func NewNotificationService(notifications domain.NotificationRepository) NotificationService {
	return &notificationService{notifications: notifications}
}

func (s *notificationService) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.notifications.ListByUser(ctx, userID)
}

func (s *notificationService) Unread(ctx context.Context, userID string) (*UnreadList, error) {
	list, err := s.notifications.ListUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UnreadList{Count: len(list), Notifications: list}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) (*domain.Notification, error) {
	return s.notifications.MarkRead(ctx, notificationID, userID)
}
