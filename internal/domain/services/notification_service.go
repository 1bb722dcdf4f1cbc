package services

import (
	"context"
	"fmt"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/client"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
)

// Notifications live at the root of the notification service
const notificationsPath = ""

// NotificationService reads and acknowledges in-app notifications
type NotificationService struct {
	api *client.Client
}

// NewNotificationService creates a new notification service
func NewNotificationService(api *client.Client) *NotificationService {
	return &NotificationService{api: api}
}

// List returns one page of notifications, newest first
func (s *NotificationService) List(ctx context.Context, params entities.ListParams, unreadOnly bool) (*entities.Page[entities.Notification], error) {
	q := listQuery(params)
	if unreadOnly {
		q["unread"] = "true"
	}
	raw, err := s.api.Get(ctx, notificationsPath, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return decodePage[entities.Notification](raw)
}

// MarkRead marks one notification as read
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	raw, err := s.api.Put(ctx, resourcePath(notificationsPath, id, "read"), nil)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return checkEnvelope(raw)
}

// MarkAllRead marks every notification as read
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	raw, err := s.api.Put(ctx, "/read-all", nil)
	if err != nil {
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	return checkEnvelope(raw)
}

// UnreadCount returns the number of unread notifications
func (s *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	raw, err := s.api.Get(ctx, "/unread-count", nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}
	count, err := decode[entities.UnreadCount](raw)
	if err != nil {
		return 0, err
	}
	return count.Count, nil
}
