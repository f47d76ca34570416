package services

import (
	"context"
	"log"
	"strconv"

	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/repository"
	notifyws "github.com/rafay-47/sports-pass-app-backend-sub000/internal/websocket"
)

type notificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID int64, unreadOnly bool, offset, limit int) ([]models.Notification, int, error)
	MarkRead(ctx context.Context, notificationID, userID int64) (*models.Notification, error)
}

type NotificationService struct {
	notificationRepo notificationStore
	hub              *notifyws.Hub
}

func NewNotificationService(notificationRepo notificationStore, hub *notifyws.Hub) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		hub:              hub,
	}
}

// Dispatch persists a notification and pushes it to the user's open sockets.
// Socket delivery is best effort; the database row is the source of truth.
func (s *NotificationService) Dispatch(ctx context.Context, notification *models.Notification) error {
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return err
	}
	s.Push(notification)
	return nil
}

// Push broadcasts an already-persisted notification to the user's sockets.
// Used after transactions that insert the row themselves.
func (s *NotificationService) Push(notification *models.Notification) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(&notifyws.Message{
		Type:   "notification",
		UserID: strconv.FormatInt(notification.UserID, 10),
		Kind:   notification.Kind,
		Title:  notification.Title,
		Body:   notification.Body,
	})
}

func (s *NotificationService) List(
	ctx context.Context,
	userID int64,
	unreadOnly bool,
	offset int,
	limit int,
) ([]models.Notification, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.notificationRepo.ListByUser(ctx, userID, unreadOnly, offset, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID int64) (*models.Notification, error) {
	return s.notificationRepo.MarkRead(ctx, notificationID, userID)
}

var _ notificationStore = (*repository.NotificationRepository)(nil)

func logDispatchFailure(kind string, err error) {
	log.Printf("notifications: dispatch %s failed: %v", kind, err)
}
