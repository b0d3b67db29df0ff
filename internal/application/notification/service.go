// Package notification persists in-app notifications and hands each one to
// the push dispatcher for best-effort device delivery.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/learnlive/api/internal/application/push"
	"github.com/learnlive/api/internal/domain"
	"github.com/learnlive/api/internal/metrics"
	"github.com/learnlive/api/internal/pkg/id"
	"github.com/learnlive/api/internal/pkg/tasks"
	"github.com/learnlive/api/internal/pkg/validate"
)

type Service interface {
	Create(ctx context.Context, req domain.CreateNotificationRequest) (*domain.Notification, error)
	List(ctx context.Context, userID string) ([]domain.Notification, error)
	ListUnread(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID, userID string) error
	MarkAllAsRead(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, notificationID, userID string) error
	RegisterDeviceToken(ctx context.Context, userID string, req domain.RegisterDeviceTokenRequest) error
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	ListUnread(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID string) error
	Delete(ctx context.Context, notificationID string) error
}

type tokenStore interface {
	Upsert(ctx context.Context, userID, token, deviceType string) error
}

type dispatcher interface {
	Dispatch(ctx context.Context, userID string, msg push.Message)
}

type scheduler interface {
	Submit(t tasks.Task)
}

type service struct {
	repo       notificationStore
	tokens     tokenStore
	dispatcher dispatcher
	scheduler  scheduler
}

type ServiceDeps struct {
	Repo       notificationStore
	Tokens     tokenStore
	Dispatcher dispatcher
	Scheduler  scheduler
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:       deps.Repo,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		scheduler:  deps.Scheduler,
	}
}

// Create stores the notification, then schedules a push dispatch. The write
// is the source of truth: a push failure never surfaces to the caller.
func (s *service) Create(ctx context.Context, req domain.CreateNotificationRequest) (*domain.Notification, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid notification: %v: %w", err, domain.ErrBadRequest)
	}
	n := &domain.Notification{
		NotificationID: id.New(),
		UserID:         req.UserID,
		Title:          req.Title,
		Message:        req.Message,
		ActionType:     req.ActionType,
		ActionID:       req.ActionID,
		ImageURL:       req.ImageURL,
		IsRead:         false,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, n); err != nil {
		return nil, err
	}
	metrics.NotificationsCreated.WithLabelValues(n.ActionType).Inc()

	msg := push.Message{
		Title: n.Title,
		Body:  n.Message,
		Data:  map[string]string{},
	}
	if n.ActionType != "" {
		msg.Data["action_type"] = n.ActionType
	}
	if n.ActionID != "" {
		msg.Data["action_id"] = n.ActionID
	}
	userID := n.UserID
	s.scheduler.Submit(func(taskCtx context.Context) {
		s.dispatcher.Dispatch(taskCtx, userID, msg)
	})

	return n, nil
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.repo.ListUnread(ctx, userID)
}

// MarkAsRead is idempotent: marking an already-read notification succeeds.
func (s *service) MarkAsRead(ctx context.Context, notificationID, userID string) error {
	n, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return fmt.Errorf("you can only mark your own notifications as read: %w", domain.ErrForbidden)
	}
	if n.IsRead {
		return nil
	}
	return s.repo.MarkAsRead(ctx, notificationID)
}

// MarkAllAsRead marks every unread notification and returns how many changed.
func (s *service) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	unread, err := s.repo.ListUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	marked := 0
	for _, n := range unread {
		if err := s.repo.MarkAsRead(ctx, n.NotificationID); err != nil {
			return marked, err
		}
		marked++
	}
	return marked, nil
}

func (s *service) Delete(ctx context.Context, notificationID, userID string) error {
	n, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return fmt.Errorf("you can only delete your own notifications: %w", domain.ErrForbidden)
	}
	return s.repo.Delete(ctx, notificationID)
}

func (s *service) RegisterDeviceToken(ctx context.Context, userID string, req domain.RegisterDeviceTokenRequest) error {
	return s.tokens.Upsert(ctx, userID, req.DeviceToken, req.DeviceType)
}
