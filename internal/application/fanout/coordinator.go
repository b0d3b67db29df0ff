// Package fanout delivers one notification to a group of recipients.
package fanout

import (
	"context"
	"log/slog"

	"github.com/learnlive/api/internal/domain"
	"github.com/learnlive/api/internal/metrics"
	"github.com/learnlive/api/internal/pkg/tasks"
)

type notifier interface {
	Create(ctx context.Context, req domain.CreateNotificationRequest) (*domain.Notification, error)
}

type studentLister interface {
	ListStudentsByClassLevel(ctx context.Context, classLevel string) ([]domain.User, error)
}

type scheduler interface {
	Submit(t tasks.Task)
}

// Coordinator expands a group target into per-recipient notifications. The
// recipient set is resolved before anything is queued, and each recipient
// becomes its own work item, so one slow or failing create never holds up
// the rest of the group.
type Coordinator struct {
	notifications notifier
	users         studentLister
	scheduler     scheduler
	logger        *slog.Logger
}

func NewCoordinator(notifications notifier, users studentLister, scheduler scheduler, logger *slog.Logger) *Coordinator {
	return &Coordinator{notifications: notifications, users: users, scheduler: scheduler, logger: logger}
}

// NotifyUser queues one work item creating the notification for one recipient.
func (c *Coordinator) NotifyUser(_ context.Context, userID string, req domain.CreateNotificationRequest) {
	req.UserID = userID
	c.scheduler.Submit(func(taskCtx context.Context) {
		if _, err := c.notifications.Create(taskCtx, req); err != nil {
			metrics.BackgroundTaskFailures.WithLabelValues("error").Inc()
			c.logger.Error("notification create failed", "user_id", userID, "title", req.Title, "err", err)
		}
	})
}

// NotifyStudentsInGrade notifies every student whose class level matches.
// The roster is read in the caller's context, so students enrolling after
// the call are not picked up.
func (c *Coordinator) NotifyStudentsInGrade(ctx context.Context, grade string, req domain.CreateNotificationRequest) {
	students, err := c.users.ListStudentsByClassLevel(ctx, grade)
	if err != nil {
		metrics.BackgroundTaskFailures.WithLabelValues("error").Inc()
		c.logger.Error("student lookup for fanout failed", "grade", grade, "err", err)
		return
	}
	for _, student := range students {
		c.NotifyUser(ctx, student.UserID, req)
	}
}

// NotifyUsers notifies an explicit recipient list, e.g. a course roster.
func (c *Coordinator) NotifyUsers(ctx context.Context, userIDs []string, req domain.CreateNotificationRequest) {
	for _, uid := range userIDs {
		c.NotifyUser(ctx, uid, req)
	}
}
