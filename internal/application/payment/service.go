package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/learnlive/api/internal/domain"
	"github.com/learnlive/api/internal/pkg/id"
)

type Service interface {
	Process(ctx context.Context, student *domain.User, req domain.PaymentRequest) (*domain.Payment, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Payment, error)
}

type paymentStore interface {
	Put(ctx context.Context, p *domain.Payment) error
	ListByUser(ctx context.Context, userID string) ([]domain.Payment, error)
}

type courseStore interface {
	Get(ctx context.Context, courseID string) (*domain.Course, error)
	AddStudent(ctx context.Context, courseID, userID string) error
}

type notifier interface {
	NotifyUser(ctx context.Context, userID string, req domain.CreateNotificationRequest)
}

type service struct {
	repo    paymentStore
	courses courseStore
	fanout  notifier
}

type ServiceDeps struct {
	Repo    paymentStore
	Courses courseStore
	Fanout  notifier
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:    deps.Repo,
		courses: deps.Courses,
		fanout:  deps.Fanout,
	}
}

// Process records the payment, enrolls the student if needed, and notifies
// both the student and the teacher.
func (s *service) Process(ctx context.Context, student *domain.User, req domain.PaymentRequest) (*domain.Payment, error) {
	c, err := s.courses.Get(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	p := &domain.Payment{
		PaymentID:       id.New(),
		UserID:          student.UserID,
		CourseID:        req.CourseID,
		Amount:          req.Amount,
		Status:          "success",
		PaymentMethod:   req.PaymentMethod,
		TransactionDate: time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}

	if !c.Enrolled(student.UserID) {
		// Paying again for a course you're already in is not an error.
		if err := s.courses.AddStudent(ctx, req.CourseID, student.UserID); err != nil && !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
	}

	studentNote := domain.CreateNotificationRequest{
		Title:      "Payment Successful",
		Message:    fmt.Sprintf("Your payment of $%v for '%s' was successful.", req.Amount, c.Title),
		ActionType: domain.ActionPayment,
	}
	teacherNote := domain.CreateNotificationRequest{
		Title:      "New Payment Received",
		Message:    fmt.Sprintf("%s has made a payment of $%v for '%s'.", student.Name, req.Amount, c.Title),
		ActionType: domain.ActionPayment,
	}
	s.fanout.NotifyUser(ctx, student.UserID, studentNote)
	s.fanout.NotifyUser(ctx, c.TeacherID, teacherNote)

	return p, nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	return s.repo.ListByUser(ctx, userID)
}
