package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/learnlive/api/internal/domain"
	"github.com/learnlive/api/internal/pkg/id"
)

type Service interface {
	Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	UpdateClassLevel(ctx context.Context, userID, classLevel string) (*domain.User, error)
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type jwtSigner interface {
	Sign(userID, name, role, classLevel string) (string, error)
}

type notifier interface {
	NotifyUser(ctx context.Context, userID string, req domain.CreateNotificationRequest)
}

type service struct {
	repo   userStore
	jwt    jwtSigner
	fanout notifier
}

type ServiceDeps struct {
	Repo   userStore
	JWT    jwtSigner
	Fanout notifier
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:   deps.Repo,
		jwt:    deps.JWT,
		fanout: deps.Fanout,
	}
}

// Register creates the account and queues the welcome notification.
func (s *service) Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		UserID:       id.New(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         req.Role,
		ClassLevel:   req.ClassLevel,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}

	welcome := domain.CreateNotificationRequest{
		Title:      "Welcome to LearnLive!",
		Message:    fmt.Sprintf("Welcome %s! We're excited to have you join our platform.", u.Name),
		ActionType: domain.ActionWelcome,
	}
	s.fanout.NotifyUser(ctx, u.UserID, welcome)

	return u, nil
}

// Authenticate verifies the credentials and returns a signed bearer token.
// A wrong email and a wrong password are indistinguishable to the caller.
func (s *service) Authenticate(ctx context.Context, email, password string) (string, error) {
	if s.jwt == nil {
		return "", fmt.Errorf("token signing is not configured: %w", domain.ErrUnavailable)
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("incorrect email or password: %w", domain.ErrUnauthorized)
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", fmt.Errorf("incorrect email or password: %w", domain.ErrUnauthorized)
	}
	return s.jwt.Sign(u.UserID, u.Name, u.Role, u.ClassLevel)
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

// UpdateClassLevel changes a student's grade and notifies them.
func (s *service) UpdateClassLevel(ctx context.Context, userID, classLevel string) (*domain.User, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role != domain.RoleStudent {
		return nil, fmt.Errorf("only students can update class level: %w", domain.ErrBadRequest)
	}
	if err := s.repo.Update(ctx, userID, map[string]interface{}{"class_level": classLevel}); err != nil {
		return nil, err
	}
	u.ClassLevel = classLevel

	note := domain.CreateNotificationRequest{
		Title:      "Class Level Updated",
		Message:    fmt.Sprintf("Your class level has been updated to Grade %s.", classLevel),
		ActionType: domain.ActionProfileUpdate,
	}
	s.fanout.NotifyUser(ctx, userID, note)

	return u, nil
}
