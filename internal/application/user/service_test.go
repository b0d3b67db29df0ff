package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnlive/api/internal/domain"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}

type mockJWTSigner struct{ mock.Mock }

func (m *mockJWTSigner) Sign(userID, name, role, classLevel string) (string, error) {
	args := m.Called(userID, name, role, classLevel)
	return args.String(0), args.Error(1)
}

type mockFanout struct{ mock.Mock }

func (m *mockFanout) NotifyUser(ctx context.Context, userID string, req domain.CreateNotificationRequest) {
	m.Called(ctx, userID, req)
}

func newTestService(us *mockUserStore, jwt *mockJWTSigner, fan *mockFanout) Service {
	return NewService(ServiceDeps{
		Repo:   us,
		JWT:    jwt,
		Fanout: fan,
	})
}

func baseReq() domain.CreateUserRequest {
	return domain.CreateUserRequest{
		Email:      "alice@example.com",
		Name:       "Alice",
		Password:   "password123",
		Role:       domain.RoleStudent,
		ClassLevel: "8",
	}
}

// --- Register tests ---

func TestRegister_EmailConflict(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(&domain.User{}, nil)

	svc := newTestService(us, nil, &mockFanout{})
	_, err := svc.Register(context.Background(), baseReq())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	us.AssertExpectations(t)
}

func TestRegister_Success_SendsWelcome(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.UserID != "" && u.Email == "alice@example.com" &&
			u.PasswordHash != "" && u.PasswordHash != "password123"
	})).Return(nil)

	fan := &mockFanout{}
	fan.On("NotifyUser", mock.Anything, mock.Anything, mock.MatchedBy(func(req domain.CreateNotificationRequest) bool {
		return req.Title == "Welcome to LearnLive!" && req.ActionType == domain.ActionWelcome
	})).Return()

	svc := newTestService(us, nil, fan)
	u, err := svc.Register(context.Background(), baseReq())

	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, u.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")))
	us.AssertExpectations(t)
	fan.AssertExpectations(t)
}

// --- Authenticate tests ---

func TestAuthenticate_UnknownEmail(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, domain.ErrNotFound)

	svc := newTestService(us, nil, &mockFanout{})
	_, err := svc.Authenticate(context.Background(), "alice@example.com", "password123")

	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(&domain.User{
		UserID: "u1", PasswordHash: string(hash),
	}, nil)

	svc := newTestService(us, nil, &mockFanout{})
	_, err = svc.Authenticate(context.Background(), "alice@example.com", "wrong")

	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestAuthenticate_Success_ReturnsToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(&domain.User{
		UserID: "u1", Name: "Alice", Role: domain.RoleStudent, ClassLevel: "8",
		PasswordHash: string(hash),
	}, nil)

	jwt := &mockJWTSigner{}
	jwt.On("Sign", "u1", "Alice", domain.RoleStudent, "8").Return("signed-token", nil)

	svc := newTestService(us, jwt, &mockFanout{})
	token, err := svc.Authenticate(context.Background(), "alice@example.com", "password123")

	require.NoError(t, err)
	assert.Equal(t, "signed-token", token)
	jwt.AssertExpectations(t)
}

func TestAuthenticate_NoSignerConfigured_Unavailable(t *testing.T) {
	us := &mockUserStore{}

	svc := NewService(ServiceDeps{Repo: us, Fanout: &mockFanout{}})
	_, err := svc.Authenticate(context.Background(), "alice@example.com", "password123")

	assert.True(t, errors.Is(err, domain.ErrUnavailable))
	us.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

// --- UpdateClassLevel tests ---

func TestUpdateClassLevel_TeacherRejected(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{
		UserID: "u1", Role: domain.RoleTeacher,
	}, nil)

	svc := newTestService(us, nil, &mockFanout{})
	_, err := svc.UpdateClassLevel(context.Background(), "u1", "9")

	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	us.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateClassLevel_Success_Notifies(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{
		UserID: "u1", Role: domain.RoleStudent, ClassLevel: "8",
	}, nil)
	us.On("Update", mock.Anything, "u1", map[string]interface{}{"class_level": "9"}).Return(nil)

	fan := &mockFanout{}
	fan.On("NotifyUser", mock.Anything, "u1", mock.MatchedBy(func(req domain.CreateNotificationRequest) bool {
		return req.Title == "Class Level Updated" && req.ActionType == domain.ActionProfileUpdate
	})).Return()

	svc := newTestService(us, nil, fan)
	u, err := svc.UpdateClassLevel(context.Background(), "u1", "9")

	require.NoError(t, err)
	assert.Equal(t, "9", u.ClassLevel)
	us.AssertExpectations(t)
	fan.AssertExpectations(t)
}
