package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/learnlive/api/internal/application/push"
	"github.com/learnlive/api/internal/domain"
	"github.com/learnlive/api/internal/pkg/tasks"
)

// --- mocks ---

type mockStore struct{ mock.Mock }

func (m *mockStore) Put(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}
func (m *mockStore) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Notification), args.Error(1)
}
func (m *mockStore) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Notification), args.Error(1)
}
func (m *mockStore) MarkAsRead(ctx context.Context, notificationID string) error {
	return m.Called(ctx, notificationID).Error(0)
}
func (m *mockStore) Delete(ctx context.Context, notificationID string) error {
	return m.Called(ctx, notificationID).Error(0)
}

type mockTokens struct{ mock.Mock }

func (m *mockTokens) Upsert(ctx context.Context, userID, token, deviceType string) error {
	return m.Called(ctx, userID, token, deviceType).Error(0)
}

type mockDispatcher struct {
	mu       sync.Mutex
	messages []push.Message
	users    []string
}

func (m *mockDispatcher) Dispatch(_ context.Context, userID string, msg push.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append(m.users, userID)
	m.messages = append(m.messages, msg)
}

// inlineScheduler runs submitted tasks synchronously, so tests can assert on
// dispatch side effects without racing a worker pool.
type inlineScheduler struct{}

func (inlineScheduler) Submit(t tasks.Task) { t(context.Background()) }

func newTestService(store *mockStore, tokens *mockTokens, d *mockDispatcher) Service {
	return NewService(ServiceDeps{
		Repo:       store,
		Tokens:     tokens,
		Dispatcher: d,
		Scheduler:  inlineScheduler{},
	})
}

// --- tests ---

func TestCreate_PersistsAndDispatches(t *testing.T) {
	store := &mockStore{}
	store.On("Put", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.NotificationID != "" && n.UserID == "u1" && !n.IsRead
	})).Return(nil)

	d := &mockDispatcher{}
	svc := newTestService(store, nil, d)

	n, err := svc.Create(context.Background(), domain.CreateNotificationRequest{
		UserID:     "u1",
		Title:      "New Course Available",
		Message:    "A new course 'Algebra I' for Grade 8 is now available.",
		ActionType: domain.ActionCourse,
		ActionID:   "c1",
	})

	require.NoError(t, err)
	assert.False(t, n.CreatedAt.IsZero())
	require.Len(t, d.messages, 1)
	assert.Equal(t, "u1", d.users[0])
	assert.Equal(t, "New Course Available", d.messages[0].Title)
	assert.Equal(t, domain.ActionCourse, d.messages[0].Data["action_type"])
	assert.Equal(t, "c1", d.messages[0].Data["action_id"])
	store.AssertExpectations(t)
}

func TestCreate_MissingRequiredFields_RejectedBeforePersist(t *testing.T) {
	store := &mockStore{}
	d := &mockDispatcher{}
	svc := newTestService(store, nil, d)

	for _, req := range []domain.CreateNotificationRequest{
		{},
		{UserID: "u1"},
		{UserID: "u1", Title: "t"},
		{Title: "t", Message: "m"},
	} {
		_, err := svc.Create(context.Background(), req)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrBadRequest))
	}

	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	assert.Empty(t, d.messages)
}

func TestCreate_StoreError_NoDispatch(t *testing.T) {
	store := &mockStore{}
	store.On("Put", mock.Anything, mock.Anything).Return(errors.New("dynamo down"))

	d := &mockDispatcher{}
	svc := newTestService(store, nil, d)

	_, err := svc.Create(context.Background(), domain.CreateNotificationRequest{
		UserID: "u1", Title: "t", Message: "m",
	})

	require.Error(t, err)
	assert.Empty(t, d.messages)
}

func TestCreate_NoAction_OmitsDataKeys(t *testing.T) {
	store := &mockStore{}
	store.On("Put", mock.Anything, mock.Anything).Return(nil)

	d := &mockDispatcher{}
	svc := newTestService(store, nil, d)

	_, err := svc.Create(context.Background(), domain.CreateNotificationRequest{
		UserID: "u1", Title: "Welcome to LearnLive!", Message: "Welcome!",
	})

	require.NoError(t, err)
	require.Len(t, d.messages, 1)
	assert.NotContains(t, d.messages[0].Data, "action_type")
	assert.NotContains(t, d.messages[0].Data, "action_id")
}

func TestMarkAsRead_OtherUsersNotification_Forbidden(t *testing.T) {
	store := &mockStore{}
	store.On("Get", mock.Anything, "n1").Return(&domain.Notification{
		NotificationID: "n1", UserID: "someone-else",
	}, nil)

	svc := newTestService(store, nil, &mockDispatcher{})
	err := svc.MarkAsRead(context.Background(), "n1", "u1")

	assert.True(t, errors.Is(err, domain.ErrForbidden))
	store.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything)
}

func TestMarkAsRead_AlreadyRead_Succeeds(t *testing.T) {
	store := &mockStore{}
	store.On("Get", mock.Anything, "n1").Return(&domain.Notification{
		NotificationID: "n1", UserID: "u1", IsRead: true,
	}, nil)

	svc := newTestService(store, nil, &mockDispatcher{})
	err := svc.MarkAsRead(context.Background(), "n1", "u1")

	assert.NoError(t, err)
	store.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything)
}

func TestMarkAllAsRead_CountsMarked(t *testing.T) {
	store := &mockStore{}
	store.On("ListUnread", mock.Anything, "u1").Return([]domain.Notification{
		{NotificationID: "n1", UserID: "u1"},
		{NotificationID: "n2", UserID: "u1"},
	}, nil)
	store.On("MarkAsRead", mock.Anything, "n1").Return(nil)
	store.On("MarkAsRead", mock.Anything, "n2").Return(nil)

	svc := newTestService(store, nil, &mockDispatcher{})
	marked, err := svc.MarkAllAsRead(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, 2, marked)
	store.AssertExpectations(t)
}

func TestDelete_OtherUsersNotification_Forbidden(t *testing.T) {
	store := &mockStore{}
	store.On("Get", mock.Anything, "n1").Return(&domain.Notification{
		NotificationID: "n1", UserID: "someone-else",
	}, nil)

	svc := newTestService(store, nil, &mockDispatcher{})
	err := svc.Delete(context.Background(), "n1", "u1")

	assert.True(t, errors.Is(err, domain.ErrForbidden))
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRegisterDeviceToken_Upserts(t *testing.T) {
	tokens := &mockTokens{}
	tokens.On("Upsert", mock.Anything, "u1", "tok-1", domain.DeviceAndroid).Return(nil)

	svc := newTestService(&mockStore{}, tokens, &mockDispatcher{})
	err := svc.RegisterDeviceToken(context.Background(), "u1", domain.RegisterDeviceTokenRequest{
		DeviceToken: "tok-1",
		DeviceType:  domain.DeviceAndroid,
	})

	require.NoError(t, err)
	tokens.AssertExpectations(t)
}
