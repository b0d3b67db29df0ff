package push

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/learnlive/api/internal/domain"
)

// --- mocks ---

type mockProvider struct{ mock.Mock }

func (m *mockProvider) Send(ctx context.Context, tokens []string, msg Message) ([]Result, error) {
	args := m.Called(ctx, tokens, msg)
	if r, _ := args.Get(0).([]Result); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRegistry struct{ mock.Mock }

func (m *mockRegistry) TokensFor(ctx context.Context, userID string) ([]domain.DeviceToken, error) {
	args := m.Called(ctx, userID)
	if t, _ := args.Get(0).([]domain.DeviceToken); t != nil {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockRegistry) DeleteByToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func tokens(values ...string) []domain.DeviceToken {
	out := make([]domain.DeviceToken, len(values))
	for i, v := range values {
		out[i] = domain.DeviceToken{UserID: "u1", Token: v, DeviceType: domain.DeviceAndroid}
	}
	return out
}

var msg = Message{Title: "New Course Available", Body: "A new course is available."}

// --- tests ---

func TestDispatch_NoTokens_SkipsProvider(t *testing.T) {
	reg := &mockRegistry{}
	reg.On("TokensFor", mock.Anything, "u1").Return([]domain.DeviceToken{}, nil)
	prov := &mockProvider{}

	d := NewDispatcher(prov, reg, slog.Default())
	d.Dispatch(context.Background(), "u1", msg)

	prov.AssertNotCalled(t, "Send")
	reg.AssertExpectations(t)
}

func TestDispatch_RegistryError_NeverPanics(t *testing.T) {
	reg := &mockRegistry{}
	reg.On("TokensFor", mock.Anything, "u1").Return(nil, errors.New("dynamo down"))
	prov := &mockProvider{}

	d := NewDispatcher(prov, reg, slog.Default())
	d.Dispatch(context.Background(), "u1", msg)

	prov.AssertNotCalled(t, "Send")
}

func TestDispatch_DeletesDeadTokensOnly(t *testing.T) {
	reg := &mockRegistry{}
	reg.On("TokensFor", mock.Anything, "u1").Return(tokens("a", "b", "c", "d"), nil)
	reg.On("DeleteByToken", mock.Anything, "b").Return(nil)
	reg.On("DeleteByToken", mock.Anything, "c").Return(nil)

	prov := &mockProvider{}
	prov.On("Send", mock.Anything, []string{"a", "b", "c", "d"}, msg).Return([]Result{
		{Success: true},
		{Reason: ReasonUnregistered},
		{Reason: ReasonInvalidToken},
		{Reason: ReasonUnavailable}, // transient, must not be deleted
	}, nil)

	d := NewDispatcher(prov, reg, slog.Default())
	d.Dispatch(context.Background(), "u1", msg)

	reg.AssertExpectations(t)
	reg.AssertNotCalled(t, "DeleteByToken", mock.Anything, "a")
	reg.AssertNotCalled(t, "DeleteByToken", mock.Anything, "d")
}

func TestDispatch_ProviderError_LeavesTokensAlone(t *testing.T) {
	reg := &mockRegistry{}
	reg.On("TokensFor", mock.Anything, "u1").Return(tokens("a"), nil)

	prov := &mockProvider{}
	prov.On("Send", mock.Anything, []string{"a"}, msg).Return(nil, errors.New("fcm outage"))

	d := NewDispatcher(prov, reg, slog.Default())
	d.Dispatch(context.Background(), "u1", msg)

	reg.AssertNotCalled(t, "DeleteByToken", mock.Anything, mock.Anything)
}

func TestDispatch_DeleteFailure_ContinuesWithRemaining(t *testing.T) {
	reg := &mockRegistry{}
	reg.On("TokensFor", mock.Anything, "u1").Return(tokens("a", "b"), nil)
	reg.On("DeleteByToken", mock.Anything, "a").Return(errors.New("delete failed"))
	reg.On("DeleteByToken", mock.Anything, "b").Return(nil)

	prov := &mockProvider{}
	prov.On("Send", mock.Anything, []string{"a", "b"}, msg).Return([]Result{
		{Reason: ReasonUnregistered},
		{Reason: ReasonUnregistered},
	}, nil)

	d := NewDispatcher(prov, reg, slog.Default())
	d.Dispatch(context.Background(), "u1", msg)

	reg.AssertExpectations(t)
}

func TestDisabledProvider_AllSuccess(t *testing.T) {
	results, err := Disabled{}.Send(context.Background(), []string{"a", "b"}, msg)
	assert.NoError(t, err)
	assert.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, r.Success)
	}
}
