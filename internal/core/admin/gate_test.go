package admin_test

import (
	"context"
	"errors"
	"testing"

	"github.com/niksmo/storefront/internal/core/admin"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Get(
	ctx context.Context, sessionID, key string,
) (string, bool, error) {
	args := m.Called(ctx, sessionID, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockSessionStore) Set(
	ctx context.Context, sessionID, key, value string,
) error {
	args := m.Called(ctx, sessionID, key, value)
	return args.Error(0)
}

const (
	secret    = "786512"
	sessionID = "session-1"
)

func TestGateUnlock(t *testing.T) {
	t.Run("ExactSecret", func(t *testing.T) {
		sessions := new(MockSessionStore)
		sessions.On("Set", t.Context(), sessionID, admin.SessionKey, "unlocked").
			Return(nil).Once()

		gate := admin.NewGate(secret, sessions)

		require.NoError(t, gate.Unlock(t.Context(), sessionID, secret))
		sessions.AssertExpectations(t)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		for _, attempt := range []string{"", "786513", " 786512", "786512 "} {
			sessions := new(MockSessionStore)
			gate := admin.NewGate(secret, sessions)

			err := gate.Unlock(t.Context(), sessionID, attempt)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrAdminRejected)
			sessions.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		}
	})

	t.Run("NoSecretConfigured", func(t *testing.T) {
		sessions := new(MockSessionStore)
		gate := admin.NewGate("", sessions)

		err := gate.Unlock(t.Context(), sessionID, "")
		assert.ErrorIs(t, err, domain.ErrAdminRejected)
	})

	t.Run("SessionStoreFailure", func(t *testing.T) {
		storeErr := errors.New("connection refused")
		sessions := new(MockSessionStore)
		sessions.On("Set", t.Context(), sessionID, admin.SessionKey, "unlocked").
			Return(storeErr)

		gate := admin.NewGate(secret, sessions)

		err := gate.Unlock(t.Context(), sessionID, secret)
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestGateState(t *testing.T) {
	tests := []struct {
		name  string
		value string
		ok    bool
		err   error
		want  admin.State
	}{
		{"Unset", "", false, nil, admin.Locked},
		{"Unlocked", "unlocked", true, nil, admin.Unlocked},
		{"ForeignValue", "786512", true, nil, admin.Locked},
		{"StoreFailure", "", false, errors.New("timeout"), admin.Locked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := new(MockSessionStore)
			sessions.On("Get", t.Context(), sessionID, admin.SessionKey).
				Return(tt.value, tt.ok, tt.err)

			gate := admin.NewGate(secret, sessions)

			assert.Equal(t, tt.want, gate.State(t.Context(), sessionID))
			assert.Equal(t, tt.want == admin.Unlocked, gate.Unlocked(t.Context(), sessionID))
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "locked", admin.Locked.String())
	assert.Equal(t, "unlocked", admin.Unlocked.String())
}
