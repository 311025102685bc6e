package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Register(ctx context.Context, req RegisterRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockBackend) Login(ctx context.Context, c Credentials) (string, error) {
	args := m.Called(ctx, c)
	return args.String(0), args.Error(1)
}

// memoryTokens хранит токен в памяти
type memoryTokens struct {
	token   string
	saveErr error
}

func (m *memoryTokens) Load() (string, error) { return m.token, nil }

func (m *memoryTokens) Save(token string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.token = token
	return nil
}

func (m *memoryTokens) Clear() error {
	m.token = ""
	return nil
}

func signedToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := token.SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return s
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		backend := new(MockBackend)
		req := validRegister()
		backend.On("Register", ctx, req).Return(nil)

		svc := NewService(backend, &memoryTokens{}, NewRequestValidator(), slog.Default())
		padded := req
		padded.Email = "  maria@example.com "

		require.NoError(t, svc.Register(ctx, padded))
		backend.AssertExpectations(t)
	})

	t.Run("validation stops request", func(t *testing.T) {
		backend := new(MockBackend)
		svc := NewService(backend, &memoryTokens{}, NewRequestValidator(), slog.Default())

		req := validRegister()
		req.RepeatedPassword = "other-password"

		assert.ErrorIs(t, svc.Register(ctx, req), ErrPasswordMismatch)
		backend.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("duplicate email", func(t *testing.T) {
		backend := new(MockBackend)
		backend.On("Register", ctx, mock.Anything).Return(ErrAlreadyExists)
		svc := NewService(backend, &memoryTokens{}, NewRequestValidator(), slog.Default())

		assert.ErrorIs(t, svc.Register(ctx, validRegister()), ErrAlreadyExists)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	creds := Credentials{Email: "maria@example.com", Password: "secret123"}
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	t.Run("token is saved", func(t *testing.T) {
		token := signedToken(t, "user-1", exp)
		backend := new(MockBackend)
		backend.On("Login", ctx, creds).Return(token, nil)
		tokens := &memoryTokens{}

		session, err := NewService(backend, tokens, NewRequestValidator(), slog.Default()).Login(ctx, creds)

		require.NoError(t, err)
		assert.Equal(t, token, tokens.token)
		assert.True(t, session.LoggedIn)
		assert.Equal(t, "user-1", session.Subject)
		assert.True(t, exp.Equal(session.ExpiresAt))
	})

	t.Run("opaque token", func(t *testing.T) {
		backend := new(MockBackend)
		backend.On("Login", ctx, creds).Return("not-a-jwt", nil)

		session, err := NewService(backend, &memoryTokens{}, NewRequestValidator(), slog.Default()).Login(ctx, creds)

		require.NoError(t, err)
		assert.True(t, session.LoggedIn)
		assert.True(t, session.ExpiresAt.IsZero())
	})

	t.Run("invalid credentials", func(t *testing.T) {
		backend := new(MockBackend)
		backend.On("Login", ctx, creds).Return("", ErrInvalidAuth)
		tokens := &memoryTokens{}

		_, err := NewService(backend, tokens, NewRequestValidator(), slog.Default()).Login(ctx, creds)

		assert.ErrorIs(t, err, ErrInvalidAuth)
		assert.True(t, IsAuthError(err))
		assert.Empty(t, tokens.token)
	})

	t.Run("save failure", func(t *testing.T) {
		backend := new(MockBackend)
		backend.On("Login", ctx, creds).Return("tok", nil)
		tokens := &memoryTokens{saveErr: errors.New("read-only fs")}

		_, err := NewService(backend, tokens, NewRequestValidator(), slog.Default()).Login(ctx, creds)
		assert.Error(t, err)
	})
}

func TestService_Status(t *testing.T) {
	t.Run("not logged in", func(t *testing.T) {
		svc := NewService(new(MockBackend), &memoryTokens{}, NewRequestValidator(), slog.Default())
		_, err := svc.Status()
		assert.ErrorIs(t, err, ErrNotLoggedIn)
	})

	t.Run("valid session", func(t *testing.T) {
		exp := time.Now().Add(24 * time.Hour)
		tokens := &memoryTokens{token: signedToken(t, "user-1", exp)}
		svc := NewService(new(MockBackend), tokens, NewRequestValidator(), slog.Default())

		session, err := svc.Status()
		require.NoError(t, err)
		assert.False(t, session.Expired(time.Now()))
		assert.NotEmpty(t, tokens.token)
	})

	t.Run("expired session clears token", func(t *testing.T) {
		tokens := &memoryTokens{token: signedToken(t, "user-1", time.Now().Add(-time.Minute))}
		svc := NewService(new(MockBackend), tokens, NewRequestValidator(), slog.Default())

		_, err := svc.Status()
		assert.ErrorIs(t, err, ErrSessionExpired)
		assert.Empty(t, tokens.token)
	})

	t.Run("logout", func(t *testing.T) {
		tokens := &memoryTokens{token: "tok"}
		svc := NewService(new(MockBackend), tokens, NewRequestValidator(), slog.Default())

		require.NoError(t, svc.Logout())
		assert.Empty(t, tokens.token)
	})
}
