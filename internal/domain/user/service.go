package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/exp/slog"
)

// Backend - учетные записи на сервере.
type Backend interface {
	Register(ctx context.Context, req RegisterRequest) error
	Login(ctx context.Context, c Credentials) (string, error)
}

// TokenStore хранит токен сессии между запусками.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

type Servicer interface {
	Register(ctx context.Context, req RegisterRequest) error
	Login(ctx context.Context, c Credentials) (Session, error)
	Logout() error
	Status() (Session, error)
}

type Service struct {
	backend   Backend
	tokens    TokenStore
	validator Validator
	log       *slog.Logger
	now       func() time.Time
}

func NewService(backend Backend, tokens TokenStore, validator Validator, log *slog.Logger) *Service {
	return &Service{
		backend:   backend,
		tokens:    tokens,
		validator: validator,
		log:       log,
		now:       time.Now,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	if err := s.validator.ValidateRegister(req); err != nil {
		s.log.Debug("validation failed", "email", req.Email, "error", err)
		return err
	}

	if err := s.backend.Register(ctx, req); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	s.log.Info("user registered", "email", req.Email)
	return nil
}

// Login получает токен и сохраняет его для следующих команд.
func (s *Service) Login(ctx context.Context, c Credentials) (Session, error) {
	c.Email = strings.TrimSpace(c.Email)

	if err := s.validator.ValidateCredentials(c); err != nil {
		return Session{}, err
	}

	token, err := s.backend.Login(ctx, c)
	if err != nil {
		return Session{}, fmt.Errorf("login: %w", err)
	}

	if err := s.tokens.Save(token); err != nil {
		return Session{}, fmt.Errorf("save token: %w", err)
	}

	session := sessionFromToken(token)
	s.log.Info("logged in", "email", c.Email, "expires_at", session.ExpiresAt)
	return session, nil
}

func (s *Service) Logout() error {
	if err := s.tokens.Clear(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// Status читает сохраненный токен. Истекший токен удаляется.
func (s *Service) Status() (Session, error) {
	token, err := s.tokens.Load()
	if err != nil {
		return Session{}, err
	}
	if token == "" {
		return Session{}, ErrNotLoggedIn
	}

	session := sessionFromToken(token)
	if session.Expired(s.now()) {
		if err := s.tokens.Clear(); err != nil {
			s.log.Warn("failed to clear expired token", "error", err)
		}
		return session, ErrSessionExpired
	}

	return session, nil
}

// sessionFromToken читает срок действия и subject без проверки подписи.
func sessionFromToken(token string) Session {
	session := Session{LoggedIn: true}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return session
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		session.ExpiresAt = exp.Time
	}
	if sub, err := claims.GetSubject(); err == nil {
		session.Subject = sub
	}
	return session
}

// IsAuthError сообщает, что ошибка требует повторного входа.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrNotLoggedIn) || errors.Is(err, ErrInvalidAuth)
}
