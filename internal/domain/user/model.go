package user

import "time"

// RegisterRequest - данные регистрации нового пользователя.
type RegisterRequest struct {
	Name             string `json:"name" validate:"required,max=100"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8"`
	RepeatedPassword string `json:"repeated_password" validate:"required,min=8"`
}

// Credentials - данные входа.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session - состояние сохраненного токена.
type Session struct {
	LoggedIn  bool      `json:"logged_in"`
	Subject   string    `json:"subject,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Expired сообщает, что срок действия токена истек к моменту now.
// Токен без срока действия не истекает.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
