package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidToken       = errors.New("auth: invalid token")
	ErrTokenExpired       = errors.New("auth: token expired")
	ErrRateLimited        = errors.New("auth: too many attempts")
	ErrNotConfigured      = errors.New("auth: admin credential not configured")
)

type LoginRequest struct {
	Password  string
	IPAddress string
	UserAgent string
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Claims is the decoded JWT payload for an authenticated admin.
type Claims struct {
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Verify(ctx context.Context, token string) (*Claims, error)
}
