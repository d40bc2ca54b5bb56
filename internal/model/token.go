package model

import (
	"context"
	"time"
)

// Secret accounts used inside the session service namespace.
const (
	AccountAccessToken  = "accessToken"
	AccountRefreshToken = "refreshToken"
	AccountUserPIN      = "userPIN"
)

// TokenPair is a bearer access token with its refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// IdentityClient talks to the remote identity endpoint.
type IdentityClient interface {
	Login(ctx context.Context, creds Credentials) (TokenPair, error)
	Register(ctx context.Context, reg Registration) (TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	Profile(ctx context.Context) (UserProfile, error)
	UpdateProfile(ctx context.Context, name, surname string) error
}

// TokenInspector reports whether an access token is close to expiry.
type TokenInspector interface {
	ExpiresWithin(token string, window time.Duration) bool
}
