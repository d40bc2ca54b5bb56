package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dtroode/spendy/internal/model"
)

var _ model.TokenInspector = (*Inspector)(nil)

// Inspector reads the expiry of JWT access tokens without verifying their signature.
// The signing key belongs to the identity server; the client only needs exp to schedule refresh.
type Inspector struct {
	parser *jwt.Parser
	now    func() time.Time
}

// NewInspector creates a new JWT expiry inspector.
func NewInspector() *Inspector {
	return &Inspector{
		parser: jwt.NewParser(),
		now:    time.Now,
	}
}

// ExpiresAt returns the exp claim of token. Opaque or exp-less tokens report false.
func (i *Inspector) ExpiresAt(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := i.parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// ExpiresWithin reports whether token expires before now+window.
func (i *Inspector) ExpiresWithin(token string, window time.Duration) bool {
	exp, ok := i.ExpiresAt(token)
	if !ok {
		return false
	}
	return !i.now().Add(window).Before(exp)
}
