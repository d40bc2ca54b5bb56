package transport

import (
	"context"
	"net/http"
	"sync"

	"github.com/dtroode/spendy/internal/logger"
)

// TokenSource provides the current access token and refresh capability.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, bool)
	ShouldRefresh(ctx context.Context) bool
	RefreshSession(ctx context.Context) bool
}

// UnauthorizedHandler is invoked for every 401 answer to an authenticated request.
type UnauthorizedHandler func(ctx context.Context)

// Bearer is an http.RoundTripper attaching "Authorization: Bearer <token>" to outgoing
// requests. A 401 response always invokes the unauthorized handler.
type Bearer struct {
	base   http.RoundTripper
	logger *logger.Logger

	mu             sync.RWMutex
	tokens         TokenSource
	onUnauthorized UnauthorizedHandler
}

// NewBearer wraps base. Bind must be called before authenticated requests are sent.
func NewBearer(base http.RoundTripper, logger *logger.Logger) *Bearer {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Bearer{base: base, logger: logger}
}

// Bind sets the token source and the unauthorized handler. The token service depends on the
// identity client which depends on this transport, so they are attached after construction.
func (b *Bearer) Bind(tokens TokenSource, onUnauthorized UnauthorizedHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens = tokens
	b.onUnauthorized = onUnauthorized
}

func (b *Bearer) RoundTrip(req *http.Request) (*http.Response, error) {
	b.mu.RLock()
	tokens, onUnauthorized := b.tokens, b.onUnauthorized
	b.mu.RUnlock()

	ctx := req.Context()
	out := req.Clone(ctx)
	out.Header.Del("Authorization")

	if tokens != nil {
		if tokens.ShouldRefresh(ctx) && !tokens.RefreshSession(ctx) {
			b.logger.Debug("Bearer transport: proactive refresh failed, using current token",
				"path", req.URL.Path)
		}
		if access, ok := tokens.AccessToken(ctx); ok {
			out.Header.Set("Authorization", "Bearer "+access)
		}
	}

	resp, err := b.base.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		b.logger.Warn("Bearer transport: unauthorized response, forcing logout",
			"method", req.Method,
			"path", req.URL.Path)
		if onUnauthorized != nil {
			onUnauthorized(ctx)
		}
	}

	return resp, nil
}
