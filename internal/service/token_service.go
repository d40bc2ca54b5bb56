package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dtroode/spendy/internal/logger"
	"github.com/dtroode/spendy/internal/metrics"
	"github.com/dtroode/spendy/internal/model"
)

// TokenService provides read-through access to the stored token pair, atomic
// pair replacement and refresh with rotation. It never caches tokens in memory.
type TokenService struct {
	store     model.SecretStore
	identity  model.IdentityClient
	inspector model.TokenInspector
	service   string
	skew      time.Duration
	logger    *logger.Logger
	metrics   *metrics.Metrics

	writeMu    sync.Mutex
	generation uint64
	refresh    singleflight.Group
}

type TokenOption func(s *TokenService)

func WithTokenMetrics(m *metrics.Metrics) TokenOption {
	return func(s *TokenService) {
		s.metrics = m
	}
}

func NewTokenService(
	store model.SecretStore,
	identity model.IdentityClient,
	inspector model.TokenInspector,
	service string,
	skew time.Duration,
	logger *logger.Logger,
	opts ...TokenOption,
) *TokenService {
	s := &TokenService{
		store:     store,
		identity:  identity,
		inspector: inspector,
		service:   service,
		skew:      skew,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AccessToken returns the stored access token. Absence is not an error.
func (s *TokenService) AccessToken(ctx context.Context) (string, bool) {
	return s.read(ctx, model.AccountAccessToken)
}

// RefreshToken returns the stored refresh token. Absence is not an error.
func (s *TokenService) RefreshToken(ctx context.Context) (string, bool) {
	return s.read(ctx, model.AccountRefreshToken)
}

// read treats storage failures as an absent secret so callers fail towards re-authentication.
func (s *TokenService) read(ctx context.Context, account string) (string, bool) {
	secret, err := s.store.Read(ctx, s.service, account)
	if err != nil {
		if !errors.Is(err, model.ErrSecretNotFound) {
			s.logger.Warn("Token service: failed to read secret, treating as absent",
				"account", account,
				"error", err.Error())
		}
		return "", false
	}
	if len(secret) == 0 {
		return "", false
	}
	return string(secret), true
}

// Generation returns the logout generation. ClearTokens advances it.
func (s *TokenService) Generation() uint64 {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.generation
}

// SaveTokens replaces both stored tokens. Either both new secrets are stored or the previous
// access token is left in place.
func (s *TokenService) SaveTokens(ctx context.Context, pair model.TokenPair) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.saveLocked(ctx, pair)
}

// SaveTokensAt stores pair only if no ClearTokens happened since generation was read.
// It reports whether the pair was stored.
func (s *TokenService) SaveTokensAt(ctx context.Context, pair model.TokenPair, generation uint64) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.generation != generation {
		s.logger.Info("Token service: tokens cleared meanwhile, dropping token pair")
		return false, nil
	}
	if err := s.saveLocked(ctx, pair); err != nil {
		return false, err
	}
	return true, nil
}

// saveLocked must be called with writeMu held.
func (s *TokenService) saveLocked(ctx context.Context, pair model.TokenPair) error {
	if batch, ok := s.store.(model.BatchSecretStore); ok {
		err := batch.SaveBatch(ctx, s.service, map[string][]byte{
			model.AccountAccessToken:  []byte(pair.AccessToken),
			model.AccountRefreshToken: []byte(pair.RefreshToken),
		})
		if err != nil {
			s.logger.Error("Token service: failed to save token pair",
				"error", err.Error())
			return fmt.Errorf("%w: save token pair: %w", model.ErrStorageFailure, err)
		}
		return nil
	}

	previous, hadPrevious := s.AccessToken(ctx)

	if err := s.store.Save(ctx, s.service, model.AccountAccessToken, []byte(pair.AccessToken)); err != nil {
		s.logger.Error("Token service: failed to save access token",
			"error", err.Error())
		return fmt.Errorf("%w: save access token: %w", model.ErrStorageFailure, err)
	}

	if err := s.store.Save(ctx, s.service, model.AccountRefreshToken, []byte(pair.RefreshToken)); err != nil {
		s.logger.Error("Token service: failed to save refresh token, restoring previous access token",
			"error", err.Error())
		s.restoreAccess(ctx, previous, hadPrevious)
		return fmt.Errorf("%w: save refresh token: %w", model.ErrStorageFailure, err)
	}

	return nil
}

func (s *TokenService) restoreAccess(ctx context.Context, previous string, hadPrevious bool) {
	var err error
	if hadPrevious {
		err = s.store.Save(ctx, s.service, model.AccountAccessToken, []byte(previous))
	} else {
		err = s.store.Delete(ctx, s.service, model.AccountAccessToken)
	}
	if err != nil {
		s.logger.Error("Token service: failed to restore previous access token",
			"error", err.Error())
	}
}

// ClearTokens deletes both stored tokens. Both deletes are attempted even if one fails.
func (s *TokenService) ClearTokens(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.generation++

	var errs []error
	for _, account := range []string{model.AccountAccessToken, model.AccountRefreshToken} {
		if err := s.store.Delete(ctx, s.service, account); err != nil {
			s.logger.Error("Token service: failed to delete secret",
				"account", account,
				"error", err.Error())
			errs = append(errs, fmt.Errorf("delete %s: %w", account, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", model.ErrStorageFailure, errors.Join(errs...))
	}
	return nil
}

// ShouldRefresh reports whether the stored access token expires within the configured skew.
func (s *TokenService) ShouldRefresh(ctx context.Context) bool {
	if s.inspector == nil {
		return false
	}
	access, ok := s.AccessToken(ctx)
	if !ok {
		return false
	}
	return s.inspector.ExpiresWithin(access, s.skew)
}

// RefreshSession exchanges the stored refresh token for a new pair. On any failure it
// returns false and storage is left untouched. Concurrent callers share one attempt.
func (s *TokenService) RefreshSession(ctx context.Context) bool {
	ctx = context.WithoutCancel(ctx)
	v, _, _ := s.refresh.Do("refresh", func() (any, error) {
		ok := s.refreshOnce(ctx)
		if s.metrics != nil {
			s.metrics.ObserveRefresh(ok)
		}
		return ok, nil
	})
	return v.(bool)
}

func (s *TokenService) refreshOnce(ctx context.Context) bool {
	generation := s.Generation()

	refreshToken, ok := s.RefreshToken(ctx)
	if !ok {
		s.logger.Debug("Token service: no refresh token, skipping refresh")
		return false
	}

	pair, err := s.identity.Refresh(ctx, refreshToken)
	if err != nil {
		s.logger.Warn("Token service: refresh rejected",
			"error", err.Error())
		return false
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		s.logger.Warn("Token service: refresh returned an incomplete token pair")
		return false
	}

	stored, err := s.SaveTokensAt(ctx, pair, generation)
	if err != nil || !stored {
		return false
	}

	s.logger.Info("Token service: session refreshed")
	return true
}
