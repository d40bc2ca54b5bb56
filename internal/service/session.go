package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dtroode/spendy/internal/logger"
	"github.com/dtroode/spendy/internal/metrics"
	"github.com/dtroode/spendy/internal/model"
)

const defaultProfileFetchTimeout = 20 * time.Second

// Session is the single owner of the application AuthState. Construct it with NewSession and
// call Start before serving intents. All state changes happen under one mutex; readers only
// ever see complete Snapshot copies.
type Session struct {
	tokens    *TokenService
	identity  model.IdentityClient
	store     model.SecretStore
	service   string
	biometric model.Biometric
	events    model.EventPublisher
	metrics   *metrics.Metrics
	logger    *logger.Logger

	pinLength      int
	profileTimeout time.Duration

	mu       sync.Mutex
	snapshot model.Snapshot
	subs     map[chan model.Snapshot]struct{}

	biometricBusy atomic.Bool
	forceLogout   singleflight.Group
	background    sync.WaitGroup
}

type SessionOption func(s *Session)

func WithBiometric(b model.Biometric) SessionOption {
	return func(s *Session) {
		s.biometric = b
	}
}

func WithEventPublisher(p model.EventPublisher) SessionOption {
	return func(s *Session) {
		s.events = p
	}
}

func WithSessionMetrics(m *metrics.Metrics) SessionOption {
	return func(s *Session) {
		s.metrics = m
	}
}

func WithProfileFetchTimeout(d time.Duration) SessionOption {
	return func(s *Session) {
		s.profileTimeout = d
	}
}

func WithPinLength(n int) SessionOption {
	return func(s *Session) {
		s.pinLength = n
	}
}

func NewSession(
	tokens *TokenService,
	identity model.IdentityClient,
	store model.SecretStore,
	service string,
	logger *logger.Logger,
	opts ...SessionOption,
) *Session {
	s := &Session{
		tokens:         tokens,
		identity:       identity,
		store:          store,
		service:        service,
		logger:         logger,
		pinLength:      6,
		profileTimeout: defaultProfileFetchTimeout,
		subs:           make(map[chan model.Snapshot]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start performs the cold start check: a stored refresh token means Locked, otherwise
// Unauthenticated. It never touches the network.
func (s *Session) Start(ctx context.Context) model.AuthState {
	state := model.StateUnauthenticated
	if _, ok := s.tokens.RefreshToken(ctx); ok {
		state = model.StateLocked
	}

	s.apply(func(snap *model.Snapshot) {
		*snap = model.Snapshot{State: state}
	})

	s.logger.Info("Session service: cold start complete", "state", state.String())
	return state
}

// Snapshot returns a copy of the current session view.
func (s *Session) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// State returns the current AuthState.
func (s *Session) State() model.AuthState {
	return s.Snapshot().State
}

// PinLength returns the PIN length the UI should collect.
func (s *Session) PinLength() int {
	return s.pinLength
}

// Subscribe returns a channel receiving every new snapshot. Slow readers only see the latest one.
// The returned function unsubscribes and closes the channel.
func (s *Session) Subscribe() (<-chan model.Snapshot, func()) {
	ch := make(chan model.Snapshot, 1)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	ch <- s.snapshot
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			close(ch)
			s.mu.Unlock()
		})
	}
}

// Wait blocks until background profile fetches have finished.
func (s *Session) Wait() {
	s.background.Wait()
}

// Login authenticates with username and password. It is only accepted while Unauthenticated.
func (s *Session) Login(ctx context.Context, creds model.Credentials) error {
	if err := s.begin(model.StateUnauthenticated); err != nil {
		return err
	}

	s.logger.Debug("Session service: logging in", "username", creds.Username)

	generation := s.tokens.Generation()
	pair, err := s.identity.Login(ctx, creds)
	if err != nil {
		s.logger.Warn("Session service: login failed",
			"username", creds.Username,
			"error", err.Error())
		s.fail("Login", err)
		return fmt.Errorf("login: %w", err)
	}

	if err := s.storePair(ctx, pair, generation); err != nil {
		s.fail("Login", err)
		return fmt.Errorf("login: %w", err)
	}

	next := model.StatePinSetup
	if s.hasPin(ctx) {
		next = model.StateAuthenticated
	}

	if !s.finish(model.StateUnauthenticated, next) || !s.settled(next, generation) {
		return fmt.Errorf("login: %w", model.ErrInvalidTransition)
	}

	s.logger.Info("Session service: login succeeded",
		"username", creds.Username,
		"state", next.String())
	s.publish(ctx, model.EventLogin, next, "password")
	return nil
}

// Register creates a new account. Success always leads to PinSetup.
func (s *Session) Register(ctx context.Context, reg model.Registration) error {
	if err := s.begin(model.StateUnauthenticated); err != nil {
		return err
	}

	s.logger.Debug("Session service: registering", "username", reg.Username)

	generation := s.tokens.Generation()
	pair, err := s.identity.Register(ctx, reg)
	if err != nil {
		s.logger.Warn("Session service: registration failed",
			"username", reg.Username,
			"error", err.Error())
		s.fail("Registration", err)
		return fmt.Errorf("register: %w", err)
	}

	if err := s.storePair(ctx, pair, generation); err != nil {
		s.fail("Registration", err)
		return fmt.Errorf("register: %w", err)
	}

	if !s.finish(model.StateUnauthenticated, model.StatePinSetup) || !s.settled(model.StatePinSetup, generation) {
		return fmt.Errorf("register: %w", model.ErrInvalidTransition)
	}

	s.logger.Info("Session service: registration succeeded", "username", reg.Username)
	s.publish(ctx, model.EventRegistered, model.StatePinSetup, "password")
	s.scheduleProfileFetch(ctx)
	return nil
}

// SavePin stores the PIN chosen during PinSetup and enters Authenticated.
func (s *Session) SavePin(ctx context.Context, pin string) error {
	if pin == "" {
		return model.ErrEmptyPin
	}
	if state := s.State(); state != model.StatePinSetup {
		return fmt.Errorf("save pin from %s: %w", state, model.ErrInvalidTransition)
	}

	if err := s.store.Save(ctx, s.service, model.AccountUserPIN, []byte(pin)); err != nil {
		s.logger.Error("Session service: failed to store pin", "error", err.Error())
		return fmt.Errorf("%w: save pin: %w", model.ErrStorageFailure, err)
	}

	if !s.transitionFrom(model.StatePinSetup, model.StateAuthenticated) {
		if err := s.store.Delete(ctx, s.service, model.AccountUserPIN); err != nil {
			s.logger.Error("Session service: session ended during pin setup, failed to drop pin", "error", err.Error())
		}
		return fmt.Errorf("save pin: %w", model.ErrInvalidTransition)
	}

	s.logger.Info("Session service: pin configured")
	return nil
}

// Unlock compares pin with the stored PIN. A mismatch keeps the session Locked and returns
// ErrAuthRejected so the caller can ask again.
func (s *Session) Unlock(ctx context.Context, pin string) error {
	if state := s.State(); state != model.StateLocked {
		return fmt.Errorf("unlock from %s: %w", state, model.ErrInvalidTransition)
	}

	stored, err := s.store.Read(ctx, s.service, model.AccountUserPIN)
	if err != nil && !errors.Is(err, model.ErrSecretNotFound) {
		s.logger.Warn("Session service: failed to read pin, treating as absent", "error", err.Error())
	}
	if err != nil || len(stored) == 0 || subtle.ConstantTimeCompare(stored, []byte(pin)) != 1 {
		s.observeUnlock("pin", "rejected")
		s.logger.Info("Session service: pin rejected")
		return model.ErrAuthRejected
	}

	return s.unlocked(ctx, "pin")
}

// UnlockWithBiometrics asks the biometric capability to verify the user. Failure, cancellation
// and unavailability leave the session Locked without an error.
func (s *Session) UnlockWithBiometrics(ctx context.Context) (model.BiometricResult, error) {
	if state := s.State(); state != model.StateLocked {
		return model.BiometricFailure, fmt.Errorf("biometric unlock from %s: %w", state, model.ErrInvalidTransition)
	}
	if s.biometric == nil {
		s.observeUnlock("biometric", model.BiometricUnavailable.String())
		return model.BiometricUnavailable, nil
	}
	if !s.biometricBusy.CompareAndSwap(false, true) {
		return model.BiometricFailure, model.ErrBiometricInProgress
	}
	s.setBiometricInProgress(true)
	defer func() {
		s.biometricBusy.Store(false)
		s.setBiometricInProgress(false)
	}()

	result, err := s.biometric.Evaluate(ctx)
	if err != nil {
		s.logger.Warn("Session service: biometric evaluation failed", "error", err.Error())
		if result != model.BiometricUnavailable {
			result = model.BiometricFailure
		}
	}
	if result != model.BiometricSuccess {
		s.observeUnlock("biometric", result.String())
		s.logger.Info("Session service: biometric unlock not granted", "result", result.String())
		return result, nil
	}

	if err := s.unlocked(ctx, "biometric"); err != nil {
		return model.BiometricFailure, err
	}
	return model.BiometricSuccess, nil
}

func (s *Session) unlocked(ctx context.Context, method string) error {
	if _, ok := s.tokens.RefreshToken(ctx); !ok {
		s.logger.Warn("Session service: refresh token missing on unlock, signing out")
		s.transitionFrom(model.StateLocked, model.StateUnauthenticated)
		return fmt.Errorf("unlock: %w", model.ErrSessionExpired)
	}

	if !s.transitionFrom(model.StateLocked, model.StateAuthenticated) {
		return fmt.Errorf("unlock: %w", model.ErrInvalidTransition)
	}
	s.observeUnlock(method, "success")

	s.logger.Info("Session service: unlocked", "method", method)
	s.publish(ctx, model.EventUnlocked, model.StateAuthenticated, method)
	s.scheduleProfileFetch(ctx)
	return nil
}

// LockApp moves an active session to Locked, or to Unauthenticated when the refresh token is gone.
func (s *Session) LockApp(ctx context.Context) model.AuthState {
	if s.State() == model.StateUnauthenticated {
		return model.StateUnauthenticated
	}

	next := model.StateUnauthenticated
	if _, ok := s.tokens.RefreshToken(ctx); ok {
		next = model.StateLocked
	}

	var changed bool
	snap := s.apply(func(snap *model.Snapshot) {
		if snap.State == model.StateUnauthenticated {
			return
		}
		changed = snap.State != next
		snap.State = next
		snap.Loading = false
		if next == model.StateUnauthenticated {
			snap.User = nil
		}
	})

	if changed {
		s.logger.Info("Session service: app locked", "state", snap.State.String())
		s.publish(ctx, model.EventLocked, snap.State, "")
	}
	return snap.State
}

// Logout deletes the token pair and the PIN and resets to Unauthenticated. It is idempotent.
func (s *Session) Logout(ctx context.Context) error {
	err := s.clearSecrets(ctx)
	wasActive := s.reset()

	if wasActive {
		s.logger.Info("Session service: logged out")
		s.publish(ctx, model.EventLogout, model.StateUnauthenticated, "")
	}
	return err
}

// ForceLogout applies the terminal unauthorized policy. Concurrent callers collapse into one logout.
func (s *Session) ForceLogout(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	_, _, _ = s.forceLogout.Do("force-logout", func() (any, error) {
		if err := s.clearSecrets(ctx); err != nil {
			s.logger.Error("Session service: forced logout left secrets behind", "error", err.Error())
		}
		if s.reset() {
			s.logger.Warn("Session service: session expired, forced logout")
			if s.metrics != nil {
				s.metrics.ForcedLogouts.Inc()
			}
			s.publish(ctx, model.EventExpired, model.StateUnauthenticated, "")
		}
		return nil, nil
	})
}

// FetchUserProfile loads the profile of the signed-in user. A terminal unauthorized answer
// forces logout.
func (s *Session) FetchUserProfile(ctx context.Context) (model.UserProfile, error) {
	switch state := s.State(); state {
	case model.StateAuthenticated, model.StatePinSetup:
	default:
		return model.UserProfile{}, fmt.Errorf("fetch profile from %s: %w", state, model.ErrInvalidTransition)
	}

	profile, err := s.identity.Profile(ctx)
	if err != nil {
		if errors.Is(err, model.ErrSessionExpired) {
			s.ForceLogout(ctx)
		}
		s.logger.Warn("Session service: failed to fetch profile", "error", err.Error())
		return model.UserProfile{}, fmt.Errorf("fetch profile: %w", err)
	}

	s.apply(func(snap *model.Snapshot) {
		if snap.State == model.StateUnauthenticated {
			return
		}
		p := profile
		snap.User = &p
	})

	s.logger.Debug("Session service: profile fetched", "username", profile.Username)
	return profile, nil
}

// UpdateProfile changes name and surname and reloads the profile.
func (s *Session) UpdateProfile(ctx context.Context, name, surname string) (model.UserProfile, error) {
	if state := s.State(); state != model.StateAuthenticated {
		return model.UserProfile{}, fmt.Errorf("update profile from %s: %w", state, model.ErrInvalidTransition)
	}

	if err := s.identity.UpdateProfile(ctx, name, surname); err != nil {
		if errors.Is(err, model.ErrSessionExpired) {
			s.ForceLogout(ctx)
		}
		s.logger.Warn("Session service: failed to update profile", "error", err.Error())
		return model.UserProfile{}, fmt.Errorf("update profile: %w", err)
	}

	return s.FetchUserProfile(ctx)
}

func (s *Session) scheduleProfileFetch(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, s.profileTimeout)
		defer cancel()
		_, _ = s.FetchUserProfile(fetchCtx)
	}()
}

// storePair saves the pair unless a logout cleared the tokens after generation was read.
func (s *Session) storePair(ctx context.Context, pair model.TokenPair, generation uint64) error {
	stored, err := s.tokens.SaveTokensAt(ctx, pair, generation)
	if err != nil {
		return err
	}
	if !stored {
		return fmt.Errorf("signed out meanwhile: %w", model.ErrInvalidTransition)
	}
	return nil
}

// settled undoes a transition to state when a logout cleared the tokens after generation was read.
func (s *Session) settled(state model.AuthState, generation uint64) bool {
	if s.tokens.Generation() == generation {
		return true
	}
	s.transitionFrom(state, model.StateUnauthenticated)
	return false
}

func (s *Session) hasPin(ctx context.Context) bool {
	pin, err := s.store.Read(ctx, s.service, model.AccountUserPIN)
	if err != nil {
		if !errors.Is(err, model.ErrSecretNotFound) {
			s.logger.Warn("Session service: failed to read pin, treating as absent", "error", err.Error())
		}
		return false
	}
	return len(pin) > 0
}

func (s *Session) clearSecrets(ctx context.Context) error {
	var errs []error
	if err := s.tokens.ClearTokens(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.store.Delete(ctx, s.service, model.AccountUserPIN); err != nil {
		s.logger.Error("Session service: failed to delete pin", "error", err.Error())
		errs = append(errs, fmt.Errorf("%w: delete pin: %w", model.ErrStorageFailure, err))
	}
	return errors.Join(errs...)
}

// reset drops every cached session value and reports whether the session was active.
func (s *Session) reset() bool {
	var wasActive bool
	s.apply(func(snap *model.Snapshot) {
		wasActive = snap.State != model.StateUnauthenticated
		*snap = model.Snapshot{
			State:               model.StateUnauthenticated,
			BiometricInProgress: snap.BiometricInProgress,
		}
	})
	return wasActive
}

// begin marks a credential operation as started when the session is in required state.
func (s *Session) begin(required model.AuthState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.State != required {
		return fmt.Errorf("from %s: %w", s.snapshot.State, model.ErrInvalidTransition)
	}
	if s.snapshot.Loading {
		return fmt.Errorf("operation in progress: %w", model.ErrInvalidTransition)
	}
	s.snapshot.Loading = true
	s.snapshot.ErrorMessage = ""
	s.broadcast()
	return nil
}

// fail ends a credential operation without changing state.
func (s *Session) fail(operation string, err error) {
	message := userMessage(operation, err)
	s.apply(func(snap *model.Snapshot) {
		snap.Loading = false
		snap.ErrorMessage = message
	})
}

// finish ends a credential operation with a transition.
func (s *Session) finish(from, to model.AuthState) bool {
	ok := s.transitionFrom(from, to)
	if !ok {
		s.apply(func(snap *model.Snapshot) {
			snap.Loading = false
		})
	}
	return ok
}

func (s *Session) transitionFrom(from, to model.AuthState) bool {
	var ok bool
	s.apply(func(snap *model.Snapshot) {
		if snap.State != from {
			return
		}
		ok = true
		snap.State = to
		snap.Loading = false
		snap.ErrorMessage = ""
		if to == model.StateUnauthenticated {
			snap.User = nil
		}
	})
	return ok
}

func (s *Session) setBiometricInProgress(v bool) {
	s.apply(func(snap *model.Snapshot) {
		snap.BiometricInProgress = v
	})
}

func (s *Session) apply(fn func(snap *model.Snapshot)) model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.snapshot.State
	fn(&s.snapshot)
	if to := s.snapshot.State; from != to && s.metrics != nil {
		s.metrics.ObserveTransition(from.String(), to.String())
	}
	s.broadcast()
	return s.snapshot
}

// broadcast must be called with mu held.
func (s *Session) broadcast() {
	snap := s.snapshot
	for ch := range s.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (s *Session) publish(ctx context.Context, typ model.EventType, state model.AuthState, method string) {
	if s.events == nil {
		return
	}
	event := model.SessionEvent{
		Type:       typ,
		State:      state,
		Method:     method,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("Session service: failed to publish event",
			"event", string(typ),
			"error", err.Error())
	}
}

func (s *Session) observeUnlock(method, result string) {
	if s.metrics != nil {
		s.metrics.ObserveUnlock(method, result)
	}
}

func userMessage(operation string, err error) string {
	switch {
	case errors.Is(err, model.ErrAuthRejected):
		return operation + " failed: invalid credentials"
	case errors.Is(err, model.ErrNetworkFailure):
		return operation + " failed: network unavailable"
	case errors.Is(err, model.ErrMalformedResponse):
		return operation + " failed: invalid response"
	case errors.Is(err, model.ErrStorageFailure):
		return operation + " failed: could not store credentials"
	default:
		return operation + " failed: " + err.Error()
	}
}
