package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/spendy/internal/mocks"
	"github.com/dtroode/spendy/internal/model"
	"github.com/dtroode/spendy/internal/securestore/file"
	"github.com/dtroode/spendy/internal/securestore/memory"
	"github.com/dtroode/spendy/internal/testutil"
)

type sessionFixture struct {
	store    *memory.Store
	identity *mocks.IdentityClient
	tokens   *TokenService
	session  *Session
}

func newSessionFixture(t *testing.T, opts ...SessionOption) *sessionFixture {
	t.Helper()
	store := memory.NewStore()
	identity := mocks.NewIdentityClient(t)
	log := testutil.MakeNoopLogger()
	tokens := NewTokenService(store, identity, nil, testService, 30*time.Second, log)
	return &sessionFixture{
		store:    store,
		identity: identity,
		tokens:   tokens,
		session:  NewSession(tokens, identity, store, testService, log, opts...),
	}
}

func (f *sessionFixture) seed(t *testing.T, access, refresh, pin string) {
	t.Helper()
	ctx := context.Background()
	if access != "" {
		require.NoError(t, f.store.Save(ctx, testService, model.AccountAccessToken, []byte(access)))
	}
	if refresh != "" {
		require.NoError(t, f.store.Save(ctx, testService, model.AccountRefreshToken, []byte(refresh)))
	}
	if pin != "" {
		require.NoError(t, f.store.Save(ctx, testService, model.AccountUserPIN, []byte(pin)))
	}
}

// authenticate drives the fixture to Authenticated through a PIN unlock.
func (f *sessionFixture) authenticate(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	f.seed(t, "a", "r", "123456")
	f.identity.On("Profile", mock.Anything).Return(testProfile(), nil).Once()

	require.Equal(t, model.StateLocked, f.session.Start(ctx))
	require.NoError(t, f.session.Unlock(ctx, "123456"))
	f.session.Wait()
	require.Equal(t, model.StateAuthenticated, f.session.State())
}

func testProfile() model.UserProfile {
	id := "42"
	return model.UserProfile{ID: &id, Username: "mrossi", Email: "m@rossi.it", Name: "Mario", Surname: "Rossi"}
}

func TestSession_Start(t *testing.T) {
	tests := []struct {
		name    string
		access  string
		refresh string
		pin     string
		want    model.AuthState
	}{
		{name: "refresh token present", access: "a", refresh: "r", want: model.StateLocked},
		{name: "refresh token without pin", refresh: "r", want: model.StateLocked},
		{name: "empty store", want: model.StateUnauthenticated},
		{name: "only access token", access: "a", pin: "123456", want: model.StateUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionFixture(t)
			f.seed(t, tt.access, tt.refresh, tt.pin)

			assert.Equal(t, tt.want, f.session.Start(context.Background()))
			assert.Equal(t, tt.want, f.session.State())
		})
	}
}

func TestSession_Start_LockedAfterRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "secrets.json")
	log := testutil.MakeNoopLogger()

	store, err := file.Open(path)
	require.NoError(t, err)
	identity := mocks.NewIdentityClient(t)
	identity.On("Login", mock.Anything, mock.Anything).
		Return(model.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil).Once()
	tokens := NewTokenService(store, identity, nil, testService, 0, log)
	session := NewSession(tokens, identity, store, testService, log)
	session.Start(ctx)
	require.NoError(t, session.Login(ctx, model.Credentials{Username: "u", Password: "p"}))
	require.NoError(t, session.SavePin(ctx, "123456"))

	reopened, err := file.Open(path)
	require.NoError(t, err)
	restarted := NewSession(NewTokenService(reopened, identity, nil, testService, 0, log), identity, reopened, testService, log)
	identity.On("Profile", mock.Anything).Return(testProfile(), nil).Once()

	assert.Equal(t, model.StateLocked, restarted.Start(ctx))
	require.NoError(t, restarted.Unlock(ctx, "123456"))
	restarted.Wait()
	assert.Equal(t, model.StateAuthenticated, restarted.State())
}

func TestSession_Start_StorageFailureFailsSafe(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	require.NoError(t, inner.Save(ctx, testService, model.AccountRefreshToken, []byte("r")))
	store := testutil.NewFailingStore(inner)
	store.FailRead(model.AccountRefreshToken, errors.New("io error"))

	identity := mocks.NewIdentityClient(t)
	log := testutil.MakeNoopLogger()
	tokens := NewTokenService(store, identity, nil, testService, 0, log)
	session := NewSession(tokens, identity, store, testService, log)

	assert.Equal(t, model.StateUnauthenticated, session.Start(ctx))
}

func TestSession_Login(t *testing.T) {
	creds := model.Credentials{Username: "mrossi", Password: "secret"}

	tests := []struct {
		name        string
		pin         string
		loginPair   model.TokenPair
		loginErr    error
		wantState   model.AuthState
		wantErr     error
		wantMessage string
	}{
		{
			name:      "pin present goes to authenticated",
			pin:       "123456",
			loginPair: model.TokenPair{AccessToken: "a", RefreshToken: "r"},
			wantState: model.StateAuthenticated,
		},
		{
			name:      "no pin goes to pin setup",
			loginPair: model.TokenPair{AccessToken: "a", RefreshToken: "r"},
			wantState: model.StatePinSetup,
		},
		{
			name:        "rejected credentials",
			loginErr:    model.ErrAuthRejected,
			wantState:   model.StateUnauthenticated,
			wantErr:     model.ErrAuthRejected,
			wantMessage: "Login failed: invalid credentials",
		},
		{
			name:        "network failure",
			loginErr:    model.ErrNetworkFailure,
			wantState:   model.StateUnauthenticated,
			wantErr:     model.ErrNetworkFailure,
			wantMessage: "Login failed: network unavailable",
		},
		{
			name:        "malformed response",
			loginErr:    model.ErrMalformedResponse,
			wantState:   model.StateUnauthenticated,
			wantErr:     model.ErrMalformedResponse,
			wantMessage: "Login failed: invalid response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newSessionFixture(t)
			f.seed(t, "", "", tt.pin)
			f.session.Start(ctx)
			f.identity.On("Login", mock.Anything, creds).Return(tt.loginPair, tt.loginErr).Once()

			err := f.session.Login(ctx, creds)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			snap := f.session.Snapshot()
			assert.Equal(t, tt.wantState, snap.State)
			assert.Equal(t, tt.wantMessage, snap.ErrorMessage)
			assert.False(t, snap.Loading)

			refresh, ok := f.tokens.RefreshToken(ctx)
			assert.Equal(t, tt.wantErr == nil, ok)
			assert.Equal(t, tt.loginPair.RefreshToken, refresh)
		})
	}
}

func TestSession_Login_StorageFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewFailingStore(memory.NewStore())
	store.FailSave(model.AccountRefreshToken, errors.New("keychain unavailable"))

	identity := mocks.NewIdentityClient(t)
	log := testutil.MakeNoopLogger()
	tokens := NewTokenService(store, identity, nil, testService, 0, log)
	session := NewSession(tokens, identity, store, testService, log)
	session.Start(ctx)

	identity.On("Login", mock.Anything, mock.Anything).
		Return(model.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil).Once()

	err := session.Login(ctx, model.Credentials{Username: "u", Password: "p"})
	require.ErrorIs(t, err, model.ErrStorageFailure)
	assert.Equal(t, model.StateUnauthenticated, session.State())
	assert.Equal(t, "Login failed: could not store credentials", session.Snapshot().ErrorMessage)
}

func TestSession_Login_RejectedOutsideUnauthenticated(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	f.seed(t, "a", "r", "")
	require.Equal(t, model.StateLocked, f.session.Start(ctx))

	err := f.session.Login(ctx, model.Credentials{Username: "u", Password: "p"})
	require.ErrorIs(t, err, model.ErrInvalidTransition)
	f.identity.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	assert.Equal(t, model.StateLocked, f.session.State())
}

func TestSession_Register(t *testing.T) {
	ctx := context.Background()
	reg := model.Registration{Username: "mrossi", Password: "p", Email: "m@rossi.it", Name: "Mario", Surname: "Rossi"}

	t.Run("success enters pin setup and loads profile", func(t *testing.T) {
		f := newSessionFixture(t)
		f.session.Start(ctx)
		f.identity.On("Register", mock.Anything, reg).
			Return(model.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil).Once()
		f.identity.On("Profile", mock.Anything).Return(testProfile(), nil).Once()

		require.NoError(t, f.session.Register(ctx, reg))
		f.session.Wait()

		snap := f.session.Snapshot()
		assert.Equal(t, model.StatePinSetup, snap.State)
		require.NotNil(t, snap.User)
		assert.Equal(t, "MR", snap.User.Initials())

		access, ok := f.tokens.AccessToken(ctx)
		require.True(t, ok)
		assert.Equal(t, "a", access)
	})

	t.Run("failure keeps unauthenticated", func(t *testing.T) {
		f := newSessionFixture(t)
		f.session.Start(ctx)
		f.identity.On("Register", mock.Anything, reg).
			Return(model.TokenPair{}, model.ErrAuthRejected).Once()

		require.ErrorIs(t, f.session.Register(ctx, reg), model.ErrAuthRejected)
		snap := f.session.Snapshot()
		assert.Equal(t, model.StateUnauthenticated, snap.State)
		assert.Equal(t, "Registration failed: invalid credentials", snap.ErrorMessage)
		assert.Equal(t, 0, f.store.Len())
	})
}

func TestSession_SavePin(t *testing.T) {
	ctx := context.Background()

	t.Run("pin setup to authenticated", func(t *testing.T) {
		f := newSessionFixture(t)
		f.session.Start(ctx)
		f.identity.On("Login", mock.Anything, mock.Anything).
			Return(model.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil).Once()
		require.NoError(t, f.session.Login(ctx, model.Credentials{Username: "u", Password: "p"}))
		require.Equal(t, model.StatePinSetup, f.session.State())

		require.NoError(t, f.session.SavePin(ctx, "123456"))
		assert.Equal(t, model.StateAuthenticated, f.session.State())

		pin, err := f.store.Read(ctx, testService, model.AccountUserPIN)
		require.NoError(t, err)
		assert.Equal(t, []byte("123456"), pin)
	})

	t.Run("empty pin", func(t *testing.T) {
		f := newSessionFixture(t)
		f.session.Start(ctx)
		require.ErrorIs(t, f.session.SavePin(ctx, ""), model.ErrEmptyPin)
	})

	t.Run("outside pin setup", func(t *testing.T) {
		f := newSessionFixture(t)
		f.session.Start(ctx)
		require.ErrorIs(t, f.session.SavePin(ctx, "123456"), model.ErrInvalidTransition)
		_, err := f.store.Read(ctx, testService, model.AccountUserPIN)
		require.ErrorIs(t, err, model.ErrSecretNotFound)
	})
}

func TestSession_Unlock(t *testing.T) {
	const stored = "123456"

	tests := []struct {
		name      string
		pin       string
		wantState model.AuthState
		wantErr   error
	}{
		{name: "exact match", pin: "123456", wantState: model.StateAuthenticated},
		{name: "wrong digits", pin: "654321", wantState: model.StateLocked, wantErr: model.ErrAuthRejected},
		{name: "prefix", pin: "12345", wantState: model.StateLocked, wantErr: model.ErrAuthRejected},
		{name: "longer", pin: "1234567", wantState: model.StateLocked, wantErr: model.ErrAuthRejected},
		{name: "empty", pin: "", wantState: model.StateLocked, wantErr: model.ErrAuthRejected},
		{name: "padded", pin: " 123456", wantState: model.StateLocked, wantErr: model.ErrAuthRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newSessionFixture(t)
			f.seed(t, "a", "r", stored)
			f.identity.On("Profile", mock.Anything).Return(testProfile(), nil).Maybe()
			require.Equal(t, model.StateLocked, f.session.Start(ctx))

			err := f.session.Unlock(ctx, tt.pin)
			f.session.Wait()

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantState, f.session.State())
		})
	}
}

func TestSession_Unlock_RetryAfterMismatch(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	f.seed(t, "a", "r", "123456")
	f.identity.On("Profile", mock.Anything).Return(testProfile(), nil).Once()
	f.session.Start(ctx)

	for i := 0; i < 10; i++ {
		require.ErrorIs(t, f.session.Unlock(ctx, "000000"), model.ErrAuthRejected)
	}
	require.NoError(t, f.session.Unlock(ctx, "123456"))
	f.session.Wait()

	snap := f.session.Snapshot()
	assert.Equal(t, model.StateAuthenticated, snap.State)
	require.NotNil(t, snap.User)
	assert.Equal(t, "Mario Rossi", snap.User.FullName())
}

func TestSession_Unlock_MissingRefreshToken(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	f.seed(t, "a", "r", "123456")
	require.Equal(t, model.StateLocked, f.session.Start(ctx))

	require.NoError(t, f.store.Delete(ctx, testService, model.AccountRefreshToken))

	err := f.session.Unlock(ctx, "123456")
	require.ErrorIs(t, err, model.ErrSessionExpired)
	assert.Equal(t, model.StateUnauthenticated, f.session.State())
}

func TestSession_UnlockWithBiometrics(t *testing.T) {
	tests := []struct {
		name       string
		result     model.BiometricResult
		evalErr    error
		wantResult model.BiometricResult
		wantState  model.AuthState
	}{
		{name: "success", result: model.BiometricSuccess, wantResult: model.BiometricSuccess, wantState: model.StateAuthenticated},
		{name: "failure", result: model.BiometricFailure, wantResult: model.BiometricFailure, wantState: model.StateLocked},
		{name: "unavailable", result: model.BiometricUnavailable, wantResult: model.BiometricUnavailable, wantState: model.StateLocked},
		{name: "cancelled", result: model.BiometricSuccess, evalErr: context.Canceled, wantResult: model.BiometricFailure, wantState: model.StateLocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			bio := mocks.NewBiometric(t)
			bio.On("Evaluate", mock.Anything).Return(tt.result, tt.evalErr).Once()

			f := newSessionFixture(t, WithBiometric(bio))
			f.seed(t, "a", "r", "123456")
			f.identity.On("Profile", mock.Anything).Return(testProfile(), nil).Maybe()
			f.session.Start(ctx)

			got, err := f.session.UnlockWithBiometrics(ctx)
			f.session.Wait()

			require.NoError(t, err)
			assert.Equal(t, tt.wantResult, got)
			snap := f.session.Snapshot()
			assert.Equal(t, tt.wantState, snap.State)
			assert.False(t, snap.BiometricInProgress)
			assert.Empty(t, snap.ErrorMessage)
		})
	}
}

func TestSession_UnlockWithBiometrics_NoCapability(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	f.seed(t, "a", "r", "123456")
	f.session.Start(ctx)

	got, err := f.session.UnlockWithBiometrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.BiometricUnavailable, got)
	assert.Equal(t, model.StateLocked, f.session.State())
}

func TestSession_UnlockWithBiometrics_RejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	entered := make(chan struct{})
	release := make(chan struct{})

	bio := mocks.NewBiometric(t)
	bio.On("Evaluate", mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(model.BiometricFailure, nil).Once()

	f := newSessionFixture(t, WithBiometric(bio))
	f.seed(t, "a", "r", "123456")
	f.session.Start(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = f.session.UnlockWithBiometrics(ctx)
	}()

	<-entered
	assert.True(t, f.session.Snapshot().BiometricInProgress)

	_, err := f.session.UnlockWithBiometrics(ctx)
	require.ErrorIs(t, err, model.ErrBiometricInProgress)

	close(release)
	<-done
	assert.False(t, f.session.Snapshot().BiometricInProgress)
	assert.Equal(t, model.StateLocked, f.session.State())
}

func TestSession_LockApp(t *testing.T) {
	ctx := context.Background()

	t.Run("authenticated with refresh token locks", func(t *testing.T) {
		f := newSessionFixture(t)
		f.authenticate(t)

		assert.Equal(t, model.StateLocked, f.session.LockApp(ctx))
	})

	t.Run("authenticated without refresh token signs out", func(t *testing.T) {
		f := newSessionFixture(t)
		f.authenticate(t)
		require.NoError(t, f.store.Delete(ctx, testService, model.AccountRefreshToken))

		assert.Equal(t, model.StateUnauthenticated, f.session.LockApp(ctx))
		assert.Nil(t, f.session.Snapshot().User)
	})

	t.Run("unauthenticated stays", func(t *testing.T) {
		f := newSessionFixture(t)
		f.session.Start(ctx)

		assert.Equal(t, model.StateUnauthenticated, f.session.LockApp(ctx))
	})
}

func TestSession_Logout_Idempotent(t *testing.T) {
	ctx := context.Background()

	setups := map[string]func(t *testing.T, f *sessionFixture){
		"from unauthenticated": func(t *testing.T, f *sessionFixture) {
			f.session.Start(ctx)
		},
		"from locked": func(t *testing.T, f *sessionFixture) {
			f.seed(t, "a", "r", "123456")
			f.session.Start(ctx)
		},
		"from pin setup": func(t *testing.T, f *sessionFixture) {
			f.session.Start(ctx)
			f.identity.On("Login", mock.Anything, mock.Anything).
				Return(model.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil).Once()
			require.NoError(t, f.session.Login(ctx, model.Credentials{Username: "u", Password: "p"}))
		},
		"from authenticated": func(t *testing.T, f *sessionFixture) {
			f.authenticate(t)
		},
	}

	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			f := newSessionFixture(t)
			setup(t, f)

			require.NoError(t, f.session.Logout(ctx))
			assert.Equal(t, model.StateUnauthenticated, f.session.State())
			assert.Equal(t, 0, f.store.Len())

			require.NoError(t, f.session.Logout(ctx))
			assert.Equal(t, model.StateUnauthenticated, f.session.State())
			assert.Equal(t, 0, f.store.Len())
			assert.Nil(t, f.session.Snapshot().User)
		})
	}
}

func TestSession_Logout_RequiresPinSetupOnNextLogin(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	f.authenticate(t)

	require.NoError(t, f.session.Logout(ctx))

	f.identity.On("Login", mock.Anything, mock.Anything).
		Return(model.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil).Once()
	require.NoError(t, f.session.Login(ctx, model.Credentials{Username: "u", Password: "p"}))
	assert.Equal(t, model.StatePinSetup, f.session.State())
}

func TestSession_Logout_DuringRefreshLeavesNoSecrets(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	f.authenticate(t)

	inFlight := make(chan struct{})
	release := make(chan struct{})
	f.identity.On("Refresh", mock.Anything, "r").
		Run(func(mock.Arguments) {
			close(inFlight)
			<-release
		}).
		Return(model.TokenPair{AccessToken: "a2", RefreshToken: "r2"}, nil).Once()

	refreshed := make(chan bool)
	go func() { refreshed <- f.tokens.RefreshSession(ctx) }()

	<-inFlight
	require.NoError(t, f.session.Logout(ctx))
	close(release)

	assert.False(t, <-refreshed)
	assert.Equal(t, model.StateUnauthenticated, f.session.State())
	assert.Equal(t, 0, f.store.Len())
	assert.Equal(t, model.StateUnauthenticated, f.session.Start(ctx))
}

func TestSession_Logout_DuringLoginLeavesNoSecrets(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	f.session.Start(ctx)

	inFlight := make(chan struct{})
	release := make(chan struct{})
	f.identity.On("Login", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(inFlight)
			<-release
		}).
		Return(model.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil).Once()

	loginErr := make(chan error)
	go func() { loginErr <- f.session.Login(ctx, model.Credentials{Username: "u", Password: "p"}) }()

	<-inFlight
	require.NoError(t, f.session.Logout(ctx))
	close(release)

	require.ErrorIs(t, <-loginErr, model.ErrInvalidTransition)
	assert.Equal(t, model.StateUnauthenticated, f.session.State())
	assert.False(t, f.session.Snapshot().Loading)
	assert.Equal(t, 0, f.store.Len())
}

// pinGateStore blocks the PIN write until release is closed.
type pinGateStore struct {
	*memory.Store
	saving  chan struct{}
	release chan struct{}
}

func (s *pinGateStore) Save(ctx context.Context, service, account string, secret []byte) error {
	if account == model.AccountUserPIN {
		close(s.saving)
		<-s.release
	}
	return s.Store.Save(ctx, service, account, secret)
}

func TestSession_SavePin_ForcedLogoutDropsPin(t *testing.T) {
	ctx := context.Background()
	store := &pinGateStore{Store: memory.NewStore(), saving: make(chan struct{}), release: make(chan struct{})}
	identity := mocks.NewIdentityClient(t)
	log := testutil.MakeNoopLogger()
	tokens := NewTokenService(store, identity, nil, testService, 0, log)
	session := NewSession(tokens, identity, store, testService, log)
	session.Start(ctx)

	identity.On("Login", mock.Anything, mock.Anything).
		Return(model.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil).Once()
	require.NoError(t, session.Login(ctx, model.Credentials{Username: "u", Password: "p"}))
	require.Equal(t, model.StatePinSetup, session.State())

	saved := make(chan error)
	go func() { saved <- session.SavePin(ctx, "123456") }()

	<-store.saving
	session.ForceLogout(ctx)
	close(store.release)

	require.ErrorIs(t, <-saved, model.ErrInvalidTransition)
	assert.Equal(t, model.StateUnauthenticated, session.State())
	assert.Equal(t, 0, store.Len())
}

func TestSession_ProfileUnauthorizedForcesLogout(t *testing.T) {
	ctx := context.Background()
	events := mocks.NewEventPublisher(t)
	events.On("Publish", mock.Anything, mock.MatchedBy(func(e model.SessionEvent) bool {
		return e.Type == model.EventUnlocked
	})).Return(nil).Once()
	events.On("Publish", mock.Anything, mock.MatchedBy(func(e model.SessionEvent) bool {
		return e.Type == model.EventExpired && e.State == model.StateUnauthenticated
	})).Return(nil).Once()

	f := newSessionFixture(t, WithEventPublisher(events))
	f.seed(t, "a", "r", "123456")
	f.identity.On("Profile", mock.Anything).Return(model.UserProfile{}, model.ErrSessionExpired).Once()
	f.session.Start(ctx)

	require.NoError(t, f.session.Unlock(ctx, "123456"))
	f.session.Wait()

	assert.Equal(t, model.StateUnauthenticated, f.session.State())
	_, ok := f.tokens.AccessToken(ctx)
	assert.False(t, ok)
	_, ok = f.tokens.RefreshToken(ctx)
	assert.False(t, ok)
}

func TestSession_FetchUserProfile_UnauthorizedWhileAuthenticated(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	f.authenticate(t)

	f.identity.On("Profile", mock.Anything).Return(model.UserProfile{}, model.ErrSessionExpired).Once()

	_, err := f.session.FetchUserProfile(ctx)
	require.ErrorIs(t, err, model.ErrSessionExpired)

	snap := f.session.Snapshot()
	assert.Equal(t, model.StateUnauthenticated, snap.State)
	assert.Nil(t, snap.User)
	assert.Equal(t, 0, f.store.Len())
}

func TestSession_FetchUserProfile_NetworkFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	f.authenticate(t)

	f.identity.On("Profile", mock.Anything).Return(model.UserProfile{}, model.ErrNetworkFailure).Once()

	_, err := f.session.FetchUserProfile(ctx)
	require.ErrorIs(t, err, model.ErrNetworkFailure)
	assert.Equal(t, model.StateAuthenticated, f.session.State())
}

func TestSession_FetchUserProfile_Locked(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	f.seed(t, "a", "r", "123456")
	f.session.Start(ctx)

	_, err := f.session.FetchUserProfile(ctx)
	require.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestSession_ForceLogout_ConcurrentCallsPublishOnce(t *testing.T) {
	ctx := context.Background()
	events := mocks.NewEventPublisher(t)
	events.On("Publish", mock.Anything, mock.MatchedBy(func(e model.SessionEvent) bool {
		return e.Type == model.EventUnlocked
	})).Return(nil).Once()
	events.On("Publish", mock.Anything, mock.MatchedBy(func(e model.SessionEvent) bool {
		return e.Type == model.EventExpired
	})).Return(nil).Once()

	f := newSessionFixture(t, WithEventPublisher(events))
	f.authenticate(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.session.ForceLogout(ctx)
		}()
	}
	wg.Wait()

	assert.Equal(t, model.StateUnauthenticated, f.session.State())
	assert.Equal(t, 0, f.store.Len())
}

func TestSession_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	f.authenticate(t)

	updated := testProfile()
	updated.Name = "Luigi"
	f.identity.On("UpdateProfile", mock.Anything, "Luigi", "Rossi").Return(nil).Once()
	f.identity.On("Profile", mock.Anything).Return(updated, nil).Once()

	got, err := f.session.UpdateProfile(ctx, "Luigi", "Rossi")
	require.NoError(t, err)
	assert.Equal(t, "Luigi Rossi", got.FullName())
	assert.Equal(t, "LR", f.session.Snapshot().User.Initials())
}

func TestSession_Subscribe(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	f.seed(t, "a", "r", "123456")

	updates, unsubscribe := f.session.Subscribe()
	defer unsubscribe()

	f.session.Start(ctx)

	var last model.Snapshot
	require.Eventually(t, func() bool {
		select {
		case last = <-updates:
		default:
		}
		return last.State == model.StateLocked
	}, time.Second, time.Millisecond)

	unsubscribe()
	unsubscribe()
	_, open := <-updates
	for open {
		_, open = <-updates
	}
}
