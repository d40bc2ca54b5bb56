package model

// AuthState is the authoritative application state derived from stored credentials.
type AuthState int

const (
	// StateUnauthenticated means no usable session exists.
	StateUnauthenticated AuthState = iota
	// StateLocked means a session exists but the user must unlock it with PIN or biometrics.
	StateLocked
	// StatePinSetup means the user logged in but has no PIN yet.
	StatePinSetup
	// StateAuthenticated means the session is unlocked.
	StateAuthenticated
)

// String returns the wire name of the state.
func (s AuthState) String() string {
	switch s {
	case StateLocked:
		return "locked"
	case StatePinSetup:
		return "pin_setup"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s AuthState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is an immutable view of the session at one point in time.
type Snapshot struct {
	State               AuthState    `json:"state"`
	Loading             bool         `json:"loading"`
	ErrorMessage        string       `json:"error_message,omitempty"`
	BiometricInProgress bool         `json:"biometric_in_progress"`
	User                *UserProfile `json:"user,omitempty"`
}

// Credentials holds a username/password login request.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration holds the fields sent to the register endpoint.
type Registration struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
}

// BiometricResult is the outcome of a platform biometric evaluation.
type BiometricResult int

const (
	BiometricFailure BiometricResult = iota
	BiometricSuccess
	BiometricUnavailable
)

func (r BiometricResult) String() string {
	switch r {
	case BiometricSuccess:
		return "success"
	case BiometricUnavailable:
		return "unavailable"
	default:
		return "failure"
	}
}
