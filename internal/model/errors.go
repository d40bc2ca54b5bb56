package model

import "errors"

var (
	// ErrNetworkFailure reports a connectivity or transport failure.
	ErrNetworkFailure = errors.New("network failure")
	// ErrAuthRejected reports bad credentials or a wrong PIN.
	ErrAuthRejected = errors.New("authentication rejected")
	// ErrSessionExpired reports a 401 on an authenticated call. It is always terminal.
	ErrSessionExpired = errors.New("session expired")
	// ErrMalformedResponse reports a response body that could not be decoded.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrStorageFailure reports a secret store read or write error.
	ErrStorageFailure = errors.New("secure storage failure")

	ErrNotFound            = errors.New("not found")
	ErrSecretNotFound      = errors.New("secret not found")
	ErrInvalidTransition   = errors.New("invalid state transition")
	ErrEmptyPin            = errors.New("pin is empty")
	ErrBiometricInProgress = errors.New("biometric authentication already in progress")
)
