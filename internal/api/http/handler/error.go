package handler

import (
	"errors"
	"net/http"

	"github.com/dtroode/spendy/internal/model"
	"github.com/dtroode/spendy/internal/statement"
)

var (
	errBadRequest  = errors.New("bad request")
	errNotUnlocked = errors.New("session is not unlocked")
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

func handleError(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, model.ErrEmptyPin):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, model.ErrAuthRejected):
		return http.StatusUnauthorized, "authentication rejected"
	case errors.Is(err, model.ErrSessionExpired):
		return http.StatusUnauthorized, "session expired"
	case errors.Is(err, errNotUnlocked):
		return http.StatusForbidden, errNotUnlocked.Error()
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, model.ErrInvalidTransition):
		return http.StatusConflict, "operation not allowed in current session state"
	case errors.Is(err, model.ErrBiometricInProgress):
		return http.StatusConflict, "biometric authentication already in progress"
	case errors.Is(err, statement.ErrMissingColumn):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, model.ErrNetworkFailure), errors.Is(err, model.ErrMalformedResponse):
		return http.StatusBadGateway, "upstream unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
