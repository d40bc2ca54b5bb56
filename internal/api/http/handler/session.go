package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/dtroode/spendy/internal/logger"
	"github.com/dtroode/spendy/internal/model"
)

// SessionService defines the session lifecycle operations the intent API drives.
type SessionService interface {
	State() model.AuthState
	Snapshot() model.Snapshot
	PinLength() int
	Login(ctx context.Context, creds model.Credentials) error
	Register(ctx context.Context, reg model.Registration) error
	SavePin(ctx context.Context, pin string) error
	Unlock(ctx context.Context, pin string) error
	UnlockWithBiometrics(ctx context.Context) (model.BiometricResult, error)
	LockApp(ctx context.Context) model.AuthState
	Logout(ctx context.Context) error
	FetchUserProfile(ctx context.Context) (model.UserProfile, error)
	UpdateProfile(ctx context.Context, name, surname string) (model.UserProfile, error)
}

type sessionResponse struct {
	model.Snapshot
	PinLength int `json:"pin_length"`
}

type sessionErrorResponse struct {
	Error   string          `json:"error"`
	Session sessionResponse `json:"session"`
}

type pinRequest struct {
	Pin string `json:"pin"`
}

type biometricResponse struct {
	Result  string          `json:"result"`
	Session sessionResponse `json:"session"`
}

type profileRequest struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

type profileResponse struct {
	model.UserProfile
	FullName string `json:"full_name"`
	Initials string `json:"initials"`
}

// Session handles the session endpoints of the intent API.
type Session struct {
	session SessionService
	logger  *logger.Logger
}

func NewSession(session SessionService, logger *logger.Logger) *Session {
	return &Session{
		session: session,
		logger:  logger,
	}
}

func (h *Session) current() sessionResponse {
	return sessionResponse{
		Snapshot:  h.session.Snapshot(),
		PinLength: h.session.PinLength(),
	}
}

// writeSessionError answers with the mapped status and the session as it is after the failure.
func (h *Session) writeSessionError(w http.ResponseWriter, err error) {
	status, message := handleError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Session handler: request failed", "status", status, "error", err.Error())
	}
	writeJSON(w, status, sessionErrorResponse{Error: message, Session: h.current()})
}

// Get returns the current session snapshot.
func (h *Session) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.current())
}

// Login signs in with username and password.
func (h *Session) Login(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeError(w, h.logger, err)
		return
	}
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		writeError(w, h.logger, fmt.Errorf("%w: username and password are required", errBadRequest))
		return
	}

	if err := h.session.Login(r.Context(), creds); err != nil {
		h.logger.Debug("Session handler: login failed", "username", creds.Username, "error", err.Error())
		h.writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.current())
}

// Register creates an account and signs in.
func (h *Session) Register(w http.ResponseWriter, r *http.Request) {
	var reg model.Registration
	if err := decodeJSON(r, &reg); err != nil {
		writeError(w, h.logger, err)
		return
	}
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Username == "" || reg.Password == "" || reg.Email == "" {
		writeError(w, h.logger, fmt.Errorf("%w: username, password and email are required", errBadRequest))
		return
	}

	if err := h.session.Register(r.Context(), reg); err != nil {
		h.logger.Debug("Session handler: registration failed", "username", reg.Username, "error", err.Error())
		h.writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, h.current())
}

// SavePin stores the PIN chosen after the first login.
func (h *Session) SavePin(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := validatePin(req.Pin, h.session.PinLength()); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.session.SavePin(r.Context(), req.Pin); err != nil {
		h.writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.current())
}

// Unlock unlocks a locked session with the PIN.
func (h *Session) Unlock(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if req.Pin == "" {
		writeError(w, h.logger, model.ErrEmptyPin)
		return
	}

	if err := h.session.Unlock(r.Context(), req.Pin); err != nil {
		h.writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.current())
}

// UnlockBiometric asks the platform biometric helper to unlock the session. A failed or
// unavailable evaluation is a regular answer, not an error.
func (h *Session) UnlockBiometric(w http.ResponseWriter, r *http.Request) {
	result, err := h.session.UnlockWithBiometrics(r.Context())
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, biometricResponse{Result: result.String(), Session: h.current()})
}

func (h *Session) Lock(w http.ResponseWriter, r *http.Request) {
	h.session.LockApp(r.Context())
	writeJSON(w, http.StatusOK, h.current())
}

// Logout always ends the session; a storage failure is reported after the reset.
func (h *Session) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(r.Context()); err != nil {
		h.writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.current())
}

func (h *Session) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.session.FetchUserProfile(r.Context())
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newProfileResponse(profile))
}

func (h *Session) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Surname = strings.TrimSpace(req.Surname)
	if req.Name == "" || req.Surname == "" {
		writeError(w, h.logger, fmt.Errorf("%w: name and surname are required", errBadRequest))
		return
	}

	profile, err := h.session.UpdateProfile(r.Context(), req.Name, req.Surname)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newProfileResponse(profile))
}

func newProfileResponse(p model.UserProfile) profileResponse {
	return profileResponse{
		UserProfile: p,
		FullName:    p.FullName(),
		Initials:    p.Initials(),
	}
}

func validatePin(pin string, length int) error {
	if pin == "" {
		return model.ErrEmptyPin
	}
	if len([]rune(pin)) != length {
		return fmt.Errorf("%w: pin must have %d digits", errBadRequest, length)
	}
	for _, r := range pin {
		if !unicode.IsDigit(r) {
			return fmt.Errorf("%w: pin must contain digits only", errBadRequest)
		}
	}
	return nil
}
