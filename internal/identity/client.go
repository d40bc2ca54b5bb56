package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dtroode/spendy/internal/logger"
	"github.com/dtroode/spendy/internal/model"
)

var _ model.IdentityClient = (*Client)(nil)

const maxBodySize = 1 << 20

// Client talks to the remote identity endpoint. Credential calls use the public HTTP client;
// profile calls use the authorized one, whose transport attaches the bearer token.
type Client struct {
	baseURL    string
	public     *http.Client
	authorized *http.Client
	logger     *logger.Logger
}

func NewClient(baseURL string, public, authorized *http.Client, logger *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		public:     public,
		authorized: authorized,
		logger:     logger,
	}
}

func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.TokenPair, error) {
	return c.credentialCall(ctx, "/login", creds, true)
}

func (c *Client) Register(ctx context.Context, reg model.Registration) (model.TokenPair, error) {
	return c.credentialCall(ctx, "/register", reg, true)
}

// Refresh exchanges a refresh token for a new pair. Only the two-token response is accepted.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	body := struct {
		RefreshToken string `json:"refreshToken"`
	}{RefreshToken: refreshToken}
	return c.credentialCall(ctx, "/refresh", body, false)
}

func (c *Client) Profile(ctx context.Context) (model.UserProfile, error) {
	status, body, err := c.do(ctx, c.authorized, http.MethodGet, "/profile", nil)
	if err != nil {
		return model.UserProfile{}, err
	}
	if err := authorizedStatus(status); err != nil {
		return model.UserProfile{}, fmt.Errorf("profile: %w", err)
	}

	var profile model.UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return model.UserProfile{}, fmt.Errorf("%w: profile: %w", model.ErrMalformedResponse, err)
	}
	return profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, name, surname string) error {
	payload := struct {
		Name    string `json:"name"`
		Surname string `json:"surname"`
	}{Name: name, Surname: surname}

	status, _, err := c.do(ctx, c.authorized, http.MethodPut, "/updateProfile", payload)
	if err != nil {
		return err
	}
	if err := authorizedStatus(status); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (c *Client) credentialCall(ctx context.Context, path string, payload any, allowLegacy bool) (model.TokenPair, error) {
	status, body, err := c.do(ctx, c.public, http.MethodPost, path, payload)
	if err != nil {
		return model.TokenPair{}, err
	}

	switch {
	case status == http.StatusOK:
	case status >= http.StatusInternalServerError:
		return model.TokenPair{}, fmt.Errorf("%w: %s returned status %d", model.ErrNetworkFailure, path, status)
	default:
		return model.TokenPair{}, fmt.Errorf("%w: %s returned status %d", model.ErrAuthRejected, path, status)
	}

	pair, err := decodeAuthResponse(body, allowLegacy)
	if err != nil {
		c.logger.Warn("Identity client: undecodable auth response", "path", path)
		return model.TokenPair{}, fmt.Errorf("%s: %w", path, err)
	}
	return pair, nil
}

func (c *Client) do(ctx context.Context, client *http.Client, method, path string, payload any) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		c.logger.Debug("Identity client: request failed", "path", path, "error", err.Error())
		return 0, nil, fmt.Errorf("%w: %s: %w", model.ErrNetworkFailure, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read %s response: %w", model.ErrNetworkFailure, path, err)
	}

	c.logger.Debug("Identity client: response received", "path", path, "status", resp.StatusCode)
	return resp.StatusCode, body, nil
}

func authorizedStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return model.ErrSessionExpired
	default:
		return fmt.Errorf("%w: unexpected status %d", model.ErrNetworkFailure, status)
	}
}
