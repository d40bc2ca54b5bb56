package expense

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dtroode/spendy/internal/logger"
	"github.com/dtroode/spendy/internal/model"
)

var _ model.TransactionSource = (*Client)(nil)

const maxListSize = 32 << 20

// Client reads and imports transactions through the remote transactions transport. The HTTP
// client is expected to carry the bearer transport so a 401 forces logout.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logger.Logger
}

func NewClient(baseURL string, httpClient *http.Client, logger *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// List returns every transaction of the signed-in user.
func (c *Client) List(ctx context.Context) ([]model.Transaction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/expenses", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: list expenses: %w", model.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	var txs []model.Transaction
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxListSize)).Decode(&txs); err != nil {
		return nil, fmt.Errorf("%w: list expenses: %w", model.ErrMalformedResponse, err)
	}

	c.logger.Debug("Expense client: transactions listed", "count", len(txs))
	return txs, nil
}

// Import uploads a statement file as multipart form field "file".
func (c *Client) Import(ctx context.Context, fileName string, data io.Reader) error {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("file", fileName)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return fmt.Errorf("failed to copy statement: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("failed to finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/expenses/import", &body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: import expenses: %w", model.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if err := checkStatus(resp.StatusCode); err != nil {
		return fmt.Errorf("import expenses: %w", err)
	}

	c.logger.Info("Expense client: statement imported", "file", fileName)
	return nil
}

func checkStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return model.ErrSessionExpired
	default:
		return fmt.Errorf("%w: unexpected status %d", model.ErrNetworkFailure, status)
	}
}
