package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/config"
	appErrors "github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/errors"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/requestid"
)

// Client is the HTTP consumer of the waterworks backend. Every request
// carries a bearer token and a request id; failures are classified into the
// shared error taxonomy with the backend's message kept verbatim.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *zap.Logger
	now     func() time.Time
}

// NewClient constructs a client from config.
func NewClient(cfg config.APIConfig, tokens TokenSource, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  logger,
		now:     time.Now,
	}
}

// Get issues a list/detail request.
func (c *Client) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	full := path
	if len(params) > 0 {
		full = path + "?" + params.Encode()
	}
	return c.Do(ctx, http.MethodGet, full, nil)
}

// Do issues one request and returns the raw response body on success.
func (c *Client) Do(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNetwork.Code, 0, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(requestid.Header, requestid.New())

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, err
		}
		if err := checkExpiry(token, c.now()); err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNetwork.Code, 0, "read response")
	}

	if resp.StatusCode >= 400 {
		return nil, classifyStatus(resp.StatusCode, raw)
	}
	return raw, nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return appErrors.Wrap(err, appErrors.ErrTimeout.Code, 0, appErrors.ErrTimeout.Message)
	}
	return appErrors.Wrap(err, appErrors.ErrNetwork.Code, 0, appErrors.ErrNetwork.Message)
}

func classifyStatus(status int, body []byte) error {
	message := extractMessage(body)

	switch {
	case status == http.StatusUnauthorized:
		return withMessage(appErrors.ErrUnauthorized, message)
	case status == http.StatusNotFound:
		return withMessage(appErrors.ErrNotFound, message)
	case status >= 500:
		e := withMessage(appErrors.ErrServer, message)
		e.Status = status
		return e
	default:
		e := withMessage(appErrors.ErrValidation, message)
		e.Status = status
		return e
	}
}

func withMessage(base *appErrors.Error, message string) *appErrors.Error {
	if message == "" {
		return appErrors.Clone(base, "")
	}
	return appErrors.Clone(base, message)
}

// extractMessage pulls the human-readable message from the backend's error
// envelope. Endpoints disagree on the field name, so both are checked.
func extractMessage(body []byte) string {
	var envelope struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Msg != "" {
		return envelope.Msg
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error.Message
}
