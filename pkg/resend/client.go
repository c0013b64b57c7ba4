package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/fadeatelier/fade-backend/pkg/errors"
)

const (
	defaultBaseURL          = "https://api.resend.com"
	responseBodyLimit int64 = 2048
)

var errAPIKeyRequired = errors.New("resend api key is required")

// Client wraps the Resend email API used for order notifications.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	defaultFrom string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the Resend API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the Resend client given an API key and default sender.
func NewClient(apiKey, defaultFrom string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:      trimmedKey,
		defaultFrom: strings.TrimSpace(defaultFrom),
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// Email describes one outbound message.
type Email struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// Send delivers a single email and returns the provider message ID.
func (c *Client) Send(ctx context.Context, email Email) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "resend client not configured")
	}
	if len(email.To) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "email recipient is required")
	}
	if strings.TrimSpace(email.Subject) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "email subject is required")
	}
	if email.HTML == "" && email.Text == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "email body is required")
	}
	if strings.TrimSpace(email.From) == "" {
		email.From = c.defaultFrom
	}
	if email.From == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "email sender is required")
	}

	payload, err := json.Marshal(email)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal email request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build email request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute email request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
		return "", pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"send email failed",
		)
	}

	var apiResp struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode email response")
	}

	return apiResp.ID, nil
}
