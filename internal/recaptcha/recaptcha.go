// Package recaptcha verifies reCAPTCHA tokens submitted with sign-up and
// sign-in forms.
package recaptcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrRejected means the provider answered and refused the token.
	ErrRejected = errors.New("recaptcha verification failed")
	// ErrUnavailable means the provider could not be reached or answered garbage.
	ErrUnavailable = errors.New("recaptcha provider unavailable")
)

// Verifier checks a client-supplied token.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

type siteVerifyResponse struct {
	Success    bool     `json:"success"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

// Client calls the siteverify endpoint.
type Client struct {
	secret     string
	verifyURL  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a verifier bound to secret. An empty secret yields a
// verifier that accepts everything.
func NewClient(secret, verifyURL string, logger *slog.Logger) Verifier {
	if secret == "" {
		logger.Warn("⚠️ [Recaptcha] No secret configured - verification is disabled")
		return NoOp{}
	}
	return &Client{
		secret:     secret,
		verifyURL:  verifyURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

func (c *Client) Verify(ctx context.Context, token, remoteIP string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: missing token", ErrRejected)
	}

	form := url.Values{
		"secret":   {c.secret},
		"response": {token},
	}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("❌ [Recaptcha] Verification request failed", "error", err)
		return errors.Join(ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("❌ [Recaptcha] Unexpected status", "status", resp.StatusCode)
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body siteVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return errors.Join(ErrUnavailable, err)
	}

	if !body.Success {
		c.logger.Warn("⚠️ [Recaptcha] Token rejected", "error_codes", body.ErrorCodes)
		return fmt.Errorf("%w: %s", ErrRejected, strings.Join(body.ErrorCodes, ","))
	}
	return nil
}

// NoOp accepts every token.
type NoOp struct{}

func (NoOp) Verify(context.Context, string, string) error { return nil }
