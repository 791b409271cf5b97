// Package authclient is the client-side SDK for the access-gate endpoints:
// a retrying status hook, a session conflict resolver, and the HTTP caller
// they share. Frontends and the ops CLI consume it; the server does not.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	httptransport "dealerportal/contexts/identity-access/access-gate/transport/http"
)

// APIError is a classified failure response from a status endpoint.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("authclient: status %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Retryable reports whether the hook may retry this failure. Only the
// authentication kind is retryable; it covers the provider propagation window
// where the edge already sees a session the status path cannot yet read.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// StatusResult is one capability decision from a status endpoint.
type StatusResult struct {
	Granted bool
	Profile *httptransport.UserProfileDTO
}

// Client calls the status reconciliation endpoints with a session token.
type Client struct {
	BaseURL      string
	SessionToken string
	HTTPClient   *http.Client
}

func NewClient(baseURL, sessionToken string) *Client {
	return &Client{
		BaseURL:      baseURL,
		SessionToken: sessionToken,
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// AdminStatus checks the admin capability for the token's session.
func (c *Client) AdminStatus(ctx context.Context) (StatusResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/admin/check-status", nil)
	if err != nil {
		return StatusResult{}, err
	}
	c.authorize(req)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return StatusResult{}, err
	}
	defer resp.Body.Close()

	var body httptransport.AdminStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return StatusResult{}, fmt.Errorf("authclient: decode admin status: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return StatusResult{}, &APIError{
			StatusCode: resp.StatusCode,
			Code:       body.Error,
			Message:    body.Debug,
		}
	}
	return StatusResult{Granted: body.IsAdmin, Profile: body.User}, nil
}

// DealerStatus checks the dealer capability, asserting the caller's own
// email and subject id in the request body.
func (c *Client) DealerStatus(ctx context.Context, email, subjectID string) (StatusResult, error) {
	payload, err := json.Marshal(httptransport.DealerStatusRequest{
		Email:       email,
		ClerkUserID: subjectID,
	})
	if err != nil {
		return StatusResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/dealer/check-status", bytes.NewReader(payload))
	if err != nil {
		return StatusResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return StatusResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var failure httptransport.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&failure); err != nil {
			failure = httptransport.ErrorResponse{Code: "unreadable_error"}
		}
		return StatusResult{}, &APIError{
			StatusCode: resp.StatusCode,
			Code:       failure.Code,
			Message:    failure.Message,
		}
	}

	var body httptransport.DealerStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return StatusResult{}, fmt.Errorf("authclient: decode dealer status: %w", err)
	}
	return StatusResult{Granted: body.IsApprovedDealer, Profile: body.User}, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.SessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.SessionToken)
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
