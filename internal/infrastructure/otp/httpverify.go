package otp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/you/portalsvc/domain"
)

// HTTPVerifyProvider is the request-keyed provider: send returns an
// opaque request id issued by the verification API and verify takes
// (request_id, code). The provider never sees the code before the user
// does.
type HTTPVerifyProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPVerifyProvider creates a new verification-API-backed provider
func NewHTTPVerifyProvider(baseURL, apiKey string, timeout time.Duration) domain.OTPGateway {
	return &HTTPVerifyProvider{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name implements domain.OTPGateway
func (p *HTTPVerifyProvider) Name() string { return "httpverify" }

type verifySendRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type verifyCheckRequest struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
}

type verifyResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Send implements domain.OTPGateway
func (p *HTTPVerifyProvider) Send(ctx context.Context, phone string) (*domain.OTPSendResult, error) {
	resp, err := p.post(ctx, "/send", verifySendRequest{PhoneNumber: phone})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderRejected, resp.Message)
	}

	return &domain.OTPSendResult{
		Message:   resp.Message,
		RequestID: resp.RequestID,
	}, nil
}

// Verify implements domain.OTPGateway. The identifier is the request id
// returned from Send.
func (p *HTTPVerifyProvider) Verify(ctx context.Context, identifier, code string) (*domain.OTPVerifyResult, error) {
	resp, err := p.post(ctx, "/verify", verifyCheckRequest{RequestID: identifier, Code: code})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		// A rejected check means a wrong or expired code, not a provider
		// outage
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidCode, resp.Message)
	}

	return &domain.OTPVerifyResult{Message: resp.Message}, nil
}

func (p *HTTPVerifyProvider) post(ctx context.Context, path string, payload any) (*verifyResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	httpResp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: provider returned status %d", domain.ErrProviderRejected, httpResp.StatusCode)
	}

	var resp verifyResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: unreadable provider response: %v", domain.ErrProviderRejected, err)
	}
	return &resp, nil
}
