package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/portalsvc/domain"
	"github.com/you/portalsvc/internal/http/middleware"
)

// AuthHandlers exposes the OTP authentication flow over HTTP
type AuthHandlers struct {
	flow domain.AuthFlow
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(flow domain.AuthFlow) *AuthHandlers {
	return &AuthHandlers{flow: flow}
}

// SendOTPRequest represents an OTP send request. An omitted remember_me
// field defers to the preference stored from a previous session.
type SendOTPRequest struct {
	Phone      string `json:"phone" binding:"required"`
	RememberMe *bool  `json:"remember_me"`
}

// VerifyOTPRequest represents an OTP verification request. Identifier is
// the phone number, or the request id for request-keyed providers.
type VerifyOTPRequest struct {
	Identifier     string `json:"identifier" binding:"required"`
	Code           string `json:"code" binding:"required"`
	RememberedPath string `json:"remembered_path,omitempty"`
}

// SendOTP handles OTP issuance
func (h *AuthHandlers) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.flow.SubmitPhone(c.Request.Context(), req.Phone, req.RememberMe)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPhone):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number"})
		case errors.Is(err, domain.ErrProviderRejected):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send verification code"})
		case errors.Is(err, domain.ErrNetwork):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Verification service unreachable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send OTP"})
		}
		return
	}

	// A duplicate submit while one is in flight reports the in-progress
	// state instead of sending a second code
	status := http.StatusOK
	if state.Loading {
		status = http.StatusAccepted
	}

	c.JSON(status, gin.H{
		"data": gin.H{
			"state":       string(state.State),
			"phone":       state.Phone,
			"otp_sent":    state.OtpSent,
			"remember_me": state.RememberMe,
			"dev_mode":    state.DevMode,
		},
	})
}

// VerifyOTP handles OTP verification and session issuance
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.flow.SubmitCode(c.Request.Context(), req.Identifier, req.Code, req.RememberedPath)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyCode), errors.Is(err, domain.ErrInvalidCode):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification code"})
		case errors.Is(err, domain.ErrChallengeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No verification in progress"})
		case errors.Is(err, domain.ErrOTPMaxAttempts):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Maximum attempts exceeded"})
		case errors.Is(err, domain.ErrNetwork):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Verification service unreachable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "OTP verification failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"token":       result.Session.Token,
			"token_type":  "Bearer",
			"expires_at":  result.Session.ExpiresAt,
			"redirect_to": result.RedirectTo,
			"profile": gin.H{
				"id":           result.Profile.ID,
				"phone":        result.Profile.Phone,
				"profile_type": result.Profile.ProfileType,
			},
		},
	})
}

// ValidateSessionRequest carries the stored token to check
type ValidateSessionRequest struct {
	SessionToken string `json:"session_token" binding:"required"`
}

// ValidateSession handles session restoration from a stored token. A
// dead session is a negative answer, not an error: the caller is asking
// a question, not asserting a right.
func (h *AuthHandlers) ValidateSession(c *gin.Context) {
	var req ValidateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.flow.Restore(c.Request.Context(), req.SessionToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionExpired):
			c.JSON(http.StatusOK, gin.H{"data": gin.H{"valid": false, "reason": "expired"}})
		case errors.Is(err, domain.ErrSessionNotFound):
			c.JSON(http.StatusOK, gin.H{"data": gin.H{"valid": false, "reason": "not_found"}})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Session validation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"valid":       true,
			"expires_at":  result.Session.ExpiresAt,
			"redirect_to": result.RedirectTo,
			"profile": gin.H{
				"id":           result.Profile.ID,
				"phone":        result.Profile.Phone,
				"profile_type": result.Profile.ProfileType,
			},
		},
	})
}

// Me handles getting the authenticated profile (requires authentication)
func (h *AuthHandlers) Me(c *gin.Context) {
	token, exists := c.Get(middleware.CtxSessionToken)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session token not found in context"})
		return
	}

	result, err := h.flow.Restore(c.Request.Context(), token.(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session no longer valid"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":           result.Profile.ID,
			"phone":        result.Profile.Phone,
			"profile_type": result.Profile.ProfileType,
			"patient_name": result.Profile.PatientName,
			"created_at":   result.Profile.CreatedAt,
			"updated_at":   result.Profile.UpdatedAt,
		},
	})
}

// Logout handles session termination (requires authentication)
func (h *AuthHandlers) Logout(c *gin.Context) {
	token, exists := c.Get(middleware.CtxSessionToken)
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session token not found"})
		return
	}

	if err := h.flow.Logout(c.Request.Context(), token.(string)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Logged out successfully",
		},
	})
}
