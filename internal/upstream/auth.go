package upstream

import (
	"context"
	"errors"
	"net/http"

	"marketfront/internal/model"
)

// OTP purposes accepted by the backend.
const (
	OTPPurposeRegister = "register"
	OTPPurposeReset    = "reset"
)

// LoginRequest carries the credential exchange payload. Phone is the full
// international form, e.g. +998901234567.
type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// RegisterRequest starts registration; the backend sends an OTP to the phone.
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// VerifyResult carries the short-lived proof that an OTP was entered correctly;
// it authorizes the final step of registration or password reset.
type VerifyResult struct {
	VerifyToken string `json:"verify_token"`
}

// Login exchanges credentials for a token pair and persists it in the jar.
// Failures map to ErrInvalidCredentials / ErrInactiveAccount; this endpoint
// never triggers the refresh/redirect policy.
func (c *Client) Login(ctx context.Context, req LoginRequest) error {
	var res tokenResponse
	if err := c.doAuth(ctx, http.MethodPost, "/api/v1/auth/login", req, &res); err != nil {
		return loginError(err)
	}
	c.jar.SetPair(res.AccessToken, res.RefreshToken)
	return nil
}

// Register submits the info step; the backend responds by sending an OTP.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return loginError(c.doAuth(ctx, http.MethodPost, "/api/v1/auth/register", req, nil))
}

// SendOTP asks the backend to (re)send a code for the given purpose.
func (c *Client) SendOTP(ctx context.Context, phone, purpose string) error {
	payload := map[string]string{"phone": phone, "purpose": purpose}
	return otpError(c.doAuth(ctx, http.MethodPost, "/api/v1/auth/otp/send", payload, nil))
}

// VerifyOTP checks the assembled code. A wrong code and a rate-limit lockout
// are distinct errors so the UI can show a cooldown instead of "wrong code".
func (c *Client) VerifyOTP(ctx context.Context, phone, code, purpose string) (*VerifyResult, error) {
	payload := map[string]string{"phone": phone, "code": code, "purpose": purpose}
	var res VerifyResult
	if err := c.doAuth(ctx, http.MethodPost, "/api/v1/auth/otp/verify", payload, &res); err != nil {
		return nil, otpError(err)
	}
	return &res, nil
}

// CompleteRegistration sets the password after OTP verification and logs the
// new account in by persisting the returned token pair.
func (c *Client) CompleteRegistration(ctx context.Context, phone, verifyToken, password string) error {
	payload := map[string]string{"phone": phone, "verify_token": verifyToken, "password": password}
	var res tokenResponse
	if err := c.doAuth(ctx, http.MethodPost, "/api/v1/auth/register/complete", payload, &res); err != nil {
		return loginError(err)
	}
	c.jar.SetPair(res.AccessToken, res.RefreshToken)
	return nil
}

// ResetPassword finishes the forgot-password flow after OTP verification.
func (c *Client) ResetPassword(ctx context.Context, phone, verifyToken, password string) error {
	payload := map[string]string{"phone": phone, "verify_token": verifyToken, "password": password}
	return loginError(c.doAuth(ctx, http.MethodPost, "/api/v1/auth/password/reset", payload, nil))
}

// CurrentUser fetches the authoritative account record.
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile sends partial profile fields and returns the updated record.
func (c *Client) UpdateProfile(ctx context.Context, patch model.UserPatch) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPut, "/api/v1/users/me", nil, patch, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// loginError maps credential-exchange failures onto the sentinel taxonomy.
func loginError(err error) error {
	var he *HTTPError
	if !errors.As(err, &he) {
		return err
	}
	switch he.Status {
	case http.StatusUnauthorized:
		return ErrInvalidCredentials
	case http.StatusForbidden:
		return ErrInactiveAccount
	}
	return err
}

// otpError maps OTP failures; "too many attempts" stays distinct from "wrong code".
func otpError(err error) error {
	var he *HTTPError
	if !errors.As(err, &he) {
		return err
	}
	switch he.Status {
	case http.StatusTooManyRequests:
		return ErrTooManyAttempts
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusUnauthorized:
		return ErrWrongCode
	}
	return err
}
