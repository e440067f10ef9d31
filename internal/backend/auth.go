package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"event-ticketing-storefront/internal/auth"
	"event-ticketing-storefront/internal/models"
)

const wrongCredentialsMessage = "Wrong email or password"

// Login exchanges credentials for a token and caches the profile
func (s *Session) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	data, err := s.do(ctx, &request{method: http.MethodPost, path: "/auth/login", body: creds, skipInterceptor: true})
	if err != nil {
		return nil, normalizeLoginError(err)
	}

	var resp models.AuthResponse
	if err := decode(data, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, &models.APIError{Kind: models.KindInvalidRequest, Message: wrongCredentialsMessage}
	}
	if err := s.remember(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account; the backend signs the user in directly
func (s *Session) Register(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	data, err := s.do(ctx, &request{method: http.MethodPost, path: "/auth/register", body: creds, skipInterceptor: true})
	if err != nil {
		return nil, err
	}

	var resp models.AuthResponse
	if err := decode(data, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken != "" {
		if err := s.remember(&resp); err != nil {
			return nil, err
		}
	}
	return &resp, nil
}

func (s *Session) remember(resp *models.AuthResponse) error {
	if err := s.store.SetToken(resp.AccessToken); err != nil {
		return err
	}
	var p auth.Profile
	if resp.User != nil {
		p = auth.Profile{UserID: resp.User.ID, Role: resp.User.Role, FullName: resp.User.FullName}
	}
	return s.store.SetProfile(p)
}

// Logout tells the backend and forgets the credentials even when the call fails
func (s *Session) Logout(ctx context.Context) error {
	_, err := s.do(ctx, &request{method: http.MethodPost, path: "/auth/logout", authenticated: true, skipInterceptor: true})
	if err != nil {
		s.client.logger.Info("Backend logout failed, clearing session anyway", zap.Error(err))
	}
	return s.store.Clear()
}

// IsAuthenticated probes the backend. It never fails: no token, any error or
// a negative answer all mean false.
func (s *Session) IsAuthenticated(ctx context.Context) bool {
	if s.store.Token() == "" {
		return false
	}
	data, err := s.do(ctx, &request{method: http.MethodGet, path: "/auth/is-auth", authenticated: true, skipInterceptor: true})
	if err != nil {
		return false
	}
	var env envelope
	if err := decode(data, &env); err != nil {
		return false
	}
	return env.Success != nil && *env.Success
}

// ForgotPassword asks the backend to mail an OTP
func (s *Session) ForgotPassword(ctx context.Context, email string) (*models.AuthResponse, error) {
	q := url.Values{"email": {email}}
	return s.authCall(ctx, &request{method: http.MethodGet, path: "/auth/forgot-password", query: q, skipInterceptor: true})
}

// VerifyOTP checks the mailed OTP
func (s *Session) VerifyOTP(ctx context.Context, v models.OTPVerification) (*models.AuthResponse, error) {
	return s.authCall(ctx, &request{method: http.MethodPost, path: "/auth/verify-otp", body: v, skipInterceptor: true})
}

// ResetPassword sets a new password after OTP verification
func (s *Session) ResetPassword(ctx context.Context, r models.PasswordReset) (*models.AuthResponse, error) {
	return s.authCall(ctx, &request{method: http.MethodPost, path: "/auth/reset-password", body: r, skipInterceptor: true})
}

func (s *Session) authCall(ctx context.Context, r *request) (*models.AuthResponse, error) {
	data, err := s.do(ctx, r)
	if err != nil {
		return nil, err
	}
	var resp models.AuthResponse
	if err := decode(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// normalizeLoginError hides which half of the credentials was wrong
func normalizeLoginError(err error) error {
	var apiErr *models.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Message {
	case "Wrong password", "Account does not exist":
		return &models.APIError{Kind: apiErr.Kind, Status: apiErr.Status, Message: wrongCredentialsMessage}
	}
	return err
}
