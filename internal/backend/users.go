package backend

import (
	"context"
	"net/http"

	"event-ticketing-storefront/internal/models"
)

// Profile returns the signed-in user's profile
func (s *Session) Profile(ctx context.Context) (*models.Profile, error) {
	data, err := s.do(ctx, &request{method: http.MethodGet, path: "/user", authenticated: true})
	if err != nil {
		return nil, err
	}
	var resp struct {
		User *models.Profile `json:"user"`
	}
	if err := decode(data, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return &models.Profile{}, nil
	}
	return resp.User, nil
}

// UpdateProfile replaces the signed-in user's profile fields
func (s *Session) UpdateProfile(ctx context.Context, p models.Profile) error {
	if _, err := s.do(ctx, &request{method: http.MethodPut, path: "/user", body: p, authenticated: true}); err != nil {
		return err
	}
	cached := s.store.Profile()
	if p.FullName != "" && cached.FullName != p.FullName {
		cached.FullName = p.FullName
		return s.store.SetProfile(cached)
	}
	return nil
}

// ChangePassword changes the signed-in user's password
func (s *Session) ChangePassword(ctx context.Context, change models.PasswordChange) error {
	if err := change.Validate(); err != nil {
		return err
	}
	_, err := s.do(ctx, &request{method: http.MethodPost, path: "/user/change-password", body: change, authenticated: true})
	return err
}
