package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"event-ticketing-storefront/internal/models"
)

// ListUsers returns one page of users
func (s *Session) ListUsers(ctx context.Context, f models.AdminUserFilter) (*models.Page[models.User], error) {
	q := pageQuery(f.Page, f.Limit, map[string]string{"role": f.Role, "search": f.Search})
	data, err := s.adminGet(ctx, "/users", q)
	if err != nil {
		return nil, err
	}
	return decodePage[models.User](data, "users")
}

// GetUser returns one user with statistics
func (s *Session) GetUser(ctx context.Context, id int) (*models.User, error) {
	data, err := s.adminGet(ctx, "/users/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := decode(data, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, notFound("user not found")
	}
	return resp.User, nil
}

// UpdateUser changes a user's editable fields
func (s *Session) UpdateUser(ctx context.Context, id int, update models.UserUpdate) (*models.User, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	data, err := s.do(ctx, &request{method: http.MethodPut, path: "/admin/users/" + strconv.Itoa(id), body: update, authenticated: true})
	if err != nil {
		return nil, err
	}
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := decode(data, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, notFound("user not found")
	}
	return resp.User, nil
}

// DeleteUser removes a user
func (s *Session) DeleteUser(ctx context.Context, id int) error {
	_, err := s.do(ctx, &request{method: http.MethodDelete, path: "/admin/users/" + strconv.Itoa(id), authenticated: true})
	return err
}

// ListAdminEvents returns one page of events with statistics
func (s *Session) ListAdminEvents(ctx context.Context, f models.AdminEventFilter) (*models.Page[models.AdminEvent], error) {
	q := pageQuery(f.Page, f.Limit, map[string]string{"category": f.Category, "status": f.Status, "search": f.Search})
	data, err := s.adminGet(ctx, "/events", q)
	if err != nil {
		return nil, err
	}
	return decodePage[models.AdminEvent](data, "events")
}

// DeleteAdminEvent removes any event
func (s *Session) DeleteAdminEvent(ctx context.Context, id int) error {
	if _, err := s.do(ctx, &request{method: http.MethodDelete, path: "/admin/events/" + strconv.Itoa(id), authenticated: true}); err != nil {
		return err
	}
	s.client.cache.invalidateEvent(ctx, id)
	return nil
}

// UpdateEventApproval moves an event between approval states
func (s *Session) UpdateEventApproval(ctx context.Context, id int, status models.ApprovalStatus) error {
	if !status.Valid() {
		return models.NewValidationError("status", "invalid approval status")
	}
	body := map[string]models.ApprovalStatus{"status": status}
	if _, err := s.do(ctx, &request{method: http.MethodPut, path: "/admin/events/" + strconv.Itoa(id) + "/approval", body: body, authenticated: true}); err != nil {
		return err
	}
	s.client.cache.invalidateEvent(ctx, id)
	return nil
}

// ListAdminBookings returns one page of bookings with lines and payment
func (s *Session) ListAdminBookings(ctx context.Context, f models.AdminBookingFilter) (*models.Page[models.AdminBooking], error) {
	filters := map[string]string{"status": f.Status, "search": f.Search}
	if f.EventID > 0 {
		filters["event_id"] = strconv.Itoa(f.EventID)
	}
	if f.UserID > 0 {
		filters["user_id"] = strconv.Itoa(f.UserID)
	}
	data, err := s.adminGet(ctx, "/bookings", pageQuery(f.Page, f.Limit, filters))
	if err != nil {
		return nil, err
	}
	return decodePage[models.AdminBooking](data, "bookings")
}

// GetAdminBooking returns one booking
func (s *Session) GetAdminBooking(ctx context.Context, id int) (*models.AdminBooking, error) {
	data, err := s.adminGet(ctx, "/bookings/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Booking *models.AdminBooking `json:"booking"`
	}
	if err := decode(data, &resp); err != nil {
		return nil, err
	}
	if resp.Booking == nil {
		return nil, notFound("booking not found")
	}
	return resp.Booking, nil
}

// UpdateAdminBookingStatus changes a booking's status with a reason
func (s *Session) UpdateAdminBookingStatus(ctx context.Context, id int, update models.AdminBookingStatusUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	_, err := s.do(ctx, &request{method: http.MethodPut, path: "/admin/bookings/" + strconv.Itoa(id) + "/status", body: update, authenticated: true})
	return err
}

// ListPayments returns one page of payments
func (s *Session) ListPayments(ctx context.Context, f models.AdminPaymentFilter) (*models.Page[models.AdminPayment], error) {
	data, err := s.adminGet(ctx, "/payments", pageQuery(f.Page, f.Limit, map[string]string{"status": f.Status}))
	if err != nil {
		return nil, err
	}
	return decodePage[models.AdminPayment](data, "payments")
}

// DashboardStats returns the dashboard summary
func (s *Session) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	data, err := s.adminGet(ctx, "/dashboard/stats", nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Stats models.DashboardStats `json:"stats"`
	}
	if err := decode(data, &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}

// RecentBookings returns the latest bookings for the dashboard
func (s *Session) RecentBookings(ctx context.Context, limit int) ([]models.RecentBooking, error) {
	data, err := s.adminGet(ctx, "/dashboard/recent-bookings", pageQuery(0, limit, nil))
	if err != nil {
		return nil, err
	}
	var resp struct {
		Bookings []models.RecentBooking `json:"bookings"`
	}
	if err := decode(data, &resp); err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}

// TopEvents returns the best-selling events for the dashboard
func (s *Session) TopEvents(ctx context.Context, limit int) ([]models.TopEvent, error) {
	data, err := s.adminGet(ctx, "/dashboard/top-events", pageQuery(0, limit, nil))
	if err != nil {
		return nil, err
	}
	var resp struct {
		Events []models.TopEvent `json:"events"`
	}
	if err := decode(data, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

func (s *Session) adminGet(ctx context.Context, path string, q url.Values) ([]byte, error) {
	return s.do(ctx, &request{method: http.MethodGet, path: "/admin" + path, query: q, authenticated: true})
}

func notFound(message string) error {
	return &models.APIError{Kind: models.KindInvalidRequest, Status: http.StatusNotFound, Message: message}
}
