package backend

import (
	"context"
	"net/http"
	"strconv"

	"event-ticketing-storefront/internal/models"
)

// CreateBooking submits a booking and returns its identifier. The
// idempotency key travels as a header; the backend may ignore it.
func (s *Session) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (string, error) {
	r := &request{method: http.MethodPost, path: "/bookings", body: req, authenticated: true}
	if req.IdempotencyKey != "" {
		r.header = http.Header{IdempotencyKeyHeader: {req.IdempotencyKey}}
	}

	data, err := s.do(ctx, r)
	if err != nil {
		return "", err
	}
	var resp struct {
		BookingID models.FlexID `json:"booking_id"`
	}
	if err := decode(data, &resp); err != nil {
		return "", err
	}
	if resp.BookingID == "" {
		return "", &models.APIError{Kind: models.KindUnknown, Message: "backend returned no booking id"}
	}
	return resp.BookingID.String(), nil
}

// MyBookings lists the signed-in user's bookings
func (s *Session) MyBookings(ctx context.Context) ([]models.Booking, error) {
	return s.bookingList(ctx, "/bookings/my-bookings")
}

// EventBookings lists the bookings of an event (organizer only)
func (s *Session) EventBookings(ctx context.Context, eventID int) ([]models.Booking, error) {
	return s.bookingList(ctx, "/events/"+strconv.Itoa(eventID)+"/bookings")
}

func (s *Session) bookingList(ctx context.Context, path string) ([]models.Booking, error) {
	data, err := s.do(ctx, &request{method: http.MethodGet, path: path, authenticated: true})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Bookings []models.Booking `json:"bookings"`
	}
	if err := decode(data, &resp); err != nil {
		return nil, err
	}
	if resp.Bookings == nil {
		resp.Bookings = []models.Booking{}
	}
	return resp.Bookings, nil
}

// GetBooking returns one booking
func (s *Session) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	data, err := s.do(ctx, &request{method: http.MethodGet, path: "/bookings/" + id, authenticated: true})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Booking *models.Booking `json:"booking"`
	}
	if err := decode(data, &resp); err != nil {
		return nil, err
	}
	if resp.Booking == nil {
		return nil, &models.APIError{Kind: models.KindInvalidRequest, Status: http.StatusNotFound, Message: "booking not found"}
	}
	return resp.Booking, nil
}

// UpdateBookingStatus issues PUT /bookings/:id
func (s *Session) UpdateBookingStatus(ctx context.Context, id string, update models.BookingStatusUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	_, err := s.do(ctx, &request{method: http.MethodPut, path: "/bookings/" + id, body: update, authenticated: true})
	return err
}

// CancelBooking cancels a booking on the user's behalf
func (s *Session) CancelBooking(ctx context.Context, id string) error {
	return s.UpdateBookingStatus(ctx, id, models.BookingStatusUpdate{Status: models.BookingCancelled})
}

// ConfirmBooking confirms a booking (organizer only)
func (s *Session) ConfirmBooking(ctx context.Context, id string) error {
	return s.UpdateBookingStatus(ctx, id, models.BookingStatusUpdate{Status: models.BookingConfirmed})
}

// DeleteBooking removes a booking
func (s *Session) DeleteBooking(ctx context.Context, id string) error {
	_, err := s.do(ctx, &request{method: http.MethodDelete, path: "/bookings/" + id, authenticated: true})
	return err
}
