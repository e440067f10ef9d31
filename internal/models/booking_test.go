package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContact_Validate(t *testing.T) {
	tests := []struct {
		name      string
		contact   Contact
		wantField string
	}{
		{name: "valid", contact: Contact{FullName: "Nguyen Van A", Email: "a@example.com", Phone: "0901234567"}},
		{name: "missing name", contact: Contact{Email: "a@example.com", Phone: "0901234567"}, wantField: "full_name"},
		{name: "missing email", contact: Contact{FullName: "A", Phone: "0901234567"}, wantField: "email"},
		{name: "malformed email", contact: Contact{FullName: "A", Email: "a@", Phone: "0901234567"}, wantField: "email"},
		{name: "missing phone", contact: Contact{FullName: "A", Email: "a@example.com"}, wantField: "phone"},
		{name: "malformed phone", contact: Contact{FullName: "A", Email: "a@example.com", Phone: "call me"}, wantField: "phone"},
		{name: "international phone", contact: Contact{FullName: "A", Email: "a@example.com", Phone: "+84 90 123 4567"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.contact.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.wantField, validationErr.Field)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestBooking_Decode(t *testing.T) {
	body := `{"booking_id": 42, "event_id": 7, "status": "confirmed", "total_amount": "700000.00",
		"event": {"id": 7, "title": "Summer Concert", "date": "2026-12-01", "time": "19:00", "location": "HCMC"}}`

	var b Booking
	require.NoError(t, json.Unmarshal([]byte(body), &b))

	assert.Equal(t, FlexID("42"), b.ID)
	assert.Equal(t, 700000, b.TotalAmount.Int())
	assert.Equal(t, BookingConfirmed, b.Status)
	require.NotNil(t, b.Event)
	assert.Equal(t, "Summer Concert", b.Event.Title)
	assert.False(t, b.CanCancel())
}

func TestBooking_MarshalAddsPresentation(t *testing.T) {
	b := Booking{ID: "9", Status: BookingPending, TotalAmount: 1000}

	data, err := json.Marshal(b)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "Pending", out["status_label"])
	assert.Equal(t, "badge-warning", out["status_badge"])
	assert.Equal(t, "9", out["booking_id"])
}

func TestCreateBookingRequest_KeyNotInBody(t *testing.T) {
	req := CreateBookingRequest{
		EventID:        7,
		FullName:       "A",
		Email:          "a@example.com",
		Phone:          "0901234567",
		TicketTypes:    []BookingTicketLine{{Type: "VIP", Quantity: 2, TicketID: 11}},
		TotalAmount:    1000000,
		IdempotencyKey: "key",
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)

	assert.JSONEq(t, `{"event_id":7,"booking_full_name":"A","booking_email":"a@example.com",
		"booking_phone":"0901234567","ticket_types":[{"type":"VIP","quantity":2,"ticket_id":11}],
		"total_amount":1000000}`, string(data))
}

func TestBookingStatusUpdate_Validate(t *testing.T) {
	assert.NoError(t, (&BookingStatusUpdate{Status: BookingConfirmed}).Validate())
	assert.Error(t, (&BookingStatusUpdate{Status: "shipped"}).Validate())
	assert.Error(t, (&BookingStatusUpdate{Quantity: IntPtr(0)}).Validate())
}

func TestParseBookingStatus(t *testing.T) {
	status, err := ParseBookingStatus(" Cancelled ")
	require.NoError(t, err)
	assert.Equal(t, BookingCancelled, status)

	_, err = ParseBookingStatus("refunded")
	assert.Error(t, err)
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{in: `250000`, want: 250000},
		{in: `"250000.00"`, want: 250000},
		{in: `"99.5"`, want: 100},
		{in: `null`, want: 0},
		{in: `""`, want: 0},
	}

	for _, tt := range tests {
		var a Amount
		require.NoError(t, json.Unmarshal([]byte(tt.in), &a), tt.in)
		assert.Equal(t, tt.want, a.Int(), tt.in)
	}

	var a Amount
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &a))
}

func TestFlexID_UnmarshalJSON(t *testing.T) {
	var id FlexID
	require.NoError(t, json.Unmarshal([]byte(`123`), &id))
	assert.Equal(t, "123", id.String())

	require.NoError(t, json.Unmarshal([]byte(`"abc-1"`), &id))
	assert.Equal(t, "abc-1", id.String())

	require.NoError(t, json.Unmarshal([]byte(`null`), &id))
	assert.Empty(t, id.String())
}
