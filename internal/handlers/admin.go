package handlers

import (
	"net/http"

	"event-ticketing-storefront/internal/models"
)

// The admin views add the shared label/badge presentation to each row

type adminUserView struct {
	models.User
	RoleLabel string `json:"role_label"`
	RoleBadge string `json:"role_badge"`
}

type adminEventView struct {
	models.AdminEvent
	StatusLabel string `json:"status_label"`
	StatusBadge string `json:"status_badge"`
}

type adminBookingView struct {
	models.AdminBooking
	StatusLabel string `json:"status_label"`
	StatusBadge string `json:"status_badge"`
}

type adminPaymentView struct {
	models.AdminPayment
	StatusLabel string `json:"status_label"`
	StatusBadge string `json:"status_badge"`
}

// pageView keeps the pagination fields of a backend page
type pageView[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

func mapPage[S, T any](page *models.Page[S], view func(S) T) pageView[T] {
	out := pageView[T]{Items: make([]T, 0, len(page.Items)), Total: page.Total, Page: page.Page, TotalPages: page.TotalPages}
	for _, item := range page.Items {
		out.Items = append(out.Items, view(item))
	}
	return out
}

func userView(u models.User) adminUserView {
	p := models.UserRolePresentation(u.Role)
	return adminUserView{User: u, RoleLabel: p.Label, RoleBadge: p.Badge}
}

func eventView(e models.AdminEvent) adminEventView {
	p := models.ApprovalStatusPresentation(e.Approval)
	return adminEventView{AdminEvent: e, StatusLabel: p.Label, StatusBadge: p.Badge}
}

func bookingView(b models.AdminBooking) adminBookingView {
	p := models.BookingStatusPresentation(b.Status)
	return adminBookingView{AdminBooking: b, StatusLabel: p.Label, StatusBadge: p.Badge}
}

func paymentView(p models.AdminPayment) adminPaymentView {
	pres := models.PaymentStatusPresentation(p.Status)
	return adminPaymentView{AdminPayment: p, StatusLabel: pres.Label, StatusBadge: pres.Badge}
}

// AdminListUsers lists users with role/search filters
func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	session, nav := h.session(r)
	page, err := session.ListUsers(r.Context(), models.AdminUserFilter{
		Role:   q.Get("role"),
		Search: q.Get("search"),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	})
	if err != nil {
		h.fail(w, r, nav, err)
		return
	}
	ok(w, mapPage(page, userView))
}

// AdminGetUser returns one user with booking statistics
func (h *Handler) AdminGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		h.fail(w, r, nil, err)
		return
	}
	session, nav := h.session(r)
	user, err := session.GetUser(r.Context(), id)
	if err != nil {
		h.fail(w, r, nav, err)
		return
	}
	ok(w, userView(*user))
}

// AdminUpdateUser applies an admin edit to a user
func (h *Handler) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		h.fail(w, r, nil, err)
		return
	}
	var update models.UserUpdate
	if err := decodeBody(w, r, &update); err != nil {
		h.fail(w, r, nil, err)
		return
	}
	session, nav := h.session(r)
	user, err := session.UpdateUser(r.Context(), id, update)
	if err != nil {
		h.fail(w, r, nav, err)
		return
	}
	ok(w, userView(*user))
}

// AdminDeleteUser deletes a user
func (h *Handler) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		h.fail(w, r, nil, err)
		return
	}
	session, nav := h.session(r)
	if err := session.DeleteUser(r.Context(), id); err != nil {
		h.fail(w, r, nav, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "User deleted"})
}

// AdminListEvents lists events with their approval state
func (h *Handler) AdminListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	session, nav := h.session(r)
	page, err := session.ListAdminEvents(r.Context(), models.AdminEventFilter{
		Category: q.Get("category"),
		Status:   q.Get("status"),
		Search:   q.Get("search"),
		Page:     queryInt(r, "page"),
		Limit:    queryInt(r, "limit"),
	})
	if err != nil {
		h.fail(w, r, nav, err)
		return
	}
	ok(w, mapPage(page, eventView))
}

// AdminDeleteEvent removes an event
func (h *Handler) AdminDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		h.fail(w, r, nil, err)
		return
	}
	session, nav := h.session(r)
	if err := session.DeleteAdminEvent(r.Context(), id); err != nil {
		h.fail(w, r, nav, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Event deleted"})
}

type approvalRequest struct {
	Status string `json:"status"`
}

// AdminUpdateEventApproval approves or rejects an event
func (h *Handler) AdminUpdateEventApproval(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		h.fail(w, r, nil, err)
		return
	}
	var req approvalRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, nil, err)
		return
	}
	status, err := models.ParseApprovalStatus(req.Status)
	if err != nil {
		h.fail(w, r, nil, models.NewValidationError("status", err.Error()))
		return
	}

	session, nav := h.session(r)
	if err := session.UpdateEventApproval(r.Context(), id, status); err != nil {
		h.fail(w, r, nav, err)
		return
	}
	p := models.ApprovalStatusPresentation(status)
	ok(w, map[string]any{"id": id, "approved": status, "status_label": p.Label, "status_badge": p.Badge})
}

// AdminListBookings lists bookings with status/event/user filters
func (h *Handler) AdminListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	session, nav := h.session(r)
	page, err := session.ListAdminBookings(r.Context(), models.AdminBookingFilter{
		Status:  q.Get("status"),
		EventID: queryInt(r, "event_id"),
		UserID:  queryInt(r, "user_id"),
		Search:  q.Get("search"),
		Page:    queryInt(r, "page"),
		Limit:   queryInt(r, "limit"),
	})
	if err != nil {
		h.fail(w, r, nav, err)
		return
	}
	ok(w, mapPage(page, bookingView))
}

// AdminGetBooking returns one booking with its lines and payment
func (h *Handler) AdminGetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		h.fail(w, r, nil, err)
		return
	}
	session, nav := h.session(r)
	booking, err := session.GetAdminBooking(r.Context(), id)
	if err != nil {
		h.fail(w, r, nav, err)
		return
	}
	ok(w, bookingView(*booking))
}

// AdminUpdateBookingStatus changes a booking's status
func (h *Handler) AdminUpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		h.fail(w, r, nil, err)
		return
	}
	var update models.AdminBookingStatusUpdate
	if err := decodeBody(w, r, &update); err != nil {
		h.fail(w, r, nil, err)
		return
	}
	session, nav := h.session(r)
	if err := session.UpdateAdminBookingStatus(r.Context(), id, update); err != nil {
		h.fail(w, r, nav, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Booking status updated"})
}

// AdminListPayments lists payments
func (h *Handler) AdminListPayments(w http.ResponseWriter, r *http.Request) {
	session, nav := h.session(r)
	page, err := session.ListPayments(r.Context(), models.AdminPaymentFilter{
		Status: r.URL.Query().Get("status"),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	})
	if err != nil {
		h.fail(w, r, nav, err)
		return
	}
	ok(w, mapPage(page, paymentView))
}

type dashboardView struct {
	Stats          *models.DashboardStats `json:"stats"`
	RecentBookings []recentBookingView    `json:"recent_bookings"`
	TopEvents      []models.TopEvent      `json:"top_events"`
}

type recentBookingView struct {
	models.RecentBooking
	StatusLabel string `json:"status_label"`
	StatusBadge string `json:"status_badge"`
}

const dashboardListLimit = 5

// AdminDashboard aggregates the dashboard summary, recent bookings and top
// events
func (h *Handler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit")
	if limit == 0 {
		limit = dashboardListLimit
	}

	session, nav := h.session(r)
	stats, err := session.DashboardStats(r.Context())
	if err != nil {
		h.fail(w, r, nav, err)
		return
	}
	recent, err := session.RecentBookings(r.Context(), limit)
	if err != nil {
		h.fail(w, r, nav, err)
		return
	}
	top, err := session.TopEvents(r.Context(), limit)
	if err != nil {
		h.fail(w, r, nav, err)
		return
	}

	view := dashboardView{Stats: stats, RecentBookings: make([]recentBookingView, 0, len(recent)), TopEvents: top}
	for _, b := range recent {
		p := models.BookingStatusPresentation(b.Status)
		view.RecentBookings = append(view.RecentBookings, recentBookingView{RecentBooking: b, StatusLabel: p.Label, StatusBadge: p.Badge})
	}
	if view.TopEvents == nil {
		view.TopEvents = []models.TopEvent{}
	}
	ok(w, view)
}
