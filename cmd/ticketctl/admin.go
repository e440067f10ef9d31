package main

import (
	"context"
	"fmt"

	"event-ticketing-storefront/internal/backend"
	"event-ticketing-storefront/internal/models"
)

const adminUsage = "admin users|events|bookings|payments|stats|approve|booking-status"

func (a *app) admin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: %s", errUsage, adminUsage)
	}
	if !a.store.Profile().IsAdmin() {
		return &models.APIError{Kind: models.KindUnauthorized, Status: 403, Message: "You do not have permission to access this resource."}
	}

	session, _ := a.session("/admin/" + args[0])
	rest := args[1:]
	switch args[0] {
	case "users":
		return a.adminUsers(ctx, session, rest)
	case "events":
		return a.adminEvents(ctx, session, rest)
	case "bookings":
		return a.adminBookings(ctx, session, rest)
	case "payments":
		return a.adminPayments(ctx, session, rest)
	case "stats":
		return a.adminStats(ctx, session)
	case "approve":
		return a.adminApprove(ctx, session, rest)
	case "booking-status":
		return a.adminBookingStatus(ctx, session, rest)
	}
	return fmt.Errorf("%w: %s", errUsage, adminUsage)
}

func (a *app) adminUsers(ctx context.Context, session *backend.Session, args []string) error {
	fs := a.newFlags("admin users")
	role := fs.String("role", "", "user, organizer or admin")
	search := fs.String("search", "", "name or email search")
	page := fs.Int("page", 0, "page number")
	limit := fs.Int("limit", 0, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := session.ListUsers(ctx, models.AdminUserFilter{Role: *role, Search: *search, Page: *page, Limit: *limit})
	if err != nil {
		return err
	}

	tw := a.table()
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tCREATED")
	for _, u := range result.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.FullName, u.Email, models.UserRolePresentation(u.Role).Label, u.CreatedAt)
	}
	return a.flushPage(tw.Flush(), result.Page, result.TotalPages, result.Total)
}

func (a *app) adminEvents(ctx context.Context, session *backend.Session, args []string) error {
	fs := a.newFlags("admin events")
	category := fs.String("category", "", "category")
	status := fs.String("status", "", "upcoming, past or today")
	search := fs.String("search", "", "title search")
	page := fs.Int("page", 0, "page number")
	limit := fs.Int("limit", 0, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := session.ListAdminEvents(ctx, models.AdminEventFilter{
		Category: *category, Status: *status, Search: *search, Page: *page, Limit: *limit,
	})
	if err != nil {
		return err
	}

	tw := a.table()
	fmt.Fprintln(tw, "ID\tTITLE\tDATE\tAPPROVAL\tSOLD\tREVENUE")
	for _, e := range result.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\n", e.ID, e.Title, e.Date,
			models.ApprovalStatusPresentation(e.Approval).Label, e.Statistics.TicketsSold, e.Statistics.Revenue.Int())
	}
	return a.flushPage(tw.Flush(), result.Page, result.TotalPages, result.Total)
}

func (a *app) adminBookings(ctx context.Context, session *backend.Session, args []string) error {
	fs := a.newFlags("admin bookings")
	status := fs.String("status", "", "pending, confirmed or cancelled")
	eventID := fs.Int("event", 0, "event id")
	userID := fs.Int("user", 0, "user id")
	search := fs.String("search", "", "name or email search")
	page := fs.Int("page", 0, "page number")
	limit := fs.Int("limit", 0, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := session.ListAdminBookings(ctx, models.AdminBookingFilter{
		Status: *status, EventID: *eventID, UserID: *userID, Search: *search, Page: *page, Limit: *limit,
	})
	if err != nil {
		return err
	}

	tw := a.table()
	fmt.Fprintln(tw, "ID\tEVENT\tCUSTOMER\tAMOUNT\tSTATUS\tPAYMENT")
	for _, b := range result.Items {
		payment := "-"
		if b.Payment != nil {
			payment = models.PaymentStatusPresentation(b.Payment.Status).Label
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n", b.ID, b.EventName, b.FullName, b.TotalAmount.Int(),
			models.BookingStatusPresentation(b.Status).Label, payment)
	}
	return a.flushPage(tw.Flush(), result.Page, result.TotalPages, result.Total)
}

func (a *app) adminPayments(ctx context.Context, session *backend.Session, args []string) error {
	fs := a.newFlags("admin payments")
	status := fs.String("status", "", "pending, completed, failed or refunded")
	page := fs.Int("page", 0, "page number")
	limit := fs.Int("limit", 0, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := session.ListPayments(ctx, models.AdminPaymentFilter{Status: *status, Page: *page, Limit: *limit})
	if err != nil {
		return err
	}

	tw := a.table()
	fmt.Fprintln(tw, "ID\tBOOKING\tEVENT\tCUSTOMER\tMETHOD\tAMOUNT\tSTATUS")
	for _, p := range result.Items {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%d\t%s\n", p.ID, p.BookingID, p.EventName, p.CustomerName, p.Method,
			p.Amount.Int(), models.PaymentStatusPresentation(p.Status).Label)
	}
	return a.flushPage(tw.Flush(), result.Page, result.TotalPages, result.Total)
}

func (a *app) adminStats(ctx context.Context, session *backend.Session) error {
	stats, err := session.DashboardStats(ctx)
	if err != nil {
		return err
	}
	top, err := session.TopEvents(ctx, 5)
	if err != nil {
		return err
	}

	tw := a.table()
	fmt.Fprintf(tw, "Users\t%d\n", stats.TotalUsers)
	fmt.Fprintf(tw, "Events\t%d (%d upcoming)\n", stats.TotalEvents, stats.UpcomingEvents)
	fmt.Fprintf(tw, "Bookings\t%d (%d confirmed, %d pending)\n", stats.TotalBookings, stats.ConfirmedBookings, stats.PendingBookings)
	fmt.Fprintf(tw, "Tickets sold\t%d\n", stats.TotalTicketsSold)
	fmt.Fprintf(tw, "Revenue\t%d (%d this month)\n", stats.TotalRevenue.Int(), stats.RevenueThisMonth.Int())
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(top) == 0 {
		return nil
	}
	fmt.Fprintln(a.out, "\nTop events")
	tw = a.table()
	for _, e := range top {
		fmt.Fprintf(tw, "%d\t%s\t%d sold\t%d\n", e.ID, e.Title, e.TicketsSold, e.Revenue.Int())
	}
	return tw.Flush()
}

func (a *app) adminApprove(ctx context.Context, session *backend.Session, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: admin approve <event-id> approved|pending|rejected", errUsage)
	}
	id, err := positiveID(args[0], "event")
	if err != nil {
		return err
	}
	status, err := models.ParseApprovalStatus(args[1])
	if err != nil {
		return models.NewValidationError("status", err.Error())
	}

	if err := session.UpdateEventApproval(ctx, id, status); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Event %d is now %s\n", id, models.ApprovalStatusPresentation(status).Label)
	return nil
}

func (a *app) adminBookingStatus(ctx context.Context, session *backend.Session, args []string) error {
	fs := a.newFlags("admin booking-status")
	reason := fs.String("reason", "", "reason, required when cancelling")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 2 {
		return fmt.Errorf("%w: admin booking-status <booking-id> <status> [--reason R]", errUsage)
	}
	id, err := positiveID(positional[0], "booking")
	if err != nil {
		return err
	}
	status, err := models.ParseBookingStatus(positional[1])
	if err != nil {
		return models.NewValidationError("status", err.Error())
	}

	if err := session.UpdateAdminBookingStatus(ctx, id, models.AdminBookingStatusUpdate{Status: status, Reason: *reason}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Booking %d is now %s\n", id, models.BookingStatusPresentation(status).Label)
	return nil
}

func (a *app) flushPage(flushErr error, page, totalPages, total int) error {
	if flushErr != nil {
		return flushErr
	}
	if totalPages > 1 {
		fmt.Fprintf(a.out, "Page %d of %d (%d total)\n", page, totalPages, total)
	}
	return nil
}
