package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"event-ticketing-storefront/internal/models"
	"event-ticketing-storefront/internal/services"
)

func (a *app) login(ctx context.Context, args []string) error {
	return a.signIn(ctx, args, false)
}

func (a *app) register(ctx context.Context, args []string) error {
	return a.signIn(ctx, args, true)
}

func (a *app) signIn(ctx context.Context, args []string, register bool) error {
	fs := a.newFlags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", os.Getenv("TICKETCTL_PASSWORD"), "account password (or TICKETCTL_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	session, _ := a.session("/login")
	creds := models.Credentials{Email: *email, Password: *password}
	var (
		resp *models.AuthResponse
		err  error
	)
	if register {
		resp, err = session.Register(ctx, creds)
	} else {
		resp, err = session.Login(ctx, creds)
	}
	if err != nil {
		return err
	}

	if a.store.Token() == "" {
		fmt.Fprintln(a.out, messageOr(resp.Message, "Account created. Sign in to continue."))
		return nil
	}
	p := a.store.Profile()
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", p.FullName, models.UserRolePresentation(p.Role).Label)
	return nil
}

func (a *app) logout(ctx context.Context, args []string) error {
	session, _ := a.session("/logout")
	if err := session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *app) whoami(ctx context.Context, args []string) error {
	session, _ := a.session("/profile")
	if !session.IsAuthenticated(ctx) {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	p := a.store.Profile()
	fmt.Fprintf(a.out, "%s (id %d, %s)\n", p.FullName, p.UserID, models.UserRolePresentation(p.Role).Label)
	return nil
}

func (a *app) events(ctx context.Context, args []string) error {
	fs := a.newFlags("events")
	search := fs.String("search", "", "title search")
	category := fs.String("category", "", "category name or label")
	page := fs.Int("page", 0, "page number")
	limit := fs.Int("limit", 0, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := models.EventFilter{Search: *search, Page: *page, Limit: *limit}
	if *category != "" {
		filter.Category = string(models.NormalizeCategory(*category))
	}

	session, _ := a.session("/events")
	result, err := session.ListEvents(ctx, filter)
	if err != nil {
		return err
	}

	tw := a.table()
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tDATE\tLOCATION")
	for _, e := range result.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s %s\t%s\n", e.ID, e.Title, e.Category, e.Date, e.Time, e.Location)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if result.TotalPages > 1 {
		fmt.Fprintf(a.out, "Page %d of %d (%d events)\n", result.Page, result.TotalPages, result.Total)
	}
	return nil
}

func (a *app) event(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: event <id>", errUsage)
	}
	id, err := positiveID(args[0], "id")
	if err != nil {
		return err
	}

	session, _ := a.session(fmt.Sprintf("/events/%d", id))
	e, err := session.GetEvent(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s\n%s %s at %s\n", e.Title, e.Date, e.Time, e.Location)
	if e.Address != "" {
		fmt.Fprintln(a.out, e.Address)
	}
	if e.Description != "" {
		fmt.Fprintf(a.out, "\n%s\n", e.Description)
	}
	fmt.Fprintln(a.out)

	if !e.HasTickets() {
		fmt.Fprintln(a.out, "No tickets on sale")
		return nil
	}
	tw := a.table()
	fmt.Fprintln(tw, "IDX\tTYPE\tPRICE\tAVAILABLE")
	for i, tt := range e.TicketTypes {
		available := fmt.Sprint(tt.Available())
		if tt.IsSoldOut() {
			available = "sold out"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", i, tt.TypeName, tt.Price, available)
	}
	return tw.Flush()
}

func (a *app) checkout(ctx context.Context, args []string) error {
	fs := a.newFlags("checkout")
	var tickets ticketFlags
	fs.Var(&tickets, "ticket", "ticket type index and quantity, idx=qty (repeatable)")
	name := fs.String("name", "", "contact full name")
	email := fs.String("email", "", "contact email")
	phone := fs.String("phone", "", "contact phone")
	providerName := fs.String("provider", a.defaultProvider, "payment provider: payos or momo")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: checkout <event-id> --ticket idx=qty ...", errUsage)
	}
	eventID, err := positiveID(positional[0], "event")
	if err != nil {
		return err
	}
	provider, err := models.ParsePaymentProvider(*providerName)
	if err != nil {
		return models.NewValidationError("provider", err.Error())
	}

	session, nav := a.session(fmt.Sprintf("/events/%d", eventID))
	event, err := session.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}

	selection := models.NewSelection(event)
	for _, t := range tickets {
		if !selection.SetQuantity(t.index, t.quantity) {
			return models.NewValidationError("tickets", fmt.Sprintf("ticket %d=%d is not available", t.index, t.quantity))
		}
	}

	checkout := services.NewCheckoutService(session, a.flows, a.opener, a.logger)
	result, err := checkout.Checkout(ctx, nav, services.CheckoutInput{
		BookingInput: services.BookingInput{
			Event:     event,
			Contact:   models.Contact{FullName: *name, Email: *email, Phone: *phone},
			Selection: selection,
		},
		Provider: provider,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Booking %s created for %d (%s)\n", result.BookingID, result.Amount, result.Provider)
	if result.OrderCode != "" {
		fmt.Fprintf(a.out, "Order code: %s\n", result.OrderCode)
	}
	fmt.Fprintln(a.out, "Complete the payment in your browser, then check `ticketctl bookings`.")
	return nil
}

func (a *app) bookings(ctx context.Context, args []string) error {
	session, _ := a.session("/my-bookings")
	list, err := session.MyBookings(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No bookings yet")
		return nil
	}

	tw := a.table()
	fmt.Fprintln(tw, "BOOKING\tEVENT\tDATE\tAMOUNT\tSTATUS")
	for _, b := range list {
		title := fmt.Sprintf("#%d", b.EventID)
		if b.Event != nil {
			title = b.Event.Title
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", b.ID, title, b.BookingDate, b.TotalAmount.Int(), models.BookingStatusPresentation(b.Status).Label)
	}
	return tw.Flush()
}

func (a *app) cancel(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: cancel <booking-id>", errUsage)
	}
	id := args[0]

	session, _ := a.session("/my-bookings")
	if err := session.CancelBooking(ctx, id); err != nil {
		return err
	}
	if a.flows != nil {
		if err := a.flows.CancelBooking(ctx, id); err != nil {
			a.logger.Warn("Failed to cancel checkout flow", zap.String("booking_id", id), zap.Error(err))
		}
	}
	fmt.Fprintf(a.out, "Booking %s cancelled\n", id)
	return nil
}

// reconcile replays a provider redirect; the result is always printed
func (a *app) reconcile(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: reconcile success|cancel <order-code>", errUsage)
	}
	orderCode := ""
	if len(args) == 2 {
		orderCode = args[1]
	}

	var success bool
	switch args[0] {
	case "success":
		success = true
	case "cancel":
	default:
		return fmt.Errorf("%w: reconcile success|cancel <order-code>", errUsage)
	}

	session, _ := a.session("/" + args[0])
	reconciler := services.NewReconciler(session, a.flows, a.logger)
	var result *services.ReconcileResult
	if success {
		result, _ = reconciler.Success(ctx, orderCode)
	} else {
		result, _ = reconciler.Cancel(ctx, orderCode)
	}

	a.wait(a.confirmationDelay)

	switch {
	case result.Outcome == services.OutcomeFailed:
		fmt.Fprintf(a.out, "Could not confirm order %s with the backend: %s\n", orderCode, result.Error)
	case success:
		fmt.Fprintln(a.out, "Payment successful. Your booking is confirmed.")
	default:
		fmt.Fprintln(a.out, "Payment cancelled. Your booking was not paid.")
	}
	if result.Outcome == services.OutcomeNotified && result.Message != "" {
		fmt.Fprintln(a.out, result.Message)
	}
	return nil
}

func (a *app) createEvent(ctx context.Context, args []string) error {
	fs := a.newFlags("create-event")
	file := fs.String("file", "", "JSON event draft")
	imagePath := fs.String("image", "", "cover image (jpeg, png, gif, bmp, tiff)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("%w: create-event --file draft.json [--image path]", errUsage)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("failed to read draft: %w", err)
	}
	var draft models.EventDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return fmt.Errorf("failed to parse draft: %w", err)
	}
	draft.Category = string(models.NormalizeCategory(draft.Category))

	var prepared *services.PreparedImage
	if *imagePath != "" {
		f, err := os.Open(*imagePath)
		if err != nil {
			return fmt.Errorf("failed to open image: %w", err)
		}
		defer f.Close()

		name := models.GenerateSlug(draft.Title)
		if name == "" {
			name = filepath.Base(*imagePath)
		}
		prepared, err = services.PrepareEventImage(f, name)
		if err != nil {
			return err
		}
	}

	session, _ := a.session("/organizer/events/new")
	var event *models.Event
	if prepared != nil {
		event, err = session.CreateEvent(ctx, draft, prepared.Upload())
	} else {
		event, err = session.CreateEvent(ctx, draft, nil)
	}
	if err != nil {
		return err
	}

	if event != nil && event.ID > 0 {
		fmt.Fprintf(a.out, "Event %d created: %s\n", event.ID, event.Title)
	} else {
		fmt.Fprintln(a.out, "Event created")
	}
	if prepared != nil {
		fmt.Fprintf(a.out, "Uploaded %s (%dx%d)\n", prepared.Filename, prepared.Width, prepared.Height)
	}
	return nil
}

func messageOr(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}
