package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"event-ticketing-storefront/internal/auth"
	"event-ticketing-storefront/internal/backend"
	"event-ticketing-storefront/internal/models"
	"event-ticketing-storefront/internal/services"
)

// errUsage is returned for malformed command lines
var errUsage = errors.New("usage")

const usage = `Usage: ticketctl <command> [flags]

Commands:
  login --email E --password P      sign in
  register --email E --password P   create an account
  logout                            sign out
  whoami                            show the signed-in user
  events [--search S] [--category C] [--page N] [--limit N]
  event <id>                        show an event and its ticket types
  checkout <event-id> --ticket idx=qty [--ticket ...] --name N --email E --phone P [--provider payos|momo]
  bookings                          list my bookings
  cancel <booking-id>               cancel a pending booking
  reconcile success|cancel <order-code>
  create-event --file draft.json [--image path]
  admin users|events|bookings|payments|stats
  admin approve <event-id> approved|pending|rejected
  admin booking-status <booking-id> <status> [--reason R]
`

// app is one ticketctl invocation
type app struct {
	client            *backend.Client
	store             auth.Store
	flows             *services.FlowService
	opener            services.Opener
	out               io.Writer
	logger            *zap.Logger
	confirmationDelay time.Duration
	defaultProvider   string

	// sleep is swapped out in tests
	sleep func(time.Duration)

	// nav is the virtual location of the last backend session
	nav *backend.PathNavigator
}

// session binds a backend session positioned at path
func (a *app) session(path string) (*backend.Session, *backend.PathNavigator) {
	a.nav = backend.NewPathNavigator(path)
	return a.client.WithSession(a.store, a.nav), a.nav
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return errUsage
	}

	commands := map[string]func(context.Context, []string) error{
		"login":        a.login,
		"register":     a.register,
		"logout":       a.logout,
		"whoami":       a.whoami,
		"events":       a.events,
		"event":        a.event,
		"checkout":     a.checkout,
		"bookings":     a.bookings,
		"cancel":       a.cancel,
		"reconcile":    a.reconcile,
		"create-event": a.createEvent,
		"admin":        a.admin,
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}

	err := cmd(ctx, args[1:])
	if a.sentHome() {
		fmt.Fprintln(a.out, "Your session has ended. Run `ticketctl login` to sign in again.")
	}
	return err
}

// sentHome reports whether the 401 interceptor reset the location to the root
func (a *app) sentHome() bool {
	if a.nav == nil {
		return false
	}
	replaced := a.nav.Replaced()
	return len(replaced) > 0 && replaced[len(replaced)-1] == backend.RootPath
}

func (a *app) wait(d time.Duration) {
	if a.sleep != nil {
		a.sleep(d)
		return
	}
	time.Sleep(d)
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

// newFlags returns a flag set that reports errors instead of exiting
func (a *app) newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

// parseInterspersed lets positional arguments precede flags
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func positiveID(arg, name string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError(name, "must be a positive number")
	}
	return id, nil
}

func errorText(err error) string {
	if errors.Is(err, errUsage) {
		return err.Error()
	}
	if msg := models.UserMessage(err); msg != "" {
		return msg
	}
	return err.Error()
}

// ticketFlags collects repeated --ticket idx=qty values
type ticketFlags []ticketRequest

type ticketRequest struct {
	index    int
	quantity int
}

func (t *ticketFlags) String() string {
	parts := make([]string, 0, len(*t))
	for _, r := range *t {
		parts = append(parts, fmt.Sprintf("%d=%d", r.index, r.quantity))
	}
	return strings.Join(parts, ",")
}

func (t *ticketFlags) Set(value string) error {
	idx, qty, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("expected idx=qty, got %q", value)
	}
	index, err := strconv.Atoi(strings.TrimSpace(idx))
	if err != nil || index < 0 {
		return fmt.Errorf("invalid ticket index %q", idx)
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(qty))
	if err != nil || quantity < 0 {
		return fmt.Errorf("invalid ticket quantity %q", qty)
	}
	*t = append(*t, ticketRequest{index: index, quantity: quantity})
	return nil
}
