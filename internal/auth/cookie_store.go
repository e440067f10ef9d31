package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/sessions"

	"event-ticketing-storefront/internal/utils"
)

const (
	tokenKey   = "access_token"
	profileKey = "profile"
)

// CookieOptions configures the browser session cookie
type CookieOptions struct {
	Secure bool
	MaxAge int // seconds
}

// NewSessionStore builds the encrypted cookie store used by the storefront
func NewSessionStore(secret string, opts CookieOptions) (*sessions.CookieStore, error) {
	keys, err := utils.DeriveSessionKeys(secret, nil)
	if err != nil {
		return nil, err
	}

	store := sessions.NewCookieStore(keys.HashKey, keys.BlockKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store, nil
}

// CookieSession adapts one request's gorilla session to Store. Writes are
// saved to the response immediately, so they must happen before the body.
type CookieSession struct {
	mu      sync.Mutex
	session *sessions.Session
	r       *http.Request
	w       http.ResponseWriter
}

// NewCookieSession loads the named session for the request. An undecodable
// cookie (rotated secret, tampering) yields a fresh anonymous session.
func NewCookieSession(store sessions.Store, name string, w http.ResponseWriter, r *http.Request) *CookieSession {
	session, err := store.Get(r, name)
	if err != nil {
		session, _ = store.New(r, name)
	}
	return &CookieSession{session: session, r: r, w: w}
}

func (c *CookieSession) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	token, _ := c.session.Values[tokenKey].(string)
	return token
}

func (c *CookieSession) SetToken(token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Values[tokenKey] = token
	return c.save()
}

func (c *CookieSession) Profile() Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, _ := c.session.Values[profileKey].(string)
	var p Profile
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &p)
	}
	return p
}

func (c *CookieSession) SetProfile(p Profile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	c.session.Values[profileKey] = string(data)
	return c.save()
}

// Clear expires the cookie
func (c *CookieSession) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.session.Values, tokenKey)
	delete(c.session.Values, profileKey)
	c.session.Options.MaxAge = -1
	return c.save()
}

func (c *CookieSession) save() error {
	if err := c.session.Save(c.r, c.w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
