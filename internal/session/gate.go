package session

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

const (
	CookieName    = "hat_session"
	authorizedKey = "authorized"
)

// Options tunes the session cookie.
type Options struct {
	TTL          time.Duration
	CookieSecure bool
}

// Gate tracks which clients have logged in. Records live in process memory and
// are lost on restart.
type Gate struct {
	store *fibersession.Store
}

func NewGate(opts Options) *Gate {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	store := fibersession.New(fibersession.Config{
		Expiration:     ttl,
		KeyLookup:      "cookie:" + CookieName,
		CookieHTTPOnly: true,
		CookieSecure:   opts.CookieSecure,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		KeyGenerator:   uuid.NewString,
	})
	return &Gate{store: store}
}

// Authorized reports whether the request carries a logged-in session.
func (g *Gate) Authorized(c *fiber.Ctx) bool {
	sess, err := g.store.Get(c)
	if err != nil {
		return false
	}
	ok, _ := sess.Get(authorizedKey).(bool)
	return ok
}

// Login marks the caller's session as authorized under a fresh session id.
func (g *Gate) Login(c *fiber.Ctx) error {
	sess, err := g.store.Get(c)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("regenerate session: %w", err)
	}
	sess.Set(authorizedKey, true)
	if err := sess.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Logout discards the caller's session record.
func (g *Gate) Logout(c *fiber.Ctx) error {
	sess, err := g.store.Get(c)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if err := sess.Destroy(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
