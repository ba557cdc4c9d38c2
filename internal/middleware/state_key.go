package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// StateKeyCookie carries a browser's state key. It is encrypted by the
// encryptcookie middleware like every other cookie.
const StateKeyCookie = "state_key"

const localsStateKey = "state_key"

// StateKeyMiddleware gives every browser a stable identifier under which
// its application state is stored. The key lives only in the cookie, so it
// survives server restarts whenever the state backend does.
type StateKeyMiddleware struct {
	secure bool
	maxAge time.Duration
}

// NewStateKeyMiddleware creates the middleware. A zero maxAge issues a
// browser-session cookie.
func NewStateKeyMiddleware(secure bool, maxAge time.Duration) *StateKeyMiddleware {
	return &StateKeyMiddleware{secure: secure, maxAge: maxAge}
}

// Handle resolves the state key, issuing a new one when the cookie is
// missing or malformed, and refreshes the cookie's lifetime.
func (m *StateKeyMiddleware) Handle(c fiber.Ctx) error {
	key := c.Cookies(StateKeyCookie)
	if _, err := uuid.Parse(key); err != nil {
		key = uuid.NewString()
	}

	c.Cookie(&fiber.Cookie{
		Name:     StateKeyCookie,
		Value:    key,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		Secure:   m.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	c.Locals(localsStateKey, key)
	return c.Next()
}

// SessionKey returns the identifier set by StateKeyMiddleware, or "" when
// the middleware did not run.
func SessionKey(c fiber.Ctx) string {
	key, _ := c.Locals(localsStateKey).(string)
	return key
}
