package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/penfolio/penfolio/internal/app/models"
	"github.com/penfolio/penfolio/internal/pkg/config"
)

// Session cookie names. The backend's user object travels JSON-encoded
// in CookieUser; the two token cookies are opaque strings.
const (
	CookieUser    = "user"
	CookieAccess  = "accessToken"
	CookieRefresh = "refreshToken"
)

// CookieBridge is the only code allowed to write session cookies. It
// runs server-side, so it can read the httpOnly values client code
// never sees.
type CookieBridge struct {
	cfg config.CookieConfig
}

func NewCookieBridge(cfg config.CookieConfig) *CookieBridge {
	return &CookieBridge{cfg: cfg}
}

// ReadCookie returns the named cookie's value. Absence is a valid,
// expected result (unauthenticated state), not an error.
func (b *CookieBridge) ReadCookie(c *gin.Context, name string) (string, bool) {
	value, err := c.Cookie(name)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

// SetSessionCookies writes the three session cookies exactly as the
// backend contract specifies: user and refreshToken for 7 days, the
// accessToken for 2 hours, all httpOnly and SameSite Strict.
func (b *CookieBridge) SetSessionCookies(c *gin.Context, user models.User, access, refresh string) error {
	encodedUser, err := json.Marshal(user)
	if err != nil {
		return err
	}

	b.set(c, CookieUser, string(encodedUser), b.cfg.UserMaxAge)
	b.set(c, CookieAccess, access, b.cfg.AccessMaxAge)
	b.set(c, CookieRefresh, refresh, b.cfg.RefreshMaxAge)
	return nil
}

// ClearSessionCookies expires all three session cookies. The refresh
// token is cleared too, even though nothing here ever consumes it.
func (b *CookieBridge) ClearSessionCookies(c *gin.Context) {
	b.set(c, CookieUser, "", -time.Hour)
	b.set(c, CookieAccess, "", -time.Hour)
	b.set(c, CookieRefresh, "", -time.Hour)
}

// set writes one cookie through gin so the value is query-escaped; the
// user cookie carries JSON, which raw Set-Cookie would mangle.
func (b *CookieBridge) set(c *gin.Context, name, value string, maxAge time.Duration) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, value, int(maxAge.Seconds()), "/", "", b.cfg.Secure, true)
}
