package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zzafergok/mobiversite-ecommerce/services"
)

const (
	// SessionCookie carries the opaque client id.
	SessionCookie = "sid"
	// AuthCookie carries the bearer token of the signed-in user.
	AuthCookie = "auth-token"

	clientContextKey = "client"
	sessionMaxAge    = 365 * 24 * 60 * 60
)

// ClientProvider returns the state bundle of one browser client.
type ClientProvider interface {
	Get(ctx context.Context, clientID, token string) *services.Client
}

// CookieOptions controls the cookies written by the service.
type CookieOptions struct {
	Secure bool
}

func (o CookieOptions) set(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", o.Secure, true)
}

// SetAuthCookie stores token for maxAge seconds. A negative maxAge deletes it.
func (o CookieOptions) SetAuthCookie(c *gin.Context, token string, maxAge int) {
	o.set(c, AuthCookie, token, maxAge)
}

// ClientSession resolves the sid cookie to a client bundle, issuing a new
// client id on first contact, and syncs the bundle's session with the
// presented token.
func ClientSession(clients ClientProvider, opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, err := c.Cookie(SessionCookie)
		if err != nil || !validClientID(clientID) {
			clientID = uuid.NewString()
			opts.set(c, SessionCookie, clientID, sessionMaxAge)
		}

		client := clients.Get(c.Request.Context(), clientID, bearerToken(c))
		c.Set(clientContextKey, client)
		c.Next()
	}
}

// bearerToken reads the auth cookie, falling back to an Authorization
// header for non-browser callers.
func bearerToken(c *gin.Context) string {
	if v, err := c.Cookie(AuthCookie); err == nil && v != "" {
		return v
	}
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func validClientID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// CurrentClient returns the bundle stored by ClientSession.
func CurrentClient(c *gin.Context) *services.Client {
	if v, ok := c.Get(clientContextKey); ok {
		if client, ok := v.(*services.Client); ok {
			return client
		}
	}
	return nil
}

// RequireAuth rejects requests whose session is not signed in.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		client := CurrentClient(c)
		if client == nil || !client.Session.IsAuthenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
