package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/blogify-press/backend-go/internal/database/service"
	"github.com/blogify-press/backend-go/internal/middleware"
)

// CookieWriter sets and clears the session cookies. Secure is on in
// production only so the dev server works over plain HTTP.
type CookieWriter struct {
	Secure bool
}

// SetSession sets both token cookies.
func (w CookieWriter) SetSession(c *gin.Context, s *service.Session) {
	w.set(c, middleware.AccessCookie, s.Access.Value, s.Access.MaxAge)
	w.set(c, middleware.RefreshCookie, s.Refresh.Value, s.Refresh.MaxAge)
}

// SetAccess replaces the access cookie only.
func (w CookieWriter) SetAccess(c *gin.Context, t *service.IssuedToken) {
	w.set(c, middleware.AccessCookie, t.Value, t.MaxAge)
}

// Clear expires both cookies with the attributes they were set with.
func (w CookieWriter) Clear(c *gin.Context) {
	w.set(c, middleware.AccessCookie, "", -time.Second)
	w.set(c, middleware.RefreshCookie, "", -time.Second)
}

func (w CookieWriter) set(c *gin.Context, name, value string, maxAge time.Duration) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   w.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
