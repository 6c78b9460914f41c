package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// secretFields are passed through untouched; rewriting them would change
// what gets hashed or verified.
var secretFields = map[string]bool{
	"password":        true,
	"currentPassword": true,
	"newPassword":     true,
	"recaptchaToken":  true,
}

// MaxBodyBytes caps JSON request bodies read by the sanitizer.
const MaxBodyBytes = 1 << 20

var angleEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// Sanitizer strips markup from every string in a JSON request body.
type Sanitizer struct {
	policy *bluemonday.Policy
	logger *slog.Logger
}

// NewSanitizer creates a sanitizer using bluemonday's strict policy
func NewSanitizer(logger *slog.Logger) *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy(), logger: logger}
}

// String removes tags from s. Plain text keeps its ampersands and quotes;
// stray angle brackets come back escaped.
func (s *Sanitizer) String(v string) string {
	return angleEscaper.Replace(html.UnescapeString(s.policy.Sanitize(v)))
}

// Middleware rewrites JSON bodies in place. Bodies that are not valid JSON
// are left for the handler's binding to reject.
func (s *Sanitizer) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || !strings.HasPrefix(c.ContentType(), "application/json") {
			c.Next()
			return
		}

		raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				s.logger.Warn("⚠️ [Sanitize] Request body too large", "limit", tooLarge.Limit, "path", c.FullPath())
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
				return
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unable to read request body"})
			return
		}

		body := raw
		var payload any
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&payload); err == nil {
			if out, err := json.Marshal(s.walk("", payload)); err == nil {
				body = out
			}
		} else {
			s.logger.Debug("🧹 [Sanitize] Body is not JSON, leaving as is", "error", err)
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Request.ContentLength = int64(len(body))
		c.Next()
	}
}

func (s *Sanitizer) walk(key string, v any) any {
	switch t := v.(type) {
	case string:
		if secretFields[key] {
			return t
		}
		return s.String(t)
	case map[string]any:
		for k, child := range t {
			t[k] = s.walk(k, child)
		}
		return t
	case []any:
		for i, child := range t {
			t[i] = s.walk(key, child)
		}
		return t
	default:
		return v
	}
}
