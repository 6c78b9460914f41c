package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogify-press/backend-go/internal/middleware"
	"github.com/blogify-press/backend-go/internal/testutil"
)

func TestSanitizer_String(t *testing.T) {
	s := middleware.NewSanitizer(testutil.NewTestLogger())

	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"<script>alert(1)</script>Hello", "Hello"},
		{"<b>bold</b> & <i>it</i>", "bold & it"},
		{`Tom's "quote"`, `Tom's "quote"`},
		{"a@b.com", "a@b.com"},
		{"1 < 2", "1 &lt; 2"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, s.String(tt.in))
		})
	}
}

func echoBody(t *testing.T, body, contentType string) string {
	t.Helper()
	r := gin.New()
	r.POST("/", middleware.NewSanitizer(testutil.NewTestLogger()).Middleware(), func(c *gin.Context) {
		raw, err := io.ReadAll(c.Request.Body)
		require.NoError(t, err)
		c.String(http.StatusOK, string(raw))
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestSanitizer_Middleware(t *testing.T) {
	out := echoBody(t,
		`{"title":"<img src=x onerror=alert(1)>Hi","tags":["<b>go</b>"],"meta":{"note":"<i>n</i>"},"count":3,"password":"<p>ss>"}`,
		"application/json; charset=utf-8")

	assert.JSONEq(t,
		`{"title":"Hi","tags":["go"],"meta":{"note":"n"},"count":3,"password":"<p>ss>"}`,
		out)
}

func TestSanitizer_LeavesOtherBodiesAlone(t *testing.T) {
	assert.Equal(t, "<b>raw</b>", echoBody(t, "<b>raw</b>", "text/plain"))
	assert.Equal(t, `{"broken":`, echoBody(t, `{"broken":`, "application/json"))
}

func TestSanitizer_BodySizeLimit(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		wantStatus int
	}{
		{"at limit", middleware.MaxBodyBytes, http.StatusOK},
		{"over limit", middleware.MaxBodyBytes + 1, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			r := gin.New()
			r.POST("/", middleware.NewSanitizer(testutil.NewTestLogger()).Middleware(), func(c *gin.Context) {
				reached = true
				c.Status(http.StatusOK)
			})

			// {"note":"aaa..."} padded to exactly tt.size bytes
			body := `{"note":"` + strings.Repeat("a", tt.size-len(`{"note":""}`)) + `"}`
			require.Len(t, body, tt.size)
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, reached)
		})
	}
}
