package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/blogify-press/backend-go/internal/database/models"
	"github.com/blogify-press/backend-go/internal/database/service"
	"github.com/blogify-press/backend-go/internal/middleware"
	"github.com/blogify-press/backend-go/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(svc service.AuthService, chain ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append(chain, func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusOK, gin.H{"user": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user.ID.String()})
	})
	r.GET("/protected", handlers...)
	return r
}

func requestWithCookie(value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if value != "" {
		req.AddCookie(&http.Cookie{Name: middleware.AccessCookie, Value: value})
	}
	return req
}

func TestRequireAuth(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: models.RoleUser}

	tests := []struct {
		name       string
		cookie     string
		setupMocks func(*testutil.MockAuthService)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing cookie",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Invalid or expired token"}`,
		},
		{
			name:   "invalid token",
			cookie: "garbage",
			setupMocks: func(m *testutil.MockAuthService) {
				m.On("Authenticate", mock.Anything, "garbage").Return(nil, service.ErrInvalidToken)
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Invalid or expired token"}`,
		},
		{
			name:   "store failure",
			cookie: "tok",
			setupMocks: func(m *testutil.MockAuthService) {
				m.On("Authenticate", mock.Anything, "tok").Return(nil, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal server error"}`,
		},
		{
			name:   "valid token attaches user",
			cookie: "tok",
			setupMocks: func(m *testutil.MockAuthService) {
				m.On("Authenticate", mock.Anything, "tok").Return(user, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"user":"` + user.ID.String() + `"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(testutil.MockAuthService)
			if tt.setupMocks != nil {
				tt.setupMocks(svc)
			}
			mw := middleware.NewAuthMiddleware(svc, testutil.NewTestLogger())
			r := newAuthRouter(svc, mw.RequireAuth())

			w := httptest.NewRecorder()
			r.ServeHTTP(w, requestWithCookie(tt.cookie))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestRequireAuth_IgnoresBearerHeader(t *testing.T) {
	svc := new(testutil.MockAuthService)
	mw := middleware.NewAuthMiddleware(svc, testutil.NewTestLogger())
	r := newAuthRouter(svc, mw.RequireAuth())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
}

func TestOptionalAuth(t *testing.T) {
	user := &models.User{ID: uuid.New()}
	svc := new(testutil.MockAuthService)
	svc.On("Authenticate", mock.Anything, "good").Return(user, nil)
	svc.On("Authenticate", mock.Anything, "bad").Return(nil, service.ErrInvalidToken)
	mw := middleware.NewAuthMiddleware(svc, testutil.NewTestLogger())
	r := newAuthRouter(svc, mw.OptionalAuth())

	for cookie, want := range map[string]string{
		"":     `{"user":null}`,
		"bad":  `{"user":null}`,
		"good": `{"user":"` + user.ID.String() + `"}`,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, requestWithCookie(cookie))
		assert.Equal(t, http.StatusOK, w.Code, cookie)
		assert.JSONEq(t, want, w.Body.String(), cookie)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		role       models.Role
		wantStatus int
	}{
		{"admin allowed", models.RoleAdmin, http.StatusOK},
		{"user denied", models.RoleUser, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(testutil.MockAuthService)
			svc.On("Authenticate", mock.Anything, "tok").Return(&models.User{ID: uuid.New(), Role: tt.role}, nil)
			mw := middleware.NewAuthMiddleware(svc, testutil.NewTestLogger())
			r := newAuthRouter(svc, mw.RequireAuth(), middleware.RequireRole(models.RoleAdmin))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, requestWithCookie("tok"))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.JSONEq(t, `{"error":"Access denied"}`, w.Body.String())
			}
		})
	}
}

func TestRequireRole_WithoutUser(t *testing.T) {
	r := newAuthRouter(nil, middleware.RequireRole(models.RoleAdmin))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, requestWithCookie(""))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
