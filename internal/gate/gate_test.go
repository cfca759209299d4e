package gate

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "gate-test-secret"

func mintToken(t *testing.T, secret string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": "user-1",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(expiresIn).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func TestDecide_PublicPaths(t *testing.T) {
	g := New(testSecret)
	valid := mintToken(t, testSecret, time.Hour)

	for path := range publicPaths {
		// No token: always passes
		if got := g.Decide(path, ""); got != Pass {
			t.Errorf("Decide(%q, no token) = %s, want PASS", path, got)
		}

		// With a live session the auth-entry pages bounce back into the app,
		// every other public page still passes
		got := g.Decide(path, valid)
		if authEntryPaths[path] {
			if got != RedirectToApp {
				t.Errorf("Decide(%q, token) = %s, want REDIRECT_TO_APP", path, got)
			}
		} else if got != Pass {
			t.Errorf("Decide(%q, token) = %s, want PASS", path, got)
		}
	}
}

func TestDecide_ProtectedPaths(t *testing.T) {
	g := New(testSecret)

	tests := []struct {
		name     string
		path     string
		token    string
		expected Decision
	}{
		{
			name:     "dashboard without token",
			path:     "/dashboard",
			token:    "",
			expected: RedirectToLogin,
		},
		{
			name:     "nested dashboard page with valid token",
			path:     "/dashboard/jobs",
			token:    mintToken(t, testSecret, time.Hour),
			expected: Pass,
		},
		{
			name:     "login page with valid token",
			path:     "/auth/login",
			token:    mintToken(t, testSecret, time.Hour),
			expected: RedirectToApp,
		},
		{
			name:     "expired token counts as no session",
			path:     "/dashboard",
			token:    mintToken(t, testSecret, -time.Hour),
			expected: RedirectToLogin,
		},
		{
			name:     "token signed with the wrong secret",
			path:     "/dashboard",
			token:    mintToken(t, "some-other-secret", time.Hour),
			expected: RedirectToLogin,
		},
		{
			name:     "garbage token",
			path:     "/dashboard",
			token:    "not-a-jwt",
			expected: RedirectToLogin,
		},
		{
			name:     "garbage token on a public page still passes",
			path:     "/pricing",
			token:    "not-a-jwt",
			expected: Pass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Decide(tt.path, tt.token); got != tt.expected {
				t.Errorf("Decide(%q) = %s, want %s", tt.path, got, tt.expected)
			}
		})
	}
}

// Without a secret the gate still refuses expired tokens instead of doing a
// presence-only check.
func TestDecide_NoSecretStillChecksExpiry(t *testing.T) {
	g := New("")

	expired := mintToken(t, "whatever", -time.Hour)
	if got := g.Decide("/dashboard", expired); got != RedirectToLogin {
		t.Errorf("Decide(expired token, no secret) = %s, want REDIRECT_TO_LOGIN", got)
	}

	live := mintToken(t, "whatever", time.Hour)
	if got := g.Decide("/dashboard", live); got != Pass {
		t.Errorf("Decide(live token, no secret) = %s, want PASS", got)
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	g := New(testSecret)
	r := gin.New()
	r.Use(g.Middleware([]string{"/health"}))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/jobs", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/dashboard", func(c *gin.Context) { c.Status(http.StatusOK) })

	valid := mintToken(t, testSecret, time.Hour)

	tests := []struct {
		name         string
		path         string
		cookie       string
		bearer       string
		wantStatus   int
		wantLocation string
	}{
		{name: "health skips the gate", path: "/health", wantStatus: http.StatusOK},
		{name: "page redirects to login", path: "/dashboard", wantStatus: http.StatusFound, wantLocation: LoginPath},
		{name: "api answers 401 json", path: "/api/v1/jobs", wantStatus: http.StatusUnauthorized},
		{name: "cookie session passes", path: "/dashboard", cookie: valid, wantStatus: http.StatusOK},
		{name: "bearer session passes", path: "/api/v1/jobs", bearer: valid, wantStatus: http.StatusOK},
		{name: "login page bounces back to the app", path: "/auth/login", cookie: valid, wantStatus: http.StatusFound, wantLocation: AppHome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" && w.Header().Get("Location") != tt.wantLocation {
				t.Errorf("location = %q, want %q", w.Header().Get("Location"), tt.wantLocation)
			}
		})
	}
}
