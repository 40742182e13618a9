package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/farhandp/coworking-book/internal/utils"
)

func runWithAuth(t *testing.T, header string, secret string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := JWTAuth(secret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	return rec, c
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	rec, _ := runWithAuth(t, "", "secret")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", rec.Code)
	}
}

func TestJWTAuthRejectsGarbageToken(t *testing.T) {
	rec, _ := runWithAuth(t, "Bearer not-a-token", "secret")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", rec.Code)
	}
}

func TestJWTAuthAcceptsValidTokenAndSetsClaims(t *testing.T) {
	at, err := utils.NewAccessToken("secret", 42, "ADMIN", 15)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	rec, c := runWithAuth(t, "Bearer "+at.Token, "secret")
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rec.Code)
	}
	if role, _ := c.Get("role").(string); role != "ADMIN" {
		t.Fatalf("role = %v, want ADMIN", c.Get("role"))
	}
	if c.Get("user_id") == nil {
		t.Fatal("user_id claim not set")
	}
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("secret", 42, "USER", 15)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	rec, _ := runWithAuth(t, "Bearer "+at.Token, "other")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	handler := RequireRole("ADMIN")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	cases := []struct {
		role interface{}
		want int
	}{
		{"ADMIN", http.StatusOK},
		{"USER", http.StatusForbidden},
		{nil, http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if tc.role != nil {
			c.Set("role", tc.role)
		}
		if err := handler(c); err != nil {
			t.Fatalf("middleware: %v", err)
		}
		if rec.Code != tc.want {
			t.Fatalf("role %v: got %d, want %d", tc.role, rec.Code, tc.want)
		}
	}
}
