package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testKey = []byte("test-signing-key")

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(testKey)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func makeContext(token string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	token := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: []string{RoleClinic},
	})

	c, _ := makeContext(token)
	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})

	var gotUserID string
	var gotRoles []string
	handler := func(c echo.Context) error {
		gotUserID = UserIDFromContext(c.Request().Context())
		gotRoles = RolesFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}

	if err := mw(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUserID != "user-123" {
		t.Errorf("expected user-123, got %s", gotUserID)
	}
	if len(gotRoles) != 1 || gotRoles[0] != RoleClinic {
		t.Errorf("expected clinic role, got %v", gotRoles)
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	c, _ := makeContext("")
	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})

	err := mw(func(c echo.Context) error { return nil })(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestJWTMiddleware_OptionalPassesWithoutHeader(t *testing.T) {
	c, _ := makeContext("")
	mw := JWTMiddleware(JWTConfig{SigningKey: testKey, Optional: true})

	called := false
	err := mw(func(c echo.Context) error { called = true; return nil })(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected handler to be called")
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	token := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	c, _ := makeContext(token)
	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})

	err := mw(func(c echo.Context) error { return nil })(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %v", err)
	}
}

func TestJWTMiddleware_WrongKey(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, _ := token.SignedString([]byte("some-other-key"))

	c, _ := makeContext(signed)
	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})

	err := mw(func(c echo.Context) error { return nil })(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad signature, got %v", err)
	}
}

func TestJWTMiddleware_IssuerMismatch(t *testing.T) {
	token := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Issuer:    "https://other.example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	c, _ := makeContext(token)
	mw := JWTMiddleware(JWTConfig{SigningKey: testKey, Issuer: "https://auth.careatlas.example"})

	err := mw(func(c echo.Context) error { return nil })(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for issuer mismatch, got %v", err)
	}
}

func TestRequireRole_AllowsMatchingRole(t *testing.T) {
	token := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "clinic-owner",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: []string{RoleClinic},
	})

	c, _ := makeContext(token)
	chain := JWTMiddleware(JWTConfig{SigningKey: testKey})(
		RequireRole(RoleClinic)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		}))

	if err := chain(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequireRole_AdminAlwaysPasses(t *testing.T) {
	token := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: []string{RoleAdmin},
	})

	c, _ := makeContext(token)
	chain := JWTMiddleware(JWTConfig{SigningKey: testKey})(
		RequireRole(RoleClinic)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		}))

	if err := chain(c); err != nil {
		t.Fatalf("expected admin to pass clinic-gated route: %v", err)
	}
}

func TestRequireRole_RejectsMissingRole(t *testing.T) {
	token := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "patient-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: []string{RolePatient},
	})

	c, _ := makeContext(token)
	chain := JWTMiddleware(JWTConfig{SigningKey: testKey})(
		RequireRole(RoleClinic)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		}))

	err := chain(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestDevAuthMiddleware_GrantsAdmin(t *testing.T) {
	c, _ := makeContext("")
	mw := DevAuthMiddleware()

	var roles []string
	handler := func(c echo.Context) error {
		roles = RolesFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}
	if err := mw(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roles) != 1 || roles[0] != RoleAdmin {
		t.Errorf("expected admin role, got %v", roles)
	}
}
