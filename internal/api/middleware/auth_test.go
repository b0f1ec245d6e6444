package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jobboard/job-board-api/internal/core/domain"
)

type stubRevoker struct {
	revoked map[string]bool
	err     error
}

func (s *stubRevoker) Revoke(context.Context, string, time.Duration) error { return nil }

func (s *stubRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	return s.revoked[id], s.err
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"userId":   "64b7f0c2a1b2c3d4e5f60718",
		"userName": "alice",
		"role":     "Job Provider",
		"jti":      "tok-1",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
}

func runAuth(t *testing.T, header string, revoker *stubRevoker) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth("secret", revoker, zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims()))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth("secret", &stubRevoker{}, zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		who, ok := IdentityFrom(c)
		if !ok {
			t.Fatalf("identity not set")
		}
		if who.UserID != "64b7f0c2a1b2c3d4e5f60718" || who.Role != domain.RoleProvider || who.Name != "alice" {
			t.Fatalf("unexpected identity: %+v", who)
		}
		if who.TokenID != "tok-1" || who.Expires.IsZero() {
			t.Fatalf("token metadata missing: %+v", who)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	noExp := validClaims()
	delete(noExp, "exp")

	badRole := validClaims()
	badRole["role"] = "Superuser"

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Token abc"},
		{"garbage token", "Bearer not-a-token"},
		{"expired", "Bearer " + signToken(t, expired)},
		{"no expiry", "Bearer " + signToken(t, noExp)},
		{"unknown role", "Bearer " + signToken(t, badRole)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, called := runAuth(t, tt.header, &stubRevoker{})
			if called {
				t.Fatalf("should not reach next")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	signed, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims()).SignedString([]byte("other"))

	rec, called := runAuth(t, "Bearer "+signed, &stubRevoker{})
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without calling next, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RevokedToken(t *testing.T) {
	rec, called := runAuth(t, "Bearer "+signToken(t, validClaims()), &stubRevoker{revoked: map[string]bool{"tok-1": true}})
	if called {
		t.Fatalf("revoked token reached next")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RevocationStoreDown(t *testing.T) {
	rec, called := runAuth(t, "Bearer "+signToken(t, validClaims()), &stubRevoker{err: errors.New("redis down")})
	if called {
		t.Fatalf("unchecked token reached next")
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
