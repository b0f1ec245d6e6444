package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jobboard/job-board-api/internal/core/domain"
	"github.com/jobboard/job-board-api/internal/core/ports"
)

func newAuthSvc() (*AuthService, *memStore, *stubRevoker) {
	store := newMemStore()
	revoker := &stubRevoker{revoked: make(map[string]time.Duration)}
	return NewAuthService(stubUserRepo{store}, revoker, "secret", time.Hour, zerolog.Nop()), store, revoker
}

func TestAuthService_Signup_Success(t *testing.T) {
	svc, _, _ := newAuthSvc()

	user, err := svc.Signup(context.Background(), ports.SignupInput{
		Name:     "Alice",
		Email:    " Alice@Example.com ",
		Password: "pass123",
		Role:     domain.RoleSeeker,
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected generated id")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email not normalised: %q", user.Email)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("password stored in clear")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")) != nil {
		t.Fatalf("hash does not match password")
	}
}

func TestAuthService_Signup_AdminNotAllowed(t *testing.T) {
	svc, _, _ := newAuthSvc()

	_, err := svc.Signup(context.Background(), ports.SignupInput{Name: "Eve", Email: "eve@example.com", Password: "x", Role: domain.RoleAdmin})
	if err == nil {
		t.Fatalf("expected error for admin signup")
	}
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthSvc()
	in := ports.SignupInput{Name: "Bob", Email: "bob@example.com", Password: "pw", Role: domain.RoleProvider}

	if _, err := svc.Signup(context.Background(), in); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := svc.Signup(context.Background(), in); err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _, _ := newAuthSvc()
	created, err := svc.Signup(context.Background(), ports.SignupInput{Name: "Carol", Email: "carol@example.com", Password: "pw", Role: domain.RoleProvider})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("unexpected user %s", user.ID)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["userId"] != created.ID || claims["role"] != string(domain.RoleProvider) || claims["userName"] != "Carol" {
		t.Fatalf("unexpected claims: %v", claims)
	}
	if jti, _ := claims["jti"].(string); jti == "" {
		t.Fatalf("expected token id")
	}

	if _, _, err := svc.Login(context.Background(), "carol@example.com", "wrong"); err != domain.ErrWrongPassword {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "pw"); err != domain.ErrEmailNotRegistered {
		t.Fatalf("expected ErrEmailNotRegistered, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, revoker := newAuthSvc()

	err := svc.Logout(context.Background(), ports.Identity{UserID: "u1", TokenID: "tok-1", Expires: time.Now().Add(30 * time.Minute)})
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	ttl, ok := revoker.revoked["tok-1"]
	if !ok {
		t.Fatalf("token not revoked")
	}
	if ttl <= 0 || ttl > 30*time.Minute {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	if err := svc.Logout(context.Background(), ports.Identity{UserID: "u1", TokenID: "tok-2", Expires: time.Now().Add(-time.Minute)}); err != nil {
		t.Fatalf("expired token logout: %v", err)
	}
	if _, ok := revoker.revoked["tok-2"]; ok {
		t.Fatalf("expired token should not be stored")
	}
}
