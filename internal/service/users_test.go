package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aptiprep/backend/internal/auth"
	"github.com/aptiprep/backend/internal/store"
)

func newUserService(t *testing.T) (*UserService, *store.SQLStore, *auth.TokenService) {
	t.Helper()
	s := newSQLStore(t)
	tokens := auth.NewTokenService("test-secret", time.Hour)
	return NewUserService(s, s, tokens, discardLogger()), s, tokens
}

func TestRegisterProvisionsFavorites(t *testing.T) {
	us, s, _ := newUserService(t)
	ctx := context.Background()

	u, err := us.Register(ctx, "asha", "asha@example.com", "correct-horse")
	if err != nil {
		t.Fatal(err)
	}
	fav, err := s.GetFavorites(ctx, u.ID)
	if err != nil {
		t.Fatalf("favorites not provisioned: %v", err)
	}
	if !fav.IsFavorites {
		t.Errorf("expected favorites flag")
	}

	if _, err := us.Register(ctx, "asha", "", "another-pass"); !errors.Is(err, store.ErrConflict) {
		t.Errorf("duplicate username: got %v", err)
	}
	if _, err := us.Register(ctx, "ab", "", "long-enough"); !errors.Is(err, ErrInvalid) {
		t.Errorf("short username: got %v", err)
	}
	if _, err := us.Register(ctx, "ravi", "", "short"); !errors.Is(err, ErrInvalid) {
		t.Errorf("weak password: got %v", err)
	}
}

func TestLogin(t *testing.T) {
	us, _, tokens := newUserService(t)
	ctx := context.Background()

	u, err := us.Register(ctx, "meera", "", "s3cret-pass")
	if err != nil {
		t.Fatal(err)
	}

	tok, _, err := us.Login(ctx, "meera", "s3cret-pass")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := tokens.Parse(tok)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != u.ID || claims.Role != "user" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	if _, _, err := us.Login(ctx, "meera", "wrong-pass"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, _, err := us.Login(ctx, "nobody", "whatever1"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("unknown user: got %v", err)
	}
}

func TestEnsureAdminIdempotent(t *testing.T) {
	us, s, _ := newUserService(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := us.EnsureAdmin(ctx, "root", "admin-pass"); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	u, err := s.GetUserByUsername(ctx, "root")
	if err != nil {
		t.Fatal(err)
	}
	if !u.IsAdmin() {
		t.Errorf("bootstrap user is not an admin")
	}

	if err := us.EnsureAdmin(ctx, "", ""); err != nil {
		t.Errorf("empty bootstrap config should be a no-op: %v", err)
	}
}
