package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"shelfaware/internal/domain"
	"shelfaware/internal/repos"
	"shelfaware/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newAuth(db *sqlx.DB) *services.AuthService {
	return &services.AuthService{
		Users:    repos.NewUserRepo(db),
		Profiles: repos.NewProfileRepo(db),
		Secret:   []byte("test-secret"),
		TokenTTL: time.Hour,
	}
}

func TestSignupProvisionsProfileAndToken(t *testing.T) {
	db := memdb(t)
	auth := newAuth(db)

	u, tok, err := auth.Signup("pat@example.com", "Str0ngpass", domain.RoleBuyer, "Pat")
	if err != nil {
		t.Fatal(err)
	}
	if u.ID == "" || tok == "" {
		t.Fatalf("missing id or token: %+v", u)
	}
	if u.Hash == "Str0ngpass" {
		t.Fatal("password stored in plaintext")
	}

	// Profile is provisioned in the same flow.
	p, err := repos.NewProfileRepo(db).Buyer(u.ID)
	if err != nil {
		t.Fatalf("buyer profile not provisioned: %v", err)
	}
	if p.UserID != u.ID || p.LastUpdated.IsZero() {
		t.Fatalf("bad provisioned profile: %+v", p)
	}

	// Token round-trips.
	got, err := auth.UserFromToken(tok)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID || got.Role != domain.RoleBuyer {
		t.Fatalf("token user mismatch: %+v", got)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	auth := newAuth(memdb(t))

	if _, _, err := auth.Signup("pat@example.com", "Str0ngpass", domain.RoleBuyer, "Pat"); err != nil {
		t.Fatal(err)
	}
	_, _, err := auth.Signup("PAT@example.com", "Str0ngpass", domain.RoleBuyer, "Pat Again")
	if !errors.Is(err, services.ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
}

func TestLoginPaths(t *testing.T) {
	auth := newAuth(memdb(t))

	if _, _, err := auth.Signup("sam@example.com", "Str0ngpass", domain.RoleSeller, "Sam"); err != nil {
		t.Fatal(err)
	}

	if _, _, err := auth.Login("sam@example.com", "wrongpass1A"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("want ErrBadCreds, got %v", err)
	}
	if _, _, err := auth.Login("nobody@example.com", "Str0ngpass"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("want ErrBadCreds for unknown email, got %v", err)
	}

	u, tok, err := auth.Login("sam@example.com", "Str0ngpass")
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != domain.RoleSeller || tok == "" {
		t.Fatalf("bad login result: %+v", u)
	}
}

func TestUserFromTokenRejectsGarbage(t *testing.T) {
	auth := newAuth(memdb(t))
	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := auth.UserFromToken(tok); !errors.Is(err, services.ErrBadToken) {
			t.Errorf("want ErrBadToken for %q, got %v", tok, err)
		}
	}
}
