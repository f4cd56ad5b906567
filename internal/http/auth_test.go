package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"shelfaware/internal/config"
	"shelfaware/internal/http/handlers"
	"shelfaware/internal/repos"
)

func TestSignupLoginAndMe(t *testing.T) {
	app := newTestApp(t)

	tok := signup(t, app, "pat@example.com", "BUYER")

	// duplicate email
	resp, _ := doJSON(t, app, "POST", "/api/v1/auth/signup", "", map[string]any{
		"email": "pat@example.com", "password": "Str0ngpass", "role": "BUYER", "name": "Copy",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate signup: want 409, got %d", resp.StatusCode)
	}

	// bad password
	resp, _ = doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]any{
		"email": "pat@example.com", "password": "wrongpass1A",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad creds: want 401, got %d", resp.StatusCode)
	}

	// good password
	resp, out := doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]any{
		"email": "pat@example.com", "password": "Str0ngpass",
	})
	if resp.StatusCode != http.StatusOK || out["token"] == "" {
		t.Fatalf("login failed: %d %v", resp.StatusCode, out)
	}

	// token works on /me
	resp, out = doJSON(t, app, "GET", "/api/v1/me", tok, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: want 200, got %d", resp.StatusCode)
	}
	if out["email"] != "pat@example.com" || out["role"] != "BUYER" {
		t.Fatalf("me payload: %v", out)
	}

	// no token
	resp, _ = doJSON(t, app, "GET", "/api/v1/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("me without token: want 401, got %d", resp.StatusCode)
	}

	// garbage token
	resp, _ = doJSON(t, app, "GET", "/api/v1/me", "not-a-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("me with garbage token: want 401, got %d", resp.StatusCode)
	}
}

func TestSignupValidation(t *testing.T) {
	app := newTestApp(t)

	cases := []map[string]any{
		{"email": "nope", "password": "Str0ngpass", "role": "BUYER", "name": "X"},
		{"email": "a@b.co", "password": "short", "role": "BUYER", "name": "X"},
		{"email": "a@b.co", "password": "Str0ngpass", "role": "ADMIN", "name": "X"},
		{"email": "a@b.co", "password": "Str0ngpass", "role": "BUYER", "name": ""},
	}
	for i, body := range cases {
		resp, _ := doJSON(t, app, "POST", "/api/v1/auth/signup", "", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("case %d: want 400, got %d", i, resp.StatusCode)
		}
	}
}

// Login throttling with a per-route limiter, like production wiring.
func TestLoginThrottle(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	deps := handlers.NewDeps(db, config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour})
	app := fiber.New()
	app.Post("/login", limiter.New(limiter.Config{Max: 2, Expiration: time.Minute}), deps.AuthHandler.Login)

	body := map[string]any{"email": "dana@shelfaware.test", "password": "wrongpass1A"}
	for i := 0; i < 2; i++ {
		resp, _ := doJSON(t, app, "POST", "/login", "", body)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("attempt %d: want 401, got %d", i, resp.StatusCode)
		}
	}
	resp, _ := doJSON(t, app, "POST", "/login", "", body)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("want 429 after throttle, got %d", resp.StatusCode)
	}
}
