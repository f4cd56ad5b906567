package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"shelfaware/internal/config"
	"shelfaware/internal/domain"
	"shelfaware/internal/http/handlers"
	"shelfaware/internal/repos"
)

// newTestApp wires the real handlers against an in-memory database,
// with the AI provider disabled so dashboards use heuristics.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour}
	deps := handlers.NewDeps(db, cfg)

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Post("/auth/signup", deps.AuthHandler.Signup)
	api.Post("/auth/login", deps.AuthHandler.Login)
	api.Get("/me", handlers.RequireAuth(deps.Auth), deps.AuthHandler.Me)
	api.Get("/offers", deps.OfferHandler.List)

	buyer := api.Group("/buyer", handlers.RequireAuth(deps.Auth), handlers.RequireRole(domain.RoleBuyer))
	buyer.Get("/profile", deps.BuyerHandler.Profile)
	buyer.Put("/profile", deps.BuyerHandler.UpdateProfile)
	buyer.Post("/inventory", deps.BuyerHandler.AddItem)
	buyer.Delete("/inventory/:id", deps.BuyerHandler.RemoveItem)
	buyer.Post("/purchases", deps.BuyerHandler.AddPurchase)
	buyer.Post("/events", deps.BuyerHandler.AddEvent)
	buyer.Delete("/events/:id", deps.BuyerHandler.RemoveEvent)
	buyer.Get("/events/:id/shopping-list", deps.BuyerHandler.ShoppingList)
	buyer.Get("/dashboard", deps.BuyerHandler.Dashboard)

	seller := api.Group("/seller", handlers.RequireAuth(deps.Auth), handlers.RequireRole(domain.RoleSeller))
	seller.Get("/profile", deps.SellerHandler.Profile)
	seller.Put("/profile", deps.SellerHandler.UpdateProfile)
	seller.Post("/inventory", deps.SellerHandler.UpsertStock)
	seller.Delete("/inventory/:sku", deps.SellerHandler.RemoveStock)
	seller.Post("/signals", deps.SellerHandler.AddSignal)
	seller.Post("/promotions", deps.SellerHandler.AddPromotion)
	seller.Delete("/promotions/:id", deps.SellerHandler.RemovePromotion)
	seller.Post("/sales", deps.SellerHandler.AddSales)
	seller.Get("/dashboard", deps.SellerHandler.Dashboard)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp, out
}

func signup(t *testing.T, app *fiber.App, email, role string) string {
	t.Helper()
	resp, out := doJSON(t, app, "POST", "/api/v1/auth/signup", "", map[string]any{
		"email":    email,
		"password": "Str0ngpass",
		"role":     role,
		"name":     "Test User",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup %s: status %d (%v)", email, resp.StatusCode, out)
	}
	tok, _ := out["token"].(string)
	if tok == "" {
		t.Fatal("signup returned no token")
	}
	return tok
}
