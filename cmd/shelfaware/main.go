package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shelfaware/internal/config"
	"shelfaware/internal/domain"
	"shelfaware/internal/http/handlers"
	applog "shelfaware/internal/log"
	"shelfaware/internal/repos"
)

func main() {
	applog.Setup()
	cfg := config.Load()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		slog.Error("open db", "err", err)
		os.Exit(1)
	}
	if cfg.OffersFile != "" {
		n, err := repos.ImportOffersFile(db, cfg.OffersFile)
		if err != nil {
			slog.Error("import offers file", "path", cfg.OffersFile, "err", err)
			os.Exit(1)
		}
		slog.Info("offers imported", "path", cfg.OffersFile, "count", n)
	}

	deps := handlers.NewDeps(db, cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong"})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return p == "/healthz" || p == "/metrics"
		},
	}))

	// ---------- Routes ----------
	api := app.Group("/api/v1")

	api.Post("/auth/signup", deps.AuthHandler.Signup)
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), deps.AuthHandler.Login)
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

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("listen", "err", err)
		os.Exit(1)
	}
}
