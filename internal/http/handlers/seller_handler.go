package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"shelfaware/internal/domain"
	applog "shelfaware/internal/log"
	"shelfaware/internal/services"
	"shelfaware/internal/validate"
)

type SellerHandler struct {
	Sellers *services.SellerService
	Dash    *services.DashboardService
}

func (h *SellerHandler) Profile(c *fiber.Ctx) error {
	p, err := h.Sellers.Get(currentUser(c).ID)
	if err != nil {
		return sellerErr(c, err)
	}
	return c.JSON(p)
}

type sellerProfileRequest struct {
	Store domain.StoreInfo `json:"store"`
	Goals []string         `json:"goals"`
}

func (h *SellerHandler) UpdateProfile(c *fiber.Ctx) error {
	var req sellerProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	if req.Store.Zip != "" {
		if _, ok := validate.Zip(req.Store.Zip); !ok {
			return fail(c, fiber.StatusBadRequest, "enter a valid ZIP")
		}
	}

	p, err := h.Sellers.UpdateProfile(currentUser(c).ID, req.Store, req.Goals)
	if err != nil {
		return sellerErr(c, err)
	}
	applog.Audit(c, "seller.profile.update", nil)
	return c.JSON(p)
}

type stockItemRequest struct {
	SKU        string `json:"sku"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Stock      int    `json:"stock"`
	ParLevel   int    `json:"parLevel"`
	DaysOnHand int    `json:"daysOnHand"`
	Perishable bool   `json:"perishable"`
	MarginBps  int    `json:"marginBps"`
}

func (h *SellerHandler) UpsertStock(c *fiber.Ctx) error {
	var req stockItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	sku, ok := validate.SKU(req.SKU)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid sku")
	}
	if req.Stock < 0 || req.ParLevel < 0 || req.DaysOnHand < 0 {
		return fail(c, fiber.StatusBadRequest, "stock fields must be non-negative")
	}

	p, err := h.Sellers.UpsertStock(currentUser(c).ID, domain.StockItem{
		SKU:        sku,
		Name:       req.Name,
		Category:   req.Category,
		Stock:      req.Stock,
		ParLevel:   req.ParLevel,
		DaysOnHand: req.DaysOnHand,
		Perishable: req.Perishable,
		MarginBps:  req.MarginBps,
	})
	if err != nil {
		return sellerErr(c, err)
	}
	applog.Audit(c, "seller.inventory.upsert", map[string]any{"sku": sku})
	return c.JSON(p)
}

func (h *SellerHandler) RemoveStock(c *fiber.Ctx) error {
	sku, ok := validate.SKU(c.Params("sku"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid sku")
	}
	p, err := h.Sellers.RemoveStock(currentUser(c).ID, sku)
	if err != nil {
		return sellerErr(c, err)
	}
	applog.Audit(c, "seller.inventory.remove", map[string]any{"sku": sku})
	return c.JSON(p)
}

type signalRequest struct {
	SKU        string  `json:"sku"`
	Source     string  `json:"source"`
	Direction  string  `json:"direction"`
	Confidence float64 `json:"confidence"`
}

func (h *SellerHandler) AddSignal(c *fiber.Ctx) error {
	var req signalRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	sku, ok := validate.SKU(req.SKU)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid sku")
	}
	dir, ok := validate.Direction(req.Direction)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "direction must be UP, DOWN or FLAT")
	}

	p, err := h.Sellers.AddSignal(currentUser(c).ID, domain.DemandSignal{
		SKU:        sku,
		Source:     req.Source,
		Direction:  dir,
		Confidence: req.Confidence,
	})
	if err != nil {
		return sellerErr(c, err)
	}
	applog.Audit(c, "seller.signal.add", map[string]any{"sku": sku, "direction": dir})
	return c.Status(fiber.StatusCreated).JSON(p)
}

type promotionRequest struct {
	SKU         string    `json:"sku"`
	DiscountBps int       `json:"discountBps"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Redemptions int       `json:"redemptions"`
	Target      int       `json:"target"`
}

func (h *SellerHandler) AddPromotion(c *fiber.Ctx) error {
	var req promotionRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	sku, ok := validate.SKU(req.SKU)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid sku")
	}
	if req.DiscountBps < 0 || req.DiscountBps > 10000 {
		return fail(c, fiber.StatusBadRequest, "discountBps must be 0..10000")
	}
	if !req.EndsAt.After(req.StartsAt) {
		return fail(c, fiber.StatusBadRequest, "endsAt must be after startsAt")
	}

	p, err := h.Sellers.AddPromotion(currentUser(c).ID, domain.Promotion{
		SKU:         sku,
		DiscountBps: req.DiscountBps,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Redemptions: req.Redemptions,
		Target:      req.Target,
	})
	if err != nil {
		return sellerErr(c, err)
	}
	applog.Audit(c, "seller.promotion.add", map[string]any{"sku": sku})
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *SellerHandler) RemovePromotion(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid promotion id")
	}
	p, err := h.Sellers.RemovePromotion(currentUser(c).ID, id)
	if err != nil {
		return sellerErr(c, err)
	}
	applog.Audit(c, "seller.promotion.remove", map[string]any{"id": id})
	return c.JSON(p)
}

type salesRequest struct {
	WeekStart    time.Time `json:"weekStart"`
	UnitsSold    int       `json:"unitsSold"`
	RevenueCents int64     `json:"revenueCents"`
}

func (h *SellerHandler) AddSales(c *fiber.Ctx) error {
	var req salesRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	if req.UnitsSold < 0 || req.RevenueCents < 0 {
		return fail(c, fiber.StatusBadRequest, "sales figures must be non-negative")
	}

	p, err := h.Sellers.AddSales(currentUser(c).ID, domain.SalesSnapshot{
		WeekStart:    req.WeekStart,
		UnitsSold:    req.UnitsSold,
		RevenueCents: req.RevenueCents,
	})
	if err != nil {
		return sellerErr(c, err)
	}
	applog.Audit(c, "seller.sales.add", map[string]any{"units": req.UnitsSold})
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *SellerHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.Dash.Seller(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return sellerErr(c, err)
	}
	return c.JSON(d)
}

func sellerErr(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrNotFound) {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	applog.Error(c, "seller.error", err, nil)
	return fail(c, fiber.StatusInternalServerError, "something went wrong")
}
