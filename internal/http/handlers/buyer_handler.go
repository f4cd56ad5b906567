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

type BuyerHandler struct {
	Buyers *services.BuyerService
	Dash   *services.DashboardService
}

func (h *BuyerHandler) Profile(c *fiber.Ctx) error {
	p, err := h.Buyers.Get(currentUser(c).ID)
	if err != nil {
		return buyerErr(c, err)
	}
	return c.JSON(p)
}

type buyerProfileRequest struct {
	Household domain.Household `json:"household"`
	Goals     []string         `json:"goals"`
}

func (h *BuyerHandler) UpdateProfile(c *fiber.Ctx) error {
	var req buyerProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	if req.Household.Zip != "" {
		if _, ok := validate.Zip(req.Household.Zip); !ok {
			return fail(c, fiber.StatusBadRequest, "enter a valid ZIP")
		}
	}
	if req.Household.Size < 0 || req.Household.BudgetCents < 0 {
		return fail(c, fiber.StatusBadRequest, "household size and budget must be non-negative")
	}

	p, err := h.Buyers.UpdateProfile(currentUser(c).ID, req.Household, req.Goals)
	if err != nil {
		return buyerErr(c, err)
	}
	applog.Audit(c, "buyer.profile.update", nil)
	return c.JSON(p)
}

type pantryItemRequest struct {
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Quantity  float64   `json:"quantity"`
	Unit      string    `json:"unit"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *BuyerHandler) AddItem(c *fiber.Ctx) error {
	var req pantryItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "enter an item name")
	}
	if req.Quantity < 0 {
		return fail(c, fiber.StatusBadRequest, "quantity must be non-negative")
	}

	p, err := h.Buyers.AddItem(currentUser(c).ID, domain.PantryItem{
		Name:      name,
		Category:  req.Category,
		Quantity:  req.Quantity,
		Unit:      req.Unit,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		return buyerErr(c, err)
	}
	applog.Audit(c, "buyer.inventory.add", map[string]any{"name": name})
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *BuyerHandler) RemoveItem(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid item id")
	}
	p, err := h.Buyers.RemoveItem(currentUser(c).ID, id)
	if err != nil {
		return buyerErr(c, err)
	}
	applog.Audit(c, "buyer.inventory.remove", map[string]any{"id": id})
	return c.JSON(p)
}

type purchaseRequest struct {
	StoreName   string    `json:"storeName"`
	TotalCents  int64     `json:"totalCents"`
	ItemCount   int       `json:"itemCount"`
	PurchasedAt time.Time `json:"purchasedAt"`
}

func (h *BuyerHandler) AddPurchase(c *fiber.Ctx) error {
	var req purchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	if req.TotalCents < 0 || req.ItemCount < 0 {
		return fail(c, fiber.StatusBadRequest, "total and item count must be non-negative")
	}

	p, err := h.Buyers.AddPurchase(currentUser(c).ID, domain.Purchase{
		StoreName:   req.StoreName,
		TotalCents:  req.TotalCents,
		ItemCount:   req.ItemCount,
		PurchasedAt: req.PurchasedAt,
	})
	if err != nil {
		return buyerErr(c, err)
	}
	applog.Audit(c, "buyer.purchase.add", map[string]any{"total_cents": req.TotalCents})
	return c.Status(fiber.StatusCreated).JSON(p)
}

type eventRequest struct {
	Name       string             `json:"name"`
	Date       time.Time          `json:"date"`
	GuestCount int                `json:"guestCount"`
	Items      []domain.EventItem `json:"items"`
}

func (h *BuyerHandler) AddEvent(c *fiber.Ctx) error {
	var req eventRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "enter an event name")
	}
	if req.Date.IsZero() {
		return fail(c, fiber.StatusBadRequest, "event date is required")
	}

	p, err := h.Buyers.AddEvent(currentUser(c).ID, domain.Event{
		Name:       name,
		Date:       req.Date,
		GuestCount: req.GuestCount,
		Items:      req.Items,
	})
	if err != nil {
		return buyerErr(c, err)
	}
	applog.Audit(c, "buyer.event.add", map[string]any{"name": name})
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *BuyerHandler) RemoveEvent(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid event id")
	}
	p, err := h.Buyers.RemoveEvent(currentUser(c).ID, id)
	if err != nil {
		return buyerErr(c, err)
	}
	applog.Audit(c, "buyer.event.remove", map[string]any{"id": id})
	return c.JSON(p)
}

func (h *BuyerHandler) ShoppingList(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid event id")
	}
	items, err := h.Buyers.ShoppingList(currentUser(c).ID, id)
	if err != nil {
		return buyerErr(c, err)
	}
	return c.JSON(fiber.Map{"eventId": id, "items": items})
}

func (h *BuyerHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.Dash.Buyer(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return buyerErr(c, err)
	}
	return c.JSON(d)
}

func buyerErr(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrNotFound) {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	applog.Error(c, "buyer.error", err, nil)
	return fail(c, fiber.StatusInternalServerError, "something went wrong")
}
