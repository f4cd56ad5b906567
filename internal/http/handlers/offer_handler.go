package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	applog "shelfaware/internal/log"
	"shelfaware/internal/repos"
	"shelfaware/internal/validate"
)

type OfferHandler struct {
	Offers *repos.OfferRepo
}

// List returns the live offers for a ZIP. Offers are read-only here.
func (h *OfferHandler) List(c *fiber.Ctx) error {
	zip, ok := validate.Zip(c.Query("zip"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "enter a valid ZIP")
	}

	offers, err := h.Offers.LiveByZip(zip, time.Now().UTC())
	if err != nil {
		applog.Error(c, "offers.list.error", err, nil)
		return fail(c, fiber.StatusInternalServerError, "something went wrong")
	}
	return c.JSON(fiber.Map{"zip": zip, "offers": offers})
}
