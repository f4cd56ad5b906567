package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "shelfaware/internal/log"
	"shelfaware/internal/metrics"
	"shelfaware/internal/services"
	"shelfaware/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid JSON body")
	}

	email, ok := validate.Email(req.Email)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "enter a valid email")
	}
	if !validate.Password(req.Password) {
		return fail(c, fiber.StatusBadRequest, "password needs 8+ chars with upper, lower and digit")
	}
	role, ok := validate.Role(req.Role)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "role must be BUYER or SELLER")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "enter a display name")
	}

	u, tok, err := h.Auth.Signup(email, req.Password, role, name)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return fail(c, fiber.StatusConflict, "email already registered")
		}
		applog.Error(c, "auth.signup.error", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not create account")
	}

	applog.Audit(c, "auth.signup", map[string]any{"email": email, "role": role})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": tok, "user": u})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid JSON body")
	}

	email, ok := validate.Email(req.Email)
	if !ok {
		metrics.LoginFailures.Inc()
		applog.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		return fail(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	u, tok, err := h.Auth.Login(email, req.Password)
	if err != nil {
		metrics.LoginFailures.Inc()
		applog.Security(c, "auth.login.fail", map[string]any{"email": email})
		return fail(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	applog.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.JSON(fiber.Map{"token": tok, "user": u})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}
