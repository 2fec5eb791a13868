package httpserver

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hskaicoach/backend/internal/auth"
	"github.com/hskaicoach/backend/internal/hsk"
	"github.com/hskaicoach/backend/internal/httpserver/httputil"
	"github.com/hskaicoach/backend/internal/models"
	"github.com/hskaicoach/backend/internal/store"
)

type registerRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Password    string `json:"password"`
	TargetLevel int    `json:"targetLevel"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// validatePassword enforces the product password policy: at least 6
// characters with one uppercase letter and one special character.
func validatePassword(password string) string {
	if len(password) < 6 {
		return "รหัสผ่านต้องมีอย่างน้อย 6 ตัวอักษร"
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		return "รหัสผ่านต้องมีตัวอักษรภาษาอังกฤษพิมพ์ใหญ่อย่างน้อย 1 ตัว"
	}
	special := func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9')
	}
	if !strings.ContainsFunc(password, special) {
		return "รหัสผ่านต้องมีอักขระพิเศษอย่างน้อย 1 ตัว (เช่น !@#$%)"
	}
	return ""
}

func (h *handlers) register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return httputil.WriteError(c, fiber.StatusBadRequest, "อีเมลไม่ถูกต้อง")
	}
	if msg := validatePassword(req.Password); msg != "" {
		return httputil.WriteError(c, fiber.StatusBadRequest, msg)
	}
	if req.TargetLevel != 0 && !hsk.ValidLevel(req.TargetLevel) {
		return httputil.WriteError(c, fiber.StatusBadRequest, hsk.ErrInvalidLevel.Error())
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusInternalServerError, "could not hash password")
	}

	user := &models.User{
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		TargetLevel:  req.TargetLevel,
	}
	if err := h.c.Users.Create(c.UserContext(), user); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			return httputil.WriteError(c, fiber.StatusConflict, "email already registered")
		}
		return httputil.WriteError(c, fiber.StatusInternalServerError, "could not create user")
	}

	token, exp, err := h.c.Tokens.Issue(user)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusInternalServerError, "could not issue token")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":      user,
		"token":     token,
		"expiresAt": exp,
	})
}

func (h *handlers) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := h.c.Users.GetByEmail(c.UserContext(), email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return httputil.WriteError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		return httputil.WriteError(c, fiber.StatusInternalServerError, "login failed")
	}

	match, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !match {
		return httputil.WriteError(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	token, exp, err := h.c.Tokens.Issue(user)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusInternalServerError, "could not issue token")
	}
	return c.JSON(fiber.Map{
		"user":      user,
		"token":     token,
		"expiresAt": exp,
	})
}

func (h *handlers) me(c *fiber.Ctx) error {
	id := identityFrom(c)
	user, err := h.c.Users.GetByID(c.UserContext(), id.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return httputil.WriteError(c, fiber.StatusNotFound, "user not found")
		}
		return httputil.WriteError(c, fiber.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(user)
}

func (h *handlers) updateTargetLevel(c *fiber.Ctx) error {
	var req struct {
		TargetLevel int `json:"targetLevel"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !hsk.ValidLevel(req.TargetLevel) {
		return httputil.WriteError(c, fiber.StatusBadRequest, hsk.ErrInvalidLevel.Error())
	}

	id := identityFrom(c)
	if err := h.c.Users.UpdateTargetLevel(c.UserContext(), id.UserID, req.TargetLevel); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return httputil.WriteError(c, fiber.StatusNotFound, "user not found")
		}
		return httputil.WriteError(c, fiber.StatusInternalServerError, "update failed")
	}
	return c.JSON(fiber.Map{"targetLevel": req.TargetLevel})
}
