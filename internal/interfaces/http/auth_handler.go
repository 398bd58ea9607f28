package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tiendasol/presupuestos-api/internal/application/auth"
	"github.com/tiendasol/presupuestos-api/internal/application/dto"
)

// AuthHandler maneja login y logout.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login verifica credenciales y abre una sesión. Devuelve el token y los
// datos públicos del usuario.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Logout cierra la sesión del token presentado. Después del logout el token
// deja de servir aunque su JWT siga vigente.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	identity := GetIdentity(c)
	if !identity.Authenticated() {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHENTICATED", Message: "se requiere sesión activa"})
	}
	if err := h.uc.Logout(c.UserContext(), identity.SessionID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me devuelve la identidad de la sesión activa.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity := GetIdentity(c)
	if !identity.Authenticated() {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHENTICATED", Message: "se requiere sesión activa"})
	}
	return c.JSON(fiber.Map{
		"username": identity.Username,
		"role":     string(identity.Role),
	})
}
