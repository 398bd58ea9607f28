package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tiendasol/presupuestos-api/internal/application/auth"
	"github.com/tiendasol/presupuestos-api/internal/application/dto"
	"github.com/tiendasol/presupuestos-api/internal/domain"
	"github.com/tiendasol/presupuestos-api/internal/domain/entity"
	"github.com/tiendasol/presupuestos-api/pkg/jwt"
)

// Locals key para la identidad resuelta en Fiber.
const LocalIdentity = "identity"

// Authenticator resuelve la identidad de una sesión nombrada por el token.
// Lo implementa auth.AuthUseCase.
type Authenticator interface {
	Authenticate(ctx context.Context, sessionID string) (*auth.Identity, error)
}

// AuthMiddleware valida el Bearer Token JWT y resuelve la sesión que nombra.
// El token por sí solo no alcanza: la sesión debe seguir viva del lado del
// servidor (sin logout ni expiración por inactividad).
func AuthMiddleware(jwtSecret string, authenticator Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		identity, err := authenticator.Authenticate(c.UserContext(), claims.SessionID)
		if err != nil {
			if errors.Is(err, domain.ErrSessionExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_EXPIRED", Message: "la sesión expiró por inactividad"})
			}
			if errors.Is(err, domain.ErrUnauthenticated) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHENTICATED", Message: "sesión inválida o cerrada"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
		}
		c.Locals(LocalIdentity, identity)
		return c.Next()
	}
}

// RequireRole exige que la identidad resuelta tenga alguno de los roles dados.
// Debe ir después de AuthMiddleware.
func RequireRole(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := GetIdentity(c)
		if !identity.Authenticated() {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHENTICATED", Message: "se requiere sesión activa"})
		}
		if !identity.HasAnyRole(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
		}
		return c.Next()
	}
}

// GetIdentity devuelve la identidad del contexto (después del middleware de
// auth). Devuelve nil si no hay identidad; los chequeos sobre nil dan false.
func GetIdentity(c *fiber.Ctx) *auth.Identity {
	v := c.Locals(LocalIdentity)
	if v == nil {
		return nil
	}
	identity, _ := v.(*auth.Identity)
	return identity
}
