package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tiendasol/presupuestos-api/internal/application/auth"
	"github.com/tiendasol/presupuestos-api/internal/application/usecase"
	"github.com/tiendasol/presupuestos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC *usecase.ProductUseCase
	QuoteUC   *usecase.QuoteUseCase
	QuotePDF  *usecase.QuotePDFUseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
//
// Política de acceso: el catálogo y la escritura de presupuestos son solo
// para Administrador; la lectura de presupuestos admite también Cliente.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login público; logout y me requieren sesión)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	authenticated := AuthMiddleware(deps.JWTSecret, deps.AuthUC)
	authGroup.Post("/logout", authenticated, authHandler.Logout)
	authGroup.Get("/me", authenticated, authHandler.Me)

	adminOnly := RequireRole(entity.RoleAdministrador)
	anyRole := RequireRole(entity.RoleAdministrador, entity.RoleCliente)

	// Products (solo Administrador)
	products := api.Group("/products", authenticated, adminOnly)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Quotes (lectura para ambos roles, escritura solo Administrador)
	quotes := api.Group("/quotes", authenticated)
	quoteHandler := NewQuoteHandler(deps.QuoteUC, deps.QuotePDF)
	quotes.Get("/", anyRole, quoteHandler.List)
	quotes.Get("/:id", anyRole, quoteHandler.GetByID)
	quotes.Get("/:id/pdf", anyRole, quoteHandler.DownloadPDF)
	quotes.Post("/", adminOnly, quoteHandler.Create)
	quotes.Put("/:id", adminOnly, quoteHandler.Update)
	quotes.Delete("/:id", adminOnly, quoteHandler.Delete)
	quotes.Post("/:id/items", adminOnly, quoteHandler.AddItem)
}
