package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tiendasol/presupuestos-api/internal/application/auth"
	"github.com/tiendasol/presupuestos-api/internal/application/usecase"
	infrapdf "github.com/tiendasol/presupuestos-api/internal/infrastructure/pdf"
	"github.com/tiendasol/presupuestos-api/internal/infrastructure/postgres"
	httpRouter "github.com/tiendasol/presupuestos-api/internal/interfaces/http"
	"github.com/tiendasol/presupuestos-api/pkg/config"
	"github.com/tiendasol/presupuestos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	quoteRepo := postgres.NewQuoteRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	productUC := usecase.NewProductUseCase(productRepo)
	quoteUC := usecase.NewQuoteUseCase(quoteRepo, productRepo, txRunner)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	quotePDFUC := usecase.NewQuotePDFUseCase(quoteRepo, pdfGenerator)

	authUC := auth.NewAuthUseCase(userRepo, sessionRepo, auth.Config{
		JWTSecret:   cfg.JWT.Secret,
		JWTExpMin:   cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
		IdleTimeout: cfg.Session.IdleTimeout,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC: productUC,
		QuoteUC:   quoteUC,
		QuotePDF:  quotePDFUC,
		AuthUC:    authUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
