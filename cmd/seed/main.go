// seed puebla la base con los usuarios iniciales (uno por rol) y un catálogo
// de productos de ejemplo.
//
// Uso: go run ./cmd/seed
// Credenciales vía env: SEED_ADMIN_PASSWORD y SEED_CLIENTE_PASSWORD
// (por defecto "admin123" y "cliente123"; solo para entornos de desarrollo).
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/tiendasol/presupuestos-api/internal/domain"
	"github.com/tiendasol/presupuestos-api/internal/domain/entity"
	"github.com/tiendasol/presupuestos-api/internal/infrastructure/postgres"
	"github.com/tiendasol/presupuestos-api/pkg/config"
	"github.com/tiendasol/presupuestos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)
	products := postgres.NewProductRepository(pool)

	seedUser(ctx, log, users, "admin", envOr("SEED_ADMIN_PASSWORD", "admin123"), entity.RoleAdministrador)
	seedUser(ctx, log, users, "cliente", envOr("SEED_CLIENTE_PASSWORD", "cliente123"), entity.RoleCliente)

	catalog := []struct {
		description string
		price       string
	}{
		{"Taladro percutor 650W", "45999.90"},
		{"Amoladora angular 115mm", "32500.00"},
		{"Juego de destornilladores x12", "8750.00"},
		{"Caja de tornillos autorroscantes x500", "4200.00"},
		{"Cinta métrica 5m", "2999.99"},
	}
	for _, p := range catalog {
		product := &entity.Product{
			Description: p.description,
			Price:       decimal.RequireFromString(p.price),
		}
		if err := products.Create(ctx, product); err != nil {
			log.Error().Err(err).Str("producto", p.description).Msg("alta de producto")
			continue
		}
		log.Info().Str("id", product.ID).Str("producto", p.description).Msg("producto creado")
	}

	log.Info().Msg("seed finalizado")
}

func seedUser(ctx context.Context, log *logger.Logger, users *postgres.UserRepo, username, password string, role entity.Role) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash de contraseña")
	}

	now := time.Now().UTC()
	err = users.Create(ctx, &entity.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		log.Info().Str("usuario", username).Msg("ya existe, se omite")
	case err != nil:
		log.Fatal().Err(err).Str("usuario", username).Msg("alta de usuario")
	default:
		log.Info().Str("usuario", username).Str("rol", string(role)).Msg("usuario creado")
	}
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
