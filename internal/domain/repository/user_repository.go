package repository

import (
	"context"

	"github.com/tiendasol/presupuestos-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
// Los lookups devuelven (nil, nil) cuando no hay coincidencia.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}
