package repository

import (
	"context"
	"time"

	"github.com/tiendasol/presupuestos-api/internal/domain/entity"
)

// SessionRepository define el puerto de persistencia para Session. Las
// sesiones viven en almacenamiento para que el logout y la expiración por
// inactividad sean efectivos del lado del servidor.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	// GetByID devuelve (nil, nil) cuando la sesión no existe.
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	// Touch actualiza LastSeenAt de la sesión.
	Touch(ctx context.Context, id string, seenAt time.Time) error
	// Delete elimina la sesión. Devuelve false si no existía.
	Delete(ctx context.Context, id string) (bool, error)
}
