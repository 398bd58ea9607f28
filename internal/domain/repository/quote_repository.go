package repository

import (
	"context"

	"github.com/tiendasol/presupuestos-api/internal/domain/entity"
)

// QuoteRepository define el puerto de persistencia para Quote y sus líneas.
//
// Las operaciones son de grano fino a propósito: la atomicidad de crear /
// reemplazar / eliminar un presupuesto completo la compone el caso de uso
// con el TxRunner, pasando un repositorio atado a la transacción.
type QuoteRepository interface {
	// GetAll devuelve todos los presupuestos con sus líneas resueltas por join
	// contra el catálogo. Un presupuesto sin líneas aparece con Items vacío.
	GetAll(ctx context.Context) ([]*entity.Quote, error)
	// GetByID devuelve (nil, nil) cuando el presupuesto no existe.
	GetByID(ctx context.Context, id string) (*entity.Quote, error)
	// CreateHeader persiste la cabecera; asigna ID si viene vacío.
	CreateHeader(ctx context.Context, quote *entity.Quote) error
	// UpdateHeader actualiza destinatario y fecha. Devuelve false si no existe.
	UpdateHeader(ctx context.Context, quote *entity.Quote) (bool, error)
	// AddItem inserta una línea. No hay restricción de unicidad: el mismo
	// producto puede aparecer en varias líneas del mismo presupuesto.
	AddItem(ctx context.Context, quoteID string, item entity.QuoteItem) error
	// DeleteItems elimina todas las líneas del presupuesto.
	DeleteItems(ctx context.Context, quoteID string) error
	// DeleteHeader elimina la cabecera. Devuelve false si no existía.
	DeleteHeader(ctx context.Context, id string) (bool, error)
}
