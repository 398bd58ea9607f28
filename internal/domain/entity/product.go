package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo disponible para presupuestar.
// El precio es el precio vigente: los totales de un presupuesto se calculan
// siempre contra este valor, no contra un precio congelado al momento del alta.
type Product struct {
	ID          string
	Description string
	Price       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
