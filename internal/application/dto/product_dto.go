package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendasol/presupuestos-api/internal/domain"
)

const maxDescriptionLen = 250

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// Validate aplica las reglas de entrada: precio mayor a cero, descripción
// opcional de hasta 250 caracteres. Se valida acá, antes de tocar el store.
func (r CreateProductRequest) Validate() error {
	if r.Price.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: el precio debe ser mayor a 0", domain.ErrInvalidInput)
	}
	if len(r.Description) > maxDescriptionLen {
		return fmt.Errorf("%w: la descripción no puede superar %d caracteres", domain.ErrInvalidInput, maxDescriptionLen)
	}
	return nil
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
type UpdateProductRequest struct {
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
}

// Validate aplica las mismas reglas que el alta sobre los campos presentes.
func (r UpdateProductRequest) Validate() error {
	if r.Price != nil && r.Price.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: el precio debe ser mayor a 0", domain.ErrInvalidInput)
	}
	if r.Description != nil && len(*r.Description) > maxDescriptionLen {
		return fmt.Errorf("%w: la descripción no puede superar %d caracteres", domain.ErrInvalidInput, maxDescriptionLen)
	}
	return nil
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista de productos del catálogo.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
}
