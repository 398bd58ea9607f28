package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendasol/presupuestos-api/internal/domain"
)

// QuoteItemRequest una línea (producto + cantidad) en un alta o edición.
type QuoteItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// SaveQuoteRequest entrada para crear o reemplazar un presupuesto. En la
// edición el conjunto de líneas reemplaza por completo al anterior.
type SaveQuoteRequest struct {
	RecipientName string             `json:"recipient_name"`
	CreatedAt     *time.Time         `json:"created_at"`
	Items         []QuoteItemRequest `json:"items"`
}

// Validate aplica las reglas de entrada antes de cualquier mutación:
// destinatario obligatorio, fecha no futura, cantidades >= 1.
func (r SaveQuoteRequest) Validate(now time.Time) error {
	if strings.TrimSpace(r.RecipientName) == "" {
		return fmt.Errorf("%w: el nombre del destinatario es obligatorio", domain.ErrInvalidInput)
	}
	if r.CreatedAt != nil && r.CreatedAt.After(now) {
		return fmt.Errorf("%w: la fecha de creación no puede ser futura", domain.ErrInvalidInput)
	}
	for _, it := range r.Items {
		if it.ProductID == "" {
			return fmt.Errorf("%w: cada línea debe referenciar un producto", domain.ErrInvalidInput)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
		}
	}
	return nil
}

// AddQuoteItemRequest entrada para agregar una línea a un presupuesto existente.
type AddQuoteItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Validate cantidad >= 1 y producto presente.
func (r AddQuoteItemRequest) Validate() error {
	if r.ProductID == "" {
		return fmt.Errorf("%w: el producto es obligatorio", domain.ErrInvalidInput)
	}
	if r.Quantity < 1 {
		return fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	return nil
}

// QuoteItemResponse una línea resuelta. Description y Price vienen del catálogo
// al momento de la lectura; quedan en nil si la referencia está colgante.
type QuoteItemResponse struct {
	ProductID   string           `json:"product_id"`
	Quantity    int              `json:"quantity"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

// QuoteResponse salida de un presupuesto con sus totales derivados.
type QuoteResponse struct {
	ID            string              `json:"id"`
	RecipientName string              `json:"recipient_name"`
	CreatedAt     time.Time           `json:"created_at"`
	Items         []QuoteItemResponse `json:"items"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	TotalWithIVA  decimal.Decimal     `json:"total_with_iva"`
	ItemCount     int                 `json:"item_count"`
}

// QuoteListResponse lista de presupuestos.
type QuoteListResponse struct {
	Items []QuoteResponse `json:"items"`
}
