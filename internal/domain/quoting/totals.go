// Package quoting contiene el cálculo de totales de un presupuesto (servicio
// de dominio, sin I/O): subtotal, total con IVA y cantidad de productos.
package quoting

import (
	"github.com/shopspring/decimal"

	"github.com/tiendasol/presupuestos-api/internal/domain/entity"
)

// IVAFactor es el factor del IVA del 21% aplicado a todo presupuesto.
// Constante de dominio, no configurable.
var IVAFactor = decimal.RequireFromString("1.21")

// Subtotal suma precio * cantidad sobre las líneas del presupuesto. Las líneas
// con referencia colgante (Product == nil) aportan 0; nunca falla.
func Subtotal(q *entity.Quote) decimal.Decimal {
	total := decimal.Zero
	if q == nil {
		return total
	}
	for _, it := range q.Items {
		if it.Product == nil {
			continue
		}
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// TotalWithTax devuelve Subtotal * 1.21.
func TotalWithTax(q *entity.Quote) decimal.Decimal {
	return Subtotal(q).Mul(IVAFactor)
}

// ItemCount suma las cantidades de todas las líneas (no la cantidad de líneas:
// dos líneas con cantidades 3 y 5 dan 8). Las referencias colgantes cuentan
// igual, porque la cantidad pedida no depende de que el producto siga existiendo.
func ItemCount(q *entity.Quote) int {
	count := 0
	if q == nil {
		return count
	}
	for _, it := range q.Items {
		count += it.Quantity
	}
	return count
}
