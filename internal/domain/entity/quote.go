package entity

import "time"

// Quote representa un presupuesto: un destinatario y un conjunto de líneas
// (producto + cantidad). Un presupuesto sin líneas es válido.
type Quote struct {
	ID            string
	RecipientName string
	CreatedAt     time.Time
	Items         []QuoteItem
}

// QuoteItem es una línea del presupuesto. Product se resuelve por join al
// momento de la lectura; queda en nil si el producto referenciado ya no existe
// (referencia colgante), en cuyo caso la línea aporta 0 al total.
type QuoteItem struct {
	ProductID string
	Quantity  int
	Product   *Product
}
