package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tiendasol/presupuestos-api/internal/domain/entity"
	"github.com/tiendasol/presupuestos-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo implementación del puerto QuoteRepository sobre PostgreSQL
// (usable con pool o tx).
//
// Las lecturas resuelven las líneas con un único LEFT JOIN doble:
// presupuesto -> líneas -> catálogo. El join es contra el precio vigente del
// producto, no contra un precio congelado; y una línea cuyo producto fue
// eliminado vuelve con producto en NULL (referencia colgante).
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

const quoteJoinQuery = `
	SELECT q.id, q.recipient_name, q.created_at,
	       qi.product_id, qi.quantity,
	       p.description, p.price
	FROM quotes q
	LEFT JOIN quote_items qi ON qi.quote_id = q.id
	LEFT JOIN products p ON p.id = qi.product_id`

// GetAll devuelve todos los presupuestos con sus líneas. Los presupuestos sin
// líneas aparecen con Items vacío.
func (r *QuoteRepo) GetAll(ctx context.Context) ([]*entity.Quote, error) {
	query := quoteJoinQuery + ` ORDER BY q.created_at DESC, q.id, qi.id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()
	return groupQuoteRows(rows)
}

// GetByID devuelve un presupuesto con sus líneas, o (nil, nil) si no existe.
func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	query := quoteJoinQuery + ` WHERE q.id = $1 ORDER BY qi.id`
	rows, err := r.q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get quote: %w", err)
	}
	defer rows.Close()
	list, err := groupQuoteRows(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// groupQuoteRows agrupa el resultado del join por presupuesto preservando el
// orden de las filas.
func groupQuoteRows(rows pgx.Rows) ([]*entity.Quote, error) {
	var (
		list  []*entity.Quote
		index = map[string]*entity.Quote{}
	)
	for rows.Next() {
		var (
			id            string
			recipientName string
			createdAt     time.Time
			productID     *string
			quantity      *int
			description   *string
			price         *decimal.Decimal
		)
		if err := rows.Scan(&id, &recipientName, &createdAt, &productID, &quantity, &description, &price); err != nil {
			return nil, fmt.Errorf("scan quote row: %w", err)
		}

		q, ok := index[id]
		if !ok {
			q = &entity.Quote{ID: id, RecipientName: recipientName, CreatedAt: createdAt}
			index[id] = q
			list = append(list, q)
		}

		// Sin fila de línea (presupuesto vacío): productID es NULL.
		if productID == nil || quantity == nil {
			continue
		}
		item := entity.QuoteItem{ProductID: *productID, Quantity: *quantity}
		if description != nil && price != nil {
			item.Product = &entity.Product{ID: *productID, Description: *description, Price: *price}
		}
		q.Items = append(q.Items, item)
	}
	return list, rows.Err()
}

// CreateHeader persiste la cabecera del presupuesto; asigna ID si viene vacío.
func (r *QuoteRepo) CreateHeader(ctx context.Context, quote *entity.Quote) error {
	if quote.ID == "" {
		quote.ID = uuid.New().String()
	}
	query := `
		INSERT INTO quotes (id, recipient_name, created_at)
		VALUES ($1, $2, $3)`
	_, err := r.q.Exec(ctx, query, quote.ID, quote.RecipientName, quote.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// UpdateHeader actualiza destinatario y fecha. Devuelve false si no existe.
func (r *QuoteRepo) UpdateHeader(ctx context.Context, quote *entity.Quote) (bool, error) {
	query := `
		UPDATE quotes SET recipient_name = $2, created_at = $3
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, quote.ID, quote.RecipientName, quote.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("update quote: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// AddItem inserta una línea. No hay unicidad (quote_id, product_id): el mismo
// producto puede repetirse en varias líneas.
func (r *QuoteRepo) AddItem(ctx context.Context, quoteID string, item entity.QuoteItem) error {
	query := `
		INSERT INTO quote_items (quote_id, product_id, quantity)
		VALUES ($1, $2, $3)`
	_, err := r.q.Exec(ctx, query, quoteID, item.ProductID, item.Quantity)
	if err != nil {
		return fmt.Errorf("insert quote item: %w", err)
	}
	return nil
}

// DeleteItems elimina todas las líneas del presupuesto.
func (r *QuoteRepo) DeleteItems(ctx context.Context, quoteID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM quote_items WHERE quote_id = $1`, quoteID)
	if err != nil {
		return fmt.Errorf("delete quote items: %w", err)
	}
	return nil
}

// DeleteHeader elimina la cabecera. Devuelve false si no existía.
func (r *QuoteRepo) DeleteHeader(ctx context.Context, id string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete quote: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
