package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tiendasol/presupuestos-api/internal/application/dto"
	"github.com/tiendasol/presupuestos-api/internal/domain"
	"github.com/tiendasol/presupuestos-api/internal/domain/entity"
	"github.com/tiendasol/presupuestos-api/internal/domain/quoting"
	"github.com/tiendasol/presupuestos-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, con un QuoteRepository atado
// a ella. Cualquier error de fn revierte todo lo hecho dentro del callback.
type TxRunner interface {
	Run(ctx context.Context, fn func(quotes repository.QuoteRepository) error) error
}

// QuoteUseCase casos de uso sobre presupuestos. Las mutaciones multi-sentencia
// (crear, reemplazar, eliminar) son atómicas vía TxRunner; AddItem es una sola
// sentencia y va directo contra el pool.
type QuoteUseCase struct {
	quotes   repository.QuoteRepository
	products repository.ProductRepository
	tx       TxRunner
}

// NewQuoteUseCase construye el caso de uso.
func NewQuoteUseCase(quotes repository.QuoteRepository, products repository.ProductRepository, tx TxRunner) *QuoteUseCase {
	return &QuoteUseCase{quotes: quotes, products: products, tx: tx}
}

// List devuelve todos los presupuestos con líneas y totales.
func (uc *QuoteUseCase) List(ctx context.Context) (*dto.QuoteListResponse, error) {
	list, err := uc.quotes.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.QuoteResponse, 0, len(list))
	for _, q := range list {
		items = append(items, *toQuoteResponse(q))
	}
	return &dto.QuoteListResponse{Items: items}, nil
}

// GetByID devuelve (nil, nil) si el presupuesto no existe.
func (uc *QuoteUseCase) GetByID(ctx context.Context, id string) (*dto.QuoteResponse, error) {
	q, err := uc.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, nil
	}
	return toQuoteResponse(q), nil
}

// Create valida la entrada, resuelve las referencias de producto contra el
// catálogo y persiste cabecera + líneas en una transacción: o queda todo o no
// queda nada.
func (uc *QuoteUseCase) Create(ctx context.Context, in dto.SaveQuoteRequest) (*dto.QuoteResponse, error) {
	now := time.Now()
	if err := in.Validate(now); err != nil {
		return nil, err
	}
	if err := uc.checkProductRefs(ctx, in.Items); err != nil {
		return nil, err
	}

	q := &entity.Quote{
		RecipientName: in.RecipientName,
		CreatedAt:     now,
	}
	if in.CreatedAt != nil {
		q.CreatedAt = *in.CreatedAt
	}
	for _, it := range in.Items {
		q.Items = append(q.Items, entity.QuoteItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	err := uc.tx.Run(ctx, func(quotes repository.QuoteRepository) error {
		if err := quotes.CreateHeader(ctx, q); err != nil {
			return err
		}
		for _, it := range q.Items {
			if err := quotes.AddItem(ctx, q.ID, it); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return uc.GetByID(ctx, q.ID)
}

// Update reemplaza cabecera y conjunto completo de líneas, atómicamente.
// Después del update las líneas son exactamente las enviadas, ninguna de las
// anteriores sobrevive.
func (uc *QuoteUseCase) Update(ctx context.Context, id string, in dto.SaveQuoteRequest) (*dto.QuoteResponse, error) {
	now := time.Now()
	if err := in.Validate(now); err != nil {
		return nil, err
	}
	if err := uc.checkProductRefs(ctx, in.Items); err != nil {
		return nil, err
	}

	q := &entity.Quote{
		ID:            id,
		RecipientName: in.RecipientName,
		CreatedAt:     now,
	}
	if in.CreatedAt != nil {
		q.CreatedAt = *in.CreatedAt
	}

	err := uc.tx.Run(ctx, func(quotes repository.QuoteRepository) error {
		found, err := quotes.UpdateHeader(ctx, q)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrNotFound
		}
		if err := quotes.DeleteItems(ctx, id); err != nil {
			return err
		}
		for _, it := range in.Items {
			item := entity.QuoteItem{ProductID: it.ProductID, Quantity: it.Quantity}
			if err := quotes.AddItem(ctx, id, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return uc.GetByID(ctx, id)
}

// Delete elimina líneas y cabecera en una transacción; no quedan huérfanos.
func (uc *QuoteUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(quotes repository.QuoteRepository) error {
		if err := quotes.DeleteItems(ctx, id); err != nil {
			return err
		}
		found, err := quotes.DeleteHeader(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrNotFound
		}
		return nil
	})
}

// AddItem agrega una línea a un presupuesto existente sin tocar las demás.
// Es una única sentencia de inserción, sin transacción envolvente.
func (uc *QuoteUseCase) AddItem(ctx context.Context, quoteID string, in dto.AddQuoteItemRequest) (*dto.QuoteResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	q, err := uc.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.checkProductRefs(ctx, []dto.QuoteItemRequest{{ProductID: in.ProductID, Quantity: in.Quantity}}); err != nil {
		return nil, err
	}

	item := entity.QuoteItem{ProductID: in.ProductID, Quantity: in.Quantity}
	if err := uc.quotes.AddItem(ctx, quoteID, item); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, quoteID)
}

// checkProductRefs verifica contra el catálogo que cada producto referenciado
// exista al momento del alta. Las referencias solo pueden quedar colgantes
// después, si el producto se elimina del catálogo.
func (uc *QuoteUseCase) checkProductRefs(ctx context.Context, items []dto.QuoteItemRequest) error {
	for _, it := range items {
		p, err := uc.products.GetByID(ctx, it.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: el producto %s no existe en el catálogo", domain.ErrInvalidInput, it.ProductID)
		}
	}
	return nil
}

func toQuoteResponse(q *entity.Quote) *dto.QuoteResponse {
	items := make([]dto.QuoteItemResponse, 0, len(q.Items))
	for _, it := range q.Items {
		out := dto.QuoteItemResponse{ProductID: it.ProductID, Quantity: it.Quantity}
		if it.Product != nil {
			desc := it.Product.Description
			price := it.Product.Price
			out.Description = &desc
			out.Price = &price
		}
		items = append(items, out)
	}
	return &dto.QuoteResponse{
		ID:            q.ID,
		RecipientName: q.RecipientName,
		CreatedAt:     q.CreatedAt,
		Items:         items,
		Subtotal:      quoting.Subtotal(q),
		TotalWithIVA:  quoting.TotalWithTax(q),
		ItemCount:     quoting.ItemCount(q),
	}
}
