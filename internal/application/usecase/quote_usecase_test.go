package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendasol/presupuestos-api/internal/application/dto"
	"github.com/tiendasol/presupuestos-api/internal/application/usecase"
	"github.com/tiendasol/presupuestos-api/internal/domain"
	"github.com/tiendasol/presupuestos-api/internal/domain/entity"
	"github.com/tiendasol/presupuestos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: repositorio de presupuestos con semántica de rollback.
// El fakeTxRunner toma una copia del estado antes del callback y la restaura
// si fn falla, imitando el todo-o-nada de la transacción real.
// ──────────────────────────────────────────────────────────────────────────────

type fakeQuoteRepo struct {
	headers  map[string]*entity.Quote
	items    map[string][]entity.QuoteItem
	products *fakeProductRepo
	writes   int // mutaciones ejecutadas, para verificar cortocircuitos
}

func newFakeQuoteRepo(products *fakeProductRepo) *fakeQuoteRepo {
	return &fakeQuoteRepo{
		headers:  map[string]*entity.Quote{},
		items:    map[string][]entity.QuoteItem{},
		products: products,
	}
}

func (f *fakeQuoteRepo) GetAll(_ context.Context) ([]*entity.Quote, error) {
	var out []*entity.Quote
	for id := range f.headers {
		q, _ := f.GetByID(context.Background(), id)
		out = append(out, q)
	}
	return out, nil
}

func (f *fakeQuoteRepo) GetByID(_ context.Context, id string) (*entity.Quote, error) {
	h, ok := f.headers[id]
	if !ok {
		return nil, nil
	}
	q := &entity.Quote{ID: h.ID, RecipientName: h.RecipientName, CreatedAt: h.CreatedAt}
	for _, it := range f.items[id] {
		resolved := it
		resolved.Product = f.products.byID[it.ProductID] // nil si está colgante
		q.Items = append(q.Items, resolved)
	}
	return q, nil
}

func (f *fakeQuoteRepo) CreateHeader(_ context.Context, q *entity.Quote) error {
	if q.ID == "" {
		q.ID = "q-nuevo"
	}
	f.headers[q.ID] = &entity.Quote{ID: q.ID, RecipientName: q.RecipientName, CreatedAt: q.CreatedAt}
	f.writes++
	return nil
}

func (f *fakeQuoteRepo) UpdateHeader(_ context.Context, q *entity.Quote) (bool, error) {
	h, ok := f.headers[q.ID]
	if !ok {
		return false, nil
	}
	h.RecipientName = q.RecipientName
	h.CreatedAt = q.CreatedAt
	f.writes++
	return true, nil
}

func (f *fakeQuoteRepo) AddItem(_ context.Context, quoteID string, item entity.QuoteItem) error {
	f.items[quoteID] = append(f.items[quoteID], item)
	f.writes++
	return nil
}

func (f *fakeQuoteRepo) DeleteItems(_ context.Context, quoteID string) error {
	delete(f.items, quoteID)
	f.writes++
	return nil
}

func (f *fakeQuoteRepo) DeleteHeader(_ context.Context, id string) (bool, error) {
	_, ok := f.headers[id]
	delete(f.headers, id)
	f.writes++
	return ok, nil
}

type fakeProductRepo struct {
	byID map[string]*entity.Product
}

func (f *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	f.byID[p.ID] = p
	return nil
}
func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return f.byID[id], nil
}
func (f *fakeProductRepo) GetAll(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, nil
}
func (f *fakeProductRepo) Update(_ context.Context, p *entity.Product) (bool, error) {
	_, ok := f.byID[p.ID]
	if ok {
		f.byID[p.ID] = p
	}
	return ok, nil
}
func (f *fakeProductRepo) Delete(_ context.Context, id string) (bool, error) {
	_, ok := f.byID[id]
	delete(f.byID, id)
	return ok, nil
}

type fakeTxRunner struct {
	repo *fakeQuoteRepo
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(quotes repository.QuoteRepository) error) error {
	snapHeaders := map[string]*entity.Quote{}
	for k, v := range f.repo.headers {
		copia := *v
		snapHeaders[k] = &copia
	}
	snapItems := map[string][]entity.QuoteItem{}
	for k, v := range f.repo.items {
		snapItems[k] = append([]entity.QuoteItem(nil), v...)
	}
	if err := fn(f.repo); err != nil {
		f.repo.headers = snapHeaders
		f.repo.items = snapItems
		return err
	}
	return nil
}

func newQuoteFixture() (*usecase.QuoteUseCase, *fakeQuoteRepo, *fakeProductRepo) {
	products := &fakeProductRepo{byID: map[string]*entity.Product{
		"p-100": {ID: "p-100", Description: "Monitor", Price: decimal.NewFromInt(100)},
		"p-50":  {ID: "p-50", Description: "Teclado", Price: decimal.NewFromInt(50)},
	}}
	quotes := newFakeQuoteRepo(products)
	uc := usecase.NewQuoteUseCase(quotes, products, &fakeTxRunner{repo: quotes})
	return uc, quotes, products
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ConLineas_DevuelveTotales(t *testing.T) {
	uc, _, _ := newQuoteFixture()

	out, err := uc.Create(context.Background(), dto.SaveQuoteRequest{
		RecipientName: "ACME SRL",
		Items: []dto.QuoteItemRequest{
			{ProductID: "p-100", Quantity: 2},
			{ProductID: "p-50", Quantity: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "ACME SRL", out.RecipientName)
	assert.Len(t, out.Items, 2)
	assert.True(t, decimal.NewFromInt(350).Equal(out.Subtotal))
	assert.True(t, decimal.RequireFromString("423.5").Equal(out.TotalWithIVA))
	assert.Equal(t, 5, out.ItemCount)
}

func TestCreate_SinLineas_EsValido(t *testing.T) {
	uc, _, _ := newQuoteFixture()

	out, err := uc.Create(context.Background(), dto.SaveQuoteRequest{RecipientName: "Sin Productos"})
	require.NoError(t, err)

	assert.Empty(t, out.Items)
	assert.True(t, out.Subtotal.IsZero())
	assert.Equal(t, 0, out.ItemCount)
}

func TestCreate_ValidacionCortaAntesDeMutar(t *testing.T) {
	uc, quotes, _ := newQuoteFixture()

	casos := []struct {
		nombre string
		in     dto.SaveQuoteRequest
	}{
		{"destinatario vacío", dto.SaveQuoteRequest{RecipientName: "   "}},
		{"cantidad cero", dto.SaveQuoteRequest{
			RecipientName: "ACME",
			Items:         []dto.QuoteItemRequest{{ProductID: "p-100", Quantity: 0}},
		}},
		{"cantidad negativa", dto.SaveQuoteRequest{
			RecipientName: "ACME",
			Items:         []dto.QuoteItemRequest{{ProductID: "p-100", Quantity: -2}},
		}},
		{"producto inexistente", dto.SaveQuoteRequest{
			RecipientName: "ACME",
			Items:         []dto.QuoteItemRequest{{ProductID: "p-fantasma", Quantity: 1}},
		}},
	}

	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			_, err := uc.Create(context.Background(), c.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Zero(t, quotes.writes, "la validación debe fallar sin tocar el store")
		})
	}
}

func TestCreate_FechaFutura_Rechazada(t *testing.T) {
	uc, _, _ := newQuoteFixture()
	futura := time.Now().Add(48 * time.Hour)

	_, err := uc.Create(context.Background(), dto.SaveQuoteRequest{
		RecipientName: "ACME",
		CreatedAt:     &futura,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / Delete / AddItem
// ──────────────────────────────────────────────────────────────────────────────

func crear(t *testing.T, uc *usecase.QuoteUseCase, items ...dto.QuoteItemRequest) *dto.QuoteResponse {
	t.Helper()
	out, err := uc.Create(context.Background(), dto.SaveQuoteRequest{
		RecipientName: "ACME SRL",
		Items:         items,
	})
	require.NoError(t, err)
	return out
}

func TestUpdate_ReemplazaElConjuntoCompleto(t *testing.T) {
	uc, _, _ := newQuoteFixture()
	q := crear(t, uc, dto.QuoteItemRequest{ProductID: "p-100", Quantity: 2})

	out, err := uc.Update(context.Background(), q.ID, dto.SaveQuoteRequest{
		RecipientName: "ACME SA",
		Items:         []dto.QuoteItemRequest{{ProductID: "p-50", Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, "ACME SA", out.RecipientName)
	require.Len(t, out.Items, 1, "ninguna línea anterior sobrevive al update")
	assert.Equal(t, "p-50", out.Items[0].ProductID)
}

func TestUpdate_Inexistente(t *testing.T) {
	uc, _, _ := newQuoteFixture()

	_, err := uc.Update(context.Background(), "no-existe", dto.SaveQuoteRequest{RecipientName: "X"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_EliminaCabeceraYLineas(t *testing.T) {
	uc, quotes, _ := newQuoteFixture()
	q := crear(t, uc, dto.QuoteItemRequest{ProductID: "p-100", Quantity: 2})

	require.NoError(t, uc.Delete(context.Background(), q.ID))

	got, err := uc.GetByID(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, quotes.items[q.ID], "no quedan líneas huérfanas")
}

func TestDelete_Inexistente(t *testing.T) {
	uc, _, _ := newQuoteFixture()

	assert.ErrorIs(t, uc.Delete(context.Background(), "no-existe"), domain.ErrNotFound)
}

func TestAddItem_AgregaSinTocarLasDemas(t *testing.T) {
	uc, _, _ := newQuoteFixture()
	q := crear(t, uc, dto.QuoteItemRequest{ProductID: "p-100", Quantity: 2})

	out, err := uc.AddItem(context.Background(), q.ID, dto.AddQuoteItemRequest{ProductID: "p-50", Quantity: 3})
	require.NoError(t, err)

	assert.Len(t, out.Items, 2)
	assert.Equal(t, 5, out.ItemCount)
}

func TestAddItem_MismoProductoDuplicado(t *testing.T) {
	uc, _, _ := newQuoteFixture()
	q := crear(t, uc, dto.QuoteItemRequest{ProductID: "p-100", Quantity: 1})

	out, err := uc.AddItem(context.Background(), q.ID, dto.AddQuoteItemRequest{ProductID: "p-100", Quantity: 4})
	require.NoError(t, err)

	assert.Len(t, out.Items, 2, "líneas duplicadas del mismo producto son líneas separadas")
	assert.True(t, decimal.NewFromInt(500).Equal(out.Subtotal))
}

func TestAddItem_CantidadInvalida(t *testing.T) {
	uc, _, _ := newQuoteFixture()
	q := crear(t, uc)

	_, err := uc.AddItem(context.Background(), q.ID, dto.AddQuoteItemRequest{ProductID: "p-100", Quantity: 0})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Al eliminar un producto del catálogo, la línea que lo referenciaba queda
// colgante y deja de aportar al subtotal, pero el presupuesto sigue leyéndose.
func TestGetByID_ReferenciaColganteAportaCero(t *testing.T) {
	uc, _, products := newQuoteFixture()
	q := crear(t, uc,
		dto.QuoteItemRequest{ProductID: "p-100", Quantity: 2},
		dto.QuoteItemRequest{ProductID: "p-50", Quantity: 3},
	)

	delete(products.byID, "p-50")

	out, err := uc.GetByID(context.Background(), q.ID)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(200).Equal(out.Subtotal))
	assert.Equal(t, 5, out.ItemCount)
	require.Len(t, out.Items, 2)
	for _, it := range out.Items {
		if it.ProductID == "p-50" {
			assert.Nil(t, it.Price, "la referencia colgante no resuelve precio")
		}
	}
}
