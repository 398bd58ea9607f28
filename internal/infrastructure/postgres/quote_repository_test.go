package postgres_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/tiendasol/presupuestos-api/internal/domain/entity"
	"github.com/tiendasol/presupuestos-api/internal/domain/repository"
	"github.com/tiendasol/presupuestos-api/internal/infrastructure/postgres"
)

type quoteRepositorySuite struct {
	suite.Suite

	pool     *pgxpool.Pool
	quotes   *postgres.QuoteRepo
	products *postgres.ProductRepo
}

func TestQuoteRepositorySuite(t *testing.T) {
	suite.Run(t, new(quoteRepositorySuite))
}

func (suite *quoteRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.NoError(err)

	suite.quotes = postgres.NewQuoteRepository(suite.pool)
	suite.products = postgres.NewProductRepository(suite.pool)
}

func (suite *quoteRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *quoteRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE quotes, quote_items, products CASCADE")
	suite.NoError(err)
}

func (suite *quoteRepositorySuite) TestCreateAndGetByID() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	p1 := suite.createProduct("Taladro percutor", "150.00")
	p2 := suite.createProduct("Caja de tornillos", "12.50")

	quote := &entity.Quote{
		RecipientName: gofakeit.Name(),
		CreatedAt:     time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, suite.quotes.CreateHeader(ctx, quote))
	require.NotEmpty(t, quote.ID)

	require.NoError(t, suite.quotes.AddItem(ctx, quote.ID, entity.QuoteItem{ProductID: p1.ID, Quantity: 2}))
	require.NoError(t, suite.quotes.AddItem(ctx, quote.ID, entity.QuoteItem{ProductID: p2.ID, Quantity: 5}))

	got, err := suite.quotes.GetByID(ctx, quote.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, quote.ID, got.ID)
	assert.Equal(t, quote.RecipientName, got.RecipientName)
	require.Len(t, got.Items, 2)

	// Las líneas vuelven con el producto resuelto por join.
	assert.Equal(t, p1.ID, got.Items[0].ProductID)
	assert.Equal(t, 2, got.Items[0].Quantity)
	require.NotNil(t, got.Items[0].Product)
	assertProduct(t, p1, got.Items[0].Product)

	require.NotNil(t, got.Items[1].Product)
	assertProduct(t, p2, got.Items[1].Product)
}

func (suite *quoteRepositorySuite) TestGetByIDMissing() {
	t := suite.T()

	got, err := suite.quotes.GetByID(t.Context(), gofakeit.UUID())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func (suite *quoteRepositorySuite) TestGetAllIncludesEmptyQuotes() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	p := suite.createProduct("Martillo", "30.00")

	withItems := &entity.Quote{RecipientName: gofakeit.Name(), CreatedAt: time.Now().UTC()}
	require.NoError(t, suite.quotes.CreateHeader(ctx, withItems))
	require.NoError(t, suite.quotes.AddItem(ctx, withItems.ID, entity.QuoteItem{ProductID: p.ID, Quantity: 1}))

	empty := &entity.Quote{RecipientName: gofakeit.Name(), CreatedAt: time.Now().UTC()}
	require.NoError(t, suite.quotes.CreateHeader(ctx, empty))

	all, err := suite.quotes.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	byID := map[string]*entity.Quote{}
	for _, q := range all {
		byID[q.ID] = q
	}
	require.Contains(t, byID, withItems.ID)
	require.Contains(t, byID, empty.ID)
	assert.Len(t, byID[withItems.ID].Items, 1)
	assert.Empty(t, byID[empty.ID].Items)
}

func (suite *quoteRepositorySuite) TestDanglingProductReference() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	p := suite.createProduct("Producto efímero", "99.99")

	quote := &entity.Quote{RecipientName: gofakeit.Name(), CreatedAt: time.Now().UTC()}
	require.NoError(t, suite.quotes.CreateHeader(ctx, quote))
	require.NoError(t, suite.quotes.AddItem(ctx, quote.ID, entity.QuoteItem{ProductID: p.ID, Quantity: 3}))

	deleted, err := suite.products.Delete(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	// La línea sobrevive al producto pero ya sin producto resuelto.
	got, err := suite.quotes.GetByID(ctx, quote.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, p.ID, got.Items[0].ProductID)
	assert.Equal(t, 3, got.Items[0].Quantity)
	assert.Nil(t, got.Items[0].Product)
}

func (suite *quoteRepositorySuite) TestDuplicateProductLines() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	p := suite.createProduct("Cinta métrica", "8.00")

	quote := &entity.Quote{RecipientName: gofakeit.Name(), CreatedAt: time.Now().UTC()}
	require.NoError(t, suite.quotes.CreateHeader(ctx, quote))
	require.NoError(t, suite.quotes.AddItem(ctx, quote.ID, entity.QuoteItem{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, suite.quotes.AddItem(ctx, quote.ID, entity.QuoteItem{ProductID: p.ID, Quantity: 4}))

	got, err := suite.quotes.GetByID(ctx, quote.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 2)
	assert.Equal(t, 1, got.Items[0].Quantity)
	assert.Equal(t, 4, got.Items[1].Quantity)
}

func (suite *quoteRepositorySuite) TestUpdateHeader() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	quote := &entity.Quote{RecipientName: "Antes", CreatedAt: time.Now().UTC()}
	require.NoError(t, suite.quotes.CreateHeader(ctx, quote))

	quote.RecipientName = "Después"
	found, err := suite.quotes.UpdateHeader(ctx, quote)
	require.NoError(t, err)
	assert.True(t, found)

	got, err := suite.quotes.GetByID(ctx, quote.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Después", got.RecipientName)

	found, err = suite.quotes.UpdateHeader(ctx, &entity.Quote{ID: gofakeit.UUID(), RecipientName: "x", CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.False(t, found)
}

func (suite *quoteRepositorySuite) TestDeleteLeavesNoOrphanItems() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	p := suite.createProduct("Lija", "2.50")

	quote := &entity.Quote{RecipientName: gofakeit.Name(), CreatedAt: time.Now().UTC()}
	require.NoError(t, suite.quotes.CreateHeader(ctx, quote))
	require.NoError(t, suite.quotes.AddItem(ctx, quote.ID, entity.QuoteItem{ProductID: p.ID, Quantity: 2}))

	require.NoError(t, suite.quotes.DeleteItems(ctx, quote.ID))
	found, err := suite.quotes.DeleteHeader(ctx, quote.ID)
	require.NoError(t, err)
	assert.True(t, found)

	got, err := suite.quotes.GetByID(ctx, quote.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	var count int
	err = suite.pool.QueryRow(ctx, "SELECT COUNT(*) FROM quote_items WHERE quote_id = $1", quote.ID).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)

	found, err = suite.quotes.DeleteHeader(ctx, gofakeit.UUID())
	require.NoError(t, err)
	assert.False(t, found)
}

func (suite *quoteRepositorySuite) TestTxRunnerRollsBackOnError() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	runner := postgres.NewTxRunner(suite.pool)
	quote := &entity.Quote{RecipientName: gofakeit.Name(), CreatedAt: time.Now().UTC()}

	err := runner.Run(ctx, func(quotes repository.QuoteRepository) error {
		if err := quotes.CreateHeader(ctx, quote); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	got, err := suite.quotes.GetByID(ctx, quote.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func (suite *quoteRepositorySuite) createProduct(description, price string) *entity.Product {
	t := suite.T()
	t.Helper()

	p := &entity.Product{
		Description: description,
		Price:       decimal.RequireFromString(price),
	}
	require.NoError(t, suite.products.Create(t.Context(), p))
	return p
}

func assertProduct(t *testing.T, expected, actual *entity.Product) {
	t.Helper()

	opts := cmp.Options{
		cmpopts.IgnoreFields(entity.Product{}, "CreatedAt", "UpdatedAt"),
		cmp.Comparer(func(x, y decimal.Decimal) bool { return x.Equal(y) }),
	}
	assert.Empty(t, cmp.Diff(*expected, *actual, opts))
}
