package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storemirror/internal/logger"
	"storemirror/internal/models"
	"storemirror/internal/services/fakestore"
)

// --- Mock fetcher ---

type mockFetcher struct {
	categories    []string
	categoriesErr error

	products    []fakestore.Product
	productsErr error

	byID    map[int64]*fakestore.Product
	byIDErr error

	byCategory    map[string][]fakestore.Product
	byCategoryErr error

	// Call counters
	productsCalls   int
	byIDCalls       int
	byCategoryCalls int
}

func (m *mockFetcher) Categories(ctx context.Context) ([]string, error) {
	return m.categories, m.categoriesErr
}

func (m *mockFetcher) Products(ctx context.Context, limit int) ([]fakestore.Product, error) {
	m.productsCalls++
	if m.productsErr != nil {
		return nil, m.productsErr
	}
	if limit < len(m.products) {
		return m.products[:limit], nil
	}
	return m.products, nil
}

func (m *mockFetcher) ProductByID(ctx context.Context, id int64) (*fakestore.Product, error) {
	m.byIDCalls++
	if m.byIDErr != nil {
		return nil, m.byIDErr
	}
	return m.byID[id], nil
}

func (m *mockFetcher) ProductsByCategory(ctx context.Context, category string) ([]fakestore.Product, error) {
	m.byCategoryCalls++
	if m.byCategoryErr != nil {
		return nil, m.byCategoryErr
	}
	return m.byCategory[category], nil
}

// --- Mock store ---

type mockStore struct {
	categories map[string]*models.Category
	products   map[string]*models.Product
	variants   []models.ProductVariant

	nextID int

	// orphanProducts counts products created with a category id unknown to
	// the store at creation time.
	orphanProducts int
}

func newMockStore() *mockStore {
	return &mockStore{
		categories: make(map[string]*models.Category),
		products:   make(map[string]*models.Product),
	}
}

func (m *mockStore) id() string {
	m.nextID++
	return fmt.Sprintf("id-%d", m.nextID)
}

func (m *mockStore) Transaction(fn func(tx Store) error) error {
	return fn(m)
}

func (m *mockStore) CategoryByName(name string) (*models.Category, error) {
	return m.categories[name], nil
}

func (m *mockStore) CreateCategory(category *models.Category) error {
	category.ID = m.id()
	m.categories[category.Name] = category
	return nil
}

func (m *mockStore) ProductByTitle(title string) (*models.Product, error) {
	return m.products[title], nil
}

func (m *mockStore) CreateProduct(product *models.Product) error {
	known := false
	for _, c := range m.categories {
		if c.ID == product.CategoryID {
			known = true
			break
		}
	}
	if !known {
		m.orphanProducts++
	}

	product.ID = m.id()
	m.products[product.Title] = product
	return nil
}

func (m *mockStore) CreateVariant(variant *models.ProductVariant) error {
	m.variants = append(m.variants, *variant)
	return nil
}

// --- Mock publisher ---

type mockPublisher struct {
	events []string
	err    error
}

func (m *mockPublisher) ProductCreated(ctx context.Context, product *models.Product, variant *models.ProductVariant, category string) error {
	m.events = append(m.events, variant.SKU)
	return m.err
}

func newTestSyncer(fetcher Fetcher, store Store, publisher Publisher) *Syncer {
	return NewSyncer(fetcher, store, publisher, logger.New("error"))
}

// --- Tests ---

func TestSyncCategories(t *testing.T) {
	fetcher := &mockFetcher{
		categories: []string{"electronics", "men's clothing", "women's clothing"},
	}
	store := newMockStore()
	syncer := newTestSyncer(fetcher, store, nil)

	created, err := syncer.SyncCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, created)
	assert.Contains(t, store.categories, "Electronics")
	assert.Contains(t, store.categories, "Men's Clothing")
	assert.Contains(t, store.categories, "Women's Clothing")

	// Re-running creates nothing new.
	created, err = syncer.SyncCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Len(t, store.categories, 3)
}

func TestSyncCategoriesFetchError(t *testing.T) {
	fetcher := &mockFetcher{categoriesErr: errors.New("connection refused")}
	store := newMockStore()
	syncer := newTestSyncer(fetcher, store, nil)

	created, err := syncer.SyncCategories(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 0, created)
	assert.Empty(t, store.categories)
}

func TestSyncProducts(t *testing.T) {
	fetcher := &mockFetcher{
		products: []fakestore.Product{
			{ID: 1, Title: "Shirt", Category: "men's clothing", Price: 9.99, Image: "u1"},
		},
	}
	store := newMockStore()
	syncer := newTestSyncer(fetcher, store, nil)

	created, err := syncer.SyncProducts(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	require.Len(t, store.categories, 1)
	assert.Contains(t, store.categories, "Men's Clothing")

	product := store.products["Shirt"]
	require.NotNil(t, product)
	assert.Equal(t, int64(1), product.ExternalID)
	assert.Equal(t, "External API", product.Brand)
	assert.Equal(t, store.categories["Men's Clothing"].ID, product.CategoryID)

	require.Len(t, store.variants, 1)
	variant := store.variants[0]
	assert.Equal(t, product.ID, variant.ProductID)
	assert.Equal(t, "API-1", variant.SKU)
	assert.Equal(t, "M", variant.Size)
	assert.Equal(t, "N/A", variant.Color)
	assert.Equal(t, "9.99", variant.Price.String())
	assert.Equal(t, "u1", variant.ImageURL)

	assert.Zero(t, store.orphanProducts)
}

func TestSyncProductsIdempotent(t *testing.T) {
	fetcher := &mockFetcher{
		products: []fakestore.Product{
			{ID: 1, Title: "Shirt", Category: "men's clothing", Price: 9.99, Image: "u1"},
			{ID: 2, Title: "Lamp", Category: "electronics", Price: 19.99, Image: "u2"},
		},
	}
	store := newMockStore()
	syncer := newTestSyncer(fetcher, store, nil)

	created, err := syncer.SyncProducts(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	// Same input again: no new rows, even with changed price upstream.
	fetcher.products[0].Price = 12.49
	created, err = syncer.SyncProducts(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Len(t, store.products, 2)
	assert.Len(t, store.variants, 2)
	assert.Equal(t, "9.99", store.variants[0].Price.String())
}

func TestSyncProductsFetchError(t *testing.T) {
	fetcher := &mockFetcher{productsErr: errors.New("timeout")}
	store := newMockStore()
	syncer := newTestSyncer(fetcher, store, nil)

	created, err := syncer.SyncProducts(context.Background(), 50)
	assert.Error(t, err)
	assert.Equal(t, 0, created)
	assert.Empty(t, store.products)
	assert.Empty(t, store.variants)
}

func TestSyncProductsReusesExistingCategory(t *testing.T) {
	fetcher := &mockFetcher{
		products: []fakestore.Product{
			{ID: 1, Title: "Shirt", Category: "men's clothing", Price: 9.99},
			{ID: 2, Title: "Jacket", Category: "men's clothing", Price: 55.99},
		},
	}
	store := newMockStore()
	syncer := newTestSyncer(fetcher, store, nil)

	created, err := syncer.SyncProducts(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Len(t, store.categories, 1)
	assert.Equal(t, store.products["Shirt"].CategoryID, store.products["Jacket"].CategoryID)
}

func TestSyncProduct(t *testing.T) {
	record := &fakestore.Product{ID: 5, Title: "Monitor", Category: "electronics", Price: 599, Image: "u5"}
	fetcher := &mockFetcher{byID: map[int64]*fakestore.Product{5: record}}
	store := newMockStore()
	syncer := newTestSyncer(fetcher, store, nil)

	created, err := syncer.SyncProduct(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotNil(t, store.products["Monitor"])

	// Already mirrored.
	created, err = syncer.SyncProduct(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestSyncProductAbsentUpstream(t *testing.T) {
	fetcher := &mockFetcher{byID: map[int64]*fakestore.Product{}}
	store := newMockStore()
	syncer := newTestSyncer(fetcher, store, nil)

	created, err := syncer.SyncProduct(context.Background(), 9999)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, store.products)
}

func TestSyncAll(t *testing.T) {
	fetcher := &mockFetcher{
		categories: []string{"electronics", "jewelery"},
		products: []fakestore.Product{
			{ID: 1, Title: "Shirt", Category: "men's clothing", Price: 9.99},
		},
	}
	store := newMockStore()
	syncer := newTestSyncer(fetcher, store, nil)

	result, err := syncer.SyncAll(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, 2, result.CategoriesSynced)
	assert.Equal(t, 1, result.ProductsSynced)

	// The product's category was created on demand alongside the two
	// fetched ones.
	assert.Len(t, store.categories, 3)
}

func TestSyncAllCategoriesFail(t *testing.T) {
	fetcher := &mockFetcher{categoriesErr: errors.New("boom")}
	store := newMockStore()
	syncer := newTestSyncer(fetcher, store, nil)

	_, err := syncer.SyncAll(context.Background(), 50)
	assert.Error(t, err)
	assert.Zero(t, fetcher.productsCalls)
}

func TestSyncPublishesEvents(t *testing.T) {
	fetcher := &mockFetcher{
		products: []fakestore.Product{
			{ID: 1, Title: "Shirt", Category: "men's clothing", Price: 9.99},
			{ID: 2, Title: "Lamp", Category: "electronics", Price: 19.99},
		},
	}
	store := newMockStore()
	publisher := &mockPublisher{}
	syncer := newTestSyncer(fetcher, store, publisher)

	created, err := syncer.SyncProducts(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, []string{"API-1", "API-2"}, publisher.events)
}

func TestSyncPublishFailureIsNotFatal(t *testing.T) {
	fetcher := &mockFetcher{
		products: []fakestore.Product{
			{ID: 1, Title: "Shirt", Category: "men's clothing", Price: 9.99},
		},
	}
	store := newMockStore()
	publisher := &mockPublisher{err: errors.New("broker down")}
	syncer := newTestSyncer(fetcher, store, publisher)

	created, err := syncer.SyncProducts(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Len(t, store.products, 1)
}
