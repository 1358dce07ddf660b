package catalog

import (
	"context"
	"fmt"

	"storemirror/internal/logger"
	"storemirror/internal/models"
	"storemirror/internal/services/fakestore"
)

// Fetcher is the slice of the external API client the syncer consumes.
type Fetcher interface {
	Categories(ctx context.Context) ([]string, error)
	Products(ctx context.Context, limit int) ([]fakestore.Product, error)
	ProductByID(ctx context.Context, id int64) (*fakestore.Product, error)
	ProductsByCategory(ctx context.Context, category string) ([]fakestore.Product, error)
}

// Publisher emits an event for every product the syncer mirrors. A nil
// publisher disables publishing.
type Publisher interface {
	ProductCreated(ctx context.Context, product *models.Product, variant *models.ProductVariant, category string) error
}

// SyncResult reports what a full sync created.
type SyncResult struct {
	CategoriesSynced int `json:"categories_synced"`
	ProductsSynced   int `json:"products_synced"`
}

// Syncer mirrors the external catalog into the local store. Sync is additive:
// rows are matched by natural key (category name, product title) and never
// updated once created. Existence checks are check-then-act, so concurrent
// syncs are not supported; callers must serialize.
type Syncer struct {
	client      Fetcher
	store       Store
	transformer *fakestore.Transformer
	publisher   Publisher
	logger      *logger.Logger
}

func NewSyncer(client Fetcher, store Store, publisher Publisher, logger *logger.Logger) *Syncer {
	return &Syncer{
		client:      client,
		store:       store,
		transformer: fakestore.NewTransformer(),
		publisher:   publisher,
		logger:      logger,
	}
}

// SyncCategories creates a local category for every external category name
// not already present, and returns how many it created. All creates commit
// together.
func (s *Syncer) SyncCategories(ctx context.Context) (int, error) {
	names, err := s.client.Categories(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch categories: %w", err)
	}

	created := 0
	err = s.store.Transaction(func(tx Store) error {
		for _, name := range names {
			normalized := s.transformer.CategoryName(name)

			existing, err := tx.CategoryByName(normalized)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}

			if err := tx.CreateCategory(&models.Category{Name: normalized}); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("sync categories: %w", err)
	}

	s.logger.Info("Synced %d new categories", created)
	return created, nil
}

// SyncProducts mirrors up to limit external products, creating the product,
// its single variant, and its category when any of them is missing. It
// returns how many products it created. All creates commit together.
func (s *Syncer) SyncProducts(ctx context.Context, limit int) (int, error) {
	records, err := s.client.Products(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("fetch products: %w", err)
	}

	var created []published
	err = s.store.Transaction(func(tx Store) error {
		for i := range records {
			p, err := s.syncRecord(tx, &records[i])
			if err != nil {
				return err
			}
			if p != nil {
				created = append(created, *p)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("sync products: %w", err)
	}

	s.publishCreated(ctx, created)
	s.logger.Info("Synced %d new products", len(created))
	return len(created), nil
}

// SyncProduct mirrors a single product by external id. It reports false when
// the product is absent upstream or already mirrored.
func (s *Syncer) SyncProduct(ctx context.Context, id int64) (bool, error) {
	record, err := s.client.ProductByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("fetch product %d: %w", id, err)
	}
	if record == nil {
		return false, nil
	}

	var created *published
	err = s.store.Transaction(func(tx Store) error {
		var txErr error
		created, txErr = s.syncRecord(tx, record)
		return txErr
	})
	if err != nil {
		return false, fmt.Errorf("sync product %d: %w", id, err)
	}
	if created == nil {
		return false, nil
	}

	s.publishCreated(ctx, []published{*created})
	return true, nil
}

// SyncAll runs a category sync followed by a product sync. Categories go
// first so product resolution finds them, though syncRecord also creates
// categories on demand.
func (s *Syncer) SyncAll(ctx context.Context, limit int) (SyncResult, error) {
	categories, err := s.SyncCategories(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	products, err := s.SyncProducts(ctx, limit)
	if err != nil {
		return SyncResult{CategoriesSynced: categories}, err
	}

	return SyncResult{
		CategoriesSynced: categories,
		ProductsSynced:   products,
	}, nil
}

type published struct {
	product  models.Product
	variant  models.ProductVariant
	category string
}

// syncRecord writes one external record through tx. It returns the created
// rows, or nil when a product with the same title already exists.
func (s *Syncer) syncRecord(tx Store, record *fakestore.Product) (*published, error) {
	categoryName := s.transformer.CategoryName(record.Category)

	category, err := tx.CategoryByName(categoryName)
	if err != nil {
		return nil, err
	}
	if category == nil {
		category = &models.Category{Name: categoryName}
		if err := tx.CreateCategory(category); err != nil {
			return nil, err
		}
	}

	existing, err := tx.ProductByTitle(record.Title)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, nil
	}

	product := s.transformer.TransformProduct(record, category.ID)
	if err := tx.CreateProduct(product); err != nil {
		return nil, err
	}

	variant := s.transformer.TransformVariant(record, product.ID)
	if err := tx.CreateVariant(variant); err != nil {
		return nil, err
	}

	return &published{
		product:  *product,
		variant:  *variant,
		category: categoryName,
	}, nil
}

// publishCreated emits product-created events after the transaction commits.
// Publishing is best-effort; a broker failure never fails the sync.
func (s *Syncer) publishCreated(ctx context.Context, created []published) {
	if s.publisher == nil {
		return
	}
	for i := range created {
		p := &created[i]
		if err := s.publisher.ProductCreated(ctx, &p.product, &p.variant, p.category); err != nil {
			s.logger.Error("Failed to publish event for product %s: %v", p.product.ID, err)
		}
	}
}
