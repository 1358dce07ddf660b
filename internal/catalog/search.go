package catalog

import (
	"context"
	"fmt"
	"strings"

	"storemirror/internal/services/fakestore"
)

const (
	// searchPoolSize is how many products are pulled when no category
	// narrows the pool.
	searchPoolSize = 100

	maxSearchResults      = 20
	defaultRecommendLimit = 5
	searchSyncCount       = 5
)

// SearchProducts filters the external catalog by a case-insensitive substring
// match on the title. When category is non-empty the pool is that category's
// products, otherwise the first searchPoolSize products. Results keep source
// order and are capped at maxSearchResults.
func (s *Syncer) SearchProducts(ctx context.Context, query, category string) ([]fakestore.Product, error) {
	var pool []fakestore.Product
	var err error

	if category != "" {
		pool, err = s.client.ProductsByCategory(ctx, category)
	} else {
		pool, err = s.client.Products(ctx, searchPoolSize)
	}
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	needle := strings.ToLower(query)
	results := make([]fakestore.Product, 0, maxSearchResults)
	for _, p := range pool {
		if !strings.Contains(strings.ToLower(p.Title), needle) {
			continue
		}
		results = append(results, p)
		if len(results) == maxSearchResults {
			break
		}
	}

	return results, nil
}

// Recommendations returns up to limit products sharing the base product's
// category, excluding the base product itself. A base product absent upstream
// yields an empty result without touching the category listing.
func (s *Syncer) Recommendations(ctx context.Context, productID int64, limit int) ([]fakestore.Product, error) {
	if limit <= 0 {
		limit = defaultRecommendLimit
	}

	base, err := s.client.ProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("fetch base product %d: %w", productID, err)
	}
	if base == nil {
		return []fakestore.Product{}, nil
	}

	pool, err := s.client.ProductsByCategory(ctx, base.Category)
	if err != nil {
		return nil, fmt.Errorf("fetch category %q: %w", base.Category, err)
	}

	recommendations := make([]fakestore.Product, 0, limit)
	for _, p := range pool {
		if p.ID == productID {
			continue
		}
		recommendations = append(recommendations, p)
		if len(recommendations) == limit {
			break
		}
	}

	return recommendations, nil
}

// SearchAndSync searches the external catalog and mirrors the first few hits
// into the local store, one product at a time. Sync failures are logged and
// do not affect the returned results.
func (s *Syncer) SearchAndSync(ctx context.Context, query, category string) ([]fakestore.Product, error) {
	results, err := s.SearchProducts(ctx, query, category)
	if err != nil {
		return nil, err
	}

	for i, p := range results {
		if i == searchSyncCount {
			break
		}
		if _, err := s.SyncProduct(ctx, p.ID); err != nil {
			s.logger.Error("Failed to sync search result %d: %v", p.ID, err)
		}
	}

	return results, nil
}
