package catalog

import (
	"errors"

	"gorm.io/gorm"

	"storemirror/internal/models"
)

// ErrProductNotFound is returned when a local product is not found.
var ErrProductNotFound = errors.New("product not found")

// Store is the slice of the repository the sync path writes through. Lookups
// return (nil, nil) when no row matches; creates flush immediately so the
// generated id is usable for foreign keys before the surrounding transaction
// commits.
type Store interface {
	Transaction(fn func(tx Store) error) error
	CategoryByName(name string) (*models.Category, error)
	CreateCategory(category *models.Category) error
	ProductByTitle(title string) (*models.Product, error)
	CreateProduct(product *models.Product) error
	CreateVariant(variant *models.ProductVariant) error
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// Transaction runs fn against a repository bound to a single transaction.
func (r *Repository) Transaction(fn func(tx Store) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) CategoryByName(name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *Repository) CreateCategory(category *models.Category) error {
	return r.db.Create(category).Error
}

func (r *Repository) ProductByTitle(title string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Where("title = ?", title).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *Repository) CreateProduct(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *Repository) CreateVariant(variant *models.ProductVariant) error {
	return r.db.Create(variant).Error
}

// ListCategories returns all mirrored categories ordered by name.
func (r *Repository) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ListProducts returns a page of mirrored products with their category and
// variants preloaded, plus the unpaged total.
func (r *Repository) ListProducts(offset, limit int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	if err := r.db.Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.
		Preload("Category").
		Preload("Variants").
		Offset(offset).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *Repository) ProductByID(id string) (*models.Product, error) {
	var product models.Product
	err := r.db.
		Preload("Category").
		Preload("Variants").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// CreateEvent persists a catalog event audit row.
func (r *Repository) CreateEvent(event *models.CatalogEvent) error {
	return r.db.Create(event).Error
}
