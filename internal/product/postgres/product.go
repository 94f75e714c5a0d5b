package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/garments-tracker/internal"
	productDatamodel "github.com/frahmantamala/garments-tracker/internal/core/datamodel/product"
	"github.com/frahmantamala/garments-tracker/internal/product"
)

// ProductRepository implements the product.RepositoryAPI interface using GORM
type ProductRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewProductRepository(db *gorm.DB, timeout time.Duration) product.RepositoryAPI {
	return &ProductRepository{db: db, timeout: timeout}
}

func (r *ProductRepository) ListHome(ctx context.Context, limit int) ([]*productDatamodel.Product, error) {
	ctx, cancel := internal.WithTimeout(ctx, r.timeout)
	defer cancel()

	var products []*productDatamodel.Product
	err := r.db.WithContext(ctx).
		Where("show_on_home = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, translate(err)
	}
	return products, nil
}

func (r *ProductRepository) ListAll(ctx context.Context) ([]*productDatamodel.Product, error) {
	ctx, cancel := internal.WithTimeout(ctx, r.timeout)
	defer cancel()

	var products []*productDatamodel.Product
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, translate(err)
	}
	return products, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*productDatamodel.Product, error) {
	ctx, cancel := internal.WithTimeout(ctx, r.timeout)
	defer cancel()

	var p productDatamodel.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *productDatamodel.Product) error {
	ctx, cancel := internal.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Update writes every column, so zero values such as show_on_home=false are stored.
func (r *ProductRepository) Update(ctx context.Context, p *productDatamodel.Product) error {
	ctx, cancel := internal.WithTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).
		Model(&productDatamodel.Product{}).
		Where("id = ?", p.ID).
		Select("name", "description", "category", "price_cents", "available_quantity", "minimum_order", "show_on_home", "updated_at").
		Updates(p)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := internal.WithTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&productDatamodel.Product{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrProductNotFound
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return internal.ErrProductNotFound
	}
	return internal.NewStoreUnavailableError(err)
}
