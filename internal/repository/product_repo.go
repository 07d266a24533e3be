package repository

import (
	"context"

	"go-shop-ledger/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindLowStock(ctx context.Context) ([]model.Product, error)
	UpdateDetails(ctx context.Context, product *model.Product) error
	LockByID(tx *gorm.DB, id uint) (*model.Product, error)
	UpdateLedger(tx *gorm.DB, product *model.Product) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Category").Order("name ASC").Order("id ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindLowStock(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Category").
		Where("quantity <= reorder_level").
		Order("quantity ASC").Order("name ASC").
		Find(&products).Error
	return products, err
}

// UpdateDetails writes only the descriptive columns; stock and prices are
// owned by the ledger.
func (r *productRepo) UpdateDetails(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Model(product).
		Select("name", "category_id", "reorder_level", "updated_by", "updated_at").
		Updates(map[string]interface{}{
			"name":          product.Name,
			"category_id":   product.CategoryID,
			"reorder_level": product.ReorderLevel,
			"updated_by":    product.UpdatedBy,
		}).Error
}

// LockByID reads the product row with an exclusive lock held until tx ends.
func (r *productRepo) LockByID(tx *gorm.DB, id uint) (*model.Product, error) {
	var product model.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateLedger persists the ledger-owned columns inside tx.
func (r *productRepo) UpdateLedger(tx *gorm.DB, product *model.Product) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"quantity":      product.Quantity,
			"buying_price":  product.BuyingPrice,
			"selling_price": product.SellingPrice,
			"updated_by":    product.UpdatedBy,
		}).Error
}
