package repository

import (
	"context"
	"time"

	"go-shop-ledger/internal/model"

	"gorm.io/gorm"
)

// SaleFilter narrows sale listings; zero values mean "no filter".
type SaleFilter struct {
	From          *time.Time
	To            *time.Time
	SoldByID      *uint
	ProductID     *uint
	PaymentStatus model.PaymentStatus
	Limit         int
}

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	Find(ctx context.Context, filter SaleFilter) ([]model.Sale, error)
	FindByID(ctx context.Context, id uint) (*model.Sale, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

// Create inserts the sale inside tx; ledger rows are never updated.
func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Omit("Product", "SoldBy").Create(sale).Error
}

func (r *saleRepo) Find(ctx context.Context, filter SaleFilter) ([]model.Sale, error) {
	var sales []model.Sale

	q := r.db.WithContext(ctx).Preload("Product").Preload("Product.Category").Preload("SoldBy")
	if filter.From != nil {
		q = q.Where("date_sold >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("date_sold < ?", *filter.To)
	}
	if filter.SoldByID != nil {
		q = q.Where("sold_by_id = ?", *filter.SoldByID)
	}
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.PaymentStatus != "" {
		q = q.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	err := q.Order("date_sold DESC").Order("id DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(ctx context.Context, id uint) (*model.Sale, error) {
	var sale model.Sale
	if err := r.db.WithContext(ctx).Preload("Product").Preload("SoldBy").First(&sale, id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}
