package repository

import (
	"context"

	"go-shop-ledger/internal/model"

	"gorm.io/gorm"
)

type StockEntryRepository interface {
	Create(tx *gorm.DB, entry *model.StockEntry) error
	FindRecent(ctx context.Context, limit int) ([]model.StockEntry, error)
	FindByProduct(ctx context.Context, productID uint) ([]model.StockEntry, error)
}

type stockEntryRepo struct {
	db *gorm.DB
}

func NewStockEntryRepo(db *gorm.DB) StockEntryRepository {
	return &stockEntryRepo{db}
}

// Create inserts the entry inside tx; ledger rows are never updated.
func (r *stockEntryRepo) Create(tx *gorm.DB, entry *model.StockEntry) error {
	return tx.Omit("Product", "AddedBy").Create(entry).Error
}

// FindRecent returns the newest entries first; limit <= 0 returns all.
func (r *stockEntryRepo) FindRecent(ctx context.Context, limit int) ([]model.StockEntry, error) {
	var entries []model.StockEntry
	q := r.db.WithContext(ctx).Preload("Product").Preload("AddedBy").
		Order("date_added DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&entries).Error
	return entries, err
}

func (r *stockEntryRepo) FindByProduct(ctx context.Context, productID uint) ([]model.StockEntry, error) {
	var entries []model.StockEntry
	err := r.db.WithContext(ctx).Preload("AddedBy").
		Where("product_id = ?", productID).
		Order("date_added DESC").Order("id DESC").
		Find(&entries).Error
	return entries, err
}
