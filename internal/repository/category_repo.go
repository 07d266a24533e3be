package repository

import (
	"context"

	"go-shop-ledger/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	FindAll(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id uint) (*model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	DeleteTree(tx *gorm.DB, ids []uint) error
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db}
}

func (r *categoryRepo) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepo) FindAll(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) Update(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Model(category).
		Select("name", "parent_id", "updated_by", "updated_at").
		Updates(map[string]interface{}{
			"name":       category.Name,
			"parent_id":  category.ParentID,
			"updated_by": category.UpdatedBy,
		}).Error
}

// DeleteTree detaches products from the given categories, then removes the
// categories themselves.
func (r *categoryRepo) DeleteTree(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Model(&model.Product{}).
		Where("category_id IN ?", ids).
		Update("category_id", nil).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&model.Category{}).Error
}
