package service

import (
	"context"
	"sort"
	"strings"

	"go-shop-ledger/internal/model"
	"go-shop-ledger/internal/repository"
	"go-shop-ledger/pkg/cache"
	"go-shop-ledger/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CategoryInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	ParentID *uint  `json:"parent_id"`
}

// ProductInput creates a product. Quantity is the opening balance; after
// creation stock only changes through the ledger.
type ProductInput struct {
	Name         string          `json:"name" validate:"required,max=255"`
	CategoryID   *uint           `json:"category_id"`
	BuyingPrice  decimal.Decimal `json:"buying_price" validate:"gte=0"`
	SellingPrice decimal.Decimal `json:"selling_price" validate:"gte=0"`
	Quantity     int             `json:"quantity" validate:"gte=0"`
	ReorderLevel *int            `json:"reorder_level" validate:"omitempty,gte=0"`
}

// ProductDetailsInput edits the descriptive fields of a product.
type ProductDetailsInput struct {
	Name         string `json:"name" validate:"required,max=255"`
	CategoryID   *uint  `json:"category_id"`
	ReorderLevel int    `json:"reorder_level" validate:"gte=0"`
}

type CatalogService interface {
	CreateCategory(ctx context.Context, in CategoryInput, actor model.Actor) (*model.Category, error)
	UpdateCategory(ctx context.Context, id uint, in CategoryInput, actor model.Actor) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryTree(ctx context.Context) ([]*model.CategoryNode, error)

	CreateProduct(ctx context.Context, in ProductInput, actor model.Actor) (*model.Product, error)
	UpdateProductDetails(ctx context.Context, id uint, in ProductDetailsInput, actor model.Actor) (*model.Product, error)
	GetProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	GetLowStockProducts(ctx context.Context) ([]model.Product, error)
}

type catalogService struct {
	db           *gorm.DB
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	cache        cache.ReportCache
}

func NewCatalogService(db *gorm.DB, cRepo repository.CategoryRepository, pRepo repository.ProductRepository, reportCache cache.ReportCache) CatalogService {
	if reportCache == nil {
		reportCache = cache.Noop{}
	}
	return &catalogService{
		db:           db,
		categoryRepo: cRepo,
		productRepo:  pRepo,
		cache:        reportCache,
	}
}

func (s *catalogService) CreateCategory(ctx context.Context, in CategoryInput, actor model.Actor) (*model.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *in.ParentID); err != nil {
			return nil, notFound(err, "category", *in.ParentID)
		}
	}

	category := &model.Category{Name: in.Name, ParentID: in.ParentID}
	category.CreatedBy = actor.String()
	category.UpdatedBy = actor.String()
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return category, nil
}

// UpdateCategory renames and/or re-parents a category. A parent that is the
// category itself or one of its descendants is rejected with ErrCategoryCycle.
func (s *catalogService) UpdateCategory(ctx context.Context, id uint, in CategoryInput, actor model.Actor) (*model.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "category", id)
	}

	if in.ParentID != nil {
		all, err := s.categoryRepo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		parents := parentIndex(all)
		if _, ok := parents[*in.ParentID]; !ok {
			return nil, &NotFoundError{Entity: "category", ID: *in.ParentID}
		}
		if createsCycle(parents, id, *in.ParentID) {
			return nil, ErrCategoryCycle
		}
	}

	category.Name = in.Name
	category.ParentID = in.ParentID
	category.UpdatedBy = actor.String()
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return category, nil
}

// DeleteCategory removes the category with all of its subcategories; products
// in the removed categories become uncategorized.
func (s *catalogService) DeleteCategory(ctx context.Context, id uint) error {
	all, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	if _, ok := parentIndex(all)[id]; !ok {
		return &NotFoundError{Entity: "category", ID: id}
	}

	ids := subtree(all, id)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.categoryRepo.DeleteTree(tx, ids)
	})
	if err != nil {
		logger.LogError(logger.Get(), "catalog", "DeleteCategory", "delete subtree", ids, err)
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) GetCategories(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.FindAll(ctx)
}

func (s *catalogService) GetCategoryTree(ctx context.Context) ([]*model.CategoryNode, error) {
	all, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return BuildCategoryTree(all), nil
}

func (s *catalogService) CreateProduct(ctx context.Context, in ProductInput, actor model.Actor) (*model.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	if in.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *in.CategoryID); err != nil {
			return nil, notFound(err, "category", *in.CategoryID)
		}
	}

	reorder := model.DefaultReorderLevel
	if in.ReorderLevel != nil {
		reorder = *in.ReorderLevel
	}

	product := &model.Product{
		Name:         in.Name,
		CategoryID:   in.CategoryID,
		BuyingPrice:  in.BuyingPrice.Round(2),
		SellingPrice: in.SellingPrice.Round(2),
		Quantity:     in.Quantity,
		ReorderLevel: reorder,
	}
	product.CreatedBy = actor.String()
	product.UpdatedBy = actor.String()

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.productRepo.FindByID(ctx, product.ID)
}

func (s *catalogService) UpdateProductDetails(ctx context.Context, id uint, in ProductDetailsInput, actor model.Actor) (*model.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	if in.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *in.CategoryID); err != nil {
			return nil, notFound(err, "category", *in.CategoryID)
		}
	}

	product.Name = in.Name
	product.CategoryID = in.CategoryID
	product.ReorderLevel = in.ReorderLevel
	product.UpdatedBy = actor.String()
	if err := s.productRepo.UpdateDetails(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.productRepo.FindByID(ctx, id)
}

func (s *catalogService) GetProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	return product, nil
}

func (s *catalogService) GetLowStockProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindLowStock(ctx)
}

func (s *catalogService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.LogError(logger.Get(), "catalog", "invalidate", "invalidate report cache", nil, err)
	}
}

// parentIndex maps every category ID to its parent ID (nil for roots).
func parentIndex(categories []model.Category) map[uint]*uint {
	parents := make(map[uint]*uint, len(categories))
	for _, c := range categories {
		parents[c.ID] = c.ParentID
	}
	return parents
}

// createsCycle reports whether making parentID the parent of id would put
// id on its own ancestor chain. The walk is bounded so a pre-existing cycle
// in stored data cannot loop forever.
func createsCycle(parents map[uint]*uint, id, parentID uint) bool {
	cur := &parentID
	for steps := 0; cur != nil && steps <= len(parents); steps++ {
		if *cur == id {
			return true
		}
		cur = parents[*cur]
	}
	return cur != nil
}

// subtree returns root and every descendant of it.
func subtree(categories []model.Category, root uint) []uint {
	children := make(map[uint][]uint)
	for _, c := range categories {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}

	ids := []uint{root}
	seen := map[uint]bool{root: true}
	for i := 0; i < len(ids); i++ {
		for _, child := range children[ids[i]] {
			if !seen[child] {
				seen[child] = true
				ids = append(ids, child)
			}
		}
	}
	return ids
}

// BuildCategoryTree nests categories under their parents. Paths read
// "Parent -> Child". Categories whose parent is missing are treated as roots.
func BuildCategoryTree(categories []model.Category) []*model.CategoryNode {
	nodes := make(map[uint]*model.CategoryNode, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &model.CategoryNode{ID: c.ID, Name: c.Name, ParentID: c.ParentID, Children: []*model.CategoryNode{}}
	}

	var roots []*model.CategoryNode
	for _, c := range categories {
		n := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok && *c.ParentID != c.ID {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}

	var walk func(ns []*model.CategoryNode, prefix string, depth int)
	walk = func(ns []*model.CategoryNode, prefix string, depth int) {
		sort.Slice(ns, func(i, j int) bool { return ns[i].Name < ns[j].Name })
		for _, n := range ns {
			n.Path = n.Name
			if prefix != "" {
				n.Path = prefix + " -> " + n.Name
			}
			if depth < len(categories) {
				walk(n.Children, n.Path, depth+1)
			}
		}
	}
	walk(roots, "", 0)
	return roots
}
