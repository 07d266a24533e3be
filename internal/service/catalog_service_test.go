package service

import (
	"context"
	"errors"
	"testing"

	"go-shop-ledger/internal/model"
)

func uintPtr(v uint) *uint { return &v }

func TestUpdateCategoryRejectsCycles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root, err := f.catalog.CreateCategory(ctx, CategoryInput{Name: "Household"}, model.Actor{})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	child, err := f.catalog.CreateCategory(ctx, CategoryInput{Name: "Cleaning", ParentID: &root.ID}, model.Actor{})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	grandchild, err := f.catalog.CreateCategory(ctx, CategoryInput{Name: "Soap", ParentID: &child.ID}, model.Actor{})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	tests := []struct {
		name   string
		id     uint
		parent uint
	}{
		{"self", root.ID, root.ID},
		{"child", root.ID, child.ID},
		{"grandchild", root.ID, grandchild.ID},
		{"own descendant", child.ID, grandchild.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.catalog.UpdateCategory(ctx, tt.id, CategoryInput{Name: "X", ParentID: uintPtr(tt.parent)}, model.Actor{})
			if !errors.Is(err, ErrCategoryCycle) {
				t.Fatalf("expected ErrCategoryCycle, got %v", err)
			}
		})
	}

	// Moving a leaf to the root level and back is fine.
	if _, err := f.catalog.UpdateCategory(ctx, grandchild.ID, CategoryInput{Name: "Soap"}, model.Actor{}); err != nil {
		t.Fatalf("move to root: %v", err)
	}
	if _, err := f.catalog.UpdateCategory(ctx, grandchild.ID, CategoryInput{Name: "Soaps", ParentID: &root.ID}, model.Actor{}); err != nil {
		t.Fatalf("move under root: %v", err)
	}

	_, err = f.catalog.UpdateCategory(ctx, child.ID, CategoryInput{Name: "Cleaning", ParentID: uintPtr(999)}, model.Actor{})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError for missing parent, got %v", err)
	}
}

func TestCategoryTreePaths(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root, _ := f.catalog.CreateCategory(ctx, CategoryInput{Name: "Food"}, model.Actor{})
	drinks, _ := f.catalog.CreateCategory(ctx, CategoryInput{Name: "Drinks", ParentID: &root.ID}, model.Actor{})
	if _, err := f.catalog.CreateCategory(ctx, CategoryInput{Name: "Juice", ParentID: &drinks.ID}, model.Actor{}); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if _, err := f.catalog.CreateCategory(ctx, CategoryInput{Name: "Bakery", ParentID: &root.ID}, model.Actor{}); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	tree, err := f.catalog.GetCategoryTree(ctx)
	if err != nil {
		t.Fatalf("GetCategoryTree: %v", err)
	}
	if len(tree) != 1 || tree[0].Path != "Food" {
		t.Fatalf("unexpected roots %+v", tree)
	}
	kids := tree[0].Children
	if len(kids) != 2 || kids[0].Name != "Bakery" || kids[1].Path != "Food -> Drinks" {
		t.Fatalf("unexpected children %+v", kids)
	}
	if got := kids[1].Children[0].Path; got != "Food -> Drinks -> Juice" {
		t.Fatalf("unexpected leaf path %q", got)
	}
}

func TestDeleteCategoryRemovesSubtree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root, _ := f.catalog.CreateCategory(ctx, CategoryInput{Name: "Food"}, model.Actor{})
	child, _ := f.catalog.CreateCategory(ctx, CategoryInput{Name: "Drinks", ParentID: &root.ID}, model.Actor{})
	other, _ := f.catalog.CreateCategory(ctx, CategoryInput{Name: "Tools"}, model.Actor{})

	inChild, err := f.catalog.CreateProduct(ctx, ProductInput{Name: "Juice", CategoryID: &child.ID, BuyingPrice: dec("10"), SellingPrice: dec("15"), Quantity: 3}, model.Actor{})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	inOther, err := f.catalog.CreateProduct(ctx, ProductInput{Name: "Hammer", CategoryID: &other.ID, BuyingPrice: dec("50"), SellingPrice: dec("80")}, model.Actor{})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	if err := f.catalog.DeleteCategory(ctx, root.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	cats, err := f.catalog.GetCategories(ctx)
	if err != nil {
		t.Fatalf("GetCategories: %v", err)
	}
	if len(cats) != 1 || cats[0].ID != other.ID {
		t.Fatalf("expected only Tools to remain, got %+v", cats)
	}
	if p := f.reload(t, inChild.ID); p.CategoryID != nil || p.Quantity != 3 {
		t.Fatalf("product in deleted category should survive uncategorized: %+v", p)
	}
	if p := f.reload(t, inOther.ID); p.CategoryID == nil || *p.CategoryID != other.ID {
		t.Fatalf("unrelated product lost its category: %+v", p)
	}

	var nf *NotFoundError
	if err := f.catalog.DeleteCategory(ctx, root.ID); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError on second delete, got %v", err)
	}
}

func TestCreateProductDefaultsAndValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.catalog.CreateProduct(ctx, ProductInput{Name: "  Rice  ", BuyingPrice: dec("40"), SellingPrice: dec("55.5")}, model.Actor{})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if p.Name != "Rice" || p.ReorderLevel != model.DefaultReorderLevel || p.Quantity != 0 || p.CategoryID != nil {
		t.Fatalf("unexpected product %+v", p)
	}
	if !p.NeedsRestock() {
		t.Fatal("empty product should need restocking")
	}

	zero := 0
	p, err = f.catalog.CreateProduct(ctx, ProductInput{Name: "Salt", BuyingPrice: dec("1"), SellingPrice: dec("2"), ReorderLevel: &zero}, model.Actor{})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if p.ReorderLevel != 0 {
		t.Fatalf("explicit reorder level 0 was replaced with %d", p.ReorderLevel)
	}

	neg := -1
	bad := []ProductInput{
		{Name: "", BuyingPrice: dec("1"), SellingPrice: dec("1")},
		{Name: "X", BuyingPrice: dec("-1"), SellingPrice: dec("1")},
		{Name: "X", BuyingPrice: dec("1"), SellingPrice: dec("-1")},
		{Name: "X", BuyingPrice: dec("1"), SellingPrice: dec("1"), Quantity: -1},
		{Name: "X", BuyingPrice: dec("1"), SellingPrice: dec("1"), ReorderLevel: &neg},
	}
	for _, in := range bad {
		var verr *ValidationError
		if _, err := f.catalog.CreateProduct(ctx, in, model.Actor{}); !errors.As(err, &verr) {
			t.Fatalf("input %+v: expected ValidationError, got %v", in, err)
		}
	}

	var nf *NotFoundError
	if _, err := f.catalog.CreateProduct(ctx, ProductInput{Name: "X", CategoryID: uintPtr(77)}, model.Actor{}); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError for missing category, got %v", err)
	}
}

func TestUpdateProductDetailsLeavesLedgerColumns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat, _ := f.catalog.CreateCategory(ctx, CategoryInput{Name: "Bath"}, model.Actor{})
	p := f.product(t, 12, "100", "150")

	updated, err := f.catalog.UpdateProductDetails(ctx, p.ID, ProductDetailsInput{Name: "Bar Soap", CategoryID: &cat.ID, ReorderLevel: 20}, model.Actor{UserID: 1})
	if err != nil {
		t.Fatalf("UpdateProductDetails: %v", err)
	}
	if updated.Name != "Bar Soap" || updated.ReorderLevel != 20 || updated.Category == nil || updated.Category.Name != "Bath" {
		t.Fatalf("details not applied: %+v", updated)
	}
	if updated.Quantity != 12 || !updated.BuyingPrice.Equal(dec("100")) || !updated.SellingPrice.Equal(dec("150")) {
		t.Fatalf("ledger columns changed: qty=%d cost=%s price=%s", updated.Quantity, updated.BuyingPrice, updated.SellingPrice)
	}
	if !updated.NeedsRestock() {
		t.Fatal("12 units with reorder level 20 should need restocking")
	}

	low, err := f.catalog.GetLowStockProducts(ctx)
	if err != nil || len(low) != 1 || low[0].ID != p.ID {
		t.Fatalf("expected product in low stock list, got %+v (%v)", low, err)
	}

	var nf *NotFoundError
	if _, err := f.catalog.UpdateProductDetails(ctx, 999, ProductDetailsInput{Name: "Ghost"}, model.Actor{}); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestBuildCategoryTreeToleratesBrokenParents(t *testing.T) {
	cats := []model.Category{
		{BaseModel: model.BaseModel{ID: 1}, Name: "Orphan", ParentID: uintPtr(42)},
		{BaseModel: model.BaseModel{ID: 2}, Name: "Loop", ParentID: uintPtr(2)},
	}
	tree := BuildCategoryTree(cats)
	if len(tree) != 2 || tree[0].Name != "Loop" || tree[1].Name != "Orphan" {
		t.Fatalf("expected both as roots, got %+v", tree)
	}
}
