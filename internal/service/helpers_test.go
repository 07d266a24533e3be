package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"go-shop-ledger/internal/model"
	"go-shop-ledger/internal/repository"
	"go-shop-ledger/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a migrated SQLite database in a temp dir. A single
// connection serializes transactions the way row locks do on Postgres.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "ledger.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []map[string]interface{}
}

func (p *recordingPublisher) Publish(event interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := event.(map[string]interface{}); ok {
		p.events = append(p.events, m)
	}
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type countingCache struct {
	mu          sync.Mutex
	invalidated int
	store       map[string]bool
}

func (c *countingCache) Get(context.Context, string, any) (bool, error) { return false, nil }

func (c *countingCache) Set(_ context.Context, key string, _ any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string]bool{}
	}
	c.store[key] = true
	return nil
}

func (c *countingCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	return nil
}

type fixture struct {
	db       *gorm.DB
	products repository.ProductRepository
	entries  repository.StockEntryRepository
	sales    repository.SaleRepository
	cats     repository.CategoryRepository
	users    repository.UserRepository
	events   *recordingPublisher
	cache    *countingCache
	ledger   LedgerService
	catalog  CatalogService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db:       db,
		products: repository.NewProductRepo(db),
		entries:  repository.NewStockEntryRepo(db),
		sales:    repository.NewSaleRepo(db),
		cats:     repository.NewCategoryRepo(db),
		users:    repository.NewUserRepo(db),
		events:   &recordingPublisher{},
		cache:    &countingCache{},
	}
	f.ledger = NewLedgerService(db, f.products, f.entries, f.sales, f.events, f.cache)
	f.catalog = NewCatalogService(db, f.cats, f.products, f.cache)
	return f
}

func (f *fixture) product(t *testing.T, qty int, cost, price string) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:         "Soap",
		BuyingPrice:  dec(cost),
		SellingPrice: dec(price),
		Quantity:     qty,
		ReorderLevel: model.DefaultReorderLevel,
	}
	if err := f.products.Create(context.Background(), p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func (f *fixture) user(t *testing.T, email string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Email: email, FullName: email, Role: role, IsActive: true}
	if err := u.SetPassword("secret123"); err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *fixture) reload(t *testing.T, id uint) *model.Product {
	t.Helper()
	p, err := f.products.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reload product %d: %v", id, err)
	}
	return p
}

func (f *fixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(m).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
