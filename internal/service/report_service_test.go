package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go-shop-ledger/internal/model"
	"go-shop-ledger/internal/repository"
)

func newReportFixture(t *testing.T, now time.Time) (*fixture, *reportService) {
	t.Helper()
	f := newFixture(t)
	svc := NewReportService(f.products, f.cats, f.entries, f.sales, f.cache, time.UTC).(*reportService)
	svc.now = func() time.Time { return now }
	return f, svc
}

func (f *fixture) sale(t *testing.T, productID uint, qty int, price, cost string, at time.Time, seller *uint, status model.PaymentStatus) {
	t.Helper()
	s := &model.Sale{
		ProductID:       productID,
		Quantity:        qty,
		SellingPrice:    dec(price),
		CostPriceAtSale: dec(cost),
		DateSold:        at,
		SoldByID:        seller,
		PaymentStatus:   status,
	}
	if err := f.sales.Create(f.db, s); err != nil {
		t.Fatalf("create sale: %v", err)
	}
}

func TestAdminDashboard(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	f, svc := newReportFixture(t, now)
	ctx := context.Background()

	cat, _ := f.catalog.CreateCategory(ctx, CategoryInput{Name: "Bath"}, model.Actor{})
	soap, _ := f.catalog.CreateProduct(ctx, ProductInput{Name: "Soap", CategoryID: &cat.ID, BuyingPrice: dec("100"), SellingPrice: dec("150"), Quantity: 10}, model.Actor{})
	rice, _ := f.catalog.CreateProduct(ctx, ProductInput{Name: "Rice", BuyingPrice: dec("40"), SellingPrice: dec("50"), Quantity: 2}, model.Actor{})

	f.sale(t, soap.ID, 2, "150", "100", now.Add(-time.Hour), nil, model.PaymentPaid)
	f.sale(t, rice.ID, 1, "50", "40", now.AddDate(0, 0, -2), nil, model.PaymentCredit)
	f.sale(t, soap.ID, 1, "160", "100", now.AddDate(0, -1, 0), nil, model.PaymentPaid)
	f.sale(t, soap.ID, 5, "150", "100", now.AddDate(-1, 0, 0), nil, model.PaymentPaid)

	dash, err := svc.AdminDashboard(ctx, 7)
	if err != nil {
		t.Fatalf("AdminDashboard: %v", err)
	}

	if dash.Inventory.TotalProducts != 2 || dash.Inventory.TotalUnits != 12 || !dash.Inventory.StockValue.Equal(dec("1080")) || dash.Inventory.LowStockCount != 1 {
		t.Fatalf("unexpected inventory summary %+v", dash.Inventory)
	}
	if !dash.Today.Revenue.Equal(dec("300")) || !dash.Today.Profit.Equal(dec("100")) || dash.Today.Sales != 1 {
		t.Fatalf("unexpected today totals %+v", dash.Today)
	}
	if !dash.ThisMonth.Revenue.Equal(dec("350")) || !dash.ThisMonth.Credit.Equal(dec("50")) {
		t.Fatalf("unexpected month totals %+v", dash.ThisMonth)
	}
	if len(dash.DailyRevenue) != 7 {
		t.Fatalf("expected 7 daily points, got %d", len(dash.DailyRevenue))
	}
	if last := dash.DailyRevenue[6]; last.Bucket != "2026-03-15" || !last.Revenue.Equal(dec("300")) {
		t.Fatalf("unexpected last day %+v", last)
	}
	// Last year's sale is outside the monthly series.
	if len(dash.MonthlyRevenue) != 2 || dash.MonthlyRevenue[0].Bucket != "2026-02" {
		t.Fatalf("unexpected monthly revenue %+v", dash.MonthlyRevenue)
	}
	if len(dash.StockByCategory) != 2 || dash.StockByCategory[0].Category != "Bath" || dash.StockByCategory[1].Category != "Uncategorized" {
		t.Fatalf("unexpected stock by category %+v", dash.StockByCategory)
	}
	if len(dash.LowStock) != 1 || dash.LowStock[0].ID != rice.ID {
		t.Fatalf("unexpected low stock %+v", dash.LowStock)
	}
	if len(dash.RecentSales) != 3 {
		t.Fatalf("expected this year's 3 sales as recent, got %d", len(dash.RecentSales))
	}
	if !f.cache.store["admin:2026-03-15:7"] {
		t.Fatal("dashboard was not cached")
	}

	again, err := svc.AdminDashboard(ctx, 7)
	if err != nil {
		t.Fatalf("AdminDashboard: %v", err)
	}
	first, _ := json.Marshal(dash)
	second, _ := json.Marshal(again)
	if string(first) != string(second) {
		t.Fatal("repeated reads must return identical figures")
	}
	if p := f.reload(t, soap.ID); p.Quantity != 10 {
		t.Fatalf("reporting changed stock: %d", p.Quantity)
	}
}

func TestVendorDashboardOnlyOwnSales(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	f, svc := newReportFixture(t, now)
	ctx := context.Background()
	a := f.user(t, "a@shop.test", model.RoleVendor)
	b := f.user(t, "b@shop.test", model.RoleVendor)
	soap := f.product(t, 10, "100", "150")
	empty := f.product(t, 0, "10", "20")

	f.sale(t, soap.ID, 1, "150", "100", now.Add(-time.Minute), &a.ID, model.PaymentPaid)
	f.sale(t, soap.ID, 2, "150", "100", now.AddDate(0, 0, -3), &a.ID, model.PaymentPaid)
	f.sale(t, soap.ID, 4, "150", "100", now.Add(-time.Minute), &b.ID, model.PaymentPaid)

	dash, err := svc.VendorDashboard(ctx, a.Actor())
	if err != nil {
		t.Fatalf("VendorDashboard: %v", err)
	}
	if dash.Today.Quantity != 1 || dash.ThisMonth.Quantity != 3 || len(dash.RecentSales) != 2 {
		t.Fatalf("unexpected vendor figures today=%+v month=%+v recent=%d", dash.Today, dash.ThisMonth, len(dash.RecentSales))
	}
	for _, p := range dash.Products {
		if p.ID == empty.ID {
			t.Fatal("out-of-stock products must not be offered for sale")
		}
	}
	if len(dash.Products) != 1 {
		t.Fatalf("expected 1 sellable product, got %d", len(dash.Products))
	}
}

func TestSalesReportTotals(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	f, svc := newReportFixture(t, now)
	soap := f.product(t, 10, "100", "150")

	f.sale(t, soap.ID, 2, "150", "100", now.Add(-2*time.Hour), nil, model.PaymentPaid)
	f.sale(t, soap.ID, 1, "200", "100", now.Add(-time.Hour), nil, model.PaymentCredit)

	res, err := svc.SalesReport(context.Background(), repository.SaleFilter{})
	if err != nil {
		t.Fatalf("SalesReport: %v", err)
	}
	if len(res.Rows) != 2 || !res.Rows[0].TotalSaleValue.Equal(dec("200")) {
		t.Fatalf("unexpected rows %+v", res.Rows)
	}
	if !res.Totals.Revenue.Equal(dec("500")) || !res.Totals.Profit.Equal(dec("200")) || !res.Totals.Credit.Equal(dec("200")) {
		t.Fatalf("unexpected totals %+v", res.Totals)
	}

	from := now.Add(-90 * time.Minute)
	res, err = svc.SalesReport(context.Background(), repository.SaleFilter{From: &from})
	if err != nil || len(res.Rows) != 1 {
		t.Fatalf("expected 1 row after %v, got %+v (%v)", from, res, err)
	}
}

// memoryCache serves what it stores, keyed the same way Redis would be.
type memoryCache struct {
	entries map[string][]byte
}

func (c *memoryCache) Get(_ context.Context, key string, dst any) (bool, error) {
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *memoryCache) Set(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.entries = map[string][]byte{}
	return nil
}

func TestDashboardCacheRollsOverAtMidnight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 23, 58, 0, 0, time.UTC)
	svc := NewReportService(f.products, f.cats, f.entries, f.sales, &memoryCache{entries: map[string][]byte{}}, time.UTC).(*reportService)
	svc.now = func() time.Time { return now }

	vendor := f.user(t, "v@shop.test", model.RoleVendor)
	soap := f.product(t, 10, "100", "150")
	f.sale(t, soap.ID, 2, "150", "100", now.Add(-time.Minute), &vendor.ID, model.PaymentPaid)

	admin, err := svc.AdminDashboard(ctx, 7)
	if err != nil || admin.Today.Sales != 1 {
		t.Fatalf("expected 1 sale today before midnight, got %+v (%v)", admin, err)
	}
	own, err := svc.VendorDashboard(ctx, vendor.Actor())
	if err != nil || own.Today.Quantity != 2 {
		t.Fatalf("expected 2 units today before midnight, got %+v (%v)", own, err)
	}

	now = now.Add(5 * time.Minute)
	admin, err = svc.AdminDashboard(ctx, 7)
	if err != nil {
		t.Fatalf("AdminDashboard: %v", err)
	}
	if admin.Today.Sales != 0 || !admin.Today.Revenue.IsZero() {
		t.Fatalf("yesterday's totals served after midnight %+v", admin.Today)
	}
	own, err = svc.VendorDashboard(ctx, vendor.Actor())
	if err != nil {
		t.Fatalf("VendorDashboard: %v", err)
	}
	if own.Today.Quantity != 0 {
		t.Fatalf("yesterday's vendor totals served after midnight %+v", own.Today)
	}
}
