package service

import (
	"context"
	"fmt"
	"time"

	"go-shop-ledger/internal/model"
	"go-shop-ledger/internal/report"
	"go-shop-ledger/internal/repository"
	"go-shop-ledger/pkg/cache"
	"go-shop-ledger/pkg/logger"
)

const recentLimit = 10

type AdminDashboard struct {
	Inventory          report.InventorySummary `json:"inventory"`
	Today              report.SalesTotals      `json:"today"`
	ThisMonth          report.SalesTotals      `json:"this_month"`
	StockByCategory    []report.CategoryStock  `json:"stock_by_category"`
	DailyRevenue       []report.RevenuePoint   `json:"daily_revenue"`
	MonthlyRevenue     []report.RevenuePoint   `json:"monthly_revenue"`
	LowStock           []model.ProductResponse `json:"low_stock"`
	RecentStockEntries []model.StockEntry      `json:"recent_stock_entries"`
	RecentSales        []report.SalesRow       `json:"recent_sales"`
}

type VendorDashboard struct {
	Today       report.SalesTotals      `json:"today"`
	ThisMonth   report.SalesTotals      `json:"this_month"`
	RecentSales []report.SalesRow       `json:"recent_sales"`
	Products    []model.ProductResponse `json:"products"`
}

type SalesReportResult struct {
	Rows   []report.SalesRow  `json:"rows"`
	Totals report.SalesTotals `json:"totals"`
}

type ReportService interface {
	AdminDashboard(ctx context.Context, days int) (*AdminDashboard, error)
	VendorDashboard(ctx context.Context, actor model.Actor) (*VendorDashboard, error)
	SalesReport(ctx context.Context, filter repository.SaleFilter) (*SalesReportResult, error)
}

type reportService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	stockRepo    repository.StockEntryRepository
	saleRepo     repository.SaleRepository
	cache        cache.ReportCache
	loc          *time.Location
	now          func() time.Time
}

func NewReportService(pRepo repository.ProductRepository, cRepo repository.CategoryRepository, eRepo repository.StockEntryRepository, sRepo repository.SaleRepository, reportCache cache.ReportCache, loc *time.Location) ReportService {
	if reportCache == nil {
		reportCache = cache.Noop{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &reportService{
		productRepo:  pRepo,
		categoryRepo: cRepo,
		stockRepo:    eRepo,
		saleRepo:     sRepo,
		cache:        reportCache,
		loc:          loc,
		now:          time.Now,
	}
}

func (s *reportService) AdminDashboard(ctx context.Context, days int) (*AdminDashboard, error) {
	if days <= 0 {
		days = 7
	}
	now := s.now().In(s.loc)
	today := startOfDay(now)
	key := fmt.Sprintf("admin:%s:%d", today.Format("2006-01-02"), days)
	var cached AdminDashboard
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, s.loc)
	sales, err := s.saleRepo.Find(ctx, repository.SaleFilter{From: &yearStart})
	if err != nil {
		return nil, err
	}
	entries, err := s.stockRepo.FindRecent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}

	windowStart := today.AddDate(0, 0, -(days - 1))
	dash := &AdminDashboard{
		Inventory:          report.Summarize(products),
		Today:              report.Totals(salesSince(sales, today)),
		ThisMonth:          report.Totals(salesSince(sales, startOfMonth(now))),
		StockByCategory:    report.StockByCategory(products, names),
		DailyRevenue:       report.FillDays(report.RevenueByBucket(salesSince(sales, windowStart), report.Day, s.loc), windowStart, now),
		MonthlyRevenue:     report.RevenueByBucket(sales, report.Month, s.loc),
		LowStock:           []model.ProductResponse{},
		RecentStockEntries: entries,
		RecentSales:        report.SalesReport(firstN(sales, recentLimit)),
	}
	for i := range products {
		if products[i].NeedsRestock() {
			dash.LowStock = append(dash.LowStock, products[i].ToResponse())
		}
	}

	s.cacheSet(ctx, key, dash)
	return dash, nil
}

func (s *reportService) VendorDashboard(ctx context.Context, actor model.Actor) (*VendorDashboard, error) {
	now := s.now().In(s.loc)
	key := fmt.Sprintf("vendor:%s:%d", now.Format("2006-01-02"), actor.UserID)
	var cached VendorDashboard
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	monthStart := startOfMonth(now)
	filter := repository.SaleFilter{From: &monthStart}
	if ref := actor.Ref(); ref != nil {
		filter.SoldByID = ref
	}
	sales, err := s.saleRepo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	dash := &VendorDashboard{
		Today:       report.Totals(salesSince(sales, startOfDay(now))),
		ThisMonth:   report.Totals(sales),
		RecentSales: report.SalesReport(firstN(sales, recentLimit)),
		Products:    []model.ProductResponse{},
	}
	for i := range products {
		if products[i].Quantity > 0 {
			dash.Products = append(dash.Products, products[i].ToResponse())
		}
	}

	s.cacheSet(ctx, key, dash)
	return dash, nil
}

func (s *reportService) SalesReport(ctx context.Context, filter repository.SaleFilter) (*SalesReportResult, error) {
	sales, err := s.saleRepo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &SalesReportResult{
		Rows:   report.SalesReport(sales),
		Totals: report.Totals(sales),
	}, nil
}

func (s *reportService) cacheGet(ctx context.Context, key string, dst interface{}) bool {
	hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		logger.LogError(logger.Get(), "report", "cacheGet", key, nil, err)
		return false
	}
	return hit
}

func (s *reportService) cacheSet(ctx context.Context, key string, v interface{}) {
	if err := s.cache.Set(ctx, key, v); err != nil {
		logger.LogError(logger.Get(), "report", "cacheSet", key, nil, err)
	}
}

// salesSince keeps the sales at or after from; sales arrive newest first.
func salesSince(sales []model.Sale, from time.Time) []model.Sale {
	out := make([]model.Sale, 0, len(sales))
	for _, sale := range sales {
		if !sale.DateSold.Before(from) {
			out = append(out, sale)
		}
	}
	return out
}

func firstN(sales []model.Sale, n int) []model.Sale {
	if len(sales) > n {
		return sales[:n]
	}
	return sales
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
