// Package report derives read-only aggregates from ledger rows. Every
// function here is pure: the same rows always give the same result.
package report

import (
	"sort"
	"time"

	"go-shop-ledger/internal/model"

	"github.com/shopspring/decimal"
)

// UncategorizedBucket collects products without a category.
const UncategorizedBucket = "Uncategorized"

var hundred = decimal.NewFromInt(100)

type Bucket string

const (
	Day   Bucket = "day"
	Month Bucket = "month"
)

func (b Bucket) key(t time.Time) string {
	if b == Month {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

// ProfitMarginPercent is (sell - buy) / sell * 100 at cent precision, or zero
// when nothing was charged.
func ProfitMarginPercent(sellingPrice, buyingPrice decimal.Decimal) decimal.Decimal {
	if sellingPrice.IsZero() {
		return decimal.Zero
	}
	return sellingPrice.Sub(buyingPrice).Div(sellingPrice).Mul(hundred).Round(2)
}

type RevenuePoint struct {
	Bucket   string          `json:"bucket"`
	Revenue  decimal.Decimal `json:"revenue"`
	Profit   decimal.Decimal `json:"profit"`
	Quantity int             `json:"quantity"`
	Sales    int             `json:"sales"`
}

// RevenueByBucket sums sales per day or month in loc, oldest bucket first.
func RevenueByBucket(sales []model.Sale, bucket Bucket, loc *time.Location) []RevenuePoint {
	if loc == nil {
		loc = time.UTC
	}
	points := map[string]*RevenuePoint{}
	for i := range sales {
		s := &sales[i]
		k := bucket.key(s.DateSold.In(loc))
		p, ok := points[k]
		if !ok {
			p = &RevenuePoint{Bucket: k, Revenue: decimal.Zero, Profit: decimal.Zero}
			points[k] = p
		}
		p.Revenue = p.Revenue.Add(s.TotalSaleValue())
		p.Profit = p.Profit.Add(s.TotalProfit())
		p.Quantity += s.Quantity
		p.Sales++
	}

	out := make([]RevenuePoint, 0, len(points))
	for _, p := range points {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bucket < out[j].Bucket })
	return out
}

// FillDays returns one point per day in [from, to], inserting zero points for
// days without sales, so charts have a continuous axis.
func FillDays(points []RevenuePoint, from, to time.Time) []RevenuePoint {
	byKey := make(map[string]RevenuePoint, len(points))
	for _, p := range points {
		byKey[p.Bucket] = p
	}
	var out []RevenuePoint
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	for d := start; !d.After(to); d = d.AddDate(0, 0, 1) {
		k := Day.key(d)
		if p, ok := byKey[k]; ok {
			out = append(out, p)
			continue
		}
		out = append(out, RevenuePoint{Bucket: k, Revenue: decimal.Zero, Profit: decimal.Zero})
	}
	return out
}

type CategoryStock struct {
	CategoryID *uint           `json:"category_id"`
	Category   string          `json:"category"`
	Quantity   int             `json:"quantity"`
	StockValue decimal.Decimal `json:"stock_value"`
	Products   int             `json:"products"`
}

// StockByCategory sums on-hand quantity per product category, ordered by
// name with the uncategorized bucket last. names maps category IDs to their
// display names; products pointing at unknown categories count as
// uncategorized.
func StockByCategory(products []model.Product, names map[uint]string) []CategoryStock {
	groups := map[uint]*CategoryStock{}
	var none *CategoryStock

	for i := range products {
		p := &products[i]
		var g *CategoryStock
		name, known := "", false
		if p.CategoryID != nil {
			name, known = names[*p.CategoryID]
		}
		if known {
			id := *p.CategoryID
			if g = groups[id]; g == nil {
				g = &CategoryStock{CategoryID: &id, Category: name, StockValue: decimal.Zero}
				groups[id] = g
			}
		} else {
			if none == nil {
				none = &CategoryStock{Category: UncategorizedBucket, StockValue: decimal.Zero}
			}
			g = none
		}
		g.Quantity += p.Quantity
		g.StockValue = g.StockValue.Add(p.StockValue())
		g.Products++
	}

	out := make([]CategoryStock, 0, len(groups)+1)
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return *out[i].CategoryID < *out[j].CategoryID
	})
	if none != nil {
		out = append(out, *none)
	}
	return out
}

type InventorySummary struct {
	TotalProducts int             `json:"total_products"`
	TotalUnits    int             `json:"total_units"`
	StockValue    decimal.Decimal `json:"stock_value"`
	LowStockCount int             `json:"low_stock_count"`
}

func Summarize(products []model.Product) InventorySummary {
	s := InventorySummary{StockValue: decimal.Zero}
	for i := range products {
		p := &products[i]
		s.TotalProducts++
		s.TotalUnits += p.Quantity
		s.StockValue = s.StockValue.Add(p.StockValue())
		if p.NeedsRestock() {
			s.LowStockCount++
		}
	}
	return s
}

type SalesTotals struct {
	Sales    int             `json:"sales"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
	Profit   decimal.Decimal `json:"profit"`
	Credit   decimal.Decimal `json:"credit"`
}

// Totals sums a set of sales. Credit is the revenue not yet paid.
func Totals(sales []model.Sale) SalesTotals {
	t := SalesTotals{Revenue: decimal.Zero, Profit: decimal.Zero, Credit: decimal.Zero}
	for i := range sales {
		s := &sales[i]
		t.Sales++
		t.Quantity += s.Quantity
		t.Revenue = t.Revenue.Add(s.TotalSaleValue())
		t.Profit = t.Profit.Add(s.TotalProfit())
		if s.PaymentStatus == model.PaymentCredit {
			t.Credit = t.Credit.Add(s.TotalSaleValue())
		}
	}
	return t
}

type SalesRow struct {
	SaleID          uint                `json:"sale_id"`
	DateSold        time.Time           `json:"date_sold"`
	ProductID       uint                `json:"product_id"`
	ProductName     string              `json:"product_name"`
	Quantity        int                 `json:"quantity"`
	SellingPrice    decimal.Decimal     `json:"selling_price"`
	CostPriceAtSale decimal.Decimal     `json:"cost_price_at_sale"`
	CurrentCost     decimal.Decimal     `json:"current_cost"`
	ProfitMargin    decimal.Decimal     `json:"profit_margin"`
	TotalSaleValue  decimal.Decimal     `json:"total_sale_value"`
	TotalProfit     decimal.Decimal     `json:"total_profit"`
	PaymentStatus   model.PaymentStatus `json:"payment_status"`
	SoldBy          string              `json:"sold_by"`
}

// SalesReport turns sales (with Product and SoldBy loaded) into report rows,
// newest first. The margin percentage is measured against the product's
// current average cost; the profit columns use the cost snapshot taken at
// the time of sale.
func SalesReport(sales []model.Sale) []SalesRow {
	rows := make([]SalesRow, 0, len(sales))
	for i := range sales {
		s := &sales[i]
		row := SalesRow{
			SaleID:          s.ID,
			DateSold:        s.DateSold,
			ProductID:       s.ProductID,
			Quantity:        s.Quantity,
			SellingPrice:    s.SellingPrice,
			CostPriceAtSale: s.CostPriceAtSale,
			CurrentCost:     s.CostPriceAtSale,
			TotalSaleValue:  s.TotalSaleValue(),
			TotalProfit:     s.TotalProfit(),
			PaymentStatus:   s.PaymentStatus,
		}
		if s.Product != nil {
			row.ProductName = s.Product.Name
			row.CurrentCost = s.Product.BuyingPrice
		}
		if s.SoldBy != nil {
			row.SoldBy = s.SoldBy.FullName
		}
		row.ProfitMargin = ProfitMarginPercent(s.SellingPrice, row.CurrentCost)
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].DateSold.Equal(rows[j].DateSold) {
			return rows[i].DateSold.After(rows[j].DateSold)
		}
		return rows[i].SaleID > rows[j].SaleID
	})
	return rows
}
