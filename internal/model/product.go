package model

import (
	"github.com/shopspring/decimal"
)

// DefaultReorderLevel is used when a product is created without one.
const DefaultReorderLevel = 5

var ten = decimal.NewFromInt(10)

type Product struct {
	BaseModel
	Name         string          `gorm:"type:varchar(255);not null;index" json:"name"`
	CategoryID   *uint           `gorm:"index" json:"category_id"`
	Category     *Category       `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	BuyingPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"buying_price"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"selling_price"`
	Quantity     int             `gorm:"not null;default:0;check:chk_products_quantity,quantity >= 0" json:"quantity"`
	ReorderLevel int             `gorm:"not null;default:5" json:"reorder_level"`
}

// StockValue is the on-hand quantity valued at the average cost.
func (p *Product) StockValue() decimal.Decimal {
	return p.BuyingPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

func (p *Product) ProfitMargin() decimal.Decimal {
	return p.SellingPrice.Sub(p.BuyingPrice)
}

func (p *Product) NeedsRestock() bool {
	return p.Quantity <= p.ReorderLevel
}

// StockMerge is the product state after blending in a replenishment batch.
type StockMerge struct {
	Quantity     int
	BuyingPrice  decimal.Decimal
	SellingPrice decimal.Decimal
}

// MergeStock blends an incoming batch into the current quantity-weighted
// averages. The average cost is rounded up to the next multiple of 10; the
// average selling price is kept at cent precision.
func (p *Product) MergeStock(qty int, unitCost, unitPrice decimal.Decimal) StockMerge {
	oldQty := decimal.NewFromInt(int64(p.Quantity))
	inQty := decimal.NewFromInt(int64(qty))
	merged := p.Quantity + qty

	var avgCost, avgPrice decimal.Decimal
	if merged > 0 {
		total := decimal.NewFromInt(int64(merged))
		avgCost = oldQty.Mul(p.BuyingPrice).Add(inQty.Mul(unitCost)).Div(total)
		avgPrice = oldQty.Mul(p.SellingPrice).Add(inQty.Mul(unitPrice)).Div(total)
	} else {
		avgCost = unitCost
		avgPrice = unitPrice
	}

	return StockMerge{
		Quantity:     merged,
		BuyingPrice:  RoundUpToTen(avgCost),
		SellingPrice: avgPrice.Round(2),
	}
}

// Apply copies a merge result onto the product.
func (p *Product) Apply(m StockMerge) {
	p.Quantity = m.Quantity
	p.BuyingPrice = m.BuyingPrice
	p.SellingPrice = m.SellingPrice
}

// RoundUpToTen returns the smallest multiple of 10 that is >= d.
func RoundUpToTen(d decimal.Decimal) decimal.Decimal {
	return d.Div(ten).Ceil().Mul(ten)
}

// ProductResponse adds the derived attributes to the stored fields.
type ProductResponse struct {
	Product
	CategoryName string          `json:"category_name"`
	StockValue   decimal.Decimal `json:"stock_value"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
	NeedsRestock bool            `json:"needs_restock"`
}

func (p *Product) ToResponse() ProductResponse {
	resp := ProductResponse{
		Product:      *p,
		StockValue:   p.StockValue(),
		ProfitMargin: p.ProfitMargin(),
		NeedsRestock: p.NeedsRestock(),
	}
	if p.Category != nil {
		resp.CategoryName = p.Category.Name
	}
	return resp
}
