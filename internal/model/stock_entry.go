package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry is an append-only replenishment line. BuyingPrice and
// SellingPrice hold the batch's own unit values, not the merged averages.
type StockEntry struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ProductID    uint            `gorm:"not null;index" json:"product_id"`
	Product      *Product        `gorm:"constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Quantity     int             `gorm:"not null;check:chk_stock_entries_quantity,quantity > 0" json:"quantity"`
	BuyingPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"buying_price"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"selling_price"`
	DateAdded    time.Time       `gorm:"not null;index;autoCreateTime" json:"date_added"`
	AddedByID    *uint           `gorm:"index" json:"added_by_id"`
	AddedBy      *User           `gorm:"constraint:OnDelete:SET NULL" json:"added_by,omitempty"`
}

// TableName specifies the table name for GORM
func (StockEntry) TableName() string {
	return "stock_entries"
}

// BatchCost is the total cost of this batch.
func (e *StockEntry) BatchCost() decimal.Decimal {
	return e.BuyingPrice.Mul(decimal.NewFromInt(int64(e.Quantity)))
}
