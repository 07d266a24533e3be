package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "Paid"
	PaymentCredit PaymentStatus = "Credit"
)

// ParsePaymentStatus maps user input to a status; empty input means Paid.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "paid":
		return PaymentPaid, nil
	case "credit":
		return PaymentCredit, nil
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

// Sale is an append-only disposal line. CostPriceAtSale is the product's
// average cost at the moment of sale and never changes afterwards.
type Sale struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ProductID       uint            `gorm:"not null;index" json:"product_id"`
	Product         *Product        `gorm:"constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Quantity        int             `gorm:"not null;check:chk_sales_quantity,quantity > 0" json:"quantity"`
	SellingPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"selling_price"`
	CostPriceAtSale decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cost_price_at_sale"`
	DateSold        time.Time       `gorm:"not null;index;autoCreateTime" json:"date_sold"`
	SoldByID        *uint           `gorm:"index" json:"sold_by_id"`
	SoldBy          *User           `gorm:"constraint:OnDelete:SET NULL" json:"sold_by,omitempty"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);not null;default:Paid;index" json:"payment_status"`
}

// TableName specifies the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

func (s *Sale) TotalSaleValue() decimal.Decimal {
	return s.SellingPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

func (s *Sale) TotalProfit() decimal.Decimal {
	return s.SellingPrice.Sub(s.CostPriceAtSale).Mul(decimal.NewFromInt(int64(s.Quantity)))
}
