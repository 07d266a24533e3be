package service

import (
	"errors"
	"fmt"
	"strings"

	"go-shop-ledger/pkg/validator"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrCategoryCycle = errors.New("category cannot be moved under itself or one of its subcategories")
)

// ValidationError reports input that failed its preconditions.
type ValidationError struct {
	Fields  []*validator.ErrorResponse `json:"fields,omitempty"`
	Message string                     `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports a referenced record that does not exist.
type NotFoundError struct {
	Entity string `json:"entity"`
	ID     uint   `json:"id"`
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// InsufficientStockError is returned when a sale asks for more units than
// are on hand.
type InsufficientStockError struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Available   int    `json:"available"`
	Requested   int    `json:"requested"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Not enough stock for %s. Available: %d, Requested: %d", e.ProductName, e.Available, e.Requested)
}

// PricingError is returned when a sale is priced below the current cost.
type PricingError struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	BuyingPrice decimal.Decimal `json:"buying_price"`
}

func (e *PricingError) Error() string {
	return fmt.Sprintf("Selling price %s for %s is below its cost price %s", e.UnitPrice.StringFixed(2), e.ProductName, e.BuyingPrice.StringFixed(2))
}

// validateInput runs the struct tags on req and converts failures into a
// ValidationError.
func validateInput(req interface{}) error {
	errs := validator.ValidateStruct(req)
	if len(errs) == 0 {
		return nil
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, fmt.Sprintf("Field '%s' failed on tag '%s'", e.FailedField, e.Tag))
	}
	return &ValidationError{
		Fields:  errs,
		Message: "Validation failed: " + strings.Join(parts, "; "),
	}
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// notFound maps gorm's missing-row error onto NotFoundError and passes
// anything else through.
func notFound(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}
