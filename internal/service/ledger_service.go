package service

import (
	"context"
	"fmt"

	"go-shop-ledger/internal/model"
	"go-shop-ledger/internal/repository"
	"go-shop-ledger/pkg/cache"
	"go-shop-ledger/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// EventPublisher receives ledger events after they are committed.
type EventPublisher interface {
	Publish(event interface{})
}

// StockEntryInput is a replenishment request.
type StockEntryInput struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	UnitCost  decimal.Decimal `json:"buying_price" validate:"gte=0"`
	UnitPrice decimal.Decimal `json:"selling_price" validate:"gte=0"`
}

// SaleInput is a point-of-sale request. An empty PaymentStatus means Paid.
type SaleInput struct {
	ProductID     uint            `json:"product_id" validate:"required"`
	Quantity      int             `json:"quantity" validate:"gt=0"`
	UnitPrice     decimal.Decimal `json:"selling_price" validate:"gte=0"`
	PaymentStatus string          `json:"payment_status"`
}

type LedgerService interface {
	ApplyStockEntry(ctx context.Context, in StockEntryInput, actor model.Actor) (*model.StockEntry, error)
	ApplySale(ctx context.Context, in SaleInput, actor model.Actor) (*model.Sale, error)
	GetStockEntries(ctx context.Context, limit int) ([]model.StockEntry, error)
	GetProductStockEntries(ctx context.Context, productID uint) ([]model.StockEntry, error)
	GetSales(ctx context.Context, filter repository.SaleFilter) ([]model.Sale, error)
	GetSale(ctx context.Context, id uint) (*model.Sale, error)
}

type ledgerService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	stockRepo   repository.StockEntryRepository
	saleRepo    repository.SaleRepository
	events      EventPublisher
	cache       cache.ReportCache
	log         *logrus.Logger
}

func NewLedgerService(db *gorm.DB, pRepo repository.ProductRepository, eRepo repository.StockEntryRepository, sRepo repository.SaleRepository, events EventPublisher, reportCache cache.ReportCache) LedgerService {
	if reportCache == nil {
		reportCache = cache.Noop{}
	}
	return &ledgerService{
		db:          db,
		productRepo: pRepo,
		stockRepo:   eRepo,
		saleRepo:    sRepo,
		events:      events,
		cache:       reportCache,
		log:         logger.Get(),
	}
}

// ApplyStockEntry adds a batch to a product, blending its cost and price into
// the product's weighted averages. The product update and the entry insert
// commit together or not at all.
func (s *ledgerService) ApplyStockEntry(ctx context.Context, in StockEntryInput, actor model.Actor) (*model.StockEntry, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	in.UnitCost = in.UnitCost.Round(2)
	in.UnitPrice = in.UnitPrice.Round(2)

	var (
		entry    *model.StockEntry
		product  *model.Product
		oldStock int
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.productRepo.LockByID(tx, in.ProductID)
		if err != nil {
			return notFound(err, "product", in.ProductID)
		}
		oldStock = p.Quantity

		p.Apply(p.MergeStock(in.Quantity, in.UnitCost, in.UnitPrice))
		p.UpdatedBy = actor.String()
		if err := s.productRepo.UpdateLedger(tx, p); err != nil {
			return err
		}

		e := &model.StockEntry{
			ProductID:    p.ID,
			Quantity:     in.Quantity,
			BuyingPrice:  in.UnitCost,
			SellingPrice: in.UnitPrice,
			AddedByID:    actor.Ref(),
		}
		if err := s.stockRepo.Create(tx, e); err != nil {
			return err
		}

		entry, product = e, p
		return nil
	})
	if err != nil {
		s.logFailure("ApplyStockEntry", in.ProductID, actor, err)
		return nil, err
	}

	s.afterCommit(ctx, map[string]interface{}{
		"type":   "stock_update",
		"action": "stock_added",
		"stock_entry": map[string]interface{}{
			"id":            entry.ID,
			"quantity":      entry.Quantity,
			"buying_price":  entry.BuyingPrice,
			"selling_price": entry.SellingPrice,
			"total_cost":    entry.BatchCost(),
		},
		"product": productPayload(product, oldStock),
		"user":    actorPayload(actor),
		"message": fmt.Sprintf("%d units of '%s' added", entry.Quantity, product.Name),
	})

	entry.Product = product
	return entry, nil
}

// ApplySale records a sale and decrements stock. Stock and price are checked
// before taking the row lock and checked again under it, since another sale
// may have committed in between.
func (s *ledgerService) ApplySale(ctx context.Context, in SaleInput, actor model.Actor) (*model.Sale, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	in.UnitPrice = in.UnitPrice.Round(2)
	status, err := model.ParsePaymentStatus(in.PaymentStatus)
	if err != nil {
		return nil, invalid("%s", err.Error())
	}

	// Advisory check, lets obvious failures skip the transaction.
	current, err := s.productRepo.FindByID(ctx, in.ProductID)
	if err != nil {
		err = notFound(err, "product", in.ProductID)
		s.logFailure("ApplySale", in.ProductID, actor, err)
		return nil, err
	}
	if err := checkSale(current, in); err != nil {
		s.logFailure("ApplySale", in.ProductID, actor, err)
		return nil, err
	}

	var (
		sale     *model.Sale
		product  *model.Product
		oldStock int
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.productRepo.LockByID(tx, in.ProductID)
		if err != nil {
			return notFound(err, "product", in.ProductID)
		}
		if err := checkSale(p, in); err != nil {
			return err
		}
		oldStock = p.Quantity

		cost := p.BuyingPrice
		p.Quantity -= in.Quantity
		p.UpdatedBy = actor.String()
		if err := s.productRepo.UpdateLedger(tx, p); err != nil {
			return err
		}

		row := &model.Sale{
			ProductID:       p.ID,
			Quantity:        in.Quantity,
			SellingPrice:    in.UnitPrice,
			CostPriceAtSale: cost,
			SoldByID:        actor.Ref(),
			PaymentStatus:   status,
		}
		if err := s.saleRepo.Create(tx, row); err != nil {
			return err
		}

		sale, product = row, p
		return nil
	})
	if err != nil {
		s.logFailure("ApplySale", in.ProductID, actor, err)
		return nil, err
	}

	s.afterCommit(ctx, map[string]interface{}{
		"type":   "stock_update",
		"action": "sale_recorded",
		"sale": map[string]interface{}{
			"id":             sale.ID,
			"quantity":       sale.Quantity,
			"selling_price":  sale.SellingPrice,
			"payment_status": sale.PaymentStatus,
			"total":          sale.TotalSaleValue(),
		},
		"product": productPayload(product, oldStock),
		"user":    actorPayload(actor),
		"message": fmt.Sprintf("%d units of '%s' sold", sale.Quantity, product.Name),
	})

	sale.Product = product
	return sale, nil
}

// checkSale holds the sale preconditions that depend on product state.
func checkSale(p *model.Product, in SaleInput) error {
	if in.Quantity > p.Quantity {
		return &InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Available:   p.Quantity,
			Requested:   in.Quantity,
		}
	}
	if in.UnitPrice.LessThan(p.BuyingPrice) {
		return &PricingError{
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   in.UnitPrice,
			BuyingPrice: p.BuyingPrice,
		}
	}
	return nil
}

func (s *ledgerService) GetStockEntries(ctx context.Context, limit int) ([]model.StockEntry, error) {
	return s.stockRepo.FindRecent(ctx, limit)
}

func (s *ledgerService) GetProductStockEntries(ctx context.Context, productID uint) ([]model.StockEntry, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, notFound(err, "product", productID)
	}
	return s.stockRepo.FindByProduct(ctx, productID)
}

func (s *ledgerService) GetSales(ctx context.Context, filter repository.SaleFilter) ([]model.Sale, error) {
	return s.saleRepo.Find(ctx, filter)
}

func (s *ledgerService) GetSale(ctx context.Context, id uint) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "sale", id)
	}
	return sale, nil
}

// afterCommit runs the side effects of a committed ledger write.
func (s *ledgerService) afterCommit(ctx context.Context, event map[string]interface{}) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.LogError(s.log, "ledger", "afterCommit", "invalidate report cache", nil, err)
	}
	if s.events != nil {
		s.events.Publish(event)
	}
}

// logFailure logs expected business rejections at info and everything else
// at error.
func (s *ledgerService) logFailure(funcName string, productID uint, actor model.Actor, err error) {
	fields := logrus.Fields{
		"module":     "ledger",
		"funcName":   funcName,
		"product_id": productID,
		"actor":      actor.String(),
	}
	switch err.(type) {
	case *ValidationError, *NotFoundError, *InsufficientStockError, *PricingError:
		s.log.WithFields(fields).Info(err.Error())
	default:
		s.log.WithFields(fields).Error(err.Error())
	}
}

func productPayload(p *model.Product, oldStock int) map[string]interface{} {
	return map[string]interface{}{
		"id":            p.ID,
		"name":          p.Name,
		"old_stock":     oldStock,
		"new_stock":     p.Quantity,
		"buying_price":  p.BuyingPrice,
		"selling_price": p.SellingPrice,
		"needs_restock": p.NeedsRestock(),
	}
}

func actorPayload(a model.Actor) map[string]interface{} {
	return map[string]interface{}{
		"id":   a.Ref(),
		"role": a.Role,
	}
}
