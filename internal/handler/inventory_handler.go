package handler

import (
	"strconv"
	"time"

	"go-shop-ledger/internal/middleware"
	"go-shop-ledger/internal/model"
	"go-shop-ledger/internal/repository"
	"go-shop-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	catalog service.CatalogService
	ledger  service.LedgerService
}

func NewInventoryHandler(catalog service.CatalogService, ledger service.LedgerService) *InventoryHandler {
	return &InventoryHandler{catalog: catalog, ledger: ledger}
}

// GET /api/v1/products
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.catalog.GetProducts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toResponses(products))
}

// GET /api/v1/products/low-stock
func (h *InventoryHandler) GetLowStockProducts(c *fiber.Ctx) error {
	products, err := h.catalog.GetLowStockProducts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toResponses(products))
}

// GET /api/v1/products/:id
func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product.ToResponse())
}

// POST /api/v1/products
func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	product, err := h.catalog.CreateProduct(c.UserContext(), req, middleware.CurrentActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product.ToResponse()})
}

// PUT /api/v1/products/:id
// Only the descriptive fields change here; stock and cost move through the
// stock-entry and sale endpoints.
func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.ProductDetailsInput
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	product, err := h.catalog.UpdateProductDetails(c.UserContext(), id, req, middleware.CurrentActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product.ToResponse()})
}

// GET /api/v1/stock-entries
// Query params: product_id, limit (default 50)
func (h *InventoryHandler) GetStockEntries(c *fiber.Ctx) error {
	if pid := c.QueryInt("product_id"); pid > 0 {
		entries, err := h.ledger.GetProductStockEntries(c.UserContext(), uint(pid))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(entries)
	}
	entries, err := h.ledger.GetStockEntries(c.UserContext(), c.QueryInt("limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}

// POST /api/v1/stock-entries
func (h *InventoryHandler) CreateStockEntry(c *fiber.Ctx) error {
	var req service.StockEntryInput
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	entry, err := h.ledger.ApplyStockEntry(c.UserContext(), req, middleware.CurrentActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Stock entry recorded",
		"data":    entry,
		"product": entry.Product.ToResponse(),
	})
}

// GET /api/v1/sales
// Users without report access only see their own sales.
func (h *InventoryHandler) GetSales(c *fiber.Ctx) error {
	filter, err := saleFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	sales, err := h.ledger.GetSales(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sales)
}

// POST /api/v1/sales
func (h *InventoryHandler) CreateSale(c *fiber.Ctx) error {
	var req service.SaleInput
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	sale, err := h.ledger.ApplySale(c.UserContext(), req, middleware.CurrentActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Sale recorded",
		"data":    sale,
		"total":   sale.TotalSaleValue(),
	})
}

func toResponses(products []model.Product) []model.ProductResponse {
	out := make([]model.ProductResponse, len(products))
	for i := range products {
		out[i] = products[i].ToResponse()
	}
	return out
}

// saleFilter reads from/to (YYYY-MM-DD, to inclusive), payment_status,
// product_id, sold_by and limit from the query string.
func saleFilter(c *fiber.Ctx) (repository.SaleFilter, error) {
	var f repository.SaleFilter

	if v := c.Query("from"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return f, &service.ValidationError{Message: "from must be YYYY-MM-DD"}
		}
		f.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return f, &service.ValidationError{Message: "to must be YYYY-MM-DD"}
		}
		end := t.AddDate(0, 0, 1)
		f.To = &end
	}
	if v := c.Query("payment_status"); v != "" {
		status, err := model.ParsePaymentStatus(v)
		if err != nil {
			return f, &service.ValidationError{Message: err.Error()}
		}
		f.PaymentStatus = status
	}
	if v := c.Query("product_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return f, &service.ValidationError{Message: "Invalid product_id"}
		}
		pid := uint(id)
		f.ProductID = &pid
	}
	if v := c.Query("sold_by"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return f, &service.ValidationError{Message: "Invalid sold_by"}
		}
		uid := uint(id)
		f.SoldByID = &uid
	}
	f.Limit = c.QueryInt("limit")

	if !middleware.HasPrivilege(c, model.PrivReportView) {
		f.SoldByID = middleware.CurrentActor(c).Ref()
	}
	return f, nil
}
