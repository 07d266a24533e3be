package handler

import (
	"errors"
	"strconv"

	"go-shop-ledger/internal/service"
	"go-shop-ledger/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors onto HTTP statuses. Typed ledger errors
// carry their detail fields in the body next to "error".
func respondError(c *fiber.Ctx, err error) error {
	var (
		verr     *service.ValidationError
		nf       *service.NotFoundError
		stockErr *service.InsufficientStockError
		priceErr *service.PricingError
	)
	switch {
	case errors.As(err, &verr):
		body := fiber.Map{"error": verr.Message}
		if len(verr.Fields) > 0 {
			body["fields"] = verr.Fields
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": nf.Error(), "entity": nf.Entity, "id": nf.ID})
	case errors.As(err, &stockErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":        stockErr.Error(),
			"product_id":   stockErr.ProductID,
			"product_name": stockErr.ProductName,
			"available":    stockErr.Available,
			"requested":    stockErr.Requested,
		})
	case errors.As(err, &priceErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":        priceErr.Error(),
			"product_id":   priceErr.ProductID,
			"product_name": priceErr.ProductName,
			"unit_price":   priceErr.UnitPrice,
			"buying_price": priceErr.BuyingPrice,
		})
	case errors.Is(err, service.ErrCategoryCycle):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrEmailExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrRoleRequired), errors.Is(err, service.ErrDeleteSelf):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	logger.LogError(logger.Get(), "handler", c.Route().Path, c.Method(), nil, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, &service.ValidationError{Message: "Invalid " + name}
	}
	return uint(id), nil
}

func badJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
}
