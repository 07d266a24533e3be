package handler

import (
	"bytes"
	"fmt"
	"time"

	"go-shop-ledger/internal/middleware"
	"go-shop-ledger/internal/model"
	"go-shop-ledger/internal/report"
	"go-shop-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.ReportService
}

func NewDashboardHandler(s service.ReportService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetDashboard returns the admin dashboard to users with report access and
// the personal sales dashboard to everyone else.
// Query params: days (default 7, admin only)
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	if middleware.HasPrivilege(c, model.PrivReportView) {
		days := c.QueryInt("days", 7)
		if days <= 0 || days > 366 {
			days = 7
		}
		dash, err := h.service.AdminDashboard(c.UserContext(), days)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"role": model.RoleAdmin, "period": days, "data": dash})
	}

	actor := middleware.CurrentActor(c)
	dash, err := h.service.VendorDashboard(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"role": actor.Role, "data": dash})
}

// GetSalesReport returns report rows and totals
// GET /api/v1/reports/sales
func (h *DashboardHandler) GetSalesReport(c *fiber.Ctx) error {
	filter, err := saleFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	res, err := h.service.SalesReport(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// ExportSalesReport streams the same report as an XLSX workbook
// GET /api/v1/reports/sales.xlsx
func (h *DashboardHandler) ExportSalesReport(c *fiber.Ctx) error {
	filter, err := saleFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	res, err := h.service.SalesReport(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}

	var buf bytes.Buffer
	if err := report.WriteSalesWorkbook(&buf, res.Rows); err != nil {
		return respondError(c, err)
	}

	name := fmt.Sprintf("sales-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(buf.Bytes())
}
