package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const salesSheet = "Sales"

var salesHeadings = []string{
	"Date", "Product", "Quantity", "Selling Price", "Cost At Sale",
	"Margin %", "Total", "Profit", "Payment", "Sold By",
}

// WriteSalesWorkbook writes rows as an XLSX workbook with a totals line.
func WriteSalesWorkbook(w io.Writer, rows []SalesRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", salesSheet); err != nil {
		return err
	}

	for i, h := range salesHeadings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(salesSheet, cell, h); err != nil {
			return err
		}
	}

	for i, r := range rows {
		line := i + 2
		values := []interface{}{
			r.DateSold.Format("2006-01-02 15:04"),
			r.ProductName,
			r.Quantity,
			r.SellingPrice.InexactFloat64(),
			r.CostPriceAtSale.InexactFloat64(),
			r.ProfitMargin.InexactFloat64(),
			r.TotalSaleValue.InexactFloat64(),
			r.TotalProfit.InexactFloat64(),
			string(r.PaymentStatus),
			r.SoldBy,
		}
		if err := f.SetSheetRow(salesSheet, fmt.Sprintf("A%d", line), &values); err != nil {
			return err
		}
	}

	if len(rows) > 0 {
		last := len(rows) + 1
		total := last + 1
		if err := f.SetCellValue(salesSheet, fmt.Sprintf("A%d", total), "Total"); err != nil {
			return err
		}
		for _, col := range []string{"C", "G", "H"} {
			formula := fmt.Sprintf("SUM(%s2:%s%d)", col, col, last)
			if err := f.SetCellFormula(salesSheet, fmt.Sprintf("%s%d", col, total), formula); err != nil {
				return err
			}
		}
	}

	_, err := f.WriteTo(w)
	return err
}
