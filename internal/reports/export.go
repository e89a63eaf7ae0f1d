package reports

import (
	"fmt"
	"time"

	"nursery-backend/internal/apperr"
	"nursery-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/reports/profitability/export — the report as an xlsx download.
func ExportProfitabilityHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		batches, tasks, sales, err := loadReportInputs(st)
		if err != nil {
			return err
		}
		rows := BuildProfitabilityReport(batches, tasks, sales)

		xlsx := excelize.NewFile()
		defer xlsx.Close()

		sheet := xlsx.GetSheetName(0)
		headers := []string{"SKU", "Name", "Type", "In Stock", "Unit Price", "Batch Cost",
			"Task Costs", "Cost/Unit", "Profit/Unit", "Margin %", "Units Sold",
			"Revenue", "Profit Realized", "Potential Profit"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			_ = xlsx.SetCellValue(sheet, cell, h)
		}

		for i, row := range rows {
			values := []any{
				row.SKU,
				row.Name,
				string(row.ItemType),
				row.Quantity,
				row.UnitPrice.InexactFloat64(),
				row.BatchCost.InexactFloat64(),
				row.TaskCosts.InexactFloat64(),
				row.CostPerUnit.InexactFloat64(),
				row.ProfitPerUnit.InexactFloat64(),
				row.ProfitMarginPercent.InexactFloat64(),
				row.UnitsSold,
				row.RevenueGenerated.InexactFloat64(),
				row.ProfitRealized.InexactFloat64(),
				row.PotentialBatchProfit.InexactFloat64(),
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
				_ = xlsx.SetCellValue(sheet, cell, v)
			}
		}

		buf, err := xlsx.WriteToBuffer()
		if err != nil {
			return apperr.Wrap(apperr.KindBackendUnavailable, "the export could not be generated", err)
		}

		filename := fmt.Sprintf("profitability-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		return c.Send(buf.Bytes())
	}
}
