package sales

import (
	"fmt"
	"time"

	"nursery-backend/internal/apperr"
	"nursery-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/sales/export — same filters as the listing, as an xlsx download.
func ExportSalesHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := filterFromQuery(c)
		if err != nil {
			return err
		}
		sales, err := st.Sales().List(f)
		if err != nil {
			return err
		}

		xlsx := excelize.NewFile()
		defer xlsx.Close()

		sheet := xlsx.GetSheetName(0)
		headers := []string{"Date", "SKU", "Customer", "Quantity", "Unit Price", "Total Amount", "Channel"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			_ = xlsx.SetCellValue(sheet, cell, h)
		}

		for row, s := range sales {
			customerName := ""
			if s.Customer != nil {
				customerName = s.Customer.Name
			}
			values := []any{
				s.SaleDate.Format("2006-01-02"),
				s.SKU,
				customerName,
				s.Quantity,
				s.UnitPrice.InexactFloat64(),
				s.TotalAmount.InexactFloat64(),
				string(s.Channel),
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				_ = xlsx.SetCellValue(sheet, cell, v)
			}
		}

		buf, err := xlsx.WriteToBuffer()
		if err != nil {
			return apperr.Wrap(apperr.KindBackendUnavailable, "the export could not be generated", err)
		}

		filename := fmt.Sprintf("sales-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		return c.Send(buf.Bytes())
	}
}
