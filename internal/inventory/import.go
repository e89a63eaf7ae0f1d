package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"nursery-backend/internal/costing"
	"nursery-backend/internal/models"
	"nursery-backend/internal/store"

	"github.com/shopspring/decimal"
)

// Expected spreadsheet columns, header row included.
var importColumns = []string{"Name", "Category", "Unit", "ItemType", "Quantity", "UnitPrice", "BatchCost"}

type ImportResult struct {
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors"`
}

// ImportRows walks spreadsheet rows (header first) and creates one batch per
// valid row. Bad rows are recorded and skipped; the import never aborts on an
// individual failure.
func ImportRows(st store.Store, rows [][]string) (ImportResult, error) {
	res := ImportResult{Errors: []string{}}

	if len(rows) == 0 {
		res.Errors = append(res.Errors, "the sheet is empty")
		return res, nil
	}
	if err := checkHeader(rows[0]); err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res, nil
	}

	existing, err := st.Inventory().ExistingSKUs()
	if err != nil {
		return res, err
	}

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header
		b, err := parseImportRow(row)
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}

		b.SKU = GenerateSKU(b.Name, b.ItemType, existing)
		if err := st.Inventory().Create(b); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		existing[b.SKU] = struct{}{}
		res.Imported++
	}
	return res, nil
}

func checkHeader(header []string) error {
	if len(header) < len(importColumns) {
		return fmt.Errorf("header row must have the columns %s", strings.Join(importColumns, ", "))
	}
	for i, want := range importColumns {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return fmt.Errorf("header column %d must be %q, got %q", i+1, want, header[i])
		}
	}
	return nil
}

func parseImportRow(row []string) (*models.InventoryBatch, error) {
	if len(row) < len(importColumns) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(importColumns), len(row))
	}
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}

	name := row[0]
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	unit := row[2]
	if unit == "" {
		return nil, fmt.Errorf("unit is required")
	}

	itemType := models.ItemType(strings.ToLower(row[3]))
	switch itemType {
	case models.ItemTypePlant, models.ItemTypeConsumable, models.ItemTypeHoney:
	default:
		return nil, fmt.Errorf("item type %q must be plant, consumable or honey", row[3])
	}

	quantity, err := strconv.Atoi(row[4])
	if err != nil || quantity < 0 {
		return nil, fmt.Errorf("quantity %q must be a non-negative integer", row[4])
	}

	unitPrice, err := decimal.NewFromString(row[5])
	if err != nil || unitPrice.IsNegative() {
		return nil, fmt.Errorf("unit price %q must be a non-negative number", row[5])
	}

	batchCost := decimal.Zero
	if row[6] != "" {
		batchCost, err = decimal.NewFromString(row[6])
		if err != nil || batchCost.IsNegative() {
			return nil, fmt.Errorf("batch cost %q must be a non-negative number", row[6])
		}
	}

	return &models.InventoryBatch{
		Name:            name,
		Category:        row[1],
		Unit:            unit,
		ItemType:        itemType,
		Quantity:        quantity,
		InitialQuantity: quantity,
		UnitPrice:       unitPrice,
		BatchCost:       batchCost,
		CostPerUnit:     costing.CostPerUnit(batchCost, decimal.Zero, quantity),
	}, nil
}
