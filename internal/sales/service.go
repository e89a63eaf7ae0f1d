package sales

import (
	"time"

	"nursery-backend/internal/apperr"
	"nursery-backend/internal/costing"
	"nursery-backend/internal/models"
	"nursery-backend/internal/store"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type NewCustomerInput struct {
	Name    string
	Contact string
	Email   string
	Town    string
}

type RecordSaleInput struct {
	BatchID    uint
	Quantity   int
	SaleDate   time.Time
	Channel    models.SaleChannel
	CustomerID *uint
	// NewCustomer creates the customer inline before the sale. If that fails
	// the sale is aborted entirely.
	NewCustomer *NewCustomerInput
}

// RecordSale runs the sale sequence: fetch and validate the batch, create the
// inline customer if requested, insert the sale, then decrement stock with a
// conditional update. There is no compensating rollback across steps; a
// failure after a persisted step is reported as a partial failure naming the
// step and the state left behind.
func RecordSale(st store.Store, in RecordSaleInput) (*models.SaleRecord, error) {
	batch, err := st.Inventory().GetByID(in.BatchID)
	if err != nil {
		return nil, err
	}

	if in.Quantity < 1 {
		return nil, apperr.New(apperr.KindValidation, "quantity must be at least 1")
	}
	if in.Quantity > batch.Quantity {
		return nil, apperr.Newf(apperr.KindInsufficientStock,
			"requested %d units of %s but only %d are in stock", in.Quantity, batch.SKU, batch.Quantity)
	}

	customerID := in.CustomerID
	customerCreated := false
	if in.NewCustomer != nil {
		customer := models.Customer{
			Name:    in.NewCustomer.Name,
			Contact: in.NewCustomer.Contact,
			Email:   in.NewCustomer.Email,
			Town:    in.NewCustomer.Town,
		}
		if err := st.Customers().Create(&customer); err != nil {
			return nil, &apperr.Error{
				Kind:    apperr.KindOr(err, apperr.KindBackendUnavailable),
				Message: "the customer could not be created; no sale was recorded",
				Step:    "customer",
				Err:     err,
			}
		}
		customerID = &customer.ID
		customerCreated = true
	} else if customerID != nil {
		if _, err := st.Customers().GetByID(*customerID); err != nil {
			return nil, err
		}
	}

	saleDate := in.SaleDate
	if saleDate.IsZero() {
		saleDate = time.Now()
	}
	channel := in.Channel
	if channel == "" {
		channel = models.ChannelFarmGate
	}

	sale := models.SaleRecord{
		InventoryBatchID: batch.ID,
		SKU:              batch.SKU,
		CustomerID:       customerID,
		Quantity:         in.Quantity,
		UnitPrice:        batch.UnitPrice,
		TotalAmount:      batch.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))),
		SaleDate:         saleDate,
		Channel:          channel,
	}
	if err := st.Sales().Create(&sale); err != nil {
		if customerCreated {
			return nil, apperr.Partial("sale_insert",
				"the customer was saved but the sale could not be recorded", err)
		}
		return nil, err
	}

	updated, err := st.Inventory().DecrementQuantity(batch.ID, in.Quantity)
	if err != nil {
		return &sale, apperr.Partial("inventory_decrement",
			"the sale was recorded but inventory was not updated", err)
	}
	if !updated {
		// A concurrent sale consumed the stock between the fetch and the
		// conditional update. The sale row stands; stock stays untouched.
		return &sale, apperr.Partial("inventory_decrement",
			"the sale was recorded but inventory was not updated: stock changed while the sale was in flight", nil)
	}

	// Quantity changed, so the stored amortized cost is stale.
	if err := refreshBatchCost(st, batch.SKU); err != nil {
		logrus.WithError(err).WithField("sku", batch.SKU).
			Warn("stored cost per unit could not be refreshed after sale")
	}

	return &sale, nil
}

func refreshBatchCost(st store.Store, sku string) error {
	b, err := st.Inventory().GetBySKU(sku)
	if err != nil {
		return err
	}
	sums, err := st.Tasks().CostsBySKU()
	if err != nil {
		return err
	}
	b.CostPerUnit = costing.CostPerUnit(b.BatchCost, sums[sku], b.Quantity)
	return st.Inventory().Update(b)
}
