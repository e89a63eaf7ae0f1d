package sales

import (
	"errors"
	"testing"

	"nursery-backend/internal/apperr"
	"nursery-backend/internal/models"
	"nursery-backend/internal/store"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func seedBatch(t *testing.T, st store.Store, quantity int, price string) *models.InventoryBatch {
	t.Helper()
	b := &models.InventoryBatch{
		SKU:             "AVO4821",
		Name:            "Avocado Seedling",
		Unit:            "seedling",
		ItemType:        models.ItemTypePlant,
		Quantity:        quantity,
		InitialQuantity: quantity,
		UnitPrice:       d(price),
		BatchCost:       d("2500"),
	}
	if err := st.Inventory().Create(b); err != nil {
		t.Fatalf("seeding batch: %v", err)
	}
	return b
}

func TestRecordSaleDecrementsStockAndTotals(t *testing.T) {
	st := store.NewMemStore()
	b := seedBatch(t, st, 10, "45")

	sale, err := RecordSale(st, RecordSaleInput{BatchID: b.ID, Quantity: 5})
	if err != nil {
		t.Fatalf("RecordSale returned error: %v", err)
	}

	if !sale.TotalAmount.Equal(d("225")) {
		t.Fatalf("total amount = %s, expected 225", sale.TotalAmount)
	}
	if sale.SKU != "AVO4821" {
		t.Fatalf("sale SKU = %q, expected the batch SKU", sale.SKU)
	}
	if sale.Channel != models.ChannelFarmGate {
		t.Fatalf("channel = %q, expected the farm gate default", sale.Channel)
	}
	if sale.SaleDate.IsZero() {
		t.Fatal("sale date was not defaulted")
	}

	after, err := st.Inventory().GetByID(b.ID)
	if err != nil {
		t.Fatalf("refetching batch: %v", err)
	}
	if after.Quantity != 5 {
		t.Fatalf("batch quantity = %d, expected 5 after selling 5 of 10", after.Quantity)
	}
}

func TestRecordSaleInsufficientStockLeavesQuantityAlone(t *testing.T) {
	st := store.NewMemStore()
	b := seedBatch(t, st, 10, "45")

	_, err := RecordSale(st, RecordSaleInput{BatchID: b.ID, Quantity: 11})
	if apperr.KindOf(err) != apperr.KindInsufficientStock {
		t.Fatalf("error kind = %v, expected insufficient stock (err: %v)", apperr.KindOf(err), err)
	}

	after, err := st.Inventory().GetByID(b.ID)
	if err != nil {
		t.Fatalf("refetching batch: %v", err)
	}
	if after.Quantity != 10 {
		t.Fatalf("batch quantity = %d, expected 10 untouched", after.Quantity)
	}
	records, err := st.Sales().List(store.SaleFilter{})
	if err != nil {
		t.Fatalf("listing sales: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("sales recorded = %d, expected none", len(records))
	}
}

func TestRecordSaleRejectsNonPositiveQuantity(t *testing.T) {
	st := store.NewMemStore()
	b := seedBatch(t, st, 10, "45")

	_, err := RecordSale(st, RecordSaleInput{BatchID: b.ID, Quantity: 0})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("error kind = %v, expected validation", apperr.KindOf(err))
	}
}

func TestRecordSaleUnknownBatch(t *testing.T) {
	st := store.NewMemStore()

	_, err := RecordSale(st, RecordSaleInput{BatchID: 999, Quantity: 1})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("error kind = %v, expected not found", apperr.KindOf(err))
	}
}

func TestRecordSaleCreatesInlineCustomer(t *testing.T) {
	st := store.NewMemStore()
	b := seedBatch(t, st, 10, "45")

	sale, err := RecordSale(st, RecordSaleInput{
		BatchID:  b.ID,
		Quantity: 2,
		NewCustomer: &NewCustomerInput{
			Name:    "Amara Okafor",
			Contact: "+234 803 555 0101",
			Town:    "Nsukka",
		},
	})
	if err != nil {
		t.Fatalf("RecordSale returned error: %v", err)
	}
	if sale.CustomerID == nil {
		t.Fatal("sale has no customer after inline creation")
	}

	customer, err := st.Customers().GetByID(*sale.CustomerID)
	if err != nil {
		t.Fatalf("fetching inline customer: %v", err)
	}
	if customer.Name != "Amara Okafor" {
		t.Fatalf("customer name = %q", customer.Name)
	}
}

func TestRecordSaleRejectsUnknownCustomer(t *testing.T) {
	st := store.NewMemStore()
	b := seedBatch(t, st, 10, "45")

	missing := uint(404)
	_, err := RecordSale(st, RecordSaleInput{BatchID: b.ID, Quantity: 1, CustomerID: &missing})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("error kind = %v, expected not found", apperr.KindOf(err))
	}
}

// overlayStore swaps individual repositories over a working MemStore so a
// single step can be made to fail mid-sequence.
type overlayStore struct {
	store.Store
	inv   store.InventoryRepository
	sales store.SaleRepository
}

func (o *overlayStore) Inventory() store.InventoryRepository {
	if o.inv != nil {
		return o.inv
	}
	return o.Store.Inventory()
}

func (o *overlayStore) Sales() store.SaleRepository {
	if o.sales != nil {
		return o.sales
	}
	return o.Store.Sales()
}

type decrementFailInventory struct {
	store.InventoryRepository
	err    error
	refuse bool
}

func (f *decrementFailInventory) DecrementQuantity(id uint, n int) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.refuse {
		return false, nil
	}
	return f.InventoryRepository.DecrementQuantity(id, n)
}

type createFailSales struct {
	store.SaleRepository
	err error
}

func (f *createFailSales) Create(s *models.SaleRecord) error { return f.err }

func TestRecordSaleDecrementFailureIsPartial(t *testing.T) {
	st := store.NewMemStore()
	b := seedBatch(t, st, 10, "45")
	wrapped := &overlayStore{Store: st, inv: &decrementFailInventory{
		InventoryRepository: st.Inventory(),
		err:                 errors.New("connection reset by peer"),
	}}

	sale, err := RecordSale(wrapped, RecordSaleInput{BatchID: b.ID, Quantity: 3})
	if apperr.KindOf(err) != apperr.KindPartialFailure {
		t.Fatalf("error kind = %v, expected partial failure (err: %v)", apperr.KindOf(err), err)
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Step != "inventory_decrement" {
		t.Fatalf("step = %v, expected inventory_decrement", err)
	}
	if sale == nil || sale.ID == 0 {
		t.Fatal("the persisted sale was not returned alongside the partial failure")
	}

	// The sale row stands; stock is untouched.
	records, err := st.Sales().List(store.SaleFilter{})
	if err != nil {
		t.Fatalf("listing sales: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("sales persisted = %d, expected 1", len(records))
	}
	after, err := st.Inventory().GetByID(b.ID)
	if err != nil {
		t.Fatalf("refetching batch: %v", err)
	}
	if after.Quantity != 10 {
		t.Fatalf("batch quantity = %d, expected 10 untouched", after.Quantity)
	}
}

func TestRecordSaleStockRaceIsPartial(t *testing.T) {
	st := store.NewMemStore()
	b := seedBatch(t, st, 10, "45")
	// The conditional update reports no row touched, as if a concurrent sale
	// consumed the stock between the fetch and the decrement.
	wrapped := &overlayStore{Store: st, inv: &decrementFailInventory{
		InventoryRepository: st.Inventory(),
		refuse:              true,
	}}

	sale, err := RecordSale(wrapped, RecordSaleInput{BatchID: b.ID, Quantity: 3})
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindPartialFailure || appErr.Step != "inventory_decrement" {
		t.Fatalf("err = %v, expected a partial failure at inventory_decrement", err)
	}
	if sale == nil {
		t.Fatal("the persisted sale was not returned alongside the partial failure")
	}
}

func TestRecordSaleInsertFailureAfterCustomerIsPartial(t *testing.T) {
	st := store.NewMemStore()
	b := seedBatch(t, st, 10, "45")
	wrapped := &overlayStore{Store: st, sales: &createFailSales{
		SaleRepository: st.Sales(),
		err:            errors.New("disk full"),
	}}

	_, err := RecordSale(wrapped, RecordSaleInput{
		BatchID:  b.ID,
		Quantity: 2,
		NewCustomer: &NewCustomerInput{
			Name: "Amara Okafor",
			Town: "Nsukka",
		},
	})
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindPartialFailure || appErr.Step != "sale_insert" {
		t.Fatalf("err = %v, expected a partial failure at sale_insert", err)
	}

	// The inline customer persists even though the sale never did.
	customers, err := st.Customers().List()
	if err != nil {
		t.Fatalf("listing customers: %v", err)
	}
	if len(customers) != 1 {
		t.Fatalf("customers persisted = %d, expected 1", len(customers))
	}
}

func TestRecordSaleInsertFailureWithoutCustomerIsNotPartial(t *testing.T) {
	st := store.NewMemStore()
	b := seedBatch(t, st, 10, "45")
	wrapped := &overlayStore{Store: st, sales: &createFailSales{
		SaleRepository: st.Sales(),
		err:            errors.New("disk full"),
	}}

	// Nothing persisted before the failing insert, so it is an ordinary error.
	_, err := RecordSale(wrapped, RecordSaleInput{BatchID: b.ID, Quantity: 2})
	if err == nil || apperr.KindOf(err) == apperr.KindPartialFailure {
		t.Fatalf("err = %v, expected a plain failure, not partial", err)
	}
}

func TestRecordSaleRefreshesStoredCost(t *testing.T) {
	st := store.NewMemStore()
	b := seedBatch(t, st, 100, "45")

	if _, err := RecordSale(st, RecordSaleInput{BatchID: b.ID, Quantity: 50}); err != nil {
		t.Fatalf("RecordSale returned error: %v", err)
	}

	after, err := st.Inventory().GetByID(b.ID)
	if err != nil {
		t.Fatalf("refetching batch: %v", err)
	}
	// 2500 spread over the 50 units still in stock.
	if !after.CostPerUnit.Equal(d("50")) {
		t.Fatalf("cost per unit = %s, expected 50 after the quantity halved", after.CostPerUnit)
	}
}
