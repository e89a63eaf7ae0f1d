package store

import (
	"testing"

	"nursery-backend/internal/apperr"
	"nursery-backend/internal/costing"
	"nursery-backend/internal/models"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestMemInventoryRoundTrip(t *testing.T) {
	m := NewMemStore()
	in := &models.InventoryBatch{
		SKU:             "AVO4821",
		Name:            "Avocado Seedling",
		Category:        "Fruit Trees",
		Unit:            "seedling",
		ItemType:        models.ItemTypePlant,
		Quantity:        100,
		InitialQuantity: 100,
		UnitPrice:       d("45"),
		BatchCost:       d("2500"),
		ReadyForSale:    true,
	}
	if err := m.Inventory().Create(in); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if in.ID == 0 {
		t.Fatal("Create did not assign an ID")
	}

	got, err := m.Inventory().GetByID(in.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.SKU != in.SKU || got.Name != in.Name || got.Quantity != in.Quantity ||
		!got.UnitPrice.Equal(in.UnitPrice) || !got.BatchCost.Equal(in.BatchCost) ||
		got.ReadyForSale != in.ReadyForSale {
		t.Fatalf("read back %+v, expected the fields written", got)
	}

	bySKU, err := m.Inventory().GetBySKU("AVO4821")
	if err != nil {
		t.Fatalf("GetBySKU: %v", err)
	}
	if bySKU.ID != in.ID {
		t.Fatalf("GetBySKU returned ID %d, expected %d", bySKU.ID, in.ID)
	}
}

func TestMemInventoryDuplicateSKU(t *testing.T) {
	m := NewMemStore()
	first := &models.InventoryBatch{SKU: "AVO4821", Name: "Avocado", Unit: "seedling", ItemType: models.ItemTypePlant}
	if err := m.Inventory().Create(first); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup := &models.InventoryBatch{SKU: "AVO4821", Name: "Another Avocado", Unit: "seedling", ItemType: models.ItemTypePlant}
	err := m.Inventory().Create(dup)
	if apperr.KindOf(err) != apperr.KindDuplicateKey {
		t.Fatalf("error kind = %v, expected duplicate key", apperr.KindOf(err))
	}
}

func TestMemInventoryConditionalDecrement(t *testing.T) {
	m := NewMemStore()
	b := &models.InventoryBatch{SKU: "MAC1193", Name: "Macadamia", Unit: "seedling", ItemType: models.ItemTypePlant, Quantity: 8}
	if err := m.Inventory().Create(b); err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := m.Inventory().DecrementQuantity(b.ID, 5)
	if err != nil || !updated {
		t.Fatalf("decrement of 5 from 8: updated=%v err=%v", updated, err)
	}

	// 3 left; asking for 4 must refuse and leave the quantity alone.
	updated, err = m.Inventory().DecrementQuantity(b.ID, 4)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if updated {
		t.Fatal("decrement of 4 from 3 reported success")
	}

	got, err := m.Inventory().GetByID(b.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Quantity != 3 {
		t.Fatalf("quantity = %d, expected 3", got.Quantity)
	}
}

func TestMemInventoryListFilters(t *testing.T) {
	m := NewMemStore()
	ready := true
	seed := []models.InventoryBatch{
		{SKU: "AVO4821", Name: "Avocado Seedling", Unit: "seedling", ItemType: models.ItemTypePlant, ReadyForSale: true},
		{SKU: "CON-POT2044", Name: "Poly Pots", Unit: "bag", ItemType: models.ItemTypeConsumable},
		{SKU: "HON-WLD3307", Name: "Wildflower Honey", Unit: "jar", ItemType: models.ItemTypeHoney, ReadyForSale: true},
	}
	for i := range seed {
		if err := m.Inventory().Create(&seed[i]); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	plants, err := m.Inventory().List(InventoryFilter{ItemType: models.ItemTypePlant})
	if err != nil || len(plants) != 1 || plants[0].SKU != "AVO4821" {
		t.Fatalf("plant filter = %v (err %v), expected just AVO4821", plants, err)
	}

	forSale, err := m.Inventory().List(InventoryFilter{ReadyForSale: &ready})
	if err != nil || len(forSale) != 2 {
		t.Fatalf("ready filter returned %d rows (err %v), expected 2", len(forSale), err)
	}

	named, err := m.Inventory().List(InventoryFilter{Query: "honey"})
	if err != nil || len(named) != 1 || named[0].SKU != "HON-WLD3307" {
		t.Fatalf("name filter = %v (err %v), expected just the honey batch", named, err)
	}
}

func TestMemTasksCostsBySKU(t *testing.T) {
	m := NewMemStore()
	avo := "AVO4821"
	tasks := []models.TaskRecord{
		{BatchSKU: &avo, Description: "Weeding", TotalCost: d("500")},
		{BatchSKU: &avo, Description: "Potting", TotalCost: d("250")},
		{BatchSKU: nil, Description: "Fence repair", TotalCost: d("900")},
	}
	for i := range tasks {
		if err := m.Tasks().Create(&tasks[i]); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	sums, err := m.Tasks().CostsBySKU()
	if err != nil {
		t.Fatalf("CostsBySKU: %v", err)
	}
	if !sums[avo].Equal(d("750")) {
		t.Fatalf("costs for %s = %s, expected 750", avo, sums[avo])
	}
	if len(sums) != 1 {
		t.Fatalf("sums = %v, unallocated tasks must not appear", sums)
	}
}

func TestMemNotificationsUnreadDedupe(t *testing.T) {
	m := NewMemStore()
	n := &models.Notification{Kind: models.NotificationLowStock, RefKey: "MAC1193", Message: "low"}
	if err := m.Notifications().Create(n); err != nil {
		t.Fatalf("Create: %v", err)
	}

	exists, err := m.Notifications().HasUnread(models.NotificationLowStock, "MAC1193")
	if err != nil || !exists {
		t.Fatalf("HasUnread = %v, %v; expected true", exists, err)
	}

	if err := m.Notifications().MarkRead(n.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	exists, err = m.Notifications().HasUnread(models.NotificationLowStock, "MAC1193")
	if err != nil || exists {
		t.Fatalf("HasUnread after read = %v, %v; expected false", exists, err)
	}
}

func TestMemUsersEmailUnique(t *testing.T) {
	m := NewMemStore()
	if err := m.Users().Create(&models.User{Email: "owner@example.com", Role: models.RoleOwner}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := m.Users().Create(&models.User{Email: "owner@example.com", Role: models.RoleStaff})
	if apperr.KindOf(err) != apperr.KindDuplicateKey {
		t.Fatalf("error kind = %v, expected duplicate key", apperr.KindOf(err))
	}

	count, err := m.Users().CountByRole(models.RoleOwner)
	if err != nil || count != 1 {
		t.Fatalf("CountByRole = %d, %v; expected 1", count, err)
	}
}

func TestDemoStoreIsSelfConsistent(t *testing.T) {
	m := NewDemoStore()

	batches, err := m.Inventory().List(InventoryFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(batches) == 0 {
		t.Fatal("demo dataset has no inventory")
	}
	skus := map[string]struct{}{}
	for _, b := range batches {
		skus[b.SKU] = struct{}{}
	}

	sales, err := m.Sales().List(SaleFilter{})
	if err != nil {
		t.Fatalf("List sales: %v", err)
	}
	for _, s := range sales {
		if _, ok := skus[s.SKU]; !ok {
			t.Fatalf("demo sale references unknown SKU %q", s.SKU)
		}
		if s.CustomerID != nil {
			if _, err := m.Customers().GetByID(*s.CustomerID); err != nil {
				t.Fatalf("demo sale references unknown customer %d", *s.CustomerID)
			}
		}
	}

	tasks, err := m.Tasks().List(TaskFilter{})
	if err != nil {
		t.Fatalf("List tasks: %v", err)
	}
	for _, task := range tasks {
		if task.BatchSKU == nil {
			continue
		}
		if _, ok := skus[*task.BatchSKU]; !ok {
			t.Fatalf("demo task references unknown SKU %q", *task.BatchSKU)
		}
	}
}

func TestDemoStoreStoredCostsMatchRecompute(t *testing.T) {
	m := NewDemoStore()

	batches, err := m.Inventory().List(InventoryFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	sums, err := m.Tasks().CostsBySKU()
	if err != nil {
		t.Fatalf("CostsBySKU: %v", err)
	}

	for _, b := range batches {
		want := costing.CostPerUnit(b.BatchCost, sums[b.SKU], b.Quantity)
		if !b.CostPerUnit.Equal(want) {
			t.Fatalf("%s stored cost per unit = %s, recompute gives %s", b.SKU, b.CostPerUnit, want)
		}
	}

	// The avocado batch is the worked example the screens lead with.
	avo, err := m.Inventory().GetBySKU("AVO4821")
	if err != nil {
		t.Fatalf("GetBySKU: %v", err)
	}
	if !avo.CostPerUnit.Equal(d("32.5")) {
		t.Fatalf("AVO4821 cost per unit = %s, expected 32.5", avo.CostPerUnit)
	}
}
