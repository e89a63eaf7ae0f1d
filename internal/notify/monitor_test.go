package notify

import (
	"testing"
	"time"

	"nursery-backend/internal/config"
	"nursery-backend/internal/models"
	"nursery-backend/internal/store"
)

func testConfig() *config.Config {
	return &config.Config{
		LowStockThresholdPlants:      10,
		LowStockThresholdConsumables: 20,
		MonitorInterval:              time.Hour,
	}
}

func seedMonitorStore(t *testing.T) *store.MemStore {
	t.Helper()
	m := store.NewMemStore()
	batches := []models.InventoryBatch{
		{SKU: "AVO4821", Name: "Avocado Seedling", Unit: "seedling", ItemType: models.ItemTypePlant, Quantity: 100},
		{SKU: "MAC1193", Name: "Macadamia Seedling", Unit: "seedling", ItemType: models.ItemTypePlant, Quantity: 8},
		{SKU: "CON-POT2044", Name: "Poly Pots", Unit: "bag", ItemType: models.ItemTypeConsumable, Quantity: 0},
	}
	for i := range batches {
		if err := m.Inventory().Create(&batches[i]); err != nil {
			t.Fatalf("seeding batch: %v", err)
		}
	}
	return m
}

func kindsByRefKey(t *testing.T, st store.Store) map[string]models.NotificationKind {
	t.Helper()
	list, err := st.Notifications().List(true)
	if err != nil {
		t.Fatalf("listing notifications: %v", err)
	}
	out := map[string]models.NotificationKind{}
	for _, n := range list {
		out[n.RefKey] = n.Kind
	}
	return out
}

func TestRunChecksFlagsLowAndExhaustedStock(t *testing.T) {
	st := seedMonitorStore(t)
	m := NewMonitor(st, testConfig())

	written, err := m.RunChecks()
	if err != nil {
		t.Fatalf("RunChecks: %v", err)
	}
	if written != 2 {
		t.Fatalf("written = %d, expected 2 (one low, one out)", written)
	}

	kinds := kindsByRefKey(t, st)
	if kinds["MAC1193"] != models.NotificationLowStock {
		t.Fatalf("MAC1193 kind = %q, expected low stock", kinds["MAC1193"])
	}
	if kinds["CON-POT2044"] != models.NotificationOutOfStock {
		t.Fatalf("CON-POT2044 kind = %q, expected out of stock", kinds["CON-POT2044"])
	}
	if _, flagged := kinds["AVO4821"]; flagged {
		t.Fatal("healthy batch AVO4821 was flagged")
	}
}

func TestRunChecksDoesNotRepeatUnreadFindings(t *testing.T) {
	st := seedMonitorStore(t)
	m := NewMonitor(st, testConfig())

	if _, err := m.RunChecks(); err != nil {
		t.Fatalf("first run: %v", err)
	}
	written, err := m.RunChecks()
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if written != 0 {
		t.Fatalf("second run wrote %d notifications, expected 0", written)
	}
}

func TestRunChecksReflagsAfterRead(t *testing.T) {
	st := seedMonitorStore(t)
	m := NewMonitor(st, testConfig())

	if _, err := m.RunChecks(); err != nil {
		t.Fatalf("first run: %v", err)
	}
	list, err := st.Notifications().List(true)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	for _, n := range list {
		if err := st.Notifications().MarkRead(n.ID); err != nil {
			t.Fatalf("marking read: %v", err)
		}
	}

	// The findings still hold, so a fresh unread notice is warranted.
	written, err := m.RunChecks()
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if written != 2 {
		t.Fatalf("written after read = %d, expected 2", written)
	}
}

func TestRunChecksFlagsTasksDueSoon(t *testing.T) {
	st := seedMonitorStore(t)
	m := NewMonitor(st, testConfig())

	soon := time.Now().Add(2 * time.Hour)
	farOff := time.Now().Add(72 * time.Hour)
	tasks := []models.TaskRecord{
		{Description: "Water the nursery beds", DueDate: &soon},
		{Description: "Order fertilizer", DueDate: &farOff},
		{Description: "Already finished", DueDate: &soon, Completed: true},
	}
	for i := range tasks {
		if err := st.Tasks().Create(&tasks[i]); err != nil {
			t.Fatalf("seeding task: %v", err)
		}
	}

	if _, err := m.RunChecks(); err != nil {
		t.Fatalf("RunChecks: %v", err)
	}

	kinds := kindsByRefKey(t, st)
	dueCount := 0
	for _, k := range kinds {
		if k == models.NotificationTaskDue {
			dueCount++
		}
	}
	if dueCount != 1 {
		t.Fatalf("task-due notifications = %d, expected only the one due soon", dueCount)
	}
}

func TestMonitorStartStopIdempotent(t *testing.T) {
	m := NewMonitor(store.NewMemStore(), testConfig())

	m.Start()
	m.Start() // second start is a no-op
	m.Stop()
	m.Stop() // second stop is a no-op

	m.Start()
	m.Stop()
}
