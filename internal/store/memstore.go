package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"nursery-backend/internal/apperr"
	"nursery-backend/internal/models"

	"github.com/shopspring/decimal"
)

// MemStore is the in-memory fixture store. It backs demo mode and tests:
// reads serve the seeded dataset, writes are accepted but volatile. Iteration
// order is stable (ascending ID) so screens and fixtures are reproducible.
type MemStore struct {
	mu sync.RWMutex

	batches       map[uint]models.InventoryBatch
	tasks         map[uint]models.TaskRecord
	consumables   map[uint]models.TaskConsumable
	sales         map[uint]models.SaleRecord
	customers     map[uint]models.Customer
	notifications map[uint]models.Notification
	stories       map[uint]models.Story
	towns         map[uint]models.GreenTown
	photos        map[uint]models.GreenTownPhoto
	users         map[uint]models.User

	nextID map[string]uint
}

func NewMemStore() *MemStore {
	return &MemStore{
		batches:       map[uint]models.InventoryBatch{},
		tasks:         map[uint]models.TaskRecord{},
		consumables:   map[uint]models.TaskConsumable{},
		sales:         map[uint]models.SaleRecord{},
		customers:     map[uint]models.Customer{},
		notifications: map[uint]models.Notification{},
		stories:       map[uint]models.Story{},
		towns:         map[uint]models.GreenTown{},
		photos:        map[uint]models.GreenTownPhoto{},
		users:         map[uint]models.User{},
		nextID:        map[string]uint{},
	}
}

func (m *MemStore) assignID(table string) uint {
	m.nextID[table]++
	return m.nextID[table]
}

func sortedKeys[V any](src map[uint]V) []uint {
	keys := make([]uint, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (m *MemStore) Inventory() InventoryRepository        { return &memInventory{m} }
func (m *MemStore) Tasks() TaskRepository                 { return &memTasks{m} }
func (m *MemStore) Sales() SaleRepository                 { return &memSales{m} }
func (m *MemStore) Customers() CustomerRepository         { return &memCustomers{m} }
func (m *MemStore) Notifications() NotificationRepository { return &memNotifications{m} }
func (m *MemStore) Stories() StoryRepository              { return &memStories{m} }
func (m *MemStore) GreenTowns() GreenTownRepository       { return &memGreenTowns{m} }
func (m *MemStore) Users() UserRepository                 { return &memUsers{m} }

type memInventory struct{ s *MemStore }

func (r *memInventory) List(f InventoryFilter) ([]models.InventoryBatch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.InventoryBatch, 0, len(r.s.batches))
	for _, id := range sortedKeys(r.s.batches) {
		b := r.s.batches[id]
		if f.ItemType != "" && b.ItemType != f.ItemType {
			continue
		}
		if f.ReadyForSale != nil && b.ReadyForSale != *f.ReadyForSale {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(b.Name), strings.ToLower(f.Query)) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *memInventory) GetByID(id uint) (*models.InventoryBatch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.batches[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "batch not found")
	}
	return &b, nil
}

func (r *memInventory) GetBySKU(sku string) (*models.InventoryBatch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, id := range sortedKeys(r.s.batches) {
		if r.s.batches[id].SKU == sku {
			b := r.s.batches[id]
			return &b, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "batch not found")
}

func (r *memInventory) ExistingSKUs() (map[string]struct{}, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	set := make(map[string]struct{}, len(r.s.batches))
	for _, b := range r.s.batches {
		set[b.SKU] = struct{}{}
	}
	return set, nil
}

func (r *memInventory) Create(b *models.InventoryBatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.batches {
		if existing.SKU == b.SKU {
			return apperr.New(apperr.KindDuplicateKey, "a record with that key already exists")
		}
	}
	b.ID = r.s.assignID("batches")
	now := time.Now()
	b.CreatedAt, b.UpdatedAt = now, now
	r.s.batches[b.ID] = *b
	return nil
}

func (r *memInventory) Update(b *models.InventoryBatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.batches[b.ID]; !ok {
		return apperr.New(apperr.KindNotFound, "batch not found")
	}
	b.UpdatedAt = time.Now()
	r.s.batches[b.ID] = *b
	return nil
}

func (r *memInventory) Delete(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.batches, id)
	return nil
}

func (r *memInventory) DecrementQuantity(id uint, n int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.batches[id]
	if !ok || b.Quantity < n {
		return false, nil
	}
	b.Quantity -= n
	b.UpdatedAt = time.Now()
	r.s.batches[id] = b
	return true, nil
}

type memTasks struct{ s *MemStore }

func (r *memTasks) Create(t *models.TaskRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = r.s.assignID("tasks")
	now := time.Now()
	t.CreatedAt, t.UpdatedAt = now, now
	stored := *t
	stored.Consumables = nil
	r.s.tasks[t.ID] = stored
	return nil
}

func (r *memTasks) CreateConsumable(tc *models.TaskConsumable) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tc.ID = r.s.assignID("task_consumables")
	tc.CreatedAt = time.Now()
	r.s.consumables[tc.ID] = *tc
	return nil
}

func (r *memTasks) withChildren(t models.TaskRecord) models.TaskRecord {
	for _, id := range sortedKeys(r.s.consumables) {
		tc := r.s.consumables[id]
		if tc.TaskRecordID == t.ID {
			t.Consumables = append(t.Consumables, tc)
		}
	}
	return t
}

func (r *memTasks) List(f TaskFilter) ([]models.TaskRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.TaskRecord, 0, len(r.s.tasks))
	for _, id := range sortedKeys(r.s.tasks) {
		t := r.s.tasks[id]
		if f.BatchSKU != "" && (t.BatchSKU == nil || *t.BatchSKU != f.BatchSKU) {
			continue
		}
		if f.PendingOnly && t.Completed {
			continue
		}
		out = append(out, r.withChildren(t))
	}
	return out, nil
}

func (r *memTasks) GetByID(id uint) (*models.TaskRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "task not found")
	}
	t = r.withChildren(t)
	return &t, nil
}

func (r *memTasks) MarkCompleted(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return apperr.New(apperr.KindNotFound, "task not found")
	}
	t.Completed = true
	t.UpdatedAt = time.Now()
	r.s.tasks[id] = t
	return nil
}

func (r *memTasks) CostsBySKU() (map[string]decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sums := map[string]decimal.Decimal{}
	for _, t := range r.s.tasks {
		if t.BatchSKU == nil {
			continue
		}
		sums[*t.BatchSKU] = sums[*t.BatchSKU].Add(t.TotalCost)
	}
	return sums, nil
}

func (r *memTasks) DueBefore(deadline time.Time) ([]models.TaskRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.TaskRecord
	for _, id := range sortedKeys(r.s.tasks) {
		t := r.s.tasks[id]
		if !t.Completed && t.DueDate != nil && !t.DueDate.After(deadline) {
			out = append(out, t)
		}
	}
	return out, nil
}

type memSales struct{ s *MemStore }

func (r *memSales) Create(sale *models.SaleRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sale.ID = r.s.assignID("sales")
	now := time.Now()
	sale.CreatedAt, sale.UpdatedAt = now, now
	stored := *sale
	stored.Batch = models.InventoryBatch{}
	stored.Customer = nil
	r.s.sales[sale.ID] = stored
	return nil
}

func (r *memSales) List(f SaleFilter) ([]models.SaleRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.SaleRecord, 0, len(r.s.sales))
	for _, id := range sortedKeys(r.s.sales) {
		sale := r.s.sales[id]
		if f.SKU != "" && sale.SKU != f.SKU {
			continue
		}
		if f.CustomerID != nil && (sale.CustomerID == nil || *sale.CustomerID != *f.CustomerID) {
			continue
		}
		if f.From != nil && sale.SaleDate.Before(*f.From) {
			continue
		}
		if f.To != nil && sale.SaleDate.After(*f.To) {
			continue
		}
		if sale.CustomerID != nil {
			if c, ok := r.s.customers[*sale.CustomerID]; ok {
				cc := c
				sale.Customer = &cc
			}
		}
		out = append(out, sale)
	}
	// Newest first, matching the live store.
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SaleDate.Equal(out[j].SaleDate) {
			return out[i].SaleDate.After(out[j].SaleDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *memSales) Delete(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sales, id)
	return nil
}

type memCustomers struct{ s *MemStore }

func (r *memCustomers) List() ([]models.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.Customer, 0, len(r.s.customers))
	for _, id := range sortedKeys(r.s.customers) {
		out = append(out, r.s.customers[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memCustomers) GetByID(id uint) (*models.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "customer not found")
	}
	return &c, nil
}

func (r *memCustomers) Create(c *models.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.assignID("customers")
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	r.s.customers[c.ID] = *c
	return nil
}

func (r *memCustomers) Update(c *models.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[c.ID]; !ok {
		return apperr.New(apperr.KindNotFound, "customer not found")
	}
	c.UpdatedAt = time.Now()
	r.s.customers[c.ID] = *c
	return nil
}

func (r *memCustomers) Delete(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.customers, id)
	return nil
}

type memNotifications struct{ s *MemStore }

func (r *memNotifications) Create(n *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n.ID = r.s.assignID("notifications")
	now := time.Now()
	n.CreatedAt, n.UpdatedAt = now, now
	r.s.notifications[n.ID] = *n
	return nil
}

func (r *memNotifications) List(unreadOnly bool) ([]models.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.Notification, 0, len(r.s.notifications))
	keys := sortedKeys(r.s.notifications)
	// Newest first.
	for i := len(keys) - 1; i >= 0; i-- {
		n := r.s.notifications[keys[i]]
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *memNotifications) MarkRead(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok {
		return apperr.New(apperr.KindNotFound, "notification not found")
	}
	n.Read = true
	n.UpdatedAt = time.Now()
	r.s.notifications[id] = n
	return nil
}

func (r *memNotifications) HasUnread(kind models.NotificationKind, refKey string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, n := range r.s.notifications {
		if n.Kind == kind && n.RefKey == refKey && !n.Read {
			return true, nil
		}
	}
	return false, nil
}

type memStories struct{ s *MemStore }

func (r *memStories) List(publishedOnly bool) ([]models.Story, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.Story, 0, len(r.s.stories))
	keys := sortedKeys(r.s.stories)
	for i := len(keys) - 1; i >= 0; i-- {
		st := r.s.stories[keys[i]]
		if publishedOnly && !st.Published {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

func (r *memStories) GetByID(id uint) (*models.Story, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st, ok := r.s.stories[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "story not found")
	}
	return &st, nil
}

func (r *memStories) GetBySlug(slug string) (*models.Story, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, st := range r.s.stories {
		if st.Slug == slug {
			found := st
			return &found, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "story not found")
}

func (r *memStories) Create(st *models.Story) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.stories {
		if existing.Slug == st.Slug {
			return apperr.New(apperr.KindDuplicateKey, "a record with that key already exists")
		}
	}
	st.ID = r.s.assignID("stories")
	now := time.Now()
	st.CreatedAt, st.UpdatedAt = now, now
	r.s.stories[st.ID] = *st
	return nil
}

func (r *memStories) Update(st *models.Story) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.stories[st.ID]; !ok {
		return apperr.New(apperr.KindNotFound, "story not found")
	}
	st.UpdatedAt = time.Now()
	r.s.stories[st.ID] = *st
	return nil
}

func (r *memStories) Delete(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.stories, id)
	return nil
}

type memGreenTowns struct{ s *MemStore }

func (r *memGreenTowns) withPhotos(g models.GreenTown) models.GreenTown {
	for _, id := range sortedKeys(r.s.photos) {
		p := r.s.photos[id]
		if p.GreenTownID == g.ID {
			g.Photos = append(g.Photos, p)
		}
	}
	return g
}

func (r *memGreenTowns) List() ([]models.GreenTown, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.GreenTown, 0, len(r.s.towns))
	for _, id := range sortedKeys(r.s.towns) {
		out = append(out, r.withPhotos(r.s.towns[id]))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memGreenTowns) GetByID(id uint) (*models.GreenTown, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	g, ok := r.s.towns[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "green town not found")
	}
	g = r.withPhotos(g)
	return &g, nil
}

func (r *memGreenTowns) Create(g *models.GreenTown) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g.ID = r.s.assignID("green_towns")
	now := time.Now()
	g.CreatedAt, g.UpdatedAt = now, now
	stored := *g
	stored.Photos = nil
	r.s.towns[g.ID] = stored
	return nil
}

func (r *memGreenTowns) Update(g *models.GreenTown) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.towns[g.ID]; !ok {
		return apperr.New(apperr.KindNotFound, "green town not found")
	}
	g.UpdatedAt = time.Now()
	stored := *g
	stored.Photos = nil
	r.s.towns[g.ID] = stored
	return nil
}

func (r *memGreenTowns) Delete(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for pid, p := range r.s.photos {
		if p.GreenTownID == id {
			delete(r.s.photos, pid)
		}
	}
	delete(r.s.towns, id)
	return nil
}

func (r *memGreenTowns) AddPhoto(p *models.GreenTownPhoto) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.towns[p.GreenTownID]; !ok {
		return apperr.New(apperr.KindNotFound, "green town not found")
	}
	p.ID = r.s.assignID("green_town_photos")
	p.CreatedAt = time.Now()
	r.s.photos[p.ID] = *p
	return nil
}

func (r *memGreenTowns) DeletePhoto(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.photos, id)
	return nil
}

type memUsers struct{ s *MemStore }

func (r *memUsers) Create(u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return apperr.New(apperr.KindDuplicateKey, "a record with that key already exists")
		}
	}
	u.ID = r.s.assignID("users")
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = *u
	return nil
}

func (r *memUsers) GetByEmail(email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "user not found")
}

func (r *memUsers) GetByID(id uint) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}
	return &u, nil
}

func (r *memUsers) CountByRole(role models.UserRole) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var count int64
	for _, u := range r.s.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}
