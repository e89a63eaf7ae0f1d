// Package store abstracts persistence behind repository interfaces with two
// implementations: the live Postgres store and a seeded in-memory fixture used
// when the backend is unreachable (demo mode). Handlers and services only see
// the interfaces, so the fallback is a startup decision, not a per-screen
// conditional.
package store

import (
	"time"

	"nursery-backend/internal/models"

	"github.com/shopspring/decimal"
)

type Store interface {
	Inventory() InventoryRepository
	Tasks() TaskRepository
	Sales() SaleRepository
	Customers() CustomerRepository
	Notifications() NotificationRepository
	Stories() StoryRepository
	GreenTowns() GreenTownRepository
	Users() UserRepository
}

type InventoryFilter struct {
	ItemType     models.ItemType // empty = all
	ReadyForSale *bool
	Query        string // case-insensitive substring on name
}

type InventoryRepository interface {
	List(f InventoryFilter) ([]models.InventoryBatch, error)
	GetByID(id uint) (*models.InventoryBatch, error)
	GetBySKU(sku string) (*models.InventoryBatch, error)
	// ExistingSKUs returns a freshly fetched set for collision checks.
	ExistingSKUs() (map[string]struct{}, error)
	Create(b *models.InventoryBatch) error
	Update(b *models.InventoryBatch) error
	Delete(id uint) error
	// DecrementQuantity applies a conditional decrement
	// (quantity = quantity - n where quantity >= n) and reports whether a row
	// was updated. It never drives quantity negative.
	DecrementQuantity(id uint, n int) (bool, error)
}

type TaskFilter struct {
	BatchSKU    string
	PendingOnly bool
}

type TaskRepository interface {
	Create(t *models.TaskRecord) error
	CreateConsumable(tc *models.TaskConsumable) error
	List(f TaskFilter) ([]models.TaskRecord, error)
	GetByID(id uint) (*models.TaskRecord, error)
	MarkCompleted(id uint) error
	// CostsBySKU sums task total costs grouped by batch SKU. Tasks without a
	// batch allocation are excluded.
	CostsBySKU() (map[string]decimal.Decimal, error)
	DueBefore(t time.Time) ([]models.TaskRecord, error)
}

type SaleFilter struct {
	SKU        string
	CustomerID *uint
	From       *time.Time
	To         *time.Time
}

type SaleRepository interface {
	Create(s *models.SaleRecord) error
	List(f SaleFilter) ([]models.SaleRecord, error)
	Delete(id uint) error
}

type CustomerRepository interface {
	List() ([]models.Customer, error)
	GetByID(id uint) (*models.Customer, error)
	Create(c *models.Customer) error
	Update(c *models.Customer) error
	Delete(id uint) error
}

type NotificationRepository interface {
	Create(n *models.Notification) error
	List(unreadOnly bool) ([]models.Notification, error)
	MarkRead(id uint) error
	HasUnread(kind models.NotificationKind, refKey string) (bool, error)
}

type StoryRepository interface {
	List(publishedOnly bool) ([]models.Story, error)
	GetByID(id uint) (*models.Story, error)
	GetBySlug(slug string) (*models.Story, error)
	Create(s *models.Story) error
	Update(s *models.Story) error
	Delete(id uint) error
}

type GreenTownRepository interface {
	List() ([]models.GreenTown, error)
	GetByID(id uint) (*models.GreenTown, error)
	Create(g *models.GreenTown) error
	Update(g *models.GreenTown) error
	Delete(id uint) error
	AddPhoto(p *models.GreenTownPhoto) error
	DeletePhoto(id uint) error
}

type UserRepository interface {
	Create(u *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	CountByRole(role models.UserRole) (int64, error)
}
