package store

import (
	"errors"
	"time"

	"nursery-backend/internal/apperr"
	"nursery-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStore is the live Postgres-backed store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) Inventory() InventoryRepository        { return &gormInventory{s.db} }
func (s *GormStore) Tasks() TaskRepository                 { return &gormTasks{s.db} }
func (s *GormStore) Sales() SaleRepository                 { return &gormSales{s.db} }
func (s *GormStore) Customers() CustomerRepository         { return &gormCustomers{s.db} }
func (s *GormStore) Notifications() NotificationRepository { return &gormNotifications{s.db} }
func (s *GormStore) Stories() StoryRepository              { return &gormStories{s.db} }
func (s *GormStore) GreenTowns() GreenTownRepository       { return &gormGreenTowns{s.db} }
func (s *GormStore) Users() UserRepository                 { return &gormUsers{s.db} }

// wrapErr maps GORM errors onto the error taxonomy. notFoundMsg is the
// user-facing message for a missing record.
func wrapErr(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(apperr.KindNotFound, notFoundMsg, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Wrap(apperr.KindDuplicateKey, "a record with that key already exists", err)
	}
	return apperr.Wrap(apperr.KindBackendUnavailable, "the data store could not complete the request", err)
}

type gormInventory struct{ db *gorm.DB }

func (r *gormInventory) List(f InventoryFilter) ([]models.InventoryBatch, error) {
	q := r.db.Model(&models.InventoryBatch{})
	if f.ItemType != "" {
		q = q.Where("item_type = ?", f.ItemType)
	}
	if f.ReadyForSale != nil {
		q = q.Where("ready_for_sale = ?", *f.ReadyForSale)
	}
	if f.Query != "" {
		q = q.Where("name ILIKE ?", "%"+f.Query+"%")
	}
	var batches []models.InventoryBatch
	if err := q.Order("id asc").Find(&batches).Error; err != nil {
		return nil, wrapErr(err, "batches could not be listed")
	}
	return batches, nil
}

func (r *gormInventory) GetByID(id uint) (*models.InventoryBatch, error) {
	var b models.InventoryBatch
	if err := r.db.First(&b, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err, "batch not found")
	}
	return &b, nil
}

func (r *gormInventory) GetBySKU(sku string) (*models.InventoryBatch, error) {
	var b models.InventoryBatch
	if err := r.db.First(&b, "sku = ?", sku).Error; err != nil {
		return nil, wrapErr(err, "batch not found")
	}
	return &b, nil
}

func (r *gormInventory) ExistingSKUs() (map[string]struct{}, error) {
	var skus []string
	if err := r.db.Model(&models.InventoryBatch{}).Pluck("sku", &skus).Error; err != nil {
		return nil, wrapErr(err, "")
	}
	set := make(map[string]struct{}, len(skus))
	for _, s := range skus {
		set[s] = struct{}{}
	}
	return set, nil
}

func (r *gormInventory) Create(b *models.InventoryBatch) error {
	return wrapErr(r.db.Create(b).Error, "")
}

func (r *gormInventory) Update(b *models.InventoryBatch) error {
	return wrapErr(r.db.Save(b).Error, "batch not found")
}

func (r *gormInventory) Delete(id uint) error {
	return wrapErr(r.db.Delete(&models.InventoryBatch{}, "id = ?", id).Error, "batch not found")
}

func (r *gormInventory) DecrementQuantity(id uint, n int) (bool, error) {
	res := r.db.Model(&models.InventoryBatch{}).
		Where("id = ? AND quantity >= ?", id, n).
		Update("quantity", gorm.Expr("quantity - ?", n))
	if res.Error != nil {
		return false, wrapErr(res.Error, "")
	}
	return res.RowsAffected > 0, nil
}

type gormTasks struct{ db *gorm.DB }

func (r *gormTasks) Create(t *models.TaskRecord) error {
	// Child rows are inserted separately so a child failure is a partial
	// failure, not a rollback of the task.
	return wrapErr(r.db.Omit("Consumables").Create(t).Error, "")
}

func (r *gormTasks) CreateConsumable(tc *models.TaskConsumable) error {
	return wrapErr(r.db.Create(tc).Error, "")
}

func (r *gormTasks) List(f TaskFilter) ([]models.TaskRecord, error) {
	q := r.db.Model(&models.TaskRecord{}).Preload("Consumables")
	if f.BatchSKU != "" {
		q = q.Where("batch_sku = ?", f.BatchSKU)
	}
	if f.PendingOnly {
		q = q.Where("completed = false")
	}
	var tasks []models.TaskRecord
	if err := q.Order("id asc").Find(&tasks).Error; err != nil {
		return nil, wrapErr(err, "tasks could not be listed")
	}
	return tasks, nil
}

func (r *gormTasks) GetByID(id uint) (*models.TaskRecord, error) {
	var t models.TaskRecord
	if err := r.db.Preload("Consumables").First(&t, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err, "task not found")
	}
	return &t, nil
}

func (r *gormTasks) MarkCompleted(id uint) error {
	res := r.db.Model(&models.TaskRecord{}).Where("id = ?", id).Update("completed", true)
	if res.Error != nil {
		return wrapErr(res.Error, "")
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "task not found")
	}
	return nil
}

func (r *gormTasks) CostsBySKU() (map[string]decimal.Decimal, error) {
	var rows []struct {
		BatchSKU string
		Total    decimal.Decimal
	}
	err := r.db.Model(&models.TaskRecord{}).
		Select("batch_sku, SUM(total_cost) as total").
		Where("batch_sku IS NOT NULL").
		Group("batch_sku").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapErr(err, "")
	}
	sums := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.BatchSKU] = row.Total
	}
	return sums, nil
}

func (r *gormTasks) DueBefore(t time.Time) ([]models.TaskRecord, error) {
	var tasks []models.TaskRecord
	err := r.db.Where("completed = false AND due_date IS NOT NULL AND due_date <= ?", t).
		Order("due_date asc").
		Find(&tasks).Error
	if err != nil {
		return nil, wrapErr(err, "")
	}
	return tasks, nil
}

type gormSales struct{ db *gorm.DB }

func (r *gormSales) Create(s *models.SaleRecord) error {
	return wrapErr(r.db.Omit("Batch", "Customer").Create(s).Error, "")
}

func (r *gormSales) List(f SaleFilter) ([]models.SaleRecord, error) {
	q := r.db.Model(&models.SaleRecord{}).Preload("Customer")
	if f.SKU != "" {
		q = q.Where("sku = ?", f.SKU)
	}
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.From != nil {
		q = q.Where("sale_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("sale_date <= ?", *f.To)
	}
	var sales []models.SaleRecord
	if err := q.Order("sale_date desc, id desc").Find(&sales).Error; err != nil {
		return nil, wrapErr(err, "sales could not be listed")
	}
	return sales, nil
}

func (r *gormSales) Delete(id uint) error {
	return wrapErr(r.db.Delete(&models.SaleRecord{}, "id = ?", id).Error, "sale not found")
}

type gormCustomers struct{ db *gorm.DB }

func (r *gormCustomers) List() ([]models.Customer, error) {
	var customers []models.Customer
	if err := r.db.Order("name asc").Find(&customers).Error; err != nil {
		return nil, wrapErr(err, "customers could not be listed")
	}
	return customers, nil
}

func (r *gormCustomers) GetByID(id uint) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.First(&c, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err, "customer not found")
	}
	return &c, nil
}

func (r *gormCustomers) Create(c *models.Customer) error {
	return wrapErr(r.db.Create(c).Error, "")
}

func (r *gormCustomers) Update(c *models.Customer) error {
	return wrapErr(r.db.Save(c).Error, "customer not found")
}

func (r *gormCustomers) Delete(id uint) error {
	return wrapErr(r.db.Delete(&models.Customer{}, "id = ?", id).Error, "customer not found")
}

type gormNotifications struct{ db *gorm.DB }

func (r *gormNotifications) Create(n *models.Notification) error {
	return wrapErr(r.db.Create(n).Error, "")
}

func (r *gormNotifications) List(unreadOnly bool) ([]models.Notification, error) {
	q := r.db.Model(&models.Notification{})
	if unreadOnly {
		q = q.Where("read = false")
	}
	var ns []models.Notification
	if err := q.Order("created_at desc").Find(&ns).Error; err != nil {
		return nil, wrapErr(err, "notifications could not be listed")
	}
	return ns, nil
}

func (r *gormNotifications) MarkRead(id uint) error {
	res := r.db.Model(&models.Notification{}).Where("id = ?", id).Update("read", true)
	if res.Error != nil {
		return wrapErr(res.Error, "")
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "notification not found")
	}
	return nil
}

func (r *gormNotifications) HasUnread(kind models.NotificationKind, refKey string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("kind = ? AND ref_key = ? AND read = false", kind, refKey).
		Count(&count).Error
	if err != nil {
		return false, wrapErr(err, "")
	}
	return count > 0, nil
}

type gormStories struct{ db *gorm.DB }

func (r *gormStories) List(publishedOnly bool) ([]models.Story, error) {
	q := r.db.Model(&models.Story{})
	if publishedOnly {
		q = q.Where("published = true")
	}
	var stories []models.Story
	if err := q.Order("created_at desc").Find(&stories).Error; err != nil {
		return nil, wrapErr(err, "stories could not be listed")
	}
	return stories, nil
}

func (r *gormStories) GetByID(id uint) (*models.Story, error) {
	var s models.Story
	if err := r.db.First(&s, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err, "story not found")
	}
	return &s, nil
}

func (r *gormStories) GetBySlug(slug string) (*models.Story, error) {
	var s models.Story
	if err := r.db.First(&s, "slug = ?", slug).Error; err != nil {
		return nil, wrapErr(err, "story not found")
	}
	return &s, nil
}

func (r *gormStories) Create(s *models.Story) error {
	return wrapErr(r.db.Create(s).Error, "")
}

func (r *gormStories) Update(s *models.Story) error {
	return wrapErr(r.db.Save(s).Error, "story not found")
}

func (r *gormStories) Delete(id uint) error {
	return wrapErr(r.db.Delete(&models.Story{}, "id = ?", id).Error, "story not found")
}

type gormGreenTowns struct{ db *gorm.DB }

func (r *gormGreenTowns) List() ([]models.GreenTown, error) {
	var towns []models.GreenTown
	if err := r.db.Preload("Photos").Order("name asc").Find(&towns).Error; err != nil {
		return nil, wrapErr(err, "green towns could not be listed")
	}
	return towns, nil
}

func (r *gormGreenTowns) GetByID(id uint) (*models.GreenTown, error) {
	var g models.GreenTown
	if err := r.db.Preload("Photos").First(&g, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err, "green town not found")
	}
	return &g, nil
}

func (r *gormGreenTowns) Create(g *models.GreenTown) error {
	return wrapErr(r.db.Create(g).Error, "")
}

func (r *gormGreenTowns) Update(g *models.GreenTown) error {
	return wrapErr(r.db.Omit("Photos").Save(g).Error, "green town not found")
}

func (r *gormGreenTowns) Delete(id uint) error {
	if err := r.db.Delete(&models.GreenTownPhoto{}, "green_town_id = ?", id).Error; err != nil {
		return wrapErr(err, "")
	}
	return wrapErr(r.db.Delete(&models.GreenTown{}, "id = ?", id).Error, "green town not found")
}

func (r *gormGreenTowns) AddPhoto(p *models.GreenTownPhoto) error {
	return wrapErr(r.db.Create(p).Error, "")
}

func (r *gormGreenTowns) DeletePhoto(id uint) error {
	return wrapErr(r.db.Delete(&models.GreenTownPhoto{}, "id = ?", id).Error, "photo not found")
}

type gormUsers struct{ db *gorm.DB }

func (r *gormUsers) Create(u *models.User) error {
	return wrapErr(r.db.Create(u).Error, "")
}

func (r *gormUsers) GetByEmail(email string) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, "email = ?", email).Error; err != nil {
		return nil, wrapErr(err, "user not found")
	}
	return &u, nil
}

func (r *gormUsers) GetByID(id uint) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err, "user not found")
	}
	return &u, nil
}

func (r *gormUsers) CountByRole(role models.UserRole) (int64, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, wrapErr(err, "")
	}
	return count, nil
}
