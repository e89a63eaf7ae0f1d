package notify

import (
	"fmt"
	"sync"
	"time"

	"nursery-backend/internal/config"
	"nursery-backend/internal/inventory"
	"nursery-backend/internal/models"
	"nursery-backend/internal/store"

	"github.com/sirupsen/logrus"
)

// Tasks falling due within this window raise a notification.
const taskDueWindow = 24 * time.Hour

// Monitor owns the periodic stock/task check. The ticker is an explicit,
// stoppable handle owned by main; RunChecks is callable directly so tests
// never wait on a clock.
type Monitor struct {
	st  store.Store
	cfg *config.Config

	mu     sync.Mutex
	ticker *time.Ticker
	done   chan struct{}
}

func NewMonitor(st store.Store, cfg *config.Config) *Monitor {
	return &Monitor{st: st, cfg: cfg}
}

func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ticker != nil {
		return
	}
	m.ticker = time.NewTicker(m.cfg.MonitorInterval)
	m.done = make(chan struct{})

	go func(ticker *time.Ticker, done chan struct{}) {
		for {
			select {
			case <-ticker.C:
				if _, err := m.RunChecks(); err != nil {
					logrus.WithError(err).Warn("stock/task check failed")
				}
			case <-done:
				return
			}
		}
	}(m.ticker, m.done)
}

func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ticker == nil {
		return
	}
	m.ticker.Stop()
	close(m.done)
	m.ticker = nil
}

// RunChecks scans inventory for low or exhausted batches and tasks due within
// the window, writing one unread notification per finding. Findings already
// covered by an unread notification are skipped, so repeated runs do not spam.
// Returns the number of notifications written.
func (m *Monitor) RunChecks() (int, error) {
	written := 0

	batches, err := m.st.Inventory().List(store.InventoryFilter{})
	if err != nil {
		return written, err
	}
	for i := range batches {
		b := &batches[i]
		var kind models.NotificationKind
		var message string
		switch inventory.StatusFor(b, m.cfg) {
		case inventory.StatusOutOfStock:
			kind = models.NotificationOutOfStock
			message = fmt.Sprintf("%s (%s) is out of stock", b.Name, b.SKU)
		case inventory.StatusLowStock:
			kind = models.NotificationLowStock
			message = fmt.Sprintf("%s (%s) is low on stock: %d %s left", b.Name, b.SKU, b.Quantity, b.Unit)
		default:
			continue
		}

		created, err := m.createOnce(kind, b.SKU, message)
		if err != nil {
			return written, err
		}
		if created {
			written++
		}
	}

	due, err := m.st.Tasks().DueBefore(time.Now().Add(taskDueWindow))
	if err != nil {
		return written, err
	}
	for _, t := range due {
		refKey := fmt.Sprintf("task:%d", t.ID)
		message := fmt.Sprintf("task %q is due %s", t.Description, t.DueDate.Format("2006-01-02"))
		created, err := m.createOnce(models.NotificationTaskDue, refKey, message)
		if err != nil {
			return written, err
		}
		if created {
			written++
		}
	}

	return written, nil
}

func (m *Monitor) createOnce(kind models.NotificationKind, refKey, message string) (bool, error) {
	exists, err := m.st.Notifications().HasUnread(kind, refKey)
	if err != nil || exists {
		return false, err
	}
	err = m.st.Notifications().Create(&models.Notification{
		Kind:    kind,
		RefKey:  refKey,
		Message: message,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
