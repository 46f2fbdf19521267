package repositories

import (
	"time"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
	"github.com/shashiranjanraj/vastra/pkg/orm"
)

// HistoryRow is one flat row of the order-history join: one order detail
// with its parent order and (possibly absent) catalog item. Orders without
// details and details whose item is gone still produce a row, with the
// missing columns left at their zero values.
type HistoryRow struct {
	OrderID   uint      `json:"orderId"`
	UserID    uint      `json:"userId"`
	Status    string    `json:"status"`
	OrderDate time.Time `json:"orderDate"`
	DetailID  uint      `json:"detailId"`
	ItemID    uint      `json:"itemId"`
	Qty       int       `json:"qty"`
	Price     int64     `json:"price"`
	ItemName  string    `json:"itemName"`
	ItemPhoto string    `json:"itemPhoto"`
}

// OrderRepository handles database operations for orders and their details.
type OrderRepository struct {
	db *orm.DB
}

func NewOrderRepository(db *orm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists a new order header.
func (r *OrderRepository) Create(order *models.Order) error {
	return r.db.Create(order)
}

// CreateDetail persists one order line.
func (r *OrderRepository) CreateDetail(detail *models.OrderDetail) error {
	return r.db.Create(detail)
}

// FindByID loads one order with its details.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var order models.Order
	if err := r.db.Model(&models.Order{}).Where("id = ?", id).First(&order); err != nil {
		return order, err
	}
	err := r.db.Model(&models.OrderDetail{}).
		Where("order_id = ?", order.ID).
		Get(&order.Details)
	return order, err
}

// HistoryRows returns the flat join for a user's confirmed orders:
// orders LEFT JOIN order_details LEFT JOIN items. COALESCE keeps the
// scan happy when a join leg is absent.
func (r *OrderRepository) HistoryRows(userID uint) ([]HistoryRow, error) {
	defer metrics.ObserveDBQuery("order_history_join", time.Now())

	var rows []HistoryRow
	err := r.db.Raw(`
		SELECT o.id                      AS order_id,
		       o.user_id                 AS user_id,
		       o.status                  AS status,
		       o.order_date              AS order_date,
		       COALESCE(od.id, 0)        AS detail_id,
		       COALESCE(od.item_id, 0)   AS item_id,
		       COALESCE(od.qty, 0)       AS qty,
		       COALESCE(od.price, 0)     AS price,
		       COALESCE(i.name, '')      AS item_name,
		       COALESCE(i.photo, '')     AS item_photo
		FROM orders o
		LEFT JOIN order_details od ON od.order_id = o.id AND od.deleted_at IS NULL
		LEFT JOIN items i          ON i.id = od.item_id  AND i.deleted_at IS NULL
		WHERE o.user_id = ? AND o.status = ? AND o.deleted_at IS NULL
		ORDER BY o.order_date DESC, o.id DESC, od.id ASC`,
		&rows, userID, models.OrderStatusConfirmed)
	return rows, err
}

// PurgeStalePending hard-deletes Pending orders older than cutoff. The
// placement workflow never leaves Pending rows behind, so anything here
// came from an interrupted write outside it.
func (r *OrderRepository) PurgeStalePending(cutoff time.Time) (int64, error) {
	return r.db.Model(&models.Order{}).
		Where("status = ? AND created_at < ?", models.OrderStatusPending, cutoff).
		Delete()
}

// WithTx returns an OrderRepository bound to the given transaction handle.
func (r *OrderRepository) WithTx(tx *orm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}
