package repositories

import (
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/orm"
)

// CartLineView is one active cart line joined with its catalog item.
type CartLineView struct {
	CartID uint   `json:"cartId"`
	UserID uint   `json:"userId"`
	ItemID uint   `json:"itemId"`
	Name   string `json:"name"`
	Qty    int    `json:"qty"`
	Price  int64  `json:"price"`
	Photo  string `json:"photo"`
}

// CartRepository handles database operations for cart lines.
//
// "Active" always means ordered = false; retired lines stay in the table
// as a record of past conversions, so every read here filters on the flag.
type CartRepository struct {
	db *orm.DB
}

func NewCartRepository(db *orm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// FindActiveLine returns the active line for (user, item), if any.
func (r *CartRepository) FindActiveLine(userID, itemID uint) (models.CartLine, error) {
	var line models.CartLine
	err := r.db.Model(&models.CartLine{}).
		Where("user_id = ? AND item_id = ? AND ordered = ?", userID, itemID, false).
		First(&line)
	return line, err
}

// ActiveLines returns all active lines for a user.
func (r *CartRepository) ActiveLines(userID uint) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.Model(&models.CartLine{}).
		Where("user_id = ? AND ordered = ?", userID, false).
		Get(&lines)
	return lines, err
}

// ActiveView returns the item-joined view of a user's active cart.
// Lines whose item has been deleted from the catalog are dropped from the
// view (inner join), matching what the cart page can actually render.
func (r *CartRepository) ActiveView(userID uint) ([]CartLineView, error) {
	var view []CartLineView
	err := r.db.Raw(`
		SELECT cl.id      AS cart_id,
		       cl.user_id AS user_id,
		       cl.item_id AS item_id,
		       i.name     AS name,
		       cl.qty     AS qty,
		       i.price    AS price,
		       i.photo    AS photo
		FROM cart_lines cl
		JOIN items i ON i.id = cl.item_id AND i.deleted_at IS NULL
		WHERE cl.user_id = ? AND cl.ordered = ? AND cl.deleted_at IS NULL
		ORDER BY cl.id`, &view, userID, false)
	return view, err
}

// Create persists a new cart line.
func (r *CartRepository) Create(line *models.CartLine) error {
	return r.db.Create(line)
}

// Save persists changes to an existing cart line.
func (r *CartRepository) Save(line *models.CartLine) error {
	return r.db.Save(line)
}

// UpdateQty sets the quantity on the active (user, item) line and reports
// how many rows changed — zero means there was no active line.
func (r *CartRepository) UpdateQty(userID, itemID uint, qty int) (int64, error) {
	return r.db.Model(&models.CartLine{}).
		Where("user_id = ? AND item_id = ? AND ordered = ?", userID, itemID, false).
		Updates(map[string]interface{}{"qty": qty})
}

// Remove deletes the active (user, item) line and reports how many rows went.
func (r *CartRepository) Remove(userID, itemID uint) (int64, error) {
	return r.db.Model(&models.CartLine{}).
		Where("user_id = ? AND item_id = ? AND ordered = ?", userID, itemID, false).
		Delete()
}

// MarkOrdered flips one line's ordered flag from false to true.
// The WHERE clause re-checks the flag so the flip is applied exactly once
// even when two placements race over the same cart; callers must treat an
// affected count other than 1 as a conflict.
func (r *CartRepository) MarkOrdered(lineID uint) (int64, error) {
	return r.db.Model(&models.CartLine{}).
		Where("id = ? AND ordered = ?", lineID, false).
		Updates(map[string]interface{}{"ordered": true})
}

// WithTx returns a CartRepository bound to the given transaction handle.
func (r *CartRepository) WithTx(tx *orm.DB) *CartRepository {
	return &CartRepository{db: tx}
}
