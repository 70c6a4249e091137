package model

import "time"

// Item is the canonical in-memory shape of an inventory record. The backend
// is inconsistent about which id field it populates, so normalization (in the
// repository layer) resolves both to the same value and backfills every
// numeric field before an Item reaches consumers.
type Item struct {
	ID          string    `json:"id"`
	MongoID     string    `json:"_id,omitempty"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	MinStock    int       `json:"minStock"`
	Sales       int       `json:"sales"`
	Revenue     float64   `json:"revenue"`
	ImageURL    string    `json:"imageUrl"`
	LastUpdated time.Time `json:"lastUpdated,omitzero"`
}

// DefaultMinStock is the low-stock threshold applied when the backend record
// carries none.
const DefaultMinStock = 5

// LowStock reports whether the item is in stock but at or below its
// minimum stock threshold.
func (i Item) LowStock() bool {
	return i.Quantity > 0 && i.Quantity <= i.MinStock
}

// OutOfStock reports whether the item has no stock left.
func (i Item) OutOfStock() bool {
	return i.Quantity == 0
}

// ItemInput is the payload accepted by create and update operations. Numeric
// fields are flexible because form layers submit them as strings.
type ItemInput struct {
	ID          string    `json:"_id,omitempty"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Price       FlexFloat `json:"price"`
	Quantity    FlexInt   `json:"quantity"`
	MinStock    FlexInt   `json:"minStock"`
	Sales       FlexInt   `json:"sales"`
	ImageURL    string    `json:"imageUrl"`
	Image       string    `json:"image"`
}

// Category is a free-form grouping for items. Item.Category joins against
// Name by case-sensitive string equality; there is no foreign key.
type Category struct {
	ID          string `json:"id,omitempty"`
	MongoID     string `json:"_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Key returns whichever id field the backend populated.
func (c Category) Key() string {
	if c.MongoID != "" {
		return c.MongoID
	}
	return c.ID
}
