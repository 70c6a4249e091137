package repository

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"ims-client/internal/cache"
	"ims-client/internal/endpoint"
	"ims-client/internal/model"
	"ims-client/pkg/apierror"
)

// Client is the transport the repositories talk through. It matches the
// endpoint-resolution client and lets tests substitute a fake.
type Client interface {
	Do(ctx context.Context, req endpoint.Request) ([]byte, error)
}

const itemsCacheKey = "items:list"

// ItemRepository performs item CRUD and stock mutations against the
// inventory backend. List results are cached for the configured TTL; every
// mutation drops the cache so the next read refetches.
type ItemRepository struct {
	client Client
	cache  cache.Cache
	ttl    time.Duration
}

// NewItemRepository creates an item repository. cache may be nil to disable
// list caching.
func NewItemRepository(client Client, c cache.Cache, ttl time.Duration) *ItemRepository {
	return &ItemRepository{client: client, cache: c, ttl: ttl}
}

// rawItem is the backend's item shape before normalization. Both id field
// conventions and string-or-number numerics appear in the wild.
type rawItem struct {
	MongoID     string           `json:"_id"`
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Price       *model.FlexFloat `json:"price"`
	Quantity    *model.FlexInt   `json:"quantity"`
	MinStock    *model.FlexInt   `json:"minStock"`
	Sales       *model.FlexInt   `json:"sales"`
	ImageURL    string           `json:"imageUrl"`
	Image       string           `json:"image"`
	LastUpdated string           `json:"lastUpdated"`
}

// itemPayload is the shape submitted on create and update.
type itemPayload struct {
	MongoID     string  `json:"_id,omitempty"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	MinStock    int     `json:"minStock"`
	Sales       *int    `json:"sales,omitempty"`
	ImageURL    string  `json:"imageUrl"`
	Price       float64 `json:"price"`
}

// ListItems fetches all items and normalizes every record so downstream
// consumers never see an absent field.
func (r *ItemRepository) ListItems(ctx context.Context) ([]model.Item, error) {
	const op = "list items"

	body, err := r.fetchCached(ctx, itemsCacheKey, endpoint.Request{
		Op:         op,
		Method:     http.MethodGet,
		Candidates: []string{"/items", "/api/items", "items"},
	})
	if err != nil {
		return nil, err
	}

	var raw []rawItem
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, apierror.Malformed(op, "expected an array of items from the inventory backend")
	}

	items := make([]model.Item, len(raw))
	for i, ri := range raw {
		items[i] = normalizeItem(ri)
	}
	return items, nil
}

// AddItem creates a new item. A payload that already carries an identifier
// is treated as an update, never as a duplicate creation.
func (r *ItemRepository) AddItem(ctx context.Context, input model.ItemInput) (model.Item, error) {
	const op = "add item"

	if input.ID != "" {
		log.Printf("[ItemRepository] payload carries id %s, routing add to update", input.ID)
		return r.UpdateItem(ctx, input.ID, input)
	}

	if strings.TrimSpace(input.Name) == "" {
		return model.Item{}, apierror.Validation(op, "item name is required")
	}

	body, err := r.client.Do(ctx, endpoint.Request{
		Op:         op,
		Method:     http.MethodPost,
		Candidates: []string{"/items", "/api/items", "items"},
		Body:       formatItemInput(input, true),
	})
	if err != nil {
		return model.Item{}, err
	}

	r.invalidate(ctx)
	return decodeItem(op, body)
}

// UpdateItem replaces an item by id. The sales counter is deliberately left
// out of the payload: only explicit sell operations change it.
func (r *ItemRepository) UpdateItem(ctx context.Context, id string, input model.ItemInput) (model.Item, error) {
	const op = "update item"

	if id == "" {
		return model.Item{}, apierror.Validation(op, "item id is required")
	}

	payload := formatItemInput(input, false)
	if input.ID != "" {
		payload.MongoID = input.ID
	}

	body, err := r.client.Do(ctx, endpoint.Request{
		Op:         op,
		Method:     http.MethodPut,
		Candidates: []string{"/items/" + id, "/api/items/" + id},
		Body:       payload,
	})
	if err != nil {
		return model.Item{}, err
	}

	r.invalidate(ctx)
	return decodeItem(op, body)
}

// AdjustQuantity changes an item's stock level by a signed delta. Positive
// increases stock, negative decreases it. The backend rejects adjustments
// that would drive quantity negative.
func (r *ItemRepository) AdjustQuantity(ctx context.Context, id string, delta int) (model.Item, error) {
	const op = "adjust quantity"

	if id == "" {
		return model.Item{}, apierror.Validation(op, "item id is required")
	}
	if delta == 0 {
		return model.Item{}, apierror.Validation(op, "quantity change must be a non-zero integer")
	}

	body, err := r.client.Do(ctx, endpoint.Request{
		Op:         op,
		Method:     http.MethodPatch,
		Candidates: []string{"/items/" + id + "/quantity", "/api/items/" + id + "/quantity"},
		Body:       map[string]int{"quantity": delta},
	})
	if err != nil {
		return model.Item{}, err
	}

	r.invalidate(ctx)
	return decodeItem(op, body)
}

// RemoveItem deletes an item entirely when quantity is nil, or decrements
// its stock by quantity while leaving the record alive. The partial form
// returns the updated item; the full form returns nil.
func (r *ItemRepository) RemoveItem(ctx context.Context, id string, quantity *int) (*model.Item, error) {
	const op = "remove item"

	if id == "" {
		return nil, apierror.Validation(op, "item id is required")
	}

	if quantity != nil {
		if *quantity <= 0 {
			return nil, apierror.Validation(op, "quantity to remove must be a positive integer")
		}
		item, err := r.AdjustQuantity(ctx, id, -*quantity)
		if err != nil {
			return nil, err
		}
		return &item, nil
	}

	_, err := r.client.Do(ctx, endpoint.Request{
		Op:         op,
		Method:     http.MethodDelete,
		Candidates: []string{"/items/" + id, "/api/items/" + id},
	})
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx)
	return nil, nil
}

// SellItem records a sale of the given quantity. Selling is distinct from a
// plain quantity adjustment: the backend also increments the cumulative
// sales counter. Returns the post-sale item, re-normalized.
func (r *ItemRepository) SellItem(ctx context.Context, id string, quantity int) (model.Item, error) {
	const op = "sell item"

	if id == "" {
		return model.Item{}, apierror.Validation(op, "item id is required")
	}
	if quantity <= 0 {
		return model.Item{}, apierror.Validation(op, "quantity to sell must be a positive integer")
	}

	body, err := r.client.Do(ctx, endpoint.Request{
		Op:         op,
		Method:     http.MethodPost,
		Candidates: []string{"/items/" + id + "/sell", "/api/items/" + id + "/sell"},
		Body:       map[string]int{"quantity": quantity},
	})
	if err != nil {
		return model.Item{}, err
	}

	r.invalidate(ctx)
	return decodeItem(op, body)
}

// UpdateAllPrices asks the backend to run its bulk price refresh.
func (r *ItemRepository) UpdateAllPrices(ctx context.Context) error {
	_, err := r.client.Do(ctx, endpoint.Request{
		Op:         "update all prices",
		Method:     http.MethodPatch,
		Candidates: []string{"/items/update-prices", "/api/items/update-prices"},
	})
	if err != nil {
		return err
	}

	r.invalidate(ctx)
	return nil
}

// LowStockItems returns items at or below their minimum stock threshold,
// including items that are fully out of stock.
func (r *ItemRepository) LowStockItems(ctx context.Context) ([]model.Item, error) {
	items, err := r.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	var low []model.Item
	for _, item := range items {
		if item.Quantity <= item.MinStock {
			low = append(low, item)
		}
	}
	return low, nil
}

// TotalCount returns the number of distinct items in inventory.
func (r *ItemRepository) TotalCount(ctx context.Context) (int, error) {
	items, err := r.ListItems(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// ItemsByCategory filters items by exact category name. "All" returns
// everything.
func (r *ItemRepository) ItemsByCategory(ctx context.Context, category string) ([]model.Item, error) {
	items, err := r.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	if category == "All" {
		return items, nil
	}

	var filtered []model.Item
	for _, item := range items {
		if item.Category == category {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func (r *ItemRepository) fetchCached(ctx context.Context, key string, req endpoint.Request) ([]byte, error) {
	if r.cache == nil {
		return r.client.Do(ctx, req)
	}
	return r.cache.GetOrSet(ctx, key, r.ttl, func() ([]byte, error) {
		return r.client.Do(ctx, req)
	})
}

func (r *ItemRepository) invalidate(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, itemsCacheKey); err != nil {
		log.Printf("Warning: failed to invalidate items cache: %v", err)
	}
}

// decodeItem parses a single backend item record and normalizes it.
func decodeItem(op string, body []byte) (model.Item, error) {
	var raw rawItem
	if err := json.Unmarshal(body, &raw); err != nil {
		return model.Item{}, apierror.Malformed(op, "expected an item record from the inventory backend")
	}
	return normalizeItem(raw), nil
}

// normalizeItem fills defaults and derived fields so consumers can rely on a
// complete shape. Zero values get the same treatment as absent ones, which
// matters for minStock: a backend 0 still means "use the default threshold".
func normalizeItem(raw rawItem) model.Item {
	id := raw.MongoID
	if id == "" {
		id = raw.ID
	}

	item := model.Item{
		ID:          id,
		MongoID:     id,
		Name:        raw.Name,
		Category:    raw.Category,
		Description: raw.Description,
		MinStock:    model.DefaultMinStock,
		ImageURL:    raw.ImageURL,
	}

	if raw.Price != nil && raw.Price.Valid() {
		item.Price = raw.Price.Float()
	}
	if raw.Quantity != nil {
		item.Quantity = raw.Quantity.Int()
	}
	if raw.Sales != nil {
		item.Sales = raw.Sales.Int()
	}
	if raw.MinStock != nil && raw.MinStock.Int() > 0 {
		item.MinStock = raw.MinStock.Int()
	}

	if item.ImageURL == "" {
		item.ImageURL = raw.Image
	}
	if item.ImageURL == "" {
		item.ImageURL = DefaultImageForCategory(raw.Category)
	}

	// Derived, never stored.
	item.Revenue = float64(item.Sales) * item.Price

	if raw.LastUpdated != "" {
		item.LastUpdated = parseServerTime(raw.LastUpdated)
	}

	return item
}

// parseServerTime parses the handful of timestamp layouts the backend emits.
func parseServerTime(value string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// DefaultImageForCategory resolves the static category image used when a
// record carries none.
func DefaultImageForCategory(category string) string {
	if category == "" {
		return "/assets/images/categories/default.jpg"
	}

	key := strings.ReplaceAll(strings.ToLower(category), " ", "-")
	imageMap := map[string]string{
		"electronics":     "/assets/images/categories/electronics.jpg",
		"furniture":       "/assets/images/categories/furniture.jpg",
		"stationery":      "/assets/images/categories/default.jpg",
		"office-supplies": "/assets/images/categories/office-supplies.jpg",
	}

	if url, ok := imageMap[key]; ok {
		return url
	}
	return "/assets/images/categories/default.jpg"
}

// formatItemInput coerces flexible input fields into the backend payload.
// includeSales is true only on create: updates never touch the counter.
func formatItemInput(input model.ItemInput, includeSales bool) itemPayload {
	payload := itemPayload{
		Name:        input.Name,
		Category:    input.Category,
		Description: input.Description,
		Quantity:    input.Quantity.Int(),
		MinStock:    input.MinStock.Int(),
		ImageURL:    input.ImageURL,
	}

	if payload.MinStock <= 0 {
		payload.MinStock = model.DefaultMinStock
	}
	if input.Price.Valid() && input.Price.Float() > 0 {
		payload.Price = input.Price.Float()
	}
	if payload.ImageURL == "" {
		payload.ImageURL = input.Image
	}
	if payload.ImageURL == "" {
		payload.ImageURL = DefaultImageForCategory(input.Category)
	}
	if includeSales {
		sales := input.Sales.Int()
		payload.Sales = &sales
	}

	return payload
}
