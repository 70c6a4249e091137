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

const categoriesCacheKey = "categories:list"

// CategoryRepository performs category CRUD against the inventory backend.
// Unlike items, category records pass through unchanged: no normalization
// beyond decoding the server shape.
type CategoryRepository struct {
	client Client
	cache  cache.Cache
	ttl    time.Duration
}

// NewCategoryRepository creates a category repository. cache may be nil to
// disable list caching.
func NewCategoryRepository(client Client, c cache.Cache, ttl time.Duration) *CategoryRepository {
	return &CategoryRepository{client: client, cache: c, ttl: ttl}
}

// ListCategories fetches all categories.
func (r *CategoryRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	const op = "list categories"

	req := endpoint.Request{
		Op:         op,
		Method:     http.MethodGet,
		Candidates: []string{"/categories", "/api/categories", "categories"},
	}

	var body []byte
	var err error
	if r.cache == nil {
		body, err = r.client.Do(ctx, req)
	} else {
		body, err = r.cache.GetOrSet(ctx, categoriesCacheKey, r.ttl, func() ([]byte, error) {
			return r.client.Do(ctx, req)
		})
	}
	if err != nil {
		return nil, err
	}

	var categories []model.Category
	if err := json.Unmarshal(body, &categories); err != nil {
		return nil, apierror.Malformed(op, "expected an array of categories from the inventory backend")
	}
	return categories, nil
}

// AddCategory creates a new category.
func (r *CategoryRepository) AddCategory(ctx context.Context, data model.Category) (model.Category, error) {
	const op = "add category"

	if strings.TrimSpace(data.Name) == "" {
		return model.Category{}, apierror.Validation(op, "category name is required")
	}

	body, err := r.client.Do(ctx, endpoint.Request{
		Op:         op,
		Method:     http.MethodPost,
		Candidates: []string{"/categories", "/api/categories"},
		Body:       data,
	})
	if err != nil {
		return model.Category{}, err
	}

	r.invalidate(ctx)
	return decodeCategory(op, body)
}

// UpdateCategory updates a category by id.
func (r *CategoryRepository) UpdateCategory(ctx context.Context, id string, data model.Category) (model.Category, error) {
	const op = "update category"

	if id == "" {
		return model.Category{}, apierror.Validation(op, "category id is required")
	}

	body, err := r.client.Do(ctx, endpoint.Request{
		Op:         op,
		Method:     http.MethodPut,
		Candidates: []string{"/categories/" + id, "/api/categories/" + id},
		Body:       data,
	})
	if err != nil {
		return model.Category{}, err
	}

	r.invalidate(ctx)
	return decodeCategory(op, body)
}

// RemoveCategory deletes a category by id. Items referencing it keep their
// category string; the join is by name with no foreign-key enforcement.
func (r *CategoryRepository) RemoveCategory(ctx context.Context, id string) error {
	const op = "remove category"

	if id == "" {
		return apierror.Validation(op, "category id is required")
	}

	_, err := r.client.Do(ctx, endpoint.Request{
		Op:         op,
		Method:     http.MethodDelete,
		Candidates: []string{"/categories/" + id, "/api/categories/" + id},
	})
	if err != nil {
		return err
	}

	r.invalidate(ctx)
	return nil
}

func (r *CategoryRepository) invalidate(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, categoriesCacheKey); err != nil {
		log.Printf("Warning: failed to invalidate categories cache: %v", err)
	}
}

func decodeCategory(op string, body []byte) (model.Category, error) {
	var category model.Category
	if err := json.Unmarshal(body, &category); err != nil {
		return model.Category{}, apierror.Malformed(op, "expected a category record from the inventory backend")
	}
	return category, nil
}
