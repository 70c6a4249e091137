package repository

import (
	"context"
	"net/http"
	"testing"
	"time"

	"ims-client/internal/cache"
	"ims-client/internal/endpoint"
	"ims-client/internal/model"
	"ims-client/pkg/apierror"
)

func TestListCategoriesPassesShapeThrough(t *testing.T) {
	fc := &fakeClient{respond: respondWith(`[
		{"_id":"c1","name":"Electronics"},
		{"id":"c2","name":"Stationery","description":"pens and paper"}
	]`)}
	repo := NewCategoryRepository(fc, nil, 0)

	categories, err := repo.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	if categories[0].Key() != "c1" || categories[1].Key() != "c2" {
		t.Fatalf("keys should resolve either id convention, got %q/%q",
			categories[0].Key(), categories[1].Key())
	}
	if categories[1].Description != "pens and paper" {
		t.Fatal("server shape must pass through unchanged")
	}
}

func TestListCategoriesRejectsNonArray(t *testing.T) {
	fc := &fakeClient{respond: respondWith(`{"ok":true}`)}
	repo := NewCategoryRepository(fc, nil, 0)

	_, err := repo.ListCategories(context.Background())
	if apierror.KindOf(err) != apierror.KindMalformed {
		t.Fatalf("expected MALFORMED_RESPONSE, got %v", err)
	}
}

func TestAddCategoryRequiresName(t *testing.T) {
	fc := &fakeClient{respond: respondWith(`{}`)}
	repo := NewCategoryRepository(fc, nil, 0)

	_, err := repo.AddCategory(context.Background(), model.Category{Name: "  "})
	if apierror.KindOf(err) != apierror.KindValidation {
		t.Fatalf("expected VALIDATION, got %v", err)
	}
	if len(fc.requests) != 0 {
		t.Fatal("validation failures must not reach the network")
	}
}

func TestCategoryMutationsInvalidateListCache(t *testing.T) {
	var fetches int
	fc := &fakeClient{respond: func(req endpoint.Request) ([]byte, error) {
		if req.Method == http.MethodGet {
			fetches++
			return []byte(`[{"_id":"c1","name":"Electronics"}]`), nil
		}
		return []byte(`{"_id":"c1","name":"Gadgets"}`), nil
	}}

	store := cache.NewMemoryCache()
	defer store.Close()
	repo := NewCategoryRepository(fc, store, time.Minute)

	ctx := context.Background()
	if _, err := repo.ListCategories(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := repo.ListCategories(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if fetches != 1 {
		t.Fatalf("second list should come from cache, saw %d fetches", fetches)
	}

	if _, err := repo.UpdateCategory(ctx, "c1", model.Category{Name: "Gadgets"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := repo.ListCategories(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if fetches != 2 {
		t.Fatalf("mutation must drop the cache, saw %d fetches", fetches)
	}
}

func TestRemoveCategoryUsesDeleteRoute(t *testing.T) {
	fc := &fakeClient{respond: respondWith(`{"message":"deleted"}`)}
	repo := NewCategoryRepository(fc, nil, 0)

	if err := repo.RemoveCategory(context.Background(), "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := fc.requests[0]
	if req.Method != http.MethodDelete || req.Candidates[0] != "/categories/c1" {
		t.Fatalf("unexpected request: %s %v", req.Method, req.Candidates)
	}
}
