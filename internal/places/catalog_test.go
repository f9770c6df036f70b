package places

import (
	"testing"
	"time"
)

func testCatalog() *Catalog {
	return NewCatalog(time.Minute, time.Minute)
}

// TestSearchKnownCategory проверяет выдачу по известной категории.
func TestSearchKnownCategory(t *testing.T) {
	catalog := testCatalog()

	results := catalog.Search("Paris", "restaurant")
	if len(results) == 0 {
		t.Fatal("expected restaurant results")
	}

	for _, place := range results {
		if place.Types[0] != "restaurant" {
			t.Fatalf("unexpected place type: %v", place.Types)
		}
	}
}

// TestSearchUnknownCategory проверяет откат к достопримечательностям.
func TestSearchUnknownCategory(t *testing.T) {
	catalog := testCatalog()

	unknown := catalog.Search("Paris", "spaceport")
	fallback := catalog.Search("Paris", "tourist_attraction")

	if len(unknown) != len(fallback) {
		t.Fatalf("expected fallback results, got %d vs %d", len(unknown), len(fallback))
	}
}

// TestSearchCaches проверяет повторную выдачу из кэша.
func TestSearchCaches(t *testing.T) {
	catalog := testCatalog()

	first := catalog.Search("Paris", "cafe")
	if _, ok := catalog.cache.Get("cafe:paris"); !ok {
		t.Fatal("expected search result to be cached")
	}

	second := catalog.Search("PARIS", "Cafe")
	if len(second) != len(first) {
		t.Fatal("expected cache key to normalize case")
	}
}

// TestGet проверяет поиск места по идентификатору.
func TestGet(t *testing.T) {
	catalog := testCatalog()

	place, ok := catalog.Get("2")
	if !ok || place.Name != "Louvre Museum" {
		t.Fatalf("expected Louvre Museum, got %+v (ok=%v)", place, ok)
	}

	if _, ok := catalog.Get("missing"); ok {
		t.Fatal("expected missing place to be absent")
	}
}

// TestCategories проверяет, что каталог отдает все категории.
func TestCategories(t *testing.T) {
	categories := testCatalog().Categories()
	if len(categories) != 6 {
		t.Fatalf("expected 6 categories, got %d", len(categories))
	}
}
