package book

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryPlanStore_SaveAndGet(t *testing.T) {
	store := NewMemoryPlanStore()
	ctx := context.Background()

	plan := &BookLayoutPlan{
		ID:        "plan-1",
		Title:     "Summer 2024",
		PageCount: 4,
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	if err := store.SavePlan(ctx, plan); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	got, err := store.GetPlan(ctx, "plan-1")
	if err != nil {
		t.Fatalf("GetPlan failed: %v", err)
	}
	if got.Title != "Summer 2024" {
		t.Errorf("expected title 'Summer 2024', got '%s'", got.Title)
	}
	if got.PageCount != 4 {
		t.Errorf("expected page count 4, got %d", got.PageCount)
	}
}

func TestMemoryPlanStore_SaveDuplicateID(t *testing.T) {
	store := NewMemoryPlanStore()
	ctx := context.Background()

	plan := &BookLayoutPlan{ID: "plan-1"}
	if err := store.SavePlan(ctx, plan); err != nil {
		t.Fatalf("first SavePlan failed: %v", err)
	}

	err := store.SavePlan(ctx, plan)
	if err == nil {
		t.Fatal("expected error for duplicate plan ID, got nil")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigurationError, got %T", err)
	}
}

func TestMemoryPlanStore_GetMissing(t *testing.T) {
	store := NewMemoryPlanStore()

	_, err := store.GetPlan(context.Background(), "nope")
	if !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestMemoryPlanStore_ListNewestFirst(t *testing.T) {
	store := NewMemoryPlanStore()
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		plan := &BookLayoutPlan{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := store.SavePlan(ctx, plan); err != nil {
			t.Fatalf("SavePlan(%s) failed: %v", id, err)
		}
	}

	plans, err := store.ListPlans(ctx, 0)
	if err != nil {
		t.Fatalf("ListPlans failed: %v", err)
	}
	if len(plans) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(plans))
	}
	if plans[0].ID != "c" || plans[1].ID != "b" || plans[2].ID != "a" {
		t.Errorf("expected order c,b,a got %s,%s,%s", plans[0].ID, plans[1].ID, plans[2].ID)
	}

	limited, err := store.ListPlans(ctx, 2)
	if err != nil {
		t.Fatalf("ListPlans with limit failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 plans with limit, got %d", len(limited))
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Summer 2024", "summer-2024"},
		{"diacritics", "Výlet do Čech", "vylet-do-cech"},
		{"punctuation", "Mom & Dad's trip!", "mom-dad-s-trip"},
		{"leading trailing", "  spaced out  ", "spaced-out"},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Slugify(tc.input)
			if got != tc.expected {
				t.Errorf("Slugify(%q) = %q; want %q", tc.input, got, tc.expected)
			}
		})
	}
}
