package queue

import (
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/maison-order-desk/internal/model"
)

func TestNewShoppingListValidatedEvent_CountsItems(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	snap := &model.ValidatedSnapshot{
		ValidatedAt: &now,
		Commandes: map[string]*model.OrderRecord{
			"bar":       {Department: "bar", Fields: map[string]string{"Coca": "6", "Perrier": "4"}},
			"breakfast": {Department: "breakfast", Fields: map[string]string{"Pain": "10"}},
		},
	}

	ev := NewShoppingListValidatedEvent(snap)
	if ev.ValidatedAt != "2026-08-29T10:00:00Z" {
		t.Errorf("unexpected validated_at: %q", ev.ValidatedAt)
	}
	if ev.Departments["bar"] != 2 || ev.Departments["breakfast"] != 1 {
		t.Errorf("unexpected department counts: %v", ev.Departments)
	}
	if ev.TotalItems != 3 {
		t.Errorf("expected total_items=3, got %d", ev.TotalItems)
	}
}

func TestNewShoppingListValidatedEvent_NilSnapshot(t *testing.T) {
	ev := NewShoppingListValidatedEvent(nil)
	if ev.TotalItems != 0 || len(ev.Departments) != 0 || ev.ValidatedAt != "" {
		t.Errorf("expected zero event for nil snapshot, got %+v", ev)
	}
}

func TestFormatEvent_StableDepartmentOrder(t *testing.T) {
	ev := ShoppingListValidatedEvent{
		ValidatedAt: "2026-08-29T10:00:00Z",
		Departments: map[string]int{"housekeeping": 1, "bar": 2, "breakfast": 3},
		TotalItems:  6,
	}
	line := formatEvent(ev)
	if !strings.Contains(line, "total_items=6") {
		t.Errorf("missing total: %q", line)
	}
	barIdx := strings.Index(line, "bar=")
	bfIdx := strings.Index(line, "breakfast=")
	hkIdx := strings.Index(line, "housekeeping=")
	if !(barIdx < bfIdx && bfIdx < hkIdx) {
		t.Errorf("departments not in sorted order: %q", line)
	}
	if !strings.HasSuffix(line, "\n") {
		t.Error("expected newline-terminated log line")
	}
}
