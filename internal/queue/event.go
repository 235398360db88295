// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them.
package queue

import (
	"time"

	"github.com/iliyamo/maison-order-desk/internal/model"
)

// ShoppingListValidatedQueue is the durable queue carrying validation
// events to downstream procurement tooling.
const ShoppingListValidatedQueue = "shoppinglist.validated"

// ShoppingListValidatedEvent is published when an elevated user
// freezes the draft orders into a validated shopping list. It carries
// enough for downstream consumers to log or notify without reading
// the primary store.
type ShoppingListValidatedEvent struct {
	ValidatedAt string         `json:"validated_at"`
	Departments map[string]int `json:"departments"` // department -> item count
	TotalItems  int            `json:"total_items"`
}

// NewShoppingListValidatedEvent summarizes a freshly written snapshot.
func NewShoppingListValidatedEvent(snap *model.ValidatedSnapshot) ShoppingListValidatedEvent {
	ev := ShoppingListValidatedEvent{Departments: map[string]int{}}
	if snap == nil {
		return ev
	}
	if snap.ValidatedAt != nil {
		ev.ValidatedAt = snap.ValidatedAt.UTC().Format(time.RFC3339)
	}
	for dept, rec := range snap.Commandes {
		n := 0
		if rec != nil {
			n = len(rec.Fields)
		}
		ev.Departments[dept] = n
		ev.TotalItems += n
	}
	return ev
}
