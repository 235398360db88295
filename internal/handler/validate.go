package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/maison-order-desk/internal/queue"
	"github.com/iliyamo/maison-order-desk/internal/repository"
)

// ValidateHandler implements the draft→procurement hand-off: freezing
// the current orders into the validated snapshot and exposing it.
type ValidateHandler struct {
	Snapshots *repository.SnapshotRepo
	// Publish, when set, is called after a successful validate with
	// the resulting event. Failures are logged and never surfaced:
	// the snapshot is already persisted and the event is best-effort.
	Publish func(ctx context.Context, ev queue.ShoppingListValidatedEvent) error
}

func NewValidateHandler(snapshots *repository.SnapshotRepo,
	publish func(ctx context.Context, ev queue.ShoppingListValidatedEvent) error) *ValidateHandler {
	return &ValidateHandler{Snapshots: snapshots, Publish: publish}
}

// Validate freezes the current draft orders into a new snapshot,
// replacing any prior one atomically. Elevated.
func (h *ValidateHandler) Validate(c echo.Context) error {
	snap, err := h.Snapshots.Validate()
	if err != nil {
		return repoError(c, err)
	}
	if h.Publish != nil {
		ev := queue.NewShoppingListValidatedEvent(snap)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := h.Publish(ctx, ev); err != nil {
				log.Printf("validate: publish event failed: %v", err)
			}
		}()
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "validatedAt": snap.ValidatedAt})
}

// GetValidated returns the current snapshot, or the well-formed empty
// snapshot when none exists. Public.
func (h *ValidateHandler) GetValidated(c echo.Context) error {
	snap, err := h.Snapshots.Get()
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// ResetValidated clears the snapshot. Elevated.
func (h *ValidateHandler) ResetValidated(c echo.Context) error {
	if err := h.Snapshots.Reset(); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
