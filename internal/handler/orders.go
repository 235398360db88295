package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/maison-order-desk/internal/repository"
)

// OrderHandler bundles dependencies for the draft-order endpoints.
type OrderHandler struct {
	Orders *repository.OrderRepo
}

func NewOrderHandler(orders *repository.OrderRepo) *OrderHandler {
	return &OrderHandler{Orders: orders}
}

// GetAll returns the current record for every department. Public.
func (h *OrderHandler) GetAll(c echo.Context) error {
	all, err := h.Orders.GetAll()
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, all)
}

// GetOne returns one department's record, or the empty placeholder if
// it was never written. Public.
func (h *OrderHandler) GetOne(c echo.Context) error {
	rec, err := h.Orders.Get(c.Param("department"))
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

// Upsert applies a flexible payload to one department's order. The
// body may be {fields:{...}}, the double-nested {fields:{fields:{...}}}
// some front-end versions send, or a bare mapping; normalization
// happens in the repository.
func (h *OrderHandler) Upsert(c echo.Context) error {
	var payload map[string]any
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "validation_error", "invalid body")
	}
	rec, err := h.Orders.Upsert(c.Param("department"), payload)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "updatedAt": rec.UpdatedAt})
}

// ResetOne clears one department's order. Elevated.
func (h *OrderHandler) ResetOne(c echo.Context) error {
	if err := h.Orders.ResetOne(c.Param("department")); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// ResetAll clears every department and the validated snapshot. Elevated.
func (h *OrderHandler) ResetAll(c echo.Context) error {
	if err := h.Orders.ResetAll(); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
