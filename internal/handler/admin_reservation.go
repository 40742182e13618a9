package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/farhandp/coworking-book/internal/repository"
)

// AdminReservationHandler serves the back-office reservation views and
// the status override endpoint.
type AdminReservationHandler struct {
	Reservations *repository.ReservationRepo
}

func NewAdminReservationHandler(res *repository.ReservationRepo) *AdminReservationHandler {
	if res == nil {
		panic("nil repository passed to NewAdminReservationHandler")
	}
	return &AdminReservationHandler{Reservations: res}
}

// Stats handles GET /admin/dashboard/stats.
func (h *AdminReservationHandler) Stats(c echo.Context) error {
	stats, err := h.Reservations.Stats(c.Request().Context())
	if err != nil {
		return repoError(c, err, "dashboard stats failed")
	}
	return c.JSON(http.StatusOK, stats)
}

// ListAll handles GET /admin/reservasi.
func (h *AdminReservationHandler) ListAll(c echo.Context) error {
	details, err := h.Reservations.ListAll(c.Request().Context())
	if err != nil {
		return repoError(c, err, "list reservations failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// ListPending handles GET /admin/reservasi/pending: reservations
// awaiting payment verification.
func (h *AdminReservationHandler) ListPending(c echo.Context) error {
	details, err := h.Reservations.ListPending(c.Request().Context())
	if err != nil {
		return repoError(c, err, "list pending reservations failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

type setStatusReq struct {
	Status string `json:"status_reservasi"`
}

// SetStatus handles PUT /admin/reservasi/:reservation_id/status. This
// is the override path: it accepts any valid status, including
// CANCELLED, which no user-facing endpoint can set.
func (h *AdminReservationHandler) SetStatus(c echo.Context) error {
	id, ok := pathID(c, "reservation_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req setStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Reservations.SetStatus(c.Request().Context(), id, req.Status); err != nil {
		return repoError(c, err, "update status failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "status updated"})
}

// Delete handles DELETE /admin/reservasi/:reservation_id.
func (h *AdminReservationHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "reservation_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := h.Reservations.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err, "delete reservation failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "reservation deleted"})
}
