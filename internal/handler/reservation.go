package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/farhandp/coworking-book/internal/queue"
	"github.com/farhandp/coworking-book/internal/repository"
	queue_publisher "github.com/farhandp/coworking-book/internal/service"
)

// ReservationHandler serves the user-facing booking endpoints:
// availability, claiming, cancelling and listing. Claim and cancel
// delegate to the repository's conditional updates; the handler only
// translates the outcome and emits the side effects.
type ReservationHandler struct {
	Reservations  *repository.ReservationRepo
	Rooms         *repository.RoomRepo
	Notifications *repository.NotificationRepo
}

func NewReservationHandler(res *repository.ReservationRepo, rooms *repository.RoomRepo, notifs *repository.NotificationRepo) *ReservationHandler {
	if res == nil || rooms == nil || notifs == nil {
		panic("nil repository passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: res, Rooms: rooms, Notifications: notifs}
}

type createReservationReq struct {
	RoomID  uint64    `json:"coworking_id"`
	UserID  *uint64   `json:"user_id"`
	StartAt time.Time `json:"waktu_mulai"`
	EndAt   time.Time `json:"waktu_selesai"`
}

// Create handles POST /reservasi. Without a user_id the request
// provisions an unclaimed slot; with one, the slot starts claimed.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "coworking_id is required"})
	}
	ctx := c.Request().Context()
	if _, err := h.Rooms.GetByID(ctx, req.RoomID); err != nil {
		return repoError(c, err, "room lookup failed")
	}
	res, err := h.Reservations.Create(ctx, req.RoomID, req.UserID, req.StartAt, req.EndAt)
	if err != nil {
		return repoError(c, err, "create reservation failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"reservation": res})
}

// ListAvailable handles GET /reservasi/available. The window comes
// from the waktu_mulai and waktu_selesai query parameters in RFC3339.
func (h *ReservationHandler) ListAvailable(c echo.Context) error {
	startAt, err1 := time.Parse(time.RFC3339, c.QueryParam("waktu_mulai"))
	endAt, err2 := time.Parse(time.RFC3339, c.QueryParam("waktu_selesai"))
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "waktu_mulai and waktu_selesai must be RFC3339 timestamps"})
	}
	view, err := h.Reservations.ListAvailable(c.Request().Context(), startAt, endAt)
	if err != nil {
		return repoError(c, err, "availability query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"availableRooms": view})
}

type claimReq struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
}

// Claim handles PUT /reservasi/update: attach a user to an unclaimed
// slot. Exactly one of any number of concurrent claims succeeds; the
// losers get 409. On success the claimant is notified and a
// reservation.claimed event is published.
func (h *ReservationHandler) Claim(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req claimReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ReservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation_id is required"})
	}
	if req.UserID == 0 {
		req.UserID = uid
	}
	ctx := c.Request().Context()
	if err := h.Reservations.Claim(ctx, req.ReservationID, req.UserID); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already claimed or not found"})
		}
		return repoError(c, err, "claim failed")
	}

	if err := h.Notifications.Append(ctx, req.UserID,
		"Reservasi Baru",
		fmt.Sprintf("Reservasi ruangan berhasil dibuat untuk reservasi #%d. Silakan lakukan pembayaran.", req.ReservationID),
		"reservasi"); err != nil {
		log.Printf("reservation: notify claim failed: %v", err)
	}
	h.publishClaimed(ctx, req.ReservationID, req.UserID)

	return c.JSON(http.StatusOK, echo.Map{"message": "reservation claimed"})
}

// publishClaimed emits the claimed event with room context. Best
// effort: lookup or publish failures are logged, never surfaced.
func (h *ReservationHandler) publishClaimed(ctx context.Context, reservationID, userID uint64) {
	res, err := h.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		log.Printf("reservation: load for event failed: %v", err)
		return
	}
	number := ""
	if room, err := h.Rooms.GetByID(ctx, res.RoomID); err == nil {
		number = room.Number
	}
	_ = queue_publisher.PublishReservationClaimed(ctx, queue.ReservationClaimedEvent{
		ReservationID: reservationID,
		UserID:        userID,
		RoomID:        res.RoomID,
		RoomNumber:    number,
		StartAt:       res.StartAt.Format(time.RFC3339),
		EndAt:         res.EndAt.Format(time.RFC3339),
		ClaimedAt:     time.Now().UTC().Format(time.RFC3339),
	})
}

// Cancel handles GET /reservasi/reject/:reservation_id: release the
// slot back to the pool whatever state it is in.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c, "reservation_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := h.Reservations.Cancel(c.Request().Context(), id); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation not found or already cancelled"})
		}
		return repoError(c, err, "cancel failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "reservation cancelled"})
}

// ListByUser handles GET /reservasi/user/:user_id and
// GET /reservasi/all/:user_id: the caller's reservations with room
// context, newest first.
func (h *ReservationHandler) ListByUser(c echo.Context) error {
	id, ok := pathID(c, "user_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	details, err := h.Reservations.ListByUser(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err, "list reservations failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}
