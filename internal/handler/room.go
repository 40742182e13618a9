package handler

import (
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/farhandp/coworking-book/internal/model"
	"github.com/farhandp/coworking-book/internal/repository"
)

// RoomHandler serves the coworking room catalogue: a public browse
// endpoint plus the admin CRUD surface.
type RoomHandler struct {
	Rooms         *repository.RoomRepo
	Notifications *repository.NotificationRepo
}

func NewRoomHandler(rooms *repository.RoomRepo, notifs *repository.NotificationRepo) *RoomHandler {
	if rooms == nil || notifs == nil {
		panic("nil repository passed to NewRoomHandler")
	}
	return &RoomHandler{Rooms: rooms, Notifications: notifs}
}

// ListAvailable handles GET /coworking/available: rooms currently
// marked AVAILABLE, for the public browse page.
func (h *RoomHandler) ListAvailable(c echo.Context) error {
	rooms, err := h.Rooms.ListAvailable(c.Request().Context())
	if err != nil {
		return repoError(c, err, "list rooms failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

// List handles GET /admin/coworking.
func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.Rooms.List(c.Request().Context())
	if err != nil {
		return repoError(c, err, "list rooms failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

// Get handles GET /admin/coworking/:coworking_id.
func (h *RoomHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "coworking_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	room, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err, "room lookup failed")
	}
	return c.JSON(http.StatusOK, room)
}

type createRoomReq struct {
	Number  string `json:"no_ruang"`
	AdminID uint64 `json:"id_admin"`
	Status  string `json:"status_ruang"`
}

// Create handles POST /admin/coworking. The owning admin defaults to
// the caller; the status defaults to AVAILABLE.
func (h *RoomHandler) Create(c echo.Context) error {
	var req createRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.AdminID == 0 {
		if uid, err := getUserID(c); err == nil {
			req.AdminID = uid
		}
	}
	if req.Status == "" {
		req.Status = model.RoomAvailable
	}
	room, err := h.Rooms.Create(c.Request().Context(), req.Number, req.AdminID, req.Status)
	if err != nil {
		return repoError(c, err, "create room failed")
	}
	return c.JSON(http.StatusCreated, room)
}

type updateRoomReq struct {
	Number *string `json:"no_ruang"`
	Status *string `json:"status_ruang"`
}

// Update handles PUT /admin/coworking/:coworking_id as a merge-patch:
// absent fields keep their current value.
func (h *RoomHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "coworking_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req updateRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	room, err := h.Rooms.Update(c.Request().Context(), id, req.Number, req.Status)
	if err != nil {
		return repoError(c, err, "update room failed")
	}
	return c.JSON(http.StatusOK, room)
}

type roomStatusReq struct {
	Status string `json:"status_ruang"`
}

// SetStatus handles PATCH /admin/coworking/:coworking_id/status. When
// a room goes UNAVAILABLE its owning admin gets a notification so the
// closure does not pass silently.
func (h *RoomHandler) SetStatus(c echo.Context) error {
	id, ok := pathID(c, "coworking_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req roomStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()
	room, err := h.Rooms.SetStatus(ctx, id, req.Status)
	if err != nil {
		return repoError(c, err, "update room status failed")
	}
	if room.Status == model.RoomUnavailable {
		if err := h.Notifications.Append(ctx, room.AdminID,
			"Ruangan Nonaktif",
			fmt.Sprintf("Ruangan %s telah dinonaktifkan.", room.Number),
			model.NotifRoomStatus); err != nil {
			log.Printf("room: notify status change failed: %v", err)
		}
	}
	return c.JSON(http.StatusOK, room)
}

// Delete handles DELETE /admin/coworking/:coworking_id.
func (h *RoomHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "coworking_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	if err := h.Rooms.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err, "delete room failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "room deleted"})
}
