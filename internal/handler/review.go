package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/farhandp/coworking-book/internal/repository"
)

// ReviewHandler serves room reviews. A reservation carries at most one
// review; posting again replaces the earlier comment.
type ReviewHandler struct {
	Reviews      *repository.ReviewRepo
	Reservations *repository.ReservationRepo
}

func NewReviewHandler(rev *repository.ReviewRepo, res *repository.ReservationRepo) *ReviewHandler {
	if rev == nil || res == nil {
		panic("nil repository passed to NewReviewHandler")
	}
	return &ReviewHandler{Reviews: rev, Reservations: res}
}

type reviewReq struct {
	ReservationID uint64 `json:"reservation_id"`
	Comment       string `json:"komentar"`
}

// Create handles POST /review: upsert the caller's review for one of
// their reservations.
func (h *ReviewHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ReservationID == 0 || strings.TrimSpace(req.Comment) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation_id and komentar are required"})
	}
	ctx := c.Request().Context()
	res, err := h.Reservations.GetByID(ctx, req.ReservationID)
	if err != nil {
		return repoError(c, err, "reservation lookup failed")
	}
	if res.UserID == nil || *res.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "reservation does not belong to you"})
	}
	review, err := h.Reviews.Upsert(ctx, req.ReservationID, req.Comment)
	if err != nil {
		return repoError(c, err, "save review failed")
	}
	return c.JSON(http.StatusCreated, review)
}

// ListByReservation handles GET /review/room/:reservation_id.
func (h *ReviewHandler) ListByReservation(c echo.Context) error {
	id, ok := pathID(c, "reservation_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	reviews, err := h.Reviews.ListByReservation(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err, "list reviews failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": reviews})
}
