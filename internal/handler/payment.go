package handler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/farhandp/coworking-book/internal/model"
	"github.com/farhandp/coworking-book/internal/queue"
	"github.com/farhandp/coworking-book/internal/repository"
	queue_publisher "github.com/farhandp/coworking-book/internal/service"
)

// PaymentHandler serves payment submission and the admin verification
// queue. Verify and reject write the payment decision, the
// reservation transition and the user notification in one
// transaction, so a crash can never leave a verified payment on a
// still-pending reservation.
type PaymentHandler struct {
	Payments      *repository.PaymentRepo
	Reservations  *repository.ReservationRepo
	Notifications *repository.NotificationRepo
}

func NewPaymentHandler(pay *repository.PaymentRepo, res *repository.ReservationRepo, notifs *repository.NotificationRepo) *PaymentHandler {
	if pay == nil || res == nil || notifs == nil {
		panic("nil repository passed to NewPaymentHandler")
	}
	return &PaymentHandler{Payments: pay, Reservations: res, Notifications: notifs}
}

type createPaymentReq struct {
	ReservationID uint64  `json:"reservation_id"`
	Amount        float64 `json:"jumlah_pembayaran"`
	Method        string  `json:"metode_pembayaran"`
}

// Create handles POST /payment: a user submits proof of payment for a
// claimed reservation. The reservation must exist, belong to someone,
// and still be awaiting payment.
func (h *PaymentHandler) Create(c echo.Context) error {
	var req createPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ReservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation_id is required"})
	}
	ctx := c.Request().Context()
	res, err := h.Reservations.GetByID(ctx, req.ReservationID)
	if err != nil {
		return repoError(c, err, "reservation lookup failed")
	}
	if res.UserID == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is not claimed"})
	}
	if res.Status != model.ReservationPendingPayment {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is not awaiting payment"})
	}
	payment, err := h.Payments.Create(ctx, req.ReservationID, req.Amount, req.Method)
	if err != nil {
		return repoError(c, err, "create payment failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"payment": payment})
}

// ListAll handles GET /admin/payments.
func (h *PaymentHandler) ListAll(c echo.Context) error {
	details, err := h.Payments.ListAll(c.Request().Context())
	if err != nil {
		return repoError(c, err, "list payments failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// ListPending handles GET /admin/payments/pending.
func (h *PaymentHandler) ListPending(c echo.Context) error {
	details, err := h.Payments.ListPending(c.Request().Context())
	if err != nil {
		return repoError(c, err, "list pending payments failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// Get handles GET /admin/payments/:payment_id.
func (h *PaymentHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "payment_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	payment, err := h.Payments.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err, "payment lookup failed")
	}
	return c.JSON(http.StatusOK, payment)
}

// ListByReservation handles GET /payment/reservasi/:reservation_id.
func (h *PaymentHandler) ListByReservation(c echo.Context) error {
	id, ok := pathID(c, "reservation_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	payments, err := h.Payments.ListByReservation(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err, "list payments failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": payments})
}

// Verify handles POST /admin/payments/:payment_id/verify: mark the
// payment VERIFIED, activate its reservation and notify the user, all
// in one transaction. The payment.verified event is published only
// after commit.
func (h *PaymentHandler) Verify(c echo.Context) error {
	id, ok := pathID(c, "payment_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := c.Request().Context()
	tx, err := h.Payments.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin transaction failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	payment, err := h.Payments.GetTx(ctx, tx, id)
	if err != nil {
		return repoError(c, err, "payment lookup failed")
	}
	if payment.Status != model.PaymentPending {
		return c.JSON(http.StatusConflict, echo.Map{"error": "payment already decided"})
	}
	res, err := h.Reservations.GetTx(ctx, tx, payment.ReservationID)
	if err != nil {
		return repoError(c, err, "reservation lookup failed")
	}
	if res.UserID == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is not claimed"})
	}

	if err := h.Payments.SetStatusTx(ctx, tx, id, model.PaymentVerified); err != nil {
		return repoError(c, err, "update payment failed")
	}
	if err := h.Reservations.ActivateTx(ctx, tx, payment.ReservationID); err != nil {
		return repoError(c, err, "activate reservation failed")
	}
	if err := h.Notifications.AppendTx(ctx, tx, *res.UserID,
		"Pembayaran Terverifikasi",
		fmt.Sprintf("Pembayaran untuk reservasi #%d telah diverifikasi. Reservasi Anda aktif.", payment.ReservationID),
		model.NotifPaymentVerified); err != nil {
		return repoError(c, err, "write notification failed")
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	_ = queue_publisher.PublishPaymentVerified(ctx, queue.PaymentVerifiedEvent{
		PaymentID:     payment.ID,
		ReservationID: payment.ReservationID,
		UserID:        *res.UserID,
		Amount:        payment.Amount,
		Method:        payment.Method,
		Reference:     payment.Reference,
		VerifiedBy:    adminID,
		VerifiedAt:    time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "payment verified"})
}

// Reject handles POST /admin/payments/:payment_id/reject: mark the
// payment REJECTED and notify the user. The reservation keeps waiting
// for payment so the user can try again.
func (h *PaymentHandler) Reject(c echo.Context) error {
	id, ok := pathID(c, "payment_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}

	ctx := c.Request().Context()
	tx, err := h.Payments.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin transaction failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	payment, err := h.Payments.GetTx(ctx, tx, id)
	if err != nil {
		return repoError(c, err, "payment lookup failed")
	}
	if payment.Status != model.PaymentPending {
		return c.JSON(http.StatusConflict, echo.Map{"error": "payment already decided"})
	}
	res, err := h.Reservations.GetTx(ctx, tx, payment.ReservationID)
	if err != nil {
		return repoError(c, err, "reservation lookup failed")
	}

	if err := h.Payments.SetStatusTx(ctx, tx, id, model.PaymentRejected); err != nil {
		return repoError(c, err, "update payment failed")
	}
	if res.UserID != nil {
		if err := h.Notifications.AppendTx(ctx, tx, *res.UserID,
			"Pembayaran Ditolak",
			fmt.Sprintf("Pembayaran untuk reservasi #%d ditolak. Silakan unggah ulang bukti pembayaran.", payment.ReservationID),
			model.NotifPaymentRejected); err != nil {
			return repoError(c, err, "write notification failed")
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	log.Printf("payment: rejected payment %d for reservation %d", payment.ID, payment.ReservationID)
	return c.JSON(http.StatusOK, echo.Map{"message": "payment rejected"})
}

// Stats handles GET /admin/payments/stats.
func (h *PaymentHandler) Stats(c echo.Context) error {
	stats, err := h.Payments.Stats(c.Request().Context())
	if err != nil {
		return repoError(c, err, "payment stats failed")
	}
	return c.JSON(http.StatusOK, stats)
}
