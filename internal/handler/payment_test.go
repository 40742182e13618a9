package handler

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/farhandp/coworking-book/internal/model"
	"github.com/farhandp/coworking-book/internal/repository"
)

func newPaymentHandler(t *testing.T) (*PaymentHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPaymentHandler(
		repository.NewPaymentRepo(db),
		repository.NewReservationRepo(db),
		repository.NewNotificationRepo(db),
	), mock
}

func paymentRow(id, reservationID uint64, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"payment_id", "reservation_id", "jumlah_pembayaran", "metode_pembayaran",
		"reference", "waktu_pembayaran", "status_pembayaran",
	}).AddRow(id, reservationID, 150000.0, "transfer", "ref-1", time.Now().UTC(), status)
}

func reservationRow(id uint64, userID interface{}, status string) *sqlmock.Rows {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"reservation_id", "user_id", "coworking_id", "waktu_mulai", "waktu_selesai", "status_reservasi",
	}).AddRow(id, userID, 1, start, start.Add(time.Hour), status)
}

func TestVerifyActivatesReservation(t *testing.T) {
	h, mock := newPaymentHandler(t)
	e := echo.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM payment WHERE payment_id=?")).
		WithArgs(uint64(3)).
		WillReturnRows(paymentRow(3, 8, model.PaymentPending))
	mock.ExpectQuery(regexp.QuoteMeta("FROM reservation WHERE reservation_id=?")).
		WithArgs(uint64(8)).
		WillReturnRows(reservationRow(8, 5, model.ReservationPendingPayment))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE payment SET status_pembayaran=?")).
		WithArgs(model.PaymentVerified, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservation SET status_reservasi=?")).
		WithArgs(model.ReservationActive, uint64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notification")).
		WithArgs(uint64(5), "Pembayaran Terverifikasi", sqlmock.AnyArg(), model.NotifPaymentVerified).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	c, rec := newContext(e, http.MethodPost, "/admin/payments/3/verify", "")
	c.SetParamNames("payment_id")
	c.SetParamValues("3")
	c.Set("user_id", uint64(1))
	if err := h.Verify(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestVerifyDecidedPaymentReturns409(t *testing.T) {
	h, mock := newPaymentHandler(t)
	e := echo.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM payment WHERE payment_id=?")).
		WithArgs(uint64(3)).
		WillReturnRows(paymentRow(3, 8, model.PaymentVerified))
	mock.ExpectRollback()

	c, rec := newContext(e, http.MethodPost, "/admin/payments/3/verify", "")
	c.SetParamNames("payment_id")
	c.SetParamValues("3")
	c.Set("user_id", uint64(1))
	if err := h.Verify(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("got %d, want 409: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestRejectKeepsReservationWaiting(t *testing.T) {
	h, mock := newPaymentHandler(t)
	e := echo.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM payment WHERE payment_id=?")).
		WithArgs(uint64(4)).
		WillReturnRows(paymentRow(4, 8, model.PaymentPending))
	mock.ExpectQuery(regexp.QuoteMeta("FROM reservation WHERE reservation_id=?")).
		WithArgs(uint64(8)).
		WillReturnRows(reservationRow(8, 5, model.ReservationPendingPayment))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE payment SET status_pembayaran=?")).
		WithArgs(model.PaymentRejected, uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notification")).
		WithArgs(uint64(5), "Pembayaran Ditolak", sqlmock.AnyArg(), model.NotifPaymentRejected).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	c, rec := newContext(e, http.MethodPost, "/admin/payments/4/reject", "")
	c.SetParamNames("payment_id")
	c.SetParamValues("4")
	if err := h.Reject(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreatePaymentRequiresClaimedReservation(t *testing.T) {
	h, mock := newPaymentHandler(t)
	e := echo.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM reservation WHERE reservation_id=?")).
		WithArgs(uint64(8)).
		WillReturnRows(reservationRow(8, nil, model.ReservationUnclaimed))

	body := `{"reservation_id":8,"jumlah_pembayaran":150000,"metode_pembayaran":"transfer"}`
	c, rec := newContext(e, http.MethodPost, "/payment", body)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("got %d, want 409: %s", rec.Code, rec.Body.String())
	}
}
