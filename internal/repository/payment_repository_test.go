package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/farhandp/coworking-book/internal/model"
)

func newPaymentMock(t *testing.T) (*PaymentRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPaymentRepo(db), mock
}

func TestPaymentCreateValidates(t *testing.T) {
	repo, _ := newPaymentMock(t)
	if _, err := repo.Create(context.Background(), 1, 0, "transfer"); !errors.Is(err, ErrValidation) {
		t.Fatalf("zero amount: got %v, want ErrValidation", err)
	}
	if _, err := repo.Create(context.Background(), 1, -5, "transfer"); !errors.Is(err, ErrValidation) {
		t.Fatalf("negative amount: got %v, want ErrValidation", err)
	}
	if _, err := repo.Create(context.Background(), 1, 100, ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty method: got %v, want ErrValidation", err)
	}
}

func TestPaymentCreateStartsPending(t *testing.T) {
	repo, mock := newPaymentMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payment")).
		WithArgs(uint64(8), 150000.0, "transfer", sqlmock.AnyArg(), sqlmock.AnyArg(), model.PaymentPending).
		WillReturnResult(sqlmock.NewResult(3, 1))

	p, err := repo.Create(context.Background(), 8, 150000, "transfer")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Status != model.PaymentPending || p.ID != 3 || p.Reference == "" {
		t.Fatalf("got %+v, want PENDING id 3 with reference", p)
	}
}

func TestPaymentStatsRunsFourAggregates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	// Aggregates run concurrently, so arrival order is not fixed. The
	// total-count pattern is anchored so a filtered count can never
	// consume it.
	mock.MatchExpectationsInOrder(false)
	repo := NewPaymentRepo(db)

	mock.ExpectQuery("^" + regexp.QuoteMeta("SELECT COUNT(*) FROM payment") + "$").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM payment WHERE waktu_pembayaran >= ? AND waktu_pembayaran < ?")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM payment WHERE status_pembayaran=?")).
		WithArgs(model.PaymentPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM payment WHERE status_pembayaran=?")).
		WithArgs(model.PaymentVerified).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	stats, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 12 || stats.Today != 3 || stats.Pending != 5 || stats.Verified != 6 {
		t.Fatalf("got %+v, want {12 3 5 6}", stats)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestVerifyCommitsPaymentAndReservationTogether(t *testing.T) {
	repo, mock := newPaymentMock(t)
	resRepo := NewReservationRepo(repo.DB())
	notifRepo := NewNotificationRepo(repo.DB())
	ctx := context.Background()

	mock.ExpectBegin()
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

	tx, err := repo.DB().BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := repo.SetStatusTx(ctx, tx, 3, model.PaymentVerified); err != nil {
		t.Fatalf("set payment status: %v", err)
	}
	if err := resRepo.ActivateTx(ctx, tx, 8); err != nil {
		t.Fatalf("activate reservation: %v", err)
	}
	if err := notifRepo.AppendTx(ctx, tx, 5, "Pembayaran Terverifikasi", "Reservasi Anda aktif.", model.NotifPaymentVerified); err != nil {
		t.Fatalf("append notification: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestVerifyRollsBackWhenActivationFails(t *testing.T) {
	repo, mock := newPaymentMock(t)
	resRepo := NewReservationRepo(repo.DB())
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE payment SET status_pembayaran=?")).
		WithArgs(model.PaymentVerified, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservation SET status_reservasi=?")).
		WithArgs(model.ReservationActive, uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM reservation WHERE reservation_id=?")).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectRollback()

	tx, err := repo.DB().BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := repo.SetStatusTx(ctx, tx, 3, model.PaymentVerified); err != nil {
		t.Fatalf("set payment status: %v", err)
	}
	if err := resRepo.ActivateTx(ctx, tx, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
