package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/farhandp/coworking-book/internal/model"
)

func newMock(t *testing.T) (*ReservationRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewReservationRepo(db), mock
}

func TestCreateRejectsInvertedWindow(t *testing.T) {
	repo, _ := newMock(t)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := repo.Create(context.Background(), 1, nil, start, start)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("equal start/end: got %v, want ErrValidation", err)
	}
	_, err = repo.Create(context.Background(), 1, nil, start, start.Add(-time.Hour))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("end before start: got %v, want ErrValidation", err)
	}
}

func TestCreateStatusDependsOnUser(t *testing.T) {
	repo, mock := newMock(t)
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservation")).
		WithArgs(nil, uint64(7), start, end, model.ReservationUnclaimed).
		WillReturnResult(sqlmock.NewResult(41, 1))
	res, err := repo.Create(context.Background(), 7, nil, start, end)
	if err != nil {
		t.Fatalf("create unclaimed: %v", err)
	}
	if res.Status != model.ReservationUnclaimed || res.ID != 41 {
		t.Fatalf("got %+v, want UNCLAIMED id 41", res)
	}

	uid := uint64(3)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservation")).
		WithArgs(&uid, uint64(7), start, end, model.ReservationPendingPayment).
		WillReturnResult(sqlmock.NewResult(42, 1))
	res, err = repo.Create(context.Background(), 7, &uid, start, end)
	if err != nil {
		t.Fatalf("create claimed: %v", err)
	}
	if res.Status != model.ReservationPendingPayment {
		t.Fatalf("got status %q, want PENDING_PAYMENT", res.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestClaimWinsWhenRowStillUnclaimed(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservation SET user_id=?, status_reservasi=? WHERE reservation_id=? AND status_reservasi=? AND user_id IS NULL")).
		WithArgs(uint64(5), model.ReservationPendingPayment, uint64(10), model.ReservationUnclaimed).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Claim(context.Background(), 10, 5); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestClaimLosesRace(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservation SET user_id=?")).
		WithArgs(uint64(5), model.ReservationPendingPayment, uint64(10), model.ReservationUnclaimed).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Claim(context.Background(), 10, 5); !errors.Is(err, ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
}

func TestCancelReleasesAnyState(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservation SET user_id=NULL, status_reservasi=? WHERE reservation_id=?")).
		WithArgs(model.ReservationUnclaimed, uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Cancel(context.Background(), 10); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservation SET user_id=NULL")).
		WithArgs(model.ReservationUnclaimed, uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Cancel(context.Background(), 99); !errors.Is(err, ErrConflict) {
		t.Fatalf("missing row: got %v, want ErrConflict", err)
	}
}

func TestSetStatusValidatesEnum(t *testing.T) {
	repo, _ := newMock(t)
	if err := repo.SetStatus(context.Background(), 1, "PAID"); !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestSetStatusNoopIsNotAnError(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservation SET status_reservasi=?")).
		WithArgs(model.ReservationActive, uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM reservation WHERE reservation_id=?")).
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	if err := repo.SetStatus(context.Background(), 4, model.ReservationActive); err != nil {
		t.Fatalf("same-value update: %v", err)
	}
}

func TestSetStatusMissingRow(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservation SET status_reservasi=?")).
		WithArgs(model.ReservationCancelled, uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM reservation WHERE reservation_id=?")).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	if err := repo.SetStatus(context.Background(), 404, model.ReservationCancelled); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestListAvailableView(t *testing.T) {
	repo, mock := newMock(t)
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	// Room 1 has an unclaimed slot, room 2 a claimed one, room 3 none.
	mock.ExpectQuery(regexp.QuoteMeta("FROM reservation")).
		WithArgs(end, start).
		WillReturnRows(sqlmock.NewRows([]string{"reservation_id", "coworking_id", "status_reservasi"}).
			AddRow(11, 1, model.ReservationUnclaimed).
			AddRow(12, 2, model.ReservationPendingPayment).
			AddRow(13, 1, model.ReservationUnclaimed))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT coworking_id, no_ruang FROM coworking")).
		WillReturnRows(sqlmock.NewRows([]string{"coworking_id", "no_ruang"}).
			AddRow(1, "A-101").
			AddRow(2, "A-102").
			AddRow(3, "B-201"))

	view, err := repo.ListAvailable(context.Background(), start, end)
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(view) != 3 {
		t.Fatalf("got %d rows, want 3", len(view))
	}
	if !view[0].Available || view[0].ReservationID == nil || *view[0].ReservationID != 11 {
		t.Fatalf("room A-101: got %+v, want claimable slot 11", view[0])
	}
	if view[1].Available {
		t.Fatalf("room A-102 should not be claimable: %+v", view[1])
	}
	if view[2].Available || view[2].ReservationID != nil {
		t.Fatalf("room B-201 has no slot, should be unavailable: %+v", view[2])
	}
}

func TestListAvailableRejectsInvertedWindow(t *testing.T) {
	repo, _ := newMock(t)
	at := time.Now()
	if _, err := repo.ListAvailable(context.Background(), at, at); !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestStatsRunsThreeAggregates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	// Aggregates run concurrently, so arrival order is not fixed. The
	// total-count pattern is anchored so a filtered count can never
	// consume it.
	mock.MatchExpectationsInOrder(false)
	repo := NewReservationRepo(db)

	mock.ExpectQuery("^" + regexp.QuoteMeta("SELECT COUNT(*) FROM reservation") + "$").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reservation WHERE status_reservasi=?")).
		WithArgs(model.ReservationActive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reservation WHERE status_reservasi=?")).
		WithArgs(model.ReservationPendingPayment).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	stats, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 9 || stats.Active != 4 || stats.Nonactive != 2 {
		t.Fatalf("got %+v, want {9 4 2}", stats)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListByUserJoinsRoomAndUser(t *testing.T) {
	repo, mock := newMock(t)
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.user_id=?")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{
			"reservation_id", "user_id", "nama", "coworking_id", "no_ruang",
			"waktu_mulai", "waktu_selesai", "status_reservasi",
		}).AddRow(20, 5, "Budi", 1, "A-101", start, start.Add(time.Hour), model.ReservationActive))

	details, err := repo.ListByUser(context.Background(), 5)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("got %d rows, want 1", len(details))
	}
	d := details[0]
	if d.Room != "A-101" || d.UserName == nil || *d.UserName != "Budi" || d.Status != model.ReservationActive {
		t.Fatalf("unexpected detail row: %+v", d)
	}
}
