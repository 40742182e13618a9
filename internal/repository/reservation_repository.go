package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/farhandp/coworking-book/internal/model"
)

// ReservationRepo owns booking slots stored in the 'reservation'
// table. A slot is provisioned per room and time window; claiming
// and cancelling are expressed as single conditional UPDATE
// statements so concurrent requests serialize at the row level and
// at most one claim per slot ever succeeds.  All timestamps are
// stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning reservations and payments.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationColumns = "reservation_id, user_id, coworking_id, waktu_mulai, waktu_selesai, status_reservasi"

func scanReservation(row interface{ Scan(...interface{}) error }) (model.Reservation, error) {
	var res model.Reservation
	var userID sql.NullInt64
	err := row.Scan(&res.ID, &userID, &res.RoomID, &res.StartAt, &res.EndAt, &res.Status)
	if userID.Valid {
		uid := uint64(userID.Int64)
		res.UserID = &uid
	}
	return res, err
}

// Create provisions a new booking slot. When userID is nil the slot
// starts in UNCLAIMED; when a user is attached it starts in
// PENDING_PAYMENT. A window whose start is not strictly before its
// end fails with ErrValidation.
func (r *ReservationRepo) Create(ctx context.Context, roomID uint64, userID *uint64, startAt, endAt time.Time) (model.Reservation, error) {
	if !startAt.Before(endAt) {
		return model.Reservation{}, ErrValidation
	}
	status := model.ReservationUnclaimed
	if userID != nil {
		status = model.ReservationPendingPayment
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reservation (user_id, coworking_id, waktu_mulai, waktu_selesai, status_reservasi) VALUES (?,?,?,?,?)",
		userID, roomID, startAt.UTC(), endAt.UTC(), status)
	if err != nil {
		return model.Reservation{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Reservation{}, err
	}
	return model.Reservation{
		ID:      uint64(id),
		UserID:  userID,
		RoomID:  roomID,
		StartAt: startAt.UTC(),
		EndAt:   endAt.UTC(),
		Status:  status,
	}, nil
}

// GetByID returns a single reservation or ErrNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservation WHERE reservation_id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return res, ErrNotFound
	}
	return res, err
}

// GetTx is GetByID inside an existing transaction.
func (r *ReservationRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Reservation, error) {
	res, err := scanReservation(tx.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservation WHERE reservation_id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return res, ErrNotFound
	}
	return res, err
}

// RoomAvailability is one row of the availability view: a room, the
// overlapping slot record if any, and whether that slot can be
// claimed. Rooms without an overlapping slot report available=false
// with a null reservation_id; there is nothing to claim for them.
type RoomAvailability struct {
	BookingNumber string  `json:"booking_number"`
	ReservationID *uint64 `json:"reservation_id"`
	Available     bool    `json:"available"`
}

// ListAvailable builds the availability view for a [startAt, endAt)
// window. For every room it looks for a slot record overlapping the
// window; the room is claimable only when that slot is UNCLAIMED.
func (r *ReservationRepo) ListAvailable(ctx context.Context, startAt, endAt time.Time) ([]RoomAvailability, error) {
	if !startAt.Before(endAt) {
		return nil, ErrValidation
	}
	// Half-open overlap: slot.start < q.end AND slot.end > q.start.
	rows, err := r.db.QueryContext(ctx,
		`SELECT reservation_id, coworking_id, status_reservasi
		 FROM reservation
		 WHERE waktu_mulai < ? AND waktu_selesai > ?
		 ORDER BY reservation_id`,
		endAt.UTC(), startAt.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	type slot struct {
		id     uint64
		status string
	}
	// First overlapping slot per room wins, matching slot ids in order.
	byRoom := make(map[uint64]slot)
	for rows.Next() {
		var s slot
		var roomID uint64
		if err := rows.Scan(&s.id, &roomID, &s.status); err != nil {
			return nil, err
		}
		if _, ok := byRoom[roomID]; !ok {
			byRoom[roomID] = s
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	roomRows, err := r.db.QueryContext(ctx,
		"SELECT coworking_id, no_ruang FROM coworking ORDER BY no_ruang")
	if err != nil {
		return nil, err
	}
	defer roomRows.Close()
	view := make([]RoomAvailability, 0)
	for roomRows.Next() {
		var roomID uint64
		var number string
		if err := roomRows.Scan(&roomID, &number); err != nil {
			return nil, err
		}
		entry := RoomAvailability{BookingNumber: number}
		if s, ok := byRoom[roomID]; ok {
			id := s.id
			entry.ReservationID = &id
			entry.Available = s.status == model.ReservationUnclaimed
		}
		view = append(view, entry)
	}
	return view, roomRows.Err()
}

// Claim attaches a user to an unclaimed slot. It is a single
// conditional UPDATE: the row must still be UNCLAIMED with no user
// attached, otherwise zero rows match and the claim lost the race
// (or the id never existed) and ErrConflict is returned.
func (r *ReservationRepo) Claim(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE reservation SET user_id=?, status_reservasi=? WHERE reservation_id=? AND status_reservasi=? AND user_id IS NULL",
		userID, model.ReservationPendingPayment, id, model.ReservationUnclaimed)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// Cancel releases a slot back to UNCLAIMED and clears the occupying
// user. No status precondition is applied: cancelling is how both
// users and admins free a slot, whatever state it reached.
// ErrConflict is returned only when the id matches no row.
func (r *ReservationRepo) Cancel(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE reservation SET user_id=NULL, status_reservasi=? WHERE reservation_id=?",
		model.ReservationUnclaimed, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// SetStatus unconditionally overwrites a reservation's lifecycle
// state. The value must be one of the enumerated states. Returns
// ErrNotFound when the id does not resolve.
func (r *ReservationRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	if !model.ValidReservationStatus(status) {
		return ErrValidation
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE reservation SET status_reservasi=? WHERE reservation_id=?", status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Zero rows also happens when the status already matches; only a
		// missing row is an error.
		var one int
		if err := r.db.QueryRowContext(ctx,
			"SELECT 1 FROM reservation WHERE reservation_id=?", id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
	}
	return nil
}

// ActivateTx flips a reservation to ACTIVE within an existing
// transaction; used by payment verification so the payment and
// reservation commit together.
func (r *ReservationRepo) ActivateTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE reservation SET status_reservasi=? WHERE reservation_id=?",
		model.ReservationActive, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := tx.QueryRowContext(ctx,
			"SELECT 1 FROM reservation WHERE reservation_id=?", id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a reservation row. Returns ErrNotFound when absent.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM reservation WHERE reservation_id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ReservationDetail is a reservation joined with its room and, when
// claimed, the occupying user. Returned by the listing queries used
// in the dashboard tables.
type ReservationDetail struct {
	ID       uint64    `json:"reservation_id"`
	UserID   *uint64   `json:"user_id"`
	UserName *string   `json:"nama,omitempty"`
	RoomID   uint64    `json:"coworking_id"`
	Room     string    `json:"no_ruang"`
	StartAt  time.Time `json:"waktu_mulai"`
	EndAt    time.Time `json:"waktu_selesai"`
	Status   string    `json:"status_reservasi"`
}

const detailQuery = `SELECT r.reservation_id, r.user_id, u.nama, r.coworking_id, c.no_ruang,
                            r.waktu_mulai, r.waktu_selesai, r.status_reservasi
                     FROM reservation r
                     JOIN coworking c ON c.coworking_id = r.coworking_id
                     LEFT JOIN users u ON u.user_id = r.user_id`

func (r *ReservationRepo) queryDetails(ctx context.Context, q string, args ...interface{}) ([]ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	for rows.Next() {
		var d ReservationDetail
		var userID sql.NullInt64
		var name sql.NullString
		if err := rows.Scan(&d.ID, &userID, &name, &d.RoomID, &d.Room, &d.StartAt, &d.EndAt, &d.Status); err != nil {
			return nil, err
		}
		if userID.Valid {
			uid := uint64(userID.Int64)
			d.UserID = &uid
		}
		if name.Valid {
			n := name.String
			d.UserName = &n
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// ListAll returns every reservation with room and user details,
// newest window first.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]ReservationDetail, error) {
	return r.queryDetails(ctx, detailQuery+" ORDER BY r.waktu_mulai DESC")
}

// ListByUser returns the reservations claimed by one user, newest
// window first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	return r.queryDetails(ctx, detailQuery+" WHERE r.user_id=? ORDER BY r.waktu_mulai DESC", userID)
}

// ListPending returns claimed reservations still waiting for payment,
// newest window first.
func (r *ReservationRepo) ListPending(ctx context.Context) ([]ReservationDetail, error) {
	return r.queryDetails(ctx, detailQuery+" WHERE r.status_reservasi=? ORDER BY r.waktu_mulai DESC",
		model.ReservationPendingPayment)
}

// DashboardStats aggregates reservation counts for the admin
// dashboard.
type DashboardStats struct {
	Total     int64 `json:"totalReservasi"`
	Active    int64 `json:"totalActive"`
	Nonactive int64 `json:"totalNonactive"`
}

// Stats computes the dashboard counters. The three counts are
// independent read-only aggregates, so they run concurrently and the
// results are combined once all complete.
func (r *ReservationRepo) Stats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.QueryRowContext(gctx,
			"SELECT COUNT(*) FROM reservation").Scan(&stats.Total)
	})
	g.Go(func() error {
		return r.db.QueryRowContext(gctx,
			"SELECT COUNT(*) FROM reservation WHERE status_reservasi=?",
			model.ReservationActive).Scan(&stats.Active)
	})
	g.Go(func() error {
		return r.db.QueryRowContext(gctx,
			"SELECT COUNT(*) FROM reservation WHERE status_reservasi=?",
			model.ReservationPendingPayment).Scan(&stats.Nonactive)
	})
	if err := g.Wait(); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}
